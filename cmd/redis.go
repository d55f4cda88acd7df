package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tracklist/cache"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `Check the Redis connection used by the event relay with a set/get/delete round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if !cfg.RedisEnabled() {
			log.Fatal("REDIS_HOST is not set")
		}
		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cache.CheckRedis(ctx, client); err != nil {
			log.Fatalf("Redis操作测试失败: %v", err)
		}
		fmt.Println("Redis基本操作测试成功！")
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <message>",
	Short: "Publish an event to every connected browser through Redis",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if !cfg.RedisEnabled() {
			log.Fatal("REDIS_HOST is not set")
		}

		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		receivers, err := cache.PublishEvent(ctx, client, cfg.RedisEventsChannel, strings.Join(args, " "))
		if err != nil {
			log.Fatalf("publish failed: %v", err)
		}
		fmt.Printf("Published to %s (%d relays listening)\n", cfg.RedisEventsChannel, receivers)
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	rootCmd.AddCommand(publishCmd)
}
