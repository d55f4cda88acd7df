package cmd

import (
	"context"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"time"

	"tracklist/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioPut    string
	minioKey    string
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Manage the static asset bucket",
	Long:  `List the objects in the MinIO asset bucket, or upload a file that the server will serve when it is not embedded.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if !cfg.MinioEnabled() {
			log.Fatal("MINIO_ENDPOINT is not set")
		}
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := storage.NewMinioAssetStore(ctx, cfg)
		if err != nil {
			log.Fatalf("无法连接到MinIO: %v", err)
		}

		if minioPut != "" {
			size, err := store.Upload(ctx, minioPut, minioKey, mime.TypeByExtension(filepath.Ext(minioPut)))
			if err != nil {
				log.Fatalf("上传失败: %v", err)
			}
			fmt.Printf("Uploaded %s (%d bytes)\n", minioPut, size)
			return
		}

		objects, err := store.List(ctx, minioPrefix)
		if err != nil {
			log.Fatalf("列出文件失败: %v", err)
		}
		for _, obj := range objects {
			fmt.Printf("%10d  %s  %s\n", obj.Size, obj.LastModified.Format(time.RFC3339), obj.Key)
		}
		fmt.Printf("%d objects\n", len(objects))
	},
}

func init() {
	minioCmd.Flags().StringVar(&minioPrefix, "prefix", "", "Only list objects under this prefix")
	minioCmd.Flags().StringVar(&minioPut, "put", "", "Upload this local file")
	minioCmd.Flags().StringVar(&minioKey, "key", "", "Object key for --put (default: file name)")
	rootCmd.AddCommand(minioCmd)
}
