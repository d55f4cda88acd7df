package cmd

import (
	"fmt"
	"os"

	"tracklist/config"
	"tracklist/logger"

	"github.com/spf13/cobra"
)

var (
	portFlag  int
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "tracklist",
	Short: "tracklist is a local-network media library browser.",
	Run:   runServer,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&portFlag, "port", "p", 0, "The port for the web server (default $PORT or 3000)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Tell browsers they are talking to a debug build")
}

// loadConfig reads the environment and applies flags that were set explicitly.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("port") {
		cfg.Port = portFlag
	}
	if cmd.Flags().Changed("debug") {
		cfg.DebugMode = debugFlag
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	return cfg
}

// Execute executes the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
