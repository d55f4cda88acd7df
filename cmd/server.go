package cmd

import (
	"tracklist/logger"
	"tracklist/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tracklist HTTP server",
	Long:  `Start the HTTP server that serves the track list page, its fragments and the /events live stream.`,
	Run:   runServer,
}

func runServer(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	if err := server.Start(cfg); err != nil {
		logger.Fatal("server exited", logger.ErrorField(err))
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
