package cmd

import (
	"fmt"

	"tracklist/db"
	"tracklist/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the catalog tables and load sample tracks",
	Long:  `Create the Chinook artists/albums/tracks tables when missing and insert a small sample catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		gdb, err := db.Open(cfg)
		if err != nil {
			logger.Fatal("failed to open catalog", logger.ErrorField(err))
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			logger.Fatal("failed to migrate catalog", logger.ErrorField(err))
		}
		n, err := db.Seed(gdb, db.SampleCatalog)
		if err != nil {
			logger.Fatal("failed to seed catalog", logger.ErrorField(err))
		}
		fmt.Printf("Inserted %d tracks into %s\n", n, cfg.DBPath)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
