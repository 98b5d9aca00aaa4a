/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/tickwire/pkg/tickstore"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest capture files into the tick store",
	Long: `Decode one or more capture files and write their records into the
local tick store, keyed by instrument and event time. Each file produces
an ingest manifest recording what was written.

Re-ingesting the same file is idempotent: records land on the same keys
and counts do not double.

Examples:
  tickwire ingest trades.dbn
  tickwire ingest --data-dir=./data captures/*.dbn.zst`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		log := loggerFromContext(cmd)

		if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
			cfg.DataDir = dataDir
		}

		store, err := tickstore.Open(cfg.DataDir, tickstore.Options{
			BatchSize: cfg.Ingest.BatchSize,
			Logger:    &log,
		})
		if err != nil {
			return fmt.Errorf("open tick store: %w", err)
		}
		defer store.Close()

		for _, path := range args {
			closer, _, dec, err := openCapture(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			manifest, err := store.Ingest(dec, filepath.Base(path))
			closer.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cmd.Printf("%s: job %s, %d records (%d skipped)\n",
				path, manifest.ID, manifest.Records, manifest.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().String("data-dir", "", "Tick store directory (overrides config)")
}
