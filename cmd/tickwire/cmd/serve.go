/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/tickwire/pkg/api"
	"github.com/ssargent/tickwire/pkg/tickstore"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the tickwire REST API server over the local tick store.

The server exposes record scans, instrument and job listings, store
statistics, Prometheus metrics and Swagger documentation. If the config
carries an API key, the /api/v1 routes require it via the X-API-Key
header.

Examples:
  tickwire serve
  tickwire serve --port=9300 --data-dir=./data --api-key=mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		log := loggerFromContext(cmd)

		if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
			cfg.DataDir = dataDir
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}
		if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
			cfg.Server.APIKey = apiKey
		}

		store, err := tickstore.Open(cfg.DataDir, tickstore.Options{
			BatchSize: cfg.Ingest.BatchSize,
			Logger:    &log,
		})
		if err != nil {
			return fmt.Errorf("open tick store: %w", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverConfig := api.ServerConfig{
			Port:   cfg.Server.Port,
			Bind:   cfg.Server.Bind,
			APIKey: cfg.Server.APIKey,
		}
		return api.StartServer(ctx, store, serverConfig, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("data-dir", "", "Tick store directory (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for the /api/v1 routes (overrides config)")
}
