/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/tickwire/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config with a generated API key",
	Long: `Write a starter configuration file with a freshly generated API key.

The config lands at the default path unless --config points elsewhere.
An existing config is never overwritten without --force.

Examples:
  tickwire init
  tickwire init --config=./tickwire.yaml --data-dir=./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if cfgPath == "" {
			cfgPath = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(cfgPath) && !force {
			cmd.Printf("Config already exists at %s (use --force to overwrite)\n", cfgPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(cfgPath, dataDir)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote config to %s\n", cfgPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("data-dir", "", "Data directory to record in the config")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")
}
