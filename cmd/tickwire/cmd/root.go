/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/tickwire/pkg/config"
	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/source"
)

type ctxKey string

const (
	ctxConfig ctxKey = "config"
	ctxLogger ctxKey = "logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tickwire",
	Short: "tickwire - market data capture toolkit",
	Long: `tickwire decodes, inspects, ingests and serves binary market data
captures. Captures may be plain or zstd-compressed; both are detected
automatically.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Best-effort: a missing .env file is not an error.
		_ = godotenv.Load()

		cfgPath, _ := cmd.Flags().GetString("config")
		if cfgPath == "" {
			cfgPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(cfgPath) {
			loaded, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			cfg.Logging.Pretty = true
		}

		logger := newLogger(cfg.Logging)

		ctx := context.WithValue(cmd.Context(), ctxConfig, cfg)
		ctx = context.WithValue(ctx, ctxLogger, logger)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Human-friendly console logging")
}

func newLogger(cfg config.Logging) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = os.Stderr
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(ctxConfig).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func loggerFromContext(cmd *cobra.Command) zerolog.Logger {
	if log, ok := cmd.Context().Value(ctxLogger).(zerolog.Logger); ok {
		return log
	}
	return zerolog.Nop()
}

// openCapture opens a capture file for record streaming. The metadata
// preamble, if the file carries one, is consumed so the decoder starts at
// the first record.
func openCapture(path string) (io.Closer, *dbn.Metadata, *dbn.Decoder, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	br := bufio.NewReader(rc)

	var md *dbn.Metadata
	magic, err := br.Peek(len(dbn.MetadataMagic))
	if err == nil && string(magic) == dbn.MetadataMagic {
		md, err = dbn.ReadMetadata(br)
		if err != nil {
			rc.Close()
			return nil, nil, nil, err
		}
	}
	return rc, md, dbn.NewDecoder(br), nil
}
