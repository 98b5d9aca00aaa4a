/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/render"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat <file>...",
	Short: "Decode capture files and print their records",
	Long: `Decode one or more capture files and print each record to stdout.

Records print as JSON lines by default; --format=text prints a compact
one-line summary per record instead. Record kinds this build does not
decode are skipped and logged at debug level.

Examples:
  tickwire cat trades.dbn
  tickwire cat --format=text --limit=20 trades.dbn.zst quotes.dbn`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt64("limit")
		if format != "json" && format != "text" {
			return fmt.Errorf("unknown format %q (want json or text)", format)
		}

		log := loggerFromContext(cmd)

		var printed int64
		for _, path := range args {
			if limit > 0 && printed >= limit {
				break
			}
			if err := catFile(cmd, path, format, limit, &printed, log); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func catFile(cmd *cobra.Command, path, format string, limit int64, printed *int64, log zerolog.Logger) error {
	closer, md, dec, err := openCapture(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	if md != nil {
		log.Debug().
			Str("dataset", md.Dataset).
			Str("schema", md.Schema.String()).
			Uint8("version", md.Version).
			Msg("capture metadata")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for dec.Next() {
		if limit > 0 && *printed >= limit {
			return nil
		}
		rec := dec.Record()
		if sk, ok := rec.(*dbn.SkippedRecord); ok {
			log.Debug().
				Str("rtype", sk.Header().RType.String()).
				Int("body_bytes", sk.BodyLen).
				Int64("offset", dec.Offset()).
				Msg("skipped record of unknown kind")
			continue
		}
		switch format {
		case "text":
			fmt.Fprintln(cmd.OutOrStdout(), render.Text(rec))
		default:
			if err := enc.Encode(render.View(rec)); err != nil {
				return err
			}
		}
		*printed++
	}
	return dec.Err()
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().String("format", "json", "Output format: json or text")
	catCmd.Flags().Int64("limit", 0, "Stop after printing this many records (0 = no limit)")
}
