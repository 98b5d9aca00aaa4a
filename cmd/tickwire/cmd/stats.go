/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/tickwire/pkg/dbn"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file>...",
	Short: "Summarize capture files by record kind",
	Long: `Scan one or more capture files and print per-kind record counts.

Files are scanned concurrently; --jobs bounds the number of files read
at once.

Examples:
  tickwire stats trades.dbn
  tickwire stats --jobs=2 captures/*.dbn.zst`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs <= 0 {
			jobs = runtime.NumCPU()
		}

		var (
			mu      sync.Mutex
			byKind  = map[string]uint64{}
			records uint64
			skipped uint64
		)

		var g errgroup.Group
		g.SetLimit(jobs)
		for _, path := range args {
			path := path
			g.Go(func() error {
				counts, recs, skips, err := statFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				mu.Lock()
				for kind, n := range counts {
					byKind[kind] += n
				}
				records += recs
				skipped += skips
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		names := make([]string, 0, len(byKind))
		for kind := range byKind {
			names = append(names, kind)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tCOUNT")
		for _, kind := range names {
			fmt.Fprintf(tw, "%s\t%d\n", kind, byKind[kind])
		}
		fmt.Fprintf(tw, "total\t%d\n", records)
		if skipped > 0 {
			fmt.Fprintf(tw, "skipped\t%d\n", skipped)
		}
		return tw.Flush()
	},
}

func statFile(path string) (map[string]uint64, uint64, uint64, error) {
	closer, _, dec, err := openCapture(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer closer.Close()

	counts := map[string]uint64{}
	var records, skipped uint64
	for dec.Next() {
		rec := dec.Record()
		records++
		if _, ok := rec.(*dbn.SkippedRecord); ok {
			skipped++
		}
		counts[rec.Header().RType.String()]++
	}
	if err := dec.Err(); err != nil {
		return nil, 0, 0, err
	}
	return counts, records, skipped, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int("jobs", 0, "Concurrent files to scan (0 = number of CPUs)")
}
