// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/category"
	"github.com/pdiddy/pubsync/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report duplicate clusters and classification diagnostics",
	Long: `Report inspects the latest archived run: the duplicate clusters the
resolver collapsed, and the publications whose topic classification looks
uncertain (low confidence, spread across categories, or high entropy).`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()

	clusters, err := s.Clusters(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("duplicate clusters: %d\n", len(clusters))
	for _, c := range clusters {
		fmt.Printf("\n  %q\n", c.NormalizedTitle)
		for _, m := range c.Members {
			verdict := "removed"
			if m.Kept {
				verdict = "kept"
			}
			fmt.Printf("    %-7s %q doctype=%s citations=%d sources=%v\n",
				verdict, m.Record.Title, m.Record.DocType, m.Record.CitationCount, m.Record.SourceNames)
		}
	}

	data, err := s.LoadDataset(ctx)
	if err != nil {
		return err
	}

	flagged := 0
	for _, r := range data.Publications {
		if len(r.CategoryProbabilities) == 0 {
			continue
		}
		d := category.Diagnose(r.CategoryProbabilities)
		if !d.Flagged() {
			continue
		}
		if flagged == 0 {
			fmt.Println("\nuncertain classifications:")
		}
		flagged++
		fmt.Printf("  %q -> %s (max p=%.2f, entropy=%.2f", r.Title, r.Category, d.MaxProbability, d.Entropy)
		if d.LowConfidence {
			fmt.Print(", low confidence")
		}
		if d.MultiCategory {
			fmt.Print(", multi-category")
		}
		if d.HighEntropy {
			fmt.Print(", high entropy")
		}
		fmt.Println(")")
	}
	fmt.Fprintf(os.Stderr, "\n%d of %d publications flagged\n", flagged, len(data.Publications))
	return nil
}
