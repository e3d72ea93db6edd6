// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/category"
	"github.com/pdiddy/pubsync/internal/fetch"
	"github.com/pdiddy/pubsync/internal/metrics"
	"github.com/pdiddy/pubsync/internal/reconcile"
	"github.com/pdiddy/pubsync/internal/store"
	"github.com/pdiddy/pubsync/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full pipeline: fetch, reconcile, categorize, export",
	Long: `Update runs the whole pipeline end to end: fetch records and author
metrics from the enabled catalogs, reconcile them into one canonical record
per publication, classify each publication by topic, merge the author-level
metrics, validate the result, archive the run in SQLite, and export the
publications JSON (backing up the previous export first).`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	out, err := fetchAll(cmd.Context(), cfg.Fetch)
	if err != nil {
		return err
	}
	if err := writeCache(cfg.Store.DataDir, out); err != nil {
		return err
	}

	return runPipeline(cmd.Context(), cfg, out)
}

// runPipeline drives the offline stages over fetched (or cached) source
// output: reconcile, categorize, metrics merge, validate, archive, export.
func runPipeline(ctx context.Context, cfg types.PipelineConfig, out fetch.Output) error {
	base, bySource := splitBase(out.Records, cfg.Reconcile)
	if len(base) == 0 {
		return fmt.Errorf("no base records: every configured source came back empty")
	}

	records, clusters, _ := reconcile.Reconcile(base, bySource, cfg.Reconcile, os.Stderr)

	scorer, err := category.NewScorer(cfg.Category)
	if err != nil {
		return err
	}
	scorer.Apply(records)

	data := types.Dataset{
		Publications: records,
		Metrics:      metrics.Merge(out.Metrics),
		LastUpdated:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := metrics.Validate(data, cfg.Validation, os.Stderr); err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(ctx, data, clusters)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "archived run %d (%d publications)\n", runID, len(records))

	path, err := s.Export(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s\n\n", path)

	store.WriteSummary(os.Stdout, data)
	return nil
}

// splitBase picks the records of the most trusted source with any records
// as the reconciliation base; the remaining sources become match candidates.
func splitBase(records map[string][]types.Record, cfg types.ReconcileConfig) ([]types.Record, map[string][]types.Record) {
	cfg = cfg.Defaulted()

	var baseSource string
	for _, source := range cfg.SourcePriority {
		if len(records[source]) > 0 {
			baseSource = source
			break
		}
	}
	if baseSource == "" {
		return nil, nil
	}

	bySource := make(map[string][]types.Record, len(records))
	for source, recs := range records {
		if source != baseSource {
			bySource[source] = recs
		}
	}
	return records[baseSource], bySource
}
