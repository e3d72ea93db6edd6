// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Stats summarizes one reconciliation run.
type Stats struct {
	// Input is the number of base records offered to the pipeline.
	Input int

	// SkippedMalformed counts base records excluded for lacking a title.
	SkippedMalformed int

	// MatchedBySource counts accepted cross-source matches per catalog.
	MatchedBySource map[string]int

	// DuplicatesRemoved counts records discarded by duplicate resolution.
	DuplicatesRemoved int
}

// Reconcile runs the full record-reconciliation pipeline: for every base
// record it finds the best match in each source's candidate list, merges the
// matches under the field-arbitration policy, collapses duplicates, and
// returns the canonical set sorted by year descending.
//
// Data-quality problems never abort the batch. Base records without a title
// are skipped and counted; a source with no acceptable match simply does not
// contribute fields. Inputs are read-only; every returned record is freshly
// built. Progress and warnings go to w.
func Reconcile(base []types.Record, bySource map[string][]types.Record, cfg types.ReconcileConfig, w io.Writer) ([]types.Record, []Cluster, Stats) {
	cfg = cfg.Defaulted()

	stats := Stats{
		Input:           len(base),
		MatchedBySource: make(map[string]int),
	}

	var merged []types.Record
	for _, record := range base {
		if strings.TrimSpace(record.Title) == "" {
			stats.SkippedMalformed++
			fmt.Fprintf(w, "warning: skipping record with empty title (id=%q)\n", record.ID)
			continue
		}

		matches := make(map[string]*types.Record, len(cfg.SourcePriority))
		for _, source := range cfg.SourcePriority {
			candidates := bySource[source]
			if len(candidates) == 0 {
				continue
			}
			if m := findBestMatch(record, candidates, cfg.MatchThreshold); m != nil {
				matches[source] = m
				stats.MatchedBySource[source]++
			}
		}

		merged = append(merged, merge(record, matches, cfg.SourcePriority))
	}

	kept, clusters := resolve(merged)
	stats.DuplicatesRemoved = len(merged) - len(kept)

	for _, c := range clusters {
		fmt.Fprintf(w, "duplicate cluster (%d records): %q\n", len(c.Members), c.NormalizedTitle)
		for _, m := range c.Members {
			verdict := "removed"
			if m.Kept {
				verdict = "kept"
			}
			fmt.Fprintf(w, "  %-7s priority=%d sources=%v citations=%d\n",
				verdict, m.Priority, m.Record.SourceNames, m.Record.CitationCount)
		}
	}

	// Newest first; records without a year sink to the end.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].YearValue() > kept[j].YearValue()
	})

	fmt.Fprintf(w, "reconciled %d base records into %d publications (%d skipped, %d duplicates removed)\n",
		stats.Input, len(kept), stats.SkippedMalformed, stats.DuplicatesRemoved)

	return kept, clusters, stats
}
