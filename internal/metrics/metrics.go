// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics merges and sanity-checks author-level aggregate counters
// reported by the publication catalogs.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Merge combines per-source author metrics into one canonical set. Counters
// take the maximum across sources, since catalogs undercount rather than
// overcount. The citation timeline prefers Google Scholar outright; other
// catalogs report incomplete or shifted timelines, so they are only used,
// merged per-year by maximum, when Scholar has no timeline at all.
func Merge(bySource map[string]types.AuthorMetrics) types.AuthorMetrics {
	merged := types.AuthorMetrics{
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	order := []string{types.SourceScholar, types.SourceADS, types.SourceOpenAlex}
	for _, name := range order {
		m, ok := bySource[name]
		if !ok {
			continue
		}
		if m.TotalPapers > merged.TotalPapers {
			merged.TotalPapers = m.TotalPapers
		}
		if m.HIndex > merged.HIndex {
			merged.HIndex = m.HIndex
		}
		if m.I10Index > merged.I10Index {
			merged.I10Index = m.I10Index
		}
		if m.TotalCitations > merged.TotalCitations {
			merged.TotalCitations = m.TotalCitations
		}
		merged.Sources = append(merged.Sources, name)
	}

	if scholar, ok := bySource[types.SourceScholar]; ok && len(scholar.CitationsPerYear) > 0 {
		merged.CitationsPerYear = copyTimeline(scholar.CitationsPerYear)
		return merged
	}

	timeline := make(map[string]int)
	for _, name := range []string{types.SourceADS, types.SourceOpenAlex} {
		m, ok := bySource[name]
		if !ok {
			continue
		}
		for year, count := range m.CitationsPerYear {
			if count > timeline[year] {
				timeline[year] = count
			}
		}
	}
	if len(timeline) > 0 {
		merged.CitationsPerYear = timeline
	}
	return merged
}

func copyTimeline(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Validate checks a merged dataset against expected ranges. Out-of-range
// counters are suspicious but not fatal, so they only produce warnings on w.
// The single hard failure is an empty publication set.
func Validate(data types.Dataset, cfg types.ValidationConfig, w io.Writer) error {
	cfg = defaulted(cfg)

	if data.Metrics.TotalPapers < cfg.MinPapers {
		fmt.Fprintf(w, "warning: total papers (%d) below expected minimum (%d)\n",
			data.Metrics.TotalPapers, cfg.MinPapers)
	}
	if data.Metrics.HIndex > cfg.MaxHIndex {
		fmt.Fprintf(w, "warning: h-index (%d) unusually high (max %d)\n",
			data.Metrics.HIndex, cfg.MaxHIndex)
	}
	if data.Metrics.TotalCitations > cfg.MaxCitations {
		fmt.Fprintf(w, "warning: total citations (%d) unusually high (max %d)\n",
			data.Metrics.TotalCitations, cfg.MaxCitations)
	}

	if len(data.Publications) == 0 {
		return errors.New("no publications in merged dataset")
	}

	missing := 0
	for _, p := range data.Publications {
		if p.Title == "" || p.Year == nil {
			missing++
		}
	}
	if missing > 0 {
		fmt.Fprintf(w, "warning: %d publications missing title or year\n", missing)
	}
	return nil
}

func defaulted(cfg types.ValidationConfig) types.ValidationConfig {
	if cfg.MinPapers == 0 {
		cfg.MinPapers = 50
	}
	if cfg.MaxHIndex == 0 {
		cfg.MaxHIndex = 100
	}
	if cfg.MaxCitations == 0 {
		cfg.MaxCitations = 50000
	}
	return cfg
}
