// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch pulls publication records and author metrics from the
// bibliographic catalogs (ADS, OpenAlex, Google Scholar).
package fetch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Source fetches from a single catalog. Each catalog client implements this
// interface so the pipeline can fan out and degrade gracefully when one
// catalog is down.
type Source interface {
	Name() string
	Records(ctx context.Context, cfg types.FetchConfig) ([]types.Record, error)
	Metrics(ctx context.Context, cfg types.FetchConfig) (types.AuthorMetrics, error)
}

// Output holds per-source fetch results.
type Output struct {
	// Records maps source name to the raw records that catalog returned.
	Records map[string][]types.Record

	// Metrics maps source name to that catalog's author-level counters.
	Metrics map[string]types.AuthorMetrics

	// SourceErrors lists per-source failures, one "name: err" string each.
	SourceErrors []string
}

// All queries every source concurrently and collects the results. A failing
// source produces a warning on w and is skipped; All returns an error only
// when no sources are configured or every source fails.
func All(ctx context.Context, sources []Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	if len(sources) == 0 {
		return Output{}, fmt.Errorf("no catalog sources configured")
	}

	type sourceResult struct {
		name       string
		records    []types.Record
		metrics    types.AuthorMetrics
		metricsErr error
		err        error
	}

	ch := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, s := range sources {
		if i > 0 && cfg.InterSourceDelay > 0 {
			time.Sleep(cfg.InterSourceDelay)
		}
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()

			records, err := s.Records(ctx, cfg)
			if err != nil {
				ch <- sourceResult{name: s.Name(), err: err}
				return
			}
			metrics, err := s.Metrics(ctx, cfg)
			if err != nil {
				// Records without metrics are still usable. Only the
				// collection loop writes to w.
				ch <- sourceResult{name: s.Name(), records: records, metricsErr: err}
				return
			}
			ch <- sourceResult{name: s.Name(), records: records, metrics: metrics}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := Output{
		Records: make(map[string][]types.Record),
		Metrics: make(map[string]types.AuthorMetrics),
	}
	for sr := range ch {
		if sr.err != nil {
			msg := fmt.Sprintf("%s: %v", sr.name, sr.err)
			out.SourceErrors = append(out.SourceErrors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
			continue
		}
		out.Records[sr.name] = sr.records
		if sr.metricsErr != nil {
			fmt.Fprintf(w, "warning: %s metrics unavailable: %v\n", sr.name, sr.metricsErr)
		}
		if sr.metrics.Sources != nil || sr.metrics.TotalPapers > 0 || sr.metrics.TotalCitations > 0 {
			out.Metrics[sr.name] = sr.metrics
		}
		fmt.Fprintf(w, "fetched %d records from %s\n", len(sr.records), sr.name)
	}

	if len(out.Records) == 0 {
		return out, fmt.Errorf("all catalog sources failed: %v", out.SourceErrors)
	}
	return out, nil
}

// Enabled builds the source list selected by cfg's enable flags.
func Enabled(cfg types.FetchConfig) []Source {
	var sources []Source
	if cfg.EnableADS {
		sources = append(sources, NewADSSource(cfg))
	}
	if cfg.EnableOpenAlex {
		sources = append(sources, NewOpenAlexSource(cfg))
	}
	if cfg.EnableScholar {
		sources = append(sources, NewScholarSource(cfg))
	}
	return sources
}

// computeMetrics derives author-level counters from a publication list, for
// catalogs that have no native author-metrics endpoint. The h-index is the
// largest h such that h publications have at least h citations.
func computeMetrics(source string, records []types.Record) types.AuthorMetrics {
	m := types.AuthorMetrics{
		TotalPapers: len(records),
		Sources:     []string{source},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	counts := make([]int, 0, len(records))
	perYear := make(map[string]int)
	for _, r := range records {
		counts = append(counts, r.CitationCount)
		m.TotalCitations += r.CitationCount
		if r.CitationCount >= 10 {
			m.I10Index++
		}
		if y := r.YearValue(); y >= 2000 {
			perYear[fmt.Sprintf("%d", y)] += r.CitationCount
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	for i, c := range counts {
		if c >= i+1 {
			m.HIndex = i + 1
		} else {
			break
		}
	}

	if len(perYear) > 0 {
		m.CitationsPerYear = perYear
	}
	return m
}
