// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/fetch"
	"github.com/pdiddy/pubsync/pkg/types"
)

const cacheDir = "cache"

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw publication records from the catalog APIs",
	Long: `Fetch queries the enabled catalogs (ADS, OpenAlex, Google Scholar) for
the configured author and writes one raw JSON file per source into the
data cache. A failed source is reported and skipped; the cached files feed
the offline reconcile command.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSlice("source", nil, "fetch only the named sources (ads, openalex, google_scholar)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	if only, _ := cmd.Flags().GetStringSlice("source"); len(only) > 0 {
		restrictSources(&cfg.Fetch, only)
	}

	out, err := fetchAll(cmd.Context(), cfg.Fetch)
	if err != nil {
		return err
	}
	return writeCache(cfg.Store.DataDir, out)
}

func fetchAll(ctx context.Context, cfg types.FetchConfig) (fetch.Output, error) {
	sources := fetch.Enabled(cfg)
	return fetch.All(ctx, sources, cfg, os.Stderr)
}

func restrictSources(cfg *types.FetchConfig, only []string) {
	enabled := make(map[string]bool, len(only))
	for _, s := range only {
		enabled[s] = true
	}
	cfg.EnableADS = cfg.EnableADS && enabled[types.SourceADS]
	cfg.EnableOpenAlex = cfg.EnableOpenAlex && enabled[types.SourceOpenAlex]
	cfg.EnableScholar = cfg.EnableScholar && enabled[types.SourceScholar]
}

// sourceCache is the on-disk shape of one source's raw fetch result.
type sourceCache struct {
	Records []types.Record       `json:"records"`
	Metrics *types.AuthorMetrics `json:"metrics,omitempty"`
}

func writeCache(dataDir string, out fetch.Output) error {
	dir := filepath.Join(dataDir, cacheDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	for source, records := range out.Records {
		entry := sourceCache{Records: records}
		if m, ok := out.Metrics[source]; ok {
			entry.Metrics = &m
		}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s cache: %w", source, err)
		}
		path := filepath.Join(dir, source+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s cache: %w", source, err)
		}
		fmt.Fprintf(os.Stderr, "cached %d records to %s\n", len(records), path)
	}
	return nil
}

// readCache loads every per-source cache file from the data directory.
func readCache(dataDir string) (fetch.Output, error) {
	dir := filepath.Join(dataDir, cacheDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fetch.Output{}, fmt.Errorf("reading cache directory (run fetch first): %w", err)
	}

	out := fetch.Output{
		Records: make(map[string][]types.Record),
		Metrics: make(map[string]types.AuthorMetrics),
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		source := e.Name()[:len(e.Name())-len(".json")]

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fetch.Output{}, fmt.Errorf("reading %s cache: %w", source, err)
		}
		var entry sourceCache
		if err := json.Unmarshal(data, &entry); err != nil {
			return fetch.Output{}, fmt.Errorf("decoding %s cache: %w", source, err)
		}
		out.Records[source] = entry.Records
		if entry.Metrics != nil {
			out.Metrics[source] = *entry.Metrics
		}
	}
	if len(out.Records) == 0 {
		return fetch.Output{}, fmt.Errorf("no cached source files in %s (run fetch first)", dir)
	}
	return out, nil
}
