// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/pubsync/pkg/types"
)

const featuredCount = 5

// summaryEntry is the compact publication shape used in the exported
// summary section.
type summaryEntry struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Citations int    `json:"citations"`
	Journal   string `json:"journal,omitempty"`
	URL       string `json:"url,omitempty"`
}

type exportSummary struct {
	FeaturedPublications []summaryEntry `json:"featuredPublications"`
	RecentPublications   []summaryEntry `json:"recentPublications"`
}

type exportDocument struct {
	Publications []types.Record      `json:"publications"`
	Metrics      types.AuthorMetrics `json:"metrics"`
	Summary      exportSummary       `json:"summary"`
	LastUpdated  string              `json:"lastUpdated"`
}

// Export writes the dataset as indented JSON to the configured export
// file. An existing export is first copied into DataDir/backups with a
// timestamped name, so every previous export survives.
func (s *Store) Export(data types.Dataset) (string, error) {
	if err := s.backupExisting(); err != nil {
		return "", err
	}

	doc := exportDocument{
		Publications: data.Publications,
		Metrics:      data.Metrics,
		Summary:      buildSummary(data.Publications),
		LastUpdated:  data.LastUpdated,
	}
	if doc.LastUpdated == "" {
		doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	out = append(out, '\n')

	if dir := filepath.Dir(s.exportFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(s.exportFile, out, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return s.exportFile, nil
}

func (s *Store) backupExisting() error {
	prev, err := os.ReadFile(s.exportFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading previous export: %w", err)
	}

	dir := filepath.Join(s.dataDir, backupsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating backups directory: %w", err)
	}
	name := fmt.Sprintf("publications_backup_%s.json", time.Now().UTC().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), prev, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

func buildSummary(records []types.Record) exportSummary {
	byCitations := append([]types.Record(nil), records...)
	sort.SliceStable(byCitations, func(i, j int) bool {
		return byCitations[i].CitationCount > byCitations[j].CitationCount
	})

	byYear := append([]types.Record(nil), records...)
	sort.SliceStable(byYear, func(i, j int) bool {
		return byYear[i].YearValue() > byYear[j].YearValue()
	})

	return exportSummary{
		FeaturedPublications: summaryEntries(byCitations),
		RecentPublications:   summaryEntries(byYear),
	}
}

func summaryEntries(records []types.Record) []summaryEntry {
	n := len(records)
	if n > featuredCount {
		n = featuredCount
	}
	entries := make([]summaryEntry, 0, n)
	for _, r := range records[:n] {
		entries = append(entries, summaryEntry{
			Title:     r.Title,
			Year:      r.YearValue(),
			Citations: r.CitationCount,
			Journal:   r.Journal,
			URL:       recordURL(r),
		})
	}
	return entries
}

// recordURL picks one representative link, preferring the richest
// catalog pages first.
func recordURL(r types.Record) string {
	for _, source := range []string{types.SourceADS, types.SourceOpenAlex, types.SourceScholar} {
		if u := r.SourceURLs[source]; u != "" {
			return u
		}
	}
	for _, u := range r.SourceURLs {
		return u
	}
	return ""
}

// WriteSummary prints a human-readable digest of the dataset.
func WriteSummary(w io.Writer, data types.Dataset) {
	fmt.Fprintf(w, "publications: %d\n", len(data.Publications))
	fmt.Fprintf(w, "total citations: %d\n", data.Metrics.TotalCitations)
	fmt.Fprintf(w, "h-index: %d\n", data.Metrics.HIndex)
	fmt.Fprintf(w, "i10-index: %d\n", data.Metrics.I10Index)
	if len(data.Metrics.Sources) > 0 {
		fmt.Fprintf(w, "metric sources: %v\n", data.Metrics.Sources)
	}

	summary := buildSummary(data.Publications)
	if len(summary.FeaturedPublications) > 0 {
		fmt.Fprintln(w, "\nmost cited:")
		for _, e := range summary.FeaturedPublications {
			fmt.Fprintf(w, "  %5d  %s (%d)\n", e.Citations, e.Title, e.Year)
		}
	}
	if len(summary.RecentPublications) > 0 {
		fmt.Fprintln(w, "\nmost recent:")
		for _, e := range summary.RecentPublications {
			fmt.Fprintf(w, "  %d  %s\n", e.Year, e.Title)
		}
	}
}
