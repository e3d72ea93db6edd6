// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

type fakeSource struct {
	name       string
	records    []types.Record
	metrics    types.AuthorMetrics
	metricsErr error
	err        error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Records(_ context.Context, _ types.FetchConfig) ([]types.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource) Metrics(_ context.Context, _ types.FetchConfig) (types.AuthorMetrics, error) {
	if f.err != nil {
		return types.AuthorMetrics{}, f.err
	}
	if f.metricsErr != nil {
		return types.AuthorMetrics{}, f.metricsErr
	}
	return f.metrics, nil
}

func TestAllFansOutToEverySource(t *testing.T) {
	sources := []Source{
		&fakeSource{
			name:    types.SourceADS,
			records: []types.Record{{Title: "paper a"}, {Title: "paper b"}},
			metrics: types.AuthorMetrics{TotalPapers: 2, Sources: []string{types.SourceADS}},
		},
		&fakeSource{
			name:    types.SourceOpenAlex,
			records: []types.Record{{Title: "paper a"}},
			metrics: types.AuthorMetrics{TotalPapers: 1, Sources: []string{types.SourceOpenAlex}},
		},
	}

	var buf bytes.Buffer
	out, err := All(context.Background(), sources, types.FetchConfig{}, &buf)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(out.Records[types.SourceADS]) != 2 || len(out.Records[types.SourceOpenAlex]) != 1 {
		t.Errorf("records = %v", out.Records)
	}
	if out.Metrics[types.SourceADS].TotalPapers != 2 {
		t.Errorf("metrics = %v", out.Metrics)
	}
	if len(out.SourceErrors) != 0 {
		t.Errorf("unexpected source errors: %v", out.SourceErrors)
	}
}

func TestAllDegradesOnSourceFailure(t *testing.T) {
	sources := []Source{
		&fakeSource{
			name:    types.SourceADS,
			records: []types.Record{{Title: "survivor"}},
			metrics: types.AuthorMetrics{TotalPapers: 1, Sources: []string{types.SourceADS}},
		},
		&fakeSource{name: types.SourceScholar, err: fmt.Errorf("quota exceeded")},
	}

	var buf bytes.Buffer
	out, err := All(context.Background(), sources, types.FetchConfig{}, &buf)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(out.Records[types.SourceADS]) != 1 {
		t.Errorf("healthy source dropped: %v", out.Records)
	}
	if len(out.SourceErrors) != 1 {
		t.Errorf("SourceErrors = %v, want 1 entry", out.SourceErrors)
	}
	if !strings.Contains(buf.String(), "warning: source google_scholar failed") {
		t.Errorf("missing warning in output:\n%s", buf.String())
	}
}

// Metrics warnings must come from the collection loop, never the source
// goroutines: a shared writer with two sources failing metrics at once is
// exactly the case the race detector trips on when a goroutine writes it.
func TestAllMetricsWarningsSingleWriter(t *testing.T) {
	sources := []Source{
		&fakeSource{
			name:       types.SourceADS,
			records:    []types.Record{{Title: "paper a"}},
			metricsErr: fmt.Errorf("metrics endpoint down"),
		},
		&fakeSource{
			name:       types.SourceOpenAlex,
			records:    []types.Record{{Title: "paper b"}},
			metricsErr: fmt.Errorf("metrics endpoint down"),
		},
	}

	var buf bytes.Buffer
	out, err := All(context.Background(), sources, types.FetchConfig{}, &buf)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(out.Records[types.SourceADS]) != 1 || len(out.Records[types.SourceOpenAlex]) != 1 {
		t.Errorf("records dropped with failed metrics: %v", out.Records)
	}
	if len(out.Metrics) != 0 {
		t.Errorf("unexpected metrics entries: %v", out.Metrics)
	}
	for _, source := range []string{types.SourceADS, types.SourceOpenAlex} {
		want := "warning: " + source + " metrics unavailable"
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in output:\n%s", want, buf.String())
		}
	}
}

func TestAllFailsWhenEverySourceFails(t *testing.T) {
	sources := []Source{
		&fakeSource{name: types.SourceADS, err: fmt.Errorf("down")},
		&fakeSource{name: types.SourceOpenAlex, err: fmt.Errorf("down")},
	}

	var buf bytes.Buffer
	if _, err := All(context.Background(), sources, types.FetchConfig{}, &buf); err == nil {
		t.Error("expected error when every source fails")
	}
}

func TestAllFailsWithNoSources(t *testing.T) {
	var buf bytes.Buffer
	if _, err := All(context.Background(), nil, types.FetchConfig{}, &buf); err == nil {
		t.Error("expected error with no sources")
	}
}

func TestEnabledHonorsFlags(t *testing.T) {
	sources := Enabled(types.FetchConfig{EnableADS: true, EnableScholar: true})
	if len(sources) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(sources))
	}
	if sources[0].Name() != types.SourceADS || sources[1].Name() != types.SourceScholar {
		t.Errorf("sources = %s, %s", sources[0].Name(), sources[1].Name())
	}
}

func TestComputeMetrics(t *testing.T) {
	y2020, y2021 := 2020, 2021
	records := []types.Record{
		{CitationCount: 25, Year: &y2020},
		{CitationCount: 12, Year: &y2021},
		{CitationCount: 3, Year: &y2021},
		{CitationCount: 1},
	}

	m := computeMetrics(types.SourceADS, records)
	if m.TotalPapers != 4 {
		t.Errorf("TotalPapers = %d", m.TotalPapers)
	}
	if m.TotalCitations != 41 {
		t.Errorf("TotalCitations = %d", m.TotalCitations)
	}
	// Sorted counts 25, 12, 3, 1: three papers with >= 3 citations.
	if m.HIndex != 3 {
		t.Errorf("HIndex = %d, want 3", m.HIndex)
	}
	if m.I10Index != 2 {
		t.Errorf("I10Index = %d, want 2", m.I10Index)
	}
	want := map[string]int{"2020": 25, "2021": 15}
	for year, count := range want {
		if m.CitationsPerYear[year] != count {
			t.Errorf("CitationsPerYear[%s] = %d, want %d", year, m.CitationsPerYear[year], count)
		}
	}
}

func TestExpandJournal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MNRAS", "Monthly Notices of the Royal Astronomical Society"},
		{"ApJ", "The Astrophysical Journal"},
		{"ApJS", "The Astrophysical Journal Supplement Series"},
		{"arXiv e-prints", "arXiv e-prints"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandJournal(tt.in); got != tt.want {
			t.Errorf("expandJournal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReconstructAbstract(t *testing.T) {
	inverted := map[string][]int{
		"sampling": {2},
		"nested":   {1},
		"dynamic":  {0},
		"in":       {3},
		"practice": {4},
	}
	got := reconstructAbstract(inverted)
	if got != "dynamic nested sampling in practice" {
		t.Errorf("reconstructAbstract = %q", got)
	}

	if got := reconstructAbstract(nil); got != "" {
		t.Errorf("reconstructAbstract(nil) = %q", got)
	}
}

func TestParseScholarAuthors(t *testing.T) {
	got := parseScholarAuthors("J Speagle, K Barbary, ")
	if len(got) != 2 || got[0] != "J Speagle" || got[1] != "K Barbary" {
		t.Errorf("parseScholarAuthors = %v", got)
	}
	if parseScholarAuthors("") != nil {
		t.Error("empty input should return nil")
	}
}
