// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

const openAlexWorksFixture = `{
  "meta": {"count": 1, "next_cursor": ""},
  "results": [
    {
      "id": "https://openalex.org/W3004618456",
      "title": "dynesty: a dynamic nested sampling package",
      "doi": "https://doi.org/10.1093/mnras/staa278",
      "type": "article",
      "publication_year": 2020,
      "cited_by_count": 1400,
      "abstract_inverted_index": {"We": [0], "present": [1], "dynesty": [2]},
      "authorships": [{"author": {"id": "https://openalex.org/A5039446916", "display_name": "Joshua S. Speagle"}}],
      "primary_location": {"source": {"display_name": "Monthly Notices of the Royal Astronomical Society"}},
      "keywords": [{"display_name": "Nested sampling"}],
      "ids": {"arxiv": "https://arxiv.org/abs/1904.02180"}
    }
  ]
}`

const openAlexAuthorFixture = `{
  "id": "https://openalex.org/A5039446916",
  "works_count": 120,
  "cited_by_count": 9000,
  "summary_stats": {"h_index": 35, "i10_index": 70},
  "counts_by_year": [
    {"year": 2024, "cited_by_count": 1200},
    {"year": 2023, "cited_by_count": 1100}
  ]
}`

func TestOpenAlexRecords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("filter"); got != "author.id:A5039446916" {
			t.Errorf("filter = %q", got)
		}
		if got := q.Get("mailto"); got != "dev@example.org" {
			t.Errorf("mailto = %q", got)
		}
		w.Write([]byte(openAlexWorksFixture))
	}))
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	src := &OpenAlexSource{Client: ts.Client(), Email: "dev@example.org"}
	cfg := types.FetchConfig{OpenAlexAuthorID: "A5039446916"}

	records, err := src.Records(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d", len(records))
	}

	r := records[0]
	if r.Abstract != "We present dynesty" {
		t.Errorf("Abstract = %q, inverted index not reconstructed", r.Abstract)
	}
	if r.Identifiers.DOI != "10.1093/mnras/staa278" {
		t.Errorf("DOI = %q, doi.org prefix not stripped", r.Identifiers.DOI)
	}
	if r.Identifiers.ArxivID != "1904.02180" {
		t.Errorf("ArxivID = %q", r.Identifiers.ArxivID)
	}
	if r.Journal != "Monthly Notices of the Royal Astronomical Society" {
		t.Errorf("Journal = %q", r.Journal)
	}
	if len(r.Keywords) != 1 || r.Keywords[0] != "Nested sampling" {
		t.Errorf("Keywords = %v", r.Keywords)
	}
	if r.YearValue() != 2020 || r.CitationCount != 1400 {
		t.Errorf("Year = %d, CitationCount = %d", r.YearValue(), r.CitationCount)
	}
	if !r.HasSource(types.SourceOpenAlex) {
		t.Errorf("SourceNames = %v", r.SourceNames)
	}
}

func TestOpenAlexMetrics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(openAlexAuthorFixture))
	}))
	defer ts.Close()

	old := openAlexAuthorsBase
	openAlexAuthorsBase = ts.URL
	defer func() { openAlexAuthorsBase = old }()

	src := &OpenAlexSource{Client: ts.Client()}
	cfg := types.FetchConfig{OpenAlexAuthorID: "A5039446916"}

	m, err := src.Metrics(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.TotalPapers != 120 || m.HIndex != 35 || m.I10Index != 70 || m.TotalCitations != 9000 {
		t.Errorf("metrics = %+v", m)
	}
	if m.CitationsPerYear["2024"] != 1200 || m.CitationsPerYear["2023"] != 1100 {
		t.Errorf("CitationsPerYear = %v", m.CitationsPerYear)
	}
}

func TestOpenAlexRequiresAuthorID(t *testing.T) {
	src := &OpenAlexSource{Client: http.DefaultClient}
	if _, err := src.Records(context.Background(), types.FetchConfig{}); err == nil {
		t.Error("expected error without author ID")
	}
	if _, err := src.Metrics(context.Background(), types.FetchConfig{}); err == nil {
		t.Error("expected error without author ID")
	}
}
