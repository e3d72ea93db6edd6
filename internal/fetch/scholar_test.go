// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

const scholarFixture = `{
  "articles": [
    {
      "title": "dynesty: a dynamic nested sampling package",
      "link": "https://doi.org/10.1093/mnras/staa278",
      "authors": "JS Speagle",
      "publication": "Monthly Notices of the Royal Astronomical Society 493 (3), 3132-3158",
      "year": "2020",
      "cited_by": {"value": 1600}
    },
    {
      "title": "Deep learning of stellar spectra",
      "link": "https://arxiv.org/abs/1804.01530",
      "authors": "JS Speagle, A Collaborator",
      "publication": "arXiv preprint",
      "year": "2018",
      "cited_by": {"value": 90}
    }
  ],
  "cited_by": {
    "table": [
      {"citations": {"all": 12000}},
      {"h_index": {"all": 38}},
      {"i10_index": {"all": 80}}
    ],
    "graph": [
      {"year": 2023, "citations": 1500},
      {"year": 2024, "citations": 1800}
    ]
  }
}`

func TestScholarRecords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("engine"); got != "google_scholar_author" {
			t.Errorf("engine = %q", got)
		}
		if got := q.Get("author_id"); got != "ExQ0w9wAAAAJ" {
			t.Errorf("author_id = %q", got)
		}
		if got := q.Get("api_key"); got != "serp-key" {
			t.Errorf("api_key = %q", got)
		}
		w.Write([]byte(scholarFixture))
	}))
	defer ts.Close()

	old := scholarSearchBase
	scholarSearchBase = ts.URL
	defer func() { scholarSearchBase = old }()

	src := &ScholarSource{Client: ts.Client(), APIKey: "serp-key"}
	cfg := types.FetchConfig{ScholarAuthorID: "ExQ0w9wAAAAJ"}

	records, err := src.Records(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d", len(records))
	}

	first := records[0]
	if first.Identifiers.DOI != "10.1093/mnras/staa278" {
		t.Errorf("DOI = %q, not extracted from link", first.Identifiers.DOI)
	}
	if first.CitationCount != 1600 || first.YearValue() != 2020 {
		t.Errorf("CitationCount = %d, Year = %d", first.CitationCount, first.YearValue())
	}
	if !first.HasSource(types.SourceScholar) {
		t.Errorf("SourceNames = %v", first.SourceNames)
	}

	second := records[1]
	if second.Identifiers.ArxivID != "1804.01530" {
		t.Errorf("ArxivID = %q, not extracted from link", second.Identifiers.ArxivID)
	}
	if len(second.Authors) != 2 {
		t.Errorf("Authors = %v", second.Authors)
	}
}

func TestScholarMetrics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(scholarFixture))
	}))
	defer ts.Close()

	old := scholarSearchBase
	scholarSearchBase = ts.URL
	defer func() { scholarSearchBase = old }()

	src := &ScholarSource{Client: ts.Client(), APIKey: "serp-key"}
	cfg := types.FetchConfig{ScholarAuthorID: "ExQ0w9wAAAAJ"}

	m, err := src.Metrics(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.TotalCitations != 12000 || m.HIndex != 38 || m.I10Index != 80 {
		t.Errorf("metrics = %+v", m)
	}
	if m.CitationsPerYear["2024"] != 1800 {
		t.Errorf("CitationsPerYear = %v", m.CitationsPerYear)
	}
}

func TestScholarRequiresCredentials(t *testing.T) {
	src := &ScholarSource{Client: http.DefaultClient}
	if _, err := src.Records(context.Background(), types.FetchConfig{ScholarAuthorID: "x"}); err == nil {
		t.Error("expected error without API key")
	}

	src.APIKey = "k"
	if _, err := src.Records(context.Background(), types.FetchConfig{}); err == nil {
		t.Error("expected error without author ID")
	}
}
