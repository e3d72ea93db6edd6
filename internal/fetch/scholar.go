// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubsync/internal/httputil"
	"github.com/pdiddy/pubsync/pkg/types"
)

// scholarSearchBase is the SerpAPI Google Scholar author endpoint. Declared
// as a var so tests can substitute an httptest server.
var scholarSearchBase = "https://serpapi.com/search.json"

var (
	doiURLPattern      = regexp.MustCompile(`doi\.org/(.+)$`)
	arxivAbsURLPattern = regexp.MustCompile(`arxiv\.org/abs/([^?#]+)`)
)

// ScholarSource reads a Google Scholar author profile through SerpAPI.
// Scholar has no official API; SerpAPI exposes the profile's article list
// and the citation table and per-year graph.
type ScholarSource struct {
	Client *http.Client
	APIKey string
}

// NewScholarSource builds a Scholar client from cfg.
func NewScholarSource(cfg types.FetchConfig) *ScholarSource {
	return &ScholarSource{
		Client: &http.Client{Timeout: cfg.Timeout},
		APIKey: cfg.SerpAPIKey,
	}
}

// Name returns the source identifier.
func (s *ScholarSource) Name() string { return types.SourceScholar }

// Records pages through the profile's article list.
func (s *ScholarSource) Records(ctx context.Context, cfg types.FetchConfig) ([]types.Record, error) {
	var records []types.Record
	start := 0
	const pageSize = 100

	for {
		profile, err := s.fetchProfile(ctx, cfg, start, pageSize)
		if err != nil {
			return nil, err
		}

		for _, a := range profile.Articles {
			if r, ok := scholarRecord(a); ok {
				records = append(records, r)
			}
		}

		if len(profile.Articles) < pageSize {
			break
		}
		if cfg.MaxResults > 0 && len(records) >= cfg.MaxResults {
			break
		}
		start += pageSize
	}

	if cfg.MaxResults > 0 && len(records) > cfg.MaxResults {
		records = records[:cfg.MaxResults]
	}
	return records, nil
}

// Metrics reads the profile's citation table and per-year graph. The
// Scholar timeline is the authoritative one downstream, so it is reported
// even when the counters are incomplete.
func (s *ScholarSource) Metrics(ctx context.Context, cfg types.FetchConfig) (types.AuthorMetrics, error) {
	profile, err := s.fetchProfile(ctx, cfg, 0, 1)
	if err != nil {
		return types.AuthorMetrics{}, err
	}

	m := types.AuthorMetrics{
		Sources:     []string{types.SourceScholar},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, row := range profile.CitedBy.Table {
		if row.Citations != nil {
			m.TotalCitations = row.Citations.All
		}
		if row.HIndex != nil {
			m.HIndex = row.HIndex.All
		}
		if row.I10Index != nil {
			m.I10Index = row.I10Index.All
		}
	}
	if len(profile.CitedBy.Graph) > 0 {
		m.CitationsPerYear = make(map[string]int, len(profile.CitedBy.Graph))
		for _, p := range profile.CitedBy.Graph {
			m.CitationsPerYear[strconv.Itoa(p.Year)] = p.Citations
		}
	}
	return m, nil
}

func (s *ScholarSource) fetchProfile(ctx context.Context, cfg types.FetchConfig, start, num int) (*scholarProfile, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("SerpAPI key not configured")
	}
	if cfg.ScholarAuthorID == "" {
		return nil, fmt.Errorf("Scholar author ID not configured")
	}

	params := url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {cfg.ScholarAuthorID},
		"api_key":   {s.APIKey},
		"start":     {strconv.Itoa(start)},
		"num":       {strconv.Itoa(num)},
	}
	header := http.Header{"User-Agent": {cfg.UserAgent}}

	var profile scholarProfile
	if err := httputil.GetJSON(ctx, s.Client, scholarSearchBase+"?"+params.Encode(), header, &profile); err != nil {
		return nil, fmt.Errorf("Scholar profile: %w", err)
	}
	return &profile, nil
}

func scholarRecord(a scholarArticle) (types.Record, bool) {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return types.Record{}, false
	}

	r := types.Record{
		ID:            fmt.Sprintf("scholar_%d", hashTitle(title)),
		Title:         title,
		Authors:       parseScholarAuthors(a.Authors),
		Journal:       strings.TrimSpace(a.Publication),
		CitationCount: a.CitedBy.Value,
		SourceNames:   []string{types.SourceScholar},
	}

	if y, err := strconv.Atoi(a.Year); err == nil {
		r.Year = &y
	}

	if a.Link != "" {
		r.SourceURLs = map[string]string{types.SourceScholar: a.Link}
		if m := doiURLPattern.FindStringSubmatch(a.Link); m != nil {
			r.Identifiers.DOI = m[1]
		}
		if m := arxivAbsURLPattern.FindStringSubmatch(a.Link); m != nil {
			r.Identifiers.ArxivID = m[1]
		}
	}
	return r, true
}

// parseScholarAuthors splits the profile's comma-separated author string.
func parseScholarAuthors(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// SerpAPI Google Scholar author JSON structures.
type scholarProfile struct {
	Articles []scholarArticle `json:"articles"`
	CitedBy  struct {
		Table []struct {
			Citations *struct {
				All int `json:"all"`
			} `json:"citations"`
			HIndex *struct {
				All int `json:"all"`
			} `json:"h_index"`
			I10Index *struct {
				All int `json:"all"`
			} `json:"i10_index"`
		} `json:"table"`
		Graph []struct {
			Year      int `json:"year"`
			Citations int `json:"citations"`
		} `json:"graph"`
	} `json:"cited_by"`
}

type scholarArticle struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Authors     string `json:"authors"`
	Publication string `json:"publication"`
	Year        string `json:"year"`
	CitedBy     struct {
		Value int `json:"value"`
	} `json:"cited_by"`
}
