// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubsync/internal/httputil"
	"github.com/pdiddy/pubsync/pkg/types"
)

// OpenAlex endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	openAlexWorksBase   = "https://api.openalex.org/works"
	openAlexAuthorsBase = "https://api.openalex.org/authors"
)

var arxivURLPattern = regexp.MustCompile(`arxiv\.org/abs/(.+)$`)

// OpenAlexSource queries the OpenAlex works and authors APIs. Requests
// carry a mailto parameter for polite pool access when an email is
// configured.
type OpenAlexSource struct {
	Client *http.Client
	Email  string
}

// NewOpenAlexSource builds an OpenAlex client from cfg.
func NewOpenAlexSource(cfg types.FetchConfig) *OpenAlexSource {
	return &OpenAlexSource{
		Client: &http.Client{Timeout: cfg.Timeout},
		Email:  cfg.OpenAlexEmail,
	}
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return types.SourceOpenAlex }

// Records lists the configured author's works.
func (s *OpenAlexSource) Records(ctx context.Context, cfg types.FetchConfig) ([]types.Record, error) {
	if cfg.OpenAlexAuthorID == "" {
		return nil, fmt.Errorf("OpenAlex author ID not configured")
	}

	perPage := cfg.MaxResults
	if perPage <= 0 || perPage > 200 {
		perPage = 200
	}

	params := url.Values{
		"filter":   {"author.id:" + cfg.OpenAlexAuthorID},
		"per-page": {strconv.Itoa(perPage)},
		"sort":     {"publication_date:desc"},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}
	header := http.Header{"User-Agent": {cfg.UserAgent}}

	var records []types.Record
	cursor := "*"
	for cursor != "" {
		params.Set("cursor", cursor)

		var page openAlexWorksResponse
		if err := httputil.GetJSON(ctx, s.Client, openAlexWorksBase+"?"+params.Encode(), header, &page); err != nil {
			return nil, fmt.Errorf("OpenAlex works: %w", err)
		}

		for _, work := range page.Results {
			if r, ok := openAlexRecord(work); ok {
				records = append(records, r)
			}
		}

		if len(page.Results) == 0 || (cfg.MaxResults > 0 && len(records) >= cfg.MaxResults) {
			break
		}
		cursor = page.Meta.NextCursor
	}

	if cfg.MaxResults > 0 && len(records) > cfg.MaxResults {
		records = records[:cfg.MaxResults]
	}
	return records, nil
}

// Metrics reads the author profile, which carries native citation counters
// and a per-year citation timeline.
func (s *OpenAlexSource) Metrics(ctx context.Context, cfg types.FetchConfig) (types.AuthorMetrics, error) {
	if cfg.OpenAlexAuthorID == "" {
		return types.AuthorMetrics{}, fmt.Errorf("OpenAlex author ID not configured")
	}

	u := openAlexAuthorsBase + "/" + url.PathEscape(cfg.OpenAlexAuthorID)
	if s.Email != "" {
		u += "?mailto=" + url.QueryEscape(s.Email)
	}
	header := http.Header{"User-Agent": {cfg.UserAgent}}

	var author openAlexAuthorProfile
	if err := httputil.GetJSON(ctx, s.Client, u, header, &author); err != nil {
		return types.AuthorMetrics{}, fmt.Errorf("OpenAlex author: %w", err)
	}

	m := types.AuthorMetrics{
		TotalPapers:    author.WorksCount,
		HIndex:         author.SummaryStats.HIndex,
		I10Index:       author.SummaryStats.I10Index,
		TotalCitations: author.CitedByCount,
		Sources:        []string{types.SourceOpenAlex},
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
	}
	if len(author.CountsByYear) > 0 {
		m.CitationsPerYear = make(map[string]int, len(author.CountsByYear))
		for _, c := range author.CountsByYear {
			m.CitationsPerYear[strconv.Itoa(c.Year)] = c.CitedByCount
		}
	}
	return m, nil
}

func openAlexRecord(work openAlexWork) (types.Record, bool) {
	title := strings.TrimSpace(work.Title)
	if title == "" {
		return types.Record{}, false
	}

	r := types.Record{
		ID:            work.ID,
		Title:         title,
		Abstract:      reconstructAbstract(work.AbstractInvertedIndex),
		CitationCount: work.CitedByCount,
		DocType:       work.Type,
		SourceNames:   []string{types.SourceOpenAlex},
	}

	for _, a := range work.Authorships {
		if a.Author.DisplayName != "" {
			r.Authors = append(r.Authors, a.Author.DisplayName)
		}
	}
	if work.PublicationYear > 0 {
		y := work.PublicationYear
		r.Year = &y
	}
	if work.PrimaryLocation.Source.DisplayName != "" {
		r.Journal = work.PrimaryLocation.Source.DisplayName
	}
	for _, kw := range work.Keywords {
		if kw.DisplayName != "" {
			r.Keywords = append(r.Keywords, kw.DisplayName)
		}
	}

	if work.DOI != "" {
		r.Identifiers.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
	}
	if m := arxivURLPattern.FindStringSubmatch(work.IDs.Arxiv); m != nil {
		r.Identifiers.ArxivID = m[1]
	}

	if work.ID != "" {
		r.SourceURLs = map[string]string{types.SourceOpenAlex: work.ID}
	}
	return r, true
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexWorksResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DOI                   string           `json:"doi"`
	Type                  string           `json:"type"`
	PublicationYear       int              `json:"publication_year"`
	CitedByCount          int              `json:"cited_by_count"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	Authorships           []struct {
		Author struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	Keywords []struct {
		DisplayName string `json:"display_name"`
	} `json:"keywords"`
	IDs struct {
		Arxiv string `json:"arxiv"`
	} `json:"ids"`
}

type openAlexAuthorProfile struct {
	ID           string `json:"id"`
	WorksCount   int    `json:"works_count"`
	CitedByCount int    `json:"cited_by_count"`
	SummaryStats struct {
		HIndex   int `json:"h_index"`
		I10Index int `json:"i10_index"`
	} `json:"summary_stats"`
	CountsByYear []struct {
		Year         int `json:"year"`
		CitedByCount int `json:"cited_by_count"`
	} `json:"counts_by_year"`
}
