// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubsync/internal/httputil"
	"github.com/pdiddy/pubsync/pkg/types"
)

// adsSearchBase is the ADS search endpoint. Declared as a var so tests can
// substitute an httptest server.
var adsSearchBase = "https://api.adsabs.harvard.edu/v1/search/query"

// adsFields is the field list requested from ADS.
const adsFields = "title,author,year,doi,eprint_id,citation_count,abstract,keyword,bibcode,pub,doctype"

// journalMappings expands the venue abbreviations ADS reports to full
// journal names. Matching is by substring, first hit wins.
var journalMappings = []struct{ abbrev, full string }{
	{"MNRAS", "Monthly Notices of the Royal Astronomical Society"},
	{"ApJS", "The Astrophysical Journal Supplement Series"},
	{"ApJ", "The Astrophysical Journal"},
	{"A&A", "Astronomy & Astrophysics"},
	{"AJ", "The Astronomical Journal"},
	{"PASP", "Publications of the Astronomical Society of the Pacific"},
	{"JCAP", "Journal of Cosmology and Astroparticle Physics"},
}

// ADSSource queries the NASA Astrophysics Data System.
type ADSSource struct {
	Client *http.Client
	APIKey string
}

// NewADSSource builds an ADS client from cfg.
func NewADSSource(cfg types.FetchConfig) *ADSSource {
	return &ADSSource{
		Client: &http.Client{Timeout: cfg.Timeout},
		APIKey: cfg.ADSAPIKey,
	}
}

// Name returns the source identifier.
func (s *ADSSource) Name() string { return types.SourceADS }

// Records runs the configured author query and converts each document to a
// Record.
func (s *ADSSource) Records(ctx context.Context, cfg types.FetchConfig) ([]types.Record, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("ADS API key not configured")
	}
	if cfg.AuthorQuery == "" {
		return nil, fmt.Errorf("ADS author query not configured")
	}

	rows := cfg.MaxResults
	if rows <= 0 {
		rows = 1000
	}

	params := url.Values{
		"q":    {cfg.AuthorQuery},
		"fl":   {adsFields},
		"rows": {strconv.Itoa(rows)},
		"sort": {"date desc"},
	}
	header := http.Header{
		"Authorization": {"Bearer " + s.APIKey},
		"User-Agent":    {cfg.UserAgent},
	}

	var ar adsResponse
	if err := httputil.GetJSON(ctx, s.Client, adsSearchBase+"?"+params.Encode(), header, &ar); err != nil {
		return nil, fmt.Errorf("ADS search: %w", err)
	}

	var records []types.Record
	for _, doc := range ar.Response.Docs {
		if r, ok := adsRecord(doc); ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// Metrics derives author counters from the publication list. ADS has no
// single author-metrics endpoint for arbitrary queries.
func (s *ADSSource) Metrics(ctx context.Context, cfg types.FetchConfig) (types.AuthorMetrics, error) {
	records, err := s.Records(ctx, cfg)
	if err != nil {
		return types.AuthorMetrics{}, err
	}
	return computeMetrics(types.SourceADS, records), nil
}

func adsRecord(doc adsDoc) (types.Record, bool) {
	title := ""
	if len(doc.Title) > 0 {
		title = strings.TrimSpace(doc.Title[0])
	}
	if title == "" {
		return types.Record{}, false
	}

	r := types.Record{
		Title:         title,
		Authors:       doc.Author,
		Journal:       expandJournal(doc.Pub),
		Abstract:      strings.TrimSpace(doc.Abstract),
		Keywords:      doc.Keyword,
		CitationCount: doc.CitationCount,
		DocType:       doc.DocType,
		SourceNames:   []string{types.SourceADS},
	}

	if y, err := strconv.Atoi(doc.Year); err == nil {
		r.Year = &y
	}

	r.Identifiers.Bibcode = doc.Bibcode
	if len(doc.DOI) > 0 {
		r.Identifiers.DOI = doc.DOI[0]
	}
	if len(doc.EprintID) > 0 {
		r.Identifiers.ArxivID = strings.TrimPrefix(doc.EprintID[0], "arXiv:")
	}

	if doc.Bibcode != "" {
		r.ID = doc.Bibcode
		r.SourceURLs = map[string]string{
			types.SourceADS: "https://ui.adsabs.harvard.edu/abs/" + doc.Bibcode,
		}
	} else {
		r.ID = fmt.Sprintf("ads_%d", hashTitle(title))
	}
	return r, true
}

func expandJournal(pub string) string {
	pub = strings.TrimSpace(pub)
	for _, m := range journalMappings {
		if strings.Contains(pub, m.abbrev) {
			return m.full
		}
	}
	return pub
}

func hashTitle(title string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(title))
	return h.Sum32()
}

// ADS API JSON structures.
type adsResponse struct {
	Response struct {
		NumFound int      `json:"numFound"`
		Docs     []adsDoc `json:"docs"`
	} `json:"response"`
}

type adsDoc struct {
	Title         []string `json:"title"`
	Author        []string `json:"author"`
	Year          string   `json:"year"`
	DOI           []string `json:"doi"`
	EprintID      []string `json:"eprint_id"`
	CitationCount int      `json:"citation_count"`
	Abstract      string   `json:"abstract"`
	Keyword       []string `json:"keyword"`
	Bibcode       string   `json:"bibcode"`
	Pub           string   `json:"pub"`
	DocType       string   `json:"doctype"`
}
