// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubsync pipeline.
package types

// Identifiers holds the external catalog identifiers a record may carry.
// Any field may be empty; an empty string means the identifier was not
// reported by any source.
type Identifiers struct {
	// DOI is the Digital Object Identifier (e.g. "10.1093/mnras/staa278").
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv preprint identifier (e.g. "1904.02180").
	ArxivID string `json:"arxivId,omitempty" yaml:"arxivId,omitempty"`

	// Bibcode is the ADS bibliographic code (e.g. "2020MNRAS.493.3132S").
	Bibcode string `json:"bibcode,omitempty" yaml:"bibcode,omitempty"`
}

// Record is one publication. Before merging there is one Record per source;
// after merging there is exactly one canonical Record per real publication.
type Record struct {
	// ID is a source-assigned identifier (bibcode, OpenAlex work ID, or a
	// hash-derived fallback). Not stable across sources.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is the publication title. Required: records without a title are
	// excluded from reconciliation.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year. Nil when no source reported it.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`

	// Journal is the venue name, with common abbreviations expanded.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Abstract is the longest abstract seen across sources.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Keywords is the union of source-reported keywords.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// CitationCount is the maximum citation count across contributing
	// sources. Always equals max(CitationsBySource) when that map is
	// non-empty.
	CitationCount int `json:"citations" yaml:"citations"`

	// Identifiers holds DOI, arXiv ID, and bibcode when known.
	Identifiers Identifiers `json:"identifiers" yaml:"identifiers"`

	// DocType is the source-reported document type (e.g. "article",
	// "eprint", "software"). Used for duplicate survivor selection.
	DocType string `json:"docType,omitempty" yaml:"docType,omitempty"`

	// SourceURLs maps source name to the record's URL at that catalog.
	SourceURLs map[string]string `json:"sourceUrls,omitempty" yaml:"sourceUrls,omitempty"`

	// SourceNames lists the catalogs that contributed to this record,
	// sorted. Never empty for a canonical record.
	SourceNames []string `json:"sources" yaml:"sources"`

	// CitationsBySource maps source name to that source's reported
	// citation count.
	CitationsBySource map[string]int `json:"citationsBySource,omitempty" yaml:"citationsBySource,omitempty"`

	// Category is the primary topical label assigned by the scorer.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// CategoryProbabilities maps each label to its probability. Values are
	// non-negative and sum to 1.
	CategoryProbabilities map[string]float64 `json:"categoryProbabilities,omitempty" yaml:"categoryProbabilities,omitempty"`
}

// Clone returns a deep copy of the record. The reconciliation core never
// mutates its inputs; every merge starts from a clone.
func (r Record) Clone() Record {
	c := r
	if r.Year != nil {
		y := *r.Year
		c.Year = &y
	}
	c.Authors = append([]string(nil), r.Authors...)
	c.Keywords = append([]string(nil), r.Keywords...)
	c.SourceNames = append([]string(nil), r.SourceNames...)
	if r.SourceURLs != nil {
		c.SourceURLs = make(map[string]string, len(r.SourceURLs))
		for k, v := range r.SourceURLs {
			c.SourceURLs[k] = v
		}
	}
	if r.CitationsBySource != nil {
		c.CitationsBySource = make(map[string]int, len(r.CitationsBySource))
		for k, v := range r.CitationsBySource {
			c.CitationsBySource[k] = v
		}
	}
	if r.CategoryProbabilities != nil {
		c.CategoryProbabilities = make(map[string]float64, len(r.CategoryProbabilities))
		for k, v := range r.CategoryProbabilities {
			c.CategoryProbabilities[k] = v
		}
	}
	return c
}

// YearValue returns the publication year, or 0 when absent.
func (r Record) YearValue() int {
	if r.Year == nil {
		return 0
	}
	return *r.Year
}

// HasSource reports whether the named catalog contributed to this record.
func (r Record) HasSource(name string) bool {
	for _, s := range r.SourceNames {
		if s == name {
			return true
		}
	}
	return false
}

// AuthorMetrics holds author-level aggregate counters merged across sources.
type AuthorMetrics struct {
	// TotalPapers is the number of publications attributed to the author.
	TotalPapers int `json:"totalPapers" yaml:"totalPapers"`

	// HIndex is the author's h-index.
	HIndex int `json:"hIndex" yaml:"hIndex"`

	// I10Index is the number of publications with at least 10 citations.
	I10Index int `json:"i10Index" yaml:"i10Index"`

	// TotalCitations is the total citation count across all publications.
	TotalCitations int `json:"totalCitations" yaml:"totalCitations"`

	// CitationsPerYear maps year (as a string, matching the persisted
	// shape) to the citations accrued in that year.
	CitationsPerYear map[string]int `json:"citationsPerYear,omitempty" yaml:"citationsPerYear,omitempty"`

	// Sources lists the catalogs that contributed metric values.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// LastUpdated is an RFC 3339 UTC timestamp of the merge.
	LastUpdated string `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// Dataset is the persisted output contract: the canonical publication set
// plus author-level metrics.
type Dataset struct {
	// Publications is the canonical, deduplicated, categorized record set.
	Publications []Record `json:"publications" yaml:"publications"`

	// Metrics holds the merged author-level counters.
	Metrics AuthorMetrics `json:"metrics" yaml:"metrics"`

	// LastUpdated is an RFC 3339 UTC timestamp of the pipeline run.
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
}
