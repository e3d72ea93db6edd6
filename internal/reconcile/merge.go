// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"sort"

	"github.com/pdiddy/pubsync/pkg/types"
)

// merge combines a base record with its per-source matches into one canonical
// record. A nil match means the source had no data for this record. The base
// record drives the merge and is never mutated; arbitration is deterministic:
//
//   - title: always the base record's.
//   - abstract: the longest non-empty abstract across base and matches.
//   - keywords: set union across all contributors.
//   - identifiers and other scalars: keep base unless base is empty, then the
//     first non-empty value in priority order fills it.
//   - citations: one CitationsBySource entry per matched source; the final
//     count is the maximum across sources.
func merge(base types.Record, matches map[string]*types.Record, priority []string) types.Record {
	merged := base.Clone()

	if len(merged.SourceNames) == 0 {
		merged.SourceNames = []string{"base"}
	}
	if merged.CitationsBySource == nil {
		merged.CitationsBySource = make(map[string]int)
	}
	if merged.SourceURLs == nil {
		merged.SourceURLs = make(map[string]string)
	}

	keywords := make(map[string]bool, len(merged.Keywords))
	for _, k := range merged.Keywords {
		keywords[k] = true
	}

	for _, source := range priority {
		m := matches[source]
		if m == nil {
			continue
		}

		if len(m.Abstract) > len(merged.Abstract) {
			merged.Abstract = m.Abstract
		}

		for _, k := range m.Keywords {
			keywords[k] = true
		}

		if merged.Identifiers.DOI == "" {
			merged.Identifiers.DOI = m.Identifiers.DOI
		}
		if merged.Identifiers.ArxivID == "" {
			merged.Identifiers.ArxivID = m.Identifiers.ArxivID
		}
		if merged.Identifiers.Bibcode == "" {
			merged.Identifiers.Bibcode = m.Identifiers.Bibcode
		}

		if merged.Journal == "" {
			merged.Journal = m.Journal
		}
		if merged.Year == nil && m.Year != nil {
			y := *m.Year
			merged.Year = &y
		}
		if merged.DocType == "" {
			merged.DocType = m.DocType
		}
		if len(merged.Authors) == 0 {
			merged.Authors = append([]string(nil), m.Authors...)
		}

		for name, u := range m.SourceURLs {
			if _, ok := merged.SourceURLs[name]; !ok {
				merged.SourceURLs[name] = u
			}
		}

		merged.CitationsBySource[source] = m.CitationCount
		if !merged.HasSource(source) {
			merged.SourceNames = append(merged.SourceNames, source)
		}
	}

	merged.Keywords = sortedSet(keywords)
	sort.Strings(merged.SourceNames)

	if len(merged.CitationsBySource) > 0 {
		maxCites := 0
		for _, c := range merged.CitationsBySource {
			if c > maxCites {
				maxCites = c
			}
		}
		merged.CitationCount = maxCites
	}

	return merged
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
