// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges per-catalog publication records into one
// deduplicated canonical set: cross-source matching, field arbitration, and
// duplicate survivor selection.
package reconcile

import (
	"strings"

	"github.com/pdiddy/pubsync/internal/normalize"
	"github.com/pdiddy/pubsync/pkg/types"
)

// similarity scores two records in [0, 1]. Identifiers are authoritative
// over fuzzy text: when both records carry the same DOI or the same arXiv ID
// (case-insensitive) the score is 1.0 regardless of title differences.
// Otherwise it is the sequence-alignment ratio of the normalized titles.
func similarity(a, b types.Record) float64 {
	if sameIdentifier(a.Identifiers.DOI, b.Identifiers.DOI) {
		return 1.0
	}
	if sameIdentifier(a.Identifiers.ArxivID, b.Identifiers.ArxivID) {
		return 1.0
	}
	return normalize.Similarity(a.Title, b.Title)
}

func sameIdentifier(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// findBestMatch returns the candidate most similar to target, or nil when no
// candidate reaches the threshold. A nil return is the normal "source has no
// data for this record" state, not an error.
func findBestMatch(target types.Record, candidates []types.Record, threshold float64) *types.Record {
	var best *types.Record
	bestScore := 0.0

	for i := range candidates {
		score := similarity(target, candidates[i])
		if score > bestScore && score >= threshold {
			bestScore = score
			best = &candidates[i]
		}
	}
	return best
}
