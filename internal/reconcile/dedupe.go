// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"strings"

	"github.com/pdiddy/pubsync/internal/normalize"
	"github.com/pdiddy/pubsync/pkg/types"
)

// Publication-type priorities for duplicate survivor selection. Journal
// articles beat preprints, which beat software-registry entries.
const (
	priorityJournal  = 4
	priorityPreprint = 3
	priorityOther    = 2
	prioritySoftware = 1
)

// journalMarkers identify journal or proceedings venues in a publication's
// venue string.
var journalMarkers = []string{
	"astrophysical journal",
	"mnras",
	"monthly notices",
	"astronomy astrophysics",
	"astronomical journal",
	"journal",
	"proceedings",
	"letters",
}

// ClusterMember is one record inside a detected duplicate cluster, annotated
// with the composite score that decided its fate.
type ClusterMember struct {
	Record   types.Record `json:"record"`
	Priority int          `json:"priority"`
	Score    float64      `json:"score"`
	Kept     bool         `json:"kept"`
}

// Cluster is a group of merged records that share a normalized title. The
// resolver keeps exactly one member per cluster; the rest are reported for
// operator review.
type Cluster struct {
	NormalizedTitle string          `json:"normalizedTitle"`
	Members         []ClusterMember `json:"members"`
}

// resolve collapses duplicate records that survive the merge: records whose
// normalized titles are exactly equal. Within each group the survivor is the
// member with the highest composite score; exact ties keep the member seen
// first in input order, so the result is deterministic and stable. Groups of
// size 1 pass through untouched.
//
// Running resolve on its own output is a no-op.
func resolve(records []types.Record) ([]types.Record, []Cluster) {
	groups := make(map[string][]int)
	var order []string
	for i, r := range records {
		// Titles made of pure punctuation normalize to "" and share one
		// group, so they collapse into a single survivor.
		key := normalize.Title(r.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	survivor := make(map[int]bool, len(records))
	var clusters []Cluster

	for _, key := range order {
		idxs := groups[key]
		if len(idxs) == 1 {
			survivor[idxs[0]] = true
			continue
		}

		bestIdx := -1
		bestScore := -1.0
		for _, i := range idxs {
			if s := compositeScore(records[i]); s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}
		survivor[bestIdx] = true

		cluster := Cluster{NormalizedTitle: key}
		for _, i := range idxs {
			cluster.Members = append(cluster.Members, ClusterMember{
				Record:   records[i],
				Priority: publicationPriority(records[i]),
				Score:    compositeScore(records[i]),
				Kept:     i == bestIdx,
			})
		}
		clusters = append(clusters, cluster)
	}

	kept := make([]types.Record, 0, len(groups))
	for i, r := range records {
		if survivor[i] {
			kept = append(kept, r)
		}
	}
	return kept, clusters
}

// compositeScore ranks duplicate-cluster members. Publication type dominates,
// source completeness breaks type ties, and citation count carries a weight
// small enough to only break remaining ties.
func compositeScore(r types.Record) float64 {
	score := float64(publicationPriority(r)) * 100.0
	score += float64(len(r.SourceNames)) * 10.0
	score += float64(r.CitationCount) / 10000.0
	return score
}

// publicationPriority classifies a record's publication type from its
// available metadata: document type, bibcode patterns, venue name, and
// source URLs.
func publicationPriority(r types.Record) int {
	bibcode := strings.ToLower(r.Identifiers.Bibcode)
	journal := strings.ToLower(r.Journal)
	doctype := strings.ToLower(r.DocType)

	var urls strings.Builder
	for _, u := range r.SourceURLs {
		urls.WriteString(strings.ToLower(u))
	}

	isASCL := strings.Contains(bibcode, "ascl") ||
		strings.Contains(urls.String(), "ascl") ||
		strings.Contains(journal, "astrophysics source code library")
	isSoftware := doctype == "software" ||
		strings.Contains(journal, "software") ||
		strings.Contains(journal, "code")
	if isASCL || isSoftware {
		return prioritySoftware
	}

	if doctype == "eprint" ||
		strings.Contains(journal, "arxiv") ||
		strings.Contains(journal, "preprint") ||
		strings.Contains(bibcode, "arxiv") {
		return priorityPreprint
	}

	if doctype == "article" || doctype == "inproceedings" {
		return priorityJournal
	}
	for _, marker := range journalMarkers {
		if strings.Contains(journal, marker) {
			return priorityJournal
		}
	}

	return priorityOther
}
