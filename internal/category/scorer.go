// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package category

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// defaultAbstractLimit caps how much of the abstract participates in
// scoring, so very long abstracts cannot drown out title signal.
const defaultAbstractLimit = 800

// Field multipliers. Title words are the strongest signal of what a paper
// is about, curated keywords next, abstract prose weakest.
const (
	titleWeight    = 3.0
	keywordsWeight = 2.0
	abstractWeight = 1.0
)

var nonWordPattern = regexp.MustCompile(`[^\w\s-]`)

// Result is the outcome of scoring one record.
type Result struct {
	// Scores holds the raw weighted keyword scores per label, after the
	// label priority multiplier.
	Scores map[string]float64

	// Probabilities is Scores normalized to sum to 1. When no keyword
	// matches at all, every label gets an equal share.
	Probabilities map[string]float64

	// Primary is the label with the highest probability. Ties go to the
	// label listed first in the lexicon.
	Primary string

	// Matched lists the keywords that contributed per label, for reports.
	Matched map[string][]string
}

// Scorer assigns category probabilities to records. It is stateless apart
// from its lexicon and safe for concurrent use.
type Scorer struct {
	lex           *Lexicon
	abstractLimit int
}

// NewScorer builds a scorer from cfg. An empty LexiconPath selects the
// built-in lexicon; a non-positive AbstractLimit selects the default cap.
func NewScorer(cfg types.CategoryConfig) (*Scorer, error) {
	lex, err := Load(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	limit := cfg.AbstractLimit
	if limit <= 0 {
		limit = defaultAbstractLimit
	}
	return &Scorer{lex: lex, abstractLimit: limit}, nil
}

// Labels returns the scorer's label names in tie-break order.
func (s *Scorer) Labels() []string { return s.lex.Labels() }

// Score computes the label distribution for one record. Keyword matching is
// binary per field: a keyword present in the title contributes its weight
// times the title multiplier exactly once, no matter how often it repeats.
func (s *Scorer) Score(r types.Record) Result {
	abstract := r.Abstract
	if runes := []rune(abstract); len(runes) > s.abstractLimit {
		abstract = string(runes[:s.abstractLimit])
	}

	fields := []struct {
		text   string
		weight float64
	}{
		{cleanText(r.Title), titleWeight},
		{cleanText(abstract), abstractWeight},
		{cleanText(strings.Join(r.Keywords, " ")), keywordsWeight},
	}

	res := Result{
		Scores:        make(map[string]float64, len(s.lex.labels)),
		Probabilities: make(map[string]float64, len(s.lex.labels)),
		Matched:       make(map[string][]string),
	}

	total := 0.0
	for _, label := range s.lex.labels {
		score := 0.0
		for _, e := range s.lex.entries[label] {
			hit := false
			for _, f := range fields {
				if f.text != "" && e.pattern.MatchString(f.text) {
					score += e.weight * f.weight
					hit = true
				}
			}
			if hit {
				res.Matched[label] = append(res.Matched[label], e.keyword)
			}
		}
		score *= s.lex.Priority(label)
		res.Scores[label] = score
		total += score
	}

	if total > 0 {
		for label, score := range res.Scores {
			res.Probabilities[label] = score / total
		}
	} else {
		share := 1.0 / float64(len(s.lex.labels))
		for _, label := range s.lex.labels {
			res.Probabilities[label] = share
		}
	}

	for _, terms := range res.Matched {
		sort.Strings(terms)
	}

	res.Primary = s.primary(res.Probabilities)
	return res
}

// primary picks the highest-probability label, resolving exact ties by
// lexicon order.
func (s *Scorer) primary(probs map[string]float64) string {
	best := ""
	bestProb := -1.0
	for _, label := range s.lex.labels {
		if p := probs[label]; p > bestProb {
			bestProb = p
			best = label
		}
	}
	return best
}

// Apply scores every record in place, setting Category and
// CategoryProbabilities, and returns the per-record results in input order.
func (s *Scorer) Apply(records []types.Record) []Result {
	results := make([]Result, len(records))
	for i := range records {
		res := s.Score(records[i])
		records[i].Category = res.Primary
		records[i].CategoryProbabilities = res.Probabilities
		results[i] = res
	}
	return results
}

// cleanText lowercases and strips everything except word characters,
// whitespace, and hyphens, then collapses runs of whitespace. Matching the
// lexicon against cleaned text keeps punctuation from splitting or hiding
// keywords.
func cleanText(text string) string {
	text = nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Join(strings.Fields(text), " ")
}
