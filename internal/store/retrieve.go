// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pubsync/internal/reconcile"
	"github.com/pdiddy/pubsync/pkg/types"
)

// QueryOptions filters a retrieval over the latest archived run. Zero
// values mean "no filter". MaxResults 0 uses the store default; a
// negative value removes the limit.
type QueryOptions struct {
	// Query is an FTS5 match expression against title and abstract.
	Query string

	// Category restricts results to one primary label.
	Category string

	// Year restricts results to one publication year.
	Year int

	// Source restricts results to records a named catalog contributed to.
	Source string

	// MaxResults caps the result count.
	MaxResults int
}

// Retrieve returns publications from the latest run matching the given
// options. Full-text matches are ordered by relevance; plain listings
// by year descending then citations descending.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	runID, err := s.LatestRun(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("archive is empty: run the pipeline first")
		}
		return nil, fmt.Errorf("finding latest run: %w", err)
	}

	limit := opts.MaxResults
	if limit == 0 {
		limit = s.maxResults
	}

	const columns = `p.pub_id, p.title, p.authors, p.year, p.journal, p.abstract,
		p.citations, p.doi, p.arxiv_id, p.bibcode, p.doctype, p.keywords, p.sources,
		p.source_urls, p.citations_by_source, p.category, p.category_probabilities`

	var sb strings.Builder
	var args []any

	if opts.Query != "" {
		sb.WriteString(`SELECT ` + columns + `
			FROM publications_fts
			JOIN publications p ON p.rowid = publications_fts.rowid
			WHERE publications_fts MATCH ?`)
		args = append(args, opts.Query)
		sb.WriteString(` AND p.run_id = ?`)
		args = append(args, runID)
	} else {
		sb.WriteString(`SELECT ` + columns + `
			FROM publications p
			WHERE p.run_id = ?`)
		args = append(args, runID)
	}
	if opts.Category != "" {
		sb.WriteString(` AND p.category = ?`)
		args = append(args, opts.Category)
	}
	if opts.Year != 0 {
		sb.WriteString(` AND p.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Source != "" {
		sb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.sources) WHERE json_each.value = ?)`)
		args = append(args, opts.Source)
	}

	if opts.Query != "" {
		sb.WriteString(` ORDER BY publications_fts.rank`)
	} else {
		sb.WriteString(` ORDER BY p.year DESC, p.citations DESC`)
	}
	if limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Clusters returns the duplicate clusters recorded for the latest run.
func (s *Store) Clusters(ctx context.Context) ([]reconcile.Cluster, error) {
	runID, err := s.LatestRun(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("archive is empty: run the pipeline first")
		}
		return nil, fmt.Errorf("finding latest run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT normalized_title, members FROM duplicate_clusters WHERE run_id = ? ORDER BY normalized_title`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []reconcile.Cluster
	for rows.Next() {
		var c reconcile.Cluster
		var membersJSON string
		if err := rows.Scan(&c.NormalizedTitle, &membersJSON); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		if err := json.Unmarshal([]byte(membersJSON), &c.Members); err != nil {
			return nil, fmt.Errorf("decoding cluster %q: %w", c.NormalizedTitle, err)
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}

func scanRecord(rows *sql.Rows) (types.Record, error) {
	var r types.Record
	var year sql.NullInt64
	var authorsJSON, keywordsJSON, sourcesJSON, urlsJSON, citesJSON, probsJSON sql.NullString

	err := rows.Scan(&r.ID, &r.Title, &authorsJSON, &year, &r.Journal, &r.Abstract,
		&r.CitationCount, &r.Identifiers.DOI, &r.Identifiers.ArxivID, &r.Identifiers.Bibcode,
		&r.DocType, &keywordsJSON, &sourcesJSON, &urlsJSON, &citesJSON,
		&r.Category, &probsJSON)
	if err != nil {
		return r, fmt.Errorf("scanning publication: %w", err)
	}

	if year.Valid {
		y := int(year.Int64)
		r.Year = &y
	}
	decodeJSON(authorsJSON, &r.Authors)
	decodeJSON(keywordsJSON, &r.Keywords)
	decodeJSON(sourcesJSON, &r.SourceNames)
	decodeJSON(urlsJSON, &r.SourceURLs)
	decodeJSON(citesJSON, &r.CitationsBySource)
	decodeJSON(probsJSON, &r.CategoryProbabilities)
	return r, nil
}

func decodeJSON(col sql.NullString, v any) {
	if col.Valid && col.String != "" && col.String != "null" {
		json.Unmarshal([]byte(col.String), v)
	}
}
