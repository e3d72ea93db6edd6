// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives pipeline runs in SQLite and serves queries over
// the latest canonical publication set.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubsync/internal/reconcile"
	"github.com/pdiddy/pubsync/pkg/types"
)

const (
	indexDir   = "index"
	backupsDir = "backups"
	dbFile     = "pubsync.db"
)

// Store manages the publication archive SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	exportFile string
	maxResults int
}

// NewStore opens or creates the archive database at
// DataDir/index/pubsync.db, creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	exportFile := cfg.ExportFile
	if exportFile == "" {
		exportFile = filepath.Join(cfg.DataDir, "publications_data.json")
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		exportFile: exportFile,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			metrics TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			pub_id TEXT,
			title TEXT NOT NULL,
			authors TEXT,
			year INTEGER,
			journal TEXT,
			abstract TEXT,
			citations INTEGER,
			doi TEXT,
			arxiv_id TEXT,
			bibcode TEXT,
			doctype TEXT,
			keywords TEXT,
			sources TEXT,
			source_urls TEXT,
			citations_by_source TEXT,
			category TEXT,
			category_probabilities TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_run ON publications(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_category ON publications(category)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year)`,
		`CREATE TABLE IF NOT EXISTS duplicate_clusters (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			normalized_title TEXT NOT NULL,
			members TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='publications_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE publications_fts USING fts5(title, abstract, content=publications, content_rowid=rowid)`,
			`CREATE TRIGGER publications_ai AFTER INSERT ON publications BEGIN
				INSERT INTO publications_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER publications_ad AFTER DELETE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER publications_au AFTER UPDATE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO publications_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRun archives one pipeline run: the canonical dataset plus the
// duplicate clusters detected along the way. Everything goes in one
// transaction so a failed save leaves no partial run behind.
func (s *Store) SaveRun(ctx context.Context, data types.Dataset, clusters []reconcile.Cluster) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := data.LastUpdated
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	metricsJSON, _ := json.Marshal(data.Metrics)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, record_count, metrics) VALUES (?, ?, ?)`,
		createdAt, len(data.Publications), string(metricsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO publications (run_id, pub_id, title, authors, year, journal, abstract,
			citations, doi, arxiv_id, bibcode, doctype, keywords, sources, source_urls,
			citations_by_source, category, category_probabilities)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range data.Publications {
		authorsJSON, _ := json.Marshal(r.Authors)
		keywordsJSON, _ := json.Marshal(r.Keywords)
		sourcesJSON, _ := json.Marshal(r.SourceNames)
		urlsJSON, _ := json.Marshal(r.SourceURLs)
		citesJSON, _ := json.Marshal(r.CitationsBySource)
		probsJSON, _ := json.Marshal(r.CategoryProbabilities)

		var year any
		if r.Year != nil {
			year = *r.Year
		}

		_, err := stmt.ExecContext(ctx,
			runID, r.ID, r.Title, string(authorsJSON), year, r.Journal, r.Abstract,
			r.CitationCount, r.Identifiers.DOI, r.Identifiers.ArxivID, r.Identifiers.Bibcode,
			r.DocType, string(keywordsJSON), string(sourcesJSON), string(urlsJSON),
			string(citesJSON), r.Category, string(probsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting publication %q: %w", r.Title, err)
		}
	}

	for _, c := range clusters {
		membersJSON, err := json.Marshal(c.Members)
		if err != nil {
			return 0, fmt.Errorf("marshaling cluster %q: %w", c.NormalizedTitle, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO duplicate_clusters (run_id, normalized_title, members) VALUES (?, ?, ?)`,
			runID, c.NormalizedTitle, string(membersJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting cluster %q: %w", c.NormalizedTitle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run ID, or sql.ErrNoRows when the
// archive is empty.
func (s *Store) LatestRun(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	return id, err
}

// LoadDataset reconstructs the dataset of the latest run.
func (s *Store) LoadDataset(ctx context.Context) (types.Dataset, error) {
	runID, err := s.LatestRun(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Dataset{}, fmt.Errorf("archive is empty: run the pipeline first")
		}
		return types.Dataset{}, fmt.Errorf("finding latest run: %w", err)
	}

	var createdAt string
	var metricsJSON sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at, metrics FROM runs WHERE id = ?`, runID,
	).Scan(&createdAt, &metricsJSON)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("reading run %d: %w", runID, err)
	}

	data := types.Dataset{LastUpdated: createdAt}
	if metricsJSON.Valid {
		json.Unmarshal([]byte(metricsJSON.String), &data.Metrics)
	}

	data.Publications, err = s.Retrieve(ctx, QueryOptions{MaxResults: -1})
	if err != nil {
		return types.Dataset{}, err
	}
	return data, nil
}
