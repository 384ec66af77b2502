// Package state persists build history and content fingerprints so repeat
// builds with unchanged inputs can be skipped.
package state

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielewood/blog/internal/blogerr"
)

// Store is a SQLite-backed build state store. Use ":memory:" for tests.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// BuildRecord summarizes one completed build.
type BuildRecord struct {
	ID          string
	Started     time.Time
	Finished    time.Time
	Outcome     string
	ConfigHash  string
	ContentHash string
	Documents   int
}

// DocumentRecord is the per-document fingerprint row for a build.
type DocumentRecord struct {
	RelPath string
	Hash    string
	LastMod time.Time
}

// Open opens (and if needed initializes) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, blogerr.InternalError("open build state database", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, blogerr.InternalError("initialize build state schema", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		documents INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_finished ON builds(finished);
	CREATE TABLE IF NOT EXISTS documents (
		build_id TEXT NOT NULL,
		rel_path TEXT NOT NULL,
		hash TEXT NOT NULL,
		lastmod INTEGER NOT NULL,
		PRIMARY KEY (build_id, rel_path)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordBuild stores a completed build and its document fingerprints.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord, docs []DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, started, finished, outcome, config_hash, content_hash, documents)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Started.Unix(), rec.Finished.Unix(), rec.Outcome,
		rec.ConfigHash, rec.ContentHash, rec.Documents)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (build_id, rel_path, hash, lastmod) VALUES (?, ?, ?, ?)`,
			rec.ID, d.RelPath, d.Hash, d.LastMod.Unix()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LastSuccessfulBuild returns the most recent build with a success outcome,
// or nil when there is none.
func (s *Store) LastSuccessfulBuild(ctx context.Context) (*BuildRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, started, finished, outcome, config_hash, content_hash, documents
		 FROM builds WHERE outcome = 'success' ORDER BY finished DESC, id DESC LIMIT 1`)

	var rec BuildRecord
	var started, finished int64
	err := row.Scan(&rec.ID, &started, &finished, &rec.Outcome,
		&rec.ConfigHash, &rec.ContentHash, &rec.Documents)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Started = time.Unix(started, 0)
	rec.Finished = time.Unix(finished, 0)
	return &rec, nil
}

// UnchangedSinceLastSuccess reports whether the given config hash and content
// fingerprint match the last successful build, allowing an early skip.
func (s *Store) UnchangedSinceLastSuccess(ctx context.Context, configHash, contentHash string) (bool, error) {
	last, err := s.LastSuccessfulBuild(ctx)
	if err != nil || last == nil {
		return false, err
	}
	return last.ConfigHash == configHash && last.ContentHash == contentHash, nil
}

// DocumentsForBuild returns the fingerprints recorded for a build.
func (s *Store) DocumentsForBuild(ctx context.Context, buildID string) ([]DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT rel_path, hash, lastmod FROM documents WHERE build_id = ? ORDER BY rel_path`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		var d DocumentRecord
		var lastmod int64
		if err := rows.Scan(&d.RelPath, &d.Hash, &lastmod); err != nil {
			return nil, err
		}
		d.LastMod = time.Unix(lastmod, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}
