package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	recallerrors "github.com/recallkit/recall/internal/errors"
)

// SQLiteIndex implements FTSIndex using SQLite FTS5.
// WAL mode allows readers to run while a rebuild is in flight, though a
// search observed mid-rebuild may still see an empty or partially
// repopulated index (clear-then-repopulate is best-effort, not
// transactional isolation across the whole rebuild).
type SQLiteIndex struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	cfg    Config
	closed bool
}

var _ FTSIndex = (*SQLiteIndex)(nil)

// validateSQLiteIntegrity checks whether an existing database is usable.
// Returns nil if the file is absent (it will be created) or healthy.
func validateSQLiteIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master
                       WHERE type='table' AND name='memory_fts'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("cannot query schema: %w", err)
	}
	// A missing table is fine: initSchema will create it.
	return nil
}

// NewSQLiteIndex opens or creates an FTS5 index at path. If path is
// empty an in-memory index is created (for tests). Opening is idempotent
// and never destroys healthy existing data; a corrupted database file is
// removed and recreated empty, with a logged hint to reindex.
func NewSQLiteIndex(path string, cfg Config) (*SQLiteIndex, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, recallerrors.StoreInit(fmt.Sprintf("failed to create directory %s", dir), err)
		}

		if validErr := validateSQLiteIntegrity(path); validErr != nil {
			slog.Warn("fts_index_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, recallerrors.StoreInit(
					fmt.Sprintf("index corrupted at %s and cannot remove (original error: %v)", path, validErr), removeErr)
			}
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")

			slog.Info("fts_index_cleared",
				slog.String("path", path),
				slog.String("reason", "corruption detected, please reindex"))
		}

		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, recallerrors.StoreInit("failed to open database", err)
	}

	// Single connection prevents writer lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, recallerrors.StoreInit("failed to set pragma", err)
		}
	}

	idx := &SQLiteIndex{db: db, path: path, cfg: cfg}

	if err := idx.initSchema(); err != nil {
		_ = db.Close()
		return nil, recallerrors.StoreInit("failed to initialize schema", err)
	}

	return idx, nil
}

// initSchema creates the FTS5 virtual table if absent.
// All five fields are FTS columns, so a query token may match content,
// tags, date or summary as well as path components.
func (s *SQLiteIndex) initSchema() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS memory_fts USING fts5(
		path, content, date_created, tags, summary,
		tokenize='unicode61'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ClearAll removes every indexed record.
func (s *SQLiteIndex) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM memory_fts`)
	if err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

// Insert adds one record, replacing any previous record with the same path.
func (s *SQLiteIndex) Insert(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// FTS5 has no REPLACE, so delete first
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memory_fts WHERE path = ?`, rec.Path); err != nil {
		return fmt.Errorf("failed to delete existing record %s: %w", rec.Path, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO memory_fts (path, content, date_created, tags, summary) VALUES (?, ?, ?, ?, ?)`,
		rec.Path, rec.Content, rec.DateCreated, rec.Tags, rec.Summary); err != nil {
		return fmt.Errorf("failed to insert record %s: %w", rec.Path, err)
	}

	return tx.Commit()
}

// Query returns up to limit records ranked by BM25 relevance, each with a
// highlighted snippet of the content field.
func (s *SQLiteIndex) Query(ctx context.Context, text string, limit int) ([]*SearchHit, error) {
	tokens, err := validateQuery(text)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}

	// Tokens are plain word runs, so joining with spaces yields a safe
	// FTS5 AND query with no operator or syntax pitfalls.
	matchQuery := strings.Join(tokens, " ")

	// bm25() is negative, lower = better; path breaks ties deterministically.
	// snippet() column 1 is content; the window is cfg.SnippetTokens tokens.
	query := `
		SELECT path, content, date_created, tags, summary,
		       snippet(memory_fts, 1, ?, ?, ?, ?) AS snip,
		       bm25(memory_fts) AS score
		FROM memory_fts
		WHERE memory_fts MATCH ?
		ORDER BY score, path
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query,
		s.cfg.HighlightOpen, s.cfg.HighlightClose, s.cfg.Ellipsis, s.cfg.SnippetTokens,
		matchQuery, limit)
	if err != nil {
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return nil, recallerrors.QueryInvalid("unsupported query: " + text)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []*SearchHit
	for rows.Next() {
		hit := &SearchHit{}
		var score float64
		if err := rows.Scan(&hit.Path, &hit.Content, &hit.DateCreated, &hit.Tags,
			&hit.Summary, &hit.Snippet, &score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		// Negate so higher = better, consistent with the Bleve backend
		hit.Score = -score
		hits = append(hits, hit)
	}

	return hits, rows.Err()
}

// DocCount returns the number of indexed records.
func (s *SQLiteIndex) DocCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("index is closed")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM memory_fts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// AllPaths returns every indexed path in ascending order.
func (s *SQLiteIndex) AllPaths() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}

	rows, err := s.db.Query(`SELECT path FROM memory_fts ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to query paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Close closes the index. Idempotent.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
