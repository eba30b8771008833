package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"layoutdna/cache"
	"layoutdna/logging"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultMaxEntries bounds the store when no limit is configured
const DefaultMaxEntries = 2000

// InitDatabase opens the SQLite file at dbPath and creates the results table
func InitDatabase(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS results (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	// Stores created before eviction existed lack last_used_at
	var hasLastUsedColumn bool
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('results') WHERE name='last_used_at'").Scan(&hasLastUsedColumn)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error checking for last_used_at column: %w", err)
	}

	if !hasLastUsedColumn {
		if _, err = db.Exec("ALTER TABLE results ADD COLUMN last_used_at INTEGER NOT NULL DEFAULT 0;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("error adding last_used_at column: %w", err)
		}
		logging.DebugLog("Added 'last_used_at' column to existing database schema")
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS idx_last_used ON results(last_used_at);"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Store is a cache.Cache persisted in SQLite that keeps at most MaxEntries
// rows, pruning the least recently used ones after each write
type Store struct {
	db         *sql.DB
	maxEntries int
	mu         sync.Mutex
	now        func() time.Time
}

// OpenStore opens or creates a bounded result store at dbPath
func OpenStore(dbPath string, maxEntries int) (*Store, error) {
	db, err := InitDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open cache database %s: %w", dbPath, err)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{db: db, maxEntries: maxEntries, now: time.Now}, nil
}

// Get returns the stored value and refreshes its last use time
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, "SELECT data, expires_at FROM results WHERE key = ?", key).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup for %s: %w", key, err)
	}

	now := s.now()
	if expiresAt != 0 && now.UnixNano() > expiresAt {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("cannot drop expired entry %s: %w", key, err)
		}
		return nil, false, nil
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE results SET last_used_at = ? WHERE key = ?", now.UnixNano(), key); err != nil {
		logging.DebugLog("Cannot refresh cache entry %s: %v", key, err)
	}
	return data, true, nil
}

// Set stores data under key, replacing any previous value, then prunes the store
func (s *Store) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixNano()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now + int64(ttl)
	}

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT OR REPLACE INTO results (key, data, created_at, expires_at, last_used_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %w", key, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, key, data, now, expiresAt, now); err != nil {
		return fmt.Errorf("cannot store %s: %w", key, err)
	}

	return s.prune(ctx)
}

// prune deletes the least recently used rows beyond maxEntries
func (s *Store) prune(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM results WHERE key IN (
			SELECT key FROM results ORDER BY last_used_at DESC, key LIMIT -1 OFFSET ?
		)`, s.maxEntries)
	if err != nil {
		return fmt.Errorf("cannot prune cache: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logging.DebugLog("Evicted %d cache entries", n)
	}
	return nil
}

// Delete removes key if present
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE key = ?", key); err != nil {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// StoreStats summarizes the contents of a store
type StoreStats struct {
	Entries    int
	TotalBytes int64
	MaxEntries int
}

// Stats reports the number of entries and their total payload size
func (s *Store) Stats(ctx context.Context) (*StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StoreStats{MaxEntries: s.maxEntries}
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM results").
		Scan(&stats.Entries, &stats.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return &stats, nil
}

var _ cache.Cache = (*Store)(nil)
