package metacache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"gamedex/internal/logging"
	"gamedex/internal/metadata"
	"gamedex/internal/textutil"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the cache rather than migrate.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("cache schema version mismatch")

// Store is the SQLite-backed metadata cache.
type Store struct {
	db     *sql.DB
	lock   *flock.Flock
	path   string
	logger *slog.Logger
}

// Stats summarizes cache contents for status displays.
type Stats struct {
	Entries int64
	Oldest  time.Time
	Newest  time.Time
	Path    string
}

// Open initializes or connects to the cache database under dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "metacache"))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "metadata.db")
	fileLock := flock.New(dbPath + ".lock")
	ok, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, errors.New("metadata cache is locked by another gamedex process")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = fileLock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: fileLock, path: dbPath, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = fileLock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database and releases the cache lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return dbErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the cached record for a title/app-id pair when one exists and
// is no older than maxAge. A maxAge of zero disables the staleness check.
func (s *Store) Get(ctx context.Context, title, steamAppID string, maxAge time.Duration) (*metadata.AggregatedMetadata, bool, error) {
	key := cacheKey(title, steamAppID)

	var payload, fetchedRaw string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM metadata_cache WHERE cache_key = ?", key,
	).Scan(&payload, &fetchedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339Nano, fetchedRaw)
	if err != nil {
		return nil, false, fmt.Errorf("parse cache timestamp: %w", err)
	}
	if maxAge > 0 && time.Since(fetchedAt) > maxAge {
		s.logger.Debug("cache entry stale", logging.String("key", key))
		return nil, false, nil
	}

	var record metadata.AggregatedMetadata
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		// A corrupt row is dropped rather than surfaced; the caller refetches.
		s.logger.Warn("dropping corrupt cache entry", logging.String("key", key), logging.Error(err))
		_, _ = s.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE cache_key = ?", key)
		return nil, false, nil
	}
	return &record, true, nil
}

// Put stores or replaces the record for a title/app-id pair.
func (s *Store) Put(ctx context.Context, title, steamAppID string, record metadata.AggregatedMetadata) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	key := cacheKey(title, steamAppID)
	_, err = s.db.ExecContext(ctx, `
INSERT INTO metadata_cache (cache_key, title, app_id, payload, fetched_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
    title = excluded.title,
    app_id = excluded.app_id,
    payload = excluded.payload,
    fetched_at = excluded.fetched_at`,
		key, title, steamAppID, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	s.logger.Debug("cached metadata", logging.String("key", key))
	return nil
}

// Clear removes every cache entry and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM metadata_cache")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}

// Stats reports entry count and fetch-time range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM metadata_cache").Scan(&stats.Entries)
	if err != nil {
		return Stats{}, fmt.Errorf("count cache entries: %w", err)
	}
	if stats.Entries == 0 {
		return stats, nil
	}

	var oldestRaw, newestRaw string
	err = s.db.QueryRowContext(ctx,
		"SELECT MIN(fetched_at), MAX(fetched_at) FROM metadata_cache").Scan(&oldestRaw, &newestRaw)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache range: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, oldestRaw); err == nil {
		stats.Oldest = t
	}
	if t, err := time.Parse(time.RFC3339Nano, newestRaw); err == nil {
		stats.Newest = t
	}
	return stats, nil
}

// cacheKey builds a stable key from the sanitized title and the app id, so
// "Hollow Knight" and "hollow knight!" share one entry while distinct app ids
// never collide.
func cacheKey(title, steamAppID string) string {
	return textutil.SanitizeToken(title) + "|" + steamAppID
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'gamedex cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
