package probecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"clipper/internal/logging"
)

// Entry is a cached probe result for one source URL.
type Entry struct {
	URL      string
	H264MP4  []int
	All      []int
	CachedAt time.Time
}

// Cache persists probe results in SQLite so repeated runs against the same
// URL skip the network round trip. A file lock serializes schema setup and
// pruning across concurrent clipper processes.
type Cache struct {
	db     *sql.DB
	path   string
	ttl    time.Duration
	lock   *flock.Flock
	logger *slog.Logger
}

// Open initializes or connects to the cache database at path.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path required")
	}
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return nil, errors.New("probe cache is locked by another clipper run; retry or use --no-cache")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:     db,
		path:   path,
		ttl:    ttl,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "probecache"),
	}
	if err := cache.migrate(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	// Expired rows are useless to every caller; drop them while the lock is
	// fresh instead of waiting for a Lookup to touch each one.
	if pruned, pruneErr := cache.Prune(context.Background()); pruneErr != nil {
		cache.logger.Warn("failed to prune expired probe results", logging.Error(pruneErr))
	} else if pruned > 0 {
		cache.logger.Debug("pruned expired probe results", logging.Int("removed", int(pruned)))
	}
	return cache, nil
}

func (c *Cache) migrate(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS probe_results (
        url TEXT PRIMARY KEY,
        h264_mp4_json TEXT NOT NULL,
        all_json TEXT NOT NULL,
        cached_at TEXT NOT NULL
    )`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database and the cross-process lock.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.db != nil {
		firstErr = c.db.Close()
	}
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Lookup returns the cached entry for url when present and fresh. Expired
// entries are removed on the way out.
func (c *Cache) Lookup(ctx context.Context, url string) (Entry, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Entry{}, false, nil
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT h264_mp4_json, all_json, cached_at FROM probe_results WHERE url = ?`, url)

	var h264JSON, allJSON, cachedAt string
	if err := row.Scan(&h264JSON, &allJSON, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("query cache: %w", err)
	}

	entry := Entry{URL: url}
	if err := json.Unmarshal([]byte(h264JSON), &entry.H264MP4); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached heights: %w", err)
	}
	if err := json.Unmarshal([]byte(allJSON), &entry.All); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached heights: %w", err)
	}
	when, err := time.Parse(time.RFC3339Nano, cachedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode cache timestamp: %w", err)
	}
	entry.CachedAt = when

	if time.Since(when) > c.ttl {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM probe_results WHERE url = ?`, url); err != nil {
			c.logger.Warn("failed to evict expired probe entry", logging.Error(err), logging.String("url", url))
		}
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Store inserts or replaces the probe result for entry.URL.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	entry.URL = strings.TrimSpace(entry.URL)
	if entry.URL == "" {
		return errors.New("cache entry URL required")
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	h264JSON, err := json.Marshal(entry.H264MP4)
	if err != nil {
		return fmt.Errorf("encode heights: %w", err)
	}
	allJSON, err := json.Marshal(entry.All)
	if err != nil {
		return fmt.Errorf("encode heights: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO probe_results (url, h264_mp4_json, all_json, cached_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET
             h264_mp4_json = excluded.h264_mp4_json,
             all_json = excluded.all_json,
             cached_at = excluded.cached_at`,
		entry.URL, string(h264JSON), string(allJSON), entry.CachedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store probe entry: %w", err)
	}
	return nil
}

// Prune removes every expired entry and reports how many were dropped.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-c.ttl).Format(time.RFC3339Nano)
	res, err := c.db.ExecContext(ctx, `DELETE FROM probe_results WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }
