package probecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dnnbrain/internal/logging"
)

// Entry represents a cached video metadata probe. Size and ModTime identify
// the file state the probe was taken for; an entry is stale once either
// changes.
type Entry struct {
	Path            string
	Size            int64
	ModTime         int64 // unix nanoseconds
	FrameRate       float64
	FrameCount      int64
	DurationSeconds float64
	CachedAt        time.Time
}

// Cache persists ffprobe results in SQLite so repeated scheduling runs over
// the same stimulus videos skip the probe. A cache opened with an empty path
// is non-functional: lookups miss and stores are no-ops.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS probe_results (
    path TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    mod_time INTEGER NOT NULL,
    frame_rate REAL NOT NULL,
    frame_count INTEGER NOT NULL,
    duration_seconds REAL NOT NULL,
    cached_at TEXT NOT NULL
);
`

// Open initializes or connects to the probe cache database.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	logger = logging.NewComponentLogger(logger, "probecache")

	path = strings.TrimSpace(path)
	if path == "" {
		return &Cache{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Cache{db: db, path: path, logger: logger}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached entry for the file identity, and whether it was
// found. A stale entry (size or mod time changed) counts as a miss and is
// evicted.
func (c *Cache) Lookup(ctx context.Context, path string, size, modTime int64) (Entry, bool, error) {
	if c == nil || c.db == nil {
		return Entry{}, false, nil
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT size, mod_time, frame_rate, frame_count, duration_seconds, cached_at
		 FROM probe_results WHERE path = ?`, path)

	var entry Entry
	var cachedAt string
	err := row.Scan(&entry.Size, &entry.ModTime, &entry.FrameRate, &entry.FrameCount, &entry.DurationSeconds, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup probe cache: %w", err)
	}

	entry.Path = path
	if ts, parseErr := time.Parse(time.RFC3339Nano, cachedAt); parseErr == nil {
		entry.CachedAt = ts
	}

	if entry.Size != size || entry.ModTime != modTime {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM probe_results WHERE path = ?`, path); err != nil {
			c.logger.Warn("evict stale probe entry failed",
				logging.String(logging.FieldVideo, path),
				logging.Error(err))
		}
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Store adds or replaces the cached probe for a file identity.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Path) == "" {
		return errors.New("probe cache: path cannot be empty")
	}
	if c == nil || c.db == nil {
		return nil
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO probe_results (path, size, mod_time, frame_rate, frame_count, duration_seconds, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		     size = excluded.size,
		     mod_time = excluded.mod_time,
		     frame_rate = excluded.frame_rate,
		     frame_count = excluded.frame_count,
		     duration_seconds = excluded.duration_seconds,
		     cached_at = excluded.cached_at`,
		entry.Path, entry.Size, entry.ModTime, entry.FrameRate, entry.FrameCount, entry.DurationSeconds,
		entry.CachedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store probe cache entry: %w", err)
	}
	return nil
}

// Len reports the number of cached entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	if c == nil || c.db == nil {
		return 0, nil
	}
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM probe_results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count probe cache entries: %w", err)
	}
	return count, nil
}
