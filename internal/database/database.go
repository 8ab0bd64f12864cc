package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"music-player/internal/library"
	"music-player/internal/logging"
	"music-player/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database maintains the library index: a catalog of the most recent
// scan, so track listings and stats do not require re-reading the volume.
// It holds no playback state.
type Database struct {
	db     *sql.DB
	dbPath string
}

// Stats summarizes the library index.
type Stats struct {
	Tracks      int
	WAVTracks   int
	MP3Tracks   int
	LastIndexed time.Time
}

// New opens (or creates) the index database at dbPath. The parent
// directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Library index path: %s", dbPath)

	// WAL keeps the background indexer from blocking readers;
	// busy_timeout prevents "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// The player is a single process with one background indexer;
	// a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{db: db, dbPath: dbPath}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Library index initialized at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { observe("initialize_schema", start, err) }()

	schema := `
	CREATE TABLE IF NOT EXISTS tracks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		format TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		mod_time INTEGER NOT NULL,
		indexed_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tracks_format ON tracks(format);
	`

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(opCtx, schema)
	return err
}

// ReplaceTracks atomically replaces the catalog with the given scan
// result. The index always reflects exactly one scan, never a merge.
func (d *Database) ReplaceTracks(ctx context.Context, tracks []library.Track) error {
	start := time.Now()
	var err error
	defer func() { observe("replace_tracks", start, err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(opCtx, `DELETE FROM tracks`); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	stmt, err := tx.PrepareContext(opCtx, `
		INSERT INTO tracks (path, name, format, size, mod_time)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Debug("statement close: %v", closeErr)
		}
	}()

	for _, t := range tracks {
		if _, err = stmt.ExecContext(opCtx, t.Path, t.DisplayName, string(t.Format), t.Size, t.ModTime.Unix()); err != nil {
			return fmt.Errorf("failed to insert track %s: %w", t.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Tracks returns the catalog in path order.
func (d *Database) Tracks(ctx context.Context) ([]library.Track, error) {
	start := time.Now()
	var err error
	defer func() { observe("get_tracks", start, err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(opCtx, `
		SELECT path, name, format, size, mod_time
		FROM tracks ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Debug("rows close: %v", closeErr)
		}
	}()

	var tracks []library.Track
	for rows.Next() {
		var t library.Track
		var format string
		var modTime int64
		if err = rows.Scan(&t.Path, &t.DisplayName, &format, &t.Size, &modTime); err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		t.Format = library.Format(format)
		t.ModTime = time.Unix(modTime, 0)
		tracks = append(tracks, t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, nil
}

// GetStats returns a summary of the library index.
func (d *Database) GetStats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { observe("get_stats", start, err) }()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stats Stats
	var lastIndexed sql.NullInt64
	err = d.db.QueryRowContext(opCtx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN format = 'wav' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN format = 'mp3' THEN 1 ELSE 0 END), 0),
		       MAX(indexed_at)
		FROM tracks`).Scan(&stats.Tracks, &stats.WAVTracks, &stats.MP3Tracks, &lastIndexed)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	if lastIndexed.Valid {
		stats.LastIndexed = time.Unix(lastIndexed.Int64, 0)
	}
	return stats, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

func observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(op, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
