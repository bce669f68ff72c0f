// Package history records completed uploads in a local SQLite ledger so
// past transfers can be listed without asking the remote service.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dbFileName is the ledger database file inside the data directory.
const dbFileName = "history.db"

// Entry is one recorded upload.
type Entry struct {
	ID         int64
	RunID      string
	ObjectID   string
	FolderID   string
	LocalPath  string
	RemoteName string
	Size       int64
	SHA1       string
	CRC32      string
	UploadedAt time.Time
	Elapsed    time.Duration
}

// Ledger wraps the history database. Single writer: the connection pool is
// capped at one connection.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the ledger in dataDir and applies pending schema
// migrations.
func Open(ctx context.Context, dataDir string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("history: creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, dbFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts one completed upload.
func (l *Ledger) Record(ctx context.Context, e *Entry) error {
	const q = `INSERT INTO uploads
		(run_id, object_id, folder_id, local_path, remote_name, size, sha1, crc32, uploaded_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	uploadedAt := e.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx, q,
		e.RunID, e.ObjectID, e.FolderID, e.LocalPath, e.RemoteName,
		e.Size, e.SHA1, e.CRC32, uploadedAt.Unix(), e.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("history: recording upload of %s: %w", e.LocalPath, err)
	}

	return nil
}

// Recent returns the most recent entries, newest first, capped at limit.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `SELECT id, run_id, object_id, folder_id, local_path, remote_name,
		size, sha1, crc32, uploaded_at, elapsed_ms
		FROM uploads ORDER BY id DESC LIMIT ?`

	rows, err := l.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: querying uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			e         Entry
			uploaded  int64
			elapsedMS int64
		)

		if err := rows.Scan(&e.ID, &e.RunID, &e.ObjectID, &e.FolderID,
			&e.LocalPath, &e.RemoteName, &e.Size, &e.SHA1, &e.CRC32,
			&uploaded, &elapsedMS); err != nil {
			return nil, fmt.Errorf("history: scanning row: %w", err)
		}

		e.UploadedAt = time.Unix(uploaded, 0)
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating rows: %w", err)
	}

	return entries, nil
}

// runMigrations applies all pending schema migrations using the goose v3
// Provider API (no global state, context-aware).
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("history: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("history: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("history: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Debug("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}
