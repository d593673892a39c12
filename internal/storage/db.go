// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/volley/internal/errs"
	_ "modernc.org/sqlite"
)

// Querier is the read primitive the reporting engine depends on.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
	log    *log.Logger
	seed   bool
}

// Option configures Open.
type Option func(*DB)

// WithoutSeed skips loading the demo dataset on first creation and on reset.
func WithoutSeed() Option {
	return func(d *DB) { d.seed = false }
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// Open opens or creates a SQLite database at the given path. It is
// idempotent: a new store gets the schema and the seed dataset, an existing
// store only gets pending migrations. A nil logger discards log output.
func Open(dbPath string, logger *log.Logger, opts ...Option) (*DB, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, &errs.StorageInitError{Path: dbPath, Err: fmt.Errorf("create data directory: %w", err)}
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, &errs.StorageInitError{Path: dbPath, Err: fmt.Errorf("open database: %w", err)}
	}

	d := &DB{db: db, dbPath: dbPath, log: logger.WithPrefix("storage"), seed: true}
	for _, opt := range opts {
		opt(d)
	}

	// Force the file into existence so permissions can be set
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &errs.StorageInitError{Path: dbPath, Err: fmt.Errorf("open database: %w", err)}
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, &errs.StorageInitError{Path: dbPath, Err: fmt.Errorf("set database permissions: %w", err)}
	}

	ctx := context.Background()
	from, err := d.migrate(ctx)
	if err != nil {
		_ = db.Close()
		return nil, &errs.StorageInitError{Path: dbPath, Err: err}
	}

	if from == 0 && d.seed {
		err := d.withTx(ctx, func(tx *sql.Tx) error {
			return seed(ctx, tx)
		})
		if err != nil {
			_ = db.Close()
			return nil, &errs.StorageInitError{Path: dbPath, Err: fmt.Errorf("seed database: %w", err)}
		}
		d.log.Info("created store with demo data", "path", dbPath)
	}

	return d, nil
}

// dsn builds a connection string that applies pragmas on every pooled
// connection, not just the first one.
func dsn(dbPath string) string {
	pragmas := []string{
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + dbPath + "?" + q.Encode()
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault(logger *log.Logger, opts ...Option) (*DB, error) {
	return Open(DefaultDBPath(), logger, opts...)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "volley")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "volley.db")
}

// Path returns the file backing the store.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// QueryContext runs a read query against committed data.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a single auto-committed write.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

// withTx runs fn in a transaction, committing on success.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isForeignKeyErr reports whether err came from a violated foreign key.
func isForeignKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
