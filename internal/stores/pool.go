// Package stores manages the per-workspace SQLite stores.
//
// Every workspace owns one database file holding its projects and their
// launch history. The Registry keeps one pooled *sql.DB per workspace for the
// lifetime of the process; collaborators receive a Handle that pairs the
// workspace metadata with that pool.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

const (
	// MaxOpenConns bounds each workspace pool.
	MaxOpenConns = 5

	driverName = "sqlite"
)

// pragmas are applied by the driver to every new connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	path TEXT NOT NULL UNIQUE,
	description TEXT,
	open_config TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS launch_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id TEXT NOT NULL,
	launched_at TEXT NOT NULL,
	FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
);
`

// DSN returns the connection string for the store at path.
func DSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	for i, p := range pragmas {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString("_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// OpenPool opens (creating if missing) the store at path and initialises its
// schema. The parent directory is created first.
func OpenPool(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create store directory for %s: %v", apperr.ErrIO, path, err)
	}

	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", apperr.ErrDatabase, path, err)
	}
	db.SetMaxOpenConns(MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", apperr.ErrDatabase, path, err)
	}

	if err := InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the projects and launch_history tables if absent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: failed to initialise schema: %v", apperr.ErrDatabase, err)
	}
	return nil
}
