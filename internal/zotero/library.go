// Package zotero reads a Zotero library (zotero.sqlite) without modifying it.
//
// The database is opened read-only and immutable so a running Zotero, which
// holds an exclusive lock on the file, is never disturbed.
package zotero

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/example/googleit/internal/logging"
)

var (
	// ErrNotFound is returned when a key or name does not match anything.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a name matches more than one object.
	ErrAmbiguous = errors.New("ambiguous name")
)

// Library is a read-only view of a Zotero database.
type Library struct {
	path string
	db   *sql.DB

	mu     sync.Mutex
	tables map[string]bool
	fields map[string]bool
}

// DefaultPath returns ~/Zotero/zotero.sqlite.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home dir: %w", err)
	}
	return filepath.Join(home, "Zotero", "zotero.sqlite"), nil
}

// Open opens the Zotero database at path.
func Open(path string) (*Library, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve library path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("open library %s: %w", abs, err)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(abs))
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", abs, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open library %s: %w", abs, err)
	}

	logging.Debugf("opened zotero library %s", abs)
	return &Library{path: abs, db: db}, nil
}

func readOnlyDSN(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed, RawQuery: "mode=ro&immutable=1"}
	return u.String()
}

// Path returns the absolute path of the database file.
func (l *Library) Path() string {
	return l.path
}

// Close releases the database handle.
func (l *Library) Close() error {
	return l.db.Close()
}

// hasTable reports whether the schema contains name. Older libraries lack
// some of the trash tables.
func (l *Library) hasTable(ctx context.Context, name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tables == nil {
		rows, err := l.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
		if err != nil {
			return false, fmt.Errorf("list tables: %w", err)
		}
		defer rows.Close()

		tables := make(map[string]bool)
		for rows.Next() {
			var table string
			if err := rows.Scan(&table); err != nil {
				return false, fmt.Errorf("list tables: %w", err)
			}
			tables[table] = true
		}
		if err := rows.Err(); err != nil {
			return false, fmt.Errorf("list tables: %w", err)
		}
		l.tables = tables
	}
	return l.tables[name], nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
