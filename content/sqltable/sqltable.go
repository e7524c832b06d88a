// Package sqltable stores content items as rows of a SQLite table and exposes
// them as a content.Source.
package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pagepress/content"
)

// Table wraps a SQLite database holding one row per content item.
type Table struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the pages table.
func Open(path string) (*Table, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while an import writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t := &Table{db: db}
	if err := t.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

// Close closes the underlying database connection.
func (t *Table) Close() error {
	return t.db.Close()
}

func (t *Table) ensureSchema() error {
	_, err := t.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    locator TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// List returns every row ordered by locator.
func (t *Table) List(ctx context.Context) ([]content.Item, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT locator, body FROM pages ORDER BY locator`)
	if err != nil {
		return nil, &content.IOError{Op: "scan", Locator: "pages", Err: err}
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		var it content.Item
		if err := rows.Scan(&it.Locator, &it.Text); err != nil {
			return nil, &content.IOError{Op: "scan", Locator: "pages", Err: err}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, &content.IOError{Op: "scan", Locator: "pages", Err: err}
	}
	return items, nil
}

// Read returns the body stored under locator.
func (t *Table) Read(ctx context.Context, locator string) (string, error) {
	var body string
	err := t.db.QueryRowContext(ctx, `SELECT body FROM pages WHERE locator = ?`, locator).Scan(&body)
	if err != nil {
		return "", &content.IOError{Op: "read", Locator: locator, Err: err}
	}
	return body, nil
}

// Put upserts a row.
func (t *Table) Put(ctx context.Context, locator, body string) error {
	if strings.TrimSpace(locator) == "" {
		return errors.New("sqltable: empty locator")
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (locator, body, updated_at) VALUES (?, ?, ?)`,
		locator, body, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes a row by locator.
func (t *Table) Delete(ctx context.Context, locator string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM pages WHERE locator = ?`, locator)
	return err
}

// ImportDir copies every item of a directory source into the table inside a
// single transaction and returns the number of rows written.
func (t *Table) ImportDir(ctx context.Context, fsys fs.FS) (int, error) {
	items, err := content.NewFSSource(fsys).List(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pages (locator, body, updated_at) VALUES (?, ?, ?)`,
			it.Locator, it.Text, now); err != nil {
			return 0, fmt.Errorf("import %s: %w", it.Locator, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}
