// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/library.go
// Summary: SQLite-backed persistence for custom brushes and the
// recent-map list.
// Usage: Opened once at startup; brushes are saved whenever the custom
// set changes and loaded back on the next run.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tilemason/tilemason/brush"
)

// recentMapLimit bounds how many entries the recent list keeps.
const recentMapLimit = 20

// Library persists editor state that outlives a session.
type Library interface {
	// SaveBrushes replaces the stored custom brush set. Built-in
	// brushes are never persisted.
	SaveBrushes(brushes []*brush.Brush) error

	// LoadBrushes returns the stored custom brushes.
	LoadBrushes() ([]*brush.Brush, error)

	// TouchRecentMap records that a map file was opened now.
	TouchRecentMap(path string) error

	// RecentMaps returns up to limit entries, newest first.
	RecentMaps(limit int) ([]RecentMap, error)

	// Close closes the database.
	Close() error
}

// RecentMap is one entry of the recently opened list.
type RecentMap struct {
	Path       string
	LastOpened time.Time
}

const librarySchemaVersion = 1

const librarySchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS brushes (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    tiles BLOB NOT NULL               -- JSON row-major pattern
);

CREATE TABLE IF NOT EXISTS recent_maps (
    path TEXT PRIMARY KEY,
    last_opened INTEGER NOT NULL      -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_recent_maps_opened ON recent_maps(last_opened);
`

// SQLiteLibrary implements Library on a local SQLite file.
type SQLiteLibrary struct {
	db *sql.DB
	mu sync.Mutex
}

// DefaultPath returns the library location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tilemason", "library.db"), nil
}

// Open creates or opens the library database at dbPath.
func Open(dbPath string) (*SQLiteLibrary, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if _, err := db.Exec(librarySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteLibrary{db: db}, nil
}

// migrateSchema records the schema version, clearing stored brushes on
// a version change since their encoding may have moved on.
func migrateSchema(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err == sql.ErrNoRows || err != nil {
		current = 0
	}
	if current == librarySchemaVersion {
		return nil
	}

	if current != 0 {
		log.Printf("Store: migrating library schema %d -> %d", current, librarySchemaVersion)
		if _, err := db.Exec("DELETE FROM brushes"); err != nil {
			return fmt.Errorf("store: clear stale brushes: %w", err)
		}
	}
	if _, err := db.Exec(
		"INSERT OR REPLACE INTO schema_version (version) VALUES (?)", librarySchemaVersion,
	); err != nil {
		return fmt.Errorf("store: update schema version: %w", err)
	}
	return nil
}

// SaveBrushes replaces the stored set in one transaction.
func (l *SQLiteLibrary) SaveBrushes(brushes []*brush.Brush) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM brushes"); err != nil {
		tx.Rollback()
		return fmt.Errorf("store: clear brushes: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO brushes (id, name, width, height, tiles) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range brushes {
		if b == nil || b.BuiltIn {
			continue
		}
		tiles, err := json.Marshal(b.Tiles)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("store: encode brush %d: %w", b.ID, err)
		}
		if _, err := stmt.Exec(b.ID, b.Name, b.Width, b.Height, tiles); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: insert brush %d: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// LoadBrushes returns the stored custom brushes, skipping rows that no
// longer decode.
func (l *SQLiteLibrary) LoadBrushes() ([]*brush.Brush, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query("SELECT id, name, width, height, tiles FROM brushes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("store: query brushes: %w", err)
	}
	defer rows.Close()

	var out []*brush.Brush
	for rows.Next() {
		var b brush.Brush
		var tiles []byte
		if err := rows.Scan(&b.ID, &b.Name, &b.Width, &b.Height, &tiles); err != nil {
			continue
		}
		if err := json.Unmarshal(tiles, &b.Tiles); err != nil {
			log.Printf("Store: dropping undecodable brush %d: %v", b.ID, err)
			continue
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// TouchRecentMap upserts the entry and prunes the list.
func (l *SQLiteLibrary) TouchRecentMap(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.Exec(`
		INSERT INTO recent_maps (path, last_opened) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET last_opened = excluded.last_opened
	`, path, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("store: touch recent map: %w", err)
	}

	_, err := l.db.Exec(`
		DELETE FROM recent_maps WHERE path NOT IN (
			SELECT path FROM recent_maps ORDER BY last_opened DESC LIMIT ?
		)
	`, recentMapLimit)
	if err != nil {
		return fmt.Errorf("store: prune recent maps: %w", err)
	}
	return nil
}

// RecentMaps lists entries newest first.
func (l *SQLiteLibrary) RecentMaps(limit int) ([]RecentMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > recentMapLimit {
		limit = recentMapLimit
	}
	rows, err := l.db.Query(
		"SELECT path, last_opened FROM recent_maps ORDER BY last_opened DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("store: query recent maps: %w", err)
	}
	defer rows.Close()

	var out []RecentMap
	for rows.Next() {
		var r RecentMap
		var ns int64
		if err := rows.Scan(&r.Path, &ns); err != nil {
			continue
		}
		r.LastOpened = time.Unix(0, ns)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (l *SQLiteLibrary) Close() error {
	return l.db.Close()
}

// Compile-time interface check
var _ Library = (*SQLiteLibrary)(nil)
