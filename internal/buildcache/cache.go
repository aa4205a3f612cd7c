// Package buildcache persists artifact checksums between generation runs
// so unchanged artifacts are skipped and removed ones are pruned.
package buildcache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS artifacts (
	path       TEXT PRIMARY KEY,
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with cache-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the cache database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("buildcache: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("buildcache: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("buildcache: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Put records the checksum for an artifact path.
func (db *DB) Put(path, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO artifacts (path, checksum, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, path, checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("buildcache: put %s: %w", path, err)
	}
	return nil
}

// Delete removes an artifact entry.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM artifacts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("buildcache: delete %s: %w", path, err)
	}
	return nil
}

// AllChecksums returns every recorded path with its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM artifacts`)
	if err != nil {
		return nil, fmt.Errorf("buildcache: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
