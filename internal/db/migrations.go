package db

import (
	"database/sql"
	"fmt"
)

// A migration brings the schema from the previous version to the next one.
// PRAGMA user_version records how many migrations have been applied, so steps
// must only ever be appended, never reordered or edited.
type migration struct {
	name  string
	apply func(*sql.DB) error
}

var migrations = []migration{
	{
		// Version 1: the original release. A single flat inventory table
		// with local-time creation timestamps.
		name: "create inventory table",
		apply: func(db *sql.DB) error {
			_, err := db.Exec(`
				CREATE TABLE IF NOT EXISTS inventory (
				    id          INTEGER PRIMARY KEY AUTOINCREMENT,
				    name        TEXT NOT NULL,
				    image_path  TEXT,
				    created_at  DATETIME DEFAULT (datetime('now', 'localtime'))
				)`)
			return err
		},
	},
	{
		// Version 2: required/available quantity tracking. Databases touched
		// by older releases may already carry the columns, so check before
		// altering instead of swallowing duplicate-column errors.
		name: "add quantity columns",
		apply: func(db *sql.DB) error {
			for _, col := range []string{"cantidad_necesaria", "cantidad_disponible"} {
				exists, err := columnExists(db, "inventory", col)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				stmt := fmt.Sprintf(`ALTER TABLE inventory ADD COLUMN %s INTEGER NOT NULL DEFAULT 0`, col)
				if _, err := db.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		// Version 3: key/value settings, used for the persisted API secret.
		name: "create settings table",
		apply: func(db *sql.DB) error {
			_, err := db.Exec(`
				CREATE TABLE IF NOT EXISTS settings (
				    key   TEXT PRIMARY KEY,
				    value TEXT NOT NULL
				)`)
			return err
		},
	},
}

// Migrate applies all pending schema migrations. It is safe to call on every
// startup; a fully migrated database is a no-op.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		m := migrations[i]
		if err := m.apply(db); err != nil {
			return fmt.Errorf("running migration %d (%s): %w", i+1, m.name, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("recording schema version %d: %w", i+1, err)
		}
	}

	return nil
}

// columnExists reports whether the table already has the named column.
func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, fmt.Errorf("inspecting table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scanning table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
