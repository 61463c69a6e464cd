package store

import (
	"database/sql"
	"fmt"

	"maskfield/internal/logging"
)

// schemaVersion is stored in PRAGMA user_version.
var schemaVersion = len(upgrades)

// upgrades[i] moves a database from version i to i+1. Each step runs in its
// own transaction together with the version bump.
var upgrades = []func(*sql.Tx) error{
	createSubmissions,
	addMaskedValues,
}

func createSubmissions(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		form TEXT NOT NULL,
		values_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_form ON submissions(form, created_at);
	`)
	return err
}

// addMaskedValues stores the displayed value next to the clean one. Rows saved
// before it read back with an empty map.
func addMaskedValues(tx *sql.Tx) error {
	ok, err := hasColumn(tx, "submissions", "masked_json")
	if err != nil || ok {
		return err
	}
	_, err = tx.Exec(`ALTER TABLE submissions ADD COLUMN masked_json TEXT NOT NULL DEFAULT '{}'`)
	return err
}

// migrate brings db up to schemaVersion.
func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", current, schemaVersion)
	}

	for v := current; v < schemaVersion; v++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := upgrades[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("schema upgrade v%d->v%d: %w", v, v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logging.Store("schema upgraded to v%d", v+1)
	}
	return nil
}

func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n)
	return n > 0, err
}
