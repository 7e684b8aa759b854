package store

import "fmt"

// migrate runs all schema migrations in order
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateRecords,
		migrationCreateRecordsIndex,
		migrationCreateProjectSettings,
		migrationCreateCredentials,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateRecords = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    task TEXT NOT NULL,
    start_at TEXT NOT NULL,
    end_at TEXT
);
`

// Partial index keeps the "which record is open" lookup O(1); both SQLite and
// Postgres support the WHERE clause.
const migrationCreateRecordsIndex = `
CREATE INDEX IF NOT EXISTS idx_records_open ON records(end_at) WHERE end_at IS NULL;
`

const migrationCreateProjectSettings = `
CREATE TABLE IF NOT EXISTS project_settings (
    id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    task TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);
`

const migrationCreateCredentials = `
CREATE TABLE IF NOT EXISTS credentials (
    service TEXT PRIMARY KEY,
    endpoint TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    token TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
);
`
