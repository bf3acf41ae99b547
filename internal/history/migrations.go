package history

// schema is the SQL schema for the history database.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    task TEXT NOT NULL,
    profile_name TEXT NOT NULL DEFAULT '',
    backend TEXT NOT NULL DEFAULT '',
    plan TEXT NOT NULL,
    implementation TEXT NOT NULL,
    review TEXT NOT NULL,
    coaching TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate() error {
	_, err := s.conn.Exec(schema)
	return err
}
