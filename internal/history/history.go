// Package history persists completed runs in a SQLite database so their
// results can be listed and shown again later.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gerunddev/quartet/internal/log"
)

// ErrNotFound is returned when no run matches the requested ID.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned when an ID prefix matches more than one run.
var ErrAmbiguous = errors.New("run ID prefix is ambiguous")

// Store holds the database connection for the run history.
type Store struct {
	conn *sql.DB
}

// New opens the history database at path, creating it and its parent
// directory if needed. ":memory:" opens a private in-memory database.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		log.CloseError("history database", conn.Close())
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.Migrate(); err != nil {
		log.CloseError("history database", conn.Close())
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Save inserts run. An empty ID is replaced with a new UUID and a zero
// CreatedAt with the current time; both are written back to run.
func (s *Store) Save(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, task, profile_name, backend, plan, implementation, review, coaching, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Task, run.ProfileName, run.Backend,
		run.Result.Plan, run.Result.Implementation, run.Result.Review, run.Result.Coaching,
		run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const selectRun = `
	SELECT id, task, profile_name, backend, plan, implementation, review, coaching, created_at
	FROM runs`

// Get returns the run whose ID equals id, or failing that the single run
// whose ID starts with id.
func (s *Store) Get(id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	run, err := scanRun(s.conn.QueryRow(selectRun+` WHERE id = ?`, id))
	if !errors.Is(err, ErrNotFound) {
		return run, err
	}

	runs, err := s.query(selectRun+` WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(id)+"%")
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		return s.query(selectRun + ` ORDER BY created_at DESC, rowid DESC`)
	}
	return s.query(selectRun+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

func (s *Store) query(q string, args ...interface{}) ([]*Run, error) {
	rows, err := s.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", "operation", "query", "error", closeErr)
		}
	}()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	var created int64
	err := row.Scan(
		&run.ID, &run.Task, &run.ProfileName, &run.Backend,
		&run.Result.Plan, &run.Result.Implementation, &run.Result.Review, &run.Result.Coaching,
		&created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, created)
	return run, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
