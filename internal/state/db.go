// Package state is the client's durable local storage: a small SQLite
// database holding the persisted session (and cookies) in a key/value table,
// plus a journal of CLI operations.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"traki/internal/fleet"
	"traki/internal/state/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB is the SQLite-backed state store.
type DB struct {
	db    *sql.DB
	clock fleet.Clock
}

// Open opens (or creates) the state database at path and brings the schema
// up to date. path may be ":memory:" for tests.
func Open(path string, clock fleet.Clock) (*DB, error) {
	sqlDB, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	if clock == nil {
		clock = fleet.RealClock{}
	}
	return &DB{db: sqlDB, clock: clock}, nil
}

// NewFromDB wraps an existing connection with the schema already applied.
// Used by tests.
func NewFromDB(db *sql.DB, clock fleet.Clock) *DB {
	if clock == nil {
		clock = fleet.RealClock{}
	}
	return &DB{db: db, clock: clock}
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the state database relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Key/value storage (persisted session, cookies)

func (d *DB) GetValue(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

func (d *DB) SetValue(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

func (d *DB) DeleteValue(key string) error {
	if _, err := d.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Operations journal

// Operation is one journaled CLI run.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// CreateOperation appends a new journal entry and returns it with its
// assigned id.
func (d *DB) CreateOperation(operation, parameters string) (*Operation, error) {
	now := d.clock.Now().UTC()
	res, err := d.db.Exec(
		`INSERT INTO operations (operation, parameters, status, started_at) VALUES (?, ?, '', ?)`,
		operation, parameters, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &Operation{ID: id, Operation: operation, Parameters: parameters, StartedAt: now}, nil
}

// FinishOperation records the outcome and finish time of a journal entry.
func (d *DB) FinishOperation(id int64, status string) error {
	_, err := d.db.Exec(
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, d.clock.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation record: %w", err)
	}
	return nil
}

// RecentOperations returns the newest journal entries, newest first.
func (d *DB) RecentOperations(limit int) ([]*Operation, error) {
	rows, err := d.db.Query(
		`SELECT id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}

// Compile-time check that DB satisfies the durable storage contract.
var _ fleet.StateStore = (*DB)(nil)
