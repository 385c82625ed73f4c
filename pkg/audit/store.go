package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// defaultQueryLimit bounds List results when the query does not set one.
const defaultQueryLimit = 100

// Store persists audit events in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the audit database at the given path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("audit store path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		at INTEGER NOT NULL,
		location_type TEXT,
		previous_uri TEXT,
		new_uri TEXT,
		environment TEXT,
		residency TEXT,
		location_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Write persists one event.
func (s *Store) Write(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, kind, at, location_type, previous_uri, new_uri, environment, residency, location_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.At.UnixNano(),
		e.LocationType, e.PreviousURI, e.NewURI,
		e.Environment, e.Residency, e.LocationID,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}

// List returns events matching the query, newest first.
func (s *Store) List(ctx context.Context, q Query) ([]Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	where := "WHERE at >= ?"
	args := []any{q.Since.UnixNano()}
	if q.Kind != "" {
		where += " AND kind = ?"
		args = append(args, q.Kind)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, at, location_type, previous_uri, new_uri, environment, residency, location_id
		FROM events `+where+`
		ORDER BY at DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var at int64
		if err := rows.Scan(
			&e.ID, &e.Kind, &at,
			&e.LocationType, &e.PreviousURI, &e.NewURI,
			&e.Environment, &e.Residency, &e.LocationID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.At = time.Unix(0, at)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Prune deletes events older than the cutoff and returns how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE at < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of stored events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
