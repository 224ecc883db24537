// Package history persists resolution outcomes to a SQLite database.
//
// Each top-level resolve call appends one row: the domain, the address
// it resolved to (or the failure outcome), the root server the walk
// started from, and how long the walk took. The store is append-only
// from the resolver's point of view; rows are read back for the CLI's
// history listing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Entry is one recorded resolution attempt.
type Entry struct {
	ID         int64
	Domain     string
	Address    string // Empty when the attempt failed
	Outcome    string // "ok" or the terminal error class
	RootServer string
	Duration   time.Duration
	ResolvedAt time.Time
}

// OutcomeOK marks a successful resolution.
const OutcomeOK = "ok"

// Store wraps a SQLite database holding the resolution log.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex
}

// Open opens or creates a SQLite database at the given path and brings
// its schema up to date.
func Open(path string) (*Store, error) {
	// WAL keeps readers from blocking the writer.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetConnMaxLifetime(time.Hour)

	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record appends one resolution attempt to the log.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO resolutions (domain, address, outcome, root_server, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Domain, e.Address, e.Outcome, e.RootServer, e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record resolution: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, domain, address, outcome, root_server, duration_ms, resolved_at
		 FROM resolutions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.Domain, &e.Address, &e.Outcome,
			&e.RootServer, &durationMs, &e.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByOutcome returns how many recorded attempts ended with each
// outcome class.
func (s *Store) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM resolutions GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan outcome row: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
