package runlog

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the run log to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite run log.
// The path should be a file path (e.g., "./runlog.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS coupling_windows (
			participant TEXT NOT NULL,
			window INTEGER NOT NULL,
			start_time REAL NOT NULL,
			step_size REAL NOT NULL,
			iterations INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (participant, window)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_coupling_windows_participant
		ON coupling_windows(participant)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(rec WindowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO coupling_windows (participant, window, start_time, step_size, iterations, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(participant, window) DO UPDATE SET
			start_time = excluded.start_time,
			step_size = excluded.step_size,
			iterations = excluded.iterations,
			recorded_at = excluded.recorded_at
	`, rec.Participant, rec.Window, rec.StartTime, rec.StepSize, rec.Iterations,
		rec.RecordedAt.UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("append window record: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(participant string) ([]WindowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT window, start_time, step_size, iterations, recorded_at
		FROM coupling_windows
		WHERE participant = ?
		ORDER BY window
	`, participant)
	if err != nil {
		return nil, fmt.Errorf("list window records: %w", err)
	}
	defer rows.Close()

	var recs []WindowRecord
	for rows.Next() {
		rec := WindowRecord{Participant: participant}
		var recordedAt string
		if err := rows.Scan(&rec.Window, &rec.StartTime, &rec.StepSize, &rec.Iterations, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan window record: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			rec.RecordedAt = ts
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window records: %w", err)
	}
	return recs, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
