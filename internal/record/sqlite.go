//go:build sqlite

package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := encodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, payload)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload
	`, run.ID, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	run, err := decodeRun(id, payload)
	if err != nil {
		return Run{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) AppendSample(ctx context.Context, runID string, sample Sample) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if err := requireRun(ctx, db, runID); err != nil {
		return err
	}

	payload, err := encodeValues(sample.Values)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO samples (run_id, timestep, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, timestep) DO UPDATE SET
			payload = excluded.payload
	`, runID, int64(sample.Timestep), payload)
	return err
}

func (s *SQLiteStore) Samples(ctx context.Context, runID string) ([]Sample, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT timestep, payload FROM samples WHERE run_id = ? ORDER BY timestep`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var (
			step    int64
			payload []byte
		)
		if err := rows.Scan(&step, &payload); err != nil {
			return nil, err
		}
		values, err := decodeValues(payload)
		if err != nil {
			return nil, fmt.Errorf("decode sample %s@%d: %w", runID, step, err)
		}
		out = append(out, Sample{Timestep: uint64(step), Values: values})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveShape(ctx context.Context, runID string, shape Shape) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if err := requireRun(ctx, db, runID); err != nil {
		return err
	}

	payload, err := encodeShape(shape)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO shapes (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) Shape(ctx context.Context, runID string) (Shape, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Shape{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM shapes WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shape{}, false, nil
		}
		return Shape{}, false, err
	}

	shape, err := decodeShape(payload)
	if err != nil {
		return Shape{}, false, fmt.Errorf("decode shape %s: %w", runID, err)
	}
	return shape, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func requireRun(ctx context.Context, db *sql.DB, runID string) error {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownRun
	}
	return err
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL,
			timestep INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, timestep)
		);
		CREATE TABLE IF NOT EXISTS shapes (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
