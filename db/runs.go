package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BuildRun is one recorded orchestrator invocation.
type BuildRun struct {
	ID           string    // UUID assigned at run start
	Strategy     string    // dynamic, static or minimal
	StartedAt    time.Time // When the run began
	FinishedAt   time.Time // When the run ended
	DurationMS   int64     // End-to-end duration in milliseconds
	ExitCode     int       // Process exit code of the run
	ArtifactSize int64     // Size of the produced binary in bytes (0 if absent)
	ErrorCode    string    // BuildError code if the run failed, empty otherwise
}

// RunStore persists BuildRun records so operators can compare artifact sizes
// and build outcomes across strategies over time.
type RunStore struct {
	conn *sql.DB
}

// OpenRunStore opens (creating if needed) the build-history database at path
// and applies pending schema migrations.
func OpenRunStore(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	if err := MigrateUp(path); err != nil {
		return nil, err
	}

	conn, err := NewSQLiteConnection(DefaultConnectionConfig(path))
	if err != nil {
		return nil, err
	}
	return &RunStore{conn: conn}, nil
}

// Record inserts a completed build run.
func (s *RunStore) Record(ctx context.Context, run BuildRun) error {
	const query = `
		INSERT INTO build_runs
			(id, strategy, started_at, finished_at, duration_ms, exit_code, artifact_size, error_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.conn.ExecContext(ctx, query,
		run.ID,
		run.Strategy,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.DurationMS,
		run.ExitCode,
		run.ArtifactSize,
		run.ErrorCode,
	)
	if err != nil {
		return fmt.Errorf("failed to record build run: %w", err)
	}
	return nil
}

// Recent returns the most recent build runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]BuildRun, error) {
	if limit <= 0 {
		limit = 10
	}

	const query = `
		SELECT id, strategy, started_at, finished_at, duration_ms, exit_code, artifact_size, error_code
		FROM build_runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query build runs: %w", err)
	}
	defer rows.Close()

	var runs []BuildRun
	for rows.Next() {
		var run BuildRun
		if err := rows.Scan(
			&run.ID,
			&run.Strategy,
			&run.StartedAt,
			&run.FinishedAt,
			&run.DurationMS,
			&run.ExitCode,
			&run.ArtifactSize,
			&run.ErrorCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan build run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database connection.
func (s *RunStore) Close() error {
	return s.conn.Close()
}
