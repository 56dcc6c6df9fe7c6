package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/runger/sequoia/internal/mine"
)

// ErrRunNotFound is returned when a run record does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run records the parameters and outcome of one mining run.
type Run struct {
	RunID         string
	SourcePath    string
	Target        string
	ZMin          int
	ZMax          int
	SMin          int64
	Weighted      bool
	Transactions  int
	Items         int
	PatternCount  int
	DurationMs    int64
	StartedAtUnix int64
	Error         string
}

// InsertRun persists a run record along with its pattern spectrum, if any.
func (s *Store) InsertRun(ctx context.Context, run Run, spectrum *mine.Spectrum) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (
			run_id, source_path, target, zmin, zmax, smin, weighted,
			transactions, items, pattern_count, duration_ms, started_at_unix_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID, run.SourcePath, run.Target, run.ZMin, run.ZMax, run.SMin, boolToInt(run.Weighted),
		run.Transactions, run.Items, run.PatternCount, run.DurationMs, run.StartedAtUnix, run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if spectrum != nil {
		for _, sig := range spectrum.Signatures() {
			_, err = tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO spectrum_rows (run_id, length, support, count)
				VALUES (?, ?, ?, ?)
			`, run.RunID, sig.Length, sig.Support, sig.Count)
			if err != nil {
				return fmt.Errorf("failed to insert spectrum row: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run record by id.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, source_path, target, zmin, zmax, smin, weighted,
		       transactions, items, pattern_count, duration_ms, started_at_unix_ms, error
		FROM runs WHERE run_id = ?
	`, runID)

	var run Run
	var weighted int
	err := row.Scan(
		&run.RunID, &run.SourcePath, &run.Target, &run.ZMin, &run.ZMax, &run.SMin, &weighted,
		&run.Transactions, &run.Items, &run.PatternCount, &run.DurationMs, &run.StartedAtUnix, &run.Error,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Weighted = weighted != 0
	return &run, nil
}

// ListRuns returns the most recent runs, newest first, capped at limit (0
// means unlimited).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, source_path, target, zmin, zmax, smin, weighted,
		       transactions, items, pattern_count, duration_ms, started_at_unix_ms, error
		FROM runs ORDER BY started_at_unix_ms DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var weighted int
		if err := rows.Scan(
			&run.RunID, &run.SourcePath, &run.Target, &run.ZMin, &run.ZMax, &run.SMin, &weighted,
			&run.Transactions, &run.Items, &run.PatternCount, &run.DurationMs, &run.StartedAtUnix, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Weighted = weighted != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetSpectrum retrieves the persisted pattern spectrum for a run.
func (s *Store) GetSpectrum(ctx context.Context, runID string) ([]mine.Signature, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT length, support, count FROM spectrum_rows
		WHERE run_id = ? ORDER BY length, support
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spectrum: %w", err)
	}
	defer rows.Close()

	var sigs []mine.Signature
	for rows.Next() {
		var sig mine.Signature
		if err := rows.Scan(&sig.Length, &sig.Support, &sig.Count); err != nil {
			return nil, fmt.Errorf("failed to scan spectrum row: %w", err)
		}
		sigs = append(sigs, sig)
	}
	return sigs, rows.Err()
}

// PruneRuns deletes all but the retainCount most recent runs (and their
// spectrum rows). A retainCount <= 0 disables pruning.
func (s *Store) PruneRuns(ctx context.Context, retainCount int) (int64, error) {
	if retainCount <= 0 {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_id IN (
			SELECT run_id FROM runs ORDER BY started_at_unix_ms DESC LIMIT -1 OFFSET ?
		)
	`, retainCount)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM spectrum_rows WHERE run_id NOT IN (SELECT run_id FROM runs)
	`); err != nil {
		return 0, fmt.Errorf("failed to prune orphaned spectrum rows: %w", err)
	}
	return result.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewRunID returns a fresh, globally unique run identifier.
func NewRunID() string {
	return "run-" + uuid.New().String()
}
