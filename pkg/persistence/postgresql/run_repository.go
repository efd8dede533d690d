package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/persistence"
)

// RunRepository handles generation run rows.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

func (r *RunRepository) Save(ctx context.Context, run *models.GenerationRun) error {
	request, err := json.Marshal(run.Request)
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	posts, err := json.Marshal(run.Posts)
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	query := `
		INSERT INTO generation_runs (id, business_id, target_count, status, request, posts, error, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			posts = EXCLUDED.posts,
			error = EXCLUDED.error,
			completed_at = EXCLUDED.completed_at
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.BusinessID,
		run.TargetCount,
		run.Status,
		request,
		posts,
		run.Error,
		run.CreatedAt,
		run.CompletedAt,
	)
	if err != nil {
		return &persistence.RunError{Op: "SaveRun", RunID: run.ID, Err: err}
	}

	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.GenerationRun, error) {
	query := `
		SELECT id, business_id, target_count, status, request, posts, error, created_at, completed_at
		FROM generation_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: persistence.ErrRunNotFound}
		}

		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	return run, nil
}

func (r *RunRepository) GetAll(ctx context.Context) ([]*models.GenerationRun, error) {
	query := `
		SELECT id, business_id, target_count, status, request, posts, error, created_at, completed_at
		FROM generation_runs
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &persistence.RunError{Op: "Runs", Err: err}
	}
	defer rows.Close()

	var runs []*models.GenerationRun

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, &persistence.RunError{Op: "Runs", Err: err}
		}

		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, &persistence.RunError{Op: "Runs", Err: err}
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.GenerationRun, error) {
	var (
		run     models.GenerationRun
		request []byte
		posts   []byte
		runErr  sql.NullString
	)

	err := row.Scan(
		&run.ID,
		&run.BusinessID,
		&run.TargetCount,
		&run.Status,
		&request,
		&posts,
		&runErr,
		&run.CreatedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(request, &run.Request)
	if err != nil {
		return nil, err
	}

	if len(posts) > 0 {
		err = json.Unmarshal(posts, &run.Posts)
		if err != nil {
			return nil, err
		}
	}

	if runErr.Valid {
		run.Error = runErr.String
	}

	return &run, nil
}
