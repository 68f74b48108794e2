package stars

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LockKey is the advisory lock key for a (user, project) pair.
func LockKey(userID, projectID int64) string {
	return fmt.Sprintf("star:%d:%d", userID, projectID)
}

// Lock takes a transaction-scoped advisory lock on the pair's key.
func (r *PostgresRepository) Lock(ctx context.Context, userID, projectID int64) error {
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, LockKey(userID, projectID))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, projectID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stars WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) Insert(ctx context.Context, star *models.Star) (bool, error) {
	query :=
		`INSERT INTO stars (user_id, project_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, project_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, star.UserID, star.ProjectID, star.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) CountByProject(ctx context.Context, projectID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stars WHERE project_id = $1`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, projectID int64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stars WHERE user_id = $1 AND project_id = $2`, userID, projectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func affected(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
