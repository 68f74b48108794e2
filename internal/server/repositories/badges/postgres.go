package badges

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Insert(ctx context.Context, badge *models.Badge) (bool, error) {
	query :=
		`INSERT INTO badges (user_id, name, description, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, name) DO NOTHING
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		badge.UserID, badge.Name, badge.Description, badge.CreatedAt).Scan(&badge.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Badge, error) {
	query :=
		`SELECT id, user_id, name, description, created_at
		   FROM badges
		  WHERE user_id = $1
		  ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
