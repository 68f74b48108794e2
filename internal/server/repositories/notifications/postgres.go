package notifications

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

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query :=
		`INSERT INTO notifications (message, type, target_group, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, n.Message, n.Type, n.TargetGroup, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	query :=
		`SELECT id, message, type, target_group, created_at
		   FROM notifications
		  ORDER BY created_at DESC, id DESC
		  LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Notification, 0, limit)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.TargetGroup, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
