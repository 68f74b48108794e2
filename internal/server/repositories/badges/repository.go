// Package badges persists awarded badges. Rows are never updated or deleted
// by the application.
package badges

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type Repository interface {
	// Insert awards badge and fills its ID. It reports false, leaving the
	// existing row untouched, when the user already holds a badge of that name.
	Insert(ctx context.Context, badge *models.Badge) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Badge, error)
}
