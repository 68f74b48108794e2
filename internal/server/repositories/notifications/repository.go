// Package notifications persists broadcast notifications for the dashboard.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	// ListRecent returns up to limit notifications, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Notification, error)
}
