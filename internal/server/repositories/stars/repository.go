// Package stars persists the star ledger: at most one row per
// (user, project) pair.
package stars

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type Repository interface {
	// Lock serializes toggles of one (user, project) pair until the
	// surrounding transaction ends. It must be called inside a transaction.
	Lock(ctx context.Context, userID, projectID int64) error
	// Delete removes the star and reports whether a row was removed.
	Delete(ctx context.Context, userID, projectID int64) (bool, error)
	// Insert adds the star and reports whether a row was added; an existing
	// row is left untouched.
	Insert(ctx context.Context, star *models.Star) (bool, error)
	CountByProject(ctx context.Context, projectID int64) (int64, error)
	Exists(ctx context.Context, userID, projectID int64) (bool, error)
}
