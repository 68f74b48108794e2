// Package projects persists showcase projects and reads them joined with
// their star counts and owners.
package projects

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetWithStarCount(ctx context.Context, id int64) (*models.ProjectView, error)
	ListWithStarCounts(ctx context.Context, sort models.ProjectSort) ([]models.ProjectView, error)
	ListByOwnerWithStarCounts(ctx context.Context, ownerID int64) ([]models.ProjectView, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
}
