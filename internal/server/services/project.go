package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
)

// ProjectService stores and retrieves projects. Mutations are restricted to
// the project's owner.
type ProjectService struct {
	store
	awarder *BadgeAwarder
	media   *mediaStore
	logger  logging.Logger
	now     func() time.Time
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, awarder *BadgeAwarder, logger logging.Logger) *ProjectService {
	return &ProjectService{
		store:   newStore(db, m, cfg.StorageTimeout),
		awarder: awarder,
		media:   &mediaStore{config: cfg},
		logger:  logger.With("module", "projects"),
		now:     utcNow,
	}
}

// Create publishes a project for actor and evaluates badge rules in the same
// transaction. An empty title is common.ErrValidation. The returned badge is
// nil unless this call awarded one.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, in models.ProjectInput) (*models.Project, *models.Badge, error) {
	if actor == nil {
		return nil, nil, common.ErrIdentityNotFound
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, nil, common.ErrValidation
	}

	now := s.now()
	project := &models.Project{
		OwnerID:     actor.ID,
		Title:       in.Title,
		Description: in.Description,
		TechStack:   in.TechStack,
		GithubLink:  in.GithubLink,
		DemoLink:    in.DemoLink,
		ImageURLs:   in.ImageURLs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var awarded []models.Badge
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Projects(tx).Create(ctx, project); err != nil {
			return err
		}
		var err error
		awarded, err = s.awarder.evaluateProjectCreated(ctx, tx, actor.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "project created", "project_id", project.ID, "owner_id", actor.ID)
	return project, firstBadge(awarded), nil
}

// Get returns a project with its star count and owner summary.
func (s *ProjectService) Get(ctx context.Context, id int64) (*models.ProjectView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.repomanager.Projects(s.db).GetWithStarCount(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return v, nil
}

// List returns every project with star counts. Unknown sort values fall back
// to newest first.
func (s *ProjectService) List(ctx context.Context, sort models.ProjectSort) ([]models.ProjectView, error) {
	if sort != models.SortMostStarred {
		sort = models.SortNewest
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repomanager.Projects(s.db).ListWithStarCounts(ctx, sort)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// Update applies patch to a project owned by actor.
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id int64, patch models.ProjectPatch) (*models.Project, error) {
	var project *models.Project
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Projects(tx)

		var err error
		project, err = ownedProject(ctx, repo.GetByID, actor, id)
		if err != nil {
			return err
		}

		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			return common.ErrValidation
		}
		patch.Apply(project)
		project.UpdatedAt = s.now()
		return repo.Update(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project owned by actor together with its stars.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id int64) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Projects(tx)
		if _, err := ownedProject(ctx, repo.GetByID, actor, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "project deleted", "project_id", id, "owner_id", actor.ID)
	return nil
}

// MediaUploadURL presigns an image upload for a project owned by actor.
func (s *ProjectService) MediaUploadURL(ctx context.Context, actor *models.User, id int64) (*models.MediaUpload, error) {
	dbCtx, cancel := s.withTimeout(ctx)
	_, err := ownedProject(dbCtx, s.repomanager.Projects(s.db).GetByID, actor, id)
	cancel()
	if err != nil {
		return nil, storageErr(err)
	}

	key := projectMediaKey(id)
	url, err := s.media.presignPut(ctx, key)
	if err != nil {
		return nil, err
	}
	return &models.MediaUpload{Key: key, URL: url, ExpiresAt: s.now().Add(mediaURLValidity)}, nil
}

// ownedProject loads a project and checks actor owns it.
func ownedProject(ctx context.Context, get func(context.Context, int64) (*models.Project, error), actor *models.User, id int64) (*models.Project, error) {
	if actor == nil {
		return nil, common.ErrIdentityNotFound
	}
	p, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actor.ID {
		return nil, common.ErrForbidden
	}
	return p, nil
}
