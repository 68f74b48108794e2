package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
)

// LedgerService is the only writer of stars.
type LedgerService struct {
	store
	logger logging.Logger
	now    func() time.Time
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, logger logging.Logger) *LedgerService {
	return &LedgerService{
		store:  newStore(db, m, timeout),
		logger: logger.With("module", "ledger"),
		now:    utcNow,
	}
}

// ToggleStar flips the actor's star on a project and reports whether the
// project is starred afterwards. Concurrent toggles of the same pair are
// serialized by the stars repository lock; the unique key absorbs any insert
// that still races.
func (s *LedgerService) ToggleStar(ctx context.Context, actor *models.User, projectID int64) (bool, error) {
	if actor == nil {
		return false, common.ErrIdentityNotFound
	}

	var starred bool
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Projects(tx).GetByID(ctx, projectID); err != nil {
			return err
		}

		repo := s.repomanager.Stars(tx)
		if err := repo.Lock(ctx, actor.ID, projectID); err != nil {
			return err
		}

		removed, err := repo.Delete(ctx, actor.ID, projectID)
		if err != nil {
			return err
		}
		if removed {
			starred = false
			return nil
		}

		if _, err := repo.Insert(ctx, &models.Star{UserID: actor.ID, ProjectID: projectID, CreatedAt: s.now()}); err != nil {
			return err
		}
		starred = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug(ctx, "star toggled", "user_id", actor.ID, "project_id", projectID, "starred", starred)
	return starred, nil
}

// StarCount returns the committed number of stars on a project.
func (s *LedgerService) StarCount(ctx context.Context, projectID int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID); err != nil {
		return 0, storageErr(err)
	}
	n, err := s.repomanager.Stars(s.db).CountByProject(ctx, projectID)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

// IsStarred reports whether the actor currently stars the project.
func (s *LedgerService) IsStarred(ctx context.Context, actor *models.User, projectID int64) (bool, error) {
	if actor == nil {
		return false, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repomanager.Stars(s.db).Exists(ctx, actor.ID, projectID)
	return ok, storageErr(err)
}
