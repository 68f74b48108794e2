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

// EventKind names what happened to trigger a badge evaluation.
type EventKind string

const EventProjectCreated EventKind = "project_created"

// Event is the input to badge rules.
type Event struct {
	Kind         EventKind
	OwnerID      int64
	ProjectCount int64
}

// BadgeRule awards Name to the event's owner when Predicate holds.
type BadgeRule struct {
	Name        string
	Description string
	Predicate   func(Event) bool
}

// DefaultBadgeRules returns the rules the server ships with.
func DefaultBadgeRules() []BadgeRule {
	return []BadgeRule{
		{
			Name:        common.FirstProjectBadge,
			Description: common.FirstProjectBadgeDescription,
			Predicate: func(e Event) bool {
				return e.Kind == EventProjectCreated && e.ProjectCount == 1
			},
		},
	}
}

// BadgeAwarder evaluates badge rules. Awards are at most once per user and
// name, enforced by the badges unique key, so evaluation may be retried.
type BadgeAwarder struct {
	store
	rules  []BadgeRule
	logger logging.Logger
	now    func() time.Time
}

// NewBadgeAwarder uses DefaultBadgeRules when rules is empty.
func NewBadgeAwarder(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, logger logging.Logger, rules ...BadgeRule) *BadgeAwarder {
	if len(rules) == 0 {
		rules = DefaultBadgeRules()
	}
	return &BadgeAwarder{
		store:  newStore(db, m, timeout),
		rules:  rules,
		logger: logger.With("module", "badges"),
		now:    utcNow,
	}
}

// Evaluate runs every rule against ev inside the caller's transaction and
// returns the badges newly awarded by this call.
func (a *BadgeAwarder) Evaluate(ctx context.Context, tx dbx.DBTX, ev Event) ([]models.Badge, error) {
	repo := a.repomanager.Badges(tx)

	var awarded []models.Badge
	for _, rule := range a.rules {
		if !rule.Predicate(ev) {
			continue
		}

		badge := &models.Badge{
			UserID:      ev.OwnerID,
			Name:        rule.Name,
			Description: rule.Description,
			CreatedAt:   a.now(),
		}
		ok, err := repo.Insert(ctx, badge)
		if err != nil {
			return nil, err
		}
		if ok {
			a.logger.Info(ctx, "badge awarded", "user_id", ev.OwnerID, "badge", rule.Name)
			awarded = append(awarded, *badge)
		}
	}
	return awarded, nil
}

// OnProjectCreated evaluates the project-created rules for ownerID in its own
// transaction. It returns nil when nothing new was awarded.
func (a *BadgeAwarder) OnProjectCreated(ctx context.Context, ownerID int64) (*models.Badge, error) {
	var awarded []models.Badge
	err := a.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		awarded, err = a.evaluateProjectCreated(ctx, tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return firstBadge(awarded), nil
}

func (a *BadgeAwarder) evaluateProjectCreated(ctx context.Context, tx dbx.DBTX, ownerID int64) ([]models.Badge, error) {
	count, err := a.repomanager.Projects(tx).CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return a.Evaluate(ctx, tx, Event{Kind: EventProjectCreated, OwnerID: ownerID, ProjectCount: count})
}

func firstBadge(b []models.Badge) *models.Badge {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
