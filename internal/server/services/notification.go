package services

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
)

// DefaultRecentNotifications is the dashboard feed size when none is given.
const DefaultRecentNotifications = 5

var knownChannels = []string{models.ChannelInApp, models.ChannelEmail, models.ChannelSMS}

// Dispatcher hands a stored notification to delivery channels without
// blocking the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification, channels []string)
}

// NotificationService stores admin broadcasts and serves the dashboard feed.
type NotificationService struct {
	store
	auth       *AuthService
	dispatcher Dispatcher
	logger     logging.Logger
	now        func() time.Time
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, authService *AuthService, dispatcher Dispatcher, logger logging.Logger) *NotificationService {
	return &NotificationService{
		store:      newStore(db, m, timeout),
		auth:       authService,
		dispatcher: dispatcher,
		logger:     logger.With("module", "notifications"),
		now:        utcNow,
	}
}

// Broadcast persists an alert and dispatches it to the requested channels.
// Only admins may broadcast. Delivery failures never reach the caller.
func (s *NotificationService) Broadcast(ctx context.Context, actor *models.User, req models.BroadcastRequest) (*models.Notification, error) {
	if err := s.auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, common.ErrValidation
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = []string{models.ChannelInApp}
	}
	for _, ch := range channels {
		if !slices.Contains(knownChannels, ch) {
			return nil, common.ErrValidation
		}
	}
	channels = slices.Compact(slices.Sorted(slices.Values(channels)))

	group := strings.TrimSpace(req.TargetGroup)
	if group == "" {
		group = models.TargetGroupAll
	}

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repomanager.Notifications(s.db).Create(dbCtx, &models.Notification{
		Message:     msg,
		Type:        models.NotificationTypeAlert,
		TargetGroup: group,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "broadcast stored", "notification_id", n.ID, "admin_id", actor.ID, "channels", channels)
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, *n, channels)
	}
	return n, nil
}

// Recent returns the newest notifications. limit <= 0 means the default.
func (s *NotificationService) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultRecentNotifications
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repomanager.Notifications(s.db).ListRecent(ctx, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}
