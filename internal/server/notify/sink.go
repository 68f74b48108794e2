// Package notify delivers broadcast notifications to external channels.
// Delivery is fire-and-forget: failures are logged and never reach the
// caller that triggered the broadcast.
package notify

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/models"
)

// Sink delivers a notification over one channel.
type Sink interface {
	Send(ctx context.Context, n models.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n models.Notification) error

func (f SinkFunc) Send(ctx context.Context, n models.Notification) error { return f(ctx, n) }

// LogSink stands in for email and SMS gateways by writing a structured log
// line per delivery.
type LogSink struct {
	channel string
	logger  logging.Logger
}

func NewLogSink(channel string, logger logging.Logger) *LogSink {
	return &LogSink{channel: channel, logger: logger}
}

func (s *LogSink) Send(ctx context.Context, n models.Notification) error {
	s.logger.Info(ctx, "notification sent",
		"channel", s.channel,
		"notification_id", n.ID,
		"target_group", n.TargetGroup,
		"message", n.Message,
	)
	return nil
}
