package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "trophy:notifications:"        // pub/sub channel: trophy:notifications:{target_group}
	recentPrefix  = "trophy:notifications:recent:" // capped list: trophy:notifications:recent:{target_group}
	recentLimit   = 50
)

// Payload is the JSON published for each notification.
type Payload struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	TargetGroup string    `json:"target_group"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChannelName is the pub/sub channel for a target group.
func ChannelName(targetGroup string) string { return channelPrefix + targetGroup }

// RecentKey is the capped list of recent payloads for a target group.
func RecentKey(targetGroup string) string { return recentPrefix + targetGroup }

// RedisSink is the in-app channel: it publishes to subscribers of the target
// group and keeps a short history for clients that connect later.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Send(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(Payload{
		ID:          n.ID,
		Message:     n.Message,
		Type:        n.Type,
		TargetGroup: n.TargetGroup,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Publish(ctx, ChannelName(n.TargetGroup), data)
	pipe.LPush(ctx, RecentKey(n.TargetGroup), data)
	pipe.LTrim(ctx, RecentKey(n.TargetGroup), 0, recentLimit-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
