package models

import "time"

const (
	NotificationTypeInfo  = "info"
	NotificationTypeAlert = "alert"

	TargetGroupAll = "all"
)

// Notification channels accepted by broadcasts.
const (
	ChannelInApp = "in-app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification is a persisted message shown on the dashboard.
type Notification struct {
	ID          int64
	Message     string
	Type        string
	TargetGroup string
	CreatedAt   time.Time
}

// BroadcastRequest is an admin request to notify a group over channels.
type BroadcastRequest struct {
	Message     string
	Channels    []string
	TargetGroup string
}
