package models

import "time"

// Star records that UserID starred ProjectID. At most one per pair.
type Star struct {
	UserID    int64
	ProjectID int64
	CreatedAt time.Time
}

// Badge is an append-only achievement. A user holds each name at most once.
type Badge struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	CreatedAt   time.Time
}
