package domain

import (
	"time"
)

// Alert delivery statuses recorded on a SentAlert.
const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

// SentAlert records that a (user, notification) pair has been evaluated and a
// delivery attempted. Its existence gates re-delivery regardless of the
// recorded status; it is created immediately after the attempt, never before.
type SentAlert struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	NotificationID string    `db:"notification_id" json:"notification_id"`
	Status         string    `db:"status" json:"status"`
	SentAt         time.Time `db:"sent_at" json:"sent_at"`
}
