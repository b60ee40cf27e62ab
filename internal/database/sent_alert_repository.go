package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/domain"
)

// SentAlertRepository handles database operations for the at-most-once alert
// ledger. A row per (user, notification) pair, written once, regardless of
// delivery outcome.
type SentAlertRepository struct {
	db *sqlx.DB
}

// NewSentAlertRepository creates a new sent alert repository.
func NewSentAlertRepository(db *sqlx.DB) *SentAlertRepository {
	return &SentAlertRepository{db: db}
}

// Exists reports whether an alert for the pair was already recorded.
func (r *SentAlertRepository) Exists(ctx context.Context, userID, notificationID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sent_alerts WHERE user_id = $1 AND notification_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, notificationID); err != nil {
		return false, fmt.Errorf("failed to check sent alert: %w", err)
	}
	return exists, nil
}

// Create records a delivery attempt. ON CONFLICT DO NOTHING keeps the first
// record when a retried batch races the original.
func (r *SentAlertRepository) Create(ctx context.Context, alert *domain.SentAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sent_alerts (id, user_id, notification_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, notification_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, alert.ID, alert.UserID, alert.NotificationID, alert.Status)
	if err != nil {
		return fmt.Errorf("failed to insert sent alert: %w", err)
	}
	return nil
}

// CountForUserToday returns how many alerts were recorded for a user since
// the start of the current day. Used by delivery digesting.
func (r *SentAlertRepository) CountForUserToday(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM sent_alerts WHERE user_id = $1 AND sent_at >= date_trunc('day', NOW())`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count sent alerts: %w", err)
	}
	return count, nil
}
