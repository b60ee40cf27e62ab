package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/domain"
)

// notificationSelectColumns lists columns for SELECT queries on notifications.
const notificationSelectColumns = `id, source_url, title, organization, notification_date,
	last_date_to_apply, age_limit, qualification, category, details, pdf_url, active, created_at`

// NotificationRepository handles database operations for notifications.
// Identity is the (title, source_url) unique key; portals publish no stable
// external ID.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetOrCreate inserts the notification if its (title, source_url) key is new
// and returns the stored row either way. The boolean reports whether this
// call created it. Uses INSERT ... ON CONFLICT DO NOTHING then SELECT, so
// concurrent callers race safely.
func (r *NotificationRepository) GetOrCreate(ctx context.Context, n *domain.Notification) (*domain.Notification, bool, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	insertQuery := `
		INSERT INTO notifications (id, source_url, title, organization, notification_date,
			last_date_to_apply, age_limit, qualification, category, details, pdf_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		ON CONFLICT (title, source_url) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, insertQuery,
		n.ID, n.SourceURL, n.Title, n.Organization, n.NotificationDate,
		n.LastDateToApply, n.AgeLimit, n.Qualification, n.Category, n.Details, n.PDFURL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	created := affected > 0

	selectQuery := `SELECT ` + notificationSelectColumns + `
		FROM notifications WHERE title = $1 AND source_url = $2`

	var stored domain.Notification
	if selectErr := r.db.GetContext(ctx, &stored, selectQuery, n.Title, n.SourceURL); selectErr != nil {
		return nil, false, fmt.Errorf("failed to select notification: %w", selectErr)
	}
	return &stored, created, nil
}

// GetByID returns one notification or sql.ErrNoRows wrapped.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationSelectColumns + ` FROM notifications WHERE id = $1`

	var n domain.Notification
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification not found: %s", id)
		}
		return nil, fmt.Errorf("failed to select notification: %w", err)
	}
	return &n, nil
}

// BackfillEmptyFields fills placeholder fields of an existing notification
// with richer values from a later scrape. Existing non-empty values win.
func (r *NotificationRepository) BackfillEmptyFields(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET age_limit = CASE WHEN age_limit IN ('', $4) THEN $2 ELSE age_limit END,
			qualification = CASE WHEN qualification IN ('', $4) THEN $3 ELSE qualification END,
			last_date_to_apply = COALESCE(last_date_to_apply, $5),
			pdf_url = COALESCE(pdf_url, $6)
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, n.ID, n.AgeLimit, n.Qualification,
		domain.NotSpecified, n.LastDateToApply, n.PDFURL)
	if err != nil {
		return fmt.Errorf("failed to backfill notification: %w", err)
	}
	return nil
}

// ListRecent returns the most recently created active notifications.
func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationSelectColumns + `
		FROM notifications WHERE active = TRUE ORDER BY created_at DESC LIMIT $1`

	var notifications []*domain.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}
