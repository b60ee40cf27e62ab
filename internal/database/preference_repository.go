package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/domain"
)

// preferenceSelectColumns lists columns for SELECT queries on preferences.
const preferenceSelectColumns = `id, user_id, category, min_age, max_age, locations, created_at`

// PreferenceRepository handles database reads over user preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListByUser returns a user's preferences, one per subscribed category.
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID string) ([]domain.Preference, error) {
	query := `SELECT ` + preferenceSelectColumns + ` FROM preferences WHERE user_id = $1 ORDER BY category`

	var preferences []domain.Preference
	if err := r.db.SelectContext(ctx, &preferences, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return preferences, nil
}
