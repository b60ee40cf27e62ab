package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/domain"
)

// userSelectColumns lists columns for SELECT queries on users.
const userSelectColumns = `id, name, email, date_of_birth, qualification, active, created_at`

// UserRepository handles database reads over user profiles. Registration and
// profile writes belong to another service; this one only needs to know who
// to alert.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListSubscribers returns the active users subscribed to a source.
func (r *UserRepository) ListSubscribers(ctx context.Context, sourceID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.date_of_birth, u.qualification, u.active, u.created_at
		FROM users u
		JOIN subscriptions s ON s.user_id = u.id
		WHERE s.source_id = $1 AND u.active = TRUE
		ORDER BY u.created_at
	`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, sourceID); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// ListActive returns all active users.
func (r *UserRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE active = TRUE ORDER BY created_at`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
