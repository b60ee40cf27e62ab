package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/domain"
)

// ErrSourceNotFound is returned when a source ID does not exist.
var ErrSourceNotFound = errors.New("source not found")

// sourceSelectColumns lists columns for SELECT queries on sources.
const sourceSelectColumns = `id, url, name, adapter_kind, category,
	poll_interval_hours, last_polled_at, active, created_at`

// SourceRepository handles database operations for monitored sources.
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// GetByID returns the source with the given ID, or ErrSourceNotFound.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM sources WHERE id = $1`

	var source domain.Source
	if err := r.db.GetContext(ctx, &source, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, id)
		}
		return nil, fmt.Errorf("failed to select source: %w", err)
	}
	return &source, nil
}

// ListActive returns all active sources ordered by name.
func (r *SourceRepository) ListActive(ctx context.Context) ([]*domain.Source, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM sources WHERE active = TRUE ORDER BY name`

	var sources []*domain.Source
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list active sources: %w", err)
	}

	if sources == nil {
		sources = []*domain.Source{}
	}
	return sources, nil
}

// ListAll returns every source regardless of active flag, ordered by name.
func (r *SourceRepository) ListAll(ctx context.Context) ([]*domain.Source, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM sources ORDER BY name`

	var sources []*domain.Source
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	if sources == nil {
		sources = []*domain.Source{}
	}
	return sources, nil
}

// Create inserts a new source and returns its generated ID.
func (r *SourceRepository) Create(ctx context.Context, source *domain.Source) (string, error) {
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sources (id, url, name, adapter_kind, category, poll_interval_hours, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query, source.ID, source.URL, source.Name,
		source.AdapterKind, source.Category, source.PollIntervalHours, source.Active)
	if err != nil {
		return "", fmt.Errorf("failed to insert source: %w", err)
	}
	return source.ID, nil
}

// UpdateLastPolled stamps the source's last successful poll time.
func (r *SourceRepository) UpdateLastPolled(ctx context.Context, id string, polledAt time.Time) error {
	query := `UPDATE sources SET last_polled_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, polledAt)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrSourceNotFound, id))
}
