package orchestrator

import (
	"context"
	"time"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/email"
)

// Consumer-side views of the repositories and engines the orchestrator
// drives. The database package's concrete repositories satisfy these.

// SourceStore provides the monitored sources and their poll bookkeeping.
type SourceStore interface {
	GetByID(ctx context.Context, id string) (*domain.Source, error)
	ListActive(ctx context.Context) ([]*domain.Source, error)
	UpdateLastPolled(ctx context.Context, id string, polledAt time.Time) error
}

// NotificationStore persists discovered notifications idempotently.
type NotificationStore interface {
	GetOrCreate(ctx context.Context, n *domain.Notification) (*domain.Notification, bool, error)
	BackfillEmptyFields(ctx context.Context, n *domain.Notification) error
}

// UserStore lists the users subscribed to a source.
type UserStore interface {
	ListSubscribers(ctx context.Context, sourceID string) ([]*domain.User, error)
}

// PreferenceStore lists a user's matching preferences.
type PreferenceStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Preference, error)
}

// AlertStore is the at-most-once ledger of delivery attempts.
type AlertStore interface {
	Exists(ctx context.Context, userID, notificationID string) (bool, error)
	Create(ctx context.Context, alert *domain.SentAlert) error
}

// ScrapeEngine produces fresh notification drafts for a source.
type ScrapeEngine interface {
	Scrape(ctx context.Context, source *domain.Source, cutoff *time.Time) ([]domain.NotificationDraft, error)
}

// Deliverer sends one alert; its result is recorded, never retried.
type Deliverer = email.Deliverer
