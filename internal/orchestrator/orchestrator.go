// Package orchestrator runs the polling schedule: it scrapes each source on
// its interval, persists new notifications idempotently, matches subscribers,
// and dispatches each alert at most once.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saspirant/notifier/internal/database"
	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/matching"
)

const (
	// DefaultRetryDelay is the wait before the single retry of a failed batch.
	DefaultRetryDelay = time.Hour
	// maxAttempts bounds retries: the initial run plus one retry.
	maxAttempts = 2
)

// Result summarizes one scrape-and-notify run over a source.
type Result struct {
	Success            bool   `json:"success"`
	NotificationsFound int    `json:"notifications_found"`
	NewSaved           int    `json:"new_saved"`
	AlertsSent         int    `json:"alerts_sent"`
	Message            string `json:"message"`
}

// Stores bundles the repository dependencies.
type Stores struct {
	Sources       SourceStore
	Notifications NotificationStore
	Users         UserStore
	Preferences   PreferenceStore
	Alerts        AlertStore
}

// Orchestrator owns the cron schedule and the per-source run lifecycle.
type Orchestrator struct {
	stores     Stores
	engine     ScrapeEngine
	deliverer  Deliverer
	logger     logger.Interface
	retryDelay time.Duration
	now        func() time.Time

	cron          *cron.Cron
	activeRuns    map[string]struct{}
	activeRunsMu  sync.Mutex
	retryTimers   []*time.Timer
	retryTimersMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an orchestrator. retryDelay <= 0 uses DefaultRetryDelay.
func New(
	stores Stores,
	engine ScrapeEngine,
	deliverer Deliverer,
	log logger.Interface,
	retryDelay time.Duration,
) *Orchestrator {
	if log == nil {
		log = logger.NewNoOp()
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		stores:     stores,
		engine:     engine,
		deliverer:  deliverer,
		logger:     log,
		retryDelay: retryDelay,
		now:        time.Now,
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		activeRuns: make(map[string]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers a cron entry per active source and starts the schedule.
func (o *Orchestrator) Start(ctx context.Context) error {
	sources, err := o.stores.Sources.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sources for scheduling: %w", err)
	}

	for _, source := range sources {
		sourceID := source.ID
		spec := fmt.Sprintf("@every %dh", int(source.PollInterval().Hours()))
		if _, addErr := o.cron.AddFunc(spec, func() {
			o.runScheduled(sourceID)
		}); addErr != nil {
			return fmt.Errorf("failed to schedule source %s: %w", sourceID, addErr)
		}
		o.logger.Info("Source scheduled",
			"source_id", sourceID,
			"name", source.Name,
			"every", spec,
		)
	}

	o.cron.Start()
	o.logger.Info("Orchestrator started", "sources", len(sources))
	return nil
}

// Stop halts the cron schedule, cancels pending retries, and waits for
// in-flight runs started by cron to finish.
func (o *Orchestrator) Stop() {
	o.cancel()

	o.retryTimersMu.Lock()
	for _, timer := range o.retryTimers {
		timer.Stop()
	}
	o.retryTimers = nil
	o.retryTimersMu.Unlock()

	stopCtx := o.cron.Stop()
	<-stopCtx.Done()
	o.logger.Info("Orchestrator stopped")
}

// RunManualScrape runs one synchronous pass over a source, sharing the
// per-source overlap guard with scheduled runs.
func (o *Orchestrator) RunManualScrape(ctx context.Context, sourceID string) Result {
	if !o.acquire(sourceID) {
		return Result{Success: false, Message: "scrape already in progress for this source"}
	}
	defer o.release(sourceID)

	return o.scrapeAndNotify(ctx, sourceID, 1)
}

// runScheduled is the cron entry point. Overlapping ticks for the same
// source are skipped, not queued.
func (o *Orchestrator) runScheduled(sourceID string) {
	if !o.acquire(sourceID) {
		o.logger.Warn("Skipping overlapping scheduled run", "source_id", sourceID)
		return
	}
	defer o.release(sourceID)

	o.scrapeAndNotify(o.ctx, sourceID, 1)
}

func (o *Orchestrator) acquire(sourceID string) bool {
	o.activeRunsMu.Lock()
	defer o.activeRunsMu.Unlock()
	if _, busy := o.activeRuns[sourceID]; busy {
		return false
	}
	o.activeRuns[sourceID] = struct{}{}
	return true
}

func (o *Orchestrator) release(sourceID string) {
	o.activeRunsMu.Lock()
	delete(o.activeRuns, sourceID)
	o.activeRunsMu.Unlock()
}

// scrapeAndNotify is one full pass: scrape, persist, match, deliver, stamp.
// Partial successes are kept; a scrape failure schedules exactly one retry.
func (o *Orchestrator) scrapeAndNotify(ctx context.Context, sourceID string, attempt int) Result {
	log := o.logger.With("source_id", sourceID, "attempt", attempt)

	source, err := o.stores.Sources.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, database.ErrSourceNotFound) {
			log.Warn("Source not found, skipping")
			return Result{Success: false, Message: fmt.Sprintf("source not found: %v", err)}
		}
		// A transient lookup failure is a batch failure, not a missing source.
		log.Error("Source lookup failed", "error", err)
		o.stampLastPolled(ctx, sourceID, log)
		o.scheduleRetry(sourceID, attempt)
		return Result{Success: false, Message: fmt.Sprintf("source lookup failed: %v", err)}
	}
	if !source.Active {
		log.Info("Source inactive, skipping")
		return Result{Success: false, Message: "source is inactive"}
	}

	drafts, err := o.engine.Scrape(ctx, source, source.LastPolledAt)
	if err != nil {
		log.Error("Scrape failed", "error", err)
		o.stampLastPolled(ctx, sourceID, log)
		o.scheduleRetry(sourceID, attempt)
		return Result{Success: false, Message: fmt.Sprintf("scrape failed: %v", err)}
	}

	result := Result{Success: true, NotificationsFound: len(drafts)}
	for i := range drafts {
		o.processDraft(ctx, source, &drafts[i], &result, log)
	}

	o.stampLastPolled(ctx, sourceID, log)

	result.Message = fmt.Sprintf("found %d notifications, %d new, %d alerts sent",
		result.NotificationsFound, result.NewSaved, result.AlertsSent)
	log.Info("Run complete",
		"found", result.NotificationsFound,
		"new", result.NewSaved,
		"alerts", result.AlertsSent,
	)
	return result
}

// processDraft persists one draft and fans alerts out to matching
// subscribers. Per-draft failures are logged and skipped, never fatal.
func (o *Orchestrator) processDraft(
	ctx context.Context,
	source *domain.Source,
	draft *domain.NotificationDraft,
	result *Result,
	log logger.Interface,
) {
	notification := normalizeDraft(draft, source)

	stored, created, err := o.stores.Notifications.GetOrCreate(ctx, notification)
	if err != nil {
		log.Warn("Failed to persist notification", "title", draft.Title, "error", err)
		return
	}
	if created {
		result.NewSaved++
	} else {
		// Seen before; a later scrape may still carry richer fields.
		if backfillErr := o.stores.Notifications.BackfillEmptyFields(ctx, notification); backfillErr != nil {
			log.Debug("Backfill skipped", "notification_id", stored.ID, "error", backfillErr)
		}
	}

	// Pre-existing notifications still fan out: the alert ledger, not
	// notification novelty, decides which subscribers are owed delivery, so
	// users who subscribed after first discovery catch up here.
	result.AlertsSent += o.dispatchAlerts(ctx, source, stored, log)
}

// dispatchAlerts evaluates every subscriber against the notification and
// delivers at most once per (user, notification) pair. Returns the number of
// successful deliveries.
func (o *Orchestrator) dispatchAlerts(
	ctx context.Context,
	source *domain.Source,
	n *domain.Notification,
	log logger.Interface,
) int {
	users, err := o.stores.Users.ListSubscribers(ctx, source.ID)
	if err != nil {
		log.Warn("Failed to list subscribers", "error", err)
		return 0
	}

	sent := 0
	for _, user := range users {
		preferences, prefErr := o.stores.Preferences.ListByUser(ctx, user.ID)
		if prefErr != nil {
			log.Warn("Failed to load preferences", "user_id", user.ID, "error", prefErr)
			continue
		}
		if len(preferences) == 0 {
			continue
		}
		if !matching.IsMatch(n, preferences, user.DateOfBirth, user.Qualification, o.now()) {
			continue
		}

		exists, existsErr := o.stores.Alerts.Exists(ctx, user.ID, n.ID)
		if existsErr != nil {
			log.Warn("Alert ledger check failed", "user_id", user.ID, "error", existsErr)
			continue
		}
		if exists {
			continue
		}

		delivery := o.deliverer.DeliverAlert(ctx, user, n)
		status := domain.AlertStatusSent
		if !delivery.Success {
			status = domain.AlertStatusFailed
			log.Warn("Alert delivery failed",
				"user_id", user.ID,
				"notification_id", n.ID,
				"message", delivery.Message,
			)
		} else {
			sent++
		}

		// Recorded after the attempt, whatever the outcome, so the pair is
		// never re-delivered.
		alert := &domain.SentAlert{UserID: user.ID, NotificationID: n.ID, Status: status}
		if createErr := o.stores.Alerts.Create(ctx, alert); createErr != nil {
			log.Error("Failed to record sent alert",
				"user_id", user.ID,
				"notification_id", n.ID,
				"error", createErr,
			)
		}
	}
	return sent
}

func (o *Orchestrator) stampLastPolled(ctx context.Context, sourceID string, log logger.Interface) {
	if err := o.stores.Sources.UpdateLastPolled(ctx, sourceID, o.now()); err != nil {
		log.Warn("Failed to update last polled time", "error", err)
	}
}

// scheduleRetry arms the single delayed retry for a failed batch. A run that
// is itself a retry never spawns another.
func (o *Orchestrator) scheduleRetry(sourceID string, attempt int) {
	if attempt >= maxAttempts {
		o.logger.Warn("Not retrying failed scrape again", "source_id", sourceID, "attempt", attempt)
		return
	}

	next := attempt + 1
	timer := time.AfterFunc(o.retryDelay, func() {
		if o.ctx.Err() != nil {
			return
		}
		if !o.acquire(sourceID) {
			o.logger.Warn("Skipping retry, source busy", "source_id", sourceID)
			return
		}
		defer o.release(sourceID)
		o.scrapeAndNotify(o.ctx, sourceID, next)
	})

	o.retryTimersMu.Lock()
	o.retryTimers = append(o.retryTimers, timer)
	o.retryTimersMu.Unlock()

	o.logger.Info("Retry scheduled",
		"source_id", sourceID,
		"attempt", next,
		"delay", o.retryDelay,
	)
}

// normalizeDraft turns an adapter draft into the canonical notification,
// filling missing text fields with the standard placeholder.
func normalizeDraft(draft *domain.NotificationDraft, source *domain.Source) *domain.Notification {
	n := &domain.Notification{
		SourceURL:        source.URL,
		Title:            draft.Title,
		Organization:     orNotSpecified(draft.Organization),
		NotificationDate: draft.NotificationDate,
		LastDateToApply:  draft.LastDateToApply,
		AgeLimit:         orNotSpecified(draft.AgeLimit),
		Qualification:    orNotSpecified(draft.Qualification),
		Category:         orNotSpecified(draft.Category),
		Details:          draft.Details,
		Active:           true,
	}
	if draft.PDFURL != "" {
		pdfURL := draft.PDFURL
		n.PDFURL = &pdfURL
	}
	return n
}

func orNotSpecified(value string) string {
	if value == "" {
		return domain.NotSpecified
	}
	return value
}

// NewStores adapts the concrete repositories to the orchestrator's views.
func NewStores(
	sources *database.SourceRepository,
	notifications *database.NotificationRepository,
	users *database.UserRepository,
	preferences *database.PreferenceRepository,
	alerts *database.SentAlertRepository,
) Stores {
	return Stores{
		Sources:       sources,
		Notifications: notifications,
		Users:         users,
		Preferences:   preferences,
		Alerts:        alerts,
	}
}
