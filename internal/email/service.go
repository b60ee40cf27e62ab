// Package email delivers alert, digest, and account emails through SendGrid,
// under a global daily quota and a per-user digest policy tracked in Redis.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/logger"
)

// Result is the outcome of one delivery attempt. The caller records it and
// never retries; a failed delivery still counts as attempted.
type Result struct {
	Success bool
	Message string
}

// Deliverer is the delivery surface the orchestrator depends on.
type Deliverer interface {
	DeliverAlert(ctx context.Context, user *domain.User, n *domain.Notification) Result
}

// Service applies the quota and digest policy in front of a Sender.
type Service struct {
	sender  Sender
	counter *DailyCounter
	logger  logger.Interface
	now     func() time.Time
}

// NewService wires the sender and counter. counter may be nil, which
// disables quota and digest handling (useful for one-off sends from the CLI).
func NewService(sender Sender, counter *DailyCounter, log logger.Interface) *Service {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Service{
		sender:  sender,
		counter: counter,
		logger:  log,
		now:     time.Now,
	}
}

// DeliverAlert sends one notification alert to one user. Policy, in order:
// the global daily quota blocks the send entirely; past the per-user digest
// threshold a single digest email replaces individual alerts for the rest of
// the day; otherwise the full alert goes out.
func (s *Service) DeliverAlert(ctx context.Context, user *domain.User, n *domain.Notification) Result {
	if s.counter != nil {
		if result, handled := s.applyPolicy(ctx, user); handled {
			return result
		}
	}

	html, err := renderAlert(user.Name, n, s.now())
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	subject := fmt.Sprintf("New opportunity: %s", n.Title)
	if sendErr := s.sender.Send(ctx, user.Email, user.Name, subject, html); sendErr != nil {
		s.logger.Warn("Alert delivery failed",
			"user_id", user.ID,
			"notification_id", n.ID,
			"error", sendErr,
		)
		return Result{Success: false, Message: sendErr.Error()}
	}

	s.recordCounters(ctx, user.ID)
	return Result{Success: true, Message: "alert delivered"}
}

// applyPolicy returns a final Result when quota or digest policy short-
// circuits the individual alert.
func (s *Service) applyPolicy(ctx context.Context, user *domain.User) (Result, bool) {
	underLimit, err := s.counter.UnderGlobalLimit(ctx)
	if err != nil {
		// A broken counter must not silence alerts; log and proceed.
		s.logger.Warn("Daily counter unavailable, sending without quota", "error", err)
		return Result{}, false
	}
	if !underLimit {
		return Result{Success: false, Message: "daily email limit reached"}, true
	}

	overThreshold, err := s.counter.OverDigestThreshold(ctx, user.ID)
	if err != nil || !overThreshold {
		return Result{}, false
	}

	first, err := s.counter.MarkDigestSent(ctx, user.ID)
	if err != nil {
		s.logger.Warn("Digest bookkeeping failed, sending individual alert", "error", err)
		return Result{}, false
	}

	if first {
		if digestErr := s.sendDigest(ctx, user); digestErr != nil {
			s.logger.Warn("Digest delivery failed", "user_id", user.ID, "error", digestErr)
			return Result{Success: false, Message: digestErr.Error()}, true
		}
	}

	s.recordUserCounter(ctx, user.ID)
	return Result{Success: true, Message: "included in daily digest"}, true
}

func (s *Service) sendDigest(ctx context.Context, user *domain.User) error {
	html, err := renderDigest(user.Name, s.counter.digestThreshold)
	if err != nil {
		return err
	}
	if sendErr := s.sender.Send(ctx, user.Email, user.Name,
		"Your opportunities digest for today", html); sendErr != nil {
		return sendErr
	}
	if recErr := s.counter.RecordSend(ctx); recErr != nil {
		s.logger.Warn("Failed to record digest send", "error", recErr)
	}
	return nil
}

// SendWelcome sends the account welcome email. Not subject to the digest
// policy but still counted against the global quota.
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) Result {
	html, err := renderWelcome(user.Name)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	if sendErr := s.sender.Send(ctx, user.Email, user.Name, "Welcome to Saspirant", html); sendErr != nil {
		return Result{Success: false, Message: sendErr.Error()}
	}
	if s.counter != nil {
		if recErr := s.counter.RecordSend(ctx); recErr != nil {
			s.logger.Warn("Failed to record welcome send", "error", recErr)
		}
	}
	return Result{Success: true, Message: "welcome email sent"}
}

// SendTest sends a plain test email to verify credentials and templates.
func (s *Service) SendTest(ctx context.Context, toAddress string) Result {
	err := s.sender.Send(ctx, toAddress, "Test Recipient",
		"Saspirant test email",
		"<p>This is a test email from the notifier service.</p>")
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "test email sent"}
}

func (s *Service) recordCounters(ctx context.Context, userID string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.RecordSend(ctx); err != nil {
		s.logger.Warn("Failed to record send", "error", err)
	}
	s.recordUserCounter(ctx, userID)
}

func (s *Service) recordUserCounter(ctx context.Context, userID string) {
	if err := s.counter.RecordUserAlert(ctx, userID); err != nil {
		s.logger.Warn("Failed to record user alert", "error", err)
	}
}
