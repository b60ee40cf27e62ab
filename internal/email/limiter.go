package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Daily sending limits. The global cap protects the SendGrid quota; the
// per-user threshold switches a noisy day over to a single digest email.
const (
	DefaultDailyLimit      = 100
	DefaultDigestThreshold = 5
)

// DailyCounter tracks send volume in Redis with counters that expire at the
// next midnight, so every day starts from zero without a cleanup job.
type DailyCounter struct {
	client          *redis.Client
	dailyLimit      int
	digestThreshold int
	now             func() time.Time
}

// NewDailyCounter creates a counter over the given Redis client. Zero limits
// fall back to the defaults.
func NewDailyCounter(client *redis.Client, dailyLimit, digestThreshold int) *DailyCounter {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	if digestThreshold <= 0 {
		digestThreshold = DefaultDigestThreshold
	}
	return &DailyCounter{
		client:          client,
		dailyLimit:      dailyLimit,
		digestThreshold: digestThreshold,
		now:             time.Now,
	}
}

func (c *DailyCounter) day() string {
	return c.now().Format("2006-01-02")
}

func (c *DailyCounter) midnight() time.Time {
	now := c.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, 1)
}

// UnderGlobalLimit reports whether another email may be sent today.
func (c *DailyCounter) UnderGlobalLimit(ctx context.Context) (bool, error) {
	count, err := c.client.Get(ctx, "email:sent:"+c.day()).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to read daily send count: %w", err)
	}
	return count < c.dailyLimit, nil
}

// RecordSend increments today's global counter.
func (c *DailyCounter) RecordSend(ctx context.Context) error {
	key := "email:sent:" + c.day()
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment daily send count: %w", err)
	}
	if err := c.client.ExpireAt(ctx, key, c.midnight()).Err(); err != nil {
		return fmt.Errorf("failed to set counter expiry: %w", err)
	}
	return nil
}

// UserAlertCount returns how many alerts a user received today, including
// digest-covered ones.
func (c *DailyCounter) UserAlertCount(ctx context.Context, userID string) (int, error) {
	count, err := c.client.Get(ctx, c.userKey(userID)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read user alert count: %w", err)
	}
	return count, nil
}

// RecordUserAlert increments a user's alert counter for today.
func (c *DailyCounter) RecordUserAlert(ctx context.Context, userID string) error {
	key := c.userKey(userID)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment user alert count: %w", err)
	}
	if err := c.client.ExpireAt(ctx, key, c.midnight()).Err(); err != nil {
		return fmt.Errorf("failed to set counter expiry: %w", err)
	}
	return nil
}

// OverDigestThreshold reports whether the user's alerts today should collapse
// into a digest.
func (c *DailyCounter) OverDigestThreshold(ctx context.Context, userID string) (bool, error) {
	count, err := c.UserAlertCount(ctx, userID)
	if err != nil {
		return false, err
	}
	return count >= c.digestThreshold, nil
}

// MarkDigestSent records that today's digest email went out for the user.
// Returns false when the digest was already marked, so only one caller sends.
func (c *DailyCounter) MarkDigestSent(ctx context.Context, userID string) (bool, error) {
	key := "email:digest:" + userID + ":" + c.day()
	set, err := c.client.SetNX(ctx, key, 1, time.Until(c.midnight())).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark digest sent: %w", err)
	}
	return set, nil
}

func (c *DailyCounter) userKey(userID string) string {
	return "email:user:" + userID + ":" + c.day()
}
