// Package transport fetches portal pages and attachments. It wraps a Colly
// collector for static HTTP fetches, a headless Chrome session for pages that
// render their notices client-side, and a PDF text extractor for attached
// notifications.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/saspirant/notifier/internal/logger"
)

// Fetch defaults
const (
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 2 * time.Second
	DefaultRequestTimeout = 20 * time.Second
)

// HTTP transport defaults
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// defaultUserAgent is a desktop browser user agent. Government portals
// routinely reject requests with library user agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// browserHeaders are sent with every request alongside the user agent.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Connection":      "keep-alive",
}

// ErrAllAttemptsFailed is returned when every fetch attempt for a URL failed.
var ErrAllAttemptsFailed = errors.New("all fetch attempts failed")

// Fetcher retrieves raw page or attachment bytes.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
	Download(ctx context.Context, fileURL string) ([]byte, error)
}

// FetcherConfig holds the retry and timeout knobs for the HTTP client.
type FetcherConfig struct {
	MaxAttempts    int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	UserAgent      string
	InsecureTLS    bool
}

// DefaultFetcherConfig returns the production defaults.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		MaxAttempts:    DefaultMaxAttempts,
		RetryDelay:     DefaultRetryDelay,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      defaultUserAgent,
	}
}

// Client is a Colly-backed Fetcher with bounded retries.
type Client struct {
	cfg    FetcherConfig
	logger logger.Interface
}

// NewClient creates a Client, filling zero config fields with defaults.
func NewClient(cfg FetcherConfig, log logger.Interface) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Client{cfg: cfg, logger: log}
}

// Fetch retrieves the page at pageURL, retrying transient failures up to
// MaxAttempts with RetryDelay between attempts. The last attempt's error is
// wrapped in ErrAllAttemptsFailed when all attempts fail.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	return c.fetch(ctx, pageURL, false)
}

// Download retrieves a binary attachment (PDF) at fileURL with the same retry
// behavior as Fetch but without the HTML content-type restriction.
func (c *Client) Download(ctx context.Context, fileURL string) ([]byte, error) {
	return c.fetch(ctx, fileURL, true)
}

func (c *Client) fetch(ctx context.Context, pageURL string, binary bool) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch canceled for %s: %w", pageURL, err)
		}

		body, err := c.fetchOnce(ctx, pageURL, binary)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.Warn("Fetch attempt failed",
			"url", pageURL,
			"attempt", attempt,
			"max_attempts", c.cfg.MaxAttempts,
			"error", err,
		)

		if attempt < c.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch canceled for %s: %w", pageURL, ctx.Err())
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("%w for %s: %v", ErrAllAttemptsFailed, pageURL, lastErr)
}

// fetchOnce performs a single collector visit and captures the response body.
func (c *Client) fetchOnce(ctx context.Context, pageURL string, binary bool) ([]byte, error) {
	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(c.cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(c.cfg.RequestTimeout)
	collector.WithTransport(&http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: c.cfg.InsecureTLS}, //nolint:gosec
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	})

	collector.OnRequest(func(r *colly.Request) {
		for key, value := range browserHeaders {
			r.Headers.Set(key, value)
		}
	})

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		if !binary && !isHTMLContentType(r.Headers.Get("Content-Type")) {
			fetchErr = fmt.Errorf("unexpected content type %q for %s",
				r.Headers.Get("Content-Type"), pageURL)
			return
		}
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, visitErr error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch %s failed with status %d: %w", pageURL, status, visitErr)
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body from %s", pageURL)
	}
	return body, nil
}

// isHTMLContentType accepts empty content types; some portals omit the header.
func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "application/xhtml+xml") ||
		strings.Contains(ct, "text/plain")
}
