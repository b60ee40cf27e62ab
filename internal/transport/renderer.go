package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/saspirant/notifier/internal/logger"
)

// DefaultRenderTimeout bounds a single headless render, including browser
// startup.
const DefaultRenderTimeout = 45 * time.Second

// renderSettleDelay gives client-side scripts time to populate notice tables
// after the initial document load.
const renderSettleDelay = 2 * time.Second

// Renderer produces the DOM HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// ChromeRenderer drives a headless Chrome instance. A fresh browser context is
// created per Render call so a wedged page cannot poison later fetches.
type ChromeRenderer struct {
	timeout   time.Duration
	userAgent string
	logger    logger.Interface
}

// NewChromeRenderer creates a ChromeRenderer with the given timeout, or
// DefaultRenderTimeout when zero.
func NewChromeRenderer(timeout time.Duration, log logger.Interface) *ChromeRenderer {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &ChromeRenderer{
		timeout:   timeout,
		userAgent: defaultUserAgent,
		logger:    log,
	}
}

// Render loads pageURL in headless Chrome, waits for the body to be ready plus
// a short settle delay, and returns the rendered outer HTML.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(r.userAgent),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	started := time.Now()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}

	r.logger.Debug("Page rendered",
		"url", pageURL,
		"duration", time.Since(started),
		"html_bytes", len(html),
	)
	return html, nil
}
