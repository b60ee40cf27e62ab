package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/extract"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/transport"
)

// ErrUnknownAdapter is returned for an adapter kind the engine has no
// registration for.
var ErrUnknownAdapter = errors.New("unknown adapter kind")

// Engine runs one scrape pass over a source: fetch, parse through the
// source's adapter, dedupe, drop stale notices, and enrich PDF-backed drafts.
type Engine struct {
	fetcher  transport.Fetcher
	renderer transport.Renderer
	pdf      transport.PDFTextExtractor
	adapters map[string]Adapter
	logger   logger.Interface
}

// NewEngine wires the transport pieces to the family adapters. renderer may
// be nil when no headless browser is available; pdf may be nil to disable
// enrichment.
func NewEngine(
	fetcher transport.Fetcher,
	renderer transport.Renderer,
	pdf transport.PDFTextExtractor,
	log logger.Interface,
) *Engine {
	if log == nil {
		log = logger.NewNoOp()
	}
	adapters := make(map[string]Adapter)
	for _, adapter := range []Adapter{
		NewUPSCAdapter(),
		NewSSCAdapter(),
		NewStatePSCAdapter(),
		NewUniversityAdapter(),
		NewGenericAdapter(),
	} {
		adapters[adapter.Kind()] = adapter
	}
	return &Engine{
		fetcher:  fetcher,
		renderer: renderer,
		pdf:      pdf,
		adapters: adapters,
		logger:   log,
	}
}

// Scrape fetches the source page and returns the fresh, deduplicated drafts.
// For families that keep history, cutoff drops notices dated strictly before
// it; drafts without a parsed date always pass. A page where both the static
// fetch and the rendered fallback fail is an error; an empty notice board is
// not.
func (e *Engine) Scrape(ctx context.Context, source *domain.Source, cutoff *time.Time) ([]domain.NotificationDraft, error) {
	adapter, err := e.adapterFor(source)
	if err != nil {
		return nil, err
	}

	log := e.logger.WithSource(source.Name)

	drafts, err := e.parseStatic(ctx, source, adapter)
	if err != nil || len(drafts) == 0 {
		rendered, renderErr := e.parseRendered(ctx, source, adapter)
		switch {
		case renderErr == nil:
			if err != nil {
				log.Warn("Static fetch failed, rendered fallback succeeded", "error", err)
			}
			drafts = rendered
		case err != nil:
			return nil, fmt.Errorf("scrape %s: static fetch: %w (render fallback: %v)",
				source.URL, err, renderErr)
		default:
			// Static fetch worked but found nothing and rendering failed too;
			// treat as an empty notice board.
			log.Debug("Rendered fallback unavailable", "error", renderErr)
		}
	}

	seen := make(map[string]struct{}, len(drafts))
	fresh := make([]domain.NotificationDraft, 0, len(drafts))
	for i := range drafts {
		draft := drafts[i]

		key := draft.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if cutoff != nil && adapter.SupportsHistory() &&
			draft.NotificationDate != nil && draft.NotificationDate.Before(*cutoff) {
			continue
		}

		if !e.enrichFromPDF(ctx, &draft, log) {
			continue
		}
		fresh = append(fresh, draft)
	}

	log.Info("Scrape pass complete",
		"adapter", adapter.Kind(),
		"parsed", len(drafts),
		"kept", len(fresh),
	)
	return fresh, nil
}

func (e *Engine) adapterFor(source *domain.Source) (Adapter, error) {
	kind := source.AdapterKind
	if kind == "" {
		kind = DetectAdapterKind(source.URL)
	}
	adapter, ok := e.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, kind)
	}
	return adapter, nil
}

func (e *Engine) parseStatic(ctx context.Context, source *domain.Source, adapter Adapter) ([]domain.NotificationDraft, error) {
	body, err := e.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", source.URL, err)
	}
	return adapter.Parse(doc, source), nil
}

func (e *Engine) parseRendered(ctx context.Context, source *domain.Source, adapter Adapter) ([]domain.NotificationDraft, error) {
	if e.renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	html, err := e.renderer.Render(ctx, source.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html from %s: %w", source.URL, err)
	}
	return adapter.Parse(doc, source), nil
}

// enrichFromPDF downloads the draft's PDF and overrides fields only where the
// document yields values. Returns false when the draft must be dropped: a PDF
// with no text layer carries no extractable data, so the fragment is logged
// for manual review and skipped. Download and parse failures keep the draft
// with its page fields.
func (e *Engine) enrichFromPDF(ctx context.Context, draft *domain.NotificationDraft, log logger.Interface) bool {
	if draft.PDFURL == "" || e.pdf == nil {
		return true
	}

	data, err := e.fetcher.Download(ctx, draft.PDFURL)
	if err != nil {
		log.Warn("PDF download failed, keeping page fields",
			"pdf_url", draft.PDFURL,
			"error", err,
		)
		return true
	}

	text, err := e.pdf.ExtractText(data)
	if err != nil {
		if errors.Is(err, transport.ErrNoText) {
			log.Warn("PDF has no text layer, skipping for manual review",
				"pdf_url", draft.PDFURL,
				"title", draft.Title,
			)
			return false
		}
		log.Warn("PDF text extraction failed, keeping page fields",
			"pdf_url", draft.PDFURL,
			"error", err,
		)
		return true
	}

	details := extract.JobDetails(text)
	if details.AgeLimit != "" {
		draft.AgeLimit = details.AgeLimit
	}
	if details.Qualification != "" {
		draft.Qualification = details.Qualification
	}
	if details.LastDateToApply != nil {
		draft.LastDateToApply = details.LastDateToApply
	}
	if draft.Details == "" {
		draft.Details = extract.CleanText(text)
	}
	return true
}
