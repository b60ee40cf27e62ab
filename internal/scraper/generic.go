package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/saspirant/notifier/internal/domain"
)

// genericAdapter is the fallback for portals with no known family: a full
// anchor scan gated on the relevance filter. It keeps no page history; the
// engine's seen set and the notification unique key carry deduplication.
type genericAdapter struct {
	filter *RelevanceFilter
}

// NewGenericAdapter returns the catch-all adapter.
func NewGenericAdapter() Adapter {
	return &genericAdapter{
		filter: NewRelevanceFilter(defaultAllowKeywords, defaultDenyKeywords),
	}
}

func (a *genericAdapter) Kind() string { return domain.AdapterGeneric }

func (a *genericAdapter) SupportsHistory() bool { return false }

func (a *genericAdapter) Parse(doc *goquery.Document, source *domain.Source) []domain.NotificationDraft {
	return parseAnchors(doc, source, a.filter, "Unknown", "General")
}

// parseAnchors is the shared anchor scan every family falls back to when its
// structured selectors find nothing.
func parseAnchors(
	doc *goquery.Document,
	source *domain.Source,
	filter *RelevanceFilter,
	defaultOrg, defaultCategory string,
) []domain.NotificationDraft {
	var drafts []domain.NotificationDraft
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		if draft, ok := draftFromAnchor(anchor, source, filter, defaultOrg, defaultCategory); ok {
			drafts = append(drafts, draft)
		}
	})
	return drafts
}
