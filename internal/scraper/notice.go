package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/extract"
)

// noticeSelectors cover the list-style notice boards state commission and
// university portals use. Tried in order; the first selector with hits wins.
var noticeSelectors = []string{
	"ul.notice-board li a",
	"ul.notifications li a",
	"div.notice-board a",
	"div.notification a",
	"div.latest-news a",
	"marquee a",
	"ul.news li a",
}

// noticeAdapter handles portals that publish notices as linked list items
// rather than tables.
type noticeAdapter struct {
	kind         string
	organization string
	category     string
	filter       *RelevanceFilter
}

// NewStatePSCAdapter returns the adapter for state public service commission
// portals (MPPSC, UPPSC, BPSC and the like).
func NewStatePSCAdapter() Adapter {
	return &noticeAdapter{
		kind:         domain.AdapterStatePSC,
		organization: "State PSC",
		category:     "State PSC",
		filter:       NewRelevanceFilter(defaultAllowKeywords, defaultDenyKeywords),
	}
}

// NewUniversityAdapter returns the adapter for university portals. Its allow
// list includes admissions and entrance terms the commission families skip.
func NewUniversityAdapter() Adapter {
	return &noticeAdapter{
		kind:         domain.AdapterUniversity,
		organization: "University",
		category:     "University",
		filter:       NewRelevanceFilter(universityAllowKeywords, defaultDenyKeywords),
	}
}

func (a *noticeAdapter) Kind() string { return a.kind }

func (a *noticeAdapter) SupportsHistory() bool { return true }

func (a *noticeAdapter) Parse(doc *goquery.Document, source *domain.Source) []domain.NotificationDraft {
	for _, selector := range noticeSelectors {
		anchors := doc.Find(selector)
		if anchors.Length() == 0 {
			continue
		}
		if drafts := a.parseAnchorSet(anchors, source); len(drafts) > 0 {
			return drafts
		}
	}
	return parseAnchors(doc, source, a.filter, a.organization, a.category)
}

func (a *noticeAdapter) parseAnchorSet(anchors *goquery.Selection, source *domain.Source) []domain.NotificationDraft {
	var drafts []domain.NotificationDraft
	anchors.Each(func(_ int, anchor *goquery.Selection) {
		if draft, ok := draftFromAnchor(anchor, source, a.filter, a.organization, a.category); ok {
			drafts = append(drafts, draft)
		}
	})
	return drafts
}

// draftFromAnchor builds a draft from a single notice link. The notice date,
// when present, sits in the anchor text or its parent list item.
func draftFromAnchor(
	anchor *goquery.Selection,
	source *domain.Source,
	filter *RelevanceFilter,
	defaultOrg, defaultCategory string,
) (domain.NotificationDraft, bool) {
	title := anchorTitle(anchor)
	if len(title) < minTitleLength || !filter.Relevant(title) {
		return domain.NotificationDraft{}, false
	}

	draft := domain.NotificationDraft{
		Title:        title,
		Organization: organizationFor(source, defaultOrg),
		Category:     categoryFor(source, defaultCategory),
		SourceURL:    source.URL,
	}

	href, _ := anchor.Attr("href")
	if link := resolveURL(source.URL, href); link != "" && isPDFLink(link) {
		draft.PDFURL = link
	}

	// The notice date usually sits next to the link in its list item. Only
	// widen to the parent when the anchor is alone in it, so one notice's
	// date cannot leak into a sibling's draft.
	context := anchor.Text()
	if parent := anchor.Parent(); parent.Length() > 0 && parent.Find("a").Length() == 1 {
		context = parent.Text()
	}
	if parsed, ok := extract.ParseDate(context); ok {
		draft.NotificationDate = &parsed
	}

	applyRowDetails(&draft, context)
	return draft, true
}
