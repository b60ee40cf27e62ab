package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/extract"
)

// minTableCells is the minimum cell count for a row to be a notice row rather
// than a header or spacer.
const minTableCells = 2

// tableAdapter handles commission portals that publish notices as table rows
// with a date column and a linked title column (UPSC "what's new", SSC notice
// board).
type tableAdapter struct {
	kind         string
	organization string
	filter       *RelevanceFilter
}

// NewUPSCAdapter returns the adapter for upsc.gov.in notice tables.
func NewUPSCAdapter() Adapter {
	return &tableAdapter{
		kind:         domain.AdapterUPSC,
		organization: "UPSC",
		filter:       NewRelevanceFilter(defaultAllowKeywords, defaultDenyKeywords),
	}
}

// NewSSCAdapter returns the adapter for ssc.gov.in notice tables.
func NewSSCAdapter() Adapter {
	return &tableAdapter{
		kind:         domain.AdapterSSC,
		organization: "SSC",
		filter:       NewRelevanceFilter(defaultAllowKeywords, defaultDenyKeywords),
	}
}

func (a *tableAdapter) Kind() string { return a.kind }

func (a *tableAdapter) SupportsHistory() bool { return true }

func (a *tableAdapter) Parse(doc *goquery.Document, source *domain.Source) []domain.NotificationDraft {
	var drafts []domain.NotificationDraft

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		if draft, ok := a.parseRow(row, source); ok {
			drafts = append(drafts, draft)
		}
	})

	// Portals occasionally swap the table for a plain list; fall back to the
	// anchor scan so a markup change degrades instead of going silent.
	if len(drafts) == 0 {
		drafts = parseAnchors(doc, source, a.filter, a.organization, a.organization)
	}
	return drafts
}

func (a *tableAdapter) parseRow(row *goquery.Selection, source *domain.Source) (domain.NotificationDraft, bool) {
	cells := row.Find("td")
	if cells.Length() < minTableCells {
		return domain.NotificationDraft{}, false
	}

	anchor := row.Find("a[href]").First()
	if anchor.Length() == 0 {
		return domain.NotificationDraft{}, false
	}

	title := anchorTitle(anchor)
	if title == "" {
		// Linked icon rows carry the title in a sibling cell.
		cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := extract.CleanText(cell.Text())
			if len(text) >= minTitleLength {
				if _, isDate := extract.ParseDate(text); !isDate {
					title = text
					return false
				}
			}
			return true
		})
	}
	if len(title) < minTitleLength || !a.filter.Relevant(title) {
		return domain.NotificationDraft{}, false
	}

	draft := domain.NotificationDraft{
		Title:        title,
		Organization: organizationFor(source, a.organization),
		Category:     categoryFor(source, a.organization),
		SourceURL:    source.URL,
	}

	// First parseable cell text is the notice date.
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if parsed, ok := extract.ParseDate(cell.Text()); ok {
			draft.NotificationDate = &parsed
			return false
		}
		return true
	})

	href, _ := anchor.Attr("href")
	if link := resolveURL(source.URL, href); link != "" && isPDFLink(link) {
		draft.PDFURL = link
	}

	applyRowDetails(&draft, row.Text())
	return draft, true
}

// applyRowDetails runs the composite extractor over the fragment text and
// fills fields the structured parse did not produce.
func applyRowDetails(draft *domain.NotificationDraft, fragmentText string) {
	details := extract.JobDetails(fragmentText)
	if draft.AgeLimit == "" {
		draft.AgeLimit = details.AgeLimit
	}
	if draft.Qualification == "" {
		draft.Qualification = details.Qualification
	}
	if draft.LastDateToApply == nil {
		draft.LastDateToApply = details.LastDateToApply
	}
}
