// Package scraper turns portal pages into notification drafts. Each portal
// family (UPSC, SSC, state commissions, universities) gets an adapter that
// knows the family's markup; the engine handles fetching, rendering fallback,
// deduplication, freshness, and PDF enrichment uniformly.
package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/saspirant/notifier/internal/domain"
)

// minTitleLength filters out navigation stubs ("Home", "More...") that match
// anchor selectors.
const minTitleLength = 12

// Adapter parses one portal family's markup into notification drafts.
// Adapters are stateless; per-scrape state lives in the engine.
// SupportsHistory reports whether the family parses notice dates reliably
// enough for the engine to compare them against the last-poll cutoff; the
// generic anchor scan does not, and relies on the seen key alone.
type Adapter interface {
	Kind() string
	Parse(doc *goquery.Document, source *domain.Source) []domain.NotificationDraft
	SupportsHistory() bool
}

// DetectAdapterKind maps a portal URL to an adapter kind. Checked in priority
// order; anything unrecognized falls through to the generic adapter.
func DetectAdapterKind(rawURL string) string {
	host := strings.ToLower(rawURL)
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host = strings.ToLower(parsed.Host)
	}

	switch {
	case strings.Contains(host, "upsc.gov.in"):
		return domain.AdapterUPSC
	case strings.Contains(host, "ssc.gov.in") || strings.Contains(host, "ssc.nic.in"):
		return domain.AdapterSSC
	case containsAny(host, "mppsc", "uppsc", "bpsc", "rpsc", "gpsc", "psc"):
		return domain.AdapterStatePSC
	case strings.Contains(host, ".ac.in") || strings.Contains(host, ".edu"):
		return domain.AdapterUniversity
	default:
		return domain.AdapterGeneric
	}
}

func containsAny(s string, tokens ...string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// resolveURL makes href absolute against the source page URL. Invalid hrefs
// resolve to "".
func resolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isPDFLink reports whether a resolved URL points at a PDF document.
func isPDFLink(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}

// anchorTitle returns the cleaned anchor text, falling back to the title
// attribute when the text is a stub.
func anchorTitle(sel *goquery.Selection) string {
	title := strings.Join(strings.Fields(sel.Text()), " ")
	if len(title) < minTitleLength {
		if attr, ok := sel.Attr("title"); ok && len(attr) > len(title) {
			title = strings.Join(strings.Fields(attr), " ")
		}
	}
	return title
}

// organizationFor prefers the configured source name over the family default.
func organizationFor(source *domain.Source, familyDefault string) string {
	if source.Name != "" {
		return source.Name
	}
	return familyDefault
}

// categoryFor prefers the configured source category over the family default.
func categoryFor(source *domain.Source, familyDefault string) string {
	if source.Category != "" {
		return source.Category
	}
	return familyDefault
}
