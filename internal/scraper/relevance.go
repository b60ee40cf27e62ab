package scraper

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Default keyword lists shared by the portal families. Titles must hit the
// allow list and miss the deny list to survive filtering.
var (
	defaultAllowKeywords = []string{
		"recruitment", "vacancy", "vacancies", "notification", "advertisement",
		"examination", "exam", "apply", "posts", "appointment",
	}
	universityAllowKeywords = []string{
		"admission", "entrance", "examination", "exam", "recruitment",
		"result", "counselling", "notification",
	}
	defaultDenyKeywords = []string{
		"tender", "quotation", "auction", "holiday", "seminar",
		"workshop", "press release", "rti",
	}
)

// RelevanceFilter keeps notification titles that mention an allowed keyword
// and drops those mentioning a denied one. Matching is case-insensitive
// substring search via Aho-Corasick.
type RelevanceFilter struct {
	allow *ahocorasick.Matcher
	deny  *ahocorasick.Matcher
}

// NewRelevanceFilter builds a filter from keyword lists. A nil or empty allow
// list admits everything not denied.
func NewRelevanceFilter(allow, deny []string) *RelevanceFilter {
	f := &RelevanceFilter{}
	if len(allow) > 0 {
		f.allow = ahocorasick.NewStringMatcher(lowerAll(allow))
	}
	if len(deny) > 0 {
		f.deny = ahocorasick.NewStringMatcher(lowerAll(deny))
	}
	return f
}

// Relevant reports whether text passes the allow and deny lists.
func (f *RelevanceFilter) Relevant(text string) bool {
	lowered := []byte(strings.ToLower(text))
	if f.deny != nil && len(f.deny.MatchThreadSafe(lowered)) > 0 {
		return false
	}
	if f.allow == nil {
		return true
	}
	return len(f.allow.MatchThreadSafe(lowered)) > 0
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
