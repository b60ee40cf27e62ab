// Package extract provides deterministic text extraction heuristics shared by
// all source adapters: date parsing, age-limit and qualification extraction,
// and whitespace normalization. Everything here is side-effect-free.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// QualificationSentinel is returned when a notification mentions
// qualification keywords but carries no explicit requirement clause.
const QualificationSentinel = "Mentioned in notification"

// dateLayouts are tried in order; first match wins. Non-padded day/month
// layouts accept both "5/2/2025" and "15/02/2025".
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2-Jan-2006",
	"2-January-2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	embeddedDateRe = regexp.MustCompile(`(\d{1,2}[/-][A-Za-z0-9]{1,3}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})`)

	// Age-limit patterns in priority order.
	ageLimitRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,2}\s*(?:-|to)+\s*\d{1,2}\s*years?)\b`),
		regexp.MustCompile(`(?i)\b(below\s*\d{1,2}\s*years?)\b`),
		regexp.MustCompile(`(?i)\b(upper\s*age\s*limit\s*[:\-]?\s*\d{1,2}\s*years?)\b`),
		regexp.MustCompile(`(?i)\b(max(?:imum)?\s*\d{1,2}\s*years?)\b`),
		regexp.MustCompile(`(?i)\b(min(?:imum)?\s*\d{1,2}\s*years?)\b`),
	}

	qualificationRe = regexp.MustCompile(`(?i)(qualification|eligible|eligibility)\s*[:\-]?\s*([^\n]{5,200})`)
	titleRe         = regexp.MustCompile(`(?i)(recruitment|notification|advertisement)\s*(for)?\s*([A-Za-z0-9 /-]{5,120})`)
	vacancyRe       = regexp.MustCompile(`(?i)(vacanc(?:y|ies)|posts?)\s*[:\-]?\s*(\d{1,6})`)
	lastDateRe      = regexp.MustCompile(`(?i)(last\s+date(?:\s+to\s+apply)?|apply\s+before)\s*[:\-]?\s*([^\n,;]+)`)
)

// qualificationKeywords trigger the sentinel when no explicit clause exists.
var qualificationKeywords = []string{"graduate", "12th", "10th", "diploma", "degree"}

// Details holds the composite fields extracted from free-form notification text.
type Details struct {
	Title           string
	AgeLimit        string
	Qualification   string
	LastDateToApply *time.Time
	VacancyCount    *int
}

// CleanText collapses whitespace runs to single spaces and trims.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ParseDate parses date strings in the formats portals commonly use:
// 15/02/2025, 15-02-2025, 15-Feb-2025, 15 February 2025, 2025-02-15.
// Falls back to scanning for an embedded date-like substring. The boolean is
// false when no format matches.
func ParseDate(text string) (time.Time, bool) {
	candidate := CleanText(text)
	if candidate == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed, true
		}
	}

	embedded := embeddedDateRe.FindString(candidate)
	if embedded != "" && embedded != candidate {
		return ParseDate(embedded)
	}
	return time.Time{}, false
}

// AgeLimit extracts the first age-limit phrase from text, e.g. "21-35 years",
// "Below 30 years", "Maximum 27 years". Returns "" when none match.
func AgeLimit(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range ageLimitRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return CleanText(m[1])
		}
	}
	return ""
}

// Qualification extracts an explicit qualification/eligibility clause. When
// no clause exists but qualification keywords appear in the text, it returns
// QualificationSentinel; otherwise "".
func Qualification(text string) string {
	cleaned := CleanText(text)
	if m := qualificationRe.FindStringSubmatch(cleaned); m != nil {
		return CleanText(m[2])
	}
	lower := strings.ToLower(cleaned)
	for _, kw := range qualificationKeywords {
		if strings.Contains(lower, kw) {
			return QualificationSentinel
		}
	}
	return ""
}

// JobDetails runs the composite extraction used by all adapters on raw
// notification text.
func JobDetails(text string) Details {
	cleaned := CleanText(text)

	details := Details{
		AgeLimit:      AgeLimit(cleaned),
		Qualification: Qualification(cleaned),
	}

	if m := titleRe.FindStringSubmatch(cleaned); m != nil {
		details.Title = CleanText(m[3])
	}
	if m := vacancyRe.FindStringSubmatch(cleaned); m != nil {
		if count, err := strconv.Atoi(m[2]); err == nil {
			details.VacancyCount = &count
		}
	}
	if m := lastDateRe.FindStringSubmatch(cleaned); m != nil {
		if parsed, ok := ParseDate(m[2]); ok {
			details.LastDateToApply = &parsed
		}
	}

	return details
}
