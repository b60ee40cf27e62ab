// Package matching decides which users should be alerted about a
// notification. The decision is a pure ordered chain over category, age,
// qualification, and location; the first failing predicate rejects.
package matching

import (
	"strings"
	"time"

	"github.com/saspirant/notifier/internal/domain"
)

// IsMatch reports whether a user with the given preferences, date of birth,
// and qualification should be alerted about the notification. Ambiguity in
// the notification's own data (unparseable age text, no extractable
// locations) leans toward matching; missing user preference data does too.
// A user with no preferences at all never matches.
func IsMatch(
	n *domain.Notification,
	preferences []domain.Preference,
	dateOfBirth time.Time,
	qualification string,
	now time.Time,
) bool {
	if len(preferences) == 0 {
		return false
	}
	if !categoryMatches(n.Category, preferences) {
		return false
	}
	if !ageMatches(n.AgeLimit, preferences, dateOfBirth, now) {
		return false
	}
	if !qualificationMatches(n.Qualification, qualification) {
		return false
	}
	return locationMatches(n, preferences)
}

func categoryMatches(category string, preferences []domain.Preference) bool {
	for _, pref := range preferences {
		if strings.EqualFold(strings.TrimSpace(pref.Category), strings.TrimSpace(category)) {
			return true
		}
	}
	return false
}

// ageMatches checks the user's whole-year age against the bounds parsed from
// the notification and against the union of preference-level bounds: the
// smallest specified minimum and the largest specified maximum.
func ageMatches(ageLimitText string, preferences []domain.Preference, dateOfBirth time.Time, now time.Time) bool {
	age := Age(dateOfBirth, now)

	if !ParseAgeLimit(ageLimitText).Contains(age) {
		return false
	}

	var prefBounds AgeBounds
	for _, pref := range preferences {
		if pref.MinAge != nil && (prefBounds.Min == nil || *pref.MinAge < *prefBounds.Min) {
			prefBounds.Min = pref.MinAge
		}
		if pref.MaxAge != nil && (prefBounds.Max == nil || *pref.MaxAge > *prefBounds.Max) {
			prefBounds.Max = pref.MaxAge
		}
	}
	return prefBounds.Contains(age)
}

// qualificationMatches ranks both sides on the ordinal scale. An empty user
// qualification falls back to the requirement itself, which always passes.
func qualificationMatches(required, userQualification string) bool {
	if strings.TrimSpace(userQualification) == "" {
		userQualification = required
	}
	return QualificationRank(userQualification) >= QualificationRank(required)
}

// locationMatches applies the ambiguity-friendly location rule: no preferred
// locations, an AllIndia preference, no extractable notification locations,
// or a nationwide notification all pass; otherwise the sets must intersect.
func locationMatches(n *domain.Notification, preferences []domain.Preference) bool {
	var preferred []string
	for _, pref := range preferences {
		preferred = append(preferred, pref.Locations...)
	}
	if len(preferred) == 0 {
		return true
	}
	for _, p := range preferred {
		if strings.EqualFold(strings.TrimSpace(p), AllIndia) {
			return true
		}
	}

	extracted := ExtractLocations(n.Title + " " + n.Details)
	if len(extracted) == 0 {
		return true
	}
	for _, loc := range extracted {
		if loc == AllIndia {
			return true
		}
	}
	return locationsIntersect(extracted, preferred)
}
