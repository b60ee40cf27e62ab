package matching

import (
	"regexp"
	"strconv"
	"time"
)

// AgeBounds is the parsed form of a notification's age-limit text. Either
// bound may be absent.
type AgeBounds struct {
	Min *int
	Max *int
}

var (
	ageRangeRe = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|to)+\s*(\d{1,2})\s*years?`)
	belowRe    = regexp.MustCompile(`(?i)below\s*(\d{1,2})\s*years?`)
	upperRe    = regexp.MustCompile(`(?i)upper\s*age\s*limit\s*[:\-]?\s*(\d{1,2})`)
	maxRe      = regexp.MustCompile(`(?i)max(?:imum)?\s*(?:age)?\s*[:\-]?\s*(\d{1,2})`)
	minRe      = regexp.MustCompile(`(?i)min(?:imum)?\s*(?:age)?\s*[:\-]?\s*(\d{1,2})`)

	// relaxationRe flags reservation/relaxation clauses. Lower bounds parsed
	// out of such text are unreliable and get discarded.
	relaxationRe = regexp.MustCompile(`(?i)\b(sc|st|obc)\b|relax`)
)

// Age returns the user's age in whole years at the reference time.
func Age(dateOfBirth, at time.Time) int {
	years := at.Year() - dateOfBirth.Year()
	anniversary := time.Date(at.Year(), dateOfBirth.Month(), dateOfBirth.Day(),
		0, 0, 0, 0, at.Location())
	if at.Before(anniversary) {
		years--
	}
	return years
}

// ParseAgeLimit extracts numeric age bounds from free-form age-limit text.
// When a relaxation keyword appears alongside a parsed maximum, the minimum
// is discarded. Unparseable text yields empty bounds, meaning no restriction.
func ParseAgeLimit(text string) AgeBounds {
	var bounds AgeBounds
	if text == "" {
		return bounds
	}

	if m := ageRangeRe.FindStringSubmatch(text); m != nil {
		bounds.Min = atoiPtr(m[1])
		bounds.Max = atoiPtr(m[2])
	} else if m := belowRe.FindStringSubmatch(text); m != nil {
		bounds.Max = atoiPtr(m[1])
	} else if m := upperRe.FindStringSubmatch(text); m != nil {
		bounds.Max = atoiPtr(m[1])
	} else {
		if m := maxRe.FindStringSubmatch(text); m != nil {
			bounds.Max = atoiPtr(m[1])
		}
		if m := minRe.FindStringSubmatch(text); m != nil {
			bounds.Min = atoiPtr(m[1])
		}
	}

	if bounds.Max != nil && bounds.Min != nil && relaxationRe.MatchString(text) {
		bounds.Min = nil
	}
	return bounds
}

// Contains reports whether age satisfies both bounds. Absent bounds pass.
func (b AgeBounds) Contains(age int) bool {
	if b.Min != nil && age < *b.Min {
		return false
	}
	if b.Max != nil && age > *b.Max {
		return false
	}
	return true
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
