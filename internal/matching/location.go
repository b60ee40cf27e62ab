package matching

import (
	"strings"
)

// AllIndia is the sentinel for nationwide scope, both in extracted
// notification locations and in user preference lists.
const AllIndia = "all india"

// nationwidePhrases collapse the whole extraction to AllIndia when present.
var nationwidePhrases = []string{"all india", "across india", "pan india", "all over india"}

// gazetteer lists the administrative regions recognized in notification text.
// States and union territories plus the metro cities portals name directly.
var gazetteer = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh",
	"goa", "gujarat", "haryana", "himachal pradesh", "jharkhand", "karnataka",
	"kerala", "madhya pradesh", "maharashtra", "manipur", "meghalaya",
	"mizoram", "nagaland", "odisha", "punjab", "rajasthan", "sikkim",
	"tamil nadu", "telangana", "tripura", "uttar pradesh", "uttarakhand",
	"west bengal",
	"andaman", "chandigarh", "dadra", "daman", "delhi", "jammu", "kashmir",
	"ladakh", "lakshadweep", "puducherry",
	"mumbai", "kolkata", "chennai", "bengaluru", "bangalore", "hyderabad",
	"ahmedabad", "pune", "lucknow", "jaipur", "bhopal", "patna",
}

// ExtractLocations returns the distinct gazetteer regions mentioned in text,
// lowercased. Any nationwide phrase collapses the result to just AllIndia.
// No mentions yields an empty slice, which callers must treat as ambiguous
// rather than as "nowhere".
func ExtractLocations(text string) []string {
	lowered := strings.ToLower(text)

	for _, phrase := range nationwidePhrases {
		if strings.Contains(lowered, phrase) {
			return []string{AllIndia}
		}
	}

	var found []string
	seen := make(map[string]struct{})
	for _, region := range gazetteer {
		if strings.Contains(lowered, region) {
			if _, dup := seen[region]; !dup {
				seen[region] = struct{}{}
				found = append(found, region)
			}
		}
	}
	return found
}

// locationsIntersect reports whether any extracted location appears in the
// user's preferred set. Comparison is case-insensitive.
func locationsIntersect(extracted, preferred []string) bool {
	prefSet := make(map[string]struct{}, len(preferred))
	for _, p := range preferred {
		prefSet[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, loc := range extracted {
		if _, ok := prefSet[strings.ToLower(loc)]; ok {
			return true
		}
	}
	return false
}
