package matching

import (
	"strings"
)

// Qualification ranks on the ordinal education scale. Higher rank satisfies
// any lower requirement.
const (
	RankTenth = iota
	RankTwelfth
	RankGraduate
	RankPostGraduate
	RankDoctorate
)

// QualificationRank maps free-form qualification text to its rank. Keyword
// order matters: "post graduate" must be checked before "graduate".
// Unrecognized text ranks as 10th, the lowest bar, so a garbled requirement
// never locks everyone out while a garbled user profile never over-qualifies.
func QualificationRank(text string) int {
	lowered := strings.ToLower(text)

	switch {
	case strings.Contains(lowered, "phd") || strings.Contains(lowered, "ph.d") ||
		strings.Contains(lowered, "doctorate"):
		return RankDoctorate
	case (strings.Contains(lowered, "post") && strings.Contains(lowered, "graduate")) ||
		strings.Contains(lowered, "master"):
		return RankPostGraduate
	case strings.Contains(lowered, "graduate") || strings.Contains(lowered, "degree") ||
		strings.Contains(lowered, "engineering") || strings.Contains(lowered, "bachelor"):
		return RankGraduate
	case strings.Contains(lowered, "12") || strings.Contains(lowered, "intermediate") ||
		strings.Contains(lowered, "higher secondary"):
		return RankTwelfth
	default:
		return RankTenth
	}
}
