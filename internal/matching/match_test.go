package matching_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/matching"
)

var now = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// dobForAge returns a date of birth that makes the user exactly age years old
// at the reference time.
func dobForAge(age int) time.Time {
	return now.AddDate(-age, 0, -1)
}

func upscNotification() *domain.Notification {
	return &domain.Notification{
		Title:         "Civil Services Examination 2025",
		Category:      "UPSC",
		AgeLimit:      "21-35 years",
		Qualification: "Graduate",
	}
}

func upscPreference() domain.Preference {
	return domain.Preference{Category: "UPSC"}
}

func TestIsMatch_EligibleUser(t *testing.T) {
	t.Parallel()

	ok := matching.IsMatch(upscNotification(), []domain.Preference{upscPreference()},
		dobForAge(30), "Graduate", now)
	assert.True(t, ok)
}

func TestIsMatch_AgeAboveLimit(t *testing.T) {
	t.Parallel()

	ok := matching.IsMatch(upscNotification(), []domain.Preference{upscPreference()},
		dobForAge(40), "Graduate", now)
	assert.False(t, ok)
}

func TestIsMatch_WrongCategory(t *testing.T) {
	t.Parallel()

	ok := matching.IsMatch(upscNotification(), []domain.Preference{{Category: "SSC"}},
		dobForAge(30), "Graduate", now)
	assert.False(t, ok)
}

func TestIsMatch_NoPreferences(t *testing.T) {
	t.Parallel()

	ok := matching.IsMatch(upscNotification(), nil, dobForAge(30), "Graduate", now)
	assert.False(t, ok)
}

func TestIsMatch_UnparseableAgeLimitIsEligible(t *testing.T) {
	t.Parallel()

	n := upscNotification()
	n.AgeLimit = "as per rules"

	ok := matching.IsMatch(n, []domain.Preference{upscPreference()},
		dobForAge(55), "Graduate", now)
	assert.True(t, ok)
}

func TestIsMatch_PreferenceBoundsReject(t *testing.T) {
	t.Parallel()

	maxAge := 28
	pref := upscPreference()
	pref.MaxAge = &maxAge

	ok := matching.IsMatch(upscNotification(), []domain.Preference{pref},
		dobForAge(30), "Graduate", now)
	assert.False(t, ok)
}

func TestIsMatch_PreferenceBoundsUnion(t *testing.T) {
	t.Parallel()

	// Two preferences: the looser maximum wins across the union.
	tightMax, looseMax := 25, 34
	prefs := []domain.Preference{
		{Category: "UPSC", MaxAge: &tightMax},
		{Category: "SSC", MaxAge: &looseMax},
	}

	ok := matching.IsMatch(upscNotification(), prefs, dobForAge(30), "Graduate", now)
	assert.True(t, ok)
}

func TestIsMatch_QualificationTooLow(t *testing.T) {
	t.Parallel()

	ok := matching.IsMatch(upscNotification(), []domain.Preference{upscPreference()},
		dobForAge(30), "10th", now)
	assert.False(t, ok)
}

func TestIsMatch_LocationRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     string
		details   string
		locations []string
		want      bool
	}{
		{
			name:      "no extractable location passes any preference",
			title:     "Civil Services Examination 2025",
			locations: []string{"kerala"},
			want:      true,
		},
		{
			name:      "mentioned region outside preference rejects",
			title:     "Recruitment in Delhi region offices",
			locations: []string{"kerala"},
			want:      false,
		},
		{
			name:      "all india preference always accepts",
			title:     "Recruitment in Delhi region offices",
			locations: []string{"All India"},
			want:      true,
		},
		{
			name:      "nationwide notification passes any preference",
			details:   "Vacancies across India in all circles",
			locations: []string{"kerala"},
			want:      true,
		},
		{
			name:      "region intersection accepts",
			details:   "Posts in Kerala and Tamil Nadu",
			locations: []string{"kerala"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := upscNotification()
			n.Title = tt.title
			n.Details = tt.details
			pref := upscPreference()
			pref.Locations = tt.locations

			got := matching.IsMatch(n, []domain.Preference{pref}, dobForAge(30), "Graduate", now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualificationRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{text: "PhD in Physics", want: matching.RankDoctorate},
		{text: "Post-Graduate degree", want: matching.RankPostGraduate},
		{text: "Master of Science", want: matching.RankPostGraduate},
		{text: "Graduate in any discipline", want: matching.RankGraduate},
		{text: "Degree in Civil Engineering", want: matching.RankGraduate},
		{text: "12th pass", want: matching.RankTwelfth},
		{text: "Higher Secondary", want: matching.RankTwelfth},
		{text: "10th pass", want: matching.RankTenth},
		{text: "", want: matching.RankTenth},
		{text: "Mentioned in notification", want: matching.RankTenth},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matching.QualificationRank(tt.text))
		})
	}

	assert.GreaterOrEqual(t, matching.QualificationRank("Post-Graduate"), matching.QualificationRank("Graduate"))
	assert.Less(t, matching.QualificationRank("10th"), matching.QualificationRank("Graduate"))
}

func TestParseAgeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantMin *int
		wantMax *int
	}{
		{name: "range", text: "21-35 years", wantMin: intPtr(21), wantMax: intPtr(35)},
		{name: "to range", text: "21 to 35 years", wantMin: intPtr(21), wantMax: intPtr(35)},
		{name: "below", text: "below 30 years", wantMax: intPtr(30)},
		{name: "upper limit", text: "Upper age limit: 32 years", wantMax: intPtr(32)},
		{name: "maximum", text: "Maximum 27 years", wantMax: intPtr(27)},
		{name: "relaxation discards min", text: "21-35 years, relaxation for SC/ST", wantMax: intPtr(35)},
		{name: "unparseable", text: "as per government norms"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bounds := matching.ParseAgeLimit(tt.text)
			assert.Equal(t, tt.wantMin, bounds.Min)
			assert.Equal(t, tt.wantMax, bounds.Max)
		})
	}
}

func TestAge_WholeYears(t *testing.T) {
	t.Parallel()

	dob := time.Date(1995, time.June, 15, 0, 0, 0, 0, time.UTC)

	beforeBirthday := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, matching.Age(dob, beforeBirthday))

	onBirthday := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, matching.Age(dob, onBirthday))
}

func TestExtractLocations(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{matching.AllIndia},
		matching.ExtractLocations("Vacancies PAN India in all circles"))

	locs := matching.ExtractLocations("Posts in Kerala and Tamil Nadu offices")
	assert.ElementsMatch(t, []string{"kerala", "tamil nadu"}, locs)

	assert.Empty(t, matching.ExtractLocations("General recruitment notice"))
}

func intPtr(n int) *int { return &n }
