package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saspirant/notifier/internal/extract"
)

func TestParseDate_SupportedFormats(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{name: "slash numeric", input: "15/02/2025"},
		{name: "dash numeric", input: "15-02-2025"},
		{name: "dash month name", input: "15-Feb-2025"},
		{name: "full month name", input: "15 February 2025"},
		{name: "short month name", input: "15 Feb 2025"},
		{name: "iso", input: "2025-02-15"},
		{name: "surrounding whitespace", input: "  15/02/2025  "},
		{name: "embedded in sentence", input: "apply before 15/02/2025 positively"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extract.ParseDate(tt.input)
			require.True(t, ok, "expected %q to parse", tt.input)
			assert.Equal(t, want.Year(), got.Year())
			assert.Equal(t, want.Month(), got.Month())
			assert.Equal(t, want.Day(), got.Day())
		})
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "not a date", "32/13/2025", "sometime soon"} {
		_, ok := extract.ParseDate(input)
		assert.False(t, ok, "expected %q not to parse", input)
	}
}

func TestAgeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "numeric range", input: "Candidates must be 21 to 35 years old", want: "21 to 35 years"},
		{name: "hyphen range", input: "Age: 18-27 years as on 01/01/2025", want: "18-27 years"},
		{name: "below", input: "Applicants below 30 years may apply", want: "below 30 years"},
		{name: "upper limit", input: "Upper age limit: 32 years with relaxation", want: "Upper age limit: 32 years"},
		{name: "maximum", input: "Maximum 27 years for general category", want: "Maximum 27 years"},
		{name: "no match", input: "No age information here", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.AgeLimit(tt.input))
		})
	}
}

func TestQualification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "explicit clause",
			input: "Qualification: Graduate in any discipline from a recognized university",
			want:  "Graduate in any discipline from a recognized university",
		},
		{
			name:  "eligibility clause",
			input: "Eligibility - Bachelor degree with 50% marks required",
			want:  "Bachelor degree with 50% marks required",
		},
		{
			name:  "keyword only",
			input: "Candidates with a degree should check the attached PDF",
			want:  extract.QualificationSentinel,
		},
		{name: "nothing", input: "Walk-in interview on Monday", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.Qualification(tt.input))
		})
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", extract.CleanText("  a\t\tb \n c  "))
	assert.Equal(t, "", extract.CleanText(""))
	assert.Equal(t, "", extract.CleanText("   \n\t "))
}

func TestJobDetails(t *testing.T) {
	t.Parallel()

	text := `Recruitment for Junior Engineer posts: 120.
	Qualification: Degree in Civil Engineering.
	Age limit 21-30 years. Last date to apply: 15/02/2025.`

	details := extract.JobDetails(text)

	assert.Equal(t, "21-30 years", details.AgeLimit)
	assert.Contains(t, details.Qualification, "Degree in Civil Engineering")
	require.NotNil(t, details.VacancyCount)
	assert.Equal(t, 120, *details.VacancyCount)
	require.NotNil(t, details.LastDateToApply)
	assert.Equal(t, time.February, details.LastDateToApply.Month())
	assert.Equal(t, 15, details.LastDateToApply.Day())
	assert.Equal(t, 2025, details.LastDateToApply.Year())
}

func TestJobDetails_EmptyInput(t *testing.T) {
	t.Parallel()

	details := extract.JobDetails("")

	assert.Empty(t, details.Title)
	assert.Empty(t, details.AgeLimit)
	assert.Empty(t, details.Qualification)
	assert.Nil(t, details.LastDateToApply)
	assert.Nil(t, details.VacancyCount)
}
