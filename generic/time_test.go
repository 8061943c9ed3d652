package generic_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// TIME POINT TESTS
// =============================================================================

func TestParseDate_AcceptedLayouts(t *testing.T) {
	want := generic.NewTimePoint(2024, time.March, 5)

	tests := []struct {
		name  string
		input string
	}{
		{"canonical", "2024-03-05"},
		{"rfc3339", "2024-03-05T14:30:00Z"},
		{"sql datetime", "2024-03-05 09:15:00"},
		{"iso without zone", "2024-03-05T09:15:00"},
		{"slashes", "2024/03/05"},
		{"surrounding spaces", "  2024-03-05 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generic.ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s", got)
		})
	}
}

func TestParseDate_Rejects(t *testing.T) {
	for _, input := range []string{"", "   ", "03/05/2024", "2024-13-01", "not a date"} {
		_, err := generic.ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestMustParseDate_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { generic.MustParseDate("garbage") })
}

func TestFromTime_DropsClock(t *testing.T) {
	// GIVEN: two instants on the same calendar day
	morning := time.Date(2024, time.March, 5, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)

	// THEN: they map to the same TimePoint and DateKey
	assert.True(t, generic.FromTime(morning).Equal(generic.FromTime(evening)))
	assert.Equal(t, generic.FromTime(morning).Key(), generic.FromTime(evening).Key())
	assert.Equal(t, "2024-03-05", generic.FromTime(evening).String())
}

func TestTimePoint_Comparisons(t *testing.T) {
	a := generic.MustParseDate("2024-03-01")
	b := generic.MustParseDate("2024-03-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, b.BeforeOrEqual(a))
	assert.True(t, a.AddDays(1).Equal(b))
}

// =============================================================================
// MONTH UTILITIES
// =============================================================================

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap year
		{2023, time.February, 28},
		{1900, time.February, 28}, // divisible by 100, not 400
		{2000, time.February, 29}, // divisible by 400
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, generic.DaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestStartAndEndOfMonth(t *testing.T) {
	assert.Equal(t, "2024-02-01", generic.StartOfMonth(2024, time.February).String())
	assert.Equal(t, "2024-02-29", generic.EndOfMonth(2024, time.February).String())
	assert.Equal(t, "2024-12-31", generic.EndOfMonth(2024, time.December).String())
}

func TestStartOfWeek_IsMonday(t *testing.T) {
	// 2024-03-01 is a Friday, 2024-03-03 a Sunday, 2024-03-04 a Monday
	assert.Equal(t, "2024-02-26", generic.StartOfWeek(generic.MustParseDate("2024-03-01")).String())
	assert.Equal(t, "2024-02-26", generic.StartOfWeek(generic.MustParseDate("2024-03-03")).String())
	assert.Equal(t, "2024-03-04", generic.StartOfWeek(generic.MustParseDate("2024-03-04")).String())
}

func TestValidMonth(t *testing.T) {
	assert.True(t, generic.ValidMonth(2024, time.March))
	assert.False(t, generic.ValidMonth(2024, 0))
	assert.False(t, generic.ValidMonth(2024, 13))
	assert.False(t, generic.ValidMonth(1899, time.January))
	assert.False(t, generic.ValidMonth(10000, time.January))
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

func TestSafeDiv_ZeroDenominator(t *testing.T) {
	assert.True(t, generic.SafeDiv(decimal.NewFromInt(8000), decimal.Zero).IsZero())
	assert.True(t, generic.SafeDiv(decimal.NewFromInt(8000), decimal.NewFromInt(20)).Equal(decimal.NewFromInt(400)))
}

func TestMustParseDecimal(t *testing.T) {
	assert.True(t, generic.MustParseDecimal("12.50").Equal(decimal.NewFromFloat(12.5)))
	assert.True(t, generic.MustParseDecimal("").IsZero())
	assert.True(t, generic.MustParseDecimal("abc").IsZero())
}
