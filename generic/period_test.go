package generic_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/generic"
)

func TestMonthPeriod_BoundsAreInclusive(t *testing.T) {
	march := generic.MonthPeriod(2024, time.March)

	assert.True(t, march.Contains(generic.MustParseDate("2024-03-01")))
	assert.True(t, march.Contains(generic.MustParseDate("2024-03-31")))
	assert.False(t, march.Contains(generic.MustParseDate("2024-02-29")))
	assert.False(t, march.Contains(generic.MustParseDate("2024-04-01")))
	assert.Equal(t, 31, march.Len())
	assert.Len(t, march.Days(), 31)
	assert.Equal(t, "[2024-03-01, 2024-03-31]", march.String())
}

func TestPeriod_LenOfInvertedPeriodIsZero(t *testing.T) {
	p := generic.Period{
		Start: generic.MustParseDate("2024-03-10"),
		End:   generic.MustParseDate("2024-03-01"),
	}
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Days())
}

func TestPeriod_OverlapsAndClip(t *testing.T) {
	march := generic.MonthPeriod(2024, time.March)
	week := generic.WeekPeriod(generic.MustParseDate("2024-03-01")) // Feb 26 - Mar 3

	require.True(t, week.Overlaps(march))
	clipped := week.Clip(march)
	assert.Equal(t, "2024-03-01", clipped.Start.String())
	assert.Equal(t, "2024-03-03", clipped.End.String())

	april := generic.MonthPeriod(2024, time.April)
	assert.False(t, march.Overlaps(april))
}

func TestPeriod_Weeks(t *testing.T) {
	// GIVEN: March 2024 starts on a Friday and ends on a Sunday
	weeks := generic.MonthPeriod(2024, time.March).Weeks()

	// THEN: five Monday-start weeks overlap it
	require.Len(t, weeks, 5)
	assert.Equal(t, "2024-02-26", weeks[0].Start.String())
	assert.Equal(t, "2024-03-03", weeks[0].End.String())
	assert.Equal(t, "2024-03-25", weeks[4].Start.String())
	assert.Equal(t, "2024-03-31", weeks[4].End.String())
	for _, w := range weeks {
		assert.Equal(t, time.Monday, w.Start.Weekday())
		assert.Equal(t, 7, w.Len())
	}
}

func TestPeriod_WeeksSpillIntoNextMonth(t *testing.T) {
	// April 2024 ends on a Tuesday
	weeks := generic.MonthPeriod(2024, time.April).Weeks()
	require.Len(t, weeks, 5)
	assert.Equal(t, "2024-05-05", weeks[4].End.String())
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorHelpers(t *testing.T) {
	verr := &generic.ValidationError{Field: "hours", Message: "must be between 0 and 24"}
	wrapped := fmt.Errorf("failed to append entry: %w", verr)

	assert.True(t, errors.Is(wrapped, generic.ErrInvalidRecord))
	assert.True(t, generic.IsClientError(wrapped))
	assert.Equal(t, "invalid hours: must be between 0 and 24", verr.Error())

	assert.True(t, generic.IsClientError(fmt.Errorf("%w: 2024-13", generic.ErrInvalidPeriod)))
	assert.True(t, generic.IsConflict(generic.ErrDuplicateClient))
	assert.True(t, generic.IsConflict(fmt.Errorf("x: %w", generic.ErrDuplicateNonWorkDay)))
	assert.True(t, generic.IsNotFound(fmt.Errorf("x: %w", generic.ErrNotFound)))
	assert.False(t, generic.IsNotFound(generic.ErrDuplicateClient))
}
