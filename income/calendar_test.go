package income_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/income"
)

func TestIsWorkDay(t *testing.T) {
	holidays := income.NewNonWorkDaySet([]income.NonWorkDay{
		{Date: date("2024-03-05"), Reason: "Dentist"},
	})

	tests := []struct {
		name string
		day  string
		want bool
	}{
		{"weekday", "2024-03-04", true},
		{"saturday", "2024-03-02", false},
		{"sunday", "2024-03-03", false},
		{"marked weekday", "2024-03-05", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, income.IsWorkDay(date(tt.day), weekdays(), holidays))
		})
	}
}

func TestIsWorkDay_NilOverrides(t *testing.T) {
	assert.True(t, income.IsWorkDay(date("2024-03-04"), weekdays(), nil))
}

func TestCountWorkDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		week  income.WorkWeek
		want  int
	}{
		{"march 2024 weekdays", 2024, time.March, weekdays(), 21},
		{"leap february", 2024, time.February, weekdays(), 21},
		{"plain february", 2023, time.February, weekdays(), 20},
		{"four day week", 2024, time.March, income.NewWorkWeek(time.Monday, time.Tuesday, time.Wednesday, time.Thursday), 16},
		{"weekends only", 2024, time.March, income.NewWorkWeek(time.Saturday, time.Sunday), 10},
		{"empty week", 2024, time.March, income.NewWorkWeek(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, income.CountWorkDaysInMonth(tt.year, tt.month, tt.week, nil))
		})
	}
}

func TestCountWorkDaysInMonth_MarkedWeekendDoesNotCountTwice(t *testing.T) {
	// GIVEN: one weekday and one Saturday marked as vacation
	marked := income.NewNonWorkDaySet([]income.NonWorkDay{
		{Date: date("2024-03-08"), Reason: "Vacation"},
		{Date: date("2024-03-09"), Reason: "Vacation"},
	})

	// THEN: only the weekday is removed
	assert.Equal(t, 20, income.CountWorkDaysInMonth(2024, time.March, weekdays(), marked))
}

func TestMonthCalendar_ClassifiesEveryDay(t *testing.T) {
	marked := income.NewNonWorkDaySet([]income.NonWorkDay{
		{Date: date("2024-03-05"), Reason: "Holiday"},
		{Date: date("2024-03-02"), Reason: "Trip"}, // Saturday
	})

	days := income.MonthCalendar(2024, time.March, weekdays(), marked)
	require.Len(t, days, 31)

	assert.Equal(t, income.DayWork, days[0].Kind) // Fri 1st
	assert.Equal(t, income.DayOff, days[1].Kind)  // Sat 2nd, marked but off anyway
	assert.Empty(t, days[1].Reason)
	assert.Equal(t, income.DayHoliday, days[4].Kind) // Tue 5th
	assert.Equal(t, "Holiday", days[4].Reason)

	work := 0
	for _, d := range days {
		if d.Kind == income.DayWork {
			work++
		}
	}
	assert.Equal(t, 20, work)
}

func TestNonWorkDaysInMonth_FiltersAndSorts(t *testing.T) {
	days := []income.NonWorkDay{
		{Date: date("2024-03-20"), Reason: "b"},
		{Date: date("2024-04-01"), Reason: "next month"},
		{Date: date("2024-03-05"), Reason: "a"},
	}

	got := income.NonWorkDaysInMonth(2024, time.March, days)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Reason)
	assert.Equal(t, "b", got[1].Reason)
}

// =============================================================================
// WORK WEEK
// =============================================================================

func TestParseWorkWeek(t *testing.T) {
	week, err := income.ParseWorkWeek([]string{"monday", " Tuesday ", "FRIDAY", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday", "Friday"}, week.Names())
	assert.Equal(t, "Monday,Tuesday,Friday", week.String())
}

func TestParseWorkWeek_UnknownNames(t *testing.T) {
	week, err := income.ParseWorkWeek([]string{"Monday", "Funday"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Funday")
	assert.True(t, week.Contains(time.Monday), "known names are kept")
}

func TestParseWorkWeekList(t *testing.T) {
	week, err := income.ParseWorkWeekList("Sunday,Saturday")
	require.NoError(t, err)
	assert.Equal(t, []string{"Saturday", "Sunday"}, week.Names(), "Monday-first order")
}
