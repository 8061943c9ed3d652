/*
calendar.go - Work-day oracle

PURPOSE:
  Answers "is this date a work day?" for the freelancer's calendar. Every
  income target in the engine is pro-rated over work days, so this is the
  leaf every other calculation depends on.

RULES:
  A date is a work day when both hold:
    1. its weekday is in the configured weekly pattern (WorkWeek)
    2. it is not explicitly marked as a non-work day (holiday/vacation)

EXAMPLE:
  week := NewWorkWeek(time.Monday, ..., time.Friday)
  CountWorkDaysInMonth(2024, time.March, week, nil) // 21

SEE ALSO:
  - stats.go: daily target = monthly target / work days
  - projection.go: target only steps on work days
*/
package income

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// WORK WEEK - Weekly pattern of working weekdays
// =============================================================================

// WorkWeek is the set of weekdays that are normally worked.
type WorkWeek map[time.Weekday]bool

func NewWorkWeek(days ...time.Weekday) WorkWeek {
	w := make(WorkWeek, len(days))
	for _, d := range days {
		w[d] = true
	}
	return w
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWorkWeek builds a WorkWeek from English weekday names. Unknown names
// are returned as an error; the known ones are still included so a lenient
// caller can ignore the error.
func ParseWorkWeek(names []string) (WorkWeek, error) {
	w := make(WorkWeek, len(names))
	var unknown []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		d, ok := weekdayNames[strings.ToLower(trimmed)]
		if !ok {
			unknown = append(unknown, trimmed)
			continue
		}
		w[d] = true
	}
	if len(unknown) > 0 {
		return w, fmt.Errorf("unknown weekday names: %s", strings.Join(unknown, ", "))
	}
	return w, nil
}

// ParseWorkWeekList accepts the comma separated form ("Monday,Tuesday").
func ParseWorkWeekList(s string) (WorkWeek, error) {
	return ParseWorkWeek(strings.Split(s, ","))
}

func (w WorkWeek) Contains(d time.Weekday) bool { return w[d] }

// Names returns the weekday names in Monday-first order.
func (w WorkWeek) Names() []string {
	var names []string
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if w[d] {
			names = append(names, d.String())
		}
	}
	return names
}

func (w WorkWeek) String() string { return strings.Join(w.Names(), ",") }

// =============================================================================
// NON-WORK DAYS - Explicit holiday / vacation overrides
// =============================================================================

// NonWorkDaySet indexes marked dates to their reason.
type NonWorkDaySet map[generic.DateKey]string

func NewNonWorkDaySet(days []NonWorkDay) NonWorkDaySet {
	set := make(NonWorkDaySet, len(days))
	for _, d := range days {
		set[d.Date.Key()] = d.Reason
	}
	return set
}

func (s NonWorkDaySet) Contains(date generic.TimePoint) bool {
	_, ok := s[date.Key()]
	return ok
}

func (s NonWorkDaySet) Reason(date generic.TimePoint) (string, bool) {
	r, ok := s[date.Key()]
	return r, ok
}

// =============================================================================
// ORACLE
// =============================================================================

// IsWorkDay reports whether date is a work day under the given pattern and
// overrides. A nil set means no overrides.
func IsWorkDay(date generic.TimePoint, week WorkWeek, nonWorkDays NonWorkDaySet) bool {
	if !week.Contains(date.Weekday()) {
		return false
	}
	if nonWorkDays.Contains(date) {
		return false
	}
	return true
}

// CountWorkDaysInMonth counts the work days of a calendar month.
func CountWorkDaysInMonth(year int, month time.Month, week WorkWeek, nonWorkDays NonWorkDaySet) int {
	return WorkDaysIn(generic.MonthPeriod(year, month), week, nonWorkDays)
}

// WorkDaysIn counts work days in an inclusive period.
func WorkDaysIn(p generic.Period, week WorkWeek, nonWorkDays NonWorkDaySet) int {
	count := 0
	for _, day := range p.Days() {
		if IsWorkDay(day, week, nonWorkDays) {
			count++
		}
	}
	return count
}

// =============================================================================
// MONTH CALENDAR - Day classification for calendar views
// =============================================================================

type DayKind string

const (
	DayWork    DayKind = "work"
	DayOff     DayKind = "off"     // weekday not in the weekly pattern
	DayHoliday DayKind = "holiday" // marked non-work day
)

type CalendarDay struct {
	Date   generic.TimePoint
	Kind   DayKind
	Reason string
}

// MonthCalendar classifies every day of the month. A marked date whose
// weekday is not worked anyway is reported as off, not holiday.
func MonthCalendar(year int, month time.Month, week WorkWeek, nonWorkDays NonWorkDaySet) []CalendarDay {
	days := generic.MonthPeriod(year, month).Days()
	out := make([]CalendarDay, 0, len(days))
	for _, day := range days {
		cd := CalendarDay{Date: day, Kind: DayWork}
		switch {
		case !week.Contains(day.Weekday()):
			cd.Kind = DayOff
		case nonWorkDays.Contains(day):
			cd.Kind = DayHoliday
			cd.Reason, _ = nonWorkDays.Reason(day)
		}
		out = append(out, cd)
	}
	return out
}

// NonWorkDaysInMonth lists the marked days of a month in date order.
func NonWorkDaysInMonth(year int, month time.Month, days []NonWorkDay) []NonWorkDay {
	period := generic.MonthPeriod(year, month)
	var out []NonWorkDay
	for _, d := range days {
		if period.Contains(d.Date) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
