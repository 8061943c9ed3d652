package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Naive calendar date (no timezone semantics)
// =============================================================================

// TimePoint is a calendar date. Every value is normalized to midnight UTC so
// that two TimePoints for the same day always compare equal, whatever clock
// or parser produced them.
type TimePoint struct {
	Time time.Time
}

// DateLayout is the canonical on-disk and wire format for dates.
const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock component of t, keeping its local calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// dateLayouts are tried in order by ParseDate. They cover what the old CSV
// files and the browser date inputs produced.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDate parses a date in any accepted layout and drops the time of day.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, fmt.Errorf("parse date: empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return TimePoint{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", s)
}

// MustParseDate is ParseDate for literals in tests and seed data.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return FromTime(tp.Time.AddDate(0, 0, n)) }
func (tp TimePoint) AddMonths(n int) TimePoint { return FromTime(tp.Time.AddDate(0, n, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// Key returns a comparable map key for the date.
func (tp TimePoint) Key() DateKey {
	return DateKey{Year: tp.Year(), Month: tp.Month(), Day: tp.Day()}
}

// DateKey identifies a calendar day without carrying a time.Time.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// =============================================================================
// MONTH UTILITIES
// =============================================================================

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

func EndOfMonth(year int, month time.Month) TimePoint {
	return NewTimePoint(year, month, DaysInMonth(year, month))
}

// DaysInMonth returns the length of the month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfWeek returns the Monday on or before tp.
func StartOfWeek(tp TimePoint) TimePoint {
	offset := (int(tp.Weekday()) + 6) % 7
	return tp.AddDays(-offset)
}

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }

// ValidMonth reports whether year/month names a real calendar month in the
// range the dashboard accepts.
func ValidMonth(year int, month time.Month) bool {
	return year >= 1900 && year <= 9999 && month >= time.January && month <= time.December
}
