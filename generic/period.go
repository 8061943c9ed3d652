package generic

import "time"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive range of days [Start, End].
//
// Examples:
//   - Calendar month March 2024: Mar 1 - Mar 31
//   - Contract window: contract start - open ended (see Since)
//   - Week: Monday - Sunday
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthPeriod returns the period covering a whole calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// WeekPeriod returns the Monday-Sunday week containing tp.
func WeekPeriod(tp TimePoint) Period {
	start := StartOfWeek(tp)
	return Period{Start: start, End: start.AddDays(6)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Clip returns the part of p that lies inside bounds. The result is only
// meaningful when the periods overlap.
func (p Period) Clip(bounds Period) Period {
	out := p
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len is the number of days in the period; zero when End precedes Start.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Weeks returns the Monday-start weeks that overlap p, in order. The weeks
// are not clipped; callers decide how to present partial weeks.
func (p Period) Weeks() []Period {
	var weeks []Period
	for week := WeekPeriod(p.Start); week.Start.BeforeOrEqual(p.End); week = WeekPeriod(week.End.AddDays(1)) {
		weeks = append(weeks, week)
	}
	return weeks
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
