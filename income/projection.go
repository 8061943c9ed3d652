/*
projection.go - Cumulative target vs. actual projection

PURPOSE:
  Produces the day-by-day series behind the "Target vs Actuals" chart: for
  each day of the month, the income that should have been earned so far and
  the income actually recognized so far.

SERIES:
  CumulativeTarget:
    Steps up by DailyTarget on work days, flat otherwise. Non-decreasing;
    ends at TotalWorkDays x DailyTarget.

  CumulativeActual:
    Adds each day's hourly income (entries joined with Hourly clients) plus
    that day's invoice amounts. Non-decreasing since hours and amounts are
    non-negative; ends at the month's TotalIncome.

SCENARIOS:
  Hypothetical entries are passed separately in ProjectionInput.Scenario and
  joined exactly like real ones. Invoices are always real: a scenario never
  invents non-hourly income.

TODAY MARKER:
  Not computed here. Renderers place it when today falls in the month.

EXAMPLE:
  stats := engine.ComputeMonthlyStats(2024, time.March, snap)
  points := income.BuildProjection(income.ProjectionInput{
      Year: 2024, Month: time.March,
      Clients: snap.Clients, Entries: snap.Entries, Invoices: snap.Invoices,
      DailyTarget: stats.DailyTarget,
      WorkDays: snap.Settings.WorkDays,
      NonWorkDays: income.NewNonWorkDaySet(snap.NonWorkDays),
  })
*/
package income

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// ProjectionPoint is one day of the projection.
type ProjectionPoint struct {
	Date             generic.TimePoint
	IsWorkDay        bool
	CumulativeTarget decimal.Decimal
	CumulativeActual decimal.Decimal
}

// ProjectionInput contains all inputs for BuildProjection.
type ProjectionInput struct {
	Year  int
	Month time.Month

	Clients  []Client
	Entries  []TimeEntry
	Invoices []Invoice

	// Scenario entries are joined together with Entries. Optional.
	Scenario []TimeEntry

	DailyTarget decimal.Decimal
	WorkDays    WorkWeek
	NonWorkDays NonWorkDaySet
}

// BuildProjection returns one point per calendar day, in ascending order.
func BuildProjection(in ProjectionInput) []ProjectionPoint {
	period := generic.MonthPeriod(in.Year, in.Month)
	daily := dailyIncome(period, in)

	days := period.Days()
	points := make([]ProjectionPoint, 0, len(days))
	target, actual := decimal.Zero, decimal.Zero
	for _, day := range days {
		work := IsWorkDay(day, in.WorkDays, in.NonWorkDays)
		if work {
			target = target.Add(in.DailyTarget)
		}
		actual = actual.Add(daily[day.Key()])
		points = append(points, ProjectionPoint{
			Date:             day,
			IsWorkDay:        work,
			CumulativeTarget: target,
			CumulativeActual: actual,
		})
	}
	return points
}

// dailyIncome buckets the period's hourly and invoice income by day.
func dailyIncome(period generic.Period, in ProjectionInput) map[generic.DateKey]decimal.Decimal {
	rates := hourlyRates(in.Clients)
	byDay := make(map[generic.DateKey]decimal.Decimal)

	addEntries := func(entries []TimeEntry) {
		for _, te := range entries {
			if !period.Contains(te.Date) {
				continue
			}
			rate, ok := rates[te.ClientName]
			if !ok {
				continue
			}
			k := te.Date.Key()
			byDay[k] = byDay[k].Add(te.Hours.Mul(rate))
		}
	}
	addEntries(in.Entries)
	addEntries(in.Scenario)

	for _, inv := range in.Invoices {
		if period.Contains(inv.Date) {
			k := inv.Date.Key()
			byDay[k] = byDay[k].Add(inv.Amount)
		}
	}
	return byDay
}

// Projection computes the month's stats and builds the projection from
// the snapshot, optionally overlaid with scenario entries.
func (e *Engine) Projection(year int, month time.Month, snap Snapshot, scenario []TimeEntry) []ProjectionPoint {
	stats := e.ComputeMonthlyStats(year, month, snap)
	return BuildProjection(ProjectionInput{
		Year:        year,
		Month:       month,
		Clients:     snap.Clients,
		Entries:     snap.Entries,
		Invoices:    snap.Invoices,
		Scenario:    scenario,
		DailyTarget: stats.DailyTarget,
		WorkDays:    snap.Settings.WorkDays,
		NonWorkDays: NewNonWorkDaySet(snap.NonWorkDays),
	})
}

// TodayMarker returns today's date when it falls inside year/month.
func (e *Engine) TodayMarker(year int, month time.Month) (generic.TimePoint, bool) {
	today := e.Today()
	if generic.MonthPeriod(year, month).Contains(today) {
		return today, true
	}
	return generic.TimePoint{}, false
}
