/*
stats.go - Monthly stats engine

PURPOSE:
  Aggregates one calendar month: what was earned (hourly work plus
  retainer/flat-fee invoices), what should have been earned by today, and
  the daily pace needed to hit the monthly target.

ALGORITHM:
  1. Month bounds [first, last], inclusive
  2. Filter entries and invoices to the month
  3. Hourly income  = sum(hours x rate) over entries of Hourly clients
  4. Retainer income = sum(amount) over invoices, any client
  5. Total income = hourly + retainer
  6. Work days in month (calendar oracle)
  7. Days worked = work days from the 1st through min(today, month end)
  8. Daily target = monthly target / work days          (0 if no work days)
  9. Target so far = daily target x days worked
  10. Avg hourly rate = mean rate of all Hourly clients, active or not
  11. Daily hours target = daily target / avg hourly rate (0 if no rate)

  Every division is guarded; the function has no error path.

SEE ALSO:
  - projection.go: consumes DailyTarget
  - calendar.go: work-day counting
*/
package income

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// MonthlyStats is the result of ComputeMonthlyStats.
type MonthlyStats struct {
	Year  int
	Month time.Month

	TotalIncome    decimal.Decimal
	HourlyIncome   decimal.Decimal
	RetainerIncome decimal.Decimal

	MonthlyTarget    decimal.Decimal
	TargetSoFar      decimal.Decimal
	DailyTarget      decimal.Decimal
	DailyHoursTarget decimal.Decimal

	TotalWorkDays int
	DaysWorked    int

	TotalHours    decimal.Decimal
	AvgHourlyRate decimal.Decimal
}

// ComputeMonthlyStats aggregates income and targets for year/month.
func (e *Engine) ComputeMonthlyStats(year int, month time.Month, snap Snapshot) MonthlyStats {
	period := generic.MonthPeriod(year, month)
	week := snap.Settings.WorkDays
	nonWork := NewNonWorkDaySet(snap.NonWorkDays)

	hourlyIncome, totalHours := hourlyTotals(period, snap.Clients, snap.Entries)
	retainerIncome := invoiceTotal(period, snap.Invoices)

	totalWorkDays := WorkDaysIn(period, week, nonWork)
	daysWorked := daysWorkedThrough(period, e.Today(), week, nonWork)

	dailyTarget := generic.SafeDiv(snap.Settings.MonthlyTarget, decimal.NewFromInt(int64(totalWorkDays)))
	avgRate := averageHourlyRate(snap.Clients)

	return MonthlyStats{
		Year:             year,
		Month:            month,
		TotalIncome:      hourlyIncome.Add(retainerIncome),
		HourlyIncome:     hourlyIncome,
		RetainerIncome:   retainerIncome,
		MonthlyTarget:    snap.Settings.MonthlyTarget,
		TargetSoFar:      dailyTarget.Mul(decimal.NewFromInt(int64(daysWorked))),
		DailyTarget:      dailyTarget,
		DailyHoursTarget: generic.SafeDiv(dailyTarget, avgRate),
		TotalWorkDays:    totalWorkDays,
		DaysWorked:       daysWorked,
		TotalHours:       totalHours,
		AvgHourlyRate:    avgRate,
	}
}

// daysWorkedThrough counts work days of period that are on or before today.
// A future month yields zero; a past month counts every work day. The
// comparison is on dates, so today's day-of-month never caps a past month.
func daysWorkedThrough(period generic.Period, today generic.TimePoint, week WorkWeek, nonWork NonWorkDaySet) int {
	if today.Before(period.Start) {
		return 0
	}
	through := period
	if today.Before(period.End) {
		through.End = today
	}
	return WorkDaysIn(through, week, nonWork)
}

// =============================================================================
// INCOME AGGREGATION
// =============================================================================

// hourlyRates indexes the rates of Hourly clients by name. Entries whose
// client is missing or not Hourly find nothing here and earn nothing.
func hourlyRates(clients []Client) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(clients))
	for _, c := range clients {
		if c.IsHourly() {
			rates[c.Name] = c.HourlyRate
		}
	}
	return rates
}

// hourlyTotals joins the entries inside period with Hourly clients and
// returns (sum of hours x rate, sum of matched hours).
func hourlyTotals(period generic.Period, clients []Client, entries []TimeEntry) (decimal.Decimal, decimal.Decimal) {
	rates := hourlyRates(clients)
	income, hours := decimal.Zero, decimal.Zero
	for _, te := range entries {
		if !period.Contains(te.Date) {
			continue
		}
		rate, ok := rates[te.ClientName]
		if !ok {
			continue
		}
		income = income.Add(te.Hours.Mul(rate))
		hours = hours.Add(te.Hours)
	}
	return income, hours
}

func invoiceTotal(period generic.Period, invoices []Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if period.Contains(inv.Date) {
			total = total.Add(inv.Amount)
		}
	}
	return total
}

func averageHourlyRate(clients []Client) decimal.Decimal {
	sum, n := decimal.Zero, int64(0)
	for _, c := range clients {
		if c.IsHourly() {
			sum = sum.Add(c.HourlyRate)
			n++
		}
	}
	return generic.SafeDiv(sum, decimal.NewFromInt(n))
}
