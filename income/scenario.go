package income

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioResult is the what-if view of a month: every figure is computed
// as if the hypothetical entries had been logged.
type ScenarioResult struct {
	Stats      MonthlyStats
	Limits     []LimitStatus
	Projection []ProjectionPoint

	// VsTarget is projected total income minus the monthly target.
	VsTarget decimal.Decimal
}

// PlanScenario overlays hypothetical entries on the snapshot. The snapshot's
// own entry slice is left untouched.
func (e *Engine) PlanScenario(year int, month time.Month, snap Snapshot, hypothetical []TimeEntry) ScenarioResult {
	combined := snap.WithEntries(hypothetical)
	stats := e.ComputeMonthlyStats(year, month, combined)

	return ScenarioResult{
		Stats:  stats,
		Limits: e.LimitReport(year, month, snap.Clients, combined.Entries),
		Projection: BuildProjection(ProjectionInput{
			Year:        year,
			Month:       month,
			Clients:     snap.Clients,
			Entries:     snap.Entries,
			Scenario:    hypothetical,
			Invoices:    snap.Invoices,
			DailyTarget: stats.DailyTarget,
			WorkDays:    snap.Settings.WorkDays,
			NonWorkDays: NewNonWorkDaySet(snap.NonWorkDays),
		}),
		VsTarget: stats.TotalIncome.Sub(stats.MonthlyTarget),
	}
}
