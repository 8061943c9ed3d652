package income_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/income"
)

func marchSnapshot() income.Snapshot {
	return snapshot(
		[]income.Client{hourly("Acme", 100), hourly("Globex", 80), retainer("Initech")},
		[]income.TimeEntry{
			entry("2024-03-04", "Acme", 8),
			entry("2024-03-05", "Globex", 5),
			entry("2024-03-05", "Acme", 2),
			entry("2024-03-12", "Initech", 4), // retainer: no hourly income
			entry("2024-02-28", "Acme", 8),    // other month
		},
		[]income.Invoice{invoice("2024-03-10", "Initech", 2000)},
		income.NonWorkDay{Date: date("2024-03-29"), Reason: "Good Friday"},
	)
}

// =============================================================================
// PROJECTION SHAPE
// =============================================================================

func TestProjection_OnePointPerDay(t *testing.T) {
	e := engineAt("2024-03-15")

	points := e.Projection(2024, time.March, marchSnapshot(), nil)
	require.Len(t, points, 31)
	for i, p := range points {
		assert.Equal(t, i+1, p.Date.Day())
	}

	feb := e.Projection(2024, time.February, marchSnapshot(), nil)
	assert.Len(t, feb, 29)
}

func TestProjection_SeriesAreNonDecreasing(t *testing.T) {
	e := engineAt("2024-03-15")
	points := e.Projection(2024, time.March, marchSnapshot(), nil)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].CumulativeTarget.GreaterThanOrEqual(points[i-1].CumulativeTarget), "target at day %d", i+1)
		assert.True(t, points[i].CumulativeActual.GreaterThanOrEqual(points[i-1].CumulativeActual), "actual at day %d", i+1)
	}
}

func TestProjection_TargetStepsOnlyOnWorkDays(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := marchSnapshot()
	stats := e.ComputeMonthlyStats(2024, time.March, snap)
	points := e.Projection(2024, time.March, snap, nil)

	// Fri 1st steps, weekend stays flat
	assert.True(t, points[0].IsWorkDay)
	assert.True(t, points[0].CumulativeTarget.Equal(stats.DailyTarget))
	assert.False(t, points[1].IsWorkDay)
	assert.True(t, points[2].CumulativeTarget.Equal(points[0].CumulativeTarget))

	// Good Friday is marked: flat
	assert.False(t, points[28].IsWorkDay)
	assert.True(t, points[28].CumulativeTarget.Equal(points[27].CumulativeTarget))
}

func TestProjection_EndpointsMatchStats(t *testing.T) {
	// GIVEN
	e := engineAt("2024-03-15")
	snap := marchSnapshot()
	stats := e.ComputeMonthlyStats(2024, time.March, snap)

	// WHEN
	points := e.Projection(2024, time.March, snap, nil)
	last := points[len(points)-1]

	// THEN: target ends at work days x daily target, actual at total income
	require.Equal(t, 20, stats.TotalWorkDays)
	assert.True(t, last.CumulativeTarget.Equal(stats.DailyTarget.Mul(decimal.NewFromInt(20))))
	assertDecimal(t, 8000, last.CumulativeTarget)
	assert.True(t, last.CumulativeActual.Equal(stats.TotalIncome))
	assertDecimal(t, 800+200+400+2000, last.CumulativeActual)
}

func TestProjection_ActualBucketsByDay(t *testing.T) {
	e := engineAt("2024-03-15")
	points := e.Projection(2024, time.March, marchSnapshot(), nil)

	assert.True(t, points[2].CumulativeActual.IsZero(), "nothing before the 4th")
	assertDecimal(t, 800, points[3].CumulativeActual)  // 4th
	assertDecimal(t, 1400, points[4].CumulativeActual) // 5th: +400 Globex +200 Acme
	assertDecimal(t, 1400, points[8].CumulativeActual) // 9th
	assertDecimal(t, 3400, points[9].CumulativeActual) // 10th: retainer invoice on a Sunday
	assertDecimal(t, 3400, points[11].CumulativeActual)
}

func TestBuildProjection_ZeroDailyTarget(t *testing.T) {
	points := income.BuildProjection(income.ProjectionInput{
		Year:     2024,
		Month:    time.March,
		WorkDays: income.NewWorkWeek(),
	})
	require.Len(t, points, 31)
	for _, p := range points {
		assert.True(t, p.CumulativeTarget.IsZero())
		assert.True(t, p.CumulativeActual.IsZero())
		assert.False(t, p.IsWorkDay)
	}
}

// =============================================================================
// TODAY MARKER
// =============================================================================

func TestTodayMarker(t *testing.T) {
	e := engineAt("2024-03-15")

	today, ok := e.TodayMarker(2024, time.March)
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", today.String())

	_, ok = e.TodayMarker(2024, time.February)
	assert.False(t, ok)
	_, ok = e.TodayMarker(2023, time.March)
	assert.False(t, ok)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestPlanScenario_EmptyMatchesReality(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := marchSnapshot()

	result := e.PlanScenario(2024, time.March, snap, nil)

	assert.Equal(t, e.ComputeMonthlyStats(2024, time.March, snap), result.Stats)
	assert.Equal(t, e.Projection(2024, time.March, snap, nil), result.Projection)
	assert.True(t, result.VsTarget.Equal(result.Stats.TotalIncome.Sub(dec(8000))))
}

func TestPlanScenario_AddsHypotheticalIncome(t *testing.T) {
	// GIVEN: the real month plus 20 planned Acme hours later in the month
	e := engineAt("2024-03-15")
	snap := marchSnapshot()
	before := len(snap.Entries)
	planned := []income.TimeEntry{
		entry("2024-03-18", "Acme", 10),
		entry("2024-03-19", "Acme", 10),
	}

	// WHEN
	result := e.PlanScenario(2024, time.March, snap, planned)

	// THEN: stats and projection both include the planned hours
	assertDecimal(t, 3400+2000, result.Stats.TotalIncome)
	assertDecimal(t, 35, result.Stats.TotalHours)
	last := result.Projection[len(result.Projection)-1]
	assert.True(t, last.CumulativeActual.Equal(result.Stats.TotalIncome))
	assertDecimal(t, 3400, result.Projection[16].CumulativeActual) // 17th
	assertDecimal(t, 4400, result.Projection[17].CumulativeActual) // 18th
	assertDecimal(t, 5400-8000, result.VsTarget)

	// AND: the snapshot is untouched
	assert.Len(t, snap.Entries, before)
	actual := e.ComputeMonthlyStats(2024, time.March, snap)
	assertDecimal(t, 3400, actual.TotalIncome)
}

func TestPlanScenario_LimitsSeePlannedHours(t *testing.T) {
	e := engineAt("2024-03-15")
	c := hourly("Acme", 100)
	c.HasHourLimit = true
	c.LimitType = income.LimitMonthly
	c.HourLimit = dec(20)
	snap := snapshot([]income.Client{c}, []income.TimeEntry{entry("2024-03-04", "Acme", 10)}, nil)

	result := e.PlanScenario(2024, time.March, snap, []income.TimeEntry{entry("2024-03-20", "Acme", 8)})

	require.Len(t, result.Limits, 1)
	assertDecimal(t, 18, result.Limits[0].Used)
	assert.Equal(t, income.LimitCritical, result.Limits[0].Level)
}

func TestPlanScenario_DoesNotChangeDailyTarget(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := marchSnapshot()

	result := e.PlanScenario(2024, time.March, snap, []income.TimeEntry{entry("2024-03-18", "Acme", 10)})
	actual := e.ComputeMonthlyStats(2024, time.March, snap)

	assert.True(t, result.Stats.DailyTarget.Equal(actual.DailyTarget))
	assert.True(t, result.Projection[30].CumulativeTarget.Equal(e.Projection(2024, time.March, snap, nil)[30].CumulativeTarget))
}
