package income_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/income"
)

func TestMonthlyBreakdown(t *testing.T) {
	// GIVEN: two hourly clients, a retainer client, and a client that is both
	both := hourly("Both Co", 50)
	snap := snapshot(
		[]income.Client{hourly("Acme", 100), hourly("Idle", 90), retainer("Initech"), both},
		[]income.TimeEntry{
			entry("2024-03-04", "Acme", 5),
			entry("2024-03-05", "Acme", 3),
			entry("2024-03-06", "Both Co", 2),
			entry("2024-03-06", "Initech", 4),
			entry("2024-04-01", "Acme", 8),
		},
		[]income.Invoice{
			invoice("2024-03-01", "Initech", 1500),
			invoice("2024-03-15", "Initech", 500),
			invoice("2024-03-20", "Both Co", 300),
		},
	)

	// WHEN
	rows := income.MonthlyBreakdown(2024, time.March, snap)

	// THEN: hourly rows first, then retainer rows, each sorted by name
	require.Len(t, rows, 4)

	assert.Equal(t, "Acme", rows[0].ClientName)
	assert.Equal(t, income.BillingHourly, rows[0].Billing)
	assertDecimal(t, 8, rows[0].Hours)
	assertDecimal(t, 100, rows[0].Rate)
	assertDecimal(t, 800, rows[0].Total)

	assert.Equal(t, "Both Co", rows[1].ClientName)
	assertDecimal(t, 100, rows[1].Total)

	assert.Equal(t, "Both Co", rows[2].ClientName)
	assert.Equal(t, income.BillingRetainer, rows[2].Billing)
	assertDecimal(t, 300, rows[2].Total)

	assert.Equal(t, "Initech", rows[3].ClientName)
	assertDecimal(t, 2000, rows[3].Total)
	assert.True(t, rows[3].Hours.IsZero())

	assertDecimal(t, 3200, income.BreakdownTotal(rows))
}

func TestMonthlyBreakdown_HourlyRowsBeforeRetainerRows(t *testing.T) {
	// GIVEN: a retainer client whose name sorts before every hourly client
	snap := snapshot(
		[]income.Client{hourly("Zenith", 100), retainer("Aardvark")},
		[]income.TimeEntry{entry("2024-03-04", "Zenith", 2)},
		[]income.Invoice{invoice("2024-03-01", "Aardvark", 500)},
	)

	// WHEN
	rows := income.MonthlyBreakdown(2024, time.March, snap)

	// THEN: grouping by billing type wins over the name order
	require.Len(t, rows, 2)
	assert.Equal(t, "Zenith", rows[0].ClientName)
	assert.Equal(t, income.BillingHourly, rows[0].Billing)
	assert.Equal(t, "Aardvark", rows[1].ClientName)
	assert.Equal(t, income.BillingRetainer, rows[1].Billing)
}

func TestMonthlyBreakdown_TotalMatchesStats(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := marchSnapshot()

	stats := e.ComputeMonthlyStats(2024, time.March, snap)
	rows := income.MonthlyBreakdown(2024, time.March, snap)

	assert.True(t, income.BreakdownTotal(rows).Equal(stats.TotalIncome))
}

func TestMonthlyBreakdown_EmptyMonth(t *testing.T) {
	rows := income.MonthlyBreakdown(2024, time.March, snapshot([]income.Client{hourly("Acme", 100)}, nil, nil))
	assert.Empty(t, rows)
	assert.True(t, income.BreakdownTotal(rows).IsZero())
}

func TestBuildWeeklyBreakdown(t *testing.T) {
	// GIVEN: entries at both month edges and one inactive client
	inactive := hourly("Dormant", 60)
	inactive.Active = false
	snap := snapshot(
		[]income.Client{hourly("Globex", 80), hourly("Acme", 100), retainer("Initech"), inactive},
		[]income.TimeEntry{
			entry("2024-02-29", "Acme", 9), // same week as Mar 1, other month
			entry("2024-03-01", "Acme", 2),
			entry("2024-03-03", "Acme", 1),
			entry("2024-03-04", "Acme", 4),
			entry("2024-03-31", "Globex", 6),
			entry("2024-03-12", "Initech", 3),
			entry("2024-03-12", "Dormant", 7),
			entry("2024-03-12", "Unknown", 7),
		},
		nil,
	)

	// WHEN
	wb := income.BuildWeeklyBreakdown(2024, time.March, snap)

	// THEN: five columns, first and last clipped to the month
	require.Len(t, wb.Columns, 5)
	assert.Equal(t, "2024-02-26", wb.Columns[0].Week.Start.String())
	assert.Equal(t, "2024-03-01", wb.Columns[0].Visible.Start.String())
	assert.Equal(t, "Mar 01-03", wb.Columns[0].Label)
	assert.Equal(t, "Mar 25-31", wb.Columns[4].Label)

	// Rows: active clients only, sorted, retainer clients included
	require.Len(t, wb.Rows, 3)
	assert.Equal(t, "Acme", wb.Rows[0].ClientName)
	assert.Equal(t, "Globex", wb.Rows[1].ClientName)
	assert.Equal(t, "Initech", wb.Rows[2].ClientName)

	acme := wb.Rows[0]
	require.Len(t, acme.Hours, 5)
	assertDecimal(t, 3, acme.Hours[0], "Feb 29 is outside the month")
	assertDecimal(t, 4, acme.Hours[1])
	assert.True(t, acme.Hours[2].IsZero())
	assertDecimal(t, 7, acme.Total)

	assertDecimal(t, 6, wb.Rows[1].Hours[4])
	assertDecimal(t, 3, wb.Rows[2].Hours[2])
}
