package income_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by every _test.go file in this package.

func date(s string) generic.TimePoint {
	return generic.MustParseDate(s)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// engineAt pins "today" for deterministic days-worked and today markers.
func engineAt(s string) *income.Engine {
	return income.FixedClock(date(s))
}

func weekdays() income.WorkWeek {
	return income.NewWorkWeek(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

func hourly(name string, rate float64) income.Client {
	return income.Client{
		Name:       name,
		HourlyRate: dec(rate),
		Billing:    income.BillingHourly,
		Active:     true,
		LimitType:  income.LimitNone,
	}
}

func retainer(name string) income.Client {
	return income.Client{Name: name, Billing: income.BillingRetainer, Active: true, LimitType: income.LimitNone}
}

func entry(day, client string, hours float64) income.TimeEntry {
	return income.TimeEntry{ID: income.NewID(), Date: date(day), ClientName: client, Hours: dec(hours)}
}

func invoice(day, client string, amount float64) income.Invoice {
	return income.Invoice{ID: income.NewID(), Date: date(day), ClientName: client, Amount: dec(amount), Type: income.InvoiceRetainer}
}

func snapshot(clients []income.Client, entries []income.TimeEntry, invoices []income.Invoice, nonWork ...income.NonWorkDay) income.Snapshot {
	return income.Snapshot{
		Clients:     clients,
		Entries:     entries,
		Invoices:    invoices,
		Settings:    income.Settings{MonthlyTarget: dec(8000), WorkDays: weekdays()},
		NonWorkDays: nonWork,
	}
}

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), 0.0001, msgAndArgs...)
}

// =============================================================================
// MONTHLY STATS
// =============================================================================

func TestComputeMonthlyStats_SingleHourlyClient(t *testing.T) {
	// GIVEN: Acme at $100/h with 8 hours on Tuesday March 5th, today March 15th
	e := engineAt("2024-03-15")
	snap := snapshot(
		[]income.Client{hourly("Acme", 100)},
		[]income.TimeEntry{entry("2024-03-05", "Acme", 8)},
		nil,
	)

	// WHEN
	s := e.ComputeMonthlyStats(2024, time.March, snap)

	// THEN
	assertDecimal(t, 800, s.TotalIncome)
	assertDecimal(t, 800, s.HourlyIncome)
	assert.True(t, s.RetainerIncome.IsZero())
	assertDecimal(t, 8, s.TotalHours)
	assertDecimal(t, 100, s.AvgHourlyRate)

	assert.Equal(t, 21, s.TotalWorkDays)
	assert.Equal(t, 11, s.DaysWorked, "Mar 1, 4-8, 11-15")

	daily := dec(8000).Div(decimal.NewFromInt(21))
	assert.True(t, s.DailyTarget.Equal(daily))
	assert.True(t, s.TargetSoFar.Equal(daily.Mul(decimal.NewFromInt(11))))
	assertDecimal(t, 8000.0/21/100, s.DailyHoursTarget)
	assertDecimal(t, 8000, s.MonthlyTarget)
}

func TestComputeMonthlyStats_RetainerInvoicesAddToTotal(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot(
		[]income.Client{hourly("Acme", 100), retainer("Initech")},
		[]income.TimeEntry{
			entry("2024-03-05", "Acme", 8),
			entry("2024-03-06", "Initech", 5), // retainer hours earn nothing hourly
		},
		[]income.Invoice{
			invoice("2024-03-01", "Initech", 2000),
			invoice("2024-02-28", "Initech", 2000), // previous month
		},
	)

	s := e.ComputeMonthlyStats(2024, time.March, snap)

	assertDecimal(t, 800, s.HourlyIncome)
	assertDecimal(t, 2000, s.RetainerIncome)
	assertDecimal(t, 2800, s.TotalIncome)
	assertDecimal(t, 8, s.TotalHours, "only hours joined with an hourly client")
}

func TestComputeMonthlyStats_EntriesOutsideMonthIgnored(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot(
		[]income.Client{hourly("Acme", 100)},
		[]income.TimeEntry{
			entry("2024-02-29", "Acme", 8),
			entry("2024-03-01", "Acme", 1),
			entry("2024-03-31", "Acme", 2),
			entry("2024-04-01", "Acme", 8),
		},
		nil,
	)

	s := e.ComputeMonthlyStats(2024, time.March, snap)
	assertDecimal(t, 300, s.TotalIncome)
	assertDecimal(t, 3, s.TotalHours)
}

func TestComputeMonthlyStats_UnknownClientEarnsNothing(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot(
		[]income.Client{hourly("Acme", 100)},
		[]income.TimeEntry{entry("2024-03-05", "Deleted Co", 8)},
		nil,
	)

	s := e.ComputeMonthlyStats(2024, time.March, snap)
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalHours.IsZero())
}

func TestComputeMonthlyStats_DaysWorkedByMonthPosition(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot(nil, nil, nil)

	// Past month: every work day counts
	feb := e.ComputeMonthlyStats(2024, time.February, snap)
	assert.Equal(t, 21, feb.TotalWorkDays)
	assert.Equal(t, 21, feb.DaysWorked)
	assert.True(t, feb.TargetSoFar.Equal(feb.DailyTarget.Mul(decimal.NewFromInt(21))))

	// Future month: nothing yet
	apr := e.ComputeMonthlyStats(2024, time.April, snap)
	assert.Equal(t, 22, apr.TotalWorkDays)
	assert.Equal(t, 0, apr.DaysWorked)
	assert.True(t, apr.TargetSoFar.IsZero())
}

func TestComputeMonthlyStats_TodayOnWeekend(t *testing.T) {
	// Saturday March 16th: same count as Friday the 15th
	e := engineAt("2024-03-16")
	s := e.ComputeMonthlyStats(2024, time.March, snapshot(nil, nil, nil))
	assert.Equal(t, 11, s.DaysWorked)
}

func TestComputeMonthlyStats_NoWorkDaysGuardsDivision(t *testing.T) {
	// GIVEN: a work week that has no days at all
	e := engineAt("2024-03-15")
	snap := snapshot([]income.Client{hourly("Acme", 100)}, nil, nil)
	snap.Settings.WorkDays = income.NewWorkWeek()

	// WHEN
	s := e.ComputeMonthlyStats(2024, time.March, snap)

	// THEN: no panic, all rates zero
	assert.Equal(t, 0, s.TotalWorkDays)
	assert.True(t, s.DailyTarget.IsZero())
	assert.True(t, s.TargetSoFar.IsZero())
	assert.True(t, s.DailyHoursTarget.IsZero())
}

func TestComputeMonthlyStats_NoHourlyClients(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot([]income.Client{retainer("Initech")}, nil, nil)

	s := e.ComputeMonthlyStats(2024, time.March, snap)
	assert.True(t, s.AvgHourlyRate.IsZero())
	assert.True(t, s.DailyHoursTarget.IsZero())
	assert.False(t, s.DailyTarget.IsZero())
}

func TestComputeMonthlyStats_AverageIncludesInactiveHourlyClients(t *testing.T) {
	e := engineAt("2024-03-15")
	inactive := hourly("Old Co", 50)
	inactive.Active = false
	snap := snapshot([]income.Client{hourly("Acme", 100), inactive, retainer("Initech")}, nil, nil)

	s := e.ComputeMonthlyStats(2024, time.March, snap)
	assertDecimal(t, 75, s.AvgHourlyRate)
}

func TestComputeMonthlyStats_HolidaysReduceWorkDays(t *testing.T) {
	e := engineAt("2024-03-15")
	snap := snapshot(nil, nil, nil,
		income.NonWorkDay{Date: date("2024-03-04"), Reason: "Vacation"},
		income.NonWorkDay{Date: date("2024-03-29"), Reason: "Good Friday"},
	)

	s := e.ComputeMonthlyStats(2024, time.March, snap)
	assert.Equal(t, 19, s.TotalWorkDays)
	assert.Equal(t, 10, s.DaysWorked)
	assert.True(t, s.DailyTarget.Equal(dec(8000).Div(decimal.NewFromInt(19))))
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func TestSnapshot_WithEntriesDoesNotAlias(t *testing.T) {
	// GIVEN: an entry slice with spare capacity
	entries := make([]income.TimeEntry, 1, 10)
	entries[0] = entry("2024-03-05", "Acme", 8)
	snap := snapshot(nil, entries, nil)

	// WHEN
	merged := snap.WithEntries([]income.TimeEntry{entry("2024-03-06", "Acme", 4)})

	// THEN: the original backing array is untouched
	require.Len(t, merged.Entries, 2)
	assert.Len(t, snap.Entries, 1)
	assert.True(t, entries[:2][1].Hours.IsZero())
}

func TestSnapshot_FindClient(t *testing.T) {
	snap := snapshot([]income.Client{hourly("Acme", 100)}, nil, nil)

	c, ok := snap.FindClient("Acme")
	require.True(t, ok)
	assertDecimal(t, 100, c.HourlyRate)

	_, ok = snap.FindClient("acme")
	assert.False(t, ok, "names are case sensitive")
}

func TestEngine_FixedClock(t *testing.T) {
	e := engineAt("2024-03-15")
	assert.Equal(t, "2024-03-15", e.Today().String())

	var nilEngine *income.Engine
	assert.False(t, nilEngine.Today().IsZero())
}

// =============================================================================
// LABEL PARSING
// =============================================================================

func TestParseBillingType(t *testing.T) {
	tests := []struct {
		in   string
		want income.BillingType
		ok   bool
	}{
		{"Hourly", income.BillingHourly, true},
		{"hourly", income.BillingHourly, true},
		{"Retainer", income.BillingRetainer, true},
		{"Retainer/Flat Fee", income.BillingRetainer, true},
		{"Weekly", income.BillingType("Weekly"), false},
	}
	for _, tt := range tests {
		got, ok := income.ParseBillingType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseInvoiceType(t *testing.T) {
	got, ok := income.ParseInvoiceType("Flat Fee")
	assert.True(t, ok)
	assert.Equal(t, income.InvoiceFlatFee, got)

	got, ok = income.ParseInvoiceType("bonus")
	assert.True(t, ok)
	assert.Equal(t, income.InvoiceBonus, got)

	_, ok = income.ParseInvoiceType("Refund")
	assert.False(t, ok)
}
