// Package storetest holds the behavior every income.Store implementation
// must share. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// Resettable is a store that can drop every record.
type Resettable interface {
	income.Store
	Reset(ctx context.Context) error
}

// Run exercises newStore against the income.Store contract. newStore must
// return an empty store; cleanup is the caller's business.
func Run(t *testing.T, newStore func(t *testing.T) Resettable) {
	t.Run("Clients", func(t *testing.T) { testClients(t, newStore(t)) })
	t.Run("ClientDecimalsRoundTrip", func(t *testing.T) { testClientDecimals(t, newStore(t)) })
	t.Run("TimeEntries", func(t *testing.T) { testTimeEntries(t, newStore(t)) })
	t.Run("Invoices", func(t *testing.T) { testInvoices(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("NonWorkDays", func(t *testing.T) { testNonWorkDays(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
	t.Run("Snapshot", func(t *testing.T) { testSnapshot(t, newStore(t)) })
}

func date(s string) generic.TimePoint { return generic.MustParseDate(s) }

func client(name string, rate int64) income.Client {
	return income.Client{
		Name:       name,
		HourlyRate: decimal.NewFromInt(rate),
		Billing:    income.BillingHourly,
		Active:     true,
		LimitType:  income.LimitNone,
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func testClients(t *testing.T, st Resettable) {
	ctx := context.Background()

	// GIVEN: two clients created out of order
	require.NoError(t, st.CreateClient(ctx, client("Globex", 80)))
	require.NoError(t, st.CreateClient(ctx, client("Acme", 100)))

	// THEN: listing is ordered by name
	clients, err := st.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0].Name)
	assert.Equal(t, "Globex", clients[1].Name)

	// Duplicate names are rejected
	err = st.CreateClient(ctx, client("Acme", 50))
	assert.ErrorIs(t, err, generic.ErrDuplicateClient)

	// Update replaces the record in place
	updated := client("Acme", 120)
	updated.HasHourLimit = true
	updated.LimitType = income.LimitContractTotal
	updated.HourLimit = decimal.NewFromInt(100)
	updated.ContractStartDate = "2024-01-15"
	updated.Active = false
	require.NoError(t, st.UpdateClient(ctx, updated))

	got, err := st.GetClient(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, got.HourlyRate.Equal(decimal.NewFromInt(120)))
	assert.True(t, got.HasHourLimit)
	assert.Equal(t, income.LimitContractTotal, got.LimitType)
	assert.True(t, got.HourLimit.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2024-01-15", got.ContractStartDate)
	assert.False(t, got.Active)

	// Unknown names
	_, err = st.GetClient(ctx, "Nobody")
	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.ErrorIs(t, st.UpdateClient(ctx, client("Nobody", 1)), generic.ErrNotFound)
	assert.ErrorIs(t, st.DeleteClient(ctx, "Nobody"), generic.ErrNotFound)

	// Delete
	require.NoError(t, st.DeleteClient(ctx, "Globex"))
	clients, err = st.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func testClientDecimals(t *testing.T, st Resettable) {
	ctx := context.Background()

	c := client("Precise", 0)
	c.HourlyRate = decimal.RequireFromString("87.125")
	c.Billing = income.BillingRetainer
	require.NoError(t, st.CreateClient(ctx, c))

	got, err := st.GetClient(ctx, "Precise")
	require.NoError(t, err)
	assert.Equal(t, "87.125", got.HourlyRate.String())
	assert.Equal(t, income.BillingRetainer, got.Billing)
	assert.Empty(t, got.ContractStartDate)
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func testTimeEntries(t *testing.T, st Resettable) {
	ctx := context.Background()

	// GIVEN: entries appended out of date order
	entries := []income.TimeEntry{
		{ID: "e2", Date: date("2024-03-10"), ClientName: "Acme", Hours: decimal.RequireFromString("2.5"), Notes: "review"},
		{ID: "e1", Date: date("2024-03-01"), ClientName: "Acme", Hours: decimal.NewFromInt(8)},
		{ID: "e3", Date: date("2024-03-10"), ClientName: "Globex", Hours: decimal.NewFromInt(1)},
	}
	for _, te := range entries {
		require.NoError(t, st.AppendTimeEntry(ctx, te))
	}

	// THEN: ordered by date, same-date entries in insertion order
	got, err := st.ListTimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
	assert.Equal(t, "e3", got[2].ID)
	assert.Equal(t, "2024-03-10", got[1].Date.String())
	assert.Equal(t, "2.5", got[1].Hours.String())
	assert.Equal(t, "review", got[1].Notes)

	// Removal is by ID
	require.NoError(t, st.DeleteTimeEntry(ctx, "e2"))
	assert.ErrorIs(t, st.DeleteTimeEntry(ctx, "e2"), generic.ErrNotFound)

	got, err = st.ListTimeEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// An entry without an ID gets one
	require.NoError(t, st.AppendTimeEntry(ctx, income.TimeEntry{Date: date("2024-03-20"), ClientName: "Acme", Hours: decimal.NewFromInt(1)}))
	got, err = st.ListTimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.NotEmpty(t, got[2].ID)
}

// =============================================================================
// INVOICES
// =============================================================================

func testInvoices(t *testing.T, st Resettable) {
	ctx := context.Background()

	require.NoError(t, st.AppendInvoice(ctx, income.Invoice{
		ID: "i2", Date: date("2024-03-15"), ClientName: "Initech",
		Amount: decimal.RequireFromString("1999.99"), Type: income.InvoiceFlatFee, Description: "Site launch",
	}))
	require.NoError(t, st.AppendInvoice(ctx, income.Invoice{
		ID: "i1", Date: date("2024-03-01"), ClientName: "Initech",
		Amount: decimal.NewFromInt(2000), Type: income.InvoiceRetainer,
	}))

	got, err := st.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "i1", got[0].ID)
	assert.Equal(t, "i2", got[1].ID)
	assert.Equal(t, "1999.99", got[1].Amount.String())
	assert.Equal(t, income.InvoiceFlatFee, got[1].Type)
	assert.Equal(t, "Site launch", got[1].Description)

	require.NoError(t, st.DeleteInvoice(ctx, "i1"))
	assert.ErrorIs(t, st.DeleteInvoice(ctx, "i1"), generic.ErrNotFound)
}

// =============================================================================
// SETTINGS
// =============================================================================

func testSettings(t *testing.T, st Resettable) {
	ctx := context.Background()

	// GIVEN: a fresh store has no settings
	_, ok, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// WHEN: saved twice
	require.NoError(t, st.SaveSettings(ctx, income.DefaultSettings()))
	week := income.NewWorkWeek(time.Monday, time.Wednesday, time.Saturday)
	require.NoError(t, st.SaveSettings(ctx, income.Settings{MonthlyTarget: decimal.RequireFromString("6500.50"), WorkDays: week}))

	// THEN: the last save wins
	got, ok, err := st.GetSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "6500.5", got.MonthlyTarget.String())
	assert.Equal(t, []string{"Monday", "Wednesday", "Saturday"}, got.WorkDays.Names())

	// Mutating the caller's week does not leak into the store
	week[time.Sunday] = true
	got, _, err = st.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, got.WorkDays.Contains(time.Sunday))
}

// =============================================================================
// NON-WORK DAYS
// =============================================================================

func testNonWorkDays(t *testing.T, st Resettable) {
	ctx := context.Background()

	require.NoError(t, st.AddNonWorkDay(ctx, income.NonWorkDay{Date: date("2024-12-25"), Reason: "Christmas"}))
	require.NoError(t, st.AddNonWorkDay(ctx, income.NonWorkDay{Date: date("2024-03-29"), Reason: "Good Friday"}))

	// A date appears at most once
	err := st.AddNonWorkDay(ctx, income.NonWorkDay{Date: date("2024-12-25"), Reason: "Again"})
	assert.ErrorIs(t, err, generic.ErrDuplicateNonWorkDay)

	days, err := st.ListNonWorkDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-29", days[0].Date.String())
	assert.Equal(t, "Christmas", days[1].Reason)

	require.NoError(t, st.RemoveNonWorkDay(ctx, date("2024-12-25")))
	assert.ErrorIs(t, st.RemoveNonWorkDay(ctx, date("2024-12-25")), generic.ErrNotFound)

	// Removed dates can be marked again
	require.NoError(t, st.AddNonWorkDay(ctx, income.NonWorkDay{Date: date("2024-12-25")}))
}

// =============================================================================
// RESET AND SNAPSHOT
// =============================================================================

func testReset(t *testing.T, st Resettable) {
	ctx := context.Background()

	require.NoError(t, st.CreateClient(ctx, client("Acme", 100)))
	require.NoError(t, st.AppendTimeEntry(ctx, income.TimeEntry{ID: "e1", Date: date("2024-03-01"), ClientName: "Acme", Hours: decimal.NewFromInt(1)}))
	require.NoError(t, st.AppendInvoice(ctx, income.Invoice{ID: "i1", Date: date("2024-03-01"), ClientName: "Acme", Amount: decimal.NewFromInt(1), Type: income.InvoiceBonus}))
	require.NoError(t, st.AddNonWorkDay(ctx, income.NonWorkDay{Date: date("2024-03-04")}))
	require.NoError(t, st.SaveSettings(ctx, income.DefaultSettings()))

	require.NoError(t, st.Reset(ctx))

	snap, err := income.LoadSnapshot(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Entries)
	assert.Empty(t, snap.Invoices)
	assert.Empty(t, snap.NonWorkDays)
	_, ok, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// The name is free again
	assert.NoError(t, st.CreateClient(ctx, client("Acme", 100)))
}

func testSnapshot(t *testing.T, st Resettable) {
	ctx := context.Background()

	// GIVEN: one month of records and no saved settings
	require.NoError(t, st.CreateClient(ctx, client("Acme", 100)))
	require.NoError(t, st.AppendTimeEntry(ctx, income.TimeEntry{ID: "e1", Date: date("2024-03-05"), ClientName: "Acme", Hours: decimal.NewFromInt(8)}))

	defaults := income.Settings{MonthlyTarget: decimal.NewFromInt(4000), WorkDays: income.NewWorkWeek(time.Monday)}

	// WHEN
	snap, err := income.LoadSnapshotWithDefaults(ctx, st, defaults)
	require.NoError(t, err)

	// THEN: defaults fill in and the engine sees the records
	assert.True(t, snap.Settings.MonthlyTarget.Equal(decimal.NewFromInt(4000)))
	stats := income.FixedClock(date("2024-03-15")).ComputeMonthlyStats(2024, time.March, snap)
	assert.True(t, stats.TotalIncome.Equal(decimal.NewFromInt(800)))
}
