package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/freelance-engine/income"
	"github.com/warp/freelance-engine/store/sqlite"
	"github.com/warp/freelance-engine/store/storetest"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Resettable {
		return newStore(t)
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	// GIVEN: a file database with a client and settings
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "freelance.db")

	st, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, st.CreateClient(ctx, income.Client{
		Name:       "Acme",
		HourlyRate: decimal.NewFromInt(100),
		Billing:    income.BillingHourly,
		Active:     true,
		LimitType:  income.LimitNone,
	}))
	require.NoError(t, st.SaveSettings(ctx, income.DefaultSettings()))
	require.NoError(t, st.Close())

	// WHEN: reopened, which re-runs the migration
	st, err = sqlite.New(path)
	require.NoError(t, err)
	defer st.Close()

	// THEN
	c, err := st.GetClient(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, c.HourlyRate.Equal(decimal.NewFromInt(100)))

	s, ok, err := st.GetSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, income.DefaultSettings().WorkDays.Names(), s.WorkDays.Names())
}
