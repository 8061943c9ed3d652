/*
breakdown.go - Per-client monthly and weekly tables

PURPOSE:
  The dashboard shows two tables under the chart:

  Monthly breakdown:
    One Hourly row per hourly client that logged time in the month
    (hours, rate, hours x rate) and one Retainer row per client that was
    invoiced in the month (summed amount).

  Weekly breakdown:
    Hours per active client per Monday-start week overlapping the month.
    Only days inside the month count, so the first and last columns may
    cover partial weeks.
*/
package income

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// MONTHLY BREAKDOWN
// =============================================================================

type BreakdownRow struct {
	ClientName string
	Billing    BillingType
	Hours      decimal.Decimal
	Rate       decimal.Decimal
	Total      decimal.Decimal
}

// MonthlyBreakdown lists hourly rows then retainer rows, each group sorted
// by client name. A client may appear in both groups.
func MonthlyBreakdown(year int, month time.Month, snap Snapshot) []BreakdownRow {
	period := generic.MonthPeriod(year, month)
	rates := hourlyRates(snap.Clients)

	hours := make(map[string]decimal.Decimal)
	for _, te := range snap.Entries {
		if !period.Contains(te.Date) {
			continue
		}
		if _, ok := rates[te.ClientName]; ok {
			hours[te.ClientName] = hours[te.ClientName].Add(te.Hours)
		}
	}

	invoiced := make(map[string]decimal.Decimal)
	for _, inv := range snap.Invoices {
		if period.Contains(inv.Date) {
			invoiced[inv.ClientName] = invoiced[inv.ClientName].Add(inv.Amount)
		}
	}

	rows := make([]BreakdownRow, 0, len(hours)+len(invoiced))
	for _, name := range sortedKeys(hours) {
		rate := rates[name]
		rows = append(rows, BreakdownRow{
			ClientName: name,
			Billing:    BillingHourly,
			Hours:      hours[name],
			Rate:       rate,
			Total:      hours[name].Mul(rate),
		})
	}
	for _, name := range sortedKeys(invoiced) {
		rows = append(rows, BreakdownRow{
			ClientName: name,
			Billing:    BillingRetainer,
			Hours:      decimal.Zero,
			Rate:       decimal.Zero,
			Total:      invoiced[name],
		})
	}
	return rows
}

// BreakdownTotal sums the Total column.
func BreakdownTotal(rows []BreakdownRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}

// =============================================================================
// WEEKLY BREAKDOWN
// =============================================================================

type WeekColumn struct {
	Week    generic.Period // full Monday-Sunday week
	Visible generic.Period // the part inside the month
	Label   string
}

type WeeklyRow struct {
	ClientName string
	Hours      []decimal.Decimal // one cell per column
	Total      decimal.Decimal
}

type WeeklyBreakdown struct {
	Columns []WeekColumn
	Rows    []WeeklyRow
}

// BuildWeeklyBreakdown pivots the month's hours by active client and week.
func BuildWeeklyBreakdown(year int, month time.Month, snap Snapshot) WeeklyBreakdown {
	period := generic.MonthPeriod(year, month)

	var wb WeeklyBreakdown
	for _, week := range period.Weeks() {
		visible := week.Clip(period)
		wb.Columns = append(wb.Columns, WeekColumn{
			Week:    week,
			Visible: visible,
			Label:   visible.Start.Time.Format("Jan 02") + "-" + visible.End.Time.Format("02"),
		})
	}

	var names []string
	for _, c := range snap.Clients {
		if c.Active {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
		wb.Rows = append(wb.Rows, WeeklyRow{
			ClientName: name,
			Hours:      zeros(len(wb.Columns)),
			Total:      decimal.Zero,
		})
	}

	for _, te := range snap.Entries {
		if !period.Contains(te.Date) {
			continue
		}
		row, ok := index[te.ClientName]
		if !ok {
			continue
		}
		col := weekColumn(wb.Columns, te.Date)
		if col < 0 {
			continue
		}
		r := &wb.Rows[row]
		r.Hours[col] = r.Hours[col].Add(te.Hours)
		r.Total = r.Total.Add(te.Hours)
	}
	return wb
}

func weekColumn(cols []WeekColumn, date generic.TimePoint) int {
	for i, c := range cols {
		if c.Visible.Contains(date) {
			return i
		}
	}
	return -1
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
