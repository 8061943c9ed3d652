/*
limits.go - Client hour-limit calculator

PURPOSE:
  Some clients cap how many hours they will pay for. The cap is either reset
  every calendar month (Monthly) or cumulative since the contract started
  (ContractTotal). This file answers "how many hours has this client used
  against its cap?" and turns that into a traffic-light status.

LIMIT WINDOWS:
  Monthly:
    [first day of month, last day of month]
  ContractTotal:
    [contract start, +inf) when the start date parses
    all time otherwise

FALLBACKS (kept on purpose, never errors):
  - empty, "None" or unknown limit type  => Monthly
  - missing or unparseable contract start => sum every entry of the client

SEE ALSO:
  - calendar.go: month bounds
  - scenario.go: limits recomputed with hypothetical entries
*/
package income

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// HOURS USED
// =============================================================================

// HoursUsed sums the client's hours inside the window its limit type
// defines. A zero year or month means the engine's current month.
func (e *Engine) HoursUsed(
	clientName string,
	entries []TimeEntry,
	limitType LimitType,
	contractStartDate string,
	year int,
	month time.Month,
) decimal.Decimal {
	var clientEntries []TimeEntry
	for _, te := range entries {
		if te.ClientName == clientName {
			clientEntries = append(clientEntries, te)
		}
	}
	if len(clientEntries) == 0 {
		return decimal.Zero
	}

	switch NormalizeLimitType(limitType) {
	case LimitContractTotal:
		if contractStartDate == "" {
			return sumHours(clientEntries, nil)
		}
		start, err := generic.ParseDate(contractStartDate)
		if err != nil {
			return sumHours(clientEntries, nil)
		}
		return sumHours(clientEntries, func(d generic.TimePoint) bool {
			return d.AfterOrEqual(start)
		})
	default:
		year, month = e.resolveMonth(year, month)
		return sumHours(clientEntries, generic.MonthPeriod(year, month).Contains)
	}
}

// ClientHoursUsed is HoursUsed driven by the client's own limit settings.
func (e *Engine) ClientHoursUsed(c Client, entries []TimeEntry, year int, month time.Month) decimal.Decimal {
	return e.HoursUsed(c.Name, entries, c.LimitType, c.ContractStartDate, year, month)
}

func sumHours(entries []TimeEntry, keep func(generic.TimePoint) bool) decimal.Decimal {
	total := decimal.Zero
	for _, te := range entries {
		if keep == nil || keep(te.Date) {
			total = total.Add(te.Hours)
		}
	}
	return total
}

// =============================================================================
// LIMIT STATUS
// =============================================================================

type LimitLevel string

const (
	LimitGood     LimitLevel = "Good"
	LimitWarning  LimitLevel = "Warning"
	LimitCritical LimitLevel = "Critical"
)

var (
	warningPercent  = decimal.NewFromInt(75)
	criticalPercent = decimal.NewFromInt(90)
	hundred         = decimal.NewFromInt(100)
)

// LevelFor maps a usage percentage onto a status.
func LevelFor(percent decimal.Decimal) LimitLevel {
	switch {
	case percent.GreaterThanOrEqual(criticalPercent):
		return LimitCritical
	case percent.GreaterThanOrEqual(warningPercent):
		return LimitWarning
	default:
		return LimitGood
	}
}

// LimitStatus is one row of the hour-limit report.
type LimitStatus struct {
	ClientName  string
	LimitType   LimitType
	Limit       decimal.Decimal
	Used        decimal.Decimal
	Remaining   decimal.Decimal // negative once the limit is exceeded
	PercentUsed decimal.Decimal // zero when Limit is zero
	Level       LimitLevel
}

func (ls LimitStatus) Exceeded() bool { return ls.Used.GreaterThan(ls.Limit) }

// LimitReport reports usage for every active client with an hour limit,
// sorted by client name.
func (e *Engine) LimitReport(year int, month time.Month, clients []Client, entries []TimeEntry) []LimitStatus {
	var out []LimitStatus
	for _, c := range clients {
		if !c.Active || !c.HasHourLimit {
			continue
		}
		out = append(out, e.limitStatus(c, entries, year, month))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientName < out[j].ClientName })
	return out
}

func (e *Engine) limitStatus(c Client, entries []TimeEntry, year int, month time.Month) LimitStatus {
	used := e.ClientHoursUsed(c, entries, year, month)
	percent := generic.SafeDiv(used.Mul(hundred), c.HourLimit)
	return LimitStatus{
		ClientName:  c.Name,
		LimitType:   c.LimitType,
		Limit:       c.HourLimit,
		Used:        used,
		Remaining:   c.HourLimit.Sub(used),
		PercentUsed: percent,
		Level:       LevelFor(percent),
	}
}

// =============================================================================
// ENTRY GUARD
// =============================================================================

// LimitCheck describes what logging more hours would do to a client's limit.
type LimitCheck struct {
	Current  decimal.Decimal
	After    decimal.Decimal
	Limit    decimal.Decimal
	OverBy   decimal.Decimal
	Exceeded bool
}

// CheckEntry evaluates adding hours for c in the month of at. Clients
// without a limit never exceed. Monthly limits are checked against the
// entry's own month, not the clock's, so back-filled entries are judged by
// the month they land in.
func (e *Engine) CheckEntry(c Client, entries []TimeEntry, hours decimal.Decimal, at generic.TimePoint) LimitCheck {
	if !c.HasHourLimit {
		return LimitCheck{}
	}
	current := e.ClientHoursUsed(c, entries, at.Year(), at.Month())
	after := current.Add(hours)
	check := LimitCheck{Current: current, After: after, Limit: c.HourLimit}
	if after.GreaterThan(c.HourLimit) {
		check.Exceeded = true
		check.OverBy = after.Sub(c.HourLimit)
	}
	return check
}
