// Package income implements the monthly income and hours projection engine
// for a single freelancer: work-day calendars, client hour limits, monthly
// stats and cumulative target-vs-actual projections.
//
// Every calculation is a pure function of a Snapshot. Nothing in this package
// writes to a store.
package income

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// CLIENT
// =============================================================================

type BillingType string

const (
	BillingHourly   BillingType = "Hourly"
	BillingRetainer BillingType = "Retainer"
)

// ParseBillingType accepts the canonical names and the legacy
// "Retainer/Flat Fee" label. Anything else is reported as not ok.
func ParseBillingType(s string) (BillingType, bool) {
	switch normalizeLabel(s) {
	case "hourly":
		return BillingHourly, true
	case "retainer", "retainerflatfee", "flatfee":
		return BillingRetainer, true
	default:
		return BillingType(s), false
	}
}

type LimitType string

const (
	LimitNone          LimitType = "None"
	LimitMonthly       LimitType = "Monthly"
	LimitContractTotal LimitType = "ContractTotal"
)

// NormalizeLimitType maps the stored value onto the policy the calculator
// applies. Empty, "None" and unrecognized values all mean Monthly.
func NormalizeLimitType(lt LimitType) LimitType {
	switch normalizeLabel(string(lt)) {
	case "contracttotal":
		return LimitContractTotal
	default:
		return LimitMonthly
	}
}

// ParseLimitType is the strict variant used at the boundary.
func ParseLimitType(s string) (LimitType, bool) {
	switch normalizeLabel(s) {
	case "", "none":
		return LimitNone, true
	case "monthly":
		return LimitMonthly, true
	case "contracttotal":
		return LimitContractTotal, true
	default:
		return LimitType(s), false
	}
}

// Client is identified by Name; no two clients share a name.
type Client struct {
	Name       string
	HourlyRate decimal.Decimal
	Billing    BillingType
	Active     bool

	// HasHourLimit gates limit reporting. HourLimit is ignored when false.
	HasHourLimit bool
	LimitType    LimitType
	HourLimit    decimal.Decimal

	// ContractStartDate is the raw user input. It may be empty or
	// unparseable; HoursUsed falls back to summing everything then.
	ContractStartDate string
}

func (c Client) IsHourly() bool { return c.Billing == BillingHourly }

// =============================================================================
// LOG RECORDS
// =============================================================================

// TimeEntry is one line of the append-only work log.
type TimeEntry struct {
	ID         string
	Date       generic.TimePoint
	ClientName string
	Hours      decimal.Decimal
	Notes      string
}

type InvoiceType string

const (
	InvoiceRetainer InvoiceType = "Retainer"
	InvoiceFlatFee  InvoiceType = "FlatFee"
	InvoiceBonus    InvoiceType = "Bonus"
	InvoiceOther    InvoiceType = "Other"
)

func ParseInvoiceType(s string) (InvoiceType, bool) {
	switch normalizeLabel(s) {
	case "retainer":
		return InvoiceRetainer, true
	case "flatfee":
		return InvoiceFlatFee, true
	case "bonus":
		return InvoiceBonus, true
	case "other":
		return InvoiceOther, true
	default:
		return InvoiceType(s), false
	}
}

// Invoice records non-hourly income. It is independent of TimeEntry.
type Invoice struct {
	ID          string
	Date        generic.TimePoint
	ClientName  string
	Amount      decimal.Decimal
	Type        InvoiceType
	Description string
}

// NonWorkDay overrides the weekly pattern for one date.
type NonWorkDay struct {
	Date   generic.TimePoint
	Reason string
}

// NewID returns a fresh identifier for a log record.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the process-wide singleton.
type Settings struct {
	MonthlyTarget decimal.Decimal
	WorkDays      WorkWeek
}

// DefaultSettings mirrors what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		MonthlyTarget: decimal.NewFromInt(8000),
		WorkDays:      NewWorkWeek(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the read-only input of every engine call. Callers load a fresh
// one per computation; the engine never retains it.
type Snapshot struct {
	Clients     []Client
	Entries     []TimeEntry
	Invoices    []Invoice
	Settings    Settings
	NonWorkDays []NonWorkDay
}

// WithEntries returns a copy of s whose entry log is the union of the real
// entries and extra. The original slice is never appended to.
func (s Snapshot) WithEntries(extra []TimeEntry) Snapshot {
	if len(extra) == 0 {
		return s
	}
	merged := make([]TimeEntry, 0, len(s.Entries)+len(extra))
	merged = append(merged, s.Entries...)
	merged = append(merged, extra...)
	s.Entries = merged
	return s
}

// FindClient returns the client with the given name.
func (s Snapshot) FindClient(name string) (Client, bool) {
	for _, c := range s.Clients {
		if c.Name == name {
			return c, true
		}
	}
	return Client{}, false
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", "/", "").Replace(s)
}
