package income

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
)

// The engine trusts its inputs. These checks run at the boundary, before a
// record is written, so the store only ever holds well-formed records.

var maxEntryHours = decimal.NewFromInt(24)

func invalid(field, msg string) error {
	return &generic.ValidationError{Field: field, Message: msg}
}

// ValidateClient checks a client before it is created or updated.
func ValidateClient(c Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("client_name", "must not be empty")
	}
	if c.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "must not be negative")
	}
	if _, ok := ParseBillingType(string(c.Billing)); !ok {
		return invalid("billing_type", "must be Hourly or Retainer")
	}
	if _, ok := ParseLimitType(string(c.LimitType)); !ok {
		return invalid("limit_type", "must be None, Monthly or ContractTotal")
	}
	if c.HourLimit.IsNegative() {
		return invalid("hour_limit", "must not be negative")
	}
	if c.HasHourLimit && !c.HourLimit.IsPositive() {
		return invalid("hour_limit", "must be greater than 0 when the client has an hour limit")
	}
	if c.HasHourLimit && NormalizeLimitType(c.LimitType) == LimitContractTotal && strings.TrimSpace(c.ContractStartDate) == "" {
		return invalid("contract_start_date", "is required for ContractTotal limits")
	}
	return nil
}

// ValidateTimeEntry checks a time entry before it is appended.
func ValidateTimeEntry(te TimeEntry) error {
	if te.Date.IsZero() {
		return invalid("date", "is required")
	}
	if strings.TrimSpace(te.ClientName) == "" {
		return invalid("client_name", "must not be empty")
	}
	if te.Hours.IsNegative() || te.Hours.GreaterThan(maxEntryHours) {
		return invalid("hours", "must be between 0 and 24")
	}
	return nil
}

// ValidateInvoice checks an invoice before it is appended.
func ValidateInvoice(inv Invoice) error {
	if inv.Date.IsZero() {
		return invalid("date", "is required")
	}
	if strings.TrimSpace(inv.ClientName) == "" {
		return invalid("client_name", "must not be empty")
	}
	if !inv.Amount.IsPositive() {
		return invalid("amount", "must be greater than 0")
	}
	if _, ok := ParseInvoiceType(string(inv.Type)); !ok {
		return invalid("type", "must be Retainer, FlatFee, Bonus or Other")
	}
	return nil
}

// ValidateSettings rejects an empty work week and a negative target.
func ValidateSettings(s Settings) error {
	if s.MonthlyTarget.IsNegative() {
		return invalid("monthly_target", "must not be negative")
	}
	if len(s.WorkDays.Names()) == 0 {
		return invalid("work_days", "select at least one work day")
	}
	return nil
}

// ValidateNonWorkDay checks a holiday/vacation marker.
func ValidateNonWorkDay(d NonWorkDay) error {
	if d.Date.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}
