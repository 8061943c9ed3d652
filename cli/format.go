// Package cli renders the income engine's reports as terminal tables and
// wires them into the freelance command.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/income"
)

// FormatMoney formats a currency amount with thousands separators.
// e.g., 1234.5 -> "$1,234.50", -20 -> "-$20.00"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return "$" + groupThousands(whole) + "." + frac
}

// FormatHours formats hours with one decimal. e.g., 7.25 -> "7.3 hrs"
func FormatHours(d decimal.Decimal) string {
	return d.StringFixed(1) + " hrs"
}

// FormatPercent formats a 0-100 percentage. e.g., 82.35 -> "82.4%"
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatDelta formats a signed money difference.
func FormatDelta(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoney(d)
	}
	return "+" + FormatMoney(d)
}

// FormatLevel decorates a limit level with its status color.
func FormatLevel(l income.LimitLevel) string {
	switch l {
	case income.LimitCritical:
		return criticalStyle.Render(string(l))
	case income.LimitWarning:
		return warnStyle.Render(string(l))
	default:
		return goodStyle.Render(string(l))
	}
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatMonth returns "March 2024".
func FormatMonth(year int, month fmt.Stringer) string {
	return fmt.Sprintf("%s %d", month, year)
}
