// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatAmount formats a monetary amount with comma separators, rounding to
// whole units. e.g., 500000 -> "500,000".
func FormatAmount(v float64) string {
	if v < 0 {
		return "-" + FormatAmount(-v)
	}
	return FormatNumber(int64(math.Round(v)))
}

// FormatMoney formats an amount with its currency label appended.
// e.g., 500000, "UZS" -> "500,000 UZS".
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		return FormatAmount(v)
	}
	return FormatAmount(v) + " " + currency
}

// FormatSigned formats an amount with an explicit sign, for scenario impacts
// and month-over-month deltas. e.g., -75000 -> "-75,000", 20000 -> "+20,000".
func FormatSigned(v float64) string {
	if v < 0 {
		return "-" + FormatAmount(-v)
	}
	return "+" + FormatAmount(v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 percentage value.
// e.g., 12.5 -> "12.5%", 30 -> "30%"
func FormatPercent(pct float64) string {
	if pct == math.Trunc(pct) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatBand formats a recommended allocation band. e.g., 25, 35 -> "25–35%".
func FormatBand(min, max float64) string {
	return fmt.Sprintf("%.0f–%.0f%%", min, max)
}

// FormatIndex formats a 0-100 index such as stability or stress as a whole
// number out of 100.
func FormatIndex(v float64) string {
	return fmt.Sprintf("%.0f/100", v)
}

// FormatMonth renders a one-based simulation month label.
func FormatMonth(month int) string {
	return fmt.Sprintf("Month %d", month)
}
