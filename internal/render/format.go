// Package render formats summaries and occupation records for terminal output.
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Salary formats a dollar amount with thousands separators: $131,450.
func Salary(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

// SalaryRange formats min and max as "$40,000 - $60,000".
func SalaryRange(lo, hi float64) string {
	return Salary(lo) + " - " + Salary(hi)
}

// Jobs abbreviates a job count: 1.2M, 350K, 950.
func Jobs(n int64) string {
	switch {
	case n >= 1_000_000:
		return printer.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return printer.Sprintf("%.0fK", float64(n)/1_000)
	default:
		return printer.Sprintf("%d", n)
	}
}

// Growth formats a growth rate with an explicit sign: +5.0%.
func Growth(v float64) string {
	return printer.Sprintf("%+.1f%%", v)
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
