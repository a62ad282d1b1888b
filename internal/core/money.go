// Package core provides amount coercion and formatting utilities.
//
// Ledger amounts are plain reals with no currency attached. Input coming from
// a terminal or an HTTP form is coerced here; no range validation happens, so
// negative and zero amounts are accepted.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user text to an amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted, as is
// exponent notation (1e3). A leading sign is allowed. Anything that is not a
// single finite number returns ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-3")     -> -3, nil
//	ParseAmount("1.5e2")  -> 150, nil
//	ParseAmount("1e400")  -> 0, ErrInvalidAmount
//	ParseAmount("1.2.3")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ",") > 0 {
		if strings.Contains(s, ".") {
			return 0, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	v := d.InexactFloat64()
	if !IsFinite(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseID converts user text to a positive row id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// FormatAmount renders an amount with two fixed decimals for display.
// Use the float value, not this string, for any arithmetic. Sums that
// overflowed render as +Inf, -Inf or NaN.
func FormatAmount(v float64) string {
	if !IsFinite(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// IsFinite reports whether v is neither infinite nor NaN.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
