// Package money converts between the human decimal amounts typed at the
// console and the int64 minor units the ledger stores.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedAmount = errors.New("malformed amount")
	ErrTooPrecise      = errors.New("amounts carry at most two decimal places")
	ErrOutOfRange      = errors.New("amount out of range")
)

var minorFactor = decimal.NewFromInt(100)

// Parse converts a decimal string like "150.25" into minor units (15025).
// More than two decimal places is an error rather than silent rounding.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrMalformedAmount
	}
	minor := d.Mul(minorFactor)
	if !minor.IsInteger() {
		return 0, ErrTooPrecise
	}
	if !minor.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

// Format renders minor units as a fixed two-decimal string: 15025 -> "150.25".
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
