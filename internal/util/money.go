package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmountCents converts a decimal amount string ("30.00") to cents.
// At most two fractional digits are accepted; parsing goes through
// shopspring/decimal so no float rounding can creep in.
func ParseAmountCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	return shifted.IntPart(), nil
}

// FormatCents renders cents as a decimal string with two places, e.g. 7000 -> "70.00".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
