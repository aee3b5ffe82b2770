package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Amounts live as int64 cents everywhere inside the service.
// decimal.Decimal appears only at the JSON boundary so no binary float
// ever touches an amount.

// FromDecimal converts a decimal amount (like 12.34) to cents.
// More than two fractional digits is rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: more than two decimal places", ErrInvalidAmount)
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return cents.IntPart(), nil
}

// FromDecimalPositive is FromDecimal restricted to amounts > 0.
func FromDecimalPositive(d decimal.Decimal) (int64, error) {
	cents, err := FromDecimal(d)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return cents, nil
}

// ToDecimal converts cents back to a two-place decimal for responses.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as a plain "123.45" style string.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
