package ledger

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits on amounts and rates. Values outside them would take unbounded time
// and memory to format.
const (
	maxExponent = 15
	maxScale    = 30
	maxDigits   = 30
)

// inRange reports whether d is small enough to store and display.
func inRange(d decimal.Decimal) bool {
	if d.Exponent() > maxExponent || d.Exponent() < -maxScale {
		return false
	}
	return len(new(big.Int).Abs(d.Coefficient()).String()) <= maxDigits
}

// checkAmount rejects negative and out-of-range amounts.
func checkAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	if !inRange(d) {
		return fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return nil
}

// ParseAmount parses user input as a non-negative amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseRate parses user input as a strictly positive exchange rate.
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidRate, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidRate, s)
	}
	if !inRange(d) {
		return decimal.Zero, fmt.Errorf("%w: out of range", ErrInvalidRate)
	}
	return d, nil
}

// ParsePosition parses user input as a 1-based ledger position. Range is
// checked by the operation that uses it.
func ParsePosition(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, s)
	}
	return n, nil
}
