package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a money amount in hundredths. Prices travel as two-place decimal
// strings ("10.50"); all arithmetic happens in Cents.
type Cents int64

// ErrAmountOutOfRange is returned when an amount or a result does not fit
// in Cents.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	amountPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	maxCents      = decimal.NewFromInt(math.MaxInt64)
	minCents      = decimal.NewFromInt(math.MinInt64)
)

// ParseCents parses a decimal string with at most two significant
// fractional digits. Trailing zeros beyond the second place are accepted
// ("10.500").
func ParseCents(s string) (Cents, error) {
	raw := strings.TrimSpace(s)
	if !amountPattern.MatchString(raw) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(raw, "+"))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	hundredths := d.Shift(2)
	if !hundredths.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	c, err := fromDecimal(hundredths)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return c, nil
}

// MustParseCents is ParseCents for literals known to be valid.
func MustParseCents(s string) Cents {
	c, err := ParseCents(s)
	if err != nil {
		panic(err)
	}
	return c
}

func fromDecimal(hundredths decimal.Decimal) (Cents, error) {
	if hundredths.GreaterThan(maxCents) || hundredths.LessThan(minCents) {
		return 0, ErrAmountOutOfRange
	}
	return Cents(hundredths.IntPart()), nil
}

func (c Cents) hundredths() decimal.Decimal {
	return decimal.NewFromInt(int64(c))
}

// Decimal returns the amount in currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Times multiplies an amount by a line quantity.
func (c Cents) Times(quantity int) (Cents, error) {
	return fromDecimal(c.hundredths().Mul(decimal.NewFromInt(int64(quantity))))
}

func (c Cents) Plus(other Cents) (Cents, error) {
	return fromDecimal(c.hundredths().Add(other.hundredths()))
}

func (c Cents) Minus(other Cents) (Cents, error) {
	return fromDecimal(c.hundredths().Sub(other.hundredths()))
}

// String renders the amount the way the API expects it, e.g. "10.50".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
