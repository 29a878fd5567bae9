package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every amount,
// matching the NUMERIC(20,4) columns in the ledger schema.
const Scale = 4

// ErrInvalidAmount is returned when an external amount is not a strictly
// positive decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a fixed-point currency amount. Amounts are never represented as
// binary floating point; summation error is unacceptable for a ledger.
type Money struct {
	value decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{}
}

// FromDecimal builds a Money from a raw decimal, rounding to Scale.
func FromDecimal(d decimal.Decimal) Money {
	return Money{value: d.Round(Scale)}
}

// Parse validates an externally supplied amount. It fails with
// ErrInvalidAmount when the input is non-numeric, zero, or negative:
// amounts accepted by the engine must be strictly positive, with direction
// carried by the entry kind rather than a sign.
func Parse(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if d.Sign() <= 0 {
		return Money{}, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, trimmed)
	}

	return FromDecimal(d), nil
}

// MustParse is a test helper that panics on invalid input.
func MustParse(raw string) Money {
	m, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

func (m Money) Sub(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// Cmp returns -1, 0 or 1 depending on whether m is less than, equal to, or
// greater than other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

func (m Money) LessThan(other Money) bool {
	return m.value.Cmp(other.value) < 0
}

func (m Money) GreaterOrEqual(other Money) bool {
	return m.value.Cmp(other.value) >= 0
}

func (m Money) Equal(other Money) bool {
	return m.value.Cmp(other.value) == 0
}

func (m Money) IsPositive() bool {
	return m.value.Sign() > 0
}

func (m Money) IsNegative() bool {
	return m.value.Sign() < 0
}

// String renders the amount with exactly Scale fractional digits.
func (m Money) String() string {
	return m.value.StringFixed(Scale)
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// MarshalJSON renders the amount as a JSON string to keep clients away from
// float parsing.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	m.value = d.Round(Scale)
	return nil
}

// Value implements driver.Valuer so Money maps onto NUMERIC columns.
func (m Money) Value() (driver.Value, error) {
	return m.value.Value()
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	m.value = d.Round(Scale)
	return nil
}
