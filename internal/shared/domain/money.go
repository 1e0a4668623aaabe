package domain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money is rounded to.
const MoneyScale = 2

// ErrInvalidAmount is returned when a monetary amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Money is an arbitrary-precision amount of store currency. Arithmetic never
// rounds implicitly; callers round with Round at the points the business
// rules require.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney wraps a decimal.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// MoneyFromInt returns a whole amount.
func MoneyFromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{amount: d}, nil
}

// MustParseMoney is ParseMoney that panics on malformed input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money { return Money{amount: m.amount.Add(other.amount)} }
func (m Money) Sub(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }

// Times multiplies the amount by an integer quantity.
func (m Money) Times(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// Percent returns p percent of the amount, unrounded.
func (m Money) Percent(p decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(p).Div(hundred)}
}

// Round rounds to cents, half away from zero (33.335 becomes 33.34).
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(MoneyScale)}
}

func (m Money) Cmp(other Money) int           { return m.amount.Cmp(other.amount) }
func (m Money) GreaterThan(other Money) bool  { return m.amount.GreaterThan(other.amount) }
func (m Money) LessThan(other Money) bool     { return m.amount.LessThan(other.amount) }
func (m Money) Equal(other Money) bool        { return m.amount.Equal(other.amount) }
func (m Money) IsNegative() bool              { return m.amount.IsNegative() }
func (m Money) IsZero() bool                  { return m.amount.IsZero() }
func (m Money) Decimal() decimal.Decimal      { return m.amount }

// String formats the amount with exactly two decimals.
func (m Money) String() string { return m.amount.StringFixed(MoneyScale) }

// Equals checks if two amounts are numerically equal.
func (m Money) Equals(other ValueObject) bool {
	o, ok := other.(Money)
	return ok && m.Equal(o)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	parsed, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
