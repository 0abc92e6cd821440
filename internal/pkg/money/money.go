package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact decimal amount. Every monetary computation in the
// service goes through this type; raw numerics appear only at the store
// boundary via ToDecimal128/FromDecimal128.
type Money struct {
	value decimal.Decimal
}

var Zero = Money{value: decimal.Zero}

func New(d decimal.Decimal) Money {
	return Money{value: d}
}

func FromInt(n int64) Money {
	return Money{value: decimal.NewFromInt(n)}
}

// FromString parses an exact decimal amount, e.g. "11200.50".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// MustFromString is for constants and tests where the literal is known good.
func MustFromString(s string) Money {
	m, err := FromString(s)
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

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{value: m.value.Mul(factor)}
}

// Round returns the amount rounded half-up to the given number of
// fractional digits.
func (m Money) Round(places int32) Money {
	return Money{value: m.value.Round(places)}
}

func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.value.GreaterThanOrEqual(other.value)
}

func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

func (m Money) IsZero() bool {
	return m.value.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

func (m Money) Decimal() decimal.Decimal {
	return m.value
}

func (m Money) String() string {
	return m.value.String()
}

// StringFixed renders with a fixed number of fractional digits, for
// human-readable summaries.
func (m Money) StringFixed(places int32) string {
	return m.value.StringFixed(places)
}

// Sum adds a sequence of amounts exactly. Order of the input never
// affects the result.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.value)
	}
	return Money{value: total}
}

// ToDecimal128 converts to the BSON decimal representation for storage.
func (m Money) ToDecimal128() (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(m.value.String())
}

// FromDecimal128 converts a stored BSON decimal back into Money.
func FromDecimal128(d primitive.Decimal128) (Money, error) {
	return FromString(d.String())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.value.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	m.value = d
	return nil
}
