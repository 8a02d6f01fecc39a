package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxAmount caps a single funding or payment at one billion major units.
const MaxAmount int64 = 100_000_000_000

// ErrOverflow is returned when a checked operation leaves the int64 range.
var ErrOverflow = errors.New("money: amount out of range")

// Money is an amount in minor units (cents) of a single currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New creates a Money value from minor units.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// Add returns m + o. Both operands must share a currency.
func (m Money) Add(o Money) Money {
	m.mustMatch(o)
	return Money{Amount: m.Amount + o.Amount, Currency: m.currencyWith(o)}
}

// Sub returns m - o. Both operands must share a currency.
func (m Money) Sub(o Money) Money {
	m.mustMatch(o)
	return Money{Amount: m.Amount - o.Amount, Currency: m.currencyWith(o)}
}

// CheckedAdd is Add that fails with ErrOverflow instead of wrapping.
func (m Money) CheckedAdd(o Money) (Money, error) {
	m.mustMatch(o)
	if (o.Amount > 0 && m.Amount > math.MaxInt64-o.Amount) ||
		(o.Amount < 0 && m.Amount < math.MinInt64-o.Amount) {
		return Money{}, fmt.Errorf("%w: %d + %d", ErrOverflow, m.Amount, o.Amount)
	}
	return m.Add(o), nil
}

// CheckedSub is Sub that fails with ErrOverflow instead of wrapping.
func (m Money) CheckedSub(o Money) (Money, error) {
	m.mustMatch(o)
	if (o.Amount < 0 && m.Amount > math.MaxInt64+o.Amount) ||
		(o.Amount > 0 && m.Amount < math.MinInt64+o.Amount) {
		return Money{}, fmt.Errorf("%w: %d - %d", ErrOverflow, m.Amount, o.Amount)
	}
	return m.Sub(o), nil
}

// Mul multiplies by an integer quantity (e.g. a scan count).
func (m Money) Mul(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// MulRate applies a decimal rate and rounds half-to-even to the minor unit.
// This is the only rounding step; callers must not chain it.
func (m Money) MulRate(rate decimal.Decimal) Money {
	v := decimal.NewFromInt(m.Amount).Mul(rate).RoundBank(0)
	return Money{Amount: v.IntPart(), Currency: m.Currency}
}

// FloorPercent returns floor(m * pct / 100). Used for split base shares.
func (m Money) FloorPercent(pct int64) Money {
	q, _ := decimal.NewFromInt(m.Amount).Mul(decimal.NewFromInt(pct)).QuoRem(decimal.NewFromInt(100), 0)
	return Money{Amount: q.IntPart(), Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// LessThan compares amounts of the same currency.
func (m Money) LessThan(o Money) bool {
	m.mustMatch(o)
	return m.Amount < o.Amount
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(o Money) bool {
	return m.Amount == o.Amount && m.Currency == o.Currency
}

// Decimal returns the amount in major units, for display only.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -2)
}

// String renders e.g. "98.30 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

// Sum adds a list of amounts; the result carries the given currency.
func Sum(currency string, amounts ...Money) Money {
	total := Zero(currency)
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ParseMajor parses a major-unit string such as "20.00" into minor units.
// More than two fractional digits is rejected rather than rounded.
func ParseMajor(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return Money{}, fmt.Errorf("parse amount %q: more than two decimal places", s)
	}
	return Money{Amount: minor.IntPart(), Currency: currency}, nil
}

func (m Money) mustMatch(o Money) {
	// Zero-value currency is treated as a wildcard so that Money{} acts as an accumulator seed.
	if m.Currency != "" && o.Currency != "" && m.Currency != o.Currency {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, o.Currency))
	}
}

func (m Money) currencyWith(o Money) string {
	if m.Currency != "" {
		return m.Currency
	}
	return o.Currency
}
