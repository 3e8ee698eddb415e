package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Money is an immutable, non-negative amount in a single currency. Arithmetic
// between different currencies is a programming error and panics.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, invalidArgument("currency %q is not an ISO code", currency)
	}

	if amount.IsNegative() {
		return Money{}, invalidArgument("amount %s is negative", amount)
	}

	return Money{amount: amount.Round(moneyScale), currency: currency}, nil
}

func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, invalidArgument("amount %q: %v", amount, err)
	}

	return NewMoney(d, currency)
}

func MustMoney(amount, currency string) Money {
	m, err := MoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}

	return m
}

func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// zeroed is a zero amount in the receiver's currency.
func (m Money) zeroed() Money {
	return Money{amount: decimal.Zero, currency: m.currency}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Add(other Money) Money {
	m.mustMatch(other)
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

func (m Money) Subtract(other Money) (Money, error) {
	m.mustMatch(other)

	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, invalidArgument("subtracting %s from %s is negative", other, m)
	}

	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) Multiply(n int) Money {
	if n < 0 {
		panic(fmt.Sprintf("money: negative multiplier %d", n))
	}

	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))).Round(moneyScale), currency: m.currency}
}

// Compare returns -1, 0 or 1.
func (m Money) Compare(other Money) int {
	m.mustMatch(other)
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale) + " " + m.currency
}

func (m Money) mustMatch(other Money) {
	if m.currency != other.currency {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.currency, other.currency))
	}
}
