package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// defaultExponent is the number of digits after the decimal point for most currencies.
const defaultExponent = 2

// exponents holds currencies whose smallest unit differs from one hundredth.
var exponents = map[string]int32{
	"XTR": 0,
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
	"UGX": 0,
}

// Exponent returns the number of digits after the decimal point used by currency.
func Exponent(currency string) int32 {
	exp, ok := exponents[strings.ToUpper(currency)]
	if !ok {
		return defaultExponent
	}

	return exp
}

// Money represents an amount in a specific currency.
type Money struct {
	decimal  decimal.Decimal
	currency string
}

// NewFromMinorUnits returns money from amount expressed in the smallest units of currency,
// the way Bot API sends prices and payments (e.g. 145 means 1.45 USD).
func NewFromMinorUnits(amount int64, currency string) Money {
	return Money{
		decimal:  decimal.New(amount, -Exponent(currency)),
		currency: strings.ToUpper(currency),
	}
}

// NewFromString parses amount in major units of currency.
func NewFromString(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}

	return Money{decimal: d, currency: strings.ToUpper(currency)}, nil
}

// MinorUnits returns the amount in the smallest units of currency, truncating extra digits.
func (m Money) MinorUnits() int64 {
	return m.decimal.Shift(Exponent(m.currency)).IntPart()
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// String returns the amount with the number of decimal places used by currency.
func (m Money) String() string {
	return m.decimal.StringFixed(Exponent(m.currency))
}
