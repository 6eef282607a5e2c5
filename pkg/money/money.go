// Package money holds the currency formatting rules used on invoices.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places shown for money values.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Format renders value as "{symbol}{value}" rounded half away from zero to
// two places, e.g. Format(d, "$") == "$20.00".
func Format(value decimal.Decimal, symbol string) string {
	return symbol + value.StringFixed(Places)
}

// Percent returns value * pct / 100 without rounding.
func Percent(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Div(hundred)
}

// Quantity renders a quantity without trailing zeros ("2", "1.5").
func Quantity(q decimal.Decimal) string {
	return q.String()
}
