package calculator

import "github.com/shopspring/decimal"

// displayPlaces is the number of decimal places money is presented with.
const displayPlaces = 2

// Epsilon is the smallest amount treated as a real debt or credit.
// Balances within Epsilon of zero count as settled.
var Epsilon = decimal.New(1, -displayPlaces)

// Round rounds a monetary value to two decimal places, half away from zero.
// Use it only when presenting values; accumulate on unrounded amounts.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPlaces)
}

// Format renders a monetary value with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(displayPlaces)
}
