package utils

import (
	"fmt"
	"math"
)

// centEpsilon guards floor conversions against float64 representation error
// (a nominal 20.00 stored as 19.999999999... must still floor to 2000).
const centEpsilon = 1e-9

// ToMinorUnits converts a dollar amount to integer cents. This is the only
// place an amount leaves 2-decimal dollars; it happens at the payment-capture
// boundary.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FloorUnits returns floor(amount * perDollar), used for point math
// (100 points per dollar redeemed, 10 points per dollar earned).
func FloorUnits(amount float64, perDollar int) int {
	return int(math.Floor(amount*float64(perDollar) + centEpsilon))
}

// RoundCurrency normalizes an amount to 2-decimal precision before it is
// persisted.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatCurrency formats an amount for user-facing messages.
// Example: 15.5 -> "$15.50"
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
