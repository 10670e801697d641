// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/shopspring/decimal"
)

// Cents converts a value into a decimal rounded half away from zero to two
// places, i.e. to represent real currency.
func Cents(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val).Round(constants.CurrencyPlaces)
}

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and display.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return Cents(val).InexactFloat64()
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}
