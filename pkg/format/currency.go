// Package format renders monetary values for display.
package format

import (
	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	sign, digits := grouped(amount)
	return sign + "$" + digits
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign, digits := grouped(amount)
	return sign + digits
}

// Percent returns a percentage with two decimals (e.g., "7.50%").
func Percent(value float64) string {
	return mathutil.Cents(value).StringFixed(constants.CurrencyPlaces) + "%"
}

// grouped rounds to cents first so that the sign reflects the rounded value.
func grouped(amount float64) (string, string) {
	cents := mathutil.Cents(amount)
	sign := ""
	if cents.IsNegative() {
		sign = "-"
	}
	p := message.NewPrinter(language.English)
	return sign, p.Sprintf("%.2f", cents.Abs().InexactFloat64())
}
