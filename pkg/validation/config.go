package validation

import (
	"fmt"

	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/format"
)

// LoanConfig carries the loan fields checked against the form bounds.
type LoanConfig struct {
	Name             string
	Principal        float64
	InterestRate     float64
	TenureYears      int
	AnnualPrepayment float64
}

// ValidateLoanBounds checks a loan against the bounds of the comparison form
// and returns human-readable warnings. Out-of-range loans are still computed.
func ValidateLoanBounds(loan LoanConfig) []string {
	var warnings []string

	if loan.Principal < constants.MinPrincipal || loan.Principal > constants.MaxPrincipal {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' principal %s is outside %s-%s",
			loan.Name, format.Currency(loan.Principal),
			format.Currency(constants.MinPrincipal), format.Currency(constants.MaxPrincipal)))
	}

	if loan.InterestRate < constants.MinRatePercent || loan.InterestRate > constants.MaxRatePercent {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' interest rate %s is outside %s-%s",
			loan.Name, format.Percent(loan.InterestRate),
			format.Percent(constants.MinRatePercent), format.Percent(constants.MaxRatePercent)))
	}

	if loan.TenureYears < constants.MinTenureYears || loan.TenureYears > constants.MaxTenureYears {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' tenure of %d years is outside %d-%d years",
			loan.Name, loan.TenureYears, constants.MinTenureYears, constants.MaxTenureYears))
	}

	if loan.AnnualPrepayment < 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' annual prepayment %s is negative",
			loan.Name, format.Currency(loan.AnnualPrepayment)))
	}

	return warnings
}

// ConfigValidator validates every loan of a comparison.
type ConfigValidator struct {
	Loans []LoanConfig
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if len(cv.Loans) < 2 {
		warnings = append(warnings, fmt.Sprintf("Only %d loan configured - nothing to compare against", len(cv.Loans)))
	}

	seen := make(map[string]bool)
	for _, loan := range cv.Loans {
		if seen[loan.Name] {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
		}
		seen[loan.Name] = true
		warnings = append(warnings, ValidateLoanBounds(loan)...)
	}

	return warnings
}
