package config

import (
	"strconv"

	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/loans"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name             string  `yaml:"name" json:"name"`
	Principal        float64 `yaml:"principal" json:"principal"`
	InterestRate     float64 `yaml:"interestRate" json:"interestRate"` // annual percent
	TenureYears      int     `yaml:"tenureYears" json:"tenureYears"`
	Method           string  `yaml:"method,omitempty" json:"method,omitempty"`
	AnnualPrepayment float64 `yaml:"annualPrepayment,omitempty" json:"annualPrepayment,omitempty"`
}

// DefaultLoans returns the loans compared when the configuration names none.
func DefaultLoans() []Loan {
	return []Loan{
		{
			Name:         DefaultLoanName(0),
			Principal:    constants.DefaultLoanAPrincipal,
			InterestRate: constants.DefaultLoanARate,
			TenureYears:  constants.DefaultLoanATenureYears,
			Method:       loans.FixedRate.String(),
		},
		{
			Name:         DefaultLoanName(1),
			Principal:    constants.DefaultLoanBPrincipal,
			InterestRate: constants.DefaultLoanBRate,
			TenureYears:  constants.DefaultLoanBTenureYears,
			Method:       loans.FixedRate.String(),
		},
	}
}

// DefaultLoanName returns "Loan A", "Loan B", ... for the given position.
// Positions past Z fall back to a numbered name.
func DefaultLoanName(i int) string {
	if i >= 0 && i < 26 {
		return "Loan " + string(rune('A'+i))
	}
	return "Loan " + strconv.Itoa(i+1)
}
