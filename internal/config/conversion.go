package config

import (
	"fmt"

	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/loans"
	"github.com/iwvelando/emi-compare/pkg/validation"
)

// ToParameters converts a config.Loan to pkg/loans.Parameters.
func (loan *Loan) ToParameters() (loans.Parameters, error) {
	if loan == nil {
		return loans.Parameters{}, fmt.Errorf("%w: nil loan", loans.ErrInvalidParameter)
	}

	method, err := loans.ParseMethod(loan.Method)
	if err != nil {
		return loans.Parameters{}, fmt.Errorf("loan %s: %w", loan.Name, err)
	}
	if loan.TenureYears > constants.LimitTenureYears {
		return loans.Parameters{}, fmt.Errorf("loan %s: %w: tenure of %d years exceeds the %d year limit",
			loan.Name, loans.ErrInvalidParameter, loan.TenureYears, constants.LimitTenureYears)
	}

	return loans.Parameters{
		Principal:         loan.Principal,
		AnnualRatePercent: loan.InterestRate,
		TenureYears:       loan.TenureYears,
		Method:            method,
		AnnualPrepayment:  loan.AnnualPrepayment,
	}, nil
}

// ToValidationConfig converts a config.Loan to the validation package format.
func (loan *Loan) ToValidationConfig() validation.LoanConfig {
	return validation.LoanConfig{
		Name:             loan.Name,
		Principal:        loan.Principal,
		InterestRate:     loan.InterestRate,
		TenureYears:      loan.TenureYears,
		AnnualPrepayment: loan.AnnualPrepayment,
	}
}
