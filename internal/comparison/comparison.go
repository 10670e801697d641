// Package comparison runs the EMI and amortization pipeline for every
// configured loan and derives the figures shown side by side.
package comparison

import (
	"fmt"
	"strings"

	"github.com/iwvelando/emi-compare/internal/config"
	"github.com/iwvelando/emi-compare/pkg/format"
	"github.com/iwvelando/emi-compare/pkg/loans"
	"github.com/iwvelando/emi-compare/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PrepaymentTip is shown when none of the compared loans uses a prepayment.
const PrepaymentTip = "Tip: try prepaying a small amount every year to reduce total interest paid!"

// Result holds all information related to a single loan of the comparison.
type Result struct {
	Name          string           `json:"name"`
	Parameters    loans.Parameters `json:"parameters"`
	Payment       float64          `json:"emi"`
	Schedule      loans.Schedule   `json:"schedule"`
	Summary       loans.Summary    `json:"summary"`
	Prepayments   float64          `json:"prepayments"`
	Baseline      loans.Summary    `json:"baseline"`
	InterestSaved float64          `json:"interestSaved"`
	MonthsSaved   int              `json:"monthsSaved"`
}

// Compare processes every loan in the configuration. Loans are computed
// concurrently and returned in configuration order. The first failing loan
// aborts the comparison.
func Compare(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params := make([]loans.Parameters, len(conf.Loans))
	for i := range conf.Loans {
		p, err := conf.Loans[i].ToParameters()
		if err != nil {
			return nil, err
		}
		params[i] = p
	}

	results := make([]Result, len(params))

	var g errgroup.Group
	for i := range params {
		i := i
		g.Go(func() error {
			result, err := Compute(conf.Loans[i].Name, params[i])
			if err != nil {
				return fmt.Errorf("loan %s: %w", conf.Loans[i].Name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, result := range results {
		logger.Debug(fmt.Sprintf("computed schedule for loan %s", result.Name),
			zap.String("op", "comparison.Compare"),
			zap.String("method", result.Parameters.Method.String()),
			zap.Float64("emi", mathutil.Round(result.Payment)),
			zap.Int("months", result.Summary.Months),
			zap.Float64("total_interest", mathutil.Round(result.Summary.TotalInterest)),
		)
	}

	logger.Info("comparison computed",
		zap.String("op", "comparison.Compare"),
		zap.Int("loans", len(results)),
	)

	return results, nil
}

// Compute runs the pipeline for a single loan. When the loan has an annual
// prepayment the same loan without prepayment is simulated as the baseline.
func Compute(name string, params loans.Parameters) (Result, error) {
	payment, schedule, err := params.Schedule()
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Name:        name,
		Parameters:  params,
		Payment:     payment,
		Schedule:    schedule,
		Summary:     loans.Summarize(schedule),
		Prepayments: loans.PrepaymentTotal(schedule, params.AnnualPrepayment),
	}
	result.Baseline = result.Summary

	if params.AnnualPrepayment > 0 {
		baseline, err := loans.BuildSchedule(params.Principal, params.AnnualRatePercent, params.TenureYears, payment, 0)
		if err != nil {
			return Result{}, err
		}
		result.Baseline = loans.Summarize(baseline)
		result.InterestSaved = result.Baseline.TotalInterest - result.Summary.TotalInterest
		result.MonthsSaved = result.Baseline.Months - result.Summary.Months
	}

	return result, nil
}

// Cheapest returns the loan with the lowest total interest. The first loan
// wins a tie.
func Cheapest(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, result := range results[1:] {
		if result.Summary.TotalInterest < best.Summary.TotalInterest {
			best = result
		}
	}
	return best, true
}

// Tip returns the prepayment line printed below a comparison: the savings of
// every prepaying loan, or PrepaymentTip when no loan prepays.
func Tip(results []Result) string {
	var lines []string
	for _, result := range results {
		if result.Parameters.AnnualPrepayment <= 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("Prepaying %s every year on %s saves %s in interest and %d months",
			format.Currency(result.Parameters.AnnualPrepayment), result.Name,
			format.Currency(result.InterestSaved), result.MonthsSaved))
	}
	if len(lines) == 0 {
		return PrepaymentTip
	}
	return strings.Join(lines, "\n")
}

// Notes returns the summary lines printed below a comparison.
func Notes(results []Result) []string {
	if len(results) == 0 {
		return nil
	}

	var notes []string
	if best, ok := Cheapest(results); ok && len(results) > 1 {
		notes = append(notes, fmt.Sprintf("%s has the lowest total interest at %s",
			best.Name, format.Currency(best.Summary.TotalInterest)))
	}
	return append(notes, strings.Split(Tip(results), "\n")...)
}
