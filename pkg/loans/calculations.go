// Package loans provides EMI and amortization schedule calculations.
package loans

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/mathutil"
)

// MaxTenureYears is the largest tenure whose period count fits in an int.
const MaxTenureYears = math.MaxInt / constants.MonthsPerYear

// ErrInvalidParameter is returned when loan parameters violate the calculation
// contract (non-positive principal or tenure, negative rate or prepayment).
var ErrInvalidParameter = errors.New("invalid loan parameter")

// Method selects the formula used to compute the periodic payment.
type Method int

const (
	// FixedRate is the standard amortizing annuity.
	FixedRate Method = iota
	// ReducingBalance charges interest on the original principal every
	// period. Despite the label it is a flat-interest approximation and not a
	// declining-balance calculation; the formula is kept as-is because every
	// published figure depends on it.
	ReducingBalance
)

// String returns the display label for the method.
func (m Method) String() string {
	switch m {
	case FixedRate:
		return "Fixed Rate"
	case ReducingBalance:
		return "Reducing Balance"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a label such as "Fixed Rate" or "reducing-balance"
// into a Method. An empty string selects FixedRate.
func ParseMethod(s string) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	switch normalized {
	case "", "fixed", "fixed rate":
		return FixedRate, nil
	case "reducing", "reducing balance":
		return ReducingBalance, nil
	default:
		return FixedRate, fmt.Errorf("%w: unknown method %q", ErrInvalidParameter, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parameters holds the inputs for a single loan.
type Parameters struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureYears       int     `json:"tenureYears"`
	Method            Method  `json:"method"`
	AnnualPrepayment  float64 `json:"annualPrepayment"`
}

// Record holds the values for a given period of the schedule.
type Record struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principalPaid"`
	Interest         float64 `json:"interestPaid"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Schedule is the ordered sequence of records produced by BuildSchedule.
type Schedule []Record

// Summary aggregates a schedule.
type Summary struct {
	Months         int     `json:"months"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalInterest  float64 `json:"totalInterest"`
	FinalBalance   float64 `json:"finalBalance"`
	PaidOff        bool    `json:"paidOff"`
}

// MonthlyRate converts an annual percentage rate into the periodic rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.MonthsPerYear * constants.PercentageMultiplier)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(balance, annualRatePercent float64) float64 {
	return balance * MonthlyRate(annualRatePercent)
}

// ComputePayment calculates the periodic payment (EMI) for a loan.
func ComputePayment(principal, annualRatePercent float64, tenureYears int, method Method) (float64, error) {
	if err := validateTerms(principal, annualRatePercent, tenureYears); err != nil {
		return 0, err
	}

	monthlyRate := MonthlyRate(annualRatePercent)
	months := float64(tenureYears * constants.MonthsPerYear)

	switch method {
	case FixedRate:
		if monthlyRate == 0 {
			// The annuity formula is 0/0 here; a zero-interest loan is a
			// straight-line split of the principal.
			return principal / months, nil
		}
		growth := math.Pow(1+monthlyRate, months)
		if growth == 1 {
			// Rate too small to register in float64 arithmetic.
			return principal / months, nil
		}
		return principal * monthlyRate * growth / (growth - 1), nil
	case ReducingBalance:
		return principal/months + principal*monthlyRate, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %d", ErrInvalidParameter, int(method))
	}
}

// BuildSchedule simulates the loan month by month using the given payment,
// applying annualPrepayment after the regular payment of every 12th period.
// The schedule stops at the first period whose remaining balance reaches zero.
//
// The terminal record keeps the split of the regular payment; it is not
// reduced to the smaller amount that would have closed the balance exactly.
// A payment below the accrued interest grows the balance and runs the full
// term.
func BuildSchedule(principal, annualRatePercent float64, tenureYears int, payment, annualPrepayment float64) (Schedule, error) {
	if err := validateTerms(principal, annualRatePercent, tenureYears); err != nil {
		return nil, err
	}
	if math.IsNaN(annualPrepayment) || math.IsInf(annualPrepayment, 0) || annualPrepayment < 0 {
		return nil, fmt.Errorf("%w: annual prepayment must be non-negative, got %v", ErrInvalidParameter, annualPrepayment)
	}
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return nil, fmt.Errorf("%w: payment must be finite, got %v", ErrInvalidParameter, payment)
	}

	totalMonths := tenureYears * constants.MonthsPerYear
	schedule := make(Schedule, 0, totalMonths)

	balance := principal
	for period := 1; period <= totalMonths; period++ {
		interest := CalculateInterestPayment(balance, annualRatePercent)
		principalPortion := payment - interest
		balance -= principalPortion

		if annualPrepayment > 0 && period%constants.PrepaymentInterval == 0 {
			balance -= annualPrepayment
		}
		if balance < 0 {
			balance = 0
		}

		schedule = append(schedule, Record{
			Period:           period,
			Payment:          payment,
			Principal:        principalPortion,
			Interest:         interest,
			RemainingBalance: balance,
		})

		if balance == 0 {
			break
		}
	}

	return schedule, nil
}

// Validate checks every parameter against the calculation contract.
func (p Parameters) Validate() error {
	if err := validateTerms(p.Principal, p.AnnualRatePercent, p.TenureYears); err != nil {
		return err
	}
	if math.IsNaN(p.AnnualPrepayment) || math.IsInf(p.AnnualPrepayment, 0) || p.AnnualPrepayment < 0 {
		return fmt.Errorf("%w: annual prepayment must be non-negative, got %v", ErrInvalidParameter, p.AnnualPrepayment)
	}
	if p.Method != FixedRate && p.Method != ReducingBalance {
		return fmt.Errorf("%w: unknown method %d", ErrInvalidParameter, int(p.Method))
	}
	return nil
}

// Payment computes the EMI for the parameters.
func (p Parameters) Payment() (float64, error) {
	return ComputePayment(p.Principal, p.AnnualRatePercent, p.TenureYears, p.Method)
}

// Schedule computes the EMI and the resulting amortization schedule.
func (p Parameters) Schedule() (float64, Schedule, error) {
	if err := p.Validate(); err != nil {
		return 0, nil, err
	}
	payment, err := p.Payment()
	if err != nil {
		return 0, nil, err
	}
	schedule, err := BuildSchedule(p.Principal, p.AnnualRatePercent, p.TenureYears, payment, p.AnnualPrepayment)
	if err != nil {
		return 0, nil, err
	}
	return payment, schedule, nil
}

// Months returns the nominal number of periods.
func (p Parameters) Months() int {
	return p.TenureYears * constants.MonthsPerYear
}

// Summarize totals a schedule. TotalPaid only counts the regular payments.
func Summarize(schedule Schedule) Summary {
	var summary Summary
	summary.Months = len(schedule)
	for _, record := range schedule {
		summary.TotalPaid += record.Payment
		summary.TotalPrincipal += record.Principal
		summary.TotalInterest += record.Interest
	}
	if len(schedule) > 0 {
		summary.FinalBalance = schedule[len(schedule)-1].RemainingBalance
		summary.PaidOff = mathutil.IsZero(summary.FinalBalance)
	}
	return summary
}

// PrepaymentTotal returns the sum of the annual prepayments scheduled within
// the emitted periods.
func PrepaymentTotal(schedule Schedule, annualPrepayment float64) float64 {
	if annualPrepayment <= 0 {
		return 0
	}
	count := 0
	for _, record := range schedule {
		if record.Period%constants.PrepaymentInterval == 0 {
			count++
		}
	}
	return float64(count) * annualPrepayment
}

// Balances returns the remaining balance of each period in order.
func (s Schedule) Balances() []float64 {
	balances := make([]float64, len(s))
	for i, record := range s {
		balances[i] = record.RemainingBalance
	}
	return balances
}

func validateTerms(principal, annualRatePercent float64, tenureYears int) error {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidParameter, principal)
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return fmt.Errorf("%w: annual rate must be non-negative, got %v", ErrInvalidParameter, annualRatePercent)
	}
	if tenureYears <= 0 {
		return fmt.Errorf("%w: tenure must be positive, got %d years", ErrInvalidParameter, tenureYears)
	}
	if tenureYears > MaxTenureYears {
		return fmt.Errorf("%w: tenure of %d years overflows the period count", ErrInvalidParameter, tenureYears)
	}
	return nil
}
