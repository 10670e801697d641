package integration

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/internal/config"
	"github.com/iwvelando/emi-compare/pkg/loans"
	"github.com/iwvelando/emi-compare/pkg/output"
	"github.com/iwvelando/emi-compare/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func loadAndCompare(t *testing.T, path string) []comparison.Result {
	t.Helper()

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := comparison.Compare(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	return results
}

// TestMainIntegrationBaseline runs the test configuration exactly as main()
// does and checks the headline figures.
func TestMainIntegrationBaseline(t *testing.T) {
	results := loadAndCompare(t, testConfigPath)

	if len(results) != 2 {
		t.Fatalf("Expected 2 loans, got %d", len(results))
	}

	baselineChecks := []struct {
		loan             string
		emi              float64
		months           int
		totalInterest    float64
		baselineMonths   int
		baselineInterest float64
	}{
		{"Loan A", 1187.02, 120, 42442.12, 120, 42442.12},
		{"Loan B", 1466.67, 85, 38433.65, 119, 54039.27},
	}

	for _, check := range baselineChecks {
		result := testutil.FindResult(results, check.loan)
		if result == nil {
			t.Errorf("Loan %s not found", check.loan)
			continue
		}
		if math.Abs(result.Payment-check.emi) > 0.01 {
			t.Errorf("%s: EMI = %.4f, expected %.2f", check.loan, result.Payment, check.emi)
		}
		if result.Summary.Months != check.months {
			t.Errorf("%s: months = %d, expected %d", check.loan, result.Summary.Months, check.months)
		}
		if math.Abs(result.Summary.TotalInterest-check.totalInterest) > 0.01 {
			t.Errorf("%s: total interest = %.4f, expected %.2f", check.loan, result.Summary.TotalInterest, check.totalInterest)
		}
		if result.Baseline.Months != check.baselineMonths {
			t.Errorf("%s: baseline months = %d, expected %d", check.loan, result.Baseline.Months, check.baselineMonths)
		}
		if math.Abs(result.Baseline.TotalInterest-check.baselineInterest) > 0.01 {
			t.Errorf("%s: baseline interest = %.4f, expected %.2f", check.loan, result.Baseline.TotalInterest, check.baselineInterest)
		}
		if !result.Summary.PaidOff {
			t.Errorf("%s: expected loan to be paid off", check.loan)
		}
	}
}

func TestScheduleInvariants(t *testing.T) {
	for _, result := range loadAndCompare(t, testConfigPath) {
		previous := result.Parameters.Principal
		for i, record := range result.Schedule {
			if record.Period != i+1 {
				t.Fatalf("%s: record %d has period %d", result.Name, i, record.Period)
			}
			if record.Payment != result.Payment {
				t.Fatalf("%s: period %d payment %v differs from EMI %v", result.Name, record.Period, record.Payment, result.Payment)
			}
			if math.Abs(record.Principal+record.Interest-record.Payment) > 1e-9 {
				t.Fatalf("%s: period %d split does not add up", result.Name, record.Period)
			}
			if record.RemainingBalance < 0 {
				t.Fatalf("%s: period %d has negative balance", result.Name, record.Period)
			}
			if record.RemainingBalance > previous {
				t.Fatalf("%s: period %d balance increased", result.Name, record.Period)
			}
			previous = record.RemainingBalance
		}
		for _, record := range result.Schedule[:len(result.Schedule)-1] {
			if record.RemainingBalance == 0 {
				t.Fatalf("%s: schedule continues after payoff at period %d", result.Name, record.Period)
			}
		}
	}
}

func TestCSVOutputFormat(t *testing.T) {
	results := loadAndCompare(t, testConfigPath)

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if want := 1 + 120 + 85; len(lines) != want {
		t.Fatalf("Expected %d CSV lines, got %d", want, len(lines))
	}

	for i, line := range lines {
		if fields := strings.Count(line, `","`) + 1; fields != 6 {
			t.Fatalf("Line %d has %d fields: %q", i+1, fields, line)
		}
	}

	if lines[len(lines)-1] != `"Loan B","85","1466.67","1465.12","1.55","0.00"` {
		t.Errorf("Unexpected last CSV line %q", lines[len(lines)-1])
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	results := loadAndCompare(t, testConfigPath)

	var buf bytes.Buffer
	if err := output.PrettyFormat(&buf, results); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"--- Results for loan Loan A ---",
		"--- Results for loan Loan B ---",
		"EMI for Loan A: $1,187.02",
		"EMI for Loan B: $1,466.67",
		"Method: Reducing Balance",
		"Loan B has the lowest total interest at $38,433.65",
		"Prepaying $5,000.00 every year on Loan B saves $15,605.62 in interest and 34 months",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Pretty output missing %q", want)
		}
	}
}

func TestJSONOutputFormat(t *testing.T) {
	results := loadAndCompare(t, testConfigPath)

	var buf bytes.Buffer
	if err := output.JSONFormat(&buf, results); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []comparison.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, results) {
		t.Errorf("Decoded JSON results differ from computed results")
	}
}

func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings for the test configuration, got %v", warnings)
	}

	conf.Loans[0].Principal = 900000
	conf.Loans[1].Name = conf.Loans[0].Name
	warnings := conf.ValidateConfiguration()
	if len(warnings) < 2 {
		t.Errorf("Expected range and duplicate-name warnings, got %v", warnings)
	}
}

func TestDataConsistency(t *testing.T) {
	first := loadAndCompare(t, testConfigPath)
	for i := 0; i < 5; i++ {
		again := loadAndCompare(t, testConfigPath)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d produced different results", i+2)
		}
	}
}

func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name   string
		loan   config.Loan
		months int
	}{
		{"zero interest", config.Loan{Principal: 12000, InterestRate: 0, TenureYears: 1}, 12},
		{"maximum bounds", config.Loan{Principal: 500000, InterestRate: 20, TenureYears: 30}, 360},
		{"minimum bounds", config.Loan{Principal: 1000, InterestRate: 1, TenureYears: 1}, 12},
		{"prepayment clears at first anniversary", config.Loan{Principal: 10000, InterestRate: 5, TenureYears: 5, AnnualPrepayment: 20000}, 12},
		{"flat method", config.Loan{Principal: 50000, InterestRate: 10, TenureYears: 5, Method: "reducing-balance"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.Configuration{Loans: []config.Loan{tt.loan}}
			conf.ApplyDefaults()

			results, err := comparison.Compare(zap.NewNop(), conf)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			result := results[0]

			if tt.months > 0 && result.Summary.Months != tt.months {
				t.Errorf("Expected %d months, got %d", tt.months, result.Summary.Months)
			}
			if result.Summary.Months > tt.loan.TenureYears*12 {
				t.Errorf("Schedule longer than the nominal term: %d", result.Summary.Months)
			}
			if result.Parameters.Method == loans.ReducingBalance && result.Summary.Months >= tt.loan.TenureYears*12 {
				t.Errorf("Flat payment should close the loan early, ran %d months", result.Summary.Months)
			}
		})
	}
}
