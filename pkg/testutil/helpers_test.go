package testutil

import (
	"fmt"
	"testing"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/pkg/loans"
)

func TestFindResult(t *testing.T) {
	results := []comparison.Result{
		{Name: "Loan A", Payment: 1000.00},
		{Name: "Loan B", Payment: 2000.00},
		{Name: "Another Loan", Payment: 3000.00},
	}

	tests := []struct {
		name            string
		searchName      string
		expectFound     bool
		expectedPayment float64
	}{
		{
			name:            "Find existing loan A",
			searchName:      "Loan A",
			expectFound:     true,
			expectedPayment: 1000.00,
		},
		{
			name:            "Find existing loan B",
			searchName:      "Loan B",
			expectFound:     true,
			expectedPayment: 2000.00,
		},
		{
			name:            "Find loan with longer name",
			searchName:      "Another Loan",
			expectFound:     true,
			expectedPayment: 3000.00,
		},
		{
			name:        "Search for non-existent loan",
			searchName:  "Non-existent",
			expectFound: false,
		},
		{
			name:        "Empty search name",
			searchName:  "",
			expectFound: false,
		},
		{
			name:        "Case sensitive search",
			searchName:  "loan a",
			expectFound: false,
		},
		{
			name:        "Partial name match",
			searchName:  "Loan",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindResult(results, tt.searchName)

			if tt.expectFound {
				if result == nil {
					t.Errorf("FindResult() expected to find loan '%s' but got nil", tt.searchName)
					return
				}
				if result.Name != tt.searchName {
					t.Errorf("FindResult() returned loan with name '%s', expected '%s'",
						result.Name, tt.searchName)
				}
				if result.Payment != tt.expectedPayment {
					t.Errorf("FindResult() returned loan with payment %v, expected %v",
						result.Payment, tt.expectedPayment)
				}
			} else if result != nil {
				t.Errorf("FindResult() expected nil for loan '%s' but got result with name '%s'",
					tt.searchName, result.Name)
			}
		})
	}
}

func TestFindResultEmptyAndNil(t *testing.T) {
	if result := FindResult([]comparison.Result{}, "Any Loan"); result != nil {
		t.Errorf("FindResult() with empty results should return nil, got %v", result)
	}
	if result := FindResult(nil, "Any Loan"); result != nil {
		t.Errorf("FindResult() with nil results should return nil, got %v", result)
	}
}

func TestFindResultReturnsPointer(t *testing.T) {
	results := []comparison.Result{{Name: "Test Loan", Payment: 1000.00}}

	found := FindResult(results, "Test Loan")
	if found == nil {
		t.Fatalf("FindResult() returned nil")
	}
	if &results[0] != found {
		t.Errorf("FindResult() should return pointer to original element")
	}

	found.Payment = 2000.00
	if results[0].Payment != 2000.00 {
		t.Errorf("Modifying through returned pointer should modify original")
	}
}

func TestFindResultWithDuplicateNames(t *testing.T) {
	results := []comparison.Result{
		{Name: "Duplicate", Payment: 1000.00},
		{Name: "Duplicate", Payment: 2000.00},
	}

	found := FindResult(results, "Duplicate")
	if found == nil {
		t.Fatalf("FindResult() returned nil")
	}
	if found.Payment != 1000.00 {
		t.Errorf("FindResult() should return first match, got payment %v", found.Payment)
	}
}

func TestFindResultLargeSlice(t *testing.T) {
	const numLoans = 1000
	results := make([]comparison.Result, numLoans)
	for i := 0; i < numLoans; i++ {
		results[i] = comparison.Result{
			Name:    fmt.Sprintf("Loan %d", i),
			Payment: float64(i * 100),
		}
	}

	found := FindResult(results, "Loan 500")
	if found == nil {
		t.Fatalf("FindResult() should find 'Loan 500' in large slice")
	}
	if found.Payment != 50000.00 {
		t.Errorf("FindResult() returned wrong payment: got %v, expected 50000.00", found.Payment)
	}
}

func TestDefaultConfiguration(t *testing.T) {
	conf := DefaultConfiguration()

	if len(conf.Loans) != 2 {
		t.Fatalf("DefaultConfiguration() has %d loans, expected 2", len(conf.Loans))
	}
	if conf.Loans[0].Name != "Loan A" || conf.Loans[1].Name != "Loan B" {
		t.Errorf("DefaultConfiguration() loan names = %q, %q", conf.Loans[0].Name, conf.Loans[1].Name)
	}

	params, err := conf.Loans[0].ToParameters()
	if err != nil {
		t.Fatalf("ToParameters() error = %v", err)
	}
	if params.Method != loans.FixedRate {
		t.Errorf("default method = %v, expected %v", params.Method, loans.FixedRate)
	}
}
