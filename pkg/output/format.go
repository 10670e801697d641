// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []comparison.Result) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	for i, result := range results {
		params := result.Parameters
		ew.printf(p, "--- Results for loan %s ---\n", result.Name)
		ew.printf(p, "EMI for %s: $%.2f\n", result.Name, result.Payment)
		ew.printf(p, "Method: %s | Principal: $%.2f | Rate: %.2f%% | Tenure: %d years | Annual prepayment: $%.2f\n",
			params.Method, params.Principal, params.AnnualRatePercent, params.TenureYears, params.AnnualPrepayment)
		ew.printf(p, "Months: %d | Total paid: $%.2f | Total interest: $%.2f | Prepaid: $%.2f\n",
			result.Summary.Months, result.Summary.TotalPaid, result.Summary.TotalInterest, result.Prepayments)
		if result.MonthsSaved > 0 || result.InterestSaved > 0 {
			ew.printf(p, "Saved by prepaying: $%.2f interest, %d months\n", result.InterestSaved, result.MonthsSaved)
		}
		ew.printf(p, "Month | EMI | Principal Paid | Interest Paid | Remaining Balance\n")
		ew.printf(p, "_____ | ___ | ______________ | _____________ | _________________\n")
		for _, record := range result.Schedule {
			ew.printf(p, "%d | $%.2f | $%.2f | $%.2f | $%.2f\n",
				record.Period, record.Payment, record.Principal, record.Interest, record.RemainingBalance)
		}
		if i < len(results)-1 {
			ew.printf(p, "\n")
		}
	}

	if notes := comparison.Notes(results); len(notes) > 0 {
		ew.printf(p, "\n--- Summary ---\n")
		for _, note := range notes {
			ew.printf(p, "%s\n", note)
		}
	}

	return ew.err
}

// CsvFormat outputs in comma-separated value format, one row per loan and
// month.
func CsvFormat(w io.Writer, results []comparison.Result) error {
	ew := &errWriter{w: w}
	ew.printf(nil, `"loan","month","emi","principal paid","interest paid","remaining balance"`+"\n")
	for _, result := range results {
		name := strings.ReplaceAll(result.Name, `"`, `""`)
		for _, record := range result.Schedule {
			ew.printf(nil, `"%s","%d","%.2f","%.2f","%.2f","%.2f"`+"\n",
				name, record.Period, record.Payment, record.Principal, record.Interest, record.RemainingBalance)
		}
	}
	return ew.err
}

// CsvString returns the CsvFormat output as a string.
func CsvString(results []comparison.Result) string {
	var sb strings.Builder
	// Writes to a strings.Builder never fail.
	_ = CsvFormat(&sb, results)
	return sb.String()
}

// JSONFormat outputs the results as indented JSON.
func JSONFormat(w io.Writer, results []comparison.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if results == nil {
		results = []comparison.Result{}
	}
	return encoder.Encode(results)
}

// errWriter keeps the first write error so the formatters can print
// unconditionally and check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(p *message.Printer, format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	if p != nil {
		_, ew.err = p.Fprintf(ew.w, format, args...)
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
