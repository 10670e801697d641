// Package export writes comparison results as spreadsheet and PDF documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the first worksheet of the workbook.
const SummarySheet = "Comparison"

// Built-in number format "#,##0.00".
const moneyNumFmt = 4

// maxSheetNameLength is the limit Excel places on worksheet names.
const maxSheetNameLength = 31

// ErrNoResults is returned when there is nothing to export.
var ErrNoResults = errors.New("no results to export")

// SummaryHeader is the header row of the summary sheet.
var SummaryHeader = []interface{}{
	"Loan", "Method", "Principal", "Rate (%)", "Tenure (years)", "Annual Prepayment",
	"EMI", "Months", "Total Paid", "Total Interest", "Prepayments", "Interest Saved", "Months Saved",
}

// Summary columns holding currency amounts.
var moneyColumns = []string{"C", "F", "G", "I", "J", "K", "L"}

// ScheduleHeader is the header row of every loan sheet.
var ScheduleHeader = []interface{}{"Month", "EMI", "Principal Paid", "Interest Paid", "Remaining Balance"}

// WriteXLSX writes a workbook with a summary sheet followed by one schedule
// sheet per loan.
func WriteXLSX(w io.Writer, results []comparison.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return err
	}

	if err := writeRow(f, SummarySheet, 1, SummaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "M1", header); err != nil {
		return err
	}
	for i, result := range results {
		params := result.Parameters
		row := []interface{}{
			result.Name,
			params.Method.String(),
			mathutil.Round(params.Principal),
			params.AnnualRatePercent,
			params.TenureYears,
			mathutil.Round(params.AnnualPrepayment),
			mathutil.Round(result.Payment),
			result.Summary.Months,
			mathutil.Round(result.Summary.TotalPaid),
			mathutil.Round(result.Summary.TotalInterest),
			mathutil.Round(result.Prepayments),
			mathutil.Round(result.InterestSaved),
			result.MonthsSaved,
		}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	for _, col := range moneyColumns {
		if err := f.SetCellStyle(SummarySheet, col+"2", fmt.Sprintf("%s%d", col, len(results)+1), money); err != nil {
			return err
		}
	}

	used := map[string]bool{strings.ToLower(SummarySheet): true}
	for i, result := range results {
		sheet := SheetName(result.Name, i, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet for loan %s: %w", result.Name, err)
		}
		if err := writeRow(f, sheet, 1, ScheduleHeader); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "E1", header); err != nil {
			return err
		}
		for j, record := range result.Schedule {
			row := []interface{}{
				record.Period,
				mathutil.Round(record.Payment),
				mathutil.Round(record.Principal),
				mathutil.Round(record.Interest),
				mathutil.Round(record.RemainingBalance),
			}
			if err := writeRow(f, sheet, j+2, row); err != nil {
				return err
			}
		}
		if len(result.Schedule) > 0 {
			if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("E%d", len(result.Schedule)+1), money); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

// SheetName derives a worksheet name for the loan at position i that Excel
// accepts and that is not yet in used. The chosen name is added to used.
func SheetName(loanName string, i int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(loanName))
	name = strings.Trim(truncate(name, maxSheetNameLength), "'")
	if name == "" {
		name = fmt.Sprintf("Loan %d", i+1)
	}

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = strings.TrimRight(truncate(name, maxSheetNameLength-len(suffix)), " ") + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
