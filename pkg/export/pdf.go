package export

import (
	"fmt"
	"io"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/pkg/format"
	"github.com/phpdave11/gofpdf"
)

// ReportTitle is the heading of the PDF report.
const ReportTitle = "Loan EMI Comparison"

var scheduleColumnWidths = []float64{20, 35, 40, 40, 45}

// WritePDF writes a report with the EMI comparison, the per-loan summaries
// and every amortization schedule.
func WritePDF(w io.Writer, results []comparison.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreator("emi-compare", true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, ReportTitle)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, result := range results {
		pdf.Cell(0, 6, tr(fmt.Sprintf("EMI for %s: %s", result.Name, format.Currency(result.Payment))))
		pdf.Ln(6)
	}
	pdf.Ln(2)
	for _, note := range comparison.Notes(results) {
		pdf.MultiCell(0, 6, tr(note), "", "L", false)
	}

	for _, result := range results {
		params := result.Parameters
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 8, tr(result.Name))
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "", 11)
		lines := []string{
			fmt.Sprintf("Method: %s", params.Method),
			fmt.Sprintf("Principal: %s", format.Currency(params.Principal)),
			fmt.Sprintf("Annual rate: %s", format.Percent(params.AnnualRatePercent)),
			fmt.Sprintf("Tenure: %d years (%d months)", params.TenureYears, params.Months()),
			fmt.Sprintf("Annual prepayment: %s", format.Currency(params.AnnualPrepayment)),
			fmt.Sprintf("EMI: %s", format.Currency(result.Payment)),
			fmt.Sprintf("Months: %d", result.Summary.Months),
			fmt.Sprintf("Total paid: %s", format.Currency(result.Summary.TotalPaid)),
			fmt.Sprintf("Total interest: %s", format.Currency(result.Summary.TotalInterest)),
		}
		if params.AnnualPrepayment > 0 {
			lines = append(lines,
				fmt.Sprintf("Prepayments: %s", format.Currency(result.Prepayments)),
				fmt.Sprintf("Interest saved: %s", format.Currency(result.InterestSaved)),
				fmt.Sprintf("Months saved: %d", result.MonthsSaved),
			)
		}
		for _, line := range lines {
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(4)

		writeScheduleHeader(pdf)
		pdf.SetFont("Helvetica", "", 9)
		for _, record := range result.Schedule {
			if pdf.GetY() > 276 {
				pdf.AddPage()
				writeScheduleHeader(pdf)
				pdf.SetFont("Helvetica", "", 9)
			}
			cells := []string{
				fmt.Sprintf("%d", record.Period),
				format.NumericCurrency(record.Payment),
				format.NumericCurrency(record.Principal),
				format.NumericCurrency(record.Interest),
				format.NumericCurrency(record.RemainingBalance),
			}
			for i, cell := range cells {
				pdf.CellFormat(scheduleColumnWidths[i], 5, cell, "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func writeScheduleHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, title := range ScheduleHeader {
		pdf.CellFormat(scheduleColumnWidths[i], 6, title.(string), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
