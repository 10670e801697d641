// Package chart renders the remaining balance of compared loans as an
// interactive HTML line chart.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/pkg/mathutil"
)

const (
	Title      = "Remaining Loan Balance Over Time"
	XAxisTitle = "Months"
	YAxisTitle = "Remaining Balance ($)"
)

// ErrNoResults is returned when there is nothing to plot.
var ErrNoResults = errors.New("no results to chart")

// Palette holds the series colours in order; loans past the end wrap around.
var Palette = []string{"cyan", "magenta", "#fac858", "#91cc75", "#ee6666", "#73c0de", "#fc8452", "#9a60b4"}

// SeriesName returns the legend label for a loan.
func SeriesName(loanName string) string {
	return fmt.Sprintf("%s Balance", loanName)
}

// BalanceChart builds a line chart with one remaining-balance series per
// loan. The x axis spans the longest schedule.
func BalanceChart(results []comparison.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Theme:     types.ThemeChalk,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: YAxisTitle}),
	)

	months := 0
	for _, result := range results {
		if len(result.Schedule) > months {
			months = len(result.Schedule)
		}
	}
	axis := make([]int, months)
	for i := range axis {
		axis[i] = i + 1
	}
	line.SetXAxis(axis)

	for i, result := range results {
		balances := result.Schedule.Balances()
		data := make([]opts.LineData, len(balances))
		for j, balance := range balances {
			data[j] = opts.LineData{Value: mathutil.Round(balance)}
		}
		color := Palette[i%len(Palette)]
		line.AddSeries(SeriesName(result.Name), data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}

	return line
}

// RenderBalanceChart writes the balance chart for results to w as a
// standalone HTML page.
func RenderBalanceChart(w io.Writer, results []comparison.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}
	return BalanceChart(results).Render(w)
}
