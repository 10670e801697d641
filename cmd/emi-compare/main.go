package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/internal/config"
	"github.com/iwvelando/emi-compare/internal/logging"
	"github.com/iwvelando/emi-compare/pkg/chart"
	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/export"
	"github.com/iwvelando/emi-compare/pkg/output"
	"github.com/iwvelando/emi-compare/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	chartFile := flag.String("chart", "", "write the remaining balance chart as HTML to this file")
	xlsxFile := flag.String("xlsx", "", "write the comparison workbook to this file")
	pdfFile := flag.String("pdf", "", "write the comparison report to this file")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Compute the EMI and amortization schedule of every loan.
	results, err := comparison.Compare(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute comparison",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, results)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, results)
	}
	if err != nil {
		logger.Fatal("failed to write results",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	files := []struct {
		path  string
		kind  string
		write func(io.Writer, []comparison.Result) error
	}{
		{*chartFile, "chart", chart.RenderBalanceChart},
		{*xlsxFile, "workbook", export.WriteXLSX},
		{*pdfFile, "report", export.WritePDF},
	}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		if err := writeFile(file.path, results, file.write); err != nil {
			logger.Fatal(fmt.Sprintf("failed to write %s", file.kind),
				zap.String("op", "main"),
				zap.String("path", file.path),
				zap.Error(err),
			)
		}
		logger.Info(fmt.Sprintf("wrote %s", file.kind),
			zap.String("op", "main"),
			zap.String("path", file.path),
		)
	}
}

func writeFile(path string, results []comparison.Result, write func(io.Writer, []comparison.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
