// Package constants provides shared constants for the emi-compare application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PrepaymentInterval is the number of periods between annual prepayments
	PrepaymentInterval = 12

	// CurrencyPlaces is the number of decimal places kept for currency values
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimit is the default number of requests per second allowed per client
	DefaultRateLimit = 5.0

	// DefaultRateBurst is the default burst size for the per-client limiter
	DefaultRateBurst = 10
)

// Loan form bounds. Values outside of these ranges are still computed but
// produce configuration warnings.
const (
	MinPrincipal   = 1000.0
	MaxPrincipal   = 500000.0
	MinRatePercent = 1.0
	MaxRatePercent = 20.0
	MinTenureYears = 1
	MaxTenureYears = 30
)

// LimitTenureYears is the longest tenure accepted from a configuration. Longer
// loans are rejected outright since each month becomes a schedule record.
const LimitTenureYears = 100

// Defaults used when a configuration declares no loans.
const (
	DefaultLoanAPrincipal   = 100000.0
	DefaultLoanARate        = 7.5
	DefaultLoanATenureYears = 10

	DefaultLoanBPrincipal   = 120000.0
	DefaultLoanBRate        = 8.0
	DefaultLoanBTenureYears = 15
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
