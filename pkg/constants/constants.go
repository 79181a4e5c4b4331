// Package constants provides shared constants for the stock-planner application.
package constants

// Volume and pricing constants
const (
	// LitersPerPriceUnit is the volume a quoted price covers (prices are per 1000 L)
	LitersPerPriceUnit = 1000.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// VolumeTolerance is the tolerance for liter comparisons
	VolumeTolerance = 1e-6
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultDataDir is the default directory holding the farm state file
	DefaultDataDir = "data"

	// StateFileName is the name of the persisted farm state file
	StateFileName = "stock_planner_state.json"
)

// Locale constants
const (
	// DefaultLocale is the language used for product names when none is configured
	DefaultLocale = "en"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
