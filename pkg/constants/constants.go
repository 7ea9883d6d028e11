// Package constants provides shared constants for the savings-forecast application.
package constants

// Projection constants
const (
	// ProjectionMonths is the number of months projected ahead of month 0.
	ProjectionMonths = 12

	// MidpointMonth is the month whose balance is shown as the mid-point value.
	MidpointMonth = 6

	// DaysPerMonth is the average month length (365/12) used for daily-rate accrual.
	DaysPerMonth = "30.41666667"

	// DailyRateDivisor turns an annual percent rate into a daily fraction (365 * 100).
	DailyRateDivisor = 36500

	// SimpleInterestDivisor turns rate * month into a fraction of a year (12 * 100).
	SimpleInterestDivisor = 1200

	// HoursPerMonth is the number of hours in an average month.
	HoursPerMonth = 730

	// SliderSteps is the number of discrete steps on the allocation slider.
	SliderSteps = 20

	// SliderEpsilon keeps the slider fraction finite when the delta is tiny.
	SliderEpsilon = "0.001"
)

// Precision constants
const (
	// ConversionPrecision is the number of decimal places kept after a currency conversion.
	ConversionPrecision = 3

	// HeadlineRounding is the granularity headline figures are rounded to.
	HeadlineRounding = 10

	// PercentageMultiplier converts a fraction into a percentage.
	PercentageMultiplier = 100

	// ConversionTolerance is the tolerance for round-trip conversion comparisons.
	ConversionTolerance = 0.001
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

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys.
	EnvPrefix = "SAVINGS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestsPerSecond is the default sustained request rate of the API.
	DefaultRequestsPerSecond = 20.0

	// DefaultRequestBurst is the default burst size of the API rate limiter.
	DefaultRequestBurst = 40

	// DefaultCacheTTLSeconds is how long computed forecasts stay memoized.
	DefaultCacheTTLSeconds = 300
)
