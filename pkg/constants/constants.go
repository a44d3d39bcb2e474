// Package constants provides shared constants for the payopt application.
package constants

// PointsMethodID is the reserved payment method id designating the
// loyalty-points method. It must match between the orders file and the
// payment methods file.
const PointsMethodID = "PUNKTY"

// Discount and rounding constants
const (
	// PartialPointsDiscountPercent is the order-wide discount granted when
	// at least MinPointsSharePercent of an order is paid with points.
	PartialPointsDiscountPercent = 10

	// MinPointsSharePercent is the minimum share of an order's face value
	// that must be paid with points to qualify for the partial discount.
	MinPointsSharePercent = 10

	// AmountScale is the number of decimal places amounts are expressed in.
	AmountScale = 2

	// RatioScale is the number of decimal places used when comparing
	// discount-to-value ratios during prioritization.
	RatioScale = 4
)

// Output format constants
const (
	// OutputFormatReport is the plain "methodId amount" report format.
	OutputFormatReport = "report"

	// OutputFormatPretty is the human-readable table format.
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format.
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default application configuration file name.
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name.
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address.
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size for
	// uploaded order and payment method sets (256 KB).
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
