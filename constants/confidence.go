package constants

// ConfidenceLevel is the qualitative band for a confidence score.
type ConfidenceLevel string

// Stable values (these exact strings appear in reports and exports).
const (
	ConfidenceHigh    ConfidenceLevel = "High"
	ConfidenceMedium  ConfidenceLevel = "Medium"
	ConfidenceLow     ConfidenceLevel = "Low"
	ConfidenceVeryLow ConfidenceLevel = "Very Low"
)

// ValidationStatus is the binary outcome of a strict validation pass.
type ValidationStatus string

const (
	StatusPass ValidationStatus = "pass"
	StatusFail ValidationStatus = "fail"
)
