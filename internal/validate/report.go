package validate

import (
	"docqc/constants"
)

// StrictReport is the binary pass/fail outcome. Reports are pure outputs and
// are never fed back into the record.
type StrictReport struct {
	Status        constants.ValidationStatus `json:"status"`
	ValidFields   []string                   `json:"valid_fields,omitempty"`
	InvalidFields map[string]string          `json:"invalid_fields"`
	LogicalChecks []string                   `json:"logical_checks"`
}

// ScoredReport is the warn-and-score outcome: field and consistency problems
// as errors/warnings plus a weighted confidence estimate in [0,1].
type ScoredReport struct {
	Valid           bool                      `json:"valid"`
	Errors          []string                  `json:"errors"`
	Warnings        []string                  `json:"warnings"`
	Confidence      float64                   `json:"confidence"`
	ConfidenceLevel constants.ConfidenceLevel `json:"confidence_level"`
}

func (p Policy) levelFor(score float64) constants.ConfidenceLevel {
	switch {
	case score >= p.Bands.High:
		return constants.ConfidenceHigh
	case score >= p.Bands.Medium:
		return constants.ConfidenceMedium
	case score >= p.Bands.Low:
		return constants.ConfidenceLow
	default:
		return constants.ConfidenceVeryLow
	}
}
