package validate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights blend the confidence components. They should sum to 1; the scorer
// does not renormalize a deliberately skewed policy.
type Weights struct {
	Required   float64 `yaml:"required_fields"`
	Important  float64 `yaml:"important_fields"`
	Logical    float64 `yaml:"logical_checks"`
	FieldCount float64 `yaml:"field_count"`
}

// Bands are the lower bounds of the qualitative confidence levels. Scores
// below Low are Very Low.
type Bands struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
	Low    float64 `yaml:"low"`
}

// Policy carries the tunable parameters of validation. The defaults mirror
// the upstream extraction conventions; none of them is a correctness
// requirement, so they are configuration rather than constants.
type Policy struct {
	// Tolerance absorbs floating-point and rounding noise in arithmetic
	// reconciliation checks.
	Tolerance float64 `yaml:"tolerance"`

	Weights Weights `yaml:"weights"`

	// SuspiciousPenalty is deducted per placeholder-looking value, up to
	// SuspiciousCap occurrences.
	SuspiciousPenalty float64 `yaml:"suspicious_penalty"`
	SuspiciousCap     int     `yaml:"suspicious_cap"`

	Bands Bands `yaml:"bands"`
}

func DefaultPolicy() Policy {
	return Policy{
		Tolerance: 0.01,
		Weights: Weights{
			Required:   0.5,
			Important:  0.2,
			Logical:    0.2,
			FieldCount: 0.1,
		},
		SuspiciousPenalty: 0.1,
		SuspiciousCap:     5,
		Bands: Bands{
			High:   0.90,
			Medium: 0.70,
			Low:    0.50,
		},
	}
}

// LoadPolicyFile overlays a YAML policy file onto the defaults, so a file
// only needs to name the parameters it changes.
func LoadPolicyFile(path string) (Policy, error) {
	p := DefaultPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse policy file: %w", err)
	}
	return p, nil
}
