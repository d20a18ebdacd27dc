package extraction

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the hand-tuned confidence constants of the pipeline. The
// numeric values carry no statistical calibration; they are preserved as
// configuration and may be overridden from a YAML file.
//
// Invariant: every synthesizer tier sits strictly below every cascade tier,
// and SyntheticDefault sits strictly below FilenameHeuristic.
type Tuning struct {
	CascadeLabelled   float64 `yaml:"cascade_labelled"`
	CascadeBare       float64 `yaml:"cascade_bare"`
	FilenameHeuristic float64 `yaml:"filename_heuristic"`
	SyntheticDefault  float64 `yaml:"synthetic_default"`
	DerivedContact    float64 `yaml:"derived_contact"`

	OverallWithText    float64 `yaml:"overall_with_text"`
	OverallWithoutText float64 `yaml:"overall_without_text"`

	// TaxRate back-computes the subtotal from a resolved total.
	TaxRate float64 `yaml:"tax_rate"`
}

func DefaultTuning() Tuning {
	return Tuning{
		CascadeLabelled:   0.95,
		CascadeBare:       0.85,
		FilenameHeuristic: 0.75,
		SyntheticDefault:  0.60,
		DerivedContact:    0.70,

		OverallWithText:    0.92,
		OverallWithoutText: 0.78,

		TaxRate: 0.08,
	}
}

// LoadTuning returns the defaults, overridden by the YAML file at path when
// one is configured.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	return t, nil
}
