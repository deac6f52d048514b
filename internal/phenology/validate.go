package phenology

import (
	"math"

	"github.com/tphakala/birdfinder-go/internal/errors"
)

// ValidateFrequencies checks that a frequency vector is structurally sound:
// exactly 48 numeric values, each within [0, 1]. Violations fail fast with
// an error naming the species and the offending index and value; values are
// never coerced or clamped.
func ValidateFrequencies(species string, frequencies []float64) error {
	if len(frequencies) != WeeksPerYear {
		return errors.Newf("frequency vector must have exactly %d values, got %d",
			WeeksPerYear, len(frequencies)).
			Component("phenology").
			Category(errors.CategoryValidation).
			Context("species", species).
			Build()
	}

	for i, f := range frequencies {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Newf("frequency at week %d is not a finite number: %v", i, f).
				Component("phenology").
				Category(errors.CategoryValidation).
				Context("species", species).
				Context("week", i).
				Build()
		}
		if f < 0 || f > 1 {
			return errors.Newf("frequency at week %d must be in range [0, 1], got %g", i, f).
				Component("phenology").
				Category(errors.CategoryValidation).
				Context("species", species).
				Context("week", i).
				Context("value", f).
				Build()
		}
	}

	return nil
}
