package conf

import (
	"github.com/tphakala/birdfinder-go/internal/errors"
)

// ValidateSettings checks loaded settings for values the pipeline cannot
// work with. It returns the first problem found.
func ValidateSettings(settings *Settings) error {
	if err := validateRegionID(settings.Region.ID); err != nil {
		return err
	}

	a := &settings.Analysis
	switch {
	case a.ValleyMinLength < 1:
		return validationErrorf("analysis.valleyminlength must be at least 1, got %d", a.ValleyMinLength)
	case a.ValleyPeakRatio < 0 || a.ValleyPeakRatio > 1:
		return validationErrorf("analysis.valleypeakratio must be in [0, 1], got %v", a.ValleyPeakRatio)
	case a.TimingPeakRatio < 0 || a.TimingPeakRatio > 1:
		return validationErrorf("analysis.timingpeakratio must be in [0, 1], got %v", a.TimingPeakRatio)
	case a.ValleyAbsoluteFloor < 0 || a.TimingAbsoluteFloor < 0:
		return validationErrorf("analysis threshold floors cannot be negative")
	case a.MinPeakFrequency < 0 || a.MinPeakFrequency > 1:
		return validationErrorf("analysis.minpeakfrequency must be in [0, 1], got %v", a.MinPeakFrequency)
	case a.MinWeeksPresence < 0 || a.LowPresenceWeeks < 0:
		return validationErrorf("analysis presence week counts cannot be negative")
	case a.ValleySeparationWeeks < 1:
		return validationErrorf("analysis.valleyseparationweeks must be at least 1, got %d", a.ValleySeparationWeeks)
	}

	e := &settings.EBird
	if e.Timeout <= 0 {
		return validationErrorf("ebird.timeout must be positive, got %d", e.Timeout)
	}
	if e.RateLimitMS < 0 {
		return validationErrorf("ebird.ratelimitms cannot be negative, got %d", e.RateLimitMS)
	}

	if settings.Output.Directory == "" {
		return validationErrorf("output.directory cannot be empty")
	}

	return nil
}

func validationErrorf(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("conf").
		Category(errors.CategoryValidation).
		Build()
}
