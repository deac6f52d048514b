package phenology

// Config carries every threshold used by valley detection, species
// classification and timing extraction. It is passed explicitly into each
// operation so that a region can override thresholds without any package
// level state.
//
// Valley detection and timing extraction intentionally use different
// threshold pairs: the coarser valley thresholds segment the year into
// presence and absence, the finer timing thresholds locate arrival and
// departure boundaries inside a presence window. They must not be unified.
type Config struct {
	// Valley detection: a valley is ValleyMinLength or more consecutive
	// weeks below max(peak*ValleyPeakRatio, ValleyAbsoluteFloor).
	ValleyMinLength     int
	ValleyPeakRatio     float64
	ValleyAbsoluteFloor float64

	// Timing extraction: arrival/departure cross
	// max(peak*TimingPeakRatio, TimingAbsoluteFloor).
	TimingPeakRatio     float64
	TimingAbsoluteFloor float64

	// Vagrant guards.
	MinPeakFrequency float64 // below this peak a species is a vagrant
	MinWeeksPresence int     // fewer presence weeks than this is a vagrant

	// Flagging boundaries.
	LowPresenceWeeks       int     // presence below this gets low_presence
	SeasonalVariationRatio float64 // resident min/max below this gets seasonal_variation
	ResidentBoundaryRatio  float64 // resident min/max below this gets min_max_near_boundary

	// Minimum circular separation between two mixed valleys for them to be
	// read as distinct migration absences rather than one merged dip.
	ValleySeparationWeeks int
}

// DefaultConfig returns the threshold set used for all regions unless a
// region config overrides individual values.
func DefaultConfig() *Config {
	return &Config{
		ValleyMinLength:     4,
		ValleyPeakRatio:     0.15,
		ValleyAbsoluteFloor: 0.005,

		TimingPeakRatio:     0.10,
		TimingAbsoluteFloor: 0.001,

		MinPeakFrequency: 0.005,
		MinWeeksPresence: 10,

		LowPresenceWeeks:       15,
		SeasonalVariationRatio: 0.5,
		ResidentBoundaryRatio:  0.20,

		ValleySeparationWeeks: 12,
	}
}

// ValleyThreshold returns the presence/absence cutoff used by valley
// detection for a species with the given peak frequency.
func (c *Config) ValleyThreshold(peak float64) float64 {
	return maxFloat(peak*c.ValleyPeakRatio, c.ValleyAbsoluteFloor)
}

// TimingThreshold returns the arrival/departure cutoff for a species or
// passage with the given peak frequency.
func (c *Config) TimingThreshold(peak float64) float64 {
	return maxFloat(peak*c.TimingPeakRatio, c.TimingAbsoluteFloor)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
