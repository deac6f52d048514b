package phenology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPassageVector builds a migrant signal with a spring bump peaking at
// week 15 and a fall bump peaking at week 31.
func twoPassageVector() []float64 {
	freqs := make([]float64, WeeksPerYear)
	spring := []float64{0.3, 0.5, 0.6, 0.7, 0.6, 0.5, 0.4, 0.3}
	fall := []float64{0.2, 0.35, 0.5, 0.6, 0.5, 0.4, 0.3, 0.2}
	copy(freqs[12:20], spring)
	copy(freqs[28:36], fall)
	return freqs
}

func TestComputeTimingYearRound(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	freqs := make([]float64, WeeksPerYear)
	for i := range freqs {
		freqs[i] = 0.5
	}
	timing := ComputeTiming(freqs, PatternYearRound, nil, cfg)
	assert.Equal(t, PatternYearRound, timing.Pattern)
	assert.Equal(t, "year-round", timing.Status)
	assert.Equal(t, map[string]string{"status": "year-round"}, timing.Render())
}

func TestComputeTimingIrregular(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("sparse presence", func(t *testing.T) {
		freqs := make([]float64, WeeksPerYear)
		for w := 10; w < 14; w++ {
			freqs[w] = 0.02
		}
		timing := ComputeTiming(freqs, PatternIrregular, nil, cfg)
		assert.Equal(t, PatternIrregular, timing.Pattern)
		assert.Equal(t, 10, timing.FirstAppears)
		assert.Equal(t, 10, timing.PeakWeek)
		assert.Equal(t, 13, timing.LastAppears)
		assert.Empty(t, timing.Status)

		rendered := timing.Render()
		assert.Equal(t, "March 15-21", rendered["first_appears"])
		assert.Equal(t, "March 15-21", rendered["peak"])
		assert.Equal(t, "April 8-14", rendered["last_appears"])
	})

	t.Run("no signal at all", func(t *testing.T) {
		timing := ComputeTiming(make([]float64, WeeksPerYear), PatternIrregular, nil, cfg)
		assert.Equal(t, "irregular", timing.Status)
		assert.Equal(t, WeekUnknown, timing.FirstAppears)
		assert.Equal(t, WeekUnknown, timing.PeakWeek)
		assert.Equal(t, WeekUnknown, timing.LastAppears)
		assert.Equal(t, map[string]string{"status": "irregular"}, timing.Render())
	})

	t.Run("global peak resolves first tie", func(t *testing.T) {
		freqs := make([]float64, WeeksPerYear)
		freqs[5], freqs[20], freqs[30] = 0.3, 0.3, 0.1
		timing := ComputeTiming(freqs, PatternIrregular, nil, cfg)
		assert.Equal(t, 5, timing.PeakWeek)
		assert.Equal(t, 30, timing.LastAppears)
	})
}

func TestComputeTimingSummer(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	freqs := makeFrequencies(0.5, [2]int{16, 35})
	valleys := DetectValleys(freqs, cfg)
	require.Len(t, valleys, 1)

	timing := ComputeTiming(freqs, PatternSummer, valleys, cfg)
	require.Equal(t, PatternSummer, timing.Pattern)
	require.NotNil(t, timing.Season)
	assert.Equal(t, 16, timing.Season.Arrival)
	assert.Equal(t, 16, timing.Season.Peak)
	assert.Equal(t, 35, timing.Season.Departure)

	rendered := timing.Render()
	assert.Equal(t, "May 1-7", rendered["arrival"])
	assert.Equal(t, "May 1-7", rendered["peak"])
	assert.Equal(t, "September 22-28", rendered["departure"])
}

func TestRenderShort(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("single season", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{16, 35})
		timing := ComputeTiming(freqs, PatternSummer, DetectValleys(freqs, cfg), cfg)

		short := timing.RenderShort()
		assert.Equal(t, "early May", short["arrival"])
		assert.Equal(t, "early May", short["peak"])
		assert.Equal(t, "late September", short["departure"])
	})

	t.Run("two passages", func(t *testing.T) {
		freqs := twoPassageVector()
		timing := ComputeTiming(freqs, PatternTwoPassage, DetectValleys(freqs, cfg), cfg)

		short := timing.RenderShort()
		assert.Equal(t, "early April", short["spring_arrival"])
		assert.Equal(t, "late April", short["spring_peak"])
		assert.Equal(t, "late August", short["fall_peak"])
		assert.Equal(t, "late September", short["fall_departure"])
	})
}

func TestComputeTimingWinter(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("single summer valley", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{44, 47}, [2]int{0, 7})
		valleys := DetectValleys(freqs, cfg)
		require.Len(t, valleys, 1)

		timing := ComputeTiming(freqs, PatternWinter, valleys, cfg)
		require.Equal(t, PatternWinter, timing.Pattern)
		require.NotNil(t, timing.Season)
		assert.Equal(t, 44, timing.Season.Arrival)
		assert.Equal(t, 44, timing.Season.Peak)
		assert.Equal(t, 7, timing.Season.Departure)

		rendered := timing.Render()
		assert.Equal(t, "December 1-7", rendered["winter_arrival"])
		assert.Equal(t, "December 1-7", rendered["winter_peak"])
		assert.Equal(t, "February 22-28", rendered["winter_departure"])
	})

	t.Run("two close summer valleys merge into one absence", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{0, 17}, [2]int{22, 25}, [2]int{30, 47})
		valleys := DetectValleys(freqs, cfg)
		require.Len(t, valleys, 2)

		timing := ComputeTiming(freqs, PatternWinter, valleys, cfg)
		require.Equal(t, PatternWinter, timing.Pattern)
		require.NotNil(t, timing.Season)
		assert.Equal(t, 30, timing.Season.Arrival)
		assert.Equal(t, 30, timing.Season.Peak)
		assert.Equal(t, 17, timing.Season.Departure)
	})
}

func TestComputeTimingTwoPassage(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	freqs := twoPassageVector()
	valleys := DetectValleys(freqs, cfg)
	require.Len(t, valleys, 2)

	timing := ComputeTiming(freqs, PatternTwoPassage, valleys, cfg)
	require.Equal(t, PatternTwoPassage, timing.Pattern)
	require.NotNil(t, timing.Spring)
	require.NotNil(t, timing.Fall)

	assert.Equal(t, 12, timing.Spring.Arrival)
	assert.Equal(t, 15, timing.Spring.Peak)
	assert.Equal(t, 19, timing.Spring.Departure)

	assert.Equal(t, 28, timing.Fall.Arrival)
	assert.Equal(t, 31, timing.Fall.Peak)
	assert.Equal(t, 35, timing.Fall.Departure)

	rendered := timing.Render()
	assert.Equal(t, "April 22-28", rendered["spring_peak"])
	assert.Equal(t, "August 22-28", rendered["fall_peak"])
}

func TestComputeTimingThreeValleyMigrant(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	// Winter-summer-winter: passage windows sit between the valleys.
	freqs := makeFrequencies(0.5,
		[2]int{0, 1}, [2]int{14, 19}, [2]int{28, 35}, [2]int{46, 47})
	valleys := DetectValleys(freqs, cfg)
	require.Len(t, valleys, 3)

	timing := ComputeTiming(freqs, PatternTwoPassage, valleys, cfg)
	require.Equal(t, PatternTwoPassage, timing.Pattern)
	require.NotNil(t, timing.Spring)
	require.NotNil(t, timing.Fall)
	assert.Equal(t, 14, timing.Spring.Arrival)
	assert.Equal(t, 28, timing.Fall.Arrival)
}

func TestComputeTimingStructuralFallback(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	// A two-passage pattern with a single valley cannot produce passage
	// windows; the extractor degrades to the irregular computation.
	freqs := makeFrequencies(0.5, [2]int{16, 35})
	valleys := []Valley{{Start: 12, End: 15}}

	timing := ComputeTiming(freqs, PatternTwoPassage, valleys, cfg)
	assert.Equal(t, PatternIrregular, timing.Pattern)
	assert.Equal(t, 16, timing.FirstAppears)
	assert.Equal(t, 35, timing.LastAppears)
}
