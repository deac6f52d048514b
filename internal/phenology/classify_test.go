package phenology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyResident(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("flat year-round presence", func(t *testing.T) {
		freqs := make([]float64, WeeksPerYear)
		for i := range freqs {
			freqs[i] = 0.5
		}
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryResident, cl.Category)
		assert.Equal(t, PatternYearRound, cl.PatternType)
		assert.Empty(t, cl.Flags)
	})

	t.Run("resident with strong seasonal variation", func(t *testing.T) {
		// Never absent, but winter counts dip well below half the peak.
		freqs := make([]float64, WeeksPerYear)
		for i := range freqs {
			freqs[i] = 0.5
		}
		for w := 40; w < 48; w++ {
			freqs[w] = 0.21
		}
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryResident, cl.Category)
		assert.Equal(t, PatternYearRound, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagSeasonalVariation)
		assert.NotContains(t, cl.Flags, FlagMinMaxNearBoundary)
	})

	t.Run("resident near the detection boundary", func(t *testing.T) {
		// Minimum just above the valley cutoff: ratio 0.18 earns both the
		// variation flag and the boundary flag.
		freqs := make([]float64, WeeksPerYear)
		for i := range freqs {
			freqs[i] = 0.5
		}
		for w := 40; w < 48; w++ {
			freqs[w] = 0.09
		}
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryResident, cl.Category)
		assert.Contains(t, cl.Flags, FlagSeasonalVariation)
		assert.Contains(t, cl.Flags, FlagMinMaxNearBoundary)
	})
}

func TestClassifyVagrantGuards(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("too few weeks of presence", func(t *testing.T) {
		freqs := make([]float64, WeeksPerYear)
		for w := 10; w < 14; w++ {
			freqs[w] = 0.02
		}
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})

	t.Run("peak below detectability", func(t *testing.T) {
		freqs := make([]float64, WeeksPerYear)
		for w := 0; w < 20; w++ {
			freqs[w] = 0.004
		}
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})
}

func TestClassifySingleValley(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("winter absence makes a summer species", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{16, 35})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategorySingleSeason, cl.Category)
		assert.Equal(t, PatternSummer, cl.PatternType)
		assert.Empty(t, cl.Flags)
	})

	t.Run("summer absence makes an overwintering species", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{44, 47}, [2]int{0, 7})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategorySingleSeason, cl.Category)
		assert.Equal(t, PatternWinter, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagOverwintering)
		// Present only 12 weeks, just above the vagrant cutoff.
		assert.Contains(t, cl.Flags, FlagLowPresence)
	})

	t.Run("short spring absence fits no season", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{0, 11}, [2]int{16, 47})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})
}

// Metrics are constructed directly here so the mixed-valley rules can be
// driven with exact midpoints.
func mixedValleyMetrics(valleys ...Valley) Metrics {
	m := Metrics{
		PeakFrequency:     0.5,
		WeeksWithPresence: 30,
		Valleys:           valleys,
		ValleyTypes:       make([]ValleyType, len(valleys)),
	}
	for i := range m.ValleyTypes {
		m.ValleyTypes[i] = ValleyMixed
	}
	return m
}

func TestClassifyMixedValleyByMidpoint(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("midpoint in winter reads as a summer species", func(t *testing.T) {
		// Midpoint week 44.
		m := mixedValleyMetrics(Valley{Start: 42, End: 46})
		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategorySingleSeason, cl.Category)
		assert.Equal(t, PatternSummer, cl.PatternType)
	})

	t.Run("midpoint in summer reads as overwintering", func(t *testing.T) {
		// Midpoint week 23.
		m := mixedValleyMetrics(Valley{Start: 20, End: 26})
		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategorySingleSeason, cl.Category)
		assert.Equal(t, PatternWinter, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagOverwintering)
		assert.Contains(t, cl.Flags, FlagMixedValleySummerLean)
	})
}

func TestClassifyTwoMixedValleys(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("well separated, opposite-season midpoints make two passages", func(t *testing.T) {
		// Midpoints 44 (winter) and 23 (summer), 21 weeks apart.
		m := mixedValleyMetrics(
			Valley{Start: 42, End: 46}, Valley{Start: 20, End: 26})
		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategoryTwoPassage, cl.Category)
		assert.Equal(t, PatternTwoPassage, cl.PatternType)
	})

	t.Run("same-season midpoints stay irregular", func(t *testing.T) {
		// Midpoints 20 and 33, both in summer, 13 weeks apart.
		m := mixedValleyMetrics(
			Valley{Start: 18, End: 22}, Valley{Start: 31, End: 35})
		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})

	t.Run("close midpoints stay irregular", func(t *testing.T) {
		// Midpoints 11 (winter) and 16 (summer), only 5 weeks apart.
		m := mixedValleyMetrics(
			Valley{Start: 9, End: 13}, Valley{Start: 14, End: 18})
		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})
}

func TestClassifyTwoValleys(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("winter and summer valleys bracket two passages", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{12, 19}, [2]int{28, 35})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryTwoPassage, cl.Category)
		assert.Equal(t, PatternTwoPassage, cl.PatternType)
	})

	t.Run("two close summer dips read as one overwintering absence", func(t *testing.T) {
		freqs := makeFrequencies(0.5, [2]int{0, 17}, [2]int{22, 25}, [2]int{30, 47})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategorySingleSeason, cl.Category)
		assert.Equal(t, PatternWinter, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagOverwintering)
		assert.Contains(t, cl.Flags, FlagCloseValleys)
	})

	t.Run("two shoulder-season valleys have no coherent pattern", func(t *testing.T) {
		// Absences centered in spring and fall only.
		freqs := makeFrequencies(0.5, [2]int{0, 11}, [2]int{16, 35}, [2]int{40, 47})
		cl := Classify(freqs, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
	})
}

func TestClassifyThreeValleys(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	t.Run("winter-summer-winter is a passage migrant", func(t *testing.T) {
		freqs := makeFrequencies(0.5,
			[2]int{0, 1}, [2]int{14, 19}, [2]int{28, 35}, [2]int{46, 47})
		m := ComputeMetrics(freqs, cfg)
		assert.Equal(t,
			[]ValleyType{ValleyWinter, ValleySummer, ValleyWinter}, m.ValleyTypes)

		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategoryTwoPassage, cl.Category)
		assert.Equal(t, PatternTwoPassage, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagThreeValleyMigrant)
	})

	t.Run("other arrangements are irregular", func(t *testing.T) {
		freqs := makeFrequencies(0.5,
			[2]int{0, 11}, [2]int{20, 23}, [2]int{32, 35}, [2]int{44, 47})
		m := ComputeMetrics(freqs, cfg)
		assert.Equal(t,
			[]ValleyType{ValleySummer, ValleySummer, ValleyWinter}, m.ValleyTypes)

		cl := ClassifyMetrics(&m, cfg)
		assert.Equal(t, CategoryVagrant, cl.Category)
		assert.Equal(t, PatternIrregular, cl.PatternType)
		assert.Contains(t, cl.Flags, FlagThreeValleysIrregular)
	})
}

func TestClassifyManyValleys(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	freqs := makeFrequencies(0.5,
		[2]int{0, 1}, [2]int{10, 11}, [2]int{20, 21}, [2]int{30, 31}, [2]int{40, 41})
	cl := Classify(freqs, cfg)
	assert.Equal(t, CategoryVagrant, cl.Category)
	assert.Equal(t, PatternIrregular, cl.PatternType)
	assert.Contains(t, cl.Flags, FlagManyValleys)
	assert.Contains(t, cl.Flags, FlagLowPresence)
}

func TestCategoryAndPatternValidity(t *testing.T) {
	t.Parallel()

	for _, c := range []Category{CategoryResident, CategoryVagrant,
		CategorySingleSeason, CategoryTwoPassage, CategoryIrregular} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("migratory").Valid())

	for _, p := range []PatternType{PatternYearRound, PatternIrregular,
		PatternTwoPassage, PatternSummer, PatternWinter} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, PatternType("biannual").Valid())
}
