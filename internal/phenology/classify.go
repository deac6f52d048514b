package phenology

// Category is the coarse migration classification of a species.
type Category string

const (
	CategoryResident     Category = "resident"
	CategoryVagrant      Category = "vagrant"
	CategorySingleSeason Category = "single-season"
	CategoryTwoPassage   Category = "two-passage-migrant"
	CategoryIrregular    Category = "irregular"
)

// Valid reports whether the category is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryResident, CategoryVagrant, CategorySingleSeason,
		CategoryTwoPassage, CategoryIrregular:
		return true
	}
	return false
}

// PatternType is the fine-grained timing shape of a species. It decides
// which timing fields the extractor produces.
type PatternType string

const (
	PatternYearRound  PatternType = "year-round"
	PatternIrregular  PatternType = "irregular"
	PatternTwoPassage PatternType = "two-passage"
	PatternSummer     PatternType = "summer"
	PatternWinter     PatternType = "winter"
)

// Valid reports whether the pattern type is a member of the closed set.
func (p PatternType) Valid() bool {
	switch p {
	case PatternYearRound, PatternIrregular, PatternTwoPassage,
		PatternSummer, PatternWinter:
		return true
	}
	return false
}

// Diagnostic flags attached to classifications for edge cases.
const (
	FlagSeasonalVariation     = "seasonal_variation"
	FlagOverwintering         = "overwintering"
	FlagMixedValleySummerLean = "mixed_valley_summer_lean"
	FlagThreeValleyMigrant    = "three_valley_migrant"
	FlagThreeValleysIrregular = "three_valleys_irregular"
	FlagManyValleys           = "many_valleys"
	FlagCloseValleys          = "close_valleys"
	FlagLowPresence           = "low_presence"
	FlagMinMaxNearBoundary    = "min_max_near_boundary"
)

// Metrics holds the per-species values the classifier decides on. They are
// derived from the frequency vector and discarded after classification.
type Metrics struct {
	PeakFrequency     float64
	MinFrequency      float64
	MinMaxRatio       float64
	WeeksWithPresence int
	Valleys           []Valley
	ValleyTypes       []ValleyType
}

// Classification is the classifier's verdict for one species.
type Classification struct {
	Category    Category    `json:"category"`
	PatternType PatternType `json:"pattern_type"`
	Flags       []string    `json:"flags,omitempty"`
}

func (cl *Classification) addFlag(flag string) {
	cl.Flags = append(cl.Flags, flag)
}

// ComputeMetrics derives the classification metrics for a frequency vector.
func ComputeMetrics(frequencies []float64, cfg *Config) Metrics {
	m := Metrics{}
	if len(frequencies) == 0 {
		return m
	}

	m.MinFrequency = frequencies[0]
	for _, f := range frequencies {
		if f > m.PeakFrequency {
			m.PeakFrequency = f
		}
		if f < m.MinFrequency {
			m.MinFrequency = f
		}
		if f > 0 {
			m.WeeksWithPresence++
		}
	}
	if m.PeakFrequency > 0 {
		m.MinMaxRatio = m.MinFrequency / m.PeakFrequency
	}

	m.Valleys = DetectValleys(frequencies, cfg)
	m.ValleyTypes = make([]ValleyType, len(m.Valleys))
	for i, v := range m.Valleys {
		m.ValleyTypes[i] = ClassifyValleyType(v)
	}
	return m
}

// Classify maps a frequency vector to a migration category and pattern
// type. The decision rules are ordered; the first matching rule wins.
func Classify(frequencies []float64, cfg *Config) Classification {
	m := ComputeMetrics(frequencies, cfg)
	return ClassifyMetrics(&m, cfg)
}

// ClassifyMetrics runs the ordered decision rules over precomputed metrics.
func ClassifyMetrics(m *Metrics, cfg *Config) Classification {
	cl := classifyByValleys(m, cfg)

	if m.WeeksWithPresence >= cfg.MinWeeksPresence &&
		m.WeeksWithPresence < cfg.LowPresenceWeeks {
		cl.addFlag(FlagLowPresence)
	}
	if cl.Category == CategoryResident && m.MinMaxRatio < cfg.ResidentBoundaryRatio {
		cl.addFlag(FlagMinMaxNearBoundary)
	}
	return cl
}

func classifyByValleys(m *Metrics, cfg *Config) Classification {
	// Rule 1: too little data to classify a pattern at all.
	if m.WeeksWithPresence < cfg.MinWeeksPresence || m.PeakFrequency < cfg.MinPeakFrequency {
		return Classification{Category: CategoryVagrant, PatternType: PatternIrregular}
	}

	switch len(m.Valleys) {
	case 0:
		// Rule 2: no absence period, present year-round.
		cl := Classification{Category: CategoryResident, PatternType: PatternYearRound}
		if m.MinMaxRatio < cfg.SeasonalVariationRatio {
			cl.addFlag(FlagSeasonalVariation)
		}
		return cl

	case 1:
		return classifyOneValley(m)

	case 2:
		return classifyTwoValleys(m, cfg)

	case 3:
		return classifyThreeValleys(m)

	default:
		// Rule 6: four or more valleys is noise, not a pattern.
		return Classification{
			Category:    CategoryVagrant,
			PatternType: PatternIrregular,
			Flags:       []string{FlagManyValleys},
		}
	}
}

// Rule 4: a single absence period.
func classifyOneValley(m *Metrics) Classification {
	valley := m.Valleys[0]

	switch m.ValleyTypes[0] {
	case ValleyWinter:
		// Absent in winter, present spring through fall.
		return Classification{Category: CategorySingleSeason, PatternType: PatternSummer}

	case ValleySummer:
		// Absent in summer: an overwintering species.
		return Classification{
			Category:    CategorySingleSeason,
			PatternType: PatternWinter,
			Flags:       []string{FlagOverwintering},
		}

	default:
		// Mixed valley: let the midpoint decide which season the absence
		// belongs to.
		mid := valley.Midpoint()
		switch {
		case IsWinterWeek(mid):
			return Classification{Category: CategorySingleSeason, PatternType: PatternSummer}
		case IsSummerWeek(mid):
			return Classification{
				Category:    CategorySingleSeason,
				PatternType: PatternWinter,
				Flags:       []string{FlagOverwintering, FlagMixedValleySummerLean},
			}
		default:
			// Midpoint in deep spring or fall: no coherent season.
			return Classification{Category: CategoryVagrant, PatternType: PatternIrregular}
		}
	}
}

// Rule 3: two absence periods.
func classifyTwoValleys(m *Metrics, cfg *Config) Classification {
	t0, t1 := m.ValleyTypes[0], m.ValleyTypes[1]

	// One winter and one summer valley bracket the two migration passages.
	if (t0 == ValleyWinter && t1 == ValleySummer) ||
		(t0 == ValleySummer && t1 == ValleyWinter) {
		return Classification{Category: CategoryTwoPassage, PatternType: PatternTwoPassage}
	}

	mid0 := m.Valleys[0].Midpoint()
	mid1 := m.Valleys[1].Midpoint()
	separation := CircularWeekDistance(mid0, mid1)

	// Two mixed valleys can still be a two-passage pattern when they are
	// well separated and their midpoints land in opposite seasons.
	if t0 == ValleyMixed && t1 == ValleyMixed && separation >= cfg.ValleySeparationWeeks {
		if (IsWinterWeek(mid0) && IsSummerWeek(mid1)) ||
			(IsSummerWeek(mid0) && IsWinterWeek(mid1)) {
			return Classification{Category: CategoryTwoPassage, PatternType: PatternTwoPassage}
		}
	}

	// Two summer valleys close together model a brief mid-summer survey
	// dip inside one long overwintering absence.
	if t0 == ValleySummer && t1 == ValleySummer && separation < cfg.ValleySeparationWeeks {
		return Classification{
			Category:    CategorySingleSeason,
			PatternType: PatternWinter,
			Flags:       []string{FlagOverwintering, FlagCloseValleys},
		}
	}

	return Classification{Category: CategoryVagrant, PatternType: PatternIrregular}
}

// Rule 5: three absence periods.
func classifyThreeValleys(m *Metrics) Classification {
	t := m.ValleyTypes

	wsw := t[0] == ValleyWinter && t[1] == ValleySummer && t[2] == ValleyWinter
	sws := t[0] == ValleySummer && t[1] == ValleyWinter && t[2] == ValleySummer

	if wsw || sws {
		// Present only during two brief migration windows.
		return Classification{
			Category:    CategoryTwoPassage,
			PatternType: PatternTwoPassage,
			Flags:       []string{FlagThreeValleyMigrant},
		}
	}

	return Classification{
		Category:    CategoryVagrant,
		PatternType: PatternIrregular,
		Flags:       []string{FlagThreeValleysIrregular},
	}
}
