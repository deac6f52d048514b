package phenology

// WeekUnknown marks a timing field that could not be determined, such as an
// arrival in a window that never crosses the threshold.
const WeekUnknown = -1

// SeasonTiming holds the arrival, peak and departure weeks of one presence
// period or migration passage.
type SeasonTiming struct {
	Arrival   int `json:"arrival"`
	Peak      int `json:"peak"`
	Departure int `json:"departure"`
}

// Timing is the per-species timing record. Which fields are populated
// depends on Pattern; Render produces the sparse keyed form consumed by the
// merge stage.
type Timing struct {
	Pattern PatternType `json:"pattern_type"`

	// Year-round and no-data irregular species carry only a status.
	Status string `json:"status,omitempty"`

	// Irregular species with data. WeekUnknown when absent.
	FirstAppears int `json:"first_appears"`
	PeakWeek     int `json:"peak_week"`
	LastAppears  int `json:"last_appears"`

	// Two-passage migrants.
	Spring *SeasonTiming `json:"spring,omitempty"`
	Fall   *SeasonTiming `json:"fall,omitempty"`

	// Single-season species (summer or winter pattern).
	Season *SeasonTiming `json:"season,omitempty"`
}

// ComputeTiming extracts the timing record for a species given its pattern
// type and detected valleys. A structural mismatch between the pattern and
// the valleys (wrong valley count, invalid passage window) degrades to the
// irregular computation; it never fails.
func ComputeTiming(frequencies []float64, pattern PatternType, valleys []Valley, cfg *Config) Timing {
	switch pattern {
	case PatternYearRound:
		return Timing{Pattern: PatternYearRound, Status: "year-round"}

	case PatternTwoPassage:
		if t, ok := twoPassageTiming(frequencies, valleys, cfg); ok {
			return t
		}
		return irregularTiming(frequencies, cfg)

	case PatternSummer:
		if t, ok := singleSeasonTiming(frequencies, valleys, PatternSummer, cfg); ok {
			return t
		}
		return irregularTiming(frequencies, cfg)

	case PatternWinter:
		if t, ok := singleSeasonTiming(frequencies, valleys, PatternWinter, cfg); ok {
			return t
		}
		return irregularTiming(frequencies, cfg)

	default:
		return irregularTiming(frequencies, cfg)
	}
}

// irregularTiming reports the first and last week with any meaningful
// signal plus the global peak. With no signal at all only a status remains.
func irregularTiming(frequencies []float64, cfg *Config) Timing {
	t := Timing{
		Pattern:      PatternIrregular,
		FirstAppears: WeekUnknown,
		PeakWeek:     WeekUnknown,
		LastAppears:  WeekUnknown,
	}

	for w := 0; w < len(frequencies); w++ {
		if frequencies[w] > cfg.TimingAbsoluteFloor {
			t.FirstAppears = w
			break
		}
	}
	for w := len(frequencies) - 1; w >= 0; w-- {
		if frequencies[w] > cfg.TimingAbsoluteFloor {
			t.LastAppears = w
			break
		}
	}

	if t.FirstAppears == WeekUnknown {
		t.Status = "irregular"
		return t
	}

	peakWeek := 0
	for w, f := range frequencies {
		if f > frequencies[peakWeek] {
			peakWeek = w
		}
	}
	t.PeakWeek = peakWeek
	return t
}

// twoPassageTiming computes spring and fall passage timing from two or
// three valleys. Each passage uses its own local peak for the threshold.
func twoPassageTiming(frequencies []float64, valleys []Valley, cfg *Config) (Timing, bool) {
	var springStart, springEnd, fallStart, fallEnd int

	switch len(valleys) {
	case 2:
		winterValley, summerValley, ok := splitSeasonValleys(valleys)
		if !ok {
			return Timing{}, false
		}
		springStart, springEnd = NormalizeWeek(winterValley.End+1), summerValley.Start
		fallStart, fallEnd = NormalizeWeek(summerValley.End+1), winterValley.Start

	case 3:
		t0 := ClassifyValleyType(valleys[0])
		t1 := ClassifyValleyType(valleys[1])
		t2 := ClassifyValleyType(valleys[2])
		switch {
		case t0 == ValleyWinter && t1 == ValleySummer && t2 == ValleyWinter:
			springStart, springEnd = NormalizeWeek(valleys[0].End+1), valleys[1].Start
			fallStart, fallEnd = NormalizeWeek(valleys[1].End+1), valleys[2].Start
		case t0 == ValleySummer && t1 == ValleyWinter && t2 == ValleySummer:
			springStart, springEnd = NormalizeWeek(valleys[1].End+1), valleys[2].Start
			fallStart, fallEnd = NormalizeWeek(valleys[0].End+1), valleys[1].Start
		default:
			return Timing{}, false
		}

	default:
		return Timing{}, false
	}

	spring, ok := passageTiming(frequencies, springStart, springEnd, cfg)
	if !ok {
		return Timing{}, false
	}
	fall, ok := passageTiming(frequencies, fallStart, fallEnd, cfg)
	if !ok {
		return Timing{}, false
	}

	return Timing{Pattern: PatternTwoPassage, Spring: spring, Fall: fall}, true
}

// splitSeasonValleys assigns the winter and summer roles among two valleys.
// Mixed valleys are assigned by midpoint season; if both roles cannot be
// filled the pattern is structurally inconsistent.
func splitSeasonValleys(valleys []Valley) (winterValley, summerValley Valley, ok bool) {
	var haveWinter, haveSummer bool

	for _, v := range valleys {
		switch ClassifyValleyType(v) {
		case ValleyWinter:
			if !haveWinter {
				winterValley, haveWinter = v, true
			}
		case ValleySummer:
			if !haveSummer {
				summerValley, haveSummer = v, true
			}
		default:
			mid := v.Midpoint()
			switch {
			case IsWinterWeek(mid) && !haveWinter:
				winterValley, haveWinter = v, true
			case IsSummerWeek(mid) && !haveSummer:
				summerValley, haveSummer = v, true
			}
		}
	}

	return winterValley, summerValley, haveWinter && haveSummer
}

// passageTiming finds arrival, peak and departure inside one passage
// window. The window runs from start inclusive to end exclusive on the
// ring; a window spanning the whole year is structurally invalid.
func passageTiming(frequencies []float64, start, end int, cfg *Config) (*SeasonTiming, bool) {
	if NormalizeWeek(start) == NormalizeWeek(end) {
		return nil, false
	}
	weeks := WeekRange(start, end)
	if len(weeks) == 0 || len(weeks) >= WeeksPerYear {
		return nil, false
	}

	localPeak := 0.0
	for _, w := range weeks {
		if frequencies[w] > localPeak {
			localPeak = frequencies[w]
		}
	}
	threshold := cfg.TimingThreshold(localPeak)

	st := &SeasonTiming{
		Arrival:   findFirstAtOrAbove(frequencies, weeks, threshold),
		Peak:      WeekUnknown,
		Departure: WeekUnknown,
	}
	if st.Arrival == WeekUnknown {
		return st, true
	}

	st.Peak = findPeakIn(frequencies, weeks)
	st.Departure = findDropAfterPeak(frequencies, st.Peak, end, threshold)
	return st, true
}

// singleSeasonTiming computes the presence-window timing for summer and
// winter single-season patterns. A winter pattern may carry two close
// summer valleys, whose spans are merged into one absence.
func singleSeasonTiming(frequencies []float64, valleys []Valley, pattern PatternType, cfg *Config) (Timing, bool) {
	var valleyStart, valleyEnd int

	switch {
	case len(valleys) == 1:
		valleyStart, valleyEnd = valleys[0].Start, valleys[0].End
	case len(valleys) == 2 && pattern == PatternWinter:
		// Two close summer dips read as one absence spanning both.
		valleyStart, valleyEnd = valleys[0].Start, valleys[1].End
	default:
		return Timing{}, false
	}

	weeks := WeekRange(NormalizeWeek(valleyEnd+1), valleyStart)
	if len(weeks) == 0 || len(weeks) >= WeeksPerYear {
		return Timing{}, false
	}

	threshold := cfg.TimingThreshold(maxFrequency(frequencies))

	st := &SeasonTiming{
		Arrival:   findFirstAtOrAbove(frequencies, weeks, threshold),
		Peak:      WeekUnknown,
		Departure: WeekUnknown,
	}
	if st.Arrival != WeekUnknown {
		st.Peak = findPeakIn(frequencies, weeks)
		// The presence window is bounded by the valley on both sides, so
		// departure is the last week still at or above the threshold,
		// found by scanning the window backward.
		st.Departure = findLastAtOrAbove(frequencies, weeks, threshold)
	}

	return Timing{Pattern: pattern, Season: st}, true
}

// findFirstAtOrAbove returns the first week in scan order whose frequency
// reaches the threshold, or WeekUnknown.
func findFirstAtOrAbove(frequencies []float64, weeks []int, threshold float64) int {
	for _, w := range weeks {
		if frequencies[w] >= threshold {
			return w
		}
	}
	return WeekUnknown
}

// findLastAtOrAbove returns the last week in scan order whose frequency
// reaches the threshold, or WeekUnknown.
func findLastAtOrAbove(frequencies []float64, weeks []int, threshold float64) int {
	for i := len(weeks) - 1; i >= 0; i-- {
		if frequencies[weeks[i]] >= threshold {
			return weeks[i]
		}
	}
	return WeekUnknown
}

// findPeakIn returns the week with the highest frequency; ties resolve to
// the earliest week in scan order.
func findPeakIn(frequencies []float64, weeks []int) int {
	peakWeek := weeks[0]
	for _, w := range weeks[1:] {
		if frequencies[w] > frequencies[peakWeek] {
			peakWeek = w
		}
	}
	return peakWeek
}

// findDropAfterPeak scans forward from the peak and returns the week before
// the first threshold drop. If the signal never drops before the window
// ends, the last week of the window is the departure.
func findDropAfterPeak(frequencies []float64, peakWeek, end int, threshold float64) int {
	for _, w := range WeekRange(peakWeek, end) {
		if frequencies[w] < threshold {
			return NormalizeWeek(w - 1)
		}
	}
	return NormalizeWeek(end - 1)
}

// Render flattens the timing record into the sparse keyed map consumed by
// the merge stage, formatting weeks as readable date ranges.
func (t *Timing) Render() map[string]string {
	return t.render(WeekToDateRange)
}

// RenderShort is Render with shorthand labels such as "early May" in place
// of date ranges.
func (t *Timing) RenderShort() map[string]string {
	return t.render(WeekLabel)
}

func (t *Timing) render(format func(int) string) map[string]string {
	out := make(map[string]string)

	put := func(key string, week int) {
		if week != WeekUnknown {
			out[key] = format(week)
		}
	}

	switch t.Pattern {
	case PatternYearRound:
		out["status"] = "year-round"

	case PatternIrregular:
		if t.Status != "" {
			out["status"] = t.Status
		}
		put("first_appears", t.FirstAppears)
		put("peak", t.PeakWeek)
		put("last_appears", t.LastAppears)

	case PatternTwoPassage:
		if t.Spring != nil {
			put("spring_arrival", t.Spring.Arrival)
			put("spring_peak", t.Spring.Peak)
			put("spring_departure", t.Spring.Departure)
		}
		if t.Fall != nil {
			put("fall_arrival", t.Fall.Arrival)
			put("fall_peak", t.Fall.Peak)
			put("fall_departure", t.Fall.Departure)
		}

	case PatternSummer:
		if t.Season != nil {
			put("arrival", t.Season.Arrival)
			put("peak", t.Season.Peak)
			put("departure", t.Season.Departure)
		}

	case PatternWinter:
		if t.Season != nil {
			put("winter_arrival", t.Season.Arrival)
			put("winter_peak", t.Season.Peak)
			put("winter_departure", t.Season.Departure)
		}
	}

	return out
}
