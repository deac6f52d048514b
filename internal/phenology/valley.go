package phenology

// A Valley is a maximal run of at least Config.ValleyMinLength consecutive
// weeks whose frequency stays below the valley threshold, signifying
// seasonal absence. Start and End are inclusive week indices; Start > End
// means the run wraps the Dec-Jan boundary.
type Valley struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Wraps reports whether the valley crosses the year boundary.
func (v Valley) Wraps() bool {
	return v.Start > v.End
}

// Length returns the valley length in weeks.
func (v Valley) Length() int {
	if v.Wraps() {
		return WeeksPerYear - v.Start + v.End + 1
	}
	return v.End - v.Start + 1
}

// Weeks returns the valley's week indices in ring order.
func (v Valley) Weeks() []int {
	return WeekRange(v.Start, NormalizeWeek(v.End+1))
}

// Midpoint returns the week at the middle of the valley, wrapping if needed.
func (v Valley) Midpoint() int {
	return NormalizeWeek(v.Start + v.Length()/2)
}

// Contains reports whether the given week lies inside the valley.
func (v Valley) Contains(week int) bool {
	w := NormalizeWeek(week)
	if v.Wraps() {
		return w >= v.Start || w <= v.End
	}
	return w >= v.Start && w <= v.End
}

// ValleyType labels a valley by its calendar placement.
type ValleyType string

const (
	ValleyWinter ValleyType = "winter"
	ValleySummer ValleyType = "summer"
	ValleyMixed  ValleyType = "mixed"
)

// DetectValleys segments the 48-week signal into absence valleys.
//
// The cutoff is max(peak*ValleyPeakRatio, ValleyAbsoluteFloor); runs shorter
// than ValleyMinLength weeks are discarded. If the linear scan produced a
// valley starting at week 0 and another ending at week 47, the two are
// merged into a single wraparound valley. At most one merge is performed.
func DetectValleys(frequencies []float64, cfg *Config) []Valley {
	if len(frequencies) < 5 {
		return nil
	}

	peak := maxFrequency(frequencies)
	if peak == 0 {
		return nil
	}
	threshold := cfg.ValleyThreshold(peak)

	var valleys []Valley
	inValley := false
	valleyStart := 0

	for i, freq := range frequencies {
		if freq < threshold {
			if !inValley {
				inValley = true
				valleyStart = i
			}
			continue
		}
		if inValley {
			if i-valleyStart >= cfg.ValleyMinLength {
				valleys = append(valleys, Valley{Start: valleyStart, End: i - 1})
			}
			inValley = false
		}
	}
	if inValley && len(frequencies)-valleyStart >= cfg.ValleyMinLength {
		valleys = append(valleys, Valley{Start: valleyStart, End: len(frequencies) - 1})
	}

	// Merge a year-end valley with a year-start valley into one wraparound
	// valley. Only the outermost pair is ever merged.
	if len(valleys) >= 2 {
		first := valleys[0]
		last := valleys[len(valleys)-1]
		if first.Start == 0 && last.End == WeeksPerYear-1 {
			merged := Valley{Start: last.Start, End: first.End}
			valleys = append(valleys[1:len(valleys)-1], merged)
		}
	}

	return valleys
}

// ClassifyValleyType labels a valley winter, summer or mixed by its overlap
// with the seasonal week sets. A valley with at least 40% of its weeks in
// the winter window is a winter valley; winter is checked before summer.
func ClassifyValleyType(v Valley) ValleyType {
	weeks := v.Weeks()
	if len(weeks) == 0 {
		return ValleyMixed
	}

	winterOverlap := 0
	summerOverlap := 0
	for _, w := range weeks {
		if IsWinterWeek(w) {
			winterOverlap++
		}
		if IsSummerWeek(w) {
			summerOverlap++
		}
	}

	const overlapRatio = 0.40
	need := float64(len(weeks)) * overlapRatio
	switch {
	case float64(winterOverlap) >= need:
		return ValleyWinter
	case float64(summerOverlap) >= need:
		return ValleySummer
	default:
		return ValleyMixed
	}
}

func maxFrequency(frequencies []float64) float64 {
	peak := 0.0
	for _, f := range frequencies {
		if f > peak {
			peak = f
		}
	}
	return peak
}
