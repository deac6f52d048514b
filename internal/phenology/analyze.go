package phenology

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/birdfinder-go/internal/errors"
)

// SpeciesPattern is the complete analysis result for one species: the
// coarse category, the fine timing shape, diagnostic flags and the timing
// record. It is plain data so the merge stage can serialize it unchanged.
type SpeciesPattern struct {
	Species     string      `json:"species"`
	Category    Category    `json:"category"`
	PatternType PatternType `json:"pattern_type"`
	Flags       []string    `json:"flags,omitempty"`
	Timing      Timing      `json:"timing"`
}

// AnalyzeSpecies runs the full chain for one species: validation, valley
// detection, classification and timing extraction. The input vector is
// never mutated. A timing-stage structural fallback also downgrades the
// pattern type to irregular, so the reported pattern always matches the
// timing record.
func AnalyzeSpecies(species string, frequencies []float64, cfg *Config) (*SpeciesPattern, error) {
	if err := ValidateFrequencies(species, frequencies); err != nil {
		return nil, err
	}

	metrics := ComputeMetrics(frequencies, cfg)
	classification := ClassifyMetrics(&metrics, cfg)
	timing := ComputeTiming(frequencies, classification.PatternType, metrics.Valleys, cfg)

	return &SpeciesPattern{
		Species:     species,
		Category:    classification.Category,
		PatternType: timing.Pattern,
		Flags:       classification.Flags,
		Timing:      timing,
	}, nil
}

// AnalyzeAll analyzes every species in the map. Species are independent, so
// the work is spread over a bounded worker group. A species failing
// validation is skipped and reported in the returned error map; it never
// aborts the batch. Results are keyed by species name.
func AnalyzeAll(ctx context.Context, data map[string][]float64, cfg *Config) (map[string]*SpeciesPattern, map[string]error) {
	results := make(map[string]*SpeciesPattern, len(data))
	failures := make(map[string]error)
	var mu sync.Mutex

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, name := range names {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pattern, err := AnalyzeSpecies(name, data[name], cfg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[name] = err
				return nil
			}
			results[name] = pattern
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		failures["__batch__"] = errors.New(err).
			Component("phenology").
			Category(errors.CategoryProcessing).
			Build()
		mu.Unlock()
	}

	return results, failures
}
