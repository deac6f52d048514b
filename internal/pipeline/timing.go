package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// timingColumns is the header of the timing intermediate. Every key the
// timing renderer can produce has a column; patterns leave unused columns
// empty.
var timingColumns = []string{
	"species", "pattern", "status",
	"first_appears", "peak", "last_appears",
	"arrival", "departure",
	"spring_arrival", "spring_peak", "spring_departure",
	"fall_arrival", "fall_peak", "fall_departure",
	"winter_arrival", "winter_peak", "winter_departure",
}

// timingShortColumns mirror the week-valued columns with shorthand month
// labels such as "early May".
var timingShortColumns = []string{
	"first_appears_short", "peak_short", "last_appears_short",
	"arrival_short", "departure_short",
	"spring_arrival_short", "spring_peak_short", "spring_departure_short",
	"fall_arrival_short", "fall_peak_short", "fall_departure_short",
	"winter_arrival_short", "winter_peak_short", "winter_departure_short",
}

// RunTiming analyzes every parsed species and writes the migration timing
// CSV. Classification runs again here so the stage can be executed on its
// own, without the classify stage's output.
func (p *Pipeline) RunTiming(ctx context.Context) error {
	data, err := p.loadParsedData()
	if err != nil {
		return err
	}
	if _, err := p.IntermediateDir(); err != nil {
		return err
	}

	path := p.intermediateFile("migration_timing.csv")
	f, err := os.Create(path)
	if err != nil {
		return fileWriteError(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, timingColumns...), timingShortColumns...)
	if err := w.Write(header); err != nil {
		return fileWriteError(err, path)
	}

	for _, s := range sortedSpecies(data) {
		if err := ctx.Err(); err != nil {
			return err
		}
		pattern, aerr := phenology.AnalyzeSpecies(s.Species, s.Frequencies, p.Config)
		if aerr != nil {
			p.logger.Warn("species skipped", "species", s.Species, "error", aerr)
			continue
		}

		rendered := pattern.Timing.Render()
		short := pattern.Timing.RenderShort()
		row := make([]string, 0, len(header))
		row = append(row, s.Species, string(pattern.PatternType))
		for _, col := range timingColumns[2:] {
			row = append(row, rendered[col])
		}
		for _, col := range timingShortColumns {
			row = append(row, short[strings.TrimSuffix(col, "_short")])
		}
		if err := w.Write(row); err != nil {
			return fileWriteError(err, path)
		}
	}
	w.Flush()
	return w.Error()
}
