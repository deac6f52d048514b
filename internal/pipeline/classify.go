package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tphakala/birdfinder-go/internal/ebird"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// classificationColumns is the header of the classifications intermediate.
var classificationColumns = []string{
	"species", "category", "pattern_type",
	"peak_frequency", "min_frequency", "min_max_ratio",
	"weeks_with_presence", "num_valleys", "edge_case_flags",
}

// RunClassify analyzes every parsed species and writes the migration
// pattern classifications CSV.
func (p *Pipeline) RunClassify(ctx context.Context) error {
	data, err := p.loadParsedData()
	if err != nil {
		return err
	}
	if _, err := p.IntermediateDir(); err != nil {
		return err
	}

	path := p.intermediateFile("migration_pattern_classifications.csv")
	f, err := os.Create(path)
	if err != nil {
		return fileWriteError(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(classificationColumns); err != nil {
		return fileWriteError(err, path)
	}

	categoryCounts := make(map[phenology.Category]int)
	for _, s := range sortedSpecies(data) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if verr := phenology.ValidateFrequencies(s.Species, s.Frequencies); verr != nil {
			p.logger.Warn("species skipped", "species", s.Species, "error", verr)
			continue
		}

		m := phenology.ComputeMetrics(s.Frequencies, p.Config)
		cl := phenology.ClassifyMetrics(&m, p.Config)
		categoryCounts[cl.Category]++

		row := []string{
			s.Species,
			string(cl.Category),
			string(cl.PatternType),
			formatFrequency(m.PeakFrequency),
			formatFrequency(m.MinFrequency),
			formatFrequency(m.MinMaxRatio),
			strconv.Itoa(m.WeeksWithPresence),
			strconv.Itoa(len(m.Valleys)),
			strings.Join(cl.Flags, "|"),
		}
		if err := w.Write(row); err != nil {
			return fileWriteError(err, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fileWriteError(err, path)
	}

	for category, count := range categoryCounts {
		p.logger.Info("classification summary", "category", string(category), "count", count)
	}
	return nil
}

// sortedSpecies returns the parsed rows in stable name order so rerunning
// a stage produces identical output.
func sortedSpecies(data *ebird.BarchartData) []ebird.SpeciesFrequencies {
	rows := make([]ebird.SpeciesFrequencies, len(data.Species))
	copy(rows, data.Species)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Species < rows[j].Species })
	return rows
}
