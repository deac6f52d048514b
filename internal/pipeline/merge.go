package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/phenology"
	"github.com/tphakala/birdfinder-go/internal/species"
)

// SpeciesEntry is one species in the published region JSON.
type SpeciesEntry struct {
	Name            string            `json:"name"`
	Code            string            `json:"code"`
	Category        string            `json:"category"`
	Flags           []string          `json:"flags"`
	Timing          map[string]string `json:"timing"`
	WeeklyFrequency []float64         `json:"weekly_frequency"`
}

// RunMerge combines the frequency, classification and timing intermediates
// into the final species JSON for the region.
func (p *Pipeline) RunMerge(ctx context.Context) error {
	frequencies, err := p.loadWideCSV()
	if err != nil {
		return err
	}
	classifications, err := p.loadClassificationsCSV()
	if err != nil {
		return err
	}
	timings, err := p.loadTimingCSV()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(frequencies))
	for name := range frequencies {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]SpeciesEntry, 0, len(names))
	existingCodes := make(map[string]bool)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		cl, haveClass := classifications[name]
		ti, haveTiming := timings[name]
		if !haveClass || !haveTiming {
			p.logger.Warn("species skipped in merge", "species", name,
				"have_classification", haveClass, "have_timing", haveTiming)
			continue
		}

		code := species.GenerateCode(name, existingCodes)
		existingCodes[code] = true

		entries = append(entries, SpeciesEntry{
			Name:            name,
			Code:            code,
			Category:        cl.category,
			Flags:           cl.flags,
			Timing:          buildTiming(ti.pattern, ti.row),
			WeeklyFrequency: frequencies[name],
		})
	}

	if len(entries) == 0 {
		return errors.Newf("merge produced no species").
			Component("pipeline").
			Category(errors.CategoryProcessing).
			Context("region", p.Region.RegionID).
			Build()
	}

	payload, err := p.marshalJSON(entries)
	if err != nil {
		return err
	}
	outPath := filepath.Join(p.RegionDir(), p.Region.RegionID+"_species_data.json")
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return fileWriteError(err, outPath)
	}

	p.logger.Info("species data merged", "species", len(entries), "output", outPath)
	return nil
}

// buildTiming reduces a timing CSV row to the sparse object published for
// the pattern type. Columns other patterns use stay out of the output.
func buildTiming(pattern string, row map[string]string) map[string]string {
	timing := make(map[string]string)
	pick := func(keys ...string) {
		for _, key := range keys {
			if v := row[key]; v != "" {
				timing[key] = v
			}
		}
	}

	switch phenology.PatternType(pattern) {
	case phenology.PatternYearRound:
		timing["status"] = "year-round"
	case phenology.PatternIrregular:
		pick("status", "first_appears", "peak", "last_appears")
	case phenology.PatternTwoPassage:
		pick("spring_arrival", "spring_peak", "spring_departure",
			"fall_arrival", "fall_peak", "fall_departure")
	case phenology.PatternSummer:
		pick("arrival", "peak", "departure")
	case phenology.PatternWinter:
		pick("winter_arrival", "winter_peak", "winter_departure")
	}
	return timing
}

type classificationRow struct {
	category string
	flags    []string
}

type timingRow struct {
	pattern string
	row     map[string]string
}

// loadWideCSV reads the wide frequency intermediate into a name to vector map.
func (p *Pipeline) loadWideCSV() (map[string][]float64, error) {
	path := p.intermediateFile("ebird_data_wide.csv")
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	frequencies := make(map[string][]float64, len(records))
	for _, record := range records {
		if len(record) != phenology.WeeksPerYear+1 {
			continue
		}
		vector := make([]float64, 0, phenology.WeeksPerYear)
		ok := true
		for _, field := range record[1:] {
			f, perr := strconv.ParseFloat(field, 64)
			if perr != nil {
				ok = false
				break
			}
			vector = append(vector, f)
		}
		if ok {
			frequencies[record[0]] = vector
		}
	}
	return frequencies, nil
}

func (p *Pipeline) loadClassificationsCSV() (map[string]classificationRow, error) {
	path := p.intermediateFile("migration_pattern_classifications.csv")
	rows, err := readCSVByHeader(path)
	if err != nil {
		return nil, err
	}

	classifications := make(map[string]classificationRow, len(rows))
	for _, row := range rows {
		name := row["species"]
		if name == "" {
			continue
		}
		classifications[name] = classificationRow{
			category: row["category"],
			flags:    parseFlags(row["edge_case_flags"]),
		}
	}
	return classifications, nil
}

func (p *Pipeline) loadTimingCSV() (map[string]timingRow, error) {
	path := p.intermediateFile("migration_timing.csv")
	rows, err := readCSVByHeader(path)
	if err != nil {
		return nil, err
	}

	timings := make(map[string]timingRow, len(rows))
	for _, row := range rows {
		name := row["species"]
		if name == "" {
			continue
		}
		timings[name] = timingRow{pattern: row["pattern"], row: row}
	}
	return timings, nil
}

// parseFlags splits the pipe separated flag column. Empty input yields an
// empty, non-nil slice so the published JSON carries [] rather than null.
func parseFlags(flagField string) []string {
	flags := []string{}
	for _, flag := range strings.Split(flagField, "|") {
		if flag = strings.TrimSpace(flag); flag != "" {
			flags = append(flags, flag)
		}
	}
	return flags
}

// readCSV returns the data records of a CSV file, header excluded.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Context("hint", "run the earlier pipeline stages first").
			Build()
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	if len(records) < 1 {
		return nil, errors.Newf("csv file %s is empty", path).
			Component("pipeline").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return records[1:], nil
}

// readCSVByHeader returns the records of a CSV file as column name to
// value maps keyed off the header row.
func readCSVByHeader(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Context("hint", "run the earlier pipeline stages first").
			Build()
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	if len(records) < 1 {
		return nil, errors.Newf("csv file %s is empty", path).
			Component("pipeline").
			Category(errors.CategoryFileParsing).
			Build()
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
