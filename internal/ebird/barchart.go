// Package ebird reads eBird data: the barchart frequency export consumed by
// the phenology pipeline and the public API for hotspot reference data.
package ebird

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

var monthAbbrevs = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// SpeciesFrequencies is one parsed barchart row.
type SpeciesFrequencies struct {
	Species     string    `json:"species"`
	Frequencies []float64 `json:"frequencies"`
}

// BarchartData is the parsed content of an eBird barchart export.
type BarchartData struct {
	NumTaxa     int                  `json:"num_taxa"`
	SampleSizes []float64            `json:"sample_sizes"`
	WeekLabels  []string             `json:"week_labels"`
	Species     []SpeciesFrequencies `json:"species_data"`
}

// FrequencyMap returns the species name to frequency vector mapping the
// phenology core consumes.
func (b *BarchartData) FrequencyMap() map[string][]float64 {
	m := make(map[string][]float64, len(b.Species))
	for _, s := range b.Species {
		m[s.Species] = s.Frequencies
	}
	return m
}

// WeekLabels returns the 48 column labels of the barchart format, four per
// month: Jan_W1 .. Dec_W4.
func WeekLabels() []string {
	labels := make([]string, 0, phenology.WeeksPerYear)
	for _, month := range monthAbbrevs {
		for week := 1; week <= phenology.WeeksPerMonth; week++ {
			labels = append(labels, month+"_W"+strconv.Itoa(week))
		}
	}
	return labels
}

// ParseBarchart parses the tab-separated eBird barchart text export. Header
// lines carry the taxa count and per-week sample sizes; species rows follow
// two lines after the sample size line. Spuh ("sp.") and slash taxa are
// dropped, as are rows without a complete 48-week vector.
func ParseBarchart(r io.Reader) (*BarchartData, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	data := &BarchartData{WeekLabels: WeekLabels()}

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(err).
			Component("ebird").
			Category(errors.CategoryFileIO).
			Context("operation", "read-barchart").
			Build()
	}

	dataStart := -1
	for i, line := range lines {
		if strings.Contains(line, "Number of taxa:") {
			fields := strings.Split(line, "\t")
			if len(fields) > 1 {
				if n, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil {
					data.NumTaxa = n
				}
			}
		}
		if strings.HasPrefix(line, "Sample Size:") {
			for _, field := range strings.Split(line, "\t")[1:] {
				field = strings.TrimSpace(field)
				if field == "" {
					continue
				}
				size, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, errors.Newf("malformed sample size %q", field).
						Component("ebird").
						Category(errors.CategoryFileParsing).
						Context("line", i).
						Build()
				}
				data.SampleSizes = append(data.SampleSizes, size)
			}
			// Species rows begin two lines below the sample size header.
			dataStart = i + 2
			break
		}
	}
	if dataStart < 0 {
		return nil, errors.Newf("no sample size header found in barchart input").
			Component("ebird").
			Category(errors.CategoryFileParsing).
			Build()
	}

	for _, line := range lines[min(dataStart, len(lines)):] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		// Spuhs and slash combos are not identifiable species.
		if strings.Contains(name, "sp.") || strings.Contains(name, "/") {
			continue
		}

		var frequencies []float64
		for _, field := range parts[1:] {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if f, err := strconv.ParseFloat(field, 64); err == nil {
				frequencies = append(frequencies, f)
			}
		}
		if len(frequencies) != phenology.WeeksPerYear {
			continue
		}

		data.Species = append(data.Species, SpeciesFrequencies{
			Species:     name,
			Frequencies: frequencies,
		})
	}

	return data, nil
}
