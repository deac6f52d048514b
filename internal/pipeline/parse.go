package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tphakala/birdfinder-go/internal/ebird"
	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// findInputFile locates the eBird barchart export in the region directory.
// The glob pattern can be overridden per region with the input_pattern path.
func (p *Pipeline) findInputFile() (string, error) {
	pattern := p.Region.Path("input_pattern", "ebird_*.txt")
	matches, err := filepath.Glob(filepath.Join(p.RegionDir(), pattern))
	if err != nil {
		return "", errors.New(err).
			Component("pipeline").
			Category(errors.CategoryValidation).
			Context("pattern", pattern).
			Build()
	}
	if len(matches) == 0 {
		return "", errors.Newf("no barchart input matching %q in %s", pattern, p.RegionDir()).
			Component("pipeline").
			Category(errors.CategoryNotFound).
			Context("region", p.Region.RegionID).
			Build()
	}
	if len(matches) > 1 {
		p.logger.Warn("multiple barchart inputs found, using first",
			"count", len(matches), "using", matches[0])
	}
	return matches[0], nil
}

// RunParse parses the barchart export and writes the wide CSV, long CSV
// and JSON intermediates.
func (p *Pipeline) RunParse(ctx context.Context) error {
	inputPath, err := p.findInputFile()
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("path", inputPath).
			Build()
	}
	defer f.Close()

	data, err := ebird.ParseBarchart(f)
	if err != nil {
		return err
	}
	p.logger.Info("barchart parsed",
		"input", filepath.Base(inputPath),
		"taxa", data.NumTaxa,
		"species_kept", len(data.Species))

	if _, err := p.IntermediateDir(); err != nil {
		return err
	}

	if err := p.writeWideCSV(data); err != nil {
		return err
	}
	if err := p.writeLongCSV(data); err != nil {
		return err
	}
	return p.writeParsedJSON(data)
}

// writeWideCSV writes one row per species with 48 week columns.
func (p *Pipeline) writeWideCSV(data *ebird.BarchartData) error {
	path := p.intermediateFile("ebird_data_wide.csv")
	f, err := os.Create(path)
	if err != nil {
		return fileWriteError(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Species"}, data.WeekLabels...)
	if err := w.Write(header); err != nil {
		return fileWriteError(err, path)
	}
	for _, s := range data.Species {
		row := make([]string, 0, len(s.Frequencies)+1)
		row = append(row, s.Species)
		for _, freq := range s.Frequencies {
			row = append(row, formatFrequency(freq))
		}
		if err := w.Write(row); err != nil {
			return fileWriteError(err, path)
		}
	}
	w.Flush()
	return w.Error()
}

// writeLongCSV writes one row per species and week, the shape analysis
// and plotting tools prefer.
func (p *Pipeline) writeLongCSV(data *ebird.BarchartData) error {
	path := p.intermediateFile("ebird_data_long.csv")
	f, err := os.Create(path)
	if err != nil {
		return fileWriteError(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Species", "Month", "Week", "Week_Label", "Frequency", "Sample_Size"}); err != nil {
		return fileWriteError(err, path)
	}
	for _, s := range data.Species {
		for i, freq := range s.Frequencies {
			month := i/phenology.WeeksPerMonth + 1
			weekInMonth := i%phenology.WeeksPerMonth + 1
			sampleSize := ""
			if i < len(data.SampleSizes) {
				sampleSize = formatFrequency(data.SampleSizes[i])
			}
			row := []string{
				s.Species,
				strconv.Itoa(month),
				strconv.Itoa(weekInMonth),
				data.WeekLabels[i],
				formatFrequency(freq),
				sampleSize,
			}
			if err := w.Write(row); err != nil {
				return fileWriteError(err, path)
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (p *Pipeline) writeParsedJSON(data *ebird.BarchartData) error {
	path := p.intermediateFile("ebird_data.json")
	payload, err := p.marshalJSON(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fileWriteError(err, path)
	}
	return nil
}

// loadParsedData reads the JSON intermediate produced by RunParse.
func (p *Pipeline) loadParsedData() (*ebird.BarchartData, error) {
	path := p.intermediateFile("ebird_data.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Context("hint", "run the parse stage first").
			Build()
	}
	data := &ebird.BarchartData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return data, nil
}

// marshalJSON honors the output indent setting.
func (p *Pipeline) marshalJSON(v any) ([]byte, error) {
	var payload []byte
	var err error
	if p.Settings.Output.Indent {
		payload, err = json.MarshalIndent(v, "", "  ")
	} else {
		payload, err = json.Marshal(v)
	}
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryProcessing).
			Build()
	}
	return payload, nil
}

func formatFrequency(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func fileWriteError(err error, path string) error {
	return errors.New(err).
		Component("pipeline").
		Category(errors.CategoryFileIO).
		Context("path", path).
		Build()
}
