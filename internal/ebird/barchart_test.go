package ebird

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frequencyRow(name string, value string, count int) string {
	return name + strings.Repeat("\t"+value, count)
}

func sampleBarchart() string {
	lines := []string{
		"Frequency of observations in the selected location(s)",
		"",
		"Number of taxa:\t4",
		"",
		"\tJan\tJan\tJan\tJan\tFeb",
		"Sample Size:" + strings.Repeat("\t100.0", 48),
		"",
		frequencyRow("Snow Goose", "0.25", 48),
		frequencyRow("duck sp.", "0.5", 48),
		frequencyRow("Mallard/American Black Duck", "0.5", 48),
		frequencyRow("Mallard", "0.5", 47),
		frequencyRow("Canada Goose", "0.75", 48),
	}
	return strings.Join(lines, "\n")
}

func TestParseBarchart(t *testing.T) {
	t.Parallel()

	data, err := ParseBarchart(strings.NewReader(sampleBarchart()))
	require.NoError(t, err)

	assert.Equal(t, 4, data.NumTaxa)
	assert.Len(t, data.SampleSizes, 48)
	assert.Equal(t, 100.0, data.SampleSizes[0])
	assert.Len(t, data.WeekLabels, 48)
	assert.Equal(t, "Jan_W1", data.WeekLabels[0])
	assert.Equal(t, "Dec_W4", data.WeekLabels[47])

	// Spuhs, slash taxa and incomplete rows are dropped.
	require.Len(t, data.Species, 2)
	assert.Equal(t, "Snow Goose", data.Species[0].Species)
	assert.Equal(t, "Canada Goose", data.Species[1].Species)
	assert.Len(t, data.Species[0].Frequencies, 48)
	assert.Equal(t, 0.25, data.Species[0].Frequencies[0])

	m := data.FrequencyMap()
	require.Contains(t, m, "Canada Goose")
	assert.Equal(t, 0.75, m["Canada Goose"][10])
}

func TestParseBarchartErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing sample size header", func(t *testing.T) {
		_, err := ParseBarchart(strings.NewReader("Number of taxa:\t2\n\nSnow Goose\t0.5\n"))
		assert.Error(t, err)
	})

	t.Run("malformed sample size", func(t *testing.T) {
		_, err := ParseBarchart(strings.NewReader("Sample Size:\tabc\n"))
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseBarchart(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestWeekLabels(t *testing.T) {
	t.Parallel()

	labels := WeekLabels()
	require.Len(t, labels, 48)
	assert.Equal(t, "Jan_W1", labels[0])
	assert.Equal(t, "Jan_W4", labels[3])
	assert.Equal(t, "May_W1", labels[16])
	assert.Equal(t, "Dec_W4", labels[47])
}
