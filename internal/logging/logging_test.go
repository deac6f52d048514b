package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: the tests reconfigure the package-level loggers.
func TestSetOutputRedirectsLoggers(t *testing.T) {
	Init()

	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	ForService("pipeline").Info("stage complete", "stage", "parse")
	HumanReadable().Info("stage complete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "stage complete", entry["msg"])
	assert.Equal(t, "pipeline", entry["service"])
	assert.Equal(t, "parse", entry["stage"])

	assert.Contains(t, human.String(), "stage complete")
}

func TestCustomLevelNames(t *testing.T) {
	t.Parallel()

	levelAttr := func(level slog.Level) slog.Attr {
		return slog.Attr{Key: slog.LevelKey, Value: slog.AnyValue(level)}
	}

	assert.Equal(t, "TRACE", replaceLevelNames(nil, levelAttr(LevelTrace)).Value.String())
	assert.Equal(t, "FATAL", replaceLevelNames(nil, levelAttr(LevelFatal)).Value.String())
	// Standard levels keep their slog names.
	assert.Equal(t, "INFO", replaceLevelNames(nil, levelAttr(slog.LevelInfo)).Value.String())
}

func TestNewFileLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "service.log")
	logger, closeLogger, err := NewFileLogger(path, "ebird", slog.LevelDebug)
	require.NoError(t, err)

	logger.Info("client initialized", "region", "US-MI-161")
	require.NoError(t, closeLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "client initialized", entry["msg"])
	assert.Equal(t, "ebird", entry["service"])
	assert.Equal(t, "US-MI-161", entry["region"])
}
