// Package conf handles loading and managing application configuration.
// Settings come from a YAML config file, environment variables, and
// per-region configuration files that override analysis thresholds.
package conf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// LogConfig defines the configuration for application logging.
type LogConfig struct {
	Enabled bool   // true to enable file logging
	Path    string // path to log file
	Level   string // minimum level: trace, debug, info, warn, error
}

// MainSettings contains general application settings.
type MainSettings struct {
	Name string    // name of this node, used in logs and output metadata
	Log  LogConfig // application logging configuration
}

// EBirdSettings contains settings for the eBird API client.
type EBirdSettings struct {
	APIKey       string // eBird API key, also read from EBIRD_API_KEY
	BaseURL      string // API base URL
	Timeout      int    // request timeout in seconds
	CacheTTL     int    // response cache lifetime in minutes
	RateLimitMS  int    // minimum milliseconds between requests
	MaxHotspots  int    // cap on hotspots kept per region, 0 for no cap
	MinSpecies   int    // drop hotspots with fewer species than this
}

// AnalysisSettings holds the default migration analysis thresholds.
// Region configs may override individual values.
type AnalysisSettings struct {
	ValleyMinLength        int     // minimum consecutive low weeks to form a valley
	ValleyPeakRatio        float64 // valley threshold as fraction of peak frequency
	ValleyAbsoluteFloor    float64 // minimum absolute valley threshold
	TimingPeakRatio        float64 // arrival/departure threshold as fraction of peak
	TimingAbsoluteFloor    float64 // minimum absolute timing threshold
	MinPeakFrequency       float64 // below this peak a species is a vagrant
	MinWeeksPresence       int     // below this many weeks present a species is a vagrant
	LowPresenceWeeks       int     // below this many weeks present gets a low_presence flag
	SeasonalVariationRatio float64 // min/max ratio under which residents get flagged
	ResidentBoundaryRatio  float64 // min/max ratio near the resident boundary
	ValleySeparationWeeks  int     // midpoint distance for "well separated" valleys
}

// PhenologyConfig converts analysis settings into the config consumed by
// the phenology package.
func (a *AnalysisSettings) PhenologyConfig() *phenology.Config {
	return &phenology.Config{
		ValleyMinLength:        a.ValleyMinLength,
		ValleyPeakRatio:        a.ValleyPeakRatio,
		ValleyAbsoluteFloor:    a.ValleyAbsoluteFloor,
		TimingPeakRatio:        a.TimingPeakRatio,
		TimingAbsoluteFloor:    a.TimingAbsoluteFloor,
		MinPeakFrequency:       a.MinPeakFrequency,
		MinWeeksPresence:       a.MinWeeksPresence,
		LowPresenceWeeks:       a.LowPresenceWeeks,
		SeasonalVariationRatio: a.SeasonalVariationRatio,
		ResidentBoundaryRatio:  a.ResidentBoundaryRatio,
		ValleySeparationWeeks:  a.ValleySeparationWeeks,
	}
}

// OutputSettings controls where and how pipeline results are written.
type OutputSettings struct {
	Directory string // root directory for generated files
	Indent    bool   // true to indent generated JSON
}

// RegionSettings selects the region to process.
type RegionSettings struct {
	ID  string // region identifier, e.g. "washtenaw"
	Dir string // directory holding regions/<id>/config.yaml and inputs
}

// Settings contains all configuration options for the application.
type Settings struct {
	Debug bool // true to enable debug logging

	Main     MainSettings
	Region   RegionSettings
	EBird    EBirdSettings
	Analysis AnalysisSettings
	Output   OutputSettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance and stores it as the global instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// The API key may live in the environment rather than on disk.
	if key := os.Getenv("EBIRD_API_KEY"); key != "" {
		settings.EBird.APIKey = key
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the
// first default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// GetSettings returns the current settings instance.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}
