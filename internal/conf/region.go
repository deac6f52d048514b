package conf

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// RegionConfig holds per-region settings loaded from
// regions/<id>/config.yaml. Threshold entries override the global
// analysis defaults for that region only.
type RegionConfig struct {
	RegionID        string             `yaml:"region_id"`
	DisplayName     string             `yaml:"display_name"`
	Description     string             `yaml:"description,omitempty"`
	EBirdRegionCode string             `yaml:"ebird_region_code,omitempty"`
	Timezone        string             `yaml:"timezone,omitempty"`
	Paths           map[string]string  `yaml:"paths,omitempty"`
	Thresholds      map[string]float64 `yaml:"thresholds,omitempty"`

	configPath string
}

// Threshold returns a threshold override, or the given default when the
// region does not set it.
func (rc *RegionConfig) Threshold(name string, def float64) float64 {
	if v, ok := rc.Thresholds[name]; ok {
		return v
	}
	return def
}

// Path returns a path setting, or the given default when unset.
func (rc *RegionConfig) Path(name, def string) string {
	if v, ok := rc.Paths[name]; ok && v != "" {
		return v
	}
	return def
}

// Threshold override keys accepted in region config files.
const (
	ThresholdValleyMinLength     = "valley_min_length"
	ThresholdValleyPeakRatio     = "valley_peak_ratio"
	ThresholdValleyAbsoluteFloor = "valley_absolute_floor"
	ThresholdTimingPeakRatio     = "timing_peak_ratio"
	ThresholdTimingAbsoluteFloor = "timing_absolute_floor"
	ThresholdMinPeakFrequency    = "min_peak_frequency"
	ThresholdMinWeeksPresence    = "min_weeks_presence"
)

// ApplyThresholds overlays the region's threshold overrides onto a
// phenology config. Unknown keys are ignored.
func (rc *RegionConfig) ApplyThresholds(cfg *phenology.Config) {
	for name, value := range rc.Thresholds {
		switch name {
		case ThresholdValleyMinLength:
			cfg.ValleyMinLength = int(value)
		case ThresholdValleyPeakRatio:
			cfg.ValleyPeakRatio = value
		case ThresholdValleyAbsoluteFloor:
			cfg.ValleyAbsoluteFloor = value
		case ThresholdTimingPeakRatio:
			cfg.TimingPeakRatio = value
		case ThresholdTimingAbsoluteFloor:
			cfg.TimingAbsoluteFloor = value
		case ThresholdMinPeakFrequency:
			cfg.MinPeakFrequency = value
		case ThresholdMinWeeksPresence:
			cfg.MinWeeksPresence = int(value)
		}
	}
}

// LoadRegionConfig loads configuration for a region from
// <regionsDir>/<regionID>/config.yaml. A missing file is not an error;
// a minimal config with a title-cased display name is returned instead.
func LoadRegionConfig(regionID, regionsDir string) (*RegionConfig, error) {
	if err := validateRegionID(regionID); err != nil {
		return nil, err
	}

	configPath := filepath.Join(regionsDir, regionID, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultRegionConfig(regionID), nil
		}
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("region", regionID).
			Context("path", configPath).
			Build()
	}

	rc := &RegionConfig{}
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileParsing).
			Context("region", regionID).
			Context("path", configPath).
			Build()
	}
	rc.configPath = configPath

	if rc.RegionID == "" {
		rc.RegionID = regionID
	} else if rc.RegionID != regionID {
		return nil, errors.Newf("region id mismatch: config says %q but loading for %q", rc.RegionID, regionID).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("path", configPath).
			Build()
	}
	if rc.DisplayName == "" {
		return nil, errors.Newf("region config %s missing required field display_name", configPath).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if rc.Timezone == "" {
		rc.Timezone = "America/New_York"
	}

	if err := validateRegionConfig(rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// SaveRegionConfig writes a region configuration to
// <regionsDir>/<regionID>/config.yaml, creating directories as needed.
func SaveRegionConfig(rc *RegionConfig, regionsDir string) error {
	configPath := filepath.Join(regionsDir, rc.RegionID, "config.yaml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("region", rc.RegionID).
			Build()
	}

	data, err := yaml.Marshal(rc)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("region", rc.RegionID).
			Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}
	rc.configPath = configPath
	return nil
}

// ListRegions returns the sorted ids of regions that have a directory
// under regionsDir.
func ListRegions(regionsDir string) ([]string, error) {
	entries, err := os.ReadDir(regionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", regionsDir).
			Build()
	}

	var regions []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			regions = append(regions, entry.Name())
		}
	}
	sort.Strings(regions)
	return regions, nil
}

func defaultRegionConfig(regionID string) *RegionConfig {
	display := strings.ReplaceAll(regionID, "_", " ")
	display = strings.ReplaceAll(display, "-", " ")
	words := strings.Fields(display)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return &RegionConfig{
		RegionID:    regionID,
		DisplayName: strings.Join(words, " "),
		Timezone:    "America/New_York",
	}
}

func validateRegionID(regionID string) error {
	if regionID == "" {
		return errors.Newf("region id cannot be empty").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	for _, r := range regionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return errors.Newf("region id must contain only alphanumerics, hyphens and underscores: %q", regionID).
				Component("conf").
				Category(errors.CategoryValidation).
				Build()
		}
	}
	return nil
}

func validateRegionConfig(rc *RegionConfig) error {
	for name, value := range rc.Thresholds {
		if value < 0 {
			return errors.Newf("threshold %q cannot be negative: %v", name, value).
				Component("conf").
				Category(errors.CategoryValidation).
				Context("region", rc.RegionID).
				Build()
		}
	}
	return nil
}
