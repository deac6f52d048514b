// Package pipeline orchestrates the region data processing stages: parsing
// the eBird barchart export, classifying migration patterns, extracting
// timing, merging everything into the published species JSON, and
// refreshing hotspot reference data.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/logging"
	"github.com/tphakala/birdfinder-go/internal/phenology"
)

// Pipeline runs the processing stages for one region.
type Pipeline struct {
	Settings *conf.Settings
	Region   *conf.RegionConfig
	Config   *phenology.Config

	logger *slog.Logger
}

// New builds a pipeline for the region selected in settings. The region's
// threshold overrides are applied on top of the global analysis defaults.
func New(settings *conf.Settings) (*Pipeline, error) {
	region, err := conf.LoadRegionConfig(settings.Region.ID, settings.Region.Dir)
	if err != nil {
		return nil, err
	}

	cfg := settings.Analysis.PhenologyConfig()
	region.ApplyThresholds(cfg)

	logger := logging.ForService("pipeline")
	if logger == nil {
		logger = slog.Default().With("service", "pipeline")
	}

	return &Pipeline{
		Settings: settings,
		Region:   region,
		Config:   cfg,
		logger:   logger,
	}, nil
}

// RegionDir returns the directory holding the region's input and output files.
func (p *Pipeline) RegionDir() string {
	return filepath.Join(p.Settings.Region.Dir, p.Region.RegionID)
}

// IntermediateDir returns the directory for stage intermediates, creating
// it if needed.
func (p *Pipeline) IntermediateDir() (string, error) {
	dir := filepath.Join(p.RegionDir(), "intermediate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(err).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}
	return dir, nil
}

// intermediateFile returns the path of a named intermediate for this region.
func (p *Pipeline) intermediateFile(suffix string) string {
	return filepath.Join(p.RegionDir(), "intermediate",
		fmt.Sprintf("%s_%s", p.Region.RegionID, suffix))
}

// Run executes the full pipeline: parse, classify, timing, merge. Hotspot
// fetching is not part of the standard run since it needs API access.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline starting",
		"region", p.Region.RegionID,
		"display_name", p.Region.DisplayName)

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"parse", p.RunParse},
		{"classify", p.RunClassify},
		{"timing", p.RunTiming},
		{"merge", p.RunMerge},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Info("stage starting", "stage", stage.name)
		if err := stage.run(ctx); err != nil {
			p.logger.Error("stage failed", "stage", stage.name, "error", err)
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
		p.logger.Info("stage complete", "stage", stage.name)
	}

	p.logger.Info("pipeline complete", "region", p.Region.RegionID)
	return nil
}

// Analyze loads the parsed barchart intermediate and runs the full
// per-species analysis in one pass. Validation failures are logged and
// skipped rather than aborting the batch.
func (p *Pipeline) Analyze(ctx context.Context) (map[string]*phenology.SpeciesPattern, error) {
	data, err := p.loadParsedData()
	if err != nil {
		return nil, err
	}

	results, failures := phenology.AnalyzeAll(ctx, data.FrequencyMap(), p.Config)
	for name, ferr := range failures {
		p.logger.Warn("species skipped", "species", name, "error", ferr)
	}
	if len(results) == 0 {
		return nil, errors.Newf("no species could be analyzed").
			Component("pipeline").
			Category(errors.CategoryProcessing).
			Context("region", p.Region.RegionID).
			Build()
	}
	return results, nil
}
