package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tphakala/birdfinder-go/internal/ebird"
	"github.com/tphakala/birdfinder-go/internal/errors"
)

// RunHotspots fetches the region's hotspots from the eBird API, archives
// the raw response, compares against the previous cleaned data and writes
// the cleaned hotspot JSON consumed by the web app.
func (p *Pipeline) RunHotspots(ctx context.Context) error {
	if p.Region.EBirdRegionCode == "" {
		return errors.Newf("region %s has no ebird_region_code configured", p.Region.RegionID).
			Component("pipeline").
			Category(errors.CategoryConfiguration).
			Build()
	}

	e := &p.Settings.EBird
	client, err := ebird.NewClient(ebird.Config{
		APIKey:      e.APIKey,
		BaseURL:     e.BaseURL,
		Timeout:     time.Duration(e.Timeout) * time.Second,
		CacheTTL:    time.Duration(e.CacheTTL) * time.Minute,
		RateLimitMS: e.RateLimitMS,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	hotspots, err := client.Hotspots(ctx, p.Region.EBirdRegionCode)
	if err != nil {
		return err
	}
	p.logger.Info("hotspots fetched",
		"region_code", p.Region.EBirdRegionCode, "count", len(hotspots))

	hotspotsDir := filepath.Join(p.RegionDir(), "hotspots")
	rawDir := filepath.Join(hotspotsDir, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return fileWriteError(err, rawDir)
	}

	rawPath := filepath.Join(rawDir,
		"ebird_hotspots_"+time.Now().Format("2006-01-02_150405")+".json")
	rawPayload, err := p.marshalJSON(hotspots)
	if err != nil {
		return err
	}
	if err := os.WriteFile(rawPath, rawPayload, 0o644); err != nil {
		return fileWriteError(err, rawPath)
	}

	cleaned := p.cleanHotspots(hotspots)

	cleanedPath := filepath.Join(hotspotsDir, p.Region.RegionID+"_hotspots.json")
	if previous, perr := loadCleanedHotspots(cleanedPath); perr == nil {
		p.logHotspotChanges(previous, cleaned)
	}

	payload, err := p.marshalJSON(cleaned)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cleanedPath, payload, 0o644); err != nil {
		return fileWriteError(err, cleanedPath)
	}

	p.logger.Info("hotspot data written", "count", len(cleaned), "output", cleanedPath)
	return nil
}

// cleanHotspots converts the raw API hotspots to the published shape,
// applying the configured species floor and count cap.
func (p *Pipeline) cleanHotspots(hotspots []ebird.Hotspot) []ebird.CleanedHotspot {
	cleaned := make([]ebird.CleanedHotspot, 0, len(hotspots))
	for i := range hotspots {
		h := &hotspots[i]
		if p.Settings.EBird.MinSpecies > 0 && h.NumSpeciesAllTime < p.Settings.EBird.MinSpecies {
			continue
		}
		cleaned = append(cleaned, h.Cleaned())
	}

	// Busiest hotspots first; the cap keeps the best ones.
	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].NumSpecies > cleaned[j].NumSpecies
	})
	if limit := p.Settings.EBird.MaxHotspots; limit > 0 && len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return cleaned
}

func loadCleanedHotspots(path string) ([]ebird.CleanedHotspot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hotspots []ebird.CleanedHotspot
	if err := json.Unmarshal(raw, &hotspots); err != nil {
		return nil, err
	}
	return hotspots, nil
}

// logHotspotChanges reports additions, removals and renames relative to
// the previously published data.
func (p *Pipeline) logHotspotChanges(old, updated []ebird.CleanedHotspot) {
	oldByID := make(map[string]*ebird.CleanedHotspot, len(old))
	for i := range old {
		oldByID[old[i].LocID] = &old[i]
	}
	newByID := make(map[string]*ebird.CleanedHotspot, len(updated))
	for i := range updated {
		newByID[updated[i].LocID] = &updated[i]
	}

	var added, removed, renamed int
	for id, h := range newByID {
		prev, ok := oldByID[id]
		switch {
		case !ok:
			added++
			p.logger.Info("hotspot added", "loc_id", id, "name", h.Name)
		case prev.Name != h.Name:
			renamed++
			p.logger.Info("hotspot renamed", "loc_id", id, "old", prev.Name, "new", h.Name)
		}
	}
	for id, h := range oldByID {
		if _, ok := newByID[id]; !ok {
			removed++
			p.logger.Info("hotspot removed", "loc_id", id, "name", h.Name)
		}
	}

	p.logger.Info("hotspot comparison",
		"previous", len(old), "current", len(updated),
		"added", added, "removed", removed, "renamed", renamed)
}
