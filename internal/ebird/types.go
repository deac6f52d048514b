// Package ebird provides a client for interacting with the eBird API v2
// and a parser for the eBird barchart frequency export.
package ebird

import "time"

// Hotspot represents a single hotspot from the eBird reference API.
// The hotspot endpoint answers with CSV columns in this order.
type Hotspot struct {
	LocID             string  `json:"locId"`
	CountryCode       string  `json:"countryCode"`
	Subnational1Code  string  `json:"subnational1Code"`
	Subnational2Code  string  `json:"subnational2Code"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	LocName           string  `json:"locName"`
	LatestObsDt       string  `json:"latestObsDt,omitempty"`
	NumSpeciesAllTime int     `json:"numSpeciesAllTime"`
}

// CleanedHotspot is the trimmed hotspot shape published for the web app.
// Knowledge is a placeholder for editor-written content merged in later.
type CleanedHotspot struct {
	LocID      string  `json:"locId"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	NumSpecies int     `json:"numSpecies"`
	LatestObs  string  `json:"latestObs,omitempty"`
	Knowledge  *string `json:"knowledge"`
}

// Cleaned converts an API hotspot into the published shape.
func (h *Hotspot) Cleaned() CleanedHotspot {
	return CleanedHotspot{
		LocID:      h.LocID,
		Name:       h.LocName,
		Lat:        h.Lat,
		Lng:        h.Lng,
		NumSpecies: h.NumSpeciesAllTime,
		LatestObs:  h.LatestObsDt,
	}
}

// Config holds configuration for the eBird client
type Config struct {
	APIKey      string        `json:"api_key"`
	BaseURL     string        `json:"base_url"`
	Timeout     time.Duration `json:"timeout"`
	CacheTTL    time.Duration `json:"cache_ttl"`
	RateLimitMS int           `json:"rate_limit_ms"` // Milliseconds between requests
}

// Error represents an eBird API error response
type Error struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return e.Detail
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api.ebird.org/v2",
		Timeout:     30 * time.Second,
		CacheTTL:    1 * time.Hour, // Hotspot lists change slowly
		RateLimitMS: 100,           // 10 requests per second max
	}
}
