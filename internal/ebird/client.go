package ebird

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/birdfinder-go/internal/errors"
	"github.com/tphakala/birdfinder-go/internal/logging"
)

// Package-level logger specific to ebird service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	// Define log file path relative to working directory
	logFilePath := filepath.Join("logs", "ebird.log")
	initialLevel := slog.LevelDebug
	serviceLevelVar.Set(initialLevel)

	// Initialize the service-specific file logger
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "ebird", serviceLevelVar)
	if err != nil {
		// Fallback: log error to standard log and disable service file logging
		log.Printf("FATAL: Failed to initialize ebird file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "ebird")
		closeLogger = func() error { return nil }
	}
}

// Client provides methods for interacting with the eBird API
type Client struct {
	config      Config
	httpClient  *http.Client
	cache       *cache.Cache
	rateLimiter *time.Ticker
	mu          sync.RWMutex
	lastRequest time.Time
	debug       bool

	// Metrics
	metrics struct {
		apiCalls      int64
		cacheHits     int64
		cacheMisses   int64
		apiErrors     int64
		totalDuration time.Duration
		mu            sync.RWMutex
	}
}

// NewClient creates a new eBird API client
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.Newf("eBird API key is required").
			Category(errors.CategoryConfiguration).
			Component("ebird").
			Build()
	}

	// Use defaults for missing config values
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	if config.RateLimitMS == 0 {
		config.RateLimitMS = DefaultConfig().RateLimitMS
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		cache:       cache.New(config.CacheTTL, config.CacheTTL*2),
		rateLimiter: time.NewTicker(time.Duration(config.RateLimitMS) * time.Millisecond),
	}

	logger.Info("eBird client initialized",
		"base_url", config.BaseURL,
		"cache_ttl", config.CacheTTL,
		"rate_limit_ms", config.RateLimitMS,
		"api_key_configured", config.APIKey != "")

	return client, nil
}

// SetDebug toggles verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetTransport replaces the HTTP transport, used by tests.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// Close cleans up client resources
func (c *Client) Close() {
	c.rateLimiter.Stop()
	logger.Info("Closing eBird client")

	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			// Use standard log since our logger might be closing
			log.Printf("Error closing eBird logger: %v", err)
		}
	}
}

// Hotspots retrieves all hotspots for a region code such as "US-MI-161".
// Results are cached for the configured TTL.
func (c *Client) Hotspots(ctx context.Context, regionCode string) ([]Hotspot, error) {
	if regionCode == "" {
		return nil, errors.Newf("region code is required").
			Category(errors.CategoryValidation).
			Component("ebird").
			Build()
	}

	cacheKey := fmt.Sprintf("hotspots:%s", regionCode)

	// Check cache first
	if cached, found := c.cache.Get(cacheKey); found {
		if hotspots, ok := cached.([]Hotspot); ok {
			c.metrics.mu.Lock()
			c.metrics.cacheHits++
			c.metrics.mu.Unlock()

			logger.Debug("eBird hotspot cache hit",
				"cache_key", cacheKey,
				"count", len(hotspots))
			return hotspots, nil
		}
	}

	// Cache miss
	c.metrics.mu.Lock()
	c.metrics.cacheMisses++
	c.metrics.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/ref/hotspot/%s", c.config.BaseURL, regionCode)

	body, err := c.doRequestWithRetry(reqCtx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	hotspots, err := parseHotspotCSV(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, hotspots, cache.DefaultExpiration)

	logger.Info("eBird hotspots fetched",
		"region", regionCode,
		"count", len(hotspots))

	return hotspots, nil
}

// parseHotspotCSV decodes the CSV body of the hotspot reference endpoint.
// Rows with fewer than nine columns are skipped.
func parseHotspotCSV(r io.Reader) ([]Hotspot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var hotspots []Hotspot
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Newf("failed to parse hotspot CSV: %w", err).
				Category(errors.CategoryFileParsing).
				Component("ebird").
				Build()
		}
		if len(row) < 9 {
			continue
		}

		h := Hotspot{
			LocID:            row[0],
			CountryCode:      row[1],
			Subnational1Code: row[2],
			Subnational2Code: row[3],
			LocName:          row[6],
			LatestObsDt:      row[7],
		}
		if row[4] != "" {
			h.Lat, _ = strconv.ParseFloat(row[4], 64)
		}
		if row[5] != "" {
			h.Lng, _ = strconv.ParseFloat(row[5], 64)
		}
		if row[8] != "" {
			h.NumSpeciesAllTime, _ = strconv.Atoi(row[8])
		}
		hotspots = append(hotspots, h)
	}

	return hotspots, nil
}

// doRequest performs an HTTP request with rate limiting and auth, returning
// the raw response body.
func (c *Client) doRequest(ctx context.Context, method, url string) (string, error) {
	// Rate limiting
	c.mu.Lock()
	<-c.rateLimiter.C
	c.lastRequest = time.Now()
	c.mu.Unlock()

	start := time.Now()

	c.metrics.mu.Lock()
	c.metrics.apiCalls++
	c.metrics.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()
		return "", errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", url).
			Component("ebird").
			Build()
	}

	req.Header.Set("X-eBirdApiToken", c.config.APIKey)

	if c.debug {
		logger.Debug("eBird API request",
			"method", method,
			"url", url,
			"has_api_key", c.config.APIKey != "")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		logger.Error("eBird API request failed",
			"error", err,
			"method", method,
			"url", url)
		return "", errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", url).
			Component("ebird").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response body",
			"error", err,
			"url", url,
			"status_code", resp.StatusCode)
		return "", errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Component("ebird").
			Build()
	}

	if resp.StatusCode >= 400 {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		responsePreview := string(bodyBytes)
		if len(responsePreview) > 500 {
			responsePreview = responsePreview[:500] + "..."
		}

		// Log authentication failures specially
		if resp.StatusCode == 401 || resp.StatusCode == 403 {
			logger.Error("eBird API authentication failed",
				"status_code", resp.StatusCode,
				"url", url,
				"response_body", responsePreview,
				"has_api_key", c.config.APIKey != "",
				"message", "Check your eBird API key in the configuration")
		} else {
			logger.Error("eBird API error",
				"status_code", resp.StatusCode,
				"url", url,
				"response_body", responsePreview)
		}

		return "", errors.Newf("eBird API error (status %d): %s", resp.StatusCode, responsePreview).
			Category(getErrorCategory(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Context("url", url).
			Component("ebird").
			Build()
	}

	duration := time.Since(start)
	if c.debug {
		logger.Debug("eBird API response",
			"status_code", resp.StatusCode,
			"url", url,
			"duration_ms", duration.Milliseconds(),
			"response_size", len(bodyBytes))
	} else {
		logger.Info("eBird API request successful",
			"url", url,
			"duration_ms", duration.Milliseconds())
	}

	c.metrics.mu.Lock()
	c.metrics.totalDuration += duration
	c.metrics.mu.Unlock()

	return string(bodyBytes), nil
}

// doRequestWithRetry wraps doRequest with retry logic for transient failures
func (c *Client) doRequestWithRetry(ctx context.Context, method, url string) (string, error) {
	const maxRetries = 3
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		body, err := c.doRequest(ctx, method, url)
		if err == nil {
			return body, nil
		}

		// Check if error is retryable
		var enhancedErr *errors.EnhancedError
		if errors.As(err, &enhancedErr) {
			// Don't retry authentication or not found errors
			if enhancedErr.Category == errors.CategoryConfiguration ||
				enhancedErr.Category == errors.CategoryNotFound ||
				enhancedErr.Category == errors.CategoryValidation {
				return "", err
			}

			if statusCode, ok := enhancedErr.Context["status_code"].(int); ok {
				// Don't retry client errors (except 429 which is handled by rate limiter)
				if statusCode >= 400 && statusCode < 500 && statusCode != 429 {
					return "", err
				}
			}
		}

		lastErr = err

		if ctx.Err() != nil {
			return "", lastErr
		}

		delay := time.Duration(attempt+1) * 500 * time.Millisecond
		if attempt < maxRetries-1 {
			logger.Warn("eBird API request failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"delay_ms", delay.Milliseconds(),
				"url", url,
				"error", err.Error())

			select {
			case <-time.After(delay):
				// Continue to next retry
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", lastErr
}

// ClearCache clears all cached data
func (c *Client) ClearCache() {
	c.cache.Flush()
	logger.Info("eBird cache cleared")
}

// Metrics represents eBird client performance metrics
type Metrics struct {
	APICalls      int64         `json:"api_calls"`
	CacheHits     int64         `json:"cache_hits"`
	CacheMisses   int64         `json:"cache_misses"`
	APIErrors     int64         `json:"api_errors"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// GetMetrics returns current client metrics
func (c *Client) GetMetrics() Metrics {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	metrics := Metrics{
		APICalls:      c.metrics.apiCalls,
		CacheHits:     c.metrics.cacheHits,
		CacheMisses:   c.metrics.cacheMisses,
		APIErrors:     c.metrics.apiErrors,
		TotalDuration: c.metrics.totalDuration,
	}

	if metrics.APICalls > 0 {
		metrics.AvgDuration = time.Duration(int64(metrics.TotalDuration) / metrics.APICalls)
	}

	return metrics
}

// getErrorCategory determines the appropriate error category based on HTTP status code
func getErrorCategory(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case 401, 403:
		// Authentication/authorization errors need user attention
		return errors.CategoryConfiguration
	case 429:
		return errors.CategoryLimit
	case 404:
		return errors.CategoryNotFound
	case 500, 502, 503, 504:
		return errors.CategoryNetwork
	default:
		// Remaining client errors are bad requests rather than transport
		// failures.
		if statusCode >= 400 && statusCode < 500 {
			return errors.CategoryHTTP
		}
		return errors.CategoryNetwork
	}
}
