// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLayouts = map[string]bool{
	"mobile": true, "tablet": true, "desktop": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.cache_ttl: must not be negative, got %s", c.TMDB.CacheTTL))
	}
	if c.OMDB.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("omdb.cache_ttl: must not be negative, got %s", c.OMDB.CacheTTL))
	}

	if c.Storage.QuotaBytes < 0 {
		errs = append(errs, fmt.Sprintf("storage.quota_bytes: must not be negative, got %d", c.Storage.QuotaBytes))
	}
	if c.Storage.Path != ":memory:" {
		if dir := filepath.Dir(c.Storage.Path); dir != "" {
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				errs = append(errs, fmt.Sprintf("storage.path: %q is not a directory", dir))
			}
		}
	}

	errs = append(errs, c.Actors.validate("actors")...)
	errs = append(errs, c.Collections.validate("collections")...)
	if c.Collections.Dataset != "" {
		if _, err := os.Stat(c.Collections.Dataset); err != nil {
			errs = append(errs, fmt.Sprintf("collections.dataset: %v", err))
		}
	}

	if c.CoStar.SampleSize < 1 {
		errs = append(errs, fmt.Sprintf("costar.sample_size: must be at least 1, got %d", c.CoStar.SampleSize))
	}
	if c.CoStar.CastDepth < 1 {
		errs = append(errs, fmt.Sprintf("costar.cast_depth: must be at least 1, got %d", c.CoStar.CastDepth))
	}
	if c.CoStar.MinShared < 1 {
		errs = append(errs, fmt.Sprintf("costar.min_shared: must be at least 1, got %d", c.CoStar.MinShared))
	}
	if c.CoStar.Limit < 1 {
		errs = append(errs, fmt.Sprintf("costar.limit: must be at least 1, got %d", c.CoStar.Limit))
	}
	if !validLayouts[c.CoStar.Layout] {
		errs = append(errs, fmt.Sprintf("costar.layout: must be one of mobile, tablet, desktop; got %q", c.CoStar.Layout))
	}

	if c.Maintenance.Interval < time.Minute {
		errs = append(errs, fmt.Sprintf("maintenance.interval: must be at least 1m, got %s", c.Maintenance.Interval))
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}

func (s StoreConfig) validate(section string) []string {
	var errs []string
	if s.Capacity < 0 {
		errs = append(errs, fmt.Sprintf("%s.capacity: must not be negative, got %d", section, s.Capacity))
	}
	if s.StaleAfter <= 0 {
		errs = append(errs, fmt.Sprintf("%s.stale_after: must be positive, got %s", section, s.StaleAfter))
	}
	if s.RefreshInterval <= 0 {
		errs = append(errs, fmt.Sprintf("%s.refresh_interval: must be positive, got %s", section, s.RefreshInterval))
	}
	if s.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("%s.concurrency: must not be negative, got %d", section, s.Concurrency))
	}
	return errs
}
