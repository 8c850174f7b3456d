// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	TMDB        TMDBConfig        `toml:"tmdb"`
	OMDB        OMDBConfig        `toml:"omdb"`
	Storage     StorageConfig     `toml:"storage"`
	Actors      StoreConfig       `toml:"actors"`
	Collections CollectionsConfig `toml:"collections"`
	CoStar      CoStarConfig      `toml:"costar"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
	Log         LogConfig         `toml:"log"`
}

type TMDBConfig struct {
	APIKey         string        `toml:"api_key"`
	BaseURL        string        `toml:"base_url"`
	CacheTTL       time.Duration `toml:"cache_ttl"`
	PersonCacheTTL time.Duration `toml:"person_cache_ttl"`
}

type OMDBConfig struct {
	APIKey   string        `toml:"api_key"`
	BaseURL  string        `toml:"base_url"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type StorageConfig struct {
	Path       string `toml:"path"`        // SQLite file; ":memory:" keeps nothing across runs
	QuotaBytes int64  `toml:"quota_bytes"` // 0 = unlimited
}

// StoreConfig sizes one persisted record store.
type StoreConfig struct {
	Capacity        int           `toml:"capacity"`
	StaleAfter      time.Duration `toml:"stale_after"`
	RefreshInterval time.Duration `toml:"refresh_interval"`
	Concurrency     int           `toml:"concurrency"` // 0 = unbounded
}

type CollectionsConfig struct {
	StoreConfig
	Dataset string `toml:"dataset"` // optional JSON file replacing the bundled dataset
}

type CoStarConfig struct {
	SampleSize int    `toml:"sample_size"`
	CastDepth  int    `toml:"cast_depth"`
	MinShared  int    `toml:"min_shared"`
	Limit      int    `toml:"limit"`
	Layout     string `toml:"layout"` // mobile, tablet or desktop; overrides limit and cast_depth
}

type MaintenanceConfig struct {
	Interval time.Duration `toml:"interval"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg, err := parse(content)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, leaving
// unresolved variables and invalid values in place.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	content, _ := substituteEnvVars(string(data))
	return parse(content)
}

func parse(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = time.Hour
	}
	if c.TMDB.PersonCacheTTL == 0 {
		c.TMDB.PersonCacheTTL = time.Hour
	}
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = "https://www.omdbapi.com"
	}
	if c.OMDB.CacheTTL == 0 {
		c.OMDB.CacheTTL = 24 * time.Hour
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultDataPath()
	}

	storeDefaults(&c.Actors, 100)
	storeDefaults(&c.Collections.StoreConfig, 250)

	if c.CoStar.SampleSize == 0 {
		c.CoStar.SampleSize = 50
	}
	if c.CoStar.CastDepth == 0 {
		c.CoStar.CastDepth = 5
	}
	if c.CoStar.MinShared == 0 {
		c.CoStar.MinShared = 2
	}
	if c.CoStar.Limit == 0 {
		c.CoStar.Limit = 8
	}
	if c.Maintenance.Interval == 0 {
		c.Maintenance.Interval = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func storeDefaults(s *StoreConfig, capacity int) {
	if s.Capacity == 0 {
		s.Capacity = capacity
	}
	if s.StaleAfter == 0 {
		s.StaleAfter = 7 * 24 * time.Hour
	}
	if s.RefreshInterval == 0 {
		s.RefreshInterval = 7 * 24 * time.Hour
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references in content. Lines whose
// first non-blank character is # are copied unchanged. It returns the
// substituted content and one entry per unresolved reference; those
// references are left in place.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			value, problem := resolveEnvRef(match)
			if problem != "" {
				missing = append(missing, problem)
				return match
			}
			return value
		})
	}
	return strings.Join(lines, ""), missing
}

// resolveEnvRef expands a single reference. A non-empty problem means the
// reference could not be resolved.
func resolveEnvRef(ref string) (value, problem string) {
	m := envVarPattern.FindStringSubmatch(ref)
	name, op, arg := m[1], m[2], m[3]
	value, ok := os.LookupEnv(name)

	switch op {
	case ":-":
		if value == "" {
			return arg, ""
		}
	case ":?":
		if value == "" {
			return "", name + ": " + strings.TrimSpace(arg)
		}
	default:
		if !ok {
			return "", name
		}
	}
	return value, ""
}
