// Package config loads and validates the favsearch configuration, and owns
// the persisted per-account index keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/validate"
)

// Score order values for SearchConfig.ScoreOrder.
const (
	ScoreOrderAscending  = "ascending"
	ScoreOrderDescending = "descending"
)

// Config is the complete favsearch configuration.
type Config struct {
	// Remote configures the index service endpoint.
	Remote RemoteConfig `yaml:"remote"`

	// Search configures query behavior.
	Search SearchConfig `yaml:"search"`

	// Domains configures which media hosts are indexable.
	Domains DomainsConfig `yaml:"domains"`

	// Weights maps model IDs to weights in [0,1]. Models absent from a
	// search response fall back to the engine default.
	Weights map[string]float64 `yaml:"model_weights"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// RemoteConfig configures the index service endpoint.
type RemoteConfig struct {
	// BaseURL is the root of the remote index service.
	BaseURL string `yaml:"base_url"`

	// KeyFile is where per-account index keys are persisted.
	KeyFile string `yaml:"key_file"`
}

// SearchConfig configures query behavior.
type SearchConfig struct {
	// Debounce is the quiet period after the last keystroke.
	Debounce time.Duration `yaml:"debounce"`

	// Limit caps results per model (the service's k). Zero = service default.
	Limit int `yaml:"limit"`

	// ScoreOrder declares whether a lower or higher raw score is a better
	// match: "ascending" (default) or "descending".
	ScoreOrder string `yaml:"score_order"`

	// CacheSize is the search response cache size.
	CacheSize int `yaml:"cache_size"`
}

// DomainsConfig configures the validator's host allow-list.
type DomainsConfig struct {
	AllowedSuffixes []string `yaml:"allowed_suffixes"`
	AllowedHosts    []string `yaml:"allowed_hosts"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is an optional log file path. Empty logs to stderr only.
	File string `yaml:"file"`
}

// Default returns the stock configuration.
func Default() Config {
	rules := validate.DefaultRules()
	return Config{
		Remote: RemoteConfig{
			BaseURL: "https://api.favsearch.dev",
			KeyFile: defaultKeyFile(),
		},
		Search: SearchConfig{
			Debounce:   300 * time.Millisecond,
			Limit:      50,
			ScoreOrder: ScoreOrderAscending,
			CacheSize:  128,
		},
		Domains: DomainsConfig{
			AllowedSuffixes: rules.AllowedSuffixes,
			AllowedHosts:    rules.AllowedHosts,
		},
		Weights: map[string]float64{},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultKeyFile returns the stock key file location under the user config
// dir, falling back to the working directory when that is unavailable.
func defaultKeyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".favsearch-keys.yaml"
	}
	return filepath.Join(dir, "favsearch", "keys.yaml")
}

// Load reads configuration from path, merged over defaults. A missing file
// is not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.ConfigError("read config file", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.ConfigError("parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return errors.ConfigError("remote.base_url must not be empty", nil)
	}
	if c.Search.Debounce < 0 {
		return errors.ConfigError("search.debounce must not be negative", nil)
	}
	switch c.Search.ScoreOrder {
	case "", ScoreOrderAscending, ScoreOrderDescending:
	default:
		return errors.ConfigError(
			fmt.Sprintf("search.score_order must be %q or %q, got %q",
				ScoreOrderAscending, ScoreOrderDescending, c.Search.ScoreOrder), nil)
	}
	for id, w := range c.Weights {
		if w < 0 || w > 1 {
			return errors.ConfigError(
				fmt.Sprintf("model_weights[%s] must be in [0,1], got %v", id, w), nil)
		}
	}
	return nil
}

// Rules returns the validator rules derived from the domain configuration.
func (c Config) Rules() validate.Rules {
	return validate.Rules{
		AllowedSuffixes: c.Domains.AllowedSuffixes,
		AllowedHosts:    c.Domains.AllowedHosts,
	}
}

// ModelWeights returns the configured weights as the shared weights type.
func (c Config) ModelWeights() model.Weights {
	return model.Weights(c.Weights).Clone()
}
