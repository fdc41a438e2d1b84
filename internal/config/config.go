// Package config defines the hockey-pbp configuration and its loader.
//
// Values are layered, lowest precedence first: the defaults returned by New,
// an optional YAML file, then HOCKEY_PBP_* environment variables. Command-line
// flags are applied on top by the cli package.
package config

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/espn"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
	"github.com/pfrederiksen/hockey-pbp/internal/scraper"
)

// Output formats for assembled games.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ErrInvalidConfig marks configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Concurrency bounds how many games are processed at once.
	Concurrency int `koanf:"concurrency"`

	// RetryInterval is the fixed wait between attempts of a transient fetch failure.
	RetryInterval time.Duration `koanf:"retry_interval"`
	// MaxRetries caps retries per request; 0 retries until the run is cancelled.
	MaxRetries int `koanf:"max_retries"`
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	UserAgent      string        `koanf:"user_agent"`

	ReportsURL  string `koanf:"reports_url"`
	StatsAPIURL string `koanf:"stats_api_url"`
	SiteURL     string `koanf:"site_url"`
	// ScoreboardTTL is how long a scoreboard lookup is reused.
	ScoreboardTTL time.Duration `koanf:"scoreboard_ttl"`
	// SkipAPI takes coordinates from the secondary site only.
	SkipAPI bool `koanf:"skip_api"`

	OutDir      string `koanf:"out_dir"`
	Format      string `koanf:"format"`
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Concurrency:    4,
		RetryInterval:  fetch.RetryInterval,
		RequestTimeout: fetch.Timeout,
		UserAgent:      fetch.UserAgent,
		ReportsURL:     scraper.DefaultBaseURL,
		StatsAPIURL:    statsapi.DefaultBaseURL,
		SiteURL:        espn.DefaultBaseURL,
		ScoreboardTTL:  espn.DefaultCacheTTL,
		OutDir:         "./games",
		Format:         FormatCSV,
	}
}

// Validate rejects configuration the pipeline cannot run with.
func (c *Config) Validate(_ context.Context) error {
	if c.Concurrency <= 0 {
		return errors.Mark(errors.Newf("concurrency must be positive, got %d", c.Concurrency), ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return errors.Mark(errors.Newf("max_retries must not be negative, got %d", c.MaxRetries), ErrInvalidConfig)
	}
	switch strings.ToLower(c.Format) {
	case FormatCSV, FormatJSON:
	default:
		return errors.Mark(errors.Newf("unknown format %q", c.Format), ErrInvalidConfig)
	}
	for name, url := range map[string]string{
		"reports_url":   c.ReportsURL,
		"stats_api_url": c.StatsAPIURL,
		"site_url":      c.SiteURL,
	} {
		if strings.TrimSpace(url) == "" {
			return errors.Mark(errors.Newf("%s must not be empty", name), ErrInvalidConfig)
		}
	}
	return nil
}

// FetchOptions returns the fetch client options implied by the config.
func (c *Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithTimeout(c.RequestTimeout),
		fetch.WithUserAgent(c.UserAgent),
		fetch.WithRetry(c.RetryInterval, uint64(c.MaxRetries)),
	}
}
