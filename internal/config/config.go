// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and OLYNAV_* environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var (
	// ErrInvalidConfig marks a configuration that failed Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file or environment layer that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RecordsPath is the medalist CSV.
	RecordsPath string `koanf:"records_path"`

	// HostsPath is the host-city CSV. Empty disables the host map.
	HostsPath string `koanf:"hosts_path"`

	// DropNonMedal removes rows without a medal at load time.
	DropNonMedal bool `koanf:"drop_non_medal"`

	// SessionCapacity bounds the number of live browsing sessions.
	SessionCapacity int `koanf:"session_capacity"`

	// MaxPageSize caps ?limit on record listings; DefaultPageSize applies when
	// no limit is given.
	MaxPageSize     int `koanf:"max_page_size"`
	DefaultPageSize int `koanf:"default_page_size"`

	// RateLimitRPS and RateLimitBurst configure the per-client token bucket.
	// A zero rate disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// AssetsBaseURL prefixes image references in API output.
	AssetsBaseURL string `koanf:"assets_base_url"`

	// TrustedProxies lists reverse proxy addresses or CIDR ranges whose
	// X-Real-IP / X-Forwarded-For headers are believed by the rate limiter.
	// Env form is comma separated.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		RecordsPath:     "athlete_events.csv",
		HostsPath:       "olympic_hosts.csv",
		DropNonMedal:    true,
		SessionCapacity: 1024,
		MaxPageSize:     1000,
		DefaultPageSize: 100,
		RateLimitRPS:    50,
		RateLimitBurst:  100,
		AssetsBaseURL:   "/assets",
	}
}

// TrustedPrefixes parses TrustedProxies. A bare address is a single-host
// range.
func (c *Config) TrustedPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: trusted_proxies: %w", ErrInvalidConfig, err)
			}
			out = append(out, p.Masked())
			continue
		}
		ip, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted_proxies: %w", ErrInvalidConfig, err)
		}
		ip = ip.Unmap()
		out = append(out, netip.PrefixFrom(ip, ip.BitLen()))
	}
	return out, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.RecordsPath) == "":
		return fmt.Errorf("%w: records_path must not be empty", ErrInvalidConfig)
	case c.MaxPageSize <= 0:
		return fmt.Errorf("%w: max_page_size must be positive", ErrInvalidConfig)
	case c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("%w: default_page_size must be in 1..max_page_size", ErrInvalidConfig)
	case c.SessionCapacity <= 0:
		return fmt.Errorf("%w: session_capacity must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if _, err := c.TrustedPrefixes(); err != nil {
		return err
	}
	return nil
}
