package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MEEPLE_CONFIG is set
//  3. env (prefix MEEPLE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MEEPLE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MEEPLE_ADDR, MEEPLE_MATCHES_URL, ...
	// Keys map to koanf tags with underscores preserved.
	envProvider := env.Provider("MEEPLE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "meeple_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.RefreshIntervalMS <= 0 {
		return fmt.Errorf("%w: refresh_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.MinMatches < 0 {
		c.MinMatches = 0
	}
	if len(c.BasePoints) == 0 {
		return fmt.Errorf("%w: base_points must not be empty", ErrInvalidConfig)
	}
	for i, p := range c.BasePoints {
		if p < 0 {
			return fmt.Errorf("%w: base_points[%d] must not be negative", ErrInvalidConfig, i)
		}
		if i > 0 && p > c.BasePoints[i-1] {
			return fmt.Errorf("%w: base_points must be non-increasing", ErrInvalidConfig)
		}
	}
	return nil
}
