package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using `env`
// tags. Durations parse with time.ParseDuration syntax, so token lifetimes
// can be given as "15m" or "720h".
//
// Example:
//
//	type Config struct {
//	    Port         int           `env:"AUTH_HTTP_PORT" envDefault:"8000"`
//	    AccessExpiry time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
