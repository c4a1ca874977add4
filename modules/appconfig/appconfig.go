package appconfig

import (
	"fmt"
	"time"

	"nextoken/modules/db/redis"
	"nextoken/modules/telemetry"

	"github.com/caarlos0/env/v11"
)

// TokenConfig bounds token lifetimes and revocation retention.
type TokenConfig struct {
	// DefaultExpiry is used when issuance requests no explicit expiry.
	DefaultExpiry time.Duration `env:"DEFAULT_EXPIRY" envDefault:"1h"`

	// MaxExpiry caps requested expiries. Zero disables the cap.
	MaxExpiry time.Duration `env:"MAX_EXPIRY" envDefault:"720h"`

	// RevokedRetention is how long revocation markers outlive the token.
	RevokedRetention time.Duration `env:"REVOKED_RETENTION" envDefault:"720h"`
}

type Config struct {
	Env string `env:"ENV" envDefault:"dev"`

	Host string `env:"NEXTOKEN_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"NEXTOKEN_PORT" envDefault:"8000"`

	// --- domain ----
	Token TokenConfig `envPrefix:"NEXTOKEN_"`

	// --- core infra ----
	Redis redis.RedisConfig `envPrefix:"NEXTOKEN_REDIS_"`

	// --- otel ----
	// since it has special naming conventions, we do not use prefix here
	Otel telemetry.Config
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(c *Config) error {
	if c.Token.DefaultExpiry <= 0 {
		return fmt.Errorf("appconfig: NEXTOKEN_DEFAULT_EXPIRY must be positive")
	}
	if c.Token.MaxExpiry < 0 {
		return fmt.Errorf("appconfig: NEXTOKEN_MAX_EXPIRY must not be negative")
	}
	if c.Token.RevokedRetention <= 0 {
		return fmt.Errorf("appconfig: NEXTOKEN_REVOKED_RETENTION must be positive")
	}
	return nil
}
