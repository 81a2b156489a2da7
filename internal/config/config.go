// Package config loads process configuration from the environment, with a
// few command-line overrides.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// Config is the process configuration
type Config struct {
	HTTPAddr string `env:"QUIZZICAL_HTTP_ADDR" envDefault:":8080"`

	DatabaseURL string `env:"QUIZZICAL_DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"QUIZZICAL_DB_MAX_CONNS" envDefault:"10"`

	RedisAddr     string `env:"QUIZZICAL_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"QUIZZICAL_REDIS_PASSWORD"`
	RedisDB       int    `env:"QUIZZICAL_REDIS_DB" envDefault:"0"`

	LogLevel  string `env:"QUIZZICAL_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"QUIZZICAL_LOG_FORMAT" envDefault:"text"`

	// ActivateCategoryOnCreate re-activates the category of every new question
	ActivateCategoryOnCreate bool `env:"QUIZZICAL_ACTIVATE_CATEGORY_ON_CREATE" envDefault:"false"`

	RateLimit  int           `env:"QUIZZICAL_RATE_LIMIT" envDefault:"60"`
	RateWindow time.Duration `env:"QUIZZICAL_RATE_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"QUIZZICAL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers the command-line overrides on fs. Flags left unset
// keep the environment values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json, pretty)")
}

// Parse loads the environment and applies command-line overrides from args
func Parse(name string, args []string) (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("QUIZZICAL_RATE_LIMIT must not be negative, got %d", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		return fmt.Errorf("QUIZZICAL_RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("QUIZZICAL_DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	return nil
}
