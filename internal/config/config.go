// Package config loads the CLI configuration from FORMKIT_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Prefix is prepended to every variable name.
const Prefix = "FORMKIT_"

var (
	ErrParsingConfig = errors.New("config: failed to parse environment")
	ErrInvalidMode   = errors.New("config: invalid validate mode")
)

// Config is the runtime configuration of formkit-cli.
type Config struct {
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT" envDefault:"text"`
	ValidateMode string        `env:"VALIDATE_MODE"`
	SubmitDelay  time.Duration `env:"SUBMIT_DELAY" envDefault:"0s"`
	SchemaDir    string        `env:"SCHEMA_DIR"`
	MaxAttempts  int           `env:"MAX_ATTEMPTS" envDefault:"3"`
}

// Load reads the given .env files, or ./.env when none are named, and parses
// the process environment. A missing default .env is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("config: load env files: %w", err)
	}
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses cfg from an explicit environment, ignoring the process one.
// Keys carry the FORMKIT_ prefix.
func FromMap(environment map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if _, ok := form.ParseMode(cfg.ValidateMode); !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.ValidateMode)
	}
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	return cfg, nil
}

// Level is the parsed log level.
func (c Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Mode is the configured controller validation mode. It is only meaningful
// on a Config returned by Load or FromMap.
func (c Config) Mode() form.Mode {
	mode, _ := form.ParseMode(c.ValidateMode)
	return mode
}

// Logger builds the logger described by the configuration.
func (c Config) Logger(out io.Writer) *slog.Logger {
	return logging.New(out, c.Level(), logging.Format(c.LogFormat))
}
