// Package config loads the runtime configuration of the pywalk binary: the
// execution limits of the machine and the logging setup. Values come from
// an optional YAML file, overridden by PYWALK_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables that override the
// configuration file.
const EnvPrefix = "PYWALK_"

// Config is the runtime configuration.
type Config struct {
	// MaxSteps is the maximum number of statements executed by a thread, <= 0
	// means no limit.
	MaxSteps int `yaml:"max_steps" env:"MAX_STEPS"`

	// MaxCallDepth is the maximum depth of the call stack, <= 0 means no
	// limit.
	MaxCallDepth int `yaml:"max_call_depth" env:"MAX_CALL_DEPTH"`

	// LogLevel is the minimum level of logged events, one of trace, debug,
	// info, warn, error or disabled.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// LogFormat is either json or console.
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MaxCallDepth: 1000,
		LogLevel:     "warn",
		LogFormat:    "console",
	}
}

// Load returns the configuration read from the YAML file at path, if path
// is not empty, with environment overrides applied on top. Missing keys keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := Decode(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Decode decodes the YAML document b into cfg. Unknown keys are rejected.
func Decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate returns an error if a field has an invalid value.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	return nil
}

// Level returns the zerolog level corresponding to LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	return lvl, nil
}

// Logger returns a logger writing to w in the configured format and at the
// configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	// trace events are filtered by the global level by default
	if lvl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
