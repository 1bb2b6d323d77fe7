package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MAPSCRIPT"

var ErrInvalidLogLevel = errors.New("invalid log level")

// Config holds the CLI configuration. Values come from, in increasing precedence:
// defaults, the optional config file, MAPSCRIPT_* environment variables and flags.
type Config struct {
	Scenario  string
	Output    string
	LogLevel  string `mapstructure:"log_level"`
	Gazetteer GazetteerConfig
}

// GazetteerConfig selects an optional PostgreSQL gazetteer as the facade's geocoder.
type GazetteerConfig struct {
	DSN        string
	Adapter    string
	Table      string
	MaxResults uint `mapstructure:"max_results"`
	Seed       bool
}

// Enabled reports whether geocoding should go through PostgreSQL.
func (c GazetteerConfig) Enabled() bool {
	return c.DSN != ""
}

// LoadConfig reads configFile (when not empty) and the environment into a Config.
// overrides holds flag values that were set explicitly, keyed like the config file.
func LoadConfig(configFile string, overrides map[string]any) (Config, error) {
	v := viper.New()

	v.SetDefault("scenario", "")
	v.SetDefault("output", "-")
	v.SetDefault("log_level", "info")
	v.SetDefault("gazetteer.dsn", "")
	v.SetDefault("gazetteer.adapter", "pgxpool")
	v.SetDefault("gazetteer.table", "places")
	v.SetDefault("gazetteer.max_results", 10)
	v.SetDefault("gazetteer.seed", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := c.Level(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	return level, nil
}
