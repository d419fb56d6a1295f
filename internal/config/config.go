// Package config loads sift configuration from defaults, an optional YAML
// file and SIFT_* environment variables, in that order of precedence
// (env wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
// SIFT_SERVER_ADDR -> server.addr, SIFT_STORE_BACKEND -> store.backend.
const EnvPrefix = "SIFT_"

// ConfigPathEnvVar overrides the config file path when --config is not given.
const ConfigPathEnvVar = "SIFT_CONFIG"

// Config is the full sift configuration.
type Config struct {
	Server ServerConfig `koanf:"server" validate:"required"`
	Store  StoreConfig  `koanf:"store" validate:"required"`
	Log    LogConfig    `koanf:"log" validate:"required"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
	// MaxBodyBytes caps POST bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1"`
}

// StoreConfig selects the record backend.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"oneof=memory sqlite"`
	DSN     string `koanf:"dsn"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Store: StoreConfig{
			Backend: "memory",
			DSN:     "",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Load builds a Config.
//
// Layers, lowest to highest priority:
//  1. Default()
//  2. YAML file at path, or at $SIFT_CONFIG when path is empty (optional)
//  3. SIFT_* environment variables
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransformFunc maps SIFT_SECTION_KEY_NAME to section.key_name.
// Only the first underscore after the prefix separates the section.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	return strings.Replace(key, "_", ".", 1)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}
