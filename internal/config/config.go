// Package config loads daemon configuration from a YAML file, environment
// variables and command-line flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

// envPrefix is stripped from environment variables; a double underscore
// separates nesting levels, e.g. ARCANA_GATEWAY__BASE_URL.
const envPrefix = "ARCANA_"

// Config is the complete daemon configuration.
type Config struct {
	Addr    string        `koanf:"addr" validate:"required"`
	DB      string        `koanf:"db" validate:"required"`
	Deck    DeckConfig    `koanf:"deck"`
	Gateway GatewayConfig `koanf:"gateway"`
}

// DeckConfig selects the deck catalog source. With neither File nor Git set
// the embedded default deck is used.
type DeckConfig struct {
	// File is a local deck JSON file.
	File string `koanf:"file"`
	// Git is a git repository containing deck.json at its root.
	Git string `koanf:"git" validate:"omitempty,url"`
	// CacheDir holds checkouts of git deck sources.
	CacheDir string `koanf:"cache_dir" validate:"required"`
}

// GatewayConfig configures the reading gateway. An empty BaseURL disables
// AI readings entirely.
type GatewayConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=0"`
	MaxAttempts int           `koanf:"max_attempts" validate:"min=0,max=10"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8411",
		DB:   "arcana.db",
		Deck: DeckConfig{
			CacheDir: "decks",
		},
		Gateway: GatewayConfig{
			Model:       "glm-4.7-flash",
			Timeout:     60 * time.Second,
			MaxAttempts: 1,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then ARCANA_* environment variables, then changed flags.
func Load(path string, flags *flag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// Defaults go in first so unset flags never blank them out.
	d := Default()
	err := k.Load(confmap.Provider(map[string]any{
		"addr":                 d.Addr,
		"db":                   d.DB,
		"deck.cache_dir":       d.Deck.CacheDir,
		"gateway.model":        d.Gateway.Model,
		"gateway.timeout":      d.Gateway.Timeout,
		"gateway.max_attempts": d.Gateway.MaxAttempts,
	}, "."), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Deck.File != "" {
		if _, err := os.Stat(c.Deck.File); err != nil {
			return fmt.Errorf("invalid config: deck file: %w", err)
		}
	}
	return nil
}
