package akhttp

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides read by LoadConfig.
// AKHTTP_BASE_ENDPOINT overrides baseEndpoint, AKHTTP_MAX_RETRIES
// overrides maxRetries, and so on.
const EnvPrefix = "AKHTTP_"

// fileConfig mirrors the YAML shape of a client configuration. Durations
// are expressed in milliseconds to match the wire-facing defaults.
type fileConfig struct {
	BaseEndpoint   string                  `koanf:"base_endpoint"`
	TimeoutMs      int64                   `koanf:"timeout_ms"`
	DefaultHeaders map[string]string       `koanf:"default_headers"`
	AuthEnabled    *bool                   `koanf:"auth_enabled"`
	MaxRetries     *int                    `koanf:"max_retries"`
	RetryDelayMs   *int64                  `koanf:"retry_delay_ms"`
	Services       map[string]ServiceEntry `koanf:"services"`
	DebugEnabled   bool                    `koanf:"debug_enabled"`
}

// LoadConfig reads a YAML file, applies AKHTTP_-prefixed environment
// overrides and returns a Config ready to pass collaborator hooks into.
// Function-typed fields cannot come from a file; set them with options or
// the Set* methods before constructing the client.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("akhttp: load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("akhttp: load env overrides: %w", err)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return Config{}, fmt.Errorf("akhttp: unmarshal config: %w", err)
	}

	return fc.toConfig(), nil
}

func (fc fileConfig) toConfig() Config {
	cfg := DefaultConfig(fc.BaseEndpoint)
	if fc.TimeoutMs > 0 {
		cfg.Timeout = millis(fc.TimeoutMs)
	}
	for key, value := range fc.DefaultHeaders {
		cfg.DefaultHeaders[key] = value
	}
	if fc.AuthEnabled != nil {
		cfg.AuthEnabled = *fc.AuthEnabled
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RetryDelayMs != nil {
		cfg.RetryDelay = millis(*fc.RetryDelayMs)
	}
	if fc.Services != nil {
		cfg.Services = fc.Services
	}
	cfg.DebugEnabled = fc.DebugEnabled
	return cfg
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
