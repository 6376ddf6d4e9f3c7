package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings tunes the HTTP server. It is read from a YAML file.
type Settings struct {
	Server    ServerSettings    `yaml:"server"`
	CORS      CORSSettings      `yaml:"cors"`
	RateLimit RateLimitSettings `yaml:"rate_limit"`
}

// ServerSettings holds http.Server timeouts.
type ServerSettings struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CORSSettings lists the origins allowed to call the API. "*" allows all.
type CORSSettings struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitSettings configures the per-client token bucket.
type RateLimitSettings struct {
	RequestsPerSecond int           `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupSchedule   string        `yaml:"cleanup_schedule"`
	IdleTTL           time.Duration `yaml:"idle_ttl"`
}

// DefaultSettings returns the settings used when no file is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSSettings{AllowedOrigins: []string{"*"}},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: 20,
			Burst:             40,
			CleanupSchedule:   "@every 5m",
			IdleTTL:           10 * time.Minute,
		},
	}
}

// LoadSettingsFromPath reads settings from path. Fields absent from the file
// keep their defaults.
func LoadSettingsFromPath(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("rate_limit.requests_per_second must be positive")
	}
	if cfg.RateLimit.Burst < cfg.RateLimit.RequestsPerSecond {
		cfg.RateLimit.Burst = cfg.RateLimit.RequestsPerSecond
	}
	for i, origin := range cfg.CORS.AllowedOrigins {
		cfg.CORS.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return cfg, nil
}

// LoadSettingsOrDefault returns DefaultSettings when path is empty.
func LoadSettingsOrDefault(path string) (*Settings, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSettings(), nil
	}
	return LoadSettingsFromPath(path)
}
