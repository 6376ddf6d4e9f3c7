// Package config loads process configuration from dotenv files, the
// environment and an optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when no explicit files are given.
const DefaultEnvFile = ".env.local"

// Config holds environment-derived settings.
type Config struct {
	DatabaseURL string `env:"XATA_DATABASE_URL,required"`

	HTTPAddr     string `env:"HTTP_ADDR,default=:3000"`
	SettingsFile string `env:"SERVER_SETTINGS_FILE"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
	LogOutput string `env:"LOG_OUTPUT,default=stdout"`

	RedisURL       string        `env:"REDIS_URL"`
	LookupCacheTTL time.Duration `env:"LOOKUP_CACHE_TTL,default=10m"`
}

// Load reads the given dotenv files (DefaultEnvFile when none are given) and
// decodes the environment. Missing dotenv files are tolerated, a missing
// XATA_DATABASE_URL is not.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}
