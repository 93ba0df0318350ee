// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cloudeng.io/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/bazi-api/internal/solartime"
)

// Config holds all application configuration.
// Fields are populated from an optional YAML file, then environment variables.
type Config struct {
	// Server settings
	Port int    `yaml:"port"` // HTTP port to listen on
	Env  string `yaml:"env"`  // development, staging, production

	// Database
	DatabasePath string `yaml:"database_path"` // Path to SQLite file

	// Authentication
	APIKey string `yaml:"api_key"` // API key for authenticated endpoints

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, text

	// Charts
	DefaultTimeZone string `yaml:"default_timezone"`  // Zone used when a request omits one
	ResolveTenGods  bool   `yaml:"resolve_ten_gods"` // Compute ten gods against the day master
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:            8080,
		Env:             EnvDevelopment,
		DatabasePath:    "./data/bazi.db",
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultTimeZone: "Asia/Shanghai",
	}
}

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present. If CONFIG_FILE
// names a YAML file, its values replace the defaults before the environment
// is applied.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile overlays the fields present in a YAML file.
func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// Server settings
	c.Port = getEnvInt("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)

	// Database
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)

	// Authentication
	c.APIKey = getEnv("API_KEY", c.APIKey)

	// Logging
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	// Charts
	c.DefaultTimeZone = getEnv("DEFAULT_TIMEZONE", c.DefaultTimeZone)
	c.ResolveTenGods = getEnvBool("RESOLVE_TEN_GODS", c.ResolveTenGods)
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	errs := &errors.M{}

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs.Append(fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs.Append(fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs.Append(errors.New("DATABASE_PATH is required"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs.Append(errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs.Append(fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs.Append(fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := solartime.LoadZone(c.DefaultTimeZone); err != nil {
		errs.Append(fmt.Errorf("DEFAULT_TIMEZONE: %w", err))
	}

	return errs.Err()
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
