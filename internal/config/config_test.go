package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.DefaultTimeZone != "Asia/Shanghai" {
		t.Errorf("DefaultTimeZone = %q, want %q", cfg.DefaultTimeZone, "Asia/Shanghai")
	}
	if cfg.ResolveTenGods {
		t.Error("ResolveTenGods = true, want false")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/data/test.db")
	t.Setenv("API_KEY", "secret-key-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DEFAULT_TIMEZONE", "+09:00")
	t.Setenv("RESOLVE_TEN_GODS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.DefaultTimeZone != "+09:00" {
		t.Errorf("DefaultTimeZone = %q, want %q", cfg.DefaultTimeZone, "+09:00")
	}
	if !cfg.ResolveTenGods {
		t.Error("ResolveTenGods = false, want true")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bazi.yaml")
	data := "port: 9090\ndatabase_path: /tmp/from-file.db\nresolve_ten_gods: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	// The environment still wins over the file.
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Port)
	}
	if cfg.DatabasePath != "/tmp/from-file.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/tmp/from-file.db")
	}
	if !cfg.ResolveTenGods {
		t.Error("ResolveTenGods = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	clearEnv(t)

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("Load() with missing config file succeeded, want error")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("port: [not, a, number]\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("Load() with malformed config file succeeded, want error")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mod func(*Config)) Config {
		c := *Default()
		if mod != nil {
			mod(&c)
		}
		return c
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid development config",
			config:  valid(nil),
			wantErr: false,
		},
		{
			name: "valid production config",
			config: valid(func(c *Config) {
				c.Env = EnvProduction
				c.APIKey = "required-in-prod"
				c.LogFormat = "json"
			}),
			wantErr: false,
		},
		{
			name:    "production requires API key",
			config:  valid(func(c *Config) { c.Env = EnvProduction }),
			wantErr: true,
		},
		{
			name:    "invalid port - too low",
			config:  valid(func(c *Config) { c.Port = 0 }),
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			config:  valid(func(c *Config) { c.Port = 70000 }),
			wantErr: true,
		},
		{
			name:    "invalid environment",
			config:  valid(func(c *Config) { c.Env = "invalid" }),
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  valid(func(c *Config) { c.LogLevel = "verbose" }),
			wantErr: true,
		},
		{
			name:    "invalid log format",
			config:  valid(func(c *Config) { c.LogFormat = "xml" }),
			wantErr: true,
		},
		{
			name:    "empty database path",
			config:  valid(func(c *Config) { c.DatabasePath = "" }),
			wantErr: true,
		},
		{
			name:    "fixed offset timezone",
			config:  valid(func(c *Config) { c.DefaultTimeZone = "UTC+8" }),
			wantErr: false,
		},
		{
			name:    "unknown timezone",
			config:  valid(func(c *Config) { c.DefaultTimeZone = "Atlantis/Capital" }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	c := Config{Port: 0, Env: "nope", LogLevel: "loud", LogFormat: "xml"}
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"PORT", "ENV", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT", "DEFAULT_TIMEZONE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv blanks every config-related environment variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "DEFAULT_TIMEZONE",
		"RESOLVE_TEN_GODS", "CONFIG_FILE",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}
