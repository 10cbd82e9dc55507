package config

import (
	"strings"
	"testing"
)

const testKeys = "token-a:7b3e6a1e-0a90-4f51-b03a-2d7bb471a0c1,token-b:a4f2dd6a-9a0a-4a07-8d2c-16e5f0b6e9d2"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("API_KEYS", testKeys)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.MaxConns != 20 {
		t.Errorf("Database.MaxConns = %d, want 20", cfg.Database.MaxConns)
	}
	if cfg.Rate.RequestsPerMinute != 120 {
		t.Errorf("Rate.RequestsPerMinute = %d, want 120", cfg.Rate.RequestsPerMinute)
	}
	if cfg.Lookup.GLEIFBaseURL != "https://api.gleif.org/api/v1" {
		t.Errorf("Lookup.GLEIFBaseURL = %q", cfg.Lookup.GLEIFBaseURL)
	}
	if cfg.Lookup.CacheTTL.Hours() != 24 {
		t.Errorf("Lookup.CacheTTL = %s, want 24h", cfg.Lookup.CacheTTL)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LEI_CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Lookup.CacheTTL.Minutes() != 30 {
		t.Errorf("Lookup.CacheTTL = %s, want 30m", cfg.Lookup.CacheTTL)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/alttest")
	t.Setenv("API_KEYS", testKeys)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alttest" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("API_KEYS", testKeys)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without DATABASE_URL")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "70000")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail validation")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") || !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("validation error should name all failures: %v", err)
	}
}

func TestParseAPIKeys(t *testing.T) {
	cfg := SecurityConfig{APIKeys: []string{
		"token-a:7b3e6a1e-0a90-4f51-b03a-2d7bb471a0c1",
		"token-b:a4f2dd6a-9a0a-4a07-8d2c-16e5f0b6e9d2",
	}}

	keys, err := cfg.ParseAPIKeys()
	if err != nil {
		t.Fatalf("ParseAPIKeys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %d, want 2", len(keys))
	}
	if keys["token-a"].String() != "7b3e6a1e-0a90-4f51-b03a-2d7bb471a0c1" {
		t.Errorf("token-a -> %s", keys["token-a"])
	}
}

func TestParseAPIKeysRejectsMalformed(t *testing.T) {
	tests := [][]string{
		{"no-separator"},
		{"token:not-a-uuid"},
		{":7b3e6a1e-0a90-4f51-b03a-2d7bb471a0c1"},
		{"dup:7b3e6a1e-0a90-4f51-b03a-2d7bb471a0c1", "dup:a4f2dd6a-9a0a-4a07-8d2c-16e5f0b6e9d2"},
	}
	for _, keys := range tests {
		cfg := SecurityConfig{APIKeys: keys}
		if _, err := cfg.ParseAPIKeys(); err == nil {
			t.Errorf("ParseAPIKeys(%v) should fail", keys)
		}
	}
}

func TestConfigStringMasksSecrets(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := cfg.String()
	if strings.Contains(s, "postgres://") {
		t.Error("String() leaks the database URL")
	}
	if strings.Contains(s, "token-a") {
		t.Error("String() leaks API keys")
	}
}

func TestServerAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if c.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", c.Addr())
	}
	c.Host = ""
	if c.Addr() != ":9000" {
		t.Errorf("Addr() = %q", c.Addr())
	}
}
