package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
session:
  secret: "`+validSecret+`"
upstream:
  base_url: "http://data.internal:3000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Session.TTL != 30*24*time.Hour {
		t.Errorf("TTL = %v, want 720h", cfg.Session.TTL)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Upstream.Timeout)
	}
	if cfg.Production() {
		t.Error("Production() = true for development config")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Addr())
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	path := writeConfigFile(t, `
upstream:
  base_url: "http://data.internal:3000"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted a config without a session secret")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	path := writeConfigFile(t, `
session:
  secret: "too-short"
upstream:
  base_url: "http://data.internal:3000"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted a short session secret")
	}
}

func TestLoadRejectsMissingUpstream(t *testing.T) {
	path := writeConfigFile(t, `
session:
  secret: "`+validSecret+`"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted a config without an upstream base_url")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
session:
  secret: "`+validSecret+`"
upstream:
  base_url: "http://data.internal:3000"
`)

	t.Setenv("RJBOARD_UPSTREAM_URL", "http://override.internal:4000")
	t.Setenv("RJBOARD_ENVIRONMENT", "production")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Upstream.BaseURL != "http://override.internal:4000" {
		t.Errorf("Upstream.BaseURL = %q, want the override", cfg.Upstream.BaseURL)
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true after RJBOARD_ENVIRONMENT override")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() accepted a missing file")
	}
}
