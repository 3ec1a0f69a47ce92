package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Steam.BaseURL != defaultSteamBaseURL {
		t.Fatalf("steam base url %q, want default", cfg.Steam.BaseURL)
	}
	if cfg.Aggregator.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("request timeout %d, want %d", cfg.Aggregator.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
cache_dir = "` + filepath.Join(dir, "cache") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[steamgriddb]
api_key = "  sgdb-key  "
base_url = "https://example.test/api/v2/"

[aggregator]
request_timeout = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.SteamGridDB.APIKey != "sgdb-key" {
		t.Fatalf("api key %q, want trimmed sgdb-key", cfg.SteamGridDB.APIKey)
	}
	if strings.HasSuffix(cfg.SteamGridDB.BaseURL, "/") {
		t.Fatalf("base url %q should have trailing slash trimmed", cfg.SteamGridDB.BaseURL)
	}
	if cfg.Aggregator.RequestTimeout != 5 {
		t.Fatalf("request timeout %d, want 5", cfg.Aggregator.RequestTimeout)
	}
}

func TestSteamGridDBEnvFallback(t *testing.T) {
	t.Setenv("STEAMGRIDDB_API_KEY", "env-key")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if cfg.SteamGridDB.APIKey != "env-key" {
		t.Fatalf("api key %q, want env-key", cfg.SteamGridDB.APIKey)
	}
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	cfg.Aggregator.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero timeout")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for xml log format")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[steamgriddb]") {
		t.Fatal("sample config missing steamgriddb section")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := expandPath("~/x")
	if err != nil {
		t.Fatalf("expandPath failed: %v", err)
	}
	if got != filepath.Join(home, "x") {
		t.Fatalf("expandPath = %q, want %q", got, filepath.Join(home, "x"))
	}
}
