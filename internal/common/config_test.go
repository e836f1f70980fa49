package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, cfg.API.BaseURL)
	}
	if cfg.API.APIVersion != DefaultAPIVersion {
		t.Errorf("Expected API version %s, got %s", DefaultAPIVersion, cfg.API.APIVersion)
	}
	if cfg.API.Timeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.API.Timeout())
	}
	if cfg.Server.Name == "" {
		t.Error("Expected non-empty server name")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
	}
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datalens-mcp.toml")
	content := `
[api]
base_url = "https://datalens.internal.example"
api_version = "1"
timeout_seconds = 60

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://datalens.internal.example" {
		t.Errorf("Expected file base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.API.Timeout())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATALENS_BASE_URL", "https://override.example")
	t.Setenv("DATALENS_API_VERSION", "2")
	t.Setenv("DATALENS_TIMEOUT_SECONDS", "15")
	t.Setenv("DATALENS_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://override.example" {
		t.Errorf("Expected env base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.APIVersion != "2" {
		t.Errorf("Expected env API version, got %s", cfg.API.APIVersion)
	}
	if cfg.API.TimeoutSeconds != 15 {
		t.Errorf("Expected timeout 15, got %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected warn level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_InvalidTimeoutIgnored(t *testing.T) {
	t.Setenv("DATALENS_TIMEOUT_SECONDS", "not-a-number")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Expected default timeout, got %d", cfg.API.TimeoutSeconds)
	}

	t.Setenv("DATALENS_TIMEOUT_SECONDS", "-5")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Expected default timeout for negative value, got %d", cfg.API.TimeoutSeconds)
	}
}

func TestEnvNonEmpty_TrimsWhitespace(t *testing.T) {
	t.Setenv("DATALENS_TEST_VALUE", "  token-abc \n")
	if got := EnvNonEmpty("DATALENS_TEST_VALUE"); got != "token-abc" {
		t.Errorf("Expected trimmed value, got %q", got)
	}

	t.Setenv("DATALENS_TEST_VALUE", "   ")
	if got := EnvNonEmpty("DATALENS_TEST_VALUE"); got != "" {
		t.Errorf("Expected empty for whitespace-only value, got %q", got)
	}
}
