package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"ollama": {"model": "qwen2.5", "temperature": 0.3},
		"cache": {"enabled": false}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ollama.Model != "qwen2.5" || cfg.Ollama.Temperature != 0.3 {
		t.Errorf("ollama overrides lost: %+v", cfg.Ollama)
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled override lost")
	}
	// Untouched sections keep their defaults.
	if cfg.Ollama.APIBase != "http://localhost:11434" {
		t.Errorf("apiBase default lost: %s", cfg.Ollama.APIBase)
	}
	if cfg.Market.TimeoutSeconds != 10 {
		t.Errorf("market timeout default lost: %d", cfg.Market.TimeoutSeconds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoad_InvalidTemperature(t *testing.T) {
	path := writeConfig(t, `{"ollama": {"temperature": 5.0}}`)
	if _, err := Load(path); err == nil {
		t.Error("expected a validation error")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `{"general": {"logLevel": "loud"}}`)
	if _, err := Load(path); err == nil {
		t.Error("expected a validation error")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("COINBOT_TEST_KEY", "secret-key")
	path := writeConfig(t, `{"market": {"apiKey": "${COINBOT_TEST_KEY}"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Market.APIKey != "secret-key" {
		t.Errorf("apiKey = %q", cfg.Market.APIKey)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("COINBOT_SET", "value")
	os.Unsetenv("COINBOT_UNSET")

	cases := []struct {
		in   string
		want string
	}{
		{"${COINBOT_SET}", "value"},
		{"${COINBOT_UNSET:-fallback}", "fallback"},
		{"${COINBOT_SET:-fallback}", "value"},
		{"${COINBOT_UNSET}", "${COINBOT_UNSET}"},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		if got := ExpandEnvVars(c.in); got != c.want {
			t.Errorf("ExpandEnvVars(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Defaults()
	cfg.Ollama.Model = "mistral"
	cfg.Market.APIKey = "key" // avoid re-expansion surprises

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Ollama.Model != "mistral" {
		t.Errorf("model = %q", loaded.Ollama.Model)
	}
}

func TestGetByPath(t *testing.T) {
	cfg := Defaults()
	val, err := GetByPath(cfg, "ollama.model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "llama3.2" {
		t.Errorf("got %v", val)
	}

	if _, err := GetByPath(cfg, "ollama.nope"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestSetByPath(t *testing.T) {
	cfg := Defaults()
	if err := SetByPath(cfg, "ollama.model", "phi3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ollama.Model != "phi3" {
		t.Errorf("model = %q", cfg.Ollama.Model)
	}

	if err := SetByPath(cfg, "ollama.nope", "x"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestValidate_CacheTTL(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.TTLSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Error("enabled cache with zero TTL should fail validation")
	}
	cfg.Cache.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled cache ignores TTL: %v", err)
	}
}
