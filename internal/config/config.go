// Package config loads the coinbot configuration: a JSON file with
// ${ENV} substitution so the market API credential never has to live in
// the file itself.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for coinbot.
type Config struct {
	General GeneralConfig `json:"general"`
	Ollama  OllamaConfig  `json:"ollama"`
	Market  MarketConfig  `json:"market"`
	Cache   CacheConfig   `json:"cache"`
	Symbols SymbolsConfig `json:"symbols"`
	Metrics MetricsConfig `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel      string `json:"logLevel"`
	LogFile       string `json:"logFile,omitempty"`
	TypingDelayMs int    `json:"typingDelayMs"` // per-character output delay in the REPL
}

type OllamaConfig struct {
	APIBase     string  `json:"apiBase"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

type MarketConfig struct {
	APIBase        string `json:"apiBase"`
	APIKey         string `json:"apiKey"` // usually "${COINMARKETCAP_API_KEY}"
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	DBPath     string `json:"dbPath"`
	TTLSeconds int    `json:"ttlSeconds"`
}

type SymbolsConfig struct {
	AliasFile string `json:"aliasFile,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // e.g. "127.0.0.1:9091"
}

// DefaultConfigDir returns the default config directory (~/.coinbot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coinbot"
	}
	return filepath.Join(home, ".coinbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Cache.DBPath = expandPath(cfg.Cache.DBPath)
	cfg.Symbols.AliasFile = expandPath(cfg.Symbols.AliasFile)
	cfg.General.LogFile = expandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func Validate(cfg *Config) error {
	if cfg.Ollama.Temperature < 0 || cfg.Ollama.Temperature > 2 {
		return fmt.Errorf("ollama.temperature must be in [0, 2], got %g", cfg.Ollama.Temperature)
	}
	switch strings.ToLower(cfg.General.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.logLevel must be debug|info|warn|error, got %q", cfg.General.LogLevel)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttlSeconds must be positive when the cache is enabled")
	}
	if cfg.Market.TimeoutSeconds < 0 {
		return fmt.Errorf("market.timeoutSeconds must not be negative")
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // keep original if no env var and no default
		}
		return val
	})
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
