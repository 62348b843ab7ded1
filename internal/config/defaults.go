package config

import "path/filepath"

// Defaults returns a working configuration for a stock local setup:
// Ollama on localhost, credential via environment, cache on.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:      "info",
			TypingDelayMs: 10,
		},
		Ollama: OllamaConfig{
			APIBase:     "http://localhost:11434",
			Model:       "llama3.2",
			Temperature: 0.1,
		},
		Market: MarketConfig{
			APIBase:        "https://pro-api.coinmarketcap.com",
			APIKey:         "${COINMARKETCAP_API_KEY}",
			TimeoutSeconds: 10,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DBPath:     filepath.Join(DefaultConfigDir(), "cache.db"),
			TTLSeconds: 120,
		},
		Symbols: SymbolsConfig{
			AliasFile: filepath.Join(DefaultConfigDir(), "symbols.yaml"),
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9091",
		},
	}
}
