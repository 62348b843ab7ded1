package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coinbot/internal/config"
	"coinbot/internal/provider"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your coinbot installation",
		Long: `Verifies that coinbot's configuration, Ollama endpoint, market data
API key, and cache database are correctly set up. Reports pass/fail for
each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("coinbot Doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'coinbot init' to create a default configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
			} else {
				printPass("Config validation", "valid")
				passed++
			}

			if cfg == nil {
				fmt.Printf("\n%d passed, %d failed\n", passed, failed)
				return nil
			}

			// 3. Ollama reachable
			prov := provider.NewOllama(provider.OllamaConfig{
				APIBase:      cfg.Ollama.APIBase,
				DefaultModel: cfg.Ollama.Model,
				Logger:       logger,
			})
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := prov.Healthy(ctx); err != nil {
				printFail("Ollama", fmt.Sprintf("unreachable at %s: %v", cfg.Ollama.APIBase, err))
				failed++
			} else {
				printPass("Ollama", cfg.Ollama.APIBase)
				passed++

				// 4. Configured model is pulled
				if models, err := prov.Models(ctx); err != nil {
					printWarn("Model", fmt.Sprintf("cannot list models: %v", err))
					warned++
				} else if containsModel(models, cfg.Ollama.Model) {
					printPass("Model", cfg.Ollama.Model)
					passed++
				} else {
					printWarn("Model", fmt.Sprintf("%s not pulled; run 'ollama pull %s'", cfg.Ollama.Model, cfg.Ollama.Model))
					warned++
				}
			}

			// 5. Market API key present. An unexpanded ${VAR} placeholder
			// means the environment variable was never set.
			apiKey := config.ExpandEnvVars(cfg.Market.APIKey)
			if apiKey == "" || strings.HasPrefix(apiKey, "${") {
				printFail("Market API key", "not set; export COINMARKETCAP_API_KEY")
				failed++
			} else {
				printPass("Market API key", "configured")
				passed++
			}

			// 6. Cache database writable
			if cfg.Cache.Enabled {
				if err := checkDatabase(cfg.Cache.DBPath); err != nil {
					printFail("Cache database", err.Error())
					failed++
				} else {
					printPass("Cache database", cfg.Cache.DBPath)
					passed++
				}
			} else {
				printWarn("Cache database", "disabled; bulk endpoints will be re-fetched every call")
				warned++
			}

			// 7. Symbol alias overlay readable when configured
			if cfg.Symbols.AliasFile != "" {
				if _, err := os.Stat(cfg.Symbols.AliasFile); err != nil {
					printWarn("Symbol aliases", fmt.Sprintf("overlay not found: %s", cfg.Symbols.AliasFile))
					warned++
				} else {
					printPass("Symbol aliases", cfg.Symbols.AliasFile)
					passed++
				}
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running coinbot.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\ncoinbot should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! coinbot is ready to run.\n")
			}
			return nil
		},
	}
}

func containsModel(models []string, want string) bool {
	for _, m := range models {
		if m == want || m == want+":latest" {
			return true
		}
	}
	return false
}

func checkDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("cannot open: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot ping: %w", err)
	}

	// Try a write.
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS _doctor_test (id INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	db.ExecContext(ctx, "DROP TABLE IF EXISTS _doctor_test")

	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
