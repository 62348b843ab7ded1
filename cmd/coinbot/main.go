package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"coinbot/internal/agent"
	"coinbot/internal/cache"
	"coinbot/internal/channel"
	"coinbot/internal/config"
	"coinbot/internal/market"
	"coinbot/internal/metrics"
	"coinbot/internal/provider"
	"coinbot/internal/symbol"
	"coinbot/internal/tool"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "coinbot",
		Short: "coinbot: LLM chat with live cryptocurrency market data",
		Long:  "coinbot pairs a locally hosted Ollama model with CoinMarketCap data:\nprices, historical prices, movers, and the fear & greed index.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.coinbot/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(toolsCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
		cfg.Market.APIKey = config.ExpandEnvVars(cfg.Market.APIKey)
	}
	return cfg
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfgPath := config.DefaultConfigPath()
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive assistant",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setLogLevel(cfg.General.LogLevel)

	if key := cfg.Market.APIKey; key == "" || strings.HasPrefix(key, "${") {
		logger.Warn("market API key not set; price lookups will fail. Export COINMARKETCAP_API_KEY.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assistant, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Startup health check: failing to reach the model endpoint here is
	// fatal; anything after this point only fails the single turn.
	if err := assistant.Healthy(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Ollama is not running. Please start Ollama first!")
		fmt.Fprintln(os.Stderr, "   Run 'ollama serve' in your terminal.")
		return err
	}
	fmt.Fprintln(os.Stderr, "✅ Ollama is running!")

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr)
	}

	cli := channel.NewCLI(channel.CLIConfig{
		Handle:      assistant.HandleTurn,
		Manifest:    assistant.Manifest(),
		Logger:      logger,
		TypingDelay: time.Duration(cfg.General.TypingDelayMs) * time.Millisecond,
	})
	return cli.Run(ctx)
}

// buildAssistant wires provider, market client, cache, aliases, and tools.
func buildAssistant(cfg *config.Config) (*agent.Assistant, func(), error) {
	cleanup := func() {}

	var marketCache market.Cache
	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache.DBPath, time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)
		if err != nil {
			// Degrade to uncached operation rather than refusing to start.
			logger.Warn("cache unavailable, continuing without it", "err", err)
		} else {
			if serr := store.Sweep(context.Background()); serr != nil {
				logger.Warn("cache sweep failed", "err", serr)
			}
			marketCache = store
			cleanup = func() { store.Close() }
		}
	}

	symbols := symbol.NewResolver()
	if err := symbols.LoadOverlay(cfg.Symbols.AliasFile, logger); err != nil {
		logger.Warn("symbol alias overlay not loaded", "err", err)
	}

	client := market.New(market.Config{
		BaseURL: cfg.Market.APIBase,
		APIKey:  cfg.Market.APIKey,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.Market.TimeoutSeconds) * time.Second,
		},
		Cache:  marketCache,
		Logger: logger,
	})

	registry := tool.NewRegistry(logger)
	registry.Register(tool.NewPriceTool(client, symbols))
	registry.Register(tool.NewHistoricalPriceTool(client, symbols))
	registry.Register(tool.NewMoversTool(client))
	registry.Register(tool.NewFearGreedTool(client))
	registry.Register(tool.NewFearGreedHistoricalTool(client))

	prov := provider.NewOllama(provider.OllamaConfig{
		APIBase:      cfg.Ollama.APIBase,
		DefaultModel: cfg.Ollama.Model,
		Logger:       logger,
	})

	assistant := agent.New(agent.Config{
		Provider:    prov,
		Tools:       registry,
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		Logger:      logger,
	})
	return assistant, cleanup, nil
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the manifest of callable market data functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			assistant, cleanup, err := buildAssistant(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := json.MarshalIndent(assistant.Manifest(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change configuration values",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Print a config value by dot-path, e.g. market.apiBase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			out, _ := json.Marshal(val)
			fmt.Println(string(out))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a config value by dot-path and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			var value any = args[1]
			var parsed any
			if jerr := json.Unmarshal([]byte(args[1]), &parsed); jerr == nil {
				value = parsed
			}
			if err := config.SetByPath(cfg, args[0], value); err != nil {
				return err
			}
			return config.Save(cfgPath, cfg)
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coinbot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("coinbot v%s\n", version)
		},
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metrics.Collector.Handler())
	logger.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", "err", err)
	}
}

func setLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
