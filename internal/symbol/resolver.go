// Package symbol maps common asset names to ticker symbols before they
// reach the quote service. The model usually does this mapping itself;
// the resolver is a local safety net for the names it gets wrong.
package symbol

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtin covers the assets users most often refer to by name.
var builtin = map[string]string{
	"bitcoin":      "BTC",
	"ethereum":     "ETH",
	"ether":        "ETH",
	"tether":       "USDT",
	"binance coin": "BNB",
	"bnb":          "BNB",
	"solana":       "SOL",
	"ripple":       "XRP",
	"xrp":          "XRP",
	"cardano":      "ADA",
	"dogecoin":     "DOGE",
	"doge":         "DOGE",
	"polkadot":     "DOT",
	"litecoin":     "LTC",
	"avalanche":    "AVAX",
	"chainlink":    "LINK",
	"polygon":      "MATIC",
	"monero":       "XMR",
	"stellar":      "XLM",
	"tron":         "TRX",
}

type Resolver struct {
	aliases map[string]string
}

func NewResolver() *Resolver {
	aliases := make(map[string]string, len(builtin))
	for name, sym := range builtin {
		aliases[name] = sym
	}
	return &Resolver{aliases: aliases}
}

// LoadOverlay merges user-defined aliases from a YAML file of
// name: SYMBOL pairs. A missing file is not an error.
func (r *Resolver) LoadOverlay(path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("symbol alias file does not exist, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read alias file: %w", err)
	}

	var overlay map[string]string
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse alias file %s: %w", path, err)
	}
	for name, sym := range overlay {
		r.aliases[strings.ToLower(strings.TrimSpace(name))] = strings.ToUpper(strings.TrimSpace(sym))
	}
	logger.Info("loaded symbol aliases", "path", path, "count", len(overlay))
	return nil
}

// Resolve maps a user- or model-supplied asset reference to a ticker
// symbol. Unknown names pass through uppercased.
func (r *Resolver) Resolve(input string) string {
	trimmed := strings.TrimSpace(input)
	if sym, ok := r.aliases[strings.ToLower(trimmed)]; ok {
		return sym
	}
	return strings.ToUpper(trimmed)
}
