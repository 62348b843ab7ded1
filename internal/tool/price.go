package tool

import (
	"context"

	"coinbot/internal/domain"
	"coinbot/internal/market"
	"coinbot/internal/symbol"
)

// PriceTool looks up the current price of a cryptocurrency.
type PriceTool struct {
	client  *market.Client
	symbols *symbol.Resolver
}

func NewPriceTool(client *market.Client, symbols *symbol.Resolver) *PriceTool {
	return &PriceTool{client: client, symbols: symbols}
}

func (t *PriceTool) Name() string { return "get_crypto_price" }

func (t *PriceTool) Description() string {
	return "Get the latest price for a cryptocurrency by ticker symbol."
}

func (t *PriceTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"symbol": {Type: "string", Description: "Ticker symbol, e.g. BTC or ETH"},
		},
		[]string{"symbol"},
	)
}

func (t *PriceTool) Execute(ctx context.Context, args map[string]any) domain.ToolResult {
	sym := ArgsString(args, "symbol")
	if sym == "" {
		return domain.Failure(t.Name(),
			domain.NewToolError(domain.ErrFormat, "missing required argument: symbol"))
	}
	quote, err := t.client.CurrentPrice(ctx, t.symbols.Resolve(sym))
	if err != nil {
		return domain.Failure(t.Name(), err)
	}
	return domain.Success(t.Name(), quote)
}

var _ domain.Tool = (*PriceTool)(nil)
