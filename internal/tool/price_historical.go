package tool

import (
	"context"

	"coinbot/internal/domain"
	"coinbot/internal/market"
	"coinbot/internal/symbol"
)

// HistoricalPriceTool looks up a dated price. Historical data is only
// available for the past 30 days.
type HistoricalPriceTool struct {
	client  *market.Client
	symbols *symbol.Resolver
}

func NewHistoricalPriceTool(client *market.Client, symbols *symbol.Resolver) *HistoricalPriceTool {
	return &HistoricalPriceTool{client: client, symbols: symbols}
}

func (t *HistoricalPriceTool) Name() string { return "get_crypto_price_historical" }

func (t *HistoricalPriceTool) Description() string {
	return "Get the price of a cryptocurrency on a past date (within 30 days). " +
		"Accepts relative dates like 'yesterday' or '3 days ago', MM/DD/YYYY, or YYYY-MM-DD."
}

func (t *HistoricalPriceTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"symbol": {Type: "string", Description: "Ticker symbol, e.g. BTC or ETH"},
			"date":   {Type: "string", Description: "Date expression: 'yesterday', '3 days ago', MM/DD/YYYY, or YYYY-MM-DD"},
		},
		[]string{"symbol", "date"},
	)
}

func (t *HistoricalPriceTool) Execute(ctx context.Context, args map[string]any) domain.ToolResult {
	sym := ArgsString(args, "symbol")
	date := ArgsString(args, "date")
	if sym == "" || date == "" {
		return domain.Failure(t.Name(),
			domain.NewToolError(domain.ErrFormat, "missing required arguments: symbol and date"))
	}
	quote, err := t.client.HistoricalPrice(ctx, t.symbols.Resolve(sym), date)
	if err != nil {
		return domain.Failure(t.Name(), err)
	}
	return domain.Success(t.Name(), quote)
}

var _ domain.Tool = (*HistoricalPriceTool)(nil)
