package tool

import (
	"context"

	"coinbot/internal/domain"
	"coinbot/internal/market"
)

// MoversTool returns the biggest 24h gainers and losers among the top 100
// assets by market cap.
type MoversTool struct {
	client *market.Client
}

func NewMoversTool(client *market.Client) *MoversTool {
	return &MoversTool{client: client}
}

func (t *MoversTool) Name() string { return "get_gainers_losers" }

func (t *MoversTool) Description() string {
	return "Get the top 5 gainers and top 5 losers over the last 24 hours from the top 100 cryptocurrencies."
}

func (t *MoversTool) Parameters() map[string]any {
	return ToolParameters(map[string]Param{}, nil)
}

func (t *MoversTool) Execute(ctx context.Context, args map[string]any) domain.ToolResult {
	movers, err := t.client.GainersLosers(ctx)
	if err != nil {
		return domain.Failure(t.Name(), err)
	}
	return domain.Success(t.Name(), movers)
}

var _ domain.Tool = (*MoversTool)(nil)
