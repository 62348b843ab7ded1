package tool

import (
	"context"

	"coinbot/internal/domain"
	"coinbot/internal/market"
)

// FearGreedTool returns the current crypto fear-and-greed index.
type FearGreedTool struct {
	client *market.Client
}

func NewFearGreedTool(client *market.Client) *FearGreedTool {
	return &FearGreedTool{client: client}
}

func (t *FearGreedTool) Name() string { return "get_fear_greed_latest" }

func (t *FearGreedTool) Description() string {
	return "Get the current crypto fear and greed index value and classification."
}

func (t *FearGreedTool) Parameters() map[string]any {
	return ToolParameters(map[string]Param{}, nil)
}

func (t *FearGreedTool) Execute(ctx context.Context, args map[string]any) domain.ToolResult {
	reading, err := t.client.FearGreedLatest(ctx)
	if err != nil {
		return domain.Failure(t.Name(), err)
	}
	return domain.Success(t.Name(), reading)
}

var _ domain.Tool = (*FearGreedTool)(nil)

// FearGreedHistoricalTool returns the index for a past date, within the
// 500-day series the upstream keeps.
type FearGreedHistoricalTool struct {
	client *market.Client
}

func NewFearGreedHistoricalTool(client *market.Client) *FearGreedHistoricalTool {
	return &FearGreedHistoricalTool{client: client}
}

func (t *FearGreedHistoricalTool) Name() string { return "get_fear_greed_historical" }

func (t *FearGreedHistoricalTool) Description() string {
	return "Get the crypto fear and greed index for a past date (within 500 days)."
}

func (t *FearGreedHistoricalTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"date": {Type: "string", Description: "Date expression: YYYY-MM-DD, MM/DD/YYYY, or a phrase like 'last week'"},
		},
		[]string{"date"},
	)
}

func (t *FearGreedHistoricalTool) Execute(ctx context.Context, args map[string]any) domain.ToolResult {
	date := ArgsString(args, "date")
	if date == "" {
		return domain.Failure(t.Name(),
			domain.NewToolError(domain.ErrFormat, "missing required argument: date"))
	}
	reading, err := t.client.FearGreedHistorical(ctx, date)
	if err != nil {
		return domain.Failure(t.Name(), err)
	}
	return domain.Success(t.Name(), reading)
}

var _ domain.Tool = (*FearGreedHistoricalTool)(nil)
