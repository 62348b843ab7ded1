package market

import (
	"context"
	"strings"
	"time"

	"coinbot/internal/dates"
	"coinbot/internal/domain"
)

type usdQuote struct {
	Price            *float64 `json:"price"`
	MarketCap        float64  `json:"market_cap"`
	Volume24h        float64  `json:"volume_24h"`
	PercentChange24h float64  `json:"percent_change_24h"`
	PercentChange7d  float64  `json:"percent_change_7d"`
	LastUpdated      string   `json:"last_updated"`
}

type quotesLatestResponse struct {
	Data map[string]struct {
		Name   string              `json:"name"`
		Symbol string              `json:"symbol"`
		Quote  map[string]usdQuote `json:"quote"`
	} `json:"data"`
}

// CurrentPrice looks up the latest USD quote for a symbol.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var resp quotesLatestResponse
	err := c.get(ctx, "/v1/cryptocurrency/quotes/latest", params("symbol", symbol), &resp)
	if err != nil {
		return nil, err
	}

	entry, ok := resp.Data[symbol]
	if !ok {
		return nil, domain.NewToolError(domain.ErrNotFound, "no data available for %s", symbol)
	}
	usd := entry.Quote["USD"]
	return &Quote{
		Name:         entry.Name,
		Symbol:       symbol,
		Price:        usd.Price,
		MarketCap:    usd.MarketCap,
		Volume24h:    usd.Volume24h,
		PctChange24h: usd.PercentChange24h,
		PctChange7d:  usd.PercentChange7d,
		LastUpdated:  usd.LastUpdated,
	}, nil
}

type quotesHistoricalResponse struct {
	Data map[string][]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		Quotes []struct {
			Timestamp string              `json:"timestamp"`
			Quote     map[string]usdQuote `json:"quote"`
		} `json:"quotes"`
	} `json:"data"`
}

// HistoricalPrice resolves a free-text date expression and fetches the
// price near that instant. The upstream is queried over a ±1-hour window
// at a 5-minute interval and the first in-window sample is taken as the
// match. Samples arrive in chronological order, so this is the sample
// nearest the window start rather than the true nearest to the target
// instant; the requested and actual timestamps are both returned so the
// caller can report the gap.
func (c *Client) HistoricalPrice(ctx context.Context, symbol, rawDate string) (*HistoricalQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	q, err := dates.Normalize(rawDate, dates.PriceRules)
	if err != nil {
		return nil, err
	}
	ref := c.clock().UTC()
	target := q.Resolve(ref)
	if err := dates.Classify(target, ref, PriceHistoryFloorDays); err != nil {
		return nil, err
	}
	requested := target.Format("2006-01-02")

	query := params(
		"symbol", symbol,
		"time_start", target.Add(-time.Hour).Format("2006-01-02T15:04:00Z"),
		"time_end", target.Add(time.Hour).Format("2006-01-02T15:04:00Z"),
		"interval", "5m",
		"convert", "USD",
		"aux", "price",
	)

	var resp quotesHistoricalResponse
	if err := c.get(ctx, "/v2/cryptocurrency/quotes/historical", query, &resp); err != nil {
		return nil, err
	}

	entries, ok := resp.Data[symbol]
	if !ok || len(entries) == 0 {
		return nil, domain.NewToolError(domain.ErrNotFound,
			"no price data available for %s on %s", symbol, requested)
	}
	entry := entries[0] // first entry is the main token for the symbol
	if len(entry.Quotes) == 0 {
		return nil, domain.NewToolError(domain.ErrNotFound,
			"no price data available for %s on %s", symbol, requested)
	}

	sample := entry.Quotes[0]
	usd := sample.Quote["USD"]
	if usd.Price == nil {
		return nil, domain.NewToolError(domain.ErrNotFound,
			"no price data available for %s on %s", symbol, requested)
	}

	actual := requested
	if ts, perr := time.Parse(time.RFC3339, sample.Timestamp); perr == nil {
		actual = ts.UTC().Format("2006-01-02 15:04 UTC")
	}

	return &HistoricalQuote{
		Name:          entry.Name,
		Symbol:        symbol,
		Price:         *usd.Price,
		RequestedDate: requested,
		ActualDate:    actual,
	}, nil
}
