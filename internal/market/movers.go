package market

import (
	"context"
	"sort"
)

const moversPerSide = 5

type listingsResponse struct {
	Data []struct {
		Name    string              `json:"name"`
		Symbol  string              `json:"symbol"`
		CMCRank int                 `json:"cmc_rank"`
		Quote   map[string]usdQuote `json:"quote"`
	} `json:"data"`
}

// GainersLosers fetches the top 100 assets by market capitalization and
// partitions them by 24h percent change: strictly positive changes are
// gainers, strictly negative are losers, zero-change assets land in
// neither list. Each side is truncated to the top five.
func (c *Client) GainersLosers(ctx context.Context) (*Movers, error) {
	query := params(
		"limit", "100",
		"sort", "market_cap",
		"sort_dir", "desc",
		"convert", "USD",
	)

	var resp listingsResponse
	if err := c.getCached(ctx, "/v1/cryptocurrency/listings/latest", query, &resp); err != nil {
		return nil, err
	}

	out := &Movers{}
	for _, asset := range resp.Data {
		usd := asset.Quote["USD"]
		if usd.MarketCap <= 0 {
			continue
		}
		entry := Mover{
			Name:         asset.Name,
			Symbol:       asset.Symbol,
			Price:        usd.Price,
			PctChange24h: usd.PercentChange24h,
			MarketCap:    usd.MarketCap,
			Rank:         asset.CMCRank,
		}
		switch {
		case usd.PercentChange24h > 0:
			out.Gainers = append(out.Gainers, entry)
		case usd.PercentChange24h < 0:
			out.Losers = append(out.Losers, entry)
		}
	}

	sort.Slice(out.Gainers, func(i, j int) bool {
		return out.Gainers[i].PctChange24h > out.Gainers[j].PctChange24h
	})
	sort.Slice(out.Losers, func(i, j int) bool {
		return out.Losers[i].PctChange24h < out.Losers[j].PctChange24h
	})

	if len(out.Gainers) > moversPerSide {
		out.Gainers = out.Gainers[:moversPerSide]
	}
	if len(out.Losers) > moversPerSide {
		out.Losers = out.Losers[:moversPerSide]
	}
	return out, nil
}
