package market

import (
	"context"
	"time"

	"coinbot/internal/dates"
	"coinbot/internal/domain"
)

type fearGreedLatestResponse struct {
	Data struct {
		Value          flexInt64 `json:"value"`
		Classification string    `json:"value_classification"`
		UpdateTime     string    `json:"update_time"`
	} `json:"data"`
}

// FearGreedLatest returns the current fear-and-greed index reading.
func (c *Client) FearGreedLatest(ctx context.Context) (*FearGreed, error) {
	var resp fearGreedLatestResponse
	if err := c.get(ctx, "/v3/fear-and-greed/latest", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Classification == "" {
		return nil, domain.NewToolError(domain.ErrNotFound, "no fear and greed data available")
	}
	return &FearGreed{
		Value:          int(resp.Data.Value),
		Classification: resp.Data.Classification,
		Timestamp:      resp.Data.UpdateTime,
	}, nil
}

type fearGreedHistoricalResponse struct {
	Data []struct {
		Timestamp      flexInt64 `json:"timestamp"`
		Value          flexInt64 `json:"value"`
		Classification string    `json:"value_classification"`
	} `json:"data"`
}

// FearGreedHistorical resolves a free-text date expression and finds the
// daily index record for that date. The series is daily at midnight UTC;
// an exact timestamp match is preferred, otherwise the record with the
// minimum absolute distance to the target midnight wins.
func (c *Client) FearGreedHistorical(ctx context.Context, rawDate string) (*FearGreedHistory, error) {
	q, err := dates.Normalize(rawDate, dates.FearGreedRules)
	if err != nil {
		return nil, err
	}
	ref := c.clock().UTC()
	resolved := q.Resolve(ref)
	if err := dates.Classify(resolved, ref, FearGreedFloorDays); err != nil {
		return nil, err
	}
	requested := resolved.Format("2006-01-02")
	targetUnix := time.Date(resolved.Year(), resolved.Month(), resolved.Day(), 0, 0, 0, 0, time.UTC).Unix()

	var resp fearGreedHistoricalResponse
	if err := c.getCached(ctx, "/v3/fear-and-greed/historical", params("limit", "500"), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, domain.NewToolError(domain.ErrNotFound,
			"no fear and greed data available for %s", requested)
	}

	best := -1
	var bestDiff int64
	for i, rec := range resp.Data {
		ts := int64(rec.Timestamp)
		if ts == 0 {
			continue
		}
		if ts == targetUnix {
			best = i
			break
		}
		diff := ts - targetUnix
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return nil, domain.NewToolError(domain.ErrNotFound,
			"no fear and greed data available for %s", requested)
	}

	matched := resp.Data[best]
	actual := requested
	if ts := int64(matched.Timestamp); ts > 0 {
		actual = time.Unix(ts, 0).UTC().Format("2006-01-02")
	}
	return &FearGreedHistory{
		Value:          int(matched.Value),
		Classification: matched.Classification,
		RequestedDate:  requested,
		ActualDate:     actual,
	}, nil
}
