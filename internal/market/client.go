// Package market wraps the CoinMarketCap REST API: current and historical
// quotes, the top-100 movers listing, and the fear-and-greed index.
package market

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"coinbot/internal/domain"
	"coinbot/internal/metrics"
)

const (
	defaultBaseURL = "https://pro-api.coinmarketcap.com"
	defaultTimeout = 10 * time.Second

	// Retention floors the upstream plan guarantees, in days.
	PriceHistoryFloorDays = 30
	FearGreedFloorDays    = 500
)

// Cache stores raw upstream payloads for the bulk fetches (top-100 listing,
// fear-greed series). A nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte)
}

// Client talks to the quote service. All operations are single synchronous
// request/response mappings; nothing is retried.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	cache   Cache
	clock   func() time.Time
	logger  *slog.Logger
}

type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Cache      Cache
	Clock      func() time.Time // reference instant source, defaults to time.Now
	Logger     *slog.Logger
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   cfg.HTTPClient,
		cache:   cfg.Cache,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
}

// get performs one GET against the API and decodes the JSON body into out.
// Non-2xx statuses and transport failures surface as upstream errors with
// the upstream detail preserved.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.fetch(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewToolError(domain.ErrUpstream, "decode %s response: %v", path, err)
	}
	return nil
}

// getCached is get with a read-through cache keyed by path+query. Used only
// for the bulk endpoints whose responses are identical across nearby calls.
func (c *Client) getCached(ctx context.Context, path string, query url.Values, out any) error {
	if c.cache == nil {
		return c.get(ctx, path, query, out)
	}
	key := path + "?" + query.Encode()
	if payload, ok := c.cache.Get(ctx, key); ok {
		c.logger.Debug("market cache hit", "key", key)
		if err := json.Unmarshal(payload, out); err == nil {
			metrics.CacheHits.Inc()
			return nil
		}
		// Corrupt cache entry: fall through to a fresh fetch.
	}
	body, err := c.fetch(ctx, path, query)
	if err != nil {
		return err
	}
	c.cache.Put(ctx, key, body)
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewToolError(domain.ErrUpstream, "decode %s response: %v", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.NewToolError(domain.ErrUpstream, "build request: %v", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.MarketLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.Inc()
		return nil, domain.NewToolError(domain.ErrUpstream, "quote service request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.UpstreamErrors.Inc()
		return nil, domain.NewToolError(domain.ErrUpstream, "read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamErrors.Inc()
		c.logger.Warn("quote service error", "path", path, "status", resp.StatusCode)
		return nil, domain.NewToolError(domain.ErrUpstream,
			"quote service returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func params(pairs ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Set(pairs[i], pairs[i+1])
	}
	return q
}
