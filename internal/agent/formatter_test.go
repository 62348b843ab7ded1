package agent

import (
	"strings"
	"testing"

	"coinbot/internal/domain"
	"coinbot/internal/market"
)

func f(v float64) *float64 { return &v }

func TestRender_Quote(t *testing.T) {
	got := Render(domain.Success("get_crypto_price", &market.Quote{
		Name:         "Bitcoin",
		Symbol:       "BTC",
		Price:        f(67234.56),
		PctChange24h: 2.34,
		PctChange7d:  -1.12,
	}))
	want := "Bitcoin (BTC) is currently trading at $67,234.56, up 2.34% in the last 24 hours and down 1.12% in the last 7 days."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRender_QuoteNilPrice(t *testing.T) {
	got := Render(domain.Success("get_crypto_price", &market.Quote{Name: "Bitcoin", Symbol: "BTC"}))
	if !strings.Contains(got, "couldn't find current price data") {
		t.Errorf("got %q", got)
	}
}

func TestFormatPrice_Thresholds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.00004521, "$0.00004521"},
		{0.999, "$0.99900000"},
		{1.0, "$1.00"},
		{999.5, "$999.50"},
		{67234.56, "$67,234.56"},
		{1234567.89, "$1,234,567.89"},
	}
	for _, c := range cases {
		if got := formatPrice(c.in); got != c.want {
			t.Errorf("formatPrice(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRender_Movers(t *testing.T) {
	got := Render(domain.Success("get_gainers_losers", &market.Movers{
		Gainers: []market.Mover{
			{Name: "Solana", Symbol: "SOL", Rank: 5, Price: f(145.20), PctChange24h: 12.5},
		},
		Losers: []market.Mover{
			{Name: "Dogecoin", Symbol: "DOGE", Rank: 8, PctChange24h: -7.25},
		},
	}))

	if !strings.Contains(got, "🚀 TOP GAINERS:") || !strings.Contains(got, "📉 TOP LOSERS:") {
		t.Fatalf("missing section headers in %q", got)
	}
	if !strings.Contains(got, "Solana (SOL) #5: $145.20 (+12.50%)") {
		t.Errorf("gainer line wrong in %q", got)
	}
	if !strings.Contains(got, "Dogecoin (DOGE) #8: Price unavailable (-7.25%)") {
		t.Errorf("loser line wrong in %q", got)
	}
}

func TestRender_MoversEmpty(t *testing.T) {
	got := Render(domain.Success("get_gainers_losers", &market.Movers{}))
	if got != "I couldn't find gainers and losers data at the moment." {
		t.Errorf("got %q", got)
	}
}

func TestRender_FearGreed(t *testing.T) {
	got := Render(domain.Success("get_fear_greed_latest", &market.FearGreed{Value: 72, Classification: "Greed"}))
	want := "🎯 Current Crypto Fear & Greed Index: 72 - Greed"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_FearGreedHistory(t *testing.T) {
	got := Render(domain.Success("get_fear_greed_historical", &market.FearGreedHistory{
		RequestedDate:  "2024-11-11",
		ActualDate:     "2024-11-11",
		Value:          80,
		Classification: "Extreme Greed",
	}))
	want := "📅 Crypto Fear & Greed Index for 2024-11-11: 80 - Extreme Greed"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_FearGreedHistoryNearestDate(t *testing.T) {
	got := Render(domain.Success("get_fear_greed_historical", &market.FearGreedHistory{
		RequestedDate:  "2024-11-11",
		ActualDate:     "2024-11-10",
		Value:          75,
		Classification: "Greed",
	}))
	if !strings.Contains(got, "2024-11-11 (data from 2024-11-10)") {
		t.Errorf("missing nearest-date annotation in %q", got)
	}
}

func TestRender_HistoricalQuote(t *testing.T) {
	got := Render(domain.Success("get_crypto_price_historical", &market.HistoricalQuote{
		Name:          "Bitcoin",
		Symbol:        "BTC",
		Price:         64102.11,
		RequestedDate: "2025-03-10",
		ActualDate:    "2025-03-10 11:05 UTC",
	}))
	if !strings.Contains(got, "💰 Bitcoin (BTC) price on 2025-03-10 (data from 2025-03-10 11:05 UTC): $64,102.11") {
		t.Errorf("got %q", got)
	}
}

func TestRender_Errors(t *testing.T) {
	cases := []struct {
		kind domain.ErrorKind
		msg  string
		want string
	}{
		{domain.ErrFutureDate, "the date 2030-01-01 is in the future",
			"🔮 I can't predict the future! The date 2030-01-01 is in the future."},
		{domain.ErrUnparseableDate, "could not understand the date format: someday",
			"📅 Could not understand the date format: someday"},
		{domain.ErrFormat, "tool call missing function or argument block",
			"I encountered an error processing your request."},
		{domain.ErrUpstream, "market data API returned status 503",
			"I encountered an error: market data API returned status 503"},
	}
	for _, c := range cases {
		got := Render(domain.Failure("x", domain.NewToolError(c.kind, c.msg)))
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestRender_UnknownPayload(t *testing.T) {
	got := Render(domain.Success("x", struct{}{}))
	if got != "I couldn't process the requested information." {
		t.Errorf("got %q", got)
	}
}
