package agent

import (
	"fmt"
	"strconv"
	"strings"

	"coinbot/internal/domain"
	"coinbot/internal/market"
)

const fallbackReply = "I couldn't process the requested information."

// Render maps a tool result to the final user-facing text. It is a total
// function: every result shape, success or failure, maps to a sentence,
// and it never touches the network or mutates the result.
func Render(res domain.ToolResult) string {
	if res.Err != nil {
		return renderError(res.Err)
	}

	switch payload := res.Payload.(type) {
	case *market.Quote:
		return renderQuote(payload)
	case *market.Movers:
		return renderMovers(payload)
	case *market.FearGreed:
		return fmt.Sprintf("🎯 Current Crypto Fear & Greed Index: %d - %s",
			payload.Value, payload.Classification)
	case *market.FearGreedHistory:
		return renderFearGreedHistory(payload)
	case *market.HistoricalQuote:
		return renderHistoricalQuote(payload)
	default:
		return fallbackReply
	}
}

func renderError(err *domain.ToolError) string {
	switch err.Kind {
	case domain.ErrFutureDate:
		return fmt.Sprintf("🔮 I can't predict the future! %s.", capitalize(err.Message))
	case domain.ErrUnparseableDate:
		return fmt.Sprintf("📅 %s", capitalize(err.Message))
	case domain.ErrFormat:
		return "I encountered an error processing your request."
	default:
		return fmt.Sprintf("I encountered an error: %s", err.Message)
	}
}

func renderQuote(q *market.Quote) string {
	if q.Price == nil {
		return fmt.Sprintf("I couldn't find current price data for %s (%s).", q.Name, q.Symbol)
	}
	return fmt.Sprintf("%s (%s) is currently trading at %s, %s in the last 24 hours and %s in the last 7 days.",
		q.Name, q.Symbol, formatPrice(*q.Price),
		formatDirection(q.PctChange24h), formatDirection(q.PctChange7d))
}

func renderMovers(m *market.Movers) string {
	if len(m.Gainers) == 0 && len(m.Losers) == 0 {
		return "I couldn't find gainers and losers data at the moment."
	}

	var sb strings.Builder
	sb.WriteString("Here are the top gainers and losers from the top 100 cryptocurrencies in the last 24 hours:\n\n")

	if len(m.Gainers) > 0 {
		sb.WriteString("🚀 TOP GAINERS:\n")
		for _, g := range m.Gainers {
			writeMover(&sb, g, "+%.2f%%")
		}
		sb.WriteString("\n")
	}
	if len(m.Losers) > 0 {
		sb.WriteString("📉 TOP LOSERS:\n")
		for _, l := range m.Losers {
			writeMover(&sb, l, "%.2f%%")
		}
	}
	return strings.TrimSpace(sb.String())
}

func writeMover(sb *strings.Builder, m market.Mover, changeFormat string) {
	price := "Price unavailable"
	if m.Price != nil {
		price = formatPrice(*m.Price)
	}
	change := fmt.Sprintf(changeFormat, m.PctChange24h)
	fmt.Fprintf(sb, "   %s (%s) #%d: %s (%s)\n", m.Name, m.Symbol, m.Rank, price, change)
}

func renderFearGreedHistory(h *market.FearGreedHistory) string {
	dateInfo := h.RequestedDate
	if h.ActualDate != "" && h.ActualDate != h.RequestedDate {
		dateInfo = fmt.Sprintf("%s (data from %s)", h.RequestedDate, h.ActualDate)
	}
	return fmt.Sprintf("📅 Crypto Fear & Greed Index for %s: %d - %s",
		dateInfo, h.Value, h.Classification)
}

func renderHistoricalQuote(q *market.HistoricalQuote) string {
	dateInfo := q.RequestedDate
	if q.ActualDate != "" && q.ActualDate != q.RequestedDate {
		dateInfo = fmt.Sprintf("%s (data from %s)", q.RequestedDate, q.ActualDate)
	}
	return fmt.Sprintf("💰 %s (%s) price on %s: %s",
		q.Name, q.Symbol, dateInfo, formatPrice(q.Price))
}

// formatPrice renders sub-unit prices with 8 decimal places and larger
// prices with thousands separators and 2 decimals.
func formatPrice(p float64) string {
	if p < 1.0 {
		return fmt.Sprintf("$%.8f", p)
	}
	return "$" + groupThousands(strconv.FormatFloat(p, 'f', 2, 64))
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string.
func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return intPart + "." + fracPart
	}
	var sb strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sb.String() + "." + fracPart
}

func formatDirection(change float64) string {
	direction := "up"
	if change < 0 {
		direction = "down"
	}
	if change < 0 {
		change = -change
	}
	return fmt.Sprintf("%s %.2f%%", direction, change)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
