package market

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Quote is a current-price lookup result.
type Quote struct {
	Name         string
	Symbol       string
	Price        *float64 // nil when the upstream quote omits a price
	MarketCap    float64
	Volume24h    float64
	PctChange24h float64
	PctChange7d  float64
	LastUpdated  string
}

// HistoricalQuote is a dated price sample. RequestedDate is what the user
// asked for; ActualDate is the timestamp of the sample that was matched,
// so callers can report the discrepancy.
type HistoricalQuote struct {
	Name          string
	Symbol        string
	Price         float64
	RequestedDate string // YYYY-MM-DD
	ActualDate    string // YYYY-MM-DD HH:MM UTC
}

// Mover is one entry in the gainers or losers list.
type Mover struct {
	Name         string
	Symbol       string
	Price        *float64
	PctChange24h float64
	MarketCap    float64
	Rank         int
}

// Movers partitions the top-100 listing into the five biggest gainers and
// losers by 24h percent change.
type Movers struct {
	Gainers []Mover
	Losers  []Mover
}

// FearGreed is the latest sentiment index reading.
type FearGreed struct {
	Value          int
	Classification string
	Timestamp      string
}

// FearGreedHistory is a dated sentiment reading with the requested and
// actually-matched dates.
type FearGreedHistory struct {
	Value          int
	Classification string
	RequestedDate  string // YYYY-MM-DD
	ActualDate     string // YYYY-MM-DD of the matched record
}

// flexInt64 unmarshals from a JSON number or a digit string. The
// fear-and-greed endpoints are inconsistent about which they send.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	// Tolerate float-formatted numbers.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var raw any
		if jerr := json.Unmarshal(data, &raw); jerr != nil {
			return jerr
		}
		*f = 0
		return nil
	}
	*f = flexInt64(v)
	return nil
}
