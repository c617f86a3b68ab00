package models

import "time"

// PriceBar is one end-of-day price record.
type PriceBar struct {
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// PriceHistory is the cached daily price history for one symbol.
type PriceHistory struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// IsFresh reports whether the history was fetched within ttl of now.
// A non-positive ttl means cached data never expires.
func (h *PriceHistory) IsFresh(now time.Time, ttl time.Duration) bool {
	if h == nil || h.FetchedAt.IsZero() {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(h.FetchedAt) < ttl
}
