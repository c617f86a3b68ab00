package models

import "time"

// Return is one periodic return, as a fraction (0.01 is 1%).
type Return struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ReturnSeries is a time-ordered (oldest first) sequence of returns for a security.
type ReturnSeries struct {
	Symbol  string   `json:"symbol"`
	Returns []Return `json:"returns"`
}

func (s ReturnSeries) Len() int {
	return len(s.Returns)
}

// Values returns the raw return values in series order.
func (s ReturnSeries) Values() []float64 {
	values := make([]float64, len(s.Returns))
	for i, r := range s.Returns {
		values[i] = r.Value
	}
	return values
}

// Dates returns the dates in series order.
func (s ReturnSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Returns))
	for i, r := range s.Returns {
		dates[i] = r.Date
	}
	return dates
}

// First returns the oldest return. The zero Return is returned for an empty series.
func (s ReturnSeries) First() Return {
	if len(s.Returns) == 0 {
		return Return{}
	}
	return s.Returns[0]
}

// Last returns the most recent return.
func (s ReturnSeries) Last() Return {
	if len(s.Returns) == 0 {
		return Return{}
	}
	return s.Returns[len(s.Returns)-1]
}

// Since returns the subset dated at or after t.
func (s ReturnSeries) Since(t time.Time) ReturnSeries {
	out := ReturnSeries{Symbol: s.Symbol}
	for _, r := range s.Returns {
		if !r.Date.Before(t) {
			out.Returns = append(out.Returns, r)
		}
	}
	return out
}
