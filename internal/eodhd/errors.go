package eodhd

import "fmt"

// APIError is a non-200 response
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned when the limiter could not grant a request
// before the context ended.
type RateLimitError struct {
	Endpoint string
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EODHD rate limit wait for %s: %v", e.Endpoint, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// DateError reports a price row whose date could not be parsed
type DateError struct {
	Symbol string
	Row    int
	Value  string
	Err    error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("EODHD %s row %d: invalid date %q", e.Symbol, e.Row, e.Value)
}

func (e *DateError) Unwrap() error {
	return e.Err
}
