package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestServer(t *testing.T, status int, body string, query *map[string]string, path *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path != nil {
			*path = r.URL.Path
		}
		if query != nil {
			*query = map[string]string{}
			for k := range r.URL.Query() {
				(*query)[k] = r.URL.Query().Get(k)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_GetEOD(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	server := newTestServer(t, http.StatusOK, `[
		{"date":"2024-01-02","open":1,"high":2,"low":0.5,"close":1.2,"adjusted_close":1.1,"volume":90},
		{"date":"2024-01-03","open":1,"high":2,"low":0.5,"close":1.5,"adjusted_close":1.4,"volume":100}
	]`, &gotQuery, &gotPath)

	client := NewClient("secret", WithBaseURL(server.URL), WithLogger(arbor.NewLogger()))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	bars, err := client.GetEOD(context.Background(), "META.US", WithDateRange(from, to))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "/eod/META.US", gotPath)
	assert.Equal(t, "secret", gotQuery["api_token"])
	assert.Equal(t, "json", gotQuery["fmt"])
	assert.Equal(t, "d", gotQuery["period"])
	assert.Equal(t, "a", gotQuery["order"])
	assert.Equal(t, "2024-01-01", gotQuery["from"])
	assert.Equal(t, "2024-01-31", gotQuery["to"])

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 1.1, bars[0].AdjustedClose)
	assert.Equal(t, 1.4, bars[1].AdjustedClose)
	assert.Equal(t, int64(100), bars[1].Volume)
}

func TestClient_GetEOD_OpenRange(t *testing.T) {
	var gotQuery map[string]string
	server := newTestServer(t, http.StatusOK, `[]`, &gotQuery, nil)

	client := NewClient("secret", WithBaseURL(server.URL))
	bars, err := client.GetEOD(context.Background(), "BHP.AU")
	require.NoError(t, err)
	assert.Empty(t, bars)

	_, hasFrom := gotQuery["from"]
	_, hasTo := gotQuery["to"]
	assert.False(t, hasFrom)
	assert.False(t, hasTo)
}

func TestClient_GetEOD_InvalidDate(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `[
		{"date":"2024-01-02","adjusted_close":1.1},
		{"date":"bad","adjusted_close":9}
	]`, nil, nil)

	client := NewClient("secret", WithBaseURL(server.URL))
	_, err := client.GetEOD(context.Background(), "META.US")

	var dateErr *DateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "META.US", dateErr.Symbol)
	assert.Equal(t, 1, dateErr.Row)
	assert.Equal(t, "bad", dateErr.Value)
}

func TestClient_GetEOD_APIError(t *testing.T) {
	server := newTestServer(t, http.StatusUnauthorized, "Unauthenticated", nil, nil)

	client := NewClient("bad", WithBaseURL(server.URL))
	_, err := client.GetEOD(context.Background(), "META.US")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/eod/META.US", apiErr.Endpoint)
	assert.Contains(t, apiErr.Error(), "Unauthenticated")
}

func TestClient_GetEOD_CancelledContext(t *testing.T) {
	client := NewClient("key", WithBaseURL("http://127.0.0.1:0"), WithRateLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetEOD(ctx, "META.US")
	var rlErr *RateLimitError
	assert.True(t, errors.As(err, &rlErr))
	assert.ErrorIs(t, err, context.Canceled)
}
