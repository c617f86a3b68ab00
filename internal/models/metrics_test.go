package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func completeData() MetricsData {
	data := MetricsData{}
	for _, c := range Categories() {
		var set MetricSet
		set.Set("value", 0.5)
		data[c] = set
	}
	return data
}

func TestMetricSet_SetKeepsOrderAndReplaces(t *testing.T) {
	var set MetricSet
	set.Set("sharpe", 1.2)
	set.Set("sortino", 1.8)
	set.Set("sharpe", 0.9)

	assert.Equal(t, []string{"sharpe", "sortino"}, set.Keys())
	assert.Equal(t, 2, set.Len())

	v, ok := set.Get("sharpe")
	require.True(t, ok)
	assert.Equal(t, 0.9, v)

	_, ok = set.Get("calmar")
	assert.False(t, ok)
}

func TestMetricSet_Float(t *testing.T) {
	var set MetricSet
	set.Set("days", 252)
	set.Set("cagr", 0.12)
	set.Set("start", "2020-01-02")

	f, ok := set.Float("days")
	assert.True(t, ok)
	assert.Equal(t, 252.0, f)

	f, ok = set.Float("cagr")
	assert.True(t, ok)
	assert.Equal(t, 0.12, f)

	_, ok = set.Float("start")
	assert.False(t, ok)
}

func TestMetricsData_Require(t *testing.T) {
	data := completeData()
	assert.NoError(t, data.Require())

	delete(data, CategoryDrawdown)
	err := data.Require()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCategory))

	var missing *MissingCategoryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, CategoryDrawdown, missing.Category)
}

func TestCategory_Title(t *testing.T) {
	assert.Equal(t, "General Information", CategoryGeneral.Title())
	assert.Equal(t, "Trading Statistics", CategoryTiming.Title())
	assert.Equal(t, "custom", Category("custom").Title())
	assert.Len(t, Categories(), 6)
}

func TestMetricsData_MarshalYAMLOrder(t *testing.T) {
	data := MetricsData{}
	var ratios MetricSet
	ratios.Set("sortino", 2.0)
	ratios.Set("sharpe", 1.5)
	data[CategoryRatios] = ratios
	var general MetricSet
	general.Set("start_period", "2020-01-02")
	data[CategoryGeneral] = general

	out, err := yaml.Marshal(data)
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, "general:"), strings.Index(text, "ratios:"))
	assert.Less(t, strings.Index(text, "sortino:"), strings.Index(text, "sharpe:"))
	assert.NotContains(t, text, "returns:")

	var decoded map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "2020-01-02", decoded["general"]["start_period"])
	assert.Equal(t, 1.5, decoded["ratios"]["sharpe"])
}

func TestReturnSeries_Since(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	series := ReturnSeries{
		Symbol: "META.US",
		Returns: []Return{
			{Date: day(2), Value: 0.01},
			{Date: day(3), Value: -0.02},
			{Date: day(4), Value: 0.03},
		},
	}

	sub := series.Since(day(3))
	assert.Equal(t, "META.US", sub.Symbol)
	assert.Equal(t, []float64{-0.02, 0.03}, sub.Values())
	assert.Equal(t, day(2), series.First().Date)
	assert.Equal(t, day(4), series.Last().Date)
	assert.Equal(t, Return{}, ReturnSeries{}.Last())
}

func TestPriceHistory_IsFresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h := &PriceHistory{FetchedAt: now.Add(-2 * time.Hour)}

	assert.True(t, h.IsFresh(now, 12*time.Hour))
	assert.False(t, h.IsFresh(now, time.Hour))
	assert.True(t, h.IsFresh(now, 0))

	var missing *PriceHistory
	assert.False(t, missing.IsFresh(now, time.Hour))
}
