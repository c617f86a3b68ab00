// Package metrics computes categorized performance metrics from a returns series.
package metrics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInsufficientData is returned for an empty returns series.
var ErrInsufficientData = errors.New("returns series is empty")

const dateLayout = "2006-01-02"

// Options holds the calculation parameters.
type Options struct {
	RiskFreeRate   float64 // annual, as a fraction
	PeriodsPerYear int     // 252 for daily returns
	VaRConfidence  float64 // 0.95 reports the 5% tail
}

// Calculator implements interfaces.MetricsCalculator
type Calculator struct {
	opts   Options
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.MetricsCalculator = (*Calculator)(nil)

// NewCalculator creates a calculator. Zero options fall back to daily defaults.
func NewCalculator(opts Options, logger arbor.ILogger) *Calculator {
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = 252
	}
	if opts.VaRConfidence <= 0 || opts.VaRConfidence >= 1 {
		opts.VaRConfidence = 0.95
	}
	return &Calculator{opts: opts, logger: logger}
}

// Compute returns all six metric categories for series.
func (c *Calculator) Compute(ctx context.Context, series models.ReturnSeries) (models.MetricsData, error) {
	if series.Len() == 0 {
		return nil, ErrInsufficientData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := series.Values()
	dd := drawdowns(values)
	episodes := drawdownEpisodes(series.Dates(), dd)

	data := models.MetricsData{
		models.CategoryGeneral:  c.general(series, values),
		models.CategoryReturns:  c.returns(series, values),
		models.CategoryRisk:     c.risk(values),
		models.CategoryRatios:   c.ratios(series, values, dd),
		models.CategoryDrawdown: c.drawdown(values, dd, episodes),
		models.CategoryTiming:   c.timing(series, values),
	}

	c.logger.Debug().
		Str("symbol", series.Symbol).
		Int("returns", series.Len()).
		Int("drawdowns", len(episodes)).
		Msg("Metrics computed")

	return data, nil
}

// Sharpe returns the annualized Sharpe ratio of series.
func (c *Calculator) Sharpe(series models.ReturnSeries) float64 {
	return c.sharpe(series.Values())
}

func (c *Calculator) periodicRiskFree() float64 {
	return c.opts.RiskFreeRate / float64(c.opts.PeriodsPerYear)
}

func (c *Calculator) annualize() float64 {
	return math.Sqrt(float64(c.opts.PeriodsPerYear))
}

func (c *Calculator) sharpe(values []float64) float64 {
	return safeDiv(mean(values)-c.periodicRiskFree(), stddev(values)) * c.annualize()
}

func (c *Calculator) sortino(values []float64) float64 {
	return safeDiv(mean(values)-c.periodicRiskFree(), downsideDeviation(values)) * c.annualize()
}

func (c *Calculator) general(series models.ReturnSeries, values []float64) models.MetricSet {
	active := 0
	for _, v := range values {
		if v != 0 {
			active++
		}
	}

	var set models.MetricSet
	set.Set("start_period", series.First().Date.Format(dateLayout))
	set.Set("end_period", series.Last().Date.Format(dateLayout))
	set.Set("trading_days", series.Len())
	set.Set("time_in_market", safeDiv(float64(active), float64(len(values))))
	set.Set("risk_free_rate", c.opts.RiskFreeRate)
	return set
}

// cagr uses calendar years between the first and last return dates.
func cagr(series models.ReturnSeries, total float64) float64 {
	years := series.Last().Date.Sub(series.First().Date).Hours() / 24 / 365
	if years <= 0 {
		return 0
	}
	if 1+total <= 0 {
		return -1
	}
	return finite(math.Pow(1+total, 1/years) - 1)
}

func (c *Calculator) returns(series models.ReturnSeries, values []float64) models.MetricSet {
	last := series.Last().Date
	since := func(t time.Time) float64 {
		return compound(series.Since(t).Values())
	}
	total := compound(values)
	months := monthlyReturns(series)

	var set models.MetricSet
	set.Set("cumulative_return", total)
	set.Set("cagr", cagr(series, total))
	set.Set("mtd", since(time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, last.Location())))
	set.Set("3m", since(last.AddDate(0, -3, 0)))
	set.Set("6m", since(last.AddDate(0, -6, 0)))
	set.Set("ytd", since(time.Date(last.Year(), 1, 1, 0, 0, 0, 0, last.Location())))
	set.Set("1y", since(last.AddDate(-1, 0, 0)))
	set.Set("best_day", maxOf(values))
	set.Set("worst_day", minOf(values))
	set.Set("avg_daily_return", mean(values))
	set.Set("best_month", maxOf(months))
	set.Set("worst_month", minOf(months))
	return set
}

func (c *Calculator) risk(values []float64) models.MetricSet {
	mu := mean(values)
	sigma := stddev(values)

	skew, kurtosis := 0.0, 0.0
	if sigma > 0 {
		if len(values) > 2 {
			skew = finite(stat.Skew(values, nil))
		}
		if len(values) > 3 {
			kurtosis = finite(stat.ExKurtosis(values, nil))
		}
	}

	valueAtRisk := mu
	if sigma > 0 {
		valueAtRisk = distuv.Normal{Mu: mu, Sigma: sigma}.Quantile(1 - c.opts.VaRConfidence)
	}

	var tail []float64
	for _, v := range values {
		if v <= valueAtRisk {
			tail = append(tail, v)
		}
	}
	expectedShortfall := valueAtRisk
	if len(tail) > 0 {
		expectedShortfall = mean(tail)
	}

	var set models.MetricSet
	set.Set("volatility", sigma*c.annualize())
	set.Set("skew", skew)
	set.Set("kurtosis", kurtosis)
	set.Set("value_at_risk", valueAtRisk)
	set.Set("expected_shortfall", expectedShortfall)
	set.Set("downside_deviation", downsideDeviation(values)*c.annualize())
	return set
}

func (c *Calculator) ratios(series models.ReturnSeries, values []float64, dd []float64) models.MetricSet {
	threshold := c.periodicRiskFree()
	gains, pains := 0.0, 0.0
	for _, v := range values {
		if v > threshold {
			gains += v - threshold
		} else if v < threshold {
			pains += threshold - v
		}
	}
	_, losses := split(values)

	var set models.MetricSet
	set.Set("sharpe", c.sharpe(values))
	set.Set("sortino", c.sortino(values))
	set.Set("calmar", safeDiv(cagr(series, compound(values)), math.Abs(minOf(dd))))
	set.Set("omega", safeDiv(gains, pains))
	set.Set("gain_to_pain_ratio", safeDiv(sum(values), math.Abs(sum(losses))))
	set.Set("tail_ratio", safeDiv(math.Abs(quantile(values, 0.95)), math.Abs(quantile(values, 0.05))))
	return set
}

func (c *Calculator) drawdown(values []float64, dd []float64, episodes []episode) models.MetricSet {
	maxDD := minOf(dd)

	longest := 0
	depths := make([]float64, 0, len(episodes))
	durations := make([]float64, 0, len(episodes))
	for _, e := range episodes {
		if e.Days > longest {
			longest = e.Days
		}
		depths = append(depths, e.Depth)
		durations = append(durations, float64(e.Days))
	}

	squares := 0.0
	for _, d := range dd {
		squares += d * d
	}
	denominator := float64(len(dd) - 1)
	if denominator < 1 {
		denominator = 1
	}

	var set models.MetricSet
	set.Set("max_drawdown", maxDD)
	set.Set("longest_drawdown_days", longest)
	set.Set("avg_drawdown", mean(depths))
	set.Set("avg_drawdown_days", int(math.Round(mean(durations))))
	set.Set("recovery_factor", safeDiv(compound(values), math.Abs(maxDD)))
	set.Set("ulcer_index", math.Sqrt(squares/denominator))
	return set
}

func (c *Calculator) timing(series models.ReturnSeries, values []float64) models.MetricSet {
	wins, losses := split(values)
	winRate := safeDiv(float64(len(wins)), float64(len(wins)+len(losses)))
	avgWin := mean(wins)
	avgLoss := mean(losses)
	payoff := safeDiv(avgWin, math.Abs(avgLoss))

	kelly := 0.0
	if payoff != 0 {
		kelly = winRate - (1-winRate)/payoff
	}

	months := monthlyReturns(series)
	monthWins, monthLosses := split(months)

	var set models.MetricSet
	set.Set("win_days", winRate)
	set.Set("win_months", safeDiv(float64(len(monthWins)), float64(len(monthWins)+len(monthLosses))))
	set.Set("avg_win", avgWin)
	set.Set("avg_loss", avgLoss)
	set.Set("payoff_ratio", payoff)
	set.Set("profit_factor", safeDiv(sum(wins), math.Abs(sum(losses))))
	set.Set("max_consecutive_wins", maxRun(values, func(v float64) bool { return v > 0 }))
	set.Set("max_consecutive_losses", maxRun(values, func(v float64) bool { return v < 0 }))
	set.Set("kelly_criterion", kelly)
	return set
}

// monthlyReturns compounds returns per calendar month, oldest first.
func monthlyReturns(series models.ReturnSeries) []float64 {
	var months []float64
	var bucket []float64
	var year int
	var month time.Month
	for i, r := range series.Returns {
		if i > 0 && (r.Date.Year() != year || r.Date.Month() != month) {
			months = append(months, compound(bucket))
			bucket = bucket[:0]
		}
		year, month = r.Date.Year(), r.Date.Month()
		bucket = append(bucket, r.Value)
	}
	if len(bucket) > 0 {
		months = append(months, compound(bucket))
	}
	return months
}

// episode is one underwater period.
type episode struct {
	Start     time.Time
	End       time.Time // recovery date, or the last date when still underwater
	Depth     float64   // most negative drawdown in the episode
	Days      int
	Recovered bool
}

// drawdownEpisodes splits the drawdown series into underwater periods.
// Duration is calendar days from the first underwater date to the end,
// with a minimum of one day.
func drawdownEpisodes(dates []time.Time, dd []float64) []episode {
	var episodes []episode
	var current *episode

	closeEpisode := func(end time.Time, recovered bool) {
		current.End = end
		current.Recovered = recovered
		current.Days = int(end.Sub(current.Start).Hours() / 24)
		if current.Days < 1 {
			current.Days = 1
		}
		episodes = append(episodes, *current)
		current = nil
	}

	for i, d := range dd {
		switch {
		case d < 0 && current == nil:
			current = &episode{Start: dates[i], Depth: d}
		case d < 0:
			current.Depth = math.Min(current.Depth, d)
		case current != nil:
			closeEpisode(dates[i], true)
		}
	}
	if current != nil {
		closeEpisode(dates[len(dates)-1], false)
	}
	return episodes
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}
