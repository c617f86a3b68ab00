package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// finite maps NaN and ±Inf to zero
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// safeDiv returns 0 when the denominator is zero
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finite(a / b)
}

// compound returns prod(1+r)-1
func compound(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	growth := make([]float64, len(values))
	copy(growth, values)
	floats.AddConst(1, growth)
	return floats.Prod(growth) - 1
}

// equityCurve returns cumulative growth of 1 unit, one point per return
func equityCurve(values []float64) []float64 {
	growth := make([]float64, len(values))
	copy(growth, values)
	floats.AddConst(1, growth)
	return floats.CumProd(make([]float64, len(values)), growth)
}

// drawdowns returns equity/peak-1 per point; the peak starts at 1
func drawdowns(values []float64) []float64 {
	equity := equityCurve(values)
	dd := make([]float64, len(equity))
	peak := 1.0
	for i, e := range equity {
		peak = math.Max(peak, e)
		dd[i] = e/peak - 1
	}
	return dd
}

// mean calculates the average of all values
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// stddev calculates the sample standard deviation
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return finite(stat.StdDev(values, nil))
}

// downsideDeviation is sqrt(sum(min(r,0)^2)/n)
func downsideDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		if v < 0 {
			sumSquares += v * v
		}
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// quantile returns the empirical p-quantile
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// split partitions values into strictly positive and strictly negative
func split(values []float64) (wins, losses []float64) {
	for _, v := range values {
		switch {
		case v > 0:
			wins = append(wins, v)
		case v < 0:
			losses = append(losses, v)
		}
	}
	return wins, losses
}

// maxRun returns the longest run of consecutive values matching pred
func maxRun(values []float64, pred func(float64) bool) int {
	best, current := 0, 0
	for _, v := range values {
		if pred(v) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return best
}

// sum returns the sum of values, 0 for an empty slice
func sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}
