package timeseries

import (
	"fmt"

	"github.com/sartorproj/gotsmodel/status"
)

// Difference applies the operator (1 - B^lag) order times. The result has
// len(values) - order*lag elements, or none when the input is too short.
func Difference(values []float64, lag, order int) []float64 {
	if lag <= 0 || order <= 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	if len(values) <= order*lag {
		return []float64{}
	}

	cur := values
	for k := 0; k < order; k++ {
		next := make([]float64, len(cur)-lag)
		for i := lag; i < len(cur); i++ {
			next[i-lag] = cur[i] - cur[i-lag]
		}
		cur = next
	}
	return cur
}

// Integrate inverts Difference. seed holds the first order*lag values of the
// undifferenced series; the result is seed followed by the reconstructed
// values, len(seed)+len(diffs) elements in total.
func Integrate(diffs, seed []float64, lag, order int) ([]float64, error) {
	if lag <= 0 || order <= 0 {
		out := make([]float64, len(diffs))
		copy(out, diffs)
		return out, nil
	}
	if len(seed) != order*lag {
		return nil, fmt.Errorf("integrate: need %d seed values, got %d: %w", order*lag, len(seed), status.ErrLength)
	}

	cur := diffs
	for k := order - 1; k >= 0; k-- {
		// The first lag values of the k-times differenced series come from the seed.
		init := Difference(seed, lag, k)[:lag]
		level := make([]float64, lag+len(cur))
		copy(level, init)
		for j, v := range cur {
			level[j+lag] = v + level[j]
		}
		cur = level
	}
	return cur, nil
}

// FracWeights returns the first n coefficients of the binomial expansion of
// (1 - B)^d, starting with the lag-0 coefficient 1.
func FracWeights(d float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	w[0] = 1
	for k := 1; k < n; k++ {
		w[k] = w[k-1] * (float64(k-1) - d) / float64(k)
	}
	return w
}

// FracDiff applies the truncated fractional difference (1 - B)^d to
// values - mean, treating pre-sample deviations as zero.
func FracDiff(values []float64, d, mean float64) []float64 {
	w := FracWeights(d, len(values))
	out := make([]float64, len(values))
	for t := range values {
		sum := 0.0
		for k := 0; k <= t; k++ {
			sum += w[k] * (values[t-k] - mean)
		}
		out[t] = sum
	}
	return out
}

// FracIntegrate inverts FracDiff, returning the level series.
func FracIntegrate(diffs []float64, d, mean float64) []float64 {
	w := FracWeights(d, len(diffs))
	dev := make([]float64, len(diffs))
	out := make([]float64, len(diffs))
	for t := range diffs {
		sum := diffs[t]
		for k := 1; k <= t; k++ {
			sum -= w[k] * dev[t-k]
		}
		dev[t] = sum
		out[t] = sum + mean
	}
	return out
}
