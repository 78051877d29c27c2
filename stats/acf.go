package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ACF calculates the sample autocorrelation function of values for lags 0
// to maxLag. It returns nil when values is constant or too short.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// PACF calculates the partial autocorrelation function using the
// Durbin-Levinson recursion. Index 0 holds 1.
func PACF(values []float64, maxLag int) []float64 {
	if maxLag >= len(values) {
		maxLag = len(values) - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	pacf, _ := levinson(acf, maxLag)
	return pacf
}

// YuleWalker solves the Yule-Walker equations of an AR(p) model from the
// autocorrelations acf[0..p]. It returns the AR coefficients and the ratio
// of innovation variance to process variance.
func YuleWalker(acf []float64, p int) ([]float64, float64) {
	if p <= 0 || len(acf) <= p {
		return nil, 1
	}
	_, phi := levinson(acf, p)
	ratio := 1.0
	for j := 1; j <= p; j++ {
		ratio -= phi[j] * acf[j]
	}
	return phi[1:], ratio
}

// levinson runs the Durbin-Levinson recursion up to order p and returns the
// partial autocorrelations and the order-p coefficients, both indexed from 1.
func levinson(acf []float64, p int) (pacf, phi []float64) {
	pacf = make([]float64, p+1)
	pacf[0] = 1.0

	phi = make([]float64, p+1)
	prev := make([]float64, p+1)

	phi[1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= p; k++ {
		copy(prev, phi)

		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= prev[j] * acf[k-j]
			den -= prev[j] * acf[j]
		}

		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k] = num / den
		pacf[k] = phi[k]

		for j := 1; j < k; j++ {
			phi[j] = prev[j] - phi[k]*prev[k-j]
		}
	}

	return pacf, phi
}

// ACFResult represents the result of ACF analysis.
type ACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // 95% bounds, 1.96/sqrt(n)
}

// ACFWithConfidence calculates the ACF with its white-noise confidence bound.
func ACFWithConfidence(values []float64, maxLag int) *ACFResult {
	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	lags := make([]int, len(acf))
	for i := range lags {
		lags[i] = i
	}

	return &ACFResult{
		Lags:       lags,
		Values:     acf,
		ConfBounds: 1.96 / math.Sqrt(float64(len(values))),
	}
}

// SignificantLags returns the lags where ACF/PACF values exceed confidence bounds.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}
