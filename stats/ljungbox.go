package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// PortmanteauResult holds a Ljung-Box or Box-Pierce statistic.
type PortmanteauResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of estimated ARMA coefficients.
func LjungBox(residuals []float64, lags, fitdf int) *PortmanteauResult {
	return portmanteau(residuals, lags, fitdf, func(r float64, n, k int) float64 {
		return float64(n*(n+2)) * r * r / float64(n-k)
	})
}

// BoxPierce performs the Box-Pierce test, the unweighted variant of LjungBox.
func BoxPierce(residuals []float64, lags, fitdf int) *PortmanteauResult {
	return portmanteau(residuals, lags, fitdf, func(r float64, n, _ int) float64 {
		return float64(n) * r * r
	})
}

func portmanteau(residuals []float64, lags, fitdf int, term func(r float64, n, k int) float64) *PortmanteauResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += term(acf[k], n, k)
	}

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi := distuv.ChiSquared{K: float64(dof)}
	return &PortmanteauResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation: near 2 for none, below 2 for positive and above 2 for
// negative autocorrelation. It returns NaN for degenerate input.
func DurbinWatson(residuals []float64) float64 {
	n := len(residuals)
	if n < 2 {
		return nan()
	}

	numerator := 0.0
	denominator := 0.0
	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}
	for _, r := range residuals {
		denominator += r * r
	}

	if denominator == 0 {
		return nan()
	}
	return numerator / denominator
}
