package stats

import "math"

func nan() float64 { return math.NaN() }

// InformationCriteria holds the penalized likelihood criteria of a fit.
type InformationCriteria struct {
	LogLik float64
	AIC    float64
	AICc   float64
	BIC    float64
	HQC    float64
}

// CalculateIC calculates all information criteria.
// logLik is the log-likelihood, nObs is the number of observations,
// nParams is the number of estimated parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k

	hqc := math.NaN()
	if n > math.E {
		hqc = -2*logLik + 2*k*math.Log(math.Log(n))
	}

	return &InformationCriteria{
		LogLik: logLik,
		AIC:    aic,
		AICc:   AICc(aic, nObs, nParams),
		BIC:    -2*logLik + k*math.Log(n),
		HQC:    hqc,
	}
}

// AICc calculates the corrected Akaike Information Criterion,
// AIC + 2k(k+1)/(n-k-1). It is +Inf when n <= k+1.
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}
