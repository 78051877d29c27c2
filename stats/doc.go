// Package stats provides the statistics behind model seeding and residual
// diagnostics.
//
// # Autocorrelation
//
//	acf := stats.ACF(values, 20)
//	pacf := stats.PACF(values, 20)
//
//	res := stats.ACFWithConfidence(values, 20)
//	significant := stats.SignificantLags(res.Values, res.ConfBounds)
//
// YuleWalker turns autocorrelations into AR coefficients and is used to
// build initial parameter guesses.
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // no evidence of remaining autocorrelation
//	}
//	dw := stats.DurbinWatson(residuals)
//
// # Information Criteria
//
//	ic := stats.CalculateIC(logLik, nObs, nParams)
//	// ic.AIC, ic.AICc, ic.BIC, ic.HQC
package stats
