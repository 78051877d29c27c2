// Package gotsmodel provides the lifecycle of univariate time-series models:
// validation, goodness of fit, calibration, fitted values, forecasts with
// confidence bounds, and simulated sample paths.
//
// Two families of models share one engine:
//
//   - Mean models: ARMA, ARIMA, SARIMA, SARIMA-X (exogenous regressors),
//     FARIMA (fractional integration) and the Airline model.
//   - Variance models: GARCH, EGARCH and GARCH-M.
//
// Innovations are Gaussian, Student-t or generalized error distributed.
//
// # Quick Start
//
// Calibrate the airline model on a monthly series and forecast a year:
//
//	s, _ := timeseries.LoadCSV("airline.csv", timeseries.DefaultCSVOptions())
//	y := s.Log().Values
//
//	cal, err := model.Calibrate(y, model.NewAirline(0, 1, 12, -0.4, -0.6))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fc, _ := model.Forecast(y, cal.Model, 12, 0.05)
//	// fc.Mean, fc.Lower, fc.Upper
//
// Fit a GARCH(1,1) and read its long-run variance:
//
//	g := model.NewGARCH(0, 0.1, []float64{0.1}, []float64{0.8})
//	cal, _ := model.Calibrate(returns, g)
//	lr, _ := model.LongRunVariance(cal.Model)
//
// # Packages
//
//   - model: the generic lifecycle operations over both model families
//   - kernel: mean and variance recursions, projection and simulation
//   - polynomial: characteristic polynomials, roots and reparameterisation
//   - innovation: innovation distributions
//   - likelihood: log-likelihood and information criteria
//   - calibrate: BFGS calibration with a Nelder-Mead fallback
//   - forecast: forecast tables and confidence bounds
//   - simulate: seeded, concurrent path simulation
//   - timeseries: the series buffer, CSV loading and differencing operators
//   - stats: autocorrelation and residual diagnostics
//   - status: the error taxonomy and numeric status codes
//   - config: environment settings and YAML model files
//
// The tsmodel command in cmd/tsmodel drives the same operations from the
// command line.
package gotsmodel
