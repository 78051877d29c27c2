// Package model implements the model lifecycle shared by every family:
// validate, score, estimate, extract fitted values, forecast and simulate.
//
// Mean families (ARMA, ARIMA, SARIMA, SARIMA-X, FARIMA, AirLine) are
// described by a MeanModel; variance families (GARCH, EGARCH, GARCH-M) by a
// VarianceModel. Every operation is a generic function over both, so each
// family gets the same behaviour.
//
// # Basic Usage
//
//	m := model.NewAirline(0, 1, 12, -0.4, -0.6)
//	if err := model.Validate(m); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Maximum likelihood estimation
//	cal, err := model.Calibrate(y, m, model.WithMaxIter(200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Forecast 12 steps with 95% bounds
//	res, _ := model.Forecast(y, cal.Model, 12, 0.05)
//	fmt.Println(res.Mean, res.Lower, res.Upper)
//
// # Missing Values
//
// Leading and trailing missing values (timeseries.Missing) are skipped;
// outputs keep the length of the input and hold Missing at those indices.
// A missing value inside the observed range is an error.
//
// # Errors
//
// Failures wrap the sentinels of the status package, and status.Code maps
// them to numeric codes:
//
//	v, err := model.GOF(y, m, likelihood.AIC)
//	rc := status.CodeOf(v, err)
package model
