// Package status defines the error taxonomy shared by every model operation
// and its mapping onto numeric status codes.
//
// Every operation returns a plain Go error. Callers that need the numeric
// code use Code or CodeOf:
//
//	v, err := model.GOF(y, m, likelihood.AIC)
//	if rc := status.CodeOf(v, err); rc < 0 {
//	    // failure
//	}
package status

import (
	"errors"
	"math"
)

// Numeric status codes.
const (
	Success         = 0
	NaNResult       = 100
	Failed          = -1
	InvalidArg      = -300
	LengthError     = -301
	InvalidValue    = -302
	EmptySeries     = -303
	ZeroVariance    = -304
	CalibrationErr  = -305
	InvalidModel    = -306
	InsufficientObs = -307
	NotSupported    = -400
)

var (
	// ErrInvalidArgument reports malformed sizes, nil inputs or orders that
	// disagree with coefficient array lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLength reports a buffer that is too short for the request, such as
	// an exogenous factor matrix with fewer rows than response plus horizon.
	ErrLength = errors.New("insufficient buffer length")

	// ErrInvalidValue reports an out-of-domain scalar argument.
	ErrInvalidValue = errors.New("invalid value")

	// ErrEmptySeries reports a series without any non-missing observation.
	ErrEmptySeries = errors.New("empty time series")

	// ErrNumerical reports division by zero, an indeterminate result or a
	// non-positive conditional variance.
	ErrNumerical = errors.New("numerical failure")

	// ErrCalibration reports optimizer non-convergence or a Hessian that is
	// not positive definite.
	ErrCalibration = errors.New("calibration failed")

	// ErrInvalidModel reports parameters that fail the stability checks.
	ErrInvalidModel = errors.New("unstable model")

	// ErrInsufficientObs reports fewer usable observations than the lag
	// structure of the model requires.
	ErrInsufficientObs = errors.New("insufficient observations")

	// ErrNotSupported reports an output selector that the model family does
	// not implement.
	ErrNotSupported = errors.New("operation not supported")
)

var codes = []struct {
	err  error
	code int
}{
	{ErrInvalidArgument, InvalidArg},
	{ErrLength, LengthError},
	{ErrInvalidValue, InvalidValue},
	{ErrEmptySeries, EmptySeries},
	{ErrNumerical, ZeroVariance},
	{ErrCalibration, CalibrationErr},
	{ErrInvalidModel, InvalidModel},
	{ErrInsufficientObs, InsufficientObs},
	{ErrNotSupported, NotSupported},
}

// Code maps an error returned by this module to its numeric status code.
// A nil error maps to Success and an unknown error to Failed.
func Code(err error) int {
	if err == nil {
		return Success
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return Failed
}

// CodeOf is Code for scalar-returning operations: a successful call whose
// value is NaN or infinite maps to NaNResult.
func CodeOf(v float64, err error) int {
	if err != nil {
		return Code(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NaNResult
	}
	return Success
}
