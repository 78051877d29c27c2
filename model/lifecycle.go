package model

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/calibrate"
	"github.com/sartorproj/gotsmodel/forecast"
	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/likelihood"
	"github.com/sartorproj/gotsmodel/simulate"
	"github.com/sartorproj/gotsmodel/status"
	"github.com/sartorproj/gotsmodel/timeseries"
)

// Validate reports whether m is a usable model. It returns nil for a valid
// model, an error wrapping status.ErrInvalidModel for one that fails the
// stability or domain checks, and another error for malformed input.
func Validate[M Model](m M) error {
	return m.validate()
}

// sample is the observed core of a response buffer.
type sample struct {
	y      []float64
	offset int
}

func observed(y []float64) (sample, error) {
	first, last, err := timeseries.Span(y)
	if err != nil {
		return sample{}, err
	}
	return sample{y: y[first:last], offset: first}, nil
}

func filter[M Model](s sample, m M) (*kernel.Process, *kernel.Filtered, error) {
	proc, err := m.process(s.offset, len(s.y), 0)
	if err != nil {
		return nil, nil, err
	}
	f, err := proc.Filter(s.y)
	if err != nil {
		return nil, nil, err
	}
	return proc, f, nil
}

// GOF scores m against y. RSQ and ARSQ are defined for mean models only.
func GOF[M Model](y []float64, m M, metric likelihood.Metric) (float64, error) {
	if err := m.validate(); err != nil {
		return math.NaN(), err
	}
	s, err := observed(y)
	if err != nil {
		return math.NaN(), err
	}
	_, f, err := filter(s, m)
	if err != nil {
		return math.NaN(), err
	}
	fit := likelihood.Fit{
		Filtered:  f,
		Y:         s.y,
		NumParams: numParams(m),
		MeanModel: m.family().IsMean(),
	}
	return fit.Score(metric)
}

// EstimateInitial returns a quick, feasible but non-optimal estimate of m's
// parameters from y. Orders, season and innovation kind are taken from m.
func EstimateInitial[M Model](y []float64, m M, opts ...Option) (M, error) {
	var none M
	if err := m.check(); err != nil {
		return none, err
	}
	s, err := observed(y)
	if err != nil {
		return none, err
	}
	o := newOptions(opts)
	out := copyOf(m)
	if err := out.guess(s.y, s.offset, o.logger); err != nil {
		return none, err
	}
	if err := out.validate(); err != nil {
		return none, fmt.Errorf("quick guess: %w", err)
	}
	return out, nil
}

// Calibration is the outcome of Calibrate.
type Calibration[M Model] struct {
	Model      M
	LLF        float64
	Iterations int
	Converged  bool
	State      calibrate.State
	Method     string
}

// problem builds the negative log-likelihood of m over s in unconstrained
// coordinates, with the natural parameter vector as decoding target.
func problem[M Model](s sample, m M) (calibrate.Problem, error) {
	x0, err := m.encode()
	if err != nil {
		return calibrate.Problem{}, err
	}
	target := stat.Variance(s.y, nil)
	at := func(x []float64) M {
		c := copyOf(m)
		c.decode(x, target)
		return c
	}
	return calibrate.Problem{
		Start: x0,
		Objective: func(x []float64) (float64, error) {
			_, f, err := filter(s, at(x))
			if err != nil {
				return math.NaN(), err
			}
			return -f.LLF, nil
		},
		Decode: func(dst, x []float64) {
			copy(dst, at(x).pack())
		},
		NumNatural: numParams(m),
	}, nil
}

// Calibrate estimates m's parameters by maximum likelihood. The optimizer
// starts from m when it validates and from EstimateInitial otherwise. A
// valid m with a coefficient on the boundary of the unconstrained
// coordinates is also run from EstimateInitial, and the run with the
// higher likelihood is kept.
func Calibrate[M Model](y []float64, m M, opts ...Option) (*Calibration[M], error) {
	o := newOptions(opts)
	if err := m.check(); err != nil {
		return nil, err
	}
	s, err := observed(y)
	if err != nil {
		return nil, err
	}

	var starts []M
	if err := m.validate(); err != nil {
		if !errors.Is(err, status.ErrInvalidModel) {
			return nil, err
		}
		o.logger.Debug("starting from quick guess", zap.Stringer("family", m.family()), zap.Error(err))
		g, err := EstimateInitial(y, m, opts...)
		if err != nil {
			return nil, err
		}
		starts = append(starts, g)
	} else {
		starts = append(starts, m)
		if m.onBoundary() {
			o.logger.Debug("start on the boundary, adding quick guess", zap.Stringer("family", m.family()))
			if g, err := EstimateInitial(y, m, opts...); err == nil {
				starts = append(starts, g)
			} else {
				o.logger.Debug("quick guess unavailable", zap.Error(err))
			}
		}
	}

	var best *Calibration[M]
	var bestErr error
	for i, start := range starts {
		cal, err := calibrateFrom(s, start, o)
		if i == 0 || better(cal, err, best, bestErr) {
			best, bestErr = cal, err
		}
	}
	return best, bestErr
}

// better reports whether calibration a, which ended with error errA, beats
// b: a successful run beats a failed one, then the higher likelihood wins.
func better[M Model](a *Calibration[M], errA error, b *Calibration[M], errB error) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case (errA == nil) != (errB == nil):
		return errA == nil
	}
	return a.LLF > b.LLF || math.IsNaN(b.LLF)
}

func calibrateFrom[M Model](s sample, start M, o *options) (*Calibration[M], error) {
	p, err := problem(s, start)
	if err != nil {
		return nil, err
	}
	res, err := calibrate.Run(p, calibrate.Config{MaxIter: o.maxIter, Logger: o.logger})
	if res == nil {
		return nil, err
	}

	fitted := copyOf(start)
	fitted.decode(res.X, stat.Variance(s.y, nil))
	out := &Calibration[M]{
		Model:      fitted,
		LLF:        -res.Objective,
		Iterations: res.Iterations,
		Converged:  err == nil,
		State:      res.State,
		Method:     res.Method,
	}
	if err != nil {
		return out, err
	}
	if err := fitted.validate(); err != nil {
		out.Converged, out.State = false, calibrate.Failed
		return out, fmt.Errorf("calibrated point: %v: %w", err, status.ErrCalibration)
	}
	return out, nil
}

// StandardErrors returns a copy of m whose parameter fields hold the
// asymptotic standard errors of a calibrated m. The innovation kind and
// orders are unchanged.
func StandardErrors[M Model](y []float64, m M) (M, error) {
	var none M
	if err := m.validate(); err != nil {
		return none, err
	}
	s, err := observed(y)
	if err != nil {
		return none, err
	}
	p, err := problem(s, m)
	if err != nil {
		return none, err
	}
	se, err := calibrate.StandardErrors(p, p.Start)
	if err != nil {
		return none, err
	}
	out := copyOf(m)
	out.unpack(se)
	return out, nil
}

// FitSelector picks an in-sample output.
type FitSelector int

// In-sample outputs.
const (
	FitMean       FitSelector = 1
	FitResidual   FitSelector = 2
	FitStdResid   FitSelector = 3
	FitVolatility FitSelector = 4
)

func (s FitSelector) String() string {
	switch s {
	case FitMean:
		return "mean"
	case FitResidual:
		return "residual"
	case FitStdResid:
		return "std-residual"
	case FitVolatility:
		return "volatility"
	}
	return fmt.Sprintf("FitSelector(%d)", int(s))
}

// Fitted returns output sel for every index of y. Indices outside the
// observed core of y, or before the model's first usable lag, are missing.
func Fitted[M Model](y []float64, m M, sel FitSelector) ([]float64, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	s, err := observed(y)
	if err != nil {
		return nil, err
	}
	_, f, err := filter(s, m)
	if err != nil {
		return nil, err
	}

	var src []float64
	switch sel {
	case FitMean:
		src = f.Fitted
	case FitResidual:
		src = f.Resid
	case FitStdResid:
		src = f.Std
	case FitVolatility:
		src = f.Sigma
	default:
		return nil, fmt.Errorf("fit selector %d: %w", int(sel), status.ErrInvalidArgument)
	}

	out := make([]float64, len(y))
	for i := range out {
		out[i] = timeseries.Missing
	}
	copy(out[s.offset:], src)
	return out, nil
}

// FittedInPlace overwrites y with Fitted(y, m, sel). y is left untouched on
// error.
func FittedInPlace[M Model](y []float64, m M, sel FitSelector) error {
	out, err := Fitted(y, m, sel)
	if err != nil {
		return err
	}
	copy(y, out)
	return nil
}

// Forecast projects m beyond the observed core of y for horizons
// 1..steps with confidence bounds at significance alpha.
func Forecast[M Model](y []float64, m M, steps int, alpha float64) (*forecast.Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("steps %d: %w", steps, status.ErrInvalidArgument)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	s, err := observed(y)
	if err != nil {
		return nil, err
	}
	proc, err := m.process(s.offset, len(s.y), steps)
	if err != nil {
		return nil, err
	}
	f, err := proc.Filter(s.y)
	if err != nil {
		return nil, err
	}
	return forecast.New(proc.Forecast(f, steps), f, proc.Dist, alpha)
}

// ForecastAt returns output sel at horizon h. Horizon 0 is the last fitted
// in-sample value.
func ForecastAt[M Model](y []float64, m M, h int, sel forecast.Selector, alpha float64) (float64, error) {
	r, err := Forecast(y, m, h, alpha)
	if err != nil {
		return math.NaN(), err
	}
	return r.At(h, sel)
}

func simulation[M Model](m M, history []float64, steps int) (*kernel.Process, []float64, error) {
	if err := m.validate(); err != nil {
		return nil, nil, err
	}
	s := sample{}
	if len(history) > 0 {
		var err error
		if s, err = observed(history); err != nil && !errors.Is(err, status.ErrEmptySeries) {
			return nil, nil, err
		}
	}
	proc, err := m.process(s.offset, len(s.y), steps)
	if err != nil {
		return nil, nil, err
	}
	return proc, s.y, nil
}

// Simulate draws one path of steps values continuing history. The path is
// a pure function of the arguments: the same seed gives the same path.
func Simulate[M Model](m M, history []float64, steps int, seed uint64) ([]float64, error) {
	proc, h, err := simulation(m, history, steps)
	if err != nil {
		return nil, err
	}
	return simulate.Path(proc, h, steps, seed)
}

// SimulateBatch draws one path per seed concurrently; paths[i] equals
// Simulate(m, history, steps, seeds[i]).
func SimulateBatch[M Model](ctx context.Context, m M, history []float64, steps int, seeds []uint64) ([][]float64, error) {
	proc, h, err := simulation(m, history, steps)
	if err != nil {
		return nil, err
	}
	return simulate.Batch(ctx, proc, h, steps, seeds)
}

// LongRunVariance is the unconditional variance of a GARCH-family model:
// omega/(1-sum alpha-sum beta) for GARCH and GARCH-M, exp(omega/(1-sum
// beta)) for EGARCH. A non-stationary model is an error.
func LongRunVariance(m *VarianceModel) (float64, error) {
	if err := m.validate(); err != nil {
		return math.NaN(), err
	}
	return m.longRun(), nil
}
