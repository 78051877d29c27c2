// Package calibrate maximizes a likelihood over unconstrained coordinates
// and derives asymptotic standard errors at the optimum.
//
// A run moves through QuickGuess -> Optimize -> Converged | Failed. The
// quick guess is supplied by the caller; Optimize uses BFGS with a
// More-Thuente line search on central-difference gradients and restarts
// from the best point with Nelder-Mead when BFGS fails.
package calibrate

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/gotsmodel/status"
)

// DefaultMaxIter is the iteration budget used when Config.MaxIter is zero.
const DefaultMaxIter = 100

// penalty replaces objective values that cannot be evaluated.
const penalty = 1e12

// State is a calibration stage.
type State int

// Calibration stages.
const (
	QuickGuess State = iota
	Optimize
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case QuickGuess:
		return "quick-guess"
	case Optimize:
		return "optimize"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Problem is a minimization target in unconstrained coordinates.
type Problem struct {
	// Start is the quick-guess point.
	Start []float64
	// Objective is the negative log-likelihood.
	Objective func(x []float64) (float64, error)
	// Decode writes the natural parameters for x into dst. It is required
	// only by StandardErrors.
	Decode func(dst, x []float64)
	// NumNatural is the length of the natural parameter vector.
	NumNatural int
}

// Config controls a calibration run.
type Config struct {
	MaxIter int
	Logger  *zap.Logger
}

func (c Config) maxIter() int {
	if c.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return c.MaxIter
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Result is the outcome of Run.
type Result struct {
	X          []float64
	Objective  float64
	Iterations int
	Method     string
	State      State
}

// Run minimizes p.Objective from p.Start. A run that exhausts MaxIter
// without meeting a convergence test fails with status.ErrCalibration.
func Run(p Problem, cfg Config) (*Result, error) {
	log := cfg.logger()
	maxIter := cfg.maxIter()

	f0, err := p.Objective(p.Start)
	log.Debug("calibration state",
		zap.Stringer("state", QuickGuess),
		zap.Float64s("start", p.Start),
		zap.Float64("llf", -f0),
	)
	if err != nil || !finite(f0) {
		log.Debug("calibration state", zap.Stringer("state", Failed), zap.Error(err))
		if err != nil {
			return nil, fmt.Errorf("start is not feasible: %v: %w", err, status.ErrCalibration)
		}
		return nil, fmt.Errorf("start is not feasible (objective %g): %w", f0, status.ErrCalibration)
	}
	if len(p.Start) == 0 {
		return &Result{X: nil, Objective: f0, Method: "none", State: Converged}, nil
	}

	obj := func(x []float64) float64 {
		v, err := p.Objective(x)
		if err != nil || !finite(v) {
			return penalty
		}
		return v
	}
	prob := optimize.Problem{
		Func: obj,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, obj, x, &fd.Settings{Formula: fd.Central})
		},
	}

	log.Debug("calibration state", zap.Stringer("state", Optimize), zap.Int("max_iter", maxIter))

	best := &Result{X: append([]float64(nil), p.Start...), Objective: f0, Method: "bfgs", State: Optimize}
	res, err := optimize.Minimize(prob, p.Start, settings(maxIter), &optimize.BFGS{Linesearcher: &optimize.MoreThuente{}})
	if res != nil {
		best.Iterations = res.MajorIterations
		if res.F <= best.Objective {
			best.X, best.Objective = res.X, res.F
		}
	}
	ok := err == nil && res != nil && converged(res.Status)

	if !ok && (err != nil || res == nil || res.Status == optimize.Failure) {
		log.Debug("line search stalled, restarting with nelder-mead", zap.Error(err))
		nm, nmErr := optimize.Minimize(optimize.Problem{Func: obj}, best.X, settings(maxIter*10), &optimize.NelderMead{})
		if nm != nil {
			best.Iterations += nm.MajorIterations
			if nm.F <= best.Objective {
				best.X, best.Objective, best.Method = nm.X, nm.F, "nelder-mead"
			}
			ok = nmErr == nil && converged(nm.Status)
		}
	}

	if !ok {
		ok = smallGradient(obj, best.X, best.Objective)
	}
	if !ok || best.Objective >= penalty {
		best.State = Failed
		log.Debug("calibration state",
			zap.Stringer("state", Failed),
			zap.Int("iterations", best.Iterations),
			zap.Float64("llf", -best.Objective),
		)
		return best, fmt.Errorf("no convergence after %d iterations: %w", best.Iterations, status.ErrCalibration)
	}

	best.State = Converged
	log.Debug("calibration state",
		zap.Stringer("state", Converged),
		zap.String("method", best.Method),
		zap.Int("iterations", best.Iterations),
		zap.Float64("llf", -best.Objective),
	)
	return best, nil
}

func settings(maxIter int) *optimize.Settings {
	return &optimize.Settings{
		MajorIterations:   maxIter,
		GradientThreshold: 1e-6,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 20,
		},
	}
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	}
	return false
}

// smallGradient accepts a point whose gradient is negligible relative to the
// objective even though no optimizer test fired.
func smallGradient(obj func([]float64) float64, x []float64, f float64) bool {
	grad := fd.Gradient(nil, obj, x, &fd.Settings{Formula: fd.Central})
	return floats.Norm(grad, math.Inf(1)) <= 1e-4*math.Max(1, math.Abs(f))
}

// StandardErrors returns the asymptotic standard errors of the natural
// parameters at x: the inverse numerical Hessian of the objective in
// unconstrained coordinates, mapped through the Jacobian of Decode.
func StandardErrors(p Problem, x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return make([]float64, p.NumNatural), nil
	}
	obj := func(x []float64) float64 {
		v, err := p.Objective(x)
		if err != nil || !finite(v) {
			return penalty
		}
		return v
	}

	hess := mat.NewSymDense(n, nil)
	fd.Hessian(hess, obj, x, &fd.Settings{Formula: fd.Central})

	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return nil, fmt.Errorf("hessian is not positive definite: %w", status.ErrCalibration)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("invert hessian: %v: %w", err, status.ErrCalibration)
	}

	jac := mat.NewDense(p.NumNatural, n, nil)
	fd.Jacobian(jac, p.Decode, x, &fd.JacobianSettings{Formula: fd.Central})

	var cov mat.Dense
	cov.Product(jac, &inv, jac.T())

	se := make([]float64, p.NumNatural)
	for i := range se {
		v := cov.At(i, i)
		if v < 0 {
			v = 0
		}
		se[i] = math.Sqrt(v)
	}
	return se, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
