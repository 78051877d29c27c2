package kernel

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/status"
)

// Process couples a mean recursion with a variance recursion. A nil Var
// means a constant innovation scale Sigma. Lambda feeds the conditional
// standard deviation back into the mean.
type Process struct {
	Mean   *Mean
	Var    *Variance
	Sigma  float64
	Lambda float64
	Dist   innovation.Distribution
}

// Filtered is the in-sample output of a Process run. Entries before Start
// are NaN in the exported slices.
type Filtered struct {
	Start  int
	Fitted []float64
	Resid  []float64
	Sigma  []float64
	Std    []float64
	LLF    float64

	x   []float64
	e   []float64
	s2  []float64
	v0  float64
	end int
}

// Len is the number of observations filtered.
func (f *Filtered) Len() int { return f.end }

// Obs is the number of observations that entered the likelihood.
func (f *Filtered) Obs() int {
	if f.end <= f.Start {
		return 0
	}
	return f.end - f.Start
}

// Filter runs the process over y and accumulates the log-likelihood
// sum(ln f(z_t) - ln sigma_t) from Start onwards.
func (p *Process) Filter(y []float64) (*Filtered, error) {
	if len(y) <= p.Mean.Start {
		return nil, fmt.Errorf("%d observations for %d lags: %w", len(y), p.Mean.Start, status.ErrInsufficientObs)
	}
	return p.run(y)
}

func (p *Process) run(y []float64) (*Filtered, error) {
	n := len(y)
	start := p.Mean.Start
	f := &Filtered{
		Start:  start,
		Fitted: make([]float64, n),
		Resid:  make([]float64, n),
		Sigma:  make([]float64, n),
		Std:    make([]float64, n),
		x:      make([]float64, n),
		e:      make([]float64, n),
		s2:     make([]float64, n),
		end:    n,
	}
	for t, v := range y {
		f.x[t] = v - p.Mean.Level(t)
	}
	f.v0 = p.initialVariance(f.x)

	for t := 0; t < n; t++ {
		s2, err := p.variance(f.e, f.s2, t, f.v0)
		if err != nil {
			return nil, fmt.Errorf("t=%d: %w", t, err)
		}
		f.s2[t] = s2
		s := math.Sqrt(s2)
		f.Sigma[t] = s

		if t < start {
			f.Fitted[t], f.Resid[t], f.Std[t] = math.NaN(), math.NaN(), math.NaN()
			continue
		}

		e := f.x[t] - p.Mean.Predict(f.x, f.e, t) - p.Lambda*s
		f.e[t] = e
		f.Fitted[t] = y[t] - e
		f.Resid[t] = e
		z := e / s
		f.Std[t] = z
		f.LLF += p.Dist.LogPDF(z) - math.Log(s)
	}
	if math.IsNaN(f.LLF) {
		return nil, fmt.Errorf("log-likelihood is NaN: %w", status.ErrNumerical)
	}
	return f, nil
}

func (p *Process) variance(e, s2 []float64, t int, v0 float64) (float64, error) {
	if p.Var == nil {
		return p.Sigma * p.Sigma, nil
	}
	v := p.Var.Next(e, s2, t, v0)
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("conditional variance %g: %w", v, status.ErrNumerical)
	}
	return v, nil
}

// initialVariance seeds pre-sample variance terms with the long-run
// variance, or the sample variance of x when the recursion has none.
func (p *Process) initialVariance(x []float64) float64 {
	if p.Var == nil {
		return p.Sigma * p.Sigma
	}
	if lr := p.Var.LongRun(); lr > 0 && !math.IsInf(lr, 0) {
		return lr
	}
	if len(x) > 1 {
		if v := stat.Variance(x, nil); v > 0 {
			return v
		}
	}
	return 1
}

// Projection holds out-of-sample moments for horizons 1..steps.
type Projection struct {
	Mean []float64
	// Variance is the forecast error variance.
	Variance []float64
	// CondVar is the expected conditional variance E[sigma2].
	CondVar []float64
}

// Forecast propagates the process beyond the filtered sample. The error
// variance at horizon h is sum_{j<h} psi_j^2 E[sigma2_{n+h-j}].
func (p *Process) Forecast(f *Filtered, steps int) *Projection {
	n := f.end
	cond := make([]float64, steps)
	if p.Var == nil {
		for h := range cond {
			cond[h] = p.Sigma * p.Sigma
		}
	} else {
		cond = p.Var.Expect(f.e, f.s2, n, steps, f.v0)
	}

	x := make([]float64, n+steps)
	e := make([]float64, n+steps)
	copy(x, f.x)
	copy(e, f.e)

	out := &Projection{
		Mean:     make([]float64, steps),
		Variance: make([]float64, steps),
		CondVar:  cond,
	}
	for h := 0; h < steps; h++ {
		t := n + h
		x[t] = p.Mean.Predict(x, e, t) + p.Lambda*math.Sqrt(cond[h])
		out.Mean[h] = x[t] + p.Mean.Level(t)
	}

	psi := p.Mean.Psi(steps)
	for h := 0; h < steps; h++ {
		v := 0.0
		for j := 0; j <= h; j++ {
			v += psi[j] * psi[j] * cond[h-j]
		}
		out.Variance[h] = v
	}
	return out
}

// Simulate filters history and then draws steps innovations from src,
// propagating both recursions. History may be shorter than Start; missing
// lags count as zero.
func (p *Process) Simulate(history []float64, steps int, src rand.Source) ([]float64, error) {
	f, err := p.run(history)
	if err != nil {
		return nil, err
	}
	n := f.end

	x := make([]float64, n+steps)
	e := make([]float64, n+steps)
	s2 := make([]float64, n+steps)
	copy(x, f.x)
	copy(e, f.e)
	copy(s2, f.s2)

	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := n + h
		v, err := p.variance(e, s2, t, f.v0)
		if err != nil {
			return nil, fmt.Errorf("simulation step %d: %w", h, err)
		}
		s2[t] = v
		s := math.Sqrt(v)
		e[t] = s * p.Dist.Rand(src)
		x[t] = p.Mean.Predict(x, e, t) + p.Lambda*s + e[t]
		out[h] = x[t] + p.Mean.Level(t)
	}
	return out, nil
}
