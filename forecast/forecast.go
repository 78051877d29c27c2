// Package forecast turns out-of-sample moments of a process into point
// forecasts with confidence bounds.
package forecast

import (
	"fmt"
	"math"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/status"
)

// Selector picks one forecast output.
type Selector int

// Forecast outputs.
const (
	Mean          Selector = 1
	StdError      Selector = 2
	TermStructure Selector = 3
	Lower         Selector = 4
	Upper         Selector = 5
)

func (s Selector) String() string {
	switch s {
	case Mean:
		return "mean"
	case StdError:
		return "stderr"
	case TermStructure:
		return "term-structure"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	}
	return fmt.Sprintf("Selector(%d)", int(s))
}

// Result holds forecasts for horizons 1..Steps(). Index i of each slice is
// horizon i+1.
type Result struct {
	Alpha float64

	Mean          []float64
	StdErr        []float64
	TermStructure []float64
	Lower         []float64
	Upper         []float64

	// LastFitted and LastSigma describe the final in-sample observation and
	// answer horizon 0.
	LastFitted float64
	LastSigma  float64
}

// New builds a Result from a projection. Bounds are mean -/+ q*stderr with q
// the 1-alpha/2 quantile of dist.
func New(p *kernel.Projection, f *kernel.Filtered, dist innovation.Distribution, alpha float64) (*Result, error) {
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("alpha %g outside (0, 1): %w", alpha, status.ErrInvalidValue)
	}
	steps := len(p.Mean)
	r := &Result{
		Alpha:         alpha,
		Mean:          make([]float64, steps),
		StdErr:        make([]float64, steps),
		TermStructure: make([]float64, steps),
		Lower:         make([]float64, steps),
		Upper:         make([]float64, steps),
	}
	if n := f.Len(); n > 0 {
		r.LastFitted = f.Fitted[n-1]
		r.LastSigma = f.Sigma[n-1]
	}

	q := dist.Quantile(1 - alpha/2)
	cum := 0.0
	for h := 0; h < steps; h++ {
		se := math.Sqrt(p.Variance[h])
		cum += p.CondVar[h]

		r.Mean[h] = p.Mean[h]
		r.StdErr[h] = se
		r.TermStructure[h] = math.Sqrt(cum / float64(h+1))
		r.Lower[h] = p.Mean[h] - q*se
		r.Upper[h] = p.Mean[h] + q*se
	}
	return r, nil
}

// Steps is the number of forecast horizons.
func (r *Result) Steps() int { return len(r.Mean) }

// At returns output sel at horizon h. Horizon 0 is the last in-sample
// observation: its fitted mean with a zero standard error.
func (r *Result) At(h int, sel Selector) (float64, error) {
	if h < 0 || h > r.Steps() {
		return math.NaN(), fmt.Errorf("horizon %d outside [0, %d]: %w", h, r.Steps(), status.ErrInvalidArgument)
	}
	if h == 0 {
		switch sel {
		case Mean, Lower, Upper:
			return r.LastFitted, nil
		case StdError:
			return 0, nil
		case TermStructure:
			return r.LastSigma, nil
		}
		return math.NaN(), fmt.Errorf("selector %d: %w", int(sel), status.ErrInvalidArgument)
	}

	i := h - 1
	switch sel {
	case Mean:
		return r.Mean[i], nil
	case StdError:
		return r.StdErr[i], nil
	case TermStructure:
		return r.TermStructure[i], nil
	case Lower:
		return r.Lower[i], nil
	case Upper:
		return r.Upper[i], nil
	}
	return math.NaN(), fmt.Errorf("selector %d: %w", int(sel), status.ErrInvalidArgument)
}

// Series returns output sel for every horizon 1..Steps().
func (r *Result) Series(sel Selector) ([]float64, error) {
	out := make([]float64, r.Steps())
	for h := 1; h <= r.Steps(); h++ {
		v, err := r.At(h, sel)
		if err != nil {
			return nil, err
		}
		out[h-1] = v
	}
	return out, nil
}
