// Package innovation provides the unit-variance innovation distributions
// that drive the model kernels.
package innovation

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gotsmodel/status"
)

// Kind tags an innovation distribution.
type Kind int

// Distribution kinds.
const (
	Gaussian Kind = 1
	StudentT Kind = 2
	GED      Kind = 3
)

func (k Kind) String() string {
	switch k {
	case Gaussian:
		return "gaussian"
	case StudentT:
		return "student-t"
	case GED:
		return "ged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names returned by Kind.String plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gaussian", "normal":
		return Gaussian, nil
	case "student-t", "studentt", "t":
		return StudentT, nil
	case "ged":
		return GED, nil
	}
	return 0, fmt.Errorf("unknown innovation distribution %q: %w", s, status.ErrInvalidArgument)
}

// Distribution is a zero-mean, unit-variance innovation law.
type Distribution interface {
	Kind() Kind
	// Shape is the degrees of freedom or GED shape, NaN for Gaussian.
	Shape() float64
	LogPDF(z float64) float64
	Quantile(p float64) float64
	// Rand draws one innovation from src.
	Rand(src rand.Source) float64
	// AbsMoment is E|z|.
	AbsMoment() float64
	// NumParams counts the free shape parameters.
	NumParams() int
}

// New returns the distribution of the given kind. nu is ignored for
// Gaussian innovations.
func New(kind Kind, nu float64) (Distribution, error) {
	if err := Validate(kind, nu); err != nil {
		return nil, err
	}
	switch kind {
	case StudentT:
		return newStudentT(nu), nil
	case GED:
		return newGED(nu), nil
	default:
		return Normal{}, nil
	}
}

// Validate checks that nu lies in the finite-variance domain of kind:
// nu > 2 for Student-t and nu > 0 for GED.
func Validate(kind Kind, nu float64) error {
	switch kind {
	case Gaussian:
		return nil
	case StudentT:
		if !(nu > 2) || math.IsInf(nu, 0) {
			return fmt.Errorf("student-t degrees of freedom %g must exceed 2: %w", nu, status.ErrInvalidModel)
		}
		return nil
	case GED:
		if !(nu > 0) || math.IsInf(nu, 0) {
			return fmt.Errorf("ged shape %g must be positive: %w", nu, status.ErrInvalidModel)
		}
		return nil
	}
	return fmt.Errorf("innovation kind %d: %w", int(kind), status.ErrInvalidArgument)
}

// Normal is the standard Gaussian.
type Normal struct{}

func (Normal) Kind() Kind                   { return Gaussian }
func (Normal) Shape() float64               { return math.NaN() }
func (Normal) LogPDF(z float64) float64     { return distuv.UnitNormal.LogProb(z) }
func (Normal) Quantile(p float64) float64   { return distuv.UnitNormal.Quantile(p) }
func (Normal) AbsMoment() float64           { return math.Sqrt(2 / math.Pi) }
func (Normal) NumParams() int               { return 0 }
func (Normal) Rand(src rand.Source) float64 { return distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand() }

// T is Student's t rescaled to unit variance.
type T struct {
	Nu float64
	t  distuv.StudentsT
}

func newStudentT(nu float64) *T {
	return &T{Nu: nu, t: distuv.StudentsT{Mu: 0, Sigma: math.Sqrt((nu - 2) / nu), Nu: nu}}
}

func (*T) Kind() Kind                   { return StudentT }
func (d *T) Shape() float64             { return d.Nu }
func (d *T) LogPDF(z float64) float64   { return d.t.LogProb(z) }
func (d *T) Quantile(p float64) float64 { return d.t.Quantile(p) }
func (*T) NumParams() int               { return 1 }

func (d *T) Rand(src rand.Source) float64 {
	t := d.t
	t.Src = src
	return t.Rand()
}

func (d *T) AbsMoment() float64 {
	nu := d.Nu
	lg1, _ := math.Lgamma((nu + 1) / 2)
	lg2, _ := math.Lgamma(nu / 2)
	return 2 * math.Sqrt(nu-2) * math.Exp(lg1-lg2) / ((nu - 1) * math.Sqrt(math.Pi))
}

// GenError is the generalized error distribution with unit variance. Shape
// 2 is Gaussian, shape 1 is Laplace.
type GenError struct {
	Nu     float64
	lambda float64
}

func newGED(nu float64) *GenError {
	lg1, _ := math.Lgamma(1 / nu)
	lg3, _ := math.Lgamma(3 / nu)
	return &GenError{Nu: nu, lambda: math.Sqrt(math.Exp(-2/nu*math.Ln2 + lg1 - lg3))}
}

func (*GenError) Kind() Kind       { return GED }
func (d *GenError) Shape() float64 { return d.Nu }
func (*GenError) NumParams() int   { return 1 }

func (d *GenError) LogPDF(z float64) float64 {
	nu := d.Nu
	lg1, _ := math.Lgamma(1 / nu)
	return math.Log(nu) - 0.5*math.Pow(math.Abs(z/d.lambda), nu) -
		math.Log(d.lambda) - (1+1/nu)*math.Ln2 - lg1
}

// Quantile uses |z/lambda|^nu / 2 ~ Gamma(1/nu, 1).
func (d *GenError) Quantile(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return math.NaN()
	case p == 0.5:
		return 0
	case p < 0.5:
		return -d.Quantile(1 - p)
	}
	w := d.gamma(nil).Quantile(2*p - 1)
	return d.lambda * math.Pow(2*w, 1/d.Nu)
}

func (d *GenError) Rand(src rand.Source) float64 {
	w := d.gamma(src).Rand()
	z := d.lambda * math.Pow(2*w, 1/d.Nu)
	if rand.New(src).Uint64()&1 == 1 {
		return -z
	}
	return z
}

func (d *GenError) AbsMoment() float64 {
	lg1, _ := math.Lgamma(1 / d.Nu)
	lg2, _ := math.Lgamma(2 / d.Nu)
	return d.lambda * math.Pow(2, 1/d.Nu) * math.Exp(lg2-lg1)
}

func (d *GenError) gamma(src rand.Source) distuv.Gamma {
	return distuv.Gamma{Alpha: 1 / d.Nu, Beta: 1, Src: src}
}

// Kurtosis returns the (non-excess) kurtosis implied by kind and nu, +Inf
// when it does not exist.
func Kurtosis(kind Kind, nu float64) float64 {
	switch kind {
	case StudentT:
		if nu <= 4 {
			return math.Inf(1)
		}
		return 3 + 6/(nu-4)
	case GED:
		lg1, _ := math.Lgamma(1 / nu)
		lg3, _ := math.Lgamma(3 / nu)
		lg5, _ := math.Lgamma(5 / nu)
		return math.Exp(lg5 + lg1 - 2*lg3)
	}
	return 3
}

// ShapeFromKurtosis inverts Kurtosis by moments. The result is clamped to a
// range where the likelihood is well behaved.
func ShapeFromKurtosis(kind Kind, kurt float64) float64 {
	switch kind {
	case StudentT:
		excess := kurt - 3
		if excess <= 0 {
			return 50
		}
		return math.Min(math.Max(4+6/excess, 4.5), 50)
	case GED:
		if math.IsNaN(kurt) || kurt <= 3 {
			return 2
		}
		// Kurtosis decreases in nu; bisect on [0.5, 2].
		lo, hi := 0.5, 2.0
		if kurt >= Kurtosis(GED, lo) {
			return lo
		}
		for i := 0; i < 60; i++ {
			mid := 0.5 * (lo + hi)
			if Kurtosis(GED, mid) > kurt {
				lo = mid
			} else {
				hi = mid
			}
		}
		return 0.5 * (lo + hi)
	}
	return math.NaN()
}
