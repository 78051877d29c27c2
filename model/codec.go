package model

import (
	"math"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/polynomial"
)

// maxPartial keeps encoded partial autocorrelations away from the unit
// circle where atanh diverges.
const maxPartial = 0.999

// reader walks a packed parameter vector.
type reader struct {
	v []float64
	i int
}

func (r *reader) next() float64 {
	x := r.v[r.i]
	r.i++
	return x
}

func (r *reader) fill(dst []float64) {
	for j := range dst {
		dst[j] = r.next()
	}
}

// bounded reads n unconstrained values and maps them into (-1, 1).
func (r *reader) bounded(n int) []float64 {
	out := make([]float64, n)
	for j := range out {
		out[j] = math.Tanh(r.next())
	}
	return out
}

func unbound(r float64) float64 {
	return math.Atanh(math.Max(-maxPartial, math.Min(maxPartial, r)))
}

func negate(c []float64) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = -v
	}
	return out
}

func encodeShape(k innovation.Kind, nu float64) float64 {
	if k == innovation.StudentT {
		return math.Log(nu - 2)
	}
	return math.Log(nu)
}

func decodeShape(k innovation.Kind, x float64) float64 {
	if k == innovation.StudentT {
		return 2 + math.Exp(x)
	}
	return math.Exp(x)
}

// minWeight is the floor applied to zero weights before taking logarithms.
const minWeight = 1e-6

// boundaryWeight marks a variance weight so close to zero that its
// log-ratio coordinate sits on a flat stretch of the likelihood.
const boundaryWeight = 1e-3

// onBoundary reports whether a coefficient of m encodes to a point where
// the likelihood gradient vanishes: a partial autocorrelation at the clamp
// or a fractional order next to +-0.5.
func (m *MeanModel) onBoundary() bool {
	sphi, stheta := m.seasonalTerms()
	for _, c := range [][]float64{m.Phi, negate(m.Theta), sphi, negate(stheta)} {
		r, err := polynomial.ToPartials(c)
		if err != nil {
			return true
		}
		for _, v := range r {
			if math.Abs(v) >= maxPartial {
				return true
			}
		}
	}
	return m.Family == FARIMA && 2*math.Abs(m.FracD) >= maxPartial
}

// onBoundary reports whether an ARCH or GARCH weight is at or near zero.
func (m *VarianceModel) onBoundary() bool {
	for _, w := range [][]float64{m.Alpha, m.Beta} {
		for _, v := range w {
			if v < boundaryWeight {
				return true
			}
		}
	}
	return false
}

// toSimplex maps non-negative weights with sum below one to log-ratios
// against the remaining slack.
func toSimplex(c []float64) []float64 {
	sum := 0.0
	for _, v := range c {
		sum += math.Max(v, minWeight)
	}
	slack := math.Max(1-sum, minWeight)
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = math.Log(math.Max(v, minWeight) / slack)
	}
	return out
}

// fromSimplex inverts toSimplex: every weight is positive and the total
// stays below one.
func fromSimplex(x []float64) []float64 {
	den := 1.0
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v)
		den += out[i]
	}
	for i := range out {
		out[i] /= den
	}
	return out
}
