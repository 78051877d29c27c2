// Package kernel implements the recursive filters behind every model family:
// a linear conditional-mean recursion covering ARMA, integrated, seasonal,
// exogenous and fractional variants, and the GARCH/EGARCH conditional
// variance recursion. Process couples the two.
package kernel

import (
	"github.com/sartorproj/gotsmodel/polynomial"
	"github.com/sartorproj/gotsmodel/timeseries"
)

// Spec describes a conditional-mean recursion.
//
// The process is phi(B) Phi(B^s) (1-B)^D0 (1-B^s)^D1 (x_t - mu) =
// theta(B) Theta(B^s) e_t with x_t = y_t - beta'X_t. For integrated models
// Mu is the drift of the differenced series. A non-zero FracD multiplies the
// AR side by the truncated expansion of (1-B)^FracD; Mu is then the level.
type Spec struct {
	Mu     float64
	Phi    []float64
	Theta  []float64
	SPhi   []float64
	STheta []float64
	Season int
	D      int
	SD     int
	FracD  float64
	Beta   []float64
	Exog   [][]float64
}

// Integrated reports whether s carries an integer differencing
// operator.
func (s Spec) Integrated() bool {
	return s.D > 0 || (s.SD > 0 && s.Season > 0)
}

// Mean is the expanded recursion
//
//	x_t = Const + sum_k AR[k-1] x_{t-k} + sum_j MA[j-1] e_{t-j} + e_t
//
// where x_t = y_t - Level(t).
type Mean struct {
	AR    []float64
	MA    []float64
	Const float64
	// Start is the first index at which every lag of the non-fractional
	// part of the recursion is observed.
	Start int

	level float64
	beta  []float64
	exog  [][]float64
}

// NewMean expands s. length bounds the fractional expansion and should cover
// every index the recursion will visit (observations plus horizon).
func NewMean(s Spec, length int) *Mean {
	arma := polynomial.Multiply(polynomial.AR(s.Phi, 1), polynomial.AR(s.SPhi, s.Season))

	m := &Mean{beta: s.Beta, exog: s.Exog}
	if s.Integrated() {
		for _, c := range arma {
			m.Const += c
		}
		m.Const *= s.Mu
	} else {
		m.level = s.Mu
	}

	full := polynomial.Multiply(arma, polynomial.Difference(1, s.D))
	full = polynomial.Multiply(full, polynomial.Difference(s.Season, s.SD))
	m.Start = len(full) - 1

	if s.FracD != 0 && length > 1 {
		full = polynomial.Multiply(full, timeseries.FracWeights(s.FracD, length))
		if len(full) > length {
			full = full[:length]
		}
	}

	m.AR = make([]float64, len(full)-1)
	for k := 1; k < len(full); k++ {
		m.AR[k-1] = -full[k]
	}

	ma := polynomial.Multiply(polynomial.MA(s.Theta, 1), polynomial.MA(s.STheta, s.Season))
	m.MA = append([]float64(nil), ma[1:]...)
	return m
}

// Level is the deterministic part removed from y_t before the recursion.
func (m *Mean) Level(t int) float64 {
	l := m.level
	if t < len(m.exog) {
		for k, b := range m.beta {
			l += b * m.exog[t][k]
		}
	}
	return l
}

// Predict returns the conditional mean of x_t from x and e before t.
// Pre-sample values count as zero.
func (m *Mean) Predict(x, e []float64, t int) float64 {
	out := m.Const
	for k := 1; k <= len(m.AR) && k <= t; k++ {
		out += m.AR[k-1] * x[t-k]
	}
	for j := 1; j <= len(m.MA) && j <= t; j++ {
		out += m.MA[j-1] * e[t-j]
	}
	return out
}

// Psi returns the first n coefficients of the infinite moving-average
// representation, psi_0 = 1.
func (m *Mean) Psi(n int) []float64 {
	if n <= 0 {
		return nil
	}
	psi := make([]float64, n)
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j <= len(m.MA) {
			v = m.MA[j-1]
		}
		for k := 1; k <= j && k <= len(m.AR); k++ {
			v += m.AR[k-1] * psi[j-k]
		}
		psi[j] = v
	}
	return psi
}
