// Package polynomial builds the lag polynomials of linear time series models
// and checks where their roots lie.
//
// A Poly stores coefficients in ascending powers of the lag operator B, so
// Poly{1, -0.5} is 1 - 0.5B. Coefficient arrays of AR and MA models follow
// the usual sign conventions: AR coefficients c give 1 - c1 B - c2 B^2 ...,
// MA coefficients give 1 + c1 B + c2 B^2 ....
package polynomial

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/gotsmodel/status"
)

// Poly is a polynomial in the lag operator, lowest power first.
type Poly []float64

// One is the identity polynomial.
func One() Poly { return Poly{1} }

// AR builds 1 - c1 B^lag - c2 B^(2 lag) - .... A non-positive lag yields
// the identity, which is how a zero season length disables seasonal terms.
func AR(c []float64, lag int) Poly {
	return build(c, lag, -1)
}

// MA builds 1 + c1 B^lag + c2 B^(2 lag) + ....
func MA(c []float64, lag int) Poly {
	return build(c, lag, 1)
}

func build(c []float64, lag int, sign float64) Poly {
	if lag <= 0 || len(c) == 0 {
		return One()
	}
	p := make(Poly, len(c)*lag+1)
	p[0] = 1
	for i, v := range c {
		p[(i+1)*lag] = sign * v
	}
	return p
}

// Difference returns (1 - B^lag)^order.
func Difference(lag, order int) Poly {
	p := One()
	if lag <= 0 {
		return p
	}
	step := AR([]float64{1}, lag)
	for i := 0; i < order; i++ {
		p = Multiply(p, step)
	}
	return p
}

// Multiply returns the product a*b.
func Multiply(a, b Poly) Poly {
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	out := make(Poly, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// Degree is the index of the highest non-zero coefficient, or 0.
func (p Poly) Degree() int {
	for i := len(p) - 1; i > 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return 0
}

// Eval evaluates p at z.
func (p Poly) Eval(z complex128) complex128 {
	var out complex128
	for i := len(p) - 1; i >= 0; i-- {
		out = out*z + complex(p[i], 0)
	}
	return out
}

// derivative returns dp/dz.
func (p Poly) derivative() Poly {
	if len(p) < 2 {
		return Poly{}
	}
	out := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = float64(i) * p[i]
	}
	return out
}

// polish refines an eigenvalue root of p with Newton steps, keeping a step
// only while it shrinks |p(z)|.
func polish(p Poly, z complex128) complex128 {
	dp := p.derivative()
	res := cmplx.Abs(p.Eval(z))
	for i := 0; i < 3 && res > 0; i++ {
		d := dp.Eval(z)
		if d == 0 {
			break
		}
		next := z - p.Eval(z)/d
		r := cmplx.Abs(p.Eval(next))
		if !(r < res) {
			break
		}
		z, res = next, r
	}
	return z
}

// Roots returns the roots of 1 - c1 z - c2 z^2 - ... - cp z^p. Trailing zero
// coefficients are ignored. Orders up to two are solved in closed form,
// higher orders through the eigenvalues of the companion matrix.
func Roots(c []float64) ([]complex128, error) {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite coefficient: %w", status.ErrInvalidValue)
		}
	}
	c = c[:AR(c, 1).Degree()]

	switch len(c) {
	case 0:
		return nil, nil
	case 1:
		return []complex128{complex(1/c[0], 0)}, nil
	case 2:
		// c2 z^2 + c1 z - 1 = 0
		a, b := complex(c[1], 0), complex(c[0], 0)
		disc := cmplx.Sqrt(b*b + 4*a)
		return []complex128{(-b + disc) / (2 * a), (-b - disc) / (2 * a)}, nil
	}

	// The reciprocals u = 1/z solve u^p - c1 u^(p-1) - ... - cp = 0, whose
	// companion matrix carries c in its first row.
	p := len(c)
	comp := mat.NewDense(p, p, nil)
	for j, v := range c {
		comp.Set(0, j, v)
	}
	for i := 1; i < p; i++ {
		comp.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return nil, fmt.Errorf("companion eigen decomposition did not converge: %w", status.ErrNumerical)
	}
	vals := eig.Values(nil)
	poly := AR(c, 1)
	roots := make([]complex128, len(vals))
	for i, u := range vals {
		roots[i] = polish(poly, 1/u)
	}
	return roots, nil
}

// IsStable reports whether every root of 1 - c1 z - ... - cp z^p lies
// strictly outside the unit circle.
func IsStable(c []float64) bool {
	roots, err := Roots(c)
	if err != nil {
		return false
	}
	for _, z := range roots {
		if !(cmplx.Abs(z) > 1) {
			return false
		}
	}
	return true
}

// IsInvertible reports whether the MA polynomial 1 + c1 z + ... has all its
// roots strictly outside the unit circle.
func IsInvertible(c []float64) bool {
	neg := make([]float64, len(c))
	for i, v := range c {
		neg[i] = -v
	}
	return IsStable(neg)
}
