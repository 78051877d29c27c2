package polynomial

import (
	"fmt"
	"math"

	"github.com/sartorproj/gotsmodel/status"
)

// FromPartials maps partial autocorrelations r, each in (-1, 1), to the
// coefficients of a stable AR polynomial of the same order using the
// Durbin-Levinson recursion.
func FromPartials(r []float64) []float64 {
	p := len(r)
	phi := make([]float64, p)
	prev := make([]float64, p)
	for k := 0; k < p; k++ {
		copy(prev, phi)
		phi[k] = r[k]
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r[k]*prev[k-1-j]
		}
	}
	return phi
}

// ToPartials inverts FromPartials. It fails with status.ErrInvalidModel when
// the polynomial is not stable.
func ToPartials(c []float64) ([]float64, error) {
	p := len(c)
	r := make([]float64, p)
	cur := make([]float64, p)
	copy(cur, c)

	for k := p - 1; k >= 0; k-- {
		rk := cur[k]
		if math.Abs(rk) >= 1 || math.IsNaN(rk) {
			return nil, fmt.Errorf("partial autocorrelation %d is %g: %w", k+1, rk, status.ErrInvalidModel)
		}
		r[k] = rk
		den := 1 - rk*rk
		next := make([]float64, k)
		for j := 0; j < k; j++ {
			next[j] = (cur[j] + rk*cur[k-1-j]) / den
		}
		cur = next
	}
	return r, nil
}
