package kernel

import (
	"math"
)

// VarKind selects the conditional variance recursion.
type VarKind int

const (
	// GARCH is sigma2_t = omega + sum alpha_i e2_{t-i} + sum beta_j sigma2_{t-j}.
	GARCH VarKind = iota + 1
	// EGARCH recurses on ln sigma2_t with the news impact
	// alpha_i (|z| - E|z|) + gamma_i z.
	EGARCH
)

// Variance is a conditional variance recursion. Gamma, when present, has
// the length of Alpha.
type Variance struct {
	Kind  VarKind
	Omega float64
	Alpha []float64
	Beta  []float64
	Gamma []float64
	// AbsMoment is E|z| under the innovation law, used by EGARCH.
	AbsMoment float64
}

// Persistence is sum alpha + sum beta for GARCH and sum beta for EGARCH.
func (v *Variance) Persistence() float64 {
	p := 0.0
	for _, b := range v.Beta {
		p += b
	}
	if v.Kind == GARCH {
		for _, a := range v.Alpha {
			p += a
		}
	}
	return p
}

// LongRun is the unconditional variance the recursion reverts to, +Inf when
// the recursion is not stationary. For EGARCH it is exp(omega/(1-sum beta)).
func (v *Variance) LongRun() float64 {
	den := 1 - v.Persistence()
	if !(den > 0) {
		return math.Inf(1)
	}
	if v.Kind == EGARCH {
		return math.Exp(v.Omega / den)
	}
	return v.Omega / den
}

func (v *Variance) gamma(i int) float64 {
	if i < len(v.Gamma) {
		return v.Gamma[i]
	}
	return 0
}

// Next returns sigma2_t from the residuals e and variances s2 before t.
// Pre-sample squared residuals and variances take v0 and pre-sample
// standardized shocks are zero.
func (v *Variance) Next(e, s2 []float64, t int, v0 float64) float64 {
	return v.next(e, s2, t, t, v0)
}

// next treats shocks at index cut and later as unobserved: a GARCH squared
// shock is replaced by its expectation s2 and an EGARCH news term by zero.
func (v *Variance) next(e, s2 []float64, t, cut int, v0 float64) float64 {
	out := v.Omega
	if v.Kind == EGARCH {
		for i, a := range v.Alpha {
			k := t - 1 - i
			if k < 0 || k >= cut {
				continue
			}
			z := e[k] / math.Sqrt(s2[k])
			out += a*(math.Abs(z)-v.AbsMoment) + v.gamma(i)*z
		}
		for j, b := range v.Beta {
			out += b * math.Log(at(s2, t-1-j, v0))
		}
		return math.Exp(out)
	}

	for i, a := range v.Alpha {
		k := t - 1 - i
		switch {
		case k < 0:
			out += a * v0
		case k >= cut:
			out += a * s2[k]
		default:
			out += a * e[k] * e[k]
		}
	}
	for j, b := range v.Beta {
		out += b * at(s2, t-1-j, v0)
	}
	return out
}

func at(s []float64, k int, pre float64) float64 {
	if k < 0 {
		return pre
	}
	return s[k]
}

// Expect returns E[sigma2] at n, n+1, ..., n+steps-1 given residuals and
// variances observed before n. The first value is exact. Later GARCH values
// replace squared shocks with their expectation; later EGARCH values are
// exp(E ln sigma2).
func (v *Variance) Expect(e, s2 []float64, n, steps int, v0 float64) []float64 {
	ss := make([]float64, n+steps)
	copy(ss, s2[:n])

	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		ss[n+h] = v.next(e, ss, n+h, n, v0)
		out[h] = ss[n+h]
	}
	return out
}
