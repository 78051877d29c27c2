package model

import (
	"fmt"
	"math"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/status"
)

// VarianceModel is a constant-mean model with GARCH-family innovations:
//
//	y_t = Mu + Lambda sigma_t + sigma_t z_t
//
// GARCH and GARCH-M use sigma2_t = Omega + sum Alpha e2 + sum Beta sigma2.
// EGARCH uses ln sigma2_t = Omega + sum Alpha (|z| - E|z|) + Gamma z +
// sum Beta ln sigma2, with one Gamma per Alpha.
type VarianceModel struct {
	Family Family
	Mu     float64
	// Lambda is the GARCH-M risk premium on sigma_t.
	Lambda float64

	Omega float64
	Alpha []float64
	Gamma []float64
	Beta  []float64

	Dist innovation.Kind
	Nu   float64
}

// NewGARCH returns a GARCH(p, q) model.
func NewGARCH(mu, omega float64, alpha, beta []float64) *VarianceModel {
	return &VarianceModel{Family: GARCH, Mu: mu, Omega: omega, Alpha: alpha, Beta: beta, Dist: innovation.Gaussian}
}

// NewEGARCH returns an EGARCH(p, q) model. gamma holds one leverage
// coefficient per alpha.
func NewEGARCH(mu, omega float64, alpha, gamma, beta []float64) *VarianceModel {
	return &VarianceModel{Family: EGARCH, Mu: mu, Omega: omega, Alpha: alpha, Gamma: gamma, Beta: beta, Dist: innovation.Gaussian}
}

// NewGARCHM returns a GARCH-in-mean model.
func NewGARCHM(mu, lambda, omega float64, alpha, beta []float64) *VarianceModel {
	m := NewGARCH(mu, omega, alpha, beta)
	m.Family, m.Lambda = GARCHM, lambda
	return m
}

// WithInnovation sets the innovation distribution and its shape.
func (m *VarianceModel) WithInnovation(kind innovation.Kind, nu float64) *VarianceModel {
	m.Dist, m.Nu = kind, nu
	return m
}

func (m *VarianceModel) family() Family { return m.Family }

func (m *VarianceModel) kind() innovation.Kind {
	if m.Dist == 0 {
		return innovation.Gaussian
	}
	return m.Dist
}

func (m *VarianceModel) check() error {
	if !m.Family.IsVariance() {
		return fmt.Errorf("%s is not a variance family: %w", m.Family, status.ErrInvalidArgument)
	}
	if len(m.Alpha) == 0 {
		return fmt.Errorf("%s needs at least one arch coefficient: %w", m.Family, status.ErrInvalidArgument)
	}
	if m.Family == EGARCH && len(m.Gamma) != len(m.Alpha) {
		return fmt.Errorf("egarch has %d leverage coefficients for %d arch terms: %w", len(m.Gamma), len(m.Alpha), status.ErrInvalidArgument)
	}
	if m.Family != EGARCH && len(m.Gamma) > 0 {
		return fmt.Errorf("leverage coefficients on %s: %w", m.Family, status.ErrInvalidArgument)
	}
	if m.Family != GARCHM && m.Lambda != 0 {
		return fmt.Errorf("mean feedback on %s: %w", m.Family, status.ErrInvalidArgument)
	}
	for _, v := range m.pack() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite parameter: %w", status.ErrInvalidValue)
		}
	}
	return nil
}

func (m *VarianceModel) validate() error {
	if err := m.check(); err != nil {
		return err
	}
	if m.Family != EGARCH && !(m.Omega > 0) {
		return fmt.Errorf("omega %g must be positive: %w", m.Omega, status.ErrInvalidModel)
	}
	for _, a := range m.Alpha {
		if a < 0 {
			return fmt.Errorf("negative arch coefficient %g: %w", a, status.ErrInvalidModel)
		}
	}
	for _, b := range m.Beta {
		if b < 0 {
			return fmt.Errorf("negative garch coefficient %g: %w", b, status.ErrInvalidModel)
		}
	}
	if p := m.recursion(0).Persistence(); p >= 1 {
		return fmt.Errorf("persistence %g is not below one: %w", p, status.ErrInvalidModel)
	}
	return innovation.Validate(m.kind(), m.Nu)
}

func (m *VarianceModel) recursion(absMoment float64) *kernel.Variance {
	v := &kernel.Variance{
		Kind:      kernel.GARCH,
		Omega:     m.Omega,
		Alpha:     m.Alpha,
		Beta:      m.Beta,
		AbsMoment: absMoment,
	}
	if m.Family == EGARCH {
		v.Kind, v.Gamma = kernel.EGARCH, m.Gamma
	}
	return v
}

func (m *VarianceModel) process(_, n, steps int) (*kernel.Process, error) {
	dist, err := distribution(m.kind(), m.Nu)
	if err != nil {
		return nil, err
	}
	return &kernel.Process{
		Mean:   kernel.NewMean(kernel.Spec{Mu: m.Mu}, n+steps),
		Var:    m.recursion(dist.AbsMoment()),
		Lambda: m.Lambda,
		Dist:   dist,
	}, nil
}

// longRun is the unconditional variance, +Inf for a non-stationary model.
func (m *VarianceModel) longRun() float64 {
	return m.recursion(0).LongRun()
}

func (m *VarianceModel) clone() model {
	c := *m
	c.Alpha = append([]float64(nil), m.Alpha...)
	c.Gamma = append([]float64(nil), m.Gamma...)
	c.Beta = append([]float64(nil), m.Beta...)
	return &c
}

// Parameters lists the model parameters in calibration order. Omega is
// listed although calibration concentrates it out.
func (m *VarianceModel) Parameters() []Parameter {
	var out []Parameter
	add := func(name string, v float64) { out = append(out, Parameter{name, v}) }
	addAll := func(name string, vs []float64) {
		for i, v := range vs {
			add(fmt.Sprintf("%s%d", name, i+1), v)
		}
	}

	add("mu", m.Mu)
	if m.Family == GARCHM {
		add("lambda", m.Lambda)
	}
	add("omega", m.Omega)
	addAll("alpha", m.Alpha)
	if m.Family == EGARCH {
		addAll("gamma", m.Gamma)
	}
	addAll("beta", m.Beta)
	if m.kind() != innovation.Gaussian {
		add("nu", m.Nu)
	}
	return out
}

func (m *VarianceModel) pack() []float64 {
	ps := m.Parameters()
	v := make([]float64, len(ps))
	for i, p := range ps {
		v[i] = p.Value
	}
	return v
}

func (m *VarianceModel) unpack(v []float64) {
	r := reader{v: v}
	m.Mu = r.next()
	if m.Family == GARCHM {
		m.Lambda = r.next()
	}
	m.Omega = r.next()
	r.fill(m.Alpha)
	if m.Family == EGARCH {
		r.fill(m.Gamma)
	}
	r.fill(m.Beta)
	if m.kind() != innovation.Gaussian {
		m.Nu = r.next()
	}
}

// encode maps the model to unconstrained coordinates. Omega has no
// coordinate: decode recovers it from the target variance.
func (m *VarianceModel) encode() ([]float64, error) {
	x := []float64{m.Mu}
	if m.Family == GARCHM {
		x = append(x, m.Lambda)
	}
	if m.Family == EGARCH {
		for _, a := range m.Alpha {
			x = append(x, math.Log(math.Max(a, minWeight)))
		}
		x = append(x, m.Gamma...)
		x = append(x, toSimplex(m.Beta)...)
	} else {
		w := append(append([]float64(nil), m.Alpha...), m.Beta...)
		x = append(x, toSimplex(w)...)
	}
	if k := m.kind(); k != innovation.Gaussian {
		x = append(x, encodeShape(k, m.Nu))
	}
	return x, nil
}

// decode sets the model from unconstrained coordinates, choosing Omega so
// that the long-run variance equals target.
func (m *VarianceModel) decode(x []float64, target float64) {
	r := reader{v: x}
	m.Mu = r.next()
	if m.Family == GARCHM {
		m.Lambda = r.next()
	}
	if m.Family == EGARCH {
		for i := range m.Alpha {
			m.Alpha[i] = math.Exp(r.next())
		}
		r.fill(m.Gamma)
		raw := make([]float64, len(m.Beta))
		r.fill(raw)
		copy(m.Beta, fromSimplex(raw))
	} else {
		raw := make([]float64, len(m.Alpha)+len(m.Beta))
		r.fill(raw)
		w := fromSimplex(raw)
		copy(m.Alpha, w[:len(m.Alpha)])
		copy(m.Beta, w[len(m.Alpha):])
	}
	if k := m.kind(); k != innovation.Gaussian {
		m.Nu = decodeShape(k, r.next())
	}
	m.Omega = m.targetOmega(target)
}

func (m *VarianceModel) targetOmega(target float64) float64 {
	den := 1 - m.recursion(0).Persistence()
	if m.Family == EGARCH {
		return den * math.Log(target)
	}
	return den * target
}
