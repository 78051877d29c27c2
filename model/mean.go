package model

import (
	"fmt"
	"math"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/polynomial"
	"github.com/sartorproj/gotsmodel/status"
)

// MeanModel is a linear conditional-mean model
//
//	phi(B) Phi(B^s) (1-B)^D (1-B^s)^SD (y_t - beta'X_t - mu) = theta(B) Theta(B^s) e_t
//
// with e_t = Sigma z_t. For integrated families Mu is the drift of the
// differenced series; for FARIMA the AR side also carries (1-B)^FracD.
type MeanModel struct {
	Family Family
	Mu     float64
	Sigma  float64

	Phi   []float64
	Theta []float64
	D     int

	Season int
	SPhi   []float64
	STheta []float64
	SD     int

	FracD float64

	// Beta loads the columns of Exog. Exog rows align with the response and
	// must extend over any forecast horizon.
	Beta []float64
	Exog [][]float64

	Dist innovation.Kind
	Nu   float64
}

// NewARMA returns an ARMA(p, q) model.
func NewARMA(mu, sigma float64, phi, theta []float64) *MeanModel {
	return &MeanModel{Family: ARMA, Mu: mu, Sigma: sigma, Phi: phi, Theta: theta, Dist: innovation.Gaussian}
}

// NewARIMA returns an ARIMA(p, d, q) model.
func NewARIMA(mu, sigma float64, phi []float64, d int, theta []float64) *MeanModel {
	m := NewARMA(mu, sigma, phi, theta)
	m.Family, m.D = ARIMA, d
	return m
}

// NewSARIMA returns a seasonal ARIMA(p, d, q)x(P, SD, Q)_season model.
func NewSARIMA(mu, sigma float64, phi []float64, d int, theta []float64, season int, sphi []float64, sd int, stheta []float64) *MeanModel {
	m := NewARIMA(mu, sigma, phi, d, theta)
	m.Family = SARIMA
	m.Season, m.SPhi, m.SD, m.STheta = season, sphi, sd, stheta
	return m
}

// NewSARIMAX returns a SARIMA model with exogenous regressors.
func NewSARIMAX(mu, sigma float64, phi []float64, d int, theta []float64, season int, sphi []float64, sd int, stheta []float64, beta []float64, exog [][]float64) *MeanModel {
	m := NewSARIMA(mu, sigma, phi, d, theta, season, sphi, sd, stheta)
	m.Family = SARIMAX
	m.Beta, m.Exog = beta, exog
	return m
}

// NewFARIMA returns a fractionally integrated ARMA model with |d| < 0.5.
func NewFARIMA(mu, sigma float64, phi []float64, d float64, theta []float64) *MeanModel {
	m := NewARMA(mu, sigma, phi, theta)
	m.Family, m.FracD = FARIMA, d
	return m
}

// NewAirline returns the (0,1,1)x(0,1,1)_season model.
func NewAirline(mu, sigma float64, season int, theta, stheta float64) *MeanModel {
	return &MeanModel{
		Family: Airline,
		Mu:     mu,
		Sigma:  sigma,
		Theta:  []float64{theta},
		D:      1,
		Season: season,
		STheta: []float64{stheta},
		SD:     1,
		Dist:   innovation.Gaussian,
	}
}

// WithInnovation sets the innovation distribution and its shape.
func (m *MeanModel) WithInnovation(kind innovation.Kind, nu float64) *MeanModel {
	m.Dist, m.Nu = kind, nu
	return m
}

func (m *MeanModel) family() Family { return m.Family }

func (m *MeanModel) kind() innovation.Kind {
	if m.Dist == 0 {
		return innovation.Gaussian
	}
	return m.Dist
}

func (m *MeanModel) seasonal() bool {
	return m.Season > 0
}

// seasonalTerms returns the seasonal coefficients that take part in the
// recursion. With Season 0 the seasonal part is the identity and its
// coefficients are not parameters.
func (m *MeanModel) seasonalTerms() (sphi, stheta []float64) {
	if !m.seasonal() {
		return nil, nil
	}
	return m.SPhi, m.STheta
}

// check rejects structurally malformed models.
func (m *MeanModel) check() error {
	if !m.Family.IsMean() {
		return fmt.Errorf("%s is not a mean family: %w", m.Family, status.ErrInvalidArgument)
	}
	if m.D < 0 || m.SD < 0 || m.Season < 0 {
		return fmt.Errorf("negative order (d=%d, D=%d, s=%d): %w", m.D, m.SD, m.Season, status.ErrInvalidArgument)
	}
	hasSeasonal := len(m.SPhi) > 0 || len(m.STheta) > 0 || m.SD > 0
	switch m.Family {
	case ARMA, FARIMA:
		if m.D != 0 || hasSeasonal {
			return fmt.Errorf("%s takes no differencing or seasonal terms: %w", m.Family, status.ErrInvalidArgument)
		}
	case ARIMA:
		if hasSeasonal {
			return fmt.Errorf("arima takes no seasonal terms: %w", status.ErrInvalidArgument)
		}
	case Airline:
		if len(m.Phi) != 0 || len(m.SPhi) != 0 || len(m.Theta) != 1 || len(m.STheta) != 1 || m.D != 1 || m.SD != 1 {
			return fmt.Errorf("airline is (0,1,1)x(0,1,1): %w", status.ErrInvalidArgument)
		}
		if m.Season < 1 {
			return fmt.Errorf("airline season %d: %w", m.Season, status.ErrInvalidArgument)
		}
	}
	if m.Family != FARIMA && m.FracD != 0 {
		return fmt.Errorf("fractional order on %s: %w", m.Family, status.ErrInvalidArgument)
	}
	if m.Family != SARIMAX && (len(m.Beta) > 0 || len(m.Exog) > 0) {
		return fmt.Errorf("exogenous regressors on %s: %w", m.Family, status.ErrInvalidArgument)
	}
	for i, row := range m.Exog {
		if len(row) != len(m.Beta) {
			return fmt.Errorf("exogenous row %d has %d columns for %d loadings: %w", i, len(row), len(m.Beta), status.ErrInvalidArgument)
		}
	}
	for _, v := range m.pack() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite parameter: %w", status.ErrInvalidValue)
		}
	}
	return nil
}

// validate checks stationarity, invertibility and parameter domains. A
// seasonal part with Season 0 is the identity and is not checked.
func (m *MeanModel) validate() error {
	if err := m.check(); err != nil {
		return err
	}
	if !(m.Sigma > 0) {
		return fmt.Errorf("sigma %g must be positive: %w", m.Sigma, status.ErrInvalidModel)
	}
	if !polynomial.IsStable(m.Phi) {
		return fmt.Errorf("ar polynomial is not stationary: %w", status.ErrInvalidModel)
	}
	if !polynomial.IsInvertible(m.Theta) {
		return fmt.Errorf("ma polynomial is not invertible: %w", status.ErrInvalidModel)
	}
	if m.seasonal() {
		if !polynomial.IsStable(m.SPhi) {
			return fmt.Errorf("seasonal ar polynomial is not stationary: %w", status.ErrInvalidModel)
		}
		if !polynomial.IsInvertible(m.STheta) {
			return fmt.Errorf("seasonal ma polynomial is not invertible: %w", status.ErrInvalidModel)
		}
	}
	if math.Abs(m.FracD) >= 0.5 {
		return fmt.Errorf("fractional order %g outside (-0.5, 0.5): %w", m.FracD, status.ErrInvalidModel)
	}
	return innovation.Validate(m.kind(), m.Nu)
}

func (m *MeanModel) spec(offset int) kernel.Spec {
	s := kernel.Spec{
		Mu:    m.Mu,
		Phi:   m.Phi,
		Theta: m.Theta,
		D:     m.D,
		FracD: m.FracD,
		Beta:  m.Beta,
	}
	if m.seasonal() {
		s.Season, s.SPhi, s.STheta, s.SD = m.Season, m.SPhi, m.STheta, m.SD
	}
	if len(m.Beta) > 0 && offset <= len(m.Exog) {
		s.Exog = m.Exog[offset:]
	}
	return s
}

// process assembles the recursion for n observations starting at row
// offset of Exog plus steps out-of-sample points.
func (m *MeanModel) process(offset, n, steps int) (*kernel.Process, error) {
	if len(m.Beta) > 0 && len(m.Exog) < offset+n+steps {
		return nil, fmt.Errorf("exogenous matrix has %d rows, need %d: %w", len(m.Exog), offset+n+steps, status.ErrLength)
	}
	dist, err := distribution(m.kind(), m.Nu)
	if err != nil {
		return nil, err
	}
	return &kernel.Process{
		Mean:  kernel.NewMean(m.spec(offset), n+steps),
		Sigma: m.Sigma,
		Dist:  dist,
	}, nil
}

func (m *MeanModel) clone() model {
	c := *m
	c.Phi = append([]float64(nil), m.Phi...)
	c.Theta = append([]float64(nil), m.Theta...)
	c.SPhi = append([]float64(nil), m.SPhi...)
	c.STheta = append([]float64(nil), m.STheta...)
	c.Beta = append([]float64(nil), m.Beta...)
	return &c
}

// Parameters lists the free parameters in calibration order.
func (m *MeanModel) Parameters() []Parameter {
	var out []Parameter
	add := func(name string, v float64) { out = append(out, Parameter{name, v}) }
	addAll := func(name string, vs []float64) {
		for i, v := range vs {
			add(fmt.Sprintf("%s%d", name, i+1), v)
		}
	}

	sphi, stheta := m.seasonalTerms()
	add("mu", m.Mu)
	addAll("phi", m.Phi)
	addAll("theta", m.Theta)
	addAll("sphi", sphi)
	addAll("stheta", stheta)
	if m.Family == FARIMA {
		add("d", m.FracD)
	}
	addAll("beta", m.Beta)
	add("sigma", m.Sigma)
	if m.kind() != innovation.Gaussian {
		add("nu", m.Nu)
	}
	return out
}

func (m *MeanModel) pack() []float64 {
	ps := m.Parameters()
	v := make([]float64, len(ps))
	for i, p := range ps {
		v[i] = p.Value
	}
	return v
}

func (m *MeanModel) unpack(v []float64) {
	sphi, stheta := m.seasonalTerms()
	r := reader{v: v}
	m.Mu = r.next()
	r.fill(m.Phi)
	r.fill(m.Theta)
	r.fill(sphi)
	r.fill(stheta)
	if m.Family == FARIMA {
		m.FracD = r.next()
	}
	r.fill(m.Beta)
	m.Sigma = r.next()
	if m.kind() != innovation.Gaussian {
		m.Nu = r.next()
	}
}

// encode maps the model to unconstrained coordinates: AR and MA polynomials
// through their partial autocorrelations, scales through logarithms.
func (m *MeanModel) encode() ([]float64, error) {
	sphi, stheta := m.seasonalTerms()
	x := []float64{m.Mu}
	for _, c := range [][]float64{m.Phi, negate(m.Theta), sphi, negate(stheta)} {
		r, err := polynomial.ToPartials(c)
		if err != nil {
			return nil, err
		}
		for _, v := range r {
			x = append(x, unbound(v))
		}
	}
	if m.Family == FARIMA {
		x = append(x, unbound(2*m.FracD))
	}
	x = append(x, m.Beta...)
	x = append(x, math.Log(m.Sigma))
	if k := m.kind(); k != innovation.Gaussian {
		x = append(x, encodeShape(k, m.Nu))
	}
	return x, nil
}

func (m *MeanModel) decode(x []float64, _ float64) {
	sphi, stheta := m.seasonalTerms()
	r := reader{v: x}
	m.Mu = r.next()
	copy(m.Phi, polynomial.FromPartials(r.bounded(len(m.Phi))))
	copy(m.Theta, negate(polynomial.FromPartials(r.bounded(len(m.Theta)))))
	copy(sphi, polynomial.FromPartials(r.bounded(len(sphi))))
	copy(stheta, negate(polynomial.FromPartials(r.bounded(len(stheta)))))
	if m.Family == FARIMA {
		m.FracD = 0.5 * math.Tanh(r.next())
	}
	r.fill(m.Beta)
	m.Sigma = math.Exp(r.next())
	if k := m.kind(); k != innovation.Gaussian {
		m.Nu = decodeShape(k, r.next())
	}
}
