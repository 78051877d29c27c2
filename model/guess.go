package model

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/stats"
	"github.com/sartorproj/gotsmodel/status"
	"github.com/sartorproj/gotsmodel/timeseries"
)

// maxDamping bounds how many times an infeasible guess is shrunk towards
// zero before the coefficients are reset.
const maxDamping = 10

// guess replaces the parameters with moment estimates computed from y:
// least squares for exogenous loadings, Yule-Walker for AR terms and the
// lag-one moment equation for MA terms.
func (m *MeanModel) guess(y []float64, offset int, log *zap.Logger) error {
	x := append([]float64(nil), y...)
	if len(m.Beta) > 0 {
		if len(m.Exog) < offset+len(y) {
			return fmt.Errorf("exogenous matrix has %d rows, need %d: %w", len(m.Exog), offset+len(y), status.ErrLength)
		}
		exog := m.Exog[offset:]
		beta, err := leastSquares(y, exog[:len(y)])
		if err != nil {
			return err
		}
		copy(m.Beta, beta)
		for t := range x {
			for k, b := range m.Beta {
				x[t] -= b * exog[t][k]
			}
		}
	}

	w := timeseries.Difference(x, 1, m.D)
	if m.seasonal() {
		w = timeseries.Difference(w, m.Season, m.SD)
	}
	if len(w) < 2 {
		return fmt.Errorf("%d observations after differencing: %w", len(w), status.ErrInsufficientObs)
	}
	m.Mu = stat.Mean(w, nil)
	if m.Family == FARIMA {
		m.FracD = 0
		if acf := stats.ACF(w, 1); acf != nil {
			m.FracD = math.Max(-0.45, math.Min(0.45, acf[1]/(1+acf[1])))
		}
		w = timeseries.FracDiff(w, m.FracD, m.Mu)
	}

	dev := make([]float64, len(w))
	mean := stat.Mean(w, nil)
	for i, v := range w {
		dev[i] = v - mean
	}
	sd := stat.StdDev(dev, nil)
	if !(sd > 0) {
		return fmt.Errorf("differenced series is constant: %w", status.ErrNumerical)
	}

	s := m.Season
	p, q, sp, sq := len(m.Phi), len(m.Theta), len(m.SPhi), len(m.STheta)
	maxLag := max(p, q, 1)
	if m.seasonal() {
		maxLag = max(maxLag, s*max(sp, sq, 1))
	}
	acf := stats.ACF(dev, maxLag)

	zero(m.Phi)
	zero(m.Theta)
	zero(m.SPhi)
	zero(m.STheta)
	if acf != nil {
		phi, _ := stats.YuleWalker(acf, p)
		copy(m.Phi, phi)
		if m.seasonal() && sp > 0 && len(acf) > s*sp {
			sacf := make([]float64, sp+1)
			for k := range sacf {
				sacf[k] = acf[k*s]
			}
			sphi, _ := stats.YuleWalker(sacf, sp)
			copy(m.SPhi, sphi)
		}

		u := arFilter(dev, m.Phi, 1)
		if m.seasonal() {
			u = arFilter(u, m.SPhi, s)
		}
		lag := max(1, s)
		if uacf := stats.ACF(u, lag); uacf != nil {
			if q > 0 {
				m.Theta[0] = maFromACF(uacf[1])
			}
			if m.seasonal() && sq > 0 && len(uacf) > s {
				m.STheta[0] = maFromACF(uacf[s])
			}
		}
	}

	m.Sigma = sd
	if m.kind() != innovation.Gaussian {
		m.Nu = innovation.ShapeFromKurtosis(m.kind(), 3)
	}
	m.damp(log)

	// Rescale sigma and the shape to the residuals of the guessed filter.
	proc, err := m.process(offset, len(y), 0)
	if err != nil {
		return err
	}
	f, err := proc.Filter(y)
	if err != nil {
		return err
	}
	resid := f.Resid[f.Start:]
	if _, v := stat.PopMeanVariance(resid, nil); v > 0 {
		m.Sigma = math.Sqrt(v)
	}
	if m.kind() != innovation.Gaussian {
		m.Nu = innovation.ShapeFromKurtosis(m.kind(), stat.ExKurtosis(resid, nil)+3)
	}
	return nil
}

// damp shrinks coefficients that fail validation.
func (m *MeanModel) damp(log *zap.Logger) {
	for i := 0; i < maxDamping; i++ {
		if m.validate() == nil {
			return
		}
		log.Debug("damping infeasible quick guess", zap.Int("round", i+1))
		for _, c := range [][]float64{m.Phi, m.Theta, m.SPhi, m.STheta} {
			for j := range c {
				c[j] *= 0.5
			}
		}
		m.FracD *= 0.5
	}
	zero(m.Phi)
	zero(m.Theta)
	zero(m.SPhi)
	zero(m.STheta)
	m.FracD = 0
}

// guess sets the mean to the sample mean, a persistent GARCH shape scaled
// to the sample variance and a shape matching the sample kurtosis.
func (m *VarianceModel) guess(y []float64, _ int, log *zap.Logger) error {
	if len(y) < 2 {
		return fmt.Errorf("%d observations: %w", len(y), status.ErrInsufficientObs)
	}
	mean, s2 := stat.MeanVariance(y, nil)
	if !(s2 > 0) {
		return fmt.Errorf("constant series: %w", status.ErrNumerical)
	}
	m.Mu, m.Lambda = mean, 0

	p, q := float64(len(m.Alpha)), float64(len(m.Beta))
	aSum, bSum := 0.1, 0.85
	if q == 0 {
		sq := make([]float64, len(y))
		for i, v := range y {
			sq[i] = (v - mean) * (v - mean)
		}
		aSum, bSum = 0.2, 0
		if acf := stats.ACF(sq, 1); acf != nil {
			aSum = math.Max(0.05, math.Min(0.5, acf[1]))
		}
	}
	for i := range m.Alpha {
		m.Alpha[i] = aSum / p
	}
	for j := range m.Beta {
		m.Beta[j] = bSum / q
	}
	for i := range m.Gamma {
		m.Gamma[i] = 0
	}
	m.Omega = m.targetOmega(s2)

	if m.kind() != innovation.Gaussian {
		m.Nu = innovation.ShapeFromKurtosis(m.kind(), stat.ExKurtosis(y, nil)+3)
	}
	log.Debug("variance quick guess",
		zap.Float64("omega", m.Omega),
		zap.Float64("persistence", aSum+bSum),
	)
	return nil
}

// leastSquares regresses y on a constant and the columns of x and returns
// the column loadings.
func leastSquares(y []float64, x [][]float64) ([]float64, error) {
	n, k := len(y), len(x[0])
	if n <= k+1 {
		return nil, fmt.Errorf("%d observations for %d regressors: %w", n, k, status.ErrInsufficientObs)
	}
	a := mat.NewDense(n, k+1, nil)
	for t := 0; t < n; t++ {
		a.Set(t, 0, 1)
		for j := 0; j < k; j++ {
			a.Set(t, j+1, x[t][j])
		}
	}
	var b mat.VecDense
	if err := b.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("exogenous regression: %v: %w", err, status.ErrNumerical)
	}
	out := make([]float64, k)
	for j := range out {
		out[j] = b.AtVec(j + 1)
	}
	return out, nil
}

// arFilter returns u_t = x_t - sum phi_k x_{t-k*lag}.
func arFilter(x, phi []float64, lag int) []float64 {
	u := make([]float64, len(x))
	for t := range x {
		u[t] = x[t]
		for k, c := range phi {
			if i := t - (k+1)*lag; i >= 0 {
				u[t] -= c * x[i]
			}
		}
	}
	return u
}

// maFromACF solves rho = theta / (1 + theta^2) for the invertible root.
func maFromACF(rho float64) float64 {
	switch {
	case rho == 0 || math.IsNaN(rho):
		return 0
	case math.Abs(rho) >= 0.5:
		return math.Copysign(0.9, rho)
	}
	return (1 - math.Sqrt(1-4*rho*rho)) / (2 * rho)
}

func zero(c []float64) {
	for i := range c {
		c[i] = 0
	}
}
