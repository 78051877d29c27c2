package model

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/calibrate"
	"github.com/sartorproj/gotsmodel/forecast"
	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/likelihood"
	"github.com/sartorproj/gotsmodel/status"
	"github.com/sartorproj/gotsmodel/timeseries"
)

func ar1Sample(t *testing.T, n int, seed uint64) []float64 {
	t.Helper()
	y, err := Simulate(NewARMA(2, 1, []float64{0.6}, nil), nil, n, seed)
	require.NoError(t, err)
	return y
}

func observedValues(v []float64) []float64 {
	var out []float64
	for _, x := range v {
		if !timeseries.IsMissing(x) {
			out = append(out, x)
		}
	}
	return out
}

func TestValidateAR1(t *testing.T) {
	tests := []struct {
		phi   float64
		valid bool
	}{
		{0, true},
		{0.5, true},
		{-0.9, true},
		{0.99, true},
		{1, false},
		{1.5, false},
		{-1.2, false},
	}

	for _, tt := range tests {
		err := Validate(NewARMA(0, 1, []float64{tt.phi}, nil))
		if tt.valid {
			assert.NoError(t, err, "phi=%g", tt.phi)
		} else {
			assert.ErrorIs(t, err, status.ErrInvalidModel, "phi=%g", tt.phi)
			assert.Equal(t, status.InvalidModel, status.Code(err))
		}
	}
}

func TestValidateMeanModels(t *testing.T) {
	tests := []struct {
		name string
		m    *MeanModel
		want error
	}{
		{"arma", NewARMA(0, 1, []float64{0.5, 0.2}, []float64{0.3}), nil},
		{"non invertible ma", NewARMA(0, 1, nil, []float64{1.2}), status.ErrInvalidModel},
		{"zero sigma", NewARMA(0, 0, nil, nil), status.ErrInvalidModel},
		{"arima", NewARIMA(0.1, 1, []float64{0.3}, 1, []float64{-0.4}), nil},
		{"negative d", NewARIMA(0, 1, nil, -1, nil), status.ErrInvalidArgument},
		{"sarima", NewSARIMA(0, 1, []float64{0.2}, 1, nil, 4, []float64{0.5}, 1, []float64{-0.3}), nil},
		{"unstable seasonal ar", NewSARIMA(0, 1, nil, 0, nil, 4, []float64{1.1}, 0, nil), status.ErrInvalidModel},
		{"seasonal terms with season 0", NewSARIMA(0, 1, nil, 0, nil, 0, []float64{1.1}, 0, nil), nil},
		{"farima", NewFARIMA(0, 1, []float64{0.3}, 0.3, nil), nil},
		{"farima d out of range", NewFARIMA(0, 1, nil, 0.6, nil), status.ErrInvalidModel},
		{"airline", NewAirline(0, 1, 12, -0.4, -0.6), nil},
		{"airline season", NewAirline(0, 1, 0, -0.4, -0.6), status.ErrInvalidArgument},
		{"nan coefficient", NewARMA(0, 1, []float64{math.NaN()}, nil), status.ErrInvalidValue},
		{"student-t", NewARMA(0, 1, nil, nil).WithInnovation(innovation.StudentT, 5), nil},
		{"student-t shape", NewARMA(0, 1, nil, nil).WithInnovation(innovation.StudentT, 1.5), status.ErrInvalidModel},
		{"exog on arma", &MeanModel{Family: ARMA, Sigma: 1, Beta: []float64{1}}, status.ErrInvalidArgument},
		{"exog columns", NewSARIMAX(0, 1, nil, 0, nil, 0, nil, 0, nil, []float64{1, 2}, [][]float64{{1}}), status.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.m)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestGARCHLaw(t *testing.T) {
	tests := []struct {
		alpha, beta float64
		valid       bool
	}{
		{0.1, 0.8, true},
		{0.05, 0.94, true},
		{0.2, 0.8, false},
		{0.3, 0.9, false},
	}

	for _, tt := range tests {
		m := NewGARCH(0, 0.2, []float64{tt.alpha}, []float64{tt.beta})
		lr, err := LongRunVariance(m)
		if tt.valid {
			require.NoError(t, Validate(m))
			require.NoError(t, err)
			assert.InDelta(t, 0.2/(1-tt.alpha-tt.beta), lr, 1e-12)
			assert.Greater(t, lr, 0.0)
		} else {
			assert.ErrorIs(t, Validate(m), status.ErrInvalidModel)
			assert.ErrorIs(t, err, status.ErrInvalidModel)
			assert.True(t, math.IsNaN(lr))
		}
	}
}

func TestLongRunVarianceFamilies(t *testing.T) {
	eg := NewEGARCH(0, -0.2, []float64{0.15}, []float64{-0.05}, []float64{0.9})
	lr, err := LongRunVariance(eg)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.2/0.1), lr, 1e-12)

	gm := NewGARCHM(0.01, 0.3, 0.1, []float64{0.1}, []float64{0.85})
	lr, err = LongRunVariance(gm)
	require.NoError(t, err)
	assert.InDelta(t, 2, lr, 1e-12)
}

func TestValidateVarianceModels(t *testing.T) {
	tests := []struct {
		name string
		m    *VarianceModel
		want error
	}{
		{"garch", NewGARCH(0, 0.1, []float64{0.1}, []float64{0.8}), nil},
		{"arch", NewGARCH(0, 0.1, []float64{0.3, 0.2}, nil), nil},
		{"negative omega", NewGARCH(0, -0.1, []float64{0.1}, []float64{0.8}), status.ErrInvalidModel},
		{"negative alpha", NewGARCH(0, 0.1, []float64{-0.1}, []float64{0.8}), status.ErrInvalidModel},
		{"no arch term", NewGARCH(0, 0.1, nil, []float64{0.8}), status.ErrInvalidArgument},
		{"egarch", NewEGARCH(0, -0.1, []float64{0.1}, []float64{-0.1}, []float64{0.9}), nil},
		{"egarch leverage count", NewEGARCH(0, -0.1, []float64{0.1, 0.1}, []float64{-0.1}, []float64{0.9}), status.ErrInvalidArgument},
		{"egarch persistence", NewEGARCH(0, -0.1, []float64{0.1}, []float64{0}, []float64{1}), status.ErrInvalidModel},
		{"garch-m", NewGARCHM(0, 0.5, 0.1, []float64{0.1}, []float64{0.8}), nil},
		{"lambda on garch", &VarianceModel{Family: GARCH, Lambda: 1, Omega: 0.1, Alpha: []float64{0.1}}, status.ErrInvalidArgument},
		{"ged", NewGARCH(0, 0.1, []float64{0.1}, nil).WithInnovation(innovation.GED, 1.2), nil},
		{"ged shape", NewGARCH(0, 0.1, []float64{0.1}, nil).WithInnovation(innovation.GED, 0), status.ErrInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.m)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestGOF(t *testing.T) {
	y := ar1Sample(t, 200, 3)
	m := NewARMA(2, 1, []float64{0.6}, nil)

	llf, err := GOF(y, m, likelihood.LLF)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(llf))

	aic, err := GOF(y, m, likelihood.AIC)
	require.NoError(t, err)
	assert.InDelta(t, -2*llf+2*3, aic, 1e-9)

	bic, err := GOF(y, m, likelihood.BIC)
	require.NoError(t, err)
	assert.InDelta(t, -2*llf+3*math.Log(199), bic, 1e-9)

	rsq, err := GOF(y, m, likelihood.RSQ)
	require.NoError(t, err)
	assert.Greater(t, rsq, 0.0)
	assert.Less(t, rsq, 1.0)

	worse, err := GOF(y, NewARMA(2, 1, []float64{-0.3}, nil), likelihood.LLF)
	require.NoError(t, err)
	assert.Less(t, worse, llf)
}

func TestGOFErrors(t *testing.T) {
	_, err := GOF([]float64{1, 2, 3}, NewARMA(0, 1, []float64{1.5}, nil), likelihood.LLF)
	assert.ErrorIs(t, err, status.ErrInvalidModel)

	_, err = GOF([]float64{math.NaN(), math.NaN()}, NewARMA(0, 1, nil, nil), likelihood.LLF)
	assert.ErrorIs(t, err, status.ErrEmptySeries)

	_, err = GOF([]float64{1, math.NaN(), 3}, NewARMA(0, 1, nil, nil), likelihood.LLF)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	_, err = GOF([]float64{1, 2}, NewARMA(0, 1, []float64{0.1, 0.1, 0.1}, nil), likelihood.LLF)
	assert.ErrorIs(t, err, status.ErrInsufficientObs)

	g := NewGARCH(0, 0.1, []float64{0.1}, []float64{0.8})
	v, err := GOF([]float64{0.1, -0.2, 0.3}, g, likelihood.RSQ)
	assert.ErrorIs(t, err, status.ErrNotSupported)
	assert.Equal(t, status.NotSupported, status.CodeOf(v, err))
}

func TestFittedEdges(t *testing.T) {
	nan := math.NaN()
	y := []float64{nan, 1.0, 1.4, 0.7, 1.2, 0.9, nan}
	m := NewARMA(1, 0.5, []float64{0.4}, nil)

	fit, err := Fitted(y, m, FitMean)
	require.NoError(t, err)
	require.Len(t, fit, len(y))
	assert.True(t, math.IsNaN(fit[0]))
	assert.True(t, math.IsNaN(fit[1]))
	assert.True(t, math.IsNaN(fit[6]))
	assert.InDelta(t, 1+0.4*(1.0-1), fit[2], 1e-12)
	assert.InDelta(t, 1+0.4*(1.4-1), fit[3], 1e-12)

	resid, err := Fitted(y, m, FitResidual)
	require.NoError(t, err)
	std, err := Fitted(y, m, FitStdResid)
	require.NoError(t, err)
	vol, err := Fitted(y, m, FitVolatility)
	require.NoError(t, err)
	for i := 2; i < 6; i++ {
		assert.InDelta(t, y[i]-fit[i], resid[i], 1e-12)
		assert.InDelta(t, resid[i]/0.5, std[i], 1e-12)
		assert.InDelta(t, 0.5, vol[i], 1e-12)
	}

	_, err = Fitted(y, m, FitSelector(7))
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestFittedInPlace(t *testing.T) {
	y := ar1Sample(t, 50, 9)
	m := NewARMA(2, 1, []float64{0.6}, nil)

	want, err := Fitted(y, m, FitResidual)
	require.NoError(t, err)

	buf := append([]float64(nil), y...)
	require.NoError(t, FittedInPlace(buf, m, FitResidual))
	for i := range buf {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(buf[i]))
		} else {
			assert.Equal(t, want[i], buf[i])
		}
	}

	bad := append([]float64(nil), y...)
	err = FittedInPlace(bad, NewARMA(2, 1, []float64{2}, nil), FitResidual)
	assert.ErrorIs(t, err, status.ErrInvalidModel)
	assert.Equal(t, y, bad)
}

func TestForecastHorizonZero(t *testing.T) {
	y := ar1Sample(t, 80, 4)
	models := []*MeanModel{
		NewARMA(2, 1, []float64{0.6}, []float64{0.2}),
		NewARIMA(0, 1, []float64{0.3}, 1, nil),
		NewAirline(0, 1, 4, -0.3, -0.5),
	}

	for _, m := range models {
		fit, err := Fitted(y, m, FitMean)
		require.NoError(t, err)
		got, err := ForecastAt(y, m, 0, forecast.Mean, 0.05)
		require.NoError(t, err)
		assert.InDelta(t, fit[len(fit)-1], got, 1e-12, m.Family.String())
	}
}

func TestForecastIntervalWidth(t *testing.T) {
	y := ar1Sample(t, 80, 5)
	m := NewARMA(2, 1, []float64{0.6}, nil)

	r, err := Forecast(y, m, 10, 0.05)
	require.NoError(t, err)
	for h := 1; h <= 10; h++ {
		se, err := r.At(h, forecast.StdError)
		require.NoError(t, err)
		lo, _ := r.At(h, forecast.Lower)
		hi, _ := r.At(h, forecast.Upper)
		assert.InDelta(t, 2*1.959964*se, hi-lo, 1e-5)
	}

	up, err := ForecastAt(y, m, 3, forecast.Upper, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, r.Upper[2], up, 1e-12)
}

func TestForecastGARCHTermStructure(t *testing.T) {
	m := NewGARCH(0, 0.1, []float64{0.1}, []float64{0.85})
	y, err := Simulate(m, nil, 300, 21)
	require.NoError(t, err)

	r, err := Forecast(y, m, 400, 0.05)
	require.NoError(t, err)
	lr, err := LongRunVariance(m)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(lr), r.StdErr[399], 1e-3)
	assert.InDelta(t, 0, r.Mean[0], 1e-12)
}

func TestForecastErrors(t *testing.T) {
	y := ar1Sample(t, 30, 6)
	m := NewARMA(2, 1, []float64{0.6}, nil)

	_, err := Forecast(y, m, -1, 0.05)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
	_, err = Forecast(y, m, 5, 1.5)
	assert.ErrorIs(t, err, status.ErrInvalidValue)

	x := make([][]float64, len(y)+2)
	for i := range x {
		x[i] = []float64{float64(i)}
	}
	mx := NewSARIMAX(0, 1, nil, 0, nil, 0, nil, 0, nil, []float64{0.1}, x)
	_, err = Forecast(y, mx, 2, 0.05)
	require.NoError(t, err)
	_, err = Forecast(y, mx, 3, 0.05)
	assert.ErrorIs(t, err, status.ErrLength)
	assert.Equal(t, status.LengthError, status.Code(err))
}

func TestForecastExogenous(t *testing.T) {
	n := 40
	x := make([][]float64, n+3)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{float64(i % 5)}
	}
	for i := range y {
		y[i] = 1 + 2*x[i][0]
	}
	m := NewSARIMAX(1, 0.1, nil, 0, nil, 0, nil, 0, nil, []float64{2}, x)

	r, err := Forecast(y, m, 3, 0.05)
	require.NoError(t, err)
	for h := 0; h < 3; h++ {
		assert.InDelta(t, 1+2*x[n+h][0], r.Mean[h], 1e-12)
	}
}

func TestSimulateReproducible(t *testing.T) {
	models := []interface {
		run(seed uint64) ([]float64, error)
	}{
		simRunner[*MeanModel]{NewSARIMA(0.1, 1, []float64{0.3}, 1, []float64{0.2}, 4, nil, 1, []float64{-0.4})},
		simRunner[*MeanModel]{NewFARIMA(1, 1, nil, 0.3, nil).WithInnovation(innovation.StudentT, 6)},
		simRunner[*VarianceModel]{NewEGARCH(0, -0.1, []float64{0.1}, []float64{-0.1}, []float64{0.9}).WithInnovation(innovation.GED, 1.5)},
		simRunner[*VarianceModel]{NewGARCHM(0, 0.2, 0.1, []float64{0.1}, []float64{0.8})},
	}

	for _, r := range models {
		a, err := r.run(17)
		require.NoError(t, err)
		b, err := r.run(17)
		require.NoError(t, err)
		c, err := r.run(18)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
	}
}

type simRunner[M Model] struct{ m M }

func (s simRunner[M]) run(seed uint64) ([]float64, error) {
	return Simulate(s.m, []float64{0.5, 0.1, -0.2, 0.3, 0.2, 0.0}, 30, seed)
}

func TestSimulateBatch(t *testing.T) {
	m := NewARMA(0, 1, []float64{0.4}, []float64{0.2})
	history := []float64{math.NaN(), 0.1, 0.3}
	seeds := []uint64{3, 1, 4, 1, 5}

	paths, err := SimulateBatch(context.Background(), m, history, 12, seeds)
	require.NoError(t, err)
	for i, seed := range seeds {
		want, err := Simulate(m, history, 12, seed)
		require.NoError(t, err)
		assert.Equal(t, want, paths[i])
	}
	assert.Equal(t, paths[1], paths[3])

	_, err = SimulateBatch(context.Background(), NewARMA(0, 1, []float64{3}, nil), history, 12, seeds)
	assert.ErrorIs(t, err, status.ErrInvalidModel)
}

func TestEstimateInitialAR2(t *testing.T) {
	y, err := Simulate(NewARMA(0, 1, []float64{0.5, -0.3}, nil), nil, 2000, 31)
	require.NoError(t, err)

	m, err := EstimateInitial(y, NewARMA(0, 0, make([]float64, 2), nil))
	require.NoError(t, err)
	require.NoError(t, Validate(m))
	assert.InDelta(t, 0.5, m.Phi[0], 0.08)
	assert.InDelta(t, -0.3, m.Phi[1], 0.08)
	assert.InDelta(t, 1, m.Sigma, 0.08)
}

func TestEstimateInitialShapes(t *testing.T) {
	y := ar1Sample(t, 300, 12)

	tests := []struct {
		name string
		m    *MeanModel
	}{
		{"arma", NewARMA(0, 0, []float64{0}, []float64{0})},
		{"arima", NewARIMA(0, 0, []float64{0}, 1, []float64{0})},
		{"sarima", NewSARIMA(0, 0, []float64{0}, 0, []float64{0}, 4, []float64{0}, 1, []float64{0})},
		{"farima", NewFARIMA(0, 0, nil, 0, nil)},
		{"airline", NewAirline(0, 0, 4, 0, 0)},
		{"student-t", NewARMA(0, 0, []float64{0}, nil).WithInnovation(innovation.StudentT, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := EstimateInitial(y, tt.m)
			require.NoError(t, err)
			assert.NoError(t, Validate(m))
			assert.Greater(t, m.Sigma, 0.0)
		})
	}
}

func TestCalibrateAR1(t *testing.T) {
	y := ar1Sample(t, 600, 11)

	cal, err := Calibrate(y, NewARMA(0, 0, []float64{0}, nil))
	require.NoError(t, err)
	assert.True(t, cal.Converged)
	assert.Equal(t, calibrate.Converged, cal.State)

	m := cal.Model
	assert.InDelta(t, 0.6, m.Phi[0], 0.1)
	assert.InDelta(t, 2, m.Mu, 0.35)
	assert.InDelta(t, 1, m.Sigma, 0.1)

	llf, err := GOF(y, m, likelihood.LLF)
	require.NoError(t, err)
	assert.InDelta(t, llf, cal.LLF, 1e-6)

	se, err := StandardErrors(y, m)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt((1-m.Phi[0]*m.Phi[0])/599), se.Phi[0], 0.015)
	assert.InDelta(t, m.Sigma/math.Sqrt(2*599), se.Sigma, 0.01)
	assert.Greater(t, se.Mu, 0.0)
}

func TestCalibrateIterationLimit(t *testing.T) {
	y := ar1Sample(t, 200, 13)

	cal, err := Calibrate(y, NewARMA(0, 1, []float64{-0.5}, []float64{0.5}), WithMaxIter(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCalibration)
	assert.Equal(t, status.CalibrationErr, status.Code(err))
	require.NotNil(t, cal)
	assert.False(t, cal.Converged)
}

func TestCalibrateGARCH(t *testing.T) {
	truth := NewGARCH(0.05, 0.1, []float64{0.1}, []float64{0.8})
	y, err := Simulate(truth, nil, 2000, 41)
	require.NoError(t, err)

	cal, err := Calibrate(y, NewGARCH(0, 0, []float64{0}, []float64{0}))
	require.NoError(t, err)

	m := cal.Model
	require.NoError(t, Validate(m))
	assert.InDelta(t, 0.05, m.Mu, 0.1)
	assert.InDelta(t, 0.9, m.Alpha[0]+m.Beta[0], 0.08)

	lr, err := LongRunVariance(m)
	require.NoError(t, err)
	assert.InDelta(t, stat.Variance(y, nil), lr, 1e-9)
}

func TestAirlineEndToEnd(t *testing.T) {
	s, err := timeseries.LoadCSV(filepath.Join("testdata", "airline.csv"), nil)
	require.NoError(t, err)
	require.Equal(t, 144, s.Len())
	y := s.Values

	m := NewAirline(0, 1, 12, -0.4, -0.6)
	require.NoError(t, Validate(m))

	llf, err := GOF(y, m, likelihood.LLF)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(llf) || math.IsInf(llf, 0))

	cal, err := Calibrate(y, m)
	require.NoError(t, err)
	fitted := cal.Model
	require.NoError(t, Validate(fitted))
	assert.Greater(t, cal.LLF, llf)

	r, err := Forecast(y, fitted, 12, 0.05)
	require.NoError(t, err)
	lastYear := stat.Mean(y[132:], nil)
	for _, v := range r.Mean {
		assert.Greater(t, v, 0.0)
	}
	assert.Greater(t, stat.Mean(r.Mean, nil), lastYear)
	assert.Greater(t, r.Mean[11], y[131])

	std, err := Fitted(y, fitted, FitStdResid)
	require.NoError(t, err)
	z := observedValues(std)
	require.Len(t, z, 144-13)
	mean, variance := stat.PopMeanVariance(z, nil)
	assert.InDelta(t, 0, mean, 0.25)
	assert.InDelta(t, 1, variance, 0.25)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("SARIMAX")
	require.NoError(t, err)
	assert.Equal(t, SARIMAX, f)

	f, err = ParseFamily("garchm")
	require.NoError(t, err)
	assert.Equal(t, GARCHM, f)
	assert.True(t, f.IsVariance())
	assert.False(t, f.IsMean())

	_, err = ParseFamily("holt-winters")
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestParameters(t *testing.T) {
	m := NewSARIMAX(0.1, 2, []float64{0.3}, 1, nil, 12, nil, 1, []float64{-0.5}, []float64{0.7}, nil).
		WithInnovation(innovation.StudentT, 6)

	names := make([]string, 0)
	for _, p := range m.Parameters() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"mu", "phi1", "stheta1", "beta1", "sigma", "nu"}, names)

	g := NewEGARCH(0, -0.1, []float64{0.1}, []float64{-0.1}, []float64{0.9})
	assert.Len(t, g.Parameters(), 5)
}

func TestCodecRoundTrip(t *testing.T) {
	m := NewSARIMA(0.2, 1.5, []float64{0.5, -0.2}, 1, []float64{0.3}, 4, []float64{0.4}, 1, []float64{-0.6}).
		WithInnovation(innovation.GED, 1.4)
	x, err := m.encode()
	require.NoError(t, err)

	got := copyOf(m)
	got.decode(x, 0)
	assert.InDeltaSlice(t, m.pack(), got.pack(), 1e-9)

	g := NewGARCH(0.1, 0.05, []float64{0.1, 0.05}, []float64{0.8})
	gx, err := g.encode()
	require.NoError(t, err)
	gg := copyOf(g)
	gg.decode(gx, 1)
	assert.InDeltaSlice(t, g.Alpha, gg.Alpha, 1e-9)
	assert.InDeltaSlice(t, g.Beta, gg.Beta, 1e-9)
	assert.InDelta(t, 0.05, gg.Omega, 1e-9)
}
