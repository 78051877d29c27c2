package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/likelihood"
)

// calibrateSimulated fits start to a path drawn from truth and checks that
// the optimum is at least as likely as the true parameters, up to slack.
func calibrateSimulated[M Model](t *testing.T, truth, start M, n int, seed uint64, slack float64) ([]float64, *Calibration[M]) {
	t.Helper()
	y, err := Simulate(truth, nil, n, seed)
	require.NoError(t, err)

	cal, err := Calibrate(y, start)
	require.NoError(t, err)
	require.NoError(t, Validate(cal.Model))
	assert.True(t, cal.Converged)

	llf, err := GOF(y, truth, likelihood.LLF)
	require.NoError(t, err)
	assert.Greater(t, cal.LLF, llf-slack)
	return y, cal
}

func TestCalibrateMeanFamilies(t *testing.T) {
	t.Run("farima", func(t *testing.T) {
		truth := NewFARIMA(1, 1, nil, 0.3, nil)
		_, cal := calibrateSimulated(t, truth, NewFARIMA(0, 1, nil, 0, nil), 800, 61, 0.5)
		assert.InDelta(t, 0.3, cal.Model.FracD, 0.1)
		assert.InDelta(t, 1, cal.Model.Sigma, 0.08)
	})

	t.Run("sarimax", func(t *testing.T) {
		n := 1500
		exog := make([][]float64, n)
		for i := range exog {
			exog[i] = []float64{math.Sin(0.3*float64(i)) + 0.5*math.Cos(1.7*float64(i))}
		}
		truth := NewSARIMAX(1, 1, []float64{0.5}, 0, nil, 0, nil, 0, nil, []float64{2}, exog)
		start := NewSARIMAX(0, 1, []float64{0}, 0, nil, 0, nil, 0, nil, []float64{0}, exog)

		_, cal := calibrateSimulated(t, truth, start, n, 62, 0.5)
		assert.InDelta(t, 2, cal.Model.Beta[0], 0.1)
		assert.InDelta(t, 0.5, cal.Model.Phi[0], 0.06)
	})

	t.Run("student-t", func(t *testing.T) {
		truth := NewARMA(0, 1, []float64{0.6}, nil).WithInnovation(innovation.StudentT, 5)
		start := NewARMA(0, 1, []float64{0}, nil).WithInnovation(innovation.StudentT, 10)

		y, cal := calibrateSimulated(t, truth, start, 3000, 63, 0.5)
		m := cal.Model
		assert.InDelta(t, 0.6, m.Phi[0], 0.05)
		assert.InDelta(t, 1, m.Sigma, 0.06)
		assert.InDelta(t, 5, m.Nu, 2)

		se, err := StandardErrors(y, m)
		require.NoError(t, err)
		for _, p := range se.Parameters() {
			assert.Greater(t, p.Value, 0.0, p.Name)
			assert.False(t, math.IsInf(p.Value, 0) || math.IsNaN(p.Value), p.Name)
		}
		assert.Less(t, se.Phi[0], 0.05)
	})

	t.Run("ged", func(t *testing.T) {
		truth := NewARMA(0, 1, nil, []float64{0.4}).WithInnovation(innovation.GED, 1.3)
		start := NewARMA(0, 1, nil, []float64{0}).WithInnovation(innovation.GED, 2)

		_, cal := calibrateSimulated(t, truth, start, 3000, 64, 0.5)
		assert.InDelta(t, 0.4, cal.Model.Theta[0], 0.06)
		assert.InDelta(t, 1.3, cal.Model.Nu, 0.3)
	})
}

func TestCalibrateVarianceFamilies(t *testing.T) {
	t.Run("egarch", func(t *testing.T) {
		truth := NewEGARCH(0, -0.1, []float64{0.15}, []float64{-0.08}, []float64{0.9})
		start := NewEGARCH(0, 0, []float64{0.1}, []float64{0}, []float64{0.8})

		_, cal := calibrateSimulated(t, truth, start, 3000, 65, 5)
		m := cal.Model
		assert.InDelta(t, 0.15, m.Alpha[0], 0.1)
		assert.InDelta(t, -0.08, m.Gamma[0], 0.1)
		assert.InDelta(t, 0.9, m.Beta[0], 0.07)
	})

	t.Run("garch-m", func(t *testing.T) {
		truth := NewGARCHM(0, 0.2, 0.1, []float64{0.1}, []float64{0.8})
		start := NewGARCHM(0, 0, 0.1, []float64{0.05}, []float64{0.7})

		_, cal := calibrateSimulated(t, truth, start, 3000, 66, 5)
		m := cal.Model
		assert.InDelta(t, 0.9, m.Alpha[0]+m.Beta[0], 0.1)
		assert.InDelta(t, 0.8, m.Beta[0], 0.15)
	})
}

func TestCalibrateFromZeroWeights(t *testing.T) {
	tests := []struct {
		name  string
		truth *VarianceModel
		start *VarianceModel
	}{
		{"garch", NewGARCH(0, 0.1, []float64{0.1}, []float64{0.8}), NewGARCH(0, 1, []float64{0}, []float64{0})},
		{"egarch", NewEGARCH(0, -0.1, []float64{0.15}, []float64{-0.08}, []float64{0.9}), NewEGARCH(0, 0, []float64{0}, []float64{0}, []float64{0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := Simulate(tt.truth, nil, 2000, 57)
			require.NoError(t, err)
			require.NoError(t, Validate(tt.start))
			require.True(t, tt.start.onBoundary())

			cal, err := Calibrate(y, tt.start)
			require.NoError(t, err)
			assert.Greater(t, cal.Model.Alpha[0], boundaryWeight)
			assert.Greater(t, cal.Model.Beta[0], 0.5)

			guess, err := EstimateInitial(y, tt.start)
			require.NoError(t, err)
			fromGuess, err := Calibrate(y, guess)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, cal.LLF, fromGuess.LLF-1e-9)
		})
	}
}

func TestOnBoundary(t *testing.T) {
	assert.False(t, NewARMA(0, 1, []float64{0.5}, []float64{0.3}).onBoundary())
	assert.True(t, NewARMA(0, 1, []float64{0.9995}, nil).onBoundary())
	assert.True(t, NewFARIMA(0, 1, nil, 0.4999, nil).onBoundary())
	assert.False(t, NewGARCH(0, 0.1, []float64{0.1}, []float64{0.8}).onBoundary())
	assert.True(t, NewGARCH(0, 0.1, []float64{0.1}, []float64{0}).onBoundary())
}

func TestSeasonalTermsWithoutSeason(t *testing.T) {
	y := ar1Sample(t, 400, 19)
	arma := NewARMA(2, 1, []float64{0.5}, nil)
	flat := NewSARIMA(2, 1, []float64{0.5}, 0, nil, 0, []float64{0.2}, 0, nil)
	require.NoError(t, Validate(flat))

	assert.Equal(t, arma.Parameters(), flat.Parameters())
	for _, metric := range []likelihood.Metric{likelihood.LLF, likelihood.AIC, likelihood.BIC, likelihood.HQC} {
		want, err := GOF(y, arma, metric)
		require.NoError(t, err)
		got, err := GOF(y, flat, metric)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, metric.String())
	}

	cal, err := Calibrate(y, flat)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2}, cal.Model.SPhi)

	se, err := StandardErrors(y, cal.Model)
	require.NoError(t, err)
	assert.Greater(t, se.Phi[0], 0.0)
	assert.Greater(t, se.Sigma, 0.0)
}
