package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gotsmodel/status"
)

func TestDifference(t *testing.T) {
	y := []float64{1, 4, 9, 16, 25, 36}

	assert.Equal(t, y, Difference(y, 1, 0))
	assert.Equal(t, []float64{3, 5, 7, 9, 11}, Difference(y, 1, 1))
	assert.Equal(t, []float64{2, 2, 2, 2}, Difference(y, 1, 2))
	assert.Equal(t, []float64{8, 12, 16, 20}, Difference(y, 2, 1))
	assert.Empty(t, Difference(y, 3, 2))
}

func TestIntegrateInvertsDifference(t *testing.T) {
	y := []float64{112, 118, 132, 129, 121, 135, 148, 148, 136, 119, 104, 118, 115, 126, 141}

	cases := []struct{ lag, order int }{{1, 1}, {1, 2}, {3, 1}, {4, 2}}
	for _, c := range cases {
		diffs := Difference(y, c.lag, c.order)
		seed := y[:c.lag*c.order]

		got, err := Integrate(diffs, seed, c.lag, c.order)
		require.NoError(t, err)
		require.Len(t, got, len(y))
		assert.InDeltaSlice(t, y, got, 1e-9, "lag=%d order=%d", c.lag, c.order)
	}
}

func TestIntegrateSeedLength(t *testing.T) {
	_, err := Integrate([]float64{1, 2}, []float64{1}, 1, 2)
	assert.ErrorIs(t, err, status.ErrLength)
}

func TestFracWeights(t *testing.T) {
	w := FracWeights(0.4, 4)
	require.Len(t, w, 4)
	assert.Equal(t, 1.0, w[0])
	assert.InDelta(t, -0.4, w[1], 1e-12)
	assert.InDelta(t, -0.12, w[2], 1e-12)
	assert.InDelta(t, -0.064, w[3], 1e-12)

	// d=1 collapses to the ordinary first difference.
	assert.InDeltaSlice(t, []float64{1, -1, 0, 0}, FracWeights(1, 4), 1e-12)
	assert.Nil(t, FracWeights(0.3, 0))
}

func TestFracIntegrateInvertsFracDiff(t *testing.T) {
	y := []float64{0.3, -0.2, 0.5, 1.1, 0.7, -0.4, 0.2, 0.9}

	diffs := FracDiff(y, 0.3, 0.25)
	got := FracIntegrate(diffs, 0.3, 0.25)
	assert.InDeltaSlice(t, y, got, 1e-12)
}
