package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gotsmodel/status"
)

func TestNewWithTimestamps(t *testing.T) {
	ts := []time.Time{time.Now(), time.Now().Add(time.Hour)}

	s, err := NewWithTimestamps(ts, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = NewWithTimestamps(ts, []float64{1})
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestSeriesStats(t *testing.T) {
	s := New([]float64{Missing, 1, 2, 3, 4, 5})

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, s.Observed())
	assert.InDelta(t, 3.0, s.Mean(), 1e-12)
	assert.InDelta(t, 2.5, s.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.Std(), 1e-12)

	assert.True(t, math.IsNaN(New([]float64{Missing}).Mean()))
	assert.Equal(t, 0.0, New([]float64{4}).Variance())
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantFirst int
		wantLast  int
		wantErr   error
	}{
		{"full", []float64{1, 2, 3}, 0, 3, nil},
		{"leading and trailing", []float64{Missing, Missing, 1, 2, Missing}, 2, 4, nil},
		{"all missing", []float64{Missing, Missing}, 0, 0, status.ErrEmptySeries},
		{"empty", nil, 0, 0, status.ErrEmptySeries},
		{"interior gap", []float64{1, Missing, 2}, 0, 0, status.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, err := Span(tt.values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestTrim(t *testing.T) {
	core, err := Trim([]float64{Missing, 5, 6, Missing})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, core)
}

func TestSliceAndCopy(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	s.Name = "x"

	sub := s.Slice(1, 3)
	assert.Equal(t, []float64{2, 3}, sub.Values)
	assert.Equal(t, "x", sub.Name)
	assert.Empty(t, s.Slice(4, 2).Values)

	c := s.Copy()
	c.Values[0] = 100
	assert.Equal(t, 1.0, s.Values[0])
}

func TestLog(t *testing.T) {
	s := New([]float64{1, math.E, 0, -1})
	l := s.Log()

	assert.InDelta(t, 0.0, l.Values[0], 1e-12)
	assert.InDelta(t, 1.0, l.Values[1], 1e-12)
	assert.True(t, IsMissing(l.Values[2]))
	assert.True(t, IsMissing(l.Values[3]))
}
