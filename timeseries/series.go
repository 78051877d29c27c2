// Package timeseries provides the series buffer consumed and produced by the
// model operations.
package timeseries

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/status"
)

// Missing is the sentinel stored in a series for an absent observation.
var Missing = math.NaN()

// IsMissing reports whether v is the missing sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Series represents a time series with optional timestamps.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("timestamps and values differ in length: %w", status.ErrInvalidArgument)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series, missing values included.
func (s *Series) Len() int {
	return len(s.Values)
}

// Span returns the half-open range [first, last) of the observed core of
// values: leading and trailing missing values are excluded. Missing values
// inside the core are rejected.
func Span(values []float64) (first, last int, err error) {
	first = 0
	for first < len(values) && IsMissing(values[first]) {
		first++
	}
	if first == len(values) {
		return 0, 0, status.ErrEmptySeries
	}
	last = len(values)
	for IsMissing(values[last-1]) {
		last--
	}
	for i := first; i < last; i++ {
		if IsMissing(values[i]) {
			return 0, 0, fmt.Errorf("missing value at interior index %d: %w", i, status.ErrInvalidArgument)
		}
	}
	return first, last, nil
}

// Trim returns the observed core of values (see Span) without copying.
func Trim(values []float64) ([]float64, error) {
	first, last, err := Span(values)
	if err != nil {
		return nil, err
	}
	return values[first:last], nil
}

// Observed returns the non-missing values of the series.
func (s *Series) Observed() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean calculates the arithmetic mean of the non-missing values.
func (s *Series) Mean() float64 {
	obs := s.Observed()
	if len(obs) == 0 {
		return math.NaN()
	}
	return stat.Mean(obs, nil)
}

// Variance calculates the unbiased variance of the non-missing values.
func (s *Series) Variance() float64 {
	obs := s.Observed()
	if len(obs) < 2 {
		return 0
	}
	return stat.Variance(obs, nil)
}

// Std calculates the standard deviation of the non-missing values.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) >= end {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	var timestamps []time.Time
	if s.Timestamps != nil {
		timestamps = make([]time.Time, len(s.Timestamps))
		copy(timestamps, s.Timestamps)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Log applies natural logarithm transformation. Non-positive values become
// missing.
func (s *Series) Log() *Series {
	out := s.Copy()
	for i, v := range out.Values {
		if v > 0 {
			out.Values[i] = math.Log(v)
		} else {
			out.Values[i] = Missing
		}
	}
	out.Name = s.Name + "_log"
	return out
}
