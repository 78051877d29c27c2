package status

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"invalid argument", ErrInvalidArgument, InvalidArg},
		{"wrapped model error", fmt.Errorf("ar polynomial: %w", ErrInvalidModel), InvalidModel},
		{"calibration", fmt.Errorf("bfgs: %w", ErrCalibration), CalibrationErr},
		{"numerical", ErrNumerical, ZeroVariance},
		{"not supported", ErrNotSupported, NotSupported},
		{"unknown", errors.New("boom"), Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Success, CodeOf(1.5, nil))
	assert.Equal(t, NaNResult, CodeOf(math.NaN(), nil))
	assert.Equal(t, NaNResult, CodeOf(math.Inf(1), nil))
	assert.Equal(t, InsufficientObs, CodeOf(math.NaN(), ErrInsufficientObs))
}
