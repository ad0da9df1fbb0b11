package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHannShape(t *testing.T) {
	req := require.New(t)
	hann := NewHann(5)

	coeffs := hann.Coefficients()
	req.Equal(5, hann.Size())
	req.InDelta(0.0, coeffs[0], 1e-12)
	req.InDelta(0.5, coeffs[1], 1e-12)
	req.InDelta(1.0, coeffs[2], 1e-12)
	req.InDelta(0.5, coeffs[3], 1e-12)
	req.InDelta(0.0, coeffs[4], 1e-12)
}

func TestApply(t *testing.T) {
	req := require.New(t)
	hann := NewHann(5)

	signal := []float64{2, 2, 2, 2, 2}
	windowed := hann.Apply(signal)
	req.InDelta(0.0, windowed[0], 1e-12)
	req.InDelta(2.0, windowed[2], 1e-12)
	req.Equal([]float64{2, 2, 2, 2, 2}, signal) // input untouched

	req.Nil(hann.Apply(make([]float64, 4)))
}

func TestApplyInPlace(t *testing.T) {
	req := require.New(t)
	hann := NewHann(5)

	signal := []float64{2, 2, 2, 2, 2}
	req.NoError(hann.ApplyInPlace(signal))
	req.InDelta(0.0, signal[0], 1e-12)
	req.InDelta(2.0, signal[2], 1e-12)

	req.Error(hann.ApplyInPlace(make([]float64, 4)))
}
