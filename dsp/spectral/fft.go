package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality over real-valued frames.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward FFT of a real signal using mjibson/go-dsp.
// Handles all sizes, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// ComputeInverse computes inverse FFT
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}

// Magnitude returns the single-sided magnitude spectrum of a real frame
// (len(frame)/2 + 1 bins).
func (f *FFT) Magnitude(frame []float64) []float64 {
	spectrum := f.Compute(frame)
	if len(spectrum) == 0 {
		return []float64{}
	}

	numBins := len(spectrum)/2 + 1
	magnitude := make([]float64, numBins)
	for i := range numBins {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		magnitude[i] = math.Sqrt(re*re + im*im)
	}

	return magnitude
}

// Power returns the single-sided power spectrum of a real frame.
func (f *FFT) Power(frame []float64) []float64 {
	magnitude := f.Magnitude(frame)
	power := make([]float64, len(magnitude))
	for i, m := range magnitude {
		power[i] = m * m
	}

	return power
}
