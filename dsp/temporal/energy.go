package temporal

import (
	"math"
)

// Energy computes short-time energy features over overlapping frames.
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ShortTimeRMS calculates the RMS energy of each overlapping frame.
func (e *Energy) ShortTimeRMS(signal []float64) []float64 {
	if len(signal) < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, numFrames)

	for i := range numFrames {
		start := i * e.hopSize
		end := start + e.frameSize

		sumSquares := 0.0
		for j := start; j < end; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return energies
}

// LogEnergy calculates per-frame energy in dB, floored to avoid -Inf on
// silent frames.
func (e *Energy) LogEnergy(signal []float64, floor float64) []float64 {
	energies := e.ShortTimeRMS(signal)
	logEnergies := make([]float64, len(energies))

	for i, energy := range energies {
		if energy < floor {
			energy = floor
		}
		logEnergies[i] = 20.0 * math.Log10(energy)
	}

	return logEnergies
}

// RMS returns the RMS amplitude of the whole signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, s := range signal {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(signal)))
}

// ZeroCrossingRate returns the fraction of consecutive sample pairs that
// cross zero.
func ZeroCrossingRate(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(signal); i++ {
		if (signal[i] > 0 && signal[i-1] <= 0) || (signal[i] <= 0 && signal[i-1] > 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(signal)-1)
}
