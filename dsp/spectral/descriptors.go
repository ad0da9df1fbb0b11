package spectral

import (
	"math"
)

// Descriptors computes summary descriptors of a magnitude spectrum: centroid,
// rolloff, flatness and bandwidth. Frequency bins are precomputed per spectrum
// length and reused across frames.
type Descriptors struct {
	sampleRate int
	freqBins   []float64
}

// NewDescriptors creates a descriptor calculator for the given sample rate.
func NewDescriptors(sampleRate int) *Descriptors {
	return &Descriptors{sampleRate: sampleRate}
}

// Centroid calculates the spectral centroid (center of mass) in Hz.
func (d *Descriptors) Centroid(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}
	d.ensureFreqBins(len(spectrum))

	numerator := 0.0
	denominator := 0.0
	for i := range spectrum {
		numerator += d.freqBins[i] * spectrum[i]
		denominator += spectrum[i]
	}

	if denominator == 0 {
		return 0.0
	}
	return numerator / denominator
}

// Rolloff returns the frequency below which the given fraction of total
// spectral energy is concentrated (typically 0.85).
func (d *Descriptors) Rolloff(spectrum []float64, fraction float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}
	d.ensureFreqBins(len(spectrum))

	totalEnergy := 0.0
	for _, s := range spectrum {
		totalEnergy += s * s
	}
	if totalEnergy == 0 {
		return 0.0
	}

	threshold := fraction * totalEnergy
	cumulative := 0.0
	for i, s := range spectrum {
		cumulative += s * s
		if cumulative >= threshold {
			return d.freqBins[i]
		}
	}

	return d.freqBins[len(spectrum)-1]
}

// Flatness returns the spectral flatness (geometric mean / arithmetic mean),
// in [0,1]. Near 1 for noise-like spectra, near 0 for tonal spectra.
func (d *Descriptors) Flatness(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	const eps = 1e-10
	logSum := 0.0
	arithSum := 0.0
	for _, s := range spectrum {
		logSum += math.Log(s + eps)
		arithSum += s + eps
	}

	n := float64(len(spectrum))
	geoMean := math.Exp(logSum / n)
	arithMean := arithSum / n

	if arithMean == 0 {
		return 0.0
	}
	return geoMean / arithMean
}

// Bandwidth returns the magnitude-weighted standard deviation of frequency
// around the spectral centroid, in Hz.
func (d *Descriptors) Bandwidth(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}
	d.ensureFreqBins(len(spectrum))

	centroid := d.Centroid(spectrum)

	numerator := 0.0
	denominator := 0.0
	for i, s := range spectrum {
		diff := d.freqBins[i] - centroid
		numerator += diff * diff * s
		denominator += s
	}

	if denominator == 0 {
		return 0.0
	}
	return math.Sqrt(numerator / denominator)
}

// ensureFreqBins pre-calculates frequency bins for the spectrum length
func (d *Descriptors) ensureFreqBins(numBins int) {
	if len(d.freqBins) == numBins {
		return
	}

	d.freqBins = make([]float64, numBins)
	for i := range numBins {
		d.freqBins[i] = float64(i) * float64(d.sampleRate) / float64((numBins-1)*2)
	}
}
