package voice

import (
	"fmt"
	"math"
)

// QualityResult contains perturbation and noise measurements over the voiced
// portion of a recording.
type QualityResult struct {
	Jitter  float64 `json:"jitter"`  // Pitch period irregularity (%)
	Shimmer float64 `json:"shimmer"` // Amplitude irregularity (%)
	HNR     float64 `json:"hnr"`     // Harmonic-to-noise ratio (dB)

	F0Stability float64 `json:"f0_stability"` // 1 - coefficient of variation of F0
	MeanF0      float64 `json:"mean_f0"`      // Mean fundamental frequency (Hz)
	F0Range     float64 `json:"f0_range"`     // F0 range (max - min, Hz)

	NumPeriods int `json:"num_periods"` // Voiced periods analyzed
}

// QualityAnalyzer computes jitter, shimmer and HNR from a voiced-frame pitch
// track. Jitter and shimmer are relative consecutive-difference measures over
// the same voiced-frame set, so both are computed against the identical frame
// selection the pitch track came from.
type QualityAnalyzer struct {
	sampleRate int
}

// NewQualityAnalyzer creates a voice quality analyzer.
func NewQualityAnalyzer(sampleRate int) *QualityAnalyzer {
	return &QualityAnalyzer{sampleRate: sampleRate}
}

// Analyze measures voice quality given the signal, the sample offsets of the
// voiced frames, their F0 estimates and the analysis frame size. At least
// three voiced frames are required for consecutive-difference statistics.
func (qa *QualityAnalyzer) Analyze(signal []float64, frameOffsets []int, f0s []float64, frameSize int) (*QualityResult, error) {
	if len(frameOffsets) != len(f0s) {
		return nil, fmt.Errorf("frame offsets (%d) and F0 track (%d) length mismatch",
			len(frameOffsets), len(f0s))
	}
	if len(f0s) < 3 {
		return nil, fmt.Errorf("insufficient voiced frames for perturbation analysis (found %d, need at least 3)", len(f0s))
	}

	// Period lengths in samples, fractional
	periods := make([]float64, len(f0s))
	for i, f0 := range f0s {
		periods[i] = float64(qa.sampleRate) / f0
	}

	// Per-frame RMS amplitudes on the same voiced set
	amplitudes := make([]float64, len(frameOffsets))
	for i, offset := range frameOffsets {
		end := offset + frameSize
		if end > len(signal) {
			end = len(signal)
		}
		amplitudes[i] = rms(signal[offset:end])
	}

	meanF0, f0Range := f0Statistics(f0s)

	result := &QualityResult{
		Jitter:      relativePerturbation(periods),
		Shimmer:     relativePerturbation(amplitudes),
		HNR:         qa.computeHNR(signal, frameOffsets, amplitudes, meanF0, frameSize),
		F0Stability: stability(f0s),
		MeanF0:      meanF0,
		F0Range:     f0Range,
		NumPeriods:  len(periods),
	}

	return result, nil
}

// relativePerturbation returns the mean absolute consecutive difference
// relative to the mean, as a percentage. This is the classical relative
// jitter/shimmer formulation.
func relativePerturbation(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}

	return (sum / float64(len(values)-1)) / mean * 100.0
}

// computeHNR calculates an autocorrelation-based harmonic-to-noise ratio on
// the highest-energy voiced frame, which is deterministic for a given
// recording.
func (qa *QualityAnalyzer) computeHNR(signal []float64, frameOffsets []int, amplitudes []float64, meanF0 float64, frameSize int) float64 {
	if meanF0 <= 0 || len(frameOffsets) == 0 {
		return 0.0
	}

	bestIdx := 0
	for i, a := range amplitudes {
		if a > amplitudes[bestIdx] {
			bestIdx = i
		}
	}

	start := frameOffsets[bestIdx]
	end := start + frameSize
	if end > len(signal) {
		end = len(signal)
	}
	frame := signal[start:end]
	n := len(frame)
	if n < 4 {
		return 0.0
	}

	// Normalized autocorrelation at lag 0 and around the expected pitch lag
	expectedLag := int(float64(qa.sampleRate) / meanF0)
	if expectedLag < 1 || expectedLag >= n {
		return 0.0
	}

	autocorr := func(lag int) float64 {
		sum := 0.0
		count := n - lag
		for i := range count {
			sum += frame[i] * frame[i+lag]
		}
		return sum / float64(count)
	}

	r0 := autocorr(0)
	if r0 <= 0 {
		return 0.0
	}

	// Search ±25% around the expected lag for the true period peak
	searchRange := expectedLag / 4
	startSearch := expectedLag - searchRange
	if startSearch < 1 {
		startSearch = 1
	}
	endSearch := expectedLag + searchRange
	if endSearch >= n {
		endSearch = n - 1
	}

	maxCorr := 0.0
	for lag := startSearch; lag <= endSearch; lag++ {
		if r := autocorr(lag); r > maxCorr {
			maxCorr = r
		}
	}

	if maxCorr <= 0 || maxCorr >= r0 {
		// Perfectly periodic within numeric precision: cap at 40 dB, the
		// conventional ceiling for sustained clean phonation.
		if maxCorr >= r0 {
			return 40.0
		}
		return 0.0
	}

	hnr := 10 * math.Log10(maxCorr/(r0-maxCorr))
	if hnr > 40.0 {
		hnr = 40.0
	}
	return hnr
}

// stability returns 1 - coefficient of variation, floored at 0.
func stability(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0.0
	}

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	cv := math.Sqrt(variance) / mean
	return math.Max(0.0, 1.0-cv)
}

func f0Statistics(f0s []float64) (mean, span float64) {
	if len(f0s) == 0 {
		return 0.0, 0.0
	}

	minF0 := f0s[0]
	maxF0 := f0s[0]
	for _, f0 := range f0s {
		mean += f0
		if f0 < minF0 {
			minF0 = f0
		}
		if f0 > maxF0 {
			maxF0 = f0
		}
	}

	return mean / float64(len(f0s)), maxF0 - minF0
}

func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}
