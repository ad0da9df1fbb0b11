package pitch

import (
	"fmt"
	"math"
)

// Params contains parameters for fundamental-frequency estimation.
type Params struct {
	SampleRate int     `json:"sample_rate"`
	WindowSize int     `json:"window_size"`
	MinFreq    float64 `json:"min_freq"` // Minimum F0 (Hz)
	MaxFreq    float64 `json:"max_freq"` // Maximum F0 (Hz)

	// YinThreshold is the absolute threshold on the cumulative mean
	// normalized difference function (0.1-0.5 typical).
	YinThreshold float64 `json:"yin_threshold"`

	// PreEmphasis applies y[n] = x[n] - 0.97*x[n-1] before analysis.
	PreEmphasis bool `json:"pre_emphasis"`
}

// DefaultParams returns parameters tuned for adult speech.
func DefaultParams(sampleRate int) Params {
	return Params{
		SampleRate:   sampleRate,
		WindowSize:   1024,
		MinFreq:      50.0,  // Low male voice
		MaxFreq:      500.0, // High female voice
		YinThreshold: 0.15,
		PreEmphasis:  true,
	}
}

// Estimate is a single-frame pitch estimate.
type Estimate struct {
	Frequency  float64 `json:"frequency"`  // F0 in Hz, 0 when unvoiced
	Confidence float64 `json:"confidence"` // 0-1
	Voiced     bool    `json:"voiced"`
}

// Tracker implements the YIN fundamental-frequency estimator.
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music"
//
// The tracker is stateless across frames: identical frames always produce
// identical estimates, which the screening pipeline relies on for
// reproducible reports.
type Tracker struct {
	params Params
	hann   []float64
}

// NewTracker creates a YIN tracker with the given parameters.
func NewTracker(params Params) *Tracker {
	t := &Tracker{params: params}
	t.hann = make([]float64, params.WindowSize)
	for i := range t.hann {
		t.hann[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(params.WindowSize-1)))
	}
	return t
}

// Estimate estimates the fundamental frequency of a single frame. The frame
// length must match the configured window size.
func (t *Tracker) Estimate(frame []float64) (*Estimate, error) {
	if len(frame) != t.params.WindowSize {
		return nil, fmt.Errorf("frame size (%d) doesn't match window size (%d)",
			len(frame), t.params.WindowSize)
	}

	processed := t.preprocess(frame)

	n := len(processed)
	halfN := n / 2

	// Difference function
	diff := make([]float64, halfN)
	for tau := range halfN {
		sum := 0.0
		for j := range halfN {
			delta := processed[j] - processed[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference function
	cmndf := make([]float64, halfN)
	cmndf[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau < halfN; tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmndf[tau] = 1.0
			continue
		}
		cmndf[tau] = diff[tau] / (runningSum / float64(tau))
	}

	// First local minimum below threshold within the valid lag range
	minLag := int(float64(t.params.SampleRate) / t.params.MaxFreq)
	maxLag := int(float64(t.params.SampleRate) / t.params.MinFreq)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= halfN {
		maxLag = halfN - 1
	}

	minTau := -1
	for tau := minLag; tau <= maxLag; tau++ {
		if cmndf[tau] < t.params.YinThreshold {
			for tau+1 <= maxLag && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			minTau = tau
			break
		}
	}

	if minTau < 0 {
		return &Estimate{}, nil
	}

	period := parabolicInterpolation(cmndf, minTau)
	frequency := float64(t.params.SampleRate) / period
	confidence := 1.0 - cmndf[minTau]

	if frequency < t.params.MinFreq || frequency > t.params.MaxFreq {
		return &Estimate{}, nil
	}

	return &Estimate{
		Frequency:  frequency,
		Confidence: confidence,
		Voiced:     true,
	}, nil
}

// preprocess applies pre-emphasis and the Hann window.
func (t *Tracker) preprocess(frame []float64) []float64 {
	processed := make([]float64, len(frame))

	if t.params.PreEmphasis {
		processed[0] = frame[0]
		for i := 1; i < len(frame); i++ {
			processed[i] = frame[i] - 0.97*frame[i-1]
		}
	} else {
		copy(processed, frame)
	}

	for i := range processed {
		processed[i] *= t.hann[i]
	}

	return processed
}

// parabolicInterpolation refines a minimum location to sub-sample accuracy.
func parabolicInterpolation(data []float64, idx int) float64 {
	if idx <= 0 || idx >= len(data)-1 {
		return float64(idx)
	}

	y1 := data[idx-1]
	y2 := data[idx]
	y3 := data[idx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(idx)
	}

	return float64(idx) - b/(2*a)
}
