package temporal

// VoicingParams controls the energy/ZCR gate that classifies frames as
// voiced, unvoiced or silent.
type VoicingParams struct {
	FrameSize int `json:"frame_size"`
	HopSize   int `json:"hop_size"`

	// EnergyRatio sets the voiced energy threshold relative to the peak
	// frame energy of the recording.
	EnergyRatio float64 `json:"energy_ratio"`

	// SilenceFloor is an absolute RMS level below which a frame is always
	// treated as silent regardless of the relative threshold.
	SilenceFloor float64 `json:"silence_floor"`

	// MaxVoicedZCR rejects high zero-crossing frames (fricatives, noise)
	// from the voiced set.
	MaxVoicedZCR float64 `json:"max_voiced_zcr"`
}

// DefaultVoicingParams returns thresholds tuned for conversational speech.
func DefaultVoicingParams(frameSize, hopSize int) VoicingParams {
	return VoicingParams{
		FrameSize:    frameSize,
		HopSize:      hopSize,
		EnergyRatio:  0.10,
		SilenceFloor: 1e-4,
		MaxVoicedZCR: 0.30,
	}
}

// FrameClass labels a frame from the voicing detector.
type FrameClass int

const (
	FrameSilent FrameClass = iota
	FrameUnvoiced
	FrameVoiced
)

// VoicingResult holds the per-frame classification of a recording.
type VoicingResult struct {
	Classes     []FrameClass `json:"classes"`
	Energies    []float64    `json:"energies"`
	VoicedCount int          `json:"voiced_count"`
	SilentCount int          `json:"silent_count"`
	VoicedRatio float64      `json:"voiced_ratio"`
	PauseRatio  float64      `json:"pause_ratio"`
}

// VoicingDetector classifies frames as voiced/unvoiced/silent using a
// relative energy gate combined with a zero-crossing ceiling. Voiced speech
// is high-energy and low-ZCR; fricatives are high-ZCR; pauses are
// low-energy.
type VoicingDetector struct {
	params VoicingParams
	energy *Energy
}

// NewVoicingDetector creates a detector with the given parameters.
func NewVoicingDetector(params VoicingParams) *VoicingDetector {
	return &VoicingDetector{
		params: params,
		energy: NewEnergy(params.FrameSize, params.HopSize),
	}
}

// Detect classifies every frame of the signal.
func (vd *VoicingDetector) Detect(signal []float64) *VoicingResult {
	energies := vd.energy.ShortTimeRMS(signal)
	if len(energies) == 0 {
		return &VoicingResult{Classes: []FrameClass{}, Energies: []float64{}}
	}

	peak := 0.0
	for _, e := range energies {
		if e > peak {
			peak = e
		}
	}
	threshold := peak * vd.params.EnergyRatio
	if threshold < vd.params.SilenceFloor {
		threshold = vd.params.SilenceFloor
	}

	result := &VoicingResult{
		Classes:  make([]FrameClass, len(energies)),
		Energies: energies,
	}

	for i, e := range energies {
		start := i * vd.params.HopSize
		frame := signal[start : start+vd.params.FrameSize]

		switch {
		case e < threshold:
			result.Classes[i] = FrameSilent
			result.SilentCount++
		case ZeroCrossingRate(frame) > vd.params.MaxVoicedZCR:
			result.Classes[i] = FrameUnvoiced
		default:
			result.Classes[i] = FrameVoiced
			result.VoicedCount++
		}
	}

	total := float64(len(energies))
	result.VoicedRatio = float64(result.VoicedCount) / total
	result.PauseRatio = float64(result.SilentCount) / total

	return result
}

// VoicedFrames returns the start offsets (in samples) of all voiced frames.
func (vd *VoicingDetector) VoicedFrames(result *VoicingResult) []int {
	offsets := make([]int, 0, result.VoicedCount)
	for i, class := range result.Classes {
		if class == FrameVoiced {
			offsets = append(offsets, i*vd.params.HopSize)
		}
	}
	return offsets
}
