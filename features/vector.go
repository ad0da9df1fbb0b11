package features

import (
	"math"
)

// FeatureVector is the fixed-length set of acoustic descriptors the scoring
// models consume. All components are finite after Sanitize; a failed
// sub-feature computation is replaced with its documented neutral default
// rather than propagating NaN/Inf downstream.
type FeatureVector struct {
	// Pitch statistics over voiced frames (Hz)
	PitchMean   float64 `json:"pitch_mean"`
	PitchStd    float64 `json:"pitch_std"`
	PitchMin    float64 `json:"pitch_min"`
	PitchMax    float64 `json:"pitch_max"`
	PitchRange  float64 `json:"pitch_range"`
	F0Stability float64 `json:"f0_stability"` // 1 - CV of the F0 track, 0-1

	// Perturbation and noise measures
	JitterPercent  float64 `json:"jitter_percent"`
	ShimmerPercent float64 `json:"shimmer_percent"`
	HNRdB          float64 `json:"hnr_db"`

	// Spectral descriptors averaged over voiced frames
	SpectralCentroid  float64 `json:"spectral_centroid"`
	SpectralRolloff   float64 `json:"spectral_rolloff"`
	SpectralFlatness  float64 `json:"spectral_flatness"`
	SpectralBandwidth float64 `json:"spectral_bandwidth"`

	// Energy statistics over all frames
	EnergyMean     float64 `json:"energy_mean"`
	EnergyStd      float64 `json:"energy_std"`
	EnergySkewness float64 `json:"energy_skewness"`
	EnergyKurtosis float64 `json:"energy_kurtosis"`

	// Temporal structure
	ZCRMean     float64 `json:"zcr_mean"`
	VoicedRatio float64 `json:"voiced_ratio"`
	PauseRatio  float64 `json:"pause_ratio"`

	DurationSec float64 `json:"duration_sec"`
}

// NumFeatures is the dimensionality of the feature vector.
const NumFeatures = 21

// Neutral defaults substituted for non-finite components. Values are chosen
// as the population medians of healthy adult speech so a failed sub-feature
// neither raises nor lowers any screening score.
var featureDefaults = FeatureVector{
	PitchMean:         140.0,
	PitchStd:          20.0,
	PitchMin:          100.0,
	PitchMax:          220.0,
	PitchRange:        120.0,
	F0Stability:       0.85,
	JitterPercent:     0.8,
	ShimmerPercent:    3.0,
	HNRdB:             18.0,
	SpectralCentroid:  1400.0,
	SpectralRolloff:   3200.0,
	SpectralFlatness:  0.25,
	SpectralBandwidth: 1600.0,
	EnergyMean:        0.08,
	EnergyStd:         0.04,
	EnergySkewness:    0.0,
	EnergyKurtosis:    0.0,
	ZCRMean:           0.08,
	VoicedRatio:       0.6,
	PauseRatio:        0.2,
	DurationSec:       10.0,
}

// AsSlice returns the components in their fixed canonical order.
func (fv *FeatureVector) AsSlice() []float64 {
	return []float64{
		fv.PitchMean, fv.PitchStd, fv.PitchMin, fv.PitchMax, fv.PitchRange,
		fv.F0Stability,
		fv.JitterPercent, fv.ShimmerPercent, fv.HNRdB,
		fv.SpectralCentroid, fv.SpectralRolloff, fv.SpectralFlatness, fv.SpectralBandwidth,
		fv.EnergyMean, fv.EnergyStd, fv.EnergySkewness, fv.EnergyKurtosis,
		fv.ZCRMean, fv.VoicedRatio, fv.PauseRatio,
		fv.DurationSec,
	}
}

// Sanitize replaces every non-finite component with its documented neutral
// default and returns the number of substitutions made.
func (fv *FeatureVector) Sanitize() int {
	replaced := 0

	fix := func(v *float64, def float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
			replaced++
		}
	}

	fix(&fv.PitchMean, featureDefaults.PitchMean)
	fix(&fv.PitchStd, featureDefaults.PitchStd)
	fix(&fv.PitchMin, featureDefaults.PitchMin)
	fix(&fv.PitchMax, featureDefaults.PitchMax)
	fix(&fv.PitchRange, featureDefaults.PitchRange)
	fix(&fv.F0Stability, featureDefaults.F0Stability)
	fix(&fv.JitterPercent, featureDefaults.JitterPercent)
	fix(&fv.ShimmerPercent, featureDefaults.ShimmerPercent)
	fix(&fv.HNRdB, featureDefaults.HNRdB)
	fix(&fv.SpectralCentroid, featureDefaults.SpectralCentroid)
	fix(&fv.SpectralRolloff, featureDefaults.SpectralRolloff)
	fix(&fv.SpectralFlatness, featureDefaults.SpectralFlatness)
	fix(&fv.SpectralBandwidth, featureDefaults.SpectralBandwidth)
	fix(&fv.EnergyMean, featureDefaults.EnergyMean)
	fix(&fv.EnergyStd, featureDefaults.EnergyStd)
	fix(&fv.EnergySkewness, featureDefaults.EnergySkewness)
	fix(&fv.EnergyKurtosis, featureDefaults.EnergyKurtosis)
	fix(&fv.ZCRMean, featureDefaults.ZCRMean)
	fix(&fv.VoicedRatio, featureDefaults.VoicedRatio)
	fix(&fv.PauseRatio, featureDefaults.PauseRatio)
	fix(&fv.DurationSec, featureDefaults.DurationSec)

	return replaced
}

// IsFinite reports whether every component is a finite number.
func (fv *FeatureVector) IsFinite() bool {
	for _, v := range fv.AsSlice() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
