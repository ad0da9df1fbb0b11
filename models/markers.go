package models

import (
	"fmt"
	"math"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// NumMarkers is the dimensionality of the normalized marker vector every
// architecture consumes.
const NumMarkers = 8

// Marker indices. Each marker is a distress indicator normalized to [0,1]
// where 0 is the healthy end of the range.
const (
	markerJitter = iota
	markerShimmer
	markerNoise
	markerPitchInstability
	markerEnergyInstability
	markerPauseExcess
	markerUnvoicedExcess
	markerBreathiness
)

// Normalization anchors. The healthy/pathological anchor points follow the
// conventional clinical thresholds for perturbation measures: ~1% jitter and
// ~3.8% shimmer are the usual upper bounds of healthy phonation, 20 dB HNR is
// clean voice.
const (
	jitterCeiling  = 5.0  // % jitter mapping to marker 1.0
	shimmerCeiling = 10.0 // % shimmer mapping to marker 1.0
	hnrCeiling     = 20.0 // dB; HNR at or above this maps to marker 0.0
)

// markers converts a sanitized feature vector into the normalized marker
// vector. The vector must be finite; models reject anything else.
func markers(fv *features.FeatureVector) ([]float64, error) {
	if !fv.IsFinite() {
		return nil, fmt.Errorf("feature vector contains non-finite components")
	}

	m := make([]float64, NumMarkers)

	m[markerJitter] = clamp01(fv.JitterPercent / jitterCeiling)
	m[markerShimmer] = clamp01(fv.ShimmerPercent / shimmerCeiling)
	m[markerNoise] = clamp01((hnrCeiling - fv.HNRdB) / hnrCeiling)
	m[markerPitchInstability] = clamp01(1.0 - fv.F0Stability)

	// Energy coefficient of variation: conversational speech sits around
	// 0.5-0.8; only irregularity beyond that range counts as distress.
	cv := 0.0
	if fv.EnergyMean > 0 {
		cv = fv.EnergyStd / fv.EnergyMean
	}
	m[markerEnergyInstability] = clamp01((cv - 0.5) / 1.5)

	m[markerPauseExcess] = clamp01((fv.PauseRatio - 0.3) / 0.5)
	m[markerUnvoicedExcess] = clamp01((1.0 - fv.VoicedRatio - 0.4) / 0.5)
	m[markerBreathiness] = clamp01((fv.SpectralFlatness - 0.3) / 0.4)

	return m, nil
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
