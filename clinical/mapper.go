package clinical

import (
	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/models"
)

// Calibration is a per-instrument affine adjustment (score' = gain*score +
// offset, in raw score units) selected from sample metadata. Metadata never
// changes the pipeline structure, only these constants.
type Calibration struct {
	PHQ9Gain     float64 `json:"phq9_gain"`
	PHQ9Offset   float64 `json:"phq9_offset"`
	GAD7Gain     float64 `json:"gad7_gain"`
	GAD7Offset   float64 `json:"gad7_offset"`
	PSSGain      float64 `json:"pss_gain"`
	PSSOffset    float64 `json:"pss_offset"`
	WEMWBSGain   float64 `json:"wemwbs_gain"`
	WEMWBSOffset float64 `json:"wemwbs_offset"`
}

// neutralCalibration applies the population calibration unchanged.
var neutralCalibration = Calibration{
	PHQ9Gain: 1.0, GAD7Gain: 1.0, PSSGain: 1.0, WEMWBSGain: 1.0,
}

// ageGroupCalibrations adjust for the known age effects in vocal biomarkers:
// adolescent voices carry more natural perturbation (damped gains), senior
// voices show age-related jitter that would otherwise inflate scores.
var ageGroupCalibrations = map[string]Calibration{
	"adolescent": {
		PHQ9Gain: 0.92, GAD7Gain: 0.94, PSSGain: 0.95, WEMWBSGain: 1.0, WEMWBSOffset: 1.0,
	},
	"senior": {
		PHQ9Gain: 0.88, PHQ9Offset: 0.5, GAD7Gain: 0.92, PSSGain: 0.95, WEMWBSGain: 1.0,
	},
}

// Mapper converts the combined model output into the four calibrated
// instrument scores. The mapping runs from the continuous sub-scores rather
// than the class probabilities alone so no intensity information is lost.
type Mapper struct{}

// NewMapper creates a clinical scale mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map produces the calibrated, clamped, banded score set.
func (m *Mapper) Map(result *models.EnsembleResult, metadata *audio.Metadata) *ScoreSet {
	cal := m.calibrationFor(metadata)
	subs := result.SubScores

	set := &ScoreSet{
		PHQ9Score:   clampInt(affine(subs.Depression*PHQ9Max, cal.PHQ9Gain, cal.PHQ9Offset), PHQ9Min, PHQ9Max),
		GAD7Score:   clampInt(affine(subs.Anxiety*GAD7Max, cal.GAD7Gain, cal.GAD7Offset), GAD7Min, GAD7Max),
		PSSScore:    clampInt(affine(subs.Stress*PSSMax, cal.PSSGain, cal.PSSOffset), PSSMin, PSSMax),
		WEMWBSScore: clampInt(affine(float64(WEMWBSMin)+subs.Wellbeing*float64(WEMWBSMax-WEMWBSMin), cal.WEMWBSGain, cal.WEMWBSOffset), WEMWBSMin, WEMWBSMax),
	}
	set.RefreshBands()

	return set
}

// calibrationFor selects the calibration constants for the sample metadata.
func (m *Mapper) calibrationFor(metadata *audio.Metadata) Calibration {
	if metadata == nil {
		return neutralCalibration
	}
	if cal, ok := ageGroupCalibrations[metadata.AgeGroup]; ok {
		return cal
	}
	return neutralCalibration
}

func affine(score, gain, offset float64) int {
	return int(score*gain + offset + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
