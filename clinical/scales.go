package clinical

// Instrument identifies one of the four standardized screening instruments.
type Instrument string

const (
	PHQ9   Instrument = "phq9"   // depression
	GAD7   Instrument = "gad7"   // anxiety
	PSS    Instrument = "pss"    // perceived stress
	WEMWBS Instrument = "wemwbs" // wellbeing
)

// Valid score ranges per instrument.
const (
	PHQ9Min, PHQ9Max     = 0, 27
	GAD7Min, GAD7Max     = 0, 21
	PSSMin, PSSMax       = 0, 40
	WEMWBSMin, WEMWBSMax = 14, 70
)

// Severity is a banded label on an instrument score.
type Severity string

const (
	SeverityMinimal  Severity = "minimal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"

	// PSS bands
	SeverityLow  Severity = "low"
	SeverityHigh Severity = "high"

	// WEMWBS bands (wellbeing polarity: good is the healthy end)
	SeverityGood    Severity = "good"
	SeverityAverage Severity = "average"
)

// PHQ9Severity maps a PHQ-9 score to its severity band.
// Breakpoints: 0-4 minimal, 5-9 mild, 10-14 moderate, 15-27 severe.
func PHQ9Severity(score int) Severity {
	switch {
	case score <= 4:
		return SeverityMinimal
	case score <= 9:
		return SeverityMild
	case score <= 14:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// GAD7Severity maps a GAD-7 score to its severity band.
// Breakpoints: 0-4 minimal, 5-9 mild, 10-14 moderate, 15-21 severe.
func GAD7Severity(score int) Severity {
	switch {
	case score <= 4:
		return SeverityMinimal
	case score <= 9:
		return SeverityMild
	case score <= 14:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// PSSSeverity maps a PSS score to its severity band.
// Breakpoints: 0-13 low, 14-26 moderate, 27-40 high.
func PSSSeverity(score int) Severity {
	switch {
	case score <= 13:
		return SeverityLow
	case score <= 26:
		return SeverityModerate
	default:
		return SeverityHigh
	}
}

// WEMWBSSeverity maps a WEMWBS score to its band.
// Breakpoints: >=52 good, 40-51 average, <40 low.
func WEMWBSSeverity(score int) Severity {
	switch {
	case score >= 52:
		return SeverityGood
	case score >= 40:
		return SeverityAverage
	default:
		return SeverityLow
	}
}

// ScoreSet carries the four instrument scores, their severity bands and the
// overall 0-100 mental-health score (higher is better). Scores are always
// within their documented ranges.
type ScoreSet struct {
	PHQ9Score      int      `json:"phq9_score"`
	PHQ9Band       Severity `json:"phq9_severity"`
	GAD7Score      int      `json:"gad7_score"`
	GAD7Band       Severity `json:"gad7_severity"`
	PSSScore       int      `json:"pss_score"`
	PSSBand        Severity `json:"pss_severity"`
	WEMWBSScore    int      `json:"wemwbs_score"`
	WEMWBSBand     Severity `json:"wemwbs_severity"`
	OverallScore   int      `json:"mental_health_score"` // 0-100, higher is better
}

// InRange reports whether every score falls inside its documented range.
func (s *ScoreSet) InRange() bool {
	return s.PHQ9Score >= PHQ9Min && s.PHQ9Score <= PHQ9Max &&
		s.GAD7Score >= GAD7Min && s.GAD7Score <= GAD7Max &&
		s.PSSScore >= PSSMin && s.PSSScore <= PSSMax &&
		s.WEMWBSScore >= WEMWBSMin && s.WEMWBSScore <= WEMWBSMax &&
		s.OverallScore >= 0 && s.OverallScore <= 100
}

// RefreshBands recomputes the severity labels and overall score from the raw
// instrument scores. Called after any mutation of the raw scores (clamping,
// personalization blending).
func (s *ScoreSet) RefreshBands() {
	s.PHQ9Band = PHQ9Severity(s.PHQ9Score)
	s.GAD7Band = GAD7Severity(s.GAD7Score)
	s.PSSBand = PSSSeverity(s.PSSScore)
	s.WEMWBSBand = WEMWBSSeverity(s.WEMWBSScore)
	s.OverallScore = overallScore(s.PHQ9Score, s.GAD7Score, s.PSSScore, s.WEMWBSScore)
}

// Overall score weights. WEMWBS enters with positive polarity, the other
// three inverted, so a higher overall score always means better wellbeing.
var overallWeights = struct {
	phq9, gad7, pss, wemwbs float64
}{0.30, 0.25, 0.20, 0.25}

func overallScore(phq9, gad7, pss, wemwbs int) int {
	score := 100.0 * (overallWeights.phq9*(1.0-float64(phq9)/float64(PHQ9Max)) +
		overallWeights.gad7*(1.0-float64(gad7)/float64(GAD7Max)) +
		overallWeights.pss*(1.0-float64(pss)/float64(PSSMax)) +
		overallWeights.wemwbs*(float64(wemwbs-WEMWBSMin)/float64(WEMWBSMax-WEMWBSMin)))

	rounded := int(score + 0.5)
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}
	return rounded
}
