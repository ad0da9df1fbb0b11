package risk

import (
	"github.com/CittaaHealthServices/vocalysis/clinical"
)

// Level is the discrete risk level derived from a score set.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// rank orders levels: low < moderate < high < critical.
var rank = map[Level]int{
	LevelLow:      0,
	LevelModerate: 1,
	LevelHigh:     2,
	LevelCritical: 3,
}

// Rank returns the ordinal of a level.
func (l Level) Rank() int { return rank[l] }

// AtLeast reports whether l is at or above other.
func (l Level) AtLeast(other Level) bool { return rank[l] >= rank[other] }

// Per-instrument contribution tables. The overall level is the worst case
// across the four instruments, so it is monotone non-decreasing as any
// severity worsens.
var (
	phq9Risk = map[clinical.Severity]Level{
		clinical.SeverityMinimal:  LevelLow,
		clinical.SeverityMild:     LevelModerate,
		clinical.SeverityModerate: LevelHigh,
		clinical.SeveritySevere:   LevelCritical,
	}
	gad7Risk = map[clinical.Severity]Level{
		clinical.SeverityMinimal:  LevelLow,
		clinical.SeverityMild:     LevelModerate,
		clinical.SeverityModerate: LevelHigh,
		clinical.SeveritySevere:   LevelCritical,
	}
	pssRisk = map[clinical.Severity]Level{
		clinical.SeverityLow:      LevelLow,
		clinical.SeverityModerate: LevelModerate,
		clinical.SeverityHigh:     LevelHigh,
	}
	wemwbsRisk = map[clinical.Severity]Level{
		clinical.SeverityGood:    LevelLow,
		clinical.SeverityAverage: LevelModerate,
		clinical.SeverityLow:     LevelHigh,
	}
)

// Classify derives the risk level from a banded score set: the worst case
// across the four instruments, with a PHQ-9 override. Severe depression is
// the self-harm-proximate indicator and forces at least critical regardless
// of the other three instruments.
func Classify(scores *clinical.ScoreSet) Level {
	level := LevelLow

	raise := func(candidate Level) {
		if candidate.Rank() > level.Rank() {
			level = candidate
		}
	}

	raise(phq9Risk[scores.PHQ9Band])
	raise(gad7Risk[scores.GAD7Band])
	raise(pssRisk[scores.PSSBand])
	raise(wemwbsRisk[scores.WEMWBSBand])

	// Explicit override, independent of the contribution tables.
	if scores.PHQ9Band == clinical.SeveritySevere {
		raise(LevelCritical)
	}

	return level
}

// IsCrisis reports whether a result should be escalated to the care team.
func IsCrisis(level Level) bool {
	return level == LevelCritical
}
