package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/CittaaHealthServices/vocalysis/clinical"
	"github.com/CittaaHealthServices/vocalysis/risk"
)

// Report is the externally visible output of one analysis. It is created
// once per Analyze call and immutable after construction; persistence and
// rendering belong to the surrounding applications.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	clinical.ScoreSet

	RiskLevel         risk.Level `json:"risk_level"`
	Recommendations   []string   `json:"recommendations"`
	ConfidenceScore   float64    `json:"confidence_score"`
	DominantCondition string     `json:"dominant_condition"`
	Architecture      string     `json:"architecture"`
	ExcludedModels    []string   `json:"excluded_models,omitempty"`

	PersonalizationApplied bool    `json:"personalization_applied"`
	PersonalizationScore   float64 `json:"personalization_score"`
	SampleCount            int     `json:"sample_count"`

	ProcessingTime float64 `json:"processing_time"` // seconds
}

// newReportID returns a fresh report identifier.
func newReportID() string {
	return uuid.New().String()
}
