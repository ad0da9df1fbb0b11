package models

import (
	"fmt"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// Class is a mental-state class the scoring models discriminate between.
type Class int

const (
	ClassNormal Class = iota
	ClassStress
	ClassAnxiety
	ClassDepression

	NumClasses = 4
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassStress:
		return "stress"
	case ClassAnxiety:
		return "anxiety"
	case ClassDepression:
		return "depression"
	default:
		return "unknown"
	}
}

// Class priority for exact probability ties: Normal < Stress < Anxiety <
// Depression. The highest-priority class wins a tie, which errs on the side
// of flagging rather than clearing.
var classPriority = [NumClasses]int{0, 1, 2, 3}

// SubScores are the continuous condition intensities in [0,1] each model
// emits alongside its class distribution. Wellbeing has positive polarity.
type SubScores struct {
	Depression float64 `json:"depression"`
	Anxiety    float64 `json:"anxiety"`
	Stress     float64 `json:"stress"`
	Wellbeing  float64 `json:"wellbeing"`
}

// Prediction is the output of a single scoring model: a class-probability
// distribution (non-negative, sums to 1) plus continuous sub-scores.
type Prediction struct {
	Model         string             `json:"model"`
	Probabilities [NumClasses]float64 `json:"probabilities"`
	SubScores     SubScores          `json:"sub_scores"`
}

// TopClass returns the winning class of the distribution. Exact ties are
// resolved by the fixed class priority ordering.
func (p *Prediction) TopClass() Class {
	best := ClassNormal
	for c := ClassStress; c < NumClasses; c++ {
		if p.Probabilities[c] > p.Probabilities[best] ||
			(p.Probabilities[c] == p.Probabilities[best] && classPriority[c] > classPriority[best]) {
			best = c
		}
	}
	return best
}

// ScoringModel is a pure function from a feature vector to a prediction.
// Implementations are loaded once at startup and treated as read-only; they
// must be safe for concurrent use.
type ScoringModel interface {
	Name() string
	Score(fv *features.FeatureVector) (*Prediction, error)
}

// Architecture selects which model(s) the bank runs.
type Architecture string

const (
	ArchitectureEnsemble  Architecture = "ensemble"
	ArchitectureMLP       Architecture = "mlp"
	ArchitectureCNN       Architecture = "cnn"
	ArchitectureRNN       Architecture = "rnn"
	ArchitectureAttention Architecture = "attention"
)

// ParseArchitecture validates an architecture name.
func ParseArchitecture(s string) (Architecture, error) {
	switch Architecture(s) {
	case ArchitectureEnsemble, ArchitectureMLP, ArchitectureCNN, ArchitectureRNN, ArchitectureAttention:
		return Architecture(s), nil
	default:
		return "", fmt.Errorf("unrecognized architecture %q (want ensemble, mlp, cnn, rnn or attention)", s)
	}
}
