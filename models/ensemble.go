package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/CittaaHealthServices/vocalysis/features"
	"github.com/CittaaHealthServices/vocalysis/logging"
)

// ErrAllModelsFailed reports that no bank member produced a prediction. A
// single failing member is recovered by exclusion; this error is fatal for
// the analysis.
var ErrAllModelsFailed = errors.New("all scoring models failed")

// EnsembleResult is the combined output of the model bank: one distribution,
// one confidence value, and the member predictions retained for audit.
type EnsembleResult struct {
	Architecture  Architecture        `json:"architecture"`
	Probabilities [NumClasses]float64 `json:"probabilities"`
	SubScores     SubScores           `json:"sub_scores"`
	Confidence    float64             `json:"confidence"`
	Members       []*Prediction       `json:"members"`
	Excluded      []string            `json:"excluded,omitempty"`
}

// TopClass returns the winning class of the combined distribution with the
// fixed tie-break ordering.
func (r *EnsembleResult) TopClass() Class {
	p := &Prediction{Probabilities: r.Probabilities}
	return p.TopClass()
}

// Combiner aggregates bank outputs. In a single-architecture mode the member
// output passes through unchanged; in ensemble mode members are combined by
// the deployment-fixed weights with agreement-based confidence.
type Combiner struct {
	bank   *Bank
	arch   Architecture
	logger logging.Logger
}

// NewCombiner creates a combiner for the selected architecture.
func NewCombiner(bank *Bank, arch Architecture) (*Combiner, error) {
	if arch != ArchitectureEnsemble {
		if _, ok := bank.Member(arch); !ok {
			return nil, fmt.Errorf("architecture %q not present in bank", arch)
		}
	}

	return &Combiner{
		bank: bank,
		arch: arch,
		logger: logging.WithFields(logging.Fields{
			"component":    "ensemble_combiner",
			"architecture": string(arch),
		}),
	}, nil
}

// Combine scores the feature vector with the selected architecture(s).
func (c *Combiner) Combine(fv *features.FeatureVector) (*EnsembleResult, error) {
	if c.arch != ArchitectureEnsemble {
		return c.single(fv)
	}
	return c.ensemble(fv)
}

// single passes one member's raw output through.
func (c *Combiner) single(fv *features.FeatureVector) (*EnsembleResult, error) {
	member, _ := c.bank.Member(c.arch)
	pred, err := member.Score(fv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAllModelsFailed, member.Name(), err)
	}

	return &EnsembleResult{
		Architecture:  c.arch,
		Probabilities: normalize(pred.Probabilities),
		SubScores:     pred.SubScores,
		Confidence:    pred.Probabilities[pred.TopClass()],
		Members:       []*Prediction{pred},
	}, nil
}

// ensemble combines all members with the fixed weights, excluding failed
// members and renormalizing the remaining weights.
func (c *Combiner) ensemble(fv *features.FeatureVector) (*EnsembleResult, error) {
	ew := c.bank.EnsembleWeights()

	var (
		preds    []*Prediction
		weights  []float64
		excluded []string
	)

	for _, member := range c.bank.Members() {
		pred, err := member.Score(fv)
		if err != nil {
			c.logger.Warn("excluding failed model from ensemble", logging.Fields{
				"model": member.Name(),
				"error": err.Error(),
			})
			excluded = append(excluded, member.Name())
			continue
		}
		preds = append(preds, pred)
		weights = append(weights, ew.Members[member.Name()])
	}

	if len(preds) == 0 {
		return nil, ErrAllModelsFailed
	}

	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: surviving members carry zero weight", ErrAllModelsFailed)
	}

	result := &EnsembleResult{
		Architecture: ArchitectureEnsemble,
		Members:      preds,
		Excluded:     excluded,
	}

	for i, pred := range preds {
		w := weights[i] / totalWeight
		for cls := range NumClasses {
			result.Probabilities[cls] += w * pred.Probabilities[cls]
		}
		result.SubScores.Depression += w * pred.SubScores.Depression
		result.SubScores.Anxiety += w * pred.SubScores.Anxiety
		result.SubScores.Stress += w * pred.SubScores.Stress
		result.SubScores.Wellbeing += w * pred.SubScores.Wellbeing
	}
	result.Probabilities = normalize(result.Probabilities)

	result.Confidence = c.agreementConfidence(result.TopClass(), preds, ew)

	return result, nil
}

// agreementConfidence derives confidence from cross-member agreement on the
// winning class: the mean winning-class probability penalized by its
// cross-member standard deviation. High disagreement pushes confidence
// toward the floor.
func (c *Combiner) agreementConfidence(top Class, preds []*Prediction, ew EnsembleWeights) float64 {
	mean := 0.0
	for _, pred := range preds {
		mean += pred.Probabilities[top]
	}
	mean /= float64(len(preds))

	variance := 0.0
	for _, pred := range preds {
		diff := pred.Probabilities[top] - mean
		variance += diff * diff
	}
	variance /= float64(len(preds))

	confidence := mean - ew.ConfidencePenalty*math.Sqrt(variance)
	return math.Max(ew.ConfidenceFloor, math.Min(ew.ConfidenceCeiling, confidence))
}

// normalize rescales a distribution to sum to exactly 1, guarding against
// accumulated floating-point drift.
func normalize(p [NumClasses]float64) [NumClasses]float64 {
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	if sum == 0 {
		p[ClassNormal] = 1.0
		return p
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}
