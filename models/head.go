package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Wellbeing polarity weights: how strongly each condition intensity pulls the
// wellbeing sub-score down from 1.
var wellbeingLoadings = struct {
	depression, anxiety, stress float64
}{0.40, 0.30, 0.30}

// apply maps a hidden representation to the full prediction: condition
// evidence through the head loadings, sub-scores through a saturating tanh,
// and the class distribution through a softmax against the Normal resting
// bias.
func (h *HeadWeights) apply(model string, hidden []float64) *Prediction {
	evStress := floats.Dot(h.Stress, hidden)
	evAnxiety := floats.Dot(h.Anxiety, hidden)
	evDepression := floats.Dot(h.Depression, hidden)

	subs := SubScores{
		Stress:     clamp01(math.Tanh(evStress)),
		Anxiety:    clamp01(math.Tanh(evAnxiety)),
		Depression: clamp01(math.Tanh(evDepression)),
	}
	subs.Wellbeing = clamp01(1.0 -
		wellbeingLoadings.depression*subs.Depression -
		wellbeingLoadings.anxiety*subs.Anxiety -
		wellbeingLoadings.stress*subs.Stress)

	logits := [NumClasses]float64{
		ClassNormal:     h.NormalBias,
		ClassStress:     h.LogitGain * evStress,
		ClassAnxiety:    h.LogitGain * evAnxiety,
		ClassDepression: h.LogitGain * evDepression,
	}

	return &Prediction{
		Model:         model,
		Probabilities: softmax(logits),
		SubScores:     subs,
	}
}

// softmax computes a numerically stable softmax over the class logits.
func softmax(logits [NumClasses]float64) [NumClasses]float64 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	var exps [NumClasses]float64
	sum := 0.0
	for i, l := range logits {
		exps[i] = math.Exp(l - maxLogit)
		sum += exps[i]
	}

	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
