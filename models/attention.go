package models

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// Attention is the single-head attention scoring architecture: each marker is
// embedded by its intensity, a fixed query scores the embeddings, and the
// softmax-weighted context vector feeds the condition head. Attention lets
// the dominant marker group drive the prediction instead of averaging all
// markers equally.
type Attention struct {
	embed [][]float64 // markers x dim
	query []float64
	head  HeadWeights
}

// NewAttention builds the attention model from its calibration.
func NewAttention(w AttentionWeights) *Attention {
	return &Attention{
		embed: w.Embed,
		query: w.Query,
		head:  w.Head,
	}
}

// Name implements ScoringModel.
func (a *Attention) Name() string { return string(ArchitectureAttention) }

// Score implements ScoringModel.
func (a *Attention) Score(fv *features.FeatureVector) (*Prediction, error) {
	mk, err := markers(fv)
	if err != nil {
		return nil, err
	}

	dim := len(a.query)
	scale := math.Sqrt(float64(dim))

	// Embeddings scaled by marker intensity
	embedded := make([][]float64, NumMarkers)
	scores := make([]float64, NumMarkers)
	for i, m := range mk {
		e := make([]float64, dim)
		for d := range dim {
			e[d] = m * a.embed[i][d]
		}
		embedded[i] = e
		scores[i] = floats.Dot(a.query, e) / scale
	}

	weights := softmaxSlice(scores)

	context := make([]float64, dim)
	for i, e := range embedded {
		for d := range dim {
			context[d] += weights[i] * e[d]
		}
	}

	return a.head.apply(a.Name(), context), nil
}

// softmaxSlice is the variable-length counterpart of the class softmax.
func softmaxSlice(scores []float64) []float64 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	exps := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		exps[i] = math.Exp(s - maxScore)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
