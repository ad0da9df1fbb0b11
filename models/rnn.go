package models

import (
	"math"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// RNN is the Elman recurrent scoring architecture: the markers are consumed
// one at a time in their fixed order, accumulating into a small hidden state
// whose final value feeds the condition head. The recurrence lets early
// perturbation markers modulate how later temporal markers are weighed.
type RNN struct {
	wIn  []float64
	wRec [][]float64
	head HeadWeights
}

// NewRNN builds the recurrent model from its calibration.
func NewRNN(w RNNWeights) *RNN {
	return &RNN{
		wIn:  w.WIn,
		wRec: w.WRec,
		head: w.Head,
	}
}

// Name implements ScoringModel.
func (r *RNN) Name() string { return string(ArchitectureRNN) }

// Score implements ScoringModel.
func (r *RNN) Score(fv *features.FeatureVector) (*Prediction, error) {
	mk, err := markers(fv)
	if err != nil {
		return nil, err
	}

	dim := len(r.wIn)
	hidden := make([]float64, dim)
	next := make([]float64, dim)

	for _, x := range mk {
		for i := range dim {
			acc := r.wIn[i] * x
			for j := range dim {
				acc += r.wRec[i][j] * hidden[j]
			}
			next[i] = math.Tanh(acc)
		}
		hidden, next = next, hidden
	}

	return r.head.apply(r.Name(), hidden), nil
}
