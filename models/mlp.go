package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// MLP is the dense scoring architecture: one tanh hidden layer of detector
// units over the marker vector, followed by the per-condition head.
type MLP struct {
	hidden *mat.Dense // units x markers
	head   HeadWeights
}

// NewMLP builds the dense model from its calibration.
func NewMLP(w MLPWeights) *MLP {
	units := len(w.Hidden)
	data := make([]float64, 0, units*NumMarkers)
	for _, row := range w.Hidden {
		data = append(data, row...)
	}

	return &MLP{
		hidden: mat.NewDense(units, NumMarkers, data),
		head:   w.Head,
	}
}

// Name implements ScoringModel.
func (m *MLP) Name() string { return string(ArchitectureMLP) }

// Score implements ScoringModel.
func (m *MLP) Score(fv *features.FeatureVector) (*Prediction, error) {
	mk, err := markers(fv)
	if err != nil {
		return nil, err
	}

	units, _ := m.hidden.Dims()
	input := mat.NewVecDense(NumMarkers, mk)
	activation := mat.NewVecDense(units, nil)
	activation.MulVec(m.hidden, input)

	hidden := make([]float64, units)
	for i := range hidden {
		hidden[i] = math.Tanh(activation.AtVec(i))
	}

	return m.head.apply(m.Name(), hidden), nil
}
