package models

import (
	"fmt"

	"github.com/CittaaHealthServices/vocalysis/logging"
)

// Bank holds the full set of scoring models, constructed once at process
// startup and shared read-only across all analysis requests. There is no
// lazy loading and no online learning; a Bank never mutates after LoadBank
// returns.
type Bank struct {
	members []ScoringModel
	byName  map[string]ScoringModel
	weights *WeightSet
}

// LoadBank validates the calibration and constructs the four architectures.
func LoadBank(ws *WeightSet) (*Bank, error) {
	if ws == nil {
		ws = DefaultWeights()
	}
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("model calibration rejected: %w", err)
	}

	members := []ScoringModel{
		NewMLP(ws.MLP),
		NewCNN(ws.CNN),
		NewRNN(ws.RNN),
		NewAttention(ws.Attention),
	}

	byName := make(map[string]ScoringModel, len(members))
	for _, m := range members {
		byName[m.Name()] = m
	}

	logging.Info("model bank loaded", logging.Fields{
		"members": len(members),
	})

	return &Bank{
		members: members,
		byName:  byName,
		weights: ws,
	}, nil
}

// Members returns the bank members in their fixed order.
func (b *Bank) Members() []ScoringModel {
	return b.members
}

// Member looks up a single architecture by name.
func (b *Bank) Member(arch Architecture) (ScoringModel, bool) {
	m, ok := b.byName[string(arch)]
	return m, ok
}

// EnsembleWeights returns the deployment-fixed combination weights.
func (b *Bank) EnsembleWeights() EnsembleWeights {
	return b.weights.Ensemble
}
