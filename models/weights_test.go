package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWeightsFilePartialOverride(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "weights.yaml")
	override := []byte("ensemble:\n  confidence_penalty: 1.0\n  confidence_floor: 0.10\n  confidence_ceiling: 0.95\n  members:\n    mlp: 0.40\n    cnn: 0.20\n    rnn: 0.20\n    attention: 0.20\n")
	req.NoError(os.WriteFile(path, override, 0o644))

	ws, err := LoadWeightsFile(path)
	req.NoError(err)

	// Overridden section applies, untouched sections keep their defaults.
	req.InDelta(1.0, ws.Ensemble.ConfidencePenalty, 1e-9)
	req.InDelta(0.40, ws.Ensemble.Members["mlp"], 1e-9)
	req.Equal(DefaultWeights().MLP.Hidden, ws.MLP.Hidden)

	_, err = LoadBank(ws)
	req.NoError(err)
}

func TestLoadWeightsFileRejectsInvalid(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "weights.yaml")
	req.NoError(os.WriteFile(path, []byte("ensemble:\n  confidence_floor: 2.0\n"), 0o644))

	_, err := LoadWeightsFile(path)
	req.Error(err)

	_, err = LoadWeightsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	req.Error(err)
}
