package models

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// cleanVector carries the acoustics of steady healthy phonation: no
// perturbation, high HNR, stable pitch and energy, fully voiced.
func cleanVector() *features.FeatureVector {
	return &features.FeatureVector{
		PitchMean:         220.0,
		PitchStd:          1.0,
		PitchMin:          218.0,
		PitchMax:          222.0,
		PitchRange:        4.0,
		F0Stability:       1.0,
		JitterPercent:     0.0,
		ShimmerPercent:    0.0,
		HNRdB:             40.0,
		SpectralCentroid:  400.0,
		SpectralRolloff:   600.0,
		SpectralFlatness:  0.01,
		SpectralBandwidth: 200.0,
		EnergyMean:        0.10,
		EnergyStd:         0.01,
		ZCRMean:           0.03,
		VoicedRatio:       1.0,
		PauseRatio:        0.0,
		DurationSec:       5.0,
	}
}

// distressedVector pushes every marker toward its pathological anchor.
func distressedVector() *features.FeatureVector {
	return &features.FeatureVector{
		PitchMean:         130.0,
		PitchStd:          45.0,
		PitchMin:          60.0,
		PitchMax:          280.0,
		PitchRange:        220.0,
		F0Stability:       0.2,
		JitterPercent:     5.0,
		ShimmerPercent:    10.0,
		HNRdB:             2.0,
		SpectralCentroid:  2400.0,
		SpectralRolloff:   5200.0,
		SpectralFlatness:  0.7,
		SpectralBandwidth: 2600.0,
		EnergyMean:        0.04,
		EnergyStd:         0.09,
		ZCRMean:           0.22,
		VoicedRatio:       0.1,
		PauseRatio:        0.8,
		DurationSec:       12.0,
	}
}

func loadDefaultBank(t *testing.T) *Bank {
	t.Helper()
	bank, err := LoadBank(nil)
	require.NoError(t, err)
	return bank
}

func TestCleanVectorScoresNormal(t *testing.T) {
	req := require.New(t)
	bank := loadDefaultBank(t)

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	result, err := combiner.Combine(cleanVector())
	req.NoError(err)

	req.Equal(ClassNormal, result.TopClass())
	req.InDelta(0.0, result.SubScores.Depression, 1e-9)
	req.InDelta(0.0, result.SubScores.Anxiety, 1e-9)
	req.InDelta(0.0, result.SubScores.Stress, 1e-9)
	req.InDelta(1.0, result.SubScores.Wellbeing, 1e-9)
	req.Empty(result.Excluded)
	req.Len(result.Members, 4)
}

func TestDistressedVectorFlagsCondition(t *testing.T) {
	req := require.New(t)
	bank := loadDefaultBank(t)

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	result, err := combiner.Combine(distressedVector())
	req.NoError(err)

	req.NotEqual(ClassNormal, result.TopClass())
	req.Greater(result.SubScores.Depression, 0.5)
	req.Less(result.SubScores.Wellbeing, 0.5)
}

func TestEnsembleDistributionIsValid(t *testing.T) {
	req := require.New(t)
	bank := loadDefaultBank(t)
	rng := rand.New(rand.NewSource(7))

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	ew := bank.EnsembleWeights()
	for range 500 {
		fv := &features.FeatureVector{
			PitchMean:        80 + 300*rng.Float64(),
			F0Stability:      rng.Float64(),
			JitterPercent:    8 * rng.Float64(),
			ShimmerPercent:   15 * rng.Float64(),
			HNRdB:            40 * rng.Float64(),
			SpectralFlatness: rng.Float64(),
			EnergyMean:       0.01 + 0.2*rng.Float64(),
			EnergyStd:        0.15 * rng.Float64(),
			VoicedRatio:      rng.Float64(),
			PauseRatio:       rng.Float64(),
			DurationSec:      5 + 20*rng.Float64(),
		}

		result, err := combiner.Combine(fv)
		req.NoError(err)

		sum := 0.0
		for _, p := range result.Probabilities {
			req.GreaterOrEqual(p, 0.0)
			sum += p
		}
		req.InDelta(1.0, sum, 1e-9)

		req.GreaterOrEqual(result.Confidence, ew.ConfidenceFloor)
		req.LessOrEqual(result.Confidence, ew.ConfidenceCeiling)

		for _, s := range []float64{
			result.SubScores.Depression, result.SubScores.Anxiety,
			result.SubScores.Stress, result.SubScores.Wellbeing,
		} {
			req.GreaterOrEqual(s, 0.0)
			req.LessOrEqual(s, 1.0)
		}
	}
}

func TestSingleArchitecturePassThrough(t *testing.T) {
	req := require.New(t)
	bank := loadDefaultBank(t)

	for _, arch := range []Architecture{
		ArchitectureMLP, ArchitectureCNN, ArchitectureRNN, ArchitectureAttention,
	} {
		combiner, err := NewCombiner(bank, arch)
		req.NoError(err)

		result, err := combiner.Combine(cleanVector())
		req.NoError(err)
		req.Equal(arch, result.Architecture)
		req.Len(result.Members, 1)
		req.Equal(string(arch), result.Members[0].Model)
		req.Equal(ClassNormal, result.TopClass())
	}
}

// failingModel stands in for a bank member whose inference faults at runtime.
type failingModel struct {
	name string
}

func (f *failingModel) Name() string { return f.name }

func (f *failingModel) Score(*features.FeatureVector) (*Prediction, error) {
	return nil, errors.New("synthetic inference fault")
}

func bankWith(members ...ScoringModel) *Bank {
	byName := make(map[string]ScoringModel, len(members))
	for _, m := range members {
		byName[m.Name()] = m
	}
	return &Bank{members: members, byName: byName, weights: DefaultWeights()}
}

func TestEnsembleExcludesFailedMember(t *testing.T) {
	req := require.New(t)
	ws := DefaultWeights()

	bank := bankWith(
		NewMLP(ws.MLP),
		&failingModel{name: string(ArchitectureCNN)},
		NewRNN(ws.RNN),
		NewAttention(ws.Attention),
	)

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	result, err := combiner.Combine(distressedVector())
	req.NoError(err)

	req.Equal([]string{"cnn"}, result.Excluded)
	req.Len(result.Members, 3)

	sum := 0.0
	for _, p := range result.Probabilities {
		sum += p
	}
	req.InDelta(1.0, sum, 1e-9)
}

func TestEnsembleAllMembersFailed(t *testing.T) {
	req := require.New(t)

	bank := bankWith(
		&failingModel{name: string(ArchitectureMLP)},
		&failingModel{name: string(ArchitectureCNN)},
		&failingModel{name: string(ArchitectureRNN)},
		&failingModel{name: string(ArchitectureAttention)},
	)

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	_, err = combiner.Combine(cleanVector())
	req.ErrorIs(err, ErrAllModelsFailed)
}

func TestNonFiniteVectorRejected(t *testing.T) {
	req := require.New(t)
	bank := loadDefaultBank(t)

	combiner, err := NewCombiner(bank, ArchitectureEnsemble)
	req.NoError(err)

	fv := cleanVector()
	fv.JitterPercent = math.NaN()
	_, err = combiner.Combine(fv)
	req.ErrorIs(err, ErrAllModelsFailed)
}

func TestTopClassTieBreak(t *testing.T) {
	req := require.New(t)

	tied := &Prediction{Probabilities: [NumClasses]float64{0.25, 0.25, 0.25, 0.25}}
	req.Equal(ClassDepression, tied.TopClass())

	partial := &Prediction{Probabilities: [NumClasses]float64{0.2, 0.3, 0.3, 0.2}}
	req.Equal(ClassAnxiety, partial.TopClass())
}

func TestParseArchitecture(t *testing.T) {
	req := require.New(t)

	for _, name := range []string{"ensemble", "mlp", "cnn", "rnn", "attention"} {
		arch, err := ParseArchitecture(name)
		req.NoError(err)
		req.Equal(Architecture(name), arch)
	}

	_, err := ParseArchitecture("transformer")
	req.Error(err)
}

func TestWeightSetValidate(t *testing.T) {
	req := require.New(t)

	req.NoError(DefaultWeights().Validate())

	short := DefaultWeights()
	short.MLP.Hidden[0] = short.MLP.Hidden[0][:4]
	req.Error(short.Validate())

	negative := DefaultWeights()
	negative.Ensemble.Members["cnn"] = -0.1
	req.Error(negative.Validate())

	bounds := DefaultWeights()
	bounds.Ensemble.ConfidenceFloor = 0.99
	bounds.Ensemble.ConfidenceCeiling = 0.05
	req.Error(bounds.Validate())

	nan := DefaultWeights()
	nan.Attention.Query[0] = math.NaN()
	req.Error(nan.Validate())
}
