package clinical

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/models"
)

func TestMapperScoresAlwaysInRange(t *testing.T) {
	req := require.New(t)
	mapper := NewMapper()
	rng := rand.New(rand.NewSource(42))

	metadatas := []*audio.Metadata{
		nil,
		{AgeGroup: "adolescent"},
		{AgeGroup: "senior"},
		{AgeGroup: "adult", Gender: "female", Region: "IN", Language: "en"},
	}

	for range 2000 {
		result := &models.EnsembleResult{
			SubScores: models.SubScores{
				Depression: rng.Float64(),
				Anxiety:    rng.Float64(),
				Stress:     rng.Float64(),
				Wellbeing:  rng.Float64(),
			},
		}

		set := mapper.Map(result, metadatas[rng.Intn(len(metadatas))])
		req.True(set.InRange(), "out-of-range scores: %+v", set)
	}
}

func TestMapperExtremes(t *testing.T) {
	req := require.New(t)
	mapper := NewMapper()

	healthy := mapper.Map(&models.EnsembleResult{
		SubScores: models.SubScores{Wellbeing: 1.0},
	}, nil)
	req.Equal(0, healthy.PHQ9Score)
	req.Equal(SeverityMinimal, healthy.PHQ9Band)
	req.Equal(0, healthy.GAD7Score)
	req.Equal(SeverityLow, healthy.PSSBand)
	req.Equal(70, healthy.WEMWBSScore)
	req.Equal(SeverityGood, healthy.WEMWBSBand)

	distressed := mapper.Map(&models.EnsembleResult{
		SubScores: models.SubScores{Depression: 1.0, Anxiety: 1.0, Stress: 1.0},
	}, nil)
	req.Equal(27, distressed.PHQ9Score)
	req.Equal(SeveritySevere, distressed.PHQ9Band)
	req.Equal(21, distressed.GAD7Score)
	req.Equal(40, distressed.PSSScore)
	req.Equal(14, distressed.WEMWBSScore)
	req.Equal(SeverityLow, distressed.WEMWBSBand)
}

func TestMapperMetadataSelectsCalibrationOnly(t *testing.T) {
	req := require.New(t)
	mapper := NewMapper()

	result := &models.EnsembleResult{
		SubScores: models.SubScores{Depression: 0.6, Anxiety: 0.4, Stress: 0.5, Wellbeing: 0.5},
	}

	adult := mapper.Map(result, &audio.Metadata{AgeGroup: "adult"})
	adolescent := mapper.Map(result, &audio.Metadata{AgeGroup: "adolescent"})

	// Damped gain for adolescents never raises the symptom scores.
	req.LessOrEqual(adolescent.PHQ9Score, adult.PHQ9Score)
	req.LessOrEqual(adolescent.GAD7Score, adult.GAD7Score)
	req.True(adolescent.InRange())
}
