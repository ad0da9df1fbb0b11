package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRate = 16000

func sine(freq float64, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return signal
}

func TestDetectSilence(t *testing.T) {
	req := require.New(t)
	detector := NewVoicingDetector(DefaultVoicingParams(1024, 256))

	result := detector.Detect(make([]float64, 5*sampleRate))
	req.Zero(result.VoicedCount)
	req.Equal(len(result.Classes), result.SilentCount)
	req.InDelta(1.0, result.PauseRatio, 1e-9)
	req.Empty(detector.VoicedFrames(result))
}

func TestDetectSteadyTone(t *testing.T) {
	req := require.New(t)
	detector := NewVoicingDetector(DefaultVoicingParams(1024, 256))

	result := detector.Detect(sine(200.0, 5*sampleRate))
	req.Greater(result.VoicedRatio, 0.95)
	req.Less(result.PauseRatio, 0.05)

	offsets := detector.VoicedFrames(result)
	req.Len(offsets, result.VoicedCount)
	for i := 1; i < len(offsets); i++ {
		req.Greater(offsets[i], offsets[i-1])
	}
}

func TestDetectToneThenSilence(t *testing.T) {
	req := require.New(t)
	detector := NewVoicingDetector(DefaultVoicingParams(1024, 256))

	half := 2 * sampleRate
	signal := append(sine(200.0, half), make([]float64, half)...)

	result := detector.Detect(signal)
	req.InDelta(0.5, result.VoicedRatio, 0.05)
	req.InDelta(0.5, result.PauseRatio, 0.05)
}

func TestDetectShortSignal(t *testing.T) {
	req := require.New(t)
	detector := NewVoicingDetector(DefaultVoicingParams(1024, 256))

	result := detector.Detect(make([]float64, 100))
	req.Empty(result.Classes)
	req.Zero(result.VoicedCount)
}

func TestZeroCrossingRate(t *testing.T) {
	req := require.New(t)

	// A sine crosses zero twice per cycle: ZCR ~= 2f/sr.
	signal := sine(400.0, sampleRate)
	req.InDelta(2*400.0/sampleRate, ZeroCrossingRate(signal), 0.005)

	req.Zero(ZeroCrossingRate([]float64{1.0}))
	constant := []float64{0.5, 0.5, 0.5, 0.5}
	req.Zero(ZeroCrossingRate(constant))
}

func TestShortTimeRMS(t *testing.T) {
	req := require.New(t)
	energy := NewEnergy(4, 2)

	signal := []float64{1, 1, 1, 1, 0, 0, 0, 0}
	energies := energy.ShortTimeRMS(signal)
	req.Len(energies, 3)
	req.InDelta(1.0, energies[0], 1e-9)
	req.InDelta(math.Sqrt(0.5), energies[1], 1e-9)
	req.InDelta(0.0, energies[2], 1e-9)
}
