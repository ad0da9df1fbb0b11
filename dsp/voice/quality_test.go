package voice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRate = 16000

func TestRelativePerturbation(t *testing.T) {
	req := require.New(t)

	// Constant series: no perturbation.
	req.Zero(relativePerturbation([]float64{100, 100, 100, 100}))

	// Alternating 100/102: every consecutive difference is 2, mean is 101.
	values := []float64{100, 102, 100, 102, 100}
	req.InDelta(2.0/101.0*100.0, relativePerturbation(values), 1e-9)

	req.Zero(relativePerturbation([]float64{100}))
	req.Zero(relativePerturbation([]float64{0, 0, 0}))
}

func TestStability(t *testing.T) {
	req := require.New(t)

	req.InDelta(1.0, stability([]float64{200, 200, 200}), 1e-9)
	req.Greater(stability([]float64{200, 201, 199}), 0.99)
	req.Less(stability([]float64{100, 300, 100, 300}), 0.6)
	req.Zero(stability([]float64{200}))
}

func TestAnalyzeSteadyTone(t *testing.T) {
	req := require.New(t)
	analyzer := NewQualityAnalyzer(sampleRate)

	const freq = 200.0
	const frameSize = 1024
	signal := make([]float64, 3*sampleRate)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	offsets := make([]int, 0, 20)
	f0s := make([]float64, 0, 20)
	for offset := 0; offset+frameSize <= len(signal) && len(offsets) < 20; offset += frameSize {
		offsets = append(offsets, offset)
		f0s = append(f0s, freq)
	}

	result, err := analyzer.Analyze(signal, offsets, f0s, frameSize)
	req.NoError(err)
	req.Zero(result.Jitter)
	req.Less(result.Shimmer, 2.0)
	req.Greater(result.HNR, 20.0)
	req.LessOrEqual(result.HNR, 40.0)
	req.InDelta(1.0, result.F0Stability, 1e-9)
	req.InDelta(freq, result.MeanF0, 1e-9)
	req.Zero(result.F0Range)
	req.Equal(len(f0s), result.NumPeriods)
}

func TestAnalyzeRequiresThreeFrames(t *testing.T) {
	req := require.New(t)
	analyzer := NewQualityAnalyzer(sampleRate)

	signal := make([]float64, sampleRate)
	_, err := analyzer.Analyze(signal, []int{0, 1024}, []float64{200, 200}, 1024)
	req.Error(err)

	_, err = analyzer.Analyze(signal, []int{0}, []float64{200, 200}, 1024)
	req.Error(err)
}

func TestAnalyzeUnstableTrack(t *testing.T) {
	req := require.New(t)
	analyzer := NewQualityAnalyzer(sampleRate)

	signal := make([]float64, sampleRate)
	for i := range signal {
		signal[i] = 0.4 * math.Sin(2*math.Pi*180.0*float64(i)/sampleRate)
	}

	// A wobbling F0 track must produce nonzero jitter and reduced stability.
	offsets := []int{0, 1024, 2048, 3072, 4096}
	f0s := []float64{170, 195, 168, 198, 172}

	result, err := analyzer.Analyze(signal, offsets, f0s, 1024)
	req.NoError(err)
	req.Greater(result.Jitter, 1.0)
	req.Less(result.F0Stability, 0.99)
	req.InDelta(30.0, result.F0Range, 1e-9)
}
