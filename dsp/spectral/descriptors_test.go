package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRate = 16000

func TestMagnitudePeakAtToneBin(t *testing.T) {
	req := require.New(t)
	fft := NewFFT()

	// Bin 64 of a 1024-sample frame at 16 kHz is exactly 1000 Hz, so the
	// tone's energy lands in a single bin.
	const frameSize = 1024
	freq := 64.0 * sampleRate / frameSize
	frame := make([]float64, frameSize)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	magnitude := fft.Magnitude(frame)
	req.Len(magnitude, frameSize/2+1)

	peak := 0
	for i, m := range magnitude {
		if m > magnitude[peak] {
			peak = i
		}
	}
	req.Equal(64, peak)
}

func TestCentroidTracksTone(t *testing.T) {
	req := require.New(t)
	fft := NewFFT()
	descriptors := NewDescriptors(sampleRate)

	const frameSize = 1024
	for _, bin := range []float64{32, 64, 128} {
		freq := bin * sampleRate / frameSize
		frame := make([]float64, frameSize)
		for i := range frame {
			frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		}

		centroid := descriptors.Centroid(fft.Magnitude(frame))
		req.InDelta(freq, centroid, 50.0)
	}
}

func TestFlatnessPolarity(t *testing.T) {
	req := require.New(t)
	descriptors := NewDescriptors(sampleRate)

	flat := make([]float64, 513)
	for i := range flat {
		flat[i] = 1.0
	}
	req.InDelta(1.0, descriptors.Flatness(flat), 1e-6)

	tonal := make([]float64, 513)
	tonal[64] = 100.0
	req.Less(descriptors.Flatness(tonal), 0.01)
}

func TestRolloffBounds(t *testing.T) {
	req := require.New(t)
	descriptors := NewDescriptors(sampleRate)

	spectrum := make([]float64, 513)
	spectrum[10] = 1.0
	spectrum[100] = 1.0

	// With two equal peaks, 50% of the energy is reached at the first.
	lowBin := descriptors.Rolloff(spectrum, 0.5)
	highBin := descriptors.Rolloff(spectrum, 0.9)
	req.Less(lowBin, highBin)
	req.InDelta(10.0*sampleRate/1024.0, lowBin, 1e-9)
	req.InDelta(100.0*sampleRate/1024.0, highBin, 1e-9)

	req.Zero(descriptors.Rolloff(make([]float64, 513), 0.85))
}

func TestBandwidthPolarity(t *testing.T) {
	req := require.New(t)
	descriptors := NewDescriptors(sampleRate)

	narrow := make([]float64, 513)
	narrow[64] = 1.0

	wide := make([]float64, 513)
	wide[32] = 1.0
	wide[96] = 1.0

	req.InDelta(0.0, descriptors.Bandwidth(narrow), 1e-6)
	req.Greater(descriptors.Bandwidth(wide), descriptors.Bandwidth(narrow))
}

func TestEmptySpectrum(t *testing.T) {
	req := require.New(t)
	descriptors := NewDescriptors(sampleRate)

	req.Zero(descriptors.Centroid(nil))
	req.Zero(descriptors.Rolloff(nil, 0.85))
	req.Zero(descriptors.Flatness(nil))
	req.Zero(descriptors.Bandwidth(nil))
	req.Empty(NewFFT().Magnitude(nil))
}
