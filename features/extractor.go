package features

import (
	"errors"
	"fmt"

	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/dsp/pitch"
	"github.com/CittaaHealthServices/vocalysis/dsp/spectral"
	dspstats "github.com/CittaaHealthServices/vocalysis/dsp/stats"
	"github.com/CittaaHealthServices/vocalysis/dsp/temporal"
	"github.com/CittaaHealthServices/vocalysis/dsp/voice"
	"github.com/CittaaHealthServices/vocalysis/dsp/window"
	"github.com/CittaaHealthServices/vocalysis/logging"
)

// ErrInsufficientVoicedFrames reports that a recording contains too little
// voiced speech for reliable acoustic analysis (silence, noise-only or a
// whisper). Callers should prompt the user to re-record.
var ErrInsufficientVoicedFrames = errors.New("insufficient voiced frames")

// Config holds framing and gating parameters for feature extraction.
type Config struct {
	FrameSize int `json:"frame_size"`
	HopSize   int `json:"hop_size"`

	// MinVoicedFrames is the minimum number of pitch-confirmed voiced
	// frames required before perturbation statistics are trusted.
	MinVoicedFrames int `json:"min_voiced_frames"`

	// MinPitchConfidence gates the YIN estimates that enter the F0 track.
	MinPitchConfidence float64 `json:"min_pitch_confidence"`

	// RolloffFraction for the spectral rolloff descriptor.
	RolloffFraction float64 `json:"rolloff_fraction"`
}

// DefaultConfig returns extraction parameters tuned for conversational
// speech at 8-48 kHz.
func DefaultConfig() Config {
	return Config{
		FrameSize:          1024,
		HopSize:            256,
		MinVoicedFrames:    10,
		MinPitchConfidence: 0.5,
		RolloffFraction:    0.85,
	}
}

// Extractor turns a validated VoiceSample into a FeatureVector. Extraction is
// deterministic: the same waveform and parameters always yield the identical
// vector. The extractor keeps no state across calls and is safe for
// concurrent use per instance only when sample rates match; the analyzer
// constructs one per call.
type Extractor struct {
	cfg         Config
	sampleRate  int
	voicing     *temporal.VoicingDetector
	tracker     *pitch.Tracker
	quality     *voice.QualityAnalyzer
	fft         *spectral.FFT
	descriptors *spectral.Descriptors
	hann        *window.Hann
	logger      logging.Logger
}

// NewExtractor creates a feature extractor for the given sample rate.
func NewExtractor(cfg Config, sampleRate int) *Extractor {
	pitchParams := pitch.DefaultParams(sampleRate)
	pitchParams.WindowSize = cfg.FrameSize

	return &Extractor{
		cfg:         cfg,
		sampleRate:  sampleRate,
		voicing:     temporal.NewVoicingDetector(temporal.DefaultVoicingParams(cfg.FrameSize, cfg.HopSize)),
		tracker:     pitch.NewTracker(pitchParams),
		quality:     voice.NewQualityAnalyzer(sampleRate),
		fft:         spectral.NewFFT(),
		descriptors: spectral.NewDescriptors(sampleRate),
		hann:        window.NewHann(cfg.FrameSize),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// Extract computes the acoustic feature vector of a voice sample.
func (e *Extractor) Extract(sample *audio.VoiceSample) (*FeatureVector, error) {
	signal := sample.PCM

	if len(signal) < e.cfg.FrameSize {
		return nil, fmt.Errorf("%w: signal shorter than one analysis frame", ErrInsufficientVoicedFrames)
	}

	voicingResult := e.voicing.Detect(signal)
	if voicingResult.VoicedCount < e.cfg.MinVoicedFrames {
		e.logger.Debug("voiced-frame gate rejected recording", logging.Fields{
			"voiced_frames": voicingResult.VoicedCount,
			"min_required":  e.cfg.MinVoicedFrames,
		})
		return nil, fmt.Errorf("%w: found %d voiced frames, need %d",
			ErrInsufficientVoicedFrames, voicingResult.VoicedCount, e.cfg.MinVoicedFrames)
	}

	// Pitch track over energy-voiced frames, gated by YIN confidence.
	candidateOffsets := e.voicing.VoicedFrames(voicingResult)
	frameOffsets := make([]int, 0, len(candidateOffsets))
	f0s := make([]float64, 0, len(candidateOffsets))

	for _, offset := range candidateOffsets {
		if offset+e.cfg.FrameSize > len(signal) {
			break
		}
		estimate, err := e.tracker.Estimate(signal[offset : offset+e.cfg.FrameSize])
		if err != nil {
			return nil, fmt.Errorf("pitch tracking failed: %w", err)
		}
		if estimate.Voiced && estimate.Confidence >= e.cfg.MinPitchConfidence {
			frameOffsets = append(frameOffsets, offset)
			f0s = append(f0s, estimate.Frequency)
		}
	}

	if len(f0s) < e.cfg.MinVoicedFrames {
		return nil, fmt.Errorf("%w: found %d pitch-confirmed frames, need %d",
			ErrInsufficientVoicedFrames, len(f0s), e.cfg.MinVoicedFrames)
	}

	qualityResult, err := e.quality.Analyze(signal, frameOffsets, f0s, e.cfg.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("voice quality analysis failed: %w", err)
	}

	pitchStats := dspstats.Describe(f0s)
	energyStats := dspstats.Describe(voicingResult.Energies)
	centroid, rolloff, flatness, bandwidth := e.spectralDescriptors(signal, frameOffsets)
	zcrMean := e.meanZCR(signal, frameOffsets)

	fv := &FeatureVector{
		PitchMean:         pitchStats.Mean,
		PitchStd:          pitchStats.StdDev,
		PitchMin:          pitchStats.Min,
		PitchMax:          pitchStats.Max,
		PitchRange:        pitchStats.Range(),
		F0Stability:       qualityResult.F0Stability,
		JitterPercent:     qualityResult.Jitter,
		ShimmerPercent:    qualityResult.Shimmer,
		HNRdB:             qualityResult.HNR,
		SpectralCentroid:  centroid,
		SpectralRolloff:   rolloff,
		SpectralFlatness:  flatness,
		SpectralBandwidth: bandwidth,
		EnergyMean:        energyStats.Mean,
		EnergyStd:         energyStats.StdDev,
		EnergySkewness:    energyStats.Skewness,
		EnergyKurtosis:    energyStats.Kurtosis,
		ZCRMean:           zcrMean,
		VoicedRatio:       voicingResult.VoicedRatio,
		PauseRatio:        voicingResult.PauseRatio,
		DurationSec:       sample.Seconds(),
	}

	if replaced := fv.Sanitize(); replaced > 0 {
		e.logger.Warn("substituted defaults for non-finite features", logging.Fields{
			"replaced": replaced,
		})
	}

	return fv, nil
}

// spectralDescriptors averages centroid, rolloff, flatness and bandwidth over
// the Hann-windowed voiced frames.
func (e *Extractor) spectralDescriptors(signal []float64, frameOffsets []int) (centroid, rolloff, flatness, bandwidth float64) {
	count := 0
	for _, offset := range frameOffsets {
		if offset+e.cfg.FrameSize > len(signal) {
			break
		}
		windowed := e.hann.Apply(signal[offset : offset+e.cfg.FrameSize])
		magnitude := e.fft.Magnitude(windowed)

		centroid += e.descriptors.Centroid(magnitude)
		rolloff += e.descriptors.Rolloff(magnitude, e.cfg.RolloffFraction)
		flatness += e.descriptors.Flatness(magnitude)
		bandwidth += e.descriptors.Bandwidth(magnitude)
		count++
	}

	if count == 0 {
		return 0, 0, 0, 0
	}

	n := float64(count)
	return centroid / n, rolloff / n, flatness / n, bandwidth / n
}

// meanZCR averages the zero-crossing rate over the voiced frames.
func (e *Extractor) meanZCR(signal []float64, frameOffsets []int) float64 {
	sum := 0.0
	count := 0
	for _, offset := range frameOffsets {
		if offset+e.cfg.FrameSize > len(signal) {
			break
		}
		sum += temporal.ZeroCrossingRate(signal[offset : offset+e.cfg.FrameSize])
		count++
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
