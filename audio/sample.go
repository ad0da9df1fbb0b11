package audio

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Supported input constraints. Samples outside these bounds are rejected
// before any feature extraction runs.
const (
	MinSampleRate   = 8000
	MaxSampleRate   = 48000
	MinDuration     = 3 * time.Second
	DefaultChannels = 1
)

// Metadata carries optional demographic context for a voice sample.
// It is used only to select calibration constants in the clinical mapper,
// never for structural branching in the pipeline.
type Metadata struct {
	Region   string `json:"region,omitempty" validate:"omitempty,max=64"`
	Language string `json:"language,omitempty" validate:"omitempty,max=32"`
	AgeGroup string `json:"age_group,omitempty" validate:"omitempty,oneof=child adolescent adult senior"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

// VoiceSample is the immutable input to the analysis pipeline: a mono PCM
// waveform with its sample rate and optional metadata.
type VoiceSample struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
	Metadata   *Metadata     `json:"metadata,omitempty"`
}

var validate = validator.New()

// NewVoiceSample builds a VoiceSample from raw PCM and validates it against
// the supported input constraints.
func NewVoiceSample(pcm []float64, sampleRate int, metadata *Metadata) (*VoiceSample, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty PCM signal")
	}
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("unsupported sample rate %d Hz (supported range %d-%d)",
			sampleRate, MinSampleRate, MaxSampleRate)
	}

	duration := time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second))
	if duration < MinDuration {
		return nil, fmt.Errorf("recording too short: %.2fs (minimum %.0fs)",
			duration.Seconds(), MinDuration.Seconds())
	}

	if metadata != nil {
		if err := validate.Struct(metadata); err != nil {
			return nil, fmt.Errorf("invalid sample metadata: %w", err)
		}
	}

	return &VoiceSample{
		PCM:        pcm,
		SampleRate: sampleRate,
		Duration:   duration,
		Metadata:   metadata,
	}, nil
}

// Seconds returns the sample duration in seconds.
func (v *VoiceSample) Seconds() float64 {
	return v.Duration.Seconds()
}
