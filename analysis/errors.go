package analysis

import (
	"errors"
	"fmt"
)

// Kind is the coarse error category a caller branches on: whether to ask the
// user to retry with better audio or to alert operators.
type Kind int

const (
	// KindInput: the sample was rejected before any model ran. Surfaced
	// directly, never retried automatically.
	KindInput Kind = iota

	// KindFeatureExtraction: the signal was accepted but carries too
	// little usable speech. The caller should prompt for a re-recording.
	KindFeatureExtraction

	// KindModelInference: no bank member produced output. Internal
	// failure; alert operators.
	KindModelInference

	// KindPersonalizationStorage: profile storage failed. Recovered
	// internally by degrading to non-personalized scoring; never fatal.
	KindPersonalizationStorage
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFeatureExtraction:
		return "feature_extraction"
	case KindModelInference:
		return "model_inference"
	case KindPersonalizationStorage:
		return "personalization_storage"
	default:
		return "unknown"
	}
}

// Code is the specific diagnostic within a kind.
type Code string

const (
	CodeEmptySignal              Code = "empty_signal"
	CodeUnsupportedSampleRate    Code = "unsupported_sample_rate"
	CodeTooShort                 Code = "too_short"
	CodeUnreadableAudio          Code = "unreadable_audio"
	CodeInvalidMetadata          Code = "invalid_metadata"
	CodeInsufficientVoicedFrames Code = "insufficient_voiced_frames"
	CodeDegenerateSignal         Code = "degenerate_signal"
	CodeAllModelsFailed          Code = "all_models_failed"
	CodeProfileStoreUnavailable  Code = "profile_store_unavailable"
)

// Error is the structured analysis error: kind + code + human-readable
// reason, with the underlying cause preserved for errors.Is/As.
type Error struct {
	Kind   Kind
	Code   Code
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s/%s: %s: %v", e.Kind, e.Code, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Reason)
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether re-recording could fix the failure, as opposed
// to an internal fault operators need to look at.
func (e *Error) Retryable() bool {
	return e.Kind == KindInput || e.Kind == KindFeatureExtraction
}

// newError builds a structured error wrapping its cause.
func newError(kind Kind, code Code, reason string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Reason: reason, cause: cause}
}

// AsAnalysisError extracts the structured error from an error chain.
func AsAnalysisError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
