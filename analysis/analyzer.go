package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/clinical"
	"github.com/CittaaHealthServices/vocalysis/features"
	"github.com/CittaaHealthServices/vocalysis/logging"
	"github.com/CittaaHealthServices/vocalysis/models"
	"github.com/CittaaHealthServices/vocalysis/personalization"
	"github.com/CittaaHealthServices/vocalysis/risk"
)

// Analyzer runs the full screening pipeline: feature extraction, model
// scoring, clinical mapping, personalization, risk classification and
// recommendations. The model bank is loaded once in New and shared
// read-only; Analyze is safe for concurrent use.
type Analyzer struct {
	cfg        Config
	bank       *models.Bank
	combiner   *models.Combiner
	mapper     *clinical.Mapper
	aggregator *personalization.Aggregator
	logger     logging.Logger
}

// New constructs an analyzer. The profile store may be nil, in which case
// personalization runs against an in-memory store (profiles do not survive
// the process).
func New(cfg Config, store personalization.ProfileStore) (*Analyzer, error) {
	arch, err := models.ParseArchitecture(cfg.Architecture)
	if err != nil {
		return nil, err
	}

	weights := models.DefaultWeights()
	if cfg.WeightsFile != "" {
		weights, err = models.LoadWeightsFile(cfg.WeightsFile)
		if err != nil {
			return nil, err
		}
	}

	bank, err := models.LoadBank(weights)
	if err != nil {
		return nil, err
	}

	combiner, err := models.NewCombiner(bank, arch)
	if err != nil {
		return nil, err
	}

	if store == nil {
		store = personalization.NewMemoryStore()
	}

	if cfg.Features.FrameSize == 0 {
		cfg.Features = features.DefaultConfig()
	}

	return &Analyzer{
		cfg:        cfg,
		bank:       bank,
		combiner:   combiner,
		mapper:     clinical.NewMapper(),
		aggregator: personalization.NewAggregator(store),
		logger: logging.WithFields(logging.Fields{
			"component":    "analyzer",
			"architecture": cfg.Architecture,
		}),
	}, nil
}

// Analyze runs one sample through the pipeline. The user ID keys
// personalization; an empty ID disables it. Cancellation is best-effort: a
// cancelled analysis discards its in-flight result and never commits to the
// user's profile.
func (a *Analyzer) Analyze(ctx context.Context, sample *audio.VoiceSample, userID string) (*Report, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sample == nil || len(sample.PCM) == 0 {
		return nil, newError(KindInput, CodeEmptySignal, "no audio supplied", nil)
	}

	extractor := features.NewExtractor(a.cfg.Features, sample.SampleRate)
	fv, err := extractor.Extract(sample)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientVoicedFrames) {
			return nil, newError(KindFeatureExtraction, CodeInsufficientVoicedFrames,
				"recording contains too little voiced speech, ask the user to re-record", err)
		}
		return nil, newError(KindFeatureExtraction, CodeDegenerateSignal,
			"acoustic analysis failed on this recording", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := a.combiner.Combine(fv)
	if err != nil {
		return nil, newError(KindModelInference, CodeAllModelsFailed,
			"no scoring model produced output", err)
	}

	rawScores := a.mapper.Map(result, sample.Metadata)
	adjustment := a.aggregator.Apply(userID, rawScores)

	// Only completed analyses reach personalization state.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sampleCount := adjustment.SampleCount
	if userID != "" {
		profile, commitErr := a.aggregator.Commit(userID, rawScores)
		if commitErr != nil {
			a.logger.Warn("profile commit failed, report stays non-personalized", logging.Fields{
				"user_id": userID,
				"error":   commitErr.Error(),
			})
			// The report must stay internally consistent: non-personalized
			// means the raw population scores, not a blended set with the
			// flag cleared.
			adjustment.Scores = rawScores
			adjustment.Applied = false
			adjustment.Score = 0
		} else if profile != nil {
			sampleCount = profile.SampleCount
		}
	}

	level := risk.Classify(adjustment.Scores)
	dominant := result.TopClass()
	recommendations := risk.Recommend(dominant, level)

	report := &Report{
		ID:                     newReportID(),
		CreatedAt:              time.Now().UTC(),
		ScoreSet:               *adjustment.Scores,
		RiskLevel:              level,
		Recommendations:        recommendations,
		ConfidenceScore:        result.Confidence,
		DominantCondition:      dominant.String(),
		Architecture:           string(result.Architecture),
		ExcludedModels:         result.Excluded,
		PersonalizationApplied: adjustment.Applied,
		PersonalizationScore:   adjustment.Score,
		SampleCount:            sampleCount,
		ProcessingTime:         time.Since(start).Seconds(),
	}

	if risk.IsCrisis(level) {
		a.logger.Warn("crisis-level result flagged for escalation", logging.Fields{
			"report_id":  report.ID,
			"risk_level": string(level),
		})
	}

	a.logger.Debug("analysis complete", logging.Fields{
		"report_id":       report.ID,
		"overall_score":   report.OverallScore,
		"risk_level":      string(level),
		"confidence":      result.Confidence,
		"processing_time": report.ProcessingTime,
	})

	return report, nil
}

// Bank exposes the loaded model bank, mainly for diagnostics.
func (a *Analyzer) Bank() *models.Bank { return a.bank }

// String describes the analyzer configuration.
func (a *Analyzer) String() string {
	return fmt.Sprintf("analyzer(architecture=%s)", a.cfg.Architecture)
}
