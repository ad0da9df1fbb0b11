package personalization

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/CittaaHealthServices/vocalysis/clinical"
	"github.com/CittaaHealthServices/vocalysis/logging"
)

// BlendFactor is the weight of the new sample when blending against the
// established baseline: the new measurement dominates but is damped by
// history, which is what reduces per-user variance once a baseline exists.
const BlendFactor = 0.7

const lockStripes = 64

// Adjustment is the outcome of applying personalization to one raw score
// set.
type Adjustment struct {
	// Scores is the score set to report: blended when a baseline exists,
	// the raw population scores otherwise.
	Scores *clinical.ScoreSet `json:"scores"`

	// Applied is false while the profile is cold/warming or when storage
	// is unavailable.
	Applied bool `json:"applied"`

	// Score is the normalized magnitude of the adjustment (0 when not
	// applied).
	Score float64 `json:"score"`

	// State is the profile stage the adjustment was computed against.
	State State `json:"state"`

	// SampleCount is the profile count before commit.
	SampleCount int `json:"sample_count"`
}

// Aggregator maintains per-user rolling baselines and blends population
// model output toward the user's own historical distribution. Storage
// failures degrade to non-personalized scoring; they never block analysis.
type Aggregator struct {
	store  ProfileStore
	target int
	locks  [lockStripes]sync.Mutex
	logger logging.Logger
}

// NewAggregator creates an aggregator over the given store with the default
// nine-sample baseline target.
func NewAggregator(store ProfileStore) *Aggregator {
	return &Aggregator{
		store:  store,
		target: BaselineTarget,
		logger: logging.WithFields(logging.Fields{
			"component": "personalization_aggregator",
		}),
	}
}

// Apply blends the raw score set against the user's baseline. It never
// mutates stored state; commit happens separately once the analysis
// completes. An empty user ID or a storage failure yields the raw scores
// with Applied=false.
func (a *Aggregator) Apply(userID string, raw *clinical.ScoreSet) *Adjustment {
	if userID == "" {
		return &Adjustment{Scores: raw, State: StateCold}
	}

	profile, err := a.store.Load(userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			a.logger.Warn("profile store unavailable, proceeding non-personalized", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return &Adjustment{Scores: raw, State: StateCold}
	}

	adjustment := &Adjustment{
		Scores:      raw,
		State:       profile.State(),
		SampleCount: profile.SampleCount,
	}

	if !profile.BaselineEstablished {
		return adjustment
	}

	blended := &clinical.ScoreSet{
		PHQ9Score:   blend(raw.PHQ9Score, profile.PHQ9.Mean, clinical.PHQ9Min, clinical.PHQ9Max),
		GAD7Score:   blend(raw.GAD7Score, profile.GAD7.Mean, clinical.GAD7Min, clinical.GAD7Max),
		PSSScore:    blend(raw.PSSScore, profile.PSS.Mean, clinical.PSSMin, clinical.PSSMax),
		WEMWBSScore: blend(raw.WEMWBSScore, profile.WEMWBS.Mean, clinical.WEMWBSMin, clinical.WEMWBSMax),
	}
	blended.RefreshBands()

	adjustment.Scores = blended
	adjustment.Applied = true
	adjustment.Score = adjustmentScore(raw, blended)

	return adjustment
}

// Commit folds a completed analysis into the user's profile. Commits to the
// same user are serialized by a striped lock so overlapping submissions from
// multiple devices never lose updates. Returns the profile after the commit.
func (a *Aggregator) Commit(userID string, raw *clinical.ScoreSet) (*Profile, error) {
	if userID == "" {
		return nil, nil
	}

	lock := &a.locks[stripeFor(userID)]
	lock.Lock()
	defer lock.Unlock()

	profile, err := a.store.Load(userID)
	if errors.Is(err, ErrProfileNotFound) {
		profile = NewProfile(userID)
	} else if err != nil {
		return nil, fmt.Errorf("profile load failed: %w", err)
	}

	profile.SampleCount++
	profile.PHQ9.Update(float64(raw.PHQ9Score), profile.SampleCount)
	profile.GAD7.Update(float64(raw.GAD7Score), profile.SampleCount)
	profile.PSS.Update(float64(raw.PSSScore), profile.SampleCount)
	profile.WEMWBS.Update(float64(raw.WEMWBSScore), profile.SampleCount)
	profile.UpdatedAt = time.Now().UTC()

	if profile.SampleCount >= a.target {
		profile.BaselineEstablished = true
	}

	if err := a.store.Save(profile); err != nil {
		return nil, fmt.Errorf("profile save failed: %w", err)
	}

	return profile, nil
}

// blend damps a new score toward the baseline mean and clamps it back into
// the instrument range.
func blend(newScore int, baselineMean float64, lo, hi int) int {
	v := BlendFactor*float64(newScore) + (1.0-BlendFactor)*baselineMean
	rounded := int(v + 0.5)
	if rounded < lo {
		return lo
	}
	if rounded > hi {
		return hi
	}
	return rounded
}

// adjustmentScore reports how much blending moved the scores, normalized by
// each instrument's range and averaged.
func adjustmentScore(raw, blended *clinical.ScoreSet) float64 {
	sum := math.Abs(float64(raw.PHQ9Score-blended.PHQ9Score)) / float64(clinical.PHQ9Max-clinical.PHQ9Min)
	sum += math.Abs(float64(raw.GAD7Score-blended.GAD7Score)) / float64(clinical.GAD7Max-clinical.GAD7Min)
	sum += math.Abs(float64(raw.PSSScore-blended.PSSScore)) / float64(clinical.PSSMax-clinical.PSSMin)
	sum += math.Abs(float64(raw.WEMWBSScore-blended.WEMWBSScore)) / float64(clinical.WEMWBSMax-clinical.WEMWBSMin)
	return sum / 4.0
}

func stripeFor(userID string) int {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return int(h.Sum32() % lockStripes)
}
