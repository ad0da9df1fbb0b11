package personalization

import (
	"math"
	"time"
)

// BaselineTarget is the number of committed samples after which a user's
// baseline is considered established and blending begins. Matches the
// nine-sample calibration journey the client applications document.
const BaselineTarget = 9

// State is the personalization lifecycle stage of a profile.
type State string

const (
	StateCold         State = "cold"         // no samples yet
	StateWarming      State = "warming"      // 1..target-1 samples
	StatePersonalized State = "personalized" // baseline established
)

// RunningStats maintains a running mean/variance via Welford's algorithm.
type RunningStats struct {
	Mean float64 `json:"mean" msgpack:"mean"`
	M2   float64 `json:"m2" msgpack:"m2"`
}

// Update folds one observation into the stats given the new total count.
func (r *RunningStats) Update(x float64, count int) {
	delta := x - r.Mean
	r.Mean += delta / float64(count)
	r.M2 += delta * (x - r.Mean)
}

// Variance returns the sample variance for the given count.
func (r *RunningStats) Variance(count int) float64 {
	if count < 2 {
		return 0.0
	}
	return r.M2 / float64(count-1)
}

// StdDev returns the sample standard deviation for the given count.
func (r *RunningStats) StdDev(count int) float64 {
	return math.Sqrt(r.Variance(count))
}

// Profile is the per-user accumulating state: how many samples the user has
// committed and the running distribution of their past instrument scores.
// Only the Aggregator mutates profiles.
type Profile struct {
	UserID              string       `json:"user_id" msgpack:"user_id"`
	SampleCount         int          `json:"sample_count" msgpack:"sample_count"`
	BaselineEstablished bool         `json:"baseline_established" msgpack:"baseline_established"`
	PHQ9                RunningStats `json:"phq9" msgpack:"phq9"`
	GAD7                RunningStats `json:"gad7" msgpack:"gad7"`
	PSS                 RunningStats `json:"pss" msgpack:"pss"`
	WEMWBS              RunningStats `json:"wemwbs" msgpack:"wemwbs"`
	UpdatedAt           time.Time    `json:"updated_at" msgpack:"updated_at"`
}

// NewProfile creates an empty (cold) profile.
func NewProfile(userID string) *Profile {
	return &Profile{UserID: userID}
}

// State derives the lifecycle stage from the sample count.
func (p *Profile) State() State {
	switch {
	case p.SampleCount == 0:
		return StateCold
	case !p.BaselineEstablished:
		return StateWarming
	default:
		return StatePersonalized
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	clone := *p
	return &clone
}
