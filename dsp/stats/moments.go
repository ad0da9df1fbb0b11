package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Moments contains the descriptive statistics the feature vector carries for
// a per-frame series (energy, pitch, spectral descriptors).
type Moments struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Describe computes moment statistics of a series using gonum. An empty
// series yields all-zero moments.
func Describe(values []float64) Moments {
	if len(values) == 0 {
		return Moments{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) { // single-element series
		std = 0.0
	}

	m := Moments{
		Mean:   mean,
		StdDev: std,
		Min:    values[0],
		Max:    values[0],
	}

	for _, v := range values {
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
	}

	if std > 0 && len(values) > 2 {
		m.Skewness = stat.Skew(values, nil)
		m.Kurtosis = stat.ExKurtosis(values, nil)
		if math.IsNaN(m.Skewness) {
			m.Skewness = 0.0
		}
		if math.IsNaN(m.Kurtosis) {
			m.Kurtosis = 0.0
		}
	}

	return m
}

// CoefficientOfVariation returns sigma/mu, or 0 for a zero mean.
func (m Moments) CoefficientOfVariation() float64 {
	if m.Mean == 0 {
		return 0.0
	}
	return m.StdDev / m.Mean
}

// Range returns max - min.
func (m Moments) Range() float64 {
	return m.Max - m.Min
}
