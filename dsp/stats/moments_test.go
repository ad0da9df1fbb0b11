package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	req := require.New(t)

	m := Describe([]float64{4, 8, 6, 2, 10})
	req.InDelta(6.0, m.Mean, 1e-9)
	req.InDelta(3.1622776601683795, m.StdDev, 1e-9) // sqrt(10), sample stddev
	req.InDelta(2.0, m.Min, 1e-9)
	req.InDelta(10.0, m.Max, 1e-9)
	req.InDelta(8.0, m.Range(), 1e-9)

	symmetric := Describe([]float64{1, 2, 3, 4, 5})
	req.InDelta(0.0, symmetric.Skewness, 1e-9)
}

func TestDescribeDegenerateSeries(t *testing.T) {
	req := require.New(t)

	req.Equal(Moments{}, Describe(nil))

	single := Describe([]float64{7})
	req.InDelta(7.0, single.Mean, 1e-9)
	req.Zero(single.StdDev)
	req.Zero(single.Skewness)

	constant := Describe([]float64{3, 3, 3, 3})
	req.Zero(constant.StdDev)
	req.Zero(constant.Skewness)
	req.Zero(constant.Kurtosis)
	req.Zero(constant.CoefficientOfVariation())
}

func TestCoefficientOfVariation(t *testing.T) {
	req := require.New(t)

	m := Moments{Mean: 10, StdDev: 2}
	req.InDelta(0.2, m.CoefficientOfVariation(), 1e-9)

	zero := Moments{Mean: 0, StdDev: 2}
	req.Zero(zero.CoefficientOfVariation())
}
