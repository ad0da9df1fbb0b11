package models

import (
	"math"

	"github.com/CittaaHealthServices/vocalysis/features"
)

// CNN is the 1-D convolutional scoring architecture: a small filter bank
// slides over the marker vector treated as a sequence, each filter's response
// is average-pooled, and the pooled activations feed the condition head.
// Convolution smooths locally correlated markers (jitter/shimmer,
// pause/devoicing) that the dense path treats independently.
type CNN struct {
	kernels [][]float64
	head    HeadWeights
}

// NewCNN builds the convolutional model from its calibration.
func NewCNN(w CNNWeights) *CNN {
	return &CNN{
		kernels: w.Kernels,
		head:    w.Head,
	}
}

// Name implements ScoringModel.
func (c *CNN) Name() string { return string(ArchitectureCNN) }

// Score implements ScoringModel.
func (c *CNN) Score(fv *features.FeatureVector) (*Prediction, error) {
	mk, err := markers(fv)
	if err != nil {
		return nil, err
	}

	pooled := make([]float64, len(c.kernels))
	for f, kernel := range c.kernels {
		pooled[f] = math.Tanh(c.convolvePool(mk, kernel))
	}

	return c.head.apply(c.Name(), pooled), nil
}

// convolvePool applies one filter with same-padding and returns the global
// average of the response.
func (c *CNN) convolvePool(sequence, kernel []float64) float64 {
	half := len(kernel) / 2
	sum := 0.0

	for i := range sequence {
		acc := 0.0
		for k, w := range kernel {
			j := i + k - half
			if j < 0 || j >= len(sequence) {
				continue // zero padding
			}
			acc += w * sequence[j]
		}
		sum += acc
	}

	return sum / float64(len(sequence))
}
