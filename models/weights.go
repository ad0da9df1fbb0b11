package models

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-yaml"
)

// HeadWeights maps a model's hidden representation to per-condition evidence
// and the class distribution. NormalBias is the resting logit of the Normal
// class; LogitGain scales condition evidence before the softmax.
type HeadWeights struct {
	Stress     []float64 `yaml:"stress"`
	Anxiety    []float64 `yaml:"anxiety"`
	Depression []float64 `yaml:"depression"`
	NormalBias float64   `yaml:"normal_bias"`
	LogitGain  float64   `yaml:"logit_gain"`
}

// MLPWeights parameterize the dense architecture.
type MLPWeights struct {
	Hidden [][]float64 `yaml:"hidden"` // units x markers
	Head   HeadWeights `yaml:"head"`
}

// CNNWeights parameterize the 1-D convolutional architecture.
type CNNWeights struct {
	Kernels [][]float64 `yaml:"kernels"` // filters x kernel width
	Head    HeadWeights `yaml:"head"`
}

// RNNWeights parameterize the Elman recurrent architecture.
type RNNWeights struct {
	WIn  []float64   `yaml:"w_in"`  // hidden x 1 (per-step scalar input)
	WRec [][]float64 `yaml:"w_rec"` // hidden x hidden
	Head HeadWeights `yaml:"head"`
}

// AttentionWeights parameterize the single-head attention architecture.
type AttentionWeights struct {
	Embed [][]float64 `yaml:"embed"` // markers x dim
	Query []float64   `yaml:"query"` // dim
	Head  HeadWeights `yaml:"head"`
}

// EnsembleWeights fix the member combination at deployment time.
type EnsembleWeights struct {
	Members           map[string]float64 `yaml:"members"`
	ConfidencePenalty float64            `yaml:"confidence_penalty"`
	ConfidenceFloor   float64            `yaml:"confidence_floor"`
	ConfidenceCeiling float64            `yaml:"confidence_ceiling"`
}

// WeightSet is the full calibration of the model bank.
type WeightSet struct {
	MLP       MLPWeights       `yaml:"mlp"`
	CNN       CNNWeights       `yaml:"cnn"`
	RNN       RNNWeights       `yaml:"rnn"`
	Attention AttentionWeights `yaml:"attention"`
	Ensemble  EnsembleWeights  `yaml:"ensemble"`
}

// DefaultWeights returns the deployment calibration shipped with the module.
// The constants were fixed against the population calibration set; they are
// configuration, not learned state, and can be overridden from a YAML file
// via LoadWeightsFile.
func DefaultWeights() *WeightSet {
	// Shared hidden-unit layout for the dense path: six detector units over
	// the eight markers (jitter, shimmer, noise, pitch instability, energy
	// instability, pause excess, unvoiced excess, breathiness).
	hidden := [][]float64{
		{1.10, 0.90, 0.00, 0.20, 0.00, 0.00, 0.00, 0.00}, // perturbation
		{0.00, 0.20, 1.20, 0.00, 0.00, 0.00, 0.00, 0.30}, // noise
		{0.20, 0.00, 0.00, 1.00, 0.80, 0.00, 0.00, 0.00}, // prosodic instability
		{0.00, 0.00, 0.00, 0.00, 0.20, 1.20, 0.00, 0.00}, // pausing
		{0.00, 0.00, 0.00, 0.00, 0.00, 0.30, 1.10, 0.00}, // devoicing
		{0.00, 0.00, 0.30, 0.00, 0.00, 0.00, 0.20, 1.10}, // breathiness
	}

	head := HeadWeights{
		// Per-condition loading of the six detector units, following the
		// acoustic correlates reported for each condition: stress loads on
		// prosodic instability, anxiety on perturbation and breathiness,
		// depression on pausing, devoicing and noise.
		Stress:     []float64{0.50, 0.30, 0.90, 0.25, 0.20, 0.30},
		Anxiety:    []float64{0.70, 0.30, 0.70, 0.20, 0.30, 0.50},
		Depression: []float64{0.60, 0.70, 0.30, 0.90, 0.60, 0.30},
		NormalBias: 1.20,
		LogitGain:  1.50,
	}

	return &WeightSet{
		MLP: MLPWeights{
			Hidden: hidden,
			Head:   head,
		},
		CNN: CNNWeights{
			Kernels: [][]float64{
				{0.25, 0.50, 0.25},
				{0.40, 0.40, 0.00},
				{0.00, 0.40, 0.40},
				{-0.30, 0.60, -0.30},
			},
			Head: HeadWeights{
				Stress:     []float64{0.85, 0.55, 0.55, 0.35},
				Anxiety:    []float64{0.80, 0.60, 0.60, 0.45},
				Depression: []float64{1.00, 0.65, 0.65, 0.30},
				NormalBias: 1.20,
				LogitGain:  1.50,
			},
		},
		RNN: RNNWeights{
			WIn: []float64{0.90, 0.70, 0.50, 0.30},
			WRec: [][]float64{
				{0.50, 0.10, 0.00, 0.00},
				{0.20, 0.40, 0.10, 0.00},
				{0.00, 0.20, 0.40, 0.10},
				{0.00, 0.00, 0.20, 0.50},
			},
			Head: HeadWeights{
				Stress:     []float64{0.70, 0.50, 0.40, 0.30},
				Anxiety:    []float64{0.65, 0.55, 0.45, 0.35},
				Depression: []float64{0.75, 0.60, 0.50, 0.40},
				NormalBias: 1.20,
				LogitGain:  1.50,
			},
		},
		Attention: AttentionWeights{
			Embed: [][]float64{
				{0.90, 0.20, 0.00, 0.10}, // jitter
				{0.70, 0.30, 0.00, 0.00}, // shimmer
				{0.10, 0.90, 0.20, 0.00}, // noise
				{0.20, 0.10, 0.90, 0.00}, // pitch instability
				{0.00, 0.00, 0.70, 0.20}, // energy instability
				{0.00, 0.20, 0.10, 0.90}, // pause excess
				{0.00, 0.10, 0.00, 0.80}, // unvoiced excess
				{0.30, 0.60, 0.00, 0.20}, // breathiness
			},
			Query: []float64{0.60, 0.60, 0.60, 0.60},
			Head: HeadWeights{
				Stress:     []float64{0.60, 0.40, 0.90, 0.30},
				Anxiety:    []float64{0.80, 0.60, 0.50, 0.30},
				Depression: []float64{0.60, 0.70, 0.30, 1.00},
				NormalBias: 1.20,
				LogitGain:  1.50,
			},
		},
		Ensemble: EnsembleWeights{
			Members: map[string]float64{
				"mlp":       0.30,
				"cnn":       0.25,
				"rnn":       0.20,
				"attention": 0.25,
			},
			ConfidencePenalty: 2.0,
			ConfidenceFloor:   0.05,
			ConfidenceCeiling: 0.99,
		},
	}
}

// LoadWeightsFile reads a YAML calibration override from disk and validates
// it. Fields absent from the file keep their defaults.
func LoadWeightsFile(path string) (*WeightSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read weights file: %w", err)
	}

	ws := DefaultWeights()
	if err := yaml.Unmarshal(data, ws); err != nil {
		return nil, fmt.Errorf("cannot parse weights file: %w", err)
	}

	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights file %s: %w", path, err)
	}

	return ws, nil
}

// Validate checks shapes and finiteness of the calibration.
func (ws *WeightSet) Validate() error {
	checkVec := func(name string, v []float64, want int) error {
		if len(v) != want {
			return fmt.Errorf("%s: got %d values, want %d", name, len(v), want)
		}
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%s: non-finite value", name)
			}
		}
		return nil
	}
	checkMat := func(name string, m [][]float64, rows, cols int) error {
		if len(m) != rows {
			return fmt.Errorf("%s: got %d rows, want %d", name, len(m), rows)
		}
		for i, row := range m {
			if err := checkVec(fmt.Sprintf("%s[%d]", name, i), row, cols); err != nil {
				return err
			}
		}
		return nil
	}
	checkHead := func(name string, h HeadWeights, dim int) error {
		if err := checkVec(name+".stress", h.Stress, dim); err != nil {
			return err
		}
		if err := checkVec(name+".anxiety", h.Anxiety, dim); err != nil {
			return err
		}
		if err := checkVec(name+".depression", h.Depression, dim); err != nil {
			return err
		}
		if h.LogitGain <= 0 {
			return fmt.Errorf("%s.logit_gain must be positive", name)
		}
		return nil
	}

	if err := checkMat("mlp.hidden", ws.MLP.Hidden, len(ws.MLP.Hidden), NumMarkers); err != nil {
		return err
	}
	if err := checkHead("mlp.head", ws.MLP.Head, len(ws.MLP.Hidden)); err != nil {
		return err
	}
	for i, k := range ws.CNN.Kernels {
		if err := checkVec(fmt.Sprintf("cnn.kernels[%d]", i), k, len(ws.CNN.Kernels[0])); err != nil {
			return err
		}
	}
	if err := checkHead("cnn.head", ws.CNN.Head, len(ws.CNN.Kernels)); err != nil {
		return err
	}
	hiddenDim := len(ws.RNN.WIn)
	if err := checkMat("rnn.w_rec", ws.RNN.WRec, hiddenDim, hiddenDim); err != nil {
		return err
	}
	if err := checkHead("rnn.head", ws.RNN.Head, hiddenDim); err != nil {
		return err
	}
	embedDim := len(ws.Attention.Query)
	if err := checkMat("attention.embed", ws.Attention.Embed, NumMarkers, embedDim); err != nil {
		return err
	}
	if err := checkHead("attention.head", ws.Attention.Head, embedDim); err != nil {
		return err
	}

	total := 0.0
	for name, w := range ws.Ensemble.Members {
		if w < 0 {
			return fmt.Errorf("ensemble.members.%s: negative weight", name)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("ensemble.members: weights sum to zero")
	}
	if ws.Ensemble.ConfidenceFloor < 0 || ws.Ensemble.ConfidenceCeiling > 1 ||
		ws.Ensemble.ConfidenceFloor >= ws.Ensemble.ConfidenceCeiling {
		return fmt.Errorf("ensemble confidence bounds out of order")
	}

	return nil
}
