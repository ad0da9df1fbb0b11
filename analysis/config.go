package analysis

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/CittaaHealthServices/vocalysis/features"
	"github.com/CittaaHealthServices/vocalysis/models"
)

// Config holds the analyzer configuration. Environment variables under the
// VOCALYSIS_ prefix overlay the defaults; the extraction parameters are code
// configuration and not exposed to the environment.
type Config struct {
	// Architecture selects the scoring mode: ensemble or a single member.
	Architecture string `envconfig:"ARCHITECTURE" default:"ensemble"`

	// WeightsFile optionally overrides the built-in model calibration.
	WeightsFile string `envconfig:"WEIGHTS_FILE"`

	// ProfileDir is the Badger directory for personalization profiles.
	// Empty means in-memory profiles only.
	ProfileDir string `envconfig:"PROFILE_DIR"`

	// Workers sizes the analysis worker pool; 0 means GOMAXPROCS.
	Workers int `envconfig:"WORKERS" default:"0"`

	// Features are the extraction parameters.
	Features features.Config `ignored:"true"`
}

// DefaultConfig returns the deployment defaults.
func DefaultConfig() Config {
	return Config{
		Architecture: string(models.ArchitectureEnsemble),
		Features:     features.DefaultConfig(),
	}
}

// LoadConfig reads the VOCALYSIS_* environment overlay on top of the
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process("vocalysis", &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if cfg.Features.FrameSize == 0 {
		cfg.Features = features.DefaultConfig()
	}

	if _, err := models.ParseArchitecture(cfg.Architecture); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
