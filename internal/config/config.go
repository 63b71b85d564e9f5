package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/willow/internal/chain"
	"github.com/san-kum/willow/internal/density"
)

const (
	DefaultSteps      = 30
	DefaultTol        = 1e-9
	DefaultTolCeiling = 1e-3
	DefaultStepBudget = 60.0
	DefaultWorkers    = 1
)

// Config is the YAML shape of one build run. The density may be given inline
// under density_pairs or loaded from a separate file named by density_file;
// inline pairs win when both are set.
type Config struct {
	DensityFile  string        `yaml:"density_file"`
	DensityPairs density.Pairs `yaml:"density_pairs"`
	Steps        int           `yaml:"steps"`
	Tol          float64       `yaml:"tol"`
	TolCeiling   float64       `yaml:"tol_ceiling"`
	StepBudget   float64       `yaml:"step_budget_seconds"`
	Cap          bool          `yaml:"cap_probabilities"`
	Workers      int           `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Steps:      DefaultSteps,
		Tol:        DefaultTol,
		TolCeiling: DefaultTolCeiling,
		StepBudget: DefaultStepBudget,
		Workers:    DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Pairs resolves the density from the inline pairs or the referenced file.
func (c *Config) Pairs() (density.Pairs, error) {
	if len(c.DensityPairs) > 0 {
		return c.DensityPairs, nil
	}
	return density.Load(c.DensityFile)
}

// ChainConfig translates the file-level settings into build parameters.
func (c *Config) ChainConfig() chain.Config {
	return chain.Config{
		Steps:            c.Steps,
		Tol:              c.Tol,
		TolCeiling:       c.TolCeiling,
		StepBudget:       time.Duration(c.StepBudget * float64(time.Second)),
		CapProbabilities: c.Cap,
		Workers:          c.Workers,
	}
}
