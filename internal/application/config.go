package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// EstimatorConfig is the declarative YAML surface for reward estimation
// parameters. Priors and minimizers are injected programmatically, not
// configured here.
type EstimatorConfig struct {
	// Family selects the paired comparison model.
	Family string `yaml:"family" validate:"required,oneof=bradley-terry thurstone"`
	// Eps is the Laplace smoothing parameter. Defaults to DefaultEps
	// when omitted; must be positive when given.
	Eps float64 `yaml:"eps" validate:"omitempty,gt=0"`
	// Tol is the solver convergence tolerance. Defaults to DefaultTol
	// when omitted; must be positive when given.
	Tol float64 `yaml:"tol" validate:"omitempty,gt=0"`
}

// Options converts the parsed configuration into estimation options,
// applying defaults for omitted fields.
func (c EstimatorConfig) Options() EstimateOptions {
	opts := EstimateOptions{
		Family: Family(c.Family),
		Eps:    c.Eps,
		Tol:    c.Tol,
	}
	if opts.Eps == 0 {
		opts.Eps = DefaultEps
	}
	if opts.Tol == 0 {
		opts.Tol = DefaultTol
	}
	return opts
}

// ParseEstimatorConfig parses and validates a YAML estimator
// configuration.
func ParseEstimatorConfig(data []byte) (EstimatorConfig, error) {
	var cfg EstimatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EstimatorConfig{}, fmt.Errorf("failed to parse estimator config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return EstimatorConfig{}, fmt.Errorf("estimator config validation failed: %w", err)
	}
	return cfg, nil
}

// AggregatorConfig is the declarative YAML surface for ranked-pairs
// aggregation.
type AggregatorConfig struct {
	// Parallelism bounds concurrent ballot tallying. Zero means the
	// CPU-count default.
	Parallelism int `yaml:"parallelism" validate:"omitempty,min=1,max=1024"`
}

// ParseAggregatorConfig parses and validates a YAML aggregator
// configuration.
func ParseAggregatorConfig(data []byte) (AggregatorConfig, error) {
	var cfg AggregatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AggregatorConfig{}, fmt.Errorf("failed to parse aggregator config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return AggregatorConfig{}, fmt.Errorf("aggregator config validation failed: %w", err)
	}
	return cfg, nil
}
