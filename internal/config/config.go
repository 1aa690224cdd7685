// Package config loads hyperparameter overrides from a YAML file. It is
// ambient host-side configuration infrastructure, not SSM/params data
// I/O — the CORE sampler, pairwise engine, and phi fitter never import
// this package (spec.md §1 "out of scope: command-line argument parsing
// and hyperparameter wiring"; SPEC_FULL.md §3 wires gopkg.in/yaml.v3 here
// specifically so that boundary holds).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
)

// hyperparamsFile mirrors hyperparams.Hyperparams with yaml tags; kept
// separate so the CORE type carries no serialization concerns.
type hyperparamsFile struct {
	Tau   *float64 `yaml:"tau"`
	Rho   *float64 `yaml:"rho"`
	Theta *float64 `yaml:"theta"`
	Kappa *float64 `yaml:"kappa"`
	Psi   *float64 `yaml:"psi"`
}

// LoadHyperparams reads a YAML file of hyperparameter overrides and
// applies them on top of hyperparams.DefaultHyperparams(). Any field the
// file omits keeps its default value.
func LoadHyperparams(path string) (hyperparams.Hyperparams, error) {
	hp := hyperparams.DefaultHyperparams()

	data, err := os.ReadFile(path)
	if err != nil {
		return hp, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var file hyperparamsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return hp, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if file.Tau != nil {
		hp.Tau = *file.Tau
	}
	if file.Rho != nil {
		hp.Rho = *file.Rho
	}
	if file.Theta != nil {
		hp.Theta = *file.Theta
	}
	if file.Kappa != nil {
		hp.Kappa = *file.Kappa
	}
	if file.Psi != nil {
		hp.Psi = *file.Psi
	}
	return hp, nil
}
