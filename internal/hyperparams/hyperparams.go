// Package hyperparams holds the single immutable configuration record the
// tree sampler threads down through SampleTrees → runChain → weight
// builders, replacing the module-level globals the original implementation
// mutated from CLI arguments (spec.md §9 "Global hyperparameter
// namespace").
package hyperparams

// Hyperparams are the five knobs named in spec.md §6 "Hyperparameter
// keys", with the defaults from §4.3.
type Hyperparams struct {
	Tau   float64 // weight on the depth-biased subtree-selection term
	Rho   float64 // weight on the mutrel-fit subtree-selection term
	Theta float64 // weight on the data_mutrel B_A term in parent selection
	Kappa float64 // weight on the depth term in parent selection
	Psi   float64 // shape parameter of the depth-fraction beta-like weighting
}

// DefaultHyperparams returns tau=1, rho=5, theta=8, kappa=1, psi=3
// (spec.md §4.3).
func DefaultHyperparams() Hyperparams {
	return Hyperparams{Tau: 1, Rho: 5, Theta: 8, Kappa: 1, Psi: 3}
}
