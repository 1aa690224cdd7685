package sampler

import (
	"fmt"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// UseExistingStructures bypasses the sampler entirely: for each
// caller-supplied adjacency, it fits phi once and scores the resulting
// log-likelihood, returning the triples without running any MCMC steps
// (spec.md §4.3 "Alternative: fixed-structure mode").
func UseExistingStructures(adjms []binom.Adjacency, supervars []*variant.Variant, phiCfg phifit.Config) (*Result, error) {
	assertSupervariantOmegas(supervars)

	out := &Result{}
	for i, adj := range adjms {
		if err := adj.Validate(); err != nil {
			return nil, fmt.Errorf("use existing structures: adjacency %d: %w", i, err)
		}
		anc := binom.AncestralFromAdjacency(adj)
		fit, err := phifit.Fit(anc, supervars, phiCfg)
		if err != nil {
			return nil, fmt.Errorf("use existing structures: adjacency %d: %w", i, err)
		}
		if err := phifit.ValidateSumCondition(adj, fit.Phi); err != nil {
			return nil, fmt.Errorf("use existing structures: adjacency %d: %w", i, err)
		}
		out.Adjms = append(out.Adjms, adj)
		out.Phis = append(out.Phis, fit.Phi)
		out.LLHs = append(out.LLHs, fit.LLH)
	}
	return out, nil
}
