package sampler

import (
	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// TreeSample is one immutable MCMC step (spec.md §3): the adjacency and
// its derived ancestral matrix, the chain-progress-dependent depth
// weighting, the fitted phi matrix and its log-likelihood, the per-node
// mutrel-fit vector, and the precomputed subtree-selection weights —
// everything the next proposal and the final result bundle need, frozen
// at acceptance time.
type TreeSample struct {
	Adjacency binom.Adjacency
	Ancestral [][]int
	DepthFrac []float64
	Phi       [][]float64
	PhiLLH    float64
	MutrelFit []float64
	Progress  float64
	WSubtree  []float64
}

// buildTreeSample fits phi for adj and precomputes every quantity the
// proposal distributions need, given the chain's current progress
// fraction.
func buildTreeSample(adj binom.Adjacency, dataMutrel *mutrel.MutRel, supervars []*variant.Variant, phiCfg phifit.Config, hp hyperparams.Hyperparams, progress float64) (*TreeSample, error) {
	anc := binom.AncestralFromAdjacency(adj)
	depth := binom.DepthFromRoot(adj)
	depthFrac := depthFracOf(depth)

	fit, err := phifit.Fit(anc, supervars, phiCfg)
	if err != nil {
		return nil, err
	}

	mf := fitMutrel(dataMutrel, anc, adj.K())
	w := subtreeWeights(hp, depthFrac, progress, mf)

	return &TreeSample{
		Adjacency: adj,
		Ancestral: anc,
		DepthFrac: depthFrac,
		Phi:       fit.Phi,
		PhiLLH:    fit.LLH,
		MutrelFit: mf,
		Progress:  progress,
		WSubtree:  w,
	}, nil
}
