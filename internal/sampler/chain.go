package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/telemetry"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// ChainStats reports acceptance bookkeeping for one completed chain
// (spec.md §4.3 "Acceptance rate is reported").
type ChainStats struct {
	Proposed int
	Accepted int
}

// AcceptanceRate returns Accepted/Proposed, or 0 if no moves were proposed.
func (c ChainStats) AcceptanceRate() float64 {
	if c.Proposed == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Proposed)
}

// chainResult is one chain's raw step-by-step output, before the caller
// discards burn-in and applies thinning.
type chainResult struct {
	samples []*TreeSample
	stats   ChainStats
}

// chainSeed derives the per-chain PRNG seed from a base seed and chain
// index (spec.md §4.3 "State and initialization"), reducing modulo 2^32
// per spec.md §7 item 5.
func chainSeed(baseSeed uint64, chainIndex int) uint64 {
	const mod = uint64(1) << 32
	return (baseSeed + uint64(chainIndex) + 1) % mod
}

func progressAt(step, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(step) / float64(total-1)
}

// curState holds the mutable parts of "current" that change across
// accepted steps, kept separate from TreeSample so rejected steps don't
// need to re-derive anything.
type curState struct {
	adj          binom.Adjacency
	anc          [][]int
	depthFrac    []float64
	phi          [][]float64
	llh          float64
	mutrelFitVec []float64
}

// runChain executes total = treesPerChain + burninPerChain Metropolis-
// Hastings steps starting from a star-topology tree (spec.md §4.3), and
// sends one token per completed tree on progressCh.
func runChain(dataMutrel *mutrel.MutRel, supervars []*variant.Variant, treesPerChain, burninPerChain int, phiCfg phifit.Config, hp hyperparams.Hyperparams, seed uint64, progressCh chan<- struct{}, logger telemetry.Logger) (*chainResult, error) {
	total := treesPerChain + burninPerChain
	k := len(supervars)
	rng := rand.New(rand.NewSource(int64(seed)))

	adj := binom.StarAdjacency(k)
	anc := binom.AncestralFromAdjacency(adj)
	depthFrac := depthFracOf(binom.DepthFromRoot(adj))
	fit, err := phifit.Fit(anc, supervars, phiCfg)
	if err != nil {
		return nil, fmt.Errorf("runChain: initial fit: %w", err)
	}
	cur := &curState{
		adj:          adj,
		anc:          anc,
		depthFrac:    depthFrac,
		phi:          fit.Phi,
		llh:          fit.LLH,
		mutrelFitVec: fitMutrel(dataMutrel, anc, k),
	}

	samples := make([]*TreeSample, 0, total)
	stats := ChainStats{}

	for step := 0; step < total; step++ {
		progress := progressAt(step, total)
		curW := subtreeWeights(hp, cur.depthFrac, progress, cur.mutrelFitVec)

		if k > 1 {
			s := sampleFromWeights(curW, rng)
			if s >= 1 {
				pOld := cur.adj.Parent(s)
				curWP := parentWeights(hp, dataMutrel, cur.depthFrac, s, pOld, k)
				b := sampleFromWeights(curWP, rng)
				if b >= 0 && b != pOld {
					stats.Proposed++
					if accepted := tryStep(dataMutrel, supervars, phiCfg, hp, cur, curW, curWP, s, pOld, b, progress, rng); accepted {
						stats.Accepted++
					}
				}
			}
		}

		samples = append(samples, &TreeSample{
			Adjacency: cur.adj.Clone(),
			Ancestral: cur.anc,
			DepthFrac: cur.depthFrac,
			Phi:       cur.phi,
			PhiLLH:    cur.llh,
			MutrelFit: cur.mutrelFitVec,
			Progress:  progress,
			WSubtree:  curW,
		})
		if progressCh != nil {
			progressCh <- struct{}{}
		}
	}

	logger.Progress("chain seed=%d: %d/%d accepted (%.1f%%)", seed, stats.Accepted, stats.Proposed, 100*stats.AcceptanceRate())
	return &chainResult{samples: samples, stats: stats}, nil
}

// tryStep builds the proposed tree T', runs the reverse-move accounting,
// and mutates cur in place iff the Metropolis-Hastings draw accepts.
func tryStep(dataMutrel *mutrel.MutRel, supervars []*variant.Variant, phiCfg phifit.Config, hp hyperparams.Hyperparams, cur *curState, curW, curWP []float64, s, pOld, b int, progress float64, rng *rand.Rand) bool {
	k := cur.adj.K()

	propAdj := cur.adj.Clone()
	modifyTree(propAdj, cur.anc, s, b)
	if err := propAdj.Validate(); err != nil {
		panic(fmt.Sprintf("sampler: proposed adjacency invariant violated: %v", err))
	}

	propAnc := binom.AncestralFromAdjacency(propAdj)
	propDepthFrac := depthFracOf(binom.DepthFromRoot(propAdj))

	propFit, err := phifit.Fit(propAnc, supervars, phiCfg)
	if err != nil {
		panic(fmt.Sprintf("sampler: phi fit failed on proposed tree: %v", err))
	}
	if err := phifit.ValidateSumCondition(propAdj, propFit.Phi); err != nil {
		panic(fmt.Sprintf("sampler: phi invariant violated: %v", err))
	}
	if math.IsNaN(propFit.LLH) || math.IsInf(propFit.LLH, 0) {
		panic(fmt.Sprintf("sampler: non-finite phi log-likelihood %v", propFit.LLH))
	}

	propMutrelFit := fitMutrel(dataMutrel, propAnc, k)
	propW := subtreeWeights(hp, propDepthFrac, progress, propMutrelFit)
	propParentOfS := b
	propWP := parentWeights(hp, dataMutrel, propDepthFrac, s, propParentOfS, k)

	wFwdSubtree := weightOf(curW, s)
	wFwdParent := weightOf(curWP, b)
	wRevSubtree := weightOf(propW, s)
	wRevParent := weightOf(propWP, pOld)

	// Acceptance-ratio edge case (spec.md §9): the forward move was
	// reachable by construction (we just sampled it), but if the reverse
	// move is unreachable from T' the proposal is asymmetric in a way
	// that makes log q(T|T') = -Inf; reject without evaluating log alpha.
	if wRevSubtree <= 0 || wRevParent <= 0 {
		return false
	}

	logQFwd := math.Log(wFwdSubtree) + math.Log(wFwdParent)
	logQRev := math.Log(wRevSubtree) + math.Log(wRevParent)
	logAlpha := (propFit.LLH - cur.llh) + (logQRev - logQFwd)

	logU := math.Log(rng.Float64())
	if logAlpha < logU {
		return false
	}

	cur.adj = propAdj
	cur.anc = propAnc
	cur.depthFrac = propDepthFrac
	cur.phi = propFit.Phi
	cur.llh = propFit.LLH
	cur.mutrelFitVec = propMutrelFit
	return true
}
