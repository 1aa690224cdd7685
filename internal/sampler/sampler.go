// Package sampler implements the tree-sampling engine: the Metropolis-
// Hastings MCMC core described in spec.md §4.3, run as N independent
// chains fanned out concurrently (spec.md §5).
package sampler

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/telemetry"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// SampleConfig bundles the runtime knobs of one sampling run (spec.md §6
// "sample_trees"); the tau/rho/theta/kappa/psi hyperparameters are kept
// separate in hyperparams.Hyperparams (SPEC_FULL.md §2 "Configuration").
type SampleConfig struct {
	TreesPerChain  int
	BurninPerChain int
	NChains        int
	PhiMethod      phifit.Method
	PhiIterations  int
	Seed           uint64
	Parallel       int     // bound on concurrently running chains; <=0 means 1
	ThinnedFrac    float64 // 0 disables thinning; otherwise keep this fraction, uniformly strided
}

// Result is the (adjms, phis, llhs) triple stream spec.md §6 names as the
// sampler's public contract, plus the per-chain acceptance bookkeeping
// spec.md §4.3 requires be reported.
type Result struct {
	Adjms []binom.Adjacency
	Phis  [][][]float64
	LLHs  []float64
	Stats []ChainStats
}

// SampleTrees runs NChains independent Metropolis-Hastings chains over
// rooted labeled trees, merges their post-burn-in samples in chain order,
// and returns the merged (adjm, phi, llh) triples (spec.md §4.3, §5).
func SampleTrees(dataMutrel *mutrel.MutRel, supervars []*variant.Variant, cfg SampleConfig, hp hyperparams.Hyperparams, logger telemetry.Logger) (*Result, error) {
	if logger == nil {
		logger = telemetry.Discard
	}
	if cfg.NChains <= 0 {
		return nil, fmt.Errorf("sampler: nchains must be positive, got %d", cfg.NChains)
	}
	if cfg.TreesPerChain <= 0 {
		return nil, fmt.Errorf("sampler: trees_per_chain must be positive, got %d", cfg.TreesPerChain)
	}
	assertSupervariantOmegas(supervars)

	phiCfg := phifit.Config{Method: cfg.PhiMethod, Iterations: cfg.PhiIterations}
	total := cfg.TreesPerChain + cfg.BurninPerChain

	progressCh := make(chan struct{}, cfg.NChains*total)
	results := make([]*chainResult, cfg.NChains)

	g := new(errgroup.Group)
	limit := cfg.Parallel
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := 0; i < cfg.NChains; i++ {
		chainIndex := i
		g.Go(func() error {
			seed := chainSeed(cfg.Seed, chainIndex)
			res, err := runChain(dataMutrel, supervars, cfg.TreesPerChain, cfg.BurninPerChain, phiCfg, hp, seed, progressCh, logger)
			if err != nil {
				return fmt.Errorf("chain %d: %w", chainIndex, err)
			}
			results[chainIndex] = res
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(progressCh)
		done <- err
	}()
	received := 0
	for range progressCh {
		received++
	}
	if err := <-done; err != nil {
		return nil, err
	}
	logger.Progress("sampler: %d chains complete, %d trees total", cfg.NChains, received)

	return mergeChains(results, cfg), nil
}

// mergeChains discards the first BurninPerChain samples of every chain,
// concatenates the remainder in chain-index order, and applies thinning —
// deterministic given identical seed, chain count, and chain assignment
// order (spec.md §5).
func mergeChains(results []*chainResult, cfg SampleConfig) *Result {
	out := &Result{Stats: make([]ChainStats, len(results))}
	for i, res := range results {
		out.Stats[i] = res.stats
		kept := res.samples[cfg.BurninPerChain:]
		for _, ts := range kept {
			out.Adjms = append(out.Adjms, ts.Adjacency)
			out.Phis = append(out.Phis, ts.Phi)
			out.LLHs = append(out.LLHs, ts.PhiLLH)
		}
	}
	if cfg.ThinnedFrac > 0 && cfg.ThinnedFrac < 1 {
		stride := int(math.Round(1 / cfg.ThinnedFrac))
		if stride < 1 {
			stride = 1
		}
		var adjms []binom.Adjacency
		var phis [][][]float64
		var llhs []float64
		for i := 0; i < len(out.Adjms); i += stride {
			adjms = append(adjms, out.Adjms[i])
			phis = append(phis, out.Phis[i])
			llhs = append(llhs, out.LLHs[i])
		}
		out.Adjms, out.Phis, out.LLHs = adjms, phis, llhs
	}
	return out
}
