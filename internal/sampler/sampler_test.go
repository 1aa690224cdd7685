package sampler

import (
	"testing"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

func twoNodeFixture() []*variant.Variant {
	root := &variant.Variant{ID: "S0", VarReads: []int{0}, RefReads: []int{100}, Omega: []float64{0.5}}
	a := &variant.Variant{ID: "S1", VarReads: []int{70}, RefReads: []int{30}, Omega: []float64{0.5}}
	return []*variant.Variant{root, a}
}

func threeNodeChainFixture() []*variant.Variant {
	root := &variant.Variant{ID: "S0", VarReads: []int{0}, RefReads: []int{100}, Omega: []float64{0.5}}
	a := &variant.Variant{ID: "S1", VarReads: []int{90}, RefReads: []int{10}, Omega: []float64{0.5}}
	b := &variant.Variant{ID: "S2", VarReads: []int{45}, RefReads: []int{55}, Omega: []float64{0.5}}
	return []*variant.Variant{root, a, b}
}

func clusteredMutrelFor(supervars []*variant.Variant) *mutrel.MutRel {
	m, _, err := mutrel.CalcPosterior(supervars[1:], mutrel.ClusteredPrior(), 1)
	if err != nil {
		panic(err)
	}
	return m
}

func TestSampleTreesTrivialTwoNode(t *testing.T) {
	supervars := twoNodeFixture()
	dm := clusteredMutrelFor(supervars)

	cfg := SampleConfig{TreesPerChain: 10, BurninPerChain: 5, NChains: 1, PhiMethod: phifit.ProjRprop, PhiIterations: 50, Seed: 1, Parallel: 1}
	res, err := SampleTrees(dm, supervars, cfg, hyperparams.DefaultHyperparams(), nil)
	if err != nil {
		t.Fatalf("SampleTrees: %v", err)
	}
	if len(res.Adjms) != 10 {
		t.Fatalf("len(Adjms) = %d, want 10", len(res.Adjms))
	}
	for i, adj := range res.Adjms {
		if err := adj.Validate(); err != nil {
			t.Fatalf("sample %d: invalid adjacency: %v", i, err)
		}
		// with K=2 there is only one possible rooted tree: 0 -> 1
		if adj.Parent(1) != 0 {
			t.Errorf("sample %d: Parent(1) = %d, want 0 (only topology for K=2)", i, adj.Parent(1))
		}
	}
}

func TestSampleTreesStarVsChainThreeNode(t *testing.T) {
	supervars := threeNodeChainFixture()
	dm := clusteredMutrelFor(supervars)

	cfg := SampleConfig{TreesPerChain: 60, BurninPerChain: 20, NChains: 1, PhiMethod: phifit.ProjRprop, PhiIterations: 60, Seed: 5, Parallel: 1}
	res, err := SampleTrees(dm, supervars, cfg, hyperparams.DefaultHyperparams(), nil)
	if err != nil {
		t.Fatalf("SampleTrees: %v", err)
	}
	for i, adj := range res.Adjms {
		if err := adj.Validate(); err != nil {
			t.Fatalf("sample %d: invalid adjacency: %v", i, err)
		}
	}
	if res.Stats[0].Proposed == 0 {
		t.Error("expected at least one proposed move over 80 steps with K=3")
	}
}

func TestSampleTreesIsDeterministicForFixedSeed(t *testing.T) {
	supervars := threeNodeChainFixture()
	dm := clusteredMutrelFor(supervars)
	cfg := SampleConfig{TreesPerChain: 30, BurninPerChain: 10, NChains: 3, PhiMethod: phifit.ProjRprop, PhiIterations: 40, Seed: 99, Parallel: 3}
	hp := hyperparams.DefaultHyperparams()

	res1, err := SampleTrees(dm, supervars, cfg, hp, nil)
	if err != nil {
		t.Fatalf("SampleTrees run 1: %v", err)
	}
	res2, err := SampleTrees(dm, supervars, cfg, hp, nil)
	if err != nil {
		t.Fatalf("SampleTrees run 2: %v", err)
	}

	if len(res1.LLHs) != len(res2.LLHs) {
		t.Fatalf("len mismatch: %d vs %d", len(res1.LLHs), len(res2.LLHs))
	}
	for i := range res1.LLHs {
		if res1.LLHs[i] != res2.LLHs[i] {
			t.Errorf("llh[%d] differs between identically-seeded runs: %v vs %v", i, res1.LLHs[i], res2.LLHs[i])
		}
		for r := range res1.Adjms[i] {
			for c := range res1.Adjms[i][r] {
				if res1.Adjms[i][r][c] != res2.Adjms[i][r][c] {
					t.Fatalf("adjacency[%d] differs between identically-seeded runs", i)
				}
			}
		}
	}
}

func TestSampleTreesPanicsOnNonSupervariantOmega(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-0.5 supervariant omega")
		}
	}()
	supervars := twoNodeFixture()
	supervars[1].Omega[0] = 0.9 // violates the supervariant precondition
	dm := clusteredMutrelFor(twoNodeFixture())

	cfg := SampleConfig{TreesPerChain: 5, BurninPerChain: 0, NChains: 1, PhiMethod: phifit.ProjRprop, PhiIterations: 10, Seed: 1, Parallel: 1}
	SampleTrees(dm, supervars, cfg, hyperparams.DefaultHyperparams(), nil)
}

func TestSampleTreesRejectsNonPositiveChains(t *testing.T) {
	supervars := twoNodeFixture()
	dm := clusteredMutrelFor(supervars)
	cfg := SampleConfig{TreesPerChain: 5, NChains: 0, PhiMethod: phifit.ProjRprop, PhiIterations: 10, Seed: 1}
	if _, err := SampleTrees(dm, supervars, cfg, hyperparams.DefaultHyperparams(), nil); err == nil {
		t.Fatal("expected error for nchains=0")
	}
}

func TestSampleTreesThinning(t *testing.T) {
	supervars := twoNodeFixture()
	dm := clusteredMutrelFor(supervars)
	cfg := SampleConfig{TreesPerChain: 20, BurninPerChain: 0, NChains: 1, PhiMethod: phifit.ProjRprop, PhiIterations: 10, Seed: 1, Parallel: 1, ThinnedFrac: 0.5}
	res, err := SampleTrees(dm, supervars, cfg, hyperparams.DefaultHyperparams(), nil)
	if err != nil {
		t.Fatalf("SampleTrees: %v", err)
	}
	if len(res.Adjms) != 10 {
		t.Fatalf("len(Adjms) with 0.5 thinning = %d, want 10", len(res.Adjms))
	}
}

func TestUseExistingStructuresBypassesMCMC(t *testing.T) {
	supervars := threeNodeChainFixture()
	adjms := []binom.Adjacency{binom.StarAdjacency(3), binom.LinearChainAdjacency(3)}

	res, err := UseExistingStructures(adjms, supervars, phifit.DefaultConfig())
	if err != nil {
		t.Fatalf("UseExistingStructures: %v", err)
	}
	if len(res.Adjms) != 2 || len(res.Phis) != 2 || len(res.LLHs) != 2 {
		t.Fatalf("expected one triple per input adjacency, got %d/%d/%d", len(res.Adjms), len(res.Phis), len(res.LLHs))
	}
	for i, adj := range res.Adjms {
		if err := phifit.ValidateSumCondition(adj, res.Phis[i]); err != nil {
			t.Errorf("fixed-structure sample %d violates sum condition: %v", i, err)
		}
	}
}

func TestUseExistingStructuresRejectsInvalidAdjacency(t *testing.T) {
	supervars := threeNodeChainFixture()
	bad := binom.StarAdjacency(3)
	bad[1][2] = 1 // now node 2 has two parents
	if _, err := UseExistingStructures([]binom.Adjacency{bad}, supervars, phifit.DefaultConfig()); err == nil {
		t.Fatal("expected error for invalid adjacency")
	}
}

func TestUseExistingStructuresPanicsOnNonSupervariantOmega(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-0.5 supervariant omega")
		}
	}()
	supervars := threeNodeChainFixture()
	supervars[1].Omega[0] = 0.7 // violates the supervariant precondition
	adjms := []binom.Adjacency{binom.StarAdjacency(3)}
	UseExistingStructures(adjms, supervars, phifit.DefaultConfig())
}

func TestChainSeedDiffersPerChainAndWrapsModulo2to32(t *testing.T) {
	s0 := chainSeed(10, 0)
	s1 := chainSeed(10, 1)
	if s0 == s1 {
		t.Error("chainSeed should differ across chain indices")
	}
	wrapped := chainSeed((uint64(1)<<32)-1, 2)
	if wrapped != 2 {
		t.Errorf("chainSeed wraparound = %d, want 2", wrapped)
	}
}

func TestAcceptanceRateZeroProposedIsZero(t *testing.T) {
	stats := ChainStats{}
	if got := stats.AcceptanceRate(); got != 0 {
		t.Errorf("AcceptanceRate() with no proposals = %v, want 0", got)
	}
}
