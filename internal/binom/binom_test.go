package binom

import (
	"math"
	"math/rand"
	"testing"
)

func TestLogBinomPMFMatchesKnownValue(t *testing.T) {
	// Binom(5 | 10, 0.5): P = C(10,5) * 0.5^10 = 252/1024
	got := LogBinomPMF(5, 10, 0.5)
	want := math.Log(252.0 / 1024.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogBinomPMF(5,10,0.5) = %v, want %v", got, want)
	}
}

func TestLogBinomPMFFiniteAtBoundary(t *testing.T) {
	if v := LogBinomPMF(0, 10, 0); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("LogBinomPMF(0,10,0) = %v, want finite", v)
	}
	if v := LogBinomPMF(10, 10, 1); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("LogBinomPMF(10,10,1) = %v, want finite", v)
	}
}

func TestLogBinomPMFPanicsOnInvalidCounts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for v > n")
		}
	}()
	LogBinomPMF(11, 10, 0.5)
}

func TestCalcBinomParamsPanicsOnNonSupervariantOmega(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for omega != 0.5")
		}
	}()
	CalcBinomParams([]float64{1.0}, []float64{0.3})
}

func TestCalcBinomParams(t *testing.T) {
	p := CalcBinomParams([]float64{0.5, 0.5}, []float64{0.4, 0.8})
	if math.Abs(p[0]-0.2) > 1e-12 || math.Abs(p[1]-0.4) > 1e-12 {
		t.Errorf("CalcBinomParams = %v, want [0.2 0.4]", p)
	}
}

func TestAdjacencyValidateStarTopology(t *testing.T) {
	adj := StarAdjacency(4)
	if err := adj.Validate(); err != nil {
		t.Fatalf("star adjacency should be valid: %v", err)
	}
	for j := 1; j < 4; j++ {
		if adj.Parent(j) != 0 {
			t.Errorf("Parent(%d) = %d, want 0", j, adj.Parent(j))
		}
	}
}

func TestAdjacencyValidateLinearChain(t *testing.T) {
	adj := LinearChainAdjacency(4)
	if err := adj.Validate(); err != nil {
		t.Fatalf("chain adjacency should be valid: %v", err)
	}
	for j := 1; j < 4; j++ {
		if adj.Parent(j) != j-1 {
			t.Errorf("Parent(%d) = %d, want %d", j, adj.Parent(j), j-1)
		}
	}
}

func TestAdjacencyValidateRejectsMultipleParents(t *testing.T) {
	adj := StarAdjacency(3)
	adj[2][1] = 1 // node 1 now has two parents: 0 and 2
	if err := adj.Validate(); err == nil {
		t.Fatal("expected error for node with two parents")
	}
}

func TestAdjacencyValidateRejectsRootWithParent(t *testing.T) {
	adj := StarAdjacency(3)
	adj[1][0] = 1
	if err := adj.Validate(); err == nil {
		t.Fatal("expected error for root column with an off-diagonal entry")
	}
}

func TestAncestralFromAdjacencyChain(t *testing.T) {
	adj := LinearChainAdjacency(4)
	anc := AncestralFromAdjacency(adj)
	if anc[0][3] != 1 || anc[1][3] != 1 || anc[2][3] != 1 {
		t.Errorf("expected 0,1,2 all ancestral to 3 in a chain, got %v", anc)
	}
	if anc[3][0] != 0 {
		t.Error("leaf should not be an ancestor of the root")
	}
}

func TestDepthFromRootStar(t *testing.T) {
	adj := StarAdjacency(4)
	depth := DepthFromRoot(adj)
	for i := 1; i < 4; i++ {
		if depth[i] != 1 {
			t.Errorf("depth[%d] = %d, want 1", i, depth[i])
		}
	}
}

func TestRandomDAGAdjacencyIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		adj := RandomDAGAdjacency(6, rng)
		if err := adj.Validate(); err != nil {
			t.Fatalf("random DAG adjacency invalid: %v", err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	adj := StarAdjacency(3)
	clone := adj.Clone()
	clone[0][1] = 0
	if adj[0][1] != 1 {
		t.Error("mutating clone affected the original adjacency")
	}
}
