package binom

import (
	"fmt"
	"math/rand"
)

// Adjacency is a K×K matrix of {0,1}: the diagonal is all 1 (self-loops by
// convention), column 0 (the root) has no off-diagonal 1, and every other
// column has exactly one off-diagonal 1 — its parent edge (spec.md §3).
type Adjacency [][]int

// K returns the number of tree nodes, including the root.
func (a Adjacency) K() int { return len(a) }

// Parent returns the parent of node k (k>0), or -1 if k is the root or the
// column is malformed.
func (a Adjacency) Parent(k int) int {
	if k == 0 {
		return -1
	}
	for i := 0; i < len(a); i++ {
		if i != k && a[i][k] == 1 {
			return i
		}
	}
	return -1
}

// Children returns the direct children of node k in ascending order.
func (a Adjacency) Children(k int) []int {
	var children []int
	for j := 0; j < len(a); j++ {
		if j != k && a[k][j] == 1 {
			children = append(children, j)
		}
	}
	return children
}

// Validate checks the invariants from spec.md §3 and §8: diagonal all 1,
// column 0 has no off-diagonal 1, every other column has exactly one.
func (a Adjacency) Validate() error {
	k := len(a)
	for i := 0; i < k; i++ {
		if len(a[i]) != k {
			return fmt.Errorf("adjacency: row %d has length %d, want %d", i, len(a[i]), k)
		}
		if a[i][i] != 1 {
			return fmt.Errorf("adjacency: diagonal[%d]=%d, want 1", i, a[i][i])
		}
	}
	for j := 0; j < k; j++ {
		offDiag := 0
		for i := 0; i < k; i++ {
			if i != j && a[i][j] == 1 {
				offDiag++
			}
		}
		if j == 0 {
			if offDiag != 0 {
				return fmt.Errorf("adjacency: root column 0 has %d off-diagonal entries, want 0", offDiag)
			}
		} else if offDiag != 1 {
			return fmt.Errorf("adjacency: column %d has %d off-diagonal entries, want exactly 1", j, offDiag)
		}
	}
	return nil
}

// Clone returns a deep, independent copy. The sampler treats adjacency
// matrices as copy-on-write: every proposal mutates a fresh clone.
func (a Adjacency) Clone() Adjacency {
	out := make(Adjacency, len(a))
	for i, row := range a {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// AncestralFromAdjacency derives anc[i][j]=1 iff i is a strict ancestor of
// j, by repeated parent-following from each node up to the root
// (spec.md §3). The diagonal is 0.
func AncestralFromAdjacency(adj Adjacency) [][]int {
	k := adj.K()
	anc := make([][]int, k)
	for i := range anc {
		anc[i] = make([]int, k)
	}
	for j := 1; j < k; j++ {
		p := adj.Parent(j)
		for p != -1 {
			anc[p][j] = 1
			p = adj.Parent(p)
		}
	}
	return anc
}

// DepthFromRoot computes, for each node, the number of edges on the path
// to the root. The root has depth 0.
func DepthFromRoot(adj Adjacency) []int {
	k := adj.K()
	depth := make([]int, k)
	for i := 1; i < k; i++ {
		d := 0
		p := adj.Parent(i)
		for p != -1 {
			d++
			p = adj.Parent(p)
		}
		depth[i] = d
	}
	return depth
}

// StarAdjacency builds the branching-init topology: every non-root node is
// a direct child of node 0 (spec.md §4.3 "State and initialization").
func StarAdjacency(k int) Adjacency {
	adj := make(Adjacency, k)
	for i := range adj {
		adj[i] = make([]int, k)
		adj[i][i] = 1
	}
	for j := 1; j < k; j++ {
		adj[0][j] = 1
	}
	return adj
}

// LinearChainAdjacency builds 0→1→2→...→(k-1), one of the two
// non-default initializers named in spec.md §4.3.
func LinearChainAdjacency(k int) Adjacency {
	adj := make(Adjacency, k)
	for i := range adj {
		adj[i] = make([]int, k)
		adj[i][i] = 1
	}
	for j := 1; j < k; j++ {
		adj[j-1][j] = 1
	}
	return adj
}

// RandomDAGAdjacency builds the third named initializer: each non-root
// node j is attached to a uniformly random parent(j) < j, so the result is
// acyclic by construction (spec.md §4.3 "two alternative initialisers").
func RandomDAGAdjacency(k int, rng *rand.Rand) Adjacency {
	adj := make(Adjacency, k)
	for i := range adj {
		adj[i] = make([]int, k)
		adj[i][i] = 1
	}
	for j := 1; j < k; j++ {
		p := rng.Intn(j)
		adj[p][j] = 1
	}
	return adj
}
