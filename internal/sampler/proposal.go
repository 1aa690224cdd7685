package sampler

import (
	"math/rand"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
)

// sampleFromWeights draws an index in [0,len(w)) proportional to w via a
// cumulative roulette-wheel draw. w need not be normalized. Returns -1 if
// every weight is zero (the caller's proposal is unreachable and the move
// must be rejected, spec.md §9 "Acceptance-ratio edge case").
func sampleFromWeights(w []float64, rng *rand.Rand) int {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		return -1
	}
	u := rng.Float64() * sum
	cum := 0.0
	for i, v := range w {
		cum += v
		if u < cum {
			return i
		}
	}
	return len(w) - 1
}

// weightOf returns w[i]/Σw, the normalized probability mass on index i,
// used to recover log q(...) for an index already drawn (or for scoring
// the reverse move's index under a different weight vector).
func weightOf(w []float64, i int) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 || i < 0 {
		return 0
	}
	return w[i] / sum
}

// swapNodes exchanges the positions of nodes a and b in adj by permuting
// both the rows and the columns labeled a and b. This is exactly
// relabeling two nodes, so it preserves every adjacency relationship
// (including any direct edge between a and b and both self-loops) and is
// its own inverse — applying it twice is the identity (spec.md §8
// "_modify_tree is involutive on swaps").
func swapNodes(adj binom.Adjacency, a, b int) {
	adj[a], adj[b] = adj[b], adj[a]
	for i := range adj {
		adj[i][a], adj[i][b] = adj[i][b], adj[i][a]
	}
}

// reattach detaches a's current parent edge and attaches it under b
// instead; every descendant of a follows because only column a changes
// (spec.md §4.3 "Proposal").
func reattach(adj binom.Adjacency, a, b int) {
	p := adj.Parent(a)
	if p >= 0 {
		adj[p][a] = 0
	}
	adj[b][a] = 1
}

// modifyTree applies the spec.md §4.3 move operator: if b is a strict
// ancestor of a, or a is a strict ancestor of b, swap a and b's positions;
// otherwise reattach a under b. Swapping in the second case keeps a from
// being attached beneath its own descendant, and makes applying the same
// swap move twice restore the original tree.
func modifyTree(adj binom.Adjacency, anc [][]int, a, b int) {
	if anc[b][a] == 1 || anc[a][b] == 1 {
		swapNodes(adj, a, b)
		return
	}
	reattach(adj, a, b)
}
