package sampler

import (
	"math"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
)

// depthFracOf normalizes a depth-from-root vector to [0.01, 0.99],
// clamped away from the boundary so the beta-like depth weight never
// hits zero or blows up (spec.md §4.3 "weights_depth").
func depthFracOf(depth []int) []float64 {
	maxD := 0
	for _, d := range depth {
		if d > maxD {
			maxD = d
		}
	}
	if maxD == 0 {
		maxD = 1
	}
	out := make([]float64, len(depth))
	for i, d := range depth {
		out[i] = binom.Clamp(float64(d)/float64(maxD), 0.01, 0.99)
	}
	return out
}

// weightsDepth computes the progress-dependent depth bias: early in the
// chain (progress near 0) A<B favors shallow nodes, late in the chain
// (progress near 1) it flips to favor deep nodes (spec.md §4.3).
func weightsDepth(depthFrac []float64, progress, psi float64) []float64 {
	k := len(depthFrac)
	a := psi*progress + 1
	b := psi*(1-progress) + 1
	w := make([]float64, k)
	for i := 1; i < k; i++ {
		df := depthFrac[i]
		w[i] = math.Pow(df, a-1) * math.Pow(1-df, b-1)
	}
	return w
}

// treeRelation returns the categorical relation the current tree
// structure implies between non-root nodes i and j, for comparison
// against the data-driven posterior (spec.md §4.3 "weights_fit").
func treeRelation(anc [][]int, i, j int) mutrel.Relation {
	switch {
	case i == j:
		return mutrel.Cocluster
	case anc[i][j] == 1:
		return mutrel.AB
	case anc[j][i] == 1:
		return mutrel.BA
	default:
		return mutrel.DiffBranch
	}
}

// fitMutrel computes, for every non-root node, how well the tree's
// induced pairwise relations agree with the data-driven posterior
// data_mutrel (spec.md §4.3). data_mutrel is indexed over superclusters
// excluding the virtual root, so tree node k maps to data_mutrel index
// k-1.
func fitMutrel(dataMutrel *mutrel.MutRel, anc [][]int, k int) []float64 {
	const eps = 1e-5
	fit := make([]float64, k)
	for nodeK := 1; nodeK < k; nodeK++ {
		sum := 0.0
		for i := 1; i < k; i++ {
			for j := 1; j < k; j++ {
				if i == j || (i != nodeK && j != nodeK) {
					continue
				}
				rel := treeRelation(anc, i, j)
				for r := 0; r < mutrel.NumRelations; r++ {
					indicator := 0.0
					if mutrel.Relation(r) == rel {
						indicator = 1.0
					}
					diff := math.Abs(dataMutrel.Rels[i-1][j-1][r] - indicator)
					v := 1 - diff
					if v < eps {
						v = eps
					}
					sum += math.Log(v)
				}
			}
		}
		fit[nodeK] = sum
	}
	return fit
}

// weightsFit turns a fit_mutrel score vector into a weight vector: flat
// 1e-5 floor everywhere, falling back to uniform over non-root nodes if
// every score is exactly zero (spec.md §4.3).
func weightsFit(fit []float64) []float64 {
	k := len(fit)
	w := make([]float64, k)
	allZero := true
	for i := 1; i < k; i++ {
		if fit[i] != 0 {
			allZero = false
		}
	}
	for i := 1; i < k; i++ {
		if allZero {
			w[i] = 1
			continue
		}
		w[i] = math.Max(1e-5, fit[i])
	}
	return w
}

// normalize rescales w to sum to 1, leaving an all-zero vector untouched
// (callers guard against the resulting degenerate distribution before
// sampling from it).
func normalize(w []float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

// subtreeWeights combines weights_depth and weights_fit into W_subtree
// (spec.md §4.3: weights = tau*weights_depth; weights[1:] += rho*weights_fit).
func subtreeWeights(hp hyperparams.Hyperparams, depthFrac []float64, progress float64, fit []float64) []float64 {
	k := len(fit)
	wd := weightsDepth(depthFrac, progress, hp.Psi)
	wf := weightsFit(fit)
	w := make([]float64, k)
	for i := range w {
		w[i] = hp.Tau * wd[i]
	}
	for i := 1; i < k; i++ {
		w[i] += hp.Rho * wf[i]
	}
	normalize(w)
	return w
}

// parentWeights computes W_parents for subtree s given its current
// parent pOld (spec.md §4.3): bias toward nodes the pairwise posterior
// says are ancestral to s, plus a depth bias, then favor the root when no
// non-root candidate stands out, excluding s itself and the current
// parent.
func parentWeights(hp hyperparams.Hyperparams, dataMutrel *mutrel.MutRel, depthFrac []float64, s, pOld, k int) []float64 {
	w := make([]float64, k)
	for j := 1; j < k; j++ {
		w[j] = hp.Theta*dataMutrel.Rels[s-1][j-1][mutrel.BA] + hp.Kappa*depthFrac[j]
	}
	tail := append([]float64(nil), w[1:]...)
	normalize(tail)
	maxV := 0.0
	for _, v := range tail {
		if v > maxV {
			maxV = v
		}
	}
	copy(w[1:], tail)
	w[0] = math.Max(0.001, 1-maxV)
	w[s] = 0
	w[pOld] = 0
	normalize(w)
	return w
}
