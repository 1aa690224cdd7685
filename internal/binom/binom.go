// Package binom implements the numeric primitives shared by the pairwise
// posterior engine and the phi fitter: a clamped log-binomial PMF, the
// derivation of an ancestral matrix from an adjacency matrix, and
// depth-from-root computation.
//
// PHYSICIST: the binomial log-likelihood is the only "energy" the tree
// sampler's Metropolis criterion ever evaluates (spec.md §4.3) — the
// pairwise tensor biases proposals but never enters the target density.
package binom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultEpsilon is the clamp bound used when scoring phi against read
// counts: clip(omega*phi, eps, 1-eps) keeps the binomial PMF finite at the
// boundary of the simplex (spec.md §4.2).
const DefaultEpsilon = 1e-5

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// LogBinomPMF returns log Binom(v | n, p), clamping p to
// [DefaultEpsilon, 1-DefaultEpsilon] first so that v==0 or v==n never
// produces -Inf/NaN from the underlying distribution.
func LogBinomPMF(v, n int, p float64) float64 {
	if n < 0 || v < 0 || v > n {
		panic(fmt.Sprintf("binom: invalid binomial params v=%d n=%d", v, n))
	}
	p = Clamp(p, DefaultEpsilon, 1-DefaultEpsilon)
	dist := distuv.Binomial{N: float64(n), P: p}
	return dist.LogProb(float64(v))
}

// CalcBinomParams derives the per-sample binomial success probability
// omega*phi for a node given its phi row, asserting the supervariant
// precondition that omega is pinned at 0.5 (spec.md §3, §8 scenario 6).
// A violation is a data-construction bug upstream, not a runtime
// condition — it panics rather than returning an error, matching the
// original implementation's bare assert (see SPEC_FULL.md §4).
func CalcBinomParams(omega []float64, phiRow []float64) []float64 {
	if len(omega) != len(phiRow) {
		panic(fmt.Sprintf("binom: omega/phi length mismatch (%d/%d)", len(omega), len(phiRow)))
	}
	p := make([]float64, len(omega))
	for s, w := range omega {
		if w != 0.5 {
			panic(fmt.Sprintf("binom: supervariant omega[%d]=%v, want 0.5", s, w))
		}
		p[s] = w * phiRow[s]
	}
	return p
}

// LogLikelihood computes Σ_{k>0,s} log Binom(V_ks | N_ks, clip(omega_s*phi_ks))
// over all non-root nodes and samples, the objective every phi solver
// minimizes the negative of (spec.md §4.2).
func LogLikelihood(varReads, totReads [][]int, omega [][]float64, phi [][]float64) float64 {
	total := 0.0
	k := len(phi)
	for node := 1; node < k; node++ {
		s := len(phi[node])
		for sample := 0; sample < s; sample++ {
			p := omega[node][sample] * phi[node][sample]
			total += LogBinomPMF(varReads[node][sample], totReads[node][sample], p)
		}
	}
	return total
}
