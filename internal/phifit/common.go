// Package phifit implements the phi fitter: given a cluster adjacency
// matrix and per-cluster supervariant read statistics, it finds a
// non-negative subclone-frequency matrix phi (spec.md §4.2) by optimizing
// one shared objective — negative binomial log-likelihood — under four
// interchangeable solvers selected by method tag (spec.md §9 "Dynamic-
// dispatch phi solvers").
//
// Every solver works in the eta reparameterisation: phi[v,s] =
// Σ_{u in subtree(v)} eta[u,s]. Because subtree(root) is the whole tree,
// phi[0,s] = Σ_k eta[k,s], so pinning phi[0,:]=1 is exactly pinning each
// sample column of eta to the probability simplex — the sum condition
// (spec.md §3) falls out of the reparameterisation for free.
package phifit

import (
	"fmt"
	"math"

	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// Method selects one of the four interchangeable solvers named in
// spec.md §4.2.
type Method string

const (
	GradDesc   Method = "graddesc"
	Rprop      Method = "rprop"
	Projection Method = "projection"
	ProjRprop  Method = "proj_rprop"
)

// Config bundles the iteration budget and method tag consumed by Fit.
type Config struct {
	Method     Method
	Iterations int
}

// DefaultConfig returns a reasonable iteration budget for proj_rprop, the
// solver used by the tree sampler's hot path.
func DefaultConfig() Config {
	return Config{Method: ProjRprop, Iterations: 100}
}

// Result holds the fitted phi matrix, its eta reparameterisation, and the
// resulting log-likelihood (spec.md §4.2 output contract).
type Result struct {
	Phi [][]float64 // K×S
	Eta [][]float64 // K×S
	LLH float64
}

// subtreeMembership builds the K×K matrix E with E[v][u]=1 iff u is v or a
// descendant of v, so that phi = E · eta column-wise.
func subtreeMembership(anc [][]int) [][]int {
	k := len(anc)
	e := make([][]int, k)
	for v := 0; v < k; v++ {
		e[v] = make([]int, k)
		e[v][v] = 1
		for u := 0; u < k; u++ {
			if anc[v][u] == 1 {
				e[v][u] = 1
			}
		}
	}
	return e
}

// etaToPhi applies phi[v,s] = Σ_u E[v][u] * eta[u,s].
func etaToPhi(e [][]int, eta [][]float64) [][]float64 {
	k := len(e)
	s := len(eta[0])
	phi := make([][]float64, k)
	for v := 0; v < k; v++ {
		phi[v] = make([]float64, s)
		for u := 0; u < k; u++ {
			if e[v][u] == 0 {
				continue
			}
			for col := 0; col < s; col++ {
				phi[v][col] += eta[u][col]
			}
		}
	}
	return phi
}

// phiGradient returns dLL/dphi[v][s] for v>0 (v=0 is pinned, not part of
// the objective); entry 0 of the returned slice is always 0.
func phiGradient(readStats *readStats, phi [][]float64) [][]float64 {
	k := len(phi)
	s := len(phi[0])
	grad := make([][]float64, k)
	for v := 0; v < k; v++ {
		grad[v] = make([]float64, s)
		if v == 0 {
			continue
		}
		for col := 0; col < s; col++ {
			w := readStats.omega[v][col]
			p := binom.Clamp(w*phi[v][col], binom.DefaultEpsilon, 1-binom.DefaultEpsilon)
			vreads := float64(readStats.varReads[v][col])
			n := float64(readStats.totReads[v][col])
			grad[v][col] = w * (vreads/p - (n-vreads)/(1-p))
		}
	}
	return grad
}

// etaGradient backs dLL/dphi through E to dLL/deta[u][s] = Σ_v E[v][u] *
// dLL/dphi[v][s], skipping v=0 since phi[0] never enters the objective.
func etaGradient(e [][]int, phiGrad [][]float64) [][]float64 {
	k := len(e)
	s := len(phiGrad[0])
	g := make([][]float64, k)
	for u := 0; u < k; u++ {
		g[u] = make([]float64, s)
	}
	for v := 1; v < k; v++ {
		for u := 0; u < k; u++ {
			if e[v][u] == 0 {
				continue
			}
			for col := 0; col < s; col++ {
				g[u][col] += phiGrad[v][col]
			}
		}
	}
	return g
}

type readStats struct {
	varReads [][]int
	totReads [][]int
	omega    [][]float64
}

func buildReadStats(supervars []*variant.Variant) *readStats {
	k := len(supervars)
	rs := &readStats{
		varReads: make([][]int, k),
		totReads: make([][]int, k),
		omega:    make([][]float64, k),
	}
	for i, v := range supervars {
		rs.varReads[i] = v.VarReads
		rs.totReads[i] = v.TotalReads()
		rs.omega[i] = v.Omega
	}
	return rs
}

// initEta seeds every sample column with the uniform distribution over
// nodes — a feasible starting point on the simplex for the projection
// solvers (the softmax solvers' all-zero logits map to the same point).
func initEta(k, s int) [][]float64 {
	eta := make([][]float64, k)
	u := 1.0 / float64(k)
	for i := range eta {
		eta[i] = make([]float64, s)
		for col := range eta[i] {
			eta[i][col] = u
		}
	}
	return eta
}

// projectSimplex performs Euclidean projection of a single column onto
// the probability simplex {x : x>=0, Σx=1} via the standard sort-based
// algorithm (Duchi et al. 2008).
func projectSimplex(x []float64) []float64 {
	n := len(x)
	sorted := append([]float64(nil), x...)
	// descending sort (small n: K nodes, insertion sort is fine)
	for i := 1; i < n; i++ {
		v := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] < v {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = v
	}
	cumsum := 0.0
	rho := -1
	theta := 0.0
	for i := 0; i < n; i++ {
		cumsum += sorted[i]
		t := (cumsum - 1) / float64(i+1)
		if sorted[i]-t > 0 {
			rho = i
			theta = t
		}
	}
	if rho == -1 {
		theta = (cumsum - 1) / float64(n)
	}
	out := make([]float64, n)
	for i, v := range x {
		out[i] = math.Max(v-theta, 0)
	}
	return out
}

// ValidateSumCondition checks, to the 1e-6 tolerance spec.md §4.2 pins
// down, that phi[0,:]=1 and that every parent's phi is at least the sum
// of its children's phi, for every sample.
func ValidateSumCondition(adj binom.Adjacency, phi [][]float64) error {
	const tol = 1e-6
	for s := range phi[0] {
		if math.Abs(phi[0][s]-1) > tol {
			return fmt.Errorf("phifit: phi[0][%d]=%v, want 1", s, phi[0][s])
		}
	}
	for parent := 0; parent < adj.K(); parent++ {
		children := adj.Children(parent)
		if len(children) == 0 {
			continue
		}
		for s := range phi[parent] {
			childSum := 0.0
			for _, c := range children {
				childSum += phi[c][s]
			}
			if phi[parent][s]+tol < childSum {
				return fmt.Errorf("phifit: sum condition violated at node %d sample %d: phi=%v, children sum=%v",
					parent, s, phi[parent][s], childSum)
			}
		}
	}
	return nil
}

// Fit dispatches to one of the four solvers and returns the fitted phi,
// its eta reparameterisation, and the resulting log-likelihood.
func Fit(anc [][]int, supervars []*variant.Variant, cfg Config) (*Result, error) {
	k := len(supervars)
	if k == 0 {
		return nil, fmt.Errorf("phifit: no supervariants")
	}
	s := supervars[0].NumSamples()
	rs := buildReadStats(supervars)
	e := subtreeMembership(anc)

	var eta [][]float64
	switch cfg.Method {
	case GradDesc:
		eta = fitGradDesc(e, rs, k, s, cfg.Iterations)
	case Rprop:
		eta = fitRprop(e, rs, k, s, cfg.Iterations)
	case Projection:
		eta = fitProjection(e, rs, k, s, cfg.Iterations)
	case ProjRprop:
		eta = fitProjRprop(e, rs, k, s, cfg.Iterations)
	default:
		return nil, fmt.Errorf("phifit: unknown method %q", cfg.Method)
	}

	phi := etaToPhi(e, eta)
	for s := range phi[0] {
		phi[0][s] = 1
	}
	llh := binom.LogLikelihood(rs.varReads, rs.totReads, rs.omega, phi)
	return &Result{Phi: phi, Eta: eta, LLH: llh}, nil
}
