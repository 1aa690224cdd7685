// Package result assembles the output bundle named in spec.md §6: the
// seed, both pairwise tensors (raw-variant and clustered-supervariant),
// the cluster/garbage assignment the host supplied or computed upstream,
// and the sampler's merged (adjm, phi, llh) triples.
package result

import (
	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
)

// Bundle is the result-bundle contract of spec.md §6 "Outputs produced".
type Bundle struct {
	Seed uint64

	MutrelPosterior *mutrel.MutRel
	MutrelEvidence  [][]float64

	ClustrelPosterior *mutrel.MutRel
	ClustrelEvidence  [][]float64

	Clusters [][]string
	Garbage  []string

	Adjm []binom.Adjacency
	Phi  [][][]float64
	LLH  []float64
}

// New assembles a Bundle from the pieces produced by the pairwise
// engine, the clustering collaborator (spec.md §1 "out of scope"), and
// the tree sampler.
func New(seed uint64, rawPosterior *mutrel.MutRel, rawEvidence [][]float64, clustPosterior *mutrel.MutRel, clustEvidence [][]float64, clusters [][]string, garbage []string, adjm []binom.Adjacency, phi [][][]float64, llh []float64) *Bundle {
	return &Bundle{
		Seed:              seed,
		MutrelPosterior:   rawPosterior,
		MutrelEvidence:    rawEvidence,
		ClustrelPosterior: clustPosterior,
		ClustrelEvidence:  clustEvidence,
		Clusters:          clusters,
		Garbage:           garbage,
		Adjm:              adjm,
		Phi:               phi,
		LLH:               llh,
	}
}
