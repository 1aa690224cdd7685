package mutrel

import (
	"fmt"
	"math"
	"sync"

	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// LogPrior holds a log-prior weight per relation slot, added to each
// pair's log-evidence before normalization (spec.md §4.1). Use
// LogPrior{} with -Inf entries to disable an outcome outright.
type LogPrior [NumRelations]float64

// RawVariantPrior is the typical prior for the raw (unclustered) variant
// stage: a small positive garbage prior, everything else flat.
func RawVariantPrior(garbageLogPrior float64) LogPrior {
	return LogPrior{AB: 0, BA: 0, Cocluster: 0, DiffBranch: 0, Garbage: garbageLogPrior}
}

// ClusteredPrior is the prior used once variants have been clustered into
// superclusters: cocluster and garbage are disabled (supervariants are
// already coclustered by construction and garbage has been removed),
// leaving only the three topological relations live.
func ClusteredPrior() LogPrior {
	return LogPrior{
		AB: 0, BA: 0,
		Cocluster:  negInf,
		DiffBranch: 0,
		Garbage:    negInf,
	}
}

var negInf = math.Inf(-1)

type variantStats struct {
	varReads []int
	totReads []int
	omega    []float64
}

func statsOf(v *variant.Variant) *variantStats {
	return &variantStats{varReads: v.VarReads, totReads: v.TotalReads(), omega: v.Omega}
}

// CalcPosterior computes the K×K×R MutRel tensor and the K×K evidence
// matrix for an ordered list of variants (or supervariants) under a
// shared log-prior (spec.md §4.1). parallel bounds the number of
// concurrent pair workers; 0 or 1 runs sequentially.
func CalcPosterior(variants []*variant.Variant, prior LogPrior, parallel int) (*MutRel, [][]float64, error) {
	k := len(variants)
	ids := make([]string, k)
	for i, v := range variants {
		ids[i] = v.ID
	}
	tensor := New(ids)
	evidence := make([][]float64, k)
	for i := range evidence {
		evidence[i] = make([]float64, k)
	}

	for i := 0; i < k; i++ {
		tensor.Rels[i][i][Cocluster] = 1
	}

	stats := make([]*variantStats, k)
	for i, v := range variants {
		stats[i] = statsOf(v)
	}

	type job struct{ i, j int }
	var jobs []job
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			jobs = append(jobs, job{i, j})
		}
	}

	if parallel <= 0 {
		parallel = 1
	}
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for _, jb := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, j int) {
			defer wg.Done()
			defer func() { <-sem }()
			rels, ev := resolvePair(stats[i], stats[j], prior)
			for r := 0; r < NumRelations; r++ {
				tensor.Rels[i][j][r] = rels[r]
				tensor.Rels[j][i][mirror(Relation(r))] = rels[r]
			}
			evidence[i][j] = ev
			evidence[j][i] = ev
		}(jb.i, jb.j)
	}
	wg.Wait()

	if err := tensor.Validate(); err != nil {
		return nil, nil, fmt.Errorf("calc posterior: %w", err)
	}
	return tensor, evidence, nil
}

// mirror returns the relation slot that holds the same value when the
// pair's argument order is swapped (spec.md §3: rels[i,j,A_B] ==
// rels[j,i,B_A], cocluster and diff_branch are each their own mirror).
func mirror(r Relation) Relation {
	switch r {
	case AB:
		return BA
	case BA:
		return AB
	default:
		return r
	}
}

// resolvePair integrates the per-pair evidence model, folds in the prior,
// and returns a normalized categorical posterior plus the pair's marginal
// log-evidence (logsumexp over all five posterior-weighted components).
func resolvePair(a, b *variantStats, prior LogPrior) ([NumRelations]float64, float64) {
	ev := pairEvidence(a, b)
	var logPosterior [NumRelations]float64
	terms := make([]float64, NumRelations)
	for r := 0; r < NumRelations; r++ {
		logPosterior[r] = ev[r] + prior[r]
		terms[r] = logPosterior[r]
	}
	logZ := logSumExp(terms)

	var rels [NumRelations]float64
	for r := 0; r < NumRelations; r++ {
		if logPosterior[r] == negInf {
			rels[r] = 0
			continue
		}
		rels[r] = expClamped(logPosterior[r] - logZ)
	}
	normalize(&rels)
	return rels, logZ
}

func expClamped(x float64) float64 {
	if x > 0 {
		x = 0
	}
	return math.Exp(x)
}

func normalize(rels *[NumRelations]float64) {
	sum := 0.0
	for _, p := range rels {
		sum += p
	}
	if sum == 0 {
		return
	}
	for r := range rels {
		rels[r] /= sum
	}
}
