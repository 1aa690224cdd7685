// Command pairtree-core is a minimal library-usage demo: it builds a
// synthetic three-supervariant fixture, computes the clustered pairwise
// posterior, and samples trees from it, printing a short summary.
//
// Real SSM/params parsing, CLI flag wiring, and result serialization are
// host-layer concerns (spec.md §1 "out of scope") and are not implemented
// here — this binary exists only to exercise the library end to end.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/clonal-evolution/pairtree-core/internal/hyperparams"
	"github.com/clonal-evolution/pairtree-core/internal/mutrel"
	"github.com/clonal-evolution/pairtree-core/internal/phifit"
	"github.com/clonal-evolution/pairtree-core/internal/sampler"
	"github.com/clonal-evolution/pairtree-core/internal/telemetry"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// syntheticSupervariants: root (S0) -> A (S1) -> B (S2), read counts consistent
// with a linear chain so the sampler should converge toward it.
func syntheticSupervariants() []*variant.Variant {
	root := &variant.Variant{ID: "S0", VarReads: []int{0}, RefReads: []int{100}, Omega: []float64{0.5}}
	a := &variant.Variant{ID: "S1", VarReads: []int{90}, RefReads: []int{10}, Omega: []float64{0.5}}
	b := &variant.Variant{ID: "S2", VarReads: []int{45}, RefReads: []int{55}, Omega: []float64{0.5}}
	return []*variant.Variant{root, a, b}
}

func main() {
	supervars := syntheticSupervariants()

	fmt.Println("=== pairtree-core demo ===")
	fmt.Printf("supervariants: %d\n", len(supervars))

	posterior, evidence, err := mutrel.CalcPosterior(supervars[1:], mutrel.ClusteredPrior(), 2)
	if err != nil {
		log.Fatalf("calc posterior failed: %v", err)
	}
	fmt.Printf("pairwise posterior computed over %d supervariants (evidence[0][1]=%.3f)\n", posterior.K(), evidence[0][1])

	cfg := sampler.SampleConfig{
		TreesPerChain:  200,
		BurninPerChain: 100,
		NChains:        2,
		PhiMethod:      phifit.ProjRprop,
		PhiIterations:  100,
		Seed:           42,
		Parallel:       2,
	}

	logger := telemetry.NewStdLogger(os.Stderr)
	res, err := sampler.SampleTrees(posterior, supervars, cfg, hyperparams.DefaultHyperparams(), logger)
	if err != nil {
		log.Fatalf("sample trees failed: %v", err)
	}

	fmt.Printf("merged samples: %d\n", len(res.Adjms))
	for i, stats := range res.Stats {
		fmt.Printf("chain %d: acceptance rate %.3f\n", i, stats.AcceptanceRate())
	}
	fmt.Printf("first sample log-likelihood: %.4f\n", res.LLHs[0])
}
