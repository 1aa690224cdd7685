package sampler

import (
	"github.com/clonal-evolution/pairtree-core/internal/binom"
	"github.com/clonal-evolution/pairtree-core/internal/variant"
)

// assertSupervariantOmegas enforces the supervariant precondition named in
// spec.md §3 and §8 scenario 6: every supervariant's omega must equal 0.5
// exactly. It is an assertion, not input validation (spec.md §7 item 1) —
// a violation means an upstream caller built a supervariant incorrectly,
// which is a bug, not a runtime condition, so it panics via
// binom.CalcBinomParams rather than returning an error. The phiRow passed
// to CalcBinomParams is a throwaway of matching length; only the
// omega-precondition panic is wanted here, not the derived probabilities.
func assertSupervariantOmegas(supervars []*variant.Variant) {
	for _, v := range supervars {
		binom.CalcBinomParams(v.Omega, v.Omega)
	}
}
