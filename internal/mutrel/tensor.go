// Package mutrel implements the MutRel tensor type and the pairwise
// posterior engine that fills it: for every ordered pair of variants (or
// supervariants), a categorical posterior over {A_B, B_A, COCLUSTER,
// DIFF_BRANCH, GARBAGE} plus a marginal evidence score (spec.md §4.1).
package mutrel

import "fmt"

// Relation indexes the five slots of the last axis of a MutRel tensor.
type Relation int

const (
	AB Relation = iota
	BA
	Cocluster
	DiffBranch
	Garbage
	numRelations
)

// NumRelations is R in spec.md §3: the fixed width of the last axis.
const NumRelations = int(numRelations)

func (r Relation) String() string {
	switch r {
	case AB:
		return "A_B"
	case BA:
		return "B_A"
	case Cocluster:
		return "cocluster"
	case DiffBranch:
		return "diff_branch"
	case Garbage:
		return "garbage"
	default:
		return "unknown"
	}
}

// MutRel is a K×K×R posterior tensor over pairwise relations, aligned to
// the ordered identifier list Vids.
type MutRel struct {
	Vids []string
	Rels [][][]float64 // [i][j][relation]
}

// New allocates a zeroed MutRel over the given ids.
func New(vids []string) *MutRel {
	k := len(vids)
	rels := make([][][]float64, k)
	for i := range rels {
		rels[i] = make([][]float64, k)
		for j := range rels[i] {
			rels[i][j] = make([]float64, NumRelations)
		}
	}
	return &MutRel{Vids: append([]string(nil), vids...), Rels: rels}
}

// K returns the number of variants/supervariants indexed by this tensor.
func (m *MutRel) K() int { return len(m.Vids) }

// Validate checks the invariants from spec.md §3: diagonal is pure
// cocluster, rows sum to 1, and the A_B/B_A/DIFF_BRANCH/COCLUSTER
// symmetries hold.
func (m *MutRel) Validate() error {
	const tol = 1e-9
	k := m.K()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			sum := 0.0
			for _, p := range m.Rels[i][j] {
				if p < 0 {
					return fmt.Errorf("mutrel[%d][%d]: negative probability %v", i, j, p)
				}
				sum += p
			}
			if diff := sum - 1.0; diff > tol || diff < -tol {
				return fmt.Errorf("mutrel[%d][%d]: relation probabilities sum to %v, want 1", i, j, sum)
			}
		}
		if m.Rels[i][i][Cocluster] != 1 {
			return fmt.Errorf("mutrel[%d][%d]: diagonal cocluster=%v, want 1", i, i, m.Rels[i][i][Cocluster])
		}
		for _, r := range []Relation{AB, BA, DiffBranch, Garbage} {
			if m.Rels[i][i][r] != 0 {
				return fmt.Errorf("mutrel[%d][%d][%s]=%v, want 0 on diagonal", i, i, r, m.Rels[i][i][r])
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			if m.Rels[i][j][AB] != m.Rels[j][i][BA] {
				return fmt.Errorf("mutrel: A_B[%d][%d]=%v != B_A[%d][%d]=%v",
					i, j, m.Rels[i][j][AB], j, i, m.Rels[j][i][BA])
			}
			if m.Rels[i][j][Cocluster] != m.Rels[j][i][Cocluster] {
				return fmt.Errorf("mutrel: cocluster[%d][%d] != cocluster[%d][%d]", i, j, j, i)
			}
			if m.Rels[i][j][DiffBranch] != m.Rels[j][i][DiffBranch] {
				return fmt.Errorf("mutrel: diff_branch[%d][%d] != diff_branch[%d][%d]", i, j, j, i)
			}
		}
	}
	return nil
}

// IndexOf returns the tensor position of id, or -1 if absent.
func (m *MutRel) IndexOf(id string) int {
	for i, v := range m.Vids {
		if v == id {
			return i
		}
	}
	return -1
}
