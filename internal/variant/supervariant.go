package variant

import "fmt"

// SupervariantOmega is the fixed omega assigned to every supervariant: a
// supervariant is a synthetic, cluster-level read-count aggregate and is
// always treated as a diploid heterozygous event by the sampler.
const SupervariantOmega = 0.5

// Cluster is an ordered sequence of variant ids that will collapse into one
// supervariant. Clusters are ordered; the tree sampler prepends an empty
// cluster at index 0 to seed the root ("virtual clone").
type Cluster []string

// BuildSupervariant sums variant- and reference-read counts over the
// members of a cluster and returns the resulting synthetic variant.
//
// id must be of the form "S<index>" where index is the cluster's position
// in the ordered cluster list (enforced by callers, not here — this
// function only needs a cluster and a catalog).
func BuildSupervariant(id string, members Cluster, catalog *Catalog) (*Variant, error) {
	s := catalog.NumSamples()
	sv := &Variant{
		ID:       id,
		VarReads: make([]int, s),
		RefReads: make([]int, s),
		Omega:    make([]float64, s),
	}
	for i := range sv.Omega {
		sv.Omega[i] = SupervariantOmega
	}
	for _, vid := range members {
		v, err := catalog.Get(vid)
		if err != nil {
			return nil, fmt.Errorf("build supervariant %q: %w", id, err)
		}
		for i := 0; i < s; i++ {
			sv.VarReads[i] += v.VarReads[i]
			sv.RefReads[i] += v.RefReads[i]
		}
	}
	return sv, nil
}

// BuildSuperclusters turns an ordered list of clusters into the ordered
// supervariant list the sampler consumes, prepending the empty root
// cluster at index 0. The returned slice has length len(clusters)+1 and is
// aligned with tree node indices: node k corresponds to clusters[k-1] for
// k>0, and node 0 is the virtual-clone root.
//
// Cluster construction itself — deciding which variant ids belong to which
// cluster from a pairwise relation tensor — is an external collaborator's
// job (spec.md §1 Out of scope); this function only consumes an
// already-decided ordered cluster list.
func BuildSuperclusters(clusters []Cluster, catalog *Catalog) ([]*Variant, error) {
	supervars := make([]*Variant, 0, len(clusters)+1)
	root, err := BuildSupervariant("S0", nil, catalog)
	if err != nil {
		return nil, err
	}
	supervars = append(supervars, root)
	for i, c := range clusters {
		id := fmt.Sprintf("S%d", i+1)
		sv, err := BuildSupervariant(id, c, catalog)
		if err != nil {
			return nil, err
		}
		supervars = append(supervars, sv)
	}
	return supervars, nil
}
