package mutrel

import "testing"

func TestNewAllocatesZeroedTensor(t *testing.T) {
	m := New([]string{"a", "b", "c"})
	if m.K() != 3 {
		t.Fatalf("K() = %d, want 3", m.K())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for r := 0; r < NumRelations; r++ {
				if m.Rels[i][j][r] != 0 {
					t.Fatalf("New() did not zero-allocate: Rels[%d][%d][%d]=%v", i, j, r, m.Rels[i][j][r])
				}
			}
		}
	}
}

func TestIndexOf(t *testing.T) {
	m := New([]string{"a", "b", "c"})
	if m.IndexOf("b") != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", m.IndexOf("b"))
	}
	if m.IndexOf("ghost") != -1 {
		t.Errorf("IndexOf(ghost) = %d, want -1", m.IndexOf("ghost"))
	}
}

func TestValidateRejectsBadRowSum(t *testing.T) {
	m := New([]string{"a", "b"})
	m.Rels[0][0][Cocluster] = 1
	m.Rels[1][1][Cocluster] = 1
	m.Rels[0][1][AB] = 0.5
	m.Rels[1][0][BA] = 0.5
	// row [0][1] sums to 0.5, not 1 -- should fail
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for row not summing to 1")
	}
}

func TestValidateAcceptsSymmetricTensor(t *testing.T) {
	m := New([]string{"a", "b"})
	m.Rels[0][0][Cocluster] = 1
	m.Rels[1][1][Cocluster] = 1
	m.Rels[0][1][AB] = 0.7
	m.Rels[0][1][DiffBranch] = 0.3
	m.Rels[1][0][BA] = 0.7
	m.Rels[1][0][DiffBranch] = 0.3
	if err := m.Validate(); err != nil {
		t.Fatalf("expected symmetric tensor to validate, got %v", err)
	}
}

func TestValidateRejectsAsymmetricAB(t *testing.T) {
	m := New([]string{"a", "b"})
	m.Rels[0][0][Cocluster] = 1
	m.Rels[1][1][Cocluster] = 1
	m.Rels[0][1][AB] = 0.7
	m.Rels[0][1][DiffBranch] = 0.3
	m.Rels[1][0][BA] = 0.6 // should equal 0.7
	m.Rels[1][0][DiffBranch] = 0.4
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for A_B/B_A asymmetry")
	}
}

func TestRelationString(t *testing.T) {
	cases := map[Relation]string{
		AB: "A_B", BA: "B_A", Cocluster: "cocluster", DiffBranch: "diff_branch", Garbage: "garbage",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("Relation(%d).String() = %q, want %q", r, got, want)
		}
	}
}
