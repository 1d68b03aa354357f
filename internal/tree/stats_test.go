package tree

import "testing"

func TestStatsCountsLeavesAndDepth(t *testing.T) {
	tr := &Tree{
		root: &node{
			hi: leaf(1, 0),
			lo: &node{
				hi: leaf(0, 0),
				lo: leaf(2, 3),
			},
		},
	}

	stats := tr.Stats()
	if stats.LeafCount != 3 {
		t.Errorf("LeafCount = %d, want 3", stats.LeafCount)
	}
	if stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", stats.NodeCount)
	}
	if stats.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", stats.MaxDepth)
	}
	if stats.MultiLeafCount != 1 {
		t.Errorf("MultiLeafCount = %d, want 1", stats.MultiLeafCount)
	}
}

func TestValidateRejectsUnnormalizedLeaf(t *testing.T) {
	bad := leaf(9, 3) // First > Second, never normalized

	tr := &Tree{root: bad}
	if err := tr.Validate(); err == nil {
		t.Fatal("Validate: expected error for unnormalized leaf, got nil")
	}
}

func TestValidatePassesForConsolidatedTree(t *testing.T) {
	tr := &Tree{
		root: &node{
			hi: leaf(1, 0),
			lo: leaf(2, 3),
		},
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate: unexpected error: %v", err)
	}
}
