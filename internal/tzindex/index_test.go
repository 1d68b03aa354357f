package tzindex

import "testing"

func TestIndexAdd(t *testing.T) {
	var idx Index
	if !idx.Add(5) {
		t.Fatal("Add(5) on empty index should succeed")
	}
	if idx.First() != 5 {
		t.Errorf("First() = %d, want 5", idx.First())
	}
	if !idx.Add(5) {
		t.Fatal("Add(5) again (duplicate) should succeed as a no-op")
	}
	if idx.Second() != 0 {
		t.Errorf("Second() = %d, want 0 after duplicate add", idx.Second())
	}
	if !idx.Add(9) {
		t.Fatal("Add(9) into the free second slot should succeed")
	}
	if idx.Second() != 9 {
		t.Errorf("Second() = %d, want 9", idx.Second())
	}
	if idx.Add(12) {
		t.Fatal("Add(12) with both slots full should fail")
	}
}

func TestIndexAddZeroIsNoop(t *testing.T) {
	var idx Index
	if !idx.Add(0) {
		t.Fatal("Add(0) should report success without mutating")
	}
	if !idx.Empty() {
		t.Error("index should remain empty after Add(0)")
	}
}

func TestIndexNormalize(t *testing.T) {
	idx := packIndex(9, 3)
	norm := idx.Normalize()
	if norm.First() != 3 || norm.Second() != 9 {
		t.Errorf("Normalize() = (%d, %d), want (3, 9)", norm.First(), norm.Second())
	}

	// Already-ordered index is unchanged.
	ordered := packIndex(3, 9)
	if ordered.Normalize() != ordered {
		t.Error("Normalize() on an already-ascending index should be a no-op")
	}
}

func TestIndexContains(t *testing.T) {
	idx := packIndex(3, 9)
	if !idx.Contains(3) || !idx.Contains(9) {
		t.Error("Contains should report true for both occupied slots")
	}
	if idx.Contains(0) {
		t.Error("Contains(0) must never match")
	}
	if idx.Contains(4) {
		t.Error("Contains(4) should not match an unoccupied value")
	}
}

func TestIndex2Overflow(t *testing.T) {
	var idx Index2
	for _, v := range []uint16{1, 2, 3, 4} {
		if !idx.Add(v) {
			t.Fatalf("Add(%d) should succeed within 4 slots", v)
		}
	}
	if idx.Add(5) {
		t.Fatal("Add(5) with all 4 slots full should fail")
	}
	if idx.Count() != 4 {
		t.Errorf("Count() = %d, want 4", idx.Count())
	}
}

func TestIndex2ToIndex(t *testing.T) {
	var idx Index2
	idx.Add(9)
	idx.Add(3)

	result, ok := idx.ToIndex()
	if !ok {
		t.Fatal("ToIndex() with 2 entries should succeed")
	}
	if result.First() != 3 || result.Second() != 9 {
		t.Errorf("ToIndex() = (%d, %d), want normalized (3, 9)", result.First(), result.Second())
	}

	idx.Add(7)
	if _, ok := idx.ToIndex(); ok {
		t.Fatal("ToIndex() with 3 entries should fail")
	}
}

func TestIndex2Values(t *testing.T) {
	var idx Index2
	idx.Add(11)
	idx.Add(22)
	values := idx.Values()
	if len(values) != 2 || values[0] != 11 || values[1] != 22 {
		t.Errorf("Values() = %v, want [11 22]", values)
	}
}
