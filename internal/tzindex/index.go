// Package tzindex implements the small, bounded, duplicate-free sets of
// 1-based time zone indices carried by tree leaves. Index is the 2-slot
// payload every leaf is serialized with; Index2 is a 4-slot variant used
// only transiently during building and consolidation, when a node's
// candidate set may briefly exceed two entries before grid sampling
// narrows it back down.
package tzindex

// Index packs up to two 1-based 16-bit time zone indices into a single
// 32-bit value. A zero value means "no time zone" (ocean). Invariants:
// First > 0, or First == Second == 0; Second != 0 implies First != 0.
type Index uint32

// NewIndex returns the empty index.
func NewIndex() Index { return 0 }

func packIndex(first, second uint16) Index {
	return Index(uint32(first) | uint32(second)<<16)
}

// First returns the first slot, or 0 if empty.
func (idx Index) First() uint16 { return uint16(idx) }

// Second returns the second slot, or 0 if unused.
func (idx Index) Second() uint16 { return uint16(idx >> 16) }

// Empty reports whether idx carries no time zone at all.
func (idx Index) Empty() bool { return idx.First() == 0 }

// Contains reports whether x occupies either slot. x == 0 never matches.
func (idx Index) Contains(x uint16) bool {
	return x != 0 && (idx.First() == x || idx.Second() == x)
}

// Add inserts x into the first free slot, or confirms it is already
// present. It returns false only when both slots are occupied by values
// other than x.
func (idx *Index) Add(x uint16) bool {
	if x == 0 {
		return true
	}
	first, second := idx.First(), idx.Second()
	switch {
	case first == 0:
		*idx = packIndex(x, 0)
		return true
	case first == x || second == x:
		return true
	case second == 0:
		*idx = packIndex(first, x)
		return true
	default:
		return false
	}
}

// Normalize reorders the two slots into canonical ascending order
// (First < Second) when both are populated. This is applied once, by
// the consolidator, right before a leaf's payload is finalized.
func (idx Index) Normalize() Index {
	first, second := idx.First(), idx.Second()
	if second != 0 && first > second {
		return packIndex(second, first)
	}
	return idx
}

// Index2 packs up to four 1-based 16-bit time zone indices into a 64-bit
// value. It exists only for the builder/consolidator's intermediate
// overflow bookkeeping (the MultipleIndex side-table and the
// consolidator's candidate accumulation) and is never serialized.
type Index2 uint64

// NewIndex2 returns the empty 4-slot index.
func NewIndex2() Index2 { return 0 }

// Slot returns the i'th slot (0..3), or 0 if unused.
func (idx Index2) Slot(i int) uint16 {
	return uint16(idx >> (16 * uint(i)))
}

func (idx Index2) withSlot(i int, v uint16) Index2 {
	shift := 16 * uint(i)
	mask := Index2(0xFFFF) << shift
	return (idx &^ mask) | (Index2(v) << shift)
}

// Count returns the number of occupied slots.
func (idx Index2) Count() int {
	n := 0
	for i := 0; i < 4; i++ {
		if idx.Slot(i) != 0 {
			n++
		}
	}
	return n
}

// Contains reports whether x occupies any slot. x == 0 never matches.
func (idx Index2) Contains(x uint16) bool {
	if x == 0 {
		return false
	}
	for i := 0; i < 4; i++ {
		if idx.Slot(i) == x {
			return true
		}
	}
	return false
}

// Add inserts x into the first free slot, or confirms it is already
// present. It returns false only when all four slots are occupied by
// values other than x; the builder never admits a fifth candidate in
// practice, but the check is kept so overflow fails loudly instead of
// silently dropping data.
func (idx *Index2) Add(x uint16) bool {
	if x == 0 {
		return true
	}
	if idx.Contains(x) {
		return true
	}
	for i := 0; i < 4; i++ {
		if idx.Slot(i) == 0 {
			*idx = idx.withSlot(i, x)
			return true
		}
	}
	return false
}

// Values returns the occupied slots, in slot order.
func (idx Index2) Values() []uint16 {
	out := make([]uint16, 0, 4)
	for i := 0; i < 4; i++ {
		if v := idx.Slot(i); v != 0 {
			out = append(out, v)
		}
	}
	return out
}

// ToIndex narrows idx down to the 2-slot serialized form. ok is false if
// idx carries more than two entries.
func (idx Index2) ToIndex() (result Index, ok bool) {
	values := idx.Values()
	if len(values) > 2 {
		return 0, false
	}
	var first, second uint16
	if len(values) > 0 {
		first = values[0]
	}
	if len(values) > 1 {
		second = values[1]
	}
	return packIndex(first, second).Normalize(), true
}
