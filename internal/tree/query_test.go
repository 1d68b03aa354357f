package tree

import (
	"testing"

	"github.com/beetlebugorg/tzfinder/internal/geo"
)

// buildSplitWorld returns a tree split once on longitude (level 0):
// hi (lon >= 0) claims index 1, lo claims index 2.
func buildSplitWorld() *Tree {
	return &Tree{
		root: &node{
			hi: leaf(1, 0),
			lo: leaf(2, 0),
		},
		ids: []string{"Hi/Zone", "Lo/Zone"},
	}
}

func TestIndexAtDescent(t *testing.T) {
	tr := buildSplitWorld()

	tests := []struct {
		lon, lat float32
		want     uint16
	}{
		{10, 0, 1},
		{0, 0, 1}, // boundary belongs to hi
		{-10, 0, 2},
		{-180, 90, 2},
		{180, 90, 1},
	}
	for _, tt := range tests {
		idx := tr.IndexAt(tt.lon, tt.lat)
		if idx.First() != tt.want {
			t.Errorf("IndexAt(%v, %v) = %d, want %d", tt.lon, tt.lat, idx.First(), tt.want)
		}
	}
}

func TestIndexAtIsPure(t *testing.T) {
	tr := buildSplitWorld()
	first := tr.IndexAt(12.5, 47.3)
	for i := 0; i < 10; i++ {
		if got := tr.IndexAt(12.5, 47.3); got != first {
			t.Fatalf("IndexAt not pure: call %d returned %v, want %v", i, got, first)
		}
	}
}

func TestBoxAtReturnsLeafCell(t *testing.T) {
	tr := buildSplitWorld()
	idx, box, level := tr.BoxAt(10, 0)

	if idx.First() != 1 {
		t.Errorf("First = %d, want 1", idx.First())
	}
	if level != 1 {
		t.Errorf("level = %d, want 1", level)
	}
	if !box.Contains(geo.Position{Lon: 10, Lat: 0}) {
		t.Errorf("box %+v does not contain queried point", box)
	}
	if box.SW.Lon != 0 {
		t.Errorf("hi half's SW.Lon = %v, want 0", box.SW.Lon)
	}
}

func TestTraverseMatchesByContainment(t *testing.T) {
	tr := buildSplitWorld()

	var boxes []geo.BBox
	tr.Traverse(tr.IndexAt(10, 0), func(b geo.BBox) { boxes = append(boxes, b) })

	if len(boxes) != 1 {
		t.Fatalf("traverse matched %d leaves, want 1", len(boxes))
	}
}
