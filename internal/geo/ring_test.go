package geo

import "testing"

func square(sw, ne Position) []Position {
	return []Position{
		sw,
		{Lon: ne.Lon, Lat: sw.Lat},
		ne,
		{Lon: sw.Lon, Lat: ne.Lat},
		sw, // closed
	}
}

func TestReduceDropsClosingDuplicate(t *testing.T) {
	coords := square(Position{Lon: 0, Lat: 0}, Position{Lon: 10, Lat: 10})
	ring := Reduce(coords, 1)
	if ring.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", ring.Len())
	}
}

func TestReduceTooFewVerticesReturnsZeroValue(t *testing.T) {
	coords := []Position{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	ring := Reduce(coords, 1)
	if ring.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for a degenerate ring", ring.Len())
	}
}

func TestReducePolarBandAlwaysRetainsDistinctVertices(t *testing.T) {
	// Vertices extremely close together in absolute distance, but beyond
	// the polar latitude threshold, must still survive.
	coords := []Position{
		{Lon: 0, Lat: 80},
		{Lon: 0.0001, Lat: 80},
		{Lon: 10, Lat: 80},
		{Lon: 0, Lat: 85},
		{Lon: 0, Lat: 80},
	}
	// Huge threshold: (0.0001, 80) is about 2 m from its predecessor and
	// survives only through the polar band rule.
	ring := Reduce(coords, 100000)
	if ring.Len() != 4 {
		t.Fatalf("Len() = %d, want all 4 distinct polar-band vertices retained", ring.Len())
	}
}

func TestPointInRingSquare(t *testing.T) {
	ring := Reduce(square(Position{Lon: -10, Lat: -10}, Position{Lon: 10, Lat: 10}), 1)

	tests := []struct {
		name string
		p    Position
		want bool
	}{
		{"center", Position{Lon: 0, Lat: 0}, true},
		{"outside", Position{Lon: 50, Lat: 50}, false},
		{"on boundary", Position{Lon: -10, Lat: 0}, true},
		{"on corner", Position{Lon: -10, Lat: -10}, true},
		{"just outside", Position{Lon: -10.01, Lat: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInRing(ring, tt.p); got != tt.want {
				t.Errorf("PointInRing(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxRingRelation(t *testing.T) {
	ring := Reduce(square(Position{Lon: -10, Lat: -10}, Position{Lon: 10, Lat: 10}), 1)

	tests := []struct {
		name            string
		box             BBox
		wantSubset      bool
		wantOverlapping bool
	}{
		{
			name:            "fully inside",
			box:             BBox{SW: Position{Lon: -5, Lat: -5}, NE: Position{Lon: 5, Lat: 5}},
			wantSubset:      true,
			wantOverlapping: true,
		},
		{
			name:            "disjoint",
			box:             BBox{SW: Position{Lon: 50, Lat: 50}, NE: Position{Lon: 60, Lat: 60}},
			wantSubset:      false,
			wantOverlapping: false,
		},
		{
			name:            "straddles boundary",
			box:             BBox{SW: Position{Lon: 5, Lat: 5}, NE: Position{Lon: 15, Lat: 15}},
			wantSubset:      false,
			wantOverlapping: true,
		},
		{
			name:            "ring fully inside box",
			box:             World,
			wantSubset:      false,
			wantOverlapping: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subset, overlapping := BoxRingRelation(ring, tt.box)
			if subset != tt.wantSubset {
				t.Errorf("subset = %v, want %v", subset, tt.wantSubset)
			}
			if overlapping != tt.wantOverlapping {
				t.Errorf("overlapping = %v, want %v", overlapping, tt.wantOverlapping)
			}
		})
	}
}

func TestBBoxSplitAlternatesAxis(t *testing.T) {
	hi, lo := World.Split(0)
	if hi.SW.Lon != 0 || lo.NE.Lon != 0 {
		t.Errorf("level 0 should split longitude: hi=%+v lo=%+v", hi, lo)
	}
	if hi.SW.Lat != World.SW.Lat || lo.SW.Lat != World.SW.Lat {
		t.Errorf("level 0 split should not change latitude bounds")
	}

	hi, lo = World.Split(1)
	if hi.SW.Lat != 0 || lo.NE.Lat != 0 {
		t.Errorf("level 1 should split latitude: hi=%+v lo=%+v", hi, lo)
	}
}
