// Package geo provides the geometric primitives used to compile and query
// the time zone bounding-box tree: positions, axis-aligned boxes with
// alternating-axis bisection, reduced/padded rings, and the point/box
// predicates the tree builder and consolidator run over those rings.
package geo

// Position is a (longitude, latitude) pair in decimal degrees, stored at
// 32-bit precision. Comparison is bitwise-exact equality, matching the
// source data's float32 resolution.
type Position struct {
	Lon float32
	Lat float32
}

// Eq reports bitwise-exact equality between two positions.
func (p Position) Eq(o Position) bool {
	return p.Lon == o.Lon && p.Lat == o.Lat
}

// Outside is the designated "outside the world" point used as the ray
// target for point-in-ring tests. Its latitude is deliberately out of the
// valid [-90, 90] range so no real vertex ever equals it.
var Outside = Position{Lon: 0, Lat: 200}

// BBox is an axis-aligned rectangle described by its south-west and
// north-east corners.
type BBox struct {
	SW Position
	NE Position
}

// World is the full coverage bounding box: -180..180 longitude,
// -90..90 latitude.
var World = BBox{
	SW: Position{Lon: -180, Lat: -90},
	NE: Position{Lon: 180, Lat: 90},
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b BBox) Contains(p Position) bool {
	return p.Lon >= b.SW.Lon && p.Lon <= b.NE.Lon &&
		p.Lat >= b.SW.Lat && p.Lat <= b.NE.Lat
}

// Corners returns the box's four corners in a fixed order: SW, SE, NE, NW.
// This order is also used as a closed 4-edge ring by boxContains.
func (b BBox) Corners() [4]Position {
	return [4]Position{
		{Lon: b.SW.Lon, Lat: b.SW.Lat},
		{Lon: b.NE.Lon, Lat: b.SW.Lat},
		{Lon: b.NE.Lon, Lat: b.NE.Lat},
		{Lon: b.SW.Lon, Lat: b.NE.Lat},
	}
}

// Split bisects b at the given level. Even levels split along longitude
// (vertical split); odd levels split along latitude (horizontal split).
// hi owns the half with the greater coordinate on the split axis. This
// alternation is what makes depth d = 5k correspond to a k-character
// geohash cell.
func (b BBox) Split(level int) (hi, lo BBox) {
	if level%2 == 0 {
		mid := (b.SW.Lon + b.NE.Lon) / 2
		hi = BBox{SW: Position{Lon: mid, Lat: b.SW.Lat}, NE: b.NE}
		lo = BBox{SW: b.SW, NE: Position{Lon: mid, Lat: b.NE.Lat}}
		return hi, lo
	}
	mid := (b.SW.Lat + b.NE.Lat) / 2
	hi = BBox{SW: Position{Lon: b.SW.Lon, Lat: mid}, NE: b.NE}
	lo = BBox{SW: b.SW, NE: Position{Lon: b.NE.Lon, Lat: mid}}
	return hi, lo
}
