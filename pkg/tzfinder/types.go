package tzfinder

import "github.com/beetlebugorg/tzfinder/internal/geo"

// Position is a (longitude, latitude) pair in decimal degrees.
type Position struct {
	Lon float64
	Lat float64
}

// BBox is the axis-aligned cell a query resolved to.
type BBox struct {
	SW Position
	NE Position
}

func fromBBox(b geo.BBox) BBox {
	return BBox{
		SW: Position{Lon: float64(b.SW.Lon), Lat: float64(b.SW.Lat)},
		NE: Position{Lon: float64(b.NE.Lon), Lat: float64(b.NE.Lat)},
	}
}

// TimeZoneIndex is a leaf payload: up to two 1-based time zone indices,
// with Second == 0 meaning only one time zone claims the cell.
type TimeZoneIndex struct {
	First  uint16
	Second uint16
}
