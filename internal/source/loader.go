// Package source loads the Timezone Boundary Builder GeoJSON release into
// the immutable, read-only Source records the tree builder recurses over.
package source

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/beetlebugorg/tzfinder/internal/geo"
)

// Source is one time zone's compiled boundary: its 1-based index, its
// IANA id, and the rings (outer boundaries and holes) that make up its
// geometry. Sources are built once by Load and are read-only afterward.
type Source struct {
	Index    uint16
	ID       string
	Included []geo.Ring
	Excluded []geo.Ring
}

// Result is the loader's output: the ordered list of sources plus the
// lookup tables the builder and serializer need.
type Result struct {
	Sources []*Source
	ByID    map[string]uint16
	ByIndex map[uint16]*Source
}

// Load reads a GeoJSON FeatureCollection of time zone polygons from r
// (the whole document is read into memory before parsing) and compiles
// it into Sources. Each feature must carry a
// properties.tzid string and a Polygon or MultiPolygon geometry; any
// other geometry kind fails the whole load. Features are assigned
// 1-based indices in traversal order. minRingDistanceMeters <= 0
// selects geo.DefaultMinRingDistance.
func Load(r io.Reader, minRingDistanceMeters float64) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("read: %v", err)}
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("parse GeoJSON: %v", err)}
	}

	result := &Result{
		Sources: make([]*Source, 0, len(fc.Features)),
		ByID:    make(map[string]uint16, len(fc.Features)),
		ByIndex: make(map[uint16]*Source, len(fc.Features)),
	}

	for i, feature := range fc.Features {
		index := uint16(i + 1)

		id, _ := feature.Properties["tzid"].(string)
		if id == "" {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("feature %d missing properties.tzid", i)}
		}

		polygons, err := polygonsOf(feature.Geometry)
		if err != nil {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("feature %q: %v", id, err)}
		}

		src := &Source{Index: index, ID: id}
		for _, poly := range polygons {
			for ringIdx, ring := range poly {
				reduced := geo.Reduce(toPositions(ring), minRingDistanceMeters)
				if reduced.Len() == 0 {
					continue
				}
				if ringIdx == 0 {
					src.Included = append(src.Included, reduced)
				} else {
					src.Excluded = append(src.Excluded, reduced)
				}
			}
		}

		result.Sources = append(result.Sources, src)
		result.ByID[id] = index
		result.ByIndex[index] = src
	}

	return result, nil
}

// polygonsOf extracts the polygon(s) backing a feature's geometry.
func polygonsOf(g orb.Geometry) ([]orb.Polygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}, nil
	case orb.MultiPolygon:
		return []orb.Polygon(geom), nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T (want Polygon or MultiPolygon)", g)
	}
}

// toPositions converts an orb.Ring ([lon,lat] points) to geo.Position.
func toPositions(ring orb.Ring) []geo.Position {
	out := make([]geo.Position, len(ring))
	for i, pt := range ring {
		out[i] = geo.Position{Lon: float32(pt[0]), Lat: float32(pt[1])}
	}
	return out
}
