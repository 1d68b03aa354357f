package geo

import "math"

// earthRadiusMeters is the mean Earth radius used for the Haversine
// distance check during ring reduction.
const earthRadiusMeters = 6371009.0

// DefaultMinRingDistance is the default vertex-retention threshold, in
// meters, used by Reduce when the caller does not override it.
const DefaultMinRingDistance = 500.0

// polarLatitudeThreshold marks the region where meridians converge enough
// that even small angular distances matter; vertices in this band are
// retained whenever they differ from the last emitted vertex, regardless
// of the distance threshold.
const polarLatitudeThreshold = 70.0

// Ring is a padded, reduced polygon boundary ready for the sliding
// 4-vertex window used by the crossing predicates. A Ring built via
// Reduce either has at least 3 edges (at least 6 padded positions) or is
// the zero Ring (Len() == 0) when fewer than 3 vertices survive.
type Ring struct {
	// padded holds the emitted vertices with the padding described by
	// Reduce: emitted[n-1] prepended, emitted[0] and emitted[1] appended.
	padded []Position
	// n is the number of emitted (unpadded) vertices.
	n int
}

// Len returns the number of edges in the ring (equal to the number of
// emitted vertices).
func (r Ring) Len() int { return r.n }

// Window returns the 4-vertex window (iMinus1, i, j, jPlus1) for edge k,
// representing edge i->j with one vertex of context on either side.
func (r Ring) Window(k int) (iMinus1, i, j, jPlus1 Position) {
	return r.padded[k], r.padded[k+1], r.padded[k+2], r.padded[k+3]
}

// First returns the first emitted vertex (used by boxContains).
func (r Ring) First() Position {
	return r.padded[1]
}

// Reduce filters a dense GeoJSON ring down to vertices that are
// meaningfully distinct (by Haversine distance, or always in the polar
// band), then pads the result for the sliding window. coords is expected
// in GeoJSON order, closed (coords[0] == coords[len(coords)-1]); the
// closing duplicate is skipped.
//
// minDistanceMeters <= 0 selects DefaultMinRingDistance.
func Reduce(coords []Position, minDistanceMeters float64) Ring {
	if minDistanceMeters <= 0 {
		minDistanceMeters = DefaultMinRingDistance
	}

	n := len(coords)
	if n > 1 && coords[0].Eq(coords[n-1]) {
		n--
	}
	if n < 3 {
		return Ring{}
	}

	emitted := make([]Position, 0, n)
	emitted = append(emitted, coords[0])

	for i := 1; i < n; i++ {
		v := coords[i]
		last := emitted[len(emitted)-1]
		if haversine(last, v) > minDistanceMeters {
			emitted = append(emitted, v)
			continue
		}
		if math.Abs(float64(v.Lat)) > polarLatitudeThreshold && !v.Eq(last) {
			emitted = append(emitted, v)
		}
	}

	m := len(emitted)
	if m < 3 {
		return Ring{}
	}

	padded := make([]Position, 0, m+3)
	padded = append(padded, emitted[m-1])
	padded = append(padded, emitted...)
	padded = append(padded, emitted[0], emitted[1])

	return Ring{padded: padded, n: m}
}

// haversine returns the great-circle distance between a and b in meters.
func haversine(a, b Position) float64 {
	lat1 := float64(a.Lat) * math.Pi / 180
	lat2 := float64(b.Lat) * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (float64(b.Lon) - float64(a.Lon)) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Asin(math.Min(1, math.Sqrt(h)))
	return earthRadiusMeters * c
}
