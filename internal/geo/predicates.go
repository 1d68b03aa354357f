package geo

// det computes the 2-D orientation determinant of O, A, B:
// det(O,A,B) = (Ax-Ox)(By-Oy) - (Ay-Oy)(Bx-Ox). Its sign tells which side
// of the O->A line the point B falls on.
func det(o, a, b Position) float64 {
	ox, oy := float64(o.Lon), float64(o.Lat)
	ax, ay := float64(a.Lon), float64(a.Lat)
	bx, by := float64(b.Lon), float64(b.Lat)
	return (ax-ox)*(by-oy) - (ay-oy)*(bx-ox)
}

// between reports whether p (already known to be collinear with a and b)
// lies within the closed bounding box of a and b.
func between(p, a, b Position) bool {
	minLon, maxLon := a.Lon, b.Lon
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	minLat, maxLat := a.Lat, b.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	return p.Lon >= minLon && p.Lon <= maxLon && p.Lat >= minLat && p.Lat <= maxLat
}

func oppositeSign(x, y float64) bool {
	return (x > 0 && y < 0) || (x < 0 && y > 0)
}

// crossing decides whether segment q->r crosses edge i->j, given the
// window's extra context vertices iMinus1 and jPlus1. onEdge is set when
// the query point q is found to lie exactly on the edge i->j.
func crossing(iMinus1, i, j, jPlus1, q, r Position) (crosses, onEdge bool) {
	dQIJ := det(q, i, j)
	dRIJ := det(r, i, j)

	if dQIJ == 0 && between(q, i, j) {
		onEdge = true
		if dRIJ == 0 {
			// Both endpoints of q->r are collinear with i->j: the whole
			// edge is degenerate against the query segment. Resolve by
			// checking whether the neighbors one vertex past each
			// endpoint of the edge land on opposite sides of q->r.
			crosses = oppositeSign(det(iMinus1, q, r), det(jPlus1, q, r))
			return crosses, onEdge
		}
		// q touches the edge but r does not lie on its line: treat as a
		// touch, not a crossing. Callers that care about boundary
		// membership use onEdge directly.
		return false, onEdge
	}

	dIQR := det(i, q, r)
	dJQR := det(j, q, r)

	if dIQR == 0 && between(i, q, r) {
		// i lies exactly on q->r: resolve using the edge's other
		// endpoint and the vertex one step before i.
		crosses = oppositeSign(det(iMinus1, q, r), det(j, q, r))
		return crosses, onEdge
	}
	if dJQR == 0 && between(j, q, r) {
		// j lies exactly on q->r: symmetric resolution using i and the
		// vertex one step past j.
		crosses = oppositeSign(det(i, q, r), det(jPlus1, q, r))
		return crosses, onEdge
	}

	crosses = oppositeSign(dQIJ, dRIJ) && oppositeSign(dIQR, dJQR)
	return crosses, onEdge
}

// PointInRing reports whether p lies inside ring, counting the boundary
// as inside. It ray-casts from p to Outside and flips parity on each
// crossing.
func PointInRing(ring Ring, p Position) bool {
	inside := false
	for k := 0; k < ring.Len(); k++ {
		iMinus1, i, j, jPlus1 := ring.Window(k)
		crosses, onEdge := crossing(iMinus1, i, j, jPlus1, p, Outside)
		if onEdge {
			return true
		}
		if crosses {
			inside = !inside
		}
	}
	return inside
}

// boxWindow returns the 4-vertex context window for edge k (0..3) of a
// box treated as a closed 4-edge ring: corners in SW, SE, NE, NW order.
func boxWindow(corners [4]Position, k int) (iMinus1, i, j, jPlus1 Position) {
	return corners[(k+3)%4], corners[k], corners[(k+1)%4], corners[(k+2)%4]
}

// boxContains rays-casts p against box treated as a closed 4-edge ring.
func boxContains(box BBox, p Position) bool {
	corners := box.Corners()
	inside := false
	for k := 0; k < 4; k++ {
		iMinus1, i, j, jPlus1 := boxWindow(corners, k)
		crosses, onEdge := crossing(iMinus1, i, j, jPlus1, p, Outside)
		if onEdge {
			return true
		}
		if crosses {
			inside = !inside
		}
	}
	return inside
}

// BoxRingRelation walks ring once and classifies its relationship to box:
// subset means box lies entirely within ring; overlapping means box and
// ring share any area at all. subset implies overlapping.
func BoxRingRelation(ring Ring, box BBox) (subset, overlapping bool) {
	corners := box.Corners()

	var edgeCrossing, onEdge bool
	cornerInside := [4]bool{}
	cornerOnEdge := [4]bool{}

	for k := 0; k < ring.Len(); k++ {
		iMinus1, i, j, jPlus1 := ring.Window(k)

		for be := 0; be < 4; be++ {
			q := corners[be]
			r := corners[(be+1)%4]
			crosses, touch := crossing(iMinus1, i, j, jPlus1, q, r)
			if crosses {
				edgeCrossing = true
			}
			if touch {
				onEdge = true
			}
		}

		for c := 0; c < 4; c++ {
			if cornerOnEdge[c] {
				continue // frozen: this corner already sits on the boundary
			}
			crosses, touch := crossing(iMinus1, i, j, jPlus1, corners[c], Outside)
			if touch {
				cornerOnEdge[c] = true
				continue
			}
			if crosses {
				cornerInside[c] = !cornerInside[c]
			}
		}
	}

	allCornersInside := true
	for c := 0; c < 4; c++ {
		if !(cornerOnEdge[c] || cornerInside[c]) {
			allCornersInside = false
			break
		}
	}

	subset = allCornersInside && !edgeCrossing && !onEdge
	overlapping = allCornersInside || edgeCrossing || onEdge || boxContains(box, ring.First())
	return subset, overlapping
}
