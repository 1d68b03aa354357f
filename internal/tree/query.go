package tree

import (
	"github.com/beetlebugorg/tzfinder/internal/geo"
	"github.com/beetlebugorg/tzfinder/internal/tzindex"
)

// descend walks from the root to the leaf covering (lon, lat), returning
// the leaf node, its cell, and the level (depth) reached. At each
// internal node the combined lon/lat comparison against hi's south-west
// corner is sufficient because a level's split varies exactly one axis.
func (t *Tree) descend(lon, lat float32) (leaf *node, box geo.BBox, level int) {
	n := t.root
	box = geo.World
	for {
		hi, lo := n.children()
		if hi == nil {
			return n, box, level
		}
		hiBox, loBox := box.Split(level)
		if lon >= hiBox.SW.Lon && lat >= hiBox.SW.Lat {
			n, box = hi, hiBox
		} else {
			n, box = lo, loBox
		}
		level++
	}
}

// IndexAt returns the time zone index claiming (lon, lat).
func (t *Tree) IndexAt(lon, lat float32) tzindex.Index {
	leaf, _, _ := t.descend(lon, lat)
	return leaf.payload()
}

// BoxAt returns the time zone index claiming (lon, lat) along with the
// leaf cell and the depth it was found at.
func (t *Tree) BoxAt(lon, lat float32) (tzindex.Index, geo.BBox, int) {
	leaf, box, level := t.descend(lon, lat)
	return leaf.payload(), box, level
}

// Traverse visits every leaf whose payload matches query: if
// query.Second() == 0, any leaf whose set contains query.First();
// otherwise only leaves whose payload equals query exactly. callback
// receives each matching leaf's cell.
func (t *Tree) Traverse(query tzindex.Index, callback func(geo.BBox)) {
	var walk func(n *node, box geo.BBox, level int)
	walk = func(n *node, box geo.BBox, level int) {
		hi, lo := n.children()
		if hi == nil {
			payload := n.payload()
			if query.Second() == 0 {
				if payload.Contains(query.First()) {
					callback(box)
				}
				return
			}
			if payload == query {
				callback(box)
			}
			return
		}
		hiBox, loBox := box.Split(level)
		walk(hi, hiBox, level+1)
		walk(lo, loBox, level+1)
	}
	walk(t.root, geo.World, 0)
}
