// Package tree implements the alternating-axis binary space partition
// tree: its construction from time zone sources (Builder), the
// overlap/exclusion resolution pass that follows construction
// (Consolidator), and the binary on-disk format (Encode/Decode).
package tree

import (
	"sync"

	"github.com/beetlebugorg/tzfinder/internal/tzindex"
)

// node is one tree node. Internal nodes own hi and lo; leaves carry a
// finalized tzindex.Index. During the build and consolidation phases an
// internal node's index field may temporarily hold a "confirmed subset"
// payload inherited from an ancestor claim; the consolidator clears it
// once that payload has been pushed down to the children.
//
// mu guards index and the hi/lo pointers: a node's shape (whether it has
// children) and its payload can both be mutated concurrently by
// different workers processing different source rings.
type node struct {
	mu    sync.Mutex
	index tzindex.Index
	hi    *node
	lo    *node
}

func (n *node) isLeaf() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hi == nil
}

// ensureChildren creates hi and lo if they do not already exist,
// initializing each to the current node's payload so that any region
// already claimed for this node is claimed for both halves. It is
// idempotent and safe for concurrent callers. Returns the (possibly
// newly created) children and how many new nodes were allocated.
func (n *node) ensureChildren() (hi, lo *node, created int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hi != nil {
		return n.hi, n.lo, 0
	}
	n.hi = &node{index: n.index}
	n.lo = &node{index: n.index}
	return n.hi, n.lo, 2
}

// claim adds idx to the node's payload, returning false if the 2-slot
// index is already full of two other values.
func (n *node) claim(idx uint16) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index.Add(idx)
}

// payload returns a snapshot of the node's current index.
func (n *node) payload() tzindex.Index {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// setPayload overwrites the node's index (used by the consolidator to
// write the final, resolved leaf value).
func (n *node) setPayload(idx tzindex.Index) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.index = idx
}

// children returns the node's hi/lo pointers (nil, nil for a leaf).
func (n *node) children() (hi, lo *node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hi, n.lo
}

// Tree is the fully built and consolidated index: the root node plus the
// parallel array mapping 1-based time zone index to its IANA id.
type Tree struct {
	root      *node
	ids       []string // ids[i-1] -> id for index i
	nodeCount int64
}

// IDs returns the tree's time zone id table, in 1-based index order
// (IDs()[0] is the id for index 1).
func (t *Tree) IDs() []string {
	return t.ids
}

// NodeCount returns the total number of nodes (internal + leaf) in the
// tree.
func (t *Tree) NodeCount() int64 {
	return t.nodeCount
}
