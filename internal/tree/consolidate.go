package tree

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/beetlebugorg/tzfinder/internal/geo"
	"github.com/beetlebugorg/tzfinder/internal/source"
	"github.com/beetlebugorg/tzfinder/internal/tzindex"
)

// gridSamples is the side length of the consolidator's sampling grid
// (5x5 = 25 points per ambiguous leaf).
const gridSamples = 5

// ConsolidatorOptions controls the consolidation pass's parallelism.
type ConsolidatorOptions struct {
	// Workers caps concurrent subtree recursions. 0 selects
	// runtime.NumCPU().
	Workers int

	// Progress is called once per visited node. May be nil.
	Progress ProgressFunc
}

// DefaultConsolidatorOptions returns sensible defaults.
func DefaultConsolidatorOptions() ConsolidatorOptions {
	return ConsolidatorOptions{Workers: runtime.NumCPU()}
}

// Consolidator resolves a freshly built tree's multi-claim nodes down to
// at most two indices per leaf, applying each source's excluded rings
// and breaking remaining ties by grid sampling.
type Consolidator struct {
	opts ConsolidatorOptions
	sem  chan struct{}
}

// NewConsolidator creates a Consolidator with the given options.
func NewConsolidator(opts ConsolidatorOptions) *Consolidator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Consolidator{opts: opts, sem: make(chan struct{}, opts.Workers)}
}

// Consolidate sweeps t top-down, pushing each node's confirmed candidate
// set into its children (dropping candidates excluded by a hole at that
// box) and resolving leaves to a final tzindex.Index. b supplies the
// builder's MultipleIndex side-table; sources resolves candidate indices
// back to their rings for exclusion checks and grid sampling.
func (c *Consolidator) Consolidate(ctx context.Context, b *Builder, t *Tree, sources *source.Result) error {
	var cancelled atomic.Bool
	var wg sync.WaitGroup

	var walk func(n *node, inherited tzindex.Index2, box geo.BBox, level int)
	walk = func(n *node, inherited tzindex.Index2, box geo.BBox, level int) {
		defer c.opts.Progress.report("consolidate", 1)

		if ctx.Err() != nil {
			cancelled.Store(true)
			return
		}

		for _, candidate := range b.candidatesFor(n) {
			src := sources.ByIndex[candidate]
			if src == nil || !excludedByAnyRing(src, box) {
				inherited.Add(candidate)
			}
		}

		hi, lo := n.children()
		if hi != nil {
			n.setPayload(0)
			hiBox, loBox := box.Split(level)

			select {
			case c.sem <- struct{}{}:
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer func() { <-c.sem }()
					walk(hi, inherited, hiBox, level+1)
				}()
				walk(lo, inherited, loBox, level+1)
			default:
				walk(hi, inherited, hiBox, level+1)
				walk(lo, inherited, loBox, level+1)
			}
			return
		}

		switch inherited.Count() {
		case 0:
			// empty leaf: ocean, index stays zero
		case 1:
			idx, _ := inherited.ToIndex()
			n.setPayload(idx)
		default:
			n.setPayload(c.resolveBySampling(inherited.Values(), box, sources))
		}
	}

	walk(t.root, tzindex.NewIndex2(), geo.World, 0)
	wg.Wait()

	if cancelled.Load() || ctx.Err() != nil {
		return &CancelledError{}
	}
	return nil
}

// excludedByAnyRing reports whether box sits entirely inside one of
// src's holes, in which case src must not claim box.
func excludedByAnyRing(src *source.Source, box geo.BBox) bool {
	for _, ring := range src.Excluded {
		if subset, _ := geo.BoxRingRelation(ring, box); subset {
			return true
		}
	}
	return false
}

// resolveBySampling evaluates each candidate at a 5x5 grid of points
// inside box and returns the modal 2-slot index across the 25 samples,
// normalized to ascending order.
func (c *Consolidator) resolveBySampling(candidates []uint16, box geo.BBox, sources *source.Result) tzindex.Index {
	var samples [gridSamples * gridSamples]tzindex.Index

	n := 0
	for ky := 0; ky < gridSamples; ky++ {
		lat := lerp(box.SW.Lat, box.NE.Lat, 0.1+float32(ky)/float32(gridSamples))
		for kx := 0; kx < gridSamples; kx++ {
			lon := lerp(box.SW.Lon, box.NE.Lon, 0.1+float32(kx)/float32(gridSamples))
			p := geo.Position{Lon: lon, Lat: lat}

			var acc tzindex.Index
			for _, candidate := range candidates {
				if src := sources.ByIndex[candidate]; src != nil && sourceContains(src, p) {
					acc.Add(candidate)
				}
			}
			samples[n] = acc
			n++
		}
	}

	order := make([]tzindex.Index, 0, len(samples))
	counts := make(map[tzindex.Index]int, len(samples))
	for _, s := range samples {
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}

	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best.Normalize()
}

// sourceContains reports whether p falls inside one of src's included
// rings and outside all of its excluded rings.
func sourceContains(src *source.Source, p geo.Position) bool {
	insideAny := false
	for _, ring := range src.Included {
		if geo.PointInRing(ring, p) {
			insideAny = true
			break
		}
	}
	if !insideAny {
		return false
	}
	for _, ring := range src.Excluded {
		if geo.PointInRing(ring, p) {
			return false
		}
	}
	return true
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// candidatesFor returns the full candidate set recorded for n: the
// MultipleIndex overflow entry if one exists (which always supersedes
// the primary 2-slot index, see claim), otherwise the primary index's
// occupied slots.
func (b *Builder) candidatesFor(n *node) []uint16 {
	if overflow := b.multiplesFor(n); overflow.Count() > 0 {
		return overflow.Values()
	}
	own := n.payload()
	var out []uint16
	if first := own.First(); first != 0 {
		out = append(out, first)
	}
	if second := own.Second(); second != 0 {
		out = append(out, second)
	}
	return out
}
