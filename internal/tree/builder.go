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

// DefaultMaxLevel is the default recursion depth cap. At this depth a
// partial overlap is accepted as if it were full containment, bounding
// the imprecision to the resulting cell size.
const DefaultMaxLevel = 25

// BuilderOptions controls the tree builder's parallelism and recursion
// depth.
type BuilderOptions struct {
	// MaxLevel caps the recursion depth. 0 selects DefaultMaxLevel.
	MaxLevel int

	// Workers sets the worker pool size. 0 selects runtime.NumCPU().
	Workers int

	// Progress is called as (source, ring) jobs complete. May be nil.
	Progress ProgressFunc
}

// DefaultBuilderOptions returns builder options with sensible defaults,
// following the teacher's DefaultLoadOptions/DefaultParseOptions
// convention of one constructor per configurable type.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		MaxLevel: DefaultMaxLevel,
		Workers:  runtime.NumCPU(),
	}
}

// Builder partitions the world into cells claimed by the time zone
// sources whose included rings cover them. A Builder is single-use: call
// Build once per instance.
type Builder struct {
	opts BuilderOptions

	root *node

	multiplesMu sync.Mutex
	multiples   map[*node]*tzindex.Index2

	nodeCount int64
}

// NewBuilder creates a Builder with the given options. A zero
// BuilderOptions{} is valid and resolves to the defaults.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.MaxLevel <= 0 {
		opts.MaxLevel = DefaultMaxLevel
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Builder{
		opts:      opts,
		root:      &node{},
		multiples: make(map[*node]*tzindex.Index2),
		nodeCount: 1, // the root
	}
}

// ringJob is one unit of build work: claim source.Index across the
// subtree that ring overlaps.
type ringJob struct {
	sourceIndex uint16
	ring        geo.Ring
}

// Build partitions the world bbox according to sources' included rings,
// using a parallel worker pool keyed by source order. It blocks until
// every ring has been processed or ctx is cancelled.
func (b *Builder) Build(ctx context.Context, sources []*source.Source) (*Tree, error) {
	jobs := make(chan ringJob, 64)

	var wg sync.WaitGroup
	workers := b.opts.Workers
	if workers > len(sources)+1 {
		workers = len(sources) + 1
	}
	if workers < 1 {
		workers = 1
	}

	var cancelled atomic.Bool

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					cancelled.Store(true)
					continue
				default:
				}
				b.add(b.root, job.sourceIndex, job.ring, geo.World, 0)
				b.opts.Progress.report("build", 1)
			}
		}()
	}

	// Feed jobs in source-index order so progress reporting (and any
	// future work-stealing) groups naturally by source.
	go func() {
		defer close(jobs)
		for _, src := range sources {
			for _, ring := range src.Included {
				select {
				case <-ctx.Done():
					return
				case jobs <- ringJob{sourceIndex: src.Index, ring: ring}:
				}
			}
		}
	}()

	wg.Wait()

	if cancelled.Load() || ctx.Err() != nil {
		return nil, &CancelledError{}
	}

	ids := make([]string, len(sources))
	for _, src := range sources {
		ids[src.Index-1] = src.ID
	}

	return &Tree{
		root:      b.root,
		ids:       ids,
		nodeCount: atomic.LoadInt64(&b.nodeCount),
	}, nil
}

// add recursively descends the tree, claiming idx wherever ring subsumes
// or overlaps box, per the spec's add(node, idx, ring, box, level)
// algorithm: subset claims outright, partial overlap splits and
// recurses (or claims outright once max_level is reached), and disjoint
// does nothing.
func (b *Builder) add(n *node, idx uint16, ring geo.Ring, box geo.BBox, level int) {
	subset, overlapping := geo.BoxRingRelation(ring, box)

	switch {
	case subset:
		b.claim(n, idx)
	case overlapping:
		if level == b.opts.MaxLevel {
			b.claim(n, idx)
			return
		}
		hi, lo, created := n.ensureChildren()
		if created > 0 {
			atomic.AddInt64(&b.nodeCount, int64(created))
		}
		hiBox, loBox := box.Split(level)
		b.add(hi, idx, ring, hiBox, level+1)
		b.add(lo, idx, ring, loBox, level+1)
	default:
		// disjoint: nothing to do
	}
}

// claim records idx on n's primary 2-slot index, overflowing into the
// MultipleIndex side-table (guarded by its own mutex, independent of any
// node's mutex) when both primary slots are already taken.
func (b *Builder) claim(n *node, idx uint16) {
	if n.claim(idx) {
		return
	}

	b.multiplesMu.Lock()
	defer b.multiplesMu.Unlock()
	overflow, ok := b.multiples[n]
	if !ok {
		overflow = new(tzindex.Index2)
		// Seed the overflow set with the primary slots so the full
		// candidate set lives in one place once consolidation reads it.
		overflow.Add(n.payload().First())
		overflow.Add(n.payload().Second())
		b.multiples[n] = overflow
	}
	overflow.Add(idx)
}

// multiplesFor returns the overflow set recorded for n (which also holds
// the primary slots' values, see claim), or the empty set if none was
// recorded.
func (b *Builder) multiplesFor(n *node) tzindex.Index2 {
	b.multiplesMu.Lock()
	defer b.multiplesMu.Unlock()
	if overflow, ok := b.multiples[n]; ok {
		return *overflow
	}
	return tzindex.Index2(0)
}
