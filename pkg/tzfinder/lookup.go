// Package tzfinder is the public facade over the compiled time zone
// tree: given a longitude/latitude it resolves the IANA time zone
// id(s) claiming that point, falling back to a synthetic Etc/GMT offset
// over open ocean.
//
// A Lookup starts Unloaded. Configuration setters (SetDataPath,
// SetDataStream) are valid only in that state; the first query call, or
// an explicit EnsureLoaded, transitions through Loading to Ready (or
// Failed) exactly once, however many goroutines race to trigger it.
package tzfinder

import (
	"context"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/beetlebugorg/tzfinder/internal/geo"
	"github.com/beetlebugorg/tzfinder/internal/tree"
	"github.com/beetlebugorg/tzfinder/internal/tzindex"
)

// DefaultDataFileName is the conventional name of the serialized tree
// file, looked for next to the running executable when no data path or
// stream has been configured.
const DefaultDataFileName = "TZFinder.TimeZoneData.bin"

const embeddedPrefix = "embedded://"

type loadState int32

const (
	stateUnloaded loadState = iota
	stateLoading
	stateReady
	stateFailed
)

// Lookup is a loaded (or not-yet-loaded) time zone tree. The zero value
// is an Unloaded Lookup, the same value New returns.
type Lookup struct {
	once  sync.Once
	state atomic.Int32

	cfgMu      sync.Mutex
	dataPath   string
	dataStream io.ReadCloser
	embedFS    fs.FS

	tree    *tree.Tree
	loadErr error
}

// New returns an unloaded Lookup.
func New() *Lookup {
	return &Lookup{}
}

var (
	defaultMu     sync.Mutex
	defaultLookup *Lookup
)

// singleton returns the process-wide Lookup instance, creating it on
// first use. The package-level SetDataPath/SetDataStream/EnsureLoaded
// functions forward to this instance.
func singleton() *Lookup {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLookup == nil {
		defaultLookup = New()
	}
	return defaultLookup
}

// SetDataPath configures the process-wide Lookup's data file path. See
// (*Lookup).SetDataPath.
func SetDataPath(path string) error { return singleton().SetDataPath(path) }

// SetDataStream configures the process-wide Lookup's data source. See
// (*Lookup).SetDataStream.
func SetDataStream(r io.ReadCloser) error { return singleton().SetDataStream(r) }

// EnsureLoaded forces the process-wide Lookup to finish loading. See
// (*Lookup).EnsureLoaded.
func EnsureLoaded(ctx context.Context) error { return singleton().EnsureLoaded(ctx) }

// IndexAt resolves against the process-wide Lookup. See (*Lookup).IndexAt.
func IndexAt(lon, lat float64) (TimeZoneIndex, error) { return singleton().IndexAt(lon, lat) }

// IDAt resolves against the process-wide Lookup. See (*Lookup).IDAt.
func IDAt(lon, lat float64) (string, error) { return singleton().IDAt(lon, lat) }

// AllIDsAt resolves against the process-wide Lookup. See (*Lookup).AllIDsAt.
func AllIDsAt(lon, lat float64) ([]string, error) { return singleton().AllIDsAt(lon, lat) }

// SetDataPath sets the file path the tree is loaded from on first use.
// Fails with AlreadyLoadedError once loading has begun. A path of the
// form "embedded://<name>" is resolved against a filesystem registered
// with SetEmbeddedFS instead of the OS filesystem.
func (l *Lookup) SetDataPath(path string) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()
	if loadState(l.state.Load()) != stateUnloaded {
		return &AlreadyLoadedError{}
	}
	l.dataPath = path
	return nil
}

// SetDataStream sets an already-open stream the tree is decoded from.
// The loader consumes and closes r. Fails with AlreadyLoadedError once
// loading has begun.
func (l *Lookup) SetDataStream(r io.ReadCloser) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()
	if loadState(l.state.Load()) != stateUnloaded {
		return &AlreadyLoadedError{}
	}
	l.dataStream = r
	return nil
}

// SetEmbeddedFS registers the filesystem "embedded://" data paths
// resolve against. Fails with AlreadyLoadedError once loading has
// begun.
func (l *Lookup) SetEmbeddedFS(fsys fs.FS) error {
	l.cfgMu.Lock()
	defer l.cfgMu.Unlock()
	if loadState(l.state.Load()) != stateUnloaded {
		return &AlreadyLoadedError{}
	}
	l.embedFS = fsys
	return nil
}

// EnsureLoaded forces load completion if it has not already happened.
// It is idempotent and safe to call from multiple goroutines: exactly
// one of them performs the load, and all observe the same result.
func (l *Lookup) EnsureLoaded(ctx context.Context) error {
	l.once.Do(func() {
		l.state.Store(int32(stateLoading))
		t, err := l.load(ctx)
		if err != nil {
			l.loadErr = err
			l.state.Store(int32(stateFailed))
			return
		}
		l.tree = t
		l.state.Store(int32(stateReady))
	})
	if loadState(l.state.Load()) == stateFailed {
		return l.loadErr
	}
	return nil
}

func (l *Lookup) load(ctx context.Context) (*tree.Tree, error) {
	l.cfgMu.Lock()
	stream, path, embedFS := l.dataStream, l.dataPath, l.embedFS
	l.cfgMu.Unlock()

	r, err := l.open(stream, path, embedFS)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if ctx.Err() != nil {
		return nil, &tree.CancelledError{}
	}

	t, err := tree.Decode(r)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (l *Lookup) open(stream io.ReadCloser, path string, embedFS fs.FS) (io.ReadCloser, error) {
	if stream != nil {
		return stream, nil
	}

	if path == "" {
		path = DefaultDataFileName
		if exe, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exe), DefaultDataFileName)
		}
	}

	if name, ok := strings.CutPrefix(path, embeddedPrefix); ok {
		if embedFS == nil {
			return nil, &NotReadableError{Path: path, Reason: "no embedded filesystem registered via SetEmbeddedFS"}
		}
		f, err := embedFS.Open(name)
		if err != nil {
			return nil, &NotReadableError{Path: path, Reason: err.Error()}
		}
		return f, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &NotReadableError{Path: path, Reason: err.Error()}
	}
	return f, nil
}

func (l *Lookup) ensureReady() error {
	if loadState(l.state.Load()) != stateReady {
		if err := l.EnsureLoaded(context.Background()); err != nil {
			return err
		}
	}
	return nil
}

func validateLonLat(lon, lat float64) error {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return &OutOfRangeError{Field: "lon", Value: lon}
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return &OutOfRangeError{Field: "lat", Value: lat}
	}
	return nil
}

func toPublicIndex(idx tzindex.Index) TimeZoneIndex {
	return TimeZoneIndex{First: idx.First(), Second: idx.Second()}
}

func toInternalIndex(idx TimeZoneIndex) tzindex.Index {
	var out tzindex.Index
	out.Add(idx.First)
	out.Add(idx.Second)
	return out
}

// IndexAt resolves the time zone index (or indices, for disputed
// regions) claiming (lon, lat).
func (l *Lookup) IndexAt(lon, lat float64) (TimeZoneIndex, error) {
	if err := validateLonLat(lon, lat); err != nil {
		return TimeZoneIndex{}, err
	}
	if err := l.ensureReady(); err != nil {
		return TimeZoneIndex{}, err
	}
	idx := l.tree.IndexAt(float32(lon), float32(lat))
	return toPublicIndex(idx), nil
}

// BoxAt resolves (lon, lat) the same way IndexAt does, additionally
// returning the leaf cell and the depth it was found at.
func (l *Lookup) BoxAt(lon, lat float64) (TimeZoneIndex, BBox, int, error) {
	if err := validateLonLat(lon, lat); err != nil {
		return TimeZoneIndex{}, BBox{}, 0, err
	}
	if err := l.ensureReady(); err != nil {
		return TimeZoneIndex{}, BBox{}, 0, err
	}
	idx, box, level := l.tree.BoxAt(float32(lon), float32(lat))
	return toPublicIndex(idx), fromBBox(box), level, nil
}

// IDAt resolves the primary time zone id claiming (lon, lat), falling
// back to EtcGMT(lon) over open ocean.
func (l *Lookup) IDAt(lon, lat float64) (string, error) {
	if err := validateLonLat(lon, lat); err != nil {
		return "", err
	}
	if err := l.ensureReady(); err != nil {
		return "", err
	}
	idx := l.tree.IndexAt(float32(lon), float32(lat))
	if idx.First() == 0 {
		return EtcGMT(lon)
	}
	return l.idOf(idx.First())
}

// AllIDsAt resolves every id claiming (lon, lat): the primary id (or its
// EtcGMT fallback over ocean), followed by the secondary id when the
// cell is disputed between two time zones.
func (l *Lookup) AllIDsAt(lon, lat float64) ([]string, error) {
	if err := validateLonLat(lon, lat); err != nil {
		return nil, err
	}
	if err := l.ensureReady(); err != nil {
		return nil, err
	}
	idx := l.tree.IndexAt(float32(lon), float32(lat))

	var out []string
	if idx.First() == 0 {
		id, err := EtcGMT(lon)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	} else {
		id, err := l.idOf(idx.First())
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if idx.Second() != 0 {
		id, err := l.idOf(idx.Second())
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// IndexOf looks up id's 1-based index by case-insensitive linear search
// over the tree's id table. Fails with UnknownIDError when absent.
func (l *Lookup) IndexOf(id string) (uint16, error) {
	if err := l.ensureReady(); err != nil {
		return 0, err
	}
	for i, candidate := range l.tree.IDs() {
		if strings.EqualFold(candidate, id) {
			return uint16(i + 1), nil
		}
	}
	return 0, &UnknownIDError{ID: id}
}

// IDOf returns the IANA id for a 1-based time zone index. Fails with
// OutOfRangeError for 0 or an index beyond the table.
func (l *Lookup) IDOf(index uint16) (string, error) {
	if err := l.ensureReady(); err != nil {
		return "", err
	}
	return l.idOf(index)
}

func (l *Lookup) idOf(index uint16) (string, error) {
	ids := l.tree.IDs()
	if index == 0 || int(index) > len(ids) {
		return "", &OutOfRangeError{Field: "index", Value: float64(index)}
	}
	return ids[index-1], nil
}

// Traverse visits every leaf cell whose payload matches query: if
// query.Second == 0, any leaf whose set contains query.First;
// otherwise only leaves whose payload equals query exactly.
func (l *Lookup) Traverse(query TimeZoneIndex, callback func(BBox)) error {
	if err := l.ensureReady(); err != nil {
		return err
	}
	l.tree.Traverse(toInternalIndex(query), func(box geo.BBox) {
		callback(fromBBox(box))
	})
	return nil
}

// EtcGMT derives the synthetic "Etc/GMT[+-]k" id for a longitude with
// no dataset coverage, following the round(-lon/15) convention: zero
// yields "Etc/GMT", otherwise a positive k yields "Etc/GMT+k" and a
// negative k yields "Etc/GMT-k" (note the inverted sign relative to the
// zone's actual UTC offset, which is how the IANA Etc/GMT names work).
func EtcGMT(lon float64) (string, error) {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return "", &OutOfRangeError{Field: "lon", Value: lon}
	}
	k := int(math.Round(-lon / 15))
	if k == 0 {
		return "Etc/GMT", nil
	}
	if k > 0 {
		return "Etc/GMT+" + strconv.Itoa(k), nil
	}
	return "Etc/GMT" + strconv.Itoa(k), nil
}
