package tree

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/beetlebugorg/tzfinder/internal/tzindex"
)

// maxTimeZoneCount is the largest id-table size the format supports:
// node payloads store indices as signed 16-bit values (a complemented
// first index marks a two-index payload), so indices stop at 32767.
const maxTimeZoneCount = 32767

// Encode writes t to w as a gzip-compressed little-endian binary stream:
// a u16 count of time zone ids, each id as a varint-length-prefixed
// UTF-8 string, followed by the tree itself in preorder.
func Encode(w io.Writer, t *Tree) error {
	ids := t.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("encode: tree has no time zone ids")
	}
	if len(ids) > maxTimeZoneCount {
		return fmt.Errorf("encode: %d time zone ids exceeds the %d-id format limit", len(ids), maxTimeZoneCount)
	}

	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)

	if err := binary.Write(bw, binary.LittleEndian, uint16(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := writeVarString(bw, id); err != nil {
			return err
		}
	}
	if err := writeNode(bw, t.root); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	return gz.Close()
}

// Decode reads a stream produced by Encode back into a Tree.
func Decode(r io.Reader) (*Tree, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &InternalError{Reason: fmt.Sprintf("gzip: %v", err)}
	}
	defer gz.Close()

	cr := &countingReader{r: gz}
	br := bufio.NewReader(cr)

	var count uint16
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, &InternalError{Offset: cr.n, Reason: fmt.Sprintf("read id count: %v", err)}
	}

	ids := make([]string, count)
	for i := range ids {
		id, err := readVarString(br)
		if err != nil {
			return nil, &InternalError{Offset: cr.n, Reason: fmt.Sprintf("read id %d: %v", i, err)}
		}
		ids[i] = id
	}

	root, err := decodeNode(br, cr)
	if err != nil {
		return nil, err
	}

	return &Tree{root: root, ids: ids, nodeCount: countNodes(root)}, nil
}

// countingReader tracks how many bytes have been read, so decode errors
// can report a byte offset into the decompressed stream.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func writeVarString(w *bufio.Writer, s string) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(s)))
	if _, err := w.Write(buf[:n]); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readVarString(r *bufio.Reader) (string, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeInt16(w *bufio.Writer, v int16) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readInt16(r *bufio.Reader) (int16, error) {
	var v int16
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// writeNode emits n's own payload, then either the leaf sentinel (-1) or
// hi's full encoding followed by lo's full encoding. A node with
// children never needs its own sentinel: the discriminator slot the
// deserializer reads next is simply hi's first payload short.
func writeNode(w *bufio.Writer, n *node) error {
	idx := n.payload()
	first, second := idx.First(), idx.Second()

	if second != 0 {
		if err := writeInt16(w, int16(^first)); err != nil {
			return err
		}
		if err := writeInt16(w, int16(second)); err != nil {
			return err
		}
	} else {
		if err := writeInt16(w, int16(first)); err != nil {
			return err
		}
	}

	hi, lo := n.children()
	if hi == nil {
		return writeInt16(w, -1)
	}
	if err := writeNode(w, hi); err != nil {
		return err
	}
	return writeNode(w, lo)
}

// decodeNode reads one full node (its own payload, then its children, if
// any) starting fresh: no short has been pre-read on its behalf.
func decodeNode(r *bufio.Reader, cr *countingReader) (*node, error) {
	first, err := readInt16(r)
	if err != nil {
		return nil, &InternalError{Offset: cr.n, Reason: fmt.Sprintf("read node payload: %v", err)}
	}
	return decodeNodeWithFirst(r, cr, first)
}

// decodeNodeWithFirst decodes a node whose own first payload short has
// already been read by the caller (as the parent's children
// discriminator) and is supplied as first.
func decodeNodeWithFirst(r *bufio.Reader, cr *countingReader, first int16) (*node, error) {
	n := &node{}

	if first < 0 {
		second, err := readInt16(r)
		if err != nil {
			return nil, &InternalError{Offset: cr.n, Reason: fmt.Sprintf("read second payload short: %v", err)}
		}
		n.index = tzindex.NewIndex()
		n.index.Add(uint16(^first))
		n.index.Add(uint16(second))
	} else {
		n.index = tzindex.NewIndex()
		n.index.Add(uint16(first))
	}

	disc, err := readInt16(r)
	if err != nil {
		return nil, &InternalError{Offset: cr.n, Reason: fmt.Sprintf("read children discriminator: %v", err)}
	}
	if disc == -1 {
		return n, nil
	}

	hi, err := decodeNodeWithFirst(r, cr, disc)
	if err != nil {
		return nil, err
	}
	lo, err := decodeNode(r, cr)
	if err != nil {
		return nil, err
	}
	n.hi, n.lo = hi, lo
	return n, nil
}

func countNodes(n *node) int64 {
	if n == nil {
		return 0
	}
	hi, lo := n.children()
	if hi == nil {
		return 1
	}
	return 1 + countNodes(hi) + countNodes(lo)
}
