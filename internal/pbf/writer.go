// Package pbf provides the protobuf wire primitives geobuf is framed with:
// varints, zigzag varints, fixed 64-bit doubles, length-prefixed strings and
// length-prefixed sub-messages addressed by field number.
//
// The codec never touches raw bytes directly; all framing goes through Writer
// and Reader, which are thin wrappers over protowire.
package pbf

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/geobuf/internal/pool"
)

// Writer appends protobuf-framed fields to a pooled byte buffer.
//
// Note: Writer is NOT thread-safe.
type Writer struct {
	buf *pool.ByteBuffer
	put func(*pool.ByteBuffer)
}

// NewWriter creates a Writer backed by a stream-sized pooled buffer.
func NewWriter() *Writer {
	return &Writer{buf: pool.GetStreamBuffer(), put: pool.PutStreamBuffer}
}

// newNodeWriter creates a Writer backed by a small pooled buffer for one sub-message.
func newNodeWriter() *Writer {
	return &Writer{buf: pool.GetNodeBuffer(), put: pool.PutNodeBuffer}
}

// Bytes returns the bytes written so far. The slice is only valid until Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Release returns the underlying buffer to its pool. The Writer must not be used afterwards.
func (w *Writer) Release() {
	if w.buf != nil {
		w.put(w.buf)
		w.buf = nil
	}
}

func (w *Writer) tag(num int, typ protowire.Type) {
	w.buf.B = protowire.AppendTag(w.buf.B, protowire.Number(num), typ)
}

// WriteVarintField writes an unsigned varint field.
func (w *Writer) WriteVarintField(num int, v uint64) {
	w.tag(num, protowire.VarintType)
	w.buf.B = protowire.AppendVarint(w.buf.B, v)
}

// WriteSVarintField writes a zigzag-encoded signed varint field.
func (w *Writer) WriteSVarintField(num int, v int64) {
	w.tag(num, protowire.VarintType)
	w.buf.B = protowire.AppendVarint(w.buf.B, protowire.EncodeZigZag(v))
}

// WriteBoolField writes a boolean varint field.
func (w *Writer) WriteBoolField(num int, v bool) {
	w.tag(num, protowire.VarintType)
	w.buf.B = protowire.AppendVarint(w.buf.B, protowire.EncodeBool(v))
}

// WriteDoubleField writes a fixed 64-bit little-endian IEEE 754 field.
func (w *Writer) WriteDoubleField(num int, v float64) {
	w.tag(num, protowire.Fixed64Type)
	w.buf.B = protowire.AppendFixed64(w.buf.B, math.Float64bits(v))
}

// WriteStringField writes a length-prefixed string field.
func (w *Writer) WriteStringField(num int, s string) {
	w.tag(num, protowire.BytesType)
	w.buf.B = protowire.AppendString(w.buf.B, s)
}

// WriteBytesField writes a length-prefixed raw bytes field.
func (w *Writer) WriteBytesField(num int, b []byte) {
	w.tag(num, protowire.BytesType)
	w.buf.B = protowire.AppendBytes(w.buf.B, b)
}

// WritePackedVarint writes values as a packed repeated uvarint field.
// Nothing is written for an empty slice.
func (w *Writer) WritePackedVarint(num int, values []uint64) {
	if len(values) == 0 {
		return
	}

	size := 0
	for _, v := range values {
		size += protowire.SizeVarint(v)
	}

	w.tag(num, protowire.BytesType)
	w.buf.Grow(protowire.SizeVarint(uint64(size)) + size) //nolint:gosec
	w.buf.B = protowire.AppendVarint(w.buf.B, uint64(size))  //nolint:gosec
	for _, v := range values {
		w.buf.B = protowire.AppendVarint(w.buf.B, v)
	}
}

// WritePackedSVarint writes values as a packed repeated zigzag varint field.
// Nothing is written for an empty slice.
func (w *Writer) WritePackedSVarint(num int, values []int64) {
	if len(values) == 0 {
		return
	}

	size := 0
	for _, v := range values {
		size += protowire.SizeVarint(protowire.EncodeZigZag(v))
	}

	w.tag(num, protowire.BytesType)
	w.buf.Grow(protowire.SizeVarint(uint64(size)) + size) //nolint:gosec
	w.buf.B = protowire.AppendVarint(w.buf.B, uint64(size))  //nolint:gosec
	for _, v := range values {
		w.buf.B = protowire.AppendVarint(w.buf.B, protowire.EncodeZigZag(v))
	}
}

// WriteMessage writes a length-prefixed sub-message whose body is produced by fn.
//
// If fn fails, nothing is appended to w and the error is returned.
func (w *Writer) WriteMessage(num int, fn func(*Writer) error) error {
	sub := newNodeWriter()
	defer sub.Release()

	if err := fn(sub); err != nil {
		return err
	}

	w.WriteBytesField(num, sub.Bytes())

	return nil
}
