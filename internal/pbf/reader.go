package pbf

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/geobuf/errs"
)

// Wire types re-exported so callers do not need to import protowire.
const (
	VarintType  = protowire.VarintType
	Fixed64Type = protowire.Fixed64Type
	BytesType   = protowire.BytesType
	Fixed32Type = protowire.Fixed32Type
)

// Reader consumes protobuf-framed fields from a byte slice.
//
// The Reader never copies the input; strings returned by ReadString are
// copied out of it, so decoded values never alias the buffer.
type Reader struct {
	data []byte
	pos  int
	base int // absolute offset of data[0], for error messages
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the absolute offset of the cursor.
func (r *Reader) Pos() int {
	return r.base + r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

func (r *Reader) fail(n int) error {
	if n == -1 {
		return errs.Decode(errs.ErrTruncated, "at offset %d", r.Pos())
	}

	return errs.Decode(errs.ErrTruncated, "%v at offset %d", protowire.ParseError(n), r.Pos())
}

// ReadTag reads a field tag.
func (r *Reader) ReadTag() (int, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(r.data[r.pos:])
	if n < 0 {
		return 0, 0, r.fail(n)
	}
	r.pos += n

	return int(num), typ, nil
}

// ReadVarint reads an unsigned varint.
func (r *Reader) ReadVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.data[r.pos:])
	if n < 0 {
		return 0, r.fail(n)
	}
	r.pos += n

	return v, nil
}

// ReadSVarint reads a zigzag-encoded signed varint.
func (r *Reader) ReadSVarint() (int64, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}

	return protowire.DecodeZigZag(v), nil
}

// ReadBool reads a boolean varint.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return false, err
	}

	return protowire.DecodeBool(v), nil
}

// ReadDouble reads a fixed 64-bit double.
func (r *Reader) ReadDouble() (float64, error) {
	v, n := protowire.ConsumeFixed64(r.data[r.pos:])
	if n < 0 {
		return 0, r.fail(n)
	}
	r.pos += n

	return math.Float64frombits(v), nil
}

// readLength reads a length prefix and validates it against the remaining bytes.
func (r *Reader) readLength() (int, error) {
	l, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}
	if l > uint64(r.Remaining()) { //nolint:gosec
		return 0, errs.Decode(errs.ErrInvalidLength, "length %d exceeds remaining %d bytes at offset %d", l, r.Remaining(), r.Pos())
	}

	return int(l), nil //nolint:gosec
}

// ReadBytes reads a length-prefixed field and returns a view of its payload.
func (r *Reader) ReadBytes() ([]byte, error) {
	l, err := r.readLength()
	if err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+l]
	r.pos += l

	return b, nil
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadMessage reads a length-prefixed sub-message and returns a Reader bounded to it.
// The parent cursor is advanced past the whole sub-message.
func (r *Reader) ReadMessage() (*Reader, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}

	return &Reader{data: b, base: r.Pos() - len(b)}, nil
}

// ReadPackedVarint reads a packed repeated uvarint field, appending to dst.
func (r *Reader) ReadPackedVarint(dst []uint64) ([]uint64, error) {
	sub, err := r.ReadMessage()
	if err != nil {
		return dst, err
	}
	for !sub.EOF() {
		v, err := sub.ReadVarint()
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}

	return dst, nil
}

// ReadPackedSVarint reads a packed repeated zigzag varint field, appending to dst.
func (r *Reader) ReadPackedSVarint(dst []int64) ([]int64, error) {
	sub, err := r.ReadMessage()
	if err != nil {
		return dst, err
	}
	for !sub.EOF() {
		v, err := sub.ReadSVarint()
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}

	return dst, nil
}

// Skip consumes the value of a field with the given wire type.
func (r *Reader) Skip(num int, typ protowire.Type) error {
	if typ == protowire.BytesType {
		_, err := r.ReadBytes()
		return err
	}

	n := protowire.ConsumeFieldValue(protowire.Number(num), typ, r.data[r.pos:])
	if n < 0 {
		return r.fail(n)
	}
	r.pos += n

	return nil
}

// Expect returns an error when typ differs from want.
func (r *Reader) Expect(num int, typ, want protowire.Type) error {
	if typ != want {
		return errs.Decode(errs.ErrInvalidWireType, "field %d has wire type %d, want %d at offset %d", num, typ, want, r.Pos())
	}

	return nil
}
