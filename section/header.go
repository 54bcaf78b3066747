package section

import (
	"fmt"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/internal/pbf"
)

// Default header values; fields equal to them are omitted from the wire.
const (
	DefaultDimension = 2
	DefaultPrecision = 6
)

// Header carries the document-wide settings every node depends on.
type Header struct {
	Keys      []string
	Dimension int
	Precision int
}

// NewHeader creates a header with the default dimension and precision.
func NewHeader() Header {
	return Header{Dimension: DefaultDimension, Precision: DefaultPrecision}
}

// WriteTo writes the header fields into w.
func (h Header) WriteTo(w *pbf.Writer) {
	for _, k := range h.Keys {
		w.WriteStringField(HeaderKeys, k)
	}
	if h.Dimension != DefaultDimension {
		w.WriteVarintField(HeaderDimension, uint64(h.Dimension)) //nolint:gosec
	}
	if h.Precision != DefaultPrecision {
		w.WriteVarintField(HeaderPrecision, uint64(h.Precision)) //nolint:gosec
	}
}

// ParseHeader reads header fields from r until it is exhausted. Unknown fields are skipped.
//
// Returns:
//   - Header: Parsed header with defaults applied for absent fields
//   - error: Truncated input, or a dimension outside 1..3 or precision outside 0..6
func ParseHeader(r *pbf.Reader) (Header, error) {
	h := NewHeader()

	for !r.EOF() {
		num, typ, err := r.ReadTag()
		if err != nil {
			return h, err
		}

		switch num {
		case HeaderKeys:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return h, err
			}
			k, err := r.ReadString()
			if err != nil {
				return h, err
			}
			h.Keys = append(h.Keys, k)
		case HeaderDimension:
			v, err := r.ReadVarint()
			if err != nil {
				return h, err
			}
			if v < 1 || v > 3 {
				return h, errs.Decode(errs.ErrInvalidDimension, "dimension %d", v)
			}
			h.Dimension = int(v)
		case HeaderPrecision:
			v, err := r.ReadVarint()
			if err != nil {
				return h, err
			}
			if v > DefaultPrecision {
				return h, errs.Decode(errs.ErrInvalidPrecision, "precision %d", v)
			}
			h.Precision = int(v)
		default:
			if err := r.Skip(num, typ); err != nil {
				return h, err
			}
		}
	}

	return h, nil
}

// String formats the header for diagnostics.
func (h Header) String() string {
	return fmt.Sprintf("keys=%d dim=%d precision=%d", len(h.Keys), h.Dimension, h.Precision)
}
