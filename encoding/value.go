package encoding

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/pbf"
)

// Value message field numbers.
const (
	valueString = 1 // length-prefixed UTF-8
	valueDouble = 2 // fixed64 IEEE 754
	valuePosInt = 3 // uvarint, non-negative integers
	valueNegInt = 4 // uvarint magnitude of a negative integer
	valueBool   = 5 // varint
	valueJSON   = 6 // length-prefixed JSON text of a structured value
)

// WriteValue writes the body of one Value message.
//
// Integers are written as a uvarint magnitude in the positive or negative
// field, so they round-trip exactly over the whole int64/uint64 range.
// Structured values are serialized to JSON and written to their own field,
// which tells the decoder to parse them back instead of returning a string.
// A null value produces an empty message.
//
// Parameters:
//   - w: Writer positioned inside the Value sub-message
//   - v: Value to write
//
// Returns:
//   - error: JSON serialization failure for structured values
func WriteValue(w *pbf.Writer, v geo.Value) error {
	switch v.Kind() {
	case geo.KindString:
		s, _ := v.Str()
		w.WriteStringField(valueString, s)
	case geo.KindBool:
		b, _ := v.Boolean()
		w.WriteBoolField(valueBool, b)
	case geo.KindDouble:
		f, _ := v.Float64()
		w.WriteDoubleField(valueDouble, f)
	case geo.KindUint:
		u, _ := v.Uint64()
		w.WriteVarintField(valuePosInt, u)
	case geo.KindInt:
		i, _ := v.Int64()
		// -(i+1)+1 avoids overflow for math.MinInt64
		w.WriteVarintField(valueNegInt, uint64(-(i+1))+1)
	case geo.KindJSON:
		s, _ := v.Structured()
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal structured value: %w", err)
		}
		w.WriteBytesField(valueJSON, data)
	case geo.KindNull:
	}

	return nil
}

// ReadValue reads one Value message from r until r is exhausted.
//
// Unknown fields are skipped. If no recognized field is present the result
// is null. When several recognized fields are present the last one wins.
func ReadValue(r *pbf.Reader) (geo.Value, error) {
	value := geo.Null()

	for !r.EOF() {
		num, typ, err := r.ReadTag()
		if err != nil {
			return value, err
		}

		switch num {
		case valueString:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return value, err
			}
			s, err := r.ReadString()
			if err != nil {
				return value, err
			}
			value = geo.String(s)
		case valueDouble:
			if err := r.Expect(num, typ, pbf.Fixed64Type); err != nil {
				return value, err
			}
			f, err := r.ReadDouble()
			if err != nil {
				return value, err
			}
			value = geo.Double(f)
		case valuePosInt:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return value, err
			}
			u, err := r.ReadVarint()
			if err != nil {
				return value, err
			}
			value = geo.Uint(u)
		case valueNegInt:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return value, err
			}
			u, err := r.ReadVarint()
			if err != nil {
				return value, err
			}
			value = negative(u)
		case valueBool:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return value, err
			}
			b, err := r.ReadBool()
			if err != nil {
				return value, err
			}
			value = geo.Bool(b)
		case valueJSON:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return value, err
			}
			data, err := r.ReadBytes()
			if err != nil {
				return value, err
			}
			var s any
			if err := json.Unmarshal(data, &s); err != nil {
				return value, errs.Decode(errs.ErrInvalidValue, "structured value: %v", err)
			}
			value = geo.JSON(s)
		default:
			if err := r.Skip(num, typ); err != nil {
				return value, err
			}
		}
	}

	return value, nil
}

// negative converts the magnitude of a negative integer back to a Value.
func negative(u uint64) geo.Value {
	switch {
	case u == 0:
		return geo.Uint(0)
	case u <= 1<<63:
		return geo.Int(-int64(u-1) - 1)
	default:
		return geo.Double(-float64(u))
	}
}
