// Package errs defines the sentinel errors returned by the geobuf packages.
//
// Errors are returned wrapped with additional context, so callers should
// match them with errors.Is rather than comparing directly:
//
//	if errors.Is(err, errs.ErrDecode) {
//	    // corrupt or truncated input
//	}
//
// Every decode-time failure matches ErrDecode in addition to its specific
// sentinel (ErrTruncated, ErrKeyIndexOutOfRange, ...). Encode-time type
// failures match ErrSchema.
package errs

import (
	"errors"
	"fmt"
)

// Encode-time errors.
var (
	// ErrSchema is returned when the encoder is given an object whose type is not
	// part of the fixed type table.
	ErrSchema = errors.New("geobuf: unsupported object type")
	// ErrNilObject is returned when a nil object is passed where a geometry or feature is required.
	ErrNilObject = errors.New("geobuf: nil object")
	// ErrInvalidDimension is returned when a coordinate has more than 3 components.
	ErrInvalidDimension = errors.New("geobuf: invalid coordinate dimension")
	// ErrInvalidPrecision is returned when a precision option is outside 0..6.
	ErrInvalidPrecision = errors.New("geobuf: invalid precision")
	// ErrCoordinateRange is returned for NaN or infinite coordinates, and for
	// magnitudes too large to scale into a 64-bit integer even at precision 0.
	ErrCoordinateRange = errors.New("geobuf: coordinate out of range")
)

// Decode-time errors.
var (
	// ErrDecode is matched by every error produced while decoding a geobuf stream.
	ErrDecode = errors.New("geobuf: decode failed")
	// ErrTruncated reports a varint, fixed-size field or sub-message cut short.
	ErrTruncated = errors.New("truncated input")
	// ErrInvalidLength reports a length prefix exceeding the remaining buffer.
	ErrInvalidLength = errors.New("invalid length prefix")
	// ErrInvalidWireType reports a known field carried with an unexpected wire type.
	ErrInvalidWireType = errors.New("invalid wire type")
	// ErrKeyIndexOutOfRange reports a property pair referencing a missing dictionary key.
	ErrKeyIndexOutOfRange = errors.New("key index out of range")
	// ErrValueIndexOutOfRange reports a property pair referencing a missing value slot.
	ErrValueIndexOutOfRange = errors.New("value index out of range")
	// ErrUnknownObjectType reports a node whose type enum is not in the type table.
	ErrUnknownObjectType = errors.New("unknown object type")
	// ErrUnclosedContainer reports a stream ending while a collection still expects children.
	ErrUnclosedContainer = errors.New("unclosed container")
	// ErrCoordinateMismatch reports a coordinate stream that does not match its lengths list.
	ErrCoordinateMismatch = errors.New("coordinate stream does not match lengths")
	// ErrMultipleDocuments is returned by Decode when the stream holds more than one document.
	ErrMultipleDocuments = errors.New("geobuf: stream contains multiple documents")
	// ErrEmptyStream is returned by Decode when the stream holds no document.
	ErrEmptyStream = errors.New("geobuf: empty stream")
	// ErrInvalidValue reports a property value that cannot be decoded, such as malformed structured JSON.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrInvalidChild reports a node whose type cannot appear under its parent,
	// such as a geometry directly inside a FeatureCollection.
	ErrInvalidChild = errors.New("invalid child object")
)

// Decode wraps a specific decode failure so that it matches both ErrDecode and cause.
func Decode(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrDecode, cause, fmt.Sprintf(format, args...))
}
