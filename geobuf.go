// Package geobuf provides a compact binary encoding for geographic vector data.
//
// Geobuf stores GeoJSON and TopoJSON object trees as a stream of tagged
// protobuf-wire fields. Coordinates are scaled to integers and delta-encoded,
// property keys are collected into a per-document dictionary, and nested
// collections are flattened into a pre-order sequence of nodes. Typical
// documents shrink to a small fraction of their GeoJSON size while decoding
// back to the same structure (coordinates within 10^-6).
//
// # Core Features
//
//   - Lossless types: ids, property values, integers up to 2^64 and structured
//     (object or array) values keep their kind through a round trip
//   - Two-pass encoding: an analysis pass picks the dimension, the precision
//     and the key dictionary, then the encoding pass writes the stream
//   - Concatenation: independently encoded streams can be joined byte-wise and
//     decoded with DecodeAll into a sequence of documents
//   - Optional payload compression (Zstd, S2, LZ4)
//   - Optional memory compaction of decoded trees
//
// # Basic Usage
//
// Encoding a feature:
//
//	f := &geo.Feature{
//	    Base:     geo.Base{Properties: map[string]geo.Value{"name": geo.String("pier")}},
//	    Geometry: &geo.Point{Coordinates: geo.Coord{-122.41, 37.80}},
//	}
//	data, err := geobuf.Encode(f)
//
// Decoding it back:
//
//	obj, err := geobuf.Decode(data)
//	feature := obj.(*geo.Feature)
//
// Converting GeoJSON text directly:
//
//	data, err := geobuf.FromGeoJSON(geojsonBytes, codec.WithCompression(format.CompressionZstd))
//	text, err := geobuf.ToGeoJSON(data, codec.WithDecompression(format.CompressionZstd))
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec,
// compact and geojson packages. For reusable encoders and decoders or
// stream statistics, use the codec package directly.
package geobuf

import (
	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/geojson"
)

// Encode encodes one object tree.
//
// Parameters:
//   - obj: Root object; *geo.Unknown anywhere in the tree is rejected
//   - opts: Optional encoder configuration (codec.WithCompression, codec.WithMaxPrecision)
//
// Returns:
//   - []byte: The encoded stream
//   - error: errs.ErrSchema for unsupported objects, errs.ErrNilObject for nil input
func Encode(obj geo.Object, opts ...codec.EncoderOption) ([]byte, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(obj)
}

// Decode decodes a stream holding exactly one document.
//
// Parameters:
//   - data: Encoded stream
//   - opts: Optional decoder configuration (codec.WithDecompression, codec.WithCompact)
//
// Returns:
//   - geo.Object: The decoded root object
//   - error: An error matching errs.ErrDecode for malformed input,
//     errs.ErrEmptyStream or errs.ErrMultipleDocuments otherwise
func Decode(data []byte, opts ...codec.DecoderOption) (geo.Object, error) {
	dec, err := codec.NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode(data)
}

// DecodeAll decodes every document of a possibly concatenated stream.
func DecodeAll(data []byte, opts ...codec.DecoderOption) ([]geo.Object, error) {
	dec, err := codec.NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return dec.DecodeAll(data)
}

// Compress right-sizes and deduplicates the slices of obj in place.
// See the compact package for the aliasing rules.
func Compress(obj geo.Object, opts ...compact.Option) (geo.Object, error) {
	return compact.Compress(obj, opts...)
}

// FromGeoJSON parses GeoJSON or TopoJSON text and encodes it.
func FromGeoJSON(text []byte, opts ...codec.EncoderOption) ([]byte, error) {
	obj, err := geojson.Unmarshal(text)
	if err != nil {
		return nil, err
	}

	return Encode(obj, opts...)
}

// ToGeoJSON decodes a single-document stream and renders it as GeoJSON text.
func ToGeoJSON(data []byte, opts ...codec.DecoderOption) ([]byte, error) {
	obj, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}

	return geojson.Marshal(obj)
}
