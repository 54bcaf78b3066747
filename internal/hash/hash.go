// Package hash provides the xxHash64 helpers used to bucket numeric fingerprints.
package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// String computes the xxHash64 of the given string.
func String(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given bytes.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// AppendFingerprint appends the canonical text form of values to dst and returns the extended slice.
//
// Each component is formatted with the shortest representation that parses
// back to the same float64, separated by commas. Negative zero renders as
// "-0" and therefore differs from "0", although the two compare equal as numbers.
//
// Parameters:
//   - dst: Buffer to append to, typically reused between calls
//   - values: Numeric tuple to fingerprint
//
// Returns:
//   - []byte: dst extended with the fingerprint
func AppendFingerprint(dst []byte, values []float64) []byte {
	for i, v := range values {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	}

	return dst
}

// Fingerprint hashes the canonical text form of values, reusing buf as scratch space.
//
// Returns:
//   - uint64: xxHash64 of the fingerprint
//   - []byte: The scratch buffer, to be passed to the next call
func Fingerprint(buf []byte, values []float64) (uint64, []byte) {
	buf = AppendFingerprint(buf[:0], values)

	return xxhash.Sum64(buf), buf
}
