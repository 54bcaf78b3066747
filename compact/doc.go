// Package compact implements the optional memory compactor for decoded object trees.
//
// Compress walks a tree in place and does two independent things:
//
//   - Right-sizing: every slice whose capacity exceeds its length is
//     replaced by an exactly-sized copy, releasing the slack left behind by
//     incremental growth during decoding. Structured property values
//     (KindJSON) are included: their arrays are right-sized and their
//     objects descended into. Scalar values hold no slack and are left
//     alone.
//   - Deduplication: an identity cache keyed by object pointer and by slice
//     backing array guarantees termination on cyclic or aliased trees and
//     keeps slices that were shared before compaction shared afterwards.
//     With a numeric cache, positions whose components are bit-for-bit
//     equal become one shared Coord slice across the whole tree, or across
//     many trees when the same cache is passed to several calls.
//
// Without a numeric cache, Compress never makes two distinct slices share
// storage. With one, shared positions must be treated as read-only: writing
// through one referencing geometry is visible through all the others.
//
// Example:
//
//	cache := compact.NewNumericCache()
//	for _, doc := range docs {
//	    if _, err := compact.Compress(doc, compact.WithNumericCache(cache)); err != nil {
//	        return err
//	    }
//	}
package compact
