// Package section defines the wire layout of a geobuf stream: the field
// numbers of every message and the document header.
//
// # Stream Structure
//
// A stream is a sequence of protobuf-framed top-level fields. Each document
// is one header followed by its nodes:
//
//	┌──────────────────────────────────────────────┐
//	│ field 1: Header                              │
//	│   1 keys (repeated string)                   │
//	│   2 dimension (omitted when 2)               │
//	│   3 precision (omitted when 6)               │
//	├──────────────────────────────────────────────┤
//	│ field 2: Node (root object)                  │
//	├──────────────────────────────────────────────┤
//	│ field 2: Node (first child) ...              │
//	└──────────────────────────────────────────────┘
//
// Nodes are emitted in pre-order. A container node records how many
// children follow it in NodeChildren, so the decoder can rebuild the tree
// with a stack and no lookahead. Because every document starts with its own
// header, byte-concatenating two streams yields a valid stream holding both
// documents.
//
// # Node Fields
//
//	#   | Field              | Encoding
//	----|--------------------|-------------------------------------
//	1   | type               | uvarint (format.ObjectType)
//	2   | lengths            | packed uvarint
//	3   | coords             | packed zigzag deltas
//	4   | children           | uvarint
//	5   | transform          | sub-message of 4 doubles
//	6   | names              | repeated string
//	7   | arcs               | packed zigzag arc references
//	11  | id                 | string
//	12  | int id             | zigzag varint
//	13  | values             | repeated Value sub-message
//	14  | properties         | packed (key, value) index pairs
//	15  | custom properties  | packed (key, value) index pairs
package section
