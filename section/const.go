package section

// Top-level stream fields. A document is one Header field followed by one
// Node field per object in pre-order.
const (
	FieldHeader = 1 // Header sub-message, starts a new document
	FieldNode   = 2 // Node sub-message
)

// Header fields.
const (
	HeaderKeys      = 1 // repeated string, the key dictionary in index order
	HeaderDimension = 2 // uvarint, omitted when 2
	HeaderPrecision = 3 // uvarint, omitted when 6
)

// Node fields.
const (
	NodeType             = 1  // uvarint, format.ObjectType
	NodeLengths          = 2  // packed uvarint part lengths
	NodeCoords           = 3  // packed zigzag deltas; a topology's arcs
	NodeChildren         = 4  // uvarint, number of child nodes that follow
	NodeTransform        = 5  // Transform sub-message
	NodeNames            = 6  // repeated string, topology object names
	NodeArcs             = 7  // packed zigzag arc references
	NodeID               = 11 // string id
	NodeIntID            = 12 // zigzag int id
	NodeValues           = 13 // repeated Value sub-message
	NodeProperties       = 14 // packed (keyIndex, valueSlot) pairs
	NodeCustomProperties = 15 // packed (keyIndex, valueSlot) pairs for extra members
)

// Transform fields.
const (
	TransformScaleX     = 1 // double
	TransformScaleY     = 2 // double
	TransformTranslateX = 3 // double
	TransformTranslateY = 4 // double
)
