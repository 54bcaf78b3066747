package codec

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geo"
)

const (
	// maxScaled is the largest scaled magnitude that stays an exact integer.
	maxScaled = 1 << 53
	// maxMagnitude bounds unscaled coordinates at precision 0.
	maxMagnitude = 1 << 62
)

// Analysis is the result of the first encoding pass. It is immutable once
// Analyze returns and is threaded explicitly into the writing pass.
type Analysis struct {
	// Keys is the key dictionary in index order.
	Keys []string
	// Dim is the number of components written per position.
	Dim int
	// Precision is the decimal exponent of the scale factor, 0..6.
	Precision int

	index map[string]uint32
}

// KeyIndex returns the dictionary index of key.
func (a *Analysis) KeyIndex(key string) (uint32, bool) {
	i, ok := a.index[key]
	return i, ok
}

// Scale returns the scale factor 10^Precision.
func (a *Analysis) Scale() float64 {
	return encoding.Scale(a.Precision)
}

// Analyze performs the read-only first pass over obj.
//
// It computes the document dimensionality (the largest position length, at
// least 2), the smallest precision exponent at which every coordinate
// survives scaling and rounding unchanged (capped at maxPrecision; values
// needing more are silently rounded), and the key dictionary made of every
// property key and every extra member name in pre-order, first-seen order.
// Map keys of a single object are visited in sorted order so the result is
// deterministic.
//
// The precision is lowered again when the largest coordinate magnitude,
// scaled, would leave the exact float64 integer range (2^53), so large and
// finely fractional values in one document lose decimals instead of
// overflowing.
//
// Parameters:
//   - obj: Root of the object tree; it is not modified
//   - maxPrecision: Upper bound for the precision exponent (0..6)
//
// Returns:
//   - *Analysis: Dictionary, dimension and precision for the whole document
//   - error: ErrInvalidDimension when a position has more than 3 components,
//     ErrCoordinateRange for NaN, infinite or unscalable values
func Analyze(obj geo.Object, maxPrecision int) (*Analysis, error) {
	a := &Analysis{
		Dim:   encoding.DefaultDim,
		index: make(map[string]uint32),
	}
	if maxPrecision > encoding.MaxPrecision {
		maxPrecision = encoding.MaxPrecision
	}

	e := 1.0
	maxAbs := 0.0
	var coordErr error
	visitCoord := func(c geo.Coord) {
		if len(c) > encoding.MaxDim {
			coordErr = fmt.Errorf("%w: position has %d components", errs.ErrInvalidDimension, len(c))
			return
		}
		a.Dim = max(a.Dim, len(c))
		for _, x := range c {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				coordErr = fmt.Errorf("%w: %v", errs.ErrCoordinateRange, x)
				return
			}
			maxAbs = max(maxAbs, math.Abs(x))
			for a.Precision < maxPrecision && math.Round(x*e)/e != x {
				a.Precision++
				e = encoding.Scale(a.Precision)
			}
		}
	}

	err := geo.Walk(obj, func(o geo.Object) error {
		if geo.IsNil(o) {
			return nil
		}

		geo.EachCoord(o, visitCoord)
		if coordErr != nil {
			return coordErr
		}

		base := o.Common()
		a.addKeys(base.Properties)
		a.addKeys(base.Extra)

		return nil
	})
	if err != nil {
		return nil, err
	}

	for a.Precision > 0 && maxAbs*encoding.Scale(a.Precision) > maxScaled {
		a.Precision--
	}
	// deltas between two positions must fit in an int64 as well
	if maxAbs >= maxMagnitude {
		return nil, fmt.Errorf("%w: magnitude %g", errs.ErrCoordinateRange, maxAbs)
	}

	return a, nil
}

func (a *Analysis) addKeys(m map[string]geo.Value) {
	if len(m) == 0 {
		return
	}

	for _, k := range slices.Sorted(maps.Keys(m)) {
		if _, ok := a.index[k]; ok {
			continue
		}
		a.index[k] = uint32(len(a.Keys)) //nolint:gosec
		a.Keys = append(a.Keys, k)
	}
}
