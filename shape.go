package finiterepr

import (
	"fmt"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Shape describes a finite set of Go values of type V and a bijection
// between that set and the indices [0, Cardinality()).
//
// Implementations must be immutable once built.
type Shape[V any] interface {
	// Cardinality is the number of inhabitants. It is fixed when the
	// shape is built.
	Cardinality() index.Index
	// IndexOf returns the position of v, or an error if v is not an
	// inhabitant.
	IndexOf(v V) (index.Index, error)
	// ValueAt returns the inhabitant at position i. It fails for
	// i >= Cardinality().
	ValueAt(i index.Index) (V, error)
	// String renders the shape in type notation, e.g. "option<u8>".
	String() string
}

// Sentinel targets for errors.Is. They match errors from any phase.
var (
	// ErrOverflow matches failures where an index does not fit the index
	// domain or the chosen backend.
	ErrOverflow error = &errors.Error{Kind: errors.KindOverflow}
	// ErrInvalid matches decode input outside a shape and Go values that
	// are not inhabitants of their shape.
	ErrInvalid error = &errors.Error{Kind: errors.KindInvalidValue}
)

// Cardinality returns the number of inhabitants of s.
func Cardinality[V any](s Shape[V]) index.Index {
	return s.Cardinality()
}

// checkRange fails unless i < card.
func checkRange(i, card index.Index, shape fmt.Stringer) error {
	if i.Less(card) {
		return nil
	}
	return errors.OutOfRange(errors.PhaseDecode, i, card, shape.String())
}

func overflow(phase errors.Phase, value any, shape fmt.Stringer) error {
	return errors.Overflow(phase, value, shape.String())
}
