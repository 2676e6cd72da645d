package finiterepr

import (
	"fmt"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

type erased[V any] struct {
	s Shape[V]
}

// Erase adapts s to dynamically typed values. IndexOf fails with a type
// mismatch unless the value holds exactly a V.
func Erase[V any](s Shape[V]) Shape[any] {
	return erased[V]{s: s}
}

func (e erased[V]) Cardinality() index.Index { return e.s.Cardinality() }
func (e erased[V]) String() string           { return e.s.String() }

func (e erased[V]) IndexOf(v any) (index.Index, error) {
	tv, ok := v.(V)
	if !ok {
		return index.Index{}, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), e.s.String())
	}
	return e.s.IndexOf(tv)
}

func (e erased[V]) ValueAt(i index.Index) (any, error) {
	v, err := e.s.ValueAt(i)
	if err != nil {
		return nil, err
	}
	return v, nil
}
