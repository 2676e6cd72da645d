package finiterepr

import (
	"iter"

	"github.com/wippyai/finite-repr/backend"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Encode maps v to its encoding in the backend family of T.
//
//	n, err := finiterepr.Encode[uint16](shape, v)
func Encode[T backend.Value, V any](s Shape[V], v V) (T, error) {
	return EncodeWith(backend.Of[T](), s, v)
}

// Decode maps an encoding produced by Encode back to its value.
func Decode[T backend.Value, V any](s Shape[V], t T) (V, error) {
	return DecodeWith(backend.Of[T](), s, t)
}

// EncodeWith is Encode with an explicit backend family.
func EncodeWith[T, V any](f backend.Family[T], s Shape[V], v V) (T, error) {
	var zero T
	i, err := s.IndexOf(v)
	if err != nil {
		return zero, err
	}
	t, ok := f.FromIndex(i)
	if !ok {
		return zero, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Shape(s.String()).
			Value(i).
			Detail("index %s does not fit %s", i, f.Name()).
			Build()
	}
	return t, nil
}

// DecodeWith is Decode with an explicit backend family.
func DecodeWith[T, V any](f backend.Family[T], s Shape[V], t T) (V, error) {
	var zero V
	i, ok := f.ToIndex(t)
	if !ok {
		return zero, errors.Overflow(errors.PhaseDecode, f.Format(t), "index domain")
	}
	if err := checkRange(i, s.Cardinality(), s); err != nil {
		return zero, err
	}
	return s.ValueAt(i)
}

// Fits reports whether every inhabitant of s can be encoded in family f.
func Fits[T, V any](f backend.Family[T], s Shape[V]) bool {
	return s.Cardinality().Cmp(f.Cardinality()) <= 0
}

// Values yields every inhabitant of s with its encoding, in encoding order.
// Inhabitants whose index does not fit the backend of T are not visited.
func Values[T backend.Value, V any](s Shape[V]) iter.Seq2[T, V] {
	return ValuesWith(backend.Of[T](), s)
}

// ValuesWith is Values with an explicit backend family.
func ValuesWith[T, V any](f backend.Family[T], s Shape[V]) iter.Seq2[T, V] {
	return func(yield func(T, V) bool) {
		card := s.Cardinality()
		if card.IsZero() {
			return
		}
		last, ok := lastIndex(card)
		if !ok {
			return
		}
		end, ok := f.FromIndex(last)
		if !ok {
			top, _ := lastIndex(f.Cardinality())
			if end, ok = f.FromIndex(top); !ok {
				return
			}
		}
		for t := f.Min(); ; {
			v, err := DecodeWith(f, s, t)
			if err != nil {
				return
			}
			if !yield(t, v) {
				return
			}
			if f.Cmp(t, end) >= 0 {
				return
			}
			if t, ok = f.Inc(t); !ok {
				return
			}
		}
	}
}

// lastIndex returns card-1, clamped to the largest bounded index.
func lastIndex(card index.Index) (index.Index, bool) {
	if !card.IsBounded() {
		return index.Max(), true
	}
	return card.Sub(index.One())
}
