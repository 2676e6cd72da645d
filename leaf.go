package finiterepr

import (
	"fmt"
	"math"

	"github.com/wippyai/finite-repr/backend"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// leaf is a shape with no children, described by a pair of conversions.
type leaf[V any] struct {
	name string
	card index.Index
	to   func(V) (index.Index, bool)
	from func(index.Index) (V, bool)
}

func (l *leaf[V]) Cardinality() index.Index { return l.card }
func (l *leaf[V]) String() string           { return l.name }

func (l *leaf[V]) IndexOf(v V) (index.Index, error) {
	i, ok := l.to(v)
	if !ok {
		return index.Index{}, errors.InvalidValue(errors.PhaseEncode, v, l.name, fmt.Sprintf("%v is not a %s", v, l.name))
	}
	return i, nil
}

func (l *leaf[V]) ValueAt(i index.Index) (V, error) {
	var zero V
	if err := checkRange(i, l.card, l); err != nil {
		return zero, err
	}
	v, ok := l.from(i)
	if !ok {
		return zero, errors.OutOfRange(errors.PhaseDecode, i, l.card, l.name)
	}
	return v, nil
}

// Unit is the shape with exactly one inhabitant.
func Unit() Shape[struct{}] {
	return unitShape
}

var unitShape = &leaf[struct{}]{
	name: "unit",
	card: index.One(),
	to:   func(struct{}) (index.Index, bool) { return index.Zero(), true },
	from: func(index.Index) (struct{}, bool) { return struct{}{}, true },
}

// Bool maps false to 0 and true to 1.
func Bool() Shape[bool] {
	return boolShape
}

var boolShape = &leaf[bool]{
	name: "bool",
	card: index.From64(2),
	to: func(b bool) (index.Index, bool) {
		if b {
			return index.One(), true
		}
		return index.Zero(), true
	},
	from: func(i index.Index) (bool, bool) {
		return !i.IsZero(), true
	},
}

// Integer is the shape of every value of a fixed-width integer type.
// Indices follow the offset-binary order of the matching backend family,
// so for signed types the minimum value is index 0.
func Integer[T backend.Value]() Shape[T] {
	f := backend.Of[T]()
	return &leaf[T]{
		name: f.Name(),
		card: f.Cardinality(),
		to:   f.ToIndex,
		from: f.FromIndex,
	}
}

func Uint8() Shape[uint8]   { return Integer[uint8]() }
func Uint16() Shape[uint16] { return Integer[uint16]() }
func Uint32() Shape[uint32] { return Integer[uint32]() }
func Uint64() Shape[uint64] { return Integer[uint64]() }
func Int8() Shape[int8]     { return Integer[int8]() }
func Int16() Shape[int16]   { return Integer[int16]() }
func Int32() Shape[int32]   { return Integer[int32]() }
func Int64() Shape[int64]   { return Integer[int64]() }

// Float32 indexes every IEEE 754 bit pattern, NaN payloads included.
func Float32() Shape[float32] {
	return &leaf[float32]{
		name: "f32",
		card: index.Pow2(32),
		to: func(f float32) (index.Index, bool) {
			return index.From64(uint64(math.Float32bits(f))), true
		},
		from: func(i index.Index) (float32, bool) {
			u, ok := i.Uint64()
			return math.Float32frombits(uint32(u)), ok
		},
	}
}

// Float64 indexes every IEEE 754 bit pattern, NaN payloads included.
func Float64() Shape[float64] {
	return &leaf[float64]{
		name: "f64",
		card: index.Pow2(64),
		to: func(f float64) (index.Index, bool) {
			return index.From64(math.Float64bits(f)), true
		},
		from: func(i index.Index) (float64, bool) {
			u, ok := i.Uint64()
			return math.Float64frombits(u), ok
		},
	}
}

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	surrogateLen = surrogateMax - surrogateMin + 1
	// RuneCardinality is the number of Unicode scalar values.
	RuneCardinality = 0x110000 - surrogateLen
)

// Rune is the shape of Unicode scalar values. Surrogates are skipped, so
// U+E000 immediately follows U+D7FF.
func Rune() Shape[rune] {
	return runeShape
}

var runeShape = &leaf[rune]{
	name: "char",
	card: index.From64(RuneCardinality),
	to: func(r rune) (index.Index, bool) {
		switch {
		case r < 0 || r > 0x10FFFF:
			return index.Index{}, false
		case r < surrogateMin:
			return index.From64(uint64(r)), true
		case r <= surrogateMax:
			return index.Index{}, false
		}
		return index.From64(uint64(r - surrogateLen)), true
	},
	from: func(i index.Index) (rune, bool) {
		u, ok := i.Uint64()
		if !ok || u >= RuneCardinality {
			return 0, false
		}
		if u < surrogateMin {
			return rune(u), true
		}
		return rune(u + surrogateLen), true
	},
}
