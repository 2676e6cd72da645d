package backend

import (
	"strconv"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

type integer interface {
	uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64
}

// native is a family backed by a built-in Go integer type.
type native[T integer] struct {
	name   string
	bits   int
	signed bool
	min    T
	max    T
	mask   uint64
}

func newUnsigned[T integer](name string, bits int, max T) native[T] {
	return native[T]{name: name, bits: bits, max: max, mask: maskFor(bits)}
}

func newSigned[T integer](name string, bits int, min, max T) native[T] {
	return native[T]{name: name, bits: bits, signed: true, min: min, max: max, mask: maskFor(bits)}
}

func maskFor(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

func (f native[T]) Name() string { return f.name }
func (f native[T]) Bits() int    { return f.bits }
func (f native[T]) Signed() bool { return f.signed }

func (f native[T]) Cardinality() index.Index { return index.Pow2(uint(f.bits)) }

func (f native[T]) Min() T  { return f.min }
func (f native[T]) Zero() T { return 0 }
func (f native[T]) One() T  { return 1 }

func (f native[T]) Add(a, b T) (T, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func (f native[T]) Sub(a, b T) (T, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func (f native[T]) Mul(a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if f.signed && ((a == f.min && b == ^T(0)) || (b == f.min && a == ^T(0))) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

func (f native[T]) Div(a, b T) (T, bool) {
	if b == 0 || (f.signed && a == f.min && b == ^T(0)) {
		return 0, false
	}
	return a / b, true
}

func (f native[T]) Rem(a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	if f.signed && b == ^T(0) {
		return 0, true
	}
	return a % b, true
}

func (f native[T]) Inc(v T) (T, bool) {
	if v == f.max {
		return 0, false
	}
	return v + 1, true
}

func (f native[T]) Dec(v T) (T, bool) {
	if v == f.min {
		return 0, false
	}
	return v - 1, true
}

func (f native[T]) Cmp(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (f native[T]) FromIndex(i index.Index) (T, bool) {
	u, ok := i.Uint64()
	if !ok || u > f.mask {
		return 0, false
	}
	// wrapping addition in T yields min+u for every u below 2^bits
	return f.min + T(u), true
}

func (f native[T]) ToIndex(v T) (index.Index, bool) {
	return index.From64(uint64(v-f.min) & f.mask), true
}

func (f native[T]) Format(v T) string {
	if f.signed {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

func (f native[T]) Parse(s string) (T, error) {
	if f.signed {
		v, err := strconv.ParseInt(s, 10, f.bits)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "parse "+f.name)
		}
		return T(v), nil
	}
	v, err := strconv.ParseUint(s, 10, f.bits)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "parse "+f.name)
	}
	return T(v), nil
}
