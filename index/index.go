// Package index implements the integer domain that shape indices and
// cardinalities live in: unsigned values below 2^128, the value 2^128
// itself, and an unbounded state for cardinalities beyond it.
package index

import (
	"fmt"
	"math/bits"

	"lukechampine.com/uint128"
)

// Index is a non-negative integer below 2^128, exactly 2^128, or
// unbounded. Only values below 2^128 are bounded. The zero value is 0.
type Index struct {
	v     uint128.Uint128
	state state
}

type state uint8

const (
	bounded state = iota
	pow128
	unbounded
)

const pow128String = "340282366920938463463374607431768211456"

var (
	zero = Index{}
	one  = Index{v: uint128.From64(1)}
)

// Zero returns 0.
func Zero() Index { return zero }

// One returns 1.
func One() Index { return one }

// From64 returns the index for v.
func From64(v uint64) Index {
	return Index{v: uint128.From64(v)}
}

// FromUint128 returns the index for v.
func FromUint128(v uint128.Uint128) Index {
	return Index{v: v}
}

// Unbounded returns the index that is greater than every other index,
// 2^128 included.
func Unbounded() Index {
	return Index{state: unbounded}
}

// Pow2 returns 2^n. For n > 128 the result is unbounded.
func Pow2(n uint) Index {
	switch {
	case n == 128:
		return Index{state: pow128}
	case n > 128:
		return Unbounded()
	}
	return Index{v: uint128.From64(1).Lsh(n)}
}

// Max returns the largest bounded index, 2^128-1.
func Max() Index {
	return Index{v: uint128.Max}
}

// Parse reads a decimal index up to 2^128. The literal "unbounded" is
// accepted.
func Parse(s string) (Index, error) {
	switch s {
	case "unbounded":
		return Unbounded(), nil
	case pow128String:
		return Pow2(128), nil
	}
	v, err := uint128.FromString(s)
	if err != nil {
		return Index{}, fmt.Errorf("parse index %q: %w", s, err)
	}
	return Index{v: v}, nil
}

// IsBounded reports whether i is below 2^128.
func (i Index) IsBounded() bool { return i.state == bounded }

// IsUnbounded reports whether i exceeds 2^128.
func (i Index) IsUnbounded() bool { return i.state == unbounded }

// IsZero reports whether i is 0.
func (i Index) IsZero() bool { return i.state == bounded && i.v.IsZero() }

// Uint64 returns i as a uint64 if it fits.
func (i Index) Uint64() (uint64, bool) {
	if i.state != bounded || i.v.Hi != 0 {
		return 0, false
	}
	return i.v.Lo, true
}

// Uint128 returns i as a 128-bit value if it is bounded.
func (i Index) Uint128() (uint128.Uint128, bool) {
	if i.state != bounded {
		return uint128.Zero, false
	}
	return i.v, true
}

// Cmp returns -1, 0 or 1. Unbounded compares equal to itself.
func (i Index) Cmp(j Index) int {
	switch {
	case i.state < j.state:
		return -1
	case i.state > j.state:
		return 1
	case i.state != bounded:
		return 0
	}
	return i.v.Cmp(j.v)
}

// Less reports whether i < j.
func (i Index) Less(j Index) bool { return i.Cmp(j) < 0 }

// Equal reports whether i == j.
func (i Index) Equal(j Index) bool { return i.Cmp(j) == 0 }

// Add returns i+j. Sums above 2^128 are unbounded.
func (i Index) Add(j Index) Index {
	switch {
	case i.IsZero():
		return j
	case j.IsZero():
		return i
	case i.state != bounded || j.state != bounded:
		return Unbounded()
	}
	lo, carry := bits.Add64(i.v.Lo, j.v.Lo, 0)
	hi, carry := bits.Add64(i.v.Hi, j.v.Hi, carry)
	if carry == 0 {
		return Index{v: uint128.New(lo, hi)}
	}
	if lo == 0 && hi == 0 {
		return Pow2(128)
	}
	return Unbounded()
}

// Mul returns i*j. Anything times zero is zero; products above 2^128 are
// unbounded.
func (i Index) Mul(j Index) Index {
	switch {
	case i.IsZero() || j.IsZero():
		return zero
	case i.state == unbounded || j.state == unbounded:
		return Unbounded()
	case i.state == pow128:
		if j.Equal(one) {
			return i
		}
		return Unbounded()
	case j.state == pow128:
		if i.Equal(one) {
			return j
		}
		return Unbounded()
	}
	if r, ok := i.CheckedMul(j); ok {
		return r
	}
	// the only product of bounded factors equal to 2^128 is a pair of
	// powers of two
	if ei, ok := log2(i.v); ok {
		if ej, ok := log2(j.v); ok && ei+ej == 128 {
			return Pow2(128)
		}
	}
	return Unbounded()
}

// log2 returns n when v is exactly 2^n.
func log2(v uint128.Uint128) (int, bool) {
	switch {
	case v.Hi == 0 && v.Lo != 0 && v.Lo&(v.Lo-1) == 0:
		return bits.TrailingZeros64(v.Lo), true
	case v.Lo == 0 && v.Hi != 0 && v.Hi&(v.Hi-1) == 0:
		return 64 + bits.TrailingZeros64(v.Hi), true
	}
	return 0, false
}

// CheckedAdd returns i+j, failing unless the sum is bounded.
func (i Index) CheckedAdd(j Index) (Index, bool) {
	if i.state != bounded || j.state != bounded {
		return Index{}, false
	}
	lo, carry := bits.Add64(i.v.Lo, j.v.Lo, 0)
	hi, carry := bits.Add64(i.v.Hi, j.v.Hi, carry)
	if carry != 0 {
		return Index{}, false
	}
	return Index{v: uint128.New(lo, hi)}, true
}

// CheckedMul returns i*j, failing unless the product is bounded.
func (i Index) CheckedMul(j Index) (Index, bool) {
	if i.IsZero() || j.IsZero() {
		return zero, true
	}
	if i.state != bounded || j.state != bounded {
		return Index{}, false
	}
	// both operands have a non-zero high word: product >= 2^128
	if i.v.Hi != 0 && j.v.Hi != 0 {
		return Index{}, false
	}
	hi, lo := bits.Mul64(i.v.Lo, j.v.Lo)
	h1, l1 := bits.Mul64(i.v.Hi, j.v.Lo)
	h2, l2 := bits.Mul64(i.v.Lo, j.v.Hi)
	if h1 != 0 || h2 != 0 {
		return Index{}, false
	}
	hi, carry := bits.Add64(hi, l1, 0)
	if carry != 0 {
		return Index{}, false
	}
	hi, carry = bits.Add64(hi, l2, 0)
	if carry != 0 {
		return Index{}, false
	}
	return Index{v: uint128.New(lo, hi)}, true
}

// Sub returns i-j, failing if the result would be negative or i is
// unbounded. 2^128 minus a bounded j is exact.
func (i Index) Sub(j Index) (Index, bool) {
	switch {
	case i.state == unbounded || j.state == unbounded:
		return Index{}, false
	case i.state == pow128 && j.state == pow128:
		return zero, true
	case j.state == pow128:
		return Index{}, false
	case i.state == pow128:
		if j.IsZero() {
			return i, true
		}
		// 2^128 - j = (2^128-1) - (j-1)
		return Index{v: uint128.Max.Sub(j.v.SubWrap64(1))}, true
	case i.v.Cmp(j.v) < 0:
		return Index{}, false
	}
	return Index{v: i.v.Sub(j.v)}, true
}

// QuoRem returns the quotient and remainder of i divided by d.
// i must be bounded and d non-zero. A divisor of 2^128 or more yields (0, i).
func (i Index) QuoRem(d Index) (q, r Index, ok bool) {
	if i.state != bounded || d.IsZero() {
		return Index{}, Index{}, false
	}
	if d.state != bounded {
		return zero, i, true
	}
	qv, rv := i.v.QuoRem(d.v)
	return Index{v: qv}, Index{v: rv}, true
}

// String renders i in decimal, or "unbounded".
func (i Index) String() string {
	switch i.state {
	case pow128:
		return pow128String
	case unbounded:
		return "unbounded"
	}
	return i.v.String()
}
