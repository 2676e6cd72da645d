// Package backend defines the fixed-width integer families that encoded
// values are stored in.
//
// Every family maps its values onto a contiguous range of the index domain
// using offset binary: index 0 is the family minimum, so unsigned families
// map value v to index v and signed families map MIN to 0 and MAX to
// 2^bits-1.
package backend

import (
	"strings"

	"lukechampine.com/uint128"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Value is the set of Go types usable as an encoding target.
type Value interface {
	uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64 | uint128.Uint128
}

// Descriptor describes a family independently of its Go value type.
type Descriptor interface {
	Name() string
	Bits() int
	Signed() bool
	// Cardinality is 2^Bits. It is unbounded for 128-bit families.
	Cardinality() index.Index
}

// Family is the numeric capability required of an encoding target.
// Arithmetic is checked: overflow and division by zero report ok=false.
type Family[T any] interface {
	Descriptor

	Min() T
	Zero() T
	One() T

	Add(a, b T) (T, bool)
	Sub(a, b T) (T, bool)
	Mul(a, b T) (T, bool)
	Div(a, b T) (T, bool)
	Rem(a, b T) (T, bool)
	Inc(v T) (T, bool)
	Dec(v T) (T, bool)
	Cmp(a, b T) int

	// FromIndex returns Min+i, failing when i >= Cardinality.
	FromIndex(i index.Index) (T, bool)
	// ToIndex returns v-Min.
	ToIndex(v T) (index.Index, bool)

	Format(v T) string
	Parse(s string) (T, error)
}

var (
	Uint8   Family[uint8]           = newUnsigned[uint8]("u8", 8, 1<<8-1)
	Uint16  Family[uint16]          = newUnsigned[uint16]("u16", 16, 1<<16-1)
	Uint32  Family[uint32]          = newUnsigned[uint32]("u32", 32, 1<<32-1)
	Uint64  Family[uint64]          = newUnsigned[uint64]("u64", 64, 1<<64-1)
	Int8    Family[int8]            = newSigned[int8]("s8", 8, -1<<7, 1<<7-1)
	Int16   Family[int16]           = newSigned[int16]("s16", 16, -1<<15, 1<<15-1)
	Int32   Family[int32]           = newSigned[int32]("s32", 32, -1<<31, 1<<31-1)
	Int64   Family[int64]           = newSigned[int64]("s64", 64, -1<<63, 1<<63-1)
	Uint128 Family[uint128.Uint128] = u128{}
)

var all = []Descriptor{Uint8, Uint16, Uint32, Uint64, Uint128, Int8, Int16, Int32, Int64}

// Of returns the family whose value type is T.
func Of[T Value]() Family[T] {
	var f any
	switch any(*new(T)).(type) {
	case uint8:
		f = Uint8
	case uint16:
		f = Uint16
	case uint32:
		f = Uint32
	case uint64:
		f = Uint64
	case int8:
		f = Int8
	case int16:
		f = Int16
	case int32:
		f = Int32
	case int64:
		f = Int64
	case uint128.Uint128:
		f = Uint128
	}
	return f.(Family[T])
}

// All returns every built-in family, unsigned first.
func All() []Descriptor {
	out := make([]Descriptor, len(all))
	copy(out, all)
	return out
}

// Lookup finds a family by name. Signed families answer to both the
// "s" and "i" prefixes, so "i16" and "s16" are the same family.
func Lookup(name string) (Descriptor, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(n, "i") {
		n = "s" + n[1:]
	}
	for _, d := range all {
		if d.Name() == n {
			return d, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseCLI, "backend", name)
}
