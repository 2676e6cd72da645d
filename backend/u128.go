package backend

import (
	"lukechampine.com/uint128"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// u128 covers the whole bounded index domain, so index and value coincide.
type u128 struct{}

func (u128) Name() string { return "u128" }
func (u128) Bits() int    { return 128 }
func (u128) Signed() bool { return false }

func (u128) Cardinality() index.Index { return index.Pow2(128) }

func (u128) Min() uint128.Uint128  { return uint128.Zero }
func (u128) Zero() uint128.Uint128 { return uint128.Zero }
func (u128) One() uint128.Uint128  { return uint128.From64(1) }

func (u128) Add(a, b uint128.Uint128) (uint128.Uint128, bool) {
	r := a.AddWrap(b)
	if r.Cmp(a) < 0 {
		return uint128.Zero, false
	}
	return r, true
}

func (u128) Sub(a, b uint128.Uint128) (uint128.Uint128, bool) {
	if a.Cmp(b) < 0 {
		return uint128.Zero, false
	}
	return a.SubWrap(b), true
}

func (u128) Mul(a, b uint128.Uint128) (uint128.Uint128, bool) {
	r, ok := index.FromUint128(a).CheckedMul(index.FromUint128(b))
	if !ok {
		return uint128.Zero, false
	}
	v, _ := r.Uint128()
	return v, true
}

func (u128) Div(a, b uint128.Uint128) (uint128.Uint128, bool) {
	if b.IsZero() {
		return uint128.Zero, false
	}
	return a.Div(b), true
}

func (u128) Rem(a, b uint128.Uint128) (uint128.Uint128, bool) {
	if b.IsZero() {
		return uint128.Zero, false
	}
	return a.Mod(b), true
}

func (u128) Inc(v uint128.Uint128) (uint128.Uint128, bool) {
	if v.Equals(uint128.Max) {
		return uint128.Zero, false
	}
	return v.AddWrap64(1), true
}

func (u128) Dec(v uint128.Uint128) (uint128.Uint128, bool) {
	if v.IsZero() {
		return uint128.Zero, false
	}
	return v.SubWrap64(1), true
}

func (u128) Cmp(a, b uint128.Uint128) int { return a.Cmp(b) }

func (u128) FromIndex(i index.Index) (uint128.Uint128, bool) {
	return i.Uint128()
}

func (u128) ToIndex(v uint128.Uint128) (index.Index, bool) {
	return index.FromUint128(v), true
}

func (u128) Format(v uint128.Uint128) string { return v.String() }

func (u128) Parse(s string) (uint128.Uint128, error) {
	v, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "parse u128")
	}
	return v, nil
}
