package finiterepr

import (
	"github.com/google/uuid"
	"lukechampine.com/uint128"

	"github.com/wippyai/finite-repr/index"
)

// UUID indexes all 2^128 byte patterns of a UUID, read as a big-endian
// integer. Its cardinality is unbounded in the index domain, so UUIDs only
// appear in products and sums that are encoded into a 128-bit backend and
// whose other components have a single inhabitant.
func UUID() Shape[uuid.UUID] {
	return uuidShape
}

var uuidShape = &leaf[uuid.UUID]{
	name: "uuid",
	card: index.Pow2(128),
	to: func(u uuid.UUID) (index.Index, bool) {
		return index.FromUint128(uint128.FromBytesBE(u[:])), true
	},
	from: func(i index.Index) (uuid.UUID, bool) {
		var u uuid.UUID
		v, ok := i.Uint128()
		if !ok {
			return u, false
		}
		v.PutBytesBE(u[:])
		return u, true
	},
}
