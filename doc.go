// Package finiterepr encodes values of finite algebraic types as integers of
// a fixed width, and decodes them back.
//
// A Shape describes a finite set of values and numbers them 0 through
// Cardinality()-1. Shapes compose: products multiply cardinalities, sums add
// them. An encoding is the shape index stored in a backend integer type.
//
// # Package Layout
//
//	finiterepr/          Shapes, combinators, Encode/Decode
//	├── index/           128-bit index domain with an unbounded state
//	├── backend/         Fixed-width integer families (u8 ... u128, s8 ... s64)
//	├── errors/          Structured error types
//	├── witshape/        Shapes compiled from WIT types, JSON value codec
//	├── shapetext/       Text syntax for WIT-style shapes
//	└── cmd/finite/      Command line tool
//
// # Quick Start
//
// Describe a type with combinators and encode it:
//
//	type Point struct {
//	    X, Y uint8
//	}
//
//	shape := finiterepr.Struct("point",
//	    finiterepr.FieldOf("x", finiterepr.Uint8(),
//	        func(p Point) uint8 { return p.X },
//	        func(p *Point, v uint8) { p.X = v }),
//	    finiterepr.FieldOf("y", finiterepr.Uint8(),
//	        func(p Point) uint8 { return p.Y },
//	        func(p *Point, v uint8) { p.Y = v }),
//	)
//
//	n, err := finiterepr.Encode[uint16](shape, Point{X: 255, Y: 1}) // 511
//	p, err := finiterepr.Decode(shape, n)                         // Point{255, 1}
//
// # Index Layout
//
//   - Products are little-endian mixed radix in field order.
//   - Sums place cases back to back in declaration order.
//   - Option(a) puts None at card(a), after every Some.
//   - ResultOf(ok, err) puts Err values right after the Ok values.
//   - Signed integer leaves and backends use offset binary: MIN is index 0.
//
// Encoding fails with an error matching ErrOverflow when the index does not
// fit the backend. Decoding fails with an error matching ErrInvalid when the
// integer is at or beyond the cardinality of the shape. Neither panics.
//
// # Thread Safety
//
// Shapes are immutable after construction and safe for concurrent use.
package finiterepr
