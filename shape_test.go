package finiterepr

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/wippyai/finite-repr/backend"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

type color int

const (
	red color = iota
	green
	blue
)

type pixel struct {
	Color  color
	Bright bool
	Glyph  rune
}

func colorShape() Shape[color] {
	return Sum("color", Tag("red", red), Tag("green", green), Tag("blue", blue))
}

func pixelShape() Shape[pixel] {
	return Struct("pixel",
		FieldOf("color", colorShape(),
			func(p pixel) color { return p.Color },
			func(p *pixel, v color) { p.Color = v }),
		FieldOf("bright", Bool(),
			func(p pixel) bool { return p.Bright },
			func(p *pixel, v bool) { p.Bright = v }),
		FieldOf("glyph", Rune(),
			func(p pixel) rune { return p.Glyph },
			func(p *pixel, v rune) { p.Glyph = v }),
	)
}

func TestCardinalityComposition(t *testing.T) {
	tests := []struct {
		name string
		got  index.Index
		want index.Index
	}{
		{"unit", Cardinality(Unit()), index.One()},
		{"bool", Cardinality(Bool()), index.From64(2)},
		{"u16", Cardinality(Uint16()), index.From64(65536)},
		{"s64", Cardinality(Int64()), index.Pow2(64)},
		{"f32", Cardinality(Float32()), index.Pow2(32)},
		{"char", Cardinality(Rune()), index.From64(1112064)},
		{"uuid", Cardinality(UUID()), index.Pow2(128)},
		{"u128", Cardinality(Integer[uint128.Uint128]()), index.Pow2(128)},
		{"product", Cardinality(Tuple2(Uint8(), Int8())), index.From64(65536)},
		{"option", Cardinality(Option(Uint16())), index.From64(65537)},
		{"result", Cardinality(ResultOf(Bool(), Unit())), index.From64(3)},
		{"enum", Cardinality(colorShape()), index.From64(3)},
		{"record", Cardinality(pixelShape()), index.From64(3 * 2 * 1112064)},
		{"empty product", Cardinality(Struct[struct{}]("empty")), index.One()},
		{"empty sum", Cardinality(Sum[int]("void")), index.Zero()},
		{"saturated", Cardinality(Tuple2(Uint64(), Tuple2(Uint64(), Bool()))), index.Unbounded()},
		{"product with void", Cardinality(Tuple2(UUID(), Sum[int]("void"))), index.Zero()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.got), "want %s, got %s", tt.want, tt.got)
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := pixelShape()
	in := pixel{Color: blue, Bright: true, Glyph: 'λ'}

	n, err := Encode[uint32](s, in)
	require.NoError(t, err)
	// color is the least significant digit
	want := uint32(2) + 3*1 + 6*uint32('λ')
	assert.Equal(t, want, n)

	out, err := Decode(s, n)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRecordErrorPath(t *testing.T) {
	s := pixelShape()

	_, err := Encode[uint32](s, pixel{Glyph: 0xD800})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, []string{"glyph"}, e.Path)
	assert.Equal(t, errors.PhaseEncode, e.Phase)

	_, err = Encode[uint32](s, pixel{Color: 7})
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, []string{"color"}, e.Path)
}

func TestSumWithTags(t *testing.T) {
	s := colorShape()
	for i, c := range []color{red, green, blue} {
		n, err := Encode[uint8](s, c)
		require.NoError(t, err)
		assert.Equal(t, uint8(i), n)
	}

	_, err := Encode[uint8](s, color(42))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFirstMatchingCaseWins(t *testing.T) {
	s := Sum("overlap",
		Case("small", Uint8(),
			func(v int) (uint8, bool) { return uint8(v), v >= 0 && v < 256 },
			func(v uint8) int { return int(v) }),
		Case("any", Uint16(),
			func(v int) (uint16, bool) { return uint16(v), v >= 0 && v < 65536 },
			func(v uint16) int { return int(v) }),
	)

	n, err := Encode[uint32](s, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), n)

	n, err = Encode[uint32](s, 300)
	require.NoError(t, err)
	assert.Equal(t, uint32(256+300), n)

	v, err := Decode(s, uint32(256+10))
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	_, err = Encode[uint32](s, -1)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRune(t *testing.T) {
	tests := []struct {
		r   rune
		idx uint64
	}{
		{0, 0},
		{0xD7FF, 0xD7FF},
		{0xE000, 0xD800},
		{0x10FFFF, RuneCardinality - 1},
	}
	for _, tt := range tests {
		i, err := Rune().IndexOf(tt.r)
		require.NoError(t, err)
		assert.Equal(t, index.From64(tt.idx), i)

		back, err := Rune().ValueAt(i)
		require.NoError(t, err)
		assert.Equal(t, tt.r, back)
	}

	for _, bad := range []rune{-1, 0xD800, 0xDFFF, 0x110000} {
		_, err := Rune().IndexOf(bad)
		assert.ErrorIs(t, err, ErrInvalid, "rune %U", bad)
	}
}

func TestSignedIntegerLeaf(t *testing.T) {
	i, err := Int8().IndexOf(math.MinInt8)
	require.NoError(t, err)
	assert.True(t, i.IsZero())

	n, err := Encode[uint8](Int8(), -1)
	require.NoError(t, err)
	assert.Equal(t, uint8(127), n)

	v, err := Decode(Int8(), uint8(255))
	require.NoError(t, err)
	assert.Equal(t, int8(127), v)

	// same index space in a signed backend
	m, err := Encode[int8](Int8(), -1)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), m)
}

func TestFloats(t *testing.T) {
	for _, f := range []float64{0, math.Copysign(0, -1), 1.5, math.Inf(-1), math.MaxFloat64} {
		n, err := Encode[uint64](Float64(), f)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(f), n)

		back, err := Decode(Float64(), n)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(f), math.Float64bits(back))
	}

	nan := math.Float32frombits(0x7fc00001)
	n, err := Encode[uint32](Float32(), nan)
	require.NoError(t, err)
	back, err := Decode(Float32(), n)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7fc00001), math.Float32bits(back))
}

func TestUUID(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	n, err := Encode[uint128.Uint128](UUID(), u)
	require.NoError(t, err)
	assert.Equal(t, uint128.FromBytesBE(u[:]), n)

	back, err := Decode(UUID(), n)
	require.NoError(t, err)
	assert.Equal(t, u, back)

	_, err = Encode[uint64](UUID(), u)
	assert.ErrorIs(t, err, ErrOverflow)

	// 2^129 values: u128 holds the ones whose bool is false
	s := Tuple2(UUID(), Bool())
	assert.True(t, Fits(backend.Uint128, UUID()))
	assert.False(t, Fits(backend.Uint128, s))
	_, err = Encode[uint128.Uint128](s, Pair[uuid.UUID, bool]{u, false})
	require.NoError(t, err)
	_, err = Encode[uint128.Uint128](s, Pair[uuid.UUID, bool]{u, true})
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Encode[uint128.Uint128](Option(UUID()), nil)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestEmptySum(t *testing.T) {
	s := Sum[int]("void")
	_, err := s.IndexOf(0)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.ValueAt(index.Zero())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestShapeStrings(t *testing.T) {
	assert.Equal(t, "option<u8>", Option(Uint8()).String())
	assert.Equal(t, "result<bool, s16>", ResultOf(Bool(), Int16()).String())
	assert.Equal(t, "tuple<bool, char, f64>", Tuple3(Bool(), Rune(), Float64()).String())
	assert.Equal(t, "pixel", pixelShape().String())

	anon := Struct("", FieldOf("on", Bool(),
		func(b bool) bool { return b },
		func(b *bool, v bool) { *b = v }))
	assert.Equal(t, "record { on: bool }", anon.String())

	v := Sum("", Tag("off", 0), Case("level", Uint8(),
		func(v int) (uint8, bool) { return uint8(v), v > 0 },
		func(v uint8) int { return int(v) }))
	assert.Equal(t, "variant { off, level(u8) }", v.String())
}

func TestConcurrentUse(t *testing.T) {
	s := pixelShape()
	done := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func(g int) {
			for r := rune(g * 1000); r < rune(g*1000+500); r++ {
				in := pixel{Color: color(r % 3), Bright: r%2 == 0, Glyph: r}
				n, err := Encode[uint32](s, in)
				if err != nil {
					done <- err
					return
				}
				out, err := Decode(s, n)
				if err != nil {
					done <- err
					return
				}
				if out != in {
					done <- stderrors.New("round trip mismatch")
					return
				}
			}
			done <- nil
		}(g)
	}
	for g := 0; g < 8; g++ {
		require.NoError(t, <-done)
	}
}
