package witshape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"
	"lukechampine.com/uint128"

	finiterepr "github.com/wippyai/finite-repr"
	"github.com/wippyai/finite-repr/errors"
)

func settingsType() *wit.TypeDef {
	mode := named("power-mode", &wit.Enum{Cases: []wit.EnumCase{{Name: "eco"}, {Name: "full-speed"}}})
	return named("settings", &wit.Record{Fields: []wit.Field{
		{Name: "power-mode", Type: mode},
		{Name: "max-level", Type: wit.U8{}},
		{Name: "fallback", Type: anon(&wit.Option{Type: wit.S8{}})},
		{Name: "access", Type: anon(&wit.Flags{Flags: []wit.Flag{{Name: "read"}, {Name: "write-back"}}})},
	}})
}

func TestJSONRecordRoundTrip(t *testing.T) {
	n := mustCompile(t, settingsType())
	fallback := any(int8(-3))
	v := Record{
		"power-mode": "full-speed",
		"max-level":  uint8(7),
		"fallback":   &fallback,
		"access":     Flags{"write-back": true},
	}

	tests := []struct {
		keys KeyCase
		want string
	}{
		{KeyKebab, `{"power-mode":"full-speed","max-level":7,"fallback":-3,"access":{"read":false,"write-back":true}}`},
		{KeySnake, `{"power_mode":"full_speed","max_level":7,"fallback":-3,"access":{"read":false,"write_back":true}}`},
		{KeyCamel, `{"powerMode":"fullSpeed","maxLevel":7,"fallback":-3,"access":{"read":false,"writeBack":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.keys.String(), func(t *testing.T) {
			codec := JSON{Keys: tt.keys}
			data, err := codec.Marshal(n, v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			back, err := codec.Unmarshal(n, data)
			require.NoError(t, err)

			want, err := finiterepr.Encode[uint32, any](n, v)
			require.NoError(t, err)
			got, err := finiterepr.Encode[uint32, any](n, back)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestJSONAbsentOptionField(t *testing.T) {
	n := mustCompile(t, settingsType())
	v, err := UnmarshalJSON(n, []byte(`{"power-mode":"eco","max-level":0,"access":{}}`))
	require.NoError(t, err)

	r, ok := v.(Record)
	require.True(t, ok)
	assert.Nil(t, r["fallback"])
	assert.Equal(t, Flags{}, r["access"])

	_, err = UnmarshalJSON(n, []byte(`{"power-mode":"eco","access":{}}`))
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseJSON, Kind: errors.KindFieldMissing})
}

func TestJSONErrors(t *testing.T) {
	n := mustCompile(t, settingsType())

	tests := []struct {
		name string
		data string
		kind errors.Kind
		path []string
	}{
		{"unknown field", `{"power-mode":"eco","max-level":0,"access":{},"extra":1}`, errors.KindFieldUnknown, nil},
		{"bad enum", `{"power-mode":"turbo","max-level":0,"access":{}}`, errors.KindInvalidEnum, []string{"power-mode"}},
		{"unknown flag", `{"power-mode":"eco","max-level":0,"access":{"exec":true}}`, errors.KindFieldUnknown, []string{"access"}},
		{"u8 overflow", `{"power-mode":"eco","max-level":300,"access":{}}`, errors.KindInvalidInput, []string{"max-level"}},
		{"not an object", `[1,2]`, errors.KindInvalidInput, nil},
		{"trailing data", `{"power-mode":"eco","max-level":0,"access":{}} {}`, errors.KindInvalidInput, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalJSON(n, []byte(tt.data))
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.kind, e.Kind)
			if tt.path != nil {
				assert.Equal(t, tt.path, e.Path)
			}
		})
	}
}

func TestJSONVariantAndResult(t *testing.T) {
	n := mustCompile(t, anon(&wit.Tuple{Types: []wit.Type{
		anon(&wit.Variant{Cases: []wit.Case{{Name: "idle"}, {Name: "busy", Type: wit.U16{}}}}),
		anon(&wit.Result{OK: wit.Char{}}),
	}}))

	payload := any('ß')
	v := []any{Variant{Case: "busy", Value: uint16(12)}, Result{Ok: &payload}}
	data, err := MarshalJSON(n, v)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"busy":12},{"ok":"ß"}]`, string(data))

	back, err := UnmarshalJSON(n, data)
	require.NoError(t, err)
	tuple, ok := back.([]any)
	require.True(t, ok)
	assert.Equal(t, Variant{Case: "busy", Value: uint16(12)}, tuple[0])
	r, ok := tuple[1].(Result)
	require.True(t, ok)
	require.True(t, r.IsOk())
	assert.Equal(t, 'ß', *r.Ok)

	back, err = UnmarshalJSON(n, []byte(`[{"idle":null},{"error":null}]`))
	require.NoError(t, err)
	tuple = back.([]any)
	assert.Equal(t, Variant{Case: "idle"}, tuple[0])
	assert.True(t, tuple[1].(Result).IsErr())

	enc, err := finiterepr.Encode[uint64, any](n, back)
	require.NoError(t, err)
	// idle is index 0; error sits after the char block of the result.
	assert.Equal(t, uint64(finiterepr.RuneCardinality*(1+65536)), enc)

	for _, bad := range []string{
		`[{"idle":null,"busy":1},{"error":null}]`,
		`[{},{"error":null}]`,
		`[{"idle":null},{"ok":"ab"}]`,
		`[{"idle":null},{"maybe":null}]`,
		`[{"idle":null}]`,
	} {
		_, err := UnmarshalJSON(n, []byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestJSONNestedOption(t *testing.T) {
	n := mustCompile(t, anon(&wit.Option{Type: anon(&wit.Option{Type: wit.U8{}})}))

	var innerNone any
	data, err := MarshalJSON(n, &innerNone)
	require.NoError(t, err)
	assert.Equal(t, `{"some":null}`, string(data))

	data, err = MarshalJSON(n, nil)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))

	v, err := UnmarshalJSON(n, []byte(`{"some":5}`))
	require.NoError(t, err)
	outer, ok := v.(*any)
	require.True(t, ok)
	inner, ok := (*outer).(*any)
	require.True(t, ok)
	assert.Equal(t, uint8(5), *inner)

	v, err = UnmarshalJSON(n, []byte(`{"some":null}`))
	require.NoError(t, err)
	enc, err := finiterepr.Encode[uint16, any](n, v)
	require.NoError(t, err)
	assert.Equal(t, uint16(256), enc)

	_, err = UnmarshalJSON(n, []byte(`{"none":1}`))
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindFieldUnknown})
}

func TestJSONFloats(t *testing.T) {
	n := mustCompile(t, anon(&wit.Tuple{Types: []wit.Type{wit.F32{}, wit.F64{}, wit.F64{}}}))

	quiet := math.Float64frombits(0x7ff8000000000000)
	data, err := MarshalJSON(n, []any{float32(1.5), math.Inf(-1), quiet})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,"-Inf","NaN"]`, string(data))

	v, err := UnmarshalJSON(n, data)
	require.NoError(t, err)
	tuple := v.([]any)
	assert.Equal(t, float32(1.5), tuple[0])
	assert.True(t, math.IsInf(tuple[1].(float64), -1))
	assert.Equal(t, uint64(0x7ff8000000000000), math.Float64bits(tuple[2].(float64)))

	_, err = UnmarshalJSON(n, []byte(`[1,2,"many"]`))
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidValue})
}

func TestJSONNaNPayload(t *testing.T) {
	n := mustCompile(t, anon(&wit.Tuple{Types: []wit.Type{wit.F32{}, wit.F32{}, wit.F64{}}}))

	in := []any{
		math.Float32frombits(0x7fc00001),
		math.Float32frombits(0x7fc00000),
		math.Float64frombits(0xfff0000000000001),
	}
	data, err := MarshalJSON(n, in)
	require.NoError(t, err)
	assert.Equal(t, `[{"nan":2143289345},"NaN",{"nan":18442240474082181121}]`, string(data))

	v, err := UnmarshalJSON(n, data)
	require.NoError(t, err)
	tuple := v.([]any)
	assert.Equal(t, uint32(0x7fc00001), math.Float32bits(tuple[0].(float32)))
	assert.Equal(t, uint32(0x7fc00000), math.Float32bits(tuple[1].(float32)))
	assert.Equal(t, uint64(0xfff0000000000001), math.Float64bits(tuple[2].(float64)))

	// distinct NaNs keep distinct encodings through JSON
	a, err := finiterepr.Encode[uint128.Uint128, any](n, in)
	require.NoError(t, err)
	b, err := finiterepr.Encode[uint128.Uint128, any](n, v)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, bad := range []string{
		`[{"nan":1},"NaN","NaN"]`,
		`[{"nan":4294967296},"NaN","NaN"]`,
		`["NaN","NaN",{"nan":0}]`,
		`["NaN","NaN",{"bits":1}]`,
		`["NaN","NaN",{}]`,
	} {
		_, err := UnmarshalJSON(n, []byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestJSONWriteMismatch(t *testing.T) {
	n := mustCompile(t, settingsType())
	_, err := MarshalJSON(n, Record{
		"power-mode": "eco",
		"max-level":  7, // int, not uint8
		"fallback":   nil,
		"access":     Flags{},
	})
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindTypeMismatch, e.Kind)
	assert.Equal(t, []string{"max-level"}, e.Path)
}

func TestParseKeyCase(t *testing.T) {
	for _, s := range []string{"kebab", "snake", "camel"} {
		k, err := ParseKeyCase(s)
		require.NoError(t, err)
		assert.Equal(t, s, k.String())
	}
	k, err := ParseKeyCase("")
	require.NoError(t, err)
	assert.Equal(t, KeyKebab, k)

	_, err = ParseKeyCase("pascal")
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
}
