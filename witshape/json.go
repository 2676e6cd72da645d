package witshape

import (
	stderrors "errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/go-faster/jx"
	"github.com/iancoleman/strcase"

	"github.com/wippyai/finite-repr/errors"
)

// KeyCase selects how WIT names appear as JSON keys and enum strings.
type KeyCase uint8

const (
	// KeyKebab keeps WIT names as written: "max-size".
	KeyKebab KeyCase = iota
	// KeySnake uses "max_size".
	KeySnake
	// KeyCamel uses "maxSize".
	KeyCamel
)

// ParseKeyCase reads "kebab", "snake" or "camel".
func ParseKeyCase(s string) (KeyCase, error) {
	switch s {
	case "", "kebab":
		return KeyKebab, nil
	case "snake":
		return KeySnake, nil
	case "camel":
		return KeyCamel, nil
	}
	return KeyKebab, errors.InvalidInput(errors.PhaseJSON, fmt.Sprintf("unknown key case %q", s))
}

func (k KeyCase) String() string {
	switch k {
	case KeySnake:
		return "snake"
	case KeyCamel:
		return "camel"
	}
	return "kebab"
}

func (k KeyCase) apply(name string) string {
	switch k {
	case KeySnake:
		return strcase.ToSnake(name)
	case KeyCamel:
		return strcase.ToLowerCamel(name)
	}
	return name
}

// JSON converts dynamic values of a Node to and from JSON.
//
//	bool, integers, floats  JSON literals; "+Inf" and "-Inf"; quiet NaN as "NaN",
//	                        any other NaN as {"nan": bits}
//	char                    one-character string
//	record, flags           object
//	tuple                   array
//	enum                    string
//	variant                 {"case": payload}, payload null when absent
//	option                  null or the payload; {"some": v} when the payload is itself an option
//	result                  {"ok": v} or {"error": v}
type JSON struct {
	Keys KeyCase
}

// Marshal encodes v, a value of n, as JSON.
func (j JSON) Marshal(n *Node, v any) ([]byte, error) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	if err := j.Write(e, n, v); err != nil {
		return nil, err
	}
	return append([]byte(nil), e.Bytes()...), nil
}

// Unmarshal decodes JSON data into a value of n.
func (j JSON) Unmarshal(n *Node, data []byte) (any, error) {
	d := jx.DecodeBytes(data)
	v, err := j.Read(d, n)
	if err != nil {
		return nil, err
	}
	if d.Next() != jx.Invalid {
		return nil, errors.InvalidInput(errors.PhaseJSON, "trailing data after value")
	}
	return v, nil
}

// Write encodes v to e.
func (j JSON) Write(e *jx.Encoder, n *Node, v any) error {
	mismatch := func() error {
		return errors.TypeMismatch(errors.PhaseJSON, nil, fmt.Sprintf("%T", v), n.String())
	}

	switch n.Kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return mismatch()
		}
		e.Bool(b)
	case KindU8:
		x, ok := v.(uint8)
		if !ok {
			return mismatch()
		}
		e.UInt8(x)
	case KindU16:
		x, ok := v.(uint16)
		if !ok {
			return mismatch()
		}
		e.UInt16(x)
	case KindU32:
		x, ok := v.(uint32)
		if !ok {
			return mismatch()
		}
		e.UInt32(x)
	case KindU64:
		x, ok := v.(uint64)
		if !ok {
			return mismatch()
		}
		e.UInt64(x)
	case KindS8:
		x, ok := v.(int8)
		if !ok {
			return mismatch()
		}
		e.Int8(x)
	case KindS16:
		x, ok := v.(int16)
		if !ok {
			return mismatch()
		}
		e.Int16(x)
	case KindS32:
		x, ok := v.(int32)
		if !ok {
			return mismatch()
		}
		e.Int32(x)
	case KindS64:
		x, ok := v.(int64)
		if !ok {
			return mismatch()
		}
		e.Int64(x)
	case KindF32:
		x, ok := v.(float32)
		if !ok {
			return mismatch()
		}
		writeFloat32(e, x)
	case KindF64:
		x, ok := v.(float64)
		if !ok {
			return mismatch()
		}
		writeFloat64(e, x)
	case KindChar:
		r, ok := v.(rune)
		if !ok {
			return mismatch()
		}
		e.Str(string(r))
	case KindRecord:
		r, ok := v.(Record)
		if !ok {
			return mismatch()
		}
		e.ObjStart()
		for _, m := range n.Members {
			fv, ok := r[m.Name]
			if !ok {
				return errors.FieldMissing(errors.PhaseJSON, nil, m.Name)
			}
			e.FieldStart(j.Keys.apply(m.Name))
			if err := j.Write(e, m.Type, fv); err != nil {
				return errors.Within(err, m.Name)
			}
		}
		e.ObjEnd()
	case KindTuple:
		t, ok := v.([]any)
		if !ok || len(t) != len(n.Members) {
			return mismatch()
		}
		e.ArrStart()
		for i, m := range n.Members {
			if err := j.Write(e, m.Type, t[i]); err != nil {
				return errors.Within(err, m.Name)
			}
		}
		e.ArrEnd()
	case KindFlags:
		f, ok := v.(Flags)
		if !ok {
			return mismatch()
		}
		e.ObjStart()
		for _, m := range n.Members {
			e.FieldStart(j.Keys.apply(m.Name))
			e.Bool(f[m.Name])
		}
		e.ObjEnd()
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return mismatch()
		}
		if _, ok := n.member(s); !ok {
			return errors.InvalidEnum(errors.PhaseJSON, nil, s, n.String())
		}
		e.Str(j.Keys.apply(s))
	case KindVariant:
		vv, ok := v.(Variant)
		if !ok {
			return mismatch()
		}
		m, ok := n.member(vv.Case)
		if !ok {
			return errors.InvalidVariant(errors.PhaseJSON, nil, vv.Case, n.String())
		}
		e.ObjStart()
		e.FieldStart(j.Keys.apply(m.Name))
		if err := j.writePayload(e, m.Type, vv.Value); err != nil {
			return errors.Within(err, m.Name)
		}
		e.ObjEnd()
	case KindOption:
		if v == nil {
			e.Null()
			return nil
		}
		p, ok := v.(*any)
		if !ok {
			return mismatch()
		}
		if p == nil {
			e.Null()
			return nil
		}
		if n.Elem.Kind == KindOption {
			e.ObjStart()
			e.FieldStart("some")
			defer e.ObjEnd()
		}
		if err := j.Write(e, n.Elem, *p); err != nil {
			return errors.Within(err, "some")
		}
	case KindResult:
		r, ok := v.(Result)
		if !ok {
			return mismatch()
		}
		e.ObjStart()
		switch {
		case r.IsOk():
			e.FieldStart("ok")
			if err := j.writePayload(e, n.Ok, *r.Ok); err != nil {
				return errors.Within(err, "ok")
			}
		case r.IsErr():
			e.FieldStart("error")
			if err := j.writePayload(e, n.Err, *r.Err); err != nil {
				return errors.Within(err, "error")
			}
		default:
			return errors.InvalidValue(errors.PhaseJSON, v, n.String(), "result must hold exactly one of ok and error")
		}
		e.ObjEnd()
	default:
		return errors.Unsupported(errors.PhaseJSON, n.Kind.String())
	}
	return nil
}

func (j JSON) writePayload(e *jx.Encoder, n *Node, v any) error {
	if n == nil {
		e.Null()
		return nil
	}
	return j.Write(e, n, v)
}

// Quiet NaNs without a payload. Other NaNs are written as {"nan": bits}.
const (
	quietNaN32 = 0x7fc00000
	quietNaN64 = 0x7ff8000000000000
)

func writeFloat32(e *jx.Encoder, f float32) {
	switch x := float64(f); {
	case math.IsNaN(x):
		writeNaN(e, uint64(math.Float32bits(f)), quietNaN32)
	case math.IsInf(x, 0):
		writeInf(e, x)
	default:
		e.Float32(f)
	}
}

func writeFloat64(e *jx.Encoder, f float64) {
	switch {
	case math.IsNaN(f):
		writeNaN(e, math.Float64bits(f), quietNaN64)
	case math.IsInf(f, 0):
		writeInf(e, f)
	default:
		e.Float64(f)
	}
}

func writeNaN(e *jx.Encoder, bits, quiet uint64) {
	if bits == quiet {
		e.Str("NaN")
		return
	}
	e.ObjStart()
	e.FieldStart("nan")
	e.UInt64(bits)
	e.ObjEnd()
}

func writeInf(e *jx.Encoder, f float64) {
	if f > 0 {
		e.Str("+Inf")
	} else {
		e.Str("-Inf")
	}
}

// Read decodes one value of n from d.
func (j JSON) Read(d *jx.Decoder, n *Node) (any, error) {
	v, err := j.read(d, n)
	if err != nil {
		var e *errors.Error
		if !stderrors.As(err, &e) {
			return nil, errors.Wrap(errors.PhaseJSON, errors.KindInvalidInput, err, "read "+n.String())
		}
		return nil, err
	}
	return v, nil
}

func (j JSON) read(d *jx.Decoder, n *Node) (any, error) {
	switch n.Kind {
	case KindBool:
		return d.Bool()
	case KindU8:
		return d.UInt8()
	case KindU16:
		return d.UInt16()
	case KindU32:
		return d.UInt32()
	case KindU64:
		return d.UInt64()
	case KindS8:
		return d.Int8()
	case KindS16:
		return d.Int16()
	case KindS32:
		return d.Int32()
	case KindS64:
		return d.Int64()
	case KindF32:
		return readFloat32(d)
	case KindF64:
		return readFloat64(d)
	case KindChar:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
			return nil, errors.InvalidValue(errors.PhaseJSON, s, "char", "want exactly one character")
		}
		return r, nil
	case KindRecord:
		return j.readRecord(d, n)
	case KindTuple:
		t := make([]any, 0, len(n.Members))
		err := d.Arr(func(d *jx.Decoder) error {
			if len(t) == len(n.Members) {
				return errors.InvalidValue(errors.PhaseJSON, nil, n.String(), "too many tuple elements")
			}
			m := n.Members[len(t)]
			v, err := j.Read(d, m.Type)
			if err != nil {
				return errors.Within(err, m.Name)
			}
			t = append(t, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if len(t) != len(n.Members) {
			return nil, errors.InvalidValue(errors.PhaseJSON, nil, n.String(),
				fmt.Sprintf("tuple has %d elements, want %d", len(t), len(n.Members)))
		}
		return t, nil
	case KindFlags:
		f := make(Flags)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			name, ok := j.lookup(n, key)
			if !ok {
				return errors.FieldUnknown(errors.PhaseJSON, nil, key)
			}
			set, err := d.Bool()
			if err != nil {
				return errors.Within(err, name)
			}
			if set {
				f[name] = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindEnum:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		name, ok := j.lookup(n, s)
		if !ok {
			return nil, errors.InvalidEnum(errors.PhaseJSON, nil, s, n.String())
		}
		return name, nil
	case KindVariant:
		return j.readVariant(d, n)
	case KindOption:
		if d.Next() == jx.Null {
			return nil, d.Null()
		}
		if n.Elem.Kind != KindOption {
			v, err := j.Read(d, n.Elem)
			if err != nil {
				return nil, errors.Within(err, "some")
			}
			return &v, nil
		}
		var (
			v    any
			seen bool
		)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			if key != "some" || seen {
				return errors.FieldUnknown(errors.PhaseJSON, nil, key)
			}
			seen = true
			var err error
			v, err = j.Read(d, n.Elem)
			return errors.Within(err, "some")
		})
		if err != nil {
			return nil, err
		}
		if !seen {
			return nil, errors.FieldMissing(errors.PhaseJSON, nil, "some")
		}
		return &v, nil
	case KindResult:
		return j.readResult(d, n)
	}
	return nil, errors.Unsupported(errors.PhaseJSON, n.Kind.String())
}

func readFloat32(d *jx.Decoder) (float32, error) {
	switch d.Next() {
	case jx.String:
		f, nan, err := readSpecial(d, "f32")
		if nan {
			return math.Float32frombits(quietNaN32), nil
		}
		return float32(f), err
	case jx.Object:
		bits, err := readNaN(d)
		if err != nil {
			return 0, err
		}
		if bits > math.MaxUint32 || !math.IsNaN(float64(math.Float32frombits(uint32(bits)))) {
			return 0, errors.InvalidValue(errors.PhaseJSON, bits, "f32", "not a NaN bit pattern")
		}
		return math.Float32frombits(uint32(bits)), nil
	}
	return d.Float32()
}

func readFloat64(d *jx.Decoder) (float64, error) {
	switch d.Next() {
	case jx.String:
		f, nan, err := readSpecial(d, "f64")
		if nan {
			return math.Float64frombits(quietNaN64), nil
		}
		return f, err
	case jx.Object:
		bits, err := readNaN(d)
		if err != nil {
			return 0, err
		}
		if f := math.Float64frombits(bits); math.IsNaN(f) {
			return f, nil
		}
		return 0, errors.InvalidValue(errors.PhaseJSON, bits, "f64", "not a NaN bit pattern")
	}
	return d.Float64()
}

// readSpecial reads "NaN", "+Inf" or "-Inf".
func readSpecial(d *jx.Decoder, typ string) (f float64, nan bool, err error) {
	s, err := d.Str()
	if err != nil {
		return 0, false, err
	}
	switch s {
	case "NaN":
		return 0, true, nil
	case "+Inf", "Infinity":
		return math.Inf(1), false, nil
	case "-Inf", "-Infinity":
		return math.Inf(-1), false, nil
	}
	return 0, false, errors.InvalidValue(errors.PhaseJSON, s, typ, "not a number")
}

func readNaN(d *jx.Decoder) (uint64, error) {
	var (
		bits uint64
		seen bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "nan" || seen {
			return errors.FieldUnknown(errors.PhaseJSON, nil, key)
		}
		seen = true
		var err error
		bits, err = d.UInt64()
		return err
	})
	if err != nil {
		return 0, err
	}
	if !seen {
		return 0, errors.FieldMissing(errors.PhaseJSON, nil, "nan")
	}
	return bits, nil
}

func (j JSON) readRecord(d *jx.Decoder, n *Node) (any, error) {
	r := make(Record, len(n.Members))
	err := d.Obj(func(d *jx.Decoder, key string) error {
		name, ok := j.lookup(n, key)
		if !ok {
			return errors.FieldUnknown(errors.PhaseJSON, nil, key)
		}
		m, _ := n.member(name)
		v, err := j.Read(d, m.Type)
		if err != nil {
			return errors.Within(err, name)
		}
		r[name] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range n.Members {
		if _, ok := r[m.Name]; ok {
			continue
		}
		// an absent option field reads as none
		if m.Type.Kind == KindOption {
			r[m.Name] = nil
			continue
		}
		return nil, errors.FieldMissing(errors.PhaseJSON, nil, m.Name)
	}
	return r, nil
}

func (j JSON) readVariant(d *jx.Decoder, n *Node) (any, error) {
	var (
		out  Variant
		seen bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if seen {
			return errors.InvalidValue(errors.PhaseJSON, key, n.String(), "variant object must have exactly one key")
		}
		seen = true
		name, ok := j.lookup(n, key)
		if !ok {
			return errors.InvalidVariant(errors.PhaseJSON, nil, key, n.String())
		}
		m, _ := n.member(name)
		v, err := j.readPayload(d, m.Type)
		if err != nil {
			return errors.Within(err, name)
		}
		out = Variant{Case: name, Value: v}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return nil, errors.InvalidValue(errors.PhaseJSON, nil, n.String(), "variant object must have exactly one key")
	}
	return out, nil
}

func (j JSON) readResult(d *jx.Decoder, n *Node) (any, error) {
	var (
		out  Result
		seen bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if seen {
			return errors.InvalidValue(errors.PhaseJSON, key, n.String(), "result object must have exactly one key")
		}
		seen = true
		switch key {
		case "ok":
			v, err := j.readPayload(d, n.Ok)
			if err != nil {
				return errors.Within(err, "ok")
			}
			out.Ok = &v
		case "error":
			v, err := j.readPayload(d, n.Err)
			if err != nil {
				return errors.Within(err, "error")
			}
			out.Err = &v
		default:
			return errors.FieldUnknown(errors.PhaseJSON, nil, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return nil, errors.InvalidValue(errors.PhaseJSON, nil, n.String(), "result object must have exactly one key")
	}
	return out, nil
}

func (j JSON) readPayload(d *jx.Decoder, n *Node) (any, error) {
	if n == nil {
		return nil, d.Null()
	}
	return j.Read(d, n)
}

// lookup maps a JSON key back to the member name it was written from.
func (j JSON) lookup(n *Node, key string) (string, bool) {
	for _, m := range n.Members {
		if j.Keys.apply(m.Name) == key {
			return m.Name, true
		}
	}
	return "", false
}

// MarshalJSON encodes v with kebab-case keys.
func MarshalJSON(n *Node, v any) ([]byte, error) {
	return JSON{}.Marshal(n, v)
}

// UnmarshalJSON decodes data with kebab-case keys.
func UnmarshalJSON(n *Node, data []byte) (any, error) {
	return JSON{}.Unmarshal(n, data)
}
