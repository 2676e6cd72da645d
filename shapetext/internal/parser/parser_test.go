package parser

import (
	"fmt"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/finite-repr/shapetext/internal/token"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := New(token.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func kindOf[K wit.TypeDefKind](t *testing.T, typ wit.Type) K {
	t.Helper()
	td, ok := typ.(*wit.TypeDef)
	if !ok {
		t.Fatalf("expected *wit.TypeDef, got %T", typ)
	}
	k, ok := td.Kind.(K)
	if !ok {
		t.Fatalf("expected %T, got %T", *new(K), td.Kind)
	}
	return k
}

func TestParsePrimitives(t *testing.T) {
	tests := []struct {
		src  string
		want wit.Type
	}{
		{"bool", wit.Bool{}},
		{"u8", wit.U8{}},
		{"u16", wit.U16{}},
		{"u32", wit.U32{}},
		{"u64", wit.U64{}},
		{"s8", wit.S8{}},
		{"s16", wit.S16{}},
		{"s32", wit.S32{}},
		{"s64", wit.S64{}},
		{"f32", wit.F32{}},
		{"f64", wit.F64{}},
		{"char", wit.Char{}},
		{"string", wit.String{}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			doc := parse(t, tt.src)
			if got, want := fmt.Sprintf("%T", doc.Root), fmt.Sprintf("%T", tt.want); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestParseTuple(t *testing.T) {
	tuple := kindOf[*wit.Tuple](t, parse(t, "(tuple u8 bool (tuple))").Root)
	if len(tuple.Types) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(tuple.Types))
	}
	if _, ok := tuple.Types[1].(wit.Bool); !ok {
		t.Errorf("element 1: got %T", tuple.Types[1])
	}
	inner := kindOf[*wit.Tuple](t, tuple.Types[2])
	if len(inner.Types) != 0 {
		t.Errorf("expected empty tuple, got %d elements", len(inner.Types))
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		src       string
		ok, isErr bool
	}{
		{"(result)", false, false},
		{"(result u8)", true, false},
		{"(result (error bool))", false, true},
		{"(result u8 (error bool))", true, true},
		{"(result (option u8) (error (tuple)))", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			r := kindOf[*wit.Result](t, parse(t, tt.src).Root)
			if (r.OK != nil) != tt.ok {
				t.Errorf("OK = %v, want present=%v", r.OK, tt.ok)
			}
			if (r.Err != nil) != tt.isErr {
				t.Errorf("Err = %v, want present=%v", r.Err, tt.isErr)
			}
		})
	}
}

func TestParseRecord(t *testing.T) {
	r := kindOf[*wit.Record](t, parse(t, `(record
		(field x u8)
		(field "full name" (option char)))`).Root)
	if len(r.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(r.Fields))
	}
	if r.Fields[0].Name != "x" || r.Fields[1].Name != "full name" {
		t.Errorf("field names: %q, %q", r.Fields[0].Name, r.Fields[1].Name)
	}
	kindOf[*wit.Option](t, r.Fields[1].Type)
}

func TestParseVariant(t *testing.T) {
	v := kindOf[*wit.Variant](t, parse(t, "(variant (case none) (case some u8))").Root)
	if len(v.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(v.Cases))
	}
	if v.Cases[0].Type != nil {
		t.Errorf("case none: expected no payload, got %T", v.Cases[0].Type)
	}
	if _, ok := v.Cases[1].Type.(wit.U8); !ok {
		t.Errorf("case some: got %T", v.Cases[1].Type)
	}
}

func TestParseEnumAndFlags(t *testing.T) {
	e := kindOf[*wit.Enum](t, parse(t, "(enum red green blue)").Root)
	if len(e.Cases) != 3 || e.Cases[2].Name != "blue" {
		t.Errorf("enum cases: %+v", e.Cases)
	}
	f := kindOf[*wit.Flags](t, parse(t, "(flags read write)").Root)
	if len(f.Flags) != 2 || f.Flags[0].Name != "read" {
		t.Errorf("flags: %+v", f.Flags)
	}
}

func TestParseTypeDecl(t *testing.T) {
	doc := parse(t, `
		;; a named enum and an alias to it
		(type level (enum low high))
		(type mode level)
		(tuple mode level u8)`)

	if len(doc.Order) != 2 || doc.Order[0] != "level" || doc.Order[1] != "mode" {
		t.Fatalf("order: %v", doc.Order)
	}
	level := doc.Names["level"]
	if level.Name == nil || *level.Name != "level" {
		t.Fatalf("level name: %v", level.Name)
	}
	if _, ok := level.Kind.(*wit.Enum); !ok {
		t.Errorf("level kind: %T", level.Kind)
	}
	mode := doc.Names["mode"]
	if mode.Kind != level {
		t.Errorf("mode should alias level, got %T", mode.Kind)
	}

	tuple := kindOf[*wit.Tuple](t, doc.Root)
	if tuple.Types[0] != mode || tuple.Types[1] != level {
		t.Error("tuple elements should reference the named definitions")
	}
}

func TestParsePrimitiveAlias(t *testing.T) {
	doc := parse(t, "(type byte u8)")
	td := doc.Names["byte"]
	if _, ok := td.Kind.(wit.U8); !ok {
		t.Errorf("byte kind: %T", td.Kind)
	}
	if doc.Root != td {
		t.Error("root should be the declaration")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, wantErr string
	}{
		{"empty", "", "line 1: empty document"},
		{"comment_only", ";; nothing", "empty document"},
		{"unclosed", "(tuple u8", "unexpected end of input"},
		{"unknown_form", "(list u8)", `unknown form "list"`},
		{"unknown_type", "(option level)", `unknown type "level"`},
		{"stray_paren", ")", `expected type, got ")"`},
		{"option_arity", "(option u8 u8)", `expected ')', got "u8"`},
		{"bad_field", "(record (case x u8))", `expected 'field', got "case"`},
		{"duplicate_field", "(record (field x u8)\n(field x u8))", `line 2: duplicate field "x"`},
		{"duplicate_case", "(variant (case a) (case a u8))", `duplicate case "a"`},
		{"duplicate_enum", "(enum a b a)", `duplicate enum case "a"`},
		{"duplicate_flag", "(flags r r)", `duplicate flag "r"`},
		{"redefined", "(type a u8)\n(type a u16)", `line 2: type "a" already defined`},
		{"empty_name", `(enum "")`, "empty name"},
		{"unterminated", "(enum\n\"a)", "line 2: unterminated string"},
		{"name_form", "(enum (a))", `expected name, got "("`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(token.Tokenize(tt.src)).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
		})
	}
}
