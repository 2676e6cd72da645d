package witshape

import (
	"fmt"
	"sort"
	"strings"

	finiterepr "github.com/wippyai/finite-repr"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Kind identifies the WIT type a Node was compiled from.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindS8
	KindS16
	KindS32
	KindS64
	KindF32
	KindF64
	KindChar
	KindRecord
	KindTuple
	KindFlags
	KindEnum
	KindVariant
	KindOption
	KindResult
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindS8:      "s8",
	KindS16:     "s16",
	KindS32:     "s32",
	KindS64:     "s64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindRecord:  "record",
	KindTuple:   "tuple",
	KindFlags:   "flags",
	KindEnum:    "enum",
	KindVariant: "variant",
	KindOption:  "option",
	KindResult:  "result",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Record is the dynamic value of a WIT record, keyed by field name.
type Record = map[string]any

// Flags is the dynamic value of a WIT flags type. Absent names are unset.
type Flags = map[string]bool

// Variant is the dynamic value of a WIT variant. Value is nil for cases
// without payload.
type Variant struct {
	Case  string
	Value any
}

// Result is the dynamic value of a WIT result. Absent payloads are nil.
type Result = finiterepr.Result[any, any]

// Member is a named child of a Node: a record field, tuple element, flag,
// enum case or variant case. Type is nil where no payload exists.
type Member struct {
	Name string
	Type *Node
}

// Node is a compiled WIT type. It implements finiterepr.Shape[any] over
// these dynamic values:
//
//	bool, u8 ... s64        bool, uint8 ... int64
//	f32, f64                float32, float64
//	char                    rune
//	record                  Record
//	tuple                   []any
//	flags                   Flags
//	enum                    string (case name)
//	variant                 Variant
//	option                  *any, nil for none
//	result                  Result
type Node struct {
	Kind    Kind
	Name    string
	Members []Member
	Elem    *Node
	Ok, Err *Node

	shape finiterepr.Shape[any]
}

var _ finiterepr.Shape[any] = (*Node)(nil)

func (n *Node) Cardinality() index.Index { return n.shape.Cardinality() }

// String returns the type name for named types and the structure otherwise.
func (n *Node) String() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Describe()
}

// Describe renders the structure of n in WIT notation. Named children are
// rendered by name.
func (n *Node) Describe() string {
	switch n.Kind {
	case KindRecord:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = m.Name + ": " + m.Type.String()
		}
		return "record { " + strings.Join(parts, ", ") + " }"
	case KindTuple:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = m.Type.String()
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	case KindFlags, KindEnum:
		return n.Kind.String() + " { " + strings.Join(n.memberNames(), ", ") + " }"
	case KindVariant:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			if m.Type == nil {
				parts[i] = m.Name
				continue
			}
			parts[i] = m.Name + "(" + m.Type.String() + ")"
		}
		return "variant { " + strings.Join(parts, ", ") + " }"
	case KindOption:
		return "option<" + n.Elem.String() + ">"
	case KindResult:
		switch {
		case n.Ok == nil && n.Err == nil:
			return "result"
		case n.Err == nil:
			return "result<" + n.Ok.String() + ">"
		case n.Ok == nil:
			return "result<_, " + n.Err.String() + ">"
		}
		return "result<" + n.Ok.String() + ", " + n.Err.String() + ">"
	}
	return n.Kind.String()
}

func (n *Node) memberNames() []string {
	names := make([]string, len(n.Members))
	for i, m := range n.Members {
		names[i] = m.Name
	}
	return names
}

func (n *Node) member(name string) (Member, bool) {
	for _, m := range n.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// IndexOf validates the dynamic value against n before indexing it, so
// missing and unknown names are reported as such.
func (n *Node) IndexOf(v any) (index.Index, error) {
	switch n.Kind {
	case KindRecord:
		r, ok := v.(Record)
		if !ok {
			return index.Index{}, n.mismatch(v)
		}
		for _, m := range n.Members {
			if _, ok := r[m.Name]; !ok {
				return index.Index{}, errors.FieldMissing(errors.PhaseEncode, nil, m.Name)
			}
		}
		if len(r) != len(n.Members) {
			return index.Index{}, errors.FieldUnknown(errors.PhaseEncode, nil, n.unknownKey(keysOf(r)))
		}
	case KindTuple:
		t, ok := v.([]any)
		if !ok {
			return index.Index{}, n.mismatch(v)
		}
		if len(t) != len(n.Members) {
			return index.Index{}, errors.New(errors.PhaseEncode, errors.KindInvalidValue).
				Shape(n.String()).
				Detail("tuple has %d elements, want %d", len(t), len(n.Members)).
				Build()
		}
	case KindFlags:
		f, ok := v.(Flags)
		if !ok {
			return index.Index{}, n.mismatch(v)
		}
		for name := range f {
			if _, ok := n.member(name); !ok {
				return index.Index{}, errors.FieldUnknown(errors.PhaseEncode, nil, name)
			}
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return index.Index{}, n.mismatch(v)
		}
		if _, ok := n.member(s); !ok {
			return index.Index{}, errors.InvalidEnum(errors.PhaseEncode, nil, s, n.String())
		}
	case KindVariant:
		vv, ok := v.(Variant)
		if !ok {
			return index.Index{}, n.mismatch(v)
		}
		if _, ok := n.member(vv.Case); !ok {
			return index.Index{}, errors.InvalidVariant(errors.PhaseEncode, nil, vv.Case, n.String())
		}
	case KindOption:
		if v == nil {
			v = (*any)(nil)
		}
	}
	return n.shape.IndexOf(v)
}

func (n *Node) ValueAt(i index.Index) (any, error) {
	v, err := n.shape.ValueAt(i)
	if err != nil {
		return nil, err
	}
	if p, ok := v.(*any); ok && p == nil {
		return nil, nil
	}
	return v, nil
}

func (n *Node) mismatch(v any) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), n.String())
}

// unknownKey returns the first of keys, in sorted order, that is not a member.
func (n *Node) unknownKey(keys []string) string {
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := n.member(k); !ok {
			return k
		}
	}
	return ""
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
