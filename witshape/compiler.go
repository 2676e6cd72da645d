package witshape

import (
	"strconv"
	"sync"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	finiterepr "github.com/wippyai/finite-repr"
	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/index"
)

// Compiler turns WIT types into Nodes. Compiled typedefs are cached by
// identity, so compiling the same *wit.TypeDef twice returns the same Node.
// A Compiler is safe for concurrent use.
type Compiler struct {
	mu    sync.Mutex
	cache map[*wit.TypeDef]*Node
}

func NewCompiler() *Compiler {
	return &Compiler{
		cache: make(map[*wit.TypeDef]*Node),
	}
}

var defaultCompiler = NewCompiler()

// Compile compiles t with a shared package-level Compiler.
func Compile(t wit.Type) (*Node, error) {
	return defaultCompiler.Compile(t)
}

// Compile builds the Node for t. Types without a finite number of values
// (string, list, resource handles) fail with errors.KindUnsupported.
func (c *Compiler) Compile(t wit.Type) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compile(t, nil)
}

var primitives = map[Kind]finiterepr.Shape[any]{
	KindBool: finiterepr.Erase(finiterepr.Bool()),
	KindU8:   finiterepr.Erase(finiterepr.Uint8()),
	KindU16:  finiterepr.Erase(finiterepr.Uint16()),
	KindU32:  finiterepr.Erase(finiterepr.Uint32()),
	KindU64:  finiterepr.Erase(finiterepr.Uint64()),
	KindS8:   finiterepr.Erase(finiterepr.Int8()),
	KindS16:  finiterepr.Erase(finiterepr.Int16()),
	KindS32:  finiterepr.Erase(finiterepr.Int32()),
	KindS64:  finiterepr.Erase(finiterepr.Int64()),
	KindF32:  finiterepr.Erase(finiterepr.Float32()),
	KindF64:  finiterepr.Erase(finiterepr.Float64()),
	KindChar: finiterepr.Erase(finiterepr.Rune()),
}

func primitive(k Kind) *Node {
	return &Node{Kind: k, shape: primitives[k]}
}

func (c *Compiler) compile(t wit.Type, path []string) (*Node, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return primitive(KindBool), nil
	case wit.U8:
		return primitive(KindU8), nil
	case wit.U16:
		return primitive(KindU16), nil
	case wit.U32:
		return primitive(KindU32), nil
	case wit.U64:
		return primitive(KindU64), nil
	case wit.S8:
		return primitive(KindS8), nil
	case wit.S16:
		return primitive(KindS16), nil
	case wit.S32:
		return primitive(KindS32), nil
	case wit.S64:
		return primitive(KindS64), nil
	case wit.F32:
		return primitive(KindF32), nil
	case wit.F64:
		return primitive(KindF64), nil
	case wit.Char:
		return primitive(KindChar), nil
	case wit.String:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Shape("string").
			Detail("strings have no finite set of values").
			Build()
	case *wit.TypeDef:
		return c.compileTypeDef(typ, path)
	case nil:
		return nil, errors.NilPointer(errors.PhaseCompile, path, "wit.Type")
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported WIT type: %T", t).
			Build()
	}
}

func (c *Compiler) compileTypeDef(t *wit.TypeDef, path []string) (*Node, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	var (
		node *Node
		err  error
	)

	switch kind := t.Kind.(type) {
	case *wit.Record:
		node, err = c.compileRecord(kind, path)
	case *wit.Tuple:
		node, err = c.compileTuple(kind, path)
	case *wit.Flags:
		node, err = c.compileFlags(kind, path)
	case *wit.Enum:
		node, err = c.compileEnum(kind, path)
	case *wit.Variant:
		node, err = c.compileVariant(kind, path)
	case *wit.Option:
		node, err = c.compileOption(kind, path)
	case *wit.Result:
		node, err = c.compileResult(kind, path)
	case *wit.List:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Shape("list").
			Detail("lists have no finite set of values").
			Build()
	case *wit.Own, *wit.Borrow:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Detail("resource handles cannot be enumerated").
			Build()
	case wit.Type:
		// alias: share the target node, keep the alias name
		var target *Node
		target, err = c.compile(kind, path)
		if err == nil {
			alias := *target
			node = &alias
		}
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported TypeDef kind: %T", kind).
			Build()
	}
	if err != nil {
		return nil, err
	}

	if t.Name != nil {
		node.Name = *t.Name
	}
	c.cache[t] = node

	Logger().Debug("compiled type",
		zap.String("type", node.String()),
		zap.Stringer("kind", node.Kind),
		zap.Stringer("cardinality", node.Cardinality()))

	return node, nil
}

func childPath(path []string, name string) []string {
	return append(append([]string{}, path...), name)
}

func (c *Compiler) compileRecord(r *wit.Record, path []string) (*Node, error) {
	node := &Node{Kind: KindRecord, Members: make([]Member, 0, len(r.Fields))}
	fields := make([]finiterepr.Field[Record], 0, len(r.Fields))

	for _, f := range r.Fields {
		if _, dup := node.member(f.Name); dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(path...).
				Detail("duplicate field %q", f.Name).
				Build()
		}
		child, err := c.compile(f.Type, childPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		node.Members = append(node.Members, Member{Name: f.Name, Type: child})

		name := f.Name
		fields = append(fields, finiterepr.FieldOf[Record, any](name, child,
			func(r Record) any { return r[name] },
			func(r *Record, v any) { (*r)[name] = v }))
	}

	node.shape = finiterepr.Erase(finiterepr.StructWith(node.Describe(), func() Record {
		return make(Record, len(fields))
	}, fields...))
	return node, nil
}

func (c *Compiler) compileTuple(t *wit.Tuple, path []string) (*Node, error) {
	node := &Node{Kind: KindTuple, Members: make([]Member, 0, len(t.Types))}
	fields := make([]finiterepr.Field[[]any], 0, len(t.Types))

	for i, typ := range t.Types {
		name := strconv.Itoa(i)
		child, err := c.compile(typ, childPath(path, name))
		if err != nil {
			return nil, err
		}
		node.Members = append(node.Members, Member{Name: name, Type: child})

		k := i
		fields = append(fields, finiterepr.FieldOf[[]any, any](name, child,
			func(t []any) any { return t[k] },
			func(t *[]any, v any) { (*t)[k] = v }))
	}

	size := len(fields)
	node.shape = finiterepr.Erase(finiterepr.StructWith(node.Describe(), func() []any {
		return make([]any, size)
	}, fields...))
	return node, nil
}

func (c *Compiler) compileFlags(f *wit.Flags, path []string) (*Node, error) {
	node := &Node{Kind: KindFlags, Members: make([]Member, 0, len(f.Flags))}
	fields := make([]finiterepr.Field[Flags], 0, len(f.Flags))

	for _, flag := range f.Flags {
		if _, dup := node.member(flag.Name); dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(path...).
				Detail("duplicate flag %q", flag.Name).
				Build()
		}
		node.Members = append(node.Members, Member{Name: flag.Name})

		name := flag.Name
		fields = append(fields, finiterepr.FieldOf(name, finiterepr.Bool(),
			func(f Flags) bool { return f[name] },
			func(f *Flags, v bool) {
				if v {
					(*f)[name] = true
				}
			}))
	}

	node.shape = finiterepr.Erase(finiterepr.StructWith(node.Describe(), func() Flags {
		return make(Flags)
	}, fields...))
	return node, nil
}

func (c *Compiler) compileEnum(e *wit.Enum, path []string) (*Node, error) {
	node := &Node{Kind: KindEnum, Members: make([]Member, 0, len(e.Cases))}
	cases := make([]finiterepr.Alt[string], 0, len(e.Cases))

	for _, ec := range e.Cases {
		if _, dup := node.member(ec.Name); dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(path...).
				Detail("duplicate enum case %q", ec.Name).
				Build()
		}
		node.Members = append(node.Members, Member{Name: ec.Name})
		cases = append(cases, finiterepr.Tag(ec.Name, ec.Name))
	}

	node.shape = finiterepr.Erase(finiterepr.Sum(node.Describe(), cases...))
	return node, nil
}

// none is the payload of cases that carry nothing: one inhabitant, nil.
var none finiterepr.Shape[any] = noPayload{finiterepr.Erase(finiterepr.Unit())}

type noPayload struct {
	finiterepr.Shape[any]
}

func (p noPayload) IndexOf(v any) (index.Index, error) {
	if v != nil {
		return p.Shape.IndexOf(v)
	}
	return p.Shape.IndexOf(struct{}{})
}

func (p noPayload) ValueAt(i index.Index) (any, error) {
	if _, err := p.Shape.ValueAt(i); err != nil {
		return nil, err
	}
	return nil, nil
}

func payloadShape(n *Node) finiterepr.Shape[any] {
	if n == nil {
		return none
	}
	return n
}

func (c *Compiler) compileVariant(v *wit.Variant, path []string) (*Node, error) {
	node := &Node{Kind: KindVariant, Members: make([]Member, 0, len(v.Cases))}
	cases := make([]finiterepr.Alt[Variant], 0, len(v.Cases))

	for _, vc := range v.Cases {
		if _, dup := node.member(vc.Name); dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(path...).
				Detail("duplicate variant case %q", vc.Name).
				Build()
		}
		var child *Node
		if vc.Type != nil {
			var err error
			child, err = c.compile(vc.Type, childPath(path, vc.Name))
			if err != nil {
				return nil, err
			}
		}
		node.Members = append(node.Members, Member{Name: vc.Name, Type: child})

		name := vc.Name
		cases = append(cases, finiterepr.Case(name, payloadShape(child),
			func(v Variant) (any, bool) { return v.Value, v.Case == name },
			func(p any) Variant { return Variant{Case: name, Value: p} }))
	}

	node.shape = finiterepr.Erase(finiterepr.Sum(node.Describe(), cases...))
	return node, nil
}

func (c *Compiler) compileOption(o *wit.Option, path []string) (*Node, error) {
	elem, err := c.compile(o.Type, childPath(path, "some"))
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:  KindOption,
		Elem:  elem,
		shape: finiterepr.Erase(finiterepr.Option[any](elem)),
	}, nil
}

func (c *Compiler) compileResult(r *wit.Result, path []string) (*Node, error) {
	node := &Node{Kind: KindResult}
	if r.OK != nil {
		ok, err := c.compile(r.OK, childPath(path, "ok"))
		if err != nil {
			return nil, err
		}
		node.Ok = ok
	}
	if r.Err != nil {
		e, err := c.compile(r.Err, childPath(path, "error"))
		if err != nil {
			return nil, err
		}
		node.Err = e
	}
	node.shape = finiterepr.Erase(finiterepr.ResultOf(payloadShape(node.Ok), payloadShape(node.Err)))
	return node, nil
}
