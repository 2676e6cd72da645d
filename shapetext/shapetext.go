package shapetext

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/finite-repr/shapetext/internal/parser"
	"github.com/wippyai/finite-repr/shapetext/internal/token"
	"github.com/wippyai/finite-repr/witshape"
)

// Parse reads source and returns its root type.
func Parse(source string) (wit.Type, error) {
	doc, err := ParseDocument(source)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

// ParseDocument reads source and returns the root type along with every
// named definition, in declaration order.
func ParseDocument(source string) (*Document, error) {
	doc, err := parser.New(token.Tokenize(source)).Parse()
	if err != nil {
		return nil, err
	}
	out := &Document{Root: doc.Root}
	for _, name := range doc.Order {
		out.Defs = append(out.Defs, doc.Names[name])
	}
	return out, nil
}

// Document is a parsed source.
type Document struct {
	Root wit.Type
	Defs []*wit.TypeDef
}

// Lookup returns the definition bound to name.
func (d *Document) Lookup(name string) (*wit.TypeDef, bool) {
	for _, td := range d.Defs {
		if td.Name != nil && *td.Name == name {
			return td, true
		}
	}
	return nil, false
}

// Compile parses source and compiles its root type.
func Compile(source string) (*witshape.Node, error) {
	t, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return witshape.Compile(t)
}
