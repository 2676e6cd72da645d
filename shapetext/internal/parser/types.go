package parser

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/finite-repr/shapetext/internal/token"
)

func (p *Parser) parseType() (wit.Type, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errorf(p.line(), "unexpected end of input, expected type")
	}
	switch t.Type {
	case token.Ident:
		p.next()
		return p.resolve(t)
	case token.LParen:
		return p.parseForm()
	case token.Invalid:
		return nil, p.errorf(t.Line, "%s", t.Value)
	}
	return nil, p.errorf(t.Line, "expected type, got %q", t.Value)
}

func (p *Parser) resolve(t *token.Token) (wit.Type, error) {
	switch t.Value {
	case "bool":
		return wit.Bool{}, nil
	case "u8":
		return wit.U8{}, nil
	case "u16":
		return wit.U16{}, nil
	case "u32":
		return wit.U32{}, nil
	case "u64":
		return wit.U64{}, nil
	case "s8":
		return wit.S8{}, nil
	case "s16":
		return wit.S16{}, nil
	case "s32":
		return wit.S32{}, nil
	case "s64":
		return wit.S64{}, nil
	case "f32":
		return wit.F32{}, nil
	case "f64":
		return wit.F64{}, nil
	case "char":
		return wit.Char{}, nil
	case "string":
		return wit.String{}, nil
	}
	if td, ok := p.names[t.Value]; ok {
		return td, nil
	}
	return nil, p.errorf(t.Line, "unknown type %q", t.Value)
}

func (p *Parser) parseForm() (wit.Type, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	kw, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	var kind wit.TypeDefKind
	switch kw.Value {
	case "tuple":
		kind, err = p.parseTuple()
	case "option":
		kind, err = p.parseOption()
	case "result":
		kind, err = p.parseResult()
	case "record":
		kind, err = p.parseRecord()
	case "variant":
		kind, err = p.parseVariant()
	case "enum":
		kind, err = p.parseEnum()
	case "flags":
		kind, err = p.parseFlags()
	case "type":
		return p.parseTypeDecl()
	default:
		return nil, p.errorf(kw.Line, "unknown form %q", kw.Value)
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: kind}, nil
}

func (p *Parser) atClose() bool {
	t := p.peek()
	return t != nil && t.Type == token.RParen
}

func (p *Parser) parseTuple() (*wit.Tuple, error) {
	tuple := &wit.Tuple{}
	for !p.atClose() {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		tuple.Types = append(tuple.Types, t)
	}
	return tuple, nil
}

func (p *Parser) parseOption() (*wit.Option, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &wit.Option{Type: t}, nil
}

func (p *Parser) parseResult() (*wit.Result, error) {
	r := &wit.Result{}
	if !p.atClose() && !p.atKeyword("error") {
		ok, err := p.parseType()
		if err != nil {
			return nil, err
		}
		r.OK = ok
	}
	if p.atKeyword("error") {
		p.next()
		p.next()
		e, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		r.Err = e
	}
	return r, nil
}

func (p *Parser) parseRecord() (*wit.Record, error) {
	r := &wit.Record{}
	seen := names{}
	for !p.atClose() {
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("field"); err != nil {
			return nil, err
		}
		name, line, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.unique(seen, "field", name, line); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, wit.Field{Name: name, Type: t})
	}
	return r, nil
}

func (p *Parser) parseVariant() (*wit.Variant, error) {
	v := &wit.Variant{}
	seen := names{}
	for !p.atClose() {
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("case"); err != nil {
			return nil, err
		}
		name, line, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.unique(seen, "case", name, line); err != nil {
			return nil, err
		}
		c := wit.Case{Name: name}
		if !p.atClose() {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			c.Type = t
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		v.Cases = append(v.Cases, c)
	}
	return v, nil
}

func (p *Parser) parseNames(what string) ([]string, error) {
	var out []string
	seen := names{}
	for !p.atClose() {
		name, line, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.unique(seen, what, name, line); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (p *Parser) parseEnum() (*wit.Enum, error) {
	cases, err := p.parseNames("enum case")
	if err != nil {
		return nil, err
	}
	e := &wit.Enum{Cases: make([]wit.EnumCase, len(cases))}
	for i, name := range cases {
		e.Cases[i] = wit.EnumCase{Name: name}
	}
	return e, nil
}

func (p *Parser) parseFlags() (*wit.Flags, error) {
	flags, err := p.parseNames("flag")
	if err != nil {
		return nil, err
	}
	f := &wit.Flags{Flags: make([]wit.Flag, len(flags))}
	for i, name := range flags {
		f.Flags[i] = wit.Flag{Name: name}
	}
	return f, nil
}

// parseTypeDecl reads the rest of (type name t). An anonymous definition
// takes the name directly; anything else becomes a named alias.
func (p *Parser) parseTypeDecl() (wit.Type, error) {
	name, line, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, dup := p.names[name]; dup {
		return nil, p.errorf(line, "type %q already defined", name)
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	td, ok := t.(*wit.TypeDef)
	if !ok || td.Name != nil {
		kind, ok := t.(wit.TypeDefKind)
		if !ok {
			return nil, p.errorf(line, "type %q cannot be aliased", name)
		}
		td = &wit.TypeDef{Kind: kind}
	}
	td.Name = &name
	p.names[name] = td
	p.order = append(p.order, name)
	return td, nil
}
