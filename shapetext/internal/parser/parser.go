package parser

import (
	"fmt"
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/finite-repr/errors"
	"github.com/wippyai/finite-repr/shapetext/internal/token"
)

// Document is a parsed shape text source: a sequence of type expressions
// whose last element is the root. Names bound with (type name t) are
// visible to every later expression.
type Document struct {
	Root  wit.Type
	Names map[string]*wit.TypeDef
	Order []string
}

type Parser struct {
	names  map[string]*wit.TypeDef
	order  []string
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens: tokens,
		names:  make(map[string]*wit.TypeDef),
	}
}

func (p *Parser) Parse() (*Document, error) {
	var root wit.Type
	for p.peek() != nil {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		root = t
	}
	if root == nil {
		return nil, p.errorf(1, "empty document")
	}
	return &Document{Root: root, Names: p.names, Order: p.order}, nil
}

func (p *Parser) peek() *token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

// line is the line of the next token, or of the last one at end of input.
func (p *Parser) line() int {
	if t := p.peek(); t != nil {
		return t.Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 1
}

func (p *Parser) errorf(line int, format string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Detail("line %d: %s", line, fmt.Sprintf(format, args...)).
		Build()
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.errorf(p.line(), "unexpected end of input, expected %v", typ)
	}
	if t.Type == token.Invalid {
		return nil, p.errorf(t.Line, "%s", t.Value)
	}
	if t.Type != typ {
		return nil, p.errorf(t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	t, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if t.Value != kw {
		return p.errorf(t.Line, "expected '%s', got %q", kw, t.Value)
	}
	return nil
}

// atKeyword reports whether the next tokens open the form (kw ...).
func (p *Parser) atKeyword(kw string) bool {
	open, word := p.peekAt(0), p.peekAt(1)
	return open != nil && open.Type == token.LParen &&
		word != nil && word.Type == token.Ident && word.Value == kw
}

// parseName reads a field, case or flag name: an identifier or a quoted string.
func (p *Parser) parseName() (string, int, error) {
	t := p.next()
	if t == nil {
		return "", p.line(), p.errorf(p.line(), "unexpected end of input, expected name")
	}
	switch t.Type {
	case token.Ident:
		return t.Value, t.Line, nil
	case token.String:
		s, err := strconv.Unquote(`"` + t.Value + `"`)
		if err != nil {
			return "", t.Line, p.errorf(t.Line, "invalid string %q", t.Value)
		}
		if s == "" {
			return "", t.Line, p.errorf(t.Line, "empty name")
		}
		return s, t.Line, nil
	case token.Invalid:
		return "", t.Line, p.errorf(t.Line, "%s", t.Value)
	}
	return "", t.Line, p.errorf(t.Line, "expected name, got %q", t.Value)
}

// names tracks the members of one form to reject duplicates.
type names map[string]struct{}

func (p *Parser) unique(seen names, what, name string, line int) error {
	if _, dup := seen[name]; dup {
		return p.errorf(line, "duplicate %s %q", what, name)
	}
	seen[name] = struct{}{}
	return nil
}
