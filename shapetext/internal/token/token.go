package token

import (
	"unicode"
)

type Type int

const (
	LParen Type = iota
	RParen
	Ident
	String
	// Invalid marks input the tokenizer could not read, such as an
	// unterminated string. Value holds a description.
	Invalid
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Invalid:
		return "invalid token"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

func isIdentRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', '"', ';':
		return false
	}
	return true
}

// Tokenize splits input into tokens. String values are returned raw,
// without the surrounding quotes and with escapes left in place.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 1
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			line++
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		// Line comment
		if r == ';' && i+1 < len(runes) && runes[i+1] == ';' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			line++
			continue
		}

		// Block comment or left paren
		if r == '(' {
			if i+1 < len(runes) && runes[i+1] == ';' {
				start := line
				depth := 1
				i += 2
				for i < len(runes) && depth > 0 {
					if runes[i] == '(' && i+1 < len(runes) && runes[i+1] == ';' {
						depth++
						i++
					} else if runes[i] == ';' && i+1 < len(runes) && runes[i+1] == ')' {
						depth--
						i++
					} else if runes[i] == '\n' {
						line++
					}
					i++
				}
				if depth > 0 {
					tokens = append(tokens, Token{"unterminated block comment", Invalid, start})
					return tokens
				}
				i--
				continue
			}
			tokens = append(tokens, Token{"(", LParen, line})
			continue
		}

		if r == ')' {
			tokens = append(tokens, Token{")", RParen, line})
			continue
		}

		// String literal
		if r == '"' {
			start := i + 1
			i++
			for i < len(runes) && runes[i] != '"' && runes[i] != '\n' {
				if runes[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(runes) || runes[i] != '"' {
				tokens = append(tokens, Token{"unterminated string", Invalid, line})
				return tokens
			}
			tokens = append(tokens, Token{string(runes[start:i]), String, line})
			continue
		}

		if r == ';' {
			tokens = append(tokens, Token{"unexpected ';'", Invalid, line})
			return tokens
		}

		// Identifier: keywords, primitive names and kebab-case names
		start := i
		for i < len(runes) && isIdentRune(runes[i]) {
			i++
		}
		tokens = append(tokens, Token{string(runes[start:i]), Ident, line})
		i--
	}

	return tokens
}
