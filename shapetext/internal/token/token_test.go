package token

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"parens",
			"()",
			[]Token{{"(", LParen, 1}, {")", RParen, 1}},
		},
		{
			"primitive",
			"u8",
			[]Token{{"u8", Ident, 1}},
		},
		{
			"form",
			"(option bool)",
			[]Token{{"(", LParen, 1}, {"option", Ident, 1}, {"bool", Ident, 1}, {")", RParen, 1}},
		},
		{
			"whitespace",
			"  (  tuple\tu8  )  ",
			[]Token{{"(", LParen, 1}, {"tuple", Ident, 1}, {"u8", Ident, 1}, {")", RParen, 1}},
		},
		{
			"newlines",
			"(\nenum\n)",
			[]Token{{"(", LParen, 1}, {"enum", Ident, 2}, {")", RParen, 3}},
		},
		{
			"kebab_name",
			"max-size",
			[]Token{{"max-size", Ident, 1}},
		},
		{
			"escaped_name",
			"%record",
			[]Token{{"%record", Ident, 1}},
		},
		{
			"string",
			`"full speed"`,
			[]Token{{"full speed", String, 1}},
		},
		{
			"string_quote_escape",
			`"say \"hi\""`,
			[]Token{{`say \"hi\"`, String, 1}},
		},
		{
			"adjacent",
			`(enum"a"b)`,
			[]Token{{"(", LParen, 1}, {"enum", Ident, 1}, {"a", String, 1}, {"b", Ident, 1}, {")", RParen, 1}},
		},
		{
			"line_comment",
			";; comment\n(flags)",
			[]Token{{"(", LParen, 2}, {"flags", Ident, 2}, {")", RParen, 2}},
		},
		{
			"trailing_line_comment",
			"bool ;; yes or no",
			[]Token{{"bool", Ident, 1}},
		},
		{
			"block_comment",
			"(; comment ;)(flags)",
			[]Token{{"(", LParen, 1}, {"flags", Ident, 1}, {")", RParen, 1}},
		},
		{
			"nested_block_comment",
			"(; outer (; inner ;)\n outer ;)(flags)",
			[]Token{{"(", LParen, 2}, {"flags", Ident, 2}, {")", RParen, 2}},
		},
		{
			"unterminated_string",
			"(enum \"a)",
			[]Token{{"(", LParen, 1}, {"enum", Ident, 1}, {"unterminated string", Invalid, 1}},
		},
		{
			"string_across_lines",
			"\"a\nb\"",
			[]Token{{"unterminated string", Invalid, 1}},
		},
		{
			"unterminated_block_comment",
			"u8\n(; open",
			[]Token{{"u8", Ident, 1}, {"unterminated block comment", Invalid, 2}},
		},
		{
			"stray_semicolon",
			"u8 ;u16",
			[]Token{{"u8", Ident, 1}, {"unexpected ';'", Invalid, 1}},
		},
		{
			"complex",
			"(record\n  (field x u8)\n  (field y (option s16)))",
			[]Token{
				{"(", LParen, 1}, {"record", Ident, 1},
				{"(", LParen, 2}, {"field", Ident, 2}, {"x", Ident, 2}, {"u8", Ident, 2}, {")", RParen, 2},
				{"(", LParen, 3}, {"field", Ident, 3}, {"y", Ident, 3},
				{"(", LParen, 3}, {"option", Ident, 3}, {"s16", Ident, 3}, {")", RParen, 3},
				{")", RParen, 3}, {")", RParen, 3},
			},
		},
		{
			"unicode_name",
			"日本語",
			[]Token{{"日本語", Ident, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.expected) {
				t.Fatalf("token count mismatch: got %d, want %d\ngot: %v", len(tokens), len(tt.expected), tokens)
			}
			for i, tok := range tokens {
				exp := tt.expected[i]
				if tok.Type != exp.Type || tok.Value != exp.Value || tok.Line != exp.Line {
					t.Errorf("token %d mismatch:\n  got:  %+v\n  want: %+v", i, tok, exp)
				}
			}
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{"'('", LParen},
		{"')'", RParen},
		{"identifier", Ident},
		{"string", String},
		{"invalid token", Invalid},
		{"unknown", Type(999)},
	}

	for _, tt := range tests {
		got := tt.typ.String()
		if got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
