package lexer

import (
	"testing"

	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `def main() = let x = 1.5, s = "a b" in if x >= -2 then s ++ "c" else x :: unit
// line comment
/* block
comment */ a != b && !c || d % 3 - 1 <= 2e-5`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.DEF, "def"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.ASSIGN, "="},
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1.5"},
		{token.COMMA, ","},
		{token.IDENT, "s"},
		{token.ASSIGN, "="},
		{token.STRING, `"a b"`},
		{token.IN, "in"},
		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.NUMBER, "-2"},
		{token.THEN, "then"},
		{token.IDENT, "s"},
		{token.CONCAT, "++"},
		{token.STRING, `"c"`},
		{token.ELSE, "else"},
		{token.IDENT, "x"},
		{token.CONS, "::"},
		{token.IDENT, "unit"},
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
		{token.AND, "&&"},
		{token.BANG, "!"},
		{token.IDENT, "c"},
		{token.OR, "||"},
		{token.IDENT, "d"},
		{token.PERCENT, "%"},
		{token.NUMBER, "3"},
		{token.MINUS, "-"},
		{token.NUMBER, "1"},
		{token.LTE, "<="},
		{token.NUMBER, "2e-5"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%s)", i, tt.expectedType, tok.Type, tok)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestMinusSignFolding(t *testing.T) {
	tests := []struct {
		input string
		types []token.TokenType
	}{
		{"-1", []token.TokenType{token.NUMBER}},
		{"a -1", []token.TokenType{token.IDENT, token.MINUS, token.NUMBER}},
		{"f(-1)", []token.TokenType{token.IDENT, token.LPAREN, token.NUMBER, token.RPAREN}},
		{"(1) -2", []token.TokenType{token.LPAREN, token.NUMBER, token.RPAREN, token.MINUS, token.NUMBER}},
		{"- 1", []token.TokenType{token.MINUS, token.NUMBER}},
		{"-x", []token.TokenType{token.MINUS, token.IDENT}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := New(tt.input).Tokenize()
			if len(tokens) != len(tt.types)+1 {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tt.types)+1, tokens)
			}
			for i, typ := range tt.types {
				if tokens[i].Type != typ {
					t.Errorf("token %d = %s, want %s", i, tokens[i].Type, typ)
				}
			}
		})
	}
}

func TestPositions(t *testing.T) {
	tokens := New("def f() =\n  42").Tokenize()
	last := tokens[len(tokens)-2]
	if last.Lexeme != "42" || last.Line != 2 || last.Column != 3 {
		t.Errorf("got %s, want 42 at 2:3", last)
	}
}

func TestLexerProcessorReportsIllegalTokens(t *testing.T) {
	ctx := pipeline.NewPipelineContext("def main() = \"open @")
	ctx.FilePath = "bad.lt"
	ctx = (&LexerProcessor{}).Process(ctx)

	if len(ctx.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(ctx.Errors), ctx.Errors)
	}
	if ctx.Errors[0].Message != "unterminated string" {
		t.Errorf("unexpected message %q", ctx.Errors[0].Message)
	}
	if ctx.Errors[0].File != "bad.lt" {
		t.Errorf("file not set: %q", ctx.Errors[0].File)
	}

	ctx = (&LexerProcessor{}).Process(pipeline.NewPipelineContext("a @ b"))
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != "L001" {
		t.Fatalf("expected one L001 error, got %v", ctx.Errors)
	}
}
