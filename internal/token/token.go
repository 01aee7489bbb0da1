package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"
	CONCAT   TokenType = "++"
	CONS     TokenType = "::"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LTE    TokenType = "<="
	GTE    TokenType = ">="
	AND    TokenType = "&&"
	OR     TokenType = "||"

	// Delimiters
	COMMA  TokenType = ","
	LPAREN TokenType = "("
	RPAREN TokenType = ")"

	// Keywords
	DEF  TokenType = "DEF"
	LET  TokenType = "LET"
	IN   TokenType = "IN"
	IF   TokenType = "IF"
	THEN TokenType = "THEN"
	ELSE TokenType = "ELSE"
)

type Token struct {
	Type    TokenType
	Lexeme  string // raw text as it appears in the source
	Literal string // for ILLEGAL tokens: the reason
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"def":  DEF,
	"let":  LET,
	"in":   IN,
	"if":   IF,
	"then": THEN,
	"else": ELSE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsOperand reports whether a token of this type can end an operand.
// The lexer uses it to decide whether a '-' before a digit is a sign.
func (t TokenType) IsOperand() bool {
	switch t {
	case IDENT, NUMBER, STRING, RPAREN:
		return true
	}
	return false
}
