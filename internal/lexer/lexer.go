package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/lifetime/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
	prev         token.TokenType
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, prev: token.ILLEGAL}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// Tokenize reads the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	l.prev = tok.Type
	return tok
}

func (l *Lexer) nextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
		}
	case '+':
		if l.peekChar() == '+' {
			tok = l.twoCharToken(token.CONCAT)
		} else {
			tok = newToken(token.PLUS, l.ch, l.line, l.column)
		}
	case '-':
		// A sign directly attached to a digit in operand position belongs
		// to the literal: `f(-1)` but not `a -1`.
		if isDigit(l.peekChar()) && !l.prev.IsOperand() {
			return l.readNumber()
		}
		tok = newToken(token.MINUS, l.ch, l.line, l.column)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.line, l.column)
	case '/':
		tok = newToken(token.SLASH, l.ch, l.line, l.column)
	case '%':
		tok = newToken(token.PERCENT, l.ch, l.line, l.column)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = newToken(token.BANG, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else {
			tok = newToken(token.LT, l.ch, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = newToken(token.GT, l.ch, l.line, l.column)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(token.AND)
		} else {
			tok = l.illegal("unexpected character '&' (did you mean '&&'?)")
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(token.OR)
		} else {
			tok = l.illegal("unexpected character '|' (did you mean '||'?)")
		}
	case ':':
		if l.peekChar() == ':' {
			tok = l.twoCharToken(token.CONS)
		} else {
			tok = l.illegal("unexpected character ':' (did you mean '::'?)")
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '"':
		return l.readString()
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
		return tok
	default:
		if isLetter(l.ch) {
			line, col := l.line, l.column
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.illegal("unexpected character " + string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(t token.TokenType) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	lexeme := string(first) + string(l.ch)
	return token.Token{Type: t, Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) illegal(reason string) token.Token {
	return token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Literal: reason, Line: l.line, Column: l.column}
}

// readString reads a double-quoted string. There are no escape sequences;
// the lexeme keeps both quotes.
func (l *Lexer) readString() token.Token {
	line, col := l.line, l.column
	position := l.position
	for {
		l.readChar()
		if l.ch == '"' {
			break
		}
		if l.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[position:], Literal: "unterminated string", Line: line, Column: col}
		}
	}
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Lexeme: l.input[position:l.position], Line: line, Column: col}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads [-]digits[.digits][(e|E)[+-]digits]. The text is kept
// verbatim; classification into U64/I64/F64 happens at evaluation.
func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position

	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		peek := l.peekChar()
		if isDigit(peek) || ((peek == '+' || peek == '-') && isDigit(l.peekChar2())) {
			l.readChar() // e
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		lexeme := l.input[position:l.position]
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "malformed number " + lexeme, Line: startLine, Column: startCol}
	}

	return token.Token{Type: token.NUMBER, Lexeme: l.input[position:l.position], Line: startLine, Column: startCol}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(ch), Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Handle comments
		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.readChar() // consume first /
				l.readChar() // consume second /
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar() // consume /
				l.readChar() // consume *
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar() // consume *
						l.readChar() // consume /
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}
