package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/token"
)

// MaxRecursionDepth bounds expression nesting so hostile input cannot
// overflow the Go stack.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	CONS        // ::
	SUM         // + - ++
	PRODUCT     // * / %
	PREFIX      // -x !x
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.CONS:     CONS,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.CONCAT:   SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
}

// New creates a parser over tokens. Diagnostics are appended to ctx.Errors.
func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	p := &Parser{tokens: tokens, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:  p.parseIdentifier,
		token.NUMBER: p.parseNumberLiteral,
		token.STRING: p.parseStringLiteral,
		token.MINUS:  p.parsePrefixExpression,
		token.BANG:   p.parsePrefixExpression,
		token.LPAREN: p.parseGroupedExpression,
		token.LET:    p.parseLetExpression,
		token.IF:     p.parseIfExpression,
		token.DEF:    p.parseDefExpression,
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tokType := range precedences {
		p.infixParseFns[tokType] = p.parseInfixExpression
	}
	p.infixParseFns[token.CONS] = p.parseRightAssocInfixExpression

	// Read two tokens, so curToken and peekToken are both set
	p.pos = -1
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.pos++
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
	} else {
		p.peekToken = p.tokens[len(p.tokens)-1]
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP001, p.peekToken, "expected next token to be %s, got %s instead", t, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.ErrP002, tok, "unexpected %s", describe(tok))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING:
		return string(tok.Type) + " " + tok.Lexeme
	}
	return "'" + tok.Lexeme + "'"
}
