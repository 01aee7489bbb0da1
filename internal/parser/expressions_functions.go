package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/token"
)

// parseIdentifier parses a lookup, or a call when the name is followed
// by '('.
func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.LookupExpression{Token: tok, Name: tok.Lexeme}
	}
	p.nextToken()

	call := &ast.CallExpression{Token: tok, Callee: tok.Lexeme}
	args, ok := p.parseCallArguments()
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return args, true
}

// parseDefExpression parses: def name(a, b) = body
func (p *Parser) parseDefExpression() ast.Expression {
	def := &ast.DefExpression{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	def.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	def.Parameters = params

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	def.Body = p.parseExpression(LOWEST)
	if def.Body == nil {
		return nil
	}
	return def
}

func (p *Parser) parseParameters() ([]string, bool) {
	params := []string{}
	seen := make(map[string]bool)

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		name := p.curToken.Lexeme
		if seen[name] {
			p.addError(diagnostics.ErrP004, p.curToken, "duplicate parameter %s", name)
		}
		seen[name] = true
		params = append(params, name)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}
