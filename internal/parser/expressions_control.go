package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/token"
)

// parseLetExpression parses: let a = x, b = y in body
func (p *Parser) parseLetExpression() ast.Expression {
	let := &ast.LetExpression{Token: p.curToken}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		assign := &ast.Assignment{Token: p.curToken, Name: p.curToken.Lexeme}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		assign.Value = p.parseExpression(LOWEST)
		if assign.Value == nil {
			return nil
		}
		let.Assignments = append(let.Assignments, assign)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	let.Body = p.parseExpression(LOWEST)
	if let.Body == nil {
		return nil
	}
	return let
}

// parseIfExpression parses: if cond then a else b
func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	expression.Consequence = p.parseExpression(LOWEST)
	if expression.Consequence == nil {
		return nil
	}

	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	expression.Alternative = p.parseExpression(LOWEST)
	if expression.Alternative == nil {
		return nil
	}
	return expression
}
