package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP005, p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil {
			return nil
		}
		leftExp = nextExp
	}

	return leftExp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	op, _ := ast.UnaryOperator(p.curToken.Lexeme)
	expression := &ast.UnaryExpression{
		Token:    p.curToken,
		Operator: op,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	op, _ := ast.BinaryOperator(p.curToken.Lexeme)
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: op,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseRightAssocInfixExpression parses right-associative operators like ::
// 1 :: 2 :: unit parses as 1 :: (2 :: unit)
func (p *Parser) parseRightAssocInfixExpression(left ast.Expression) ast.Expression {
	op, _ := ast.BinaryOperator(p.curToken.Lexeme)
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: op,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence - 1)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}
