package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
)

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.LiteralExpression{Token: p.curToken, Raw: p.curToken.Lexeme}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.LiteralExpression{Token: p.curToken, Raw: p.curToken.Lexeme, IsString: true}
}
