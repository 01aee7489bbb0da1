package parser

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/token"
)

// ParseProgram parses a sequence of top-level definitions.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}

	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.DEF) {
			p.addError(diagnostics.ErrP003, p.curToken, "expected a top-level definition, got %s", describe(p.curToken))
			p.skipToNextDefinition()
			continue
		}
		def, ok := p.parseDefExpression().(*ast.DefExpression)
		if ok && def != nil {
			program.Defs = append(program.Defs, def)
		} else {
			p.skipToNextDefinition()
			continue
		}
		p.nextToken()
	}

	return program
}

// skipToNextDefinition drops tokens until the next `def` so one bad
// definition does not hide errors in the rest of the file.
func (p *Parser) skipToNextDefinition() {
	p.nextToken()
	for !p.curTokenIs(token.DEF) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}
