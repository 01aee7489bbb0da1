package ast

import (
	"github.com/funvibe/lifetime/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expression is a Node that represents an expression.
// Every construct of the language is an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks the expression tree.
type Visitor interface {
	VisitProgram(p *Program)
	VisitLiteralExpression(le *LiteralExpression)
	VisitLookupExpression(le *LookupExpression)
	VisitBinaryExpression(be *BinaryExpression)
	VisitUnaryExpression(ue *UnaryExpression)
	VisitCallExpression(ce *CallExpression)
	VisitLetExpression(le *LetExpression)
	VisitDefExpression(de *DefExpression)
	VisitIfExpression(ie *IfExpression)
}

// Program is the root node of every AST our parser produces.
// A program is a list of top-level definitions; execution starts at main.
type Program struct {
	File string // Source file path
	Defs []*DefExpression
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Defs) > 0 {
		return p.Defs[0].TokenLiteral()
	} else {
		return ""
	}
}

// Lookup returns the last top-level definition named name.
func (p *Program) Lookup(name string) (*DefExpression, bool) {
	for i := len(p.Defs) - 1; i >= 0; i-- {
		if p.Defs[i].Name == name {
			return p.Defs[i], true
		}
	}
	return nil, false
}
