package ast

import (
	"github.com/funvibe/lifetime/internal/token"
)

// LiteralExpression is a string or numeric literal. Raw keeps the literal
// text exactly as written, quotes included for strings.
type LiteralExpression struct {
	Token    token.Token
	Raw      string
	IsString bool
}

func (le *LiteralExpression) Accept(v Visitor)      { v.VisitLiteralExpression(le) }
func (le *LiteralExpression) expressionNode()       {}
func (le *LiteralExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LiteralExpression) GetToken() token.Token { return le.Token }

// LookupExpression reads a binding by name.
type LookupExpression struct {
	Token token.Token // The identifier token
	Name  string
}

func (le *LookupExpression) Accept(v Visitor)      { v.VisitLookupExpression(le) }
func (le *LookupExpression) expressionNode()       {}
func (le *LookupExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LookupExpression) GetToken() token.Token { return le.Token }

// BinaryExpression is left <op> right.
type BinaryExpression struct {
	Token    token.Token // The operator token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) Accept(v Visitor)      { v.VisitBinaryExpression(be) }
func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// UnaryExpression is <op>right, e.g. -x or !x
type UnaryExpression struct {
	Token    token.Token // The prefix token
	Operator Operator
	Right    Expression
}

func (ue *UnaryExpression) Accept(v Visitor)      { v.VisitUnaryExpression(ue) }
func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// CallExpression calls a named function: callee(arg, ...)
type CallExpression struct {
	Token     token.Token // The callee identifier token
	Callee    string
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// Assignment is one `name = value` pair of a let.
type Assignment struct {
	Token token.Token // The name token
	Name  string
	Value Expression
}

// LetExpression: let a = x, b = y in body
type LetExpression struct {
	Token       token.Token // The 'let' token
	Assignments []*Assignment
	Body        Expression
}

func (le *LetExpression) Accept(v Visitor)      { v.VisitLetExpression(le) }
func (le *LetExpression) expressionNode()       {}
func (le *LetExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LetExpression) GetToken() token.Token { return le.Token }

// DefExpression: def name(a, b) = body
type DefExpression struct {
	Token      token.Token // The 'def' token
	Name       string
	Parameters []string
	Body       Expression
}

func (de *DefExpression) Accept(v Visitor)      { v.VisitDefExpression(de) }
func (de *DefExpression) expressionNode()       {}
func (de *DefExpression) TokenLiteral() string  { return de.Token.Lexeme }
func (de *DefExpression) GetToken() token.Token { return de.Token }

// IfExpression: if cond then a else b
type IfExpression struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) Accept(v Visitor)      { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }
