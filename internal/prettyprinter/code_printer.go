package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/lifetime/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter); mirrors the parser.
var operatorPrecedence = map[ast.Operator]int{
	ast.OpOr:     1,
	ast.OpAnd:    2,
	ast.OpEq:     3,
	ast.OpNotEq:  3,
	ast.OpLt:     4,
	ast.OpGt:     4,
	ast.OpLtEq:   4,
	ast.OpGtEq:   4,
	ast.OpCons:   5,
	ast.OpAdd:    6,
	ast.OpSub:    6,
	ast.OpConcat: 6,
	ast.OpMul:    7,
	ast.OpDiv:    7,
	ast.OpMod:    7,
}

const prefixPrecedence = 8

func getPrecedence(op ast.Operator) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

// Right-associative operators
var rightAssoc = map[ast.Operator]bool{
	ast.OpCons: true,
}

type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

// Print renders a program in canonical form: one definition per line,
// definitions separated by a blank line.
func Print(program *ast.Program) string {
	p := NewCodePrinter()
	program.Accept(p)
	return p.String()
}

// PrintExpression renders a single expression.
func PrintExpression(expr ast.Expression) string {
	p := NewCodePrinter()
	p.printExpr(expr, 0, false)
	return p.String()
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec
		// For same precedence, check associativity
		if prec == parentPrec {
			if isRight && !rightAssoc[e.Operator] {
				needParens = true
			} else if !isRight && rightAssoc[e.Operator] {
				needParens = true
			}
		}
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator.String() + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.UnaryExpression:
		p.write(e.Operator.String())
		p.printExpr(e.Right, prefixPrecedence, false)
	case *ast.LetExpression, *ast.IfExpression, *ast.DefExpression:
		// These extend as far right as possible, so inside an operator
		// they must be parenthesized.
		if parentPrec > 0 {
			p.write("(")
			expr.Accept(p)
			p.write(")")
		} else {
			expr.Accept(p)
		}
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) VisitProgram(program *ast.Program) {
	for i, def := range program.Defs {
		if i > 0 {
			p.write("\n")
		}
		def.Accept(p)
		p.write("\n")
	}
}

func (p *CodePrinter) VisitLiteralExpression(le *ast.LiteralExpression) {
	p.write(le.Raw)
}

func (p *CodePrinter) VisitLookupExpression(le *ast.LookupExpression) {
	p.write(le.Name)
}

func (p *CodePrinter) VisitBinaryExpression(be *ast.BinaryExpression) {
	p.printExpr(be, 0, false)
}

func (p *CodePrinter) VisitUnaryExpression(ue *ast.UnaryExpression) {
	p.printExpr(ue, 0, false)
}

func (p *CodePrinter) VisitCallExpression(ce *ast.CallExpression) {
	p.write(ce.Callee)
	p.write("(")
	for i, arg := range ce.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, 0, false)
	}
	p.write(")")
}

func (p *CodePrinter) VisitLetExpression(le *ast.LetExpression) {
	p.write("let ")
	for i, assign := range le.Assignments {
		if i > 0 {
			p.write(", ")
		}
		p.write(assign.Name)
		p.write(" = ")
		p.printExpr(assign.Value, 0, false)
	}
	p.write(" in ")
	p.printExpr(le.Body, 0, false)
}

func (p *CodePrinter) VisitDefExpression(de *ast.DefExpression) {
	p.write("def ")
	p.write(de.Name)
	p.write("(")
	p.write(strings.Join(de.Parameters, ", "))
	p.write(") = ")
	p.printExpr(de.Body, 0, false)
}

func (p *CodePrinter) VisitIfExpression(ie *ast.IfExpression) {
	p.write("if ")
	p.printExpr(ie.Condition, 0, false)
	p.write(" then ")
	p.printExpr(ie.Consequence, 0, false)
	p.write(" else ")
	p.printExpr(ie.Alternative, 0, false)
}
