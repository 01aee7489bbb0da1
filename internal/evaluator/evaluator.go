package evaluator

import (
	"context"
	"os"

	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/config"
)

// BinaryOperatorFn applies a binary operator. It must return a fresh value
// that shares no heap block with its operands; the evaluator binds it.
type BinaryOperatorFn func(h *Heap, left, right Value, op ast.Operator) Value

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Heap *Heap

	// BinaryOperator defaults to ApplyBinaryOperator.
	BinaryOperator BinaryOperatorFn

	// MaxDepth bounds the nesting of Eval calls.
	MaxDepth int

	// NativeCalls enables calling builtins from user code. When false a
	// native call evaluates to an error.
	NativeCalls bool

	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int

	// halted holds the message of a depth overflow or cancellation. Until
	// the outermost Eval returns, every Eval yields it again without
	// reporting it a second time.
	halted string
}

func New(heap *Heap) *Evaluator {
	if heap == nil {
		heap = NewHeap(os.Stderr)
	}
	return &Evaluator{
		Heap:           heap,
		BinaryOperator: ApplyBinaryOperator,
		MaxDepth:       config.DefaultMaxDepth,
	}
}

// fail builds an error and anchors it in scope. Once the run is halted
// every failure carries the halting message and is not reported again.
func (e *Evaluator) fail(scope *Scope, format string, a ...interface{}) Value {
	var err *Error
	if e.halted != "" {
		err = e.Heap.unreportedError(e.halted)
	} else {
		err = e.Heap.NewError(format, a...)
	}
	scope.Bind("", err, Owner)
	return err
}

// Eval evaluates expr in scope. Every heap value it returns is bound in
// scope, so leaving scope accounts for it.
func (e *Evaluator) Eval(scope *Scope, expr ast.Expression) Value {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() {
		e.evalDepth--
		if e.evalDepth == 0 {
			e.halted = ""
		}
	}()

	if e.halted != "" {
		return e.fail(scope, "%s", e.halted)
	}
	if e.MaxDepth > 0 && e.evalDepth > e.MaxDepth {
		return e.halt(scope, "maximum recursion depth exceeded")
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return e.halt(scope, "execution cancelled: %v", e.Context.Err())
		default:
		}
	}

	return e.evalCore(scope, expr)
}

// halt reports an error that aborts the rest of the run.
func (e *Evaluator) halt(scope *Scope, format string, a ...interface{}) Value {
	err := e.fail(scope, format, a...)
	e.halted = err.(*Error).Message
	return err
}

func (e *Evaluator) evalCore(scope *Scope, expr ast.Expression) Value {
	switch node := expr.(type) {
	case *ast.LiteralExpression:
		return e.evalLiteral(scope, node)
	case *ast.LookupExpression:
		return e.evalLookup(scope, node)
	case *ast.BinaryExpression:
		return e.evalBinary(scope, node)
	case *ast.UnaryExpression:
		return e.evalUnary(scope, node)
	case *ast.CallExpression:
		return e.evalCall(scope, node)
	case *ast.LetExpression:
		return e.evalLet(scope, node)
	case *ast.DefExpression:
		return e.evalDef(scope, node)
	case *ast.IfExpression:
		return e.evalIf(scope, node)
	}
	return e.fail(scope, "unknown expression type: %T", expr)
}

// DefineAll binds every top-level definition into the root scope before
// anything runs, so definitions may reference each other in any order.
func (e *Evaluator) DefineAll(root *Scope, program *ast.Program) {
	root.RetainDefinitions(program.Defs)
	for _, def := range program.Defs {
		e.evalDef(root, def)
	}
}

// RunMain evaluates a zero-argument call to main in root.
func (e *Evaluator) RunMain(root *Scope) Value {
	call := &ast.CallExpression{Callee: config.MainFuncName}
	return e.Eval(root, call)
}
