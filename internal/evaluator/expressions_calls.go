package evaluator

import (
	"github.com/funvibe/lifetime/internal/ast"
)

// evalCall runs a function in a fresh child of the global scope. Calls do
// not see the caller's bindings; functions are not closures.
func (e *Evaluator) evalCall(scope *Scope, node *ast.CallExpression) Value {
	b, ok := scope.Resolve(node.Callee)
	if !ok {
		return e.fail(scope, "undefined function '%s'", node.Callee)
	}
	fn, ok := b.Value.(*Function)
	if !ok {
		return e.fail(scope, "'%s' is not a function", node.Callee)
	}
	if fn.IsNative() && !e.NativeCalls {
		return e.fail(scope, "'%s' is a native function and is not supported yet", node.Callee)
	}

	frame := scope.Global().Fork()
	for i, arg := range node.Arguments {
		if i >= len(fn.Parameters) {
			frame.Leave()
			return e.fail(scope, "%s expects more arguments", node.Callee)
		}
		local := e.Eval(scope, arg)
		scope.Bind("", local, Borrow)
		frame.Bind(fn.Parameters[i], e.Heap.Copy(local), Owner)
	}
	if e.halted != "" {
		frame.Leave()
		return e.fail(scope, "%s", e.halted)
	}

	var inner Value
	if fn.IsNative() {
		inner = fn.Native(frame)
		if inner == nil {
			inner = UNIT
		}
		frame.Bind("", inner, Owner)
	} else {
		inner = e.Eval(frame, fn.Def.Body)
		frame.Bind("", inner, Borrow)
	}

	res := e.Heap.Copy(inner)
	scope.Bind("", res, Owner)
	frame.Leave()
	return res
}
