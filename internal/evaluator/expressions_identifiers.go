package evaluator

import (
	"github.com/funvibe/lifetime/internal/ast"
)

// evalLookup hands the caller its own copy of the bound value.
func (e *Evaluator) evalLookup(scope *Scope, node *ast.LookupExpression) Value {
	b, ok := scope.Resolve(node.Name)
	if !ok {
		return e.fail(scope, "%s is not defined", node.Name)
	}
	v := e.Heap.Copy(b.Value)
	scope.Bind("", v, Owner)
	return v
}

func (e *Evaluator) evalDef(scope *Scope, node *ast.DefExpression) Value {
	fn := e.Heap.NewFunction(node)
	scope.Bind(node.Name, fn, Owner)
	return fn
}
