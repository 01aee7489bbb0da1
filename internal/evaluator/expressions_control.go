package evaluator

import (
	"errors"
	"math"

	"github.com/funvibe/lifetime/internal/ast"
)

// evalLet evaluates the assignments in the enclosing scope, so they cannot
// see one another, and the body in a fork holding them.
func (e *Evaluator) evalLet(scope *Scope, node *ast.LetExpression) Value {
	forked := scope.Fork()
	for _, assign := range node.Assignments {
		v := e.Eval(scope, assign.Value)
		forked.Bind(assign.Name, v, Borrow)
	}

	inner := e.Eval(forked, node.Body)
	forked.Bind("", inner, Borrow)

	res := e.Heap.Copy(inner)
	scope.Bind("", res, Owner)
	forked.Leave()
	return res
}

// evalIf evaluates the chosen branch in scope; the branch result is already
// owned there and is returned as is.
func (e *Evaluator) evalIf(scope *Scope, node *ast.IfExpression) Value {
	cond := e.Eval(scope, node.Condition)
	scope.Bind("", cond, Borrow)

	truthy, err := Truthy(cond)
	if err != nil {
		return e.fail(scope, "%s", err)
	}

	var res Value
	if truthy {
		res = e.Eval(scope, node.Consequence)
	} else {
		res = e.Eval(scope, node.Alternative)
	}
	scope.Bind("", res, Borrow)
	return res
}

// Truthy reports whether a numeric value's bit pattern is non-zero. Other
// types have no truth value.
func Truthy(v Value) (bool, error) {
	switch v := v.(type) {
	case *U64:
		return v.Value != 0, nil
	case *I64:
		return v.Value != 0, nil
	case *F64:
		return math.Float64bits(v.Value) != 0, nil
	case nil, *Unit:
		return false, errors.New("cannot evaluate condition for unit type")
	}
	return false, errors.New("cannot evaluate condition for " + string(v.Type()) + " type")
}
