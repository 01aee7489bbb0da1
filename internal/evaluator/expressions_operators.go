package evaluator

import (
	"github.com/funvibe/lifetime/internal/ast"
)

// evalBinary evaluates both operands strictly, left first.
func (e *Evaluator) evalBinary(scope *Scope, node *ast.BinaryExpression) Value {
	left := e.Eval(scope, node.Left)
	right := e.Eval(scope, node.Right)
	if e.halted != "" {
		return e.fail(scope, "%s", e.halted)
	}

	apply := e.BinaryOperator
	if apply == nil {
		apply = ApplyBinaryOperator
	}
	res := apply(e.Heap, left, right, node.Operator)
	scope.Bind("", res, Owner)
	return res
}

// evalUnary borrows its operand: the operand is already owned by scope.
func (e *Evaluator) evalUnary(scope *Scope, node *ast.UnaryExpression) Value {
	if !node.Operator.IsUnary() {
		return e.fail(scope, "unrecognized unitary operation")
	}
	right := e.Eval(scope, node.Right)
	scope.Bind("", right, Borrow)

	switch node.Operator {
	case ast.OpNeg:
		switch v := right.(type) {
		case *U64:
			return &I64{Value: -int64(v.Value)}
		case *I64:
			return &I64{Value: -v.Value}
		case *F64:
			return &F64{Value: -v.Value}
		}
		return e.fail(scope, "unsupported operation for type %s", typeName(right))
	case ast.OpNot:
		switch v := right.(type) {
		case *U64:
			return &I64{Value: boolToInt(v.Value == 0)}
		case *I64:
			return &I64{Value: boolToInt(v.Value == 0)}
		case *F64:
			if v.Value == 0 {
				return &F64{Value: 1}
			}
			return &F64{Value: 0}
		}
		return e.fail(scope, "unsupported operation for type %s", typeName(right))
	}
	return e.fail(scope, "unrecognized unitary operation")
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func typeName(v Value) ValueType {
	if v == nil {
		return UNIT_VAL
	}
	return v.Type()
}
