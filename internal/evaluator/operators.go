package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/lifetime/internal/ast"
)

// ApplyBinaryOperator is the default operator bridge. Results never share
// a heap block with the operands.
func ApplyBinaryOperator(h *Heap, left, right Value, op ast.Operator) Value {
	if left == nil {
		left = UNIT
	}
	if right == nil {
		right = UNIT
	}

	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if op == ast.OpAdd {
			if l, ok := left.(*String); ok {
				if r, ok := right.(*String); ok {
					return h.NewString(l.Value + r.Value)
				}
			}
		}
		if isNumeric(left) && isNumeric(right) {
			return numericInfix(h, op, left, right)
		}
	case ast.OpConcat:
		switch l := left.(type) {
		case *String:
			if r, ok := right.(*String); ok {
				return h.NewString(l.Value + r.Value)
			}
		case *List:
			if r, ok := right.(*List); ok {
				elements := make([]Value, 0, len(l.Elements)+len(r.Elements))
				for _, el := range l.Elements {
					elements = append(elements, h.Copy(el))
				}
				for _, el := range r.Elements {
					elements = append(elements, h.Copy(el))
				}
				return h.NewList(elements)
			}
		}
	case ast.OpCons:
		switch r := right.(type) {
		case *Unit:
			return h.NewList([]Value{h.Copy(left)})
		case *List:
			elements := make([]Value, 0, len(r.Elements)+1)
			elements = append(elements, h.Copy(left))
			for _, el := range r.Elements {
				elements = append(elements, h.Copy(el))
			}
			return h.NewList(elements)
		}
	case ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		if cmp, ok := compareValues(left, right, op); ok {
			return boolU64(compareResult(op, cmp))
		}
	case ast.OpAnd, ast.OpOr:
		if isNumeric(left) && isNumeric(right) {
			l, _ := Truthy(left)
			r, _ := Truthy(right)
			if op == ast.OpAnd {
				return boolU64(l && r)
			}
			return boolU64(l || r)
		}
	}
	return h.NewError("unsupported operation for types %s and %s", left.Type(), right.Type())
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case *U64, *I64, *F64:
		return true
	}
	return false
}

func numericRank(v Value) int {
	switch v.(type) {
	case *U64:
		return 1
	case *I64:
		return 2
	case *F64:
		return 3
	}
	return 0
}

func asFloat(v Value) float64 {
	switch v := v.(type) {
	case *U64:
		return float64(v.Value)
	case *I64:
		return float64(v.Value)
	case *F64:
		return v.Value
	}
	return 0
}

func asInt(v Value) int64 {
	switch v := v.(type) {
	case *U64:
		return int64(v.Value)
	case *I64:
		return v.Value
	case *F64:
		return int64(v.Value)
	}
	return 0
}

func boolU64(b bool) Value {
	if b {
		return &U64{Value: 1}
	}
	return &U64{Value: 0}
}

// numericInfix promotes both operands to the wider of their types
// (f64 over i64 over u64). Integer arithmetic wraps.
func numericInfix(h *Heap, op ast.Operator, left, right Value) Value {
	rank := numericRank(left)
	if r := numericRank(right); r > rank {
		rank = r
	}

	switch rank {
	case 3:
		l, r := asFloat(left), asFloat(right)
		switch op {
		case ast.OpAdd:
			return &F64{Value: l + r}
		case ast.OpSub:
			return &F64{Value: l - r}
		case ast.OpMul:
			return &F64{Value: l * r}
		case ast.OpDiv:
			return &F64{Value: l / r}
		case ast.OpMod:
			return &F64{Value: math.Mod(l, r)}
		}
	case 2:
		l, r := asInt(left), asInt(right)
		switch op {
		case ast.OpAdd:
			return &I64{Value: l + r}
		case ast.OpSub:
			return &I64{Value: l - r}
		case ast.OpMul:
			return &I64{Value: l * r}
		case ast.OpDiv:
			if r == 0 {
				return h.NewError("division by zero")
			}
			return &I64{Value: l / r}
		case ast.OpMod:
			if r == 0 {
				return h.NewError("division by zero")
			}
			return &I64{Value: l % r}
		}
	default:
		l, r := left.(*U64).Value, right.(*U64).Value
		switch op {
		case ast.OpAdd:
			return &U64{Value: l + r}
		case ast.OpSub:
			return &U64{Value: l - r}
		case ast.OpMul:
			return &U64{Value: l * r}
		case ast.OpDiv:
			if r == 0 {
				return h.NewError("division by zero")
			}
			return &U64{Value: l / r}
		case ast.OpMod:
			if r == 0 {
				return h.NewError("division by zero")
			}
			return &U64{Value: l % r}
		}
	}
	return h.NewError("unsupported operation for types %s and %s", left.Type(), right.Type())
}

// compareValues orders two values: -1, 0 or 1. Units only support
// equality.
func compareValues(left, right Value, op ast.Operator) (int, bool) {
	if isNumeric(left) && isNumeric(right) {
		rank := numericRank(left)
		if r := numericRank(right); r > rank {
			rank = r
		}
		switch rank {
		case 3:
			return compareOrdered(asFloat(left), asFloat(right)), true
		case 2:
			return compareOrdered(asInt(left), asInt(right)), true
		default:
			return compareOrdered(left.(*U64).Value, right.(*U64).Value), true
		}
	}
	if l, ok := left.(*String); ok {
		if r, ok := right.(*String); ok {
			return strings.Compare(l.Value, r.Value), true
		}
	}
	if op == ast.OpEq || op == ast.OpNotEq {
		_, lu := left.(*Unit)
		_, ru := right.(*Unit)
		if lu && ru {
			return 0, true
		}
		if lu || ru {
			return 1, true
		}
	}
	return 0, false
}

func compareOrdered[T int64 | uint64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func compareResult(op ast.Operator, cmp int) bool {
	switch op {
	case ast.OpEq:
		return cmp == 0
	case ast.OpNotEq:
		return cmp != 0
	case ast.OpLt:
		return cmp < 0
	case ast.OpGt:
		return cmp > 0
	case ast.OpLtEq:
		return cmp <= 0
	}
	return cmp >= 0
}
