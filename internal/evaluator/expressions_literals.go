package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/lifetime/internal/ast"
)

func (e *Evaluator) evalLiteral(scope *Scope, node *ast.LiteralExpression) Value {
	if node.IsString {
		raw := node.Raw
		if len(raw) >= 2 {
			raw = raw[1 : len(raw)-1]
		}
		s := e.Heap.NewString(raw)
		scope.Bind("", s, Owner)
		return s
	}

	v, ok := ParseNumber(node.Raw)
	if !ok {
		return e.fail(scope, "invalid numeric literal %s", node.Raw)
	}
	return v
}

// ParseNumber classifies numeric literal text: a '.', 'e' or 'E' makes an
// f64, otherwise a '-' makes an i64, otherwise u64.
func ParseNumber(raw string) (Value, bool) {
	switch {
	case strings.ContainsAny(raw, ".eE"):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return &F64{Value: f}, true
	case strings.Contains(raw, "-"):
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return &I64{Value: i}, true
	default:
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return &U64{Value: u}, true
	}
}
