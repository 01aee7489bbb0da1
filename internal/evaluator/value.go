package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/lifetime/internal/ast"
)

type ValueType string

const (
	UNIT_VAL     ValueType = "unit"
	FUNCTION_VAL ValueType = "function"
	STRING_VAL   ValueType = "string"
	ERROR_VAL    ValueType = "error"
	U64_VAL      ValueType = "u64"
	I64_VAL      ValueType = "i64"
	F64_VAL      ValueType = "f64"
	LIST_VAL     ValueType = "list"
)

// Value is a runtime datum. Inspect renders the deterministic form used
// for program output.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Render returns the printed form of v.
func Render(v Value) string {
	if v == nil {
		return "unit"
	}
	return v.Inspect()
}

// Unit
type Unit struct{}

func (u *Unit) Type() ValueType { return UNIT_VAL }
func (u *Unit) Inspect() string { return "unit" }

var UNIT = &Unit{}

// U64
type U64 struct {
	Value uint64
}

func (n *U64) Type() ValueType { return U64_VAL }
func (n *U64) Inspect() string { return fmt.Sprintf("u64(%d)", n.Value) }

// I64
type I64 struct {
	Value int64
}

func (n *I64) Type() ValueType { return I64_VAL }
func (n *I64) Inspect() string { return fmt.Sprintf("i64(%d)", n.Value) }

// F64 renders with six decimals, like C's %f.
type F64 struct {
	Value float64
}

func (n *F64) Type() ValueType { return F64_VAL }
func (n *F64) Inspect() string {
	return "f64(" + strconv.FormatFloat(n.Value, 'f', 6, 64) + ")"
}

// String owns a heap block. The text is cleared when the block is released.
type String struct {
	Value string
	block *Block
}

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return "string('" + s.Value + "')" }

// Error is structurally a String used for diagnostics.
type Error struct {
	Message string
	block   *Block
}

func (e *Error) Type() ValueType { return ERROR_VAL }
func (e *Error) Inspect() string { return "error('" + e.Message + "')" }
func (e *Error) Error() string   { return e.Message }

// List owns its elements: they are copied in and released with the list.
type List struct {
	Elements []Value
	block    *Block
}

func (l *List) Type() ValueType { return LIST_VAL }
func (l *List) Inspect() string {
	var out strings.Builder
	out.WriteString("list[")
	for i, el := range l.Elements {
		if i > 0 {
			out.WriteString(",")
		}
		out.WriteString(Render(el))
	}
	out.WriteString("]")
	return out.String()
}

// NativeFn is a builtin body. It receives the call's scope, where its
// parameters are bound, and returns a fresh value that the call owns.
type NativeFn func(scope *Scope) Value

// Function wraps either a user definition or a native callback. The
// definition is immutable and shared between copies; only the Function
// cell itself is owned.
type Function struct {
	Name       string
	Def        *ast.DefExpression
	Native     NativeFn
	Parameters []string
	block      *Block
}

func (f *Function) Type() ValueType { return FUNCTION_VAL }
func (f *Function) Inspect() string { return "function" }

// IsNative reports whether f is a builtin.
func (f *Function) IsNative() bool { return f.Native != nil }

// blockOf returns the heap block backing v, or nil for inline values.
func blockOf(v Value) *Block {
	switch v := v.(type) {
	case *String:
		return v.block
	case *Error:
		return v.block
	case *List:
		return v.block
	case *Function:
		return v.block
	}
	return nil
}

// HasPayload reports whether v carries a heap block.
func HasPayload(v Value) bool {
	return blockOf(v) != nil
}
