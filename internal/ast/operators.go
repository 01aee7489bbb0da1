package ast

// Operator tags the binary and unary operators of the language.
type Operator int

const (
	OpInvalid Operator = iota

	// Binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpCons
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr

	// Unary
	OpNeg
	OpNot
)

var operatorSymbols = map[Operator]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpConcat: "++",
	OpCons:   "::",
	OpEq:     "==",
	OpNotEq:  "!=",
	OpLt:     "<",
	OpGt:     ">",
	OpLtEq:   "<=",
	OpGtEq:   ">=",
	OpAnd:    "&&",
	OpOr:     "||",
	OpNeg:    "-",
	OpNot:    "!",
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return "?"
}

// IsUnary reports whether op is a prefix operator.
func (op Operator) IsUnary() bool {
	return op == OpNeg || op == OpNot
}

var binaryOperators = map[string]Operator{
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
	"%":  OpMod,
	"++": OpConcat,
	"::": OpCons,
	"==": OpEq,
	"!=": OpNotEq,
	"<":  OpLt,
	">":  OpGt,
	"<=": OpLtEq,
	">=": OpGtEq,
	"&&": OpAnd,
	"||": OpOr,
}

// BinaryOperator maps an operator symbol to its tag.
func BinaryOperator(symbol string) (Operator, bool) {
	op, ok := binaryOperators[symbol]
	return op, ok
}

// UnaryOperator maps a prefix operator symbol to its tag.
func UnaryOperator(symbol string) (Operator, bool) {
	switch symbol {
	case "-":
		return OpNeg, true
	case "!":
		return OpNot, true
	}
	return OpInvalid, false
}
