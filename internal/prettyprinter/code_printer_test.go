package prettyprinter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/lexer"
	"github.com/funvibe/lifetime/internal/parser"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/prettyprinter"
)

func parse(input string) (*ast.Program, []error) {
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{SourceCode: input, FilePath: "test.lt"})
	var errs []error
	for _, e := range ctx.Errors {
		errs = append(errs, e)
	}
	return ctx.AstRoot, errs
}

func TestPrint(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"single", "def main()=1", "def main() = 1\n"},
		{"blank_line_between_defs", "def a()=1 def b(x,y)=x", "def a() = 1\n\ndef b(x, y) = x\n"},
		{"drops_redundant_parens", "def main() = (1 + (2 * 3))", "def main() = 1 + 2 * 3\n"},
		{"keeps_needed_parens", "def main() = (1 + 2) * 3", "def main() = (1 + 2) * 3\n"},
		{"left_assoc", "def main() = 1 - (2 - 3)", "def main() = 1 - (2 - 3)\n"},
		{"cons_right_assoc", "def main() = 1 :: (2 :: unit)", "def main() = 1 :: 2 :: unit\n"},
		{"let_in_operand", "def main() = 1 + (let x = 2 in x)", "def main() = 1 + (let x = 2 in x)\n"},
		{"if", "def main() = if a then b else c", "def main() = if a then b else c\n"},
		{"unary_group", "def main() = -(a + b)", "def main() = -(a + b)\n"},
		{"comments_dropped", "// c\ndef main() = /* x */ 1", "def main() = 1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program, errs := parse(tc.input)
			require.Empty(t, errs)
			assert.Equal(t, tc.expected, prettyprinter.Print(program))
		})
	}
}

// FuzzRoundTrip checks that printing is a fixed point: a printed program
// reparses and prints identically.
func FuzzRoundTrip(f *testing.F) {
	f.Add("def main() = 1 + 2 * 3")
	f.Add("def f(a, b) = let x = a, y = b in if x then y else x :: unit")
	f.Add(`def main() = "s" ++ "t"`)
	f.Add("def main() = -(1 - 2) * !0")
	f.Add("def main() = let f = def g(x) = x in g(1 :: 2 :: unit)")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		program, errs := parse(input)
		if len(errs) > 0 || program == nil {
			return
		}
		first := prettyprinter.Print(program)

		reparsed, errs := parse(first)
		if len(errs) > 0 {
			t.Fatalf("printed program does not parse: %v\n%s", errs, first)
		}
		second := prettyprinter.Print(reparsed)
		if first != second {
			t.Fatalf("print is not stable:\n%s\n---\n%s", first, second)
		}
	})
}
