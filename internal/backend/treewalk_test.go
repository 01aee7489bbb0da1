package backend

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/evaluator"
	"github.com/funvibe/lifetime/internal/ledger"
	"github.com/funvibe/lifetime/internal/lexer"
	"github.com/funvibe/lifetime/internal/parser"
	"github.com/funvibe/lifetime/internal/pipeline"
)

func newBackend() (*TreeWalkBackend, *bytes.Buffer, *bytes.Buffer) {
	var out, diag bytes.Buffer
	b := NewTreeWalk()
	b.Out = &out
	b.Diag = &diag
	return b, &out, &diag
}

func execute(b Backend, input string) (*pipeline.PipelineContext, *ExecutionProcessor) {
	exec := NewExecutionProcessor(b)
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, exec).
		Run(&pipeline.PipelineContext{SourceCode: input, FilePath: "prog.lt"})
	return ctx, exec
}

func TestTreeWalkRun(t *testing.T) {
	b, out, diag := newBackend()
	ctx, exec := execute(b, `def main() = greet("world")
def greet(name) = "hello " ++ name`)

	require.Empty(t, ctx.Errors)
	require.NotNil(t, exec.Result)
	assert.Equal(t, "string('hello world')", out.String(), "no trailing newline")
	assert.Empty(t, diag.String())
	assert.Equal(t, evaluator.STRING_VAL, exec.Result.Type)
	assert.False(t, exec.Result.IsError())
	assert.Zero(t, exec.Result.Stats.Live)
	assert.NotZero(t, exec.Result.Stats.Allocated)
}

func TestTreeWalkErrorResult(t *testing.T) {
	b, out, diag := newBackend()
	ctx, exec := execute(b, "def main() = foo()")

	assert.Empty(t, ctx.Errors, "runtime errors are values")
	assert.Equal(t, "error('undefined function 'foo'')", out.String())
	assert.Equal(t, "undefined function 'foo'\n", diag.String())
	assert.True(t, exec.Result.IsError())
}

func TestTreeWalkSkipsOnCompileErrors(t *testing.T) {
	b, out, _ := newBackend()
	ctx, exec := execute(b, "def main() = (1")

	assert.NotEmpty(t, ctx.Errors)
	assert.Nil(t, exec.Result)
	assert.Empty(t, out.String())
}

func TestTreeWalkConfigure(t *testing.T) {
	b, out, _ := newBackend()
	s := config.DefaultSettings()
	s.MaxDepth = 20
	s.NativeCalls = true
	b.Configure(s)

	_, exec := execute(b, `def main() = puts("x")`)
	assert.Equal(t, "string('x')\nunit", out.String())
	assert.Zero(t, exec.Result.Stats.Live)

	out.Reset()
	execute(b, "def f(n) = f(n)\ndef main() = f(0)")
	assert.Equal(t, "error('maximum recursion depth exceeded')", out.String())
}

func TestTreeWalkObserversAndLedger(t *testing.T) {
	l, err := ledger.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer l.Close()

	var binds int
	b, _, _ := newBackend()
	b.Ledger = l
	b.Observers = []evaluator.Observer{evaluator.ObserverFunc(func(ev evaluator.Event) {
		if ev.Kind == evaluator.EventBind {
			binds++
		}
	})}

	ctx, exec := execute(b, "def main() = let s = \"a\" in s ++ s")
	require.Empty(t, ctx.Errors)
	require.NotEmpty(t, exec.Result.RunID)
	assert.NotZero(t, binds)

	s, err := l.Summary(exec.Result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "prog.lt", s.File)
	assert.Equal(t, "string('aa')", s.Value)
	assert.Equal(t, binds, s.Events["bind"])
	assert.Zero(t, s.Live)
}

func TestLedgerUsesGivenRunID(t *testing.T) {
	l, err := ledger.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer l.Close()

	b, _, _ := newBackend()
	b.Ledger = l
	b.RunID = "run-from-logs"
	ctx, exec := execute(b, "def main() = 1")
	require.Empty(t, ctx.Errors)
	assert.Equal(t, "run-from-logs", exec.Result.RunID)

	s, err := l.Summary("run-from-logs")
	require.NoError(t, err)
	assert.Equal(t, "u64(1)", s.Value)
}

func TestExecutionProcessorReportsHostFailures(t *testing.T) {
	l, err := ledger.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	_, err = l.Begin("other.lt")
	require.NoError(t, err)
	defer l.Close()

	b, _, _ := newBackend()
	b.Ledger = l
	ctx, _ := execute(b, "def main() = 1")

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, "R001", string(ctx.Errors[0].Code))
	assert.Contains(t, ctx.Errors[0].Message, "still in progress")
}

func TestName(t *testing.T) {
	assert.Equal(t, "tree-walk", NewTreeWalk().Name())
}
