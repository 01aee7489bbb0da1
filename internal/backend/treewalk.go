package backend

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/evaluator"
	"github.com/funvibe/lifetime/internal/ledger"
	"github.com/funvibe/lifetime/internal/pipeline"
)

// TreeWalkBackend evaluates the program directly over its AST.
type TreeWalkBackend struct {
	// Context for cancellation; nil runs to completion.
	Context context.Context

	// Out receives the rendered final value and builtin output.
	Out io.Writer
	// Diag receives one line per error value, as it is created.
	Diag io.Writer

	MaxDepth    int
	NativeCalls bool

	// Quiet suppresses writing the final value to Out.
	Quiet bool

	// Observers are attached to the heap of every run.
	Observers []evaluator.Observer
	// Ledger, when set, records every run.
	Ledger *ledger.Ledger
	// RunID names the next ledger run; empty lets the ledger pick one.
	RunID string

	// Prelude runs after the builtins are installed, before any
	// definition is bound.
	Prelude func(root *evaluator.Scope) error
	// Capture sees the final value while its payload is still live.
	Capture func(v evaluator.Value)
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{
		Out:      os.Stdout,
		Diag:     os.Stderr,
		MaxDepth: config.DefaultMaxDepth,
	}
}

// Configure applies settings to the backend.
func (b *TreeWalkBackend) Configure(s *config.Settings) {
	if s.MaxDepth > 0 {
		b.MaxDepth = s.MaxDepth
	}
	b.NativeCalls = s.NativeCalls
}

// Run installs the builtins and the program's definitions into a root
// scope, calls main and writes the rendered result to Out without a
// trailing newline. Leaving the root scope releases everything the run
// allocated.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (*Result, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}

	heap := evaluator.NewHeap(b.Diag)
	for _, o := range b.Observers {
		heap.AddObserver(o)
	}

	var runID string
	if b.Ledger != nil {
		var (
			id  string
			err error
		)
		if b.RunID != "" {
			id, err = b.Ledger.BeginRun(b.RunID, ctx.FilePath)
		} else {
			id, err = b.Ledger.Begin(ctx.FilePath)
		}
		if err != nil {
			return nil, err
		}
		runID = id
		heap.AddObserver(b.Ledger)
	}

	out := b.Out
	if out == nil {
		out = io.Discard
	}

	root := evaluator.NewGlobalScope(heap)
	evaluator.InstallBuiltins(root, out)
	if b.Prelude != nil {
		if err := b.Prelude(root); err != nil {
			root.Leave()
			if b.Ledger != nil {
				b.Ledger.Finish(heap.Stats(), "")
			}
			return nil, err
		}
	}

	eval := evaluator.New(heap)
	eval.Context = b.Context
	eval.MaxDepth = b.MaxDepth
	eval.NativeCalls = b.NativeCalls

	eval.DefineAll(root, ctx.AstRoot)
	final := eval.RunMain(root)
	if final == nil {
		final = evaluator.UNIT
	}

	res := &Result{
		Value: evaluator.Render(final),
		Type:  final.Type(),
		RunID: runID,
	}
	if b.Capture != nil {
		b.Capture(final)
	}
	var writeErr error
	if !b.Quiet {
		if _, err := io.WriteString(out, res.Value); err != nil {
			writeErr = fmt.Errorf("writing result: %w", err)
		}
	}

	root.Bind("", final, evaluator.Borrow)
	root.Leave()
	res.Stats = heap.Stats()

	if b.Ledger != nil {
		if err := b.Ledger.Finish(res.Stats, res.Value); err != nil {
			return res, err
		}
	}
	return res, writeErr
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
