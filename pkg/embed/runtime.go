// Package lifetime embeds the interpreter in Go programs.
package lifetime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/funvibe/lifetime/internal/backend"
	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/evaluator"
	"github.com/funvibe/lifetime/internal/ledger"
	"github.com/funvibe/lifetime/internal/lexer"
	"github.com/funvibe/lifetime/internal/parser"
	"github.com/funvibe/lifetime/internal/pipeline"
)

// Result of one run.
type Result struct {
	// Output is what builtins such as puts printed.
	Output string
	// Value is the rendered result of main.
	Value string
	// Native is the result of main converted to Go.
	Native interface{}
	// Diagnostics are the error lines reported during evaluation.
	Diagnostics []string
	// Live counts heap blocks not released after the run. Always zero
	// unless the ownership discipline was broken.
	Live  int
	RunID string
}

// DiagnosticsError carries the compile or host diagnostics of a failed
// run.
type DiagnosticsError struct {
	Errors []error
}

func (e *DiagnosticsError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e *DiagnosticsError) Unwrap() []error { return e.Errors }

type binding struct {
	name  string
	value interface{}
}

// Runtime runs programs. Bound Go values are installed into the root scope
// of every run.
type Runtime struct {
	ctx         context.Context
	settings    *config.Settings
	nativeCalls bool
	observers   []evaluator.Observer
	ledger      *ledger.Ledger
	bindings    []binding
}

type Option func(*Runtime)

func WithContext(ctx context.Context) Option {
	return func(r *Runtime) { r.ctx = ctx }
}

// WithSettings applies a copy of s; later changes to s have no effect.
// A nil s is ignored.
func WithSettings(s *config.Settings) Option {
	return func(r *Runtime) {
		if s == nil {
			return
		}
		copied := *s
		r.settings = &copied
		r.nativeCalls = r.nativeCalls || s.NativeCalls
	}
}

func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		copied := *r.settings
		copied.MaxDepth = n
		r.settings = &copied
	}
}

// WithNativeCalls lets programs call builtins and bound Go functions.
func WithNativeCalls() Option {
	return func(r *Runtime) { r.nativeCalls = true }
}

func WithObserver(o evaluator.Observer) Option {
	return func(r *Runtime) { r.observers = append(r.observers, o) }
}

func WithLedger(l *ledger.Ledger) Option {
	return func(r *Runtime) { r.ledger = l }
}

func New(opts ...Option) *Runtime {
	r := &Runtime{settings: config.DefaultSettings()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind makes a Go value available to programs under name. Binding a
// function enables native calls.
func (r *Runtime) Bind(name string, val interface{}) {
	r.bindings = append(r.bindings, binding{name: name, value: val})
	if val != nil && reflect.TypeOf(val).Kind() == reflect.Func {
		r.nativeCalls = true
	}
}

// Run evaluates source and returns the result of main. Runtime errors are
// part of the Result; the error return is for compile errors and host
// failures.
func (r *Runtime) Run(source string) (*Result, error) {
	return r.run(source, "<embed>")
}

// RunFile evaluates the program stored at path.
func (r *Runtime) RunFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.run(string(data), path)
}

func (r *Runtime) run(source, file string) (*Result, error) {
	var out, diag bytes.Buffer
	var native interface{}
	var captureErr error

	b := backend.NewTreeWalk()
	b.Configure(r.settings)
	b.Context = r.ctx
	b.Out = &out
	b.Diag = &diag
	b.Quiet = true
	b.NativeCalls = r.nativeCalls
	b.Observers = r.observers
	b.Ledger = r.ledger
	b.Prelude = func(root *evaluator.Scope) error {
		m := NewMarshaller(root.Heap())
		for _, bnd := range r.bindings {
			v, err := m.ToValue(bnd.value)
			if err != nil {
				return fmt.Errorf("binding %s: %w", bnd.name, err)
			}
			if fn, ok := v.(*evaluator.Function); ok && fn.Name == "" {
				fn.Name = bnd.name
			}
			root.Bind(bnd.name, v, evaluator.Owner)
		}
		return nil
	}
	b.Capture = func(v evaluator.Value) {
		native, captureErr = NewMarshaller(nil).FromValue(v, nil)
	}

	exec := backend.NewExecutionProcessor(b)
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, exec).
		Run(&pipeline.PipelineContext{SourceCode: source, FilePath: file})

	if len(ctx.Errors) > 0 {
		errs := make([]error, len(ctx.Errors))
		for i, e := range ctx.Errors {
			errs[i] = e
		}
		return nil, &DiagnosticsError{Errors: errs}
	}
	res := exec.Result
	if res == nil {
		return nil, errors.New("program did not run")
	}

	result := &Result{
		Output: out.String(),
		Value:  res.Value,
		Native: native,
		Live:   res.Stats.Live,
		RunID:  res.RunID,
	}
	if d := strings.TrimSuffix(diag.String(), "\n"); d != "" {
		result.Diagnostics = strings.Split(d, "\n")
	}
	if captureErr != nil {
		return result, fmt.Errorf("converting result: %w", captureErr)
	}
	return result, nil
}
