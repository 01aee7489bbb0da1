// Package backend runs a parsed program.
package backend

import (
	"github.com/funvibe/lifetime/internal/evaluator"
	"github.com/funvibe/lifetime/internal/pipeline"
)

// Result describes a finished run. Payloads are released when the root
// scope exits, so the final value is kept in rendered form.
type Result struct {
	Value string
	Type  evaluator.ValueType
	Stats evaluator.HeapStats
	RunID string
}

// IsError reports whether the program evaluated to an error value.
func (r *Result) IsError() bool {
	return r.Type == evaluator.ERROR_VAL
}

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the result
	Run(ctx *pipeline.PipelineContext) (*Result, error)

	// Name returns the backend name for display
	Name() string
}
