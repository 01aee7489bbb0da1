package pipeline

import (
	"github.com/funvibe/lifetime/internal/ast"
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/token"
)

// PipelineContext carries the state shared by all processing stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Program

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}

// Processor is a single stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}
