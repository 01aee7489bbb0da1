package backend

import (
	"strings"

	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/token"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend

	// Result of the last run, nil if execution did not happen.
	Result *Result
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	p.Result = result
	if err != nil {
		p.handleError(ctx, err)
	}
	// An error value as the result is program output, not a failure.
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	msg := strings.TrimPrefix(err.Error(), "runtime error: ")
	diag := diagnostics.NewError(
		diagnostics.ErrR001,
		token.Token{}, // host failures have no source position
		"%s", msg,
	)
	diag.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, diag)
}
