package parser

import (
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	// Lexical errors are already reported; parsing around ILLEGAL tokens
	// would only add noise.
	if ctx.HasErrors() {
		return ctx
	}

	parser := New(ctx.Tokens, ctx)
	ctx.AstRoot = parser.ParseProgram()
	return ctx
}
