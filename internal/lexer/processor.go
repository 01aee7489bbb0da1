package lexer

import (
	"github.com/funvibe/lifetime/internal/diagnostics"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = New(ctx.SourceCode).Tokenize()

	for _, tok := range ctx.Tokens {
		if tok.Type != token.ILLEGAL {
			continue
		}
		code := diagnostics.ErrL001
		if tok.Literal == "unterminated string" {
			code = diagnostics.ErrL002
		}
		err := diagnostics.NewError(code, tok, "%s", tok.Literal)
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
