package parser

import (
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.Tokens, ctx)
	ctx.AstRoot = parser.ParseProgram()

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
