package lexer

import (
	"github.com/funvibe/elimc/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = New(ctx.SourceCode).Tokenize()
	return ctx
}
