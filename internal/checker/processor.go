package checker

import (
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/pipeline"
)

// CheckerProcessor checks the parsed program. A file with parse errors
// is not checked.
type CheckerProcessor struct{}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	cfg := ctx.Config
	if cfg == nil {
		cfg = config.Default()
	}
	checker := New(ctx, elim.Options{
		AllowInterval:       cfg.AllowInterval,
		MissingClausesLimit: cfg.MissingClausesLimit,
		MaxNumberPattern:    cfg.MaxNumberPattern,
		Logger:              ctx.Logger,
	})
	ctx.Definitions = checker.CheckProgram(ctx.AstRoot)
	for _, def := range ctx.Definitions {
		ctx.Logf("checked %s: ok=%t", def.Name, def.OK())
	}
	return ctx
}
