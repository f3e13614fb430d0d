package pipeline

import (
	"log"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/token"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one source file through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string
	Config     *config.Config
	Logger     *log.Logger // nil disables tracing

	Tokens  []token.Token
	AstRoot *ast.Program

	// Definitions holds one entry per function declaration, in source order.
	Definitions []*Definition

	Errors []*diagnostics.DiagnosticError
}

// Definition is the outcome of checking one function declaration.
type Definition struct {
	Name   string
	Token  token.Token
	Decl   *ast.FunctionDeclaration
	Result *elim.Result
	Err    error // *elim.MissingClausesError or a fatal diagnostic
	Digest string
	RunID  string
	Cached bool // an identical definition was already stored by an earlier run
}

// OK reports whether the definition compiled without errors.
func (d *Definition) OK() bool {
	return d.Err == nil && d.Result != nil && !d.Result.HasErrors
}

// HasErrors reports whether any diagnostic of error severity was recorded.
func (ctx *PipelineContext) HasErrors() bool {
	for _, err := range ctx.Errors {
		if !err.IsWarning() {
			return true
		}
	}
	return false
}

// Report implements diagnostics.Reporter.
func (ctx *PipelineContext) Report(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}

func (ctx *PipelineContext) Logf(format string, args ...interface{}) {
	if ctx.Logger != nil {
		ctx.Logger.Printf(format, args...)
	}
}
