package store

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/prettyprinter"
)

// StoreProcessor records every checked definition. It runs after the
// checker; a nil Store makes it a no-op. Cache failures are logged and
// never fail the run.
type StoreProcessor struct {
	Store *Store
}

func (sp *StoreProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if sp.Store == nil || ctx.AstRoot == nil || len(ctx.Definitions) == 0 {
		return ctx
	}

	runID, err := sp.Store.BeginRun(ctx.FilePath)
	if err != nil {
		ctx.Logf("cache: %v", err)
		return ctx
	}

	var (
		data  []string
		funcs []*ast.FunctionDeclaration
	)
	for _, stmt := range ctx.AstRoot.Statements {
		switch d := stmt.(type) {
		case *ast.DataDeclaration:
			data = append(data, prettyprinter.Print(d))
		case *ast.FunctionDeclaration:
			funcs = append(funcs, d)
		}
	}
	settings := Settings(ctx.Config)

	for _, def := range ctx.Definitions {
		deps := append(data[:len(data):len(data)], signatures(def.Decl, funcs)...)
		def.Digest = Digest(prettyprinter.Print(def.Decl), deps, settings)
		def.RunID = runID

		if _, found, err := sp.Store.Lookup(def.Name, def.Digest); err != nil {
			ctx.Logf("cache: %v", err)
		} else if found {
			def.Cached = true
		}

		rec := &Record{
			Name:        def.Name,
			Digest:      def.Digest,
			RunID:       runID,
			OK:          def.OK(),
			Snapshot:    prettyprinter.NewSnapshot(def),
			Diagnostics: diagnosticsFor(ctx, def.Decl),
		}
		if err := sp.Store.Put(rec); err != nil {
			ctx.Logf("cache: %v", err)
			continue
		}
		ctx.Logf("cached %s %s (seen before: %t)", def.Name, def.Digest[:12], def.Cached)
	}
	return ctx
}

// Settings renders the configuration values that change compilation
// results.
func Settings(cfg *config.Config) string {
	if cfg == nil {
		cfg = config.Default()
	}
	return fmt.Sprintf("limit=%d interval=%t numbers=%d", cfg.MissingClausesLimit, cfg.AllowInterval, cfg.MaxNumberPattern)
}

// signatures returns the printed headers of the other functions decl
// mentions, in source order. Their types decide how decl's bodies check.
func signatures(decl *ast.FunctionDeclaration, funcs []*ast.FunctionDeclaration) []string {
	names := set.New[string](8)
	for _, p := range decl.Params {
		collectNames(p.Type, names)
	}
	collectNames(decl.ResultType, names)
	for _, c := range decl.Clauses {
		collectNames(c.Body, names)
	}

	var out []string
	for _, fn := range funcs {
		if fn == decl || !names.Contains(fn.Name.Value) {
			continue
		}
		header, _, _ := strings.Cut(prettyprinter.Print(fn), "\n")
		out = append(out, header)
	}
	return out
}

func collectNames(e ast.Expression, names *set.Set[string]) {
	switch e := e.(type) {
	case *ast.Identifier:
		names.Insert(e.Value)
	case *ast.CallExpression:
		collectNames(e.Function, names)
		for _, a := range e.Arguments {
			collectNames(a, names)
		}
	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			collectNames(el, names)
		}
	case *ast.ArrowType:
		for _, p := range e.Params {
			collectNames(p.Type, names)
		}
		collectNames(e.Result, names)
	case *ast.SigmaType:
		for _, p := range e.Params {
			collectNames(p.Type, names)
		}
	}
}

// diagnosticsFor selects the diagnostics positioned between decl and the
// next top-level statement.
func diagnosticsFor(ctx *pipeline.PipelineContext, decl *ast.FunctionDeclaration) []string {
	start := decl.Token.Line
	end := -1
	for i, stmt := range ctx.AstRoot.Statements {
		if stmt == decl && i+1 < len(ctx.AstRoot.Statements) {
			end = ctx.AstRoot.Statements[i+1].GetToken().Line
		}
	}

	var out []string
	for _, d := range ctx.Errors {
		line := d.Token.Line
		if line < start || (end >= 0 && line >= end) {
			continue
		}
		out = append(out, format(d))
	}
	return out
}

func format(d *diagnostics.DiagnosticError) string {
	return fmt.Sprintf("%d:%d: %s %s: %s", d.Token.Line, d.Token.Column, d.Severity, d.Code, d.Message())
}
