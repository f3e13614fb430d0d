// Package checker elaborates a parsed program: data declarations become
// core data types and every function is compiled by the elimination
// compiler with Env as its oracle.
package checker

import (
	"errors"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/pipeline"
)

type Checker struct {
	env      *Env
	reporter diagnostics.Reporter
	opts     elim.Options
}

func New(reporter diagnostics.Reporter, opts elim.Options) *Checker {
	return &Checker{env: NewEnv(), reporter: reporter, opts: opts}
}

func (c *Checker) Env() *Env { return c.env }

// signature is a function header elaborated before any body is checked,
// so that functions may call each other.
type signature struct {
	decl   *ast.FunctionDeclaration
	params core.Telescope
	result core.Expr
}

// CheckProgram checks every declaration of program in order. Data types
// are declared first; a definition that fails does not stop the others.
func (c *Checker) CheckProgram(program *ast.Program) []*pipeline.Definition {
	for _, stmt := range program.Statements {
		if decl, ok := stmt.(*ast.DataDeclaration); ok {
			if _, err := c.env.DeclareData(decl); err != nil {
				c.report(err)
			}
		}
	}

	var sigs []*signature
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		sig, err := c.declareFunction(decl)
		if err != nil {
			c.report(err)
			continue
		}
		sigs = append(sigs, sig)
	}

	compiler := elim.New(c.env, c.env, c.reporter, c.opts)
	defs := make([]*pipeline.Definition, 0, len(sigs))
	for _, sig := range sigs {
		defs = append(defs, c.compile(compiler, sig))
	}
	return defs
}

func (c *Checker) declareFunction(decl *ast.FunctionDeclaration) (*signature, error) {
	if c.env.functions[decl.Name.Value] != nil {
		return nil, diagnostics.NewError(diagnostics.ErrA002, decl.Name.Token, "function "+decl.Name.Value+" is already defined")
	}
	params, sc, err := c.env.elabTelescope(decl.Params, newScope())
	if err != nil {
		return nil, err
	}
	result, err := c.env.elabType(decl.ResultType, sc)
	if err != nil {
		return nil, err
	}
	var typ core.Expr = result
	if len(params) > 0 {
		typ = &core.Pi{Params: params, Cod: result}
	}
	c.env.functions[decl.Name.Value] = core.NewBinding(decl.Name.Value, typ, true)
	return &signature{decl: decl, params: params, result: result}, nil
}

func (c *Checker) compile(compiler *elim.Compiler, sig *signature) *pipeline.Definition {
	decl := sig.decl
	for _, clause := range decl.Clauses {
		c.env.resolvePatterns(clause)
	}

	var eliminated []string
	for _, id := range decl.Eliminated {
		eliminated = append(eliminated, id.Value)
	}

	result, err := compiler.Compile(&elim.Input{
		Name:       decl.Name.Value,
		Params:     sig.params,
		ResultType: sig.result,
		Eliminated: eliminated,
		Clauses:    decl.Clauses,
		Token:      decl.Name.Token,
	})
	return &pipeline.Definition{
		Name:   decl.Name.Value,
		Token:  decl.Name.Token,
		Decl:   decl,
		Result: result,
		Err:    err,
	}
}

func (c *Checker) report(err error) {
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		c.reporter.Report(diag)
	}
}
