// Package elim compiles pattern-matching clauses over a dependent
// telescope into an elimination tree. It checks coverage, reports
// redundant clauses and produces witnesses for missing ones.
package elim

import (
	"errors"
	"fmt"
	"log"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/token"
)

// Oracle is the type checker the compiler delegates to.
type Oracle interface {
	Normalize(e core.Expr) core.Expr
	CheckBody(body ast.Expression, expected core.Expr, ctx *Context) (core.Expr, error)
	UnifyIndices(c *core.Constructor, args []core.Expr) core.Match
}

// Catalog lists the constructors of data types.
type Catalog interface {
	ConstructorsOf(data *core.DataDef, args []core.Expr) []*core.Constructor
	Lookup(data *core.DataDef, name string) *core.Constructor
}

type Options struct {
	AllowInterval       bool
	MissingClausesLimit int
	// MaxNumberPattern bounds number literals in patterns.
	MaxNumberPattern int
	Logger           *log.Logger
}

// Input is one definition by pattern matching.
type Input struct {
	Name       string
	Params     core.Telescope
	ResultType core.Expr
	Eliminated []string // nil: every parameter is eliminated
	Clauses    []*ast.Clause
	Token      token.Token
}

type Result struct {
	Tree      Tree
	Missing   []Witness
	Truncated bool
	Redundant []*ast.Clause
	HasErrors bool
}

type Compiler struct {
	oracle   Oracle
	catalog  Catalog
	reporter diagnostics.Reporter
	opts     Options
}

func New(oracle Oracle, catalog Catalog, reporter diagnostics.Reporter, opts Options) *Compiler {
	if opts.MissingClausesLimit <= 0 {
		opts.MissingClausesLimit = config.DefaultMissingClausesLimit
	}
	if opts.MaxNumberPattern <= 0 {
		opts.MaxNumberPattern = config.DefaultMaxNumberPattern
	}
	if reporter == nil {
		reporter = diagnostics.ReporterFunc(func(*diagnostics.DiagnosticError) {})
	}
	return &Compiler{oracle: oracle, catalog: catalog, reporter: reporter, opts: opts}
}

// compilation is the state of one Compile call.
type compilation struct {
	*Compiler
	in     *Input
	used   *set.Set[*ast.Clause]
	result *Result
	// order lists the parameter positions in the order witnesses print
	// them; nil keeps the telescope order.
	order []int
}

// Compile builds the elimination tree of in. A definition with missing
// clauses yields the partial tree and a *MissingClausesError; a
// structural error aborts with a *diagnostics.DiagnosticError. Every
// diagnostic is also sent to the reporter.
func (c *Compiler) Compile(in *Input) (*Result, error) {
	run := &compilation{
		Compiler: c,
		in:       in,
		used:     set.New[*ast.Clause](len(in.Clauses)),
		result:   &Result{},
	}

	m, err := run.align()
	if err != nil {
		return run.fail(err)
	}
	tree, err := run.build(m)
	if err != nil {
		return run.fail(err)
	}
	run.result.Tree = tree

	run.reportRedundant()
	if err := run.reportMissing(); err != nil {
		return run.result, err
	}
	return run.result, nil
}

// build runs one node: prune shadowed rows, reduce variable columns,
// then either elaborate a leaf or split the head column.
func (run *compilation) build(m *matrix) (Tree, error) {
	m.prune()
	m = run.reduce(m)
	if len(m.tele) == 0 {
		return run.leaf(m)
	}
	return run.split(m)
}

func (run *compilation) fail(err error) (*Result, error) {
	run.result.HasErrors = true
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		run.reporter.Report(diag)
	}
	return run.result, err
}

func (run *compilation) tracef(format string, args ...interface{}) {
	if run.opts.Logger != nil {
		run.opts.Logger.Printf("elim %s: %s", run.in.Name, fmt.Sprintf(format, args...))
	}
}
