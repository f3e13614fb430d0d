package checker

import (
	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/elim"
)

// Env holds the global definitions of a program. It is the constructor
// catalog and the type-checking oracle used by the elimination compiler.
type Env struct {
	data         map[string]*core.DataDef
	constructors map[string][]*core.Constructor
	functions    map[string]*core.Binding
	dataOrder    []*core.DataDef
}

// NewEnv returns an environment holding the prelude (Nat and I).
func NewEnv() *Env {
	env := &Env{
		data:         make(map[string]*core.DataDef),
		constructors: make(map[string][]*core.Constructor),
		functions:    make(map[string]*core.Binding),
	}
	env.addData(core.Nat)
	env.addData(core.Interval)
	return env
}

func (env *Env) addData(d *core.DataDef) {
	env.data[d.Name] = d
	env.dataOrder = append(env.dataOrder, d)
	for _, c := range d.Constructors {
		env.constructors[c.Name] = append(env.constructors[c.Name], c)
	}
}

// Data returns the data type named name, or nil.
func (env *Env) Data(name string) *core.DataDef { return env.data[name] }

// DataTypes returns the data types in declaration order, prelude first.
func (env *Env) DataTypes() []*core.DataDef { return env.dataOrder }

// Function returns the binding standing for a declared function.
func (env *Env) Function(name string) *core.Binding { return env.functions[name] }

// IsConstructor reports whether some data type has a constructor named name.
func (env *Env) IsConstructor(name string) bool { return len(env.constructors[name]) > 0 }

// ConstructorsOf implements elim.Catalog. Admissibility by indices is
// left to UnifyIndices.
func (env *Env) ConstructorsOf(data *core.DataDef, args []core.Expr) []*core.Constructor {
	return data.Constructors
}

// Lookup implements elim.Catalog.
func (env *Env) Lookup(data *core.DataDef, name string) *core.Constructor {
	return data.Constructor(name)
}

func (env *Env) Normalize(e core.Expr) core.Expr { return core.Normalize(e) }

func (env *Env) UnifyIndices(c *core.Constructor, args []core.Expr) core.Match {
	return core.UnifyIndices(c, args)
}

// CheckBody implements elim.Oracle.
func (env *Env) CheckBody(body ast.Expression, expected core.Expr, ctx *elim.Context) (core.Expr, error) {
	bc := &bodyChecker{env: env, ctx: ctx}
	return bc.check(body, expected)
}

var (
	_ elim.Oracle  = (*Env)(nil)
	_ elim.Catalog = (*Env)(nil)
)
