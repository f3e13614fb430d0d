package checker

import (
	"fmt"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/pmap"
)

// scope maps source names to bindings. It is persistent.
type scope struct {
	names *pmap.Map[string, *core.Binding]
}

func newScope() scope { return scope{names: pmap.NewString[*core.Binding]()} }

func (s scope) with(b *core.Binding) scope {
	if b.Name == "" || b.Name == "_" {
		return s
	}
	return scope{names: s.names.Put(b.Name, b)}
}

func (s scope) lookup(name string) (*core.Binding, bool) { return s.names.Get(name) }

// elabTelescope turns binder groups into a telescope, extending sc as it goes.
func (env *Env) elabTelescope(params []*ast.Param, sc scope) (core.Telescope, scope, error) {
	var tele core.Telescope
	for _, p := range params {
		typ, err := env.elabType(p.Type, sc)
		if err != nil {
			return nil, sc, err
		}
		if len(p.Names) == 0 {
			b := core.NewBinding("", typ, p.Explicit)
			tele = append(tele, b)
			continue
		}
		for _, name := range p.Names {
			b := core.NewBinding(name.Value, typ, p.Explicit)
			tele = append(tele, b)
			sc = sc.with(b)
		}
	}
	return tele, sc, nil
}

// elabType elaborates a type expression. Terms may occur inside types
// (indices), so this is also the elaborator for index arguments.
func (env *Env) elabType(e ast.Expression, sc scope) (core.Expr, error) {
	switch e := e.(type) {
	case *ast.UniverseExpression:
		return &core.Universe{}, nil

	case *ast.IntegerLiteral:
		return &core.Lit{Value: e.Value}, nil

	case *ast.Identifier:
		return env.elabHead(e, nil, sc)

	case *ast.CallExpression:
		ident, ok := e.Function.(*ast.Identifier)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrA002, e.Token, "application head must be a name")
		}
		args := make([]core.Expr, len(e.Arguments))
		for i, a := range e.Arguments {
			arg, err := env.elabType(a, sc)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return env.elabHead(ident, args, sc)

	case *ast.ArrowType:
		params, inner, err := env.elabTelescope(e.Params, sc)
		if err != nil {
			return nil, err
		}
		cod, err := env.elabType(e.Result, inner)
		if err != nil {
			return nil, err
		}
		return &core.Pi{Params: params, Cod: cod}, nil

	case *ast.SigmaType:
		params, _, err := env.elabTelescope(e.Params, sc)
		if err != nil {
			return nil, err
		}
		return &core.Sigma{Params: params}, nil

	case *ast.TupleLiteral:
		fields := make([]core.Expr, len(e.Elements))
		for i, el := range e.Elements {
			f, err := env.elabType(el, sc)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return &core.Tuple{Fields: fields}, nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrA002, e.GetToken(), fmt.Sprintf("unexpected %s in a type", e.TokenLiteral()))
}

// elabHead resolves a name applied to args: a variable, a data type, a
// constructor or a function.
func (env *Env) elabHead(ident *ast.Identifier, args []core.Expr, sc scope) (core.Expr, error) {
	name := ident.Value
	if b, ok := sc.lookup(name); ok {
		if len(args) == 0 {
			return &core.Ref{Binding: b}, nil
		}
		return &core.App{Fn: &core.Ref{Binding: b}, Args: args}, nil
	}
	if d := env.data[name]; d != nil {
		if len(args) != len(d.Params) {
			return nil, diagnostics.NewError(diagnostics.ErrA002, ident.Token,
				fmt.Sprintf("data type %s expects %d arguments, got %d", name, len(d.Params), len(args)))
		}
		return &core.DataCall{Data: d, Args: args}, nil
	}
	if cons := env.constructors[name]; len(cons) > 0 {
		return &core.ConCall{Con: cons[len(cons)-1], Args: args}, nil
	}
	if fn := env.functions[name]; fn != nil {
		if len(args) == 0 {
			return &core.Ref{Binding: fn}, nil
		}
		return &core.App{Fn: &core.Ref{Binding: fn}, Args: args}, nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrA001, ident.Token, name)
}
