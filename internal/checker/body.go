package checker

import (
	"fmt"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
)

// bodyChecker checks clause bodies bidirectionally against the types
// produced by the elimination compiler.
type bodyChecker struct {
	env *Env
	ctx *elim.Context
}

func (bc *bodyChecker) errorf(node ast.Node, format string, args ...interface{}) error {
	return diagnostics.NewError(diagnostics.ErrE007, node.GetToken(), fmt.Sprintf(format, args...))
}

func (bc *bodyChecker) check(e ast.Expression, expected core.Expr) (core.Expr, error) {
	want := core.Normalize(expected)

	switch e := e.(type) {
	case *ast.TupleLiteral:
		sig, ok := want.(*core.Sigma)
		if !ok {
			return nil, bc.errorf(e, "a tuple cannot have type %s", expected)
		}
		if len(sig.Params) != len(e.Elements) {
			return nil, bc.errorf(e, "expected a tuple of %d fields, got %d", len(sig.Params), len(e.Elements))
		}
		var s core.Subst
		fields := make([]core.Expr, len(e.Elements))
		for i, el := range e.Elements {
			f, err := bc.check(el, core.Apply(sig.Params[i].Type, s))
			if err != nil {
				return nil, err
			}
			fields[i] = f
			s = s.Extend(sig.Params[i], f)
		}
		return &core.Tuple{Fields: fields}, nil

	case *ast.Identifier:
		if dc, ok := want.(*core.DataCall); ok && !bc.isVar(e.Value) {
			if c := dc.Data.Constructor(e.Value); c != nil {
				return bc.checkConstructor(e, c, nil, dc)
			}
		}

	case *ast.CallExpression:
		if head, ok := e.Function.(*ast.Identifier); ok && !bc.isVar(head.Value) {
			if dc, ok := want.(*core.DataCall); ok {
				if c := dc.Data.Constructor(head.Value); c != nil {
					return bc.checkConstructor(e, c, e.Arguments, dc)
				}
			}
		}
	}

	term, typ, err := bc.infer(e)
	if err != nil {
		return nil, err
	}
	if !core.Equal(typ, expected) {
		return nil, bc.errorf(e, "type mismatch: expected %s, got %s", expected, typ)
	}
	return term, nil
}

func (bc *bodyChecker) isVar(name string) bool {
	_, ok := bc.ctx.Lookup(name)
	return ok
}

// checkConstructor checks a constructor application against the data
// type instance dc. The constructor's indices must agree with dc without
// refining anything.
func (bc *bodyChecker) checkConstructor(node ast.Node, c *core.Constructor, args []ast.Expression, dc *core.DataCall) (core.Expr, error) {
	match := core.UnifyIndices(c, dc.Args)
	if match.Outcome == core.Excluded || !match.Refine.IsEmpty() || len(match.Fresh) > 0 {
		return nil, bc.errorf(node, "constructor %s does not construct %s", c.Name, dc)
	}
	params, _ := c.Params.Subst(match.Subst)
	checked, err := bc.checkArgs(node, c.Name, params, args)
	if err != nil {
		return nil, err
	}
	return &core.ConCall{Con: c, DataArgs: dc.Args, Args: checked}, nil
}

// checkArgs checks explicit arguments against params, instantiating
// later parameter types with earlier arguments.
func (bc *bodyChecker) checkArgs(node ast.Node, what string, params core.Telescope, args []ast.Expression) ([]core.Expr, error) {
	if params.ExplicitCount() != len(params) {
		return nil, bc.errorf(node, "cannot infer implicit arguments of %s", what)
	}
	if len(args) != len(params) {
		return nil, bc.errorf(node, "%s expects %d arguments, got %d", what, len(params), len(args))
	}
	var s core.Subst
	out := make([]core.Expr, len(args))
	for i, a := range args {
		term, err := bc.check(a, core.Apply(params[i].Type, s))
		if err != nil {
			return nil, err
		}
		out[i] = term
		s = s.Extend(params[i], term)
	}
	return out, nil
}

func (bc *bodyChecker) infer(e ast.Expression) (core.Expr, core.Expr, error) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return &core.Lit{Value: e.Value}, core.NatType(), nil

	case *ast.Identifier:
		return bc.inferHead(e, nil)

	case *ast.CallExpression:
		head, ok := e.Function.(*ast.Identifier)
		if !ok {
			return nil, nil, bc.errorf(e, "application head must be a name")
		}
		return bc.inferHead(head, e.Arguments)

	case *ast.UniverseExpression, *ast.ArrowType, *ast.SigmaType:
		sc := newScope()
		for _, v := range bc.ctx.Vars() {
			if ref, ok := v.Value.(*core.Ref); ok {
				sc = scope{names: sc.names.Put(v.Name, ref.Binding)}
			}
		}
		typ, err := bc.env.elabType(e, sc)
		if err != nil {
			return nil, nil, err
		}
		return typ, &core.Universe{}, nil

	case *ast.TupleLiteral:
		return nil, nil, bc.errorf(e, "cannot infer the type of a tuple")
	}
	return nil, nil, bc.errorf(e, "unexpected %s", e.TokenLiteral())
}

func (bc *bodyChecker) inferHead(ident *ast.Identifier, args []ast.Expression) (core.Expr, core.Expr, error) {
	name := ident.Value

	if v, ok := bc.ctx.Lookup(name); ok {
		if len(args) == 0 {
			return v.Value, v.Type, nil
		}
		return bc.inferApp(ident, v.Value, v.Type, args)
	}

	if fn := bc.env.Function(name); fn != nil {
		ref := &core.Ref{Binding: fn}
		if len(args) == 0 {
			return ref, fn.Type, nil
		}
		return bc.inferApp(ident, ref, fn.Type, args)
	}

	if d := bc.env.Data(name); d != nil {
		checked, err := bc.checkArgs(ident, name, d.Params, args)
		if err != nil {
			return nil, nil, err
		}
		return &core.DataCall{Data: d, Args: checked}, &core.Universe{}, nil
	}

	if bc.env.IsConstructor(name) {
		cons := bc.env.constructors[name]
		c := cons[len(cons)-1]
		if len(c.Data.Params) > 0 {
			return nil, nil, bc.errorf(ident, "cannot infer the data type arguments of %s", name)
		}
		dc := &core.DataCall{Data: c.Data}
		term, err := bc.checkConstructor(ident, c, args, dc)
		if err != nil {
			return nil, nil, err
		}
		return term, dc, nil
	}

	return nil, nil, diagnostics.NewError(diagnostics.ErrA001, ident.Token, name)
}

// inferApp applies fn of type fnType to args.
func (bc *bodyChecker) inferApp(node ast.Node, fn core.Expr, fnType core.Expr, args []ast.Expression) (core.Expr, core.Expr, error) {
	pi, ok := core.Normalize(fnType).(*core.Pi)
	if !ok {
		return nil, nil, bc.errorf(node, "%s is not a function", fn)
	}
	checked, err := bc.checkArgs(node, fn.String(), pi.Params, args)
	if err != nil {
		return nil, nil, err
	}
	return &core.App{Fn: fn, Args: checked}, core.Apply(pi.Cod, core.SubstOf(pi.Params, checked)), nil
}
