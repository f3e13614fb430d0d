package checker

import (
	"fmt"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
)

// DeclareData elaborates a data declaration and adds it to the
// environment. The data type is visible in its own constructors.
func (env *Env) DeclareData(decl *ast.DataDeclaration) (*core.DataDef, error) {
	name := decl.Name.Value
	if env.data[name] != nil {
		return nil, diagnostics.NewError(diagnostics.ErrA002, decl.Name.Token,
			fmt.Sprintf("data type %s is already defined", name))
	}

	params, sc, err := env.elabTelescope(decl.Params, newScope())
	if err != nil {
		return nil, err
	}
	data := &core.DataDef{Name: name, Params: params}
	env.data[name] = data

	var eliminated []int
	for _, id := range decl.Eliminated {
		idx := params.IndexOf(id.Value)
		if idx < 0 {
			delete(env.data, name)
			return nil, diagnostics.NewError(diagnostics.ErrA002, id.Token,
				fmt.Sprintf("no parameter named %s", id.Value))
		}
		eliminated = append(eliminated, idx)
	}

	for _, cd := range decl.Constructors {
		con, err := env.elabConstructor(data, cd, sc, eliminated, decl.Eliminated != nil)
		if err != nil {
			delete(env.data, name)
			return nil, err
		}
		data.Constructors = append(data.Constructors, con)
	}

	delete(env.data, name)
	env.addData(data)
	return data, nil
}

func (env *Env) elabConstructor(data *core.DataDef, cd *ast.ConstructorDeclaration, sc scope, eliminated []int, indexed bool) (*core.Constructor, error) {
	con := &core.Constructor{Name: cd.Name.Value, Data: data}
	if data.Constructor(con.Name) != nil {
		return nil, diagnostics.NewError(diagnostics.ErrA002, cd.Token,
			fmt.Sprintf("constructor %s is already defined in %s", con.Name, data.Name))
	}

	if indexed {
		if len(cd.Patterns) != len(eliminated) {
			return nil, diagnostics.NewError(diagnostics.ErrA002, cd.Token,
				fmt.Sprintf("constructor %s: expected %d index patterns, got %d", con.Name, len(eliminated), len(cd.Patterns)))
		}
		isEliminated := make(map[int]int, len(eliminated))
		for k, idx := range eliminated {
			isEliminated[idx] = k
		}

		// Eliminated parameters are replaced by the variables of their
		// patterns; the others stay in scope as they are.
		sc = newScope()
		con.Patterns = make([]core.Pattern, len(data.Params))
		for i, p := range data.Params {
			k, ok := isEliminated[i]
			if !ok {
				con.Patterns[i] = &core.PVar{Binding: p}
				sc = sc.with(p)
				continue
			}
			pat, inner, err := env.elabIndexPattern(cd.Patterns[k], p.Type, sc)
			if err != nil {
				return nil, err
			}
			con.Patterns[i] = pat
			sc = inner
		}
	}

	params, _, err := env.elabTelescope(cd.Params, sc)
	if err != nil {
		return nil, err
	}
	con.Params = params
	return con, nil
}

// elabIndexPattern converts a surface index pattern matched against a
// value of type typ.
func (env *Env) elabIndexPattern(p ast.Pattern, typ core.Expr, sc scope) (core.Pattern, scope, error) {
	dc, _ := core.Normalize(typ).(*core.DataCall)

	switch p := p.(type) {
	case *ast.WildcardPattern:
		if dc != nil && p.Name != "" {
			if c := dc.Data.Constructor(p.Name); c != nil {
				return &core.PCon{Con: c}, sc, nil
			}
		}
		b := core.NewBinding(p.Name, typ, true)
		return &core.PVar{Binding: b}, sc.with(b), nil

	case *ast.LiteralPattern:
		if dc == nil || !dc.Data.IsNat {
			return nil, sc, diagnostics.NewError(diagnostics.ErrE002, p.Token, typ.String())
		}
		return natPattern(p.Value), sc, nil

	case *ast.ConstructorPattern:
		if dc == nil {
			return nil, sc, diagnostics.NewError(diagnostics.ErrE002, p.Token, typ.String())
		}
		c := dc.Data.Constructor(p.Name.Value)
		if c == nil {
			return nil, sc, diagnostics.NewError(diagnostics.ErrE008, p.Token, p.Name.Value, dc.Data.Name)
		}
		if len(p.Arguments) != len(c.Params) {
			return nil, sc, diagnostics.NewError(diagnostics.ErrE001, p.Token,
				fmt.Sprintf("constructor %s expects %d arguments, got %d", c.Name, len(c.Params), len(p.Arguments)))
		}
		argSubst := core.SubstOf(dc.Data.Params, dc.Args)
		pcon := &core.PCon{Con: c}
		for i, a := range p.Arguments {
			sub, inner, err := env.elabIndexPattern(a, core.Apply(c.Params[i].Type, argSubst), sc)
			if err != nil {
				return nil, sc, err
			}
			pcon.Args = append(pcon.Args, sub)
			sc = inner
		}
		return pcon, sc, nil
	}
	return nil, sc, diagnostics.NewError(diagnostics.ErrA002, p.GetToken(),
		fmt.Sprintf("pattern %s is not allowed in a data declaration", p))
}

func natPattern(n int64) core.Pattern {
	var p core.Pattern = &core.PCon{Con: core.Zero}
	for i := int64(0); i < n; i++ {
		p = &core.PCon{Con: core.Suc, Args: []core.Pattern{p}}
	}
	return p
}
