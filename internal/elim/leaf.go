package elim

import (
	"errors"

	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
)

// leaf elaborates the first row of a node whose telescope is exhausted.
// With no row left the path is a missing clause.
func (run *compilation) leaf(m *matrix) (Tree, error) {
	if len(m.rows) == 0 {
		run.addMissing(m.path)
		return nil, nil
	}

	r := m.rows[0]
	run.used.Insert(r.clause)
	if r.clause.Body == nil {
		return nil, diagnostics.NewError(diagnostics.ErrE004, r.clause.Token, "a clause without a body needs an absurd pattern")
	}

	vars := make([]Var, len(r.vars))
	for i, v := range r.vars {
		vars[i] = Var{
			Name:  v.name,
			Value: core.Apply(&core.Ref{Binding: v.binding}, m.subst),
			Type:  core.Apply(v.binding.Type, m.subst),
		}
	}
	ctx := NewContext(vars, m.free)
	expected := core.Apply(run.in.ResultType, m.subst)

	body, err := run.oracle.CheckBody(r.clause.Body, expected, ctx)
	leaf := &Leaf{Clause: r.clause, Vars: ctx.Vars(), Body: body}
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if !errors.As(err, &diag) {
			diag = diagnostics.NewError(diagnostics.ErrE007, r.clause.Body.GetToken(), err.Error())
		}
		run.reporter.Report(diag)
		run.result.HasErrors = true
		leaf.Failed = true
		leaf.Body = &core.ErrorExpr{Message: diag.Message()}
	}
	return leaf, nil
}
