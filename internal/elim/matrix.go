package elim

import (
	"fmt"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/token"
)

// row is one clause at a node. patterns is aligned with the residual
// telescope; a nil entry is an inserted placeholder wildcard.
type row struct {
	clause   *ast.Clause
	patterns []ast.Pattern
	vars     []boundVar
}

type boundVar struct {
	name    string
	binding *core.Binding
}

// bind returns the row's variables extended with name. Unnamed
// wildcards bind nothing.
func (r *row) bind(name string, b *core.Binding) []boundVar {
	if name == "" {
		return r.vars
	}
	out := make([]boundVar, 0, len(r.vars)+1)
	out = append(out, r.vars...)
	return append(out, boundVar{name: name, binding: b})
}

func (r *row) allWildcards() bool {
	for _, p := range r.patterns {
		if !ast.IsWildcard(p) {
			return false
		}
	}
	return true
}

// matrix is the state of one node: rows over a residual telescope, the
// substitution accumulated by the splits above, and the path that led here.
type matrix struct {
	rows  []*row
	tele  core.Telescope
	skip  []bool // parameters the definition does not eliminate
	subst core.Subst
	free  core.Telescope
	path  *trail
}

// align builds the root matrix: every row gets exactly one pattern slot
// per parameter of the definition.
func (run *compilation) align() (*matrix, error) {
	params := run.in.Params
	m := &matrix{tele: params, skip: make([]bool, len(params))}

	var eliminated []int
	if run.in.Eliminated != nil {
		for i := range m.skip {
			m.skip[i] = true
		}
		for _, name := range run.in.Eliminated {
			idx := params.IndexOf(name)
			if idx < 0 {
				return nil, diagnostics.NewError(diagnostics.ErrE010, run.in.Token, name)
			}
			if !m.skip[idx] {
				return nil, diagnostics.NewError(diagnostics.ErrE012, run.in.Token, name)
			}
			m.skip[idx] = false
			eliminated = append(eliminated, idx)
		}
		run.order = append([]int(nil), eliminated...)
		for i, skipped := range m.skip {
			if skipped {
				run.order = append(run.order, i)
			}
		}
	}

	for _, clause := range run.in.Clauses {
		var (
			patterns []ast.Pattern
			err      error
		)
		if eliminated != nil {
			patterns, err = alignEliminated(clause, eliminated, len(params))
		} else {
			patterns, err = alignTelescope(clause.Patterns, params, clause.Token, run.in.Name)
		}
		if err != nil {
			return nil, err
		}
		m.rows = append(m.rows, &row{clause: clause, patterns: patterns})
	}
	return m, nil
}

// alignEliminated places the patterns of an elim clause at the positions
// of the eliminated parameters.
func alignEliminated(clause *ast.Clause, eliminated []int, size int) ([]ast.Pattern, error) {
	if len(clause.Patterns) != len(eliminated) {
		return nil, diagnostics.NewError(diagnostics.ErrE001, clause.Token,
			fmt.Sprintf("expected %d patterns, got %d", len(eliminated), len(clause.Patterns)))
	}
	out := make([]ast.Pattern, size)
	for i, idx := range eliminated {
		out[idx] = clause.Patterns[i]
	}
	return out, nil
}

// alignTelescope matches patterns against tele by implicitness. An
// explicit pattern meeting an implicit binding gets a placeholder
// inserted in front of it; trailing implicit bindings get placeholders.
func alignTelescope(patterns []ast.Pattern, tele core.Telescope, tok token.Token, what string) ([]ast.Pattern, error) {
	out := make([]ast.Pattern, 0, len(tele))
	i := 0
	for _, b := range tele {
		if i < len(patterns) {
			p := patterns[i]
			if p.IsExplicit() == b.Explicit {
				out = append(out, p)
				i++
				continue
			}
			if b.Explicit {
				return nil, diagnostics.NewError(diagnostics.ErrE009, p.GetToken(), p.String())
			}
			out = append(out, nil)
			continue
		}
		if b.Explicit {
			return nil, diagnostics.NewError(diagnostics.ErrE001, tok,
				fmt.Sprintf("not enough patterns for %s: expected %d, got %d", what, tele.ExplicitCount(), explicitCount(patterns)))
		}
		out = append(out, nil)
	}
	if i < len(patterns) {
		return nil, diagnostics.NewError(diagnostics.ErrE001, patterns[i].GetToken(),
			fmt.Sprintf("too many patterns for %s: expected %d, got %d", what, tele.ExplicitCount(), explicitCount(patterns)))
	}
	return out, nil
}

func explicitCount(patterns []ast.Pattern) int {
	n := 0
	for _, p := range patterns {
		if p.IsExplicit() {
			n++
		}
	}
	return n
}

// prune drops the rows behind the first row that matches everything.
func (m *matrix) prune() {
	for i, r := range m.rows {
		if r.allWildcards() {
			m.rows = m.rows[:i+1]
			return
		}
	}
}
