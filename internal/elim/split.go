package elim

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/token"
)

// head is a row's pattern in the column being split, resolved against
// the column's type.
type head struct {
	pattern ast.Pattern // nil for a placeholder
	con     *core.Constructor
	args    []ast.Pattern
	name    string
	absurd  bool
}

func (h head) isWildcard() bool { return h.con == nil && !h.absurd }

// alternative is an admissible constructor together with the outcome of
// unifying its indices with the column's type.
type alternative struct {
	con   *core.Constructor
	match core.Match
}

// split handles a node whose head column contains a non-wildcard pattern.
func (run *compilation) split(m *matrix) (Tree, error) {
	b := m.tele[0]
	typ := run.oracle.Normalize(core.Apply(b.Type, m.subst))

	var (
		data  *core.DataDef
		args  []core.Expr
		sigma *core.Sigma
	)
	switch t := typ.(type) {
	case *core.DataCall:
		data, args = t.Data, t.Args
	case *core.Sigma:
		sigma = t
	default:
		return nil, diagnostics.NewError(diagnostics.ErrE002, m.headToken(), typ.String())
	}
	if data != nil && data.IsInterval && !run.opts.AllowInterval {
		return nil, diagnostics.NewError(diagnostics.ErrE003, m.headToken(), data.Name)
	}

	var alts []alternative
	if sigma != nil {
		alts = []alternative{{con: core.TupleConstructor(sigma), match: core.Match{Outcome: core.Matched}}}
	} else {
		for _, con := range run.catalog.ConstructorsOf(data, args) {
			match := run.oracle.UnifyIndices(con, args)
			if match.Outcome == core.Excluded {
				continue
			}
			alts = append(alts, alternative{con: con, match: match})
		}
	}

	heads := make([]head, len(m.rows))
	for i, r := range m.rows {
		h, err := run.resolveHead(r.patterns[0], typ, data, alts)
		if err != nil {
			return nil, err
		}
		heads[i] = h
	}

	for i, h := range heads {
		if h.absurd {
			return run.absurd(m, heads, i, typ, len(alts))
		}
	}

	tags := set.New[*core.Constructor](len(alts))
	hasWildcard := false
	for _, h := range heads {
		if h.isWildcard() {
			hasWildcard = true
		} else {
			tags.Insert(h.con)
		}
	}

	if len(alts) == 0 {
		if hasWildcard {
			return &Absurd{Param: b}, nil
		}
		run.addMissing(m.path.extend(&PatternElem{Binding: b, Absurd: true}).
			extend(placeholders(m.tele[1:], m.skip[1:])...))
		return nil, nil
	}

	branch := &Branch{Param: b}
	var defaulted []alternative
	for _, alt := range alts {
		if !tags.Contains(alt.con) {
			if hasWildcard {
				defaulted = append(defaulted, alt)
				continue
			}
			fresh, own := constructorTelescope(alt)
			conTele := concat(fresh, own)
			run.addMissing(m.path.
				extend(&ConstructorElem{Binding: b, Con: alt.con, Params: conTele}).
				extend(placeholders(conTele, nil)...).
				extend(placeholders(m.tele[1:], m.skip[1:])...))
			continue
		}
		c, err := run.splitCase(m, heads, alt, args)
		if err != nil {
			return nil, err
		}
		branch.Cases = append(branch.Cases, c)
	}

	if len(defaulted) > 0 {
		child, err := run.build(m.defaultChild(heads, defaulted))
		if err != nil {
			return nil, err
		}
		branch.Default = child
	}

	run.tracef("split %s : %s into [%s] default [%s]", b, typ, caseNames(branch.Cases), altNames(defaulted))
	return branch, nil
}

// resolveHead classifies p against the column type. Literals desugar to
// zero/suc over the built-in naturals.
func (run *compilation) resolveHead(p ast.Pattern, typ core.Expr, data *core.DataDef, alts []alternative) (head, error) {
	switch p := p.(type) {
	case nil:
		return head{}, nil

	case *ast.WildcardPattern:
		return head{pattern: p, name: p.Name}, nil

	case *ast.AbsurdPattern:
		return head{pattern: p, absurd: true}, nil

	case *ast.LiteralPattern:
		if data == nil || !data.IsNat {
			return head{}, diagnostics.NewError(diagnostics.ErrE002, p.Token, typ.String())
		}
		if p.Value > int64(run.opts.MaxNumberPattern) {
			return head{}, diagnostics.NewError(diagnostics.ErrE011, p.Token, p.Value, run.opts.MaxNumberPattern)
		}
		if p.Value == 0 {
			return head{pattern: p, con: run.catalog.Lookup(data, config.ZeroCtorName)}, nil
		}
		pred := &ast.LiteralPattern{Token: p.Token, Value: p.Value - 1, Explicit: true}
		return head{pattern: p, con: run.catalog.Lookup(data, config.SucCtorName), args: []ast.Pattern{pred}}, nil

	case *ast.ConstructorPattern:
		if data == nil {
			return head{}, diagnostics.NewError(diagnostics.ErrE008, p.Token, p.Name.Value, typ.String())
		}
		con := run.catalog.Lookup(data, p.Name.Value)
		if con == nil {
			return head{}, diagnostics.NewError(diagnostics.ErrE008, p.Token, p.Name.Value, data.Name)
		}
		return head{pattern: p, con: con, args: p.Arguments}, nil

	case *ast.TuplePattern:
		if data != nil {
			return head{}, diagnostics.NewError(diagnostics.ErrE008, p.Token, p.String(), typ.String())
		}
		return head{pattern: p, con: alts[0].con, args: p.Elements}, nil
	}
	return head{}, fmt.Errorf("unknown pattern %T", p)
}

// absurd checks the absurd row at index i. The column type must have no
// admissible constructor and the rest of the row must be wildcards
// without a body.
func (run *compilation) absurd(m *matrix, heads []head, i int, typ core.Expr, admissible int) (Tree, error) {
	h, r := heads[i], m.rows[i]
	if admissible > 0 {
		return nil, diagnostics.NewError(diagnostics.ErrE004, h.pattern.GetToken(),
			fmt.Sprintf("type %s has constructors", typ))
	}
	for _, p := range r.patterns[1:] {
		if !ast.IsWildcard(p) {
			return nil, diagnostics.NewError(diagnostics.ErrE004, p.GetToken(), "the rest of the clause is ignored")
		}
	}
	if r.clause.Body != nil {
		return nil, diagnostics.NewError(diagnostics.ErrE004, r.clause.Body.GetToken(), "the rest of the clause is ignored")
	}
	run.used.Insert(r.clause)
	return &Absurd{Param: m.tele[0]}, nil
}

// splitCase builds the subtree for one constructor from the rows that
// name it and the wildcard rows.
func (run *compilation) splitCase(m *matrix, heads []head, alt alternative, dataArgs []core.Expr) (*Case, error) {
	b := m.tele[0]
	fresh, own := constructorTelescope(alt)
	conTele := concat(fresh, own)

	var value core.Expr
	if alt.con.IsTuple() {
		value = &core.Tuple{Fields: own.Refs()}
	} else {
		refined := make([]core.Expr, len(dataArgs))
		for i, a := range dataArgs {
			refined[i] = core.Apply(a, alt.match.Refine)
		}
		value = &core.ConCall{Con: alt.con, DataArgs: refined, Args: own.Refs()}
	}

	child := &matrix{
		tele:  concat(conTele, m.tele[1:]),
		skip:  append(make([]bool, len(conTele)), m.skip[1:]...),
		subst: m.subst.Union(alt.match.Refine).Extend(b, value),
		free:  m.free,
		path:  m.path.extend(&ConstructorElem{Binding: b, Con: alt.con, Params: conTele}),
	}

	for i, r := range m.rows {
		h := heads[i]
		var patterns []ast.Pattern
		vars := r.vars
		switch {
		case h.isWildcard():
			patterns = make([]ast.Pattern, len(conTele), len(conTele)+len(r.patterns)-1)
			vars = r.bind(h.name, b)
		case h.con == alt.con:
			sub, err := alignTelescope(h.args, conTele, h.pattern.GetToken(), alt.con.Name)
			if err != nil {
				return nil, err
			}
			patterns = sub
		default:
			continue
		}
		child.rows = append(child.rows, &row{
			clause:   r.clause,
			patterns: append(patterns, r.patterns[1:]...),
			vars:     vars,
		})
	}

	tree, err := run.build(child)
	if err != nil {
		return nil, err
	}
	return &Case{Con: alt.con, Fresh: fresh, Params: own, Child: tree}, nil
}

// defaultChild keeps the wildcard rows with the head column dropped. The
// split parameter stays unrefined; witnesses below it name the defaulted
// constructors instead.
func (m *matrix) defaultChild(heads []head, defaulted []alternative) *matrix {
	b := m.tele[0]
	child := &matrix{
		tele:  m.tele[1:],
		skip:  m.skip[1:],
		subst: m.subst,
		free:  append(m.free[:len(m.free):len(m.free)], b),
		path:  m.path.extend(&defaultElem{binding: b, alts: defaulted}),
	}
	for i, r := range m.rows {
		h := heads[i]
		if !h.isWildcard() {
			continue
		}
		child.rows = append(child.rows, &row{
			clause:   r.clause,
			patterns: r.patterns[1:],
			vars:     r.bind(h.name, b),
		})
	}
	return child
}

// constructorTelescope returns the implicit bindings from index
// unification and a fresh copy of the constructor's own arguments.
func constructorTelescope(alt alternative) (fresh, own core.Telescope) {
	own, _ = alt.con.Params.Subst(alt.match.Subst)
	return alt.match.Fresh, own
}

func concat(a, b core.Telescope) core.Telescope {
	out := make(core.Telescope, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func altNames(alts []alternative) string {
	names := make([]string, len(alts))
	for i, alt := range alts {
		names[i] = alt.con.Name
	}
	return strings.Join(names, " ")
}

func caseNames(cases []*Case) string {
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Con.Name
	}
	return strings.Join(names, " ")
}

// headToken locates diagnostics about the head column.
func (m *matrix) headToken() token.Token {
	for _, r := range m.rows {
		if p := r.patterns[0]; p != nil {
			if _, ok := p.(*ast.WildcardPattern); !ok {
				return p.GetToken()
			}
		}
	}
	if len(m.rows) > 0 {
		return m.rows[0].clause.Token
	}
	return token.Token{}
}
