package core

import (
	"sort"
	"strings"

	"github.com/funvibe/elimc/internal/pmap"
)

// Subst maps bindings to expressions. It is persistent: Extend returns a
// new substitution and never changes the receiver, so one value can be
// shared by sibling branches of a case split. The zero value is empty.
type Subst struct {
	m *pmap.Map[*Binding, Expr]
}

func EmptySubst() Subst { return Subst{} }

// SubstOf builds a substitution from parallel slices.
func SubstOf(bindings []*Binding, exprs []Expr) Subst {
	var s Subst
	for i, b := range bindings {
		if i < len(exprs) {
			s = s.Extend(b, exprs[i])
		}
	}
	return s
}

func (s Subst) Extend(b *Binding, e Expr) Subst {
	m := s.m
	if m == nil {
		m = pmap.New[*Binding, Expr](hashBinding)
	}
	return Subst{m: m.Put(b, e)}
}

func (s Subst) Lookup(b *Binding) (Expr, bool) {
	return s.m.Get(b)
}

func (s Subst) Len() int { return s.m.Len() }

func (s Subst) IsEmpty() bool { return s.m.Len() == 0 }

// Union returns s extended with every entry of other (other wins).
func (s Subst) Union(other Subst) Subst {
	result := s
	other.m.Range(func(b *Binding, e Expr) bool {
		result = result.Extend(b, e)
		return true
	})
	return result
}

// Bindings returns the domain ordered by binding ID.
func (s Subst) Bindings() []*Binding {
	keys := s.m.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys
}

func (s Subst) String() string {
	var parts []string
	for _, b := range s.Bindings() {
		e, _ := s.Lookup(b)
		parts = append(parts, b.String()+" := "+exprString(e))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Apply applies s to e. Replacements are themselves substituted, so a
// chain x := suc y, y := zero resolves x to suc zero.
func Apply(e Expr, s Subst) Expr {
	if s.IsEmpty() {
		return e
	}
	return ApplyWithCycleCheck(e, s, make(map[*Binding]bool))
}

// ApplyWithCycleCheck applies substitution with cycle detection.
func ApplyWithCycleCheck(e Expr, s Subst, visited map[*Binding]bool) Expr {
	if e == nil {
		return nil
	}

	switch ex := e.(type) {
	case *Ref:
		if visited[ex.Binding] {
			return ex // Break cycle
		}
		replacement, ok := s.Lookup(ex.Binding)
		if !ok {
			return ex
		}
		if r, ok := replacement.(*Ref); ok && r.Binding == ex.Binding {
			return ex
		}
		newVisited := copyVisited(visited)
		newVisited[ex.Binding] = true
		return ApplyWithCycleCheck(replacement, s, newVisited)

	case *DataCall:
		return &DataCall{Data: ex.Data, Args: applyAll(ex.Args, s, visited)}

	case *ConCall:
		return &ConCall{
			Con:      ex.Con,
			DataArgs: applyAll(ex.DataArgs, s, visited),
			Args:     applyAll(ex.Args, s, visited),
		}

	case *Pi:
		params, inner := substParams(ex.Params, s, visited)
		return &Pi{Params: params, Cod: ApplyWithCycleCheck(ex.Cod, inner, visited)}

	case *Sigma:
		params, _ := substParams(ex.Params, s, visited)
		return &Sigma{Params: params}

	case *Tuple:
		return &Tuple{Fields: applyAll(ex.Fields, s, visited)}

	case *App:
		return &App{Fn: ApplyWithCycleCheck(ex.Fn, s, visited), Args: applyAll(ex.Args, s, visited)}

	default:
		// Lit, Universe, ErrorExpr
		return e
	}
}

func applyAll(exprs []Expr, s Subst, visited map[*Binding]bool) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = ApplyWithCycleCheck(e, s, visited)
	}
	return out
}

// substParams copies binder telescopes so that substituted terms never
// share bindings with the original.
func substParams(t Telescope, s Subst, visited map[*Binding]bool) (Telescope, Subst) {
	out := make(Telescope, len(t))
	for i, b := range t {
		nb := NewBinding(b.Name, ApplyWithCycleCheck(b.Type, s, visited), b.Explicit)
		s = s.Extend(b, &Ref{Binding: nb})
		out[i] = nb
	}
	return out, s
}

func copyVisited(visited map[*Binding]bool) map[*Binding]bool {
	out := make(map[*Binding]bool, len(visited)+1)
	for k, v := range visited {
		out[k] = v
	}
	return out
}

// FreeBindings returns the bindings referenced by e that are not bound
// inside it, in order of first occurrence.
func FreeBindings(e Expr) []*Binding {
	var out []*Binding
	seen := make(map[*Binding]bool)
	var walk func(e Expr, bound map[*Binding]bool)
	walkParams := func(t Telescope, bound map[*Binding]bool) map[*Binding]bool {
		inner := make(map[*Binding]bool, len(bound)+len(t))
		for k := range bound {
			inner[k] = true
		}
		for _, b := range t {
			walk(b.Type, inner)
			inner[b] = true
		}
		return inner
	}
	walk = func(e Expr, bound map[*Binding]bool) {
		switch ex := e.(type) {
		case *Ref:
			if !bound[ex.Binding] && !seen[ex.Binding] {
				seen[ex.Binding] = true
				out = append(out, ex.Binding)
			}
		case *DataCall:
			for _, a := range ex.Args {
				walk(a, bound)
			}
		case *ConCall:
			for _, a := range ex.DataArgs {
				walk(a, bound)
			}
			for _, a := range ex.Args {
				walk(a, bound)
			}
		case *Pi:
			walk(ex.Cod, walkParams(ex.Params, bound))
		case *Sigma:
			walkParams(ex.Params, bound)
		case *Tuple:
			for _, f := range ex.Fields {
				walk(f, bound)
			}
		case *App:
			walk(ex.Fn, bound)
			for _, a := range ex.Args {
				walk(a, bound)
			}
		}
	}
	walk(e, map[*Binding]bool{})
	return out
}
