package elim

import (
	"strings"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/token"
)

// ClauseElem is one step of a path through the elimination tree, in
// pre-order over the parameters.
type ClauseElem interface {
	clauseElem()
}

// PatternElem is a parameter that stays a variable. Absurd marks a
// parameter whose type was found empty.
type PatternElem struct {
	Binding *core.Binding
	Absurd  bool
}

// SkipElem is a parameter the definition does not eliminate.
type SkipElem struct {
	Binding *core.Binding
}

// ConstructorElem is a parameter split on Con. It is followed by one
// element per binding of Params.
type ConstructorElem struct {
	Binding *core.Binding
	Con     *core.Constructor
	Params  core.Telescope
}

func (*PatternElem) clauseElem()     {}
func (*SkipElem) clauseElem()        {}
func (*ConstructorElem) clauseElem() {}

// defaultElem is a parameter left unsplit on the way into a default
// branch. It only lives on a trail: witnesses replace it by each of the
// constructors no row named.
type defaultElem struct {
	binding *core.Binding
	alts    []alternative
}

func (*defaultElem) clauseElem() {}

// Witness is a missing clause: a path no row covers. Top-level
// parameters appear in the order the clauses list them.
type Witness []ClauseElem

// trail is the persistent path from the root to a node, newest element
// first. Sibling nodes share their common prefix.
type trail struct {
	elem ClauseElem
	prev *trail
	size int
}

func (t *trail) depth() int {
	if t == nil {
		return 0
	}
	return t.size
}

func (t *trail) extend(elems ...ClauseElem) *trail {
	for _, e := range elems {
		t = &trail{elem: e, prev: t, size: t.depth() + 1}
	}
	return t
}

func (t *trail) elems() []ClauseElem {
	out := make([]ClauseElem, t.depth())
	for n := t; n != nil; n = n.prev {
		out[n.size-1] = n.elem
	}
	return out
}

// expand calls yield with every witness elems stands for, replacing the
// defaulted parameters from index i on by their uncovered constructors.
// It stops early when yield returns false.
func expand(elems []ClauseElem, i int, yield func([]ClauseElem) bool) bool {
	for ; i < len(elems); i++ {
		d, ok := elems[i].(*defaultElem)
		if !ok {
			continue
		}
		for _, alt := range d.alts {
			fresh, own := constructorTelescope(alt)
			conTele := concat(fresh, own)
			next := make([]ClauseElem, 0, len(elems)+len(conTele))
			next = append(next, elems[:i]...)
			next = append(next, &ConstructorElem{Binding: d.binding, Con: alt.con, Params: conTele})
			next = append(next, placeholders(conTele, nil)...)
			next = append(next, elems[i+1:]...)
			if !expand(next, i+1+len(conTele), yield) {
				return false
			}
		}
		return true
	}
	return yield(elems)
}

// reorder permutes the top-level parameters of elems; order lists
// telescope positions.
func reorder(elems []ClauseElem, order []int) Witness {
	var segments [][]ClauseElem
	for i := 0; i < len(elems); {
		end := span(elems, i)
		segments = append(segments, elems[i:end])
		i = end
	}
	out := make(Witness, 0, len(elems))
	for _, idx := range order {
		if idx < len(segments) {
			out = append(out, segments[idx]...)
		}
	}
	return out
}

// span returns the end of the subtree starting at i.
func span(elems []ClauseElem, i int) int {
	c, ok := elems[i].(*ConstructorElem)
	i++
	if !ok {
		return i
	}
	for range c.Params {
		if i >= len(elems) {
			break
		}
		i = span(elems, i)
	}
	return i
}

// Patterns folds the path into one display pattern per eliminated
// parameter. Arguments the path does not reach become wildcards;
// implicit arguments that stayed variables are left out.
func (w Witness) Patterns() []ast.Pattern {
	var out []ast.Pattern
	for i := 0; i < len(w); {
		var p ast.Pattern
		p, i = w.fold(i)
		if p == nil {
			continue
		}
		if !p.IsExplicit() && ast.IsWildcard(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (w Witness) fold(i int) (ast.Pattern, int) {
	if i >= len(w) {
		return &ast.WildcardPattern{Explicit: true}, i
	}
	switch e := w[i].(type) {
	case *SkipElem:
		return nil, i + 1

	case *PatternElem:
		explicit := e.Binding == nil || e.Binding.Explicit
		if e.Absurd {
			return &ast.AbsurdPattern{Explicit: explicit}, i + 1
		}
		return &ast.WildcardPattern{Explicit: explicit}, i + 1

	case *ConstructorElem:
		explicit := e.Binding == nil || e.Binding.Explicit
		i++
		var args []ast.Pattern
		for _, b := range e.Params {
			var p ast.Pattern
			p, i = w.fold(i)
			if p == nil {
				p = &ast.WildcardPattern{Explicit: b.Explicit}
			}
			if b.Explicit {
				args = append(args, p)
			}
		}
		if e.Con.IsTuple() {
			return &ast.TuplePattern{Elements: args, Explicit: explicit}, i
		}
		name := &ast.Identifier{Token: token.Token{Lexeme: e.Con.Name}, Value: e.Con.Name}
		return &ast.ConstructorPattern{Name: name, Arguments: args, Explicit: explicit}, i
	}
	return nil, i + 1
}

func (w Witness) String() string {
	patterns := w.Patterns()
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// placeholders returns one element per binding of t, SkipElem where skip is set.
func placeholders(t core.Telescope, skip []bool) []ClauseElem {
	out := make([]ClauseElem, len(t))
	for i, b := range t {
		if i < len(skip) && skip[i] {
			out[i] = &SkipElem{Binding: b}
		} else {
			out[i] = &PatternElem{Binding: b}
		}
	}
	return out
}
