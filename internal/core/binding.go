package core

import (
	"strings"
	"sync/atomic"
)

var bindingCounter atomic.Int64

// Binding is a variable introduced by a telescope, a constructor's
// argument list or an index pattern. Identity is the pointer; ID only
// serves hashing and stable debug output.
type Binding struct {
	ID       int64
	Name     string
	Type     Expr
	Explicit bool
}

func NewBinding(name string, typ Expr, explicit bool) *Binding {
	return &Binding{
		ID:       bindingCounter.Add(1),
		Name:     name,
		Type:     typ,
		Explicit: explicit,
	}
}

func (b *Binding) String() string {
	if b == nil {
		return "<nil>"
	}
	if b.Name == "" {
		return "_"
	}
	return b.Name
}

func hashBinding(b *Binding) uint32 {
	return uint32(b.ID) * 2654435761
}

// Telescope is an ordered list of dependent bindings: the type of each
// binding may mention the bindings before it.
type Telescope []*Binding

func (t Telescope) Len() int { return len(t) }

// Subst returns a refined copy of the telescope with s applied to every
// type, together with s extended to map the old bindings to the copies.
// The receiver is left untouched.
func (t Telescope) Subst(s Subst) (Telescope, Subst) {
	out := make(Telescope, len(t))
	for i, b := range t {
		nb := NewBinding(b.Name, Apply(b.Type, s), b.Explicit)
		s = s.Extend(b, &Ref{Binding: nb})
		out[i] = nb
	}
	return out, s
}

// Refs returns a reference expression for every binding.
func (t Telescope) Refs() []Expr {
	out := make([]Expr, len(t))
	for i, b := range t {
		out[i] = &Ref{Binding: b}
	}
	return out
}

// ExplicitCount returns the number of explicit bindings.
func (t Telescope) ExplicitCount() int {
	n := 0
	for _, b := range t {
		if b.Explicit {
			n++
		}
	}
	return n
}

// IndexOf returns the position of the last binding named name, or -1.
// Later bindings shadow earlier ones.
func (t Telescope) IndexOf(name string) int {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Name == name {
			return i
		}
	}
	return -1
}

func (t Telescope) String() string {
	var parts []string
	for _, b := range t {
		parts = append(parts, bindingString(b))
	}
	return strings.Join(parts, " ")
}

func bindingString(b *Binding) string {
	open, close := "(", ")"
	if !b.Explicit {
		open, close = "{", "}"
	}
	return open + b.String() + " : " + exprString(b.Type) + close
}
