package core

import (
	"testing"
)

// vec builds Vec (A : Type) (n : Nat) with nil at zero and cons at suc m.
func vec() (*DataDef, *Constructor, *Constructor) {
	a := NewBinding("A", &Universe{}, true)
	n := NewBinding("n", NatType(), true)
	d := &DataDef{Name: "Vec", Params: Telescope{a, n}}

	nilCon := &Constructor{
		Name:     "nil",
		Data:     d,
		Patterns: []Pattern{&PVar{Binding: a}, &PCon{Con: Zero}},
	}

	m := NewBinding("m", NatType(), true)
	consCon := &Constructor{
		Name:     "cons",
		Data:     d,
		Patterns: []Pattern{&PVar{Binding: a}, &PCon{Con: Suc, Args: []Pattern{&PVar{Binding: m}}}},
		Params: Telescope{
			NewBinding("", &Ref{Binding: a}, true),
			NewBinding("", &DataCall{Data: d, Args: []Expr{&Ref{Binding: a}, &Ref{Binding: m}}}, true),
		},
	}
	d.Constructors = []*Constructor{nilCon, consCon}
	return d, nilCon, consCon
}

func TestUnifyIndicesConcrete(t *testing.T) {
	_, nilCon, consCon := vec()
	args := []Expr{NatType(), &Lit{Value: 2}}

	if m := UnifyIndices(nilCon, args); m.Outcome != Excluded {
		t.Errorf("nil should be excluded at length 2")
	}
	m := UnifyIndices(consCon, args)
	if m.Outcome != Matched {
		t.Fatalf("cons should match at length 2")
	}
	if !m.Refine.IsEmpty() || len(m.Fresh) != 0 {
		t.Errorf("a closed index refines nothing, got %s / %v", m.Refine, m.Fresh)
	}

	own, _ := consCon.Params.Subst(m.Subst)
	if got := own[1].Type.String(); got != "Vec Nat 1" {
		t.Errorf("tail type = %s", got)
	}
}

func TestUnifyIndicesRefinesVariable(t *testing.T) {
	_, nilCon, consCon := vec()
	n := NewBinding("n", NatType(), true)
	args := []Expr{NatType(), &Ref{Binding: n}}

	m := UnifyIndices(nilCon, args)
	if m.Outcome != Matched {
		t.Fatalf("nil should match a variable length")
	}
	if e, ok := m.Refine.Lookup(n); !ok || e.String() != "zero" {
		t.Errorf("nil should refine n to zero, got %v", e)
	}

	m = UnifyIndices(consCon, args)
	if len(m.Fresh) != 1 || m.Fresh[0].Explicit {
		t.Fatalf("cons should introduce one implicit binding, got %v", m.Fresh)
	}
	e, ok := m.Refine.Lookup(n)
	if !ok || e.String() != "suc m" {
		t.Errorf("cons should refine n to suc m, got %v", e)
	}
}

func TestUnifyIndicesStuckArgument(t *testing.T) {
	_, nilCon, _ := vec()
	f := NewBinding("f", &Pi{Params: Telescope{NewBinding("", NatType(), true)}, Cod: NatType()}, true)
	stuck := &App{Fn: &Ref{Binding: f}, Args: []Expr{&Lit{Value: 0}}}

	m := UnifyIndices(nilCon, []Expr{NatType(), stuck})
	if m.Outcome != Matched {
		t.Errorf("a stuck index cannot exclude a constructor")
	}
	if !m.Refine.IsEmpty() {
		t.Errorf("a stuck index is not refined")
	}
}

func TestSubstChains(t *testing.T) {
	x := NewBinding("x", NatType(), true)
	y := NewBinding("y", NatType(), true)
	s := EmptySubst().
		Extend(x, &ConCall{Con: Suc, Args: []Expr{&Ref{Binding: y}}}).
		Extend(y, &ConCall{Con: Zero})

	if got := Apply(&Ref{Binding: x}, s).String(); got != "suc zero" {
		t.Errorf("x = %s", got)
	}
	if s.Len() != 2 {
		t.Errorf("len = %d", s.Len())
	}

	cyclic := EmptySubst().Extend(x, &Ref{Binding: y}).Extend(y, &Ref{Binding: x})
	if got := Apply(&Ref{Binding: x}, cyclic); got == nil {
		t.Errorf("cyclic substitution should terminate")
	}
}

func TestSubstIsPersistent(t *testing.T) {
	x := NewBinding("x", NatType(), true)
	base := EmptySubst()
	left := base.Extend(x, &ConCall{Con: Zero})
	if !base.IsEmpty() {
		t.Errorf("Extend modified the receiver")
	}
	right := base.Union(left)
	if e, ok := right.Lookup(x); !ok || e.String() != "zero" {
		t.Errorf("Union lost x")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(&Lit{Value: 2}, NatLit(2)) {
		t.Errorf("2 and suc (suc zero) should be equal")
	}
	if Equal(NatType(), IntervalType()) {
		t.Errorf("Nat and I are different types")
	}

	a := NewBinding("a", NatType(), true)
	b := NewBinding("b", NatType(), true)
	left := &Pi{Params: Telescope{a}, Cod: &Ref{Binding: a}}
	right := &Pi{Params: Telescope{b}, Cod: &Ref{Binding: b}}
	if !Equal(left, right) {
		t.Errorf("Pi types equal up to renaming")
	}
	if !Equal(&ErrorExpr{}, NatType()) {
		t.Errorf("an error term is equal to everything")
	}
}

func TestTelescope(t *testing.T) {
	x := NewBinding("x", NatType(), true)
	k := NewBinding("k", NatType(), false)
	x2 := NewBinding("x", NatType(), true)
	tele := Telescope{x, k, x2}

	if tele.IndexOf("x") != 2 {
		t.Errorf("IndexOf should find the last x")
	}
	if tele.IndexOf("y") != -1 {
		t.Errorf("IndexOf(y) should be -1")
	}
	if tele.ExplicitCount() != 2 {
		t.Errorf("explicit count = %d", tele.ExplicitCount())
	}
	if got := tele.String(); got != "(x : Nat) {k : Nat} (x : Nat)" {
		t.Errorf("String() = %s", got)
	}

	copied, s := tele.Subst(EmptySubst())
	if copied[0] == x {
		t.Errorf("Subst should copy the bindings")
	}
	if e, _ := s.Lookup(x); e.(*Ref).Binding != copied[0] {
		t.Errorf("Subst should map old bindings to the copies")
	}
}

func TestFreeBindings(t *testing.T) {
	x := NewBinding("x", NatType(), true)
	y := NewBinding("y", NatType(), true)
	bound := NewBinding("z", NatType(), true)
	e := &Pi{
		Params: Telescope{bound},
		Cod:    &App{Fn: &Ref{Binding: x}, Args: []Expr{&Ref{Binding: bound}, &Ref{Binding: y}, &Ref{Binding: x}}},
	}
	got := FreeBindings(e)
	if len(got) != 2 || got[0] != x || got[1] != y {
		t.Errorf("FreeBindings = %v", got)
	}
}
