package core

import (
	"strings"

	"github.com/funvibe/elimc/internal/config"
)

// DataDef is an (optionally indexed) inductive data type.
type DataDef struct {
	Name         string
	Params       Telescope
	Constructors []*Constructor
	IsNat        bool // the built-in natural numbers; literal patterns desugar against it
	IsInterval   bool // the built-in two-point interval
}

// Constructor belongs to a data type. When Patterns is nil the data
// type's parameters are in scope of Params as they are; otherwise
// Patterns (one per data parameter) say for which instantiations the
// constructor exists and bind the pattern variables Params may mention.
type Constructor struct {
	Name     string
	Data     *DataDef
	Patterns []Pattern
	Params   Telescope
}

func (d *DataDef) String() string { return d.Name }

// Constructor returns the constructor named name, or nil.
func (d *DataDef) Constructor(name string) *Constructor {
	for _, c := range d.Constructors {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (c *Constructor) String() string { return c.Name }

// IsTuple reports whether c is the synthetic constructor of a Sigma type.
func (c *Constructor) IsTuple() bool { return c.Data == nil }

// TupleConstructor returns the synthetic single constructor of sig.
func TupleConstructor(sig *Sigma) *Constructor {
	return &Constructor{Name: config.TupleCtorName, Params: sig.Params}
}

// Pattern is an index pattern of a constructor.
type Pattern interface {
	String() string
	patternNode()
}

type PVar struct {
	Binding *Binding
}

type PCon struct {
	Con  *Constructor
	Args []Pattern
}

func (*PVar) patternNode() {}
func (*PCon) patternNode() {}

func (p *PVar) String() string { return p.Binding.String() }

func (p *PCon) String() string {
	if len(p.Args) == 0 {
		return p.Con.Name
	}
	parts := []string{p.Con.Name}
	for _, a := range p.Args {
		s := a.String()
		if c, ok := a.(*PCon); ok && len(c.Args) > 0 {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// PatternVars returns the variables bound by p, left to right.
func PatternVars(p Pattern) []*Binding {
	switch p := p.(type) {
	case *PVar:
		return []*Binding{p.Binding}
	case *PCon:
		var out []*Binding
		for _, a := range p.Args {
			out = append(out, PatternVars(a)...)
		}
		return out
	}
	return nil
}

// Prelude definitions.
var (
	Nat  *DataDef
	Zero *Constructor
	Suc  *Constructor

	Interval *DataDef
	Left     *Constructor
	Right    *Constructor
)

func init() {
	Nat = &DataDef{Name: config.NatTypeName, IsNat: true}
	Zero = &Constructor{Name: config.ZeroCtorName, Data: Nat}
	Suc = &Constructor{
		Name:   config.SucCtorName,
		Data:   Nat,
		Params: Telescope{NewBinding("n", &DataCall{Data: Nat}, true)},
	}
	Nat.Constructors = []*Constructor{Zero, Suc}

	Interval = &DataDef{Name: config.IntervalTypeName, IsInterval: true}
	Left = &Constructor{Name: config.LeftCtorName, Data: Interval}
	Right = &Constructor{Name: config.RightCtorName, Data: Interval}
	Interval.Constructors = []*Constructor{Left, Right}
}

// NatType returns the type Nat.
func NatType() Expr { return &DataCall{Data: Nat} }

// IntervalType returns the type I.
func IntervalType() Expr { return &DataCall{Data: Interval} }

// NatLit builds the constructor form of n.
func NatLit(n int64) Expr {
	var e Expr = &ConCall{Con: Zero}
	for i := int64(0); i < n; i++ {
		e = &ConCall{Con: Suc, Args: []Expr{e}}
	}
	return e
}
