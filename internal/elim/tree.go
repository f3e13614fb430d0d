package elim

import (
	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
)

// Tree is an elimination tree: Leaf, Branch or Absurd.
type Tree interface {
	treeNode()
}

// Leaf selects a clause. Body is the checked body; when checking failed
// Failed is set and Body is a *core.ErrorExpr.
type Leaf struct {
	Clause *ast.Clause
	Vars   []Var
	Body   core.Expr
	Failed bool
}

// Branch splits on Param. Cases follow the constructor catalog order.
// Default, when present, handles the admissible constructors that no
// case names; it does not refine Param.
type Branch struct {
	Param   *core.Binding
	Cases   []*Case
	Default Tree
}

// Case is the subtree for one constructor. Fresh holds the implicit
// bindings introduced by index unification; Params binds the
// constructor's own arguments.
type Case struct {
	Con    *core.Constructor
	Fresh  core.Telescope
	Params core.Telescope
	Child  Tree
}

// Absurd marks a parameter whose type has no admissible constructor.
type Absurd struct {
	Param *core.Binding
}

func (*Leaf) treeNode()   {}
func (*Branch) treeNode() {}
func (*Absurd) treeNode() {}

// Case returns the case for the constructor named name, or nil.
func (b *Branch) Case(name string) *Case {
	for _, c := range b.Cases {
		if c.Con.Name == name {
			return c
		}
	}
	return nil
}

// Leaves returns the leaves of t in depth-first order, cases before the
// default branch.
func Leaves(t Tree) []*Leaf {
	var out []*Leaf
	var walk func(Tree)
	walk = func(t Tree) {
		switch n := t.(type) {
		case *Leaf:
			out = append(out, n)
		case *Branch:
			for _, c := range n.Cases {
				walk(c.Child)
			}
			if n.Default != nil {
				walk(n.Default)
			}
		}
	}
	walk(t)
	return out
}

// CountBranches returns the number of Branch nodes in t.
func CountBranches(t Tree) int {
	switch n := t.(type) {
	case *Branch:
		count := 1
		for _, c := range n.Cases {
			count += CountBranches(c.Child)
		}
		if n.Default != nil {
			count += CountBranches(n.Default)
		}
		return count
	}
	return 0
}
