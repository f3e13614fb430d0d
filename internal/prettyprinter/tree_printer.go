package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/elim"
)

// --- Tree Printer (Output shows the elimination tree) ---

// TreePrinter renders elimination trees one node per line:
//
//	x : split
//	  zero => #0 => 0
//	  suc n => #1 [n := n] => n
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// PrintTree renders t. A nil tree is a missing subtree.
func PrintTree(t elim.Tree) string {
	p := NewTreePrinter()
	p.Print(t)
	return p.String()
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) line(format string, args ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *TreePrinter) Print(t elim.Tree) {
	switch n := t.(type) {
	case nil:
		p.line("<missing>")

	case *elim.Leaf:
		p.line("%s", leafString(n))

	case *elim.Absurd:
		p.line("%s : absurd", n.Param)

	case *elim.Branch:
		p.line("%s : split", n.Param)
		p.indent++
		for _, c := range n.Cases {
			p.printCase(caseHead(c), c.Child)
		}
		if n.Default != nil {
			p.printCase("_", n.Default)
		}
		p.indent--
	}
}

// printCase keeps a leaf on the same line as its constructor.
func (p *TreePrinter) printCase(head string, child elim.Tree) {
	if leaf, ok := child.(*elim.Leaf); ok {
		p.line("%s => %s", head, leafString(leaf))
		return
	}
	if child == nil {
		p.line("%s => <missing>", head)
		return
	}
	p.line("%s =>", head)
	p.indent++
	p.Print(child)
	p.indent--
}

func caseHead(c *elim.Case) string {
	parts := []string{c.Con.Name}
	for _, b := range c.Fresh {
		parts = append(parts, "{"+b.String()+"}")
	}
	for _, b := range c.Params {
		parts = append(parts, bindingName(b))
	}
	return strings.Join(parts, " ")
}

func bindingName(b *core.Binding) string {
	if b.Explicit {
		return b.String()
	}
	return "{" + b.String() + "}"
}

func leafString(l *elim.Leaf) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d", l.Clause.Index)
	if len(l.Vars) > 0 {
		vars := make([]string, len(l.Vars))
		for i, v := range l.Vars {
			vars[i] = v.Name + " := " + exprString(v.Value)
		}
		sb.WriteString(" [" + strings.Join(vars, ", ") + "]")
	}
	if l.Failed {
		sb.WriteString(" => <error>")
	} else if l.Body != nil {
		sb.WriteString(" => " + l.Body.String())
	}
	return sb.String()
}

func exprString(e core.Expr) string {
	if e == nil {
		return "?"
	}
	return e.String()
}

// PrintMissing renders witnesses as the clauses a user would add.
func PrintMissing(witnesses []elim.Witness, truncated bool) string {
	var sb strings.Builder
	for _, w := range witnesses {
		sb.WriteString("| " + w.String() + "\n")
	}
	if truncated {
		sb.WriteString("| ...\n")
	}
	return sb.String()
}
