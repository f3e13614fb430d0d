package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/funvibe/elimc/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders node in source syntax.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for i, stmt := range n.Statements {
		if i > 0 {
			p.writeln()
		}
		if stmt != nil {
			stmt.Accept(p)
		} else {
			p.write("<???>")
		}
		p.writeln()
	}
}

// VisitParam prints one binder group. An anonymous explicit parameter is
// just its type in argument position.
func (p *CodePrinter) VisitParam(n *ast.Param) {
	if len(n.Names) == 0 && n.Explicit {
		p.printArg(n.Type)
		return
	}
	open, close := "(", ")"
	if !n.Explicit {
		open, close = "{", "}"
	}
	p.write(open)
	if len(n.Names) == 0 {
		p.write("_")
	}
	for i, name := range n.Names {
		if i > 0 {
			p.write(" ")
		}
		p.write(name.Value)
	}
	p.write(" : ")
	p.printExpr(n.Type)
	p.write(close)
}

func (p *CodePrinter) printParams(params []*ast.Param) {
	for _, param := range params {
		p.write(" ")
		param.Accept(p)
	}
}

func (p *CodePrinter) printNames(keyword string, names []*ast.Identifier) {
	if names == nil {
		return
	}
	p.write(" " + keyword + " ")
	for i, name := range names {
		if i > 0 {
			p.write(", ")
		}
		p.write(name.Value)
	}
}

func (p *CodePrinter) VisitDataDeclaration(n *ast.DataDeclaration) {
	p.write("data ")
	p.write(n.Name.Value)
	p.printParams(n.Params)
	p.printNames("with", n.Eliminated)

	p.indent++
	for _, c := range n.Constructors {
		p.writeln()
		p.writeIndent()
		p.write("| ")
		c.Accept(p)
	}
	p.indent--
}

func (p *CodePrinter) VisitConstructorDeclaration(n *ast.ConstructorDeclaration) {
	if len(n.Patterns) > 0 {
		p.printPatterns(n.Patterns)
		p.write(" => ")
	}
	p.write(n.Name.Value)
	p.printParams(n.Params)
}

func (p *CodePrinter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	p.write("func ")
	p.write(n.Name.Value)
	p.printParams(n.Params)
	p.write(" : ")
	p.printExpr(n.ResultType)
	p.printNames("elim", n.Eliminated)

	p.indent++
	for _, c := range n.Clauses {
		p.writeln()
		p.writeIndent()
		c.Accept(p)
	}
	p.indent--
}

func (p *CodePrinter) VisitClause(n *ast.Clause) {
	p.write("|")
	if len(n.Patterns) > 0 {
		p.write(" ")
		p.printPatterns(n.Patterns)
	}
	if n.Body != nil {
		p.write(" => ")
		p.printExpr(n.Body)
	}
}

func (p *CodePrinter) printPatterns(patterns []ast.Pattern) {
	for i, pat := range patterns {
		if i > 0 {
			p.write(", ")
		}
		if pat != nil {
			pat.Accept(p)
		} else {
			p.write("_")
		}
	}
}

// --- Expressions ---

func (p *CodePrinter) printExpr(e ast.Expression) {
	if e == nil {
		p.write("<???>")
		return
	}
	e.Accept(p)
}

// printArg prints e in argument position, parenthesized unless atomic.
func (p *CodePrinter) printArg(e ast.Expression) {
	switch e := e.(type) {
	case *ast.CallExpression, *ast.ArrowType:
		p.write("(")
		p.printExpr(e)
		p.write(")")
	case *ast.SigmaType:
		if len(e.Params) > 0 {
			p.write("(")
			p.printExpr(e)
			p.write(")")
			return
		}
		p.printExpr(e)
	default:
		p.printExpr(e)
	}
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printArg(n.Function)
	for _, a := range n.Arguments {
		p.write(" ")
		p.printArg(a)
	}
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	p.write("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el)
	}
	p.write(")")
}

// VisitArrowType prints each parameter group followed by an arrow. A
// nested arrow on the left needs parentheses; on the right it does not.
func (p *CodePrinter) VisitArrowType(n *ast.ArrowType) {
	for _, param := range n.Params {
		if len(param.Names) == 0 && param.Explicit {
			if _, ok := param.Type.(*ast.ArrowType); ok {
				p.write("(")
				p.printExpr(param.Type)
				p.write(")")
			} else {
				p.printExpr(param.Type)
			}
		} else {
			param.Accept(p)
		}
		p.write(" -> ")
	}
	p.printExpr(n.Result)
}

func (p *CodePrinter) VisitSigmaType(n *ast.SigmaType) {
	p.write("Sigma")
	for _, param := range n.Params {
		p.write(" ")
		if len(param.Names) == 0 && param.Explicit {
			// Sigma fields are always written as groups.
			p.write("(")
			p.printExpr(param.Type)
			p.write(")")
			continue
		}
		param.Accept(p)
	}
}

func (p *CodePrinter) VisitUniverseExpression(n *ast.UniverseExpression) {
	p.write("Type")
}

// --- Patterns ---

func (p *CodePrinter) VisitWildcardPattern(n *ast.WildcardPattern)       { p.write(n.String()) }
func (p *CodePrinter) VisitAbsurdPattern(n *ast.AbsurdPattern)           { p.write(n.String()) }
func (p *CodePrinter) VisitLiteralPattern(n *ast.LiteralPattern)         { p.write(n.String()) }
func (p *CodePrinter) VisitConstructorPattern(n *ast.ConstructorPattern) { p.write(n.String()) }
func (p *CodePrinter) VisitTuplePattern(n *ast.TuplePattern)             { p.write(n.String()) }
