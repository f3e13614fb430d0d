package ast

import (
	"github.com/funvibe/elimc/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Accept(v Visitor)
}

// Statement is a top-level declaration.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression or a type.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Param is one binder group of a telescope.
// (x y : Nat) or {A : Type} or, anonymously, Nat
type Param struct {
	Token    token.Token
	Names    []*Identifier // empty for an anonymous parameter
	Type     Expression
	Explicit bool
}

func (p *Param) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Param) GetToken() token.Token { return p.Token }
func (p *Param) Accept(v Visitor)      { v.VisitParam(p) }

// DataDeclaration introduces an inductive data type.
// data Vec (A : Type) (n : Nat) with n | zero => nil | suc m => cons A (Vec A m)
type DataDeclaration struct {
	Token        token.Token // The 'data' token
	Name         *Identifier
	Params       []*Param
	Eliminated   []*Identifier // names after 'with'; nil when constructors carry no index patterns
	Constructors []*ConstructorDeclaration
}

func (d *DataDeclaration) statementNode()        {}
func (d *DataDeclaration) TokenLiteral() string  { return d.Token.Lexeme }
func (d *DataDeclaration) GetToken() token.Token { return d.Token }
func (d *DataDeclaration) Accept(v Visitor)      { v.VisitDataDeclaration(d) }

// ConstructorDeclaration is one alternative of a data declaration.
type ConstructorDeclaration struct {
	Token    token.Token // Constructor name
	Name     *Identifier
	Patterns []Pattern // index patterns, one per eliminated data parameter
	Params   []*Param
}

func (c *ConstructorDeclaration) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ConstructorDeclaration) GetToken() token.Token { return c.Token }
func (c *ConstructorDeclaration) Accept(v Visitor)      { v.VisitConstructorDeclaration(c) }

// FunctionDeclaration is a function defined by pattern matching.
// func f (n m : Nat) : Nat elim n | zero => m | suc k => k
type FunctionDeclaration struct {
	Token      token.Token // The 'func' token
	Name       *Identifier
	Params     []*Param
	ResultType Expression
	Eliminated []*Identifier // nil: every parameter is matched
	Clauses    []*Clause
}

func (f *FunctionDeclaration) statementNode()        {}
func (f *FunctionDeclaration) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FunctionDeclaration) GetToken() token.Token { return f.Token }
func (f *FunctionDeclaration) Accept(v Visitor)      { v.VisitFunctionDeclaration(f) }

// Clause is one pattern-matching alternative. Body is nil for a clause
// that ends in an absurd pattern.
type Clause struct {
	Token    token.Token // The '|' token
	Index    int         // source order within the definition
	Patterns []Pattern
	Body     Expression
}

func (c *Clause) TokenLiteral() string  { return c.Token.Lexeme }
func (c *Clause) GetToken() token.Token { return c.Token }
func (c *Clause) Accept(v Visitor)      { v.VisitClause(c) }
