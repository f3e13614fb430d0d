package ast

import (
	"github.com/funvibe/elimc/internal/token"
)

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) String() string        { return i.Value }

// CallExpression is juxtaposition: f x y
type CallExpression struct {
	Token     token.Token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }
func (il *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(il) }

// TupleLiteral: (a, b)
type TupleLiteral struct {
	Token    token.Token // '('
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()       {}
func (tl *TupleLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token { return tl.Token }
func (tl *TupleLiteral) Accept(v Visitor)      { v.VisitTupleLiteral(tl) }
