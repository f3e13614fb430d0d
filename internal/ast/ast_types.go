package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/elimc/internal/token"
)

// Pattern is a surface pattern. Every pattern knows whether it was
// written in an implicit position ({p}).
type Pattern interface {
	Node
	patternNode()
	IsExplicit() bool
	String() string
}

// WildcardPattern matches anything. Name is "" for '_'.
type WildcardPattern struct {
	Token    token.Token
	Name     string
	Explicit bool
}

func (p *WildcardPattern) patternNode()          {}
func (p *WildcardPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *WildcardPattern) GetToken() token.Token { return p.Token }
func (p *WildcardPattern) Accept(v Visitor)      { v.VisitWildcardPattern(p) }
func (p *WildcardPattern) IsExplicit() bool      { return p.Explicit }

// ConstructorPattern: suc n, cons x xs, zero
type ConstructorPattern struct {
	Token     token.Token // Constructor name
	Name      *Identifier
	Arguments []Pattern
	Explicit  bool
}

func (p *ConstructorPattern) patternNode()          {}
func (p *ConstructorPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ConstructorPattern) GetToken() token.Token { return p.Token }
func (p *ConstructorPattern) Accept(v Visitor)      { v.VisitConstructorPattern(p) }
func (p *ConstructorPattern) IsExplicit() bool      { return p.Explicit }

// TuplePattern matches a value of a Sigma type: (a, b)
type TuplePattern struct {
	Token    token.Token // '('
	Elements []Pattern
	Explicit bool
}

func (p *TuplePattern) patternNode()          {}
func (p *TuplePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *TuplePattern) GetToken() token.Token { return p.Token }
func (p *TuplePattern) Accept(v Visitor)      { v.VisitTuplePattern(p) }
func (p *TuplePattern) IsExplicit() bool      { return p.Explicit }

// AbsurdPattern claims its position is uninhabited: ()
type AbsurdPattern struct {
	Token    token.Token
	Explicit bool
}

func (p *AbsurdPattern) patternNode()          {}
func (p *AbsurdPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *AbsurdPattern) GetToken() token.Token { return p.Token }
func (p *AbsurdPattern) Accept(v Visitor)      { v.VisitAbsurdPattern(p) }
func (p *AbsurdPattern) IsExplicit() bool      { return p.Explicit }

// LiteralPattern matches a natural number: 0, 3
type LiteralPattern struct {
	Token    token.Token
	Value    int64
	Explicit bool
}

func (p *LiteralPattern) patternNode()          {}
func (p *LiteralPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *LiteralPattern) GetToken() token.Token { return p.Token }
func (p *LiteralPattern) Accept(v Visitor)      { v.VisitLiteralPattern(p) }
func (p *LiteralPattern) IsExplicit() bool      { return p.Explicit }

func (p *WildcardPattern) String() string {
	if p.Name == "" {
		return braced("_", p.Explicit)
	}
	return braced(p.Name, p.Explicit)
}

func (p *ConstructorPattern) String() string {
	parts := []string{p.Name.Value}
	for _, a := range p.Arguments {
		s := a.String()
		if c, ok := a.(*ConstructorPattern); ok && c.Explicit && len(c.Arguments) > 0 {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return braced(strings.Join(parts, " "), p.Explicit)
}

func (p *TuplePattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	if !p.Explicit {
		return "{" + s + "}"
	}
	return s
}

func (p *AbsurdPattern) String() string { return braced("()", p.Explicit) }

func (p *LiteralPattern) String() string {
	return braced(strconv.FormatInt(p.Value, 10), p.Explicit)
}

func braced(s string, explicit bool) string {
	if explicit {
		return s
	}
	return "{" + s + "}"
}

// IsWildcard reports whether p is nil (an inserted placeholder) or a wildcard.
func IsWildcard(p Pattern) bool {
	if p == nil {
		return true
	}
	_, ok := p.(*WildcardPattern)
	return ok
}

// ArrowType is a (dependent) function type: (x : A) -> B, A -> B
type ArrowType struct {
	Token  token.Token // '->'
	Params []*Param
	Result Expression
}

func (t *ArrowType) expressionNode()       {}
func (t *ArrowType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *ArrowType) GetToken() token.Token { return t.Token }
func (t *ArrowType) Accept(v Visitor)      { v.VisitArrowType(t) }

// SigmaType: Sigma (a : Nat) (Vec Nat a)
type SigmaType struct {
	Token  token.Token
	Params []*Param
}

func (t *SigmaType) expressionNode()       {}
func (t *SigmaType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *SigmaType) GetToken() token.Token { return t.Token }
func (t *SigmaType) Accept(v Visitor)      { v.VisitSigmaType(t) }

// UniverseExpression: Type
type UniverseExpression struct {
	Token token.Token
}

func (t *UniverseExpression) expressionNode()       {}
func (t *UniverseExpression) TokenLiteral() string  { return t.Token.Lexeme }
func (t *UniverseExpression) GetToken() token.Token { return t.Token }
func (t *UniverseExpression) Accept(v Visitor)      { v.VisitUniverseExpression(t) }
