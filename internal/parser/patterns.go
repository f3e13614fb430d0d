package parser

import (
	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/token"
)

// parsePatternList parses comma-separated patterns starting at curToken.
// It returns nil after reporting an error.
func (p *Parser) parsePatternList() []ast.Pattern {
	first := p.parsePattern()
	if first == nil {
		return nil
	}
	patterns := []ast.Pattern{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		patterns = append(patterns, pat)
	}
	return patterns
}

// parsePattern parses a pattern that may be a constructor application.
// A lone identifier is left as a named wildcard; whether it denotes a
// nullary constructor is decided during name resolution.
func (p *Parser) parsePattern() ast.Pattern {
	defer p.leave()
	if !p.enter() {
		return nil
	}

	if p.curTokenIs(token.IDENT_LOWER) && p.peekStartsAtomPattern() {
		con := &ast.ConstructorPattern{Token: p.curToken, Name: p.identifier(), Explicit: true}
		for p.peekStartsAtomPattern() {
			p.nextToken()
			arg := p.parseAtomPattern()
			if arg == nil {
				return nil
			}
			con.Arguments = append(con.Arguments, arg)
		}
		return con
	}
	return p.parseAtomPattern()
}

func (p *Parser) parseAtomPattern() ast.Pattern {
	switch p.curToken.Type {
	case token.UNDERSCORE:
		return &ast.WildcardPattern{Token: p.curToken, Explicit: true}

	case token.IDENT_LOWER:
		return &ast.WildcardPattern{Token: p.curToken, Name: p.curToken.Lexeme, Explicit: true}

	case token.INT:
		value, _ := p.curToken.Literal.(int64)
		return &ast.LiteralPattern{Token: p.curToken, Value: value, Explicit: true}

	case token.LBRACE:
		p.nextToken()
		inner := p.parsePattern()
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return withExplicit(inner, false)

	case token.LPAREN:
		tok := p.curToken
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return &ast.AbsurdPattern{Token: tok, Explicit: true}
		}
		p.nextToken()
		first := p.parsePattern()
		if first == nil {
			return nil
		}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return first
		}
		tuple := &ast.TuplePattern{Token: tok, Elements: []ast.Pattern{first}, Explicit: true}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			el := p.parsePattern()
			if el == nil {
				return nil
			}
			tuple.Elements = append(tuple.Elements, el)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return tuple
	}

	p.unexpected()
	return nil
}

func (p *Parser) peekStartsAtomPattern() bool {
	switch p.peekToken.Type {
	case token.UNDERSCORE, token.IDENT_LOWER, token.INT, token.LPAREN, token.LBRACE:
		return true
	}
	return false
}

func withExplicit(pat ast.Pattern, explicit bool) ast.Pattern {
	switch pat := pat.(type) {
	case *ast.WildcardPattern:
		pat.Explicit = explicit
	case *ast.ConstructorPattern:
		pat.Explicit = explicit
	case *ast.TuplePattern:
		pat.Explicit = explicit
	case *ast.AbsurdPattern:
		pat.Explicit = explicit
	case *ast.LiteralPattern:
		pat.Explicit = explicit
	}
	return pat
}

func containsAbsurd(patterns []ast.Pattern) bool {
	for _, pat := range patterns {
		switch pat := pat.(type) {
		case *ast.AbsurdPattern:
			return true
		case *ast.ConstructorPattern:
			if containsAbsurd(pat.Arguments) {
				return true
			}
		case *ast.TuplePattern:
			if containsAbsurd(pat.Elements) {
				return true
			}
		}
	}
	return false
}
