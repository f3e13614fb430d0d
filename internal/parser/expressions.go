package parser

import (
	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/token"
)

// parseType parses a type or a body expression starting at curToken:
//
//	(x : A) {y : B} -> C  |  app -> type  |  app
func (p *Parser) parseType() ast.Expression {
	defer p.leave()
	if !p.enter() {
		return nil
	}

	if p.curTokenIs(token.LBRACE) || p.curTokenIs(token.LPAREN) && p.binderGroupAt(0) {
		var params []*ast.Param
		for {
			param := p.parseBinderGroup()
			if param == nil {
				return nil
			}
			params = append(params, param)
			if p.peekTokenIs(token.LBRACE) || p.peekTokenIs(token.LPAREN) && p.binderGroupAt(1) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		arrow := &ast.ArrowType{Token: p.curToken, Params: params}
		p.nextToken()
		arrow.Result = p.parseType()
		if arrow.Result == nil {
			return nil
		}
		return arrow
	}

	left := p.parseApplication()
	if left == nil {
		return nil
	}
	if !p.peekTokenIs(token.ARROW) {
		return left
	}
	p.nextToken()
	arrow := &ast.ArrowType{
		Token:  p.curToken,
		Params: []*ast.Param{{Token: left.GetToken(), Type: left, Explicit: true}},
	}
	p.nextToken()
	arrow.Result = p.parseType()
	if arrow.Result == nil {
		return nil
	}
	return arrow
}

func (p *Parser) parseApplication() ast.Expression {
	head := p.parseAtom()
	if head == nil {
		return nil
	}
	if _, ok := head.(*ast.SigmaType); ok {
		return head
	}
	var args []ast.Expression
	for p.peekStartsAtom() {
		p.nextToken()
		arg := p.parseAtom()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return head
	}
	return &ast.CallExpression{Token: head.GetToken(), Function: head, Arguments: args}
}

func (p *Parser) parseAtom() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT_LOWER, token.IDENT_UPPER:
		return p.identifier()

	case token.TYPE:
		return &ast.UniverseExpression{Token: p.curToken}

	case token.INT:
		value, _ := p.curToken.Literal.(int64)
		return &ast.IntegerLiteral{Token: p.curToken, Value: value}

	case token.SIGMA:
		sigma := &ast.SigmaType{Token: p.curToken}
		params, ok := p.parseTelescope(true)
		if !ok {
			return nil
		}
		sigma.Params = params
		return sigma

	case token.LPAREN:
		tok := p.curToken
		p.nextToken()
		first := p.parseType()
		if first == nil {
			return nil
		}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return first
		}
		tuple := &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{first}}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			el := p.parseType()
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

func (p *Parser) peekStartsAtom() bool {
	switch p.peekToken.Type {
	case token.IDENT_LOWER, token.IDENT_UPPER, token.TYPE, token.INT, token.LPAREN:
		return true
	}
	return false
}
