package parser

import (
	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/token"
)

// data Name params [with n, m] { | [patterns =>] con params }
func (p *Parser) parseDataDeclaration() *ast.DataDeclaration {
	decl := &ast.DataDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	decl.Name = p.identifier()

	params, ok := p.parseTelescope(true)
	if !ok {
		return nil
	}
	decl.Params = params

	if p.peekTokenIs(token.WITH) {
		p.nextToken()
		names, ok := p.parseNameList()
		if !ok {
			return nil
		}
		decl.Eliminated = names
	}

	for p.peekTokenIs(token.PIPE) {
		p.nextToken() // '|'
		p.nextToken()
		con := p.parseConstructorDeclaration(decl.Eliminated != nil)
		if con == nil {
			return nil
		}
		decl.Constructors = append(decl.Constructors, con)
	}
	return decl
}

func (p *Parser) parseConstructorDeclaration(indexed bool) *ast.ConstructorDeclaration {
	con := &ast.ConstructorDeclaration{}

	if indexed {
		patterns := p.parsePatternList()
		if patterns == nil {
			return nil
		}
		if !p.expectPeek(token.FAT_ARROW) {
			return nil
		}
		p.nextToken()
		con.Patterns = patterns
	}

	if !p.curTokenIs(token.IDENT_LOWER) {
		p.addError(diagnostics.ErrP002, p.curToken, "constructor name", describe(p.curToken))
		return nil
	}
	con.Token = p.curToken
	con.Name = p.identifier()

	params, ok := p.parseTelescope(true)
	if !ok {
		return nil
	}
	con.Params = params
	return con
}

// func name params : type [elim x, y] { | patterns [=> body] }
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	decl := &ast.FunctionDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT_LOWER) {
		return nil
	}
	decl.Name = p.identifier()

	params, ok := p.parseTelescope(false)
	if !ok {
		return nil
	}
	decl.Params = params

	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	decl.ResultType = p.parseType()
	if decl.ResultType == nil {
		return nil
	}

	if p.peekTokenIs(token.ELIM) {
		p.nextToken()
		names, ok := p.parseNameList()
		if !ok {
			return nil
		}
		decl.Eliminated = names
	}

	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		clause := p.parseClause()
		if clause == nil {
			return nil
		}
		clause.Index = len(decl.Clauses)
		decl.Clauses = append(decl.Clauses, clause)
	}
	return decl
}

// parseClause expects curToken on '|'.
func (p *Parser) parseClause() *ast.Clause {
	clause := &ast.Clause{Token: p.curToken}

	if !p.peekTokenIs(token.FAT_ARROW) {
		p.nextToken()
		clause.Patterns = p.parsePatternList()
		if clause.Patterns == nil {
			return nil
		}
	}

	if !p.peekTokenIs(token.FAT_ARROW) {
		if !containsAbsurd(clause.Patterns) {
			p.peekError(token.FAT_ARROW)
			return nil
		}
		return clause
	}
	p.nextToken()
	p.nextToken()
	clause.Body = p.parseType()
	if clause.Body == nil {
		return nil
	}
	return clause
}

// parseNameList parses "x, y, z" after the current token.
func (p *Parser) parseNameList() ([]*ast.Identifier, bool) {
	if !p.expectPeek(token.IDENT_LOWER) {
		return nil, false
	}
	names := []*ast.Identifier{p.identifier()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT_LOWER) {
			return nil, false
		}
		names = append(names, p.identifier())
	}
	return names, true
}

// parseTelescope collects binder groups following the current token.
// With anonymous set, bare atomic types are accepted as unnamed
// explicit parameters.
func (p *Parser) parseTelescope(anonymous bool) ([]*ast.Param, bool) {
	var params []*ast.Param
	for {
		switch {
		case p.peekTokenIs(token.LBRACE), p.peekTokenIs(token.LPAREN) && p.binderGroupAt(1):
			p.nextToken()
			param := p.parseBinderGroup()
			if param == nil {
				return nil, false
			}
			params = append(params, param)
		case anonymous && p.peekStartsAtom():
			p.nextToken()
			param := &ast.Param{Token: p.curToken, Explicit: true}
			param.Type = p.parseAtom()
			if param.Type == nil {
				return nil, false
			}
			params = append(params, param)
		default:
			return params, true
		}
	}
}

// binderGroupAt reports whether the token k positions ahead opens a
// named binder group: '(' names ':' or '{' names ':'.
func (p *Parser) binderGroupAt(k int) bool {
	i := k + 1
	for {
		tt := p.tokenAt(i).Type
		if tt != token.IDENT_LOWER && tt != token.IDENT_UPPER && tt != token.UNDERSCORE {
			break
		}
		i++
	}
	return i > k+1 && p.tokenAt(i).Type == token.COLON
}

// parseBinderGroup expects curToken on '(' or '{'.
func (p *Parser) parseBinderGroup() *ast.Param {
	param := &ast.Param{Token: p.curToken, Explicit: p.curTokenIs(token.LPAREN)}
	closing := token.RPAREN
	if !param.Explicit {
		closing = token.RBRACE
	}

	if p.binderGroupAt(0) {
		for !p.peekTokenIs(token.COLON) {
			p.nextToken()
			param.Names = append(param.Names, p.identifier())
		}
		p.nextToken() // ':'
	}
	p.nextToken()
	param.Type = p.parseType()
	if param.Type == nil {
		return nil
	}
	if !p.expectPeek(closing) {
		return nil
	}
	return param
}
