package parser

import (
	"fmt"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/token"
)

// MaxRecursionDepth bounds nesting of patterns and types.
const MaxRecursionDepth = 256

type Parser struct {
	tokens []token.Token
	pos    int // index of the token after peekToken

	curToken  token.Token
	peekToken token.Token

	ctx   *pipeline.PipelineContext
	depth int
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
		return
	}
	p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
}

// tokenAt returns the token k positions ahead: 0 is curToken, 1 is peekToken.
func (p *Parser) tokenAt(k int) token.Token {
	switch k {
	case 0:
		return p.curToken
	case 1:
		return p.peekToken
	}
	if i := p.pos + k - 2; i < len(p.tokens) {
		return p.tokens[i]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, args...))
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP002, p.peekToken, fmt.Sprintf("'%s'", t), describe(p.peekToken))
}

// unexpected reports curToken as out of place.
func (p *Parser) unexpected() {
	tok := p.curToken
	if tok.Type == token.ILLEGAL && tok.Lexeme != "" && tok.Lexeme[0] >= '0' && tok.Lexeme[0] <= '9' {
		p.addError(diagnostics.ErrP003, tok, tok.Lexeme)
		return
	}
	p.addError(diagnostics.ErrP001, tok, describe(tok))
}

// enter guards recursive descent; every call is paired with a deferred leave.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP004, p.curToken, "expression too complex: recursion depth limit exceeded")
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) identifier() *ast.Identifier {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ParseProgram parses a sequence of data and function declarations.
// After an error the parser resynchronizes at the next declaration keyword.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}

	for !p.curTokenIs(token.EOF) {
		start := p.pos
		switch p.curToken.Type {
		case token.DATA:
			if decl := p.parseDataDeclaration(); decl != nil {
				program.Statements = append(program.Statements, decl)
				p.nextToken()
				continue
			}
		case token.FUNC:
			if decl := p.parseFunctionDeclaration(); decl != nil {
				program.Statements = append(program.Statements, decl)
				p.nextToken()
				continue
			}
		default:
			p.unexpected()
		}
		if p.pos == start {
			p.nextToken()
		}
		p.skipToDeclaration()
	}
	return program
}

func (p *Parser) skipToDeclaration() {
	for !p.curTokenIs(token.DATA) && !p.curTokenIs(token.FUNC) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}
