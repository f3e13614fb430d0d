package main

import (
	"log"

	"github.com/funvibe/elimc/internal/ast"
)

// declaration is a top-level name of a document: a function, a data type
// or one of its constructors.
type declaration struct {
	name *ast.Identifier
	fn   *ast.FunctionDeclaration
	data *ast.DataDeclaration
	con  *ast.ConstructorDeclaration // set together with data
}

func findDeclaration(root *ast.Program, name string) *declaration {
	if root == nil {
		return nil
	}
	for _, stmt := range root.Statements {
		switch d := stmt.(type) {
		case *ast.FunctionDeclaration:
			if d.Name != nil && d.Name.Value == name {
				return &declaration{name: d.Name, fn: d}
			}
		case *ast.DataDeclaration:
			if d.Name != nil && d.Name.Value == name {
				return &declaration{name: d.Name, data: d}
			}
			for _, c := range d.Constructors {
				if c.Name != nil && c.Name.Value == name {
					return &declaration{name: c.Name, data: d, con: c}
				}
			}
		}
	}
	return nil
}

func (s *LanguageServer) handleDefinition(id interface{}, params TextDocumentPositionParams) error {
	log.Printf("Handling definition request for %s at line %d, char %d", params.TextDocument.URI, params.Position.Line, params.Position.Character)

	content, finalCtx, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return s.reply(id, nil)
	}

	// Even if errors exist, try to resolve
	word, _ := getWordAtPosition(content, params.Position.Line, params.Position.Character)
	decl := findDeclaration(finalCtx.AstRoot, word)
	if word == "" || decl == nil {
		return s.reply(id, nil)
	}

	tok := decl.name.Token
	loc := Location{
		URI: params.TextDocument.URI,
		Range: Range{
			Start: Position{Line: tok.Line - 1, Character: tok.Column - 1},
			End:   Position{Line: tok.Line - 1, Character: tok.Column - 1 + len(tok.Lexeme)},
		},
	}
	return s.reply(id, loc)
}
