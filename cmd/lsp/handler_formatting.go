package main

import (
	"log"
	"strings"

	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/prettyprinter"
)

func (s *LanguageServer) handleFormatting(id interface{}, params DocumentFormattingParams) error {
	log.Printf("Handling formatting request for %s", params.TextDocument.URI)

	content, finalCtx, ok := s.snapshot(params.TextDocument.URI)
	if !ok || finalCtx.AstRoot == nil || hasParseErrors(finalCtx.Errors) {
		// Printing a partial AST would drop the user's text
		return s.reply(id, []TextEdit{})
	}

	formatted := prettyprinter.Print(finalCtx.AstRoot)
	if formatted == content {
		return s.reply(id, []TextEdit{})
	}

	// Create a text edit that replaces the entire document
	lastLine := strings.Count(content, "\n")
	edit := TextEdit{
		Range: Range{
			Start: Position{Line: 0, Character: 0},
			End: Position{
				Line:      lastLine,
				Character: len(getLine(content, lastLine)),
			},
		},
		NewText: formatted,
	}

	return s.reply(id, []TextEdit{edit})
}

func hasParseErrors(errs []*diagnostics.DiagnosticError) bool {
	for _, err := range errs {
		if strings.HasPrefix(string(err.Code), "P") {
			return true
		}
	}
	return false
}
