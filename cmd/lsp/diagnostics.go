package main

import (
	"path/filepath"

	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/pipeline"
)

func (s *LanguageServer) publishDiagnostics(uri string, finalCtx *pipeline.PipelineContext) error {
	lspDiagnostics := convertDiagnostics(finalCtx.Errors, uriToPath(uri), finalCtx.SourceCode)

	return s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiagnostics,
	})
}

func convertDiagnostics(errors []*diagnostics.DiagnosticError, filePath, content string) []Diagnostic {
	result := make([]Diagnostic, 0)
	targetPath := filepath.Clean(filePath)

	for _, err := range errors {
		if err.File != "" && targetPath != "" {
			if filepath.Clean(err.File) != targetPath {
				continue
			}
		}

		// LSP uses 0-based indexing
		line := max(err.Token.Line-1, 0)
		start := max(err.Token.Column-1, 0)
		end := start + max(len(err.Token.Lexeme), 1)

		diag := Diagnostic{
			Severity: SeverityError,
			Code:     string(err.Code),
			Message:  err.Message(),
			Source:   "elimc",
		}
		if err.IsWarning() {
			diag.Severity = SeverityWarning
		}
		if err.Code == diagnostics.ErrE006 {
			// A redundant clause is underlined up to the end of its line.
			end = max(end, len(getLine(content, line)))
			diag.Tags = []DiagnosticTag{TagUnnecessary}
		}
		diag.Range = Range{
			Start: Position{Line: line, Character: start},
			End:   Position{Line: line, Character: end},
		}
		result = append(result, diag)
	}

	return result
}
