package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/prettyprinter"
)

func (s *LanguageServer) handleHover(id interface{}, params TextDocumentPositionParams) error {
	log.Printf("Handling hover request for %s at line %d, char %d", params.TextDocument.URI, params.Position.Line, params.Position.Character)

	content, finalCtx, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return s.reply(id, nil)
	}

	word, rng := getWordAtPosition(content, params.Position.Line, params.Position.Character)
	value := ""
	if word != "" {
		value = describe(finalCtx, word)
	}
	if value == "" {
		return s.reply(id, nil)
	}

	return s.reply(id, Hover{
		Contents: MarkupContent{Kind: "markdown", Value: value},
		Range:    &rng,
	})
}

// describe renders the hover text of a top-level name, or "" for a name
// the document does not declare.
func describe(ctx *pipeline.PipelineContext, name string) string {
	decl := findDeclaration(ctx.AstRoot, name)
	if decl == nil {
		return ""
	}

	var sb strings.Builder
	switch {
	case decl.con != nil:
		fmt.Fprintf(&sb, "```elimc\n%s\n```\nconstructor of `%s`", prettyprinter.Print(decl.con), decl.data.Name.Value)
	case decl.data != nil:
		fmt.Fprintf(&sb, "```elimc\n%s\n```", prettyprinter.Print(decl.data))
	case decl.fn != nil:
		header, _, _ := strings.Cut(prettyprinter.Print(decl.fn), "\n")
		fmt.Fprintf(&sb, "```elimc\n%s\n```\n", header)
		def := definition(ctx, decl.fn.Name.Value)
		if def == nil {
			break
		}
		snap := prettyprinter.NewSnapshot(def)
		fmt.Fprintf(&sb, "\n**%s**", snap.Status)
		if snap.Error != "" {
			fmt.Fprintf(&sb, ": %s", snap.Error)
		}
		sb.WriteString("\n")
		if snap.Status == prettyprinter.StatusIncomplete && def.Result != nil {
			fmt.Fprintf(&sb, "\nMissing clauses:\n```elimc\n%s```\n", prettyprinter.PrintMissing(def.Result.Missing, def.Result.Truncated))
		}
		if len(snap.Redundant) > 0 {
			fmt.Fprintf(&sb, "\nRedundant clauses: %s\n", joinInts(snap.Redundant))
		}
		if def.Result != nil && def.Result.Tree != nil {
			fmt.Fprintf(&sb, "\nElimination tree:\n```\n%s```\n", prettyprinter.PrintTree(def.Result.Tree))
		}
	}
	return sb.String()
}

func definition(ctx *pipeline.PipelineContext, name string) *pipeline.Definition {
	for _, def := range ctx.Definitions {
		if def.Name == name {
			return def
		}
	}
	return nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("#%d", x)
	}
	return strings.Join(parts, ", ")
}
