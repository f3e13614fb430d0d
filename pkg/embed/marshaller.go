package elimc

import (
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/prettyprinter"
)

// Outcome is the result of checking one file.
type Outcome struct {
	File        string
	Definitions []*Definition
	Diagnostics []*Diagnostic
}

// Definition summarises one checked function.
type Definition struct {
	Name      string
	OK        bool
	Status    string // ok, incomplete or failed
	Tree      string // the elimination tree as printed by PrintTree
	Missing   []string
	Truncated bool
	Redundant []int
	Cached    bool
}

type Diagnostic struct {
	Code     string
	Severity string
	Message  string
	Line     int
	Column   int
}

// HasErrors reports whether any diagnostic is an error rather than a warning.
func (o *Outcome) HasErrors() bool {
	for _, d := range o.Diagnostics {
		if d.Severity != "warning" {
			return true
		}
	}
	return false
}

// Definition returns the definition called name, or nil.
func (o *Outcome) Definition(name string) *Definition {
	for _, d := range o.Definitions {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Marshal converts a finished pipeline context.
func Marshal(ctx *pipeline.PipelineContext) *Outcome {
	out := &Outcome{File: ctx.FilePath}
	for _, def := range ctx.Definitions {
		snap := prettyprinter.NewSnapshot(def)
		d := &Definition{
			Name:      def.Name,
			OK:        def.OK(),
			Status:    snap.Status,
			Missing:   snap.Missing,
			Truncated: snap.Truncated,
			Redundant: snap.Redundant,
			Cached:    def.Cached,
		}
		if def.Result != nil {
			d.Tree = prettyprinter.PrintTree(def.Result.Tree)
		}
		out.Definitions = append(out.Definitions, d)
	}
	for _, e := range ctx.Errors {
		out.Diagnostics = append(out.Diagnostics, &Diagnostic{
			Code:     string(e.Code),
			Severity: e.Severity.String(),
			Message:  e.Message(),
			Line:     e.Token.Line,
			Column:   e.Token.Column,
		})
	}
	return out
}
