// Package report renders checking results for a terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/prettyprinter"
)

// =============================================================================
// Color support detection
// =============================================================================

// ColorEnabled resolves a color mode (auto, always, never) for output
// written to f. Auto honours NO_COLOR and TERM=dumb.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// =============================================================================
// ANSI escape code helpers
// =============================================================================

const (
	fgRed    = 31
	fgGreen  = 32
	fgYellow = 33
	fgCyan   = 36
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes color escapes from s.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// =============================================================================
// Printer
// =============================================================================

type Printer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) fg(code int, s string) string {
	if !p.color {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", code, s)
}

func (p *Printer) bold(s string) string {
	if !p.color {
		return s
	}
	return "\033[1m" + s + "\033[22m"
}

// Diagnostic prints d followed by the offending source line and a caret.
func (p *Printer) Diagnostic(d *diagnostics.DiagnosticError, source string) {
	severity := p.fg(fgRed, d.Severity.String())
	if d.IsWarning() {
		severity = p.fg(fgYellow, d.Severity.String())
	}
	pos := fmt.Sprintf("%d:%d:", d.Token.Line, d.Token.Column)
	if d.File != "" {
		pos = d.File + ":" + pos
	}
	fmt.Fprintf(p.out, "%s %s %s: %s\n", p.bold(pos), severity, d.Code, d.Message())

	line := sourceLine(source, d.Token.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(p.out, "  %s\n", line)
	col := d.Token.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(p.out, "  %s%s\n", strings.Repeat(" ", col-1), p.fg(fgCyan, "^"))
}

func sourceLine(source string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Definition prints the status line of def, the clauses it is missing and,
// when showTree is set, its elimination tree.
func (p *Printer) Definition(def *pipeline.Definition, showTree bool) {
	status := p.fg(fgGreen, "ok")
	var mce *elim.MissingClausesError
	switch {
	case errors.As(def.Err, &mce):
		status = p.fg(fgYellow, "incomplete")
	case !def.OK():
		status = p.fg(fgRed, "failed")
	}
	suffix := ""
	if def.Cached {
		suffix = " (unchanged)"
	}
	fmt.Fprintf(p.out, "%s: %s%s\n", p.bold(def.Name), status, suffix)

	if mce != nil {
		fmt.Fprintln(p.out, "  missing clauses:")
		for _, line := range strings.Split(strings.TrimRight(prettyprinter.PrintMissing(mce.Witnesses, mce.Truncated), "\n"), "\n") {
			fmt.Fprintf(p.out, "    %s\n", line)
		}
	}
	if showTree && def.Result != nil {
		for _, line := range strings.Split(strings.TrimRight(prettyprinter.PrintTree(def.Result.Tree), "\n"), "\n") {
			fmt.Fprintf(p.out, "  %s\n", line)
		}
	}
}

// Context prints every diagnostic of ctx, then every definition, then a
// one-line summary. It returns the number of errors.
func (p *Printer) Context(ctx *pipeline.PipelineContext, showTree bool) int {
	errs, warnings := 0, 0
	for _, d := range ctx.Errors {
		p.Diagnostic(d, ctx.SourceCode)
		if d.IsWarning() {
			warnings++
		} else {
			errs++
		}
	}
	for _, def := range ctx.Definitions {
		p.Definition(def, showTree)
	}
	fmt.Fprintf(p.out, "%s, %s, %s\n", plural(len(ctx.Definitions), "definition"),
		plural(errs, "error"), plural(warnings, "warning"))
	return errs
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
