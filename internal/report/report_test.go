package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/elimc/internal/checker"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/lexer"
	"github.com/funvibe/elimc/internal/parser"
	"github.com/funvibe/elimc/internal/pipeline"
)

func run(src string) *pipeline.PipelineContext {
	ctx := &pipeline.PipelineContext{FilePath: "t.elim", SourceCode: src, Config: config.Default()}
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&checker.CheckerProcessor{},
	).Run(ctx)
}

const source = `func isZero (x : Nat) : Nat
  | zero => 1
func pred (x : Nat) : Nat
  | zero => 0
  | suc n => n
  | suc zero => 0`

func TestContext(t *testing.T) {
	var out bytes.Buffer
	errs := New(&out, false).Context(run(source), false)
	if errs != 1 {
		t.Errorf("expected 1 error, got %d", errs)
	}

	want := []string{
		"t.elim:1:6: error E005: some clauses are missing: | suc _",
		"  func isZero (x : Nat) : Nat",
		"t.elim:6:3: warning E006: this clause is redundant",
		"    | suc zero => 0",
		"    ^",
		"isZero: incomplete",
		"  missing clauses:",
		"    | suc _",
		"pred: ok",
		"2 definitions, 1 error, 1 warning",
	}
	got := out.String()
	for _, line := range want {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("color disabled, but output has escapes")
	}
}

func TestTree(t *testing.T) {
	var out bytes.Buffer
	New(&out, false).Context(run(source), true)
	for _, line := range []string{"  x : split", "    zero => #0 => 0", "    suc n => #1 [n := n] => n"} {
		if !strings.Contains(out.String(), line+"\n") {
			t.Errorf("missing tree line %q in:\n%s", line, out.String())
		}
	}
}

func TestColor(t *testing.T) {
	var out bytes.Buffer
	New(&out, true).Context(run(source), false)
	colored := out.String()
	if !strings.Contains(colored, "\033[31merror\033[39m") || !strings.Contains(colored, "\033[33mwarning\033[39m") {
		t.Errorf("expected colored severities:\n%q", colored)
	}

	var plain bytes.Buffer
	New(&plain, false).Context(run(source), false)
	if StripAnsi(colored) != plain.String() {
		t.Errorf("stripped output differs from plain output:\n%s\n---\n%s", StripAnsi(colored), plain.String())
	}
}

func TestColorEnabled(t *testing.T) {
	if !ColorEnabled(config.ColorAlways, nil) {
		t.Errorf("always should enable color")
	}
	if ColorEnabled(config.ColorNever, nil) {
		t.Errorf("never should disable color")
	}
	if ColorEnabled(config.ColorAuto, nil) {
		t.Errorf("auto without a terminal should disable color")
	}
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(config.ColorAuto, nil) {
		t.Errorf("NO_COLOR should disable color")
	}
}
