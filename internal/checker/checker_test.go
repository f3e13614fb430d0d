package checker

import (
	"strings"
	"testing"

	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/lexer"
	"github.com/funvibe/elimc/internal/parser"
	"github.com/funvibe/elimc/internal/pipeline"
)

func parseSource(t *testing.T, src string) *pipeline.PipelineContext {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: src, FilePath: "test.elim"}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse error: %v", ctx.Errors[0])
	}
	return ctx
}

func check(t *testing.T, src string) (*Checker, *diagnostics.Collector, map[string]*pipeline.Definition) {
	t.Helper()
	ctx := parseSource(t, src)
	diags := diagnostics.NewCollector("test.elim")
	c := New(diags, elim.Options{})
	defs := make(map[string]*pipeline.Definition)
	for _, d := range c.CheckProgram(ctx.AstRoot) {
		defs[d.Name] = d
	}
	return c, diags, defs
}

func expectDiagnostic(t *testing.T, diags *diagnostics.Collector, code diagnostics.ErrorCode, fragment string) {
	t.Helper()
	var msgs []string
	for _, d := range diags.Diagnostics() {
		if d.Code == code && strings.Contains(d.Message(), fragment) {
			return
		}
		msgs = append(msgs, d.Error())
	}
	t.Fatalf("expected %s containing %q, got:\n%s", code, fragment, strings.Join(msgs, "\n"))
}

func TestDeclareIndexedData(t *testing.T) {
	c, diags, _ := check(t, `
data Vec (A : Type) (n : Nat) with n
  | zero => nil
  | suc m => cons A (Vec A m)
`)
	if diags.Count(diagnostics.ErrA002) > 0 || diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	vec := c.Env().Data("Vec")
	if vec == nil || len(vec.Constructors) != 2 {
		t.Fatalf("Vec was not declared properly: %+v", vec)
	}

	tests := []struct {
		con      string
		patterns []string
		params   string
	}{
		{"nil", []string{"A", "zero"}, ""},
		{"cons", []string{"A", "suc m"}, "(_ : A) (_ : Vec A m)"},
	}
	for _, tt := range tests {
		con := vec.Constructor(tt.con)
		var got []string
		for _, p := range con.Patterns {
			got = append(got, p.String())
		}
		if strings.Join(got, " | ") != strings.Join(tt.patterns, " | ") {
			t.Errorf("%s patterns = %v, want %v", tt.con, got, tt.patterns)
		}
		if s := con.Params.String(); s != tt.params {
			t.Errorf("%s params = %q, want %q", tt.con, s, tt.params)
		}
	}

	if !c.Env().IsConstructor("cons") || c.Env().IsConstructor("Vec") {
		t.Errorf("IsConstructor is wrong")
	}
	names := []string{}
	for _, d := range c.Env().DataTypes() {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "Nat,I,Vec" {
		t.Errorf("data types = %v", names)
	}
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		code     diagnostics.ErrorCode
		fragment string
	}{
		{"duplicate data", "data B | t\ndata B | u", diagnostics.ErrA002, "already defined"},
		{"duplicate constructor", "data B | t | t", diagnostics.ErrA002, "constructor t"},
		{"unknown type", "data B | t Foo", diagnostics.ErrA001, "Foo"},
		{"data arity", "data B | t (Nat Nat)", diagnostics.ErrA002, "expects 0 arguments"},
		{"unknown index name", "data V (n : Nat) with k\n  | zero => v", diagnostics.ErrA002, "no parameter named k"},
		{"index pattern count", "data V (n : Nat) with n\n  | zero, zero => v", diagnostics.ErrA002, "expected 1 index patterns"},
		{"literal on a type", "data V (A : Type) with A\n  | 0 => v", diagnostics.ErrE002, "Type"},
		{"foreign index constructor", "data B | t\ndata V (n : Nat) with n\n  | t x => v", diagnostics.ErrE008, "t"},
		{"duplicate function", "func f (x : Nat) : Nat\n  | _ => 0\nfunc f (x : Nat) : Nat\n  | _ => 1", diagnostics.ErrA002, "function f"},
		{"unknown parameter type", "func f (x : Foo) : Nat\n  | _ => 0", diagnostics.ErrA001, "Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags, _ := check(t, tt.src)
			expectDiagnostic(t, diags, tt.code, tt.fragment)
		})
	}
}

func TestFailedDeclarationDoesNotStopOthers(t *testing.T) {
	c, diags, defs := check(t, `
data Bad | b Foo
data Good | g
func f (x : Good) : Nat
  | g => 0
`)
	expectDiagnostic(t, diags, diagnostics.ErrA001, "Foo")
	if c.Env().Data("Bad") != nil {
		t.Errorf("a failed data type should not be declared")
	}
	if def := defs["f"]; def == nil || !def.OK() {
		t.Errorf("f should still be compiled")
	}
}

func TestBodyChecking(t *testing.T) {
	_, diags, defs := check(t, `
data Bool | true | false
func not (b : Bool) : Bool
  | true => false
  | false => true
func twice (b : Bool) : Bool
  | b => not (not b)
func pair (n : Nat) : Sigma (Nat) (Bool)
  | n => (suc n, true)
func size (b : Bool) : Nat
  | true => 1
  | false => suc zero
`)
	for _, d := range diags.Diagnostics() {
		t.Errorf("unexpected diagnostic: %v", d)
	}
	for _, name := range []string{"not", "twice", "pair", "size"} {
		if def := defs[name]; def == nil || !def.OK() {
			t.Errorf("%s should check", name)
		}
	}
}

func TestBodyErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		code     diagnostics.ErrorCode
		fragment string
	}{
		{"type mismatch", "true", diagnostics.ErrE007, "expected Nat, got Bool"},
		{"unbound name", "y", diagnostics.ErrA001, "y"},
		{"constructor arity", "suc", diagnostics.ErrE007, "expects 1 arguments"},
		{"tuple for data", "(zero, zero)", diagnostics.ErrE007, "a tuple cannot have type"},
		{"universe", "Type", diagnostics.ErrE007, "type mismatch"},
		{"not a function", "x zero", diagnostics.ErrE007, "not a function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "data Bool | true | false\nfunc f (x : Nat) : Nat\n  | x => " + tt.body
			_, diags, defs := check(t, src)
			expectDiagnostic(t, diags, tt.code, tt.fragment)
			def := defs["f"]
			if def == nil || def.OK() {
				t.Fatalf("f should fail")
			}
			if def.Err != nil {
				t.Errorf("a body error is not fatal: %v", def.Err)
			}
		})
	}
}

func TestPatternResolution(t *testing.T) {
	c, _, defs := check(t, `
data Bool | true | false
func f (b : Bool) (n : Nat) : Nat
  | true, zero => 0
  | _, k => k
`)
	def := defs["f"]
	if def == nil || !def.OK() {
		t.Fatalf("f should check")
	}
	first := def.Decl.Clauses[0]
	if got := first.Patterns[0].String() + " " + first.Patterns[1].String(); got != "true zero" {
		t.Errorf("patterns = %s", got)
	}
	second := def.Decl.Clauses[1]
	if c.Env().IsConstructor("k") {
		t.Fatalf("k is a variable")
	}
	if got := second.Patterns[1].String(); got != "k" {
		t.Errorf("k = %s", got)
	}
}

func TestCheckerProcessor(t *testing.T) {
	src := "func g (i : I) : Nat\n  | left => 0\n  | right => 1"

	ctx := parseSource(t, src)
	ctx = (&CheckerProcessor{}).Process(ctx)
	if len(ctx.Definitions) != 1 || ctx.Definitions[0].OK() {
		t.Fatalf("matching on I should fail by default")
	}
	if !ctx.HasErrors() || ctx.Errors[0].Code != diagnostics.ErrE003 {
		t.Errorf("expected E003, got %v", ctx.Errors)
	}
	if ctx.Errors[0].File != "test.elim" {
		t.Errorf("diagnostic file = %q", ctx.Errors[0].File)
	}

	ctx = parseSource(t, src)
	cfg := config.Default()
	cfg.AllowInterval = true
	ctx.Config = cfg
	ctx = (&CheckerProcessor{}).Process(ctx)
	if len(ctx.Definitions) != 1 || !ctx.Definitions[0].OK() {
		t.Errorf("matching on I should be allowed: %v", ctx.Errors)
	}
}

func TestCheckerProcessorSkipsBrokenInput(t *testing.T) {
	ctx := &pipeline.PipelineContext{SourceCode: "func f (x : Nat) : Nat | zero", FilePath: "bad.elim"}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if !ctx.HasErrors() {
		t.Fatalf("expected a parse error")
	}
	ctx = (&CheckerProcessor{}).Process(ctx)
	if ctx.Definitions != nil {
		t.Errorf("a file with parse errors should not be checked")
	}
}
