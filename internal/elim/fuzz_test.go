package elim_test

import (
	"testing"

	"github.com/funvibe/elimc/internal/checker"
	"github.com/funvibe/elimc/internal/diagnostics"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/lexer"
	"github.com/funvibe/elimc/internal/parser"
	"github.com/funvibe/elimc/internal/pipeline"
)

// FuzzCompile feeds arbitrary programs through parsing and compilation.
// Compilation must never panic and must always produce a tree or an error.
func FuzzCompile(f *testing.F) {
	f.Add("func f (x : Nat) : Nat\n  | zero => 0\n  | suc n => n")
	f.Add("data Empty\nfunc f (e : Empty) : Nat\n  | ()")
	f.Add("data T | a | b T\nfunc f (x y : T) : T\n  | a, _ => a\n  | b (b x), y => y")
	f.Add(vecDecls + "func f (n : Nat) (xs : Vec Nat n) : Nat elim xs\n  | nil => n")
	f.Add("func f (p : Sigma (a : Nat) (Nat)) : Nat\n  | (zero, b) => b")

	f.Fuzz(func(t *testing.T, src string) {
		ctx := &pipeline.PipelineContext{SourceCode: src, FilePath: "fuzz.elim"}
		ctx = (&lexer.LexerProcessor{}).Process(ctx)
		ctx = (&parser.ParserProcessor{}).Process(ctx)
		if ctx.HasErrors() || ctx.AstRoot == nil {
			return
		}

		diags := diagnostics.NewCollector("fuzz.elim")
		c := checker.New(diags, elim.Options{MissingClausesLimit: 3})
		for _, def := range c.CheckProgram(ctx.AstRoot) {
			if def.Result == nil {
				t.Fatalf("%s: no result", def.Name)
			}
			if def.Err == nil && def.Result.Tree == nil && len(def.Decl.Clauses) > 0 {
				t.Errorf("%s: accepted without a tree", def.Name)
			}
			if len(def.Result.Missing) > 3 {
				t.Errorf("%s: %d witnesses exceed the limit", def.Name, len(def.Result.Missing))
			}
		}
	})
}
