package elim_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/elim"
)

// evaluate runs t on the values bound in env and returns the selected
// leaf, or nil when the path is missing or absurd.
func evaluate(t elim.Tree, env map[*core.Binding]core.Expr) *elim.Leaf {
	switch n := t.(type) {
	case *elim.Leaf:
		return n
	case *elim.Branch:
		switch v := env[n.Param].(type) {
		case *core.ConCall:
			for _, c := range n.Cases {
				if c.Con != v.Con {
					continue
				}
				for i, p := range c.Params {
					env[p] = v.Args[i]
				}
				return evaluate(c.Child, env)
			}
		case *core.Tuple:
			if len(n.Cases) == 1 {
				for i, p := range n.Cases[0].Params {
					env[p] = v.Fields[i]
				}
				return evaluate(n.Cases[0].Child, env)
			}
		}
		if n.Default != nil {
			return evaluate(n.Default, env)
		}
	}
	return nil
}

// firstMatch is the reference semantics: the first clause whose
// patterns all match.
func firstMatch(clauses []*ast.Clause, values []core.Expr) *ast.Clause {
	for _, c := range clauses {
		ok := len(c.Patterns) == len(values)
		for i := 0; ok && i < len(values); i++ {
			ok = matches(c.Patterns[i], values[i])
		}
		if ok {
			return c
		}
	}
	return nil
}

func matches(p ast.Pattern, v core.Expr) bool {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.LiteralPattern:
		return matches(literalPattern(p.Value), v)
	case *ast.ConstructorPattern:
		call, ok := v.(*core.ConCall)
		if !ok || call.Con.Name != p.Name.Value || len(call.Args) != len(p.Arguments) {
			return false
		}
		for i, a := range p.Arguments {
			if !matches(a, call.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func literalPattern(n int64) ast.Pattern {
	var p ast.Pattern = &ast.ConstructorPattern{Name: &ast.Identifier{Value: "zero"}, Explicit: true}
	for i := int64(0); i < n; i++ {
		p = &ast.ConstructorPattern{Name: &ast.Identifier{Value: "suc"}, Arguments: []ast.Pattern{p}, Explicit: true}
	}
	return p
}

// values enumerates the closed values of data up to depth constructors.
func values(data *core.DataDef, depth int) []core.Expr {
	if depth == 0 {
		return nil
	}
	var out []core.Expr
	for _, con := range data.Constructors {
		args := [][]core.Expr{nil}
		for _, p := range con.Params {
			dc := p.Type.(*core.DataCall)
			var next [][]core.Expr
			for _, prefix := range args {
				for _, v := range values(dc.Data, depth-1) {
					next = append(next, append(prefix[:len(prefix):len(prefix)], v))
				}
			}
			args = next
		}
		for _, a := range args {
			out = append(out, &core.ConCall{Con: con, Args: a})
		}
	}
	return out
}

func product(sets [][]core.Expr) [][]core.Expr {
	out := [][]core.Expr{nil}
	for _, set := range sets {
		var next [][]core.Expr
		for _, prefix := range out {
			for _, v := range set {
				next = append(next, append(prefix[:len(prefix):len(prefix)], v))
			}
		}
		out = next
	}
	return out
}

var propertyCases = []struct {
	name string
	src  string
}{
	{"complete", `func f (x : Nat) : Nat
  | zero => 0
  | suc n => 1`},
	{"missing suc", `func f (x : Nat) : Nat
  | zero => 0`},
	{"catch-all first", `func f (x : Nat) : Nat
  | _ => 1
  | zero => 0`},
	{"shadowed", `func f (x : Nat) : Nat
  | zero => 0
  | suc n => 1
  | suc (suc m) => 2`},
	{"two columns", `func f (x y : Nat) : Nat
  | zero, zero => 0
  | suc _, _ => 1
  | _, suc _ => 2`},
	{"two columns default", `func f (x y : Nat) : Nat
  | zero, zero => 0
  | _, suc n => 1`},
	{"two columns missing", `func f (x y : Nat) : Nat
  | zero, _ => 0
  | _, zero => 1`},
	{"literals", `func f (x : Nat) : Nat
  | 0 => 1
  | 2 => 2
  | suc n => 3`},
	{"literal gaps", `func f (x : Nat) : Nat
  | 1 => 1
  | suc (suc _) => 2`},
	{"tree", `data T | a | b T | c T T
func f (x : T) : Nat
  | a => 0
  | b (b x) => 1
  | c _ a => 2
  | _ => 3`},
	{"tree missing", `data T | a | b T | c T T
func f (x : T) : Nat
  | a => 0
  | b a => 1
  | c x y => 2`},
	{"tree pairs", `data T | a | b T | c T T
func f (x y : T) : Nat
  | a, a => 0
  | b _, _ => 1
  | _, c _ _ => 2
  | c _ _, _ => 3`},
	{"defaults", `data T | a | b T | c T T
func f (x y : T) : Nat
  | b a, _ => 0
  | _, a => 1
  | c (b _) _, b _ => 2
  | _, _ => 3`},
}

func TestCompiledTreeAgreesWithFirstMatch(t *testing.T) {
	for _, tt := range propertyCases {
		t.Run(tt.name, func(t *testing.T) {
			f := compile(t, tt.src, elim.Options{MissingClausesLimit: 1000})
			def := f.def("f")
			params := f.env.Function("f").Type.(*core.Pi).Params

			sets := make([][]core.Expr, len(params))
			for i, p := range params {
				sets[i] = values(p.Type.(*core.DataCall).Data, 4)
			}

			complete := def.Err == nil
			unmatched := 0
			for _, args := range product(sets) {
				want := firstMatch(def.Decl.Clauses, args)
				if want == nil {
					unmatched++
					if complete {
						t.Errorf("accepted, but no clause matches %v", args)
					}
					continue
				}

				env := make(map[*core.Binding]core.Expr)
				for i, p := range params {
					env[p] = args[i]
				}
				got := evaluate(def.Result.Tree, env)
				if got == nil {
					t.Errorf("clause %d matches %v, but the tree has no leaf for it", want.Index, args)
					continue
				}
				if got.Clause != want {
					t.Errorf("%v: tree selects clause %d, first match is clause %d", args, got.Clause.Index, want.Index)
				}
			}

			if !complete && unmatched == 0 {
				t.Errorf("rejected, but every enumerated value is matched (witnesses %v)", witnesses(f.missing("f")))
			}
		})
	}
}

// No value a reported witness stands for may be matched by a clause.
func TestWitnessesAreUnmatched(t *testing.T) {
	for _, tt := range propertyCases {
		t.Run(tt.name, func(t *testing.T) {
			f := compile(t, tt.src, elim.Options{MissingClausesLimit: 1000})
			def := f.def("f")
			if def.Err == nil {
				return
			}
			params := f.env.Function("f").Type.(*core.Pi).Params
			for _, w := range f.missing("f").Witnesses {
				patterns := w.Patterns()
				sets := make([][]core.Expr, len(patterns))
				for i, p := range patterns {
					sets[i] = instances(p, params[i].Type.(*core.DataCall).Data, 3)
				}
				for _, args := range product(sets) {
					if c := firstMatch(def.Decl.Clauses, args); c != nil {
						t.Errorf("witness %q is matched by clause %d at %v", w, c.Index, args)
					}
				}
			}
		})
	}
}

// instances enumerates the values a witness pattern stands for. A
// wildcard ranges over the values of data up to depth constructors.
func instances(p ast.Pattern, data *core.DataDef, depth int) []core.Expr {
	c, ok := p.(*ast.ConstructorPattern)
	if !ok {
		return values(data, depth)
	}
	con := data.Constructor(c.Name.Value)
	sets := make([][]core.Expr, len(c.Arguments))
	for i, a := range c.Arguments {
		sets[i] = instances(a, con.Params[i].Type.(*core.DataCall).Data, depth)
	}
	var out []core.Expr
	for _, args := range product(sets) {
		out = append(out, &core.ConCall{Con: con, Args: args})
	}
	return out
}

func TestCompilationIsDeterministic(t *testing.T) {
	for _, tt := range propertyCases {
		t.Run(tt.name, func(t *testing.T) {
			run := func() (string, []string, []int) {
				f := compile(t, tt.src, elim.Options{})
				def := f.def("f")
				var ws []string
				if def.Err != nil {
					ws = witnesses(f.missing("f"))
				}
				return shape(def.Result.Tree), ws, redundantIndexes(def.Result)
			}
			tree1, ws1, red1 := run()
			tree2, ws2, red2 := run()
			if diff := cmp.Diff(tree1, tree2); diff != "" {
				t.Errorf("tree differs between runs:\n%s", diff)
			}
			if diff := cmp.Diff(ws1, ws2); diff != "" {
				t.Errorf("witnesses differ between runs:\n%s", diff)
			}
			if diff := cmp.Diff(red1, red2); diff != "" {
				t.Errorf("redundant clauses differ between runs:\n%s", diff)
			}
		})
	}
}
