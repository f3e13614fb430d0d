package elimc_test

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/store"
	elimc "github.com/funvibe/elimc/pkg/embed"
)

const program = `data Vec (A : Type) (n : Nat) with n
  | zero => nil
  | suc m => cons A (Vec A m)

func head {A : Type} (n : Nat) (xs : Vec A (suc n)) : A elim xs
  | cons x _ => x

func half (n : Nat) : Nat
  | zero => 0
  | suc (suc m) => m
`

func TestCheck(t *testing.T) {
	out := elimc.New().Check("vec.elim", program)

	head := out.Definition("head")
	if head == nil || !head.OK || head.Status != "ok" {
		t.Fatalf("head = %+v", head)
	}
	if !strings.HasPrefix(head.Tree, "xs : split\n") {
		t.Errorf("head tree:\n%s", head.Tree)
	}

	half := out.Definition("half")
	if half == nil || half.OK || half.Status != "incomplete" {
		t.Fatalf("half = %+v", half)
	}
	if diff := cmp.Diff([]string{"suc zero"}, half.Missing); diff != "" {
		t.Errorf("half missing (-want +got):\n%s", diff)
	}

	if !out.HasErrors() {
		t.Errorf("expected an error for half")
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Code != "E005" || out.Diagnostics[0].Line != 8 {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}
	if out.Definition("tail") != nil {
		t.Errorf("unknown definition should be nil")
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.elim")
	src := "func id (n : Nat) : Nat\n  | m => m\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := elimc.New().CheckFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.HasErrors() || !filepath.IsAbs(out.File) {
		t.Errorf("outcome = %+v", out)
	}

	if _, err := elimc.New().CheckFile(filepath.Join(dir, "missing.elim")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.MissingClausesLimit = 1

	var logs bytes.Buffer
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := elimc.New(elimc.WithConfig(cfg), elimc.WithStore(s), elimc.WithLogger(log.New(&logs, "", 0)))
	if c.Config() != cfg {
		t.Errorf("config not applied")
	}

	src := "func both (x y : Nat) : Nat\n  | zero, zero => 0\n"
	first := c.Check("both.elim", src)
	d := first.Definition("both")
	if d == nil || len(d.Missing) != 1 || !d.Truncated || d.Cached {
		t.Fatalf("first run = %+v", d)
	}
	if second := c.Check("both.elim", src); !second.Definition("both").Cached {
		t.Errorf("second run should recognise the stored definition")
	}
	if !strings.Contains(logs.String(), "checked both") {
		t.Errorf("expected a trace, got:\n%s", logs.String())
	}
}
