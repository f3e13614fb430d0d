package service

import (
	"bytes"
	"context"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/funvibe/elimc/internal/config"
	elimc "github.com/funvibe/elimc/pkg/embed"
)

const bufSize = 1 << 20

// startServer serves a checker over an in-memory listener and returns a
// client connected to it.
func startServer(t *testing.T, opts Options) *Client {
	t.Helper()
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	lis := bufconn.Listen(bufSize)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client, err := NewClient(conn)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		conn.Close()
		cancel()
		select {
		case err := <-errc:
			if err != nil {
				t.Errorf("Serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("server did not stop")
		}
	})
	return client
}

const source = `func isZero (x : Nat) : Nat
  | zero => 1
func pred (x : Nat) : Nat
  | zero => 0
  | suc n => n
  | suc zero => 0`

func TestCheck(t *testing.T) {
	var logs bytes.Buffer
	client := startServer(t, Options{Logger: log.New(&logs, "", 0)})

	resp, err := client.Check(context.Background(), "nat.elim", source)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.RequestID == "" {
		t.Errorf("missing request ID")
	}
	if !resp.HasErrors() {
		t.Errorf("expected errors")
	}

	want := []*elimc.Definition{
		{
			Name:    "isZero",
			Status:  "incomplete",
			Tree:    "x : split\n  zero => #0 => 1\n",
			Missing: []string{"suc _"},
		},
		{
			Name:      "pred",
			OK:        true,
			Status:    "ok",
			Tree:      "x : split\n  zero => #0 => 0\n  suc n => #1 [n := n] => n\n",
			Redundant: []int{2},
		},
	}
	if diff := cmp.Diff(want, resp.Definitions); diff != "" {
		t.Errorf("definitions (-want +got):\n%s", diff)
	}

	wantDiags := []*elimc.Diagnostic{
		{Code: "E005", Severity: "error", Message: "some clauses are missing: | suc _", Line: 1, Column: 6},
		{Code: "E006", Severity: "warning", Message: "this clause is redundant", Line: 6, Column: 3},
	}
	if diff := cmp.Diff(wantDiags, resp.Diagnostics); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	if !strings.Contains(logs.String(), "check "+resp.RequestID+" file=nat.elim definitions=2 errors=true") {
		t.Errorf("request not logged:\n%s", logs.String())
	}
}

func TestCheckUsesConfiguredChecker(t *testing.T) {
	cfg := config.Default()
	cfg.AllowInterval = true
	client := startServer(t, Options{Checker: elimc.New(elimc.WithConfig(cfg))})

	resp, err := client.Check(context.Background(), "", "func g (i : I) : Nat\n  | left => 0\n  | right => 1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.HasErrors() || len(resp.Definitions) != 1 || !resp.Definitions[0].OK {
		t.Errorf("response = %+v", resp)
	}
}

func TestCheckRejectsEmptySource(t *testing.T) {
	client := startServer(t, Options{})
	_, err := client.Check(context.Background(), "empty.elim", "  \n")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestParseErrorsAreDiagnostics(t *testing.T) {
	client := startServer(t, Options{})
	resp, err := client.Check(context.Background(), "bad.elim", "func f (x : Nat) : Nat | zero")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(resp.Definitions) != 0 || len(resp.Diagnostics) == 0 || !strings.HasPrefix(resp.Diagnostics[0].Code, "P") {
		t.Errorf("response = %+v", resp)
	}
}

func TestEncodeDecode(t *testing.T) {
	md, err := checkMethod()
	if err != nil {
		t.Fatal(err)
	}
	resp := &CheckResponse{
		RequestID: "r",
		Definitions: []*elimc.Definition{
			{Name: "f", Status: "incomplete", Missing: []string{"zero, _", "suc _, _"}, Truncated: true, Cached: true},
		},
		Diagnostics: []*elimc.Diagnostic{{Code: "E005", Severity: "error", Message: "m", Line: 3, Column: 9}},
	}
	msg, err := encodeResponse(md.GetOutputType(), resp)
	if err != nil {
		t.Fatal(err)
	}

	data, err := msg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	decoded := dynamic.NewMessage(md.GetOutputType())
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(resp, decodeResponse(decoded)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestSetFieldErrors(t *testing.T) {
	md, err := checkMethod()
	if err != nil {
		t.Fatal(err)
	}
	msg := dynamic.NewMessage(md.GetInputType())
	if err := setField(msg, "nope", "x"); err == nil {
		t.Errorf("expected an error for an unknown field")
	}
	if err := setField(msg, "file", 42); err == nil {
		t.Errorf("expected an error for a mistyped value")
	}
}
