package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestGolden runs every testdata/*.elim file through the check command
// and compares the output with the .want file next to it. A first line
// of the form "-- flags: ..." adds command line flags.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.elim"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("No test files with .want found")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".elim")
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			wantBytes, err := os.ReadFile(strings.TrimSuffix(file, ".elim") + ".want")
			if err != nil {
				t.Fatalf("Failed to read .want file: %v", err)
			}

			args := []string{"check", "-color", "never"}
			first, _, _ := strings.Cut(string(source), "\n")
			if flags, ok := strings.CutPrefix(first, "-- flags:"); ok {
				args = append(args, strings.Fields(flags)...)
			}
			args = append(args, file)

			_, got, stderr := runCLI(t, args...)
			if stderr != "" {
				t.Errorf("unexpected stderr:\n%s", stderr)
			}

			got = strings.TrimSpace(strings.ReplaceAll(got, "\r\n", "\n"))
			want := strings.TrimSpace(strings.ReplaceAll(string(wantBytes), "\r\n", "\n"))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
