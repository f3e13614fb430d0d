package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
missing_clauses_limit: 3
max_number_pattern: 64
allow_interval: true
cache: .elimc/cache.db
server:
  addr: 0.0.0.0:9000
color: never
`
	cfg, err := ParseConfig([]byte(yaml), "/work/elimc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MissingClausesLimit != 3 {
		t.Errorf("missing_clauses_limit = %d, want 3", cfg.MissingClausesLimit)
	}
	if cfg.MaxNumberPattern != 64 {
		t.Errorf("max_number_pattern = %d, want 64", cfg.MaxNumberPattern)
	}
	if !cfg.AllowInterval {
		t.Error("expected allow_interval to be true")
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Color != ColorNever {
		t.Errorf("color = %q, want never", cfg.Color)
	}
	if got := cfg.CachePath(); got != filepath.Join("/work", ".elimc", "cache.db") {
		t.Errorf("cache path = %q", got)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""), "elimc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MissingClausesLimit != DefaultMissingClausesLimit {
		t.Errorf("missing_clauses_limit = %d, want %d", cfg.MissingClausesLimit, DefaultMissingClausesLimit)
	}
	if cfg.MaxNumberPattern != DefaultMaxNumberPattern {
		t.Errorf("max_number_pattern = %d, want %d", cfg.MaxNumberPattern, DefaultMaxNumberPattern)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("color = %q, want auto", cfg.Color)
	}
	if cfg.CachePath() != "" {
		t.Errorf("caching should be disabled by default")
	}

	d := Default()
	if d.MissingClausesLimit != cfg.MissingClausesLimit || d.Path != "" {
		t.Errorf("Default() = %+v", d)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative limit", "missing_clauses_limit: -1", "missing_clauses_limit must be at least 1"},
		{"negative number cap", "max_number_pattern: -5", "max_number_pattern must be at least 1"},
		{"unknown color", "color: rainbow", "color must be one of"},
		{"bad yaml", "server: [", "parsing bad.yaml"},
		{"wrong type", "allow_interval: maybe", "parsing bad.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "bad.yaml")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAbsoluteCachePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "trees.db")
	cfg, err := ParseConfig([]byte("cache: "+abs), "/elsewhere/elimc.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CachePath() != abs {
		t.Errorf("cache path = %q, want %q", cfg.CachePath(), abs)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, "a", "elimc.yml")
	if err := os.WriteFile(cfgPath, []byte("missing_clauses_limit: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found %q, want %q", found, cfgPath)
	}

	cfg, err := Resolve(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MissingClausesLimit != 2 || cfg.Path != cfgPath {
		t.Errorf("resolved %+v", cfg)
	}

	// elimc.yaml wins over elimc.yml in the same directory.
	preferred := filepath.Join(root, "a", "elimc.yaml")
	if err := os.WriteFile(preferred, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if found, _ := FindConfig(nested); found != preferred {
		t.Errorf("found %q, want %q", found, preferred)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "elimc.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("expected a read error, got %v", err)
	}
}
