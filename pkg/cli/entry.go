// Package cli implements the elimc command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/report"
	"github.com/funvibe/elimc/internal/service"
	"github.com/funvibe/elimc/internal/store"
	elimc "github.com/funvibe/elimc/pkg/embed"
)

const usage = `Usage: elimc <command> [flags] [files]

Commands:
  check [-tree] [-trace] [-dump] [-config path] [-color mode] file.elim...
        compile every definition, report missing and redundant clauses
  serve [-addr host:port] [-config path]
        run the elimc.Checker gRPC service
  remote [-addr host:port] file.elim...
        check files on a running service
  cache [-config path] [-run id]
        list cached runs, or the definitions of one run
  version
        print the version
`

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func fail(format string, args ...interface{}) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// errFound means the command ran but reported errors in the input.
var errFound = &exitError{code: 1}

type command struct {
	stdout io.Writer
	stderr io.Writer
}

// Run executes the command line args (without the program name) and
// returns the process exit code: 0 on success, 1 when a checked file has
// errors, 2 on usage or I/O failures.
func Run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			// Print stack trace for debugging
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = 3
		}
	}()

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	c := &command{stdout: stdout, stderr: stderr}
	var err error
	switch args[0] {
	case "check":
		err = c.handleCheck(args[1:])
	case "serve":
		err = c.handleServe(args[1:])
	case "remote":
		err = c.handleRemote(args[1:])
	case "cache":
		err = c.handleCache(args[1:])
	case "version", "-v", "-version", "--version":
		fmt.Fprintln(stdout, "elimc "+config.Version)
	case "help", "-help", "--help", "-h":
		fmt.Fprint(stdout, usage)
	default:
		err = fail("unknown command %q", args[0])
		fmt.Fprint(stderr, usage)
	}

	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %s\n", err)
	return 2
}

func (c *command) flags(name string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(c.stderr)
	return set
}

// loadConfig reads the file given with -config, or looks for elimc.yaml
// next to the first input file.
func loadConfig(path string, files []string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	dir := "."
	if len(files) > 0 {
		dir = filepath.Dir(files[0])
	}
	return config.Resolve(dir)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.CachePath()
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func (c *command) colorEnabled(mode string) bool {
	f, _ := c.stdout.(*os.File)
	return report.ColorEnabled(mode, f)
}

func (c *command) handleCheck(args []string) error {
	fset := c.flags("check")
	showTree := fset.Bool("tree", false, "print the elimination tree of every definition")
	trace := fset.Bool("trace", false, "log every pipeline stage and case split to stderr")
	dump := fset.Bool("dump", false, "dump the raw elimination trees")
	configPath := fset.String("config", "", "configuration file (default: nearest elimc.yaml)")
	color := fset.String("color", "", "color output: auto, always or never (default from config)")
	if err := fset.Parse(args); err != nil {
		return &exitError{code: 2}
	}
	files, err := expandInputs(fset.Args())
	if err != nil {
		return fail("%v", err)
	}
	if len(files) == 0 {
		return fail("check: no input files")
	}

	cfg, err := loadConfig(*configPath, files)
	if err != nil {
		return fail("%v", err)
	}
	if *color != "" {
		cfg.Color = *color
		if err := cfg.Validate(); err != nil {
			return fail("%v", err)
		}
	}

	opts := []elimc.Option{elimc.WithConfig(cfg)}
	s, err := openStore(cfg)
	if err != nil {
		return fail("%v", err)
	}
	if s != nil {
		defer s.Close()
		opts = append(opts, elimc.WithStore(s))
	}
	if *trace {
		opts = append(opts, elimc.WithLogger(log.New(c.stderr, "elimc: ", 0)))
	}
	checker := elimc.New(opts...)
	printer := report.New(c.stdout, c.colorEnabled(cfg.Color))

	failed := false
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return fail("reading source file: %v", err)
		}
		ctx := checker.Run(file, string(source))
		if printer.Context(ctx, *showTree) > 0 {
			failed = true
		}
		if *dump {
			dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, MaxDepth: 8}
			for _, def := range ctx.Definitions {
				if def.Result == nil {
					continue
				}
				fmt.Fprintf(c.stdout, "--- %s\n", def.Name)
				dumper.Fdump(c.stdout, def.Result.Tree)
			}
		}
	}
	if failed {
		return errFound
	}
	return nil
}

func (c *command) handleServe(args []string) error {
	fset := c.flags("serve")
	addr := fset.String("addr", "", "listen address (default from config)")
	configPath := fset.String("config", "", "configuration file (default: nearest elimc.yaml)")
	if err := fset.Parse(args); err != nil {
		return &exitError{code: 2}
	}

	cfg, err := loadConfig(*configPath, nil)
	if err != nil {
		return fail("%v", err)
	}
	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	logger := log.New(c.stderr, "elimc: ", log.LstdFlags)
	opts := []elimc.Option{elimc.WithConfig(cfg)}
	s, err := openStore(cfg)
	if err != nil {
		return fail("%v", err)
	}
	if s != nil {
		defer s.Close()
		opts = append(opts, elimc.WithStore(s))
	}

	srv, err := service.NewServer(service.Options{Checker: elimc.New(opts...), Logger: logger})
	if err != nil {
		return fail("%v", err)
	}
	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		return fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := srv.Serve(ctx, lis); err != nil {
		return fail("%v", err)
	}
	logger.Printf("stopped")
	return nil
}

func (c *command) handleRemote(args []string) error {
	fset := c.flags("remote")
	addr := fset.String("addr", config.DefaultServerAddr, "service address")
	timeout := fset.Duration("timeout", 30*time.Second, "per-file timeout")
	if err := fset.Parse(args); err != nil {
		return &exitError{code: 2}
	}
	files, err := expandInputs(fset.Args())
	if err != nil {
		return fail("%v", err)
	}
	if len(files) == 0 {
		return fail("remote: no input files")
	}

	client, err := service.Dial(*addr)
	if err != nil {
		return fail("%v", err)
	}
	defer client.Close()

	failed := false
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return fail("reading source file: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		resp, err := client.Check(ctx, file, string(source))
		cancel()
		if err != nil {
			return fail("%v", err)
		}
		printResponse(c.stdout, file, resp)
		if resp.HasErrors() {
			failed = true
		}
	}
	if failed {
		return errFound
	}
	return nil
}

func printResponse(w io.Writer, file string, resp *service.CheckResponse) {
	for _, d := range resp.Diagnostics {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", file, d.Line, d.Column, d.Severity, d.Code, d.Message)
	}
	for _, def := range resp.Definitions {
		fmt.Fprintf(w, "%s: %s\n", def.Name, def.Status)
		for _, m := range def.Missing {
			fmt.Fprintf(w, "    | %s\n", m)
		}
		if def.Truncated {
			fmt.Fprintln(w, "    | ...")
		}
	}
}

func (c *command) handleCache(args []string) error {
	fset := c.flags("cache")
	configPath := fset.String("config", "", "configuration file (default: nearest elimc.yaml)")
	runID := fset.String("run", "", "list the definitions stored by this run")
	if err := fset.Parse(args); err != nil {
		return &exitError{code: 2}
	}

	cfg, err := loadConfig(*configPath, nil)
	if err != nil {
		return fail("%v", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		return fail("%v", err)
	}
	if s == nil {
		return fail("no cache configured (set cache in %s)", config.ConfigFileNames[0])
	}
	defer s.Close()

	if *runID != "" {
		recs, err := s.Definitions(*runID)
		if err != nil {
			return fail("%v", err)
		}
		for _, rec := range recs {
			status := "ok"
			if !rec.OK {
				status = "failed"
			}
			fmt.Fprintf(c.stdout, "%-20s %-6s %s\n", rec.Name, status, rec.Digest[:min(12, len(rec.Digest))])
			for _, d := range rec.Diagnostics {
				fmt.Fprintf(c.stdout, "    %s\n", d)
			}
		}
		return nil
	}

	runs, err := s.Runs()
	if err != nil {
		return fail("%v", err)
	}
	for _, run := range runs {
		fmt.Fprintf(c.stdout, "%s  %s  %3d  %s\n", run.ID, run.StartedAt.Local().Format(time.DateTime), run.Definitions, run.File)
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.stdout, "no runs recorded in "+s.Path())
	}
	return nil
}

// expandInputs replaces every directory argument by the source files
// below it, in lexical order.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSourceFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
	}
	return files, nil
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
