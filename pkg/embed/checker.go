// Package elimc is the embedding API of the pattern-match compiler: it
// runs the lexer, parser, checker and (optionally) the tree cache over a
// source text and returns plain Go values.
package elimc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/funvibe/elimc/internal/checker"
	"github.com/funvibe/elimc/internal/config"
	"github.com/funvibe/elimc/internal/lexer"
	"github.com/funvibe/elimc/internal/parser"
	"github.com/funvibe/elimc/internal/pipeline"
	"github.com/funvibe/elimc/internal/store"
)

// Checker checks source files. It is safe for concurrent use; every call
// runs its own pipeline.
type Checker struct {
	cfg    *config.Config
	store  *store.Store
	logger *log.Logger
}

type Option func(*Checker)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *Checker) { c.cfg = cfg }
}

// WithStore records every checked definition in s.
func WithStore(s *store.Store) Option {
	return func(c *Checker) { c.store = s }
}

// WithLogger enables tracing of every stage, including each case split.
func WithLogger(l *log.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c
}

func (c *Checker) Config() *config.Config { return c.cfg }

// Run checks source and returns the final pipeline context.
func (c *Checker) Run(file, source string) *pipeline.PipelineContext {
	ctx := &pipeline.PipelineContext{
		FilePath:   file,
		SourceCode: source,
		Config:     c.cfg,
		Logger:     c.logger,
	}

	stages := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&checker.CheckerProcessor{},
	}
	if c.store != nil {
		stages = append(stages, &store.StoreProcessor{Store: c.store})
	}
	return pipeline.New(stages...).Run(ctx)
}

// Check checks source and converts the result to plain values.
func (c *Checker) Check(file, source string) *Outcome {
	return Marshal(c.Run(file, source))
}

// CheckFile reads and checks the file at path.
func (c *Checker) CheckFile(path string) (*Outcome, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return c.Check(path, string(source)), nil
}
