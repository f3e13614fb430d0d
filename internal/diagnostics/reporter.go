package diagnostics

import (
	"fmt"
	"sort"
)

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(err *DiagnosticError)
}

// Collector is a Reporter that keeps diagnostics in memory,
// deduplicating by position and code.
type Collector struct {
	File   string
	seen   map[string]bool
	errors []*DiagnosticError
}

func NewCollector(file string) *Collector {
	return &Collector{File: file, seen: make(map[string]bool)}
}

func (c *Collector) Report(err *DiagnosticError) {
	if err == nil {
		return
	}
	if err.File == "" {
		err.File = c.File
	}
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	key := fmt.Sprintf("%d:%d:%s:%s", err.Token.Line, err.Token.Column, err.Code, err.Message())
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.errors = append(c.errors, err)
}

// Diagnostics returns everything reported so far, ordered by position.
func (c *Collector) Diagnostics() []*DiagnosticError {
	out := make([]*DiagnosticError, len(c.errors))
	copy(out, c.errors)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Token.Line != out[j].Token.Line {
			return out[i].Token.Line < out[j].Token.Line
		}
		return out[i].Token.Column < out[j].Token.Column
	})
	return out
}

func (c *Collector) HasErrors() bool {
	for _, e := range c.errors {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given code.
func (c *Collector) Count(code ErrorCode) int {
	n := 0
	for _, e := range c.errors {
		if e.Code == code {
			n++
		}
	}
	return n
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(err *DiagnosticError)

func (f ReporterFunc) Report(err *DiagnosticError) { f(err) }
