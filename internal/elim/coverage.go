package elim

import (
	"fmt"
	"strings"

	"github.com/funvibe/elimc/internal/ast"
	"github.com/funvibe/elimc/internal/diagnostics"
)

// MissingClausesError is returned by Compile when some values are not
// covered by any clause.
type MissingClausesError struct {
	Name      string
	Witnesses []Witness
	Truncated bool
}

func (e *MissingClausesError) Error() string {
	return fmt.Sprintf("%s: some clauses are missing: %s", e.Name, witnessList(e.Witnesses, e.Truncated))
}

func witnessList(ws []Witness, truncated bool) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = "| " + w.String()
	}
	if truncated {
		parts = append(parts, "...")
	}
	return strings.Join(parts, " ")
}

// addMissing records the witnesses of an uncovered path, one per
// combination of constructors its default branches left out. Past the
// limit only Truncated is set.
func (run *compilation) addMissing(t *trail) {
	if len(run.result.Missing) >= run.opts.MissingClausesLimit {
		run.result.Truncated = true
		return
	}
	expand(t.elems(), 0, func(elems []ClauseElem) bool {
		if len(run.result.Missing) >= run.opts.MissingClausesLimit {
			run.result.Truncated = true
			return false
		}
		w := Witness(elems)
		if run.order != nil {
			w = reorder(elems, run.order)
		}
		run.result.Missing = append(run.result.Missing, w)
		return true
	})
}

// reportRedundant warns once about every clause that no leaf selected.
func (run *compilation) reportRedundant() {
	for _, clause := range run.in.Clauses {
		if run.used.Contains(clause) {
			continue
		}
		run.result.Redundant = append(run.result.Redundant, clause)
		run.reporter.Report(diagnostics.NewError(diagnostics.ErrE006, clause.Token))
	}
}

// reportMissing emits the single missing-clauses diagnostic of a definition.
func (run *compilation) reportMissing() error {
	if len(run.result.Missing) == 0 {
		return nil
	}
	run.result.HasErrors = true
	run.reporter.Report(diagnostics.NewError(diagnostics.ErrE005, run.in.Token,
		witnessList(run.result.Missing, run.result.Truncated)))
	return &MissingClausesError{
		Name:      run.in.Name,
		Witnesses: run.result.Missing,
		Truncated: run.result.Truncated,
	}
}

// IsRedundant reports whether clause was flagged as redundant.
func (r *Result) IsRedundant(clause *ast.Clause) bool {
	for _, c := range r.Redundant {
		if c == clause {
			return true
		}
	}
	return false
}
