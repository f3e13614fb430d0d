package elim

import (
	"github.com/funvibe/elimc/internal/ast"
)

// reduce strips leading columns in which every row has a wildcard. The
// column's parameter is bound in each row under the wildcard's name and
// recorded as a free binding of the path. No Branch is produced.
// Parameters the definition does not eliminate keep their own name.
func (run *compilation) reduce(m *matrix) *matrix {
	for len(m.tele) > 0 && m.headIsWildcard() {
		b := m.tele[0]
		next := &matrix{
			tele:  m.tele[1:],
			skip:  m.skip[1:],
			subst: m.subst,
			free:  append(m.free[:len(m.free):len(m.free)], b),
			path:  m.path.extend(placeholders(m.tele[:1], m.skip[:1])...),
			rows:  make([]*row, len(m.rows)),
		}
		for i, r := range m.rows {
			name := wildcardName(r.patterns[0])
			if r.patterns[0] == nil && m.skip[0] {
				name = b.Name
			}
			next.rows[i] = &row{
				clause:   r.clause,
				patterns: r.patterns[1:],
				vars:     r.bind(name, b),
			}
		}
		m = next
	}
	return m
}

func (m *matrix) headIsWildcard() bool {
	for _, r := range m.rows {
		if !ast.IsWildcard(r.patterns[0]) {
			return false
		}
	}
	return true
}

func wildcardName(p ast.Pattern) string {
	if w, ok := p.(*ast.WildcardPattern); ok {
		return w.Name
	}
	return ""
}
