package checker

import (
	"github.com/funvibe/elimc/internal/ast"
)

// resolvePatterns turns named wildcards that name a constructor into
// nullary constructor patterns. The clause is updated in place.
func (env *Env) resolvePatterns(clause *ast.Clause) {
	for i, p := range clause.Patterns {
		clause.Patterns[i] = env.resolvePattern(p)
	}
}

func (env *Env) resolvePattern(p ast.Pattern) ast.Pattern {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		if p.Name != "" && env.IsConstructor(p.Name) {
			return &ast.ConstructorPattern{
				Token:    p.Token,
				Name:     &ast.Identifier{Token: p.Token, Value: p.Name},
				Explicit: p.Explicit,
			}
		}
	case *ast.ConstructorPattern:
		for i, a := range p.Arguments {
			p.Arguments[i] = env.resolvePattern(a)
		}
	case *ast.TuplePattern:
		for i, el := range p.Elements {
			p.Elements[i] = env.resolvePattern(el)
		}
	}
	return p
}
