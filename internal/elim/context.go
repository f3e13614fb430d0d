package elim

import (
	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/pmap"
)

// Var is a pattern variable in scope of a clause body.
type Var struct {
	Name  string
	Value core.Expr
	Type  core.Expr
}

// Context is the checking context handed to Oracle.CheckBody. It is
// immutable; sibling leaves never observe each other's bindings.
type Context struct {
	vars  *pmap.Map[string, Var]
	order []string
	// Free are the parameters bound on the way to the leaf.
	Free core.Telescope
}

// NewContext builds a context from vars; later entries shadow earlier
// ones with the same name.
func NewContext(vars []Var, free core.Telescope) *Context {
	ctx := &Context{vars: pmap.NewString[Var](), Free: free}
	for _, v := range vars {
		if !ctx.vars.Contains(v.Name) {
			ctx.order = append(ctx.order, v.Name)
		}
		ctx.vars = ctx.vars.Put(v.Name, v)
	}
	return ctx
}

func (c *Context) Lookup(name string) (Var, bool) {
	if c == nil {
		return Var{}, false
	}
	return c.vars.Get(name)
}

// Vars returns the variables in order of first binding.
func (c *Context) Vars() []Var {
	if c == nil {
		return nil
	}
	out := make([]Var, 0, len(c.order))
	for _, name := range c.order {
		v, _ := c.vars.Get(name)
		out = append(out, v)
	}
	return out
}

func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return c.vars.Len()
}
