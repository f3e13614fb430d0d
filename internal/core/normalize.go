package core

// Normalize reduces e to weak head normal form. Natural literals unfold
// one constructor at a time; nested applications are flattened.
func Normalize(e Expr) Expr {
	switch ex := e.(type) {
	case *Lit:
		if ex.Value <= 0 {
			return &ConCall{Con: Zero}
		}
		return &ConCall{Con: Suc, Args: []Expr{&Lit{Value: ex.Value - 1}}}
	case *App:
		fn := Normalize(ex.Fn)
		if inner, ok := fn.(*App); ok {
			args := make([]Expr, 0, len(inner.Args)+len(ex.Args))
			args = append(args, inner.Args...)
			args = append(args, ex.Args...)
			return &App{Fn: inner.Fn, Args: args}
		}
		if len(ex.Args) == 0 {
			return fn
		}
		return &App{Fn: fn, Args: ex.Args}
	}
	return e
}

// Equal decides definitional equality of a and b: structural equality
// of their normal forms up to renaming of bound variables.
func Equal(a, b Expr) bool {
	return equal(a, b, nil)
}

// renaming maps bindings of the left term to bindings of the right one.
type renaming map[*Binding]*Binding

func (r renaming) with(l, rb *Binding) renaming {
	out := make(renaming, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[l] = rb
	return out
}

func equal(a, b Expr, ren renaming) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	a, b = Normalize(a), Normalize(b)

	// Failed terms are equal to everything so that one error does not cascade.
	if _, ok := a.(*ErrorExpr); ok {
		return true
	}
	if _, ok := b.(*ErrorExpr); ok {
		return true
	}

	switch x := a.(type) {
	case *Ref:
		y, ok := b.(*Ref)
		if !ok {
			return false
		}
		if mapped, ok := ren[x.Binding]; ok {
			return mapped == y.Binding
		}
		return x.Binding == y.Binding

	case *DataCall:
		y, ok := b.(*DataCall)
		return ok && x.Data == y.Data && equalAll(x.Args, y.Args, ren)

	case *ConCall:
		y, ok := b.(*ConCall)
		return ok && x.Con == y.Con && equalAll(x.Args, y.Args, ren)

	case *Pi:
		y, ok := b.(*Pi)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		inner, ok := equalParams(x.Params, y.Params, ren)
		return ok && equal(x.Cod, y.Cod, inner)

	case *Sigma:
		y, ok := b.(*Sigma)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		_, ok = equalParams(x.Params, y.Params, ren)
		return ok

	case *Tuple:
		y, ok := b.(*Tuple)
		return ok && equalAll(x.Fields, y.Fields, ren)

	case *App:
		y, ok := b.(*App)
		return ok && equal(x.Fn, y.Fn, ren) && equalAll(x.Args, y.Args, ren)

	case *Universe:
		_, ok := b.(*Universe)
		return ok
	}
	return false
}

func equalAll(xs, ys []Expr, ren renaming) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !equal(xs[i], ys[i], ren) {
			return false
		}
	}
	return true
}

func equalParams(xs, ys Telescope, ren renaming) (renaming, bool) {
	for i := range xs {
		if xs[i].Explicit != ys[i].Explicit || !equal(xs[i].Type, ys[i].Type, ren) {
			return nil, false
		}
		ren = ren.with(xs[i], ys[i])
	}
	return ren, true
}
