package core

// MatchOutcome is the verdict of UnifyIndices.
type MatchOutcome int

const (
	// Excluded: the constructor provably cannot produce the instantiated type.
	Excluded MatchOutcome = iota
	// Matched: the constructor is admissible (possibly only conservatively).
	Matched
)

func (o MatchOutcome) String() string {
	if o == Matched {
		return "matched"
	}
	return "excluded"
}

// Match is the result of unifying a constructor's index patterns with
// the arguments of an instantiated data type.
type Match struct {
	Outcome MatchOutcome
	// Subst instantiates the data parameters / pattern variables that the
	// constructor's own telescope may mention.
	Subst Subst
	// Refine maps variables occurring as data arguments to the constructor
	// form the split forces them to take.
	Refine Subst
	// Fresh are new implicit bindings standing for pattern variables that
	// the arguments do not determine. They precede the constructor's own
	// arguments in the refined telescope.
	Fresh Telescope
}

// UnifyIndices matches the index patterns of con against args, the
// arguments of the data type being split on.
func UnifyIndices(con *Constructor, args []Expr) Match {
	if con.IsTuple() {
		return Match{Outcome: Matched}
	}
	if con.Patterns == nil {
		return Match{Outcome: Matched, Subst: SubstOf(con.Data.Params, args)}
	}

	u := &unifier{}
	for i, p := range con.Patterns {
		if i >= len(args) {
			break
		}
		if !u.match(p, args[i]) {
			return Match{Outcome: Excluded}
		}
	}
	return Match{Outcome: Matched, Subst: u.subst, Refine: u.refine, Fresh: u.fresh}
}

type unifier struct {
	subst  Subst
	refine Subst
	fresh  Telescope
}

func (u *unifier) match(p Pattern, e Expr) bool {
	switch p := p.(type) {
	case *PVar:
		u.subst = u.subst.Extend(p.Binding, e)
		return true

	case *PCon:
		e = Normalize(Apply(e, u.refine))
		switch ex := e.(type) {
		case *ConCall:
			if ex.Con != p.Con {
				return false
			}
			for i, sub := range p.Args {
				if i >= len(ex.Args) {
					break
				}
				if !u.match(sub, ex.Args[i]) {
					return false
				}
			}
			return true

		case *Ref:
			// The argument is a variable: the split refines it.
			u.refine = u.refine.Extend(ex.Binding, u.freshTerm(p))
			return true

		default:
			// Stuck argument: cannot refute, bind the pattern variables freshly.
			u.freshTerm(p)
			return true
		}
	}
	return false
}

// freshTerm turns p into a term over new bindings for its variables.
func (u *unifier) freshTerm(p Pattern) Expr {
	switch p := p.(type) {
	case *PVar:
		nb := NewBinding(p.Binding.Name, Apply(p.Binding.Type, u.subst), false)
		u.fresh = append(u.fresh, nb)
		ref := &Ref{Binding: nb}
		u.subst = u.subst.Extend(p.Binding, ref)
		return ref
	case *PCon:
		args := make([]Expr, len(p.Args))
		for i, a := range p.Args {
			args[i] = u.freshTerm(a)
		}
		return &ConCall{Con: p.Con, Args: args}
	}
	return nil
}
