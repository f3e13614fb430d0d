package core

import (
	"strconv"
	"strings"
)

// Expr is a core term. Types are terms too.
type Expr interface {
	String() string
	exprNode()
}

// Ref is a reference to a bound variable.
type Ref struct {
	Binding *Binding
}

// DataCall is a data type applied to all of its parameters.
type DataCall struct {
	Data *DataDef
	Args []Expr
}

// ConCall is a constructor application. DataArgs instantiate the data
// type's parameters; Args are the constructor's own arguments.
type ConCall struct {
	Con      *Constructor
	DataArgs []Expr
	Args     []Expr
}

// Lit is a natural number literal (a value of the built-in Nat).
type Lit struct {
	Value int64
}

// Pi is a dependent function type.
type Pi struct {
	Params Telescope
	Cod    Expr
}

// Sigma is a dependent record type.
type Sigma struct {
	Params Telescope
}

// Tuple is a value of a Sigma type.
type Tuple struct {
	Fields []Expr
}

// App is a neutral application.
type App struct {
	Fn   Expr
	Args []Expr
}

// Universe is the type of types.
type Universe struct{}

// ErrorExpr stands for a term whose checking failed.
type ErrorExpr struct {
	Message string
}

func (*Ref) exprNode()       {}
func (*DataCall) exprNode()  {}
func (*ConCall) exprNode()   {}
func (*Lit) exprNode()       {}
func (*Pi) exprNode()        {}
func (*Sigma) exprNode()     {}
func (*Tuple) exprNode()     {}
func (*App) exprNode()       {}
func (*Universe) exprNode()  {}
func (*ErrorExpr) exprNode() {}

func (e *Ref) String() string { return e.Binding.String() }

func (e *DataCall) String() string {
	return applicationString(e.Data.Name, e.Args)
}

func (e *ConCall) String() string {
	return applicationString(e.Con.Name, e.Args)
}

func (e *Lit) String() string { return strconv.FormatInt(e.Value, 10) }

func (e *Pi) String() string {
	var sb strings.Builder
	for _, p := range e.Params {
		if p.Explicit && (p.Name == "" || p.Name == "_") {
			sb.WriteString(argString(p.Type))
		} else {
			sb.WriteString(bindingString(p))
		}
		sb.WriteString(" -> ")
	}
	sb.WriteString(exprString(e.Cod))
	return sb.String()
}

func (e *Sigma) String() string {
	if len(e.Params) == 0 {
		return "Sigma"
	}
	return "Sigma " + e.Params.String()
}

func (e *Tuple) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = exprString(f)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *App) String() string {
	return applicationString(argString(e.Fn), e.Args)
}

func (e *Universe) String() string { return "Type" }

func (e *ErrorExpr) String() string { return "<error>" }

func exprString(e Expr) string {
	if e == nil {
		return "?"
	}
	return e.String()
}

func applicationString(head string, args []Expr) string {
	if len(args) == 0 {
		return head
	}
	var sb strings.Builder
	sb.WriteString(head)
	for _, a := range args {
		sb.WriteByte(' ')
		sb.WriteString(argString(a))
	}
	return sb.String()
}

// argString parenthesizes compound terms in argument position.
func argString(e Expr) string {
	switch e := e.(type) {
	case *DataCall:
		if len(e.Args) > 0 {
			return "(" + e.String() + ")"
		}
	case *ConCall:
		if len(e.Args) > 0 {
			return "(" + e.String() + ")"
		}
	case *App, *Pi:
		return "(" + e.String() + ")"
	case *Sigma:
		if len(e.Params) > 0 {
			return "(" + e.String() + ")"
		}
	}
	return exprString(e)
}
