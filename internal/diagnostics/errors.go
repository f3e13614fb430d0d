package diagnostics

import (
	"fmt"

	"github.com/funvibe/elimc/internal/token"
)

type ErrorCode string

// Severity of a diagnostic. Warnings never mark a definition as failed.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

const (
	// Parser
	ErrP001 ErrorCode = "P001"
	ErrP002 ErrorCode = "P002"
	ErrP003 ErrorCode = "P003"
	ErrP004 ErrorCode = "P004"

	// Declarations
	ErrA001 ErrorCode = "A001"
	ErrA002 ErrorCode = "A002"

	// Elimination (pattern matching)
	ErrE001 ErrorCode = "E001"
	ErrE002 ErrorCode = "E002"
	ErrE003 ErrorCode = "E003"
	ErrE004 ErrorCode = "E004"
	ErrE005 ErrorCode = "E005"
	ErrE006 ErrorCode = "E006"
	ErrE007 ErrorCode = "E007"
	ErrE008 ErrorCode = "E008"
	ErrE009 ErrorCode = "E009"
	ErrE010 ErrorCode = "E010"
	ErrE011 ErrorCode = "E011"
	ErrE012 ErrorCode = "E012"
)

var errorMessages = map[ErrorCode]string{
	ErrP001: "unexpected token: %s",
	ErrP002: "expected %s, got %s",
	ErrP003: "invalid integer literal: %s",
	ErrP004: "%s",

	ErrA001: "undefined name: %s",
	ErrA002: "ill-formed declaration: %s",

	ErrE001: "arity mismatch: %s",
	ErrE002: "cannot match on a value of type %s",
	ErrE003: "pattern matching on %s is not allowed here",
	ErrE004: "absurd pattern: %s",
	ErrE005: "some clauses are missing: %s",
	ErrE006: "this clause is redundant",
	ErrE007: "%s",
	ErrE008: "constructor %s does not belong to data type %s",
	ErrE009: "expected an explicit pattern, got %s",
	ErrE010: "no parameter named %s to eliminate",
	ErrE011: "number pattern %d exceeds the limit of %d",
	ErrE012: "parameter %s is eliminated more than once",
}

var warningCodes = map[ErrorCode]bool{
	ErrE006: true,
}

type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Args     []interface{}
	Severity Severity
}

func (e *DiagnosticError) Error() string {
	prefix := ""
	if e.File != "" {
		prefix = e.File + ":"
	}
	return fmt.Sprintf("%s%d:%d: %s %s: %s", prefix, e.Token.Line, e.Token.Column, e.Severity, e.Code, e.Message())
}

// Message renders the code's template without the position prefix.
func (e *DiagnosticError) Message() string {
	template, ok := errorMessages[e.Code]
	if !ok {
		return fmt.Sprint(e.Args...)
	}
	if len(e.Args) == 0 {
		return template
	}
	return fmt.Sprintf(template, e.Args...)
}

func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	severity := SeverityError
	if warningCodes[code] {
		severity = SeverityWarning
	}
	return &DiagnosticError{Code: code, Token: tok, Args: args, Severity: severity}
}
