package ast

// Visitor is implemented by the printers.
type Visitor interface {
	VisitProgram(n *Program)
	VisitParam(n *Param)
	VisitDataDeclaration(n *DataDeclaration)
	VisitConstructorDeclaration(n *ConstructorDeclaration)
	VisitFunctionDeclaration(n *FunctionDeclaration)
	VisitClause(n *Clause)

	// Expressions
	VisitIdentifier(n *Identifier)
	VisitCallExpression(n *CallExpression)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitTupleLiteral(n *TupleLiteral)
	VisitArrowType(n *ArrowType)
	VisitSigmaType(n *SigmaType)
	VisitUniverseExpression(n *UniverseExpression)

	// Patterns
	VisitWildcardPattern(n *WildcardPattern)
	VisitConstructorPattern(n *ConstructorPattern)
	VisitTuplePattern(n *TuplePattern)
	VisitAbsurdPattern(n *AbsurdPattern)
	VisitLiteralPattern(n *LiteralPattern)
}
