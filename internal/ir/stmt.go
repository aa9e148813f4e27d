package ir

import "fmt"

// Statement is anything that may appear in a statement list: declarations,
// expressions and the structural nodes below.
type Statement interface {
	isStatement()
}

// StatementVisitor dispatches over the statement categories.
type StatementVisitor interface {
	VisitDeclarationStatement(Declaration) error
	VisitExpressionStatement(Expression) error
	VisitBlockBody(*BlockBody) error
	VisitBranch(*Branch) error
	VisitCatch(*Catch) error
	VisitSyntheticBody(*SyntheticBody) error
}

// AcceptStatement routes s to the visitor method of its category.
func AcceptStatement(s Statement, v StatementVisitor) error {
	switch s := s.(type) {
	case Declaration:
		return v.VisitDeclarationStatement(s)
	case Expression:
		return v.VisitExpressionStatement(s)
	case *BlockBody:
		return v.VisitBlockBody(s)
	case *Branch:
		return v.VisitBranch(s)
	case *Catch:
		return v.VisitCatch(s)
	case *SyntheticBody:
		return v.VisitSyntheticBody(s)
	default:
		return fmt.Errorf("ir: unknown statement %T", s)
	}
}

// Body is a function body.
type Body interface {
	Statement
	isBody()
}

// BlockBody is the statement list of a function or initializer.
type BlockBody struct {
	Offsets
	Statements []Statement
}

// Branch is one arm of a when expression. The else arm has a constant true condition.
type Branch struct {
	Offsets
	Condition Expression
	Result    Expression
}

// Catch is one handler of a try expression.
type Catch struct {
	Offsets
	Parameter *Variable
	Result    Expression
}

// SyntheticBodyKind names compiler-provided bodies.
type SyntheticBodyKind uint8

const (
	SyntheticEnumValues SyntheticBodyKind = iota
	SyntheticEnumValueOf
)

func (k SyntheticBodyKind) String() string {
	switch k {
	case SyntheticEnumValues:
		return "ENUM_VALUES"
	case SyntheticEnumValueOf:
		return "ENUM_VALUEOF"
	default:
		return fmt.Sprintf("SyntheticBodyKind(%d)", k)
	}
}

// SyntheticBody stands for a body the backend generates.
type SyntheticBody struct {
	Offsets
	Kind SyntheticBodyKind
}

func (*BlockBody) isStatement()     {}
func (*Branch) isStatement()        {}
func (*Catch) isStatement()         {}
func (*SyntheticBody) isStatement() {}

func (*BlockBody) isBody()     {}
func (*SyntheticBody) isBody() {}
