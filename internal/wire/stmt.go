package wire

// StatementCase selects the populated variant of Statement.
type StatementCase uint8

const (
	StatementUnset StatementCase = iota
	StatementDeclaration
	StatementExpression
	StatementBlockBody
	StatementBranch
	StatementCatch
	StatementSyntheticBody
)

// Statement is the union of statement categories.
type Statement struct {
	Case          StatementCase  `msgpack:"c"`
	Declaration   *Declaration   `msgpack:"d,omitempty"`
	Expression    *Expression    `msgpack:"x,omitempty"`
	BlockBody     *BlockBody     `msgpack:"bb,omitempty"`
	Branch        *Branch        `msgpack:"br,omitempty"`
	Catch         *Catch         `msgpack:"ca,omitempty"`
	SyntheticBody *SyntheticBody `msgpack:"sb,omitempty"`
}

// BlockBody is a function or initializer body.
type BlockBody struct {
	Pos        Coordinates `msgpack:"c"`
	Statements []Statement `msgpack:"s,omitempty"`
}

// Branch is one arm of a when.
type Branch struct {
	Pos       Coordinates `msgpack:"c"`
	Condition Expression  `msgpack:"if"`
	Result    Expression  `msgpack:"r"`
}

// Catch is one handler of a try. Parameter must be a variable declaration.
type Catch struct {
	Pos       Coordinates `msgpack:"c"`
	Parameter Declaration `msgpack:"p"`
	Result    Expression  `msgpack:"r"`
}

// SyntheticBody names a body the backend generates.
type SyntheticBody struct {
	Pos  Coordinates `msgpack:"c"`
	Kind uint8       `msgpack:"k,omitempty"`
}

// StatementVisitor receives the populated variant of a Statement.
type StatementVisitor interface {
	VisitDeclaration(*Declaration) error
	VisitExpression(*Expression) error
	VisitBlockBody(*BlockBody) error
	VisitBranch(*Branch) error
	VisitCatch(*Catch) error
	VisitSyntheticBody(*SyntheticBody) error
}

// Dispatch calls the visitor method of the populated variant.
func (s *Statement) Dispatch(v StatementVisitor) error {
	const union = "statement"
	c := uint8(s.Case)
	switch s.Case {
	case StatementUnset:
		return unset(union)
	case StatementDeclaration:
		if s.Declaration == nil {
			return missing(union, c)
		}
		return v.VisitDeclaration(s.Declaration)
	case StatementExpression:
		if s.Expression == nil {
			return missing(union, c)
		}
		return v.VisitExpression(s.Expression)
	case StatementBlockBody:
		if s.BlockBody == nil {
			return missing(union, c)
		}
		return v.VisitBlockBody(s.BlockBody)
	case StatementBranch:
		if s.Branch == nil {
			return missing(union, c)
		}
		return v.VisitBranch(s.Branch)
	case StatementCatch:
		if s.Catch == nil {
			return missing(union, c)
		}
		return v.VisitCatch(s.Catch)
	case StatementSyntheticBody:
		if s.SyntheticBody == nil {
			return missing(union, c)
		}
		return v.VisitSyntheticBody(s.SyntheticBody)
	default:
		return unknown(union, c)
	}
}
