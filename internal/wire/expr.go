package wire

// Block payload.
type Block struct {
	Statements     []Statement `msgpack:"s,omitempty"`
	IsLambdaOrigin bool        `msgpack:"l,omitempty"`
}

// Composite payload.
type Composite struct {
	Statements []Statement `msgpack:"s,omitempty"`
}

// Const payload. Kind selects which value field is meaningful.
type Const struct {
	Kind   uint8   `msgpack:"k,omitempty"`
	Bool   bool    `msgpack:"b,omitempty"`
	Int    int64   `msgpack:"i,omitempty"`
	Float  float64 `msgpack:"f,omitempty"`
	String string  `msgpack:"s,omitempty"`
}

// MemberAccess holds receivers and arguments. Nil value arguments are
// omitted arguments.
type MemberAccess struct {
	DispatchReceiver  *Expression   `msgpack:"dr,omitempty"`
	ExtensionReceiver *Expression   `msgpack:"er,omitempty"`
	TypeArguments     []Type        `msgpack:"ta,omitempty"`
	ValueArguments    []*Expression `msgpack:"va,omitempty"`
}

// Call payload.
type Call struct {
	Symbol    Symbol       `msgpack:"s"`
	Super     *Symbol      `msgpack:"su,omitempty"`
	Primitive uint8        `msgpack:"p,omitempty"`
	Access    MemberAccess `msgpack:"a"`
}

// DelegatingConstructorCall payload.
type DelegatingConstructorCall struct {
	Symbol Symbol       `msgpack:"s"`
	Access MemberAccess `msgpack:"a"`
}

// EnumConstructorCall payload.
type EnumConstructorCall struct {
	Symbol Symbol       `msgpack:"s"`
	Access MemberAccess `msgpack:"a"`
}

// InstanceInitializerCall payload.
type InstanceInitializerCall struct {
	Class Symbol `msgpack:"s"`
}

// FunctionReference payload.
type FunctionReference struct {
	Symbol        Symbol `msgpack:"s"`
	TypeArguments []Type `msgpack:"ta,omitempty"`
	Origin        string `msgpack:"o,omitempty"`
}

// PropertyReference payload.
type PropertyReference struct {
	Field         *Symbol `msgpack:"f,omitempty"`
	Getter        *Symbol `msgpack:"g,omitempty"`
	Setter        *Symbol `msgpack:"s,omitempty"`
	TypeArguments []Type  `msgpack:"ta,omitempty"`
	Origin        string  `msgpack:"o,omitempty"`
}

// ClassReference payload.
type ClassReference struct {
	Class     Symbol `msgpack:"s"`
	ClassType *Type  `msgpack:"t,omitempty"`
}

// GetClass payload.
type GetClass struct {
	Argument Expression `msgpack:"a"`
}

// FieldAccess is shared by field reads and writes.
type FieldAccess struct {
	Field    Symbol      `msgpack:"s"`
	Super    *Symbol     `msgpack:"su,omitempty"`
	Receiver *Expression `msgpack:"r,omitempty"`
}

// GetField payload.
type GetField struct {
	Access FieldAccess `msgpack:"a"`
}

// SetField payload.
type SetField struct {
	Access FieldAccess `msgpack:"a"`
	Value  Expression  `msgpack:"v"`
}

// GetValue payload.
type GetValue struct {
	Symbol Symbol `msgpack:"s"`
}

// SetVariable payload.
type SetVariable struct {
	Symbol Symbol     `msgpack:"s"`
	Value  Expression `msgpack:"v"`
}

// GetEnumValue payload.
type GetEnumValue struct {
	Symbol Symbol `msgpack:"s"`
}

// GetObjectValue payload.
type GetObjectValue struct {
	Class Symbol `msgpack:"s"`
}

// Return payload.
type Return struct {
	Target Symbol     `msgpack:"s"`
	Value  Expression `msgpack:"v"`
}

// StringConcatenation payload.
type StringConcatenation struct {
	Arguments []Expression `msgpack:"a,omitempty"`
}

// Throw payload.
type Throw struct {
	Value Expression `msgpack:"v"`
}

// Try payload.
type Try struct {
	Result  Expression  `msgpack:"r"`
	Catches []Catch     `msgpack:"c,omitempty"`
	Finally *Expression `msgpack:"f,omitempty"`
}

// TypeOp payload.
type TypeOp struct {
	Operator uint8      `msgpack:"o,omitempty"`
	Operand  Type       `msgpack:"t"`
	Argument Expression `msgpack:"a"`
}

// Vararg payload.
type Vararg struct {
	ElementType Type            `msgpack:"t"`
	Elements    []VarargElement `msgpack:"e,omitempty"`
}

// VarargElementCase selects the populated variant of VarargElement.
type VarargElementCase uint8

const (
	VarargElementUnset VarargElementCase = iota
	VarargElementExpression
	VarargElementSpread
)

// VarargElement is an expression or a spread element.
type VarargElement struct {
	Case       VarargElementCase `msgpack:"c"`
	Expression *Expression       `msgpack:"x,omitempty"`
	Spread     *SpreadElement    `msgpack:"s,omitempty"`
}

// SpreadElement payload.
type SpreadElement struct {
	Pos        Coordinates `msgpack:"c"`
	Expression Expression  `msgpack:"x"`
}

// VarargElementVisitor receives the populated variant of a VarargElement.
type VarargElementVisitor interface {
	VisitVarargExpression(*Expression) error
	VisitSpreadElement(*SpreadElement) error
}

// Dispatch calls the visitor method of the populated variant.
func (e *VarargElement) Dispatch(v VarargElementVisitor) error {
	const union = "vararg element"
	c := uint8(e.Case)
	switch e.Case {
	case VarargElementUnset:
		return unset(union)
	case VarargElementExpression:
		if e.Expression == nil {
			return missing(union, c)
		}
		return v.VisitVarargExpression(e.Expression)
	case VarargElementSpread:
		if e.Spread == nil {
			return missing(union, c)
		}
		return v.VisitSpreadElement(e.Spread)
	default:
		return unknown(union, c)
	}
}

// When payload.
type When struct {
	Branches []Branch `msgpack:"b,omitempty"`
}

// Loop is shared by both loop kinds. ID correlates breaks and continues
// with the loop and is assigned before the condition is written.
type Loop struct {
	ID        int32       `msgpack:"id"`
	Label     string      `msgpack:"l,omitempty"`
	Condition Expression  `msgpack:"if"`
	Body      *Expression `msgpack:"b,omitempty"`
}

// WhileLoop payload.
type WhileLoop struct {
	Loop Loop `msgpack:"l"`
}

// DoWhileLoop payload.
type DoWhileLoop struct {
	Loop Loop `msgpack:"l"`
}

// Break payload.
type Break struct {
	LoopID int32  `msgpack:"id"`
	Label  string `msgpack:"l,omitempty"`
}

// Continue payload.
type Continue struct {
	LoopID int32  `msgpack:"id"`
	Label  string `msgpack:"l,omitempty"`
}
