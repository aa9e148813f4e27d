package ir

// Expression is a typed node that produces a value.
type Expression interface {
	Statement
	VarargElement
	Base() *ExprBase
	AcceptExpression(v ExpressionVisitor) error
}

// ExpressionVisitor has one method per expression kind.
type ExpressionVisitor interface {
	VisitBlock(*Block) error
	VisitComposite(*Composite) error
	VisitConst(*Const) error
	VisitCall(*Call) error
	VisitDelegatingConstructorCall(*DelegatingConstructorCall) error
	VisitEnumConstructorCall(*EnumConstructorCall) error
	VisitInstanceInitializerCall(*InstanceInitializerCall) error
	VisitFunctionReference(*FunctionReference) error
	VisitPropertyReference(*PropertyReference) error
	VisitClassReference(*ClassReference) error
	VisitGetClass(*GetClass) error
	VisitGetField(*GetField) error
	VisitSetField(*SetField) error
	VisitGetValue(*GetValue) error
	VisitSetVariable(*SetVariable) error
	VisitGetEnumValue(*GetEnumValue) error
	VisitGetObjectValue(*GetObjectValue) error
	VisitReturn(*Return) error
	VisitStringConcatenation(*StringConcatenation) error
	VisitThrow(*Throw) error
	VisitTry(*Try) error
	VisitTypeOperatorCall(*TypeOperatorCall) error
	VisitVararg(*Vararg) error
	VisitWhen(*When) error
	VisitWhileLoop(*WhileLoop) error
	VisitDoWhileLoop(*DoWhileLoop) error
	VisitBreak(*Break) error
	VisitContinue(*Continue) error
}

// ExprBase holds coordinates and the resolved type of an expression.
type ExprBase struct {
	Offsets
	Type Type
}

// Base returns the shared attributes.
func (b *ExprBase) Base() *ExprBase { return b }

func (*ExprBase) isStatement()     {}
func (*ExprBase) isVarargElement() {}

// Block is a sequence of statements whose last value is the result.
type Block struct {
	ExprBase
	Statements     []Statement
	IsLambdaOrigin bool
}

// Composite is a statement sequence that does not open a scope.
type Composite struct {
	ExprBase
	Statements []Statement
}

// ConstKind enumerates literal kinds.
type ConstKind uint8

const (
	ConstNull ConstKind = iota
	ConstBoolean
	ConstChar
	ConstByte
	ConstShort
	ConstInt
	ConstLong
	ConstString
	ConstFloat
	ConstDouble
)

func (k ConstKind) String() string {
	switch k {
	case ConstNull:
		return "Null"
	case ConstBoolean:
		return "Boolean"
	case ConstChar:
		return "Char"
	case ConstByte:
		return "Byte"
	case ConstShort:
		return "Short"
	case ConstInt:
		return "Int"
	case ConstLong:
		return "Long"
	case ConstString:
		return "String"
	case ConstFloat:
		return "Float"
	case ConstDouble:
		return "Double"
	default:
		return "Unknown"
	}
}

// Const is a literal. Integral kinds and Char use Int, Float and Double use Float.
type Const struct {
	ExprBase
	ConstKind ConstKind
	Bool      bool
	Int       int64
	Float     float64
	String    string
}

// PrimitiveKind tags calls the backend may lower to a single instruction.
type PrimitiveKind uint8

const (
	NotPrimitive PrimitiveKind = iota
	PrimitiveNullary
	PrimitiveUnary
	PrimitiveBinary
)

// MemberAccess holds receivers and arguments of calls and constructor calls.
type MemberAccess struct {
	DispatchReceiver  Expression
	ExtensionReceiver Expression
	TypeArguments     []Type
	// ValueArguments is positional; nil entries are omitted arguments.
	ValueArguments []Expression
}

// Call invokes a function.
type Call struct {
	ExprBase
	MemberAccess
	Symbol    *Symbol
	Super     *Symbol
	Primitive PrimitiveKind
}

// DelegatingConstructorCall is a super(...) or this(...) call.
type DelegatingConstructorCall struct {
	ExprBase
	MemberAccess
	Symbol *Symbol
}

// EnumConstructorCall constructs an enum entry.
type EnumConstructorCall struct {
	ExprBase
	MemberAccess
	Symbol *Symbol
}

// InstanceInitializerCall runs the initializers of a class.
type InstanceInitializerCall struct {
	ExprBase
	Class *Symbol
}

// FunctionReference is a callable reference to a function.
type FunctionReference struct {
	ExprBase
	Symbol        *Symbol
	TypeArguments []Type
	Origin        string
}

// PropertyReference is a callable reference to a property.
type PropertyReference struct {
	ExprBase
	Field         *Symbol
	Getter        *Symbol
	Setter        *Symbol
	TypeArguments []Type
	Origin        string
}

// ClassReference is a class literal.
type ClassReference struct {
	ExprBase
	Class     *Symbol
	ClassType Type
}

// GetClass obtains the runtime class of a value.
type GetClass struct {
	ExprBase
	Argument Expression
}

// FieldAccess is shared by field reads and writes.
type FieldAccess struct {
	Field    *Symbol
	Super    *Symbol
	Receiver Expression
}

// GetField reads a field.
type GetField struct {
	ExprBase
	FieldAccess
}

// SetField writes a field.
type SetField struct {
	ExprBase
	FieldAccess
	Value Expression
}

// GetValue reads a variable or value parameter.
type GetValue struct {
	ExprBase
	Symbol *Symbol
}

// SetVariable assigns a variable.
type SetVariable struct {
	ExprBase
	Symbol *Symbol
	Value  Expression
}

// GetEnumValue reads an enum entry.
type GetEnumValue struct {
	ExprBase
	Symbol *Symbol
}

// GetObjectValue reads a singleton instance.
type GetObjectValue struct {
	ExprBase
	Class *Symbol
}

// Return leaves the function named by Target.
type Return struct {
	ExprBase
	Target *Symbol
	Value  Expression
}

// StringConcatenation joins its arguments as strings.
type StringConcatenation struct {
	ExprBase
	Arguments []Expression
}

// Throw raises an exception.
type Throw struct {
	ExprBase
	Value Expression
}

// Try is a try/catch/finally expression.
type Try struct {
	ExprBase
	Result  Expression
	Catches []*Catch
	Finally Expression
}

// TypeOperator enumerates casts and type tests.
type TypeOperator uint8

const (
	OpCast TypeOperator = iota
	OpImplicitCast
	OpImplicitNotNull
	OpImplicitCoercionToUnit
	OpImplicitIntegerCoercion
	OpSafeCast
	OpInstanceOf
	OpNotInstanceOf
)

func (op TypeOperator) String() string {
	switch op {
	case OpCast:
		return "CAST"
	case OpImplicitCast:
		return "IMPLICIT_CAST"
	case OpImplicitNotNull:
		return "IMPLICIT_NOTNULL"
	case OpImplicitCoercionToUnit:
		return "IMPLICIT_COERCION_TO_UNIT"
	case OpImplicitIntegerCoercion:
		return "IMPLICIT_INTEGER_COERCION"
	case OpSafeCast:
		return "SAFE_CAST"
	case OpInstanceOf:
		return "INSTANCEOF"
	case OpNotInstanceOf:
		return "NOT_INSTANCEOF"
	default:
		return "UNKNOWN"
	}
}

// TypeOperatorCall applies a type operator to an argument.
type TypeOperatorCall struct {
	ExprBase
	Operator TypeOperator
	Operand  Type
	Argument Expression
}

// VarargElement is an expression or a spread element.
type VarargElement interface {
	isVarargElement()
}

// SpreadElement spreads an array into a vararg.
type SpreadElement struct {
	Offsets
	Expression Expression
}

func (*SpreadElement) isVarargElement() {}

// Vararg builds the array passed to a vararg parameter.
type Vararg struct {
	ExprBase
	ElementType Type
	Elements    []VarargElement
}

// When is a chain of guarded branches.
type When struct {
	ExprBase
	Branches []*Branch
}

// Loop holds the parts shared by while and do-while loops.
type Loop struct {
	Label     string
	Condition Expression
	Body      Expression
}

// LoopExpression is implemented by both loop kinds.
type LoopExpression interface {
	Expression
	LoopPart() *Loop
}

// WhileLoop checks its condition before each iteration.
type WhileLoop struct {
	ExprBase
	Loop
}

// DoWhileLoop checks its condition after each iteration.
type DoWhileLoop struct {
	ExprBase
	Loop
}

func (l *WhileLoop) LoopPart() *Loop   { return &l.Loop }
func (l *DoWhileLoop) LoopPart() *Loop { return &l.Loop }

// Break exits Loop.
type Break struct {
	ExprBase
	Loop  LoopExpression
	Label string
}

// Continue starts the next iteration of Loop.
type Continue struct {
	ExprBase
	Loop  LoopExpression
	Label string
}

func (e *Block) AcceptExpression(v ExpressionVisitor) error     { return v.VisitBlock(e) }
func (e *Composite) AcceptExpression(v ExpressionVisitor) error { return v.VisitComposite(e) }
func (e *Const) AcceptExpression(v ExpressionVisitor) error     { return v.VisitConst(e) }
func (e *Call) AcceptExpression(v ExpressionVisitor) error      { return v.VisitCall(e) }
func (e *DelegatingConstructorCall) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitDelegatingConstructorCall(e)
}
func (e *EnumConstructorCall) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitEnumConstructorCall(e)
}
func (e *InstanceInitializerCall) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitInstanceInitializerCall(e)
}
func (e *FunctionReference) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitFunctionReference(e)
}
func (e *PropertyReference) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitPropertyReference(e)
}
func (e *ClassReference) AcceptExpression(v ExpressionVisitor) error { return v.VisitClassReference(e) }
func (e *GetClass) AcceptExpression(v ExpressionVisitor) error       { return v.VisitGetClass(e) }
func (e *GetField) AcceptExpression(v ExpressionVisitor) error       { return v.VisitGetField(e) }
func (e *SetField) AcceptExpression(v ExpressionVisitor) error       { return v.VisitSetField(e) }
func (e *GetValue) AcceptExpression(v ExpressionVisitor) error       { return v.VisitGetValue(e) }
func (e *SetVariable) AcceptExpression(v ExpressionVisitor) error    { return v.VisitSetVariable(e) }
func (e *GetEnumValue) AcceptExpression(v ExpressionVisitor) error   { return v.VisitGetEnumValue(e) }
func (e *GetObjectValue) AcceptExpression(v ExpressionVisitor) error { return v.VisitGetObjectValue(e) }
func (e *Return) AcceptExpression(v ExpressionVisitor) error         { return v.VisitReturn(e) }
func (e *StringConcatenation) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitStringConcatenation(e)
}
func (e *Throw) AcceptExpression(v ExpressionVisitor) error { return v.VisitThrow(e) }
func (e *Try) AcceptExpression(v ExpressionVisitor) error   { return v.VisitTry(e) }
func (e *TypeOperatorCall) AcceptExpression(v ExpressionVisitor) error {
	return v.VisitTypeOperatorCall(e)
}
func (e *Vararg) AcceptExpression(v ExpressionVisitor) error      { return v.VisitVararg(e) }
func (e *When) AcceptExpression(v ExpressionVisitor) error        { return v.VisitWhen(e) }
func (e *WhileLoop) AcceptExpression(v ExpressionVisitor) error   { return v.VisitWhileLoop(e) }
func (e *DoWhileLoop) AcceptExpression(v ExpressionVisitor) error { return v.VisitDoWhileLoop(e) }
func (e *Break) AcceptExpression(v ExpressionVisitor) error       { return v.VisitBreak(e) }
func (e *Continue) AcceptExpression(v ExpressionVisitor) error    { return v.VisitContinue(e) }
