package wire

// Expression is a typed node with a single operation.
type Expression struct {
	Pos       Coordinates `msgpack:"c"`
	Type      *Type       `msgpack:"t,omitempty"`
	Operation Operation   `msgpack:"op"`
}

// OperationCase selects the populated variant of Operation.
type OperationCase uint8

const (
	OperationUnset OperationCase = iota
	OperationBlock
	OperationComposite
	OperationConst
	OperationCall
	OperationDelegatingConstructorCall
	OperationEnumConstructorCall
	OperationInstanceInitializerCall
	OperationFunctionReference
	OperationPropertyReference
	OperationClassReference
	OperationGetClass
	OperationGetField
	OperationSetField
	OperationGetValue
	OperationSetVariable
	OperationGetEnumValue
	OperationGetObjectValue
	OperationReturn
	OperationStringConcatenation
	OperationThrow
	OperationTry
	OperationTypeOp
	OperationVararg
	OperationWhen
	OperationWhileLoop
	OperationDoWhileLoop
	OperationBreak
	OperationContinue
)

// Operation is the union of expression kinds.
type Operation struct {
	Case                      OperationCase              `msgpack:"c"`
	Block                     *Block                     `msgpack:"bl,omitempty"`
	Composite                 *Composite                 `msgpack:"cm,omitempty"`
	Const                     *Const                     `msgpack:"cn,omitempty"`
	Call                      *Call                      `msgpack:"ca,omitempty"`
	DelegatingConstructorCall *DelegatingConstructorCall `msgpack:"dc,omitempty"`
	EnumConstructorCall       *EnumConstructorCall       `msgpack:"ec,omitempty"`
	InstanceInitializerCall   *InstanceInitializerCall   `msgpack:"ii,omitempty"`
	FunctionReference         *FunctionReference         `msgpack:"fr,omitempty"`
	PropertyReference         *PropertyReference         `msgpack:"pr,omitempty"`
	ClassReference            *ClassReference            `msgpack:"cr,omitempty"`
	GetClass                  *GetClass                  `msgpack:"gc,omitempty"`
	GetField                  *GetField                  `msgpack:"gf,omitempty"`
	SetField                  *SetField                  `msgpack:"sf,omitempty"`
	GetValue                  *GetValue                  `msgpack:"gv,omitempty"`
	SetVariable               *SetVariable               `msgpack:"sv,omitempty"`
	GetEnumValue              *GetEnumValue              `msgpack:"ge,omitempty"`
	GetObjectValue            *GetObjectValue            `msgpack:"go,omitempty"`
	Return                    *Return                    `msgpack:"rt,omitempty"`
	StringConcatenation       *StringConcatenation       `msgpack:"sc,omitempty"`
	Throw                     *Throw                     `msgpack:"th,omitempty"`
	Try                       *Try                       `msgpack:"tr,omitempty"`
	TypeOp                    *TypeOp                    `msgpack:"to,omitempty"`
	Vararg                    *Vararg                    `msgpack:"va,omitempty"`
	When                      *When                      `msgpack:"wh,omitempty"`
	WhileLoop                 *WhileLoop                 `msgpack:"wl,omitempty"`
	DoWhileLoop               *DoWhileLoop               `msgpack:"dw,omitempty"`
	Break                     *Break                     `msgpack:"bk,omitempty"`
	Continue                  *Continue                  `msgpack:"co,omitempty"`
}

// OperationVisitor receives the populated variant of an Operation.
type OperationVisitor interface {
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
	VisitTypeOp(*TypeOp) error
	VisitVararg(*Vararg) error
	VisitWhen(*When) error
	VisitWhileLoop(*WhileLoop) error
	VisitDoWhileLoop(*DoWhileLoop) error
	VisitBreak(*Break) error
	VisitContinue(*Continue) error
}

// Dispatch calls the visitor method of the populated variant.
//
//nolint:gocyclo // one arm per variant
func (o *Operation) Dispatch(v OperationVisitor) error {
	const union = "operation"
	c := uint8(o.Case)
	switch o.Case {
	case OperationUnset:
		return unset(union)
	case OperationBlock:
		if o.Block == nil {
			return missing(union, c)
		}
		return v.VisitBlock(o.Block)
	case OperationComposite:
		if o.Composite == nil {
			return missing(union, c)
		}
		return v.VisitComposite(o.Composite)
	case OperationConst:
		if o.Const == nil {
			return missing(union, c)
		}
		return v.VisitConst(o.Const)
	case OperationCall:
		if o.Call == nil {
			return missing(union, c)
		}
		return v.VisitCall(o.Call)
	case OperationDelegatingConstructorCall:
		if o.DelegatingConstructorCall == nil {
			return missing(union, c)
		}
		return v.VisitDelegatingConstructorCall(o.DelegatingConstructorCall)
	case OperationEnumConstructorCall:
		if o.EnumConstructorCall == nil {
			return missing(union, c)
		}
		return v.VisitEnumConstructorCall(o.EnumConstructorCall)
	case OperationInstanceInitializerCall:
		if o.InstanceInitializerCall == nil {
			return missing(union, c)
		}
		return v.VisitInstanceInitializerCall(o.InstanceInitializerCall)
	case OperationFunctionReference:
		if o.FunctionReference == nil {
			return missing(union, c)
		}
		return v.VisitFunctionReference(o.FunctionReference)
	case OperationPropertyReference:
		if o.PropertyReference == nil {
			return missing(union, c)
		}
		return v.VisitPropertyReference(o.PropertyReference)
	case OperationClassReference:
		if o.ClassReference == nil {
			return missing(union, c)
		}
		return v.VisitClassReference(o.ClassReference)
	case OperationGetClass:
		if o.GetClass == nil {
			return missing(union, c)
		}
		return v.VisitGetClass(o.GetClass)
	case OperationGetField:
		if o.GetField == nil {
			return missing(union, c)
		}
		return v.VisitGetField(o.GetField)
	case OperationSetField:
		if o.SetField == nil {
			return missing(union, c)
		}
		return v.VisitSetField(o.SetField)
	case OperationGetValue:
		if o.GetValue == nil {
			return missing(union, c)
		}
		return v.VisitGetValue(o.GetValue)
	case OperationSetVariable:
		if o.SetVariable == nil {
			return missing(union, c)
		}
		return v.VisitSetVariable(o.SetVariable)
	case OperationGetEnumValue:
		if o.GetEnumValue == nil {
			return missing(union, c)
		}
		return v.VisitGetEnumValue(o.GetEnumValue)
	case OperationGetObjectValue:
		if o.GetObjectValue == nil {
			return missing(union, c)
		}
		return v.VisitGetObjectValue(o.GetObjectValue)
	case OperationReturn:
		if o.Return == nil {
			return missing(union, c)
		}
		return v.VisitReturn(o.Return)
	case OperationStringConcatenation:
		if o.StringConcatenation == nil {
			return missing(union, c)
		}
		return v.VisitStringConcatenation(o.StringConcatenation)
	case OperationThrow:
		if o.Throw == nil {
			return missing(union, c)
		}
		return v.VisitThrow(o.Throw)
	case OperationTry:
		if o.Try == nil {
			return missing(union, c)
		}
		return v.VisitTry(o.Try)
	case OperationTypeOp:
		if o.TypeOp == nil {
			return missing(union, c)
		}
		return v.VisitTypeOp(o.TypeOp)
	case OperationVararg:
		if o.Vararg == nil {
			return missing(union, c)
		}
		return v.VisitVararg(o.Vararg)
	case OperationWhen:
		if o.When == nil {
			return missing(union, c)
		}
		return v.VisitWhen(o.When)
	case OperationWhileLoop:
		if o.WhileLoop == nil {
			return missing(union, c)
		}
		return v.VisitWhileLoop(o.WhileLoop)
	case OperationDoWhileLoop:
		if o.DoWhileLoop == nil {
			return missing(union, c)
		}
		return v.VisitDoWhileLoop(o.DoWhileLoop)
	case OperationBreak:
		if o.Break == nil {
			return missing(union, c)
		}
		return v.VisitBreak(o.Break)
	case OperationContinue:
		if o.Continue == nil {
			return missing(union, c)
		}
		return v.VisitContinue(o.Continue)
	default:
		return unknown(union, c)
	}
}
