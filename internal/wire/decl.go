package wire

// Declaration is one declaration message; top-level ones are stored as
// separate blobs.
type Declaration struct {
	Base       DeclarationBase `msgpack:"b"`
	Declarator Declarator      `msgpack:"d"`
}

// DeclarationBase holds the attributes shared by every declaration.
type DeclarationBase struct {
	Symbol      Symbol       `msgpack:"s"`
	Pos         Coordinates  `msgpack:"c"`
	Origin      uint8        `msgpack:"o,omitempty"`
	Annotations []Expression `msgpack:"@,omitempty"`
}

// DeclaratorCase selects the populated variant of Declarator.
type DeclaratorCase uint8

const (
	DeclaratorUnset DeclaratorCase = iota
	DeclaratorClass
	DeclaratorFunction
	DeclaratorConstructor
	DeclaratorProperty
	DeclaratorField
	DeclaratorVariable
	DeclaratorEnumEntry
	DeclaratorAnonymousInit
	DeclaratorTypeAlias
	DeclaratorValueParameter
	DeclaratorTypeParameter
)

func (c DeclaratorCase) String() string {
	switch c {
	case DeclaratorUnset:
		return "unset"
	case DeclaratorClass:
		return "class"
	case DeclaratorFunction:
		return "function"
	case DeclaratorConstructor:
		return "constructor"
	case DeclaratorProperty:
		return "property"
	case DeclaratorField:
		return "field"
	case DeclaratorVariable:
		return "variable"
	case DeclaratorEnumEntry:
		return "enum entry"
	case DeclaratorAnonymousInit:
		return "anonymous initializer"
	case DeclaratorTypeAlias:
		return "typealias"
	case DeclaratorValueParameter:
		return "value parameter"
	case DeclaratorTypeParameter:
		return "type parameter"
	default:
		return "unknown"
	}
}

// Declarator is the kind-specific payload union.
type Declarator struct {
	Case           DeclaratorCase  `msgpack:"c"`
	Class          *Class          `msgpack:"cl,omitempty"`
	Function       *Function       `msgpack:"fn,omitempty"`
	Constructor    *Constructor    `msgpack:"ct,omitempty"`
	Property       *Property       `msgpack:"pr,omitempty"`
	Field          *Field          `msgpack:"fd,omitempty"`
	Variable       *Variable       `msgpack:"va,omitempty"`
	EnumEntry      *EnumEntry      `msgpack:"ee,omitempty"`
	AnonymousInit  *AnonymousInit  `msgpack:"ai,omitempty"`
	TypeAlias      *TypeAlias      `msgpack:"ta,omitempty"`
	ValueParameter *ValueParameter `msgpack:"vp,omitempty"`
	TypeParameter  *TypeParameter  `msgpack:"tp,omitempty"`
}

// DeclaratorVisitor receives the populated variant of a Declarator.
type DeclaratorVisitor interface {
	VisitClass(*Class) error
	VisitFunction(*Function) error
	VisitConstructor(*Constructor) error
	VisitProperty(*Property) error
	VisitField(*Field) error
	VisitVariable(*Variable) error
	VisitEnumEntry(*EnumEntry) error
	VisitAnonymousInit(*AnonymousInit) error
	VisitTypeAlias(*TypeAlias) error
	VisitValueParameter(*ValueParameter) error
	VisitTypeParameter(*TypeParameter) error
}

// Dispatch calls the visitor method of the populated variant.
//
//nolint:gocyclo // one arm per variant
func (d *Declarator) Dispatch(v DeclaratorVisitor) error {
	const union = "declarator"
	c := uint8(d.Case)
	switch d.Case {
	case DeclaratorUnset:
		return unset(union)
	case DeclaratorClass:
		if d.Class == nil {
			return missing(union, c)
		}
		return v.VisitClass(d.Class)
	case DeclaratorFunction:
		if d.Function == nil {
			return missing(union, c)
		}
		return v.VisitFunction(d.Function)
	case DeclaratorConstructor:
		if d.Constructor == nil {
			return missing(union, c)
		}
		return v.VisitConstructor(d.Constructor)
	case DeclaratorProperty:
		if d.Property == nil {
			return missing(union, c)
		}
		return v.VisitProperty(d.Property)
	case DeclaratorField:
		if d.Field == nil {
			return missing(union, c)
		}
		return v.VisitField(d.Field)
	case DeclaratorVariable:
		if d.Variable == nil {
			return missing(union, c)
		}
		return v.VisitVariable(d.Variable)
	case DeclaratorEnumEntry:
		if d.EnumEntry == nil {
			return missing(union, c)
		}
		return v.VisitEnumEntry(d.EnumEntry)
	case DeclaratorAnonymousInit:
		if d.AnonymousInit == nil {
			return missing(union, c)
		}
		return v.VisitAnonymousInit(d.AnonymousInit)
	case DeclaratorTypeAlias:
		if d.TypeAlias == nil {
			return missing(union, c)
		}
		return v.VisitTypeAlias(d.TypeAlias)
	case DeclaratorValueParameter:
		if d.ValueParameter == nil {
			return missing(union, c)
		}
		return v.VisitValueParameter(d.ValueParameter)
	case DeclaratorTypeParameter:
		if d.TypeParameter == nil {
			return missing(union, c)
		}
		return v.VisitTypeParameter(d.TypeParameter)
	default:
		return unknown(union, c)
	}
}

// Class payload.
type Class struct {
	Name           string        `msgpack:"n"`
	Kind           uint8         `msgpack:"k,omitempty"`
	Visibility     uint8         `msgpack:"v,omitempty"`
	Modality       uint8         `msgpack:"m,omitempty"`
	IsCompanion    bool          `msgpack:"co,omitempty"`
	IsInner        bool          `msgpack:"in,omitempty"`
	IsData         bool          `msgpack:"da,omitempty"`
	IsExternal     bool          `msgpack:"ex,omitempty"`
	TypeParameters []Declaration `msgpack:"tp,omitempty"`
	SuperTypes     []Type        `msgpack:"st,omitempty"`
	ThisReceiver   *Declaration  `msgpack:"th,omitempty"`
	Declarations   []Declaration `msgpack:"d,omitempty"`
}

// FunctionBase is shared by functions and constructors.
type FunctionBase struct {
	Name              string        `msgpack:"n"`
	Visibility        uint8         `msgpack:"v,omitempty"`
	IsInline          bool          `msgpack:"il,omitempty"`
	IsExternal        bool          `msgpack:"ex,omitempty"`
	ReturnType        *Type         `msgpack:"rt,omitempty"`
	TypeParameters    []Declaration `msgpack:"tp,omitempty"`
	DispatchReceiver  *Declaration  `msgpack:"dr,omitempty"`
	ExtensionReceiver *Declaration  `msgpack:"er,omitempty"`
	ValueParameters   []Declaration `msgpack:"vp,omitempty"`
	Body              *Statement    `msgpack:"b,omitempty"`
}

// Function payload.
type Function struct {
	Base                  FunctionBase `msgpack:"fb"`
	Modality              uint8        `msgpack:"m,omitempty"`
	IsTailrec             bool         `msgpack:"tr,omitempty"`
	IsSuspend             bool         `msgpack:"su,omitempty"`
	Overridden            []Symbol     `msgpack:"ov,omitempty"`
	CorrespondingProperty *Symbol      `msgpack:"cp,omitempty"`
}

// Constructor payload.
type Constructor struct {
	Base      FunctionBase `msgpack:"fb"`
	IsPrimary bool         `msgpack:"pr,omitempty"`
}

// Property payload. Accessors and the backing field are nested in full.
type Property struct {
	Name         string       `msgpack:"n"`
	Visibility   uint8        `msgpack:"v,omitempty"`
	Modality     uint8        `msgpack:"m,omitempty"`
	IsVar        bool         `msgpack:"va,omitempty"`
	IsConst      bool         `msgpack:"co,omitempty"`
	IsLateinit   bool         `msgpack:"li,omitempty"`
	IsDelegated  bool         `msgpack:"de,omitempty"`
	IsExternal   bool         `msgpack:"ex,omitempty"`
	BackingField *Declaration `msgpack:"bf,omitempty"`
	Getter       *Declaration `msgpack:"g,omitempty"`
	Setter       *Declaration `msgpack:"s,omitempty"`
}

// Field payload.
type Field struct {
	Name        string      `msgpack:"n"`
	Visibility  uint8       `msgpack:"v,omitempty"`
	IsFinal     bool        `msgpack:"fi,omitempty"`
	IsExternal  bool        `msgpack:"ex,omitempty"`
	IsStatic    bool        `msgpack:"st,omitempty"`
	Type        *Type       `msgpack:"t,omitempty"`
	Initializer *Expression `msgpack:"i,omitempty"`
}

// Variable payload.
type Variable struct {
	Name        string      `msgpack:"n"`
	Type        *Type       `msgpack:"t,omitempty"`
	IsVar       bool        `msgpack:"va,omitempty"`
	IsConst     bool        `msgpack:"co,omitempty"`
	IsLateinit  bool        `msgpack:"li,omitempty"`
	Initializer *Expression `msgpack:"i,omitempty"`
}

// EnumEntry payload.
type EnumEntry struct {
	Name               string       `msgpack:"n"`
	Initializer        *Expression  `msgpack:"i,omitempty"`
	CorrespondingClass *Declaration `msgpack:"cc,omitempty"`
}

// AnonymousInit payload.
type AnonymousInit struct {
	Body BlockBody `msgpack:"b"`
}

// TypeAlias payload.
type TypeAlias struct {
	Name           string        `msgpack:"n"`
	Visibility     uint8         `msgpack:"v,omitempty"`
	TypeParameters []Declaration `msgpack:"tp,omitempty"`
	Expanded       *Type         `msgpack:"x,omitempty"`
}

// ValueParameter payload.
type ValueParameter struct {
	Name              string      `msgpack:"n"`
	Index             int32       `msgpack:"ix,omitempty"`
	Type              *Type       `msgpack:"t,omitempty"`
	VarargElementType *Type       `msgpack:"ve,omitempty"`
	DefaultValue      *Expression `msgpack:"dv,omitempty"`
	IsCrossinline     bool        `msgpack:"ci,omitempty"`
	IsNoinline        bool        `msgpack:"ni,omitempty"`
}

// TypeParameter payload.
type TypeParameter struct {
	Name       string `msgpack:"n"`
	Index      int32  `msgpack:"ix,omitempty"`
	Variance   uint8  `msgpack:"v,omitempty"`
	SuperTypes []Type `msgpack:"st,omitempty"`
}
