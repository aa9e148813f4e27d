package ir

// DeclKind enumerates declaration kinds.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclFunction
	DeclConstructor
	DeclProperty
	DeclField
	DeclVariable
	DeclEnumEntry
	DeclAnonymousInitializer
	DeclTypeAlias
	DeclValueParameter
	DeclTypeParameter
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "Class"
	case DeclFunction:
		return "Function"
	case DeclConstructor:
		return "Constructor"
	case DeclProperty:
		return "Property"
	case DeclField:
		return "Field"
	case DeclVariable:
		return "Variable"
	case DeclEnumEntry:
		return "EnumEntry"
	case DeclAnonymousInitializer:
		return "AnonymousInitializer"
	case DeclTypeAlias:
		return "TypeAlias"
	case DeclValueParameter:
		return "ValueParameter"
	case DeclTypeParameter:
		return "TypeParameter"
	default:
		return "Unknown"
	}
}

// Declaration is a named program construct.
type Declaration interface {
	Statement
	Base() *DeclBase
	Symbol() *Symbol
	Kind() DeclKind
	AcceptDeclaration(v DeclarationVisitor) error
}

// DeclarationVisitor has one method per declaration kind.
type DeclarationVisitor interface {
	VisitClass(*Class) error
	VisitFunction(*Function) error
	VisitConstructor(*Constructor) error
	VisitProperty(*Property) error
	VisitField(*Field) error
	VisitVariable(*Variable) error
	VisitEnumEntry(*EnumEntry) error
	VisitAnonymousInitializer(*AnonymousInitializer) error
	VisitTypeAlias(*TypeAlias) error
	VisitValueParameter(*ValueParameter) error
	VisitTypeParameter(*TypeParameter) error
}

// DeclarationParent is a node that owns declarations.
type DeclarationParent interface {
	isDeclarationParent()
}

// DeclBase holds the attributes shared by every declaration.
type DeclBase struct {
	Offsets
	Origin      Origin
	Annotations []*Call
	Parent      DeclarationParent

	// UniqID is the identity recorded for this declaration by a previous
	// decode (or the built-in table). Zero for freshly built graphs.
	UniqID UniqID

	symbol *Symbol
}

// Base returns the shared attributes.
func (b *DeclBase) Base() *DeclBase { return b }

// Symbol returns the owning symbol.
func (b *DeclBase) Symbol() *Symbol { return b.symbol }

// IsFakeOverride reports whether the declaration is a synthesized inherited member.
func (b *DeclBase) IsFakeOverride() bool { return b.Origin == OriginFakeOverride }

func (*DeclBase) isStatement() {}

// Class declares a class, interface, enum class or object.
type Class struct {
	DeclBase
	Name           string
	ClassKind      ClassKind
	Visibility     Visibility
	Modality       Modality
	IsCompanion    bool
	IsInner        bool
	IsData         bool
	IsExternal     bool
	TypeParameters []*TypeParameter
	SuperTypes     []Type
	ThisReceiver   *ValueParameter
	Declarations   []Declaration
}

// FunctionBase is shared by functions and constructors.
type FunctionBase struct {
	Name              string
	Visibility        Visibility
	IsInline          bool
	IsExternal        bool
	ReturnType        Type
	TypeParameters    []*TypeParameter
	DispatchReceiver  *ValueParameter
	ExtensionReceiver *ValueParameter
	ValueParameters   []*ValueParameter
	Body              Body
}

// Function declares a simple function or property accessor.
type Function struct {
	DeclBase
	FunctionBase
	Modality  Modality
	IsTailrec bool
	IsSuspend bool
	// Overridden lists the members this function overrides.
	Overridden []*Symbol
	// CorrespondingProperty is set for property accessors.
	CorrespondingProperty *Symbol
}

// Constructor declares a class constructor.
type Constructor struct {
	DeclBase
	FunctionBase
	IsPrimary bool
}

// Property declares a property with optional backing field and accessors.
type Property struct {
	DeclBase
	Name         string
	Visibility   Visibility
	Modality     Modality
	IsVar        bool
	IsConst      bool
	IsLateinit   bool
	IsDelegated  bool
	IsExternal   bool
	BackingField *Field
	Getter       *Function
	Setter       *Function
}

// Field declares storage.
type Field struct {
	DeclBase
	Name        string
	Visibility  Visibility
	IsFinal     bool
	IsExternal  bool
	IsStatic    bool
	Type        Type
	Initializer Expression
}

// Variable declares a local variable.
type Variable struct {
	DeclBase
	Name        string
	Type        Type
	IsVar       bool
	IsConst     bool
	IsLateinit  bool
	Initializer Expression
}

// EnumEntry declares one entry of an enum class.
type EnumEntry struct {
	DeclBase
	Name               string
	Initializer        Expression
	CorrespondingClass *Class
}

// AnonymousInitializer is an init block of a class.
type AnonymousInitializer struct {
	DeclBase
	Body *BlockBody
}

// TypeAlias declares an alias for a type.
type TypeAlias struct {
	DeclBase
	Name           string
	Visibility     Visibility
	TypeParameters []*TypeParameter
	Expanded       Type
}

// ValueParameter declares a receiver or value parameter.
type ValueParameter struct {
	DeclBase
	Name              string
	Index             int
	Type              Type
	VarargElementType Type
	DefaultValue      Expression
	IsCrossinline     bool
	IsNoinline        bool
}

// TypeParameter declares a generic parameter.
type TypeParameter struct {
	DeclBase
	Name       string
	Index      int
	Variance   Variance
	SuperTypes []Type
}

func (*Class) Kind() DeclKind                { return DeclClass }
func (*Function) Kind() DeclKind             { return DeclFunction }
func (*Constructor) Kind() DeclKind          { return DeclConstructor }
func (*Property) Kind() DeclKind             { return DeclProperty }
func (*Field) Kind() DeclKind                { return DeclField }
func (*Variable) Kind() DeclKind             { return DeclVariable }
func (*EnumEntry) Kind() DeclKind            { return DeclEnumEntry }
func (*AnonymousInitializer) Kind() DeclKind { return DeclAnonymousInitializer }
func (*TypeAlias) Kind() DeclKind            { return DeclTypeAlias }
func (*ValueParameter) Kind() DeclKind       { return DeclValueParameter }
func (*TypeParameter) Kind() DeclKind        { return DeclTypeParameter }

func (d *Class) AcceptDeclaration(v DeclarationVisitor) error       { return v.VisitClass(d) }
func (d *Function) AcceptDeclaration(v DeclarationVisitor) error    { return v.VisitFunction(d) }
func (d *Constructor) AcceptDeclaration(v DeclarationVisitor) error { return v.VisitConstructor(d) }
func (d *Property) AcceptDeclaration(v DeclarationVisitor) error    { return v.VisitProperty(d) }
func (d *Field) AcceptDeclaration(v DeclarationVisitor) error       { return v.VisitField(d) }
func (d *Variable) AcceptDeclaration(v DeclarationVisitor) error    { return v.VisitVariable(d) }
func (d *EnumEntry) AcceptDeclaration(v DeclarationVisitor) error   { return v.VisitEnumEntry(d) }
func (d *AnonymousInitializer) AcceptDeclaration(v DeclarationVisitor) error {
	return v.VisitAnonymousInitializer(d)
}
func (d *TypeAlias) AcceptDeclaration(v DeclarationVisitor) error      { return v.VisitTypeAlias(d) }
func (d *ValueParameter) AcceptDeclaration(v DeclarationVisitor) error { return v.VisitValueParameter(d) }
func (d *TypeParameter) AcceptDeclaration(v DeclarationVisitor) error  { return v.VisitTypeParameter(d) }

func (*File) isDeclarationParent()                 {}
func (*Class) isDeclarationParent()                {}
func (*Function) isDeclarationParent()             {}
func (*Constructor) isDeclarationParent()          {}
func (*AnonymousInitializer) isDeclarationParent() {}

// AddDeclaration appends a member and makes the class its parent.
func (c *Class) AddDeclaration(d Declaration) {
	d.Base().Parent = c
	c.Declarations = append(c.Declarations, d)
}

// Constructors returns the class constructors in declaration order.
func (c *Class) Constructors() []*Constructor {
	var out []*Constructor
	for _, d := range c.Declarations {
		if ctor, ok := d.(*Constructor); ok {
			out = append(out, ctor)
		}
	}
	return out
}

// NameOf returns the declared name, or a placeholder for unnamed kinds.
func NameOf(d Declaration) string {
	switch d := d.(type) {
	case *Class:
		return d.Name
	case *Function:
		return d.Name
	case *Constructor:
		return "<init>"
	case *Property:
		return d.Name
	case *Field:
		return d.Name
	case *Variable:
		return d.Name
	case *EnumEntry:
		return d.Name
	case *AnonymousInitializer:
		return "<anonymous-init>"
	case *TypeAlias:
		return d.Name
	case *ValueParameter:
		return d.Name
	case *TypeParameter:
		return d.Name
	default:
		return "<unknown>"
	}
}
