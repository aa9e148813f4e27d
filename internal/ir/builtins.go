package ir

// BuiltinsPackage is the package of the predefined declarations.
const BuiltinsPackage = "lang"

// Builtins is the predefined declaration table. Every instance assigns the
// same identities, 1..N in table order, so modules encoded against different
// instances agree on them.
type Builtins struct {
	Any       *Class
	Nothing   *Class
	Unit      *Class
	Boolean   *Class
	Char      *Class
	Byte      *Class
	Short     *Class
	Int       *Class
	Long      *Class
	Float     *Class
	Double    *Class
	String    *Class
	Array     *Class
	Throwable *Class

	AnyToString *Function
	AnyEquals   *Function
	AnyHashCode *Function
	IntPlus     *Function
	StringPlus  *Function

	module *Module
	decls  []Declaration
}

// NewBuiltins builds a fresh table.
func NewBuiltins() *Builtins {
	b := &Builtins{}
	file := &File{Name: "builtins", Package: BuiltinsPackage}
	b.module = &Module{Name: "<builtins>", Files: []*File{file}}

	class := func(name string, kind ClassKind, modality Modality) *Class {
		c := Declare(&Class{Name: name, ClassKind: kind, Modality: modality})
		file.AddDeclaration(c)
		b.decls = append(b.decls, c)
		return c
	}
	b.Any = class("Any", ClassKindClass, ModalityOpen)
	b.Nothing = class("Nothing", ClassKindClass, ModalityFinal)
	b.Unit = class("Unit", ClassKindObject, ModalityFinal)
	b.Boolean = class("Boolean", ClassKindClass, ModalityFinal)
	b.Char = class("Char", ClassKindClass, ModalityFinal)
	b.Byte = class("Byte", ClassKindClass, ModalityFinal)
	b.Short = class("Short", ClassKindClass, ModalityFinal)
	b.Int = class("Int", ClassKindClass, ModalityFinal)
	b.Long = class("Long", ClassKindClass, ModalityFinal)
	b.Float = class("Float", ClassKindClass, ModalityFinal)
	b.Double = class("Double", ClassKindClass, ModalityFinal)
	b.String = class("String", ClassKindClass, ModalityFinal)
	b.Array = class("Array", ClassKindClass, ModalityFinal)
	b.Throwable = class("Throwable", ClassKindClass, ModalityOpen)

	member := func(owner *Class, name string, modality Modality, ret Type, params ...Type) *Function {
		fn := Declare(&Function{
			FunctionBase: FunctionBase{Name: name, ReturnType: ret},
			Modality:     modality,
		})
		for i, t := range params {
			fn.AddParameter(fn, paramNames[i], t)
		}
		owner.AddDeclaration(fn)
		b.decls = append(b.decls, fn)
		return fn
	}
	b.AnyToString = member(b.Any, "toString", ModalityOpen, b.Type(b.String))
	b.AnyEquals = member(b.Any, "equals", ModalityOpen, b.Type(b.Boolean), Nullable(b.Type(b.Any)))
	b.AnyHashCode = member(b.Any, "hashCode", ModalityOpen, b.Type(b.Int))
	b.IntPlus = member(b.Int, "plus", ModalityFinal, b.Type(b.Int), b.Type(b.Int))
	b.StringPlus = member(b.String, "plus", ModalityFinal, b.Type(b.String), Nullable(b.Type(b.Any)))

	for i, d := range b.decls {
		d.Base().UniqID = UniqID(i + 1)
	}
	return b
}

var paramNames = []string{"other"}

// Declarations returns the table in identity order.
func (b *Builtins) Declarations() []Declaration { return b.decls }

// Module returns the built-ins as a module, for name-path resolution.
func (b *Builtins) Module() *Module { return b.module }

// Type returns the non-null type of a built-in class.
func (b *Builtins) Type(c *Class) *SimpleType { return ClassType(c.Symbol()) }
