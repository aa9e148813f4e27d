package irtest

import "irpack/internal/ir"

// Kitchen is a module exercising every declaration, statement, expression
// and type variant, with handles to the nodes tests look at.
type Kitchen struct {
	Module *ir.Module

	Color    *ir.Class
	Red      *ir.EnumEntry
	Base     *ir.Class
	Name     *ir.Property
	Area     *ir.Function
	Registry *ir.Class
	Derived  *ir.Class
	FakeArea *ir.Function
	Kitchen  *ir.Function
	Outer    *ir.WhileLoop
	Inner    *ir.DoWhileLoop
}

// KitchenSink builds the module. Its only fake override, Derived.area, is
// never referenced, so the decoded module dumps like the original when fake
// overrides are skipped.
//
//nolint:funlen // one fixture
func KitchenSink(b *ir.Builtins, module string) *Kitchen {
	x := newBuilder(b)
	k := &Kitchen{Module: &ir.Module{Name: module}}
	f := k.Module.AddFile(&ir.File{Name: "kitchen.kt", Package: Package})
	nullableAny := ir.Nullable(b.Type(b.Any))

	// annotation class Marker
	marker := x.class("Marker", ir.ClassKindAnnotationClass)
	f.AddDeclaration(marker)
	markerCtor := x.constructor(marker)
	markerT := ir.ClassType(marker.Symbol())
	annotation := func() *ir.Call {
		return &ir.Call{ExprBase: x.expr(markerT), Symbol: markerCtor.Symbol()}
	}

	// enum class Color { RED, GREEN { } }
	color := x.class("Color", ir.ClassKindEnumClass, x.anyT)
	f.AddDeclaration(color)
	colorT := ir.ClassType(color.Symbol())
	color.ThisReceiver = x.receiver(color, colorT)
	colorCtor := x.constructor(color)
	colorCtor.Visibility = ir.VisibilityPrivate
	colorCtor.Body = x.body(&ir.InstanceInitializerCall{ExprBase: x.expr(x.unitT), Class: color.Symbol()})
	red := ir.Declare(&ir.EnumEntry{Name: "RED"})
	red.Offsets = x.span()
	color.AddDeclaration(red)
	red.Initializer = &ir.EnumConstructorCall{ExprBase: x.expr(colorT), Symbol: colorCtor.Symbol()}
	green := ir.Declare(&ir.EnumEntry{Name: "GREEN"})
	color.AddDeclaration(green)
	green.Initializer = &ir.EnumConstructorCall{ExprBase: x.expr(colorT), Symbol: colorCtor.Symbol()}
	greenClass := x.class("GREEN", ir.ClassKindEnumEntry, colorT)
	greenClass.Parent = color
	green.CorrespondingClass = greenClass
	values := x.function("values", ir.ClassType(b.Array.Symbol(), colorT))
	values.Origin = ir.OriginEnumClassSpecialMember
	values.Body = &ir.SyntheticBody{Offsets: x.span(), Kind: ir.SyntheticEnumValues}
	color.AddDeclaration(values)
	valueOf := x.function("valueOf", colorT)
	valueOf.Origin = ir.OriginEnumClassSpecialMember
	x.param(&valueOf.FunctionBase, valueOf, "value", x.stringT)
	valueOf.Body = &ir.SyntheticBody{Offsets: x.span(), Kind: ir.SyntheticEnumValueOf}
	color.AddDeclaration(valueOf)
	k.Color, k.Red = color, red

	// interface Shape<out T : Any?> { fun area(): Double }
	shape := x.class("Shape", ir.ClassKindInterface)
	shape.Modality = ir.ModalityAbstract
	f.AddDeclaration(shape)
	shapeT := ir.Declare(&ir.TypeParameter{Name: "T", Variance: ir.VarianceOut, SuperTypes: []ir.Type{nullableAny}})
	shapeT.Parent = shape
	shape.TypeParameters = []*ir.TypeParameter{shapeT}
	shapeArea := x.function("area", x.doubleT)
	shapeArea.Modality = ir.ModalityAbstract
	shape.AddDeclaration(shapeArea)

	// open class Base : Shape<Int>
	base := x.class("Base", ir.ClassKindClass, ir.ClassType(shape.Symbol(), x.intT))
	base.Modality = ir.ModalityOpen
	f.AddDeclaration(base)
	baseT := ir.ClassType(base.Symbol())
	base.ThisReceiver = x.receiver(base, baseT)
	baseCtor := x.constructor(base)
	baseCtor.Body = x.body(&ir.InstanceInitializerCall{ExprBase: x.expr(x.unitT), Class: base.Symbol()})

	//   val name: String = "base"
	name := ir.Declare(&ir.Property{Name: "name"})
	name.Offsets = x.span()
	base.AddDeclaration(name)
	nameField := ir.Declare(&ir.Field{Name: "name", Visibility: ir.VisibilityPrivate, IsFinal: true, Type: x.stringT,
		Initializer: x.str("base")})
	nameField.Parent = base
	name.BackingField = nameField
	getName := ir.NewAccessor(name, false, x.stringT)
	getName.DispatchReceiver = x.receiver(getName, baseT)
	getName.Body = x.body(x.ret(getName, &ir.GetField{
		ExprBase:    x.expr(x.stringT),
		FieldAccess: ir.FieldAccess{Field: nameField.Symbol(), Receiver: x.get(getName.DispatchReceiver, baseT)},
	}))

	//   var counter: Int = 0
	counter := ir.Declare(&ir.Property{Name: "counter", IsVar: true})
	base.AddDeclaration(counter)
	counterField := ir.Declare(&ir.Field{Name: "counter", Visibility: ir.VisibilityPrivate, Type: x.intT, Initializer: x.int(0)})
	counterField.Parent = base
	counter.BackingField = counterField
	getCounter := ir.NewAccessor(counter, false, x.intT)
	getCounter.Body = x.body(x.ret(getCounter, &ir.GetField{
		ExprBase:    x.expr(x.intT),
		FieldAccess: ir.FieldAccess{Field: counterField.Symbol()},
	}))
	setCounter := ir.NewAccessor(counter, true, x.unitT)
	value := x.param(&setCounter.FunctionBase, setCounter, "value", x.intT)
	setCounter.Body = x.body(&ir.SetField{
		ExprBase:    x.expr(x.unitT),
		FieldAccess: ir.FieldAccess{Field: counterField.Symbol()},
		Value:       x.get(value, x.intT),
	})

	//   override fun area(): Double = 1.5
	area := x.function("area", x.doubleT)
	area.Modality = ir.ModalityOpen
	area.Overridden = []*ir.Symbol{shapeArea.Symbol()}
	base.AddDeclaration(area)
	area.DispatchReceiver = x.receiver(area, baseT)
	area.Body = x.body(x.ret(area, &ir.Const{ExprBase: x.expr(x.doubleT), ConstKind: ir.ConstDouble, Float: 1.5}))

	//   init { counter = 1 }
	initBlock := ir.Declare(&ir.AnonymousInitializer{})
	base.AddDeclaration(initBlock)
	initBlock.Body = x.body(&ir.SetField{
		ExprBase:    x.expr(x.unitT),
		FieldAccess: ir.FieldAccess{Field: counterField.Symbol(), Receiver: x.get(base.ThisReceiver, baseT)},
		Value:       x.int(1),
	})
	k.Base, k.Name, k.Area = base, name, area

	// object Registry { fun register(vararg items: Any?) }
	registry := x.class("Registry", ir.ClassKindObject, x.anyT)
	f.AddDeclaration(registry)
	registryT := ir.ClassType(registry.Symbol())
	regCtor := x.constructor(registry)
	regCtor.Visibility = ir.VisibilityPrivate
	register := x.function("register", x.unitT)
	registry.AddDeclaration(register)
	items := x.param(&register.FunctionBase, register, "items", ir.ClassType(b.Array.Symbol(), nullableAny))
	items.VarargElementType = nullableAny
	register.Body = x.body()
	k.Registry = registry

	// class Derived : Base() with the inherited area as fake override
	derived := x.class("Derived", ir.ClassKindClass, baseT)
	f.AddDeclaration(derived)
	derivedCtor := x.constructor(derived)
	derivedCtor.Body = x.body(
		&ir.DelegatingConstructorCall{ExprBase: x.expr(x.unitT), Symbol: baseCtor.Symbol()},
		&ir.InstanceInitializerCall{ExprBase: x.expr(x.unitT), Class: derived.Symbol()},
	)
	fakeArea := x.function("area", x.doubleT)
	fakeArea.Origin = ir.OriginFakeOverride
	fakeArea.Modality = ir.ModalityOpen
	fakeArea.Overridden = []*ir.Symbol{area.Symbol()}
	derived.AddDeclaration(fakeArea)
	k.Derived, k.FakeArea = derived, fakeArea

	// typealias Items<E> = Array<out E>
	alias := ir.Declare(&ir.TypeAlias{Name: "Items"})
	f.AddDeclaration(alias)
	aliasE := ir.Declare(&ir.TypeParameter{Name: "E"})
	aliasE.Parent = f
	alias.TypeParameters = []*ir.TypeParameter{aliasE}
	alias.Expanded = &ir.SimpleType{
		Classifier: b.Array.Symbol(),
		Arguments:  []ir.TypeArgument{&ir.TypeProjection{Variance: ir.VarianceOut, Type: ir.ClassType(aliasE.Symbol())}},
	}

	// val answer: Int get() = 42
	answer := ir.Declare(&ir.Property{Name: "answer"})
	f.AddDeclaration(answer)
	getAnswer := ir.NewAccessor(answer, false, x.intT)
	getAnswer.Body = x.body(x.ret(getAnswer, x.int(42)))

	k.Kitchen = x.kitchen(f, kitchenDeps{
		annotation: annotation,
		color:      color,
		red:        red,
		base:       base,
		nameField:  nameField,
		getName:    getName,
		registry:   registry,
		registryT:  registryT,
		register:   register,
	}, k)
	return k
}

type kitchenDeps struct {
	annotation func() *ir.Call
	color      *ir.Class
	red        *ir.EnumEntry
	base       *ir.Class
	nameField  *ir.Field
	getName    *ir.Function
	registry   *ir.Class
	registryT  ir.Type
	register   *ir.Function
}

// kitchen declares
//
//	@Marker fun <R> String.kitchen(x: Int, crossinline s: String? = null): Any?
//
// whose body uses every expression kind.
//
//nolint:funlen // one fixture
func (x *builder) kitchen(f *ir.File, d kitchenDeps, k *Kitchen) *ir.Function {
	b := x.b
	nullableAny := ir.Nullable(x.anyT)
	nullableString := ir.Nullable(x.stringT)
	baseT := ir.ClassType(d.base.Symbol())

	fn := x.function("kitchen", nullableAny)
	fn.Annotations = []*ir.Call{d.annotation()}
	f.AddDeclaration(fn)
	r := ir.Declare(&ir.TypeParameter{Name: "R"})
	r.Parent = fn
	fn.TypeParameters = []*ir.TypeParameter{r}
	ext := x.receiver(fn, x.stringT)
	fn.ExtensionReceiver = ext
	px := x.param(&fn.FunctionBase, fn, "x", x.intT)
	ps := x.param(&fn.FunctionBase, fn, "s", nullableString)
	ps.IsCrossinline = true
	ps.DefaultValue = x.null()

	i := x.local(fn, "i", x.intT, x.int(0))
	i.IsVar = true
	dyn := x.local(fn, "dyn", &ir.DynamicType{}, x.null())
	broken := x.local(fn, "broken", &ir.ErrorType{Variance: ir.VarianceIn}, nil)
	star := x.local(fn, "star", &ir.SimpleType{Classifier: b.Array.Symbol(), Arguments: []ir.TypeArgument{ir.Star}}, nil)
	star.IsLateinit = true
	annotated := x.local(fn, "annotated",
		&ir.SimpleType{Classifier: b.Int.Symbol(), Annotations: []*ir.Call{d.annotation()}}, x.int(7))
	annotated.IsConst = true

	// outer@ while (x is Int) { i = i + 1; when { true -> break@outer }; do { break@outer; continue } while (false); continue@outer }
	outer := &ir.WhileLoop{ExprBase: x.expr(x.unitT)}
	outer.Label = "outer"
	inner := &ir.DoWhileLoop{ExprBase: x.expr(x.unitT)}
	outer.Condition = &ir.TypeOperatorCall{
		ExprBase: x.expr(x.boolT),
		Operator: ir.OpInstanceOf,
		Operand:  x.intT,
		Argument: x.get(px, x.intT),
	}
	inner.Condition = x.bool(false)
	inner.Body = &ir.Block{ExprBase: x.expr(x.unitT), Statements: []ir.Statement{
		&ir.Break{ExprBase: x.expr(x.nothingT), Loop: outer, Label: "outer"},
		&ir.Continue{ExprBase: x.expr(x.nothingT), Loop: inner},
	}}
	outer.Body = &ir.Block{ExprBase: x.expr(x.unitT), Statements: []ir.Statement{
		&ir.SetVariable{ExprBase: x.expr(x.unitT), Symbol: i.Symbol(), Value: &ir.Call{
			ExprBase:  x.expr(x.intT),
			Symbol:    b.IntPlus.Symbol(),
			Primitive: ir.PrimitiveBinary,
			MemberAccess: ir.MemberAccess{
				DispatchReceiver: x.get(i, x.intT),
				ValueArguments:   []ir.Expression{x.int(1)},
			},
		}},
		&ir.When{ExprBase: x.expr(x.unitT), Branches: []*ir.Branch{{
			Offsets:   x.span(),
			Condition: x.bool(true),
			Result:    &ir.Break{ExprBase: x.expr(x.nothingT), Loop: outer, Label: "outer"},
		}}},
		inner,
		&ir.Continue{ExprBase: x.expr(x.nothingT), Loop: outer, Label: "outer"},
	}}
	k.Outer, k.Inner = outer, inner

	// try { throw dyn as Throwable } catch (e: Throwable) { e } finally { i = 0 }
	throwableT := b.Type(b.Throwable)
	caught := x.local(fn, "e", throwableT, nil)
	caught.Origin = ir.OriginCatchParameter
	try := &ir.Try{
		ExprBase: x.expr(nullableAny),
		Result: &ir.Throw{ExprBase: x.expr(x.nothingT), Value: &ir.TypeOperatorCall{
			ExprBase: x.expr(throwableT),
			Operator: ir.OpCast,
			Operand:  throwableT,
			Argument: x.get(dyn, &ir.DynamicType{}),
		}},
		Catches: []*ir.Catch{{Offsets: x.span(), Parameter: caught, Result: x.get(caught, throwableT)}},
		Finally: &ir.Composite{ExprBase: x.expr(x.unitT), Statements: []ir.Statement{
			&ir.SetVariable{ExprBase: x.expr(x.unitT), Symbol: i.Symbol(), Value: x.int(0)},
		}},
	}

	// { fun helper(): Int = 'c'.code; helper() }
	helper := x.function("helper", x.intT)
	helper.Parent = fn
	helper.Visibility = ir.VisibilityLocal
	helper.Body = x.body(x.ret(helper, &ir.Const{ExprBase: x.expr(b.Type(b.Char)), ConstKind: ir.ConstChar, Int: 'c'}))
	lambda := &ir.Block{ExprBase: x.expr(x.intT), IsLambdaOrigin: true, Statements: []ir.Statement{
		helper,
		&ir.Call{ExprBase: x.expr(x.intT), Symbol: helper.Symbol()},
	}}

	fn.Body = x.body(
		i, dyn, broken, star, annotated,
		outer,
		try,
		lambda,
		&ir.StringConcatenation{ExprBase: x.expr(x.stringT), Arguments: []ir.Expression{x.str("s="), x.get(ps, nullableString)}},
		&ir.FunctionReference{ExprBase: x.expr(x.anyT), Symbol: fn.Symbol(), TypeArguments: []ir.Type{x.intT}, Origin: "reference"},
		&ir.PropertyReference{ExprBase: x.expr(x.anyT), Field: d.nameField.Symbol(), Getter: d.getName.Symbol(), Origin: "property"},
		&ir.ClassReference{ExprBase: x.expr(x.anyT), Class: d.base.Symbol(), ClassType: baseT},
		&ir.GetClass{ExprBase: x.expr(x.anyT), Argument: x.get(px, x.intT)},
		&ir.GetEnumValue{ExprBase: x.expr(ir.ClassType(d.color.Symbol())), Symbol: d.red.Symbol()},
		&ir.Call{
			ExprBase: x.expr(x.unitT),
			Symbol:   d.register.Symbol(),
			MemberAccess: ir.MemberAccess{
				DispatchReceiver: &ir.GetObjectValue{ExprBase: x.expr(d.registryT), Class: d.registry.Symbol()},
				ValueArguments: []ir.Expression{&ir.Vararg{
					ExprBase:    x.expr(ir.ClassType(b.Array.Symbol(), nullableAny)),
					ElementType: nullableAny,
					Elements: []ir.VarargElement{
						x.int(1),
						&ir.SpreadElement{Offsets: x.span(), Expression: x.get(star, x.anyT)},
					},
				}},
			},
		},
		&ir.Call{
			ExprBase: x.expr(nullableAny),
			Symbol:   fn.Symbol(),
			MemberAccess: ir.MemberAccess{
				ExtensionReceiver: x.get(ext, x.stringT),
				TypeArguments:     []ir.Type{x.stringT},
				ValueArguments:    []ir.Expression{x.get(px, x.intT), nil},
			},
		},
		&ir.Call{
			ExprBase: x.expr(x.stringT),
			Symbol:   b.AnyToString.Symbol(),
			Super:    b.Any.Symbol(),
			MemberAccess: ir.MemberAccess{
				DispatchReceiver: x.get(ext, x.stringT),
			},
		},
		&ir.Const{ExprBase: x.expr(b.Type(b.Long)), ConstKind: ir.ConstLong, Int: 1 << 40},
		&ir.Const{ExprBase: x.expr(b.Type(b.Float)), ConstKind: ir.ConstFloat, Float: 2.5},
		&ir.Const{ExprBase: x.expr(b.Type(b.Byte)), ConstKind: ir.ConstByte, Int: -8},
		&ir.Const{ExprBase: x.expr(b.Type(b.Short)), ConstKind: ir.ConstShort, Int: 300},
		&ir.TypeOperatorCall{ExprBase: x.expr(ir.Nullable(x.stringT)), Operator: ir.OpSafeCast, Operand: x.stringT,
			Argument: x.get(broken, &ir.ErrorType{})},
		x.ret(fn, x.null()),
	)
	return fn
}
