// Package irtest builds small IR graphs shared by codec, store and CLI tests.
package irtest

import "irpack/internal/ir"

// Package is the package of every fixture file.
const Package = "demo"

// builder hands out increasing offsets so dumps show coordinates surviving
// a round trip, and keeps the common built-in types at hand.
type builder struct {
	b   *ir.Builtins
	pos int

	anyT, unitT, nothingT, intT, boolT, stringT, doubleT *ir.SimpleType
}

func newBuilder(b *ir.Builtins) *builder {
	return &builder{
		b:        b,
		anyT:     b.Type(b.Any),
		unitT:    b.Type(b.Unit),
		nothingT: b.Type(b.Nothing),
		intT:     b.Type(b.Int),
		boolT:    b.Type(b.Boolean),
		stringT:  b.Type(b.String),
		doubleT:  b.Type(b.Double),
	}
}

func (x *builder) span() ir.Offsets {
	x.pos += 10
	return ir.Offsets{Start: x.pos, End: x.pos + 7}
}

func (x *builder) expr(t ir.Type) ir.ExprBase { return ir.ExprBase{Offsets: x.span(), Type: t} }

// receiver declares an implicit receiver parameter owned by owner.
func (x *builder) receiver(owner ir.DeclarationParent, t ir.Type) *ir.ValueParameter {
	p := ir.Declare(&ir.ValueParameter{Name: "<this>", Type: t})
	p.Origin = ir.OriginInstanceReceiver
	p.Parent = owner
	p.Offsets = x.span()
	return p
}

// local declares a variable whose parent is the enclosing body owner.
func (x *builder) local(owner ir.DeclarationParent, name string, t ir.Type, init ir.Expression) *ir.Variable {
	v := ir.Declare(&ir.Variable{Name: name, Type: t, Initializer: init})
	v.Parent = owner
	v.Offsets = x.span()
	return v
}

func (x *builder) param(fn *ir.FunctionBase, owner ir.DeclarationParent, name string, t ir.Type) *ir.ValueParameter {
	p := fn.AddParameter(owner, name, t)
	p.Offsets = x.span()
	return p
}

func (x *builder) get(v ir.Declaration, t ir.Type) *ir.GetValue {
	return &ir.GetValue{ExprBase: x.expr(t), Symbol: v.Symbol()}
}

func (x *builder) ret(target ir.Declaration, value ir.Expression) *ir.Return {
	return &ir.Return{ExprBase: x.expr(x.nothingT), Target: target.Symbol(), Value: value}
}

func (x *builder) body(stmts ...ir.Statement) *ir.BlockBody {
	return &ir.BlockBody{Offsets: x.span(), Statements: stmts}
}

func (x *builder) int(v int64) *ir.Const {
	return &ir.Const{ExprBase: x.expr(x.intT), ConstKind: ir.ConstInt, Int: v}
}

func (x *builder) bool(v bool) *ir.Const {
	return &ir.Const{ExprBase: x.expr(x.boolT), ConstKind: ir.ConstBoolean, Bool: v}
}

func (x *builder) str(v string) *ir.Const {
	return &ir.Const{ExprBase: x.expr(x.stringT), ConstKind: ir.ConstString, String: v}
}

func (x *builder) null() *ir.Const {
	return &ir.Const{ExprBase: x.expr(ir.Nullable(x.b.Type(x.b.Nothing))), ConstKind: ir.ConstNull}
}

func (x *builder) function(name string, ret ir.Type) *ir.Function {
	fn := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: name, ReturnType: ret}})
	fn.Offsets = x.span()
	return fn
}

func (x *builder) class(name string, kind ir.ClassKind, supers ...ir.Type) *ir.Class {
	c := ir.Declare(&ir.Class{Name: name, ClassKind: kind, SuperTypes: supers})
	c.Offsets = x.span()
	return c
}

func (x *builder) constructor(owner *ir.Class) *ir.Constructor {
	c := ir.Declare(&ir.Constructor{
		FunctionBase: ir.FunctionBase{Name: "<init>", ReturnType: ir.ClassType(owner.Symbol())},
		IsPrimary:    true,
	})
	c.Offsets = x.span()
	owner.AddDeclaration(c)
	return c
}

// Identity is the module
//
//	fun f(x: Int): Int { return x }
//
// and its function.
func Identity(b *ir.Builtins, module string) (*ir.Module, *ir.Function) {
	x := newBuilder(b)
	m := &ir.Module{Name: module}
	f := m.AddFile(&ir.File{Name: "identity.kt", Package: Package})
	fn := x.function("f", x.intT)
	f.AddDeclaration(fn)
	p := x.param(&fn.FunctionBase, fn, "x", x.intT)
	fn.Body = x.body(x.ret(fn, x.get(p, x.intT)))
	return m, fn
}
