package irtest

import "irpack/internal/ir"

// Overrides is the hierarchy
//
//	open class A { open fun m() }
//	open class B : A() { override fun m() }
//	open class C : B()            // m is a fake override of B.m
//	class D : C() { override fun m() }
//	fun use(c: C) = c.m()
type Overrides struct {
	Module     *ir.Module
	A, B, C, D *ir.Class
	AM, BM     *ir.Function
	CM         *ir.Function // fake override
	DM         *ir.Function
	Use        *ir.Function
	Call       *ir.Call
}

// FakeOverrides builds the hierarchy in one file.
func FakeOverrides(b *ir.Builtins, module string) *Overrides {
	x := newBuilder(b)
	o := &Overrides{Module: &ir.Module{Name: module}}
	f := o.Module.AddFile(&ir.File{Name: "overrides.kt", Package: Package})

	class := func(name string, supers ...ir.Type) *ir.Class {
		c := x.class(name, ir.ClassKindClass, supers...)
		c.Modality = ir.ModalityOpen
		f.AddDeclaration(c)
		x.constructor(c)
		return c
	}
	member := func(owner *ir.Class, fake bool, overridden ...*ir.Function) *ir.Function {
		fn := x.function("m", x.unitT)
		fn.Modality = ir.ModalityOpen
		if fake {
			fn.Origin = ir.OriginFakeOverride
		} else {
			fn.Body = x.body()
		}
		for _, over := range overridden {
			fn.Overridden = append(fn.Overridden, over.Symbol())
		}
		owner.AddDeclaration(fn)
		return fn
	}

	o.A = class("A", x.anyT)
	o.AM = member(o.A, false)
	o.B = class("B", ir.ClassType(o.A.Symbol()))
	o.BM = member(o.B, false, o.AM)
	o.C = class("C", ir.ClassType(o.B.Symbol()))
	o.CM = member(o.C, true, o.BM)
	o.D = class("D", ir.ClassType(o.C.Symbol()))
	o.D.Modality = ir.ModalityFinal
	o.DM = member(o.D, false, o.CM)

	cT := ir.ClassType(o.C.Symbol())
	o.Use = x.function("use", x.unitT)
	f.AddDeclaration(o.Use)
	c := x.param(&o.Use.FunctionBase, o.Use, "c", cT)
	o.Call = &ir.Call{
		ExprBase:     x.expr(x.unitT),
		Symbol:       o.CM.Symbol(),
		MemberAccess: ir.MemberAccess{DispatchReceiver: x.get(c, cT)},
	}
	o.Use.Body = x.body(o.Call)
	return o
}
