package irser

import (
	"fortio.org/safecast"

	"irpack/internal/ir"
	"irpack/internal/wire"
)

func (e *encoder) declaration(d ir.Declaration) (*wire.Declaration, error) {
	if d == nil {
		return nil, invalidGraph("declaration", "nil declaration")
	}
	node := d.Kind().String()
	if err := e.enter(node); err != nil {
		return nil, err
	}
	defer e.leave()

	b := d.Base()
	sym, err := e.defineSymbol(d)
	if err != nil {
		return nil, err
	}
	pos, err := coordinates(b.Offsets)
	if err != nil {
		return nil, err
	}
	ann, err := e.annotations(b.Annotations)
	if err != nil {
		return nil, err
	}
	v := &declEncoder{e: e}
	if err := d.AcceptDeclaration(v); err != nil {
		return nil, err
	}
	e.point(node, ir.NameOf(d))
	return &wire.Declaration{
		Base: wire.DeclarationBase{
			Symbol:      sym,
			Pos:         pos,
			Origin:      uint8(b.Origin),
			Annotations: ann,
		},
		Declarator: v.out,
	}, nil
}

// declList writes nested declarations, leaving out fake overrides.
func declList[D ir.Declaration](e *encoder, ds []D) ([]wire.Declaration, error) {
	var out []wire.Declaration
	for _, d := range ds {
		if d.Base().IsFakeOverride() {
			continue
		}
		wd, err := e.declaration(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *wd)
	}
	return out, nil
}

func optDecl[D interface {
	ir.Declaration
	comparable
}](e *encoder, d D) (*wire.Declaration, error) {
	var zero D
	if d == zero {
		return nil, nil
	}
	return e.declaration(d)
}

type declEncoder struct {
	e   *encoder
	out wire.Declarator
}

func (v *declEncoder) VisitClass(c *ir.Class) error {
	e := v.e
	tps, err := declList(e, c.TypeParameters)
	if err != nil {
		return err
	}
	supers, err := e.types(c.SuperTypes)
	if err != nil {
		return err
	}
	this, err := optDecl(e, c.ThisReceiver)
	if err != nil {
		return err
	}
	members, err := declList(e, c.Declarations)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorClass, Class: &wire.Class{
		Name:           c.Name,
		Kind:           uint8(c.ClassKind),
		Visibility:     uint8(c.Visibility),
		Modality:       uint8(c.Modality),
		IsCompanion:    c.IsCompanion,
		IsInner:        c.IsInner,
		IsData:         c.IsData,
		IsExternal:     c.IsExternal,
		TypeParameters: tps,
		SuperTypes:     supers,
		ThisReceiver:   this,
		Declarations:   members,
	}}
	return nil
}

func (e *encoder) functionBase(fb *ir.FunctionBase) (wire.FunctionBase, error) {
	var out wire.FunctionBase
	var err error
	if out.ReturnType, err = e.optType(fb.ReturnType); err != nil {
		return out, err
	}
	if out.TypeParameters, err = declList(e, fb.TypeParameters); err != nil {
		return out, err
	}
	if out.DispatchReceiver, err = optDecl(e, fb.DispatchReceiver); err != nil {
		return out, err
	}
	if out.ExtensionReceiver, err = optDecl(e, fb.ExtensionReceiver); err != nil {
		return out, err
	}
	if out.ValueParameters, err = declList(e, fb.ValueParameters); err != nil {
		return out, err
	}
	if fb.Body != nil {
		body, err := e.statement(fb.Body)
		if err != nil {
			return out, err
		}
		out.Body = &body
	}
	out.Name = fb.Name
	out.Visibility = uint8(fb.Visibility)
	out.IsInline = fb.IsInline
	out.IsExternal = fb.IsExternal
	return out, nil
}

func (v *declEncoder) VisitFunction(fn *ir.Function) error {
	fb, err := v.e.functionBase(&fn.FunctionBase)
	if err != nil {
		return err
	}
	over, err := v.e.overridden(fn)
	if err != nil {
		return err
	}
	prop, err := v.e.optSymbolRef(fn.CorrespondingProperty)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorFunction, Function: &wire.Function{
		Base:                  fb,
		Modality:              uint8(fn.Modality),
		IsTailrec:             fn.IsTailrec,
		IsSuspend:             fn.IsSuspend,
		Overridden:            over,
		CorrespondingProperty: prop,
	}}
	return nil
}

func (v *declEncoder) VisitConstructor(c *ir.Constructor) error {
	fb, err := v.e.functionBase(&c.FunctionBase)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorConstructor, Constructor: &wire.Constructor{Base: fb, IsPrimary: c.IsPrimary}}
	return nil
}

func (v *declEncoder) VisitProperty(p *ir.Property) error {
	e := v.e
	field, err := optDecl(e, p.BackingField)
	if err != nil {
		return err
	}
	getter, err := optDecl(e, p.Getter)
	if err != nil {
		return err
	}
	setter, err := optDecl(e, p.Setter)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorProperty, Property: &wire.Property{
		Name:         p.Name,
		Visibility:   uint8(p.Visibility),
		Modality:     uint8(p.Modality),
		IsVar:        p.IsVar,
		IsConst:      p.IsConst,
		IsLateinit:   p.IsLateinit,
		IsDelegated:  p.IsDelegated,
		IsExternal:   p.IsExternal,
		BackingField: field,
		Getter:       getter,
		Setter:       setter,
	}}
	return nil
}

func (v *declEncoder) VisitField(f *ir.Field) error {
	t, err := v.e.optType(f.Type)
	if err != nil {
		return err
	}
	init, err := v.e.optExpression(f.Initializer)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorField, Field: &wire.Field{
		Name:        f.Name,
		Visibility:  uint8(f.Visibility),
		IsFinal:     f.IsFinal,
		IsExternal:  f.IsExternal,
		IsStatic:    f.IsStatic,
		Type:        t,
		Initializer: init,
	}}
	return nil
}

func (v *declEncoder) VisitVariable(x *ir.Variable) error {
	t, err := v.e.optType(x.Type)
	if err != nil {
		return err
	}
	init, err := v.e.optExpression(x.Initializer)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorVariable, Variable: &wire.Variable{
		Name:        x.Name,
		Type:        t,
		IsVar:       x.IsVar,
		IsConst:     x.IsConst,
		IsLateinit:  x.IsLateinit,
		Initializer: init,
	}}
	return nil
}

func (v *declEncoder) VisitEnumEntry(x *ir.EnumEntry) error {
	init, err := v.e.optExpression(x.Initializer)
	if err != nil {
		return err
	}
	cls, err := optDecl(v.e, x.CorrespondingClass)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorEnumEntry, EnumEntry: &wire.EnumEntry{
		Name:               x.Name,
		Initializer:        init,
		CorrespondingClass: cls,
	}}
	return nil
}

func (v *declEncoder) VisitAnonymousInitializer(x *ir.AnonymousInitializer) error {
	if x.Body == nil {
		return invalidGraph("anonymous initializer", "missing body")
	}
	body, err := v.e.blockBody(x.Body)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorAnonymousInit, AnonymousInit: &wire.AnonymousInit{Body: body}}
	return nil
}

func (v *declEncoder) VisitTypeAlias(x *ir.TypeAlias) error {
	tps, err := declList(v.e, x.TypeParameters)
	if err != nil {
		return err
	}
	expanded, err := v.e.optType(x.Expanded)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorTypeAlias, TypeAlias: &wire.TypeAlias{
		Name:           x.Name,
		Visibility:     uint8(x.Visibility),
		TypeParameters: tps,
		Expanded:       expanded,
	}}
	return nil
}

func (v *declEncoder) VisitValueParameter(p *ir.ValueParameter) error {
	index, err := safecast.Conv[int32](p.Index)
	if err != nil {
		return invalidGraph("value parameter", "index %d: %v", p.Index, err)
	}
	t, err := v.e.optType(p.Type)
	if err != nil {
		return err
	}
	elem, err := v.e.optType(p.VarargElementType)
	if err != nil {
		return err
	}
	def, err := v.e.optExpression(p.DefaultValue)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorValueParameter, ValueParameter: &wire.ValueParameter{
		Name:              p.Name,
		Index:             index,
		Type:              t,
		VarargElementType: elem,
		DefaultValue:      def,
		IsCrossinline:     p.IsCrossinline,
		IsNoinline:        p.IsNoinline,
	}}
	return nil
}

func (v *declEncoder) VisitTypeParameter(p *ir.TypeParameter) error {
	index, err := safecast.Conv[int32](p.Index)
	if err != nil {
		return invalidGraph("type parameter", "index %d: %v", p.Index, err)
	}
	supers, err := v.e.types(p.SuperTypes)
	if err != nil {
		return err
	}
	v.out = wire.Declarator{Case: wire.DeclaratorTypeParameter, TypeParameter: &wire.TypeParameter{
		Name:       p.Name,
		Index:      index,
		Variance:   uint8(p.Variance),
		SuperTypes: supers,
	}}
	return nil
}
