package irser

import (
	"irpack/internal/ir"
	"irpack/internal/wire"
)

func (s *session) declaration(w *wire.Declaration, parent ir.DeclarationParent) (ir.Declaration, error) {
	if w == nil {
		return nil, malformed("declaration", "missing declaration")
	}
	if err := s.enter("declaration"); err != nil {
		return nil, err
	}
	defer s.leave()
	v := &declDecoder{s: s, base: &w.Base, parent: parent}
	if err := w.Declarator.Dispatch(v); err != nil {
		return nil, wireError("declaration", err)
	}
	s.point(v.out.Kind().String(), ir.NameOf(v.out))
	return v.out, nil
}

// declAs decodes a declaration that must be of kind D.
func declAs[D ir.Declaration](s *session, w *wire.Declaration, parent ir.DeclarationParent) (D, error) {
	var zero D
	d, err := s.declaration(w, parent)
	if err != nil {
		return zero, err
	}
	out, ok := d.(D)
	if !ok {
		return zero, malformed("declaration", "expected %T, found %s", zero, d.Kind())
	}
	return out, nil
}

func optDeclAs[D ir.Declaration](s *session, w *wire.Declaration, parent ir.DeclarationParent) (D, error) {
	if w == nil {
		var zero D
		return zero, nil
	}
	return declAs[D](s, w, parent)
}

func declsAs[D ir.Declaration](s *session, ws []wire.Declaration, parent ir.DeclarationParent) ([]D, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]D, 0, len(ws))
	for i := range ws {
		d, err := declAs[D](s, &ws[i], parent)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type declDecoder struct {
	s      *session
	base   *wire.DeclarationBase
	parent ir.DeclarationParent
	out    ir.Declaration
}

// begin fills the shared attributes and binds the symbol before any nested
// node is decoded, so references back to d resolve.
func (v *declDecoder) begin(d ir.Declaration) error {
	b := d.Base()
	b.Offsets = offsets(v.base.Pos)
	b.Origin = ir.Origin(v.base.Origin)
	b.Parent = v.parent
	if err := v.s.defineSymbol(&v.base.Symbol, d); err != nil {
		return err
	}
	v.out = d
	ann, err := v.s.annotations(v.base.Annotations)
	if err != nil {
		return err
	}
	b.Annotations = ann
	return nil
}

// within runs fn with container as the parent of local declarations.
func (s *session) within(container ir.DeclarationParent, fn func() error) error {
	saved := s.container
	s.container = container
	defer func() { s.container = saved }()
	return fn()
}

func (v *declDecoder) VisitClass(w *wire.Class) error {
	c := &ir.Class{
		Name:        w.Name,
		ClassKind:   ir.ClassKind(w.Kind),
		Visibility:  ir.Visibility(w.Visibility),
		Modality:    ir.Modality(w.Modality),
		IsCompanion: w.IsCompanion,
		IsInner:     w.IsInner,
		IsData:      w.IsData,
		IsExternal:  w.IsExternal,
	}
	if err := v.begin(c); err != nil {
		return err
	}
	s := v.s
	var err error
	if c.TypeParameters, err = declsAs[*ir.TypeParameter](s, w.TypeParameters, c); err != nil {
		return err
	}
	if c.SuperTypes, err = s.types(w.SuperTypes); err != nil {
		return err
	}
	if c.ThisReceiver, err = optDeclAs[*ir.ValueParameter](s, w.ThisReceiver, c); err != nil {
		return err
	}
	if c.Declarations, err = declsAs[ir.Declaration](s, w.Declarations, c); err != nil {
		return err
	}
	return nil
}

// functionBase decodes the shared parts of functions and constructors;
// owner parents the parameters and the locals of the body.
func (s *session) functionBase(w *wire.FunctionBase, fb *ir.FunctionBase, owner ir.DeclarationParent) error {
	fb.Name = w.Name
	fb.Visibility = ir.Visibility(w.Visibility)
	fb.IsInline = w.IsInline
	fb.IsExternal = w.IsExternal
	var err error
	if fb.TypeParameters, err = declsAs[*ir.TypeParameter](s, w.TypeParameters, owner); err != nil {
		return err
	}
	if fb.ReturnType, err = s.optType(w.ReturnType); err != nil {
		return err
	}
	if fb.DispatchReceiver, err = optDeclAs[*ir.ValueParameter](s, w.DispatchReceiver, owner); err != nil {
		return err
	}
	if fb.ExtensionReceiver, err = optDeclAs[*ir.ValueParameter](s, w.ExtensionReceiver, owner); err != nil {
		return err
	}
	if fb.ValueParameters, err = declsAs[*ir.ValueParameter](s, w.ValueParameters, owner); err != nil {
		return err
	}
	if w.Body == nil {
		return nil
	}
	return s.within(owner, func() error {
		st, err := s.statement(w.Body)
		if err != nil {
			return err
		}
		body, ok := st.(ir.Body)
		if !ok {
			return malformed("function", "body is a %T", st)
		}
		fb.Body = body
		return nil
	})
}

func (v *declDecoder) VisitFunction(w *wire.Function) error {
	fn := &ir.Function{
		Modality:  ir.Modality(w.Modality),
		IsTailrec: w.IsTailrec,
		IsSuspend: w.IsSuspend,
	}
	fn.Name = w.Base.Name
	if err := v.begin(fn); err != nil {
		return err
	}
	s := v.s
	var err error
	if fn.CorrespondingProperty, err = s.optSymbolRef(w.CorrespondingProperty); err != nil {
		return err
	}
	if fn.CorrespondingProperty != nil && fn.CorrespondingProperty.Kind() != ir.SymbolProperty {
		return malformed("function", "corresponding property is a %s", fn.CorrespondingProperty.Kind())
	}
	for i := range w.Overridden {
		sym, err := s.symbolRef(&w.Overridden[i])
		if err != nil {
			return err
		}
		fn.Overridden = append(fn.Overridden, sym)
	}
	return s.functionBase(&w.Base, &fn.FunctionBase, fn)
}

func (v *declDecoder) VisitConstructor(w *wire.Constructor) error {
	c := &ir.Constructor{IsPrimary: w.IsPrimary}
	c.Name = w.Base.Name
	if err := v.begin(c); err != nil {
		return err
	}
	return v.s.functionBase(&w.Base, &c.FunctionBase, c)
}

func (v *declDecoder) VisitProperty(w *wire.Property) error {
	p := &ir.Property{
		Name:        w.Name,
		Visibility:  ir.Visibility(w.Visibility),
		Modality:    ir.Modality(w.Modality),
		IsVar:       w.IsVar,
		IsConst:     w.IsConst,
		IsLateinit:  w.IsLateinit,
		IsDelegated: w.IsDelegated,
		IsExternal:  w.IsExternal,
	}
	if err := v.begin(p); err != nil {
		return err
	}
	s := v.s
	var err error
	if p.BackingField, err = optDeclAs[*ir.Field](s, w.BackingField, v.parent); err != nil {
		return err
	}
	if p.Getter, err = optDeclAs[*ir.Function](s, w.Getter, v.parent); err != nil {
		return err
	}
	if p.Setter, err = optDeclAs[*ir.Function](s, w.Setter, v.parent); err != nil {
		return err
	}
	return nil
}

func (v *declDecoder) VisitField(w *wire.Field) error {
	f := &ir.Field{
		Name:       w.Name,
		Visibility: ir.Visibility(w.Visibility),
		IsFinal:    w.IsFinal,
		IsExternal: w.IsExternal,
		IsStatic:   w.IsStatic,
	}
	if err := v.begin(f); err != nil {
		return err
	}
	var err error
	if f.Type, err = v.s.optType(w.Type); err != nil {
		return err
	}
	f.Initializer, err = v.s.optExpression(w.Initializer)
	return err
}

func (v *declDecoder) VisitVariable(w *wire.Variable) error {
	x := &ir.Variable{
		Name:       w.Name,
		IsVar:      w.IsVar,
		IsConst:    w.IsConst,
		IsLateinit: w.IsLateinit,
	}
	if err := v.begin(x); err != nil {
		return err
	}
	var err error
	if x.Type, err = v.s.optType(w.Type); err != nil {
		return err
	}
	x.Initializer, err = v.s.optExpression(w.Initializer)
	return err
}

func (v *declDecoder) VisitEnumEntry(w *wire.EnumEntry) error {
	x := &ir.EnumEntry{Name: w.Name}
	if err := v.begin(x); err != nil {
		return err
	}
	var err error
	if x.Initializer, err = v.s.optExpression(w.Initializer); err != nil {
		return err
	}
	x.CorrespondingClass, err = optDeclAs[*ir.Class](v.s, w.CorrespondingClass, v.parent)
	return err
}

func (v *declDecoder) VisitAnonymousInit(w *wire.AnonymousInit) error {
	x := &ir.AnonymousInitializer{}
	if err := v.begin(x); err != nil {
		return err
	}
	return v.s.within(x, func() error {
		body, err := v.s.blockBody(&w.Body)
		x.Body = body
		return err
	})
}

func (v *declDecoder) VisitTypeAlias(w *wire.TypeAlias) error {
	x := &ir.TypeAlias{Name: w.Name, Visibility: ir.Visibility(w.Visibility)}
	if err := v.begin(x); err != nil {
		return err
	}
	var err error
	if x.TypeParameters, err = declsAs[*ir.TypeParameter](v.s, w.TypeParameters, v.parent); err != nil {
		return err
	}
	x.Expanded, err = v.s.optType(w.Expanded)
	return err
}

func (v *declDecoder) VisitValueParameter(w *wire.ValueParameter) error {
	if w.Index < 0 {
		return malformed("value parameter", "negative index %d", w.Index)
	}
	p := &ir.ValueParameter{
		Name:          w.Name,
		Index:         int(w.Index),
		IsCrossinline: w.IsCrossinline,
		IsNoinline:    w.IsNoinline,
	}
	if err := v.begin(p); err != nil {
		return err
	}
	s := v.s
	var err error
	if p.Type, err = s.optType(w.Type); err != nil {
		return err
	}
	if p.VarargElementType, err = s.optType(w.VarargElementType); err != nil {
		return err
	}
	p.DefaultValue, err = s.optExpression(w.DefaultValue)
	return err
}

func (v *declDecoder) VisitTypeParameter(w *wire.TypeParameter) error {
	if w.Index < 0 {
		return malformed("type parameter", "negative index %d", w.Index)
	}
	p := &ir.TypeParameter{Name: w.Name, Index: int(w.Index), Variance: ir.Variance(w.Variance)}
	if err := v.begin(p); err != nil {
		return err
	}
	var err error
	p.SuperTypes, err = v.s.types(w.SuperTypes)
	return err
}
