package irser

import (
	"irpack/internal/ir"
	"irpack/internal/wire"
)

type typeEncoder struct {
	e   *encoder
	out wire.Type
}

func (e *encoder) typ(t ir.Type) (wire.Type, error) {
	if t == nil {
		return wire.Type{}, invalidGraph("type", "missing type")
	}
	if err := e.enter("type"); err != nil {
		return wire.Type{}, err
	}
	defer e.leave()
	v := &typeEncoder{e: e}
	if err := t.AcceptType(v); err != nil {
		return wire.Type{}, err
	}
	return v.out, nil
}

func (e *encoder) optType(t ir.Type) (*wire.Type, error) {
	if t == nil {
		return nil, nil
	}
	wt, err := e.typ(t)
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (e *encoder) types(ts []ir.Type) ([]wire.Type, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make([]wire.Type, 0, len(ts))
	for _, t := range ts {
		wt, err := e.typ(t)
		if err != nil {
			return nil, err
		}
		out = append(out, wt)
	}
	return out, nil
}

func (v *typeEncoder) VisitSimpleType(t *ir.SimpleType) error {
	classifier, err := v.e.symbolRef(t.Classifier)
	if err != nil {
		return err
	}
	var args []wire.TypeArgument
	for _, a := range t.Arguments {
		wa, err := v.e.typeArgument(a)
		if err != nil {
			return err
		}
		args = append(args, wa)
	}
	ann, err := v.e.annotations(t.Annotations)
	if err != nil {
		return err
	}
	v.out = wire.Type{Case: wire.TypeSimple, Simple: &wire.SimpleType{
		Classifier:  classifier,
		Nullable:    t.Nullable,
		Variance:    uint8(t.Variance),
		Arguments:   args,
		Annotations: ann,
	}}
	return nil
}

func (v *typeEncoder) VisitDynamicType(t *ir.DynamicType) error {
	ann, err := v.e.annotations(t.Annotations)
	if err != nil {
		return err
	}
	v.out = wire.Type{Case: wire.TypeDynamic, Dynamic: &wire.DynamicType{Variance: uint8(t.Variance), Annotations: ann}}
	return nil
}

func (v *typeEncoder) VisitErrorType(t *ir.ErrorType) error {
	ann, err := v.e.annotations(t.Annotations)
	if err != nil {
		return err
	}
	v.out = wire.Type{Case: wire.TypeError, Error: &wire.ErrorType{Variance: uint8(t.Variance), Annotations: ann}}
	return nil
}

type argEncoder struct {
	e   *encoder
	out wire.TypeArgument
}

func (e *encoder) typeArgument(a ir.TypeArgument) (wire.TypeArgument, error) {
	if a == nil {
		return wire.TypeArgument{}, invalidGraph("type argument", "missing type argument")
	}
	v := &argEncoder{e: e}
	if err := a.AcceptTypeArgument(v); err != nil {
		return wire.TypeArgument{}, err
	}
	return v.out, nil
}

func (v *argEncoder) VisitStarProjection(*ir.StarProjection) error {
	v.out = wire.TypeArgument{Case: wire.TypeArgumentStar}
	return nil
}

func (v *argEncoder) VisitTypeProjection(p *ir.TypeProjection) error {
	t, err := v.e.typ(p.Type)
	if err != nil {
		return err
	}
	v.out = wire.TypeArgument{Case: wire.TypeArgumentProjection, Projection: &wire.TypeProjection{
		Variance: uint8(p.Variance),
		Type:     t,
	}}
	return nil
}

// annotations writes annotation constructor calls.
func (e *encoder) annotations(calls []*ir.Call) ([]wire.Expression, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]wire.Expression, 0, len(calls))
	for _, c := range calls {
		if c == nil {
			return nil, invalidGraph("annotation", "nil annotation")
		}
		x, err := e.expression(c)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

type typeDecoder struct {
	s   *session
	out ir.Type
}

func (s *session) typ(w *wire.Type) (ir.Type, error) {
	if w == nil {
		return nil, malformed("type", "missing type")
	}
	if err := s.enter("type"); err != nil {
		return nil, err
	}
	defer s.leave()
	v := &typeDecoder{s: s}
	if err := w.Dispatch(v); err != nil {
		return nil, wireError("type", err)
	}
	return v.out, nil
}

func (s *session) optType(w *wire.Type) (ir.Type, error) {
	if w == nil {
		return nil, nil
	}
	return s.typ(w)
}

func (s *session) types(ws []wire.Type) ([]ir.Type, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]ir.Type, 0, len(ws))
	for i := range ws {
		t, err := s.typ(&ws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (v *typeDecoder) VisitSimpleType(w *wire.SimpleType) error {
	classifier, err := v.s.symbolRef(&w.Classifier)
	if err != nil {
		return err
	}
	if k := classifier.Kind(); k != ir.SymbolClass && k != ir.SymbolTypeParameter {
		return malformed("type", "classifier is a %s", k)
	}
	t := &ir.SimpleType{Classifier: classifier, Nullable: w.Nullable, Variance: ir.Variance(w.Variance)}
	for i := range w.Arguments {
		a, err := v.s.typeArgument(&w.Arguments[i])
		if err != nil {
			return err
		}
		t.Arguments = append(t.Arguments, a)
	}
	if t.Annotations, err = v.s.annotations(w.Annotations); err != nil {
		return err
	}
	v.out = t
	return nil
}

func (v *typeDecoder) VisitDynamicType(w *wire.DynamicType) error {
	ann, err := v.s.annotations(w.Annotations)
	if err != nil {
		return err
	}
	v.out = &ir.DynamicType{Variance: ir.Variance(w.Variance), Annotations: ann}
	return nil
}

func (v *typeDecoder) VisitErrorType(w *wire.ErrorType) error {
	ann, err := v.s.annotations(w.Annotations)
	if err != nil {
		return err
	}
	v.out = &ir.ErrorType{Variance: ir.Variance(w.Variance), Annotations: ann}
	return nil
}

type argDecoder struct {
	s   *session
	out ir.TypeArgument
}

func (s *session) typeArgument(w *wire.TypeArgument) (ir.TypeArgument, error) {
	v := &argDecoder{s: s}
	if err := w.Dispatch(v); err != nil {
		return nil, wireError("type argument", err)
	}
	return v.out, nil
}

func (v *argDecoder) VisitStar() error {
	v.out = ir.Star
	return nil
}

func (v *argDecoder) VisitProjection(w *wire.TypeProjection) error {
	t, err := v.s.typ(&w.Type)
	if err != nil {
		return err
	}
	v.out = &ir.TypeProjection{Variance: ir.Variance(w.Variance), Type: t}
	return nil
}

func (s *session) annotations(ws []wire.Expression) ([]*ir.Call, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]*ir.Call, 0, len(ws))
	for i := range ws {
		x, err := s.expression(&ws[i])
		if err != nil {
			return nil, err
		}
		call, ok := x.(*ir.Call)
		if !ok {
			return nil, malformed("annotation", "annotation is a %T, not a call", x)
		}
		out = append(out, call)
	}
	return out, nil
}
