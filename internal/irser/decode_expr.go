package irser

import (
	"irpack/internal/ir"
	"irpack/internal/wire"
)

func (s *session) expression(w *wire.Expression) (ir.Expression, error) {
	if w == nil {
		return nil, malformed("expression", "missing expression")
	}
	if err := s.enter("expression"); err != nil {
		return nil, err
	}
	defer s.leave()
	t, err := s.optType(w.Type)
	if err != nil {
		return nil, err
	}
	v := &exprDecoder{s: s, base: ir.ExprBase{Offsets: offsets(w.Pos), Type: t}}
	if err := w.Operation.Dispatch(v); err != nil {
		return nil, wireError("expression", err)
	}
	return v.out, nil
}

func (s *session) optExpression(w *wire.Expression) (ir.Expression, error) {
	if w == nil {
		return nil, nil
	}
	return s.expression(w)
}

func (s *session) expressions(ws []wire.Expression) ([]ir.Expression, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]ir.Expression, 0, len(ws))
	for i := range ws {
		x, err := s.expression(&ws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (s *session) statement(w *wire.Statement) (ir.Statement, error) {
	v := &stmtDecoder{s: s}
	if err := w.Dispatch(v); err != nil {
		return nil, wireError("statement", err)
	}
	return v.out, nil
}

func (s *session) statements(ws []wire.Statement) ([]ir.Statement, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]ir.Statement, 0, len(ws))
	for i := range ws {
		st, err := s.statement(&ws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *session) blockBody(w *wire.BlockBody) (*ir.BlockBody, error) {
	stmts, err := s.statements(w.Statements)
	if err != nil {
		return nil, err
	}
	return &ir.BlockBody{Offsets: offsets(w.Pos), Statements: stmts}, nil
}

func (s *session) branch(w *wire.Branch) (*ir.Branch, error) {
	cond, err := s.expression(&w.Condition)
	if err != nil {
		return nil, err
	}
	result, err := s.expression(&w.Result)
	if err != nil {
		return nil, err
	}
	return &ir.Branch{Offsets: offsets(w.Pos), Condition: cond, Result: result}, nil
}

func (s *session) catch(w *wire.Catch) (*ir.Catch, error) {
	param, err := declAs[*ir.Variable](s, &w.Parameter, s.container)
	if err != nil {
		return nil, err
	}
	result, err := s.expression(&w.Result)
	if err != nil {
		return nil, err
	}
	return &ir.Catch{Offsets: offsets(w.Pos), Parameter: param, Result: result}, nil
}

type stmtDecoder struct {
	s   *session
	out ir.Statement
}

func (v *stmtDecoder) VisitDeclaration(w *wire.Declaration) error {
	d, err := v.s.declaration(w, v.s.container)
	v.out = d
	return err
}

func (v *stmtDecoder) VisitExpression(w *wire.Expression) error {
	x, err := v.s.expression(w)
	v.out = x
	return err
}

func (v *stmtDecoder) VisitBlockBody(w *wire.BlockBody) error {
	b, err := v.s.blockBody(w)
	v.out = b
	return err
}

func (v *stmtDecoder) VisitBranch(w *wire.Branch) error {
	b, err := v.s.branch(w)
	v.out = b
	return err
}

func (v *stmtDecoder) VisitCatch(w *wire.Catch) error {
	c, err := v.s.catch(w)
	v.out = c
	return err
}

func (v *stmtDecoder) VisitSyntheticBody(w *wire.SyntheticBody) error {
	v.out = &ir.SyntheticBody{Offsets: offsets(w.Pos), Kind: ir.SyntheticBodyKind(w.Kind)}
	return nil
}

type exprDecoder struct {
	s    *session
	base ir.ExprBase
	out  ir.Expression
}

func (v *exprDecoder) VisitBlock(w *wire.Block) error {
	stmts, err := v.s.statements(w.Statements)
	if err != nil {
		return err
	}
	v.out = &ir.Block{ExprBase: v.base, Statements: stmts, IsLambdaOrigin: w.IsLambdaOrigin}
	return nil
}

func (v *exprDecoder) VisitComposite(w *wire.Composite) error {
	stmts, err := v.s.statements(w.Statements)
	if err != nil {
		return err
	}
	v.out = &ir.Composite{ExprBase: v.base, Statements: stmts}
	return nil
}

func (v *exprDecoder) VisitConst(w *wire.Const) error {
	kind := ir.ConstKind(w.Kind)
	if kind > ir.ConstDouble {
		return malformed("const", "unknown constant kind %d", w.Kind)
	}
	v.out = &ir.Const{ExprBase: v.base, ConstKind: kind, Bool: w.Bool, Int: w.Int, Float: w.Float, String: w.String}
	return nil
}

func (s *session) memberAccess(w *wire.MemberAccess) (ir.MemberAccess, error) {
	var out ir.MemberAccess
	var err error
	if out.DispatchReceiver, err = s.optExpression(w.DispatchReceiver); err != nil {
		return out, err
	}
	if out.ExtensionReceiver, err = s.optExpression(w.ExtensionReceiver); err != nil {
		return out, err
	}
	if out.TypeArguments, err = s.types(w.TypeArguments); err != nil {
		return out, err
	}
	for _, arg := range w.ValueArguments {
		x, err := s.optExpression(arg)
		if err != nil {
			return out, err
		}
		out.ValueArguments = append(out.ValueArguments, x)
	}
	return out, nil
}

// symbolOf decodes a reference that must be of the given kinds.
func (s *session) symbolOf(node string, w *wire.Symbol, kinds ...ir.SymbolKind) (*ir.Symbol, error) {
	sym, err := s.symbolRef(w)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if sym.Kind() == k {
			return sym, nil
		}
	}
	return nil, malformed(node, "unexpected %s reference", sym.Kind())
}

func (v *exprDecoder) VisitCall(w *wire.Call) error {
	s := v.s
	sym, err := s.symbolOf("call", &w.Symbol, ir.SymbolFunction, ir.SymbolConstructor)
	if err != nil {
		return err
	}
	super, err := s.optSymbolRef(w.Super)
	if err != nil {
		return err
	}
	access, err := s.memberAccess(&w.Access)
	if err != nil {
		return err
	}
	if w.Primitive > uint8(ir.PrimitiveBinary) {
		return malformed("call", "unknown primitive kind %d", w.Primitive)
	}
	v.out = &ir.Call{ExprBase: v.base, MemberAccess: access, Symbol: sym, Super: super, Primitive: ir.PrimitiveKind(w.Primitive)}
	return nil
}

func (v *exprDecoder) VisitDelegatingConstructorCall(w *wire.DelegatingConstructorCall) error {
	sym, err := v.s.symbolOf("delegating constructor call", &w.Symbol, ir.SymbolConstructor)
	if err != nil {
		return err
	}
	access, err := v.s.memberAccess(&w.Access)
	if err != nil {
		return err
	}
	v.out = &ir.DelegatingConstructorCall{ExprBase: v.base, MemberAccess: access, Symbol: sym}
	return nil
}

func (v *exprDecoder) VisitEnumConstructorCall(w *wire.EnumConstructorCall) error {
	sym, err := v.s.symbolOf("enum constructor call", &w.Symbol, ir.SymbolConstructor)
	if err != nil {
		return err
	}
	access, err := v.s.memberAccess(&w.Access)
	if err != nil {
		return err
	}
	v.out = &ir.EnumConstructorCall{ExprBase: v.base, MemberAccess: access, Symbol: sym}
	return nil
}

func (v *exprDecoder) VisitInstanceInitializerCall(w *wire.InstanceInitializerCall) error {
	cls, err := v.s.symbolOf("instance initializer call", &w.Class, ir.SymbolClass)
	if err != nil {
		return err
	}
	v.out = &ir.InstanceInitializerCall{ExprBase: v.base, Class: cls}
	return nil
}

func (v *exprDecoder) VisitFunctionReference(w *wire.FunctionReference) error {
	sym, err := v.s.symbolOf("function reference", &w.Symbol, ir.SymbolFunction, ir.SymbolConstructor)
	if err != nil {
		return err
	}
	targs, err := v.s.types(w.TypeArguments)
	if err != nil {
		return err
	}
	v.out = &ir.FunctionReference{ExprBase: v.base, Symbol: sym, TypeArguments: targs, Origin: w.Origin}
	return nil
}

func (v *exprDecoder) VisitPropertyReference(w *wire.PropertyReference) error {
	s := v.s
	field, err := s.optSymbolRef(w.Field)
	if err != nil {
		return err
	}
	getter, err := s.optSymbolRef(w.Getter)
	if err != nil {
		return err
	}
	setter, err := s.optSymbolRef(w.Setter)
	if err != nil {
		return err
	}
	targs, err := s.types(w.TypeArguments)
	if err != nil {
		return err
	}
	v.out = &ir.PropertyReference{
		ExprBase:      v.base,
		Field:         field,
		Getter:        getter,
		Setter:        setter,
		TypeArguments: targs,
		Origin:        w.Origin,
	}
	return nil
}

func (v *exprDecoder) VisitClassReference(w *wire.ClassReference) error {
	cls, err := v.s.symbolOf("class reference", &w.Class, ir.SymbolClass, ir.SymbolTypeParameter)
	if err != nil {
		return err
	}
	t, err := v.s.optType(w.ClassType)
	if err != nil {
		return err
	}
	v.out = &ir.ClassReference{ExprBase: v.base, Class: cls, ClassType: t}
	return nil
}

func (v *exprDecoder) VisitGetClass(w *wire.GetClass) error {
	arg, err := v.s.expression(&w.Argument)
	if err != nil {
		return err
	}
	v.out = &ir.GetClass{ExprBase: v.base, Argument: arg}
	return nil
}

func (s *session) fieldAccess(w *wire.FieldAccess) (ir.FieldAccess, error) {
	field, err := s.symbolOf("field access", &w.Field, ir.SymbolField)
	if err != nil {
		return ir.FieldAccess{}, err
	}
	super, err := s.optSymbolRef(w.Super)
	if err != nil {
		return ir.FieldAccess{}, err
	}
	recv, err := s.optExpression(w.Receiver)
	if err != nil {
		return ir.FieldAccess{}, err
	}
	return ir.FieldAccess{Field: field, Super: super, Receiver: recv}, nil
}

func (v *exprDecoder) VisitGetField(w *wire.GetField) error {
	access, err := v.s.fieldAccess(&w.Access)
	if err != nil {
		return err
	}
	v.out = &ir.GetField{ExprBase: v.base, FieldAccess: access}
	return nil
}

func (v *exprDecoder) VisitSetField(w *wire.SetField) error {
	access, err := v.s.fieldAccess(&w.Access)
	if err != nil {
		return err
	}
	value, err := v.s.expression(&w.Value)
	if err != nil {
		return err
	}
	v.out = &ir.SetField{ExprBase: v.base, FieldAccess: access, Value: value}
	return nil
}

func (v *exprDecoder) VisitGetValue(w *wire.GetValue) error {
	sym, err := v.s.symbolOf("get value", &w.Symbol, ir.SymbolVariable, ir.SymbolValueParameter)
	if err != nil {
		return err
	}
	v.out = &ir.GetValue{ExprBase: v.base, Symbol: sym}
	return nil
}

func (v *exprDecoder) VisitSetVariable(w *wire.SetVariable) error {
	sym, err := v.s.symbolOf("set variable", &w.Symbol, ir.SymbolVariable)
	if err != nil {
		return err
	}
	value, err := v.s.expression(&w.Value)
	if err != nil {
		return err
	}
	v.out = &ir.SetVariable{ExprBase: v.base, Symbol: sym, Value: value}
	return nil
}

func (v *exprDecoder) VisitGetEnumValue(w *wire.GetEnumValue) error {
	sym, err := v.s.symbolOf("get enum value", &w.Symbol, ir.SymbolEnumEntry)
	if err != nil {
		return err
	}
	v.out = &ir.GetEnumValue{ExprBase: v.base, Symbol: sym}
	return nil
}

func (v *exprDecoder) VisitGetObjectValue(w *wire.GetObjectValue) error {
	cls, err := v.s.symbolOf("get object value", &w.Class, ir.SymbolClass)
	if err != nil {
		return err
	}
	v.out = &ir.GetObjectValue{ExprBase: v.base, Class: cls}
	return nil
}

func (v *exprDecoder) VisitReturn(w *wire.Return) error {
	target, err := v.s.symbolOf("return", &w.Target, ir.SymbolFunction, ir.SymbolConstructor)
	if err != nil {
		return err
	}
	value, err := v.s.expression(&w.Value)
	if err != nil {
		return err
	}
	v.out = &ir.Return{ExprBase: v.base, Target: target, Value: value}
	return nil
}

func (v *exprDecoder) VisitStringConcatenation(w *wire.StringConcatenation) error {
	args, err := v.s.expressions(w.Arguments)
	if err != nil {
		return err
	}
	v.out = &ir.StringConcatenation{ExprBase: v.base, Arguments: args}
	return nil
}

func (v *exprDecoder) VisitThrow(w *wire.Throw) error {
	value, err := v.s.expression(&w.Value)
	if err != nil {
		return err
	}
	v.out = &ir.Throw{ExprBase: v.base, Value: value}
	return nil
}

func (v *exprDecoder) VisitTry(w *wire.Try) error {
	s := v.s
	result, err := s.expression(&w.Result)
	if err != nil {
		return err
	}
	x := &ir.Try{ExprBase: v.base, Result: result}
	for i := range w.Catches {
		c, err := s.catch(&w.Catches[i])
		if err != nil {
			return err
		}
		x.Catches = append(x.Catches, c)
	}
	if x.Finally, err = s.optExpression(w.Finally); err != nil {
		return err
	}
	v.out = x
	return nil
}

func (v *exprDecoder) VisitTypeOp(w *wire.TypeOp) error {
	op := ir.TypeOperator(w.Operator)
	if op > ir.OpNotInstanceOf {
		return malformed("type operator", "unknown operator %d", w.Operator)
	}
	operand, err := v.s.typ(&w.Operand)
	if err != nil {
		return err
	}
	arg, err := v.s.expression(&w.Argument)
	if err != nil {
		return err
	}
	v.out = &ir.TypeOperatorCall{ExprBase: v.base, Operator: op, Operand: operand, Argument: arg}
	return nil
}

type varargDecoder struct {
	s   *session
	out ir.VarargElement
}

func (v *varargDecoder) VisitVarargExpression(w *wire.Expression) error {
	x, err := v.s.expression(w)
	v.out = x
	return err
}

func (v *varargDecoder) VisitSpreadElement(w *wire.SpreadElement) error {
	x, err := v.s.expression(&w.Expression)
	if err != nil {
		return err
	}
	v.out = &ir.SpreadElement{Offsets: offsets(w.Pos), Expression: x}
	return nil
}

func (v *exprDecoder) VisitVararg(w *wire.Vararg) error {
	elemType, err := v.s.typ(&w.ElementType)
	if err != nil {
		return err
	}
	x := &ir.Vararg{ExprBase: v.base, ElementType: elemType}
	for i := range w.Elements {
		ev := &varargDecoder{s: v.s}
		if err := w.Elements[i].Dispatch(ev); err != nil {
			return wireError("vararg element", err)
		}
		x.Elements = append(x.Elements, ev.out)
	}
	v.out = x
	return nil
}

func (v *exprDecoder) VisitWhen(w *wire.When) error {
	x := &ir.When{ExprBase: v.base}
	for i := range w.Branches {
		b, err := v.s.branch(&w.Branches[i])
		if err != nil {
			return err
		}
		x.Branches = append(x.Branches, b)
	}
	v.out = x
	return nil
}

// loop registers l under its identity before the condition and body are
// decoded, then fills them in.
func (s *session) loop(w *wire.Loop, l ir.LoopExpression) error {
	if err := s.loops.Register(w.ID, l); err != nil {
		return malformed("loop", "%v", err)
	}
	part := l.LoopPart()
	part.Label = w.Label
	var err error
	if part.Condition, err = s.expression(&w.Condition); err != nil {
		return err
	}
	part.Body, err = s.optExpression(w.Body)
	return err
}

func (v *exprDecoder) VisitWhileLoop(w *wire.WhileLoop) error {
	x := &ir.WhileLoop{ExprBase: v.base}
	if err := v.s.loop(&w.Loop, x); err != nil {
		return err
	}
	v.out = x
	return nil
}

func (v *exprDecoder) VisitDoWhileLoop(w *wire.DoWhileLoop) error {
	x := &ir.DoWhileLoop{ExprBase: v.base}
	if err := v.s.loop(&w.Loop, x); err != nil {
		return err
	}
	v.out = x
	return nil
}

func (s *session) loopOf(node string, id int32) (ir.LoopExpression, error) {
	l, ok := s.loops.Lookup(id)
	if !ok {
		return nil, malformed(node, "loop %d is not an enclosing loop", id)
	}
	return l, nil
}

func (v *exprDecoder) VisitBreak(w *wire.Break) error {
	l, err := v.s.loopOf("break", w.LoopID)
	if err != nil {
		return err
	}
	v.out = &ir.Break{ExprBase: v.base, Loop: l, Label: w.Label}
	return nil
}

func (v *exprDecoder) VisitContinue(w *wire.Continue) error {
	l, err := v.s.loopOf("continue", w.LoopID)
	if err != nil {
		return err
	}
	v.out = &ir.Continue{ExprBase: v.base, Loop: l, Label: w.Label}
	return nil
}
