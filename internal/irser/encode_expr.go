package irser

import (
	"irpack/internal/ir"
	"irpack/internal/wire"
)

func (e *encoder) expression(x ir.Expression) (wire.Expression, error) {
	if x == nil {
		return wire.Expression{}, invalidGraph("expression", "missing expression")
	}
	if err := e.enter("expression"); err != nil {
		return wire.Expression{}, err
	}
	defer e.leave()

	b := x.Base()
	pos, err := coordinates(b.Offsets)
	if err != nil {
		return wire.Expression{}, err
	}
	t, err := e.optType(b.Type)
	if err != nil {
		return wire.Expression{}, err
	}
	v := &exprEncoder{e: e}
	if err := x.AcceptExpression(v); err != nil {
		return wire.Expression{}, err
	}
	return wire.Expression{Pos: pos, Type: t, Operation: v.out}, nil
}

func (e *encoder) optExpression(x ir.Expression) (*wire.Expression, error) {
	if x == nil {
		return nil, nil
	}
	wx, err := e.expression(x)
	if err != nil {
		return nil, err
	}
	return &wx, nil
}

func (e *encoder) expressions(xs []ir.Expression) ([]wire.Expression, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	out := make([]wire.Expression, 0, len(xs))
	for _, x := range xs {
		wx, err := e.expression(x)
		if err != nil {
			return nil, err
		}
		out = append(out, wx)
	}
	return out, nil
}

func (e *encoder) statement(s ir.Statement) (wire.Statement, error) {
	if s == nil {
		return wire.Statement{}, invalidGraph("statement", "missing statement")
	}
	v := &stmtEncoder{e: e}
	if err := ir.AcceptStatement(s, v); err != nil {
		return wire.Statement{}, err
	}
	return v.out, nil
}

func (e *encoder) statements(ss []ir.Statement) ([]wire.Statement, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]wire.Statement, 0, len(ss))
	for _, s := range ss {
		ws, err := e.statement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

func (e *encoder) blockBody(b *ir.BlockBody) (wire.BlockBody, error) {
	pos, err := coordinates(b.Offsets)
	if err != nil {
		return wire.BlockBody{}, err
	}
	stmts, err := e.statements(b.Statements)
	if err != nil {
		return wire.BlockBody{}, err
	}
	return wire.BlockBody{Pos: pos, Statements: stmts}, nil
}

func (e *encoder) branch(b *ir.Branch) (wire.Branch, error) {
	if b == nil {
		return wire.Branch{}, invalidGraph("branch", "nil branch")
	}
	pos, err := coordinates(b.Offsets)
	if err != nil {
		return wire.Branch{}, err
	}
	cond, err := e.expression(b.Condition)
	if err != nil {
		return wire.Branch{}, err
	}
	result, err := e.expression(b.Result)
	if err != nil {
		return wire.Branch{}, err
	}
	return wire.Branch{Pos: pos, Condition: cond, Result: result}, nil
}

func (e *encoder) catch(c *ir.Catch) (wire.Catch, error) {
	if c == nil || c.Parameter == nil {
		return wire.Catch{}, invalidGraph("catch", "catch without parameter")
	}
	pos, err := coordinates(c.Offsets)
	if err != nil {
		return wire.Catch{}, err
	}
	param, err := e.declaration(c.Parameter)
	if err != nil {
		return wire.Catch{}, err
	}
	result, err := e.expression(c.Result)
	if err != nil {
		return wire.Catch{}, err
	}
	return wire.Catch{Pos: pos, Parameter: *param, Result: result}, nil
}

type stmtEncoder struct {
	e   *encoder
	out wire.Statement
}

func (v *stmtEncoder) VisitDeclarationStatement(d ir.Declaration) error {
	wd, err := v.e.declaration(d)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementDeclaration, Declaration: wd}
	return nil
}

func (v *stmtEncoder) VisitExpressionStatement(x ir.Expression) error {
	wx, err := v.e.expression(x)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementExpression, Expression: &wx}
	return nil
}

func (v *stmtEncoder) VisitBlockBody(b *ir.BlockBody) error {
	wb, err := v.e.blockBody(b)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementBlockBody, BlockBody: &wb}
	return nil
}

func (v *stmtEncoder) VisitBranch(b *ir.Branch) error {
	wb, err := v.e.branch(b)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementBranch, Branch: &wb}
	return nil
}

func (v *stmtEncoder) VisitCatch(c *ir.Catch) error {
	wc, err := v.e.catch(c)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementCatch, Catch: &wc}
	return nil
}

func (v *stmtEncoder) VisitSyntheticBody(b *ir.SyntheticBody) error {
	pos, err := coordinates(b.Offsets)
	if err != nil {
		return err
	}
	v.out = wire.Statement{Case: wire.StatementSyntheticBody, SyntheticBody: &wire.SyntheticBody{Pos: pos, Kind: uint8(b.Kind)}}
	return nil
}

type exprEncoder struct {
	e   *encoder
	out wire.Operation
}

func (v *exprEncoder) VisitBlock(x *ir.Block) error {
	stmts, err := v.e.statements(x.Statements)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationBlock, Block: &wire.Block{Statements: stmts, IsLambdaOrigin: x.IsLambdaOrigin}}
	return nil
}

func (v *exprEncoder) VisitComposite(x *ir.Composite) error {
	stmts, err := v.e.statements(x.Statements)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationComposite, Composite: &wire.Composite{Statements: stmts}}
	return nil
}

func (v *exprEncoder) VisitConst(x *ir.Const) error {
	v.out = wire.Operation{Case: wire.OperationConst, Const: &wire.Const{
		Kind:   uint8(x.ConstKind),
		Bool:   x.Bool,
		Int:    x.Int,
		Float:  x.Float,
		String: x.String,
	}}
	return nil
}

func (e *encoder) memberAccess(a *ir.MemberAccess) (wire.MemberAccess, error) {
	var out wire.MemberAccess
	var err error
	if out.DispatchReceiver, err = e.optExpression(a.DispatchReceiver); err != nil {
		return out, err
	}
	if out.ExtensionReceiver, err = e.optExpression(a.ExtensionReceiver); err != nil {
		return out, err
	}
	if out.TypeArguments, err = e.types(a.TypeArguments); err != nil {
		return out, err
	}
	for _, arg := range a.ValueArguments {
		wa, err := e.optExpression(arg)
		if err != nil {
			return out, err
		}
		out.ValueArguments = append(out.ValueArguments, wa)
	}
	return out, nil
}

func (v *exprEncoder) VisitCall(x *ir.Call) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	super, err := v.e.optSymbolRef(x.Super)
	if err != nil {
		return err
	}
	access, err := v.e.memberAccess(&x.MemberAccess)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationCall, Call: &wire.Call{
		Symbol:    sym,
		Super:     super,
		Primitive: uint8(x.Primitive),
		Access:    access,
	}}
	return nil
}

func (v *exprEncoder) VisitDelegatingConstructorCall(x *ir.DelegatingConstructorCall) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	access, err := v.e.memberAccess(&x.MemberAccess)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationDelegatingConstructorCall,
		DelegatingConstructorCall: &wire.DelegatingConstructorCall{Symbol: sym, Access: access}}
	return nil
}

func (v *exprEncoder) VisitEnumConstructorCall(x *ir.EnumConstructorCall) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	access, err := v.e.memberAccess(&x.MemberAccess)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationEnumConstructorCall,
		EnumConstructorCall: &wire.EnumConstructorCall{Symbol: sym, Access: access}}
	return nil
}

func (v *exprEncoder) VisitInstanceInitializerCall(x *ir.InstanceInitializerCall) error {
	cls, err := v.e.symbolRef(x.Class)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationInstanceInitializerCall,
		InstanceInitializerCall: &wire.InstanceInitializerCall{Class: cls}}
	return nil
}

func (v *exprEncoder) VisitFunctionReference(x *ir.FunctionReference) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	targs, err := v.e.types(x.TypeArguments)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationFunctionReference, FunctionReference: &wire.FunctionReference{
		Symbol:        sym,
		TypeArguments: targs,
		Origin:        x.Origin,
	}}
	return nil
}

func (v *exprEncoder) VisitPropertyReference(x *ir.PropertyReference) error {
	e := v.e
	field, err := e.optSymbolRef(x.Field)
	if err != nil {
		return err
	}
	getter, err := e.optSymbolRef(x.Getter)
	if err != nil {
		return err
	}
	setter, err := e.optSymbolRef(x.Setter)
	if err != nil {
		return err
	}
	targs, err := e.types(x.TypeArguments)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationPropertyReference, PropertyReference: &wire.PropertyReference{
		Field:         field,
		Getter:        getter,
		Setter:        setter,
		TypeArguments: targs,
		Origin:        x.Origin,
	}}
	return nil
}

func (v *exprEncoder) VisitClassReference(x *ir.ClassReference) error {
	cls, err := v.e.symbolRef(x.Class)
	if err != nil {
		return err
	}
	t, err := v.e.optType(x.ClassType)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationClassReference, ClassReference: &wire.ClassReference{Class: cls, ClassType: t}}
	return nil
}

func (v *exprEncoder) VisitGetClass(x *ir.GetClass) error {
	arg, err := v.e.expression(x.Argument)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationGetClass, GetClass: &wire.GetClass{Argument: arg}}
	return nil
}

func (e *encoder) fieldAccess(a *ir.FieldAccess) (wire.FieldAccess, error) {
	field, err := e.symbolRef(a.Field)
	if err != nil {
		return wire.FieldAccess{}, err
	}
	super, err := e.optSymbolRef(a.Super)
	if err != nil {
		return wire.FieldAccess{}, err
	}
	recv, err := e.optExpression(a.Receiver)
	if err != nil {
		return wire.FieldAccess{}, err
	}
	return wire.FieldAccess{Field: field, Super: super, Receiver: recv}, nil
}

func (v *exprEncoder) VisitGetField(x *ir.GetField) error {
	access, err := v.e.fieldAccess(&x.FieldAccess)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationGetField, GetField: &wire.GetField{Access: access}}
	return nil
}

func (v *exprEncoder) VisitSetField(x *ir.SetField) error {
	access, err := v.e.fieldAccess(&x.FieldAccess)
	if err != nil {
		return err
	}
	value, err := v.e.expression(x.Value)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationSetField, SetField: &wire.SetField{Access: access, Value: value}}
	return nil
}

func (v *exprEncoder) VisitGetValue(x *ir.GetValue) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationGetValue, GetValue: &wire.GetValue{Symbol: sym}}
	return nil
}

func (v *exprEncoder) VisitSetVariable(x *ir.SetVariable) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	value, err := v.e.expression(x.Value)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationSetVariable, SetVariable: &wire.SetVariable{Symbol: sym, Value: value}}
	return nil
}

func (v *exprEncoder) VisitGetEnumValue(x *ir.GetEnumValue) error {
	sym, err := v.e.symbolRef(x.Symbol)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationGetEnumValue, GetEnumValue: &wire.GetEnumValue{Symbol: sym}}
	return nil
}

func (v *exprEncoder) VisitGetObjectValue(x *ir.GetObjectValue) error {
	cls, err := v.e.symbolRef(x.Class)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationGetObjectValue, GetObjectValue: &wire.GetObjectValue{Class: cls}}
	return nil
}

func (v *exprEncoder) VisitReturn(x *ir.Return) error {
	target, err := v.e.symbolRef(x.Target)
	if err != nil {
		return err
	}
	value, err := v.e.expression(x.Value)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationReturn, Return: &wire.Return{Target: target, Value: value}}
	return nil
}

func (v *exprEncoder) VisitStringConcatenation(x *ir.StringConcatenation) error {
	args, err := v.e.expressions(x.Arguments)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationStringConcatenation, StringConcatenation: &wire.StringConcatenation{Arguments: args}}
	return nil
}

func (v *exprEncoder) VisitThrow(x *ir.Throw) error {
	value, err := v.e.expression(x.Value)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationThrow, Throw: &wire.Throw{Value: value}}
	return nil
}

func (v *exprEncoder) VisitTry(x *ir.Try) error {
	result, err := v.e.expression(x.Result)
	if err != nil {
		return err
	}
	var catches []wire.Catch
	for _, c := range x.Catches {
		wc, err := v.e.catch(c)
		if err != nil {
			return err
		}
		catches = append(catches, wc)
	}
	finally, err := v.e.optExpression(x.Finally)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationTry, Try: &wire.Try{Result: result, Catches: catches, Finally: finally}}
	return nil
}

func (v *exprEncoder) VisitTypeOperatorCall(x *ir.TypeOperatorCall) error {
	operand, err := v.e.typ(x.Operand)
	if err != nil {
		return err
	}
	arg, err := v.e.expression(x.Argument)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationTypeOp, TypeOp: &wire.TypeOp{
		Operator: uint8(x.Operator),
		Operand:  operand,
		Argument: arg,
	}}
	return nil
}

func (v *exprEncoder) VisitVararg(x *ir.Vararg) error {
	elemType, err := v.e.typ(x.ElementType)
	if err != nil {
		return err
	}
	var elems []wire.VarargElement
	for _, el := range x.Elements {
		switch el := el.(type) {
		case ir.Expression:
			wx, err := v.e.expression(el)
			if err != nil {
				return err
			}
			elems = append(elems, wire.VarargElement{Case: wire.VarargElementExpression, Expression: &wx})
		case *ir.SpreadElement:
			pos, err := coordinates(el.Offsets)
			if err != nil {
				return err
			}
			wx, err := v.e.expression(el.Expression)
			if err != nil {
				return err
			}
			elems = append(elems, wire.VarargElement{Case: wire.VarargElementSpread,
				Spread: &wire.SpreadElement{Pos: pos, Expression: wx}})
		default:
			return unsupported("vararg element", el)
		}
	}
	v.out = wire.Operation{Case: wire.OperationVararg, Vararg: &wire.Vararg{ElementType: elemType, Elements: elems}}
	return nil
}

func (v *exprEncoder) VisitWhen(x *ir.When) error {
	var branches []wire.Branch
	for _, b := range x.Branches {
		wb, err := v.e.branch(b)
		if err != nil {
			return err
		}
		branches = append(branches, wb)
	}
	v.out = wire.Operation{Case: wire.OperationWhen, When: &wire.When{Branches: branches}}
	return nil
}

// loop writes the shared loop parts. The identity is taken before the
// condition and body so breaks inside them can name it.
func (e *encoder) loop(l ir.LoopExpression) (wire.Loop, error) {
	id := e.loops.Enter(l)
	part := l.LoopPart()
	cond, err := e.expression(part.Condition)
	if err != nil {
		return wire.Loop{}, err
	}
	body, err := e.optExpression(part.Body)
	if err != nil {
		return wire.Loop{}, err
	}
	return wire.Loop{ID: id, Label: part.Label, Condition: cond, Body: body}, nil
}

func (v *exprEncoder) VisitWhileLoop(x *ir.WhileLoop) error {
	l, err := v.e.loop(x)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationWhileLoop, WhileLoop: &wire.WhileLoop{Loop: l}}
	return nil
}

func (v *exprEncoder) VisitDoWhileLoop(x *ir.DoWhileLoop) error {
	l, err := v.e.loop(x)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationDoWhileLoop, DoWhileLoop: &wire.DoWhileLoop{Loop: l}}
	return nil
}

func (e *encoder) loopID(node string, l ir.LoopExpression) (int32, error) {
	if l == nil {
		return 0, invalidGraph(node, "no target loop")
	}
	id, ok := e.loops.IDOf(l)
	if !ok {
		return 0, invalidGraph(node, "target loop was never entered")
	}
	return id, nil
}

func (v *exprEncoder) VisitBreak(x *ir.Break) error {
	id, err := v.e.loopID("break", x.Loop)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationBreak, Break: &wire.Break{LoopID: id, Label: x.Label}}
	return nil
}

func (v *exprEncoder) VisitContinue(x *ir.Continue) error {
	id, err := v.e.loopID("continue", x.Loop)
	if err != nil {
		return err
	}
	v.out = wire.Operation{Case: wire.OperationContinue, Continue: &wire.Continue{LoopID: id, Label: x.Label}}
	return nil
}
