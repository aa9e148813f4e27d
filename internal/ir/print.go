package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpOptions configures IR dumping.
type DumpOptions struct {
	// ShowIDs appends recorded identities to declarations.
	ShowIDs bool
	// SkipFakeOverrides leaves out fake-override members of classes.
	SkipFakeOverrides bool
}

// Printer writes an indented, field-complete rendering of IR trees. Two
// graphs that print the same are structurally equal.
type Printer struct {
	w      io.Writer
	opts   DumpOptions
	indent int
	loops  map[LoopExpression]int
	err    error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, opts DumpOptions) *Printer {
	return &Printer{w: w, opts: opts, loops: make(map[LoopExpression]int)}
}

// Dump writes the module to w.
func Dump(w io.Writer, m *Module, opts DumpOptions) error {
	return NewPrinter(w, opts).PrintModule(m)
}

// DumpString renders a module into a string.
func DumpString(m *Module, opts DumpOptions) string {
	var sb strings.Builder
	if err := Dump(&sb, m, opts); err != nil {
		return "<error: " + err.Error() + ">"
	}
	return sb.String()
}

// DumpDeclaration renders one declaration into a string.
func DumpDeclaration(d Declaration, opts DumpOptions) string {
	var sb strings.Builder
	p := NewPrinter(&sb, opts)
	if err := p.PrintDeclaration(d); err != nil {
		return "<error: " + err.Error() + ">"
	}
	return sb.String()
}

// PrintModule prints a module and its files.
func (p *Printer) PrintModule(m *Module) error {
	p.line("MODULE %s", m.Name)
	p.indent++
	for _, f := range m.Files {
		p.line("FILE %s package=%s", f.Name, f.Package)
		p.indent++
		for _, d := range f.Declarations {
			if err := p.PrintDeclaration(d); err != nil {
				return err
			}
		}
		p.indent--
	}
	p.indent--
	return p.err
}

// PrintDeclaration prints one declaration subtree.
func (p *Printer) PrintDeclaration(d Declaration) error {
	if d == nil {
		p.line("<nil declaration>")
		return p.err
	}
	if err := d.AcceptDeclaration(p); err != nil {
		return err
	}
	return p.err
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	var sb strings.Builder
	for i := 0; i < p.indent; i++ {
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, format, args...)
	sb.WriteByte('\n')
	_, p.err = io.WriteString(p.w, sb.String())
}

func (p *Printer) nested(label string, fn func()) {
	p.line("%s:", label)
	p.indent++
	fn()
	p.indent--
}

func (p *Printer) declHeader(kind string, d Declaration, attrs string) {
	b := d.Base()
	id := ""
	if p.opts.ShowIDs && b.UniqID.IsValid() {
		id = " id=" + b.UniqID.String()
	}
	p.line("%s %s %s origin=%s%s%s", kind, NameOf(d), offsetsStr(b.Offsets), b.Origin, attrs, id)
	p.indent++
	for _, a := range b.Annotations {
		p.line("@annotation")
		p.indent++
		p.expr(a)
		p.indent--
	}
	p.indent--
}

func offsetsStr(o Offsets) string {
	return "[" + strconv.Itoa(o.Start) + ":" + strconv.Itoa(o.End) + "]"
}

func symStr(s *Symbol) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

func flag(name string, on bool) string {
	if on {
		return " " + name
	}
	return ""
}

// TypeString renders a type on one line.
func TypeString(t Type) string {
	if t == nil {
		return "-"
	}
	f := &typeFormatter{}
	_ = t.AcceptType(f)
	return f.sb.String()
}

type typeFormatter struct {
	sb strings.Builder
}

func (f *typeFormatter) annotations(as []*Call) {
	for _, a := range as {
		f.sb.WriteString("@")
		f.sb.WriteString(symStr(a.Symbol))
		f.sb.WriteString("(")
		f.sb.WriteString(strconv.Itoa(len(a.ValueArguments)))
		f.sb.WriteString(") ")
	}
}

func (f *typeFormatter) variance(v Variance) {
	if v != VarianceInvariant {
		f.sb.WriteString(v.String())
		f.sb.WriteString(" ")
	}
}

func (f *typeFormatter) VisitSimpleType(t *SimpleType) error {
	f.annotations(t.Annotations)
	f.variance(t.Variance)
	if t.Classifier != nil && t.Classifier.IsBound() {
		f.sb.WriteString(QualifiedName(t.Classifier.Owner()))
	} else {
		f.sb.WriteString(symStr(t.Classifier))
	}
	if len(t.Arguments) > 0 {
		f.sb.WriteString("<")
		for i, a := range t.Arguments {
			if i > 0 {
				f.sb.WriteString(", ")
			}
			_ = a.AcceptTypeArgument(f)
		}
		f.sb.WriteString(">")
	}
	if t.Nullable {
		f.sb.WriteString("?")
	}
	return nil
}

func (f *typeFormatter) VisitDynamicType(t *DynamicType) error {
	f.annotations(t.Annotations)
	f.variance(t.Variance)
	f.sb.WriteString("dynamic")
	return nil
}

func (f *typeFormatter) VisitErrorType(t *ErrorType) error {
	f.annotations(t.Annotations)
	f.variance(t.Variance)
	f.sb.WriteString("<error>")
	return nil
}

func (f *typeFormatter) VisitStarProjection(*StarProjection) error {
	f.sb.WriteString("*")
	return nil
}

func (f *typeFormatter) VisitTypeProjection(a *TypeProjection) error {
	f.variance(a.Variance)
	if a.Type != nil {
		_ = a.Type.AcceptType(f)
	}
	return nil
}

func typesStr(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = TypeString(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// declarations

func (p *Printer) typeParams(tps []*TypeParameter) {
	for _, tp := range tps {
		_ = p.VisitTypeParameter(tp)
	}
}

func (p *Printer) param(label string, vp *ValueParameter) {
	if vp == nil {
		return
	}
	p.nested(label, func() { _ = p.VisitValueParameter(vp) })
}

func (p *Printer) VisitClass(c *Class) error {
	p.declHeader("CLASS", c, fmt.Sprintf(" kind=%s vis=%s mod=%s%s%s%s%s supers=%s",
		c.ClassKind, c.Visibility, c.Modality,
		flag("companion", c.IsCompanion), flag("inner", c.IsInner),
		flag("data", c.IsData), flag("external", c.IsExternal), typesStr(c.SuperTypes)))
	p.indent++
	p.typeParams(c.TypeParameters)
	p.param("this", c.ThisReceiver)
	for _, d := range c.Declarations {
		if p.opts.SkipFakeOverrides && d.Base().IsFakeOverride() {
			continue
		}
		_ = d.AcceptDeclaration(p)
	}
	p.indent--
	return nil
}

func (p *Printer) functionBase(fb *FunctionBase) {
	p.typeParams(fb.TypeParameters)
	p.param("dispatch", fb.DispatchReceiver)
	p.param("extension", fb.ExtensionReceiver)
	for _, vp := range fb.ValueParameters {
		_ = p.VisitValueParameter(vp)
	}
	if fb.Body != nil {
		p.statement(fb.Body)
	}
}

func (p *Printer) VisitFunction(fn *Function) error {
	overridden := make([]string, len(fn.Overridden))
	for i, s := range fn.Overridden {
		overridden[i] = symStr(s)
	}
	p.declHeader("FUN", fn, fmt.Sprintf(" vis=%s mod=%s%s%s%s%s returns=%s overrides=[%s] property=%s",
		fn.Visibility, fn.Modality,
		flag("inline", fn.IsInline), flag("external", fn.IsExternal),
		flag("tailrec", fn.IsTailrec), flag("suspend", fn.IsSuspend),
		TypeString(fn.ReturnType), strings.Join(overridden, ", "), symStr(fn.CorrespondingProperty)))
	p.indent++
	p.functionBase(&fn.FunctionBase)
	p.indent--
	return nil
}

func (p *Printer) VisitConstructor(c *Constructor) error {
	p.declHeader("CONSTRUCTOR", c, fmt.Sprintf(" vis=%s%s%s%s returns=%s",
		c.Visibility, flag("primary", c.IsPrimary), flag("inline", c.IsInline),
		flag("external", c.IsExternal), TypeString(c.ReturnType)))
	p.indent++
	p.functionBase(&c.FunctionBase)
	p.indent--
	return nil
}

func (p *Printer) VisitProperty(prop *Property) error {
	p.declHeader("PROPERTY", prop, fmt.Sprintf(" vis=%s mod=%s%s%s%s%s%s",
		prop.Visibility, prop.Modality,
		flag("var", prop.IsVar), flag("const", prop.IsConst), flag("lateinit", prop.IsLateinit),
		flag("delegated", prop.IsDelegated), flag("external", prop.IsExternal)))
	p.indent++
	if prop.BackingField != nil {
		_ = p.VisitField(prop.BackingField)
	}
	if prop.Getter != nil {
		p.nested("getter", func() { _ = p.VisitFunction(prop.Getter) })
	}
	if prop.Setter != nil {
		p.nested("setter", func() { _ = p.VisitFunction(prop.Setter) })
	}
	p.indent--
	return nil
}

func (p *Printer) VisitField(f *Field) error {
	p.declHeader("FIELD", f, fmt.Sprintf(" vis=%s type=%s%s%s%s",
		f.Visibility, TypeString(f.Type),
		flag("final", f.IsFinal), flag("external", f.IsExternal), flag("static", f.IsStatic)))
	p.optExpr("init", f.Initializer)
	return nil
}

func (p *Printer) VisitVariable(v *Variable) error {
	p.declHeader("VAR", v, fmt.Sprintf(" type=%s%s%s%s",
		TypeString(v.Type), flag("var", v.IsVar), flag("const", v.IsConst), flag("lateinit", v.IsLateinit)))
	p.optExpr("init", v.Initializer)
	return nil
}

func (p *Printer) VisitEnumEntry(e *EnumEntry) error {
	p.declHeader("ENUM_ENTRY", e, "")
	p.optExpr("init", e.Initializer)
	if e.CorrespondingClass != nil {
		p.indent++
		p.nested("class", func() { _ = p.VisitClass(e.CorrespondingClass) })
		p.indent--
	}
	return nil
}

func (p *Printer) VisitAnonymousInitializer(a *AnonymousInitializer) error {
	p.declHeader("ANONYMOUS_INITIALIZER", a, "")
	if a.Body != nil {
		p.indent++
		_ = p.VisitBlockBody(a.Body)
		p.indent--
	}
	return nil
}

func (p *Printer) VisitTypeAlias(ta *TypeAlias) error {
	p.declHeader("TYPEALIAS", ta, fmt.Sprintf(" vis=%s expanded=%s", ta.Visibility, TypeString(ta.Expanded)))
	p.indent++
	p.typeParams(ta.TypeParameters)
	p.indent--
	return nil
}

func (p *Printer) VisitValueParameter(vp *ValueParameter) error {
	p.declHeader("VALUE_PARAMETER", vp, fmt.Sprintf(" index=%d type=%s vararg=%s%s%s",
		vp.Index, TypeString(vp.Type), TypeString(vp.VarargElementType),
		flag("crossinline", vp.IsCrossinline), flag("noinline", vp.IsNoinline)))
	p.optExpr("default", vp.DefaultValue)
	return nil
}

func (p *Printer) VisitTypeParameter(tp *TypeParameter) error {
	p.declHeader("TYPE_PARAMETER", tp, fmt.Sprintf(" index=%d variance=%q supers=%s",
		tp.Index, tp.Variance.String(), typesStr(tp.SuperTypes)))
	return nil
}

// statements

func (p *Printer) statement(s Statement) {
	if s == nil {
		p.line("<nil>")
		return
	}
	if err := AcceptStatement(s, p); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Printer) statements(ss []Statement) {
	for _, s := range ss {
		p.statement(s)
	}
}

func (p *Printer) VisitDeclarationStatement(d Declaration) error { return d.AcceptDeclaration(p) }
func (p *Printer) VisitExpressionStatement(e Expression) error   { return e.AcceptExpression(p) }

func (p *Printer) VisitBlockBody(b *BlockBody) error {
	p.line("BLOCK_BODY %s", offsetsStr(b.Offsets))
	p.indent++
	p.statements(b.Statements)
	p.indent--
	return nil
}

func (p *Printer) VisitBranch(b *Branch) error {
	p.line("BRANCH %s", offsetsStr(b.Offsets))
	p.indent++
	p.optExpr("if", b.Condition)
	p.optExpr("then", b.Result)
	p.indent--
	return nil
}

func (p *Printer) VisitCatch(c *Catch) error {
	p.line("CATCH %s", offsetsStr(c.Offsets))
	p.indent++
	if c.Parameter != nil {
		_ = p.VisitVariable(c.Parameter)
	}
	p.optExpr("result", c.Result)
	p.indent--
	return nil
}

func (p *Printer) VisitSyntheticBody(b *SyntheticBody) error {
	p.line("SYNTHETIC_BODY %s %s", b.Kind, offsetsStr(b.Offsets))
	return nil
}

// expressions

func (p *Printer) expr(e Expression) {
	if e == nil {
		p.line("<nil>")
		return
	}
	if err := e.AcceptExpression(p); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Printer) optExpr(label string, e Expression) {
	if e == nil {
		return
	}
	p.indent++
	p.nested(label, func() { p.expr(e) })
	p.indent--
}

func (p *Printer) exprHeader(kind string, b *ExprBase, attrs string) {
	p.line("%s %s type=%s%s", kind, offsetsStr(b.Offsets), TypeString(b.Type), attrs)
}

func (p *Printer) memberAccess(ma *MemberAccess) {
	p.optExpr("dispatch", ma.DispatchReceiver)
	p.optExpr("extension", ma.ExtensionReceiver)
	if len(ma.TypeArguments) > 0 {
		p.indent++
		p.line("typeArgs=%s", typesStr(ma.TypeArguments))
		p.indent--
	}
	for i, a := range ma.ValueArguments {
		if a == nil {
			p.indent++
			p.line("arg%d: <omitted>", i)
			p.indent--
			continue
		}
		p.optExpr("arg"+strconv.Itoa(i), a)
	}
}

func (p *Printer) VisitBlock(e *Block) error {
	p.exprHeader("BLOCK", &e.ExprBase, flag("lambda", e.IsLambdaOrigin))
	p.indent++
	p.statements(e.Statements)
	p.indent--
	return nil
}

func (p *Printer) VisitComposite(e *Composite) error {
	p.exprHeader("COMPOSITE", &e.ExprBase, "")
	p.indent++
	p.statements(e.Statements)
	p.indent--
	return nil
}

func (p *Printer) VisitConst(e *Const) error {
	var v string
	switch e.ConstKind {
	case ConstNull:
		v = "null"
	case ConstBoolean:
		v = strconv.FormatBool(e.Bool)
	case ConstString:
		v = strconv.Quote(e.String)
	case ConstFloat, ConstDouble:
		v = strconv.FormatFloat(e.Float, 'g', -1, 64)
	default:
		v = strconv.FormatInt(e.Int, 10)
	}
	p.exprHeader("CONST", &e.ExprBase, fmt.Sprintf(" %s %s", e.ConstKind, v))
	return nil
}

func (p *Printer) VisitCall(e *Call) error {
	p.exprHeader("CALL", &e.ExprBase, fmt.Sprintf(" %s super=%s primitive=%d", symStr(e.Symbol), symStr(e.Super), e.Primitive))
	p.memberAccess(&e.MemberAccess)
	return nil
}

func (p *Printer) VisitDelegatingConstructorCall(e *DelegatingConstructorCall) error {
	p.exprHeader("DELEGATING_CONSTRUCTOR_CALL", &e.ExprBase, " "+symStr(e.Symbol))
	p.memberAccess(&e.MemberAccess)
	return nil
}

func (p *Printer) VisitEnumConstructorCall(e *EnumConstructorCall) error {
	p.exprHeader("ENUM_CONSTRUCTOR_CALL", &e.ExprBase, " "+symStr(e.Symbol))
	p.memberAccess(&e.MemberAccess)
	return nil
}

func (p *Printer) VisitInstanceInitializerCall(e *InstanceInitializerCall) error {
	p.exprHeader("INSTANCE_INITIALIZER_CALL", &e.ExprBase, " "+symStr(e.Class))
	return nil
}

func (p *Printer) VisitFunctionReference(e *FunctionReference) error {
	p.exprHeader("FUNCTION_REFERENCE", &e.ExprBase, fmt.Sprintf(" %s origin=%q typeArgs=%s",
		symStr(e.Symbol), e.Origin, typesStr(e.TypeArguments)))
	return nil
}

func (p *Printer) VisitPropertyReference(e *PropertyReference) error {
	p.exprHeader("PROPERTY_REFERENCE", &e.ExprBase, fmt.Sprintf(" field=%s getter=%s setter=%s origin=%q typeArgs=%s",
		symStr(e.Field), symStr(e.Getter), symStr(e.Setter), e.Origin, typesStr(e.TypeArguments)))
	return nil
}

func (p *Printer) VisitClassReference(e *ClassReference) error {
	p.exprHeader("CLASS_REFERENCE", &e.ExprBase, fmt.Sprintf(" %s classType=%s", symStr(e.Class), TypeString(e.ClassType)))
	return nil
}

func (p *Printer) VisitGetClass(e *GetClass) error {
	p.exprHeader("GET_CLASS", &e.ExprBase, "")
	p.optExpr("argument", e.Argument)
	return nil
}

func (p *Printer) VisitGetField(e *GetField) error {
	p.exprHeader("GET_FIELD", &e.ExprBase, fmt.Sprintf(" %s super=%s", symStr(e.Field), symStr(e.Super)))
	p.optExpr("receiver", e.Receiver)
	return nil
}

func (p *Printer) VisitSetField(e *SetField) error {
	p.exprHeader("SET_FIELD", &e.ExprBase, fmt.Sprintf(" %s super=%s", symStr(e.Field), symStr(e.Super)))
	p.optExpr("receiver", e.Receiver)
	p.optExpr("value", e.Value)
	return nil
}

func (p *Printer) VisitGetValue(e *GetValue) error {
	p.exprHeader("GET_VAR", &e.ExprBase, " "+symStr(e.Symbol))
	return nil
}

func (p *Printer) VisitSetVariable(e *SetVariable) error {
	p.exprHeader("SET_VAR", &e.ExprBase, " "+symStr(e.Symbol))
	p.optExpr("value", e.Value)
	return nil
}

func (p *Printer) VisitGetEnumValue(e *GetEnumValue) error {
	p.exprHeader("GET_ENUM", &e.ExprBase, " "+symStr(e.Symbol))
	return nil
}

func (p *Printer) VisitGetObjectValue(e *GetObjectValue) error {
	p.exprHeader("GET_OBJECT", &e.ExprBase, " "+symStr(e.Class))
	return nil
}

func (p *Printer) VisitReturn(e *Return) error {
	p.exprHeader("RETURN", &e.ExprBase, " from="+symStr(e.Target))
	p.optExpr("value", e.Value)
	return nil
}

func (p *Printer) VisitStringConcatenation(e *StringConcatenation) error {
	p.exprHeader("STRING_CONCATENATION", &e.ExprBase, "")
	p.indent++
	for _, a := range e.Arguments {
		p.expr(a)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitThrow(e *Throw) error {
	p.exprHeader("THROW", &e.ExprBase, "")
	p.optExpr("value", e.Value)
	return nil
}

func (p *Printer) VisitTry(e *Try) error {
	p.exprHeader("TRY", &e.ExprBase, "")
	p.optExpr("try", e.Result)
	p.indent++
	for _, c := range e.Catches {
		_ = p.VisitCatch(c)
	}
	p.indent--
	p.optExpr("finally", e.Finally)
	return nil
}

func (p *Printer) VisitTypeOperatorCall(e *TypeOperatorCall) error {
	p.exprHeader("TYPE_OP", &e.ExprBase, fmt.Sprintf(" %s operand=%s", e.Operator, TypeString(e.Operand)))
	p.optExpr("argument", e.Argument)
	return nil
}

func (p *Printer) VisitVararg(e *Vararg) error {
	p.exprHeader("VARARG", &e.ExprBase, " element="+TypeString(e.ElementType))
	p.indent++
	for _, el := range e.Elements {
		switch el := el.(type) {
		case *SpreadElement:
			p.line("SPREAD %s", offsetsStr(el.Offsets))
			p.indent++
			p.expr(el.Expression)
			p.indent--
		case Expression:
			p.expr(el)
		default:
			p.line("<unknown vararg element %T>", el)
		}
	}
	p.indent--
	return nil
}

func (p *Printer) VisitWhen(e *When) error {
	p.exprHeader("WHEN", &e.ExprBase, "")
	p.indent++
	for _, b := range e.Branches {
		_ = p.VisitBranch(b)
	}
	p.indent--
	return nil
}

func (p *Printer) loop(kind string, e LoopExpression) {
	n := len(p.loops) + 1
	p.loops[e] = n
	l := e.LoopPart()
	p.exprHeader(kind, e.Base(), fmt.Sprintf(" loop=%d label=%q", n, l.Label))
	p.optExpr("condition", l.Condition)
	p.optExpr("body", l.Body)
}

func (p *Printer) VisitWhileLoop(e *WhileLoop) error {
	p.loop("WHILE", e)
	return nil
}

func (p *Printer) VisitDoWhileLoop(e *DoWhileLoop) error {
	p.loop("DO_WHILE", e)
	return nil
}

func (p *Printer) loopRef(l LoopExpression) string {
	if l == nil {
		return "-"
	}
	if n, ok := p.loops[l]; ok {
		return strconv.Itoa(n)
	}
	return "?"
}

func (p *Printer) VisitBreak(e *Break) error {
	p.exprHeader("BREAK", &e.ExprBase, fmt.Sprintf(" loop=%s label=%q", p.loopRef(e.Loop), e.Label))
	return nil
}

func (p *Printer) VisitContinue(e *Continue) error {
	p.exprHeader("CONTINUE", &e.ExprBase, fmt.Sprintf(" loop=%s label=%q", p.loopRef(e.Loop), e.Label))
	return nil
}
