package ir

// Type is the resolved type of an expression or declaration.
type Type interface {
	TypeAnnotations() []*Call
	AcceptType(v TypeVisitor) error
	isType()
}

// TypeVisitor has one method per type variant.
type TypeVisitor interface {
	VisitSimpleType(*SimpleType) error
	VisitDynamicType(*DynamicType) error
	VisitErrorType(*ErrorType) error
}

// SimpleType is a classifier applied to type arguments.
type SimpleType struct {
	// Classifier is a class or type parameter symbol.
	Classifier  *Symbol
	Nullable    bool
	Variance    Variance
	Arguments   []TypeArgument
	Annotations []*Call
}

// DynamicType is the dynamic type of platforms that have one.
type DynamicType struct {
	Variance    Variance
	Annotations []*Call
}

// ErrorType stands in for a type the front end failed to resolve.
type ErrorType struct {
	Variance    Variance
	Annotations []*Call
}

func (t *SimpleType) TypeAnnotations() []*Call  { return t.Annotations }
func (t *DynamicType) TypeAnnotations() []*Call { return t.Annotations }
func (t *ErrorType) TypeAnnotations() []*Call   { return t.Annotations }

func (t *SimpleType) AcceptType(v TypeVisitor) error  { return v.VisitSimpleType(t) }
func (t *DynamicType) AcceptType(v TypeVisitor) error { return v.VisitDynamicType(t) }
func (t *ErrorType) AcceptType(v TypeVisitor) error   { return v.VisitErrorType(t) }

func (*SimpleType) isType()  {}
func (*DynamicType) isType() {}
func (*ErrorType) isType()   {}

// TypeArgument is either a star projection or a projected type.
type TypeArgument interface {
	AcceptTypeArgument(v TypeArgumentVisitor) error
	isTypeArgument()
}

// TypeArgumentVisitor has one method per type argument variant.
type TypeArgumentVisitor interface {
	VisitStarProjection(*StarProjection) error
	VisitTypeProjection(*TypeProjection) error
}

// StarProjection is the `*` argument.
type StarProjection struct{}

// TypeProjection is a type argument with use-site variance.
type TypeProjection struct {
	Variance Variance
	Type     Type
}

func (a *StarProjection) AcceptTypeArgument(v TypeArgumentVisitor) error {
	return v.VisitStarProjection(a)
}
func (a *TypeProjection) AcceptTypeArgument(v TypeArgumentVisitor) error {
	return v.VisitTypeProjection(a)
}

func (*StarProjection) isTypeArgument() {}
func (*TypeProjection) isTypeArgument() {}

// Star is the shared star projection.
var Star = &StarProjection{}

// ClassType builds a non-null simple type over a class symbol.
func ClassType(classifier *Symbol, args ...Type) *SimpleType {
	t := &SimpleType{Classifier: classifier}
	for _, a := range args {
		t.Arguments = append(t.Arguments, &TypeProjection{Type: a})
	}
	return t
}

// Nullable returns a nullable copy of a simple type.
func Nullable(t *SimpleType) *SimpleType {
	cp := *t
	cp.Nullable = true
	return &cp
}
