package wire

// TypeCase selects the populated variant of Type.
type TypeCase uint8

const (
	TypeUnset TypeCase = iota
	TypeSimple
	TypeDynamic
	TypeError
)

// Type is the union of type variants.
type Type struct {
	Case    TypeCase     `msgpack:"c"`
	Simple  *SimpleType  `msgpack:"s,omitempty"`
	Dynamic *DynamicType `msgpack:"d,omitempty"`
	Error   *ErrorType   `msgpack:"e,omitempty"`
}

// SimpleType is a classifier applied to arguments.
type SimpleType struct {
	Classifier  Symbol         `msgpack:"c"`
	Nullable    bool           `msgpack:"n,omitempty"`
	Variance    uint8          `msgpack:"v,omitempty"`
	Arguments   []TypeArgument `msgpack:"a,omitempty"`
	Annotations []Expression   `msgpack:"@,omitempty"`
}

// DynamicType is the dynamic type.
type DynamicType struct {
	Variance    uint8        `msgpack:"v,omitempty"`
	Annotations []Expression `msgpack:"@,omitempty"`
}

// ErrorType stands for an unresolved type.
type ErrorType struct {
	Variance    uint8        `msgpack:"v,omitempty"`
	Annotations []Expression `msgpack:"@,omitempty"`
}

// TypeVisitor receives the populated variant of a Type.
type TypeVisitor interface {
	VisitSimpleType(*SimpleType) error
	VisitDynamicType(*DynamicType) error
	VisitErrorType(*ErrorType) error
}

// Dispatch calls the visitor method of the populated variant.
func (t *Type) Dispatch(v TypeVisitor) error {
	const union = "type"
	switch t.Case {
	case TypeUnset:
		return unset(union)
	case TypeSimple:
		if t.Simple == nil {
			return missing(union, uint8(t.Case))
		}
		return v.VisitSimpleType(t.Simple)
	case TypeDynamic:
		if t.Dynamic == nil {
			return missing(union, uint8(t.Case))
		}
		return v.VisitDynamicType(t.Dynamic)
	case TypeError:
		if t.Error == nil {
			return missing(union, uint8(t.Case))
		}
		return v.VisitErrorType(t.Error)
	default:
		return unknown(union, uint8(t.Case))
	}
}

// TypeArgumentCase selects the populated variant of TypeArgument.
type TypeArgumentCase uint8

const (
	TypeArgumentUnset TypeArgumentCase = iota
	TypeArgumentStar
	TypeArgumentProjection
)

// TypeArgument is a star projection or a projected type.
type TypeArgument struct {
	Case       TypeArgumentCase `msgpack:"c"`
	Projection *TypeProjection  `msgpack:"p,omitempty"`
}

// TypeProjection carries use-site variance.
type TypeProjection struct {
	Variance uint8 `msgpack:"v,omitempty"`
	Type     Type  `msgpack:"t"`
}

// TypeArgumentVisitor receives the populated variant of a TypeArgument.
type TypeArgumentVisitor interface {
	VisitStar() error
	VisitProjection(*TypeProjection) error
}

// Dispatch calls the visitor method of the populated variant.
func (a *TypeArgument) Dispatch(v TypeArgumentVisitor) error {
	const union = "type argument"
	switch a.Case {
	case TypeArgumentUnset:
		return unset(union)
	case TypeArgumentStar:
		return v.VisitStar()
	case TypeArgumentProjection:
		if a.Projection == nil {
			return missing(union, uint8(a.Case))
		}
		return v.VisitProjection(a.Projection)
	default:
		return unknown(union, uint8(a.Case))
	}
}
