package ir

import "fmt"

// Origin records why a declaration exists.
type Origin uint8

const (
	// OriginDefined marks declarations written by the user.
	OriginDefined Origin = iota
	// OriginFakeOverride marks synthesized inherited members without an own body.
	OriginFakeOverride
	// OriginEnumClassSpecialMember marks values()/valueOf() of enum classes.
	OriginEnumClassSpecialMember
	// OriginDefaultPropertyAccessor marks accessors generated for a property.
	OriginDefaultPropertyAccessor
	// OriginInstanceReceiver marks the implicit this-receiver of classes.
	OriginInstanceReceiver
	// OriginTemporary marks compiler temporaries.
	OriginTemporary
	// OriginCatchParameter marks the variable bound by a catch clause.
	OriginCatchParameter
	// OriginDelegate marks delegation fields.
	OriginDelegate
)

func (o Origin) String() string {
	switch o {
	case OriginDefined:
		return "DEFINED"
	case OriginFakeOverride:
		return "FAKE_OVERRIDE"
	case OriginEnumClassSpecialMember:
		return "ENUM_CLASS_SPECIAL_MEMBER"
	case OriginDefaultPropertyAccessor:
		return "DEFAULT_PROPERTY_ACCESSOR"
	case OriginInstanceReceiver:
		return "INSTANCE_RECEIVER"
	case OriginTemporary:
		return "IR_TEMPORARY_VARIABLE"
	case OriginCatchParameter:
		return "CATCH_PARAMETER"
	case OriginDelegate:
		return "DELEGATE"
	default:
		return fmt.Sprintf("Origin(%d)", o)
	}
}

// Visibility controls who may refer to a declaration.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityInternal
	VisibilityPrivate
	VisibilityLocal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	case VisibilityLocal:
		return "local"
	default:
		return fmt.Sprintf("Visibility(%d)", v)
	}
}

// Modality says whether a member may be overridden.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalitySealed
	ModalityOpen
	ModalityAbstract
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalitySealed:
		return "sealed"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	default:
		return fmt.Sprintf("Modality(%d)", m)
	}
}

// ClassKind distinguishes classes, interfaces, enums and singletons.
type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnumClass
	ClassKindEnumEntry
	ClassKindAnnotationClass
	ClassKindObject
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindClass:
		return "class"
	case ClassKindInterface:
		return "interface"
	case ClassKindEnumClass:
		return "enum class"
	case ClassKindEnumEntry:
		return "enum entry"
	case ClassKindAnnotationClass:
		return "annotation class"
	case ClassKindObject:
		return "object"
	default:
		return fmt.Sprintf("ClassKind(%d)", k)
	}
}

// Variance of a type parameter, projection or type.
type Variance uint8

const (
	VarianceInvariant Variance = iota
	VarianceIn
	VarianceOut
)

func (v Variance) String() string {
	switch v {
	case VarianceInvariant:
		return ""
	case VarianceIn:
		return "in"
	case VarianceOut:
		return "out"
	default:
		return fmt.Sprintf("Variance(%d)", v)
	}
}
