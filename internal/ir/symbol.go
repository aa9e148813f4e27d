package ir

import "fmt"

// SymbolKind classifies the declaration a symbol points to.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolClass
	SymbolConstructor
	SymbolFunction
	SymbolProperty
	SymbolField
	SymbolVariable
	SymbolValueParameter
	SymbolTypeParameter
	SymbolEnumEntry
	SymbolAnonymousInit
	SymbolTypeAlias
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolConstructor:
		return "constructor"
	case SymbolFunction:
		return "function"
	case SymbolProperty:
		return "property"
	case SymbolField:
		return "field"
	case SymbolVariable:
		return "variable"
	case SymbolValueParameter:
		return "value-parameter"
	case SymbolTypeParameter:
		return "type-parameter"
	case SymbolEnumEntry:
		return "enum-entry"
	case SymbolAnonymousInit:
		return "anonymous-init"
	case SymbolTypeAlias:
		return "typealias"
	default:
		return "invalid"
	}
}

// Symbol is a use-site handle for exactly one declaration.
//
// A symbol may be unbound while a decoder is still rebuilding its owner;
// everything else in the graph holds the handle and sees the owner once it
// is bound.
type Symbol struct {
	kind  SymbolKind
	owner Declaration
}

// NewSymbol allocates an unbound symbol.
func NewSymbol(kind SymbolKind) *Symbol {
	return &Symbol{kind: kind}
}

// Kind reports the symbol kind.
func (s *Symbol) Kind() SymbolKind { return s.kind }

// Owner returns the bound declaration or nil.
func (s *Symbol) Owner() Declaration {
	if s == nil {
		return nil
	}
	return s.owner
}

// IsBound reports whether the symbol already names a declaration.
func (s *Symbol) IsBound() bool { return s != nil && s.owner != nil }

// Bind attaches the declaration to the symbol and the symbol to the declaration.
func (s *Symbol) Bind(d Declaration) error {
	if s == nil || d == nil {
		return fmt.Errorf("ir: bind of nil symbol or declaration")
	}
	if want := SymbolKindOf(d); want != s.kind {
		return fmt.Errorf("ir: cannot bind %s symbol to %s declaration", s.kind, want)
	}
	if s.owner != nil && s.owner != d {
		return fmt.Errorf("ir: %s symbol already bound to %s", s.kind, NameOf(s.owner))
	}
	s.owner = d
	d.Base().symbol = s
	return nil
}

// Unbind detaches the owner. Decoders use it to undo a failed session.
func (s *Symbol) Unbind() {
	if s == nil || s.owner == nil {
		return
	}
	if b := s.owner.Base(); b.symbol == s {
		b.symbol = nil
	}
	s.owner = nil
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.owner == nil {
		return s.kind.String() + " <unbound>"
	}
	return s.kind.String() + " " + QualifiedName(s.owner)
}

// SymbolKindOf returns the symbol kind matching a declaration kind.
func SymbolKindOf(d Declaration) SymbolKind {
	switch d.(type) {
	case *Class:
		return SymbolClass
	case *Constructor:
		return SymbolConstructor
	case *Function:
		return SymbolFunction
	case *Property:
		return SymbolProperty
	case *Field:
		return SymbolField
	case *Variable:
		return SymbolVariable
	case *ValueParameter:
		return SymbolValueParameter
	case *TypeParameter:
		return SymbolTypeParameter
	case *EnumEntry:
		return SymbolEnumEntry
	case *AnonymousInitializer:
		return SymbolAnonymousInit
	case *TypeAlias:
		return SymbolTypeAlias
	default:
		return SymbolInvalid
	}
}
