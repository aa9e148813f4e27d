package ir

import "strings"

// VisibilityOf returns the declared visibility; kinds without one report Public
// for enum entries and Local otherwise.
func VisibilityOf(d Declaration) Visibility {
	switch d := d.(type) {
	case *Class:
		return d.Visibility
	case *Function:
		return d.Visibility
	case *Constructor:
		return d.Visibility
	case *Property:
		return d.Visibility
	case *Field:
		return d.Visibility
	case *TypeAlias:
		return d.Visibility
	case *EnumEntry:
		return VisibilityPublic
	default:
		return VisibilityLocal
	}
}

func isVisibleOutside(v Visibility) bool {
	return v == VisibilityPublic || v == VisibilityProtected || v == VisibilityInternal
}

// IsExported reports whether d can be named from another compilation unit:
// it and every enclosing class are non-private and the chain ends at a file.
func IsExported(d Declaration) bool {
	for {
		if !isVisibleOutside(VisibilityOf(d)) {
			return false
		}
		switch p := d.Base().Parent.(type) {
		case *File:
			return true
		case *Class:
			d = p
		default:
			return false
		}
	}
}

// DeclarationPath returns the package, the dot-joined enclosing class path
// and the member name of d.
func DeclarationPath(d Declaration) (pkg, classPath, name string) {
	name = NameOf(d)
	var classes []string
	for p := d.Base().Parent; p != nil; {
		switch pp := p.(type) {
		case *File:
			pkg = pp.Package
			p = nil
		case *Class:
			classes = append(classes, pp.Name)
			p = pp.Parent
		case Declaration:
			p = pp.Base().Parent
		default:
			p = nil
		}
	}
	for i, j := 0, len(classes)-1; i < j; i, j = i+1, j-1 {
		classes[i], classes[j] = classes[j], classes[i]
	}
	return pkg, strings.Join(classes, "."), name
}

// QualifiedName joins the declaration path with dots.
func QualifiedName(d Declaration) string {
	pkg, cls, name := DeclarationPath(d)
	parts := make([]string, 0, 3)
	for _, s := range []string{pkg, cls, name} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}
