package irser

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"irpack/internal/ir"
	"irpack/internal/overrides"
	"irpack/internal/wire"
)

// descriptorOf builds the name-path reference for a use of site, which the
// encoder already rewrote to the real member target. Non-exported sites get
// no descriptor; the constructor of an object is as visible as its class.
func (e *encoder) descriptorOf(site, target ir.Declaration, targetID ir.UniqID) (*wire.Descriptor, error) {
	if !ir.IsExported(nameable(site)) {
		return nil, nil
	}
	pkg, classPath, name := ir.DeclarationPath(site)
	desc := &wire.Descriptor{
		Package:   pkg,
		ClassPath: classPath,
		Name:      norm.NFC.String(name),
		ID:        uint64(targetID),
	}
	if site.Base().IsFakeOverride() {
		desc.Flags |= wire.FlagFakeOverride
	}

	switch t := target.(type) {
	case *ir.Function:
		if t.CorrespondingProperty != nil {
			prop, ok := t.CorrespondingProperty.Owner().(*ir.Property)
			if !ok {
				return nil, invalidGraph("function", "accessor %s has an unbound property", t.Name)
			}
			switch {
			case prop.Getter == t:
				desc.Flags |= wire.FlagGetter
			case prop.Setter == t:
				desc.Flags |= wire.FlagSetter
			default:
				return nil, invalidGraph("function", "accessor %s is neither getter nor setter of %s", t.Name, prop.Name)
			}
			desc.Name = norm.NFC.String(prop.Name)
			desc.ID = uint64(e.identity(prop))
		} else if t.Origin == ir.OriginEnumClassSpecialMember {
			desc.Flags |= wire.FlagEnumSpecial
		}
	case *ir.Constructor:
		if cls, ok := t.Parent.(*ir.Class); ok && cls.ClassKind == ir.ClassKindObject {
			desc.Flags |= wire.FlagDefaultConstructor
			desc.ID = 0
		}
	case *ir.EnumEntry:
		desc.Flags |= wire.FlagEnumEntry
		desc.ID = 0
	}
	return desc, nil
}

func nameable(d ir.Declaration) ir.Declaration {
	if ctor, ok := d.(*ir.Constructor); ok {
		if cls, ok := ctor.Parent.(*ir.Class); ok && cls.ClassKind == ir.ClassKindObject {
			return cls
		}
	}
	return d
}

// ResolveDescriptor finds the declaration a descriptor names among the
// members r offers.
//
// Enum entries and enum special members are found by name, a default
// constructor is the first constructor of its class, and anything else must
// carry the recorded identity the descriptor names (for fake-override
// references, one of the real members behind a same-named fake override
// does). A descriptor without identity, or one whose candidates were never
// given identities, matches the only member of that name. Fake-override
// references whose class has no materialized fake override are looked up
// along the super classes.
func ResolveDescriptor(r MemberResolver, desc *wire.Descriptor) (ir.Declaration, error) {
	return resolveDescriptor(r, desc, ir.SymbolInvalid)
}

// resolveDescriptor is ResolveDescriptor restricted to targets of kind;
// SymbolInvalid accepts any kind.
func resolveDescriptor(r MemberResolver, desc *wire.Descriptor, kind ir.SymbolKind) (ir.Declaration, error) {
	if desc == nil {
		return nil, errors.New("no descriptor")
	}
	if r == nil {
		return nil, fmt.Errorf("no resolver for %s", describe(desc))
	}
	m := matcher{desc: desc, kind: kind}
	found := m.match(r.Members(desc.Package, desc.ClassPath))
	if found == nil && desc.Flags&wire.FlagFakeOverride != 0 {
		found = m.searchSuperClasses(r)
	}
	if found == nil {
		return nil, fmt.Errorf("no member matches %s", describe(desc))
	}
	if desc.Flags&(wire.FlagGetter|wire.FlagSetter) == 0 {
		return found, nil
	}
	prop, ok := found.(*ir.Property)
	if !ok {
		return nil, fmt.Errorf("%s names a %s, not a property", describe(desc), found.Kind())
	}
	var acc *ir.Function
	if desc.Flags&wire.FlagGetter != 0 {
		acc = prop.Getter
	} else {
		acc = prop.Setter
	}
	if acc == nil {
		return nil, fmt.Errorf("property %s has no such accessor", prop.Name)
	}
	return acc, nil
}

type matcher struct {
	desc *wire.Descriptor
	kind ir.SymbolKind
}

func (m matcher) named(d ir.Declaration) bool {
	return norm.NFC.String(ir.NameOf(d)) == m.desc.Name
}

func (m matcher) accessor() bool {
	return m.desc.Flags&(wire.FlagGetter|wire.FlagSetter) != 0
}

// kindFits reports whether d may stand for the reference. Accessor
// descriptors name the property, not the function referenced.
func (m matcher) kindFits(d ir.Declaration) bool {
	if m.accessor() {
		_, ok := d.(*ir.Property)
		return ok
	}
	return m.kind == ir.SymbolInvalid || ir.SymbolKindOf(d) == m.kind
}

func (m matcher) match(candidates []ir.Declaration) ir.Declaration {
	desc := m.desc
	var byName []ir.Declaration
	for _, c := range candidates {
		switch {
		case desc.Flags&wire.FlagEnumEntry != 0:
			if _, ok := c.(*ir.EnumEntry); ok && m.named(c) {
				return c
			}
		case desc.Flags&wire.FlagEnumSpecial != 0:
			if c.Base().Origin == ir.OriginEnumClassSpecialMember && m.named(c) {
				return c
			}
		case desc.Flags&wire.FlagDefaultConstructor != 0:
			if _, ok := c.(*ir.Constructor); ok {
				return c
			}
		default:
			if !m.named(c) {
				continue
			}
			if _, isProp := c.(*ir.Property); m.accessor() && !isProp {
				continue
			}
			if desc.ID != 0 {
				if uint64(c.Base().UniqID) == desc.ID {
					return c
				}
				if desc.Flags&wire.FlagFakeOverride != 0 && c.Base().IsFakeOverride() {
					if r := realWithID(c, desc.ID); r != nil {
						return r
					}
				}
			}
			byName = append(byName, c)
		}
	}
	return m.onlyByName(byName)
}

func realWithID(fake ir.Declaration, id uint64) ir.Declaration {
	reals, err := overrides.Resolve(fake)
	if err != nil {
		return nil
	}
	for _, r := range reals {
		if uint64(r.Base().UniqID) == id {
			return r
		}
	}
	return nil
}

// onlyByName picks the single same-named candidate of a fitting kind. A
// descriptor that names an identity never matches a candidate recorded
// under a different one.
func (m matcher) onlyByName(candidates []ir.Declaration) ir.Declaration {
	var pick ir.Declaration
	for _, c := range candidates {
		if m.desc.ID != 0 && c.Base().UniqID.IsValid() {
			continue
		}
		if c.Base().IsFakeOverride() && !m.accessor() {
			rep, err := overrides.Representative(c)
			if err != nil {
				continue
			}
			c = rep
		}
		if !m.kindFits(c) {
			continue
		}
		if pick != nil && pick != c {
			return nil
		}
		pick = c
	}
	return pick
}

func (m matcher) searchSuperClasses(r MemberResolver) ir.Declaration {
	start := lookupClass(r, m.desc.Package, m.desc.ClassPath)
	if start == nil {
		return nil
	}
	seen := map[*ir.Class]bool{start: true}
	queue := []*ir.Class{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, st := range c.SuperTypes {
			simple, ok := st.(*ir.SimpleType)
			if !ok {
				continue
			}
			super, ok := simple.Classifier.Owner().(*ir.Class)
			if !ok || seen[super] {
				continue
			}
			seen[super] = true
			if found := m.match(super.Declarations); found != nil {
				return found
			}
			queue = append(queue, super)
		}
	}
	return nil
}

func lookupClass(r MemberResolver, pkg, classPath string) *ir.Class {
	if classPath == "" {
		return nil
	}
	outer, name := "", classPath
	if i := strings.LastIndexByte(classPath, '.'); i >= 0 {
		outer, name = classPath[:i], classPath[i+1:]
	}
	for _, d := range r.Members(pkg, outer) {
		if c, ok := d.(*ir.Class); ok && c.Name == name {
			return c
		}
	}
	return nil
}

func describe(desc *wire.Descriptor) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{desc.Package, desc.ClassPath, desc.Name} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return fmt.Sprintf("%s (flags %#x, id %s)", strings.Join(parts, "."), desc.Flags, ir.UniqID(desc.ID))
}
