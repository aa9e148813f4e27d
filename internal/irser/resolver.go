package irser

import (
	"strings"

	"irpack/internal/ir"
)

// MemberResolver enumerates the declarations that a descriptor with the
// given package and class path may name. An empty class path asks for the
// package-level declarations.
type MemberResolver interface {
	Members(pkg, classPath string) []ir.Declaration
}

// Resolution is what a decoder needs besides the blobs: the built-in table,
// seeded under identities 1..N, and a resolver for references into other
// compilation units.
type Resolution struct {
	Builtins []ir.Declaration
	Resolver MemberResolver
}

// ModuleResolver serves members of already decoded modules.
type ModuleResolver struct {
	members map[scopeKey][]ir.Declaration
}

type scopeKey struct {
	pkg       string
	classPath string
}

// NewModuleResolver indexes the packages and classes of modules.
func NewModuleResolver(modules ...*ir.Module) *ModuleResolver {
	r := &ModuleResolver{members: make(map[scopeKey][]ir.Declaration)}
	for _, m := range modules {
		if m == nil {
			continue
		}
		for _, f := range m.Files {
			for _, d := range f.Declarations {
				r.add(f.Package, nil, d)
			}
		}
	}
	return r
}

func (r *ModuleResolver) add(pkg string, classes []string, d ir.Declaration) {
	key := scopeKey{pkg: pkg, classPath: strings.Join(classes, ".")}
	r.members[key] = append(r.members[key], d)
	c, ok := d.(*ir.Class)
	if !ok {
		return
	}
	inner := append(classes[:len(classes):len(classes)], c.Name)
	for _, m := range c.Declarations {
		r.add(pkg, inner, m)
	}
}

// Members implements MemberResolver.
func (r *ModuleResolver) Members(pkg, classPath string) []ir.Declaration {
	return r.members[scopeKey{pkg: pkg, classPath: classPath}]
}

// Resolvers chains resolvers; Members returns the first non-empty answer.
type Resolvers []MemberResolver

// Members implements MemberResolver.
func (rs Resolvers) Members(pkg, classPath string) []ir.Declaration {
	for _, r := range rs {
		if r == nil {
			continue
		}
		if ms := r.Members(pkg, classPath); len(ms) > 0 {
			return ms
		}
	}
	return nil
}
