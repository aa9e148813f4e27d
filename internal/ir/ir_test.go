package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolBind(t *testing.T) {
	fn := &Function{FunctionBase: FunctionBase{Name: "f"}}
	cls := &Class{Name: "C"}

	s := NewSymbol(SymbolClass)
	assert.Error(t, s.Bind(fn), "kind mismatch")
	require.NoError(t, s.Bind(cls))
	assert.Same(t, s, cls.Symbol())
	assert.Same(t, cls, s.Owner())
	assert.Error(t, s.Bind(&Class{Name: "D"}), "rebind")

	s.Unbind()
	assert.False(t, s.IsBound())
	assert.Nil(t, cls.Symbol())
	assert.Equal(t, "class <unbound>", s.String())
}

func TestBuiltinIdentitiesAreStable(t *testing.T) {
	a, b := NewBuiltins(), NewBuiltins()
	require.Len(t, b.Declarations(), len(a.Declarations()))
	for i, d := range a.Declarations() {
		assert.Equal(t, UniqID(i+1), d.Base().UniqID, NameOf(d))
		assert.Equal(t, QualifiedName(d), QualifiedName(b.Declarations()[i]), "slot %d", i)
	}
	assert.Equal(t, "lang.Any.toString", QualifiedName(a.AnyToString))
}

func TestIsExported(t *testing.T) {
	file := &File{Name: "a.kt", Package: "p"}
	outer := Declare(&Class{Name: "Outer"})
	file.AddDeclaration(outer)
	inner := Declare(&Class{Name: "Inner", Visibility: VisibilityPrivate})
	outer.AddDeclaration(inner)
	member := Declare(&Function{FunctionBase: FunctionBase{Name: "m"}})
	inner.AddDeclaration(member)
	local := Declare(&Variable{Name: "v"})
	local.Parent = member

	cases := []struct {
		d    Declaration
		want bool
	}{
		{outer, true},
		{inner, false},
		{member, false},
		{local, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsExported(c.d), NameOf(c.d))
	}

	pkg, cls, name := DeclarationPath(member)
	assert.Equal(t, "p", pkg)
	assert.Equal(t, "Outer.Inner", cls)
	assert.Equal(t, "m", name)
	assert.Same(t, file, FileOf(member))
}

func TestTypeString(t *testing.T) {
	b := NewBuiltins()
	cases := []struct {
		typ  Type
		want string
	}{
		{nil, "-"},
		{Nullable(b.Type(b.Any)), "lang.Any?"},
		{ClassType(b.Array.Symbol(), b.Type(b.Int)), "lang.Array<lang.Int>"},
		{&SimpleType{Classifier: b.Array.Symbol(), Arguments: []TypeArgument{Star}}, "lang.Array<*>"},
		{&DynamicType{Variance: VarianceOut}, "out dynamic"},
		{&ErrorType{}, "<error>"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TypeString(c.typ))
	}
}

func TestDumpSkipsFakeOverrides(t *testing.T) {
	m := &Module{Name: "m"}
	file := m.AddFile(&File{Name: "a.kt", Package: "p"})
	cls := Declare(&Class{Name: "C"})
	file.AddDeclaration(cls)
	own := Declare(&Function{FunctionBase: FunctionBase{Name: "own"}})
	cls.AddDeclaration(own)
	fake := Declare(&Function{FunctionBase: FunctionBase{Name: "inherited"}})
	fake.Origin = OriginFakeOverride
	cls.AddDeclaration(fake)

	assert.Contains(t, DumpString(m, DumpOptions{}), "inherited")
	trimmed := DumpString(m, DumpOptions{SkipFakeOverrides: true})
	assert.NotContains(t, trimmed, "inherited")
	assert.Contains(t, trimmed, "own")

	cls.UniqID = 0x2a
	assert.Contains(t, DumpDeclaration(cls, DumpOptions{ShowIDs: true}), "id=#2a")
}
