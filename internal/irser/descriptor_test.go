package irser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
	"irpack/internal/irtest"
	"irpack/internal/wire"
)

func TestResolveDescriptor(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	k.Name.UniqID = 77
	k.Area.UniqID = 100
	r := NewModuleResolver(k.Module)

	tests := []struct {
		name string
		desc wire.Descriptor
		want ir.Declaration
	}{
		{
			name: "enum entry by name",
			desc: wire.Descriptor{Package: irtest.Package, ClassPath: "Color", Name: "RED", Flags: wire.FlagEnumEntry},
			want: k.Red,
		},
		{
			name: "default constructor of an object",
			desc: wire.Descriptor{Package: irtest.Package, ClassPath: "Registry", Name: "<init>", Flags: wire.FlagDefaultConstructor},
			want: k.Registry.Constructors()[0],
		},
		{
			name: "getter through its property",
			desc: wire.Descriptor{Package: irtest.Package, ClassPath: "Base", Name: "name", Flags: wire.FlagGetter, ID: 77},
			want: k.Name.Getter,
		},
		{
			name: "member by identity",
			desc: wire.Descriptor{Package: irtest.Package, ClassPath: "Base", Name: "area", ID: 100},
			want: k.Area,
		},
		{
			name: "fake override names its real member",
			desc: wire.Descriptor{Package: irtest.Package, ClassPath: "Derived", Name: "area", Flags: wire.FlagFakeOverride, ID: 100},
			want: k.Area,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDescriptor(r, &tt.desc)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestResolveDescriptorSearchesSuperClasses(t *testing.T) {
	m := &ir.Module{Name: "h"}
	f := m.AddFile(&ir.File{Name: "h.kt", Package: "h"})
	p := ir.Declare(&ir.Class{Name: "P", Modality: ir.ModalityOpen})
	f.AddDeclaration(p)
	pm := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "m"}, Modality: ir.ModalityOpen})
	pm.UniqID = 5
	p.AddDeclaration(pm)
	q := ir.Declare(&ir.Class{Name: "Q", SuperTypes: []ir.Type{ir.ClassType(p.Symbol())}})
	f.AddDeclaration(q)

	r := NewModuleResolver(m)
	got, err := ResolveDescriptor(r, &wire.Descriptor{Package: "h", ClassPath: "Q", Name: "m", Flags: wire.FlagFakeOverride, ID: 5})
	require.NoError(t, err)
	assert.Same(t, pm, got)

	_, err = ResolveDescriptor(r, &wire.Descriptor{Package: "h", ClassPath: "Q", Name: "m", ID: 5})
	assert.Error(t, err)
}

func TestResolveDescriptorFailures(t *testing.T) {
	b := ir.NewBuiltins()
	r := NewModuleResolver(b.Module())

	_, err := ResolveDescriptor(r, nil)
	assert.Error(t, err)
	_, err = ResolveDescriptor(nil, &wire.Descriptor{Name: "x"})
	assert.Error(t, err)
	_, err = ResolveDescriptor(r, &wire.Descriptor{Package: ir.BuiltinsPackage, Name: "Missing"})
	assert.Error(t, err)

	// A getter flag on something that is not a property.
	_, err = ResolveDescriptor(r, &wire.Descriptor{
		Package: ir.BuiltinsPackage, Name: "Int", Flags: wire.FlagGetter, ID: uint64(b.Int.UniqID),
	})
	assert.Error(t, err)

	got, err := ResolveDescriptor(r, &wire.Descriptor{
		Package: ir.BuiltinsPackage, ClassPath: "Any", Name: "toString", ID: uint64(b.AnyToString.UniqID),
	})
	require.NoError(t, err)
	assert.Same(t, b.AnyToString, got)
}

func TestResolversChain(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	rs := Resolvers{nil, NewModuleResolver(b.Module()), NewModuleResolver(k.Module)}
	assert.NotEmpty(t, rs.Members(ir.BuiltinsPackage, "Any"))
	assert.NotEmpty(t, rs.Members(irtest.Package, "Base"))
	assert.Empty(t, rs.Members("nowhere", ""))
}

func TestResolveDescriptorByName(t *testing.T) {
	m := &ir.Module{Name: "h"}
	f := m.AddFile(&ir.File{Name: "h.kt", Package: "h"})
	c := ir.Declare(&ir.Class{Name: "C"})
	f.AddDeclaration(c)
	prop := ir.Declare(&ir.Property{Name: "x"})
	c.AddDeclaration(prop)
	fn := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "x"}})
	c.AddDeclaration(fn)
	recorded := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "y"}})
	recorded.UniqID = 9
	c.AddDeclaration(recorded)
	for i := 0; i < 2; i++ {
		c.AddDeclaration(ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "over"}}))
	}
	r := NewModuleResolver(m)

	tests := []struct {
		name    string
		desc    wire.Descriptor
		kind    ir.SymbolKind
		want    ir.Declaration
		wantErr bool
	}{
		{name: "without identity", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "y"}, want: recorded},
		{name: "recorded under another identity", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "y", ID: 10}, wantErr: true},
		{name: "function among same-named members", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "x"}, kind: ir.SymbolFunction, want: fn},
		{name: "property among same-named members", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "x"}, kind: ir.SymbolProperty, want: prop},
		{name: "same-named members of any kind", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "x"}, wantErr: true},
		{name: "overloads", desc: wire.Descriptor{Package: "h", ClassPath: "C", Name: "over"}, kind: ir.SymbolFunction, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDescriptor(r, &tt.desc, tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}
