package irser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
	"irpack/internal/irtest"
	"irpack/internal/wire"
)

func TestReferenceToUndecodedDependency(t *testing.T) {
	b := ir.NewBuiltins()
	libSrc, libF := irtest.Identity(b, "lib")

	s := encode(t, app(b, libF), b)

	g := blob(t, s, topLevel(t, s)[0]).Declarator.Function
	ws := g.Base.Body.BlockBody.Statements[0].Expression.Operation.Return.Value.Operation.Call.Symbol
	assert.Zero(t, ws.ID, "a dependency declaration without recorded identity is named by descriptor only")
	require.NotNil(t, ws.Descriptor)
	assert.Equal(t, wire.Descriptor{Package: irtest.Package, Name: "f"}, *ws.Descriptor)
	assert.Empty(t, header(t, s).Owners)

	callee := func(m *ir.Module) ir.Declaration {
		fn := findDecl(t, m, "g").(*ir.Function)
		return fn.Body.(*ir.BlockBody).Statements[0].(*ir.Return).Value.(*ir.Call).Symbol.Owner()
	}

	// Against the in-memory dependency itself.
	assert.Same(t, libF, callee(decode(t, s, b, libSrc)))

	// Against a separately decoded copy, whose members carry lib identities.
	lib := decode(t, encode(t, libSrc, b), b)
	assert.Same(t, findDecl(t, lib, "f"), callee(decode(t, s, b, lib)))
}

// libMembers are the kitchen members a client module refers to.
type libMembers struct {
	getName    *ir.Function
	setCounter *ir.Function
	registry   *ir.Constructor
	red        *ir.EnumEntry
	valueOf    *ir.Function
}

func libMembersOf(t *testing.T, m *ir.Module) libMembers {
	t.Helper()
	base := findDecl(t, m, "Base").(*ir.Class)
	color := findDecl(t, m, "Color").(*ir.Class)
	registry := findDecl(t, m, "Registry").(*ir.Class)
	require.NotEmpty(t, registry.Constructors())
	return libMembers{
		getName:    member(t, base, "name").(*ir.Property).Getter,
		setCounter: member(t, base, "counter").(*ir.Property).Setter,
		registry:   registry.Constructors()[0],
		red:        member(t, color, "RED").(*ir.EnumEntry),
		valueOf:    member(t, color, "valueOf").(*ir.Function),
	}
}

// client builds a module whose function `use` refers to each lib member in
// libMembers field order.
func client(b *ir.Builtins, lib libMembers) *ir.Module {
	m := &ir.Module{Name: "client"}
	file := m.AddFile(&ir.File{Name: "client.kt", Package: "client"})
	unitT := b.Type(b.Unit)
	use := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "use", ReturnType: unitT}})
	file.AddDeclaration(use)

	typed := func(t ir.Type) ir.ExprBase { return ir.ExprBase{Type: t} }
	args := func(xs ...ir.Expression) ir.MemberAccess { return ir.MemberAccess{ValueArguments: xs} }
	use.Body = &ir.BlockBody{Statements: []ir.Statement{
		&ir.Call{ExprBase: typed(b.Type(b.String)), Symbol: lib.getName.Symbol()},
		&ir.Call{ExprBase: typed(unitT), Symbol: lib.setCounter.Symbol(),
			MemberAccess: args(&ir.Const{ExprBase: typed(b.Type(b.Int)), ConstKind: ir.ConstInt, Int: 2})},
		&ir.Call{ExprBase: typed(unitT), Symbol: lib.registry.Symbol()},
		&ir.GetEnumValue{ExprBase: typed(unitT), Symbol: lib.red.Symbol()},
		&ir.Call{ExprBase: typed(unitT), Symbol: lib.valueOf.Symbol(),
			MemberAccess: args(&ir.Const{ExprBase: typed(b.Type(b.String)), ConstKind: ir.ConstString, String: "RED"})},
	}}
	return m
}

func TestCrossModuleReferencesCarryOneFlag(t *testing.T) {
	tests := []struct {
		name    string
		decoded bool
	}{
		{name: "in-memory dependency", decoded: false},
		{name: "decoded dependency", decoded: true},
	}
	wantFlags := []uint32{
		wire.FlagGetter,
		wire.FlagSetter,
		wire.FlagDefaultConstructor,
		wire.FlagEnumEntry,
		wire.FlagEnumSpecial,
	}
	wantNames := []string{"name", "counter", "<init>", "RED", "valueOf"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ir.NewBuiltins()
			lib := irtest.KitchenSink(b, "lib").Module
			if tt.decoded {
				lib = decode(t, encode(t, lib, b), b)
			}
			members := libMembersOf(t, lib)

			s := encode(t, client(b, members), b)

			use := blob(t, s, topLevel(t, s)[0]).Declarator.Function
			stmts := use.Base.Body.BlockBody.Statements
			require.Len(t, stmts, len(wantFlags))
			for i, st := range stmts {
				op := st.Expression.Operation
				var ws wire.Symbol
				if op.GetEnumValue != nil {
					ws = op.GetEnumValue.Symbol
				} else {
					require.NotNil(t, op.Call, "statement %d", i)
					ws = op.Call.Symbol
				}
				require.NotNil(t, ws.Descriptor, "statement %d", i)
				assert.Equal(t, wantFlags[i], ws.Descriptor.Flags, "statement %d", i)
				assert.Equal(t, wantNames[i], ws.Descriptor.Name, "statement %d", i)
				assert.Equal(t, irtest.Package, ws.Descriptor.Package, "statement %d", i)
				if tt.decoded {
					assert.Equal(t, ModuleSalt("lib"), SaltOf(ir.UniqID(ws.ID)), "statement %d", i)
				} else {
					assert.Zero(t, ws.ID, "statement %d", i)
				}
			}

			got := decode(t, s, b, lib)
			body := findDecl(t, got, "use").(*ir.Function).Body.(*ir.BlockBody).Statements
			owner := func(i int) ir.Declaration {
				switch x := body[i].(type) {
				case *ir.Call:
					return x.Symbol.Owner()
				case *ir.GetEnumValue:
					return x.Symbol.Owner()
				}
				require.FailNowf(t, "unexpected statement", "statement %d is a %T", i, body[i])
				return nil
			}
			assert.Same(t, members.getName, owner(0))
			assert.Same(t, members.setCounter, owner(1))
			assert.Same(t, members.registry, owner(2))
			assert.Same(t, members.red, owner(3))
			assert.Same(t, members.valueOf, owner(4))
		})
	}
}

func TestCrossModuleReferenceWithoutResolverFails(t *testing.T) {
	b := ir.NewBuiltins()
	lib := irtest.KitchenSink(b, "lib").Module
	s := encode(t, client(b, libMembersOf(t, lib)), b)

	_, err := Decode(context.Background(), s.Header, newBlobs(s).fetch, resolution(b), Options{})
	assert.ErrorIs(t, err, ErrUnresolvedSymbol)
}
