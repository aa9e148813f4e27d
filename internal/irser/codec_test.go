package irser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
	"irpack/internal/irtest"
	"irpack/internal/wire"
)

func TestRoundTripKitchenSink(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")

	s := encode(t, k.Module, b)
	got := decode(t, s, b)

	assert.Equal(t, dump(k.Module), dump(got))
}

func TestEndToEndIdentityFunction(t *testing.T) {
	b := ir.NewBuiltins()
	m, _ := irtest.Identity(b, "identity")

	got := decode(t, encode(t, m, b), b)

	fn, ok := findDecl(t, got, "f").(*ir.Function)
	require.True(t, ok)
	require.Len(t, fn.ValueParameters, 1)
	x := fn.ValueParameters[0]
	assert.Equal(t, "x", x.Name)
	assert.Same(t, b.Int.Symbol(), x.Type.(*ir.SimpleType).Classifier)
	assert.Same(t, b.Int.Symbol(), fn.ReturnType.(*ir.SimpleType).Classifier)

	body, ok := fn.Body.(*ir.BlockBody)
	require.True(t, ok)
	require.Len(t, body.Statements, 1)
	ret, ok := body.Statements[0].(*ir.Return)
	require.True(t, ok)
	assert.Same(t, fn.Symbol(), ret.Target)
	get, ok := ret.Value.(*ir.GetValue)
	require.True(t, ok)
	assert.Same(t, x.Symbol(), get.Symbol)
	assert.Same(t, fn, ret.Target.Owner())
	assert.Equal(t, ir.FileOf(fn), got.Files[0])
}

func TestEncodeIsStable(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")

	first := encode(t, k.Module, b)
	second := encode(t, k.Module, b)
	assert.Equal(t, first.Header, second.Header)
	assert.Equal(t, first.Blobs, second.Blobs)

	// Re-encoding a decoded module keeps every identity.
	again := encode(t, decode(t, first, b), b)
	assert.Equal(t, first.Header, again.Header)
	assert.Equal(t, first.Blobs, again.Blobs)
}

func TestHeaderOwnersAreSorted(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")

	first := encode(t, k.Module, b)
	for i := 0; i < 8; i++ {
		assert.Equal(t, first.Header, encode(t, k.Module, b).Header)
	}

	owners := header(t, first).Owners
	require.NotEmpty(t, owners)
	for i := 1; i < len(owners); i++ {
		assert.Less(t, owners[i-1].ID, owners[i].ID)
	}
}

func TestOwnerListedTwiceIsMalformed(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	s := encode(t, k.Module, b)

	h := header(t, s)
	require.NotEmpty(t, h.Owners)
	h.Owners = append(h.Owners, h.Owners[0])
	data, err := wire.Marshal(&h)
	require.NoError(t, err)

	_, err = NewDecoder(data, newBlobs(s).fetch, resolution(b), Options{})
	assert.ErrorIs(t, err, ErrMalformedWire)
}

func TestLoopCorrelation(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	got := decode(t, encode(t, k.Module, b), b)

	fn := findDecl(t, got, "kitchen").(*ir.Function)
	var outer *ir.WhileLoop
	for _, st := range fn.Body.(*ir.BlockBody).Statements {
		if l, ok := st.(*ir.WhileLoop); ok {
			outer = l
		}
	}
	require.NotNil(t, outer)
	assert.Equal(t, "outer", outer.Label)

	stmts := outer.Body.(*ir.Block).Statements
	require.Len(t, stmts, 4)
	when := stmts[1].(*ir.When)
	assert.Same(t, outer, when.Branches[0].Result.(*ir.Break).Loop)
	inner := stmts[2].(*ir.DoWhileLoop)
	innerStmts := inner.Body.(*ir.Block).Statements
	assert.Same(t, outer, innerStmts[0].(*ir.Break).Loop)
	assert.Same(t, inner, innerStmts[1].(*ir.Continue).Loop)
	assert.Same(t, outer, stmts[3].(*ir.Continue).Loop)
}

func TestFakeOverrideReferenceTargetsRealMember(t *testing.T) {
	b := ir.NewBuiltins()
	o := irtest.FakeOverrides(b, "hierarchy")
	s := encode(t, o.Module, b)

	ids := topLevel(t, s)
	use := blob(t, s, ids[len(ids)-1])
	fb := use.Declarator.Function.Base
	call := fb.Body.BlockBody.Statements[0].Expression.Operation.Call
	require.NotNil(t, call)
	desc := call.Symbol.Descriptor
	require.NotNil(t, desc)
	assert.Equal(t, irtest.Package, desc.Package)
	assert.Equal(t, "C", desc.ClassPath)
	assert.Equal(t, "m", desc.Name)
	assert.NotZero(t, desc.Flags&wire.FlagFakeOverride)
	assert.Equal(t, call.Symbol.ID, desc.ID)

	got := decode(t, s, b)
	bm := member(t, findDecl(t, got, "B").(*ir.Class), "m")
	useFn := findDecl(t, got, "use").(*ir.Function)
	decoded := useFn.Body.(*ir.BlockBody).Statements[0].(*ir.Call)
	assert.Same(t, bm, decoded.Symbol.Owner())
	assert.Equal(t, bm.Base().UniqID, ir.UniqID(desc.ID))

	// D.m overrode the fake C.m; the decoded list names the real member.
	dm := member(t, findDecl(t, got, "D").(*ir.Class), "m").(*ir.Function)
	require.Len(t, dm.Overridden, 1)
	assert.Same(t, bm, dm.Overridden[0].Owner())

	// The fake member itself is not serialized.
	for _, d := range findDecl(t, got, "C").(*ir.Class).Declarations {
		assert.False(t, d.Base().IsFakeOverride())
	}
}

func TestBuiltinIdentitiesAgreeAcrossModules(t *testing.T) {
	var classifiers []uint64
	var salts []uint64
	for _, name := range []string{"alpha", "beta"} {
		b := ir.NewBuiltins()
		m, _ := irtest.Identity(b, name)
		s := encode(t, m, b)
		id := topLevel(t, s)[0]
		fn := blob(t, s, id).Declarator.Function
		require.NotNil(t, fn)
		classifiers = append(classifiers, fn.Base.ReturnType.Simple.Classifier.ID)
		salts = append(salts, SaltOf(id))
		assert.Equal(t, ModuleSalt(name), SaltOf(id))
	}
	assert.Equal(t, classifiers[0], classifiers[1])
	assert.Equal(t, uint64(ir.NewBuiltins().Int.Base().UniqID), classifiers[0])
	assert.NotEqual(t, salts[0], salts[1])
}

// app builds `fun g(): Int = f(1)` calling f of a dependency.
func app(b *ir.Builtins, f *ir.Function) *ir.Module {
	m := &ir.Module{Name: "app"}
	file := m.AddFile(&ir.File{Name: "app.kt", Package: "app"})
	intT := b.Type(b.Int)
	g := ir.Declare(&ir.Function{FunctionBase: ir.FunctionBase{Name: "g", ReturnType: intT}})
	file.AddDeclaration(g)
	call := &ir.Call{
		ExprBase:     ir.ExprBase{Type: intT},
		Symbol:       f.Symbol(),
		MemberAccess: ir.MemberAccess{ValueArguments: []ir.Expression{&ir.Const{ExprBase: ir.ExprBase{Type: intT}, ConstKind: ir.ConstInt, Int: 1}}},
	}
	g.Body = &ir.BlockBody{Statements: []ir.Statement{&ir.Return{Target: g.Symbol(), Value: call}}}
	return m
}

func TestExternalReferenceResolvesByName(t *testing.T) {
	b := ir.NewBuiltins()
	libSrc, _ := irtest.Identity(b, "lib")
	lib := decode(t, encode(t, libSrc, b), b)
	libF := findDecl(t, lib, "f").(*ir.Function)

	s := encode(t, app(b, libF), b)
	got := decode(t, s, b, lib)

	g := findDecl(t, got, "g").(*ir.Function)
	call := g.Body.(*ir.BlockBody).Statements[0].(*ir.Return).Value.(*ir.Call)
	assert.Same(t, libF, call.Symbol.Owner())

	_, err := Decode(context.Background(), s.Header, newBlobs(s).fetch, resolution(b), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedSymbol)
}

func TestMalformedBlobLeavesDecoderUnchanged(t *testing.T) {
	b := ir.NewBuiltins()
	m, _ := irtest.Identity(b, "identity")
	s := encode(t, m, b)
	id := topLevel(t, s)[0]
	good := s.Blobs[id]

	msg := blob(t, s, id)
	ret := msg.Declarator.Function.Base.Body.BlockBody.Statements[0].Expression
	ret.Operation.Case = wire.OperationUnset
	bad, err := wire.Marshal(msg)
	require.NoError(t, err)

	store := newBlobs(s)
	store.data[id] = bad
	d, err := NewDecoder(s.Header, store.fetch, resolution(b), Options{})
	require.NoError(t, err)

	_, err = d.Load(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedWire)
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, id, ce.ID)
	assert.Empty(t, d.Files()[0].Declarations)

	store.data[id] = good
	decl, err := d.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "f", ir.NameOf(decl))
	assert.Equal(t, []ir.Declaration{decl}, d.Files()[0].Declarations)
}

func TestUnknownCaseIsUnsupported(t *testing.T) {
	b := ir.NewBuiltins()
	m, _ := irtest.Identity(b, "identity")
	s := encode(t, m, b)
	id := topLevel(t, s)[0]

	msg := blob(t, s, id)
	msg.Declarator.Case = 200
	data, err := wire.Marshal(msg)
	require.NoError(t, err)
	s.Blobs[id] = data

	_, err = Decode(context.Background(), s.Header, newBlobs(s).fetch, resolution(b), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedNodeKind)
}

func TestLazyLoadFetchesOnlyWhatItNeeds(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	s := encode(t, k.Module, b)
	store := newBlobs(s)

	d, err := NewDecoder(s.Header, store.fetch, resolution(b), Options{})
	require.NoError(t, err)
	require.Len(t, d.Files(), 1)

	var kitchenID, derivedID ir.UniqID
	ids := d.TopLevel(d.Files()[0])
	for i, decl := range k.Module.Files[0].Declarations {
		switch decl {
		case k.Kitchen:
			kitchenID = ids[i]
		case k.Derived:
			derivedID = ids[i]
		}
	}
	require.True(t, kitchenID.IsValid())

	fn, err := d.Load(context.Background(), kitchenID)
	require.NoError(t, err)
	assert.Equal(t, "kitchen", ir.NameOf(fn))
	assert.Equal(t, 1, store.fetched[kitchenID])
	assert.Zero(t, store.fetched[derivedID])
	loaded := len(d.Files()[0].Declarations)
	assert.Less(t, loaded, len(ids))

	again, err := d.Load(context.Background(), kitchenID)
	require.NoError(t, err)
	assert.Same(t, fn, again)
	assert.Equal(t, 1, store.fetched[kitchenID])

	m, err := d.Module(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dump(k.Module), dump(m))
	for id, n := range store.fetched {
		assert.Equal(t, 1, n, "blob %s fetched %d times", id, n)
	}
}

func TestFetchFailureNamesIdentity(t *testing.T) {
	b := ir.NewBuiltins()
	m, _ := irtest.Identity(b, "identity")
	s := encode(t, m, b)
	id := topLevel(t, s)[0]

	store := newBlobs(s)
	delete(store.data, id)
	_, err := Decode(context.Background(), s.Header, store.fetch, resolution(b), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, id, ce.ID)
}

func TestLoadOfUnknownIdentity(t *testing.T) {
	b := ir.NewBuiltins()
	m, _ := irtest.Identity(b, "identity")
	s := encode(t, m, b)

	d, err := NewDecoder(s.Header, newBlobs(s).fetch, resolution(b), Options{})
	require.NoError(t, err)
	_, err = d.Load(context.Background(), ir.UniqID(12345))
	assert.ErrorIs(t, err, ErrUnresolvedSymbol)
}

func TestHeaderVersionMismatch(t *testing.T) {
	data, err := wire.Marshal(&wire.Module{Version: wire.FormatVersion + 1, Name: "future"})
	require.NoError(t, err)
	_, err = NewDecoder(data, func(ir.UniqID) ([]byte, error) { return nil, nil }, Resolution{}, Options{})
	assert.ErrorIs(t, err, ErrMalformedWire)

	_, err = NewDecoder([]byte{0xc1}, func(ir.UniqID) ([]byte, error) { return nil, nil }, Resolution{}, Options{})
	assert.ErrorIs(t, err, ErrMalformedWire)
}

func TestEncodeRejectsInvalidGraphs(t *testing.T) {
	b := ir.NewBuiltins()
	unit := b.Type(b.Unit)

	t.Run("break outside its loop", func(t *testing.T) {
		m, fn := irtest.Identity(b, "broken")
		stray := &ir.WhileLoop{}
		fn.Body = &ir.BlockBody{Statements: []ir.Statement{&ir.Break{ExprBase: ir.ExprBase{Type: unit}, Loop: stray}}}
		_, err := Encode(context.Background(), m, Options{})
		assert.ErrorIs(t, err, ErrInvalidGraph)
	})

	t.Run("unbound reference", func(t *testing.T) {
		m, fn := irtest.Identity(b, "dangling")
		fn.Body = &ir.BlockBody{Statements: []ir.Statement{
			&ir.GetValue{ExprBase: ir.ExprBase{Type: unit}, Symbol: ir.NewSymbol(ir.SymbolVariable)},
		}}
		_, err := Encode(context.Background(), m, Options{})
		assert.ErrorIs(t, err, ErrUnresolvedSymbol)
	})

	t.Run("nesting too deep", func(t *testing.T) {
		k := irtest.KitchenSink(b, "deep")
		_, err := Encode(context.Background(), k.Module, Options{MaxDepth: 3})
		assert.ErrorIs(t, err, ErrInvalidGraph)
	})

	t.Run("fake override without real member", func(t *testing.T) {
		o := irtest.FakeOverrides(b, "orphan")
		o.CM.Overridden = nil
		_, err := Encode(context.Background(), o.Module, Options{})
		assert.ErrorIs(t, err, ErrFakeOverrideResolutionAmbiguous)
	})
}

func TestDecodeDepthLimit(t *testing.T) {
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	s := encode(t, k.Module, b)
	_, err := Decode(context.Background(), s.Header, newBlobs(s).fetch, resolution(b), Options{MaxDepth: 4})
	assert.ErrorIs(t, err, ErrMalformedWire)
}
