package overrides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
)

type hierarchy struct {
	file *ir.File
}

func newHierarchy() *hierarchy {
	return &hierarchy{file: &ir.File{Name: "h.kt", Package: "h"}}
}

func (h *hierarchy) class(name string) *ir.Class {
	c := ir.Declare(&ir.Class{Name: name, Modality: ir.ModalityOpen})
	h.file.AddDeclaration(c)
	return c
}

func member(owner *ir.Class, name string, fake bool, overrides ...*ir.Function) *ir.Function {
	fn := ir.Declare(&ir.Function{
		FunctionBase: ir.FunctionBase{Name: name},
		Modality:     ir.ModalityOpen,
	})
	if fake {
		fn.Origin = ir.OriginFakeOverride
	}
	for _, o := range overrides {
		fn.Overridden = append(fn.Overridden, o.Symbol())
	}
	owner.AddDeclaration(fn)
	return fn
}

func names(ds []ir.Declaration) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = ir.QualifiedName(d)
	}
	return out
}

func TestResolveLinearChain(t *testing.T) {
	h := newHierarchy()
	am := member(h.class("A"), "m", false)
	bm := member(h.class("B"), "m", false, am)
	cm := member(h.class("C"), "m", true, bm, am)

	got, err := Resolve(cm)
	require.NoError(t, err)
	assert.Equal(t, names([]ir.Declaration{bm}), names(got))
}

func TestResolveDiamond(t *testing.T) {
	h := newHierarchy()
	am := member(h.class("A"), "m", false)
	bm := member(h.class("B"), "m", true, am)
	cm := member(h.class("C"), "m", true, am)
	dm := member(h.class("D"), "m", true, bm, cm)

	got, err := Resolve(dm)
	require.NoError(t, err)
	assert.Equal(t, names([]ir.Declaration{am}), names(got))
}

func TestResolveKeepsIndependentRealMembersDeepestFirst(t *testing.T) {
	h := newHierarchy()
	im := member(h.class("I"), "m", false)
	jm := member(h.class("J"), "m", false)
	km := member(h.class("K"), "m", false, jm)
	xm := member(h.class("X"), "m", true, im, km)

	got, err := Resolve(xm)
	require.NoError(t, err)
	assert.Equal(t, names([]ir.Declaration{km, im}), names(got))

	rep, err := Representative(xm)
	require.NoError(t, err)
	assert.Same(t, km, rep, ir.QualifiedName(rep))
}

func TestResolveIsDeterministic(t *testing.T) {
	h := newHierarchy()
	im := member(h.class("I"), "m", false)
	jm := member(h.class("J"), "m", false)
	xm := member(h.class("X"), "m", true, jm, im)

	for i := 0; i < 20; i++ {
		got, err := Resolve(xm)
		require.NoError(t, err)
		require.Equal(t, names([]ir.Declaration{jm, im}), names(got))
	}
}

func TestResolveRealMemberIsItself(t *testing.T) {
	h := newHierarchy()
	am := member(h.class("A"), "m", false)
	got, err := Resolve(am)
	require.NoError(t, err)
	assert.Equal(t, names([]ir.Declaration{am}), names(got))
}

func TestResolveWithoutRealMember(t *testing.T) {
	h := newHierarchy()
	orphan := member(h.class("A"), "m", true)
	_, err := Resolve(orphan)
	assert.ErrorIs(t, err, ErrNoRealMember)
}

func TestResolveFakeOverrideProperty(t *testing.T) {
	h := newHierarchy()
	a := h.class("A")
	base := ir.Declare(&ir.Property{Name: "p"})
	a.AddDeclaration(base)
	baseGet := ir.NewAccessor(base, false, nil)

	b := h.class("B")
	fake := ir.Declare(&ir.Property{Name: "p"})
	fake.Origin = ir.OriginFakeOverride
	b.AddDeclaration(fake)
	fakeGet := ir.NewAccessor(fake, false, nil)
	fakeGet.Origin = ir.OriginFakeOverride
	fakeGet.Overridden = []*ir.Symbol{baseGet.Symbol()}

	got, err := Resolve(fake)
	require.NoError(t, err)
	assert.Equal(t, names([]ir.Declaration{base}), names(got))
}
