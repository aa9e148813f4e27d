package irser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
)

func TestDeclIndexAssignsSaltedSequence(t *testing.T) {
	b := ir.NewBuiltins()
	x := NewDeclIndex("mod")
	require.NoError(t, x.Seed(b.Declarations()))
	assert.Equal(t, len(b.Declarations()), x.Len())

	first, ok := x.ValueOf(1)
	require.True(t, ok)
	assert.Same(t, b.Any, first)
	assert.Equal(t, b.Int.Base().UniqID, x.IndexOf(b.Int))

	fresh := ir.Declare(&ir.Class{Name: "C"})
	got := x.IndexOf(fresh)
	assert.Equal(t, ModuleSalt("mod"), SaltOf(got))
	assert.Equal(t, got, x.IndexOf(fresh))

	other := ir.Declare(&ir.Class{Name: "D"})
	assert.Equal(t, got+1, x.IndexOf(other))
}

func TestDeclIndexReservesRecordedIdentities(t *testing.T) {
	x := NewDeclIndex("mod")
	salt := ModuleSalt("mod")

	kept := ir.Declare(&ir.Class{Name: "Kept"})
	kept.UniqID = ir.UniqID(salt<<seqBits | 1)
	x.Reserve(kept)

	// A fresh declaration skips the reserved slot.
	fresh := ir.Declare(&ir.Class{Name: "Fresh"})
	assert.Equal(t, ir.UniqID(salt<<seqBits|2), x.IndexOf(fresh))
	assert.Equal(t, kept.UniqID, x.IndexOf(kept))

	// A clashing recorded identity falls back to a fresh one.
	clash := ir.Declare(&ir.Class{Name: "Clash"})
	clash.UniqID = kept.UniqID
	assert.NotEqual(t, kept.UniqID, x.IndexOf(clash))
}

func TestDeclIndexSeedRejectsMisnumberedBuiltins(t *testing.T) {
	b := ir.NewBuiltins()
	decls := append([]ir.Declaration(nil), b.Declarations()...)
	decls[0], decls[1] = decls[1], decls[0]
	assert.Error(t, NewDeclIndex("mod").Seed(decls))
}

func TestModuleSaltIsStableAndNonZero(t *testing.T) {
	assert.Equal(t, ModuleSalt("core"), ModuleSalt("core"))
	assert.NotEqual(t, ModuleSalt("core"), ModuleSalt("app"))
	for _, name := range []string{"", "a", "b", "<builtins>"} {
		assert.NotZero(t, ModuleSalt(name))
		assert.Less(t, ModuleSalt(name), uint64(1)<<24)
	}
	assert.Zero(t, SaltOf(ir.UniqID(42)))
}

func TestLoopTable(t *testing.T) {
	enc := NewLoopTable()
	outer, inner := &ir.WhileLoop{}, &ir.DoWhileLoop{}
	assert.Equal(t, int32(1), enc.Enter(outer))
	assert.Equal(t, int32(2), enc.Enter(inner))
	assert.Equal(t, int32(1), enc.Enter(outer))
	id, ok := enc.IDOf(inner)
	assert.True(t, ok)
	assert.Equal(t, int32(2), id)
	_, ok = enc.IDOf(&ir.WhileLoop{})
	assert.False(t, ok)

	dec := NewLoopTable()
	require.NoError(t, dec.Register(1, outer))
	assert.Error(t, dec.Register(1, inner))
	assert.Error(t, dec.Register(0, inner))
	l, ok := dec.Lookup(1)
	assert.True(t, ok)
	assert.Same(t, outer, l)
	_, ok = dec.Lookup(2)
	assert.False(t, ok)
}
