package irtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
)

func TestKitchenSinkReturnsNullableAny(t *testing.T) {
	b := ir.NewBuiltins()
	k := KitchenSink(b, "kitchen")

	ret, ok := k.Kitchen.ReturnType.(*ir.SimpleType)
	require.True(t, ok, "return type is %T", k.Kitchen.ReturnType)
	assert.True(t, ret.Nullable)
	assert.Same(t, b.Any.Symbol(), ret.Classifier)
	assert.Equal(t, "lang.Any?", ir.TypeString(ret))
}

func TestFixturesShareOnePackage(t *testing.T) {
	b := ir.NewBuiltins()
	identity, _ := Identity(b, "identity")
	for _, m := range []*ir.Module{identity, KitchenSink(b, "kitchen").Module, FakeOverrides(b, "overrides").Module} {
		require.NotEmpty(t, m.Files, m.Name)
		for _, f := range m.Files {
			assert.Equal(t, Package, f.Package, m.Name)
			assert.NotEmpty(t, f.Declarations, m.Name)
		}
	}
}
