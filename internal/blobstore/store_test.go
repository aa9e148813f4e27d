package blobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
	"irpack/internal/irser"
	"irpack/internal/irtest"
)

type storeCase struct {
	name string
	open func(t *testing.T) Store
}

func stores() []storeCase {
	return []storeCase{
		{name: KindMemory, open: func(t *testing.T) Store { return NewMemStore() }},
		{name: KindDisk, open: func(t *testing.T) Store {
			s, err := OpenDisk(filepath.Join(t.TempDir(), "blobs"))
			require.NoError(t, err)
			return s
		}},
		{name: KindSQLite, open: func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "blobs.db"))
			require.NoError(t, err)
			return s
		}},
	}
}

func serialize(t *testing.T, b *ir.Builtins, m *ir.Module) *irser.Serialized {
	t.Helper()
	s, err := irser.Encode(context.Background(), m, irser.Options{Builtins: b.Declarations()})
	require.NoError(t, err)
	return s
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "kitchen")
	kitchen := serialize(t, b, k.Module)
	identity, _ := irtest.Identity(b, "identity")
	small := serialize(t, b, identity)

	for _, tc := range stores() {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.open(t)
			t.Cleanup(func() { st.Close() })

			_, err := st.Header(ctx, "kitchen")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.PutModule(ctx, "kitchen", kitchen))
			require.NoError(t, st.PutModule(ctx, "identity", small))

			names, err := st.Modules(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"identity", "kitchen"}, names)

			header, err := st.Header(ctx, "kitchen")
			require.NoError(t, err)
			assert.Equal(t, kitchen.Header, header)

			got, err := Load(ctx, st, "kitchen")
			require.NoError(t, err)
			assert.Equal(t, kitchen.Blobs, got.Blobs)

			_, err = st.Blob(ctx, "kitchen", ir.UniqID(1))
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = st.Blob(ctx, "missing", ir.UniqID(1))
			assert.ErrorIs(t, err, ErrNotFound)

			m, err := irser.Decode(ctx, header, Fetcher(ctx, st, "kitchen"),
				irser.Resolution{Builtins: b.Declarations(), Resolver: irser.NewModuleResolver(b.Module())}, irser.Options{})
			require.NoError(t, err)
			assert.Equal(t, ir.DumpString(k.Module, ir.DumpOptions{SkipFakeOverrides: true}),
				ir.DumpString(m, ir.DumpOptions{SkipFakeOverrides: true}))
		})
	}
}

func TestStoreReplacesModule(t *testing.T) {
	ctx := context.Background()
	b := ir.NewBuiltins()
	k := irtest.KitchenSink(b, "shared")
	before := serialize(t, b, k.Module)
	identity, _ := irtest.Identity(b, "shared")
	after := serialize(t, b, identity)

	for _, tc := range stores() {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.open(t)
			t.Cleanup(func() { st.Close() })

			require.NoError(t, st.PutModule(ctx, "shared", before))
			require.NoError(t, st.PutModule(ctx, "shared", after))

			header, err := st.Header(ctx, "shared")
			require.NoError(t, err)
			assert.Equal(t, after.Header, header)

			ids, err := TopLevel(header)
			require.NoError(t, err)
			require.Len(t, ids, 1)
			for id := range before.Blobs {
				if _, kept := after.Blobs[id]; kept {
					continue
				}
				_, err := st.Blob(ctx, "shared", id)
				assert.ErrorIs(t, err, ErrNotFound)
			}

			names, err := st.Modules(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"shared"}, names)
		})
	}
}

func TestStoreRejectsEmptyModule(t *testing.T) {
	ctx := context.Background()
	for _, tc := range stores() {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.open(t)
			t.Cleanup(func() { st.Close() })
			assert.Error(t, st.PutModule(ctx, "", &irser.Serialized{Header: []byte{0x80}}))
			assert.Error(t, st.PutModule(ctx, "m", &irser.Serialized{}))
			assert.Error(t, st.PutModule(ctx, "m", nil))
		})
	}
}

func TestFetchFailureCarriesNotFound(t *testing.T) {
	ctx := context.Background()
	b := ir.NewBuiltins()
	identity, _ := irtest.Identity(b, "identity")
	s := serialize(t, b, identity)

	st := NewMemStore()
	require.NoError(t, st.PutModule(ctx, "identity", &irser.Serialized{Header: s.Header}))

	_, err := irser.Decode(ctx, s.Header, Fetcher(ctx, st, "identity"),
		irser.Resolution{Builtins: b.Declarations()}, irser.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, irser.ErrFetchFailure)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDiskStoreReopens(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "blobs")
	b := ir.NewBuiltins()
	identity, _ := irtest.Identity(b, "a/b c")
	s := serialize(t, b, identity)

	st, err := OpenDisk(dir)
	require.NoError(t, err)
	require.NoError(t, st.PutModule(ctx, "a/b c", s))
	require.NoError(t, st.Close())

	again, err := OpenDisk(dir)
	require.NoError(t, err)
	names, err := again.Modules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b c"}, names)
	got, err := Load(ctx, again, "a/b c")
	require.NoError(t, err)
	assert.Equal(t, s.Blobs, got.Blobs)
}

func TestOpen(t *testing.T) {
	st, err := Open(KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, st)
	require.NoError(t, st.Close())
	_, err = st.Modules(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = Open("tape", "/dev/null")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Open(KindDisk, "")
	assert.Error(t, err)
}
