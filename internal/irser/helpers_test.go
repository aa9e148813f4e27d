package irser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"irpack/internal/ir"
	"irpack/internal/wire"
)

// blobs is an in-memory blob store that counts fetches.
type blobs struct {
	data    map[ir.UniqID][]byte
	fetched map[ir.UniqID]int
}

func newBlobs(s *Serialized) *blobs {
	data := make(map[ir.UniqID][]byte, len(s.Blobs))
	for id, b := range s.Blobs {
		data[id] = b
	}
	return &blobs{data: data, fetched: make(map[ir.UniqID]int)}
}

func (b *blobs) fetch(id ir.UniqID) ([]byte, error) {
	b.fetched[id]++
	data, ok := b.data[id]
	if !ok {
		return nil, fmt.Errorf("no blob %s", id)
	}
	return data, nil
}

func resolution(b *ir.Builtins, deps ...*ir.Module) Resolution {
	mods := append([]*ir.Module{b.Module()}, deps...)
	return Resolution{Builtins: b.Declarations(), Resolver: NewModuleResolver(mods...)}
}

func encode(t *testing.T, m *ir.Module, b *ir.Builtins) *Serialized {
	t.Helper()
	s, err := Encode(context.Background(), m, Options{Builtins: b.Declarations()})
	require.NoError(t, err)
	return s
}

func decode(t *testing.T, s *Serialized, b *ir.Builtins, deps ...*ir.Module) *ir.Module {
	t.Helper()
	m, err := Decode(context.Background(), s.Header, newBlobs(s).fetch, resolution(b, deps...), Options{})
	require.NoError(t, err)
	return m
}

func header(t *testing.T, s *Serialized) wire.Module {
	t.Helper()
	var h wire.Module
	require.NoError(t, wire.Unmarshal(s.Header, &h))
	return h
}

func blob(t *testing.T, s *Serialized, id ir.UniqID) *wire.Declaration {
	t.Helper()
	var d wire.Declaration
	require.NoError(t, wire.Unmarshal(s.Blobs[id], &d))
	return &d
}

// topLevel returns the identities of the first file's declarations.
func topLevel(t *testing.T, s *Serialized) []ir.UniqID {
	t.Helper()
	h := header(t, s)
	require.NotEmpty(t, h.Files)
	ids := make([]ir.UniqID, 0, len(h.Files[0].Declarations))
	for _, raw := range h.Files[0].Declarations {
		ids = append(ids, ir.UniqID(raw))
	}
	return ids
}

func dump(m *ir.Module) string {
	return ir.DumpString(m, ir.DumpOptions{SkipFakeOverrides: true})
}

func findDecl(t *testing.T, m *ir.Module, name string) ir.Declaration {
	t.Helper()
	for _, f := range m.Files {
		for _, d := range f.Declarations {
			if ir.NameOf(d) == name {
				return d
			}
		}
	}
	require.FailNowf(t, "no top-level declaration", "%q in %s", name, m.Name)
	return nil
}

func member(t *testing.T, c *ir.Class, name string) ir.Declaration {
	t.Helper()
	for _, d := range c.Declarations {
		if ir.NameOf(d) == name {
			return d
		}
	}
	require.FailNowf(t, "no member", "%q in %s", name, c.Name)
	return nil
}
