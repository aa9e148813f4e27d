package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irpack/internal/blobstore"
	"irpack/internal/ir"
	"irpack/internal/irser"
	"irpack/internal/trace"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(`
[store]
kind = "sqlite"
path = "irpack.db"
`)
	require.NoError(t, err)
	assert.Equal(t, irser.DefaultMaxDepth, cfg.Codec.MaxDepth)
	assert.Equal(t, blobstore.KindSQLite, cfg.Store.Kind)
	assert.Equal(t, "irpack.db", cfg.Store.Path)
	assert.Equal(t, "off", cfg.Trace.Level)
	assert.Equal(t, 4096, cfg.Trace.RingSize)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unknown key", text: "[codec]\nmax_depht = 3\n", want: ErrUnknownKey},
		{name: "unknown section", text: "[cache]\ndir = \"x\"\n", want: ErrUnknownKey},
		{name: "negative depth", text: "[codec]\nmax_depth = -1\n", want: ErrInvalidValue},
		{name: "store kind", text: "[store]\nkind = \"tape\"\n", want: ErrInvalidValue},
		{name: "store path", text: "[store]\nkind = \"disk\"\npath = \"\"\n", want: ErrInvalidValue},
		{name: "trace level", text: "[trace]\nlevel = \"loud\"\n", want: ErrInvalidValue},
		{name: "trace mode", text: "[trace]\nmode = \"tape\"\n", want: ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse("[codec\n")
	assert.Error(t, err)
}

func TestCodecAndTraceMapping(t *testing.T) {
	cfg, err := Parse(`
[codec]
max_depth = 128

[trace]
level = "detail"
mode = "both"
output = "trace.ndjson"
ring_size = 16
`)
	require.NoError(t, err)

	b := ir.NewBuiltins()
	opts := cfg.CodecOptions(b.Declarations())
	assert.Equal(t, 128, opts.MaxDepth)
	assert.Len(t, opts.Builtins, len(b.Declarations()))

	tc, err := cfg.TraceConfig()
	require.NoError(t, err)
	assert.Equal(t, trace.LevelDetail, tc.Level)
	assert.Equal(t, trace.ModeBoth, tc.Mode)
	assert.Equal(t, "trace.ndjson", tc.OutputPath)
	assert.Equal(t, 16, tc.RingSize)
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[store]\nkind = \"disk\"\npath = \"blobs\"\n"), 0o600))

	found, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "blobs"), cfg.StorePath())

	st, err := cfg.OpenStore()
	require.NoError(t, err)
	require.NoError(t, st.Close())
	assert.DirExists(t, filepath.Join(root, "blobs"))
}

func TestResolveWithoutFile(t *testing.T) {
	cfg, err := Resolve("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)
}
