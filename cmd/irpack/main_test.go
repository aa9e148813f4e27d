package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"irpack/internal/version"
	"irpack/internal/wire"
)

// run executes one CLI invocation and returns its standard output.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root, env := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath, "--color", "off"}, args...))
	err := root.Execute()
	env.finish(&errOut, err != nil)
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irpack.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSampleDumpPrintCopy(t *testing.T) {
	cfg := writeConfig(t, "[store]\nkind = \"disk\"\npath = \"blobs\"\n")

	out, err := run(t, cfg, "sample", "kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote kitchen")

	out, err = run(t, cfg, "dump", "kitchen", "--format", "json")
	require.NoError(t, err)
	var report moduleReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "kitchen", report.Module)
	assert.Equal(t, wire.FormatVersion, report.FormatVersion)
	require.Len(t, report.Files, 1)
	require.NotEmpty(t, report.Files[0].Blobs)
	assert.Equal(t, "class", report.Files[0].Blobs[0].Kind)
	assert.Equal(t, "Marker", report.Files[0].Blobs[0].Name)
	assert.Positive(t, report.BlobBytes)

	out, err = run(t, cfg, "dump", "kitchen", "--format", "yaml")
	require.NoError(t, err)
	var fromYAML moduleReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, report, fromYAML)

	out, err = run(t, cfg, "dump", "kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "module kitchen")
	assert.Contains(t, out, "Marker")

	out, err = run(t, cfg, "print", "kitchen")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "MODULE kitchen"), out)

	out, err = run(t, cfg, "print", "kitchen", report.Files[0].Blobs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Marker")
	assert.NotContains(t, out, "MODULE")

	db := filepath.Join(t.TempDir(), "copy.db")
	out, err = run(t, cfg, "copy", "kitchen", "--verify", "--to", "sqlite:"+db)
	require.NoError(t, err)
	assert.Contains(t, out, "copied kitchen")

	out, err = run(t, cfg, "--store", "sqlite:"+db, "dump", "kitchen", "--format", "json")
	require.NoError(t, err)
	var copied moduleReport
	require.NoError(t, json.Unmarshal([]byte(out), &copied))
	assert.Equal(t, report, copied)

	out, err = run(t, cfg, "--store", "sqlite:"+db, "list")
	require.NoError(t, err)
	assert.Equal(t, "kitchen\n", out)
}

func TestPrintFailures(t *testing.T) {
	cfg := writeConfig(t, "[store]\nkind = \"disk\"\npath = \"blobs\"\n")

	_, err := run(t, cfg, "print", "missing")
	assert.Error(t, err)

	_, err = run(t, cfg, "sample", "identity", "--kind", "identity")
	require.NoError(t, err)
	_, err = run(t, cfg, "print", "identity", "#ffff")
	assert.Error(t, err)
	_, err = run(t, cfg, "print", "identity", "nope")
	assert.Error(t, err)
}

func TestStoreFlagValidation(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, cfg, "--store", "tape:/x", "list")
	assert.Error(t, err)
	_, err = run(t, cfg, "--store", "disk", "list")
	assert.Error(t, err)
	_, err = run(t, cfg, "--color", "sometimes", "version")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, cfg, "version", "--format", "json")
	require.NoError(t, err)
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
	assert.Equal(t, wire.FormatVersion, info.FormatVersion)
	assert.Empty(t, info.GitCommit)

	out, err = run(t, cfg, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "irpack "+version.Version)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "#1f", want: 0x1f},
		{in: "0x1f", want: 0x1f},
		{in: "31", want: 31},
		{in: "0", wantErr: true},
		{in: "#", wantErr: true},
		{in: "x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, uint64(got))
	}
}
