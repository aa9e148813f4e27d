package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSession, false},
		{LevelError, ScopeSession, false},
		{LevelPhase, ScopeSession, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeDecl, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.ShouldEmit(tt.scope), "%s.ShouldEmit(%s)", tt.level, tt.scope)
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	span := Begin(tr, ScopeSession, "encode", 0)
	child := Begin(tr, ScopeDecl, "decl:#1", span.ID())
	Point(tr, ScopeNode, "node", "dropped at detail", child.ID())
	child.WithExtra("bytes", "12").End("")
	span.End("ok")

	out := buf.String()
	for _, want := range []string{"→ encode", "→ decl:#1", "← decl:#1 {bytes=12}", "← encode (ok)"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "node", "node point emitted at detail level")
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	snap := ring.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "b", snap[0].Name)
	assert.Equal(t, "d", snap[2].Name)
}

func TestRingTracerCapturesAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	Begin(ring, ScopeDecl, "decl", 0).End("")
	Point(ring, ScopeNode, "node", "", 0)
	assert.Len(t, ring.Snapshot(), 2, "begin and end captured")
}

func TestMultiTracerCopiesEvents(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(4, LevelPhase)
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatNDJSON), ring)
	Begin(multi, ScopeSession, "decode", 0).End("")
	assert.Same(t, ring, multi.Ring())
	assert.Len(t, ring.Snapshot(), 2)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	span := Begin(FromContext(ctx), ScopeSession, "s", 0)
	ctx = WithSpan(ctx, span)
	assert.NotZero(t, span.ID())
	assert.Equal(t, span.ID(), ParentID(ctx))
}

func TestParseLevelAndMode(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	m, err := ParseMode("both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
}
