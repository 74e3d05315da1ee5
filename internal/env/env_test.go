package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-minic/internal/env"
	"github.com/cwbudde/go-minic/internal/types"
)

func TestDeclareAndResolve(t *testing.T) {
	e := env.New()
	entry := e.Declare("x", types.INT)
	got, ok := e.Resolve("x")
	require.True(t, ok)
	assert.Same(t, entry, got)
}

func TestResolveWalksOuterFrames(t *testing.T) {
	e := env.New()
	outer := e.Declare("x", types.INT)
	e.PushFrame()
	got, ok := e.Resolve("x")
	require.True(t, ok)
	assert.Same(t, outer, got)
}

func TestInnerDeclarationShadowsOuter(t *testing.T) {
	e := env.New()
	e.Declare("x", types.INT)
	e.PushFrame()
	inner := e.Declare("x", types.BOOLEAN)
	got, ok := e.Resolve("x")
	require.True(t, ok)
	assert.Same(t, inner, got)
}

func TestPopFrameRestoresOuterBinding(t *testing.T) {
	e := env.New()
	outer := e.Declare("x", types.INT)
	e.PushFrame()
	e.Declare("x", types.BOOLEAN)
	e.PopFrame()
	got, ok := e.Resolve("x")
	require.True(t, ok)
	assert.Same(t, outer, got)
}

func TestDeclaredInCurrentFrameOnlyLooksAtInnermost(t *testing.T) {
	e := env.New()
	e.Declare("x", types.INT)
	e.PushFrame()
	assert.False(t, e.DeclaredInCurrentFrame("x"))
	e.Declare("x", types.BOOLEAN)
	assert.True(t, e.DeclaredInCurrentFrame("x"))
}

func TestEntriesGetStableIncreasingIDs(t *testing.T) {
	e := env.New()
	a := e.Declare("a", types.INT)
	b := e.Declare("b", types.INT)
	assert.Less(t, a.ID, b.ID)
	assert.Equal(t, 2, e.NumEntries())
}

func TestPopGlobalFramePanics(t *testing.T) {
	e := env.New()
	assert.Panics(t, func() { e.PopFrame() })
}

func TestDeclareErrorMarksEntryAndBindsName(t *testing.T) {
	e := env.New()
	entry := e.DeclareError("ghost")
	assert.True(t, entry.Error)
	got, ok := e.Resolve("ghost")
	require.True(t, ok)
	assert.Same(t, entry, got)
}
