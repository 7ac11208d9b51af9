package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoryAssignsUniqueMonotonicIDs(t *testing.T) {
	ids := NewIDGenerator()
	src := NewSourceInfo("<input>")
	f := NewFactory(ids, src)

	a := f.NewIntConstant(0, 1)
	b := f.NewIntConstant(2, 2)
	call := f.NewCall(4, nil, "_+_", []*Expr{a, b})

	seen := CollectIDs(call)
	assert.ElementsMatch(t, []int64{a.ID, b.ID, call.ID}, seen)

	unique := map[int64]bool{}
	for _, id := range seen {
		assert.False(t, unique[id], "duplicate id %d", id)
		unique[id] = true
	}
	assert.Less(t, a.ID, call.ID)
}

func TestCopyWithNewIDPreservesOffsetAndPayload(t *testing.T) {
	ids := NewIDGenerator()
	src := NewSourceInfo("<input>")
	f := NewFactory(ids, src)

	orig := f.NewIdent(7, "x")
	clone := f.CopyWithNewID(orig)

	assert.NotEqual(t, orig.ID, clone.ID)
	assert.Equal(t, orig.Ident.Name, clone.Ident.Name)
	off, ok := src.GetOffset(clone.ID)
	assert.True(t, ok)
	assert.Equal(t, int32(7), off)
}

func TestSourceInfoMacroCallRoundTrip(t *testing.T) {
	ids := NewIDGenerator()
	src := NewSourceInfo("<input>")
	f := NewFactory(ids, src)

	original := f.NewCall(0, nil, "has", nil)
	expanded := f.NewSelect(0, f.NewIdent(0, "x"), "f", true)
	src.SetMacroCall(expanded.ID, original)

	got, ok := src.GetMacroCall(expanded.ID)
	assert.True(t, ok)
	assert.Same(t, original, got)
}
