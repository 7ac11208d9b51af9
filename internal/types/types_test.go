package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualStructural(t *testing.T) {
	a := NewList(Int())
	b := NewList(Int())
	c := NewList(String())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqualOpaqueByNameAndArity(t *testing.T) {
	a := NewOpaque("vector", Int())
	b := NewOpaque("vector", Int())
	c := NewOpaque("vector", String())
	d := NewOpaque("matrix", Int())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "list(int)", NewList(Int()).String())
	assert.Equal(t, "map(string, dyn)", NewMap(String(), Dyn()).String())
	assert.Equal(t, "nullable(int)", NewNullable(Int()).String())
	assert.Equal(t, "my.pkg.Msg", NewStruct("my.pkg.Msg").String())
}

func TestDefaultUnionTypesOrderAndContent(t *testing.T) {
	anchors := DefaultUnionTypes()
	assert.Len(t, anchors, 8)
	assert.Equal(t, KindNullable, anchors[0].Kind())
	assert.True(t, anchors[len(anchors)-1].IsDyn())
}
