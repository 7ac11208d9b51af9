package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celcore/internal/types"
)

func newTestProvider() *SimpleProvider {
	p := NewSimpleProvider()
	p.RegisterStruct("pkg.Request", map[string]*FieldDecl{
		"user":    {Type: types.NewStruct("pkg.User")},
		"secret":  {Type: types.String()},
		"trace_id": {Type: types.String()},
	})
	p.RegisterStruct("pkg.User", map[string]*FieldDecl{
		"name": {Type: types.String()},
		"ssn":  {Type: types.String()},
	})
	return p
}

func TestFieldMaskerRestrictsRootFields(t *testing.T) {
	inner := newTestProvider()
	masked := NewFieldMasker(inner, "pkg.Request", []string{"user", "trace_id"})

	names, ok := masked.FieldNames("pkg.Request")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"user", "trace_id"}, names)

	_, ok = masked.FieldType("pkg.Request", "secret")
	assert.False(t, ok)

	_, ok = masked.FieldType("pkg.Request", "user")
	assert.True(t, ok)
}

func TestFieldMaskerWildcardAllowsEverything(t *testing.T) {
	inner := newTestProvider()
	masked := NewFieldMasker(inner, "pkg.Request", []string{"*"})

	names, ok := masked.FieldNames("pkg.Request")
	require.True(t, ok)
	assert.Len(t, names, 3)
}

func TestFieldMaskerDoesNotFilterOtherStructs(t *testing.T) {
	inner := newTestProvider()
	masked := NewFieldMasker(inner, "pkg.Request", []string{"trace_id"})

	names, ok := masked.FieldNames("pkg.User")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"name", "ssn"}, names)
}

func TestFieldMaskerPromotedFields(t *testing.T) {
	inner := newTestProvider()
	masked := NewFieldMasker(inner, "pkg.Request", []string{"trace_id"})

	promoted := masked.PromotedFields()
	require.Len(t, promoted, 1)
	assert.Equal(t, "trace_id", promoted[0].Name)
	assert.True(t, promoted[0].Type.Equal(types.String()))
}

func TestFieldMaskerGlobMask(t *testing.T) {
	inner := NewSimpleProvider()
	inner.RegisterStruct("pkg.Big", map[string]*FieldDecl{
		"field_a": {Type: types.Int()},
		"field_b": {Type: types.Int()},
		"other":   {Type: types.Int()},
	})
	masked := NewFieldMasker(inner, "pkg.Big", []string{"field_*"})
	names, ok := masked.FieldNames("pkg.Big")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"field_a", "field_b"}, names)
}
