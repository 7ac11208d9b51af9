package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/stdlib"
	"github.com/oxhq/celcore/internal/types"
)

func TestBuildDeclaresArithmeticAndComparison(t *testing.T) {
	en, reg, is := stdlib.Build("", stdlib.Config{}, nil, nil)
	require.False(t, is.HasErrors())
	require.NotNil(t, reg)

	fn, ok := en.LookupFunction("_+_")
	require.True(t, ok)
	assert.NotEmpty(t, fn.Overloads)

	_, ok = en.LookupFunction("_<_")
	require.True(t, ok)
}

func TestHeterogeneousComparisonGatedByConfig(t *testing.T) {
	off, _, is := stdlib.Build("", stdlib.Config{}, nil, nil)
	require.False(t, is.HasErrors())
	fn, _ := off.LookupFunction("_<_")
	for _, o := range fn.Overloads {
		assert.Equal(t, o.ArgTypes[0].Kind(), o.ArgTypes[1].Kind(), "same-type only when heterogeneous comparisons disabled")
	}

	on, _, is := stdlib.Build("", stdlib.Config{EnableHeterogeneousNumericComparisons: true}, nil, nil)
	require.False(t, is.HasErrors())
	fn, _ = on.LookupFunction("_<_")
	foundCross := false
	for _, o := range fn.Overloads {
		if o.ArgTypes[0].Kind() != o.ArgTypes[1].Kind() {
			foundCross = true
		}
	}
	assert.True(t, foundCross)
}

func TestTimestampEpochConversionGatedByConfig(t *testing.T) {
	off, _, _ := stdlib.Build("", stdlib.Config{}, nil, nil)
	fn, _ := off.LookupFunction("timestamp")
	for _, o := range fn.Overloads {
		assert.NotEqual(t, types.KindInt, o.ArgTypes[0].Kind())
	}

	on, _, _ := stdlib.Build("", stdlib.Config{EnableTimestampEpoch: true}, nil, nil)
	fn, _ = on.LookupFunction("timestamp")
	foundEpoch := false
	for _, o := range fn.Overloads {
		if o.ArgTypes[0].Kind() == types.KindInt {
			foundEpoch = true
		}
	}
	assert.True(t, foundEpoch)
}

func TestFunctionExcludeFilter(t *testing.T) {
	en, _, is := stdlib.Build("", stdlib.Config{ExcludeFunctions: []string{"_%_"}}, nil, nil)
	require.False(t, is.HasErrors())
	_, ok := en.LookupFunction("_%_")
	assert.False(t, ok)
	_, ok = en.LookupFunction("_+_")
	assert.True(t, ok)
}

func TestFunctionIncludeFilter(t *testing.T) {
	en, _, is := stdlib.Build("", stdlib.Config{IncludeFunctions: []string{"_+_"}}, nil, nil)
	require.False(t, is.HasErrors())
	_, ok := en.LookupFunction("_+_")
	assert.True(t, ok)
	_, ok = en.LookupFunction("_-_")
	assert.False(t, ok)
}

func TestMutuallyExclusiveFunctionFiltersIsConfigError(t *testing.T) {
	_, _, is := stdlib.Build("", stdlib.Config{
		IncludeFunctions: []string{"_+_"},
		ExcludeFunctions: []string{"_-_"},
	}, nil, nil)
	require.True(t, is.HasErrors())
	assert.Equal(t, issues.CodeMutuallyExclusiveFilters, is.All()[0].Code)
}

func TestCustomIdentsFilteredAndDeclared(t *testing.T) {
	idents := []*env.VarDecl{
		{Name: "request_size", Type: types.Int()},
		{Name: "secret_key", Type: types.String()},
	}
	en, _, is := stdlib.Build("", stdlib.Config{ExcludeIdents: []string{"secret_key"}}, idents, nil)
	require.False(t, is.HasErrors())

	_, ok := en.LookupIdent("request_size")
	assert.True(t, ok)
	_, ok = en.LookupIdent("secret_key")
	assert.False(t, ok)
}

func TestCustomFunctionCollisionWithStandardOverloadIsOverrideError(t *testing.T) {
	custom := map[string][]*env.OverloadDecl{
		"_+_": {{ID: "add_int", ArgTypes: []*types.Type{types.Int(), types.Int()}, ResultType: types.Int()}},
	}
	_, _, is := stdlib.Build("", stdlib.Config{}, nil, custom)
	require.True(t, is.HasErrors())
	assert.Equal(t, issues.CodeOverrideStandardDecl, is.All()[0].Code)
}

func TestSizeHasGlobalAndInstanceStyleOverloads(t *testing.T) {
	en, _, _ := stdlib.Build("", stdlib.Config{}, nil, nil)
	fn, ok := en.LookupFunction("size")
	require.True(t, ok)
	var hasGlobal, hasInstance bool
	for _, o := range fn.Overloads {
		if o.IsInstance {
			hasInstance = true
		} else {
			hasGlobal = true
		}
	}
	assert.True(t, hasGlobal)
	assert.True(t, hasInstance)
}

func TestTimestampAccessorsDeclared(t *testing.T) {
	en, _, _ := stdlib.Build("", stdlib.Config{}, nil, nil)
	fn, ok := en.LookupFunction("getFullYear")
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(fn.Overloads), 2) // zero-arg + timezone-arg
}
