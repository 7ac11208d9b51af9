package cel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celcore/cel"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/provider"
	"github.com/oxhq/celcore/internal/stdlib"
	"github.com/oxhq/celcore/internal/types"
)

func TestCompileSimpleArithmetic(t *testing.T) {
	e, err := cel.NewEnv()
	require.NoError(t, err)

	out, warnings, err := e.Compile("1 + 2 * 3", "<input>")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	typ, ok := out.Types[out.Expr.ID]
	require.True(t, ok)
	assert.Equal(t, types.KindInt, typ.Kind())
}

func TestCompileUndeclaredReferenceIsError(t *testing.T) {
	e, err := cel.NewEnv()
	require.NoError(t, err)

	_, _, err = e.Compile("unknown_var + 1", "<input>")
	require.Error(t, err)

	var ce *cel.CompileError
	require.ErrorAs(t, err, &ce)
	assert.NotEmpty(t, ce.Issues())
	assert.Contains(t, ce.Render(), "ERROR")
}

func TestCompileWithCustomIdentAndStructProvider(t *testing.T) {
	sp := provider.NewSimpleProvider()
	sp.RegisterStruct("my.pkg.Person", map[string]*provider.FieldDecl{
		"name": {Type: types.String()},
		"age":  {Type: types.Int()},
	})

	e, err := cel.NewEnv(
		cel.TypeProvider(sp),
		cel.Declarations([]*env.VarDecl{
			{Name: "person", Type: types.NewStruct("my.pkg.Person")},
		}, nil),
	)
	require.NoError(t, err)

	out, _, err := e.Compile("person.name == \"Alice\" && person.age >= 18", "<input>")
	require.NoError(t, err)
	typ := out.Types[out.Expr.ID]
	assert.Equal(t, types.KindBool, typ.Kind())
}

func TestExtendLayersDeclarationsWithoutMutatingParent(t *testing.T) {
	base, err := cel.NewEnv()
	require.NoError(t, err)

	extended, err := base.Extend(cel.Declarations([]*env.VarDecl{
		{Name: "x", Type: types.Int()},
	}, nil))
	require.NoError(t, err)

	_, _, err = extended.Compile("x + 1", "<input>")
	require.NoError(t, err)

	_, _, err = base.Compile("x + 1", "<input>")
	require.Error(t, err)
}

func TestCompileTypeRejectsMismatchedExpectedRootType(t *testing.T) {
	e, err := cel.NewEnv()
	require.NoError(t, err)

	_, _, err = e.CompileType("{1:2u, 2:3u}", "<input>", types.NewMap(types.Int(), types.Bool()))
	require.Error(t, err)

	var ce *cel.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "expected type does not match")
}

func TestCompileTypeAcceptsMatchingExpectedRootType(t *testing.T) {
	e, err := cel.NewEnv()
	require.NoError(t, err)

	out, _, err := e.CompileType("{1:2u, 2:3u}", "<input>", types.NewMap(types.Int(), types.Uint()))
	require.NoError(t, err)
	assert.Equal(t, types.KindMap, out.Types[out.Expr.ID].Kind())
}

func TestMutuallyExclusiveStdlibFiltersRejectedAtConstruction(t *testing.T) {
	_, err := cel.NewEnv(cel.StdlibConfig(stdlib.Config{
		IncludeFunctions: []string{"_+_"},
		ExcludeFunctions: []string{"_-_"},
	}))
	require.Error(t, err)
}
