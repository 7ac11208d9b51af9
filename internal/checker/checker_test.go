package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/checker"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/macros"
	"github.com/oxhq/celcore/internal/ops"
	"github.com/oxhq/celcore/internal/parser"
	"github.com/oxhq/celcore/internal/provider"
	"github.com/oxhq/celcore/internal/source"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

func mustParse(t *testing.T, text string) *ast.AST {
	t.Helper()
	src := source.New(text, "<test>")
	a, is := parser.Parse(src, macros.NewStandardRegistry(), parser.DefaultOptions())
	require.False(t, is.HasErrors(), "unexpected parse errors: %v", is.All())
	return a
}

// arithmeticEnv declares the handful of operator overloads the tests below
// exercise, standing in for internal/stdlib so these tests do not depend
// on it.
func arithmeticEnv() *env.Env {
	e := env.NewEnv("")
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(e.DeclareFunction(ops.Add,
		&env.OverloadDecl{ID: "add_int", ArgTypes: []*types.Type{types.Int(), types.Int()}, ResultType: types.Int()},
		&env.OverloadDecl{ID: "add_double", ArgTypes: []*types.Type{types.Double(), types.Double()}, ResultType: types.Double()},
	))
	must(e.DeclareFunction(ops.Greater,
		&env.OverloadDecl{ID: "gt_int", ArgTypes: []*types.Type{types.Int(), types.Int()}, ResultType: types.Bool()},
	))
	must(e.DeclareFunction(ops.LogicalAnd,
		&env.OverloadDecl{ID: "logical_and", ArgTypes: []*types.Type{types.Bool(), types.Bool()}, ResultType: types.Bool()},
	))
	must(e.DeclareFunction(ops.NotStrictlyFalse,
		&env.OverloadDecl{ID: "not_strictly_false", ArgTypes: []*types.Type{types.Bool()}, ResultType: types.Bool()},
	))
	must(e.DeclareFunction(ops.Index,
		&env.OverloadDecl{
			ID: "index_list", ArgTypes: []*types.Type{types.NewList(types.NewTypeParam("T")), types.Int()},
			ResultType: types.NewTypeParam("T"), TypeParams: []string{"T"},
		},
		&env.OverloadDecl{
			ID: "index_map", ArgTypes: []*types.Type{types.NewMap(types.NewTypeParam("K"), types.NewTypeParam("V")), types.NewTypeParam("K")},
			ResultType: types.NewTypeParam("V"), TypeParams: []string{"K", "V"},
		},
	))
	must(e.DeclareFunction(ops.Size,
		&env.OverloadDecl{
			ID: "size_list_instance", IsInstance: true,
			ArgTypes: []*types.Type{types.NewList(types.NewTypeParam("T"))}, ResultType: types.Int(), TypeParams: []string{"T"},
		},
	))
	return e
}

func TestConstantTypes(t *testing.T) {
	cases := map[string]types.Kind{
		"1":     types.KindInt,
		"1.5":   types.KindDouble,
		"true":  types.KindBool,
		"'s'":   types.KindString,
		"null":  types.KindNull,
		"b'x'":  types.KindBytes,
		"1u":    types.KindUint,
	}
	for text, want := range cases {
		a := mustParse(t, text)
		c := checker.New(provider.NewSimpleProvider(), unify.New())
		res := c.Check(a.Expr, a.Source, env.NewEnv(""))
		ty, ok := res.TypeOf(a.Expr.ID)
		require.True(t, ok, text)
		assert.Equal(t, want, ty.Kind(), text)
	}
}

func TestIdentResolutionAndUndeclared(t *testing.T) {
	en := env.NewEnv("")
	require.NoError(t, en.DeclareIdent("x", &env.VarDecl{Name: "x", Type: types.Int()}))

	a := mustParse(t, "x")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindInt, ty.Kind())
	ref, ok := res.ReferenceOf(a.Expr.ID)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)

	a2 := mustParse(t, "y")
	en2 := env.NewEnv("")
	c2 := checker.New(provider.NewSimpleProvider(), unify.New())
	res2 := c2.Check(a2.Expr, a2.Source, en2)
	ty2, _ := res2.TypeOf(a2.Expr.ID)
	assert.True(t, ty2.IsError())
	assert.True(t, en2.Errors().HasErrors())
}

func TestArithmeticOverloadResolution(t *testing.T) {
	a := mustParse(t, "1 + 2")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, arithmeticEnv())
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindInt, ty.Kind())
	ref, ok := res.ReferenceOf(a.Expr.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"add_int"}, ref.OverloadIDs)
}

func TestNoMatchingOverloadRecordsError(t *testing.T) {
	a := mustParse(t, "1 + 2.0")
	en := arithmeticEnv()
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.True(t, ty.IsError())
	assert.True(t, en.Errors().HasErrors())
}

func TestGenericIndexOverloadBindsTypeParam(t *testing.T) {
	en := arithmeticEnv()
	require.NoError(t, en.DeclareIdent("lst", &env.VarDecl{Name: "lst", Type: types.NewList(types.Int())}))

	a := mustParse(t, "lst[0]")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindInt, ty.Kind())
}

func TestConditionalIsLUBOfBranches(t *testing.T) {
	a := mustParse(t, "true ? 1 : 1")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, env.NewEnv(""))
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindInt, ty.Kind())

	a2 := mustParse(t, "true ? 1 : 2.0")
	c2 := checker.New(provider.NewSimpleProvider(), unify.New())
	res2 := c2.Check(a2.Expr, a2.Source, env.NewEnv(""))
	ty2, _ := res2.TypeOf(a2.Expr.ID)
	assert.Equal(t, types.KindDyn, ty2.Kind())
}

func TestCreateListLUB(t *testing.T) {
	a := mustParse(t, "[1, 2, 3]")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, env.NewEnv(""))
	ty, _ := res.TypeOf(a.Expr.ID)
	require.Equal(t, types.KindList, ty.Kind())
	assert.Equal(t, types.KindInt, ty.Elem().Kind())

	a2 := mustParse(t, "[]")
	c2 := checker.New(provider.NewSimpleProvider(), unify.New())
	res2 := c2.Check(a2.Expr, a2.Source, env.NewEnv(""))
	ty2, _ := res2.TypeOf(a2.Expr.ID)
	assert.Equal(t, types.KindDyn, ty2.Elem().Kind())
}

func TestCreateMapLUBAndOptionalEntry(t *testing.T) {
	a := mustParse(t, `{"a": 1, ?"b": 2}`)
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, env.NewEnv(""))
	ty, _ := res.TypeOf(a.Expr.ID)
	require.Equal(t, types.KindMap, ty.Kind())
	assert.Equal(t, types.KindString, ty.Key().Kind())
	assert.Equal(t, types.KindInt, ty.Elem().Kind())
}

func TestStructLiteralFieldChecking(t *testing.T) {
	p := provider.NewSimpleProvider()
	p.RegisterStruct("pkg.Msg", map[string]*provider.FieldDecl{
		"name": {Type: types.String()},
		"age":  {Type: types.Int()},
	})

	okAST := mustParse(t, `pkg.Msg{name: "a", age: 1}`)
	c := checker.New(p, unify.New())
	en := env.NewEnv("")
	res := c.Check(okAST.Expr, okAST.Source, en)
	ty, _ := res.TypeOf(okAST.Expr.ID)
	require.False(t, ty.IsError())
	assert.Equal(t, "pkg.Msg", ty.Name())
	assert.False(t, en.Errors().HasErrors())

	badAST := mustParse(t, `pkg.Msg{name: 1}`)
	c2 := checker.New(p, unify.New())
	en2 := env.NewEnv("")
	c2.Check(badAST.Expr, badAST.Source, en2)
	assert.True(t, en2.Errors().HasErrors())

	unknownAST := mustParse(t, `pkg.Missing{}`)
	c3 := checker.New(p, unify.New())
	en3 := env.NewEnv("")
	res3 := c3.Check(unknownAST.Expr, unknownAST.Source, en3)
	ty3, _ := res3.TypeOf(unknownAST.Expr.ID)
	assert.True(t, ty3.IsError())
}

func TestSelectOnStructAndMapAndHas(t *testing.T) {
	p := provider.NewSimpleProvider()
	p.RegisterStruct("pkg.Msg", map[string]*provider.FieldDecl{
		"name": {Type: types.String()},
	})
	en := env.NewEnv("")
	require.NoError(t, en.DeclareIdent("m", &env.VarDecl{Name: "m", Type: types.NewStruct("pkg.Msg")}))
	require.NoError(t, en.DeclareIdent("d", &env.VarDecl{Name: "d", Type: types.NewMap(types.String(), types.Int())}))

	a := mustParse(t, "m.name")
	c := checker.New(p, unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindString, ty.Kind())

	a2 := mustParse(t, `d["k"]`)
	c2 := checker.New(p, unify.New())
	en2b := arithmeticEnv()
	require.NoError(t, en2b.DeclareIdent("d", &env.VarDecl{Name: "d", Type: types.NewMap(types.String(), types.Int())}))
	res2 := c2.Check(a2.Expr, a2.Source, en2b)
	ty2, _ := res2.TypeOf(a2.Expr.ID)
	assert.Equal(t, types.KindInt, ty2.Kind())

	a3 := mustParse(t, "has(m.name)")
	c3 := checker.New(p, unify.New())
	en3 := env.NewEnv("")
	require.NoError(t, en3.DeclareIdent("m", &env.VarDecl{Name: "m", Type: types.NewStruct("pkg.Msg")}))
	res3 := c3.Check(a3.Expr, a3.Source, en3)
	ty3, _ := res3.TypeOf(a3.Expr.ID)
	assert.Equal(t, types.KindBool, ty3.Kind())
}

func TestIdentifierChainPromotesToTypeAndEnum(t *testing.T) {
	p := provider.NewSimpleProvider()
	p.RegisterStruct("pkg.Msg", map[string]*provider.FieldDecl{})
	p.RegisterEnumValue("pkg.Color.RED", 0)

	a := mustParse(t, "pkg.Msg")
	c := checker.New(p, unify.New())
	res := c.Check(a.Expr, a.Source, env.NewEnv(""))
	ty, _ := res.TypeOf(a.Expr.ID)
	require.Equal(t, types.KindTypeOfType, ty.Kind())
	assert.Equal(t, "pkg.Msg", ty.Elem().Name())

	a2 := mustParse(t, "pkg.Color.RED")
	c2 := checker.New(p, unify.New())
	res2 := c2.Check(a2.Expr, a2.Source, env.NewEnv(""))
	ty2, _ := res2.TypeOf(a2.Expr.ID)
	assert.Equal(t, types.KindInt, ty2.Kind())
}

func TestComprehensionAllMacroTypesAsBool(t *testing.T) {
	en := arithmeticEnv()
	a := mustParse(t, "[1, 2, 3].all(x, x > 0)")
	require.Equal(t, ast.KindComprehension, a.Expr.Kind)
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindBool, ty.Kind())
	assert.False(t, en.Errors().HasErrors())
}

func TestComprehensionOverNonIterableIsError(t *testing.T) {
	en := arithmeticEnv()
	require.NoError(t, en.DeclareIdent("n", &env.VarDecl{Name: "n", Type: types.Int()}))
	a := mustParse(t, "n.all(x, x > 0)")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	c.Check(a.Expr, a.Source, en)
	assert.True(t, en.Errors().HasErrors())
}

func TestInstanceOverloadReceiverConvention(t *testing.T) {
	en := arithmeticEnv()
	require.NoError(t, en.DeclareIdent("lst", &env.VarDecl{Name: "lst", Type: types.NewList(types.Bool())}))
	a := mustParse(t, "lst.size()")
	c := checker.New(provider.NewSimpleProvider(), unify.New())
	res := c.Check(a.Expr, a.Source, en)
	ty, _ := res.TypeOf(a.Expr.ID)
	assert.Equal(t, types.KindInt, ty.Kind())
}
