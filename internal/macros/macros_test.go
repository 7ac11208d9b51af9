package macros

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/ops"
)

func newFactory() *ast.Factory {
	return ast.NewFactory(ast.NewIDGenerator(), ast.NewSourceInfo("<test>"))
}

func TestStandardRegistryLookup(t *testing.T) {
	r := NewStandardRegistry()

	_, ok := r.Lookup("has", 1, false)
	assert.True(t, ok)
	_, ok = r.Lookup("all", 2, true)
	assert.True(t, ok)
	_, ok = r.Lookup("map", 2, true)
	assert.True(t, ok)
	_, ok = r.Lookup("map", 3, true)
	assert.True(t, ok)
	_, ok = r.Lookup("filter", 2, true)
	assert.True(t, ok)

	_, ok = r.Lookup("has", 2, false)
	assert.False(t, ok, "wrong arity must not match")
	_, ok = r.Lookup("has", 1, true)
	assert.False(t, ok, "wrong call style must not match")
}

func TestHasMacroRequiresSelectArgument(t *testing.T) {
	f := newFactory()
	notASelect := f.NewIdent(0, "x")
	_, _, err := hasMacro(f, nil, []*ast.Expr{notASelect})
	assert.ErrorIs(t, err, ErrArgumentNotSelect)
}

func TestHasMacroExpandsToTestOnlySelect(t *testing.T) {
	f := newFactory()
	operand := f.NewIdent(0, "e")
	sel := f.NewSelect(5, operand, "f", false)

	expanded, ok, err := hasMacro(f, nil, []*ast.Expr{sel})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ast.KindSelect, expanded.Kind)
	assert.True(t, expanded.Select.TestOnly)
	assert.Equal(t, "f", expanded.Select.Field)
}

func TestAllMacroRejectsNonIdentIterVar(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	notIdent := f.NewIntConstant(0, 1)
	predicate := f.NewBoolConstant(0, true)
	_, _, err := allMacro(f, target, []*ast.Expr{notIdent, predicate})
	assert.ErrorIs(t, err, ErrArgumentNotIdent)
}

func TestAllMacroRejectsReservedAccuVarAsIterVar(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	reserved := f.NewIdent(0, ReservedAccuVar)
	predicate := f.NewBoolConstant(0, true)
	_, _, err := allMacro(f, target, []*ast.Expr{reserved, predicate})
	assert.ErrorIs(t, err, ErrReservedAccuVar)
}

func TestAllMacroExpandsToComprehension(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	iterVar := f.NewIdent(0, "x")
	predicate := f.NewBoolConstant(0, true)

	expanded, ok, err := allMacro(f, target, []*ast.Expr{iterVar, predicate})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ast.KindComprehension, expanded.Kind)
	c := expanded.Comprehension
	assert.Equal(t, "x", c.IterVar)
	assert.Equal(t, ReservedAccuVar, c.AccuVar)
	assert.True(t, c.AccuInit.Constant.BoolValue)
	assert.Equal(t, ops.NotStrictlyFalse, c.LoopCondition.Call.Function)
	assert.Equal(t, ops.LogicalAnd, c.LoopStep.Call.Function)
	assert.Equal(t, ast.KindIdent, c.Result.Kind)
	assert.Equal(t, ReservedAccuVar, c.Result.Ident.Name)
}

func TestExistsOneMacroResultChecksCountEqualsOne(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	iterVar := f.NewIdent(0, "x")
	predicate := f.NewBoolConstant(0, true)

	expanded, _, err := existsOneMacro(f, target, []*ast.Expr{iterVar, predicate})
	require.NoError(t, err)
	c := expanded.Comprehension
	assert.Equal(t, int64(0), c.AccuInit.Constant.IntValue)
	assert.True(t, c.LoopCondition.Constant.BoolValue)
	assert.Equal(t, ops.Equals, c.Result.Call.Function)
}

func TestFilterMacroCollectsIterVarNotTransform(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	iterVar := f.NewIdent(0, "x")
	predicate := f.NewBoolConstant(0, true)

	expanded, _, err := filterMacro(f, target, []*ast.Expr{iterVar, predicate})
	require.NoError(t, err)
	step := expanded.Comprehension.LoopStep
	require.Equal(t, ops.Conditional, step.Call.Function)
	appended := step.Call.Args[1]
	singleton := appended.Call.Args[1]
	assert.Equal(t, "x", singleton.CreateList.Elements[0].Value.Ident.Name)
}

func TestMap3MacroGatesOnPredicate(t *testing.T) {
	f := newFactory()
	target := f.NewIdent(0, "e")
	iterVar := f.NewIdent(0, "x")
	predicate := f.NewBoolConstant(0, true)
	transform := f.NewIdent(0, "x")

	expanded, _, err := map3Macro(f, target, []*ast.Expr{iterVar, predicate, transform})
	require.NoError(t, err)
	step := expanded.Comprehension.LoopStep
	assert.Equal(t, ops.Conditional, step.Call.Function)
	assert.Same(t, predicate, step.Call.Args[0])
}
