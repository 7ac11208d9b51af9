package macros

import (
	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/ops"
)

// hasMacro: has(e.f) requires its argument be a field selection; the
// expansion is that same selection with TestOnly set.
func hasMacro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	arg := args[0]
	if arg.Kind != ast.KindSelect {
		return nil, false, ErrArgumentNotSelect
	}
	offset := f.OffsetOf(arg)
	return f.NewSelect(offset, arg.Select.Operand, arg.Select.Field, true), true, nil
}

// allMacro: e.all(x, p) folds over e with a boolean accumulator, short
// circuiting on the first falsy predicate result via @not_strictly_false.
func allMacro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	predicate := args[1]
	offset := f.OffsetOf(predicate)

	accuInit := f.NewBoolConstant(offset, true)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	condition := f.NewCall(offset, nil, ops.NotStrictlyFalse, []*ast.Expr{accuRef()})
	step := f.NewCall(offset, nil, ops.LogicalAnd, []*ast.Expr{accuRef(), predicate})
	result := accuRef()

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}

// existsMacro: e.exists(x, p) is the dual of all: accumulator starts
// false, short-circuits once true.
func existsMacro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	predicate := args[1]
	offset := f.OffsetOf(predicate)

	accuInit := f.NewBoolConstant(offset, false)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	negatedAccu := f.NewCall(offset, nil, ops.LogicalNot, []*ast.Expr{accuRef()})
	condition := f.NewCall(offset, nil, ops.NotStrictlyFalse, []*ast.Expr{negatedAccu})
	step := f.NewCall(offset, nil, ops.LogicalOr, []*ast.Expr{accuRef(), predicate})
	result := accuRef()

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}

// existsOneMacro: e.exists_one(x, p) counts predicate-true elements and
// checks the count equals exactly one; unlike all/exists it runs the full
// range (its condition is unconditionally true) since a count needs every
// element visited.
func existsOneMacro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	predicate := args[1]
	offset := f.OffsetOf(predicate)

	accuInit := f.NewIntConstant(offset, 0)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	condition := f.NewBoolConstant(offset, true)
	increment := f.NewCall(offset, nil, ops.Add, []*ast.Expr{accuRef(), f.NewIntConstant(offset, 1)})
	step := f.NewCall(offset, nil, ops.Conditional, []*ast.Expr{predicate, increment, accuRef()})
	result := f.NewCall(offset, nil, ops.Equals, []*ast.Expr{accuRef(), f.NewIntConstant(offset, 1)})

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}

// map2Macro: e.map(x, t) collects t(x) for every x in e into a list.
func map2Macro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	transform := args[1]
	offset := f.OffsetOf(transform)

	accuInit := f.NewList(offset, nil)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	condition := f.NewBoolConstant(offset, true)
	singleton := f.NewList(offset, []ast.ListEntry{{Value: transform}})
	step := f.NewCall(offset, nil, ops.Add, []*ast.Expr{accuRef(), singleton})
	result := accuRef()

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}

// map3Macro: e.map(x, p, t) is map2Macro with a filter predicate p gating
// which transformed elements are appended.
func map3Macro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	predicate, transform := args[1], args[2]
	offset := f.OffsetOf(transform)

	accuInit := f.NewList(offset, nil)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	condition := f.NewBoolConstant(offset, true)
	singleton := f.NewList(offset, []ast.ListEntry{{Value: transform}})
	appended := f.NewCall(offset, nil, ops.Add, []*ast.Expr{accuRef(), singleton})
	step := f.NewCall(offset, nil, ops.Conditional, []*ast.Expr{predicate, appended, accuRef()})
	result := accuRef()

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}

// filterMacro: e.filter(x, p) collects x itself (not a transform) for
// every x in e where p(x) holds.
func filterMacro(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error) {
	iterVar, err := checkIterVar(args[0])
	if err != nil {
		return nil, false, err
	}
	predicate := args[1]
	offset := f.OffsetOf(predicate)

	accuInit := f.NewList(offset, nil)
	accuRef := func() *ast.Expr { return f.NewIdent(offset, ReservedAccuVar) }
	iterRef := f.NewIdent(offset, iterVar)
	condition := f.NewBoolConstant(offset, true)
	singleton := f.NewList(offset, []ast.ListEntry{{Value: iterRef}})
	appended := f.NewCall(offset, nil, ops.Add, []*ast.Expr{accuRef(), singleton})
	step := f.NewCall(offset, nil, ops.Conditional, []*ast.Expr{predicate, appended, accuRef()})
	result := accuRef()

	return f.NewComprehension(offset, iterVar, target, ReservedAccuVar, accuInit, condition, step, result), true, nil
}
