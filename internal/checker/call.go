package checker

import (
	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/ops"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

// overloadMatch is one overload that unified against a call's actual
// argument types, with its (specialised, finalised) result type.
type overloadMatch struct {
	overload *env.OverloadDecl
	result   *types.Type
}

// checkCall implements spec §4.5 step 4: resolve the function name, filter
// candidate overloads by argument count and instance/global style, freshen
// each surviving overload's type parameters, and attempt to unify
// (actual-arg-types, expected-param-types) as a pair-list. The ternary
// conditional is special-cased (checkConditional) because its result rule
// is a genuine LUB of the two branches, not exact pairwise unification —
// `true ? 1 : 2.0` must collapse to a union-type LUB rather than fail to
// unify int against double.
//
// Convention: an IsInstance overload's ArgTypes includes the receiver type
// as ArgTypes[0], with the call's own arguments following — so a
// zero-argument instance method like `x.size()` is declared with
// ArgTypes = [receiverType], and `x.f(y)` declares
// ArgTypes = [receiverType, yType]. This mirrors mangledShape() already
// folding IsInstance into the overload's identity rather than encoding the
// receiver as a same-shaped ordinary parameter.
func (c *Checker) checkCall(e *ast.Expr, en *env.Env) *types.Type {
	call := e.Call

	if call.Target == nil && call.Function == ops.Conditional && len(call.Args) == 3 {
		return c.checkConditional(e, en)
	}

	var targetType *types.Type
	if call.Target != nil {
		targetType = c.checkExpr(call.Target, en)
	}
	argTypes := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.checkExpr(a, en)
	}

	receiverStyle := call.Target != nil
	fn, ok := en.LookupFunction(call.Function)
	if !ok {
		c.errorAt(e, issues.CodeUndeclaredReference, "undeclared function %q", call.Function)
		return types.Error()
	}

	actual := argTypes
	if receiverStyle {
		actual = append([]*types.Type{targetType}, argTypes...)
	}

	var matches []overloadMatch
	for _, ov := range fn.Overloads {
		if ov.IsInstance != receiverStyle || len(ov.ArgTypes) != len(actual) {
			continue
		}
		fresh := c.unifier.Fresh(ov.TypeParams, append(append([]*types.Type{}, ov.ArgTypes...), ov.ResultType)...)
		fArgs, fResult := fresh[:len(ov.ArgTypes)], fresh[len(ov.ArgTypes)]

		subst := unify.NewSubstitution()
		pairs := make([]unify.Pair, len(actual))
		for i := range actual {
			pairs[i] = unify.Pair{Actual: actual[i], Expected: fArgs[i]}
		}
		next, ok, err := unify.UnifyAll(pairs, subst)
		if err != nil || !ok {
			continue
		}
		matches = append(matches, overloadMatch{overload: ov, result: unify.Finalise(fResult, next, types.Dyn())})
	}

	if len(matches) == 0 {
		c.errorAt(e, issues.CodeNoMatchingOverload, "no matching overload for %q(%s)", call.Function, describeTypes(actual))
		return types.Error()
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.overload.ID
	}
	c.result.setReference(e.ID, &Reference{OverloadIDs: ids})

	if len(matches) == 1 {
		return matches[0].result
	}
	resultTypes := make([]*types.Type, len(matches))
	for i, m := range matches {
		resultTypes[i] = m.result
	}
	return c.unifier.LUB(resultTypes)
}

// checkConditional types `cond ? then : else`: cond must assign to bool,
// and the result is the LUB of the two branches (spec §4.5 step 4's LUB
// rule generalises here even though conditional is not an ordinary
// overload set — `_?_:_` has no fixed result type to unify against).
func (c *Checker) checkConditional(e *ast.Expr, en *env.Env) *types.Type {
	cond := c.checkExpr(e.Call.Args[0], en)
	if !condAllowsBool(cond) {
		c.errorAt(e, issues.CodeNoMatchingOverload, "ternary condition must be bool, got %s", cond.String())
	}
	thenType := c.checkExpr(e.Call.Args[1], en)
	elseType := c.checkExpr(e.Call.Args[2], en)
	c.result.setReference(e.ID, &Reference{OverloadIDs: []string{"conditional"}})
	return c.unifier.LUB([]*types.Type{thenType, elseType})
}
