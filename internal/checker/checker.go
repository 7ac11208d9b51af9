// Package checker is the post-order type-checking tree walk of spec §4.5:
// it consumes a parsed ast.AST plus an env.Env, a provider.TypeProvider,
// and a unify.Unifier, and produces a Result (a per-expression-id type map
// and reference map) alongside whatever issues accumulate on the Env's
// shared issues.Issues collector.
//
// Grounded on internal/evaluator/universal.go's UniversalEvaluator: a
// single implementation driven entirely by injected interfaces rather than
// a family of concrete checkers, one per collaborator combination.
package checker

import (
	"strings"

	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/provider"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

// Checker type-checks one AST against its injected collaborators. A
// Checker is stateless between calls to Check other than the Result and
// source it is currently annotating; reuse across compilations is safe.
type Checker struct {
	provider provider.TypeProvider
	unifier  *unify.Unifier

	source *ast.SourceInfo
	errs   *issues.Issues
	result *Result
}

// New returns a Checker consulting tp for structural type questions and
// uni for assignability/unification/LUB. uni defaults to unify.New() (the
// default union-type anchors) if nil.
func New(tp provider.TypeProvider, uni *unify.Unifier) *Checker {
	if uni == nil {
		uni = unify.New()
	}
	return &Checker{provider: tp, unifier: uni}
}

// Check type-checks root (whose expression ids were assigned against
// source) under rootEnv, returning the annotation Result. Issues raised
// during checking are appended to rootEnv.Errors(), the collector shared
// by the whole compilation (spec §5).
func (c *Checker) Check(root *ast.Expr, source *ast.SourceInfo, rootEnv *env.Env) *Result {
	c.source = source
	c.errs = rootEnv.Errors()
	c.result = NewResult()
	c.checkExpr(root, rootEnv)
	return c.result
}

func (c *Checker) checkExpr(e *ast.Expr, en *env.Env) *types.Type {
	if e == nil {
		return types.Dyn()
	}
	var t *types.Type
	switch e.Kind {
	case ast.KindConstant:
		t = c.checkConstant(e)
	case ast.KindIdent:
		t = c.checkIdent(e, en)
	case ast.KindSelect:
		t = c.checkSelect(e, en)
	case ast.KindCall:
		t = c.checkCall(e, en)
	case ast.KindCreateList:
		t = c.checkCreateList(e, en)
	case ast.KindCreateMap:
		t = c.checkCreateMap(e, en)
	case ast.KindCreateStruct:
		t = c.checkCreateStruct(e, en)
	case ast.KindComprehension:
		t = c.checkComprehension(e, en)
	default:
		t = types.Error()
	}
	c.result.setType(e.ID, t)
	return t
}

func (c *Checker) checkConstant(e *ast.Expr) *types.Type {
	switch e.Constant.Kind {
	case ast.ConstantBool:
		return types.Bool()
	case ast.ConstantInt:
		return types.Int()
	case ast.ConstantUint:
		return types.Uint()
	case ast.ConstantDouble:
		return types.Double()
	case ast.ConstantString:
		return types.String()
	case ast.ConstantBytes:
		return types.Bytes()
	case ast.ConstantNull:
		return types.Null()
	default:
		return types.Error()
	}
}

// checkIdent resolves a bare (possibly dotted) name per spec §4.5 step 2:
// a variable wins first, then a registered type (yielding type-of(T)),
// then a registered enum value (yielding int); an unresolved name is an
// undeclared-reference error.
func (c *Checker) checkIdent(e *ast.Expr, en *env.Env) *types.Type {
	name := e.Ident.Name
	if v, resolved, ok := en.LookupIdentResolved(name); ok {
		c.result.setReference(e.ID, &Reference{Name: resolved})
		return v.Type
	}
	for _, candidate := range env.CandidateNames(en.Container(), name) {
		if t, ok := c.provider.FindType(candidate); ok {
			c.result.setReference(e.ID, &Reference{Name: candidate})
			return types.NewTypeOfType(t)
		}
	}
	for _, candidate := range env.CandidateNames(en.Container(), name) {
		if _, ok := c.provider.EnumValue(candidate); ok {
			c.result.setReference(e.ID, &Reference{Name: candidate})
			return types.Int()
		}
	}
	c.errorAt(e, issues.CodeUndeclaredReference, "undeclared reference to %q", name)
	return types.Error()
}

func (c *Checker) errorAt(e *ast.Expr, code issues.Code, format string, args ...any) {
	offset, _ := c.source.GetOffset(e.ID)
	c.errs.Error(code, e.ID, offset, format, args...)
}

// condAllowsBool reports whether t may stand in for a bool condition: an
// exact bool, or dyn/error (propagated silently per spec §4.5.1's
// "error absorbs" rule).
func condAllowsBool(t *types.Type) bool {
	return t.IsDyn() || t.IsError() || t.Kind() == types.KindBool
}

func describeTypes(ts []*types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// optionalInner unwraps an optional-of(T) contributed by a `?e`/`?k: v`
// element or entry down to T; a non-optional value passes through
// unchanged (spec §4.5 steps 5-6: "optional entries contribute the inner
// type").
func optionalInner(t *types.Type) *types.Type {
	if t.Kind() == types.KindOptional {
		return t.Elem()
	}
	return t
}
