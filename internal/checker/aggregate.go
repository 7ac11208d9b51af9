package checker

import (
	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

// checkCreateList implements spec §4.5 step 5: an empty list is typed
// list(dyn) directly; no type parameter is introduced, so the surrounding
// context does not narrow its element type. A non-empty list's element
// type is the LUB of its elements under the configured union types.
func (c *Checker) checkCreateList(e *ast.Expr, en *env.Env) *types.Type {
	elems := e.CreateList.Elements
	if len(elems) == 0 {
		return types.NewList(types.Dyn())
	}
	elemTypes := make([]*types.Type, len(elems))
	for i, el := range elems {
		t := c.checkExpr(el.Value, en)
		if el.Optional {
			t = optionalInner(t)
		}
		elemTypes[i] = t
	}
	return types.NewList(c.unifier.LUB(elemTypes))
}

// checkCreateMap implements spec §4.5 step 6: keys' LUB and values' LUB,
// independently; an optional entry's value contributes its inner type.
func (c *Checker) checkCreateMap(e *ast.Expr, en *env.Env) *types.Type {
	entries := e.CreateMap.Entries
	if len(entries) == 0 {
		return types.NewMap(types.Dyn(), types.Dyn())
	}
	keyTypes := make([]*types.Type, len(entries))
	valTypes := make([]*types.Type, len(entries))
	for i, entry := range entries {
		keyTypes[i] = c.checkExpr(entry.Key, en)
		v := c.checkExpr(entry.Value, en)
		if entry.Optional {
			v = optionalInner(v)
		}
		valTypes[i] = v
	}
	return types.NewMap(c.unifier.LUB(keyTypes), c.unifier.LUB(valTypes))
}

// checkCreateStruct implements spec §4.5 step 7: the type name resolves
// via Container exactly like an identifier-chain type reference; each
// field must exist in the descriptor and the initializer's type must
// assign to the field's declared type (wrapper/null relaxations apply via
// unify.Assign, since provider.FieldDecl.Type already presents wrapper
// fields as nullable-of(primitive)).
func (c *Checker) checkCreateStruct(e *ast.Expr, en *env.Env) *types.Type {
	cs := e.CreateStruct
	resolvedName, structType, ok := c.resolveStructType(cs.TypeName, en)
	if !ok {
		c.errorAt(e, issues.CodeUndeclaredType, "undeclared type %q", cs.TypeName)
		for _, entry := range cs.Entries {
			c.checkExpr(entry.Value, en)
		}
		return types.Error()
	}
	c.result.setReference(e.ID, &Reference{Name: resolvedName})

	for _, entry := range cs.Entries {
		valType := c.checkExpr(entry.Value, en)
		fd, ok := c.provider.FieldType(resolvedName, entry.Field)
		if !ok {
			c.errorAt(e, issues.CodeFieldNotFound, "struct %q has no field %q", resolvedName, entry.Field)
			continue
		}
		if entry.Optional {
			if _, ok, _ := unify.Assign(valType, types.NewOptional(fd.Type), unify.NewSubstitution()); ok {
				continue
			}
		}
		if _, ok, _ := unify.Assign(valType, fd.Type, unify.NewSubstitution()); !ok {
			c.errorAt(e, issues.CodeFieldTypeMismatch, "field %q: cannot assign %s to %s",
				entry.Field, valType.String(), fd.Type.String())
		}
	}
	return structType
}

func (c *Checker) resolveStructType(typeName string, en *env.Env) (string, *types.Type, bool) {
	for _, candidate := range env.CandidateNames(en.Container(), typeName) {
		if t, ok := c.provider.FindType(candidate); ok {
			return candidate, t, true
		}
	}
	return "", nil, false
}

// checkComprehension implements spec §4.5 step 8: iter-var is declared in
// a child scope typed by the range's element (list element, or map key);
// accu-init is typed in the OUTER scope (it must not see iter-var); a
// further child scope then declares accu-var; loop-condition must be bool,
// loop-step must assign to accu-var's type, and result's type becomes the
// comprehension's type.
func (c *Checker) checkComprehension(e *ast.Expr, en *env.Env) *types.Type {
	comp := e.Comprehension

	rangeType := c.checkExpr(comp.IterRange, en)
	iterType := c.iterElementType(e, rangeType)

	iterScope := en.Enter()
	if err := iterScope.DeclareIdent(comp.IterVar, &env.VarDecl{Name: comp.IterVar, Type: iterType}); err != nil {
		c.errorAt(e, issues.CodeAmbiguousReference, "%s", err.Error())
	}

	accuInitType := c.checkExpr(comp.AccuInit, en)

	accuScope := iterScope.Enter()
	if err := accuScope.DeclareIdent(comp.AccuVar, &env.VarDecl{Name: comp.AccuVar, Type: accuInitType}); err != nil {
		c.errorAt(e, issues.CodeAmbiguousReference, "%s", err.Error())
	}

	condType := c.checkExpr(comp.LoopCondition, accuScope)
	if !condAllowsBool(condType) {
		c.errorAt(e, issues.CodeLoopConditionNotBool, "loop condition must be bool, got %s", condType.String())
	}

	stepType := c.checkExpr(comp.LoopStep, accuScope)
	if _, ok, _ := unify.Assign(stepType, accuInitType, unify.NewSubstitution()); !ok {
		c.errorAt(e, issues.CodeLoopStepMismatch, "loop step type %s incompatible with accumulator type %s",
			stepType.String(), accuInitType.String())
	}

	return c.checkExpr(comp.Result, accuScope)
}

func (c *Checker) iterElementType(e *ast.Expr, rangeType *types.Type) *types.Type {
	switch rangeType.Kind() {
	case types.KindList:
		return rangeType.Elem()
	case types.KindMap:
		return rangeType.Key()
	case types.KindDyn, types.KindError:
		return types.Dyn()
	default:
		c.errorAt(e, issues.CodeNotIterable, "cannot iterate over %s", rangeType.String())
		return types.Error()
	}
}
