package checker

import (
	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/types"
)

// checkSelect implements spec §4.5 step 3 and §4.5.3's identifier-chain
// rule: a Select chain built entirely out of Ident/Select nodes (never
// macro-produced test-only selects) is first tried as a dotted name —
// variables win, then a registered type (type-of(T)), then a registered
// enum value (int) — before falling back to ordinary struct/map/dyn field
// access on the operand's checked type. This mirrors the parser's own
// "pendingName" struct-literal disambiguation: the same dotted-chain
// string can denote a variable, a type, or a field path, and which one it
// is can only be decided once the whole chain is known.
func (c *Checker) checkSelect(e *ast.Expr, en *env.Env) *types.Type {
	if name, ok := chainName(e); ok {
		if v, resolved, ok := en.LookupIdentResolved(name); ok {
			c.result.setReference(e.ID, &Reference{Name: resolved})
			if e.Select.TestOnly {
				return types.Bool()
			}
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
	}
	operandType := c.checkExpr(e.Select.Operand, en)
	return c.selectField(e, operandType)
}

// chainName flattens e into a dotted name if it is built entirely out of
// Ident/non-test-only-Select steps — the "pure dotted name" shape eligible
// for type/enum reinterpretation. Any Call, Index, or test-only Select
// along the way disqualifies the whole chain.
func chainName(e *ast.Expr) (string, bool) {
	switch e.Kind {
	case ast.KindIdent:
		return e.Ident.Name, true
	case ast.KindSelect:
		if e.Select.TestOnly {
			return "", false
		}
		base, ok := chainName(e.Select.Operand)
		if !ok {
			return "", false
		}
		return base + "." + e.Select.Field, true
	default:
		return "", false
	}
}

// selectField resolves `operand.field` once operand's type is known and
// the chain could not be promoted to a variable/type/enum reference
// (spec §4.5.2's wrapper/null narrowing applies transparently here, since
// a struct field's declared Type already presents wrapper fields as
// nullable-of(primitive) per provider.FieldDecl's own contract).
func (c *Checker) selectField(e *ast.Expr, operandType *types.Type) *types.Type {
	testOnly := e.Select.TestOnly
	switch operandType.Kind() {
	case types.KindDyn, types.KindAny, types.KindError:
		if testOnly {
			return types.Bool()
		}
		return types.Dyn()
	case types.KindStruct:
		fd, ok := c.provider.FieldType(operandType.Name(), e.Select.Field)
		if !ok {
			c.errorAt(e, issues.CodeFieldNotFound, "struct %q has no field %q", operandType.Name(), e.Select.Field)
			return types.Error()
		}
		if testOnly {
			return types.Bool()
		}
		return fd.Type
	case types.KindMap:
		if testOnly {
			return types.Bool()
		}
		return operandType.Elem()
	case types.KindOptional:
		inner := c.selectField(e, operandType.Elem())
		if testOnly {
			return inner
		}
		return types.NewOptional(inner)
	case types.KindNullable:
		return c.selectField(e, operandType.Elem())
	default:
		c.errorAt(e, issues.CodeFieldAccessInvalid, "cannot select field %q from %s", e.Select.Field, operandType.String())
		return types.Error()
	}
}
