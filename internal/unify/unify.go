// Package unify is the Hindley-Milner-style unification engine the
// checker uses for overload resolution: assignability under the
// relaxations of spec §4.5.1 (dyn, error, null/wrapper/nullable, named
// opaque types, type-parameter binding with an occurs-check), plus
// specialisation, finalisation, and least-upper-bound computation.
//
// Grounded on internal/matcher/tree.go's recursive structural-match
// traversal: both walk a recursive data shape node-by-node, threading an
// accumulated binding/substitution state through recursive calls and
// bailing out the first time two shapes provably cannot match.
package unify

import (
	"errors"
	"fmt"

	"github.com/oxhq/celcore/internal/types"
)

// ErrOccursCheck is returned when binding a type parameter would produce
// an infinite type (the parameter appears within the type it is about to
// be bound to).
var ErrOccursCheck = errors.New("unify: type parameter occurs within its own binding")

// Substitution maps a type-parameter name to the type it is currently
// bound to. The zero value is not usable; use NewSubstitution.
type Substitution map[string]*types.Type

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution {
	return make(Substitution)
}

func cloneSubst(s Substitution) Substitution {
	out := make(Substitution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

func resolveShallow(t *types.Type, s Substitution) *types.Type {
	for t.IsTypeParam() {
		bound, ok := s[t.Name()]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// Assign reports whether src is assignable to dst under some extension of
// subst, returning that extension. An error is returned only for an
// occurs-check violation; any other failure to unify is reported as
// ok == false, err == nil.
func Assign(src, dst *types.Type, subst Substitution) (Substitution, bool, error) {
	src = resolveShallow(src, subst)
	dst = resolveShallow(dst, subst)

	switch {
	case src.IsDyn() || dst.IsDyn():
		return subst, true, nil
	case src.IsError() || dst.IsError():
		return subst, true, nil
	case dst.IsTypeParam():
		return bind(dst.Name(), src, subst)
	case src.IsTypeParam():
		return bind(src.Name(), dst, subst)
	case src.IsNull() && (dst.Kind() == types.KindWrapper || dst.Kind() == types.KindNullable):
		return subst, true, nil
	case dst.IsNull() && (src.Kind() == types.KindWrapper || src.Kind() == types.KindNullable):
		return subst, true, nil
	case src.Kind() == types.KindWrapper:
		return Assign(src.Elem(), dst, subst)
	case dst.Kind() == types.KindWrapper:
		return Assign(src, dst.Elem(), subst)
	case src.Kind() == types.KindNullable:
		return Assign(src.Elem(), dst, subst)
	case dst.Kind() == types.KindNullable:
		return Assign(src, dst.Elem(), subst)
	case isJSONAnchor(dst) && src.Kind() != types.KindOpaque:
		return assignToJSON(src, subst)
	case src.Kind() != dst.Kind():
		return subst, false, nil
	case src.Kind() == types.KindList:
		return Assign(src.Elem(), dst.Elem(), subst)
	case src.Kind() == types.KindOptional, src.Kind() == types.KindTypeOfType:
		return Assign(src.Elem(), dst.Elem(), subst)
	case src.Kind() == types.KindMap:
		next, ok, err := Assign(src.Key(), dst.Key(), subst)
		if err != nil || !ok {
			return subst, ok, err
		}
		return Assign(src.Elem(), dst.Elem(), next)
	case src.Kind() == types.KindStruct:
		return subst, src.Name() == dst.Name(), nil
	case src.Kind() == types.KindOpaque:
		if src.Name() != dst.Name() || len(src.Params()) != len(dst.Params()) {
			return subst, false, nil
		}
		cur := subst
		for i := range src.Params() {
			next, ok, err := Assign(src.Params()[i], dst.Params()[i], cur)
			if err != nil || !ok {
				return subst, ok, err
			}
			cur = next
		}
		return cur, true, nil
	default:
		// Same simple Kind (bool/int/uint/double/string/bytes/timestamp/
		// duration/any/null) already confirmed above.
		return subst, true, nil
	}
}

// isJSONAnchor reports whether t is exactly the bare json union anchor
// (types.JSON()), as opposed to some other named opaque type.
func isJSONAnchor(t *types.Type) bool {
	return t.Kind() == types.KindOpaque && t.Name() == "json" && len(t.Params()) == 0
}

// assignToJSON reports whether src is a valid JSON value per the sum type
// spec §4.5.1 defines the json anchor as: null, bool, int/uint/double,
// string, bytes, list(json), or map(string, json). A type parameter src
// binds to json directly, same as any other dst.
func assignToJSON(src *types.Type, subst Substitution) (Substitution, bool, error) {
	switch src.Kind() {
	case types.KindNull, types.KindBool, types.KindInt, types.KindUint,
		types.KindDouble, types.KindString, types.KindBytes:
		return subst, true, nil
	case types.KindList:
		return Assign(src.Elem(), types.JSON(), subst)
	case types.KindMap:
		if src.Key().Kind() != types.KindString {
			return subst, false, nil
		}
		return Assign(src.Elem(), types.JSON(), subst)
	default:
		return subst, false, nil
	}
}

func bind(name string, t *types.Type, subst Substitution) (Substitution, bool, error) {
	if existing, ok := subst[name]; ok {
		return Assign(existing, t, subst)
	}
	resolved := Specialise(t, subst)
	if occurs(name, resolved) {
		return subst, false, ErrOccursCheck
	}
	next := cloneSubst(subst)
	next[name] = resolved
	return next, true, nil
}

func occurs(name string, t *types.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case types.KindTypeParam:
		return t.Name() == name
	case types.KindList, types.KindWrapper, types.KindNullable, types.KindOptional, types.KindTypeOfType:
		return occurs(name, t.Elem())
	case types.KindMap:
		return occurs(name, t.Key()) || occurs(name, t.Elem())
	case types.KindOpaque:
		for _, p := range t.Params() {
			if occurs(name, p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Pair is one (actual, expected) type pair submitted to UnifyAll, e.g. one
// argument position of a call against the corresponding overload
// parameter type.
type Pair struct {
	Actual, Expected *types.Type
}

// UnifyAll threads a single substitution through every pair in order,
// succeeding only if every pair assigns. This is how the checker attempts
// "(actual-arg-types, expected-param-types) as a pair-list" per spec
// §4.5, step 6.
func UnifyAll(pairs []Pair, subst Substitution) (Substitution, bool, error) {
	cur := subst
	for _, p := range pairs {
		next, ok, err := Assign(p.Actual, p.Expected, cur)
		if err != nil || !ok {
			return subst, ok, err
		}
		cur = next
	}
	return cur, true, nil
}

// Specialise replaces every type parameter in t by its binding in subst,
// recursively, leaving any still-unbound parameter as-is.
func Specialise(t *types.Type, subst Substitution) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case types.KindTypeParam:
		if bound, ok := subst[t.Name()]; ok {
			return Specialise(bound, subst)
		}
		return t
	case types.KindList:
		return types.NewList(Specialise(t.Elem(), subst))
	case types.KindMap:
		return types.NewMap(Specialise(t.Key(), subst), Specialise(t.Elem(), subst))
	case types.KindWrapper:
		return types.NewWrapper(Specialise(t.Elem(), subst))
	case types.KindNullable:
		return types.NewNullable(Specialise(t.Elem(), subst))
	case types.KindOptional:
		return types.NewOptional(Specialise(t.Elem(), subst))
	case types.KindTypeOfType:
		return types.NewTypeOfType(Specialise(t.Elem(), subst))
	case types.KindOpaque:
		if len(t.Params()) == 0 {
			return t
		}
		params := make([]*types.Type, len(t.Params()))
		for i, p := range t.Params() {
			params[i] = Specialise(p, subst)
		}
		return types.NewOpaque(t.Name(), params...)
	default:
		return t
	}
}

// Finalise specialises t under subst, then replaces any type parameter
// still free afterward with def (conventionally dyn), recursively.
func Finalise(t *types.Type, subst Substitution, def *types.Type) *types.Type {
	return finaliseGround(Specialise(t, subst), def)
}

func finaliseGround(t *types.Type, def *types.Type) *types.Type {
	switch t.Kind() {
	case types.KindTypeParam:
		return def
	case types.KindList:
		return types.NewList(finaliseGround(t.Elem(), def))
	case types.KindMap:
		return types.NewMap(finaliseGround(t.Key(), def), finaliseGround(t.Elem(), def))
	case types.KindWrapper:
		return types.NewWrapper(finaliseGround(t.Elem(), def))
	case types.KindNullable:
		return types.NewNullable(finaliseGround(t.Elem(), def))
	case types.KindOptional:
		return types.NewOptional(finaliseGround(t.Elem(), def))
	case types.KindTypeOfType:
		return types.NewTypeOfType(finaliseGround(t.Elem(), def))
	case types.KindOpaque:
		if len(t.Params()) == 0 {
			return t
		}
		params := make([]*types.Type, len(t.Params()))
		for i, p := range t.Params() {
			params[i] = finaliseGround(p, def)
		}
		return types.NewOpaque(t.Name(), params...)
	default:
		return t
	}
}

// renameTypeParams produces a structural copy of t with every type
// parameter named in mapping replaced by a fresh type parameter of the
// mapped name; parameters absent from mapping pass through unchanged.
func renameTypeParams(t *types.Type, mapping map[string]string) *types.Type {
	switch t.Kind() {
	case types.KindTypeParam:
		if fresh, ok := mapping[t.Name()]; ok {
			return types.NewTypeParam(fresh)
		}
		return t
	case types.KindList:
		return types.NewList(renameTypeParams(t.Elem(), mapping))
	case types.KindMap:
		return types.NewMap(renameTypeParams(t.Key(), mapping), renameTypeParams(t.Elem(), mapping))
	case types.KindWrapper:
		return types.NewWrapper(renameTypeParams(t.Elem(), mapping))
	case types.KindNullable:
		return types.NewNullable(renameTypeParams(t.Elem(), mapping))
	case types.KindOptional:
		return types.NewOptional(renameTypeParams(t.Elem(), mapping))
	case types.KindTypeOfType:
		return types.NewTypeOfType(renameTypeParams(t.Elem(), mapping))
	case types.KindOpaque:
		if len(t.Params()) == 0 {
			return t
		}
		params := make([]*types.Type, len(t.Params()))
		for i, p := range t.Params() {
			params[i] = renameTypeParams(p, mapping)
		}
		return types.NewOpaque(t.Name(), params...)
	default:
		return t
	}
}

func mustFresh(seq int64, name string) string {
	return fmt.Sprintf("%s#%d", name, seq)
}
