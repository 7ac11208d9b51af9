package unify

import "github.com/oxhq/celcore/internal/types"

// Unifier bundles unification state shared across one compilation: a
// monotonic counter for freshening type-parameter names between overload
// attempts, and the configured union-type anchors used for JSON
// convergence (spec §4.5.1, and the Open Question resolution in
// SPEC_FULL.md making the anchor list a constructor parameter).
type Unifier struct {
	unionAnchors []*types.Type
	varSeq       int64
}

// New returns a Unifier. With no anchors given, it defaults to exactly
// the list in types.DefaultUnionTypes.
func New(unionAnchors ...*types.Type) *Unifier {
	if len(unionAnchors) == 0 {
		unionAnchors = types.DefaultUnionTypes()
	}
	return &Unifier{unionAnchors: unionAnchors}
}

// UnionAnchors returns the configured LUB anchor types, in priority order.
func (u *Unifier) UnionAnchors() []*types.Type {
	return u.unionAnchors
}

// Fresh renames every parameter in typeParams to a name unique within this
// Unifier's lifetime, applying the renaming structurally to each of ts.
// Call this once per overload-resolution attempt so that two attempts
// against the same overload (e.g. for two different call sites, or a
// recursive comprehension) never alias each other's bindings.
func (u *Unifier) Fresh(typeParams []string, ts ...*types.Type) []*types.Type {
	u.varSeq++
	mapping := make(map[string]string, len(typeParams))
	for _, p := range typeParams {
		mapping[p] = mustFresh(u.varSeq, p)
	}
	out := make([]*types.Type, len(ts))
	for i, t := range ts {
		out[i] = renameTypeParams(t, mapping)
	}
	return out
}

// LUB computes the least upper bound of ts: if every type is structurally
// equal they collapse to that one type; otherwise, if every type is
// assignable to a common configured union anchor, that anchor is the
// result; otherwise dyn (spec §4.5.1's JSON-convergence rule, and §4.5
// step 6's "dyn only when LUB cannot be tightened").
func (u *Unifier) LUB(ts []*types.Type) *types.Type {
	if len(ts) == 0 {
		return types.Dyn()
	}
	first := ts[0]
	allEqual := true
	for _, t := range ts[1:] {
		if !t.Equal(first) {
			allEqual = false
			break
		}
	}
	if allEqual {
		return first
	}
	for _, anchor := range u.unionAnchors {
		if anchor.IsDyn() {
			continue
		}
		if allAssignableTo(ts, anchor) {
			return anchor
		}
	}
	return types.Dyn()
}

func allAssignableTo(ts []*types.Type, anchor *types.Type) bool {
	for _, t := range ts {
		if _, ok, err := Assign(t, anchor, NewSubstitution()); err != nil || !ok {
			return false
		}
	}
	return true
}
