package checker

import "github.com/oxhq/celcore/internal/types"

// Reference is what an expression id resolved to: either a variable/type/
// enum name, or (for a call) the non-empty list of overload ids that
// unified, per spec §6's "reference = either a resolved variable name or a
// non-empty list of matching overload ids".
type Reference struct {
	Name        string
	OverloadIDs []string
}

// Result is the checker's output: a type and, where applicable, a
// reference, per expression id. The AST itself is never mutated (package
// ast's own doc comment: "the checker annotates them via a side-table,
// never by mutation").
type Result struct {
	types      map[int64]*types.Type
	references map[int64]*Reference
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{
		types:      make(map[int64]*types.Type),
		references: make(map[int64]*Reference),
	}
}

func (r *Result) setType(id int64, t *types.Type) {
	r.types[id] = t
}

func (r *Result) setReference(id int64, ref *Reference) {
	r.references[id] = ref
}

// TypeOf returns the type annotated for expression id, if any.
func (r *Result) TypeOf(id int64) (*types.Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// ReferenceOf returns the reference annotated for expression id, if any.
func (r *Result) ReferenceOf(id int64) (*Reference, bool) {
	ref, ok := r.references[id]
	return ref, ok
}

// Types exposes the full id -> type map (read-only by convention).
func (r *Result) Types() map[int64]*types.Type {
	return r.types
}

// References exposes the full id -> reference map (read-only by convention).
func (r *Result) References() map[int64]*Reference {
	return r.references
}
