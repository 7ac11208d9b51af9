// Package env is the scoped symbol table the checker resolves identifiers
// and function calls against: declarations (spec §3.4), lexical scoping
// with enter()/exit() (spec §3.5), and container-qualified name resolution
// (spec §3.6).
//
// The plain-map tables (no mutex; an Env is used within one compilation),
// and raising a conflict error the instant a second registration collides
// with a first rather than silently overwriting, follow
// internal/registry/registry.go's RegisterProvider.
package env

import (
	"fmt"

	"github.com/oxhq/celcore/internal/types"
)

// VarDecl is a declared variable: a fully-qualified name and its type.
type VarDecl struct {
	Name string
	Type *types.Type
}

// OverloadDecl is one alternative signature of a polymorphic function.
type OverloadDecl struct {
	ID         string
	IsInstance bool
	ArgTypes   []*types.Type
	ResultType *types.Type
	TypeParams []string
}

// mangledShape returns a signature string distinguishing overloads by
// instance/global style and argument count/shape, used to reject two
// overloads of the same function that could never be told apart by a
// caller (spec §3.4 invariant: "no two overloads may have identical
// mangled parameter-shape signatures").
func (o *OverloadDecl) mangledShape() string {
	shape := "global"
	if o.IsInstance {
		shape = "instance"
	}
	for _, t := range o.ArgTypes {
		shape += "|" + shapeKind(t)
	}
	return shape
}

// shapeKind collapses a type to the granularity mangling cares about: a
// type parameter matches anything, so two overloads differing only in
// which type parameter name they use at a given position are considered
// the same shape and rejected as a conflict.
func shapeKind(t *types.Type) string {
	if t.IsTypeParam() {
		return "$"
	}
	return t.Kind().String() + ":" + t.Name()
}

// FunctionDecl is a function name plus its ordered, non-empty overload
// set.
type FunctionDecl struct {
	Name      string
	Overloads []*OverloadDecl
}

// addOverload appends o to f, rejecting a duplicate mangled shape or a
// reused overload id.
func (f *FunctionDecl) addOverload(o *OverloadDecl, usedIDs map[string]string) error {
	for _, existing := range f.Overloads {
		if existing.mangledShape() == o.mangledShape() {
			return fmt.Errorf("function %q: overload %q conflicts with %q: identical parameter-shape signature",
				f.Name, o.ID, existing.ID)
		}
	}
	if owner, ok := usedIDs[o.ID]; ok {
		return fmt.Errorf("overload id %q already registered for function %q", o.ID, owner)
	}
	f.Overloads = append(f.Overloads, o)
	usedIDs[o.ID] = f.Name
	return nil
}
