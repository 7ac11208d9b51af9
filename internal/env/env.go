package env

import (
	"fmt"

	"github.com/oxhq/celcore/internal/issues"
)

// shared is the state every scope in one environment tree holds a pointer
// to: the overload-id uniqueness registry (spec §3.4: "overload-id
// uniqueness is required across the environment", not just within one
// function) and the accumulated Issues for the compilation this Env backs.
type shared struct {
	overloadIDs map[string]string // overload id -> owning function name
	errs        *issues.Issues
}

// Env is one lexical scope: a mutable identifier table, a mutable
// function table, a parent pointer, and (via shared) the Errors collector
// and overload-id registry shared by the whole scope chain (spec §3.5).
type Env struct {
	parent    *Env
	container string
	idents    map[string]*VarDecl
	functions map[string]*FunctionDecl
	shared    *shared
}

// NewEnv returns a root scope resolving relative references against
// container.
func NewEnv(container string) *Env {
	return &Env{
		container: container,
		idents:    make(map[string]*VarDecl),
		functions: make(map[string]*FunctionDecl),
		shared: &shared{
			overloadIDs: make(map[string]string),
			errs:        issues.New(),
		},
	}
}

// Enter pushes a new lexical frame (used for a comprehension's iteration
// and accumulator variables), sharing this Env's container, overload
// registry, and Issues collector.
func (e *Env) Enter() *Env {
	return &Env{
		parent:    e,
		container: e.container,
		idents:    make(map[string]*VarDecl),
		functions: make(map[string]*FunctionDecl),
		shared:    e.shared,
	}
}

// Exit pops back to the parent frame. Exiting the root scope is a no-op
// that returns the root itself.
func (e *Env) Exit() *Env {
	if e.parent == nil {
		return e
	}
	return e.parent
}

// Container returns the dotted qualified name relative references in this
// scope chain resolve against.
func (e *Env) Container() string {
	return e.container
}

// Errors returns the Issues collector shared by every scope in this tree.
func (e *Env) Errors() *issues.Issues {
	return e.shared.errs
}

// DeclareIdent adds name to the current scope. name is either a
// fully-qualified variable name (typical for a root-scope declaration) or
// a bare local name (a comprehension's iteration/accumulator variable,
// pushed via Enter first). Redeclaring a name already present in THIS
// scope is an error; shadowing a name from an outer scope is not.
func (e *Env) DeclareIdent(name string, v *VarDecl) error {
	if _, exists := e.idents[name]; exists {
		return fmt.Errorf("identifier %q already declared in this scope", name)
	}
	e.idents[name] = v
	return nil
}

// DeclareFunction registers one or more overloads under name in the
// current scope, extending any FunctionDecl already present there.
// Overload-id collisions (anywhere in the scope chain's shared registry)
// and duplicate parameter-shape signatures within name are rejected.
func (e *Env) DeclareFunction(name string, overloads ...*OverloadDecl) error {
	fn, ok := e.functions[name]
	if !ok {
		fn = &FunctionDecl{Name: name}
		e.functions[name] = fn
	}
	for _, o := range overloads {
		if err := fn.addOverload(o, e.shared.overloadIDs); err != nil {
			return err
		}
	}
	return nil
}

// LookupIdent resolves ref to a VarDecl. It first walks the scope chain
// (innermost to outermost) for a literal match against ref itself — this
// is how a comprehension's iteration or accumulator variable shadows
// everything else, since those are declared under their bare name rather
// than a container-qualified one. Failing that, it tries each
// container-relative candidate name (spec §3.6) in order, again walking
// the full scope chain for each candidate, and returns the first hit.
func (e *Env) LookupIdent(ref string) (*VarDecl, bool) {
	if v, ok := e.findExact(ref); ok {
		return v, true
	}
	for _, candidate := range CandidateNames(e.container, ref) {
		if v, ok := e.findExact(candidate); ok {
			return v, true
		}
	}
	return nil, false
}

// LookupIdentResolved behaves like LookupIdent but also returns the exact
// name the declaration was found under — the checker needs this to record
// the resolved fully-qualified name as the expression's reference (spec
// §4.5.3: "reported reference is the resolved fully-qualified name").
func (e *Env) LookupIdentResolved(ref string) (*VarDecl, string, bool) {
	if v, ok := e.findExact(ref); ok {
		return v, ref, true
	}
	for _, candidate := range CandidateNames(e.container, ref) {
		if v, ok := e.findExact(candidate); ok {
			return v, candidate, true
		}
	}
	return nil, "", false
}

func (e *Env) findExact(name string) (*VarDecl, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.idents[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupFunction resolves a function name against the container-relative
// candidates, walking the full scope chain for each, and returns the
// first hit. Per spec §3.5, functions are conceptually global: comprehension
// scopes never declare their own, so in practice this always lands on a
// root-scope declaration, but the walk is identical in shape to
// LookupIdent for uniformity.
func (e *Env) LookupFunction(ref string) (*FunctionDecl, bool) {
	fn, _, ok := e.LookupFunctionResolved(ref)
	return fn, ok
}

// LookupFunctionResolved behaves like LookupFunction but also returns the
// candidate name the declaration was found under.
func (e *Env) LookupFunctionResolved(ref string) (*FunctionDecl, string, bool) {
	for _, candidate := range CandidateNames(e.container, ref) {
		for s := e; s != nil; s = s.parent {
			if fn, ok := s.functions[candidate]; ok {
				return fn, candidate, true
			}
		}
	}
	return nil, "", false
}
