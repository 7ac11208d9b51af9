// Package macros implements the standard CEL macro set (spec §4.4) and a
// Registry for looking one up by (name, argument count, receiver-style?)
// during parsing.
//
// Registration by composite key follows
// internal/registry/registry.go's alias/extension maps keyed by a derived
// string rather than the primary name — here the key folds in arity and
// call style so `size(x)` and `x.size()` (global vs. instance) never
// collide even though a future custom macro could plausibly want both.
package macros

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/oxhq/celcore/internal/ast"
)

// ReservedAccuVar is the accumulator variable name every standard fold
// macro introduces. A user-supplied iteration variable literally named
// this is rejected (the Open Question resolution recorded in
// SPEC_FULL.md: a collision is a name error, not a silent shadow).
const ReservedAccuVar = "__result__"

// ErrReservedAccuVar is returned when a macro's iteration variable is
// ReservedAccuVar.
var ErrReservedAccuVar = errors.New("macros: iteration variable must not be the reserved accumulator name __result__")

// ErrArgumentNotIdent is returned by a macro whose iteration-variable
// argument is not a bare identifier.
var ErrArgumentNotIdent = errors.New("macros: argument must be a simple name")

// ErrArgumentNotSelect is returned by has() when its argument is not a
// field-select expression.
var ErrArgumentNotSelect = errors.New("macros: has() argument must be a field selection")

// Expander is a macro implementation: given the shared Factory, the
// receiver expression (nil for a free-function-style macro), and the call
// arguments, it returns the expansion, or ok == false if this expander
// declines to expand these particular arguments. None of the standard
// macros declines: each reports unusable arguments as an error, so
// false with a nil error is left for custom macros that fall back to a
// plain call.
type Expander func(f *ast.Factory, target *ast.Expr, args []*ast.Expr) (*ast.Expr, bool, error)

// key composite-keys a macro by name, arity, and call style, exactly the
// triple spec §4.3.2 dispatches on. Variadic registrations live in a
// separate map, keyed with argCount left at 0, and match any argument
// count.
type key struct {
	name          string
	argCount      int
	receiverStyle bool
}

func (k key) String() string {
	style := "global"
	if k.receiverStyle {
		style = "receiver"
	}
	return k.name + "/" + strconv.Itoa(k.argCount) + "/" + style
}

// Registry holds macro registrations, standard plus custom.
type Registry struct {
	fixed    map[key]Expander
	variadic map[key]Expander
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fixed: make(map[key]Expander), variadic: make(map[key]Expander)}
}

// NewStandardRegistry returns a registry pre-populated with the standard
// macro set of spec §4.4: has, all, exists, exists_one, the two map
// arities, and filter.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister("has", 1, false, hasMacro)
	r.mustRegister("all", 2, true, allMacro)
	r.mustRegister("exists", 2, true, existsMacro)
	r.mustRegister("exists_one", 2, true, existsOneMacro)
	r.mustRegister("map", 2, true, map2Macro)
	r.mustRegister("map", 3, true, map3Macro)
	r.mustRegister("filter", 2, true, filterMacro)
	return r
}

func (r *Registry) mustRegister(name string, argCount int, receiverStyle bool, fn Expander) {
	if err := r.Register(name, argCount, receiverStyle, fn); err != nil {
		panic(err)
	}
}

// Register adds a fixed-arity macro under (name, argCount, receiverStyle).
// Re-registering the same key is an error.
func (r *Registry) Register(name string, argCount int, receiverStyle bool, fn Expander) error {
	k := key{name: name, argCount: argCount, receiverStyle: receiverStyle}
	if _, exists := r.fixed[k]; exists {
		return fmt.Errorf("macros: %s already registered", k)
	}
	r.fixed[k] = fn
	return nil
}

// RegisterVariadic adds a macro matching any argument count under (name,
// receiverStyle).
func (r *Registry) RegisterVariadic(name string, receiverStyle bool, fn Expander) error {
	k := key{name: name, receiverStyle: receiverStyle}
	if _, exists := r.variadic[k]; exists {
		return fmt.Errorf("macros: variadic %s already registered", k)
	}
	r.variadic[k] = fn
	return nil
}

// Lookup resolves (name, argCount, receiverStyle) to an Expander, trying
// a fixed-arity match before a variadic one, per spec §4.3.2.
func (r *Registry) Lookup(name string, argCount int, receiverStyle bool) (Expander, bool) {
	k := key{name: name, argCount: argCount, receiverStyle: receiverStyle}
	if fn, ok := r.fixed[k]; ok {
		return fn, true
	}
	vk := key{name: name, receiverStyle: receiverStyle}
	if fn, ok := r.variadic[vk]; ok {
		return fn, true
	}
	return nil, false
}

func identName(e *ast.Expr) (string, bool) {
	if e.Kind != ast.KindIdent {
		return "", false
	}
	return e.Ident.Name, true
}

func checkIterVar(e *ast.Expr) (string, error) {
	name, ok := identName(e)
	if !ok {
		return "", ErrArgumentNotIdent
	}
	if name == ReservedAccuVar {
		return "", ErrReservedAccuVar
	}
	return name, nil
}
