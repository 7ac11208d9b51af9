package stdlib

import (
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/macros"
)

// Build assembles a root Env for container, declaring every canonical
// function cfg's filters admit, then customIdents and customFunctions
// (caller-supplied declarations, each itself subject to cfg's identifier/
// function filter — spec §4.6 applies one filtering rule uniformly,
// standard or custom). It returns the populated Env, the standard macro
// registry the parser expands against, and the accumulated config/
// declaration Issues (a declaration collision — most commonly a custom
// name reusing a standard overload id — is reported as
// CodeOverrideStandardDecl rather than failing silently).
//
// customIdents applies cfg's identifier filter because canonical CEL has
// no built-in global variables of its own to filter; the include/exclude/
// filter knob spec §4.6 describes for "identifiers" only has something to
// act on once the caller supplies some (see DESIGN.md).
func Build(container string, cfg Config, customIdents []*env.VarDecl, customFunctions map[string][]*env.OverloadDecl) (*env.Env, *macros.Registry, *issues.Issues) {
	if is := cfg.validate(); is.HasErrors() {
		return nil, nil, is
	}

	en := env.NewEnv(container)
	for _, fn := range standardFunctions(cfg) {
		if !cfg.includesFunction(fn.name) {
			continue
		}
		if err := en.DeclareFunction(fn.name, fn.overloads...); err != nil {
			en.Errors().ErrorNoPos(issues.CodeOverrideStandardDecl, "%s", err.Error())
		}
	}

	for name, overloads := range customFunctions {
		if !cfg.includesFunction(name) {
			continue
		}
		if err := en.DeclareFunction(name, overloads...); err != nil {
			en.Errors().ErrorNoPos(issues.CodeOverrideStandardDecl, "%s", err.Error())
		}
	}

	for _, v := range customIdents {
		if !cfg.includesIdent(v.Name) {
			continue
		}
		if err := en.DeclareIdent(v.Name, v); err != nil {
			en.Errors().ErrorNoPos(issues.CodeOverrideStandardDecl, "%s", err.Error())
		}
	}

	return en, macros.NewStandardRegistry(), en.Errors()
}
