// Package cel is the public façade wiring the lexer, parser, checker,
// environment, and standard declarations into a single compilation entry
// point, playing the role the teacher's top-level core package plays for
// its own pipeline. Unlike the teacher, this is a library API with no
// command-line surface: callers build an *Env, then Parse/Check/Compile
// expression text against it.
package cel

import (
	"github.com/oxhq/celcore/internal/config"
	"github.com/oxhq/celcore/internal/env"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/macros"
	"github.com/oxhq/celcore/internal/parser"
	"github.com/oxhq/celcore/internal/provider"
	"github.com/oxhq/celcore/internal/source"
	"github.com/oxhq/celcore/internal/stdlib"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

// Env is an immutable compilation environment: a container name, a
// TypeProvider, the declared functions/identifiers, the macro registry,
// the union-type anchors the checker's LUB unifies against, and the
// parser/stdlib options that produced them. Extend returns a new Env
// layering additional declarations on top without mutating the receiver
// (spec §5's toBuilder()-style deep snapshot).
type Env struct {
	container    string
	typeProvider provider.TypeProvider
	parserOpts   parser.Options
	stdlibCfg    stdlib.Config
	unionAnchors []*types.Type

	customIdents    []*env.VarDecl
	customFunctions map[string][]*env.OverloadDecl
}

// EnvOption configures a new Env at construction time.
type EnvOption func(*Env)

// Container sets the dotted name relative identifier/type references
// resolve against (spec §3.6).
func Container(name string) EnvOption {
	return func(e *Env) { e.container = name }
}

// TypeProvider installs the TypeProvider the checker consults for struct
// field/enum lookups. Defaults to an empty provider.SimpleProvider.
func TypeProvider(tp provider.TypeProvider) EnvOption {
	return func(e *Env) { e.typeProvider = tp }
}

// Declarations registers caller-supplied identifiers and functions,
// subject to stdlib's include/exclude/filter configuration exactly like
// the canonical built-ins (the StdlibConfig option's IncludeIdents/
// ExcludeIdents/FilterIdent and function filters also govern these).
func Declarations(idents []*env.VarDecl, functions map[string][]*env.OverloadDecl) EnvOption {
	return func(e *Env) {
		e.customIdents = append(e.customIdents, idents...)
		if e.customFunctions == nil {
			e.customFunctions = make(map[string][]*env.OverloadDecl, len(functions))
		}
		for name, overloads := range functions {
			e.customFunctions[name] = append(e.customFunctions[name], overloads...)
		}
	}
}

// ParserOptions overrides the parser's safety caps/feature toggles.
// Defaults to parser.DefaultOptions().
func ParserOptions(opts parser.Options) EnvOption {
	return func(e *Env) { e.parserOpts = opts }
}

// StdlibConfig overrides the standard-declarations environment options
// and include/exclude/filter mode. Defaults to stdlib.Config{}.
func StdlibConfig(cfg stdlib.Config) EnvOption {
	return func(e *Env) { e.stdlibCfg = cfg }
}

// UnionAnchors overrides the LUB union-type anchor list the checker's
// unifier falls back to (spec §4.5.1's Open Question, resolved in
// SPEC_FULL.md: defaults to exactly types.DefaultUnionTypes()).
func UnionAnchors(anchors ...*types.Type) EnvOption {
	return func(e *Env) { e.unionAnchors = anchors }
}

// FromOptions seeds parser/stdlib settings from a loaded config.Options
// (e.g. config.LoadOptions()'s environment-driven defaults).
func FromOptions(opts config.Options) EnvOption {
	return func(e *Env) {
		e.parserOpts = parser.Options{
			EnableOptionalSyntax:         opts.EnableOptionalSyntax,
			EnableReservedIdentifiers:    opts.EnableReservedIds,
			RetainMacroCalls:             opts.PopulateMacroCalls,
			RetainRepeatedUnaryOperators: opts.RetainRepeatedUnaryOperators,
			MaxExpressionCodePointSize:   opts.MaxExpressionCodePointSize,
			MaxRecursionDepth:            opts.MaxParseRecursionDepth,
			MaxErrorRecoveryLimit:        opts.MaxParseErrorRecoveryLimit,
		}
		e.stdlibCfg.EnableHeterogeneousNumericComparisons = opts.EnableHeterogeneousNumericComparisons
		e.stdlibCfg.EnableUnsignedLongs = opts.EnableUnsignedLongs
		e.stdlibCfg.EnableTimestampEpoch = opts.EnableTimestampEpoch
	}
}

// NewEnv builds a compilation environment. Absent overrides, it carries
// the canonical CEL standard declarations over an empty TypeProvider, the
// default parser safety caps, and the default LUB union anchors.
func NewEnv(opts ...EnvOption) (*Env, error) {
	e := &Env{
		container:    "",
		typeProvider: provider.NewSimpleProvider(),
		parserOpts:   parser.DefaultOptions(),
		unionAnchors: types.DefaultUnionTypes(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, _, is := stdlib.Build(e.container, e.stdlibCfg, e.customIdents, e.customFunctions); is.HasErrors() {
		return nil, newCompileError(source.New("", "<config>"), is.All())
	}
	return e, nil
}

// Extend returns a new Env layering opts on top of this one's
// configuration without mutating the receiver — spec §5's "extending an
// environment is a deep snapshot, never an in-place mutation" rule.
func (e *Env) Extend(opts ...EnvOption) (*Env, error) {
	clone := &Env{
		container:       e.container,
		typeProvider:    e.typeProvider,
		parserOpts:      e.parserOpts,
		stdlibCfg:       e.stdlibCfg,
		unionAnchors:    append([]*types.Type(nil), e.unionAnchors...),
		customIdents:    append([]*env.VarDecl(nil), e.customIdents...),
		customFunctions: cloneFunctions(e.customFunctions),
	}
	for _, opt := range opts {
		opt(clone)
	}
	if _, _, is := stdlib.Build(clone.container, clone.stdlibCfg, clone.customIdents, clone.customFunctions); is.HasErrors() {
		return nil, newCompileError(source.New("", "<config>"), is.All())
	}
	return clone, nil
}

func cloneFunctions(m map[string][]*env.OverloadDecl) map[string][]*env.OverloadDecl {
	if m == nil {
		return nil
	}
	out := make(map[string][]*env.OverloadDecl, len(m))
	for k, v := range m {
		out[k] = append([]*env.OverloadDecl(nil), v...)
	}
	return out
}

// rootEnv builds a fresh env.Env for one compilation: the standard
// declarations plus this Env's custom ones, freshly instantiated so
// per-compilation comprehension scopes (env.Enter) never leak between
// calls (spec §5: "single-threaded per compilation", each Parse/Check
// call owns its own scope tree).
func (e *Env) rootEnv() (*env.Env, *macros.Registry, *issues.Issues) {
	return stdlib.Build(e.container, e.stdlibCfg, e.customIdents, e.customFunctions)
}

// unifier builds a fresh Unifier over this Env's configured union
// anchors — Fresh's monotonic rename counter is per-compilation state, so
// like rootEnv this is never shared across calls.
func (e *Env) unifier() *unify.Unifier {
	return unify.New(e.unionAnchors...)
}
