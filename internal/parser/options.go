package parser

// Options configures one Parse call: the safety caps of spec §7 plus the
// feature toggles of spec §4.3.
type Options struct {
	// EnableOptionalSyntax turns on `.?`, `[?e]`, and `?field`/`?key`
	// optional-construction syntax. When false, encountering any of these
	// is a recorded error (parsing still continues, treating the syntax
	// as if it had been enabled, per the parser's recover-and-continue
	// strategy).
	EnableOptionalSyntax bool

	// EnableReservedIdentifiers rejects the identifier set of spec §4.3
	// when used as a plain identifier.
	EnableReservedIdentifiers bool

	// RetainMacroCalls records each macro expansion's original call
	// skeleton in the AST's SourceInfo, keyed by the expansion root's id.
	RetainMacroCalls bool

	// RetainRepeatedUnaryOperators disables folding of adjacent identical
	// prefix operators. With this false (the default), `!!x` parses as
	// `x` and `--x` parses as `x` — an even run of the same operator
	// cancels, an odd run collapses to one application. `!-!x` is
	// unaffected either way since its operators differ.
	RetainRepeatedUnaryOperators bool

	// MaxExpressionCodePointSize caps the source's code-point length
	// before lexing begins; 0 disables the check.
	MaxExpressionCodePointSize int
	// MaxRecursionDepth caps combined nesting across the recursive-descent
	// rules (expr, or, and, rel, calc, unary, member, primary); 0 disables
	// the check. A single shared counter is used rather than one per
	// rule — see DESIGN.md for why this is an accepted simplification.
	MaxRecursionDepth int
	// MaxErrorRecoveryLimit caps how many syntax errors Parse will record
	// before aborting with a terminal recovery-limit issue; 0 disables
	// the check (parsing always continues to EOF).
	MaxErrorRecoveryLimit int
}

// DefaultOptions returns the caps a standalone `cel.NewEnv()` uses absent
// any override.
func DefaultOptions() Options {
	return Options{
		EnableOptionalSyntax:       true,
		EnableReservedIdentifiers:  true,
		RetainMacroCalls:           false,
		MaxExpressionCodePointSize: 100_000,
		MaxRecursionDepth:          250,
		MaxErrorRecoveryLimit:      30,
	}
}
