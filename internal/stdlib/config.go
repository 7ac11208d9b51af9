// Package stdlib is the frozen table of canonical CEL built-ins (spec
// §4.6): arithmetic, comparisons, logical operators, membership/indexing,
// size, conversions, constructors, and common date/time member calls,
// declared into an env.Env alongside the standard macro set (the ternary
// conditional is not declared here; internal/checker types it directly).
// Build applies at most one of include/exclude/filter independently to
// functions and to caller-supplied identifier declarations, rejecting any
// attempt to mix modes as a config error.
package stdlib

import "github.com/oxhq/celcore/internal/issues"

// Config selects which of the environment options enumerated in spec §6
// are active, plus the function/identifier visibility mode.
type Config struct {
	// EnableHeterogeneousNumericComparisons allows <, <=, >, >= to compare
	// across int/uint/double; off by default (only same-type comparisons
	// are declared).
	EnableHeterogeneousNumericComparisons bool
	// EnableUnsignedLongs declares arithmetic/comparison overloads over
	// uint as a distinct type from int (always on here — celcore has no
	// "treat uint as int" legacy mode to preserve).
	EnableUnsignedLongs bool
	// EnableTimestampEpoch additionally declares timestamp(int), the
	// epoch-seconds constructor overload.
	EnableTimestampEpoch bool

	// Exactly one of these three may be set for functions; all empty means
	// "every canonical function is declared".
	IncludeFunctions []string
	ExcludeFunctions []string
	FilterFunction   func(name string) bool

	// Exactly one of these three may be set for caller-supplied identifier
	// declarations passed to Build; all empty means "every
	// supplied identifier is declared".
	IncludeIdents []string
	ExcludeIdents []string
	FilterIdent   func(name string) bool
}

// validate enforces spec §4.6's "exactly one of include/exclude/filter"
// rule, independently for functions and identifiers, and spec §7's config
// error kind ("multiple mutually exclusive filter modes set").
func (c Config) validate() *issues.Issues {
	is := issues.New()
	if n := modeCount(len(c.IncludeFunctions) > 0, len(c.ExcludeFunctions) > 0, c.FilterFunction != nil); n > 1 {
		is.ErrorNoPos(issues.CodeMutuallyExclusiveFilters,
			"at most one of IncludeFunctions, ExcludeFunctions, FilterFunction may be set")
	}
	if n := modeCount(len(c.IncludeIdents) > 0, len(c.ExcludeIdents) > 0, c.FilterIdent != nil); n > 1 {
		is.ErrorNoPos(issues.CodeMutuallyExclusiveFilters,
			"at most one of IncludeIdents, ExcludeIdents, FilterIdent may be set")
	}
	return is
}

func modeCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func (c Config) includesFunction(name string) bool {
	switch {
	case len(c.IncludeFunctions) > 0:
		return contains(c.IncludeFunctions, name)
	case len(c.ExcludeFunctions) > 0:
		return !contains(c.ExcludeFunctions, name)
	case c.FilterFunction != nil:
		return c.FilterFunction(name)
	default:
		return true
	}
}

func (c Config) includesIdent(name string) bool {
	switch {
	case len(c.IncludeIdents) > 0:
		return contains(c.IncludeIdents, name)
	case len(c.ExcludeIdents) > 0:
		return !contains(c.ExcludeIdents, name)
	case c.FilterIdent != nil:
		return c.FilterIdent(name)
	default:
		return true
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
