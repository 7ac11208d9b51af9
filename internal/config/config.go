// Package config loads optional default Options for a compilation
// environment from process environment variables and an optional .env
// file, mirroring the teacher's internal/config/config.go os.Getenv +
// typed-default pattern. This is a convenience for test harnesses and
// embedders that want environment-driven defaults; the compiler itself
// never reads the environment on its own — every caller of the root cel
// package still passes Options explicitly.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options mirrors the environment options enumerated in spec.md §6.
type Options struct {
	EnableHeterogeneousNumericComparisons bool
	EnableUnsignedLongs                   bool
	EnableTimestampEpoch                  bool
	EnableOptionalSyntax                  bool
	PopulateMacroCalls                    bool
	RetainRepeatedUnaryOperators          bool
	EnableReservedIds                     bool

	MaxExpressionCodePointSize int
	MaxParseRecursionDepth     int
	MaxParseErrorRecoveryLimit int
}

// DefaultOptions returns the spec's documented defaults: every toggle off
// except EnableUnsignedLongs (uint is always a distinct type — celcore
// carries no legacy "uint as int" mode to turn off), and the three safety
// caps set to generous but finite values.
func DefaultOptions() Options {
	return Options{
		EnableUnsignedLongs:         true,
		MaxExpressionCodePointSize:  100_000,
		MaxParseRecursionDepth:      250,
		MaxParseErrorRecoveryLimit: 30,
	}
}

// LoadOptions returns DefaultOptions overridden by any of the
// CELCORE_ENABLE_*/CELCORE_MAX_* environment variables that are set,
// first loading a .env file in the working directory if present (errors
// loading it, including its absence, are ignored — exactly the teacher's
// db/sqlite_integration_test.go usage of godotenv.Load()).
func LoadOptions() Options {
	_ = godotenv.Load()

	opts := DefaultOptions()
	loadBool("CELCORE_ENABLE_HETEROGENEOUS_NUMERIC_COMPARISONS", &opts.EnableHeterogeneousNumericComparisons)
	loadBool("CELCORE_ENABLE_UNSIGNED_LONGS", &opts.EnableUnsignedLongs)
	loadBool("CELCORE_ENABLE_TIMESTAMP_EPOCH", &opts.EnableTimestampEpoch)
	loadBool("CELCORE_ENABLE_OPTIONAL_SYNTAX", &opts.EnableOptionalSyntax)
	loadBool("CELCORE_POPULATE_MACRO_CALLS", &opts.PopulateMacroCalls)
	loadBool("CELCORE_RETAIN_REPEATED_UNARY_OPERATORS", &opts.RetainRepeatedUnaryOperators)
	loadBool("CELCORE_ENABLE_RESERVED_IDS", &opts.EnableReservedIds)

	loadInt("CELCORE_MAX_EXPRESSION_CODE_POINT_SIZE", &opts.MaxExpressionCodePointSize)
	loadInt("CELCORE_MAX_PARSE_RECURSION_DEPTH", &opts.MaxParseRecursionDepth)
	loadInt("CELCORE_MAX_PARSE_ERROR_RECOVERY_LIMIT", &opts.MaxParseErrorRecoveryLimit)

	return opts
}

func loadBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

func loadInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}
