// Package issues is the uniform diagnostic payload shared by the lexer,
// parser, checker, and standard-declarations builder: a machine-readable
// Code, a human Message, a Severity, and (when available) a source
// location. Issues accumulates them per compilation and renders the
// textual format from spec §6 on request.
//
// This mirrors the teacher's split between a sentinel-error layer (plain
// `errors.New`, for conditions callers check programmatically) and a rich
// diagnostic-payload layer (`CLIError`/`ErrorCode`, for everything a user
// reads). Sentinel errors for the handful of conditions worth checking
// with errors.Is live next to the code that raises them (e.g.
// internal/unify.ErrOccursCheck); this package is only the rich layer.
package issues

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oxhq/celcore/internal/source"
)

// Severity distinguishes a fatal issue (no AST is produced) from a warning
// (accompanies a successful AST).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a machine-readable diagnostic identifier, grouped by the error
// kinds enumerated in spec §7.
type Code string

const (
	CodeNone Code = ""

	// lex/parse
	CodeInvalidLiteral          Code = "ERR_INVALID_LITERAL"
	CodeMissingToken            Code = "ERR_MISSING_TOKEN"
	CodeReservedIdentifier      Code = "ERR_RESERVED_IDENTIFIER"
	CodeOptionalSyntaxDisabled  Code = "ERR_OPTIONAL_SYNTAX_DISABLED"
	CodeRecursionLimitExceeded  Code = "ERR_RECURSION_LIMIT"
	CodeRecoveryLimitExceeded   Code = "ERR_RECOVERY_LIMIT"
	CodeExpressionSizeExceeded  Code = "ERR_EXPRESSION_SIZE"

	// macro
	CodeMacroArgumentNotIdent Code = "ERR_MACRO_ARG_NOT_IDENT"
	CodeMacroInvalidHasArg    Code = "ERR_MACRO_INVALID_HAS_ARG"
	CodeMacroCustomError      Code = "ERR_MACRO_CUSTOM"

	// name
	CodeUndeclaredReference Code = "ERR_UNDECLARED_REFERENCE"
	CodeAmbiguousReference  Code = "ERR_AMBIGUOUS_REFERENCE"

	// type
	CodeNoMatchingOverload     Code = "ERR_NO_MATCHING_OVERLOAD"
	CodeFieldNotFound          Code = "ERR_FIELD_NOT_FOUND"
	CodeFieldTypeMismatch      Code = "ERR_FIELD_TYPE_MISMATCH"
	CodeLoopConditionNotBool   Code = "ERR_LOOP_CONDITION_NOT_BOOL"
	CodeLoopStepMismatch       Code = "ERR_LOOP_STEP_MISMATCH"
	CodeFieldAccessInvalid     Code = "ERR_FIELD_ACCESS_INVALID"
	CodeNullWherePrimitive     Code = "ERR_NULL_WHERE_PRIMITIVE_EXPECTED"
	CodeNotIterable            Code = "ERR_NOT_ITERABLE"
	CodeUndeclaredType         Code = "ERR_UNDECLARED_TYPE"

	// config
	CodeMutuallyExclusiveFilters Code = "ERR_MUTUALLY_EXCLUSIVE_FILTERS"
	CodeOverrideStandardDecl     Code = "ERR_OVERRIDE_STANDARD_DECL"
	CodeInvalidFieldMask         Code = "ERR_INVALID_FIELD_MASK"
)

// Issue is one diagnostic: a code, a message, a severity, and an optional
// location (ExprID identifies the offending node; Offset is the code-point
// position within the source, meaningful only when HasPos is true).
type Issue struct {
	Code     Code
	Severity Severity
	Message  string
	ExprID   int64
	Offset   int32
	HasPos   bool
}

// Error implements the error interface so a single Issue can be returned
// directly where an API wants one error rather than an accumulated list.
func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// Issues accumulates diagnostics for one compilation, keyed internally by
// nothing in particular — order of insertion is preserved, which is the
// order a human reading top-to-bottom expects.
type Issues struct {
	list []Issue
}

// New returns an empty Issues accumulator.
func New() *Issues {
	return &Issues{}
}

// Error records a fatal issue with a source position.
func (is *Issues) Error(code Code, exprID int64, offset int32, format string, args ...any) {
	is.list = append(is.list, Issue{
		Code: code, Severity: SeverityError, ExprID: exprID,
		Offset: offset, HasPos: true, Message: fmt.Sprintf(format, args...),
	})
}

// ErrorNoPos records a fatal issue with no known source position (e.g. a
// config error raised before any source was parsed).
func (is *Issues) ErrorNoPos(code Code, format string, args ...any) {
	is.list = append(is.list, Issue{
		Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...),
	})
}

// Warn records a non-fatal issue.
func (is *Issues) Warn(code Code, exprID int64, offset int32, format string, args ...any) {
	is.list = append(is.list, Issue{
		Code: code, Severity: SeverityWarning, ExprID: exprID,
		Offset: offset, HasPos: true, Message: fmt.Sprintf(format, args...),
	})
}

// Append merges another Issues' entries into is, preserving order.
func (is *Issues) Append(other *Issues) {
	if other == nil {
		return
	}
	is.list = append(is.list, other.list...)
}

// All returns every recorded issue, in insertion order.
func (is *Issues) All() []Issue {
	return is.list
}

// HasErrors reports whether any recorded issue has SeverityError. Per
// spec §7, a single error-severity issue means build()/check() produces no
// AST; warnings may accompany a successful AST.
func (is *Issues) HasErrors() bool {
	for _, i := range is.list {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sorted returns a copy of the issues ordered by source offset (issues
// without a position sort first), for stable rendering.
func (is *Issues) Sorted() []Issue {
	out := make([]Issue, len(is.list))
	copy(out, is.list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasPos != out[j].HasPos {
			return !out[i].HasPos
		}
		return out[i].Offset < out[j].Offset
	})
	return out
}

// Render produces the textual error format of spec §6:
//
//	ERROR: <desc>:<line>:<col+1>: <msg>
//	 | <line-snippet>
//	 | <pad>^
//
// for every issue with a known position, warnings labelled WARNING instead
// of ERROR; issues without a usable position are rendered as a bare
// "<label>: <desc>: <msg>" line.
func Render(src *source.Source, all []Issue) string {
	var b strings.Builder
	for _, issue := range all {
		label := "ERROR"
		if issue.Severity == SeverityWarning {
			label = "WARNING"
		}
		if !issue.HasPos {
			fmt.Fprintf(&b, "%s: %s: %s\n", label, src.Description(), issue.Message)
			continue
		}
		line, col, ok := src.LineColumn(issue.Offset)
		if !ok {
			fmt.Fprintf(&b, "%s: %s: %s\n", label, src.Description(), issue.Message)
			continue
		}
		fmt.Fprintf(&b, "%s: %s:%d:%d: %s\n", label, src.Description(), line, col+1, issue.Message)
		snippet := src.Snippet(line)
		fmt.Fprintf(&b, " | %s\n", snippet)
		fmt.Fprintf(&b, " | %s\n", source.CaretLine(snippet, col))
	}
	return b.String()
}
