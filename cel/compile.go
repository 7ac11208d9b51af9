package cel

import (
	"fmt"

	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/checker"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/parser"
	"github.com/oxhq/celcore/internal/source"
	"github.com/oxhq/celcore/internal/types"
	"github.com/oxhq/celcore/internal/unify"
)

// Ast is a successfully parsed and/or checked expression: the syntax tree,
// its source-position table, and — once Check has run — the per-id type
// and reference side-tables (spec §6's "Checker output"). An Ast produced
// by Parse alone has nil Types/References; Check populates them.
type Ast struct {
	Expr       *ast.Expr
	SourceInfo *ast.SourceInfo
	Types      map[int64]*types.Type
	References map[int64]*checker.Reference

	source *source.Source
}

// Parse lexes and parses text (spec §4.3), expanding standard and any
// custom macros along the way, but performs no type checking. Returns a
// *CompileError carrying every recorded issue if parsing failed outright
// (a fatal issue); recoverable syntax errors up to the configured
// recovery limit still stop short of a successful Ast.
func (e *Env) Parse(text, description string) (*Ast, []issues.Issue, error) {
	src := source.New(text, description)
	_, macroReg, buildIssues := e.rootEnv()
	if buildIssues.HasErrors() {
		return nil, nil, newCompileError(src, buildIssues.All())
	}

	tree, is := parser.Parse(src, macroReg, e.parserOpts)
	if is.HasErrors() {
		return nil, nil, newCompileError(src, is.All())
	}
	return &Ast{Expr: tree.Expr, SourceInfo: tree.Source, source: src}, is.All(), nil
}

// Check type-checks a previously parsed Ast against this Env's
// declarations, populating Types/References and returning any warnings
// alongside a successful result (spec §7: "a single result sum: Ok(ast,
// warnings) | Err(issues)").
func (e *Env) Check(parsed *Ast) (*Ast, []issues.Issue, error) {
	errSrc := parsed.source
	if errSrc == nil {
		errSrc = source.New("", parsed.SourceInfo.Description())
	}

	rootEnv, _, buildIssues := e.rootEnv()
	if buildIssues.HasErrors() {
		return nil, nil, newCompileError(errSrc, buildIssues.All())
	}

	c := checker.New(e.typeProvider, e.unifier())
	result := c.Check(parsed.Expr, parsed.SourceInfo, rootEnv)

	is := rootEnv.Errors()
	if is.HasErrors() {
		return nil, nil, newCompileError(errSrc, is.All())
	}
	return &Ast{
		Expr:       parsed.Expr,
		SourceInfo: parsed.SourceInfo,
		Types:      result.Types(),
		References: result.References(),
		source:     parsed.source,
	}, is.All(), nil
}

// Compile parses then checks text in one call, the common case for a
// caller with no intermediate need for the unchecked Ast.
func (e *Env) Compile(text, description string) (*Ast, []issues.Issue, error) {
	parsed, _, err := e.Parse(text, description)
	if err != nil {
		return nil, nil, err
	}
	return e.Check(parsed)
}

// CheckType is Check plus a caller-declared expected root type (spec §8
// scenario 4: `"{1:2u, 2:3u}"` expecting `map(int, bool)` is rejected even
// though it checks fine against no expected type at all). The inferred
// root type must assign to expected under this Env's unifier; failure
// reports a single CodeFieldTypeMismatch issue, "expected type does not
// match", at the root expression's position.
func (e *Env) CheckType(parsed *Ast, expected *types.Type) (*Ast, []issues.Issue, error) {
	checked, warnings, err := e.Check(parsed)
	if err != nil {
		return nil, nil, err
	}
	if expected == nil {
		return checked, warnings, nil
	}

	rootType := checked.Types[checked.Expr.ID]
	if _, ok, uerr := unify.Assign(rootType, expected, unify.NewSubstitution()); uerr != nil || !ok {
		offset, hasPos := checked.SourceInfo.GetOffset(checked.Expr.ID)
		issue := issues.Issue{
			Code:     issues.CodeFieldTypeMismatch,
			Severity: issues.SeverityError,
			Message:  fmt.Sprintf("expected type does not match: got %s, want %s", rootType.String(), expected.String()),
			ExprID:   checked.Expr.ID,
			Offset:   offset,
			HasPos:   hasPos,
		}
		return nil, nil, newCompileError(checked.source, []issues.Issue{issue})
	}
	return checked, warnings, nil
}

// CompileType parses then CheckTypes text in one call.
func (e *Env) CompileType(text, description string, expected *types.Type) (*Ast, []issues.Issue, error) {
	parsed, _, err := e.Parse(text, description)
	if err != nil {
		return nil, nil, err
	}
	return e.CheckType(parsed, expected)
}
