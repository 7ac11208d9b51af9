package cel

import (
	"fmt"

	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/source"
)

// CompileError aggregates every Issue (errors and warnings) from one
// Parse/Check/Compile call. Its short Error() form is the first issue's
// code and message, for callers that just want a one-line failure; Render
// reproduces the full textual format of spec §6, one entry per issue.
// This mirrors the teacher's CLIError: a short default stringification
// plus a separate, more expensive pretty-rendering method.
type CompileError struct {
	all []issues.Issue
	src *source.Source
}

func newCompileError(src *source.Source, all []issues.Issue) *CompileError {
	return &CompileError{all: all, src: src}
}

// Error implements the error interface with the first recorded issue's
// code and message ("<code>: <message>"), so a CompileError behaves like
// any other Go error at call sites that only log err.Error().
func (c *CompileError) Error() string {
	if len(c.all) == 0 {
		return "cel: compile failed"
	}
	return fmt.Sprintf("%s: %s", c.all[0].Code, c.all[0].Message)
}

// Issues returns every recorded issue (errors and warnings), in insertion
// order.
func (c *CompileError) Issues() []issues.Issue {
	return c.all
}

// Render reproduces the full multi-line textual diagnostic format of
// spec §6 (source snippet plus caret) for every issue.
func (c *CompileError) Render() string {
	return issues.Render(c.src, c.all)
}
