// Package testutil holds small helpers shared by _test.go files across
// packages — presently just a golden-text diff, grounded on the
// teacher's internal/util.UnifiedDiff.
package testutil

import "github.com/pmezard/go-difflib/difflib"

// UnifiedDiff renders a unified diff between want and got, for a test
// failure message that shows exactly which lines of a multi-line golden
// rendering (a diagnostic block, an AST dump) diverged instead of
// printing two opaque strings.
func UnifiedDiff(want, got, label string) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: label + " (want)",
		ToFile:   label + " (got)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}
	return text
}
