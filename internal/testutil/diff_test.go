package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/celcore/internal/testutil"
)

func TestUnifiedDiffNoChanges(t *testing.T) {
	assert.Empty(t, testutil.UnifiedDiff("a\nb\nc", "a\nb\nc", "sample"))
}

func TestUnifiedDiffShowsChangedLine(t *testing.T) {
	d := testutil.UnifiedDiff("a\nb\nc", "a\nX\nc", "sample")
	assert.Contains(t, d, "-b")
	assert.Contains(t, d, "+X")
}
