// Package source holds the immutable representation of CEL source text:
// the code-point content, a human-readable description, and the line-offset
// table needed to translate a code-point position into a (line, column)
// location for diagnostics.
//
// A Source is built once from input text and never mutated afterwards.
// Everything derived from it during parsing (expression positions, macro
// call records) lives in ast.SourceInfo, which holds only the Source's
// description rather than the Source itself.
package source

import (
	"strings"
)

// Source is immutable text plus the bookkeeping needed to render positions.
type Source struct {
	content     []rune
	description string
	// lineOffsets[i] is the code-point offset of the first rune of line i+1
	// (1-based lines). lineOffsets[0] is always 0.
	lineOffsets []int32
}

// New builds a Source from raw text and a description (typically a file
// name or "<input>"). Carriage returns are preserved as-is; callers that
// want CRLF normalization should normalize before constructing a Source,
// mirroring how CEL string/bytes literals normalize newlines only inside
// literal decoding (see internal/constants), not in the raw source.
func New(text, description string) *Source {
	content := []rune(text)
	offsets := []int32{0}
	for i, r := range content {
		if r == '\n' {
			offsets = append(offsets, int32(i+1))
		}
	}
	return &Source{content: content, description: description, lineOffsets: offsets}
}

// Content returns the full source text.
func (s *Source) Content() string {
	return string(s.content)
}

// Description returns the human-readable source description.
func (s *Source) Description() string {
	return s.description
}

// Len returns the number of code points in the source.
func (s *Source) Len() int {
	return len(s.content)
}

// LineOffsets returns the code-point offset of the start of each line.
// The slice is 0-indexed but represents 1-based line numbers: line N starts
// at LineOffsets()[N-1].
func (s *Source) LineOffsets() []int32 {
	return s.lineOffsets
}

// LineColumn translates a 0-based code-point offset into a 1-based line
// number and a 0-based column (both counted in code points, not bytes or
// display cells). ok is false if offset is out of [0, Len()].
func (s *Source) LineColumn(offset int32) (line, col int, ok bool) {
	if offset < 0 || int(offset) > len(s.content) {
		return 0, 0, false
	}
	// binary search for the last line offset <= offset
	lo, hi := 0, len(s.lineOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lineOffsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line = lo + 1
	col = int(offset - s.lineOffsets[lo])
	return line, col, true
}

// Offset is the inverse of LineColumn: given a 1-based line and 0-based
// column (in code points), it returns the absolute code-point offset.
func (s *Source) Offset(line, col int) (int32, bool) {
	if line < 1 || line > len(s.lineOffsets) {
		return 0, false
	}
	return s.lineOffsets[line-1] + int32(col), true
}

// Snippet returns the text of the given 1-based line, excluding the
// trailing newline. A line number one past the last line returns "".
func (s *Source) Snippet(line int) string {
	if line < 1 || line > len(s.lineOffsets) {
		return ""
	}
	start := s.lineOffsets[line-1]
	var end int32
	if line < len(s.lineOffsets) {
		end = s.lineOffsets[line] - 1 // exclude the '\n'
	} else {
		end = int32(len(s.content))
	}
	if end < start {
		end = start
	}
	return string(s.content[start:end])
}

// isWide reports whether r occupies two display cells in a typical
// monospace terminal: CJK ideographs, fullwidth forms, Hangul syllables,
// and common emoji blocks.
func isWide(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F, // Hangul Jamo
		r >= 0x2E80 && r <= 0xA4CF, // CJK radicals .. Yi
		r >= 0xAC00 && r <= 0xD7A3, // Hangul syllables
		r >= 0xF900 && r <= 0xFAFF, // CJK compatibility ideographs
		r >= 0xFF00 && r <= 0xFF60, // fullwidth forms
		r >= 0xFFE0 && r <= 0xFFE6,
		r >= 0x1F300 && r <= 0x1FAFF, // emoji / symbols
		r >= 0x20000 && r <= 0x3FFFD: // CJK extension planes
		return true
	default:
		return false
	}
}

// CaretLine renders the "padding^" caret line (without any " | " prefix)
// that the textual error format prints under a snippet (see
// internal/issues for the full "ERROR: desc:line:col: msg" wrapper).
// Column is 0-based in code points.
// Padding uses fullwidth dot/caret glyphs ahead of wide runes so the caret
// lines up visually with the offending code point.
func CaretLine(snippet string, column int) string {
	runes := []rune(snippet)
	var pad strings.Builder
	for i := 0; i < column && i < len(runes); i++ {
		if isWide(runes[i]) {
			pad.WriteRune('．')
		} else {
			pad.WriteRune('.')
		}
	}
	caret := "^"
	if column >= 0 && column < len(runes) && isWide(runes[column]) {
		caret = "＾"
	}
	return pad.String() + caret
}
