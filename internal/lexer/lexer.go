package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/oxhq/celcore/internal/constants"
)

// Error reports a malformed token at a code-point offset into the source.
type Error struct {
	Offset int32
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

// Lexer scans a rune slice into Tokens. It holds no reference to
// internal/source directly — callers pass the already-decoded []rune
// content (Source.Content()) so this package stays free of a dependency
// on source's line-index bookkeeping, which it has no use for.
type Lexer struct {
	runes []rune
	pos   int
}

// New returns a Lexer over content. maxCodePoints enforces spec §7's
// "expression code-point size exceeds limit" cap before any scanning
// happens; pass 0 to disable the check.
func New(content []rune, maxCodePoints int) (*Lexer, error) {
	if maxCodePoints > 0 && len(content) > maxCodePoints {
		return nil, &Error{Offset: int32(maxCodePoints), Msg: fmt.Sprintf(
			"expression code point size %d exceeds limit %d", len(content), maxCodePoints)}
	}
	return &Lexer{runes: content}, nil
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos+off]
}

func (l *Lexer) at(i int) rune {
	if i >= len(l.runes) {
		return 0
	}
	return l.runes[i]
}

// Next scans and returns the next token, or a Kind: EOF token once the
// input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()
	start := l.pos
	if l.pos >= len(l.runes) {
		return Token{Kind: EOF, Offset: int32(start)}, nil
	}

	c := l.peek()
	switch {
	case c == '"' || c == '\'':
		return l.scanStringOrBytes(start, false)
	case (c == 'b' || c == 'B' || c == 'r' || c == 'R') && l.looksLikeStringPrefix():
		return l.scanStringOrBytes(start, true)
	case isIdentStart(c):
		return l.scanIdentOrKeyword(start), nil
	case c >= '0' && c <= '9':
		return l.scanNumber(start)
	default:
		return l.scanPunct(start)
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.runes) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.runes) && l.peek() != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentCont(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	i := l.pos
	for i < len(l.runes) && isIdentCont(l.runes[i]) {
		i++
	}
	text := string(l.runes[l.pos:i])
	l.pos = i
	switch text {
	case "true":
		return Token{Kind: True, Text: text, Offset: int32(start)}
	case "false":
		return Token{Kind: False, Text: text, Offset: int32(start)}
	case "null":
		return Token{Kind: Null, Text: text, Offset: int32(start)}
	case "in":
		return Token{Kind: In, Text: text, Offset: int32(start)}
	default:
		return Token{Kind: Ident, Text: text, Offset: int32(start)}
	}
}

func (l *Lexer) scanNumber(start int) (Token, error) {
	i := l.pos
	isHex := false
	if l.at(i) == '0' && (l.at(i+1) == 'x' || l.at(i+1) == 'X') {
		isHex = true
		i += 2
		for i < len(l.runes) && isHexDigit(l.runes[i]) {
			i++
		}
	} else {
		for i < len(l.runes) && unicode.IsDigit(l.runes[i]) {
			i++
		}
	}

	isDouble := false
	if !isHex {
		if l.at(i) == '.' && unicode.IsDigit(l.at(i+1)) {
			isDouble = true
			i++
			for i < len(l.runes) && unicode.IsDigit(l.runes[i]) {
				i++
			}
		}
		if l.at(i) == 'e' || l.at(i) == 'E' {
			j := i + 1
			if l.at(j) == '+' || l.at(j) == '-' {
				j++
			}
			if unicode.IsDigit(l.at(j)) {
				isDouble = true
				i = j
				for i < len(l.runes) && unicode.IsDigit(l.runes[i]) {
					i++
				}
			}
		}
	}

	isUnsigned := false
	if !isDouble && (l.at(i) == 'u' || l.at(i) == 'U') {
		isUnsigned = true
		i++
	}

	text := string(l.runes[l.pos:i])
	l.pos = i

	switch {
	case isDouble:
		if _, err := constants.DecodeDoubleLiteral(text); err != nil {
			return Token{}, &Error{Offset: int32(start), Msg: err.Error()}
		}
		return Token{Kind: Double, Text: text, Offset: int32(start)}, nil
	case isUnsigned:
		if _, err := constants.DecodeUintLiteral(text); err != nil {
			return Token{}, &Error{Offset: int32(start), Msg: err.Error()}
		}
		return Token{Kind: Uint, Text: text, Offset: int32(start)}, nil
	default:
		if _, err := constants.DecodeIntLiteral(text); err != nil {
			return Token{}, &Error{Offset: int32(start), Msg: err.Error()}
		}
		return Token{Kind: Int, Text: text, Offset: int32(start)}, nil
	}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// looksLikeStringPrefix reports whether the rune(s) at the current
// position begin a b/B/r/R-prefixed string or bytes literal, as opposed
// to a plain identifier that merely starts with one of those letters
// (e.g. `route`, `bar`).
func (l *Lexer) looksLikeStringPrefix() bool {
	i := l.pos
	for k := 0; k < 2; k++ {
		c := l.at(i)
		if c == 'b' || c == 'B' || c == 'r' || c == 'R' {
			i++
			continue
		}
		break
	}
	return l.at(i) == '"' || l.at(i) == '\''
}

func (l *Lexer) scanStringOrBytes(start int, hasPrefix bool) (Token, error) {
	i := l.pos
	if hasPrefix {
		for k := 0; k < 2; k++ {
			c := l.at(i)
			if c == 'b' || c == 'B' || c == 'r' || c == 'R' {
				i++
			} else {
				break
			}
		}
	}
	quote := l.at(i)
	triple := l.at(i+1) == quote && l.at(i+2) == quote
	delimLen := 1
	if triple {
		delimLen = 3
	}
	i += delimLen
	for {
		if i >= len(l.runes) {
			return Token{}, &Error{Offset: int32(start), Msg: "unterminated string/bytes literal"}
		}
		if l.runes[i] == '\\' {
			i += 2
			continue
		}
		if l.matchesDelimAt(i, quote, delimLen) {
			break
		}
		i++
	}
	i += delimLen

	text := string(l.runes[l.pos:i])
	l.pos = i

	// Re-derive bytes-ness from the prefix characters actually present
	// before the opening quote.
	prefixEnd := 0
	for prefixEnd < len(text) && (text[prefixEnd] == 'b' || text[prefixEnd] == 'B' || text[prefixEnd] == 'r' || text[prefixEnd] == 'R') {
		prefixEnd++
	}
	tok := Token{Offset: int32(start), Text: text}
	if strings.ContainsAny(text[:prefixEnd], "bB") {
		tok.Kind = Bytes
		decoded, err := constants.DecodeBytesLiteral(text)
		if err != nil {
			return Token{}, &Error{Offset: int32(start), Msg: err.Error()}
		}
		tok.DecodedRaw = decoded
	} else {
		tok.Kind = String
		decoded, err := constants.DecodeStringLiteral(text)
		if err != nil {
			return Token{}, &Error{Offset: int32(start), Msg: err.Error()}
		}
		tok.Decoded = decoded
	}
	return tok, nil
}

func (l *Lexer) matchesDelimAt(i int, quote rune, delimLen int) bool {
	for k := 0; k < delimLen; k++ {
		if l.at(i+k) != quote {
			return false
		}
	}
	return true
}

// multiCharPuncts is tried longest-first so e.g. "<=" is not mis-scanned
// as "<" followed by "=".
var multiCharPuncts = []string{"<=", ">=", "==", "!=", "&&", "||", ".?", "[?"}

func (l *Lexer) scanPunct(start int) (Token, error) {
	for _, p := range multiCharPuncts {
		if l.matchesAt(l.pos, p) {
			l.pos += len([]rune(p))
			return Token{Kind: Punct, Text: p, Offset: int32(start)}, nil
		}
	}
	c := l.peek()
	switch c {
	case '+', '-', '*', '/', '%', '!', '?', ':', '.', ',', '(', ')', '[', ']', '{', '}', '<', '>', '=', '&', '|':
		l.pos++
		return Token{Kind: Punct, Text: string(c), Offset: int32(start)}, nil
	default:
		l.pos++
		return Token{}, &Error{Offset: int32(start), Msg: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (l *Lexer) matchesAt(pos int, s string) bool {
	rs := []rune(s)
	if pos+len(rs) > len(l.runes) {
		return false
	}
	for i, r := range rs {
		if l.runes[pos+i] != r {
			return false
		}
	}
	return true
}
