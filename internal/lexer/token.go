// Package lexer tokenizes CEL source text into the stream the parser
// consumes: identifiers, keywords, numeric/string/bytes literals, and
// operator punctuation, each carrying its code-point offset for the
// parser to hand to ast.Factory when it builds a node.
package lexer

// Kind identifies a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Uint
	Double
	String
	Bytes
	True
	False
	Null
	In // the "in" relational operator, lexically an identifier but grammatically special
	Punct
)

var kindNames = map[Kind]string{
	EOF: "EOF", Ident: "identifier", Int: "int literal", Uint: "uint literal",
	Double: "double literal", String: "string literal", Bytes: "bytes literal",
	True: "true", False: "false", Null: "null", In: "in", Punct: "punctuation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Token is one lexical unit: its kind, the raw source text it was scanned
// from (still escaped for string/bytes literals — internal/constants
// decodes it), and its code-point offset into the Source.
type Token struct {
	Kind Kind
	Text string
	// Decoded carries the already-unescaped literal form for String and
	// Bytes tokens — decoding happens during lexing so a malformed escape
	// is reported at the literal's own offset rather than resurfacing
	// later as a generic parse error.
	Decoded    string
	DecodedRaw []byte
	Offset     int32
}

// reservedIdentifiers is the keyword set of spec §4.3 that may not be used
// as a plain identifier when reservation is enabled.
var reservedIdentifiers = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"false": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "let": true, "loop": true, "namespace": true, "null": true,
	"package": true, "return": true, "true": true, "var": true, "void": true,
	"while": true,
}

// IsReserved reports whether ident is in the reserved-identifier set.
func IsReserved(ident string) bool {
	return reservedIdentifiers[ident]
}
